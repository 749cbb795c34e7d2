package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/exp/shiny/screen"

	"cleave/src/selection"
)

const borderWidth = 1

var (
	shade = color.NRGBA{A: 0x80}

	modeColors = map[selection.Mode]color.Color{
		selection.Move:          color.RGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0xff},
		selection.Resize:        color.RGBA{R: 0x10, G: 0xb0, B: 0x40, A: 0xff},
		selection.InverseResize: color.RGBA{R: 0xe0, G: 0x80, B: 0x00, A: 0xff},
	}
)

// render paints the frame, shades everything outside the current rectangle
// and outlines it in the color of the editing mode.
func render(w screen.Window, tex screen.Texture, tr translator, sn selection.Snapshot) {
	win := image.Rectangle{Max: tr.window}
	w.Scale(win, tex, tex.Bounds(), draw.Src, nil)

	r := sn.Drag
	if r == nil {
		r = sn.Selection
	}
	if r == nil {
		w.Fill(win, shade, draw.Over)
		return
	}

	sel := tr.toWindow(*r).Intersect(win)
	for _, part := range outside(win, sel) {
		w.Fill(part, shade, draw.Over)
	}
	c := modeColors[sn.Mode]
	for _, edge := range border(sel, borderWidth) {
		w.Fill(edge, c, draw.Src)
	}
}

// outside returns the parts of win not covered by sel.
func outside(win, sel image.Rectangle) []image.Rectangle {
	if sel.Empty() {
		return []image.Rectangle{win}
	}
	parts := []image.Rectangle{
		image.Rect(win.Min.X, win.Min.Y, win.Max.X, sel.Min.Y),
		image.Rect(win.Min.X, sel.Max.Y, win.Max.X, win.Max.Y),
		image.Rect(win.Min.X, sel.Min.Y, sel.Min.X, sel.Max.Y),
		image.Rect(sel.Max.X, sel.Min.Y, win.Max.X, sel.Max.Y),
	}
	out := parts[:0]
	for _, p := range parts {
		if !p.Empty() {
			out = append(out, p)
		}
	}
	return out
}

// border returns the four edges of r, each width pixels thick, drawn inside r.
func border(r image.Rectangle, width int) []image.Rectangle {
	if r.Empty() {
		return nil
	}
	return []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width).Intersect(r),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y).Intersect(r),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y).Intersect(r),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y).Intersect(r),
	}
}
