package export

import (
	"errors"
	"image"
	"math"

	"golang.org/x/image/draw"

	"cleave/src/selection"
)

// ErrEmptyRegion is returned when the crop rectangle does not overlap the
// frame.
var ErrEmptyRegion = errors.New("selected region is empty")

// CropBounds converts a selection rectangle into pixel bounds inside frame.
// The sign is normalized first, then the origin is rounded up and the extent
// rounded down so the crop never reaches past the selection.
func CropBounds(frame image.Rectangle, r selection.Rect) (image.Rectangle, error) {
	r = r.Normalize()
	x := int(math.Ceil(r.X))
	y := int(math.Ceil(r.Y))
	w := int(math.Floor(r.W))
	h := int(math.Floor(r.H))

	b := image.Rect(x, y, x+w, y+h).Add(frame.Min).Intersect(frame)
	if b.Empty() {
		return image.Rectangle{}, ErrEmptyRegion
	}
	return b, nil
}

// Crop copies the selected part of frame into a new image anchored at (0,0).
func Crop(frame *image.RGBA, r selection.Rect) (*image.RGBA, error) {
	b, err := CropBounds(frame.Bounds(), r)
	if err != nil {
		return nil, err
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), frame, b.Min, draw.Src)
	return out, nil
}

// Resize scales img by factor using filter. Dimensions are rounded to the
// nearest pixel and never drop below one.
func Resize(img *image.RGBA, factor float64, filter Filter) *image.RGBA {
	b := img.Bounds()
	w := int(math.Max(1, math.Round(float64(b.Dx())*factor)))
	h := int(math.Max(1, math.Round(float64(b.Dy())*factor)))
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	filter.interpolator().Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}
