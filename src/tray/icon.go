package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"runtime"
)

const iconSize = 16

var (
	selectionBlue = color.RGBA{R: 0x00, G: 0x78, B: 0xd4, A: 0xff}
	handleGrey    = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// drawIcon paints a dashed selection rectangle with a solid corner handle.
func drawIcon() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	const lo, hi = 2, iconSize - 3
	for i := lo; i <= hi; i++ {
		if (i-lo)%3 == 2 {
			continue
		}
		img.SetRGBA(i, lo, selectionBlue)
		img.SetRGBA(i, hi, selectionBlue)
		img.SetRGBA(lo, i, selectionBlue)
		img.SetRGBA(hi, i, selectionBlue)
	}
	for y := hi - 1; y <= hi+1; y++ {
		for x := hi - 1; x <= hi+1; x++ {
			img.SetRGBA(x, y, handleGrey)
		}
	}
	return img
}

// iconPNG returns the icon encoded as PNG.
func iconPNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, drawIcon()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrapICO embeds a PNG image in a single-entry ICO container.
func wrapICO(pngData []byte, size int) []byte {
	var buf bytes.Buffer
	// ICONDIR
	_ = binary.Write(&buf, binary.LittleEndian, []uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.WriteByte(byte(size))
	buf.WriteByte(byte(size))
	buf.WriteByte(0)
	buf.WriteByte(0)
	_ = binary.Write(&buf, binary.LittleEndian, []uint16{1, 32})
	_ = binary.Write(&buf, binary.LittleEndian, []uint32{uint32(len(pngData)), 6 + 16})
	buf.Write(pngData)
	return buf.Bytes()
}

// Icon returns the tray icon in the format systray expects on this platform.
func Icon() ([]byte, error) {
	data, err := iconPNG()
	if err != nil {
		return nil, err
	}
	if runtime.GOOS == "windows" {
		return wrapICO(data, iconSize), nil
	}
	return data, nil
}
