package export

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output image format.
type Format int

const (
	PNG Format = iota
	JPEG
	GIF
	BMP
	TIFF
)

var formatNames = map[Format]string{
	PNG:  "png",
	JPEG: "jpeg",
	GIF:  "gif",
	BMP:  "bmp",
	TIFF: "tiff",
}

var formatExts = map[Format]string{
	PNG:  "png",
	JPEG: "jpg",
	GIF:  "gif",
	BMP:  "bmp",
	TIFF: "tif",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string { return formatExts[f] }

// ParseFormat parses a format name. An empty string selects PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "bmp":
		return BMP, nil
	case "tiff", "tif":
		return TIFF, nil
	case "webp", "ico":
		return PNG, fmt.Errorf("image format %q has no encoder available", s)
	}
	return PNG, fmt.Errorf("invalid image format %q (supported: bmp, gif, jpeg, png, tiff)", s)
}

// Encode writes img to w in format f.
func (f Format) Encode(w io.Writer, img image.Image) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case GIF:
		return gif.Encode(w, img, nil)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unknown image format %v", f)
}
