package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"cleave/src/selection"
)

func testFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	return img
}

func TestCropBounds(t *testing.T) {
	frame := image.Rect(0, 0, 100, 50)
	tests := []struct {
		name string
		rect selection.Rect
		want image.Rectangle
	}{
		{"rounding", selection.Rect{X: 10.4, Y: 10.6, W: 19.7, H: 19.2}, image.Rect(11, 11, 30, 30)},
		{"negative extent", selection.Rect{X: 30, Y: 30, W: -10, H: -20}, image.Rect(20, 10, 30, 30)},
		{"clipped", selection.Rect{X: 90, Y: 40, W: 50, H: 50}, image.Rect(90, 40, 100, 50)},
		{"negative origin", selection.Rect{X: -5, Y: -5, W: 10, H: 10}, image.Rect(0, 0, 5, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CropBounds(frame, tt.rect)
			if err != nil {
				t.Fatalf("CropBounds() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CropBounds(%v) = %v, expected %v", tt.rect, got, tt.want)
			}
		})
	}
}

func TestCropEmpty(t *testing.T) {
	frame := testFrame(10, 10)
	for _, r := range []selection.Rect{
		{X: 1, Y: 1, W: 0.5, H: 4},
		{X: 20, Y: 20, W: 5, H: 5},
		{},
	} {
		if _, err := Crop(frame, r); !errors.Is(err, ErrEmptyRegion) {
			t.Errorf("Crop(%v) error = %v, expected ErrEmptyRegion", r, err)
		}
	}
}

func TestCropCopiesPixels(t *testing.T) {
	frame := testFrame(40, 40)
	img, err := Crop(frame, selection.Rect{X: 10.4, Y: 10.6, W: 19.7, H: 19.2})
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 19, 19) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got.R != 11 || got.G != 11 {
		t.Errorf("origin pixel = %v, expected source (11,11)", got)
	}
}

func TestResize(t *testing.T) {
	src := testFrame(10, 4)
	for _, f := range []Filter{Nearest, Triangle, CatmullRom, Gaussian, Lanczos3} {
		t.Run(f.String(), func(t *testing.T) {
			got := Resize(src, 1.25, f)
			if got.Bounds().Size() != image.Pt(13, 5) {
				t.Errorf("size = %v, expected 13x5", got.Bounds().Size())
			}
		})
	}
	if got := Resize(src, 0.01, Nearest); got.Bounds().Size() != image.Pt(1, 1) {
		t.Errorf("tiny scale size = %v, expected 1x1", got.Bounds().Size())
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		ext     string
		wantErr bool
	}{
		{"", PNG, "png", false},
		{"PNG", PNG, "png", false},
		{"jpeg", JPEG, "jpg", false},
		{"gif", GIF, "gif", false},
		{"bmp", BMP, "bmp", false},
		{"tiff", TIFF, "tif", false},
		{"webp", PNG, "", true},
		{"xcf", PNG, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if err == nil && (got != tt.want || got.Ext() != tt.ext) {
				t.Errorf("ParseFormat(%q) = %v (.%s), expected %v (.%s)", tt.in, got, got.Ext(), tt.want, tt.ext)
			}
		})
	}
}

func TestFormatsEncode(t *testing.T) {
	img := testFrame(4, 4)
	for f := range formatNames {
		var buf bytes.Buffer
		if err := f.Encode(&buf, img); err != nil {
			t.Errorf("%v encode error: %v", f, err)
		}
		if buf.Len() == 0 {
			t.Errorf("%v produced no bytes", f)
		}
	}
}

func TestParseFilter(t *testing.T) {
	for _, name := range []string{"Nearest", "triangle", "CATMULLROM", "Gaussian", "lanczos3"} {
		if _, err := ParseFilter(name); err != nil {
			t.Errorf("ParseFilter(%q) error: %v", name, err)
		}
	}
	if f, _ := ParseFilter(""); f != Nearest {
		t.Errorf("default filter = %v, expected Nearest", f)
	}
	if _, err := ParseFilter("bicubic"); err == nil {
		t.Error("expected error for unknown filter")
	}
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
	got := OutputPath("shots", "", JPEG, now)
	want := filepath.Join("shots", "cleave-2024-03-09-14-05-07.jpg")
	if got != want {
		t.Errorf("OutputPath() = %q, expected %q", got, want)
	}
	if got := OutputPath("out", "desk", PNG, now); filepath.Base(got) != "desk-2024-03-09-14-05-07.png" {
		t.Errorf("OutputPath() with base = %q", got)
	}
}

func TestExportToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "captures")
	p := &Pipeline{Options: Options{OutputDir: dir, Scale: 2}}

	res, err := p.Export(testFrame(50, 50), selection.Rect{X: 5, Y: 5, W: 10, H: 8})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if res.Size != image.Pt(20, 16) || res.Copied {
		t.Errorf("Result = %+v", res)
	}
	if ok, _ := regexp.MatchString(`^cleave-\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}\.png$`, filepath.Base(res.Path)); !ok {
		t.Errorf("unexpected filename %q", filepath.Base(res.Path))
	}

	f, err := os.Open(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode saved file: %v", err)
	}
	if img.Bounds().Size() != image.Pt(20, 16) {
		t.Errorf("saved size = %v", img.Bounds().Size())
	}
}

func TestClipboardReceivesPNG(t *testing.T) {
	cb := &fakeClipboard{}
	p := &Pipeline{Clipboard: cb}
	res, err := p.Export(testFrame(20, 20), selection.Rect{X: 3, Y: 2, W: -3, H: -2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Size != image.Pt(3, 2) || !res.Copied {
		t.Errorf("Result = %+v, expected 3x2 copied", res)
	}
	img, err := png.Decode(bytes.NewReader(cb.data))
	if err != nil {
		t.Fatalf("clipboard payload is not PNG: %v", err)
	}
	if img.Bounds().Size() != image.Pt(3, 2) {
		t.Errorf("clipboard image size = %v", img.Bounds().Size())
	}
}

func TestClipboardErrorIsSwallowed(t *testing.T) {
	p := &Pipeline{Clipboard: &fakeClipboard{err: errors.New("no display")}}
	res, err := p.Export(testFrame(10, 10), selection.Rect{X: 1, Y: 1, W: 4, H: 4})
	if err != nil {
		t.Fatalf("Export() error = %v, expected nil", err)
	}
	if res.Copied {
		t.Error("Copied = true after clipboard failure")
	}
}

func TestFileErrorIsReturned(t *testing.T) {
	boom := errors.New("disk full")
	p := &Pipeline{
		Options: Options{OutputDir: t.TempDir()},
		Files:   fileFunc(func(string, func(io.Writer) error) error { return boom }),
	}
	if _, err := p.Export(testFrame(10, 10), selection.Rect{W: 4, H: 4}); !errors.Is(err, boom) {
		t.Fatalf("Export() error = %v, expected %v", err, boom)
	}
}

func TestEmptyRegionIsReturned(t *testing.T) {
	p := &Pipeline{Clipboard: &fakeClipboard{}}
	if _, err := p.Export(testFrame(10, 10), selection.Rect{X: 3, Y: 3}); !errors.Is(err, ErrEmptyRegion) {
		t.Fatalf("Export() error = %v, expected ErrEmptyRegion", err)
	}
}

type fakeClipboard struct {
	data []byte
	err  error
}

func (f *fakeClipboard) WriteImage(png []byte) error {
	f.data = png
	return f.err
}

type fileFunc func(path string, fill func(io.Writer) error) error

func (f fileFunc) WriteFile(path string, fill func(io.Writer) error) error { return f(path, fill) }
