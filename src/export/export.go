// Package export turns a captured frame and a selection into the final
// artifact: crop, optional scale, then a file or the clipboard.
package export

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"log"
	"path/filepath"
	"time"

	"cleave/src/atomicfile"
	"cleave/src/clipboard"
	"cleave/src/selection"
)

// DefaultBaseName is the filename prefix used when none is configured.
const DefaultBaseName = "cleave"

// TimestampLayout is the local-time layout embedded in generated filenames.
const TimestampLayout = "2006-01-02-15-04-05"

// FileWriter writes a file by streaming into fill.
type FileWriter interface {
	WriteFile(path string, fill func(w io.Writer) error) error
}

// ClipboardWriter places a PNG image on the clipboard.
type ClipboardWriter interface {
	WriteImage(png []byte) error
}

// Options controls an export.
type Options struct {
	// OutputDir selects the file destination. Empty means clipboard.
	OutputDir string
	Format    Format
	// BaseName is the filename prefix, DefaultBaseName when empty.
	BaseName string
	// Scale is applied after cropping when greater than zero.
	Scale  float64
	Filter Filter
}

// Result describes what an export produced.
type Result struct {
	Path   string
	Size   image.Point
	Copied bool
}

// Pipeline runs exports. The zero value writes files atomically and uses the
// system clipboard.
type Pipeline struct {
	Options   Options
	Files     FileWriter
	Clipboard ClipboardWriter
	// Now returns the export time, time.Now when nil.
	Now func() time.Time
}

// Export crops frame to rect, scales it and delivers it. Clipboard failures
// are logged and reported through Result.Copied; file failures are returned.
func (p *Pipeline) Export(frame *image.RGBA, rect selection.Rect) (Result, error) {
	opts := p.Options
	img, err := Crop(frame, rect)
	if err != nil {
		return Result{}, err
	}
	if opts.Scale > 0 {
		img = Resize(img, opts.Scale, opts.Filter)
	}
	res := Result{Size: img.Bounds().Size()}

	if opts.OutputDir == "" {
		if err := p.toClipboard(img); err != nil {
			log.Printf("Clipboard export failed: %v", err)
			return res, nil
		}
		res.Copied = true
		log.Printf("Copied %dx%d image to clipboard", res.Size.X, res.Size.Y)
		return res, nil
	}

	path := OutputPath(opts.OutputDir, opts.BaseName, opts.Format, p.now())
	files := p.Files
	if files == nil {
		files = AtomicFiles{}
	}
	err = files.WriteFile(path, func(w io.Writer) error {
		return opts.Format.Encode(w, img)
	})
	if err != nil {
		return res, fmt.Errorf("failed to save %s: %w", path, err)
	}
	res.Path = path
	log.Printf("Saved %dx%d %s image to %s", res.Size.X, res.Size.Y, opts.Format, path)
	return res, nil
}

func (p *Pipeline) toClipboard(img image.Image) error {
	var buf bytes.Buffer
	if err := PNG.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode clipboard image: %w", err)
	}
	cb := p.Clipboard
	if cb == nil {
		cb = SystemClipboard{}
	}
	return cb.WriteImage(buf.Bytes())
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// OutputPath builds "<dir>/<base>-<timestamp>.<ext>".
func OutputPath(dir, base string, f Format, t time.Time) string {
	if base == "" {
		base = DefaultBaseName
	}
	name := fmt.Sprintf("%s-%s.%s", base, t.Local().Format(TimestampLayout), f.Ext())
	return filepath.Join(dir, name)
}

// AtomicFiles writes through a temporary file and rename.
type AtomicFiles struct{}

// WriteFile implements FileWriter.
func (AtomicFiles) WriteFile(path string, fill func(w io.Writer) error) error {
	return atomicfile.Write(path, 0o644, fill)
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// WriteImage implements ClipboardWriter.
func (SystemClipboard) WriteImage(png []byte) error {
	return clipboard.WriteImage(png)
}
