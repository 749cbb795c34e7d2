// Package session runs one capture: wait, grab a frame, let the user select
// a region and hand both to the export pipeline.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"cleave/src/eventloop"
	"cleave/src/export"
	"cleave/src/selection"
)

// ErrSelectionCancelled is returned when the user dismisses the overlay.
var ErrSelectionCancelled = eventloop.ErrCancelled

// CaptureFunc grabs a frame of the given monitor.
type CaptureFunc func(monitor int) (*image.RGBA, error)

// SelectFunc lets the user pick a rectangle of frame.
type SelectFunc func(ctx context.Context, frame *image.RGBA) (selection.Rect, error)

// Exporter delivers a frame cropped to a rectangle.
type Exporter interface {
	Export(frame *image.RGBA, rect selection.Rect) (export.Result, error)
}

type Options struct {
	Monitor int
	// Delay is waited before the frame is captured.
	Delay   time.Duration
	Capture CaptureFunc
	// Select is not called when Region is set.
	Select   SelectFunc
	Region   *selection.Rect
	Exporter Exporter
}

func Execute(ctx context.Context, opts Options) (export.Result, error) {
	if opts.Capture == nil {
		return export.Result{}, errors.New("Capture is required")
	}
	if opts.Exporter == nil {
		return export.Result{}, errors.New("Exporter is required")
	}
	if opts.Region == nil && opts.Select == nil {
		return export.Result{}, errors.New("Select is required without a region")
	}

	if opts.Delay > 0 {
		log.Printf("Waiting %v before capture", opts.Delay)
		t := time.NewTimer(opts.Delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return export.Result{}, ctx.Err()
		case <-t.C:
		}
	}

	frame, err := opts.Capture(opts.Monitor)
	if err != nil {
		return export.Result{}, fmt.Errorf("failed to capture screen: %w", err)
	}
	log.Printf("Captured %dx%d frame", frame.Bounds().Dx(), frame.Bounds().Dy())

	var rect selection.Rect
	if opts.Region != nil {
		rect = *opts.Region
		log.Printf("Using region %v", rect)
	} else {
		rect, err = opts.Select(ctx, frame)
		if err != nil {
			return export.Result{}, err
		}
		log.Printf("Selected %v", rect)
	}

	return opts.Exporter.Export(frame, rect)
}
