package session

import (
	"fmt"
	"log"
	"os"

	"cleave/src/clipboard"
	"cleave/src/config"
	"cleave/src/export"
	"cleave/src/overlay"
	"cleave/src/screenshot"
	"cleave/src/selection"
)

// initClipboard is replaced in tests.
var initClipboard = clipboard.Init

// FromConfig builds the options of an interactive capture from cfg. It
// prepares the destination: the output directory is created, or the
// clipboard initialized when there is none. A clipboard that cannot be
// initialized is logged and the export reports Copied=false.
func FromConfig(cfg *config.Config) (Options, error) {
	format, err := export.ParseFormat(cfg.ImageFormat)
	if err != nil {
		return Options{}, err
	}
	filter, err := export.ParseFilter(cfg.Filter)
	if err != nil {
		return Options{}, err
	}
	mode, err := selection.ParseMode(cfg.SelectionMode)
	if err != nil {
		return Options{}, err
	}
	if cfg.Scale < 0 {
		return Options{}, fmt.Errorf("scale factor must be greater than 0, got %g", cfg.Scale)
	}

	if cfg.OutputDir == "" {
		if err := initClipboard(); err != nil {
			log.Printf("Clipboard unavailable, capture will not be copied: %v", err)
		}
	} else if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Options{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	return Options{
		Monitor: cfg.Monitor,
		Delay:   cfg.Delay,
		Capture: screenshot.Capture,
		Select:  overlay.Selector{Mode: mode}.Select,
		Exporter: &export.Pipeline{Options: export.Options{
			OutputDir: cfg.OutputDir,
			Format:    format,
			BaseName:  cfg.Filename,
			Scale:     cfg.Scale,
			Filter:    filter,
		}},
	}, nil
}
