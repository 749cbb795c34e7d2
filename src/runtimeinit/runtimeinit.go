// Package runtimeinit performs the start-up steps shared by the cleave
// binaries.
package runtimeinit

import (
	"fmt"
	"log"

	"cleave/src/config"
	"cleave/src/logutil"
	"cleave/src/screenshot"
)

type Options struct {
	LoadOptions config.LoadOptions
	// LogName selects the log file, e.g. "cleave" or "cleave-daemon".
	LogName string
	// SetupLogging overrides logutil.Setup.
	SetupLogging func(enableFileLogging bool, name string)
}

func Bootstrap(opts Options) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	setup := opts.SetupLogging
	if setup == nil {
		setup = logutil.Setup
	}
	setup(cfg.EnableFileLogging, opts.LogName)

	screenshot.EnableDPIAwareness()

	log.Printf("%s starting (hotkey %s, backend %s, handoff %s)",
		opts.LogName, logutil.Sanitize(cfg.Hotkey), cfg.TriggerBackend, cfg.Handoff)
	return cfg, nil
}
