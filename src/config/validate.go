package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Region is an explicit capture rectangle given on the command line.
type Region struct {
	X, Y, W, H float64
}

// ParseRegion parses "x,y,width,height".
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, errors.New("region must be in format: x,y,width,height")
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Region{}, fmt.Errorf("invalid region format: %q", s)
		}
		v[i] = f
	}
	return Region{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}

// CaptureRequest is a cleave invocation after flags and environment have
// been merged.
type CaptureRequest struct {
	MonitorList bool
	OutputDir   string
	ImageFormat string
	Filename    string
	Region      *Region
	// ScaleSet reports whether --scale was given. Scale is only checked then.
	ScaleSet    bool
	Scale       float64
	Delay       time.Duration

	// DaemonHotkeySet reports whether --daemon-hotkey was given at all.
	DaemonHotkeySet bool
	DaemonHotkey    string
	Persistent      bool
}

// Validate rejects option combinations that cannot be honoured.
func (r CaptureRequest) Validate() error {
	if r.MonitorList && (r.OutputDir != "" || r.ImageFormat != "" || r.Filename != "" ||
		r.Region != nil || r.ScaleSet || r.DaemonHotkeySet) {
		return errors.New("monitor list option cannot be used with other options")
	}
	if r.ScaleSet && r.Scale <= 0 {
		return errors.New("scale factor must be greater than 0")
	}
	if r.Region != nil && (r.Region.W == 0 || r.Region.H == 0) {
		return errors.New("region width and height must be greater than 0")
	}
	if (r.ImageFormat != "" || r.Filename != "") && r.OutputDir == "" {
		return errors.New("output format and filename are only used when an output directory is provided")
	}
	if r.Persistent && !r.DaemonHotkeySet {
		return errors.New("persistent daemon mode can only be used with a daemon hotkey")
	}
	if r.DaemonHotkeySet && r.Delay > 0 {
		return errors.New("delay cannot be used with a daemon hotkey")
	}
	if r.DaemonHotkeySet && strings.TrimSpace(r.DaemonHotkey) == "" {
		return errors.New("hotkey cannot be empty")
	}
	return nil
}
