// Package screenshot captures frames from the attached displays.
package screenshot

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/kbinani/screenshot"
)

const (
	// PrimaryMonitor selects the primary display.
	PrimaryMonitor = -1
	// AllMonitors selects the bounding box of every display.
	AllMonitors = -2
)

// ErrNoDisplays is returned when no active display is found.
var ErrNoDisplays = errors.New("no active displays found")

// Monitor describes an active display.
type Monitor struct {
	Index   int
	Bounds  image.Rectangle
	Primary bool
}

func (m Monitor) String() string {
	s := fmt.Sprintf("%d: %dx%d at (%d,%d)", m.Index, m.Bounds.Dx(), m.Bounds.Dy(), m.Bounds.Min.X, m.Bounds.Min.Y)
	if m.Primary {
		s += " (primary)"
	}
	return s
}

// Monitors lists the active displays. Display 0 is the primary one.
func Monitors() ([]Monitor, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, ErrNoDisplays
	}
	monitors := make([]Monitor, 0, n)
	for i := 0; i < n; i++ {
		monitors = append(monitors, Monitor{
			Index:   i,
			Bounds:  screenshot.GetDisplayBounds(i),
			Primary: i == 0,
		})
	}
	return monitors, nil
}

// resolveMonitor picks the display to capture. Unknown indices fall back to
// the primary display.
func resolveMonitor(monitors []Monitor, index int) (Monitor, error) {
	if len(monitors) == 0 {
		return Monitor{}, ErrNoDisplays
	}
	for _, m := range monitors {
		if m.Index == index {
			return m, nil
		}
	}
	if index != PrimaryMonitor {
		log.Printf("Monitor %d not found, using primary display", index)
	}
	for _, m := range monitors {
		if m.Primary {
			return m, nil
		}
	}
	return monitors[0], nil
}

// Capture captures the whole of one display. Pass PrimaryMonitor for the
// primary display or AllMonitors for the whole virtual screen. The returned
// frame has its origin at (0,0).
func Capture(monitor int) (*image.RGBA, error) {
	if monitor == AllMonitors {
		return CaptureAll()
	}
	monitors, err := Monitors()
	if err != nil {
		return nil, err
	}
	m, err := resolveMonitor(monitors, monitor)
	if err != nil {
		return nil, err
	}
	img, err := screenshot.CaptureRect(m.Bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display %d: %w", m.Index, err)
	}
	log.Printf("Captured display %d (%dx%d)", m.Index, img.Bounds().Dx(), img.Bounds().Dy())
	return rebase(img), nil
}

// CaptureAll captures the union of every active display.
func CaptureAll() (*image.RGBA, error) {
	monitors, err := Monitors()
	if err != nil {
		return nil, err
	}
	union := monitors[0].Bounds
	for _, m := range monitors[1:] {
		union = union.Union(m.Bounds)
	}
	img, err := screenshot.CaptureRect(union)
	if err != nil {
		return nil, fmt.Errorf("failed to capture virtual screen: %w", err)
	}
	return rebase(img), nil
}

// rebase shifts img so its bounds start at (0,0), sharing the pixel data.
func rebase(img *image.RGBA) *image.RGBA {
	if img.Rect.Min == (image.Point{}) {
		return img
	}
	out := *img
	out.Rect = img.Rect.Sub(img.Rect.Min)
	return &out
}
