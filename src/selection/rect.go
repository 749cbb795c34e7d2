// Package selection implements the interactive selection state machine:
// pointer drags produce a rectangle which arrow keys then nudge under one of
// three editing modes.
package selection

import (
	"fmt"
	"math"
)

// Rect is an anchor plus a signed extent in screen pixels. W and H are
// negative when the far edge lies left of or above the anchor.
type Rect struct {
	X, Y, W, H float64
}

// Normalize returns the same area with a non-negative extent.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Empty reports whether r covers no area.
func (r Rect) Empty() bool { return r.W == 0 || r.H == 0 }

func (r Rect) String() string {
	return fmt.Sprintf("{x:%g y:%g w:%g h:%g}", r.X, r.Y, r.W, r.H)
}

func clamp(v, hi float64) float64 {
	return math.Max(0, math.Min(v, hi))
}
