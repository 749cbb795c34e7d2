package eventloop

import (
	"cleave/src/keycode"
	"cleave/src/selection"
)

// Event is an input event delivered to the selection loop.
type Event interface {
	isEvent()
}

// PointerMoved reports the pointer position in frame pixels.
type PointerMoved struct {
	X, Y float64
}

// PointerButton reports a button edge at a position in frame pixels.
type PointerButton struct {
	Button  selection.Button
	Pressed bool
	X, Y    float64
}

// Key reports a key edge.
type Key struct {
	Key     keycode.Key
	Pressed bool
}

// Resized reports the viewport size in frame pixels.
type Resized struct {
	Width, Height float64
}

// Closed reports that the window was closed by the user or the system.
type Closed struct{}

func (PointerMoved) isEvent()  {}
func (PointerButton) isEvent() {}
func (Key) isEvent()           {}
func (Resized) isEvent()       {}
func (Closed) isEvent()        {}
