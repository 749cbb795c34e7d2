// Package eventloop drives a selection engine from a stream of input events
// on a single goroutine and reports the confirmed rectangle.
package eventloop

import (
	"context"
	"errors"
	"log"

	"cleave/src/selection"
)

// ErrCancelled is returned when the user closes the session without
// confirming a selection.
var ErrCancelled = errors.New("selection cancelled")

// Outcome is the result of handling a single event.
type Outcome int

const (
	// Continue keeps the session open.
	Continue Outcome = iota
	// Confirmed means the committed selection should be exported.
	Confirmed
	// Cancelled means the session should close without exporting.
	Cancelled
)

// Loop is the single-threaded owner of a selection engine.
type Loop struct {
	engine   *selection.Engine
	onChange func(selection.Snapshot)
}

// New creates a loop around engine. onChange, when non-nil, is called after
// every event that may have changed the state, typically to request a redraw.
func New(engine *selection.Engine, onChange func(selection.Snapshot)) *Loop {
	return &Loop{engine: engine, onChange: onChange}
}

// Engine returns the engine owned by the loop.
func (l *Loop) Engine() *selection.Engine { return l.engine }

// Handle applies ev to the engine.
func (l *Loop) Handle(ev Event) Outcome {
	e := l.engine
	out := Continue

	switch ev := ev.(type) {
	case PointerMoved:
		e.PointerMove(ev.X, ev.Y)
	case PointerButton:
		if ev.Pressed {
			e.PointerPress(ev.Button, ev.X, ev.Y)
		} else {
			e.PointerMove(ev.X, ev.Y)
			e.PointerRelease(ev.Button)
		}
	case Key:
		if !ev.Pressed {
			e.KeyUp(ev.Key)
			break
		}
		switch e.KeyDown(ev.Key) {
		case selection.Confirm:
			if _, ok := e.Selection(); ok {
				out = Confirmed
			} else {
				log.Printf("No selection to crop")
			}
		case selection.Quit:
			out = Cancelled
		}
	case Resized:
		e.SetViewport(ev.Width, ev.Height)
	case Closed:
		out = Cancelled
	}

	if l.onChange != nil {
		l.onChange(e.Snapshot())
	}
	return out
}

// Run consumes events until the selection is confirmed, the session is
// cancelled, the channel closes or ctx is done.
func (l *Loop) Run(ctx context.Context, events <-chan Event) (selection.Rect, error) {
	for {
		select {
		case <-ctx.Done():
			return selection.Rect{}, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return selection.Rect{}, ErrCancelled
			}
			switch l.Handle(ev) {
			case Confirmed:
				rect, _ := l.engine.Selection()
				return rect, nil
			case Cancelled:
				return selection.Rect{}, ErrCancelled
			}
		}
	}
}
