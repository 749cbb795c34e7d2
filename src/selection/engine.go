package selection

import (
	"log"

	"cleave/src/keycode"
)

// Phase is the lifecycle position of the engine.
type Phase int

const (
	Idle Phase = iota
	Dragging
	Committed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Committed:
		return "committed"
	default:
		return "unknown"
	}
}

// Command is what a key press asks the surrounding session to do.
type Command int

const (
	// None means the key was consumed or ignored by the engine.
	None Command = iota
	// Confirm asks the session to export the current selection.
	Confirm
	// Quit asks the session to close without exporting.
	Quit
)

// Snapshot is a copy of the engine state for rendering.
type Snapshot struct {
	Phase     Phase
	Drag      *Rect
	Selection *Rect
	Mode      Mode
}

// Engine owns the selection state. It is not safe for concurrent use; the
// session goroutine is its only caller.
type Engine struct {
	drag      *Rect
	selection *Rect
	mode      Mode

	px, py float64

	width, height float64
	haveViewport  bool

	shiftHeld   bool
	controlHeld bool
}

// NewEngine returns an idle engine starting in the given mode.
func NewEngine(mode Mode) *Engine {
	return &Engine{mode: mode}
}

// SetViewport records the screen size used to clamp nudges. Nudges before
// the first call are ignored.
func (e *Engine) SetViewport(width, height float64) {
	e.width, e.height = width, height
	e.haveViewport = true
}

// Mode returns the current editing mode.
func (e *Engine) Mode() Mode { return e.mode }

// Phase reports the lifecycle phase.
func (e *Engine) Phase() Phase {
	switch {
	case e.drag != nil:
		return Dragging
	case e.selection != nil:
		return Committed
	default:
		return Idle
	}
}

// Selection returns the committed selection.
func (e *Engine) Selection() (Rect, bool) {
	if e.selection == nil {
		return Rect{}, false
	}
	return *e.selection, true
}

// Snapshot returns a copy of the state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{Phase: e.Phase(), Mode: e.mode}
	if e.drag != nil {
		d := *e.drag
		s.Drag = &d
	}
	if e.selection != nil {
		sel := *e.selection
		s.Selection = &sel
	}
	return s
}

// Pointer returns the last known pointer position.
func (e *Engine) Pointer() (x, y float64) { return e.px, e.py }

// PointerMove tracks the pointer and, while dragging, updates the drag
// extent. The extent is not clamped.
func (e *Engine) PointerMove(x, y float64) {
	e.px, e.py = x, y
	if e.drag != nil {
		e.drag.W = x - e.drag.X
		e.drag.H = y - e.drag.Y
	}
}

// PointerPress handles a button press at (x, y).
func (e *Engine) PointerPress(b Button, x, y float64) {
	e.px, e.py = x, y
	switch b {
	case Primary:
		if e.drag != nil && (e.drag.W != 0 || e.drag.H != 0) {
			return
		}
		e.drag = &Rect{X: x, Y: y}
	case Secondary:
		e.Cancel()
	}
}

// PointerRelease handles a button release. Releasing the primary button
// commits the drag as the selection without normalizing its sign.
func (e *Engine) PointerRelease(b Button) {
	if b != Primary || e.drag == nil {
		return
	}
	sel := *e.drag
	e.selection = &sel
	e.drag = nil
	log.Printf("Selection committed: %v", sel)
}

// Cancel discards both the drag and the selection.
func (e *Engine) Cancel() {
	e.drag = nil
	e.selection = nil
}

// Nudge moves the selection by one pixel according to the mode. The anchor
// (X, Y) and the far edge (X+W, Y+H) are each kept inside the viewport.
// Without a selection or a viewport it does nothing.
func (e *Engine) Nudge(d Direction) {
	if e.selection == nil || !e.haveViewport {
		return
	}
	dx, dy := d.delta()
	s := e.selection

	ax, ay := s.X, s.Y
	fx, fy := s.X+s.W, s.Y+s.H
	if e.mode == Move || e.mode == InverseResize {
		ax = clamp(ax+dx, e.width)
		ay = clamp(ay+dy, e.height)
	}
	if e.mode == Move || e.mode == Resize {
		fx = clamp(fx+dx, e.width)
		fy = clamp(fy+dy, e.height)
	}
	*s = Rect{X: ax, Y: ay, W: fx - ax, H: fy - ay}
}

// KeyDown handles a key press and returns the command it maps to.
func (e *Engine) KeyDown(k keycode.Key) Command {
	switch k {
	case keycode.ArrowUp:
		e.Nudge(Up)
	case keycode.ArrowDown:
		e.Nudge(Down)
	case keycode.ArrowLeft:
		e.Nudge(Left)
	case keycode.ArrowRight:
		e.Nudge(Right)
	case keycode.ShiftLeft, keycode.ShiftRight:
		e.shiftHeld = true
		e.mode = InverseResize
	case keycode.ControlLeft, keycode.ControlRight:
		e.controlHeld = true
		e.mode = Resize
	case keycode.Space, keycode.Enter, keycode.NumpadEnter:
		return Confirm
	case keycode.Escape:
		return Quit
	}
	return None
}

// KeyUp handles a key release. Releasing Shift or Control falls back to the
// mode of the other one if it is still held, else to Move.
func (e *Engine) KeyUp(k keycode.Key) {
	switch k {
	case keycode.ShiftLeft, keycode.ShiftRight:
		e.shiftHeld = false
	case keycode.ControlLeft, keycode.ControlRight:
		e.controlHeld = false
	default:
		return
	}
	switch {
	case e.controlHeld:
		e.mode = Resize
	case e.shiftHeld:
		e.mode = InverseResize
	default:
		e.mode = Move
	}
}
