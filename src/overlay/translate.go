package overlay

import (
	"image"
	"math"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"cleave/src/eventloop"
	"cleave/src/keycode"
	"cleave/src/selection"
)

// translator maps between window pixels and frame pixels.
type translator struct {
	frame, window image.Point
}

func (t translator) scale() (sx, sy float64) {
	sx, sy = 1, 1
	if t.window.X > 0 {
		sx = float64(t.frame.X) / float64(t.window.X)
	}
	if t.window.Y > 0 {
		sy = float64(t.frame.Y) / float64(t.window.Y)
	}
	return sx, sy
}

func (t translator) toFrame(x, y float32) (float64, float64) {
	sx, sy := t.scale()
	return float64(x) * sx, float64(y) * sy
}

// toWindow returns the window pixels covering r.
func (t translator) toWindow(r selection.Rect) image.Rectangle {
	sx, sy := t.scale()
	n := r.Normalize()
	return image.Rect(
		int(math.Floor(n.X/sx)),
		int(math.Floor(n.Y/sy)),
		int(math.Ceil((n.X+n.W)/sx)),
		int(math.Ceil((n.Y+n.H)/sy)),
	)
}

var buttons = map[mouse.Button]selection.Button{
	mouse.ButtonLeft:   selection.Primary,
	mouse.ButtonRight:  selection.Secondary,
	mouse.ButtonMiddle: selection.Middle,
}

// mouse converts a pointer event. Wheel steps and unknown buttons are
// dropped.
func (t translator) mouse(e mouse.Event) (eventloop.Event, bool) {
	x, y := t.toFrame(e.X, e.Y)
	switch e.Direction {
	case mouse.DirNone:
		return eventloop.PointerMoved{X: x, Y: y}, true
	case mouse.DirPress, mouse.DirRelease:
		b, ok := buttons[e.Button]
		if !ok {
			return nil, false
		}
		return eventloop.PointerButton{Button: b, Pressed: e.Direction == mouse.DirPress, X: x, Y: y}, true
	}
	return nil, false
}

// keyEvent converts a key event. Auto-repeat is reported as another press.
func keyEvent(e key.Event) (eventloop.Event, bool) {
	k, ok := windowKeys[e.Code]
	if !ok {
		return nil, false
	}
	return eventloop.Key{Key: k, Pressed: e.Direction != key.DirRelease}, true
}

var windowKeys = buildWindowKeys()

func buildWindowKeys() map[key.Code]keycode.Key {
	m := map[key.Code]keycode.Key{
		key.CodeSpacebar:        keycode.Space,
		key.CodeReturnEnter:     keycode.Enter,
		key.CodeKeypadEnter:     keycode.NumpadEnter,
		key.CodeEscape:          keycode.Escape,
		key.CodeTab:             keycode.Tab,
		key.CodeDeleteBackspace: keycode.Backspace,
		key.CodeDeleteForward:   keycode.Delete,
		key.CodeInsert:          keycode.Insert,
		key.CodeHome:            keycode.Home,
		key.CodeEnd:             keycode.End,
		key.CodePageUp:          keycode.PageUp,
		key.CodePageDown:        keycode.PageDown,

		key.CodeUpArrow:    keycode.ArrowUp,
		key.CodeDownArrow:  keycode.ArrowDown,
		key.CodeLeftArrow:  keycode.ArrowLeft,
		key.CodeRightArrow: keycode.ArrowRight,

		key.CodeLeftShift:    keycode.ShiftLeft,
		key.CodeRightShift:   keycode.ShiftRight,
		key.CodeLeftControl:  keycode.ControlLeft,
		key.CodeRightControl: keycode.ControlRight,
		key.CodeLeftAlt:      keycode.AltLeft,
		key.CodeRightAlt:     keycode.AltRight,
		key.CodeLeftGUI:      keycode.SuperLeft,
		key.CodeRightGUI:     keycode.SuperRight,

		key.Code0: keycode.Digit0,
	}
	for i := 0; i < 26; i++ {
		m[key.CodeA+key.Code(i)] = keycode.KeyA + keycode.Key(i)
	}
	// Code1..Code9 are contiguous, Code0 follows them.
	for i := 0; i < 9; i++ {
		m[key.Code1+key.Code(i)] = keycode.Digit1 + keycode.Key(i)
	}
	for i := 0; i < 12; i++ {
		m[key.CodeF1+key.Code(i)] = keycode.F1 + keycode.Key(i)
	}
	return m
}
