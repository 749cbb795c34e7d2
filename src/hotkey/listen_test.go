package hotkey

import (
	"testing"

	gohook "github.com/robotn/gohook"

	"cleave/src/keycode"
)

func TestHookAction(t *testing.T) {
	plain := keycode.NewCanonicalizer(false)
	extended := keycode.NewCanonicalizer(true)

	tests := []struct {
		name   string
		canon  keycode.Canonicalizer
		ev     gohook.Event
		want   KeyAction
		wantOK bool
	}{
		{"hold is a press", plain, gohook.Event{Kind: gohook.KeyHold, Keycode: 0x001E}, KeyAction{keycode.KeyA, true}, true},
		{"up is a release", plain, gohook.Event{Kind: gohook.KeyUp, Keycode: 0x002A}, KeyAction{keycode.ShiftLeft, false}, true},
		{"typed char dropped", plain, gohook.Event{Kind: gohook.KeyDown, Keycode: 0}, KeyAction{}, false},
		{"mouse dropped", plain, gohook.Event{Kind: gohook.MouseMove}, KeyAction{}, false},
		{"extended off", plain, gohook.Event{Kind: gohook.KeyHold, Keycode: 0x0E37}, KeyAction{}, false},
		{"extended on", extended, gohook.Event{Kind: gohook.KeyHold, Keycode: 0x0E37}, KeyAction{keycode.PrintScreen, true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := hookAction(tt.canon, tt.ev)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("hookAction() = %v, %v; expected %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSyntheticEdges(t *testing.T) {
	h := NewHotKey(Control|Shift, keycode.KeyX)

	down := syntheticEdges(h, true)
	wantDown := []KeyAction{
		{keycode.ShiftLeft, true},
		{keycode.ControlLeft, true},
		{keycode.KeyX, true},
	}
	if !equalActions(down, wantDown) {
		t.Errorf("press edges = %v, expected %v", down, wantDown)
	}

	up := syntheticEdges(h, false)
	wantUp := []KeyAction{
		{keycode.KeyX, false},
		{keycode.ShiftLeft, false},
		{keycode.ControlLeft, false},
	}
	if !equalActions(up, wantUp) {
		t.Errorf("release edges = %v, expected %v", up, wantUp)
	}

	// Replaying the press edges must satisfy the matcher.
	var s PressedSet
	for _, e := range down {
		s.Apply(e)
	}
	if !Matches(h, s.Keys()) {
		t.Errorf("synthetic press edges %v do not match %s", down, h)
	}
}

func TestRegistration(t *testing.T) {
	mods, _, err := registration(NewHotKey(Control|Alt, keycode.F5))
	if err != nil {
		t.Fatalf("registration() error: %v", err)
	}
	if len(mods) != 2 {
		t.Errorf("registration() returned %d modifiers, expected 2", len(mods))
	}

	if _, _, err := registration(NewHotKey(Control, keycode.Numpad5)); err == nil {
		t.Error("expected an error for a key the OS backend cannot register")
	}
}

func equalActions(a, b []KeyAction) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
