package hotkey

import (
	"context"
	"fmt"
	"log"

	xhotkey "golang.design/x/hotkey"

	"cleave/src/keycode"
)

// registeredKeys lists the main keys the OS registration backend can grab.
var registeredKeys = map[keycode.Key]xhotkey.Key{
	keycode.Digit0: xhotkey.Key0, keycode.Digit1: xhotkey.Key1, keycode.Digit2: xhotkey.Key2,
	keycode.Digit3: xhotkey.Key3, keycode.Digit4: xhotkey.Key4, keycode.Digit5: xhotkey.Key5,
	keycode.Digit6: xhotkey.Key6, keycode.Digit7: xhotkey.Key7, keycode.Digit8: xhotkey.Key8,
	keycode.Digit9: xhotkey.Key9,

	keycode.KeyA: xhotkey.KeyA, keycode.KeyB: xhotkey.KeyB, keycode.KeyC: xhotkey.KeyC,
	keycode.KeyD: xhotkey.KeyD, keycode.KeyE: xhotkey.KeyE, keycode.KeyF: xhotkey.KeyF,
	keycode.KeyG: xhotkey.KeyG, keycode.KeyH: xhotkey.KeyH, keycode.KeyI: xhotkey.KeyI,
	keycode.KeyJ: xhotkey.KeyJ, keycode.KeyK: xhotkey.KeyK, keycode.KeyL: xhotkey.KeyL,
	keycode.KeyM: xhotkey.KeyM, keycode.KeyN: xhotkey.KeyN, keycode.KeyO: xhotkey.KeyO,
	keycode.KeyP: xhotkey.KeyP, keycode.KeyQ: xhotkey.KeyQ, keycode.KeyR: xhotkey.KeyR,
	keycode.KeyS: xhotkey.KeyS, keycode.KeyT: xhotkey.KeyT, keycode.KeyU: xhotkey.KeyU,
	keycode.KeyV: xhotkey.KeyV, keycode.KeyW: xhotkey.KeyW, keycode.KeyX: xhotkey.KeyX,
	keycode.KeyY: xhotkey.KeyY, keycode.KeyZ: xhotkey.KeyZ,

	keycode.F1: xhotkey.KeyF1, keycode.F2: xhotkey.KeyF2, keycode.F3: xhotkey.KeyF3,
	keycode.F4: xhotkey.KeyF4, keycode.F5: xhotkey.KeyF5, keycode.F6: xhotkey.KeyF6,
	keycode.F7: xhotkey.KeyF7, keycode.F8: xhotkey.KeyF8, keycode.F9: xhotkey.KeyF9,
	keycode.F10: xhotkey.KeyF10, keycode.F11: xhotkey.KeyF11, keycode.F12: xhotkey.KeyF12,
	keycode.F13: xhotkey.KeyF13, keycode.F14: xhotkey.KeyF14, keycode.F15: xhotkey.KeyF15,
	keycode.F16: xhotkey.KeyF16, keycode.F17: xhotkey.KeyF17, keycode.F18: xhotkey.KeyF18,
	keycode.F19: xhotkey.KeyF19, keycode.F20: xhotkey.KeyF20,

	keycode.Space:      xhotkey.KeySpace,
	keycode.Enter:      xhotkey.KeyReturn,
	keycode.Escape:     xhotkey.KeyEscape,
	keycode.Delete:     xhotkey.KeyDelete,
	keycode.Tab:        xhotkey.KeyTab,
	keycode.ArrowUp:    xhotkey.KeyUp,
	keycode.ArrowDown:  xhotkey.KeyDown,
	keycode.ArrowLeft:  xhotkey.KeyLeft,
	keycode.ArrowRight: xhotkey.KeyRight,
}

// pressOrder lists the modifier keys replayed before the main key.
var pressOrder = []struct {
	mod Modifiers
	key keycode.Key
}{
	{Shift, keycode.ShiftLeft},
	{Control, keycode.ControlLeft},
	{Alt, keycode.AltLeft},
	{Super, keycode.SuperLeft},
}

// registration translates h into the backend's modifier and key values.
func registration(h HotKey) ([]xhotkey.Modifier, xhotkey.Key, error) {
	key, ok := registeredKeys[h.Key]
	if !ok {
		return nil, 0, fmt.Errorf("key %s cannot be registered with the OS hotkey backend", h.Key)
	}
	var mods []xhotkey.Modifier
	for _, p := range pressOrder {
		if h.Mods.Has(p.mod) {
			mods = append(mods, platformModifiers[p.mod])
		}
	}
	return mods, key, nil
}

// syntheticEdges returns the edges that describe the whole combination going
// down (pressed) or up.
func syntheticEdges(h HotKey, pressed bool) []KeyAction {
	var edges []KeyAction
	for _, p := range pressOrder {
		if h.Mods.Has(p.mod) {
			edges = append(edges, KeyAction{Key: p.key, Pressed: pressed})
		}
	}
	main := KeyAction{Key: h.Key, Pressed: pressed}
	if pressed {
		return append(edges, main)
	}
	return append([]KeyAction{main}, edges...)
}

// ListenRegistered registers h with the operating system and reports its
// key-down and key-up notifications as edge sequences. Unlike Listen it only
// observes the registered combination.
func ListenRegistered(ctx context.Context, h HotKey) (<-chan KeyAction, error) {
	mods, key, err := registration(h)
	if err != nil {
		return nil, err
	}

	hk := xhotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("failed to register hotkey %s: %w", h, err)
	}
	log.Printf("Registered OS hotkey %s", h)

	out := make(chan KeyAction, DefaultBuffer)
	go func() {
		defer close(out)
		defer func() {
			if err := hk.Unregister(); err != nil {
				log.Printf("Failed to unregister hotkey %s: %v", h, err)
			}
		}()

		send := func(edges []KeyAction) bool {
			for _, e := range edges {
				select {
				case out <- e:
				case <-ctx.Done():
					return false
				}
			}
			return true
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-hk.Keydown():
				if !send(syntheticEdges(h, true)) {
					return
				}
			case <-hk.Keyup():
				if !send(syntheticEdges(h, false)) {
					return
				}
			}
		}
	}()

	return out, nil
}
