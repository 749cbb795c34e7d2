package hotkey

import "cleave/src/keycode"

// KeyAction is a single press or release edge.
type KeyAction struct {
	Key     keycode.Key
	Pressed bool
}

func (a KeyAction) String() string {
	if a.Pressed {
		return a.Key.String() + " down"
	}
	return a.Key.String() + " up"
}

// PressedSet is the set of keys currently held, in the order they were
// first pressed. It is not safe for concurrent use.
type PressedSet struct {
	keys []keycode.Key
}

// Apply inserts the key on a press edge and removes it on a release edge.
// A repeated press of a held key keeps its original position.
func (s *PressedSet) Apply(a KeyAction) {
	i := s.index(a.Key)
	switch {
	case a.Pressed && i < 0:
		s.keys = append(s.keys, a.Key)
	case !a.Pressed && i >= 0:
		s.keys = append(s.keys[:i], s.keys[i+1:]...)
	}
}

// Contains reports whether k is held.
func (s *PressedSet) Contains(k keycode.Key) bool { return s.index(k) >= 0 }

// Keys returns the held keys in press order. The slice must not be modified.
func (s *PressedSet) Keys() []keycode.Key { return s.keys }

// Len returns the number of held keys.
func (s *PressedSet) Len() int { return len(s.keys) }

// Clear forgets every held key.
func (s *PressedSet) Clear() { s.keys = s.keys[:0] }

func (s *PressedSet) index(k keycode.Key) int {
	for i, held := range s.keys {
		if held == k {
			return i
		}
	}
	return -1
}

// modifierKeys maps the physical modifier keys to their flag.
var modifierKeys = map[keycode.Key]Modifiers{
	keycode.ShiftLeft:    Shift,
	keycode.ShiftRight:   Shift,
	keycode.ControlLeft:  Control,
	keycode.ControlRight: Control,
	keycode.AltLeft:      Alt,
	keycode.AltRight:     Alt,
	keycode.SuperLeft:    Super,
	keycode.SuperRight:   Super,
}

// Fold splits keys into a modifier set and a main key. When several
// non-modifier keys are present the last one wins. ok is false when there is
// no main key.
func Fold(keys []keycode.Key) (mods Modifiers, main keycode.Key, ok bool) {
	for _, k := range keys {
		if m, isMod := modifierKeys[k]; isMod {
			mods |= m
			continue
		}
		main = k
		ok = true
	}
	return mods, main, ok
}

// Matches reports whether the held keys trigger target.
func Matches(target HotKey, keys []keycode.Key) bool {
	mods, main, ok := Fold(keys)
	if !ok {
		return false
	}
	return target.Matches(mods, main)
}
