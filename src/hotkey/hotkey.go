// Package hotkey parses global shortcut strings, folds held keys into
// modifier/key pairs and listens for the key edges that drive the capture
// daemon.
package hotkey

import (
	"strings"

	"cleave/src/keycode"
)

// HotKey is a modifier set plus exactly one main key. Values built with
// NewHotKey or Parse compare correctly with ==.
type HotKey struct {
	Mods Modifiers
	Key  keycode.Key
}

// NewHotKey builds a HotKey with Meta folded into Super.
func NewHotKey(mods Modifiers, key keycode.Key) HotKey {
	return HotKey{Mods: mods.normalize() & MatchMask, Key: key}
}

// Matches reports whether the held modifiers and main key trigger h. Flags
// outside MatchMask are ignored.
func (h HotKey) Matches(mods Modifiers, key keycode.Key) bool {
	return h.Mods&MatchMask == mods.normalize()&MatchMask && h.Key == key
}

// String formats h so that Parse(h.String()) == h.
func (h HotKey) String() string {
	var b strings.Builder
	mods := h.Mods.normalize()
	for _, o := range modifierOrder {
		if mods.Has(o.mod) {
			b.WriteString(o.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(strings.ToLower(h.Key.String()))
	return b.String()
}

// Extended reports whether the main key is only available with extended key
// support.
func (h HotKey) Extended() bool { return h.Key.Extended() }
