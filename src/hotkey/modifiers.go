package hotkey

import "strings"

// Modifiers is a set of modifier flags.
type Modifiers uint8

const (
	Shift Modifiers = 1 << iota
	Control
	Alt
	Super
	// Meta is a legacy alias. NewHotKey folds it into Super.
	Meta
)

// MatchMask is the part of a Modifiers value that takes part in matching.
const MatchMask = Shift | Control | Alt | Super

// modifierOrder is the fixed serialization order.
var modifierOrder = []struct {
	mod  Modifiers
	name string
}{
	{Shift, "shift"},
	{Control, "control"},
	{Alt, "alt"},
	{Super, "super"},
}

// Has reports whether every flag in m2 is set in m.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

// normalize folds Meta into Super.
func (m Modifiers) normalize() Modifiers {
	if m.Has(Meta) {
		m = m&^Meta | Super
	}
	return m
}

func (m Modifiers) String() string {
	m = m.normalize()
	var parts []string
	for _, o := range modifierOrder {
		if m.Has(o.mod) {
			parts = append(parts, o.name)
		}
	}
	return strings.Join(parts, "+")
}
