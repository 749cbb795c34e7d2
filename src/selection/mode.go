package selection

import (
	"fmt"
	"strings"
)

// Mode controls how keyboard nudges edit the selection.
type Mode int

const (
	// Move translates the whole selection.
	Move Mode = iota
	// Resize moves only the far edge.
	Resize
	// InverseResize moves only the anchor.
	InverseResize
)

func (m Mode) String() string {
	switch m {
	case Move:
		return "move"
	case Resize:
		return "resize"
	case InverseResize:
		return "inverse-resize"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name as written by Mode.String. Matching is
// case-insensitive and ignores '-' and '_'.
func ParseMode(s string) (Mode, error) {
	norm := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "", "move":
		return Move, nil
	case "resize":
		return Resize, nil
	case "inverseresize":
		return InverseResize, nil
	}
	return Move, fmt.Errorf("unknown selection mode %q (expected move, resize or inverse-resize)", s)
}

// Direction is a nudge direction.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) delta() (dx, dy float64) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Button is a pointer button.
type Button int

const (
	Primary Button = iota
	Secondary
	Middle
)
