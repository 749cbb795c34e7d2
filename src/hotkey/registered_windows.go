//go:build windows

package hotkey

import xhotkey "golang.design/x/hotkey"

var platformModifiers = map[Modifiers]xhotkey.Modifier{
	Shift:   xhotkey.ModShift,
	Control: xhotkey.ModCtrl,
	Alt:     xhotkey.ModAlt,
	Super:   xhotkey.ModWin,
}
