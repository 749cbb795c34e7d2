// Package keycode defines the canonical key enumeration shared by the hotkey
// grammar, the trigger daemon and the selection overlay. Platform collaborators
// translate their native codes into Key values at the boundary.
package keycode

import "fmt"

// Key is a platform-independent key symbol.
type Key uint16

const (
	// Unknown is the zero Key; it never matches a hotkey.
	Unknown Key = iota

	// Letters
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	// Digits
	Digit0
	Digit1
	Digit2
	Digit3
	Digit4
	Digit5
	Digit6
	Digit7
	Digit8
	Digit9

	// Punctuation
	Backquote
	Backslash
	BracketLeft
	BracketRight
	Comma
	Equal
	Minus
	Period
	Quote
	Semicolon
	Slash

	// Editing and whitespace
	Backspace
	CapsLock
	Enter
	Space
	Tab
	Escape
	Delete
	Insert
	Home
	End
	PageUp
	PageDown

	// Navigation
	ArrowUp
	ArrowDown
	ArrowLeft
	ArrowRight

	// Numpad
	Numpad0
	Numpad1
	Numpad2
	Numpad3
	Numpad4
	Numpad5
	Numpad6
	Numpad7
	Numpad8
	Numpad9
	NumpadAdd
	NumpadDecimal
	NumpadDivide
	NumpadEnter
	NumpadEqual
	NumpadMultiply
	NumpadSubtract

	// Function keys
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	F13
	F14
	F15
	F16
	F17
	F18
	F19
	F20
	F21
	F22
	F23
	F24

	// Extended keys. Support for these varies between platforms, so the
	// canonicalizer only produces them when asked to.
	Pause
	PrintScreen
	ScrollLock
	NumLock
	AudioVolumeDown
	AudioVolumeUp
	AudioVolumeMute
	MediaPlayPause
	MediaStop
	MediaTrackNext
	MediaTrackPrevious

	// Modifier keys
	ShiftLeft
	ShiftRight
	ControlLeft
	ControlRight
	AltLeft
	AltRight
	SuperLeft
	SuperRight

	keyCount
)

var names = [keyCount]string{
	Unknown: "Unknown",

	KeyA: "KeyA",
	KeyB: "KeyB",
	KeyC: "KeyC",
	KeyD: "KeyD",
	KeyE: "KeyE",
	KeyF: "KeyF",
	KeyG: "KeyG",
	KeyH: "KeyH",
	KeyI: "KeyI",
	KeyJ: "KeyJ",
	KeyK: "KeyK",
	KeyL: "KeyL",
	KeyM: "KeyM",
	KeyN: "KeyN",
	KeyO: "KeyO",
	KeyP: "KeyP",
	KeyQ: "KeyQ",
	KeyR: "KeyR",
	KeyS: "KeyS",
	KeyT: "KeyT",
	KeyU: "KeyU",
	KeyV: "KeyV",
	KeyW: "KeyW",
	KeyX: "KeyX",
	KeyY: "KeyY",
	KeyZ: "KeyZ",

	Digit0: "Digit0",
	Digit1: "Digit1",
	Digit2: "Digit2",
	Digit3: "Digit3",
	Digit4: "Digit4",
	Digit5: "Digit5",
	Digit6: "Digit6",
	Digit7: "Digit7",
	Digit8: "Digit8",
	Digit9: "Digit9",

	Backquote:    "Backquote",
	Backslash:    "Backslash",
	BracketLeft:  "BracketLeft",
	BracketRight: "BracketRight",
	Comma:        "Comma",
	Equal:        "Equal",
	Minus:        "Minus",
	Period:       "Period",
	Quote:        "Quote",
	Semicolon:    "Semicolon",
	Slash:        "Slash",

	Backspace: "Backspace",
	CapsLock:  "CapsLock",
	Enter:     "Enter",
	Space:     "Space",
	Tab:       "Tab",
	Escape:    "Escape",
	Delete:    "Delete",
	Insert:    "Insert",
	Home:      "Home",
	End:       "End",
	PageUp:    "PageUp",
	PageDown:  "PageDown",

	ArrowUp:    "ArrowUp",
	ArrowDown:  "ArrowDown",
	ArrowLeft:  "ArrowLeft",
	ArrowRight: "ArrowRight",

	Numpad0:        "Numpad0",
	Numpad1:        "Numpad1",
	Numpad2:        "Numpad2",
	Numpad3:        "Numpad3",
	Numpad4:        "Numpad4",
	Numpad5:        "Numpad5",
	Numpad6:        "Numpad6",
	Numpad7:        "Numpad7",
	Numpad8:        "Numpad8",
	Numpad9:        "Numpad9",
	NumpadAdd:      "NumpadAdd",
	NumpadDecimal:  "NumpadDecimal",
	NumpadDivide:   "NumpadDivide",
	NumpadEnter:    "NumpadEnter",
	NumpadEqual:    "NumpadEqual",
	NumpadMultiply: "NumpadMultiply",
	NumpadSubtract: "NumpadSubtract",

	F1:  "F1",
	F2:  "F2",
	F3:  "F3",
	F4:  "F4",
	F5:  "F5",
	F6:  "F6",
	F7:  "F7",
	F8:  "F8",
	F9:  "F9",
	F10: "F10",
	F11: "F11",
	F12: "F12",
	F13: "F13",
	F14: "F14",
	F15: "F15",
	F16: "F16",
	F17: "F17",
	F18: "F18",
	F19: "F19",
	F20: "F20",
	F21: "F21",
	F22: "F22",
	F23: "F23",
	F24: "F24",

	Pause:              "Pause",
	PrintScreen:        "PrintScreen",
	ScrollLock:         "ScrollLock",
	NumLock:            "NumLock",
	AudioVolumeDown:    "AudioVolumeDown",
	AudioVolumeUp:      "AudioVolumeUp",
	AudioVolumeMute:    "AudioVolumeMute",
	MediaPlayPause:     "MediaPlayPause",
	MediaStop:          "MediaStop",
	MediaTrackNext:     "MediaTrackNext",
	MediaTrackPrevious: "MediaTrackPrevious",

	ShiftLeft:    "ShiftLeft",
	ShiftRight:   "ShiftRight",
	ControlLeft:  "ControlLeft",
	ControlRight: "ControlRight",
	AltLeft:      "AltLeft",
	AltRight:     "AltRight",
	SuperLeft:    "SuperLeft",
	SuperRight:   "SuperRight",
}

// String returns the canonical name of the key, e.g. "KeyA" or "ArrowUp".
func (k Key) String() string {
	if k < keyCount {
		return names[k]
	}
	return fmt.Sprintf("Key(%d)", uint16(k))
}

// Valid reports whether k is a member of the enumeration other than Unknown.
func (k Key) Valid() bool {
	return k > Unknown && k < keyCount
}

// IsModifier reports whether k is one of the left/right modifier keys.
func (k Key) IsModifier() bool {
	return k >= ShiftLeft && k <= SuperRight
}

// Extended reports whether k belongs to the optional extended set
// (Pause, PrintScreen, ScrollLock, NumLock and the media keys).
func (k Key) Extended() bool {
	return k >= Pause && k <= MediaTrackPrevious
}

// IsArrow reports whether k is one of the four arrow keys.
func (k Key) IsArrow() bool {
	return k >= ArrowUp && k <= ArrowRight
}

// All returns every valid key in enumeration order.
func All() []Key {
	keys := make([]Key, 0, keyCount-1)
	for k := Unknown + 1; k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}
