package hotkey

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"cleave/src/keycode"
)

var (
	// ErrUnsupportedKey means a token is neither a modifier nor a known key.
	ErrUnsupportedKey = errors.New("unsupported key")
	// ErrEmptyToken means a '+' separated token was blank after trimming.
	ErrEmptyToken = errors.New("empty token")
	// ErrInvalidFormat means the modifiers-then-one-key shape was violated.
	ErrInvalidFormat = errors.New("invalid hotkey format")
)

// ParseError reports why a hotkey string was rejected. Input is the
// offending token for ErrUnsupportedKey and the whole string otherwise.
type ParseError struct {
	Kind  error
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q", e.Kind, e.Input)
}

func (e *ParseError) Unwrap() error { return e.Kind }

// Grammar holds the alias tables used by Parse. The modifier table depends on
// the target platform, everything else is shared.
type Grammar struct {
	modifiers map[string]Modifiers
	keys      map[string]keycode.Key
}

// NewGrammar builds the alias tables for goos (a runtime.GOOS value).
func NewGrammar(goos string) *Grammar {
	cmdOrCtrl := Control
	if goos == "darwin" {
		cmdOrCtrl = Super
	}

	mods := map[string]Modifiers{
		"alt":     Alt,
		"option":  Alt,
		"control": Control,
		"ctrl":    Control,
		"command": Super,
		"cmd":     Super,
		"super":   Super,
		"shift":   Shift,
		"meta":    Meta,
	}
	for _, alias := range []string{"commandorcontrol", "commandorctrl", "cmdorctrl", "cmdorcontrol"} {
		mods[alias] = cmdOrCtrl
	}

	return &Grammar{modifiers: mods, keys: keyTable}
}

var defaultGrammar = NewGrammar(runtime.GOOS)

// Parse parses text with the grammar of the running platform.
func Parse(text string) (HotKey, error) {
	return defaultGrammar.Parse(text)
}

// Parse turns a string such as "Ctrl+Shift+X" into a HotKey. Tokens are
// separated by '+', matched case-insensitively, and every modifier must come
// before the single main key. A string without '+' is read as a bare main
// key and is not trimmed.
func (g *Grammar) Parse(text string) (HotKey, error) {
	tokens := strings.Split(text, "+")
	if len(tokens) == 1 {
		key, err := g.parseKey(text)
		if err != nil {
			return HotKey{}, err
		}
		return NewHotKey(0, key), nil
	}

	var (
		mods    Modifiers
		key     keycode.Key
		haveKey bool
	)
	for _, raw := range tokens {
		token := strings.TrimSpace(raw)
		if token == "" {
			return HotKey{}, &ParseError{Kind: ErrEmptyToken, Input: text}
		}
		if haveKey {
			return HotKey{}, &ParseError{Kind: ErrInvalidFormat, Input: text}
		}
		if m, ok := g.modifiers[strings.ToLower(token)]; ok {
			mods |= m
			continue
		}
		k, err := g.parseKey(token)
		if err != nil {
			return HotKey{}, err
		}
		key = k
		haveKey = true
	}
	if !haveKey {
		return HotKey{}, &ParseError{Kind: ErrInvalidFormat, Input: text}
	}
	return NewHotKey(mods, key), nil
}

func (g *Grammar) parseKey(token string) (keycode.Key, error) {
	if k, ok := g.keys[strings.ToUpper(token)]; ok {
		return k, nil
	}
	return keycode.Unknown, &ParseError{Kind: ErrUnsupportedKey, Input: token}
}

// keyAliases lists the short spellings accepted next to the upper-cased
// canonical names.
var keyAliases = map[string]keycode.Key{
	"`":  keycode.Backquote,
	"\\": keycode.Backslash,
	"[":  keycode.BracketLeft,
	"]":  keycode.BracketRight,
	",":  keycode.Comma,
	"=":  keycode.Equal,
	"-":  keycode.Minus,
	".":  keycode.Period,
	"'":  keycode.Quote,
	";":  keycode.Semicolon,
	"/":  keycode.Slash,

	"RETURN": keycode.Enter,
	"ESC":    keycode.Escape,
	"DEL":    keycode.Delete,
	"INS":    keycode.Insert,
	"PGUP":   keycode.PageUp,
	"PGDN":   keycode.PageDown,

	"UP":    keycode.ArrowUp,
	"DOWN":  keycode.ArrowDown,
	"LEFT":  keycode.ArrowLeft,
	"RIGHT": keycode.ArrowRight,

	"NUMADD":      keycode.NumpadAdd,
	"NUMPADPLUS":  keycode.NumpadAdd,
	"NUMDECIMAL":  keycode.NumpadDecimal,
	"NUMDIVIDE":   keycode.NumpadDivide,
	"NUMENTER":    keycode.NumpadEnter,
	"NUMEQUAL":    keycode.NumpadEqual,
	"NUMMULTIPLY": keycode.NumpadMultiply,
	"NUMSUBTRACT": keycode.NumpadSubtract,

	"PAUSEBREAK": keycode.Pause,
	"PRTSC":      keycode.PrintScreen,
	"VOLUMEDOWN": keycode.AudioVolumeDown,
	"VOLUMEUP":   keycode.AudioVolumeUp,
	"VOLUMEMUTE": keycode.AudioVolumeMute,
}

var keyTable = buildKeyTable()

func buildKeyTable() map[string]keycode.Key {
	table := make(map[string]keycode.Key)
	for _, k := range keycode.All() {
		if k.IsModifier() {
			continue
		}
		table[strings.ToUpper(k.String())] = k
	}
	for c := 'A'; c <= 'Z'; c++ {
		table[string(c)] = keycode.KeyA + keycode.Key(c-'A')
	}
	for c := '0'; c <= '9'; c++ {
		table[string(c)] = keycode.Digit0 + keycode.Key(c-'0')
		table["NUM"+string(c)] = keycode.Numpad0 + keycode.Key(c-'0')
	}
	for alias, k := range keyAliases {
		table[alias] = k
	}
	return table
}
