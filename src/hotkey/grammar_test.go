package hotkey

import (
	"errors"
	"testing"

	"cleave/src/keycode"
)

func TestParse(t *testing.T) {
	g := NewGrammar("linux")
	tests := []struct {
		input string
		want  HotKey
	}{
		{"Shift+X", HotKey{Shift, keycode.KeyX}},
		{"ctrl+alt+q", HotKey{Control | Alt, keycode.KeyQ}},
		{"Control + Shift + F12", HotKey{Shift | Control, keycode.F12}},
		{"super+Space", HotKey{Super, keycode.Space}},
		{"cmd+KeyA", HotKey{Super, keycode.KeyA}},
		{"option+digit5", HotKey{Alt, keycode.Digit5}},
		{"meta+up", HotKey{Super, keycode.ArrowUp}},
		{"shift+/", HotKey{Shift, keycode.Slash}},
		{"ctrl+num7", HotKey{Control, keycode.Numpad7}},
		{"alt+esc", HotKey{Alt, keycode.Escape}},
		{"A", HotKey{0, keycode.KeyA}},
		{"f24", HotKey{0, keycode.F24}},
		{"PrintScreen", HotKey{0, keycode.PrintScreen}},
		{"ctrl+ctrl+x", HotKey{Control, keycode.KeyX}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := g.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, expected %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	g := NewGrammar("linux")
	tests := []struct {
		input     string
		wantKind  error
		wantInput string
	}{
		{"Ctrl+C+Shift", ErrInvalidFormat, "Ctrl+C+Shift"},
		{"Ctrl+Shift+C+A", ErrInvalidFormat, "Ctrl+Shift+C+A"},
		{"Ctrl+Shift", ErrInvalidFormat, "Ctrl+Shift"},
		{"Ctrl++C", ErrEmptyToken, "Ctrl++C"},
		{"Ctrl+ +C", ErrEmptyToken, "Ctrl+ +C"},
		{"+", ErrEmptyToken, "+"},
		{"Ctrl+Hyper", ErrUnsupportedKey, "Hyper"},
		{"Ctrl+ShiftLeft", ErrUnsupportedKey, "ShiftLeft"},
		{"Shift", ErrUnsupportedKey, "Shift"},
		{" A", ErrUnsupportedKey, " A"},
		{"", ErrUnsupportedKey, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := g.Parse(tt.input)
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("Parse(%q) error = %v, expected %v", tt.input, err, tt.wantKind)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%q) error %T is not a *ParseError", tt.input, err)
			}
			if pe.Input != tt.wantInput {
				t.Errorf("ParseError.Input = %q, expected %q", pe.Input, tt.wantInput)
			}
		})
	}
}

func TestCmdOrCtrlPerPlatform(t *testing.T) {
	tests := []struct {
		goos string
		same string
	}{
		{"linux", "Control+K"},
		{"windows", "Control+K"},
		{"darwin", "Super+K"},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			g := NewGrammar(tt.goos)
			want, err := g.Parse(tt.same)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.same, err)
			}
			for _, alias := range []string{"CmdOrCtrl+K", "CommandOrControl+K", "commandorctrl+k", "CMDORCONTROL+K"} {
				got, err := g.Parse(alias)
				if err != nil {
					t.Fatalf("Parse(%q) error: %v", alias, err)
				}
				if got != want {
					t.Errorf("Parse(%q) = %+v, expected %+v", alias, got, want)
				}
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		hk   HotKey
		want string
	}{
		{NewHotKey(Shift, keycode.KeyX), "shift+keyx"},
		{NewHotKey(Super|Alt|Control|Shift, keycode.F1), "shift+control+alt+super+f1"},
		{NewHotKey(Meta, keycode.ArrowLeft), "super+arrowleft"},
		{NewHotKey(0, keycode.Digit0), "digit0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.hk.String(); got != tt.want {
				t.Errorf("String() = %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	combos := []Modifiers{0, Shift, Control | Alt, Shift | Super, Shift | Control | Alt | Super, Meta}
	for _, goos := range []string{"linux", "darwin", "windows"} {
		g := NewGrammar(goos)
		for _, k := range keycode.All() {
			if k.IsModifier() {
				continue
			}
			for _, m := range combos {
				h := NewHotKey(m, k)
				got, err := g.Parse(h.String())
				if err != nil {
					t.Fatalf("%s: Parse(%q) error: %v", goos, h.String(), err)
				}
				if got != h {
					t.Fatalf("%s: Parse(%q) = %+v, expected %+v", goos, h.String(), got, h)
				}
			}
		}
	}
}

func TestKeyTableCoversEveryMainKey(t *testing.T) {
	for _, k := range keycode.All() {
		if k.IsModifier() {
			continue
		}
		found := false
		for _, v := range keyTable {
			if v == k {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no alias resolves to %v", k)
		}
	}
	for alias, k := range keyTable {
		if k.IsModifier() || !k.Valid() {
			t.Errorf("alias %q resolves to %v which is not a main key", alias, k)
		}
	}
}
