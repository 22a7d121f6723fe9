// Package keycode defines keyboard usage IDs (USB HID usage page 0x07) and
// the name and rune translations used by configs, scripts and backends.
package keycode

import (
	"fmt"
	"strconv"
	"strings"
)

// Keycode is a USB HID keyboard usage ID.
type Keycode uint16

const (
	None Keycode = 0x00

	A Keycode = 0x04 + iota - 1
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z
	Num1
	Num2
	Num3
	Num4
	Num5
	Num6
	Num7
	Num8
	Num9
	Num0
	Enter
	Escape
	Backspace
	Tab
	Space
	Minus
	Equal
	LeftBracket
	RightBracket
	Backslash
	NonUSHash
	Semicolon
	Quote
	Grave
	Comma
	Dot
	Slash
	CapsLock
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
	PrintScreen
	ScrollLock
	Pause
	Insert
	Home
	PageUp
	Delete
	End
	PageDown
	Right
	Left
	Down
	Up
)

// Editing keys from the HID keyboard page. Hosts that honour them treat them
// like the usual clipboard shortcuts.
const (
	Again Keycode = 0x79
	Undo  Keycode = 0x7A
	Cut   Keycode = 0x7B
	Copy  Keycode = 0x7C
	Paste Keycode = 0x7D
)

const (
	LeftCtrl Keycode = 0xE0 + iota
	LeftShift
	LeftAlt
	LeftGUI
	RightCtrl
	RightShift
	RightAlt
	RightGUI
)

type info struct {
	name    string
	char    rune
	shifted rune
}

var table = map[Keycode]info{
	None:         {"none", 0, 0},
	Num1:         {"1", '1', '!'},
	Num2:         {"2", '2', '@'},
	Num3:         {"3", '3', '#'},
	Num4:         {"4", '4', '$'},
	Num5:         {"5", '5', '%'},
	Num6:         {"6", '6', '^'},
	Num7:         {"7", '7', '&'},
	Num8:         {"8", '8', '*'},
	Num9:         {"9", '9', '('},
	Num0:         {"0", '0', ')'},
	Enter:        {"enter", '\n', 0},
	Escape:       {"escape", 0, 0},
	Backspace:    {"backspace", 0, 0},
	Tab:          {"tab", '\t', 0},
	Space:        {"space", ' ', 0},
	Minus:        {"minus", '-', '_'},
	Equal:        {"equal", '=', '+'},
	LeftBracket:  {"lbracket", '[', '{'},
	RightBracket: {"rbracket", ']', '}'},
	Backslash:    {"backslash", '\\', '|'},
	NonUSHash:    {"nonushash", 0, 0},
	Semicolon:    {"semicolon", ';', ':'},
	Quote:        {"quote", '\'', '"'},
	Grave:        {"grave", '`', '~'},
	Comma:        {"comma", ',', '<'},
	Dot:          {"dot", '.', '>'},
	Slash:        {"slash", '/', '?'},
	CapsLock:     {"capslock", 0, 0},
	PrintScreen:  {"printscreen", 0, 0},
	ScrollLock:   {"scrolllock", 0, 0},
	Pause:        {"pause", 0, 0},
	Insert:       {"insert", 0, 0},
	Home:         {"home", 0, 0},
	PageUp:       {"pageup", 0, 0},
	Delete:       {"delete", 0, 0},
	End:          {"end", 0, 0},
	PageDown:     {"pagedown", 0, 0},
	Right:        {"right", 0, 0},
	Left:         {"left", 0, 0},
	Down:         {"down", 0, 0},
	Up:           {"up", 0, 0},
	Again:        {"again", 0, 0},
	Undo:         {"undo", 0, 0},
	Cut:          {"cut", 0, 0},
	Copy:         {"copy", 0, 0},
	Paste:        {"paste", 0, 0},
	LeftCtrl:     {"lctrl", 0, 0},
	LeftShift:    {"lshift", 0, 0},
	LeftAlt:      {"lalt", 0, 0},
	LeftGUI:      {"lgui", 0, 0},
	RightCtrl:    {"rctrl", 0, 0},
	RightShift:   {"rshift", 0, 0},
	RightAlt:     {"ralt", 0, 0},
	RightGUI:     {"rgui", 0, 0},
}

// aliases accepted by Parse in addition to the canonical names.
var aliases = map[string]Keycode{
	"spc":    Space,
	"bspc":   Backspace,
	"esc":    Escape,
	"ret":    Enter,
	"return": Enter,
	"del":    Delete,
	"ins":    Insert,
	"pgup":   PageUp,
	"pgdn":   PageDown,
	"caps":   CapsLock,
	"period": Dot,
	"lbrc":   LeftBracket,
	"rbrc":   RightBracket,
}

var (
	byName map[string]Keycode
	byRune map[rune]Keycode
)

func init() {
	for k := A; k <= Z; k++ {
		r := rune('a' + int(k-A))
		table[k] = info{name: string(r), char: r, shifted: r - 'a' + 'A'}
	}
	for k := F1; k <= F12; k++ {
		table[k] = info{name: fmt.Sprintf("f%d", int(k-F1)+1)}
	}
	byName = buildNameIndex()
	byRune = buildRuneIndex()
}

func buildNameIndex() map[string]Keycode {
	idx := make(map[string]Keycode, len(table)+len(aliases))
	for k, i := range table {
		idx[i.name] = k
	}
	for name, k := range aliases {
		idx[name] = k
	}
	return idx
}

func buildRuneIndex() map[rune]Keycode {
	idx := make(map[rune]Keycode, len(table)*2)
	for k, i := range table {
		if i.char != 0 {
			idx[i.char] = k
		}
		if i.shifted != 0 {
			idx[i.shifted] = k
		}
	}
	idx['\r'] = Enter
	return idx
}

// String returns the canonical name, or a hex form for unnamed usages.
func (k Keycode) String() string {
	if i, ok := table[k]; ok {
		return i.name
	}
	return fmt.Sprintf("0x%02X", uint16(k))
}

// IsModifier reports whether k is one of the eight modifier usages.
func (k Keycode) IsModifier() bool {
	return k >= LeftCtrl && k <= RightGUI
}

// Parse resolves a key name, case-insensitively. Hex usages ("0x2c") are
// accepted as well.
func Parse(name string) (Keycode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "kc_")
	if k, ok := byName[n]; ok {
		return k, nil
	}
	if hex, ok := strings.CutPrefix(n, "0x"); ok {
		if v, err := strconv.ParseUint(hex, 16, 16); err == nil {
			return Keycode(v), nil
		}
	}
	return None, fmt.Errorf("unknown key name %q", name)
}

// FromRune maps a typed character to the key that produces it on a US
// layout. Shifted characters map to their base key.
func FromRune(r rune) (Keycode, bool) {
	k, ok := byRune[r]
	return k, ok
}

// Rune returns the unshifted character a key types, if it types one.
func (k Keycode) Rune() (rune, bool) {
	i, ok := table[k]
	if !ok || i.char == 0 {
		return 0, false
	}
	return i.char, true
}

// ShiftedRune returns the character k types with shift held.
func (k Keycode) ShiftedRune() (rune, bool) {
	i, ok := table[k]
	if !ok || i.shifted == 0 {
		return 0, false
	}
	return i.shifted, true
}
