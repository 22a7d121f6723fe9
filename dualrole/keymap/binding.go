package keymap

import (
	"fmt"
	"strings"

	"github.com/valerio/go-dualrole/dualrole/dance"
	"github.com/valerio/go-dualrole/dualrole/keycode"
)

// Kind says what a key position does on a layer.
type Kind uint8

const (
	// KindNone is an unassigned position. It blocks lower layers.
	KindNone Kind = iota
	// KindTransparent falls through to the next active layer below.
	KindTransparent
	// KindKey sends a keycode, optionally with shift held.
	KindKey
	// KindDance hands the position to a dual-role key.
	KindDance
)

// Binding is the action at one position on one layer.
type Binding struct {
	Kind    Kind
	Keycode keycode.Keycode
	Shift   bool
	Dance   dance.ID
}

// Convenience constructors used by keymap tables.
var (
	XXX = Binding{Kind: KindNone}
	___ = Binding{Kind: KindTransparent}
)

// Key binds a plain keycode.
func Key(k keycode.Keycode) Binding {
	return Binding{Kind: KindKey, Keycode: k}
}

// Shifted binds a keycode sent with left shift held.
func Shifted(k keycode.Keycode) Binding {
	return Binding{Kind: KindKey, Keycode: k, Shift: true}
}

// Dance binds a dual-role key.
func Dance(id dance.ID) Binding {
	return Binding{Kind: KindDance, Dance: id}
}

// Transparent returns the fall-through binding.
func Transparent() Binding { return ___ }

// NoKey returns the blocking empty binding.
func NoKey() Binding { return XXX }

// Label is a short name for grids and logs.
func (b Binding) Label() string {
	switch b.Kind {
	case KindTransparent:
		return "___"
	case KindKey:
		if b.Shift {
			if r, ok := b.Keycode.Rune(); ok {
				return "S(" + string(r) + ")"
			}
			return "S(" + b.Keycode.String() + ")"
		}
		return b.Keycode.String()
	case KindDance:
		return strings.ToUpper(b.Dance.String())
	default:
		return "xxx"
	}
}

func (b Binding) String() string {
	return b.Label()
}

// ParseBinding reads the textual form used in config files: "___" or
// "trans", "xxx" or "none", "td:space_nav", "S(9)" or "shift+9", or a key
// name.
func ParseBinding(s string) (Binding, error) {
	n := strings.TrimSpace(s)
	switch strings.ToLower(n) {
	case "___", "trans", "_______":
		return ___, nil
	case "xxx", "none", "no", "xxxxxxx":
		return XXX, nil
	}
	lower := strings.ToLower(n)
	if strings.HasPrefix(lower, "td:") {
		id, err := dance.ParseID(n[3:])
		if err != nil {
			return XXX, err
		}
		return Dance(id), nil
	}
	if strings.HasPrefix(lower, "s(") && strings.HasSuffix(lower, ")") {
		k, err := keycode.Parse(n[2 : len(n)-1])
		if err != nil {
			return XXX, err
		}
		return Shifted(k), nil
	}
	if strings.HasPrefix(lower, "shift+") {
		k, err := keycode.Parse(n[len("shift+"):])
		if err != nil {
			return XXX, err
		}
		return Shifted(k), nil
	}
	k, err := keycode.Parse(n)
	if err != nil {
		return XXX, fmt.Errorf("binding %q: %w", s, err)
	}
	return Key(k), nil
}
