// Package layer tracks which keymap layers are active.
package layer

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// ID identifies a keymap layer. Higher IDs take precedence on lookup.
type ID uint8

// MaxLayers is the number of layers a State can track.
const MaxLayers = 32

// Layer IDs follow the miryoku ordering.
const (
	Base ID = iota
	Extra
	Tap
	Button
	Nav
	Mouse
	Media
	Num
	Sym
	Fun
)

var names = map[ID]string{
	Base:   "base",
	Extra:  "extra",
	Tap:    "tap",
	Button: "button",
	Nav:    "nav",
	Mouse:  "mouse",
	Media:  "media",
	Num:    "num",
	Sym:    "sym",
	Fun:    "fun",
}

func (id ID) String() string {
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("layer%d", uint8(id))
}

// Parse resolves a layer name or a plain layer number.
func Parse(s string) (ID, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.TrimPrefix(n, "u_")
	for id, name := range names {
		if name == n {
			return id, nil
		}
	}
	if v, err := strconv.Atoi(strings.TrimPrefix(n, "layer")); err == nil && v >= 0 && v < MaxLayers {
		return ID(v), nil
	}
	return 0, fmt.Errorf("unknown layer %q", s)
}

// State is the set of active layers. The base layer is always active.
type State struct {
	mask uint32
}

// On activates a layer. Out of range IDs are ignored.
func (s *State) On(id ID) {
	if id >= MaxLayers {
		return
	}
	s.mask |= 1 << id
}

// Off deactivates a layer. Turning off a layer that is not on does nothing.
func (s *State) Off(id ID) {
	if id >= MaxLayers {
		return
	}
	s.mask &^= 1 << id
}

// IsOn reports whether a layer is active.
func (s *State) IsOn(id ID) bool {
	if id == Base {
		return true
	}
	if id >= MaxLayers {
		return false
	}
	return s.mask&(1<<id) != 0
}

// Highest returns the highest active layer.
func (s *State) Highest() ID {
	if s.mask == 0 {
		return Base
	}
	return ID(31 - bits.LeadingZeros32(s.mask))
}

// Active returns the active layers from highest to lowest, base last.
func (s *State) Active() []ID {
	ids := make([]ID, 0, bits.OnesCount32(s.mask)+1)
	for i := MaxLayers - 1; i > 0; i-- {
		if s.mask&(1<<uint(i)) != 0 {
			ids = append(ids, ID(i))
		}
	}
	return append(ids, Base)
}

// Clear turns off every layer except base.
func (s *State) Clear() {
	s.mask = 0
}

func (s State) String() string {
	active := s.Active()
	parts := make([]string, len(active))
	for i, id := range active {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}
