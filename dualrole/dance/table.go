package dance

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/layer"
)

// ID names one of the dual-role keys the keymap can bind.
type ID int

const (
	SpaceNav ID = iota
	BackspaceNum

	// Count is the number of dual-role keys.
	Count int = iota
)

var idNames = [...]string{
	SpaceNav:     "space_nav",
	BackspaceNum: "backspace_num",
}

func (id ID) String() string {
	if id.Valid() {
		return idNames[id]
	}
	return fmt.Sprintf("dance(%d)", int(id))
}

// Valid reports whether id names a known dual-role key.
func (id ID) Valid() bool {
	return id >= 0 && int(id) < Count
}

// IDs returns every dual-role key ID in order.
func IDs() []ID {
	ids := make([]ID, Count)
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

// ParseID resolves a dual-role key name such as "space_nav" or "SPC_NAV".
func ParseID(s string) (ID, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.ReplaceAll(n, "-", "_")
	switch n {
	case "space_nav", "spc_nav":
		return SpaceNav, nil
	case "backspace_num", "bspc_num":
		return BackspaceNum, nil
	}
	return 0, fmt.Errorf("unknown dance %q", s)
}

// DefaultBindings pairs space with the navigation layer and backspace with
// the numeric layer.
func DefaultBindings() map[ID]Key {
	return map[ID]Key{
		SpaceNav:     {Keycode: keycode.Space, Layer: layer.Nav},
		BackspaceNum: {Keycode: keycode.Backspace, Layer: layer.Num},
	}
}

// Table owns one Instance per dual-role key and routes host callbacks to it.
type Table struct {
	instances [Count]*Instance
}

// NewTable builds a table from bindings. IDs missing from bindings fall back
// to DefaultBindings; unknown IDs are ignored.
func NewTable(bindings map[ID]Key) *Table {
	defaults := DefaultBindings()
	t := &Table{}
	for _, id := range IDs() {
		k, ok := bindings[id]
		if !ok {
			k = defaults[id]
		}
		t.instances[id] = NewInstance(k)
	}
	return t
}

// Instance returns the instance for id, or nil for an unknown ID.
func (t *Table) Instance(id ID) *Instance {
	if !id.Valid() {
		return nil
	}
	return t.instances[id]
}

// Resolved forwards a closed window to the instance for id.
func (t *Table) Resolved(h Host, id ID, e Event) State {
	inst := t.Instance(id)
	if inst == nil {
		slog.Debug("Resolve for unknown dance ignored", "dance", id)
		return Unclassified
	}
	state := inst.OnResolved(h, e)
	slog.Debug("Dance resolved", "dance", id, "event", e, "state", state)
	return state
}

// Released forwards a key release to the instance for id.
func (t *Table) Released(h Host, id ID) {
	inst := t.Instance(id)
	if inst == nil {
		slog.Debug("Release for unknown dance ignored", "dance", id)
		return
	}
	prev := inst.State()
	inst.OnReleased(h)
	slog.Debug("Dance reset", "dance", id, "from", prev)
}

// States returns the current state of every instance, indexed by ID.
func (t *Table) States() []State {
	states := make([]State, Count)
	for i, inst := range t.instances {
		states[i] = inst.State()
	}
	return states
}

// Busy reports whether any instance is waiting for its release.
func (t *Table) Busy() bool {
	for _, inst := range t.instances {
		if inst.State() != Idle {
			return true
		}
	}
	return false
}
