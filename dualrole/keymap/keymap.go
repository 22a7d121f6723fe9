package keymap

import (
	"fmt"
	"sort"

	"github.com/valerio/go-dualrole/dualrole/layer"
)

// Keymap is a set of layers. The base layer must be present.
type Keymap struct {
	layers map[layer.ID]*Layer
}

// New returns an empty keymap with a base layer of XXX.
func New() *Keymap {
	return &Keymap{layers: map[layer.ID]*Layer{layer.Base: {}}}
}

// Set installs or replaces a layer.
func (k *Keymap) Set(id layer.ID, l Layer) {
	k.layers[id] = &l
}

// Layer returns the bindings of a layer.
func (k *Keymap) Layer(id layer.ID) (Layer, bool) {
	l, ok := k.layers[id]
	if !ok {
		return Layer{}, false
	}
	return *l, true
}

// IDs returns the layers defined in the keymap in ascending order.
func (k *Keymap) IDs() []layer.ID {
	ids := make([]layer.ID, 0, len(k.layers))
	for id := range k.layers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Lookup returns the binding at p given the active layers. The highest
// active layer with a non-transparent binding wins. Layers that are active
// but not defined are skipped.
func (k *Keymap) Lookup(p Position, active *layer.State) Binding {
	if !p.Valid() {
		return XXX
	}
	for _, id := range active.Active() {
		l, ok := k.layers[id]
		if !ok {
			continue
		}
		if b := l[p]; b.Kind != KindTransparent {
			return b
		}
	}
	return XXX
}

// Validate checks that every dance the keymap binds is a known one and that
// a base layer exists.
func (k *Keymap) Validate() error {
	if _, ok := k.layers[layer.Base]; !ok {
		return fmt.Errorf("keymap has no base layer")
	}
	for id, l := range k.layers {
		for p, b := range l {
			if b.Kind == KindDance && !b.Dance.Valid() {
				return fmt.Errorf("layer %s position %d: unknown dance %d", id, p, int(b.Dance))
			}
		}
	}
	return nil
}

// ParseGrid reads a miryoku grid from forty binding strings, row by row.
func ParseGrid(entries []string) (Grid, error) {
	var g Grid
	if len(entries) != GridSize {
		return g, fmt.Errorf("grid needs %d entries, got %d", GridSize, len(entries))
	}
	for i, s := range entries {
		b, err := ParseBinding(s)
		if err != nil {
			return g, fmt.Errorf("grid entry %d: %w", i, err)
		}
		g[i] = b
	}
	return g, nil
}
