// Package output receives what the engine produces: key edges for the host
// and a record of every effect for display and tests.
package output

import (
	"fmt"
	"time"

	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/layer"
)

// Writer sends key edges to whatever stands in for the USB host.
type Writer interface {
	Press(k keycode.Keycode)
	Release(k keycode.Keycode)
}

// LayerObserver is told about layer changes. Writers may implement it.
type LayerObserver interface {
	LayerChanged(id layer.ID, on bool)
}

// Kind of effect
type Kind uint8

const (
	KeyDown Kind = iota
	KeyUp
	LayerOn
	LayerOff
)

func (k Kind) String() string {
	switch k {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	case LayerOn:
		return "layer-on"
	case LayerOff:
		return "layer-off"
	default:
		return "unknown"
	}
}

// Effect is one observable action of the engine.
type Effect struct {
	Time  time.Time
	Kind  Kind
	Key   keycode.Keycode
	Layer layer.ID
}

func (e Effect) String() string {
	switch e.Kind {
	case LayerOn, LayerOff:
		return fmt.Sprintf("%s %s", e.Kind, e.Layer)
	default:
		return fmt.Sprintf("%s %s", e.Kind, e.Key)
	}
}

// Multi fans key edges out to several writers, in order.
func Multi(writers ...Writer) Writer {
	return multi(writers)
}

type multi []Writer

func (m multi) Press(k keycode.Keycode) {
	for _, w := range m {
		w.Press(k)
	}
}

func (m multi) Release(k keycode.Keycode) {
	for _, w := range m {
		w.Release(k)
	}
}

func (m multi) LayerChanged(id layer.ID, on bool) {
	for _, w := range m {
		if o, ok := w.(LayerObserver); ok {
			o.LayerChanged(id, on)
		}
	}
}

// Discard drops every edge.
var Discard Writer = discard{}

type discard struct{}

func (discard) Press(keycode.Keycode)   {}
func (discard) Release(keycode.Keycode) {}
