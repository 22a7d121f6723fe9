package dance

import (
	"log/slog"

	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/layer"
)

// Host is what a dual-role key drives. Every call is assumed to succeed and
// to return immediately.
type Host interface {
	KeyDown(k keycode.Keycode)
	KeyUp(k keycode.Keycode)
	// Tap sends a full press and release.
	Tap(k keycode.Keycode)
	LayerOn(id layer.ID)
	LayerOff(id layer.ID)
}

// Key is the configuration of one dual-role key.
type Key struct {
	Keycode keycode.Keycode
	Layer   layer.ID
}

// Instance is the runtime state of one dual-role key. It lives for the
// lifetime of the host and returns to Idle after every release.
type Instance struct {
	key           Key
	state         State
	isPressAction bool
}

// NewInstance returns an idle instance for k.
func NewInstance(k Key) *Instance {
	return &Instance{
		key:           k,
		state:         Idle,
		isPressAction: true,
	}
}

// Key returns the instance's configuration.
func (i *Instance) Key() Key { return i.key }

// PressAction reports whether effects fire when the window resolves rather
// than on release. Always true for dual-role keys.
func (i *Instance) PressAction() bool { return i.isPressAction }

// State returns the outcome stored by the last OnResolved, or Idle.
func (i *Instance) State() State { return i.state }

// OnResolved classifies a closed window, stores the outcome and sends the
// one effect it calls for. It returns the stored state.
func (i *Instance) OnResolved(h Host, e Event) State {
	i.state = Classify(e)

	switch i.state {
	case SingleTap, DoubleTap, DoubleHold:
		h.KeyDown(i.key.Keycode)
	case SingleHold:
		h.LayerOn(i.key.Layer)
	case RepeatedSingleTap:
		h.Tap(i.key.Keycode)
		h.KeyDown(i.key.Keycode)
	default:
		slog.Debug("Dance window left unclassified", "key", i.key.Keycode, "event", e)
	}

	return i.state
}

// OnReleased undoes whatever OnResolved started and returns to Idle.
//
// RepeatedSingleTap sent a full tap followed by a second press, so only one
// key-up is owed here.
func (i *Instance) OnReleased(h Host) {
	switch i.state {
	case SingleTap, DoubleTap, DoubleHold, RepeatedSingleTap:
		h.KeyUp(i.key.Keycode)
	case SingleHold:
		h.LayerOff(i.key.Layer)
	}
	i.state = Idle
}
