package input

import (
	"time"

	"github.com/valerio/go-dualrole/dualrole/backend"
	"github.com/valerio/go-dualrole/dualrole/input/action"
	"github.com/valerio/go-dualrole/dualrole/input/event"
	"github.com/valerio/go-dualrole/dualrole/keycode"
)

// Handler cleans up the event stream between a backend and the engine.
// Key presses of a key already down are auto-repeat and become Hold.
// Releases of keys that were never seen going down are dropped. Host
// controls are debounced.
type Handler struct {
	held           map[keycode.Keycode]bool
	lastActionTime map[action.Action]time.Time
	debounceDelay  time.Duration
}

func NewHandler() *Handler {
	return &Handler{
		held:           make(map[keycode.Keycode]bool),
		lastActionTime: make(map[action.Action]time.Time),
		debounceDelay:  300 * time.Millisecond,
	}
}

// ProcessEvent returns the event to handle and whether to handle it at all.
func (h *Handler) ProcessEvent(evt backend.InputEvent) (backend.InputEvent, bool) {
	if evt.Time.IsZero() {
		evt.Time = time.Now()
	}

	if evt.Action != action.Key {
		if evt.Type != event.Press {
			return evt, false
		}
		if last, ok := h.lastActionTime[evt.Action]; ok && evt.Time.Sub(last) < h.debounceDelay {
			return evt, false
		}
		h.lastActionTime[evt.Action] = evt.Time
		return evt, true
	}

	switch evt.Type {
	case event.Press:
		if h.held[evt.Key] {
			evt.Type = event.Hold
			return evt, true
		}
		h.held[evt.Key] = true
	case event.Release:
		if !h.held[evt.Key] {
			return evt, false
		}
		delete(h.held, evt.Key)
	case event.Hold:
		if !h.held[evt.Key] {
			return evt, false
		}
	}
	return evt, true
}

// Held reports whether the handler has seen k go down and not come up.
func (h *Handler) Held(k keycode.Keycode) bool {
	return h.held[k]
}

// Reset forgets every held key.
func (h *Handler) Reset() {
	h.held = make(map[keycode.Keycode]bool)
}
