// Package tapping measures tapping windows for dual-role keys and reports
// how each window closed.
package tapping

import (
	"log/slog"
	"time"

	"github.com/valerio/go-dualrole/dualrole/dance"
)

// DefaultTerm is the window a key has to be tapped again or held through.
const DefaultTerm = 200 * time.Millisecond

// Dispatcher receives closed windows and releases.
type Dispatcher interface {
	Resolved(id dance.ID, e dance.Event)
	Released(id dance.ID)
}

type window struct {
	count       int
	pressed     bool
	interrupted bool
	finished    bool
	deadline    time.Time
}

func (w *window) active() bool {
	return w.count > 0
}

// Resolver tracks one window per dual-role key. It is driven from the host
// loop and never blocks or starts goroutines.
type Resolver struct {
	term       time.Duration
	windows    [dance.Count]window
	dispatcher Dispatcher
}

// NewResolver returns a resolver reporting to d. A non-positive term falls
// back to DefaultTerm.
func NewResolver(term time.Duration, d Dispatcher) *Resolver {
	if term <= 0 {
		term = DefaultTerm
	}
	return &Resolver{term: term, dispatcher: d}
}

// Term returns the tapping term in use.
func (r *Resolver) Term() time.Duration { return r.term }

// SetTerm changes the tapping term for windows opened from now on.
func (r *Resolver) SetTerm(term time.Duration) {
	if term > 0 {
		r.term = term
	}
}

// Press records a press of a dual-role key and restarts its window.
func (r *Resolver) Press(id dance.ID, now time.Time) {
	if !id.Valid() {
		return
	}
	w := &r.windows[id]
	if w.finished {
		// The previous window resolved while the key was down and its
		// release never arrived. Close it before starting over.
		slog.Debug("Press on a finished dance, resetting", "dance", id)
		r.reset(id)
	}
	w.count++
	w.pressed = true
	w.deadline = now.Add(r.term)
}

// Release records a release. A window that already resolved is reset now;
// otherwise the window keeps running until the term expires or it is
// interrupted.
func (r *Resolver) Release(id dance.ID, now time.Time) {
	if !id.Valid() {
		return
	}
	w := &r.windows[id]
	if !w.active() {
		return
	}
	w.pressed = false
	if w.finished {
		r.reset(id)
	}
}

// Interrupt reports that some other key was pressed. Every open window
// except the one for except closes now as interrupted. Pass -1 (or any
// invalid ID) when the interrupting key is not a dual-role key.
func (r *Resolver) Interrupt(except dance.ID, now time.Time) {
	for _, id := range dance.IDs() {
		if id == except {
			continue
		}
		w := &r.windows[id]
		if !w.active() || w.finished {
			continue
		}
		w.interrupted = true
		r.finish(id)
	}
}

// Tick closes every window whose term has run out.
func (r *Resolver) Tick(now time.Time) {
	for _, id := range dance.IDs() {
		w := &r.windows[id]
		if !w.active() || w.finished {
			continue
		}
		if now.After(w.deadline) {
			r.finish(id)
		}
	}
}

// Pending reports whether any window is still open or waiting for release.
func (r *Resolver) Pending() bool {
	for i := range r.windows {
		if r.windows[i].active() {
			return true
		}
	}
	return false
}

// Flush resolves every open window as if its term had expired and releases
// every key, leaving the resolver idle.
func (r *Resolver) Flush() {
	for _, id := range dance.IDs() {
		w := &r.windows[id]
		if !w.active() {
			continue
		}
		if !w.finished {
			r.finish(id)
		}
		w.pressed = false
		if r.windows[id].active() {
			r.reset(id)
		}
	}
}

// TapCount returns the presses seen so far in the window for id.
func (r *Resolver) TapCount(id dance.ID) int {
	if !id.Valid() {
		return 0
	}
	return r.windows[id].count
}

// Pressed reports whether the key for id is down in its current window.
func (r *Resolver) Pressed(id dance.ID) bool {
	if !id.Valid() {
		return false
	}
	return r.windows[id].pressed
}

func (r *Resolver) finish(id dance.ID) {
	w := &r.windows[id]
	e := dance.Event{
		TapCount:     w.count,
		Interrupted:  w.interrupted,
		StillPressed: w.pressed,
	}
	w.finished = true
	r.dispatcher.Resolved(id, e)
	if !w.pressed {
		r.reset(id)
	}
}

func (r *Resolver) reset(id dance.ID) {
	r.dispatcher.Released(id)
	r.windows[id] = window{}
}
