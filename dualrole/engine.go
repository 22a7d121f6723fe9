// Package dualrole is a small keyboard host built around dual-role keys.
// The Engine turns key edges from a backend into key edges for an output
// writer, resolving taps and holds of the dual-role keys on the way.
package dualrole

import (
	"log/slog"
	"time"

	"github.com/valerio/go-dualrole/dualrole/dance"
	"github.com/valerio/go-dualrole/dualrole/display"
	"github.com/valerio/go-dualrole/dualrole/input/event"
	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/keymap"
	"github.com/valerio/go-dualrole/dualrole/layer"
	"github.com/valerio/go-dualrole/dualrole/output"
	"github.com/valerio/go-dualrole/dualrole/tapping"
)

// Options configure an Engine. Zero values fall back to the defaults.
type Options struct {
	Keymap      *keymap.Keymap
	Matrix      keymap.Matrix
	Bindings    map[dance.ID]dance.Key
	TappingTerm time.Duration
	// HistorySize is how many effects the recorder keeps.
	HistorySize int
}

func (o Options) withDefaults() Options {
	if o.Keymap == nil {
		o.Keymap = keymap.Default()
	}
	if o.Matrix == nil {
		o.Matrix = keymap.DefaultMatrix()
	}
	if o.Bindings == nil {
		o.Bindings = dance.DefaultBindings()
	}
	if o.TappingTerm <= 0 {
		o.TappingTerm = tapping.DefaultTerm
	}
	if o.HistorySize <= 0 {
		o.HistorySize = 256
	}
	return o
}

// Engine is the host side of the keyboard. It is not safe for concurrent
// use; the host loop owns it.
type Engine struct {
	keymap   *keymap.Keymap
	matrix   keymap.Matrix
	layers   layer.State
	table    *dance.Table
	resolver *tapping.Resolver
	recorder *output.Recorder
	out      output.Writer

	// held remembers the binding each position was pressed with, so the
	// release does the same thing whatever layers changed in between.
	held        map[keymap.Position]keymap.Binding
	passthrough map[keycode.Keycode]bool

	pending *Options
	now     time.Time
}

// New returns an engine writing to w. w may be nil, in which case only the
// recorder sees the output.
func New(opts Options, w output.Writer) *Engine {
	opts = opts.withDefaults()
	e := &Engine{
		keymap:      opts.Keymap,
		matrix:      opts.Matrix,
		table:       dance.NewTable(opts.Bindings),
		recorder:    output.NewRecorder(opts.HistorySize),
		held:        make(map[keymap.Position]keymap.Binding),
		passthrough: make(map[keycode.Keycode]bool),
	}
	e.recorder.SetClock(func() time.Time { return e.now })
	if w == nil {
		e.out = e.recorder
	} else {
		e.out = output.Multi(e.recorder, w)
	}
	e.resolver = tapping.NewResolver(opts.TappingTerm, dispatcher{e})
	return e
}

// HandleKey processes one edge of a host key.
func (e *Engine) HandleKey(k keycode.Keycode, t event.Type, now time.Time) {
	e.now = now
	switch t {
	case event.Press:
		e.press(k, now)
	case event.Release:
		e.release(k, now)
	}
	e.applyPending()
}

func (e *Engine) press(k keycode.Keycode, now time.Time) {
	pos, ok := e.matrix.Position(k)
	if !ok {
		if e.passthrough[k] {
			return
		}
		e.resolver.Interrupt(-1, now)
		e.passthrough[k] = true
		e.out.Press(k)
		return
	}
	if _, down := e.held[pos]; down {
		return
	}

	except := dance.ID(-1)
	if b := e.keymap.Lookup(pos, &e.layers); b.Kind == keymap.KindDance {
		except = b.Dance
	}
	e.resolver.Interrupt(except, now)

	// Interrupting a dance can change layers, so look again.
	b := e.keymap.Lookup(pos, &e.layers)
	e.held[pos] = b
	slog.Debug("Key press", "key", k, "pos", pos, "binding", b)

	switch b.Kind {
	case keymap.KindKey:
		if b.Shift {
			e.out.Press(keycode.LeftShift)
		}
		e.out.Press(b.Keycode)
	case keymap.KindDance:
		e.resolver.Press(b.Dance, now)
	}
}

func (e *Engine) release(k keycode.Keycode, now time.Time) {
	pos, ok := e.matrix.Position(k)
	if !ok {
		if e.passthrough[k] {
			delete(e.passthrough, k)
			e.out.Release(k)
		}
		return
	}
	b, down := e.held[pos]
	if !down {
		return
	}
	delete(e.held, pos)
	slog.Debug("Key release", "key", k, "pos", pos, "binding", b)

	switch b.Kind {
	case keymap.KindKey:
		e.out.Release(b.Keycode)
		if b.Shift {
			e.out.Release(keycode.LeftShift)
		}
	case keymap.KindDance:
		e.resolver.Release(b.Dance, now)
	}
}

// Tick closes tapping windows whose term has passed. Call it once per scan.
func (e *Engine) Tick(now time.Time) {
	e.now = now
	e.resolver.Tick(now)
	e.applyPending()
}

// Reset releases everything that is down, resolves open windows and turns
// every layer off.
func (e *Engine) Reset() {
	e.resolver.Flush()
	for pos, b := range e.held {
		if b.Kind == keymap.KindKey {
			e.out.Release(b.Keycode)
			if b.Shift {
				e.out.Release(keycode.LeftShift)
			}
		}
		delete(e.held, pos)
	}
	for k := range e.passthrough {
		e.out.Release(k)
		delete(e.passthrough, k)
	}
	for _, id := range e.layers.Active() {
		if id != layer.Base {
			e.layerOff(id)
		}
	}
	slog.Info("Engine reset")
	e.applyPending()
}

// Busy reports whether any key is down or any dance is unresolved.
func (e *Engine) Busy() bool {
	return len(e.held) > 0 || len(e.passthrough) > 0 || e.resolver.Pending() || e.table.Busy()
}

// Reconfigure swaps keymap, matrix, dance bindings and tapping term. The
// change waits until nothing is held so no release is lost.
func (e *Engine) Reconfigure(opts Options) {
	opts = opts.withDefaults()
	e.pending = &opts
	e.applyPending()
}

func (e *Engine) applyPending() {
	if e.pending == nil || e.Busy() {
		return
	}
	opts := e.pending
	e.pending = nil

	e.keymap = opts.Keymap
	e.matrix = opts.Matrix
	e.table = dance.NewTable(opts.Bindings)
	e.resolver.SetTerm(opts.TappingTerm)
	slog.Info("Configuration applied", "tapping_term", opts.TappingTerm)
}

// Recorder returns the recorder every effect goes through.
func (e *Engine) Recorder() *output.Recorder { return e.recorder }

// TappingTerm returns the tapping term in use.
func (e *Engine) TappingTerm() time.Duration { return e.resolver.Term() }

// Layers returns the active layers, highest first.
func (e *Engine) Layers() []layer.ID { return e.layers.Active() }

// Keymap returns the keymap in use.
func (e *Engine) Keymap() *keymap.Keymap { return e.keymap }

// Snapshot copies the state a backend needs to draw.
func (e *Engine) Snapshot(recent int) *display.Snapshot {
	s := &display.Snapshot{
		Time:    e.now,
		Layers:  e.layers.Active(),
		Held:    e.recorder.Held(),
		Pressed: make(map[keymap.Position]bool, len(e.held)),
		Effects: e.recorder.Recent(recent),
		Typed:   e.recorder.Typed(),
		Keymap:  e.keymap,
	}
	for pos := range e.held {
		s.Pressed[pos] = true
	}
	for _, id := range dance.IDs() {
		s.Dances = append(s.Dances, display.DanceStatus{
			ID:      id,
			State:   e.table.Instance(id).State(),
			Taps:    e.resolver.TapCount(id),
			Pressed: e.resolver.Pressed(id),
		})
	}
	return s
}

func (e *Engine) layerOn(id layer.ID) {
	if e.layers.IsOn(id) {
		return
	}
	e.layers.On(id)
	e.notifyLayer(id, true)
}

func (e *Engine) layerOff(id layer.ID) {
	if !e.layers.IsOn(id) || id == layer.Base {
		return
	}
	e.layers.Off(id)
	e.notifyLayer(id, false)
}

func (e *Engine) notifyLayer(id layer.ID, on bool) {
	if o, ok := e.out.(output.LayerObserver); ok {
		o.LayerChanged(id, on)
	}
}

// dispatcher connects the resolver to the dance table, and the dance table
// to the engine's outputs.
type dispatcher struct {
	e *Engine
}

func (d dispatcher) Resolved(id dance.ID, ev dance.Event) {
	d.e.table.Resolved(d, id, ev)
}

func (d dispatcher) Released(id dance.ID) {
	d.e.table.Released(d, id)
}

func (d dispatcher) KeyDown(k keycode.Keycode) { d.e.out.Press(k) }
func (d dispatcher) KeyUp(k keycode.Keycode)   { d.e.out.Release(k) }

func (d dispatcher) Tap(k keycode.Keycode) {
	d.e.out.Press(k)
	d.e.out.Release(k)
}

func (d dispatcher) LayerOn(id layer.ID)  { d.e.layerOn(id) }
func (d dispatcher) LayerOff(id layer.ID) { d.e.layerOff(id) }
