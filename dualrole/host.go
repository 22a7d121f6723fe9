package dualrole

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/valerio/go-dualrole/dualrole/backend"
	"github.com/valerio/go-dualrole/dualrole/display"
	"github.com/valerio/go-dualrole/dualrole/input"
	"github.com/valerio/go-dualrole/dualrole/input/action"
	"github.com/valerio/go-dualrole/dualrole/input/event"
	"github.com/valerio/go-dualrole/dualrole/timing"
)

// HostConfig wires an engine to a backend.
type HostConfig struct {
	Backend backend.BackendConfig
	// Limiter paces the loop. Nil runs flat out.
	Limiter timing.Limiter
	// Clock is used unless the backend brings its own.
	Clock timing.Clock
	// SnapshotDir is where the snapshot control writes to.
	SnapshotDir string
	// Reconfigure delivers new engine options, typically from a config
	// watcher. May be nil.
	Reconfigure <-chan Options
}

// Host runs the scan loop: tick the engine, hand the backend a snapshot,
// feed the backend's events back in.
type Host struct {
	engine   *Engine
	backend  backend.Backend
	config   HostConfig
	clock    timing.Clock
	limiter  timing.Limiter
	handler  *input.Handler
	manager  *input.Manager
	running  bool
	lastTime time.Time
	scans    uint64
}

func NewHost(e *Engine, b backend.Backend, cfg HostConfig) *Host {
	h := &Host{
		engine:  e,
		backend: b,
		config:  cfg,
		clock:   cfg.Clock,
		limiter: cfg.Limiter,
		handler: input.NewHandler(),
		manager: input.NewManager(),
	}
	if h.clock == nil {
		h.clock = timing.System
	}
	if cp, ok := b.(backend.ClockProvider); ok {
		h.clock = cp.Clock()
	}
	if h.limiter == nil {
		h.limiter = timing.NewNoOpLimiter()
	}
	h.setupCallbacks()
	return h
}

// Manager exposes the control callbacks so callers can add their own.
func (h *Host) Manager() *input.Manager {
	return h.manager
}

func (h *Host) setupCallbacks() {
	h.manager.On(action.Quit, event.Press, func() {
		slog.Info("Quit requested")
		h.running = false
	})
	h.manager.On(action.Reset, event.Press, func() {
		h.engine.Reset()
		h.handler.Reset()
	})
	h.manager.On(action.Snapshot, event.Press, func() {
		if _, err := display.SaveSnapshot(h.engine.Snapshot(h.config.Backend.RecentEffects), h.config.SnapshotDir); err != nil {
			slog.Error("Failed to save snapshot", "error", err)
		}
	})
	h.manager.On(action.LogLevelIncrease, event.Press, func() { h.changeLogLevel(1) })
	h.manager.On(action.LogLevelDecrease, event.Press, func() { h.changeLogLevel(-1) })
}

func (h *Host) changeLogLevel(direction int) {
	lv := h.config.Backend.LogLevel
	if lv == nil {
		return
	}
	lv.Set(backend.StepLogLevel(lv.Level(), direction))
	slog.Info("Log level changed", "level", lv.Level())
}

// Run initializes the backend and loops until a quit control arrives, the
// context ends or the backend fails.
func (h *Host) Run(ctx context.Context) error {
	if err := h.backend.Init(h.config.Backend); err != nil {
		return fmt.Errorf("failed to initialize backend: %w", err)
	}
	defer func() {
		h.engine.Reset()
		if err := h.backend.Cleanup(); err != nil {
			slog.Error("Backend cleanup failed", "error", err)
		}
	}()

	h.running = true
	h.limiter.Reset()
	for h.running {
		select {
		case <-ctx.Done():
			slog.Info("Host loop cancelled", "scans", h.scans)
			return ctx.Err()
		case opts := <-h.config.Reconfigure:
			h.engine.Reconfigure(opts)
		default:
		}

		if err := h.Step(); err != nil {
			return err
		}
		h.limiter.WaitForNextScan()
	}
	slog.Info("Host loop stopped", "scans", h.scans)
	return nil
}

// Step runs one scan.
func (h *Host) Step() error {
	h.scans++
	now := h.advance(h.clock.Now())
	h.engine.Tick(now)

	evts, err := h.backend.Update(h.engine.Snapshot(h.config.Backend.RecentEffects))
	if err != nil {
		return fmt.Errorf("backend update failed: %w", err)
	}
	for _, ev := range evts {
		h.dispatch(ev)
	}
	return nil
}

func (h *Host) dispatch(ev backend.InputEvent) {
	if ev.Time.IsZero() {
		ev.Time = h.clock.Now()
	}
	ev, ok := h.handler.ProcessEvent(ev)
	if !ok {
		return
	}
	at := h.advance(ev.Time)

	if ev.Action.IsControl() {
		if !h.manager.Trigger(ev.Action, ev.Type) {
			slog.Debug("Unhandled control", "action", ev.Action, "type", ev.Type)
		}
		return
	}
	h.engine.HandleKey(ev.Key, ev.Type, at)
}

// advance keeps engine time from running backwards when a backend stamps an
// event earlier than the last scan.
func (h *Host) advance(t time.Time) time.Time {
	if t.Before(h.lastTime) {
		return h.lastTime
	}
	h.lastTime = t
	return t
}
