package backend

import (
	"log/slog"
	"time"

	"github.com/valerio/go-dualrole/dualrole/display"
	"github.com/valerio/go-dualrole/dualrole/input/action"
	"github.com/valerio/go-dualrole/dualrole/input/event"
	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/timing"
)

// Backend is a source of key edges plus, optionally, a view of the engine.
// Backends are responsible for:
// - Polling their platform for key events and translating them to keycodes
// - Reporting host controls (quit, reset, snapshot, log level) as actions
// - Drawing the snapshot they are handed, if they have a screen
type Backend interface {
	// Init configures the backend. Required before calling Update.
	Init(config BackendConfig) error

	// Update draws the snapshot and returns the input events that arrived
	// since the previous call, oldest first.
	Update(s *display.Snapshot) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// ClockProvider is implemented by backends that run on their own clock,
// such as script replay.
type ClockProvider interface {
	Clock() timing.Clock
}

// InputEvent is one edge of a host key or a host control.
type InputEvent struct {
	Action action.Action
	Type   event.Type
	Key    keycode.Keycode
	// Time is when the edge happened. Zero means "now".
	Time time.Time
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title    string
	LogLevel *slog.LevelVar
	// KeyTimeout is how long a terminal key may go without repeating
	// before it counts as released.
	KeyTimeout time.Duration
	// ScanInterval is the host loop period, used by replay to advance time.
	ScanInterval time.Duration
	// Device and Grab configure the evdev backend.
	Device string
	Grab   bool
	// RecentEffects is how many effects the backend would like to draw.
	RecentEffects int
}

// Level returns the configured log level, info if unset.
func (c BackendConfig) Level() slog.Level {
	if c.LogLevel == nil {
		return slog.LevelInfo
	}
	return c.LogLevel.Level()
}

// Key builds a key edge.
func Key(k keycode.Keycode, t event.Type, at time.Time) InputEvent {
	return InputEvent{Action: action.Key, Type: t, Key: k, Time: at}
}

// Control builds a host control press.
func Control(a action.Action) InputEvent {
	return InputEvent{Action: a, Type: event.Press}
}

// StepLogLevel moves a level one step more (+1) or less (-1) verbose,
// between debug and error.
func StepLogLevel(l slog.Level, direction int) slog.Level {
	levels := []slog.Level{slog.LevelError, slog.LevelWarn, slog.LevelInfo, slog.LevelDebug}
	idx := 2
	for i, lv := range levels {
		if lv == l {
			idx = i
		}
	}
	idx += direction
	if idx < 0 {
		idx = 0
	}
	if idx >= len(levels) {
		idx = len(levels) - 1
	}
	return levels[idx]
}
