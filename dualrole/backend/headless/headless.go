package headless

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/valerio/go-dualrole/dualrole/backend"
	"github.com/valerio/go-dualrole/dualrole/display"
	"github.com/valerio/go-dualrole/dualrole/events"
	"github.com/valerio/go-dualrole/dualrole/input/action"
	"github.com/valerio/go-dualrole/dualrole/input/event"
	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/timing"
)

// Epoch is the instant a replay starts at.
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Backend replays a script on a manual clock, for automated testing and
// batch runs. Time advances one scan interval per Update, however fast the
// host loop spins.
type Backend struct {
	config    backend.BackendConfig
	script    Script
	clock     *timing.Manual
	scheduler *events.EventScheduler
	step      time.Duration
	out       io.Writer
	last      *display.Snapshot
	done      bool
}

// New returns a backend replaying script. The final state is written to out
// when the script ends; nil means stdout.
func New(script Script, out io.Writer) *Backend {
	if out == nil {
		out = os.Stdout
	}
	return &Backend{
		script: script,
		clock:  timing.NewManual(Epoch),
		out:    out,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config
	h.step = config.ScanInterval
	if h.step <= 0 {
		h.step = timing.DefaultScanInterval
	}

	h.scheduler = events.NewEventScheduler()
	if err := h.script.schedule(h.scheduler); err != nil {
		return fmt.Errorf("invalid script: %w", err)
	}
	h.scheduler.Start()

	slog.Info("Running headless replay",
		"steps", len(h.script.Steps),
		"events", h.scheduler.EventCount(),
		"scan_interval", h.step)
	return nil
}

// Clock returns the replay clock. The host loop must read time from it.
func (h *Backend) Clock() timing.Clock {
	return h.clock
}

// Update returns the script events due at the current replay time, then
// moves the clock on by one scan.
func (h *Backend) Update(s *display.Snapshot) ([]backend.InputEvent, error) {
	if h.done {
		return []backend.InputEvent{backend.Control(action.Quit)}, nil
	}
	h.last = s

	now := h.clock.Now()
	var evts []backend.InputEvent
	for _, ev := range h.scheduler.Due(now.Sub(Epoch)) {
		at := Epoch.Add(ev.At)
		switch ev.EventType {
		case events.KeyDown:
			evts = append(evts, backend.Key(ev.Data.(keycode.Keycode), event.Press, at))
		case events.KeyUp:
			evts = append(evts, backend.Key(ev.Data.(keycode.Keycode), event.Release, at))
		case events.Control:
			c := backend.Control(ev.Data.(action.Action))
			c.Time = at
			evts = append(evts, c)
		case events.End:
			h.finish(s)
			evts = append(evts, backend.InputEvent{Action: action.Quit, Type: event.Press, Time: at})
		}
	}

	h.clock.Advance(h.step)
	return evts, nil
}

func (h *Backend) finish(s *display.Snapshot) {
	h.done = true
	h.scheduler.Stop()
	if s == nil {
		slog.Warn("Replay finished without engine state")
		return
	}
	slog.Info("Headless replay completed", "elapsed", s.Time.Sub(Epoch), "typed", s.Typed)
	fmt.Fprint(h.out, display.Format(s))
}

// Last returns the most recent snapshot handed to Update.
func (h *Backend) Last() *display.Snapshot {
	return h.last
}

func (h *Backend) Cleanup() error {
	if h.scheduler != nil {
		h.scheduler.Stop()
	}
	return nil
}
