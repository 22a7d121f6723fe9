package headless

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valerio/go-dualrole/dualrole/events"
	"github.com/valerio/go-dualrole/dualrole/input/action"
	"github.com/valerio/go-dualrole/dualrole/keycode"
)

// Script is a timed sequence of host key edges.
//
//	settle_ms: 500
//	steps:
//	  - {at: 0, press: space}
//	  - {at: 250, release: space}
//	  - {at: 400, tap: bspc, hold_ms: 30}
//	  - {at: 600, text: "hello", gap_ms: 40}
//	  - {at: 900, control: snapshot}
type Script struct {
	// SettleMs is how long the replay keeps running after the last step.
	SettleMs int    `yaml:"settle_ms"`
	Steps    []Step `yaml:"steps"`
}

// Step is one entry of a script. Exactly one of Press, Release, Tap, Text
// and Control is set.
type Step struct {
	At      int    `yaml:"at"`
	Press   string `yaml:"press,omitempty"`
	Release string `yaml:"release,omitempty"`
	Tap     string `yaml:"tap,omitempty"`
	HoldMs  int    `yaml:"hold_ms,omitempty"`
	Text    string `yaml:"text,omitempty"`
	GapMs   int    `yaml:"gap_ms,omitempty"`
	Control string `yaml:"control,omitempty"`
}

const (
	defaultSettle = 1000 * time.Millisecond
	defaultHold   = 20 * time.Millisecond
	defaultGap    = 50 * time.Millisecond
)

var controls = map[string]action.Action{
	"quit":     action.Quit,
	"reset":    action.Reset,
	"snapshot": action.Snapshot,
}

// LoadScript reads a YAML (or JSON) script from path.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes and checks a script.
func ParseScript(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := s.schedule(events.NewEventScheduler()); err != nil {
		return s, err
	}
	return s, nil
}

// Settle returns how long to run after the last step.
func (s Script) Settle() time.Duration {
	if s.SettleMs <= 0 {
		return defaultSettle
	}
	return ms(s.SettleMs)
}

// schedule expands the steps into key edges and queues them, followed by
// the end of the run.
func (s Script) schedule(sched *events.EventScheduler) error {
	var errs []error
	var last time.Duration
	queue := func(t events.EventType, at time.Duration, data any) {
		sched.Schedule(t, at, data)
		if at > last {
			last = at
		}
	}

	for i, st := range s.Steps {
		at := ms(st.At)
		if st.At < 0 {
			errs = append(errs, fmt.Errorf("step %d: negative time", i))
			continue
		}
		set := 0
		for _, f := range []string{st.Press, st.Release, st.Tap, st.Text, st.Control} {
			if f != "" {
				set++
			}
		}
		if set != 1 {
			errs = append(errs, fmt.Errorf("step %d: need exactly one of press, release, tap, text, control", i))
			continue
		}

		switch {
		case st.Press != "" || st.Release != "" || st.Tap != "":
			name, typ := st.Press, events.KeyDown
			if st.Release != "" {
				name, typ = st.Release, events.KeyUp
			} else if st.Tap != "" {
				name = st.Tap
			}
			k, err := keycode.Parse(name)
			if err != nil {
				errs = append(errs, fmt.Errorf("step %d: %w", i, err))
				continue
			}
			queue(typ, at, k)
			if st.Tap != "" {
				queue(events.KeyUp, at+orDefault(st.HoldMs, defaultHold), k)
			}
		case st.Text != "":
			hold := orDefault(st.HoldMs, defaultHold)
			gap := orDefault(st.GapMs, defaultGap)
			for j, r := range []rune(st.Text) {
				k, ok := keycode.FromRune(r)
				if base, _ := k.Rune(); !ok || base != r {
					errs = append(errs, fmt.Errorf("step %d: cannot type %q without shift", i, r))
					break
				}
				start := at + time.Duration(j)*gap
				queue(events.KeyDown, start, k)
				queue(events.KeyUp, start+hold, k)
			}
		case st.Control != "":
			act, ok := controls[st.Control]
			if !ok {
				errs = append(errs, fmt.Errorf("step %d: unknown control %q", i, st.Control))
				continue
			}
			queue(events.Control, at, act)
		}
	}

	sched.Schedule(events.End, last+s.Settle(), nil)
	return errors.Join(errs...)
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func orDefault(n int, d time.Duration) time.Duration {
	if n <= 0 {
		return d
	}
	return ms(n)
}
