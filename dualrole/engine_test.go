package dualrole_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dualrole/dualrole"
	"github.com/valerio/go-dualrole/dualrole/dance"
	"github.com/valerio/go-dualrole/dualrole/input/event"
	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/keymap"
	"github.com/valerio/go-dualrole/dualrole/layer"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

// step is one host key edge, or a scan tick when key is None.
type step struct {
	ms  int
	key keycode.Keycode
	typ event.Type
}

func down(ms int, k keycode.Keycode) step { return step{ms, k, event.Press} }
func up(ms int, k keycode.Keycode) step   { return step{ms, k, event.Release} }
func tick(ms int) step                    { return step{ms: ms} }

func run(e *dualrole.Engine, steps ...step) {
	for _, s := range steps {
		if s.key == keycode.None {
			e.Tick(at(s.ms))
			continue
		}
		e.HandleKey(s.key, s.typ, at(s.ms))
	}
}

func effects(e *dualrole.Engine) []string {
	var out []string
	for _, eff := range e.Recorder().Recent(0) {
		out = append(out, eff.String())
	}
	return out
}

func TestEngineScenarios(t *testing.T) {
	tests := []struct {
		name    string
		steps   []step
		effects []string
		typed   string
	}{
		{
			name:    "space tap types a space after the term",
			steps:   []step{down(0, keycode.Space), up(50, keycode.Space), tick(100), tick(250)},
			effects: []string{"down space", "up space"},
			typed:   " ",
		},
		{
			name: "space held past the term turns nav on",
			steps: []step{
				down(0, keycode.Space), tick(250),
				down(300, keycode.J), up(320, keycode.J),
				up(400, keycode.Space),
			},
			effects: []string{"layer-on nav", "down down", "up down", "layer-off nav"},
		},
		{
			name: "another key interrupts the window as a tap",
			steps: []step{
				down(0, keycode.Space), down(50, keycode.J),
				up(80, keycode.Space), up(90, keycode.J),
			},
			effects: []string{"down space", "down j", "up space", "up j"},
			typed:   " j",
		},
		{
			name: "backspace double tap deletes once",
			steps: []step{
				down(0, keycode.A), up(10, keycode.A),
				down(20, keycode.B), up(30, keycode.B),
				down(100, keycode.Backspace), up(150, keycode.Backspace),
				down(200, keycode.Backspace), up(250, keycode.Backspace),
				tick(500),
			},
			effects: []string{"down a", "up a", "down b", "up b", "down backspace", "up backspace"},
			typed:   "a",
		},
		{
			name: "backspace double hold keeps backspace down",
			steps: []step{
				down(0, keycode.Backspace), up(50, keycode.Backspace),
				down(100, keycode.Backspace), tick(350),
				up(600, keycode.Backspace),
			},
			effects: []string{"down backspace", "up backspace"},
		},
		{
			name: "backspace held turns num on",
			steps: []step{
				down(0, keycode.Backspace), tick(201),
				down(250, keycode.W), up(260, keycode.W),
				down(270, keycode.S), up(280, keycode.S),
				up(300, keycode.Backspace),
			},
			effects: []string{"layer-on num", "down 7", "up 7", "down 4", "up 4", "layer-off num"},
			typed:   "74",
		},
		{
			name: "second tap interrupted repeats the base key",
			steps: []step{
				down(0, keycode.Space), up(40, keycode.Space),
				down(80, keycode.Space), down(120, keycode.J),
				up(130, keycode.J), up(150, keycode.Space),
			},
			effects: []string{"down space", "up space", "down space", "down j", "up j", "up space"},
			typed:   "  j",
		},
		{
			name:    "decorative key sends shift",
			steps:   []step{down(0, keycode.Grave), up(10, keycode.Grave)},
			effects: []string{"down lshift", "down 9", "up 9", "up lshift"},
			typed:   "(",
		},
		{
			name:    "unmapped host keys pass through",
			steps:   []step{down(0, keycode.F1), down(5, keycode.F1), up(10, keycode.F1)},
			effects: []string{"down f1", "up f1"},
		},
		{
			name:    "XXX sends nothing",
			steps:   []step{down(0, keycode.Space), tick(300), down(310, keycode.Q), up(320, keycode.Q), up(330, keycode.Space)},
			effects: []string{"layer-on nav", "layer-off nav"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := dualrole.New(dualrole.Options{}, nil)
			run(e, tt.steps...)

			assert.Equal(t, tt.effects, effects(e))
			assert.Equal(t, tt.typed, e.Recorder().Typed())
			assert.False(t, e.Busy(), "engine should be idle after the scenario")
			assert.Equal(t, []layer.ID{layer.Base}, e.Layers())
		})
	}
}

func TestEngineReleaseUsesBindingFromPress(t *testing.T) {
	e := dualrole.New(dualrole.Options{}, nil)

	run(e,
		down(0, keycode.Space), tick(250),
		down(260, keycode.J),
		up(270, keycode.Space),
		up(280, keycode.J),
	)

	assert.Equal(t, []string{"layer-on nav", "down down", "layer-off nav", "up down"}, effects(e))
	assert.Empty(t, e.Recorder().Held())
}

func TestEngineReset(t *testing.T) {
	e := dualrole.New(dualrole.Options{}, nil)

	run(e, down(0, keycode.Space), tick(250), down(260, keycode.J))
	require.True(t, e.Busy())
	require.Equal(t, []layer.ID{layer.Nav, layer.Base}, e.Layers())

	e.Reset()

	assert.False(t, e.Busy())
	assert.Equal(t, []layer.ID{layer.Base}, e.Layers())
	assert.Empty(t, e.Recorder().Held())

	// Releases after a reset are ignored.
	run(e, up(300, keycode.J), up(310, keycode.Space))
	assert.Equal(t, []string{"layer-on nav", "down down", "layer-off nav", "up down"}, effects(e))
}

func TestEngineReconfigureWaitsForIdle(t *testing.T) {
	e := dualrole.New(dualrole.Options{}, nil)
	km := keymap.New()
	var base keymap.Layer
	base[keymap.Thumb(1)] = keymap.Dance(dance.SpaceNav)
	base[keymap.Pos(1, 7)] = keymap.Key(keycode.K)
	km.Set(layer.Base, base)

	run(e, down(0, keycode.J))
	e.Reconfigure(dualrole.Options{Keymap: km, TappingTerm: 50 * time.Millisecond})

	assert.Equal(t, 200*time.Millisecond, e.TappingTerm(), "not applied while a key is down")

	run(e, up(10, keycode.J))
	assert.Equal(t, 50*time.Millisecond, e.TappingTerm())

	run(e, down(20, keycode.J), up(30, keycode.J))
	assert.Equal(t, "jk", e.Recorder().Typed())
}

func TestEngineCustomBindings(t *testing.T) {
	e := dualrole.New(dualrole.Options{
		Bindings: map[dance.ID]dance.Key{
			dance.SpaceNav: {Keycode: keycode.Enter, Layer: layer.Num},
		},
	}, nil)

	run(e, down(0, keycode.Space), tick(250), down(260, keycode.W), up(270, keycode.W), up(280, keycode.Space))
	assert.Equal(t, []string{"layer-on num", "down 7", "up 7", "layer-off num"}, effects(e))
}

func TestEngineSnapshot(t *testing.T) {
	e := dualrole.New(dualrole.Options{}, nil)

	run(e, down(0, keycode.Backspace), tick(250))
	s := e.Snapshot(10)

	assert.Equal(t, []layer.ID{layer.Num, layer.Base}, s.Layers)
	require.Len(t, s.Dances, dance.Count)
	assert.Equal(t, dance.Idle, s.Dances[dance.SpaceNav].State)
	assert.Equal(t, dance.SingleHold, s.Dances[dance.BackspaceNum].State)
	assert.Equal(t, 1, s.Dances[dance.BackspaceNum].Taps)
	assert.True(t, s.Dances[dance.BackspaceNum].Pressed)
	assert.True(t, s.Pressed[keymap.Thumb(4)])
	assert.Equal(t, layer.Num, s.TopLayer())
	assert.Equal(t, at(250), s.Time)
	require.Len(t, s.Effects, 1)
	assert.Equal(t, at(250), s.Effects[0].Time)
}
