package headless_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dualrole/dualrole"
	"github.com/valerio/go-dualrole/dualrole/backend"
	"github.com/valerio/go-dualrole/dualrole/backend/headless"
	"github.com/valerio/go-dualrole/dualrole/input/action"
	"github.com/valerio/go-dualrole/dualrole/input/event"
	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/layer"
)

const script = `
settle_ms: 400
steps:
  - {at: 0, tap: space}
  - {at: 300, text: "hi"}
  - {at: 500, press: bspc}
  - {at: 750, tap: w, hold_ms: 10}
  - {at: 800, release: bspc}
`

func TestHeadlessBackend(t *testing.T) {
	t.Run("events come out at their scheduled time", func(t *testing.T) {
		s, err := headless.ParseScript([]byte(`steps: [{at: 2, tap: j, hold_ms: 1}]`))
		require.NoError(t, err)

		var out bytes.Buffer
		h := headless.New(s, &out)
		require.NoError(t, h.Init(backend.BackendConfig{Title: "Test", ScanInterval: time.Millisecond}))

		var got []backend.InputEvent
		for i := 0; i < 5; i++ {
			evts, err := h.Update(nil)
			require.NoError(t, err)
			got = append(got, evts...)
		}
		require.Len(t, got, 2)
		assert.Equal(t, backend.Key(keycode.J, event.Press, headless.Epoch.Add(2*time.Millisecond)), got[0])
		assert.Equal(t, event.Release, got[1].Type)
		assert.Equal(t, headless.Epoch.Add(5*time.Millisecond), h.Clock().Now())

		require.NoError(t, h.Cleanup())
	})

	t.Run("quits after settling", func(t *testing.T) {
		s, err := headless.ParseScript([]byte(`{settle_ms: 3, steps: []}`))
		require.NoError(t, err)

		h := headless.New(s, &bytes.Buffer{})
		require.NoError(t, h.Init(backend.BackendConfig{}))

		for i := 0; i < 3; i++ {
			evts, err := h.Update(nil)
			require.NoError(t, err)
			assert.Empty(t, evts)
		}
		evts, err := h.Update(nil)
		require.NoError(t, err)
		require.Len(t, evts, 1)
		assert.Equal(t, action.Quit, evts[0].Action)
	})
}

func TestHeadlessReplayThroughHost(t *testing.T) {
	s, err := headless.ParseScript([]byte(script))
	require.NoError(t, err)

	var out bytes.Buffer
	h := headless.New(s, &out)
	e := dualrole.New(dualrole.Options{}, nil)
	host := dualrole.NewHost(e, h, dualrole.HostConfig{
		Backend: backend.BackendConfig{ScanInterval: time.Millisecond},
	})

	require.NoError(t, host.Run(context.Background()))

	assert.Equal(t, " hi7", e.Recorder().Typed())
	assert.Equal(t, []layer.ID{layer.Base}, e.Layers())
	assert.Contains(t, out.String(), `typed: " hi7"`)
	require.NotNil(t, h.Last())
	assert.Equal(t, headless.Epoch.Add(1200*time.Millisecond), h.Last().Time)
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"two actions in one step", `steps: [{at: 0, press: a, release: a}]`},
		{"no action", `steps: [{at: 0}]`},
		{"unknown key", `steps: [{at: 0, tap: hyper}]`},
		{"shifted text", `steps: [{at: 0, text: "Hi"}]`},
		{"unknown control", `steps: [{at: 0, control: reboot}]`},
		{"negative time", `steps: [{at: -5, tap: a}]`},
		{"not yaml", `steps: [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := headless.ParseScript([]byte(tt.in))
			assert.Error(t, err)
		})
	}
}
