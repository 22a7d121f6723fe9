package dualrole_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dualrole/dualrole"
	"github.com/valerio/go-dualrole/dualrole/backend"
	"github.com/valerio/go-dualrole/dualrole/display"
	"github.com/valerio/go-dualrole/dualrole/input/action"
	"github.com/valerio/go-dualrole/dualrole/input/event"
	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/timing"
)

// MockBackend returns one batch of predetermined events per Update call.
type MockBackend struct {
	batches     [][]backend.InputEvent
	onUpdate    func(call int)
	initialized bool
	cleanedUp   bool
	updateCalls int
	last        *display.Snapshot
}

func (m *MockBackend) Init(config backend.BackendConfig) error {
	m.initialized = true
	return nil
}

func (m *MockBackend) Update(s *display.Snapshot) ([]backend.InputEvent, error) {
	m.updateCalls++
	m.last = s
	if m.onUpdate != nil {
		m.onUpdate(m.updateCalls)
	}
	if m.updateCalls <= len(m.batches) {
		return m.batches[m.updateCalls-1], nil
	}
	return nil, nil
}

func (m *MockBackend) Cleanup() error {
	m.cleanedUp = true
	return nil
}

func quit() backend.InputEvent { return backend.Control(action.Quit) }

func TestHostEventFlow(t *testing.T) {
	tests := []struct {
		name          string
		batches       [][]backend.InputEvent
		expectedCalls int
		typed         string
	}{
		{
			name:          "quit event stops loop",
			batches:       [][]backend.InputEvent{{quit()}},
			expectedCalls: 1,
		},
		{
			name: "key events reach the engine",
			batches: [][]backend.InputEvent{
				{backend.Key(keycode.J, event.Press, at(0)), backend.Key(keycode.J, event.Release, at(5))},
				{backend.Key(keycode.K, event.Press, at(10))},
				{backend.Key(keycode.K, event.Press, at(40)), backend.Key(keycode.K, event.Release, at(50))},
				{quit()},
			},
			expectedCalls: 4,
			typed:         "jk",
		},
		{
			name: "stray releases are dropped",
			batches: [][]backend.InputEvent{
				{backend.Key(keycode.L, event.Release, at(0))},
				{quit()},
			},
			expectedCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := dualrole.New(dualrole.Options{}, nil)
			mock := &MockBackend{batches: tt.batches}
			h := dualrole.NewHost(e, mock, dualrole.HostConfig{Clock: timing.NewManual(at(0))})

			err := h.Run(context.Background())
			require.NoError(t, err)

			assert.True(t, mock.initialized)
			assert.True(t, mock.cleanedUp)
			assert.Equal(t, tt.expectedCalls, mock.updateCalls)
			assert.Equal(t, tt.typed, e.Recorder().Typed())
			assert.False(t, e.Busy())
		})
	}
}

func TestHostTicksTappingWindows(t *testing.T) {
	clock := timing.NewManual(at(0))
	e := dualrole.New(dualrole.Options{}, nil)
	mock := &MockBackend{
		batches: [][]backend.InputEvent{
			{backend.Key(keycode.Space, event.Press, at(0))},
			{backend.Key(keycode.Space, event.Release, at(30))},
		},
		onUpdate: func(int) { clock.Advance(10 * time.Millisecond) },
	}
	h := dualrole.NewHost(e, mock, dualrole.HostConfig{Clock: clock})

	for i := 0; i < 30; i++ {
		require.NoError(t, h.Step())
	}
	assert.Equal(t, " ", e.Recorder().Typed(), "the tap resolves once the term passes")
	assert.False(t, e.Busy())
}

func TestHostContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mock := &MockBackend{onUpdate: func(call int) {
		if call == 5 {
			cancel()
		}
	}}
	h := dualrole.NewHost(dualrole.New(dualrole.Options{}, nil), mock, dualrole.HostConfig{})

	err := h.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 5, mock.updateCalls)
	assert.True(t, mock.cleanedUp)
}

func TestHostControls(t *testing.T) {
	dir := t.TempDir()
	var level slog.LevelVar

	snap := backend.Control(action.Snapshot)
	snap.Time = at(0)
	louder := backend.Control(action.LogLevelIncrease)
	louder.Time = at(0)

	e := dualrole.New(dualrole.Options{}, nil)
	mock := &MockBackend{batches: [][]backend.InputEvent{
		{backend.Key(keycode.Backspace, event.Press, at(0)), snap, louder},
		{backend.Control(action.Reset)},
		{quit()},
	}}
	h := dualrole.NewHost(e, mock, dualrole.HostConfig{
		Clock:       timing.NewManual(at(0)),
		SnapshotDir: dir,
		Backend:     backend.BackendConfig{LogLevel: &level},
	})

	require.NoError(t, h.Run(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, slog.LevelDebug, level.Level())
	assert.False(t, e.Busy(), "reset resolves the pending backspace")
}

func TestHostReconfigure(t *testing.T) {
	updates := make(chan dualrole.Options, 1)
	updates <- dualrole.Options{TappingTerm: 80 * time.Millisecond}

	e := dualrole.New(dualrole.Options{}, nil)
	mock := &MockBackend{batches: [][]backend.InputEvent{nil, {quit()}}}
	h := dualrole.NewHost(e, mock, dualrole.HostConfig{
		Clock:       timing.NewManual(at(0)),
		Reconfigure: updates,
	})

	require.NoError(t, h.Run(context.Background()))
	assert.Equal(t, 80*time.Millisecond, e.TappingTerm())
}
