//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/valerio/go-dualrole/dualrole/backend"
	"github.com/valerio/go-dualrole/dualrole/display"
	"github.com/valerio/go-dualrole/dualrole/input"
	"github.com/valerio/go-dualrole/dualrole/input/action"
	"github.com/valerio/go-dualrole/dualrole/input/event"
	"github.com/valerio/go-dualrole/dualrole/keycode"
)

// Backend draws the board in an SDL2 window and reads real key up and down
// events, so holds work without the terminal's release guessing.
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stub, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	running  bool
	config   backend.BackendConfig
	title    string

	// epoch is wall time at SDL tick zero, to stamp events.
	epoch    time.Time
	controls map[keycode.Keycode]action.Action
}

func New() *Backend {
	return &Backend{}
}

func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config
	s.controls = input.ControlKeys()

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %v", err)
	}
	s.epoch = time.Now().Add(-time.Duration(sdl.GetTicks()) * time.Millisecond)

	title := config.Title
	if title == "" {
		title = "dualrole"
	}
	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		windowWidth,
		windowHeight,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %v", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %v", err)
	}
	s.renderer = renderer
	s.running = true

	slog.Info("SDL2 backend initialized")
	return nil
}

func (s *Backend) Update(snap *display.Snapshot) ([]backend.InputEvent, error) {
	var events []backend.InputEvent
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		if e, ok := s.translate(ev); ok {
			events = append(events, e)
		}
	}

	if !s.running || snap == nil {
		return events, nil
	}
	s.render(snap)
	return events, nil
}

func (s *Backend) translate(ev sdl.Event) (backend.InputEvent, bool) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.running = false
		return backend.Control(action.Quit), true

	case *sdl.KeyboardEvent:
		// SDL scancodes are USB HID usages.
		k := keycode.Keycode(e.Keysym.Scancode)
		at := s.epoch.Add(time.Duration(e.Timestamp) * time.Millisecond)

		if act, ok := s.controls[k]; ok {
			if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
				return backend.InputEvent{}, false
			}
			c := backend.Control(act)
			c.Time = at
			return c, true
		}

		switch {
		case e.Type == sdl.KEYDOWN && e.Repeat != 0:
			return backend.Key(k, event.Hold, at), true
		case e.Type == sdl.KEYDOWN:
			return backend.Key(k, event.Press, at), true
		case e.Type == sdl.KEYUP:
			return backend.Key(k, event.Release, at), true
		}
	}
	return backend.InputEvent{}, false
}

func (s *Backend) render(snap *display.Snapshot) {
	s.setColor(backgroundColor)
	s.renderer.Clear()

	if snap.Keymap != nil {
		top := snap.TopLayer()
		if l, ok := snap.Keymap.Layer(top); ok {
			for _, c := range display.Cells(l, snap.Pressed) {
				r := keyRect(c)
				sr := sdl.Rect{X: r.x, Y: r.y, W: r.w, H: r.h}
				s.setColor(keyColor(l[c.Pos], c.Pressed, top))
				s.renderer.FillRect(&sr)
				s.setColor(outlineColor)
				s.renderer.DrawRect(&sr)
			}
		}
	}
	s.renderer.Present()

	if t := windowTitle(s.config.Title, snap); t != s.title {
		s.title = t
		s.window.SetTitle(t)
	}
}

func (s *Backend) setColor(c color) {
	s.renderer.SetDrawColor(c.r, c.g, c.b, c.a)
}

func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}
