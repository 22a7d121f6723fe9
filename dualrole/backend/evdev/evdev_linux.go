//go:build linux && cgo

package evdev

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	evdev "github.com/gvalkov/golang-evdev"

	"github.com/valerio/go-dualrole/dualrole/backend"
	"github.com/valerio/go-dualrole/dualrole/display"
	"github.com/valerio/go-dualrole/dualrole/input/action"
	"github.com/valerio/go-dualrole/dualrole/input/event"
	"github.com/valerio/go-dualrole/dualrole/keycode"
)

// Backend reads a keyboard through its /dev/input/event node. With Grab
// set the keyboard's events stop reaching the rest of the system, so an
// output such as uinput has to send them back.
type Backend struct {
	config  backend.BackendConfig
	dev     *evdev.InputDevice
	events  chan backend.InputEvent
	errs    chan error
	done    chan struct{}
	signals chan os.Signal
	grabbed bool
}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Init(config backend.BackendConfig) error {
	b.config = config

	dev, err := open(config.Device)
	if err != nil {
		return err
	}
	b.dev = dev

	if config.Grab {
		if err := dev.Grab(); err != nil {
			dev.File.Close()
			return fmt.Errorf("failed to grab %s: %w", dev.Fn, err)
		}
		b.grabbed = true
	}

	b.events = make(chan backend.InputEvent, 256)
	b.errs = make(chan error, 1)
	b.done = make(chan struct{})
	go b.readLoop()

	b.signals = make(chan os.Signal, 1)
	signal.Notify(b.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	slog.Info("Evdev backend initialized", "device", dev.Fn, "name", dev.Name, "grab", b.grabbed)
	return nil
}

func open(path string) (*evdev.InputDevice, error) {
	if path != "" {
		dev, err := evdev.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		if !isKeyboard(dev.CapabilitiesFlat) {
			dev.File.Close()
			return nil, fmt.Errorf("%s (%s) is not a keyboard", path, dev.Name)
		}
		return dev, nil
	}

	devices, err := evdev.ListInputDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to list input devices: %w", err)
	}
	var found *evdev.InputDevice
	for _, dev := range devices {
		if found == nil && isKeyboard(dev.CapabilitiesFlat) {
			found = dev
			continue
		}
		dev.File.Close()
	}
	if found == nil {
		return nil, errors.New("no keyboard found under /dev/input; set device explicitly")
	}
	return found, nil
}

// isKeyboard reports whether a device can send letters and space.
func isKeyboard(caps map[int][]int) bool {
	var hasA, hasSpace bool
	for _, code := range caps[evdev.EV_KEY] {
		switch code {
		case evdev.KEY_A:
			hasA = true
		case evdev.KEY_SPACE:
			hasSpace = true
		}
	}
	return hasA && hasSpace
}

func (b *Backend) readLoop() {
	for {
		evs, err := b.dev.Read()
		if err != nil {
			select {
			case <-b.done:
			default:
				b.errs <- fmt.Errorf("reading %s: %w", b.dev.Fn, err)
			}
			return
		}
		for _, ev := range evs {
			if e, ok := translate(ev); ok {
				select {
				case b.events <- e:
				case <-b.done:
					return
				}
			}
		}
	}
}

// translate turns a kernel key event into a key edge. Value 2 is the
// kernel's auto-repeat.
func translate(ev evdev.InputEvent) (backend.InputEvent, bool) {
	if ev.Type != evdev.EV_KEY {
		return backend.InputEvent{}, false
	}
	k, ok := keycode.FromEvdev(ev.Code)
	if !ok {
		slog.Debug("Unmapped evdev key", "code", ev.Code)
		return backend.InputEvent{}, false
	}

	at := time.Unix(0, ev.Time.Nano())
	switch ev.Value {
	case 0:
		return backend.Key(k, event.Release, at), true
	case 1:
		return backend.Key(k, event.Press, at), true
	case 2:
		return backend.Key(k, event.Hold, at), true
	}
	return backend.InputEvent{}, false
}

// Update drains whatever the reader has queued. There is nothing to draw.
func (b *Backend) Update(*display.Snapshot) ([]backend.InputEvent, error) {
	var out []backend.InputEvent
	for {
		select {
		case e := <-b.events:
			out = append(out, e)
		case err := <-b.errs:
			return out, err
		case <-b.signals:
			slog.Info("Signal received, quitting")
			out = append(out, backend.Control(action.Quit))
		default:
			return out, nil
		}
	}
}

func (b *Backend) Cleanup() error {
	if b.signals != nil {
		signal.Stop(b.signals)
	}
	if b.dev == nil {
		return nil
	}
	close(b.done)

	var errs []error
	if b.grabbed {
		if err := b.dev.Release(); err != nil {
			errs = append(errs, fmt.Errorf("failed to release grab: %w", err))
		}
	}
	if err := b.dev.File.Close(); err != nil {
		errs = append(errs, err)
	}
	slog.Info("Evdev backend closed", "device", b.dev.Fn)
	b.dev = nil
	return errors.Join(errs...)
}
