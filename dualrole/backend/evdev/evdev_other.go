//go:build !linux || !cgo

package evdev

import (
	"fmt"

	"github.com/valerio/go-dualrole/dualrole/backend"
	"github.com/valerio/go-dualrole/dualrole/display"
)

// Backend stub for builds without evdev: non-Linux, or cgo disabled.
type Backend struct{}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Init(backend.BackendConfig) error {
	return fmt.Errorf("evdev backend needs Linux and cgo")
}

func (b *Backend) Update(*display.Snapshot) ([]backend.InputEvent, error) {
	return nil, fmt.Errorf("evdev backend not available")
}

func (b *Backend) Cleanup() error {
	return nil
}
