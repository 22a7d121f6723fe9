//go:build !linux

package output

import (
	"errors"

	"github.com/valerio/go-dualrole/dualrole/keycode"
)

// Uinput is only available on Linux.
type Uinput struct{}

func NewUinput(name string) (*Uinput, error) {
	return nil, errors.New("uinput output is only supported on linux")
}

func (u *Uinput) Press(keycode.Keycode)   {}
func (u *Uinput) Release(keycode.Keycode) {}
func (u *Uinput) Close() error            { return nil }
