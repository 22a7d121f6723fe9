//go:build linux

package output

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/valerio/go-dualrole/dualrole/keycode"
)

// uinput ioctls from linux/uinput.h
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiDevSetup   = 0x405c5503
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565

	evSyn     = 0x00
	evKey     = 0x01
	synReport = 0

	busUSB = 0x03
)

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type uinputSetup struct {
	ID           inputID
	Name         [80]byte
	FFEffectsMax uint32
}

// inputEvent is struct input_event. Its timeval is native, so the struct
// is 16 bytes on 32-bit targets and 24 on 64-bit ones.
type inputEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// encodeKey serializes a key edge followed by its SYN_REPORT.
func encodeKey(code uint16, value int32, now time.Time) ([]byte, error) {
	tv := syscall.NsecToTimeval(now.UnixNano())
	events := []inputEvent{
		{Time: tv, Type: evKey, Code: code, Value: value},
		{Time: tv, Type: evSyn, Code: synReport},
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, events); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Uinput is a Writer that types on a virtual keyboard created through
// /dev/uinput.
type Uinput struct {
	f *os.File
}

// NewUinput creates the virtual keyboard. It usually needs root or a udev
// rule granting write access to /dev/uinput.
func NewUinput(name string) (*Uinput, error) {
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open uinput: %w", err)
	}
	fd := int(f.Fd())

	if err := unix.IoctlSetInt(fd, uiSetEvBit, evKey); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput set EV_KEY: %w", err)
	}
	for _, code := range keycode.EvdevCodes() {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(code)); err != nil {
			f.Close()
			return nil, fmt.Errorf("uinput set key %d: %w", code, err)
		}
	}

	setup := uinputSetup{ID: inputID{Bustype: busUSB, Vendor: 0x1d6b, Product: 0x0104, Version: 1}}
	copy(setup.Name[:], name)
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uiDevSetup, uintptr(unsafe.Pointer(&setup))); errno != 0 {
		f.Close()
		return nil, fmt.Errorf("uinput setup: %w", errno)
	}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uiDevCreate, 0); errno != 0 {
		f.Close()
		return nil, fmt.Errorf("uinput create: %w", errno)
	}

	slog.Info("Virtual keyboard created", "name", name)
	return &Uinput{f: f}, nil
}

func (u *Uinput) Press(k keycode.Keycode)   { u.write(k, 1) }
func (u *Uinput) Release(k keycode.Keycode) { u.write(k, 0) }

func (u *Uinput) write(k keycode.Keycode, value int32) {
	code, ok := k.Evdev()
	if !ok {
		slog.Debug("No evdev code for key", "key", k)
		return
	}
	data, err := encodeKey(code, value, time.Now())
	if err != nil {
		slog.Warn("uinput encode failed", "key", k, "error", err)
		return
	}
	if _, err := u.f.Write(data); err != nil {
		slog.Warn("uinput write failed", "key", k, "error", err)
	}
}

// Close destroys the virtual keyboard.
func (u *Uinput) Close() error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, u.f.Fd(), uiDevDestroy, 0)
	closeErr := u.f.Close()
	if errno != 0 {
		return fmt.Errorf("uinput destroy: %w", errno)
	}
	return closeErr
}
