package keycode

// evdevCodes maps Linux input event codes (linux/input-event-codes.h) to
// usages. The values are part of the kernel ABI and do not vary by
// architecture.
var evdevCodes = map[uint16]Keycode{
	30: A, 48: B, 46: C, 32: D, 18: E, 33: F, 34: G, 35: H,
	23: I, 36: J, 37: K, 38: L, 50: M, 49: N, 24: O, 25: P,
	16: Q, 19: R, 31: S, 20: T, 22: U, 47: V, 17: W, 45: X,
	21: Y, 44: Z,

	2: Num1, 3: Num2, 4: Num3, 5: Num4, 6: Num5,
	7: Num6, 8: Num7, 9: Num8, 10: Num9, 11: Num0,

	28: Enter,
	1:  Escape,
	14: Backspace,
	15: Tab,
	57: Space,
	12: Minus,
	13: Equal,
	26: LeftBracket,
	27: RightBracket,
	43: Backslash,
	39: Semicolon,
	40: Quote,
	41: Grave,
	51: Comma,
	52: Dot,
	53: Slash,
	58: CapsLock,

	59: F1, 60: F2, 61: F3, 62: F4, 63: F5, 64: F6,
	65: F7, 66: F8, 67: F9, 68: F10, 87: F11, 88: F12,

	99:  PrintScreen,
	70:  ScrollLock,
	119: Pause,
	110: Insert,
	102: Home,
	104: PageUp,
	111: Delete,
	107: End,
	109: PageDown,
	106: Right,
	105: Left,
	108: Down,
	103: Up,

	129: Again,
	131: Undo,
	137: Cut,
	133: Copy,
	135: Paste,

	29:  LeftCtrl,
	42:  LeftShift,
	56:  LeftAlt,
	125: LeftGUI,
	97:  RightCtrl,
	54:  RightShift,
	100: RightAlt,
	126: RightGUI,
}

var toEvdev = func() map[Keycode]uint16 {
	m := make(map[Keycode]uint16, len(evdevCodes))
	for code, k := range evdevCodes {
		m[k] = code
	}
	return m
}()

// FromEvdev translates a Linux key code.
func FromEvdev(code uint16) (Keycode, bool) {
	k, ok := evdevCodes[code]
	return k, ok
}

// Evdev returns the Linux key code for k.
func (k Keycode) Evdev() (uint16, bool) {
	code, ok := toEvdev[k]
	return code, ok
}

// EvdevCodes lists every Linux key code with a usage.
func EvdevCodes() []uint16 {
	codes := make([]uint16, 0, len(evdevCodes))
	for code := range evdevCodes {
		codes = append(codes, code)
	}
	return codes
}
