package keycode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageValues(t *testing.T) {
	// Spot checks against the HID usage table.
	assert.Equal(t, Keycode(0x04), A)
	assert.Equal(t, Keycode(0x1D), Z)
	assert.Equal(t, Keycode(0x1E), Num1)
	assert.Equal(t, Keycode(0x27), Num0)
	assert.Equal(t, Keycode(0x2A), Backspace)
	assert.Equal(t, Keycode(0x2C), Space)
	assert.Equal(t, Keycode(0x39), CapsLock)
	assert.Equal(t, Keycode(0x45), F12)
	assert.Equal(t, Keycode(0x4C), Delete)
	assert.Equal(t, Keycode(0x52), Up)
	assert.Equal(t, Keycode(0xE7), RightGUI)
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Keycode
	}{
		{"space", Space},
		{"SPC", Space},
		{"KC_BSPC", Backspace},
		{"backspace", Backspace},
		{"q", Q},
		{"f11", F11},
		{"pgdn", PageDown},
		{"0x2c", Space},
		{" lshift ", LeftShift},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"hyper", "0x2czz", "0x", "0x10000"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestStringRoundTripsThroughParse(t *testing.T) {
	for k := range table {
		got, err := Parse(k.String())
		require.NoError(t, err, "name %q", k.String())
		assert.Equal(t, k, got)
	}
}

func TestRunes(t *testing.T) {
	k, ok := FromRune('J')
	assert.True(t, ok)
	assert.Equal(t, J, k)

	k, ok = FromRune('(')
	assert.True(t, ok)
	assert.Equal(t, Num9, k)

	r, ok := Space.Rune()
	assert.True(t, ok)
	assert.Equal(t, ' ', r)

	_, ok = Left.Rune()
	assert.False(t, ok)

	assert.Equal(t, "0x99", Keycode(0x99).String())
	assert.True(t, LeftShift.IsModifier())
	assert.False(t, Space.IsModifier())
}
