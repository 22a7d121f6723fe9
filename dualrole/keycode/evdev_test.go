package keycode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvdevRoundTrip(t *testing.T) {
	// KEY_A and KEY_SPACE from linux/input-event-codes.h
	k, ok := FromEvdev(30)
	assert.True(t, ok)
	assert.Equal(t, A, k)

	k, ok = FromEvdev(57)
	assert.True(t, ok)
	assert.Equal(t, Space, k)

	for _, code := range EvdevCodes() {
		k, ok := FromEvdev(code)
		if assert.True(t, ok) {
			back, ok := k.Evdev()
			assert.True(t, ok)
			assert.Equal(t, code, back, "usage %s", k)
		}
	}

	_, ok = FromEvdev(0xFFFF)
	assert.False(t, ok)
}
