package dance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  State
	}{
		{"single tap released", Event{TapCount: 1}, SingleTap},
		{"single tap interrupted while held", Event{TapCount: 1, Interrupted: true, StillPressed: true}, SingleTap},
		{"single tap interrupted after release", Event{TapCount: 1, Interrupted: true}, SingleTap},
		{"single hold", Event{TapCount: 1, StillPressed: true}, SingleHold},
		{"double tap", Event{TapCount: 2}, DoubleTap},
		{"double hold", Event{TapCount: 2, StillPressed: true}, DoubleHold},
		{"double interrupted", Event{TapCount: 2, Interrupted: true}, RepeatedSingleTap},
		{"double interrupted while held", Event{TapCount: 2, Interrupted: true, StillPressed: true}, RepeatedSingleTap},
		{"triple tap", Event{TapCount: 3}, Unclassified},
		{"triple hold", Event{TapCount: 3, StillPressed: true}, Unclassified},
		{"zero taps", Event{}, Unclassified},
		{"negative taps", Event{TapCount: -1}, Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.event))
		})
	}
}

func TestClassifySingleTapRule(t *testing.T) {
	for _, interrupted := range []bool{false, true} {
		for _, pressed := range []bool{false, true} {
			got := Classify(Event{TapCount: 1, Interrupted: interrupted, StillPressed: pressed})
			if interrupted || !pressed {
				assert.Equal(t, SingleTap, got, "interrupted=%t pressed=%t", interrupted, pressed)
			} else {
				assert.Equal(t, SingleHold, got, "interrupted=%t pressed=%t", interrupted, pressed)
			}
		}
	}
}

func TestClassifyDoubleTapRule(t *testing.T) {
	for _, interrupted := range []bool{false, true} {
		for _, pressed := range []bool{false, true} {
			got := Classify(Event{TapCount: 2, Interrupted: interrupted, StillPressed: pressed})
			switch {
			case interrupted:
				assert.Equal(t, RepeatedSingleTap, got)
			case pressed:
				assert.Equal(t, DoubleHold, got)
			default:
				assert.Equal(t, DoubleTap, got)
			}
		}
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "repeated-single-tap", RepeatedSingleTap.String())
	assert.Equal(t, "invalid", State(42).String())
}
