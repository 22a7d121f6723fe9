// Package dance implements dual-role keys: one physical key that sends its
// base keycode when tapped and holds an alternate layer when held.
//
// The host measures the tapping window and reports the outcome as an Event.
// Classify turns that into a State, and an Instance dispatches the matching
// effect on resolution and its inverse on release.
package dance

// State is the outcome of one tapping window.
type State int

const (
	Idle State = iota
	Unclassified
	SingleTap
	SingleHold
	DoubleTap
	DoubleHold
	// RepeatedSingleTap is two taps where the second was interrupted: the
	// user is typing the base key twice rather than asking for a double tap.
	RepeatedSingleTap
)

var stateNames = [...]string{
	Idle:              "idle",
	Unclassified:      "unclassified",
	SingleTap:         "single-tap",
	SingleHold:        "single-hold",
	DoubleTap:         "double-tap",
	DoubleHold:        "double-hold",
	RepeatedSingleTap: "repeated-single-tap",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "invalid"
}
