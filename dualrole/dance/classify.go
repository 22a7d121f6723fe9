package dance

import "fmt"

// Event describes how a tapping window closed.
type Event struct {
	// TapCount is the number of presses seen in the window.
	TapCount int
	// Interrupted is set when another key was pressed before the window
	// closed.
	Interrupted bool
	// StillPressed is set when the key was down as the window closed.
	StillPressed bool
}

func (e Event) String() string {
	return fmt.Sprintf("taps=%d interrupted=%t pressed=%t", e.TapCount, e.Interrupted, e.StillPressed)
}

// Classify maps a closed window to a State. An interrupted tap means the
// user is typing through the key, so it never counts as a hold.
func Classify(e Event) State {
	switch e.TapCount {
	case 1:
		if e.Interrupted || !e.StillPressed {
			return SingleTap
		}
		return SingleHold
	case 2:
		if e.Interrupted {
			return RepeatedSingleTap
		}
		if e.StillPressed {
			return DoubleHold
		}
		return DoubleTap
	default:
		return Unclassified
	}
}
