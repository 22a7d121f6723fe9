package action

// Action is what an input event asks the host to do.
type Action int

const (
	// Key is an edge of a board key. The event carries the host keycode.
	Key Action = iota

	// Host controls
	Quit
	Reset
	Snapshot
	LogLevelIncrease
	LogLevelDecrease
)

var names = [...]string{
	Key:              "key",
	Quit:             "quit",
	Reset:            "reset",
	Snapshot:         "snapshot",
	LogLevelIncrease: "log-level-increase",
	LogLevelDecrease: "log-level-decrease",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(names) {
		return "unknown"
	}
	return names[a]
}

// IsControl reports whether a is a host control rather than a key edge.
func (a Action) IsControl() bool {
	return a != Key
}
