package input

import (
	"strings"

	"github.com/valerio/go-dualrole/dualrole/input/action"
	"github.com/valerio/go-dualrole/dualrole/keycode"
)

// DefaultKeyMap holds the host controls shared by the interactive backends.
// Everything else on the keyboard belongs to the board.
var DefaultKeyMap = map[string]action.Action{
	"ctrl+c": action.Quit,
	"ctrl+q": action.Quit,
	"f5":     action.Reset,
	"f9":     action.LogLevelDecrease,
	"f10":    action.LogLevelIncrease,
	"f12":    action.Snapshot,
}

// GetDefaultMapping returns the control bound to a key name, if any.
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[strings.ToLower(key)]
	return act, ok
}

// ControlKeys returns the controls that sit on plain keys, by keycode.
func ControlKeys() map[keycode.Keycode]action.Action {
	m := make(map[keycode.Keycode]action.Action)
	for name, act := range DefaultKeyMap {
		if k, err := keycode.Parse(name); err == nil {
			m[k] = act
		}
	}
	return m
}
