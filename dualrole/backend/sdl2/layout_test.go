package sdl2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-dualrole/dualrole/dance"
	"github.com/valerio/go-dualrole/dualrole/display"
	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/keymap"
	"github.com/valerio/go-dualrole/dualrole/layer"
)

func TestKeyRectsFitTheWindow(t *testing.T) {
	l, _ := keymap.Default().Layer(layer.Base)
	for _, c := range display.Cells(l, nil) {
		r := keyRect(c)
		assert.GreaterOrEqual(t, r.x, int32(margin))
		assert.LessOrEqual(t, r.x+r.w, int32(windowWidth-margin))
		assert.LessOrEqual(t, r.y+r.h, int32(windowHeight-margin))
	}

	left := keyRect(display.Cell{Pos: keymap.Pos(0, 5)})
	right := keyRect(display.Cell{Pos: keymap.Pos(0, 6)})
	assert.Equal(t, int32(keySize+keyGap+splitGap), right.x-left.x, "halves are split")
}

func TestKeyColor(t *testing.T) {
	assert.Equal(t, pressedColor, keyColor(keymap.Dance(dance.SpaceNav), true, layer.Base))
	assert.Equal(t, danceColor, keyColor(keymap.Dance(dance.SpaceNav), false, layer.Base))
	assert.Equal(t, noneColor, keyColor(keymap.NoKey(), false, layer.Nav))
	assert.Equal(t, layerColors[layer.Nav], keyColor(keymap.Key(keycode.Left), false, layer.Nav))
	assert.Equal(t, layerColors[layer.Base], keyColor(keymap.Key(keycode.F1), false, layer.Fun))
}

func TestWindowTitle(t *testing.T) {
	s := &display.Snapshot{Layers: []layer.ID{layer.Num, layer.Base}, Typed: "12\n3"}
	assert.Equal(t, "dualrole [NUM] 12⏎3", windowTitle("dualrole", s))
}
