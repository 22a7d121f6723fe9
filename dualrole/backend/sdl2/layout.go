package sdl2

import (
	"fmt"
	"strings"

	"github.com/valerio/go-dualrole/dualrole/display"
	"github.com/valerio/go-dualrole/dualrole/keymap"
	"github.com/valerio/go-dualrole/dualrole/layer"
)

// Window geometry in pixels.
const (
	keySize  = 48
	keyGap   = 6
	splitGap = 36
	margin   = 16

	windowWidth  = 2*margin + keymap.Cols*(keySize+keyGap) + splitGap
	windowHeight = 2*margin + display.GridHeight*(keySize+keyGap)
)

type rect struct{ x, y, w, h int32 }

type color struct{ r, g, b, a uint8 }

var (
	backgroundColor = color{0x1c, 0x1c, 0x1c, 0xff}
	pressedColor    = color{0xf0, 0xc0, 0x30, 0xff}
	noneColor       = color{0x30, 0x30, 0x30, 0xff}
	transColor      = color{0x24, 0x24, 0x24, 0xff}
	danceColor      = color{0xd0, 0x60, 0x60, 0xff}
	outlineColor    = color{0x80, 0x80, 0x80, 0xff}
)

// layerColors tint key caps by the layer on top.
var layerColors = map[layer.ID]color{
	layer.Base: {0x90, 0x90, 0x90, 0xff},
	layer.Nav:  {0x40, 0x80, 0xd0, 0xff},
	layer.Num:  {0x50, 0xb0, 0x60, 0xff},
	layer.Sym:  {0xa0, 0x60, 0xc0, 0xff},
}

// keyRect places a grid cell in the window.
func keyRect(c display.Cell) rect {
	row, col := c.Pos.RowCol()
	x := margin + col*(keySize+keyGap)
	if col >= keymap.Cols/2 {
		x += splitGap
	}
	y := margin + row*(keySize+keyGap)
	return rect{int32(x), int32(y), keySize, keySize}
}

// keyColor is the fill for a key cap.
func keyColor(b keymap.Binding, pressed bool, top layer.ID) color {
	switch {
	case pressed:
		return pressedColor
	case b.Kind == keymap.KindDance:
		return danceColor
	case b.Kind == keymap.KindNone:
		return noneColor
	case b.Kind == keymap.KindTransparent:
		return transColor
	}
	if c, ok := layerColors[top]; ok {
		return c
	}
	return layerColors[layer.Base]
}

// windowTitle carries the text the window cannot draw without a font.
func windowTitle(base string, s *display.Snapshot) string {
	typed := []rune(strings.ReplaceAll(s.Typed, "\n", "⏎"))
	if len(typed) > 40 {
		typed = typed[len(typed)-40:]
	}
	return fmt.Sprintf("%s [%s] %s", base, strings.ToUpper(s.TopLayer().String()), string(typed))
}
