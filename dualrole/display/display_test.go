package display

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dualrole/dualrole/dance"
	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/keymap"
	"github.com/valerio/go-dualrole/dualrole/layer"
)

func TestCellsGeometry(t *testing.T) {
	l, ok := keymap.Default().Layer(layer.Base)
	require.True(t, ok)

	cells := Cells(l, nil)
	require.Len(t, cells, keymap.NumPositions)

	assert.Equal(t, 0, cells[keymap.Pos(0, 0)].X)
	assert.Equal(t, 5*CellWidth, cells[keymap.Pos(0, 5)].X)
	assert.Equal(t, 6*CellWidth+SplitGap, cells[keymap.Pos(0, 6)].X, "right half is offset by the gap")

	thumb := cells[keymap.Thumb(1)]
	assert.Equal(t, 3, thumb.Y)
	assert.Equal(t, 4*CellWidth, thumb.X)
	assert.Equal(t, "SPACE_", thumb.Label, "labels are cut to the cell")
}

func TestLinesMarksPressed(t *testing.T) {
	l, _ := keymap.Default().Layer(layer.Base)
	lines := Lines(l, map[keymap.Position]bool{keymap.Pos(1, 1): true})

	require.Len(t, lines, GridHeight)
	assert.Contains(t, lines[1], "[a]")
	assert.True(t, strings.HasPrefix(lines[0], "S(9)"))
	assert.Contains(t, lines[3], "escape")
}

func TestTopLayerSkipsUndefined(t *testing.T) {
	s := &Snapshot{
		Layers: []layer.ID{layer.Sym, layer.Nav, layer.Base},
		Keymap: keymap.Default(),
	}
	assert.Equal(t, layer.Nav, s.TopLayer())
}

func TestSaveSnapshot(t *testing.T) {
	dir := t.TempDir()
	s := &Snapshot{
		Layers: []layer.ID{layer.Num, layer.Base},
		Dances: []DanceStatus{{ID: dance.BackspaceNum, State: dance.SingleHold, Taps: 1, Pressed: true}},
		Held:   []keycode.Keycode{keycode.Num7},
		Typed:  "7",
		Keymap: keymap.Default(),
	}

	path, err := SaveSnapshot(s, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "layers: num, base")
	assert.Contains(t, text, "backspace_num")
	assert.Contains(t, text, "single-hold")
	assert.Contains(t, text, "held: 7")

	_, err = SaveSnapshot(nil, dir)
	assert.Error(t, err)
}
