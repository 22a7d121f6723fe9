package display

import (
	"strings"

	"github.com/valerio/go-dualrole/dualrole/keymap"
)

// Grid geometry in character cells.
const (
	CellWidth  = 7
	SplitGap   = 3
	GridWidth  = keymap.Cols*CellWidth + SplitGap
	GridHeight = keymap.Rows + 1
)

// Cell is one key of a rendered layer.
type Cell struct {
	Pos     keymap.Position
	X, Y    int
	Label   string
	Pressed bool
}

// Cells lays a layer out on a character grid. The halves of the split are
// separated by SplitGap columns and the thumb row sits under the inner keys.
func Cells(l keymap.Layer, pressed map[keymap.Position]bool) []Cell {
	cells := make([]Cell, 0, keymap.NumPositions)
	for p := keymap.Position(0); p < keymap.NumPositions; p++ {
		row, col := p.RowCol()
		x := col * CellWidth
		if col >= keymap.Cols/2 {
			x += SplitGap
		}
		cells = append(cells, Cell{
			Pos:     p,
			X:       x,
			Y:       row,
			Label:   fit(l[p].Label(), CellWidth-1),
			Pressed: pressed[p],
		})
	}
	return cells
}

// Lines renders a layer as text. Pressed keys are bracketed.
func Lines(l keymap.Layer, pressed map[keymap.Position]bool) []string {
	rows := make([][]rune, GridHeight)
	for i := range rows {
		rows[i] = []rune(strings.Repeat(" ", GridWidth))
	}
	for _, c := range Cells(l, pressed) {
		label := c.Label
		if c.Pressed {
			label = "[" + fit(label, CellWidth-3) + "]"
		}
		for i, r := range []rune(label) {
			rows[c.Y][c.X+i] = r
		}
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.TrimRight(string(r), " ")
	}
	return lines
}

func fit(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
