// Package keymap holds per-layer bindings for a split 3x6+3 keyboard, the
// miryoku remap from its 36-key grid, and the host matrix that says which
// host key stands for which position.
package keymap

import "github.com/valerio/go-dualrole/dualrole/keycode"

// Physical layout: three rows of twelve keys and a row of six thumb keys.
const (
	Rows         = 3
	Cols         = 12
	ThumbKeys    = 6
	NumPositions = Rows*Cols + ThumbKeys

	// GridSize is the size of the miryoku grid, four rows of ten.
	GridSize = 40
)

// Position indexes a physical key, row-major, thumbs last.
type Position int

// Pos returns the position of a key in the 3x12 block.
func Pos(row, col int) Position {
	return Position(row*Cols + col)
}

// Thumb returns the position of a thumb key, 0-5 from left to right.
func Thumb(i int) Position {
	return Position(Rows*Cols + i)
}

// Valid reports whether p is on the board.
func (p Position) Valid() bool {
	return p >= 0 && p < NumPositions
}

// RowCol returns the row and column of p. Thumb keys are on row 3 with
// columns 3-8 so they line up under the inner keys.
func (p Position) RowCol() (int, int) {
	if p >= Rows*Cols {
		return Rows, int(p) - Rows*Cols + 3
	}
	return int(p) / Cols, int(p) % Cols
}

// Layer is one layer of bindings over the physical layout.
type Layer [NumPositions]Binding

// Grid is one layer in miryoku's 4x10 shape. Positions 30, 31, 38 and 39 do
// not exist on a 3x6+3 board and are dropped by Miryoku.
type Grid [GridSize]Binding

// decorative keys that fill the outer columns on every layer.
var decorative = [Rows][2]Binding{
	{Shifted(keycode.Num9), Shifted(keycode.Num0)},
	{Key(keycode.LeftBracket), Key(keycode.LeftBracket)},
	{Key(keycode.LeftCtrl), Key(keycode.RightAlt)},
}

// Miryoku expands a 4x10 grid onto the split 3x6+3 board. The three main
// rows become the inner ten columns, the outer columns get the fixed
// decorative keys, and grid positions 32-37 become the thumb row.
func Miryoku(g Grid) Layer {
	var l Layer
	for row := 0; row < Rows; row++ {
		l[Pos(row, 0)] = decorative[row][0]
		for col := 0; col < 10; col++ {
			l[Pos(row, col+1)] = g[row*10+col]
		}
		l[Pos(row, Cols-1)] = decorative[row][1]
	}
	for i := 0; i < ThumbKeys; i++ {
		l[Thumb(i)] = g[32+i]
	}
	return l
}
