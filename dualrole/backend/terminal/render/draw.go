// Package render holds the tcell drawing helpers and the log capture used
// by the terminal backend.
package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-dualrole/dualrole/display"
)

// Text draws s at (x, y), clipped to width cells, and returns the number of
// cells used. Lines longer than width end in "...".
func Text(screen tcell.Screen, x, y, width int, s string, style tcell.Style) int {
	if width <= 0 {
		return 0
	}
	runes := []rune(s)
	if len(runes) > width {
		if width > 3 {
			runes = append(runes[:width-3], '.', '.', '.')
		} else {
			runes = runes[:width]
		}
	}
	for i, r := range runes {
		screen.SetContent(x+i, y, r, nil, style)
	}
	return len(runes)
}

// HLine draws a horizontal rule.
func HLine(screen tcell.Screen, x, y, width int, style tcell.Style) {
	for i := 0; i < width; i++ {
		screen.SetContent(x+i, y, '─', nil, style)
	}
}

// VLine draws a vertical rule.
func VLine(screen tcell.Screen, x, y, height int, style tcell.Style) {
	for i := 0; i < height; i++ {
		screen.SetContent(x, y+i, '│', nil, style)
	}
}

// Grid draws laid-out key cells with their top-left corner at (x, y).
// Pressed keys use the pressed style.
func Grid(screen tcell.Screen, x, y int, cells []display.Cell, normal, pressed tcell.Style) {
	for _, c := range cells {
		style := normal
		if c.Pressed {
			style = pressed
		}
		Text(screen, x+c.X, y+c.Y, display.CellWidth-1, c.Label, style)
	}
}
