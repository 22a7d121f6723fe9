package keymap

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	kc "github.com/valerio/go-dualrole/dualrole/keycode"
)

// Matrix maps the keys of the host keyboard to board positions. It stands in
// for the switch matrix of a real split keyboard.
type Matrix map[kc.Keycode]Position

// hostRows lay the three main rows over a QWERTY host keyboard.
var hostRows = [Rows][Cols]kc.Keycode{
	{kc.Grave, kc.Q, kc.W, kc.E, kc.R, kc.T, kc.Y, kc.U, kc.I, kc.O, kc.P, kc.LeftBracket},
	{kc.CapsLock, kc.A, kc.S, kc.D, kc.F, kc.G, kc.H, kc.J, kc.K, kc.L, kc.Semicolon, kc.Quote},
	{kc.LeftShift, kc.Z, kc.X, kc.C, kc.V, kc.B, kc.N, kc.M, kc.Comma, kc.Dot, kc.Slash, kc.RightShift},
}

var hostThumbs = [ThumbKeys]kc.Keycode{kc.Escape, kc.Space, kc.Tab, kc.Enter, kc.Backspace, kc.Delete}

// DefaultMatrix maps a QWERTY host keyboard onto the board. The thumb row
// is Escape, Space, Tab, Enter, Backspace and Delete.
func DefaultMatrix() Matrix {
	m := make(Matrix, NumPositions)
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			m[hostRows[row][col]] = Pos(row, col)
		}
	}
	for i, k := range hostThumbs {
		m[k] = Thumb(i)
	}
	return m
}

// Position returns the board position for a host key.
func (m Matrix) Position(k kc.Keycode) (Position, bool) {
	p, ok := m[k]
	return p, ok
}

// HostKey returns the host key mapped to p, if any.
func (m Matrix) HostKey(p Position) (kc.Keycode, bool) {
	for k, q := range m {
		if q == p {
			return k, true
		}
	}
	return kc.None, false
}

// ParseMatrix builds a matrix from key-name to position overrides on top of
// the default one. Positions are given as "row,col" or "thumbN".
func ParseMatrix(overrides map[string]string) (Matrix, error) {
	m := DefaultMatrix()
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	byKey := make(map[kc.Keycode]string, len(names))
	byPos := make(map[Position]string, len(names))
	for _, name := range names {
		k, err := kc.Parse(name)
		if err != nil {
			return nil, err
		}
		p, err := ParsePosition(overrides[name])
		if err != nil {
			return nil, fmt.Errorf("matrix entry %q: %w", name, err)
		}
		if prev, dup := byKey[k]; dup {
			return nil, fmt.Errorf("matrix entries %q and %q name the same key", prev, name)
		}
		if prev, dup := byPos[p]; dup {
			return nil, fmt.Errorf("matrix entries %q and %q both map to %s", prev, name, overrides[name])
		}
		byKey[k], byPos[p] = name, name
		for other, q := range m {
			if q == p {
				delete(m, other)
			}
		}
		m[k] = p
	}
	return m, nil
}

// ParsePosition reads "row,col" (0-2, 0-11) or "thumbN" (0-5).
func ParsePosition(s string) (Position, error) {
	s = strings.TrimSpace(s)
	if n, ok := strings.CutPrefix(s, "thumb"); ok {
		thumb, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("bad position %q", s)
		}
		if thumb < 0 || thumb >= ThumbKeys {
			return 0, fmt.Errorf("thumb %d out of range", thumb)
		}
		return Thumb(thumb), nil
	}
	r, c, ok := strings.Cut(s, ",")
	if !ok {
		return 0, fmt.Errorf("bad position %q", s)
	}
	row, rerr := strconv.Atoi(strings.TrimSpace(r))
	col, cerr := strconv.Atoi(strings.TrimSpace(c))
	if rerr != nil || cerr != nil {
		return 0, fmt.Errorf("bad position %q", s)
	}
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return 0, fmt.Errorf("position %q out of range", s)
	}
	return Pos(row, col), nil
}
