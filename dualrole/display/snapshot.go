// Package display holds the view of engine state handed to backends each
// scan, and the text rendering shared by the terminal backend, snapshots
// and the layout command.
package display

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/valerio/go-dualrole/dualrole/dance"
	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/keymap"
	"github.com/valerio/go-dualrole/dualrole/layer"
	"github.com/valerio/go-dualrole/dualrole/output"
)

// DanceStatus is the state of one dual-role key.
type DanceStatus struct {
	ID      dance.ID
	State   dance.State
	Taps    int
	Pressed bool
}

// Snapshot is a read-only copy of engine state.
type Snapshot struct {
	Time    time.Time
	Layers  []layer.ID
	Dances  []DanceStatus
	Held    []keycode.Keycode
	Pressed map[keymap.Position]bool
	Effects []output.Effect
	Typed   string
	Keymap  *keymap.Keymap
}

// TopLayer is the highest active layer that the keymap defines.
func (s *Snapshot) TopLayer() layer.ID {
	for _, id := range s.Layers {
		if s.Keymap == nil {
			return id
		}
		if _, ok := s.Keymap.Layer(id); ok {
			return id
		}
	}
	return layer.Base
}

// Format renders the snapshot as plain text.
func Format(s *Snapshot) string {
	var b strings.Builder

	names := make([]string, len(s.Layers))
	for i, id := range s.Layers {
		names[i] = id.String()
	}
	fmt.Fprintf(&b, "layers: %s\n", strings.Join(names, ", "))

	for _, d := range s.Dances {
		fmt.Fprintf(&b, "%-14s %-20s taps=%d pressed=%t\n", d.ID, d.State, d.Taps, d.Pressed)
	}

	held := make([]string, len(s.Held))
	for i, k := range s.Held {
		held[i] = k.String()
	}
	fmt.Fprintf(&b, "held: %s\n", strings.Join(held, " "))
	fmt.Fprintf(&b, "typed: %q\n", s.Typed)

	if s.Keymap != nil {
		if l, ok := s.Keymap.Layer(s.TopLayer()); ok {
			b.WriteString("\n")
			for _, line := range Lines(l, s.Pressed) {
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}

	if len(s.Effects) > 0 {
		b.WriteString("\neffects:\n")
		for _, e := range s.Effects {
			fmt.Fprintf(&b, "  %s %s\n", e.Time.Format("15:04:05.000"), e)
		}
	}
	return b.String()
}

// SaveSnapshot writes the snapshot to a timestamped text file in directory,
// or the working directory when directory is empty.
func SaveSnapshot(s *Snapshot, directory string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("no state available for snapshot")
	}

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(outputDir, fmt.Sprintf("dualrole_snapshot_%s.txt", timestamp))
	if err := os.WriteFile(path, []byte(Format(s)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}

	slog.Info("Snapshot saved", "path", path)
	return path, nil
}
