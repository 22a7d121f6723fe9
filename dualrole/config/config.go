// Package config loads host settings, dual-role key bindings and keymap
// overrides from TOML, YAML or JSON files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/valerio/go-dualrole/dualrole/dance"
	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/keymap"
	"github.com/valerio/go-dualrole/dualrole/layer"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Backends and outputs accepted by Validate.
var (
	Backends = []string{"terminal", "sdl2", "evdev", "headless"}
	Outputs  = []string{"log", "uinput", "none"}
)

// DanceConfig binds a dual-role key to its base key and hold layer.
type DanceConfig struct {
	Key   string `toml:"key" yaml:"key" json:"key"`
	Layer string `toml:"layer" yaml:"layer" json:"layer"`
}

// Config is the full set of host settings.
type Config struct {
	TappingTermMs  int    `toml:"tapping_term_ms" yaml:"tapping_term_ms" json:"tapping_term_ms"`
	ScanIntervalMs int    `toml:"scan_interval_ms" yaml:"scan_interval_ms" json:"scan_interval_ms"`
	KeyTimeoutMs   int    `toml:"key_timeout_ms" yaml:"key_timeout_ms" json:"key_timeout_ms"`
	LogLevel       string `toml:"log_level" yaml:"log_level" json:"log_level"`
	Backend        string `toml:"backend" yaml:"backend" json:"backend"`
	Output         string `toml:"output" yaml:"output" json:"output"`

	// evdev backend
	Device string `toml:"device" yaml:"device" json:"device"`
	Grab   bool   `toml:"grab" yaml:"grab" json:"grab"`

	Dances map[string]DanceConfig `toml:"dances" yaml:"dances" json:"dances"`
	// Layers replaces whole layers, given as forty miryoku grid entries.
	Layers map[string][]string `toml:"layers" yaml:"layers" json:"layers"`
	// Matrix moves host keys to other board positions.
	Matrix map[string]string `toml:"matrix" yaml:"matrix" json:"matrix"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		TappingTermMs:  200,
		ScanIntervalMs: 1,
		KeyTimeoutMs:   100,
		LogLevel:       "info",
		Backend:        "terminal",
		Output:         "log",
		Dances: map[string]DanceConfig{
			dance.SpaceNav.String():     {Key: "space", Layer: "nav"},
			dance.BackspaceNum.String(): {Key: "backspace", Layer: "num"},
		},
	}
}

// TappingTerm returns the tapping term.
func (c *Config) TappingTerm() time.Duration {
	return time.Duration(c.TappingTermMs) * time.Millisecond
}

// ScanInterval returns how often the host loop ticks.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.ScanIntervalMs) * time.Millisecond
}

// KeyTimeout returns how long the terminal backend waits for a repeat
// before it reports a release.
func (c *Config) KeyTimeout() time.Duration {
	return time.Duration(c.KeyTimeoutMs) * time.Millisecond
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	return l, nil
}

// Bindings resolves the dance table. Dances not named keep their defaults.
func (c *Config) Bindings() (map[dance.ID]dance.Key, error) {
	bindings := dance.DefaultBindings()
	names := make([]string, 0, len(c.Dances))
	for name := range c.Dances {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dc := c.Dances[name]
		id, err := dance.ParseID(name)
		if err != nil {
			return nil, fmt.Errorf("%w: dances: %v", ErrInvalid, err)
		}
		k := bindings[id]
		if dc.Key != "" {
			if k.Keycode, err = keycode.Parse(dc.Key); err != nil {
				return nil, fmt.Errorf("%w: dances.%s.key: %v", ErrInvalid, name, err)
			}
		}
		if dc.Layer != "" {
			if k.Layer, err = layer.Parse(dc.Layer); err != nil {
				return nil, fmt.Errorf("%w: dances.%s.layer: %v", ErrInvalid, name, err)
			}
		}
		bindings[id] = k
	}
	return bindings, nil
}

// Keymap builds the default keymap with any layers from the file replacing
// or adding to it.
func (c *Config) Keymap() (*keymap.Keymap, error) {
	km := keymap.Default()
	names := make([]string, 0, len(c.Layers))
	for name := range c.Layers {
		names = append(names, name)
	}
	sort.Strings(names)
	seen := make(map[layer.ID]string, len(names))
	for _, name := range names {
		entries := c.Layers[name]
		id, err := layer.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("%w: layers: %v", ErrInvalid, err)
		}
		if prev, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: layers.%s: same layer as layers.%s", ErrInvalid, name, prev)
		}
		seen[id] = name
		grid, err := keymap.ParseGrid(entries)
		if err != nil {
			return nil, fmt.Errorf("%w: layers.%s: %v", ErrInvalid, name, err)
		}
		km.Set(id, keymap.Miryoku(grid))
	}
	if err := km.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return km, nil
}

// HostMatrix builds the host key matrix.
func (c *Config) HostMatrix() (keymap.Matrix, error) {
	m, err := keymap.ParseMatrix(c.Matrix)
	if err != nil {
		return nil, fmt.Errorf("%w: matrix: %v", ErrInvalid, err)
	}
	return m, nil
}

// Validate checks every field and returns all problems found.
func (c *Config) Validate() error {
	var errs []error
	if c.TappingTermMs <= 0 {
		errs = append(errs, fmt.Errorf("%w: tapping_term_ms must be positive, got %d", ErrInvalid, c.TappingTermMs))
	}
	if c.ScanIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("%w: scan_interval_ms must be positive, got %d", ErrInvalid, c.ScanIntervalMs))
	}
	if c.ScanIntervalMs >= c.TappingTermMs && c.TappingTermMs > 0 {
		errs = append(errs, fmt.Errorf("%w: scan_interval_ms (%d) must be shorter than tapping_term_ms (%d)", ErrInvalid, c.ScanIntervalMs, c.TappingTermMs))
	}
	if c.KeyTimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("%w: key_timeout_ms must be positive, got %d", ErrInvalid, c.KeyTimeoutMs))
	}
	if !oneOf(c.Backend, Backends) {
		errs = append(errs, fmt.Errorf("%w: backend %q, want one of %s", ErrInvalid, c.Backend, strings.Join(Backends, ", ")))
	}
	if !oneOf(c.Output, Outputs) {
		errs = append(errs, fmt.Errorf("%w: output %q, want one of %s", ErrInvalid, c.Output, strings.Join(Outputs, ", ")))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Bindings(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Keymap(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.HostMatrix(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ApplyEnvOverrides applies DUALROLE_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v, err := strconv.Atoi(os.Getenv("DUALROLE_TAPPING_TERM_MS")); err == nil {
		c.TappingTermMs = v
	}
	if v := os.Getenv("DUALROLE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("DUALROLE_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("DUALROLE_DEVICE"); v != "" {
		c.Device = v
	}
}

func oneOf(s string, options []string) bool {
	for _, o := range options {
		if s == o {
			return true
		}
	}
	return false
}
