package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli"
	"golang.org/x/term"

	"github.com/valerio/go-dualrole/dualrole"
	"github.com/valerio/go-dualrole/dualrole/backend"
	"github.com/valerio/go-dualrole/dualrole/backend/evdev"
	"github.com/valerio/go-dualrole/dualrole/backend/headless"
	"github.com/valerio/go-dualrole/dualrole/backend/sdl2"
	"github.com/valerio/go-dualrole/dualrole/backend/terminal"
	"github.com/valerio/go-dualrole/dualrole/config"
	"github.com/valerio/go-dualrole/dualrole/dance"
	"github.com/valerio/go-dualrole/dualrole/display"
	"github.com/valerio/go-dualrole/dualrole/layer"
	"github.com/valerio/go-dualrole/dualrole/output"
	"github.com/valerio/go-dualrole/dualrole/timing"
)

// logLevel is shared by the stderr handler, the terminal log panel and the
// log level controls.
var logLevel = new(slog.LevelVar)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	app := cli.NewApp()
	app.Name = "dualrole"
	app.Description = "A keyboard host with tap-dance dual-role keys"
	app.Usage = "dualrole [options]"
	app.Version = "1.0.0"
	app.Flags = runFlags
	app.Action = runHost
	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "Run the host loop (the default)",
			Flags:  runFlags,
			Action: runHost,
		},
		{
			Name:  "classify",
			Usage: "Print the state a tapping window resolves to",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "taps", Value: 1, Usage: "Presses seen in the window"},
				cli.BoolFlag{Name: "interrupted", Usage: "Another key was pressed before the window closed"},
				cli.BoolFlag{Name: "pressed", Usage: "The key was still down when the window closed"},
			},
			Action: classify,
		},
		{
			Name:  "layout",
			Usage: "Print a keymap layer",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "config, c", Usage: "Configuration file (TOML, YAML or JSON)"},
				cli.StringFlag{Name: "layer, l", Value: "base", Usage: "Layer to print"},
			},
			Action: printLayout,
		},
		{
			Name:      "config",
			Usage:     "Print the default configuration, or write it to a file",
			ArgsUsage: "[file]",
			Action:    writeConfig,
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running dualrole", "error", err)
		os.Exit(1)
	}
}

var runFlags = []cli.Flag{
	cli.StringFlag{Name: "config, c", Usage: "Configuration file (TOML, YAML or JSON)"},
	cli.BoolFlag{Name: "watch", Usage: "Reload the configuration file when it changes"},
	cli.StringFlag{Name: "backend, b", Usage: "terminal, sdl2, evdev or headless (overrides config)"},
	cli.StringFlag{Name: "output, o", Usage: "log, uinput or none (overrides config)"},
	cli.StringFlag{Name: "script", Usage: "Key script to replay with the headless backend"},
	cli.StringFlag{Name: "device", Usage: "Input device for the evdev backend, e.g. /dev/input/event3"},
	cli.BoolFlag{Name: "grab", Usage: "Grab the evdev device so only dualrole sees it"},
	cli.IntFlag{Name: "tapping-term", Usage: "Tapping term in milliseconds (overrides config)"},
	cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (overrides config)"},
	cli.StringFlag{Name: "limiter", Value: "ticker", Usage: "Scan pacing: ticker, adaptive or none"},
	cli.StringFlag{Name: "snapshot-dir", Usage: "Directory for state snapshots (default: working directory)"},
}

func runHost(c *cli.Context) error {
	loader := config.NewLoader(c.String("config"))
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	lvl, _ := cfg.Level()
	logLevel.Set(lvl)

	opts, err := engineOptions(cfg)
	if err != nil {
		return err
	}

	w, closeOutput, err := newOutput(cfg.Output)
	if err != nil {
		return err
	}
	defer closeOutput()

	be, err := newBackend(cfg.Backend, c.String("script"))
	if err != nil {
		return err
	}

	limiter := timing.NewLimiter(c.String("limiter"), cfg.ScanInterval())
	if cfg.Backend == "headless" {
		limiter = timing.NewNoOpLimiter()
	}

	hostCfg := dualrole.HostConfig{
		Backend: backend.BackendConfig{
			Title:         "dualrole",
			LogLevel:      logLevel,
			KeyTimeout:    cfg.KeyTimeout(),
			ScanInterval:  cfg.ScanInterval(),
			Device:        cfg.Device,
			Grab:          cfg.Grab,
			RecentEffects: 16,
		},
		Limiter:     limiter,
		SnapshotDir: c.String("snapshot-dir"),
	}

	if c.Bool("watch") && c.String("config") != "" {
		updates := make(chan dualrole.Options, 1)
		loader.OnChange(func(next *config.Config) {
			applyFlags(c, next)
			opts, err := engineOptions(next)
			if err != nil {
				slog.Warn("Ignoring configuration change", "error", err)
				return
			}
			if lvl, err := next.Level(); err == nil && c.String("log-level") == "" {
				logLevel.Set(lvl)
			}
			offer(updates, opts)
		})
		if err := loader.Watch(); err != nil {
			return err
		}
		defer loader.Close()
		go func() {
			for err := range loader.Errors() {
				slog.Warn("Configuration reload failed", "error", err)
			}
		}()
		hostCfg.Reconfigure = updates
	}

	e := dualrole.New(opts, w)
	slog.Info("Starting dualrole",
		"backend", cfg.Backend,
		"output", cfg.Output,
		"tapping_term", e.TappingTerm())
	return dualrole.NewHost(e, be, hostCfg).Run(context.Background())
}

// offer replaces whatever update is waiting with the newest one.
func offer(ch chan dualrole.Options, opts dualrole.Options) {
	for {
		select {
		case ch <- opts:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if v := c.String("backend"); v != "" {
		cfg.Backend = v
	}
	if v := c.String("output"); v != "" {
		cfg.Output = v
	}
	if v := c.String("device"); v != "" {
		cfg.Device = v
	}
	if c.Bool("grab") {
		cfg.Grab = true
	}
	if v := c.Int("tapping-term"); v > 0 {
		cfg.TappingTermMs = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if c.String("script") != "" && c.String("backend") == "" {
		cfg.Backend = "headless"
	}
}

// engineOptions turns a validated configuration into engine options.
func engineOptions(cfg *config.Config) (dualrole.Options, error) {
	km, err := cfg.Keymap()
	if err != nil {
		return dualrole.Options{}, err
	}
	matrix, err := cfg.HostMatrix()
	if err != nil {
		return dualrole.Options{}, err
	}
	bindings, err := cfg.Bindings()
	if err != nil {
		return dualrole.Options{}, err
	}
	return dualrole.Options{
		Keymap:      km,
		Matrix:      matrix,
		Bindings:    bindings,
		TappingTerm: cfg.TappingTerm(),
	}, nil
}

func newOutput(name string) (output.Writer, func(), error) {
	switch name {
	case "uinput":
		u, err := output.NewUinput("dualrole virtual keyboard")
		if err != nil {
			return nil, nil, err
		}
		return u, func() {
			if err := u.Close(); err != nil {
				slog.Error("Failed to close uinput device", "error", err)
			}
		}, nil
	case "none":
		return output.Discard, func() {}, nil
	default:
		sink := output.NewLogSink()
		return sink, sink.Flush, nil
	}
}

func newBackend(name, script string) (backend.Backend, error) {
	switch name {
	case "headless":
		if script == "" {
			return nil, errors.New("headless backend requires --script")
		}
		s, err := headless.LoadScript(script)
		if err != nil {
			return nil, err
		}
		return headless.New(s, os.Stdout), nil
	case "sdl2":
		return sdl2.New(), nil
	case "evdev":
		return evdev.New(), nil
	default:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, errors.New("terminal backend needs a TTY; try --backend headless --script <file>")
		}
		return terminal.New(), nil
	}
}

func classify(c *cli.Context) error {
	ev := dance.Event{
		TapCount:     c.Int("taps"),
		Interrupted:  c.Bool("interrupted"),
		StillPressed: c.Bool("pressed"),
	}
	fmt.Fprintf(c.App.Writer, "%s -> %s\n", ev, dance.Classify(ev))
	return nil
}

func printLayout(c *cli.Context) error {
	cfg, err := config.NewLoader(c.String("config")).Load()
	if err != nil {
		return err
	}
	id, err := layer.Parse(c.String("layer"))
	if err != nil {
		return err
	}
	return writeLayout(c.App.Writer, cfg, id)
}

func writeLayout(w io.Writer, cfg *config.Config, id layer.ID) error {
	km, err := cfg.Keymap()
	if err != nil {
		return err
	}
	l, ok := km.Layer(id)
	if !ok {
		return fmt.Errorf("layer %s is not defined", id)
	}
	fmt.Fprintf(w, "%s\n%s\n", strings.ToUpper(id.String()), strings.Join(display.Lines(l, nil), "\n"))
	return nil
}

func writeConfig(c *cli.Context) error {
	cfg := config.DefaultConfig()
	if path := c.Args().First(); path != "" {
		if err := config.Save(cfg, path); err != nil {
			return err
		}
		slog.Info("Configuration written", "path", path)
		return nil
	}
	return toml.NewEncoder(c.App.Writer).Encode(cfg)
}
