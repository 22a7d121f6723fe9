package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-dualrole/dualrole/backend"
	"github.com/valerio/go-dualrole/dualrole/backend/terminal/render"
	"github.com/valerio/go-dualrole/dualrole/dance"
	"github.com/valerio/go-dualrole/dualrole/display"
	"github.com/valerio/go-dualrole/dualrole/input"
	"github.com/valerio/go-dualrole/dualrole/input/action"
	"github.com/valerio/go-dualrole/dualrole/input/event"
	"github.com/valerio/go-dualrole/dualrole/keycode"
)

const (
	minTermWidth  = display.GridWidth + 4
	minTermHeight = 20
	logPanelWidth = 48

	// Terminals report key presses and auto-repeats but never releases. A
	// key that has not repeated for this long counts as released.
	defaultKeyTimeout = 100 * time.Millisecond
)

// Backend is a tcell terminal front end. It draws the active layer and the
// dance states, and synthesizes key releases from the terminal's repeat
// stream.
type Backend struct {
	screen     tcell.Screen
	running    bool
	logBuffer  *render.LogBuffer
	prevLogger *slog.Logger
	config     backend.BackendConfig
	keyTimeout time.Duration

	mu         sync.Mutex
	eventQueue []backend.InputEvent // controls, filled from the key stream and signals
	signals    chan os.Signal

	keyStates  map[keycode.Keycode]time.Time // last time each key was seen
	pressedAt  map[keycode.Keycode]time.Time // when the current press started
	activeKeys map[keycode.Keycode]bool      // keys reported pressed
}

// New creates a terminal backend on the real terminal.
func New() *Backend {
	return &Backend{}
}

// NewWithScreen uses the given screen, e.g. a tcell simulation screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen}
}

func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.keyTimeout = config.KeyTimeout
	if t.keyTimeout <= 0 {
		t.keyTimeout = defaultKeyTimeout
	}
	t.keyStates = make(map[keycode.Keycode]time.Time)
	t.pressedAt = make(map[keycode.Keycode]time.Time)
	t.activeKeys = make(map[keycode.Keycode]bool)

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %v", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}
	t.running = true

	// Logs go to the panel while the screen is up.
	t.logBuffer = render.NewLogBuffer(200)
	var level slog.Leveler = slog.LevelDebug
	if config.LogLevel != nil {
		level = config.LogLevel
	}
	t.prevLogger = slog.Default()
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, level)))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	go t.handleSignals()

	slog.Info("Terminal backend initialized", "key_timeout", t.keyTimeout)
	return nil
}

// Update polls the terminal, turns its key stream into press and release
// edges and draws s.
func (t *Backend) Update(s *display.Snapshot) ([]backend.InputEvent, error) {
	now := time.Now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	events := t.keyEdges(now)

	t.mu.Lock()
	events = append(events, t.eventQueue...)
	t.eventQueue = nil
	t.mu.Unlock()

	if !t.running {
		return events, nil
	}

	if s != nil {
		t.render(s)
		t.screen.Show()
	}
	return events, nil
}

// keyEdges reports a press the first scan a key is seen and a release once
// it has gone quiet for keyTimeout.
func (t *Backend) keyEdges(now time.Time) []backend.InputEvent {
	var events []backend.InputEvent
	for k, lastSeen := range t.keyStates {
		if !t.activeKeys[k] {
			t.activeKeys[k] = true
			slog.Debug("Key press", "key", k)
			events = append(events, backend.Key(k, event.Press, t.pressedAt[k]))
		}
		if now.Sub(lastSeen) >= t.keyTimeout {
			delete(t.keyStates, k)
			delete(t.pressedAt, k)
			delete(t.activeKeys, k)
			slog.Debug("Key release", "key", k)
			events = append(events, backend.Key(k, event.Release, now))
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) })
	return events
}

func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
		close(t.signals)
		t.signals = nil
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	if t.prevLogger != nil {
		slog.SetDefault(t.prevLogger)
	}
	return nil
}

func (t *Backend) handleSignals() {
	if _, ok := <-t.signals; !ok {
		return
	}
	t.queue(backend.Control(action.Quit))
}

func (t *Backend) queue(ev backend.InputEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eventQueue = append(t.eventQueue, ev)
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey) {
	if act, ok := controlMapping[ev.Key()]; ok {
		if act == action.Quit {
			t.running = false
		}
		c := backend.Control(act)
		c.Time = ev.When()
		t.queue(c)
		return
	}

	k, ok := keyFor(ev)
	if !ok {
		slog.Debug("Unmapped terminal key", "key", ev.Name())
		return
	}
	if _, down := t.keyStates[k]; !down {
		t.pressedAt[k] = ev.When()
	}
	t.keyStates[k] = ev.When()
}

// tcellKeyNameMap names the special keys that can carry host controls.
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyCtrlC: "ctrl+c",
	tcell.KeyCtrlQ: "ctrl+q",
	tcell.KeyF5:    "f5",
	tcell.KeyF9:    "f9",
	tcell.KeyF10:   "f10",
	tcell.KeyF12:   "f12",
}

func buildControlMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)
	for key, name := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(name); ok {
			mapping[key] = act
		}
	}
	return mapping
}

var controlMapping = buildControlMapping()

// specialKeys maps the non-rune tcell keys onto keycodes.
var specialKeys = map[tcell.Key]keycode.Keycode{
	tcell.KeyEnter:      keycode.Enter,
	tcell.KeyTab:        keycode.Tab,
	tcell.KeyBackspace:  keycode.Backspace,
	tcell.KeyBackspace2: keycode.Backspace,
	tcell.KeyEscape:     keycode.Escape,
	tcell.KeyDelete:     keycode.Delete,
	tcell.KeyInsert:     keycode.Insert,
	tcell.KeyHome:       keycode.Home,
	tcell.KeyEnd:        keycode.End,
	tcell.KeyPgUp:       keycode.PageUp,
	tcell.KeyPgDn:       keycode.PageDown,
	tcell.KeyUp:         keycode.Up,
	tcell.KeyDown:       keycode.Down,
	tcell.KeyLeft:       keycode.Left,
	tcell.KeyRight:      keycode.Right,
	tcell.KeyF1:         keycode.F1,
	tcell.KeyF2:         keycode.F2,
	tcell.KeyF3:         keycode.F3,
	tcell.KeyF4:         keycode.F4,
	tcell.KeyF6:         keycode.F6,
	tcell.KeyF7:         keycode.F7,
	tcell.KeyF8:         keycode.F8,
	tcell.KeyF11:        keycode.F11,
}

// keyFor maps a terminal key to the host key that produced it. Shifted
// characters map to their base key, since terminals do not report shift on
// its own.
func keyFor(ev *tcell.EventKey) (keycode.Keycode, bool) {
	if ev.Key() == tcell.KeyRune {
		return keycode.FromRune(ev.Rune())
	}
	k, ok := specialKeys[ev.Key()]
	return k, ok
}

var (
	borderStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	keyStyle     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	pressedStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	statusStyle  = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	typedStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

func (t *Backend) render(s *display.Snapshot) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		render.Text(t.screen, 0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	mainWidth := termWidth
	if termWidth >= minTermWidth+logPanelWidth {
		mainWidth = termWidth - logPanelWidth - 1
	}

	title := fmt.Sprintf(" %s  layer: %s ", t.title(), strings.ToUpper(s.TopLayer().String()))
	render.Text(t.screen, 1, 0, mainWidth-1, title, titleStyle)

	y := 2
	if s.Keymap != nil {
		if l, ok := s.Keymap.Layer(s.TopLayer()); ok {
			render.Grid(t.screen, 2, y, display.Cells(l, s.Pressed), keyStyle, pressedStyle)
		}
	}
	y += display.GridHeight + 1

	render.HLine(t.screen, 0, y, mainWidth, borderStyle)
	y++
	for _, d := range s.Dances {
		render.Text(t.screen, 1, y, mainWidth-1, danceLine(d), statusStyle)
		y++
	}

	layers := make([]string, len(s.Layers))
	for i, id := range s.Layers {
		layers[i] = id.String()
	}
	render.Text(t.screen, 1, y, mainWidth-1, "layers: "+strings.Join(layers, " "), statusStyle)
	y++

	held := make([]string, len(s.Held))
	for i, k := range s.Held {
		held[i] = k.String()
	}
	render.Text(t.screen, 1, y, mainWidth-1, "held:   "+strings.Join(held, " "), statusStyle)
	y++

	render.Text(t.screen, 1, y, mainWidth-1, "typed:  "+tail(visible(s.Typed), mainWidth-10), typedStyle)
	y++

	render.HLine(t.screen, 0, y, mainWidth, borderStyle)
	y++
	for i := len(s.Effects) - 1; i >= 0 && y < termHeight-1; i-- {
		e := s.Effects[i]
		render.Text(t.screen, 1, y, mainWidth-1, e.Time.Format("15:04:05.000")+" "+e.String(), keyStyle)
		y++
	}

	if mainWidth < termWidth {
		render.VLine(t.screen, mainWidth, 0, termHeight-1, borderStyle)
		t.drawLogs(mainWidth+1, 0, termWidth-mainWidth-1, termHeight-1)
	}

	help := " F5=reset F9/F10=log level F12=snapshot Ctrl+C=quit "
	render.Text(t.screen, 0, termHeight-1, termWidth, help, borderStyle)
}

func (t *Backend) title() string {
	if t.config.Title != "" {
		return t.config.Title
	}
	return "dualrole"
}

func danceLine(d display.DanceStatus) string {
	line := fmt.Sprintf("%-14s %-22s taps=%d", d.ID, d.State, d.Taps)
	if d.Pressed {
		line += " [down]"
	}
	if d.State == dance.Idle && d.Taps == 0 {
		line = fmt.Sprintf("%-14s -", d.ID)
	}
	return line
}

func (t *Backend) drawLogs(startX, startY, width, height int) {
	level := t.config.Level()
	render.Text(t.screen, startX+1, startY, width-1, fmt.Sprintf(" Logs [%s] ", level), titleStyle)

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	rows := height - 1
	for i, entry := range t.logBuffer.Recent(rows, level) {
		style := infoStyle
		switch {
		case entry.Level >= slog.LevelError:
			style = errStyle
		case entry.Level >= slog.LevelWarn:
			style = warnStyle
		case entry.Level < slog.LevelInfo:
			style = debugStyle
		}
		render.Text(t.screen, startX+1, startY+1+i, width-1, render.FormatLogEntry(entry), style)
	}
}

// visible makes control characters in typed text printable.
func visible(s string) string {
	return strings.NewReplacer("\n", "⏎", "\t", "⇥").Replace(s)
}

func tail(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) > n {
		return string(r[len(r)-n:])
	}
	return s
}
