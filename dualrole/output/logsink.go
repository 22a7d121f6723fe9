package output

import (
	"log/slog"

	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/layer"
)

// LogSink is a Writer that logs key edges. Typed characters are buffered
// until Enter so the log reads as lines of text.
type LogSink struct {
	logger *slog.Logger
	edges  bool

	shift int
	line  []rune
}

type LogSinkOption func(*LogSink)

// WithLogger logs to l instead of the default logger.
func WithLogger(l *slog.Logger) LogSinkOption { return func(s *LogSink) { s.logger = l } }

// WithEdges logs every press and release at debug level as well.
func WithEdges() LogSinkOption { return func(s *LogSink) { s.edges = true } }

func NewLogSink(opts ...LogSinkOption) *LogSink {
	s := &LogSink{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// log returns the logger set with WithLogger, or the default logger at the
// time of the call.
func (s *LogSink) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func (s *LogSink) Press(k keycode.Keycode) {
	if s.edges {
		s.log().Debug("key down", "key", k)
	}
	switch k {
	case keycode.LeftShift, keycode.RightShift:
		s.shift++
		return
	case keycode.Enter:
		s.Flush()
		return
	case keycode.Backspace:
		if len(s.line) > 0 {
			s.line = s.line[:len(s.line)-1]
		}
		return
	}
	c, ok := k.Rune()
	if !ok {
		return
	}
	if s.shift > 0 {
		if sc, ok := k.ShiftedRune(); ok {
			c = sc
		}
	}
	s.line = append(s.line, c)
}

func (s *LogSink) Release(k keycode.Keycode) {
	if s.edges {
		s.log().Debug("key up", "key", k)
	}
	if (k == keycode.LeftShift || k == keycode.RightShift) && s.shift > 0 {
		s.shift--
	}
}

func (s *LogSink) LayerChanged(id layer.ID, on bool) {
	s.log().Debug("layer", "layer", id, "on", on)
}

// Flush logs the buffered line, if any.
func (s *LogSink) Flush() {
	if len(s.line) == 0 {
		return
	}
	s.log().Info("typed", "line", string(s.line))
	s.line = s.line[:0]
}
