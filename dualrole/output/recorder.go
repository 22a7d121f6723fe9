package output

import (
	"sort"
	"sync"
	"time"

	"github.com/valerio/go-dualrole/dualrole/keycode"
	"github.com/valerio/go-dualrole/dualrole/layer"
)

const maxTyped = 512

// Recorder is a Writer that keeps the most recent effects in a ring, tracks
// which keys are down and renders what a US layout would have typed.
// Safe for concurrent use.
type Recorder struct {
	mu sync.RWMutex

	entries []Effect
	size    int
	index   int
	count   int

	held  map[keycode.Keycode]bool
	typed []rune
	now   func() time.Time
}

// NewRecorder keeps up to size effects.
func NewRecorder(size int) *Recorder {
	if size <= 0 {
		size = 1
	}
	return &Recorder{
		entries: make([]Effect, size),
		size:    size,
		held:    make(map[keycode.Keycode]bool),
		now:     time.Now,
	}
}

// SetClock replaces the time source used to stamp effects.
func (r *Recorder) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *Recorder) Press(k keycode.Keycode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.add(Effect{Kind: KeyDown, Key: k})
	r.held[k] = true
	r.typeKey(k)
}

func (r *Recorder) Release(k keycode.Keycode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.add(Effect{Kind: KeyUp, Key: k})
	delete(r.held, k)
}

func (r *Recorder) LayerChanged(id layer.ID, on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind := LayerOff
	if on {
		kind = LayerOn
	}
	r.add(Effect{Kind: kind, Layer: id})
}

func (r *Recorder) add(e Effect) {
	e.Time = r.now()
	r.entries[r.index] = e
	r.index = (r.index + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

func (r *Recorder) typeKey(k keycode.Keycode) {
	switch k {
	case keycode.Backspace:
		if len(r.typed) > 0 {
			r.typed = r.typed[:len(r.typed)-1]
		}
		return
	}
	c, ok := k.Rune()
	if !ok {
		return
	}
	if r.held[keycode.LeftShift] || r.held[keycode.RightShift] {
		if s, ok := k.ShiftedRune(); ok {
			c = s
		}
	}
	r.typed = append(r.typed, c)
	if len(r.typed) > maxTyped {
		r.typed = r.typed[len(r.typed)-maxTyped:]
	}
}

// Recent returns up to n effects, oldest first. n <= 0 returns everything
// still in the ring.
func (r *Recorder) Recent(n int) []Effect {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := r.count
	if n > 0 && n < count {
		count = n
	}
	result := make([]Effect, count)
	for i := 0; i < count; i++ {
		idx := (r.index - count + i + r.size) % r.size
		result[i] = r.entries[idx]
	}
	return result
}

// Held returns the keys currently down, in usage order.
func (r *Recorder) Held() []keycode.Keycode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]keycode.Keycode, 0, len(r.held))
	for k := range r.held {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Typed returns the text typed so far.
func (r *Recorder) Typed() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return string(r.typed)
}

// Clear forgets effects and typed text. Held keys are kept.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.count = 0
	r.index = 0
	r.typed = r.typed[:0]
}
