// Package events is a time-ordered queue of scripted input, used to replay
// key sequences against the engine.
package events

import (
	"container/heap"
	"time"
)

// EventType is what a scheduled event does when it fires.
type EventType int

const (
	KeyDown EventType = iota
	KeyUp
	Control
	End
)

func (t EventType) String() string {
	switch t {
	case KeyDown:
		return "key-down"
	case KeyUp:
		return "key-up"
	case Control:
		return "control"
	case End:
		return "end"
	default:
		return "unknown"
	}
}

// ScheduledEvent fires At after the start of the run.
type ScheduledEvent struct {
	At        time.Duration
	EventType EventType
	Data      any // keycode for key events, action for controls

	seq int
}

// EventScheduler hands out events in time order. Events scheduled for the
// same instant come out in the order they were scheduled.
type EventScheduler struct {
	queue   eventQueue
	current time.Duration
	seq     int
	running bool
}

func NewEventScheduler() *EventScheduler {
	return &EventScheduler{}
}

// Schedule adds an event at an offset from the start of the run.
func (s *EventScheduler) Schedule(eventType EventType, at time.Duration, data any) {
	s.seq++
	heap.Push(&s.queue, ScheduledEvent{At: at, EventType: eventType, Data: data, seq: s.seq})
}

// ScheduleRelative schedules an event relative to the current time.
func (s *EventScheduler) ScheduleRelative(eventType EventType, fromNow time.Duration, data any) {
	s.Schedule(eventType, s.current+fromNow, data)
}

// Due pops every event at or before now and advances the current time.
// Nothing is returned while the scheduler is stopped.
func (s *EventScheduler) Due(now time.Duration) []ScheduledEvent {
	if !s.running {
		return nil
	}
	if now > s.current {
		s.current = now
	}
	var due []ScheduledEvent
	for len(s.queue) > 0 && s.queue[0].At <= s.current {
		due = append(due, heap.Pop(&s.queue).(ScheduledEvent))
	}
	return due
}

// Peek returns the next event without removing it.
func (s *EventScheduler) Peek() (ScheduledEvent, bool) {
	if len(s.queue) == 0 {
		return ScheduledEvent{}, false
	}
	return s.queue[0], true
}

// Start begins handing out events
func (s *EventScheduler) Start() {
	s.running = true
}

// Stop halts the scheduler and drops whatever is left.
func (s *EventScheduler) Stop() {
	s.running = false
	s.queue = nil
}

// Current returns the time of the last Due call.
func (s *EventScheduler) Current() time.Duration {
	return s.current
}

// EventCount returns the number of pending events
func (s *EventScheduler) EventCount() int {
	return len(s.queue)
}

type eventQueue []ScheduledEvent

func (q eventQueue) Len() int { return len(q) }
func (q eventQueue) Less(i, j int) bool {
	if q[i].At != q[j].At {
		return q[i].At < q[j].At
	}
	return q[i].seq < q[j].seq
}
func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *eventQueue) Push(x any)   { *q = append(*q, x.(ScheduledEvent)) }
func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}
