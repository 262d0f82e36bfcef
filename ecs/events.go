package ecs

import "github.com/go-gl/mathgl/mgl32"

// EventKind names a simulation event.
type EventKind string

const (
	EventJumpStarted EventKind = "jump_started"
	EventJumpLanded  EventKind = "jump_landed"
	EventRecovered   EventKind = "recovered"
	EventRepath      EventKind = "repath"
	EventRunnerDied  EventKind = "runner_died"
	EventCoin        EventKind = "coin_collected"
)

// Event is a simulation event raised by a system for a single entity.
type Event struct {
	Kind     EventKind
	Entity   Entity
	Position mgl32.Vec3
	Data     any
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
