package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

type PathEventKind string

const (
	PathEventFound   PathEventKind = "path_found"
	PathEventLost    PathEventKind = "path_lost"
	PathEventArrived PathEventKind = "arrived"
)

// PathEvent is raised when an agent's route changes state.
type PathEvent struct {
	Entity Entity
	Kind   PathEventKind
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

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

// Peek returns pending events without clearing them.
func (q *EventQueue) Peek() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
