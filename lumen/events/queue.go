package events

// Queue is the sole concurrency boundary of the core: a FIFO channel safe
// for concurrent producers, consumed only by the event-loop goroutine.
type Queue struct {
	ch chan Event
}

// NewQueue creates a queue with the given buffer size.
func NewQueue(bufferSize int) *Queue {
	return &Queue{ch: make(chan Event, bufferSize)}
}

// Post enqueues an event. It panics on overflow rather than silently
// dropping an event; the buffer must be sized for the producers.
func (q *Queue) Post(ev Event) {
	select {
	case q.ch <- ev:
	default:
		panic("event queue overflow - increase buffer size")
	}
}

// Events returns the receive side for the single consumer.
func (q *Queue) Events() <-chan Event {
	return q.ch
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.ch)
}
