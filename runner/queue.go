package runner

import (
	"sync"
	"time"

	"github.com/probelab/validationsim/core"
)

// Queue is an unbounded FIFO event queue with a bounded-wait Pop. One queue
// belongs to one run: the controller goroutine pushes, any number of stream
// consumers pop.
type Queue struct {
	mu    sync.Mutex
	items []core.Event
	wake  chan struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Push appends events in order and wakes one waiting Pop.
func (q *Queue) Push(events ...core.Event) {
	if len(events) == 0 {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, events...)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pop removes and returns the oldest event, waiting up to timeout for one to
// arrive. The second return value is false on timeout.
func (q *Queue) Pop(timeout time.Duration) (core.Event, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			e := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			// Leave the wake token for the next waiter when more is queued.
			select {
			case q.wake <- struct{}{}:
			default:
			}
			return e, true
		}
		q.mu.Unlock()
		select {
		case <-q.wake:
		case <-deadline.C:
			return core.Event{}, false
		}
	}
}

// Len reports the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Empty reports whether no events are queued.
func (q *Queue) Empty() bool {
	return q.Len() == 0
}
