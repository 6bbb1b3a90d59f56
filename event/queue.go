package event

import (
	"sync/atomic"

	"github.com/lixenwraith/color-mixer/parameter"
)

// Queue carries input events from the terminal and collaborators to the orchestrator
// Producers push lock-free from any goroutine; exactly one dispatcher drains it.
// A slot is readable only after its published flag is set. When producers outrun
// the dispatcher the oldest pending events are overwritten and counted in Dropped
type Queue struct {
	events    [parameter.EventQueueSize]GameEvent
	published [parameter.EventQueueSize]atomic.Bool
	head      atomic.Uint64
	tail      atomic.Uint64
	dropped   atomic.Uint64

	// Dispatcher-owned buffer reused by Drain
	batch []GameEvent
}

func NewQueue() *Queue {
	return &Queue{batch: make([]GameEvent, 0, parameter.EventQueueSize)}
}

// Push enqueues ev; safe for concurrent producers
func (q *Queue) Push(ev GameEvent) {
	for {
		tail := q.tail.Load()
		next := tail + 1
		if !q.tail.CompareAndSwap(tail, next) {
			continue
		}

		slot := tail & parameter.EventBufferMask
		q.events[slot] = ev
		q.published[slot].Store(true)

		head := q.head.Load()
		if next-head > parameter.EventQueueSize {
			oldest := next - parameter.EventQueueSize
			if q.head.CompareAndSwap(head, oldest) {
				q.dropped.Add(oldest - head)
			}
		}
		return
	}
}

// Consume returns every pending event in FIFO order in a new slice, nil when empty
func (q *Queue) Consume() []GameEvent {
	out := q.take(nil)
	if len(out) == 0 {
		return nil
	}
	return out
}

// Drain hands every pending event to fn in FIFO order and returns the count
// Must only be called from the dispatcher goroutine; fn must not retain the batch
func (q *Queue) Drain(fn func(GameEvent)) int {
	q.batch = q.take(q.batch[:0])
	for _, ev := range q.batch {
		fn(ev)
	}
	n := len(q.batch)
	clear(q.batch)
	return n
}

// take appends pending events to dst and advances head past them
func (q *Queue) take(dst []GameEvent) []GameEvent {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		if tail == head {
			return dst
		}

		pending := tail - head
		if pending > parameter.EventQueueSize {
			pending = parameter.EventQueueSize
			head = tail - parameter.EventQueueSize
		}

		start := len(dst)
		for i := uint64(0); i < pending; i++ {
			slot := (head + i) & parameter.EventBufferMask
			// Stop at a slot whose producer has not finished writing
			if !q.published[slot].Load() {
				break
			}
			dst = append(dst, q.events[slot])
			q.events[slot] = GameEvent{}
			q.published[slot].Store(false)
		}

		if q.head.CompareAndSwap(head, head+uint64(len(dst)-start)) {
			return dst
		}
		dst = dst[:start]
	}
}

// Len returns the approximate pending count
func (q *Queue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	return int(min(tail-head, parameter.EventQueueSize))
}

// Dropped returns how many events were overwritten before dispatch
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
