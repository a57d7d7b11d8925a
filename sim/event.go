package sim

import "container/heap"

// event is one kernel queue entry: a wake time, an insertion sequence
// number, the identity of the process to resume, and its continuation.
// Events are owned exclusively by the kernel's queue and discarded after
// dispatch.
type event struct {
	time    float64
	seq     uint64
	process string
	run     func() error
}

// eventQueue is a priority queue of events with deterministic ordering.
// Ordering: wake time → insertion sequence, so two events scheduled for the
// same virtual instant dispatch in FIFO submission order.
type eventQueue struct {
	events eventHeap
}

func newEventQueue() *eventQueue {
	q := &eventQueue{events: make(eventHeap, 0)}
	heap.Init(&q.events)
	return q
}

// schedule adds an event to the queue.
func (q *eventQueue) schedule(e *event) {
	heap.Push(&q.events, e)
}

// popNext removes and returns the earliest event, or nil if the queue is
// empty.
func (q *eventQueue) popNext() *event {
	if q.len() == 0 {
		return nil
	}
	return heap.Pop(&q.events).(*event)
}

// peek returns the earliest event without removing it.
func (q *eventQueue) peek() *event {
	if q.len() == 0 {
		return nil
	}
	return q.events[0]
}

func (q *eventQueue) len() int {
	return q.events.Len()
}

// eventHeap implements heap.Interface for *event.
type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}
