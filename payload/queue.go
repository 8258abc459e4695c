package payload

// Queue is a bounded FIFO of payloads.
// Ownership of a payload moves into the queue on Push and out on Pop.
// A Queue is not safe for concurrent use.
type Queue struct {
	items []*Payload
	head  int
	n     int
}

// NewQueue returns an empty queue that holds at most capacity payloads.
func NewQueue(capacity int) *Queue {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue{items: make([]*Payload, capacity)}
}

// Cap returns the queue's capacity.
func (q *Queue) Cap() int { return len(q.items) }

// Len returns the number of queued payloads.
func (q *Queue) Len() int { return q.n }

// Full reports whether Push would fail.
func (q *Queue) Full() bool { return q.n == len(q.items) }

// Empty reports whether Pop would return nil.
func (q *Queue) Empty() bool { return q.n == 0 }

// Push appends p and reports whether there was room for it.
// On failure the caller keeps ownership of p.
func (q *Queue) Push(p *Payload) bool {
	if q.Full() {
		return false
	}
	q.items[(q.head+q.n)%len(q.items)] = p
	q.n++
	return true
}

// Pop removes and returns the oldest payload, or nil if the queue is empty.
func (q *Queue) Pop() *Payload {
	if q.Empty() {
		return nil
	}
	p := q.items[q.head]
	q.items[q.head] = nil
	q.head = (q.head + 1) % len(q.items)
	q.n--
	return p
}
