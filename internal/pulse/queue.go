package pulse

// Queue is a fixed-capacity FIFO. The capacity is enforced on Add only:
// a queue built with a longer initial payload keeps it until the next Add.
type Queue[T any] struct {
	max   int
	items []T
}

// NewQueue returns a queue holding items (oldest first).
func NewQueue[T any](capacity int, items ...T) *Queue[T] {
	if capacity <= 0 {
		panic("pulse: queue capacity must be positive")
	}
	data := make([]T, len(items), max(len(items), capacity)+1)
	copy(data, items)
	return &Queue[T]{max: capacity, items: data}
}

// Add appends item and evicts the oldest element when over capacity.
func (q *Queue[T]) Add(item T) *Queue[T] {
	q.items = append(q.items, item)
	if len(q.items) > q.max {
		q.items = q.items[1:]
	}
	return q
}

// Pop removes and returns the oldest element. ok is false on an empty queue.
func (q *Queue[T]) Pop() (item T, ok bool) {
	if len(q.items) == 0 {
		return item, false
	}
	item = q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return item, true
}

func (q *Queue[T]) Size() int { return len(q.items) }

func (q *Queue[T]) Cap() int { return q.max }

// ForEach visits elements oldest to newest.
func (q *Queue[T]) ForEach(fn func(item T, idx int)) {
	for i, it := range q.items {
		fn(it, i)
	}
}

// Items returns a copy of the queued elements, oldest first.
func (q *Queue[T]) Items() []T {
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}
