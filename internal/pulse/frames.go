package pulse

import "sync"

// FrameQueue is a Scheduler for hosts that pull frames from their own
// refresh loop. It holds at most one callback. Schedule and cancel may be
// called from any goroutine; Run is called by the host's frame goroutine.
type FrameQueue struct {
	mu      sync.Mutex
	pending func()
	seq     int
}

// Schedule replaces the pending callback with fn.
func (q *FrameQueue) Schedule(fn func()) (cancel func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	id := q.seq
	q.pending = fn
	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if q.seq == id {
			q.pending = nil
		}
	}
}

// Pending reports whether a callback is registered.
func (q *FrameQueue) Pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending != nil
}

// Run executes the pending callback and reports whether there was one.
// The callback runs without the queue lock held so it can reschedule.
func (q *FrameQueue) Run() bool {
	q.mu.Lock()
	fn := q.pending
	q.pending = nil
	q.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}
