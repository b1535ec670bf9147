package pulse

import "sync"

// Scheduler registers fn to run once on the next display refresh. The
// returned cancel unregisters fn if it has not run yet.
type Scheduler interface {
	Schedule(fn func()) (cancel func())
}

// Loop drives an Engine from a Scheduler. Exactly one frame is pending at
// any time until Stop.
type Loop struct {
	engine   *Engine
	renderer Renderer
	sched    Scheduler

	mu      sync.Mutex
	cancel  func()
	stopped bool
	frames  int
	onPing  func()
}

// Start wipes the surface and schedules the first frame.
func Start(e *Engine, r Renderer, s Scheduler) *Loop {
	l := &Loop{engine: e, renderer: r, sched: s}
	Replay(r, e.Reset())
	l.mu.Lock()
	l.cancel = s.Schedule(l.frame)
	l.mu.Unlock()
	return l
}

// OnPing registers fn to run after every frame in which the engine pinged.
func (l *Loop) OnPing(fn func()) {
	l.mu.Lock()
	l.onPing = fn
	l.mu.Unlock()
}

func (l *Loop) frame() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}

	before := l.engine.Pings()
	Replay(l.renderer, l.engine.Tick())
	l.frames++
	l.cancel = l.sched.Schedule(l.frame)

	var hook func()
	if l.engine.Pings() != before {
		hook = l.onPing
	}
	l.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Stop unregisters the pending frame. It is safe to call more than once.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Loop) Stopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

// Frames returns the number of completed ticks.
func (l *Loop) Frames() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}
