package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/pulse/internal/pulse"
)

// Host owns the terminal screen and delivers frames on a ticker. Frames,
// input and resizes are all handled on the goroutine that calls Run.
type Host struct {
	screen   tcell.Screen
	renderer *Renderer
	interval time.Duration
	frames   pulse.FrameQueue
}

func NewHost(screen tcell.Screen, renderer *Renderer, interval time.Duration) *Host {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Host{screen: screen, renderer: renderer, interval: interval}
}

// Schedule registers fn for the next tick of Run.
func (h *Host) Schedule(fn func()) (cancel func()) {
	return h.frames.Schedule(fn)
}

// Pending reports whether a frame callback is registered.
func (h *Host) Pending() bool { return h.frames.Pending() }

// Step runs the pending frame, if any, and shows the result.
func (h *Host) Step() bool {
	if !h.frames.Run() {
		return false
	}
	h.screen.Show()
	return true
}

// Run delivers frames until ctx is done or a quit key is pressed.
func (h *Host) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !h.handle(ev) {
				return nil
			}
		case <-ticker.C:
			h.Step()
		}
	}
}

func (h *Host) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev.Key(), ev.Rune()) {
			return false
		}
	case *tcell.EventResize:
		h.screen.Clear()
		h.renderer.Resize()
		h.renderer.Repaint()
		h.screen.Sync()
	}
	return true
}

func isQuit(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return r == 'q'
	}
	return false
}
