package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/pulse/internal/colors"
	"github.com/iburimskiy/pulse/internal/pulse"
)

// mockScreen records cell writes; unimplemented methods panic through the
// nil embedded interface.
type mockScreen struct {
	tcell.Screen
	width, height int
	content       map[[2]int]tcell.Style
	shows, syncs  int
	clears        int
}

func newMockScreen(w, h int) *mockScreen {
	return &mockScreen{width: w, height: h, content: map[[2]int]tcell.Style{}}
}

func (m *mockScreen) Size() (int, int) { return m.width, m.height }
func (m *mockScreen) Show()            { m.shows++ }
func (m *mockScreen) Sync()            { m.syncs++ }
func (m *mockScreen) Clear()           { m.clears++ }
func (m *mockScreen) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	m.content[[2]int{x, y}] = style
}

func TestRendererMapsSurfaceToGrid(t *testing.T) {
	scr := newMockScreen(10, 5)
	r := NewRenderer(scr, 100, nil)

	if cols, rows := r.Size(); cols != 10 || rows != 5 {
		t.Fatalf("size = %dx%d, want 10x5", cols, rows)
	}
	if x, y := r.cellAt(pulse.Point{X: 55, Y: 99}); x != 5 || y != 4 {
		t.Errorf("cellAt(55,99) = %d,%d; want 5,4", x, y)
	}
	if x, y := r.cellAt(pulse.Point{X: 100, Y: 100}); x != 9 || y != 4 {
		t.Errorf("cellAt(100,100) = %d,%d; want clamped 9,4", x, y)
	}
}

func TestRendererCircleBlendsOverBlack(t *testing.T) {
	scr := newMockScreen(10, 10)
	r := NewRenderer(scr, 100, nil)

	r.FillCircle(pulse.Point{X: 55, Y: 55}, 1, colors.RGB{R: 200}.With(0.5))
	c := r.cells[5*10+5]
	if !c.painted || c.color != (colors.RGB{R: 100}) {
		t.Errorf("cell = %+v, want painted {100 0 0}", c)
	}
	if _, ok := scr.content[[2]int{5, 5}]; !ok {
		t.Error("cell (5,5) was not written to the screen")
	}
	if len(scr.content) != 1 {
		t.Errorf("wrote %d cells, want only the center cell for a small dot", len(scr.content))
	}

	r.FillCircle(pulse.Point{X: 55, Y: 55}, 1, colors.RGB{R: 200}.With(0.5))
	if got := r.cells[55].color; got != (colors.RGB{R: 150}) {
		t.Errorf("second dot composite = %v, want {150 0 0}", got)
	}
}

func TestRendererTransparentDotIsSkipped(t *testing.T) {
	scr := newMockScreen(10, 10)
	r := NewRenderer(scr, 100, nil)
	r.FillCircle(pulse.Point{X: 5, Y: 5}, 0, colors.RGB{G: 255}.With(0))
	if len(scr.content) != 0 {
		t.Errorf("zero-age dot wrote %d cells", len(scr.content))
	}
}

func TestRendererClearAndFill(t *testing.T) {
	scr := newMockScreen(10, 10)
	bg := colors.RGB{R: 1, G: 2, B: 3}
	r := NewRenderer(scr, 100, &bg)

	r.FillRect(pulse.Point{X: 50, Y: 50}, 50, bg)
	if len(scr.content) != 100 {
		t.Fatalf("full fill wrote %d cells, want 100", len(scr.content))
	}
	r.FillCircle(pulse.Point{X: 25, Y: 25}, 12, colors.RGB{G: 250}.With(1))
	if got := r.cells[2*10+2].color; got != (colors.RGB{G: 250}) {
		t.Errorf("opaque dot cell = %v, want {0 250 0}", got)
	}

	r.ClearRect(pulse.Point{X: 25, Y: 25}, 6)
	if r.cells[2*10+2].painted {
		t.Error("cleared cell still painted")
	}
	if got := r.base(2*10 + 2); got != bg {
		t.Errorf("cleared cell base = %v, want background %v", got, bg)
	}
}

func TestRendererIgnoresOffSurfacePoints(t *testing.T) {
	scr := newMockScreen(4, 4)
	r := NewRenderer(scr, 40, nil)
	r.FillCircle(pulse.Point{X: -5, Y: 10}, 3, colors.RGB{R: 9}.With(1))
	r.ClearRect(pulse.Point{X: 10, Y: 44}, 3)
	if len(scr.content) != 0 {
		t.Errorf("off-surface commands wrote %d cells", len(scr.content))
	}
}

func TestRendererClipsPartlyVisibleShapes(t *testing.T) {
	scr := newMockScreen(4, 4)
	r := NewRenderer(scr, 40, nil)

	// Center left of the surface, radius reaching into column 0.
	r.FillCircle(pulse.Point{X: -2, Y: 15}, 8, colors.RGB{R: 9}.With(1))
	if len(scr.content) != 1 || !r.cells[1*4+0].painted {
		t.Errorf("clipped dot wrote %d cells, want only (0,1)", len(scr.content))
	}

	// Square below the surface overlapping the last row.
	r.FillRect(pulse.Point{X: 25, Y: 45}, 10, colors.RGB{G: 9})
	if !r.cells[3*4+1].painted || !r.cells[3*4+2].painted || !r.cells[3*4+3].painted {
		t.Error("clipped square did not paint the bottom row")
	}
	if len(scr.content) != 4 {
		t.Errorf("wrote %d cells, want 4", len(scr.content))
	}
}

func TestRendererZeroSizedScreen(t *testing.T) {
	r := NewRenderer(newMockScreen(0, 0), 300, nil)
	r.FillCircle(pulse.Point{X: 1, Y: 1}, 5, colors.RGB{}.With(1))
	r.ClearRect(pulse.Point{X: 1, Y: 1}, 5)
}

func TestHostDrivesLoop(t *testing.T) {
	scr := newMockScreen(30, 15)
	e, err := pulse.NewEngine(pulse.Options{Size: 50})
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(scr, e.Extent(), nil)
	h := NewHost(scr, r, 0)

	l := pulse.Start(e, r, h)
	for i := 0; i < 10; i++ {
		if !h.Step() {
			t.Fatalf("step %d: no pending frame", i)
		}
	}
	if l.Frames() != 10 || scr.shows != 10 {
		t.Errorf("frames = %d shows = %d, want 10 each", l.Frames(), scr.shows)
	}

	l.Stop()
	if h.Pending() {
		t.Error("frame still pending after Stop")
	}
	if h.Step() {
		t.Error("Step ran a frame after Stop")
	}
}

func TestHostStaleCancelKeepsNewerFrame(t *testing.T) {
	h := NewHost(newMockScreen(1, 1), nil, 0)
	cancelOld := h.Schedule(func() {})
	h.Schedule(func() {})
	cancelOld()
	if !h.Pending() {
		t.Error("cancelling a replaced callback dropped the newer one")
	}
}

func TestHostResizeRepaints(t *testing.T) {
	scr := newMockScreen(4, 2)
	bg := colors.RGB{B: 40}
	r := NewRenderer(scr, 10, &bg)
	h := NewHost(scr, r, 0)

	scr.width, scr.height = 6, 3
	if !h.handle(tcell.NewEventResize(6, 3)) {
		t.Fatal("resize should not quit")
	}
	if cols, rows := r.Size(); cols != 6 || rows != 3 {
		t.Errorf("renderer size = %dx%d, want 6x3", cols, rows)
	}
	if len(scr.content) != 18 || scr.syncs != 1 || scr.clears != 1 {
		t.Errorf("content = %d syncs = %d clears = %d, want 18 1 1", len(scr.content), scr.syncs, scr.clears)
	}
}

func TestQuitKeys(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want bool
	}{
		{tcell.KeyEscape, 0, true},
		{tcell.KeyCtrlC, 0, true},
		{tcell.KeyRune, 'q', true},
		{tcell.KeyRune, 'x', false},
		{tcell.KeyEnter, 0, false},
	}
	for _, tt := range tests {
		if got := isQuit(tt.key, tt.r); got != tt.want {
			t.Errorf("isQuit(%v, %q) = %v, want %v", tt.key, tt.r, got, tt.want)
		}
	}
}

func TestPaintedCellStyle(t *testing.T) {
	scr := newMockScreen(2, 2)
	r := NewRenderer(scr, 20, nil)
	r.FillRect(pulse.Point{X: 5, Y: 5}, 1, colors.RGB{R: 10, G: 20, B: 30})
	_, bg, _ := scr.content[[2]int{0, 0}].Decompose()
	if bg != tcell.NewRGBColor(10, 20, 30) {
		t.Errorf("cell background = %v, want rgb(10,20,30)", bg)
	}
}
