package term

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/pulse/internal/colors"
	"github.com/iburimskiy/pulse/internal/pulse"
)

type cell struct {
	painted bool
	color   colors.RGB
}

// Renderer maps the square glyph surface onto the terminal grid. Each cell
// is a space whose background carries the composited color.
type Renderer struct {
	screen     tcell.Screen
	extent     float64
	background *colors.RGB

	cols, rows int
	cells      []cell
}

func NewRenderer(screen tcell.Screen, extent float64, background *colors.RGB) *Renderer {
	r := &Renderer{screen: screen, extent: extent}
	if background != nil {
		bg := *background
		r.background = &bg
	}
	r.Resize()
	return r
}

// Resize re-reads the screen size and forgets every painted cell.
func (r *Renderer) Resize() {
	r.cols, r.rows = r.screen.Size()
	if r.cols <= 0 || r.rows <= 0 {
		r.cols, r.rows = 0, 0
	}
	r.cells = make([]cell, r.cols*r.rows)
}

func (r *Renderer) Size() (cols, rows int) { return r.cols, r.rows }

// Repaint writes every cell to the screen.
func (r *Renderer) Repaint() {
	for y := 0; y < r.rows; y++ {
		for x := 0; x < r.cols; x++ {
			r.put(x, y)
		}
	}
}

func (r *Renderer) ClearRect(center pulse.Point, half float64) {
	r.eachInRect(center, half, func(x, y int) {
		r.cells[y*r.cols+x] = cell{}
		r.put(x, y)
	})
}

func (r *Renderer) FillRect(center pulse.Point, half float64, c colors.RGB) {
	r.eachInRect(center, half, func(x, y int) {
		r.cells[y*r.cols+x] = cell{painted: true, color: c}
		r.put(x, y)
	})
}

func (r *Renderer) FillCircle(center pulse.Point, radius float64, c colors.RGBA) {
	if c.A <= 0 {
		return
	}
	cw, ch := r.cellSize()
	hx, hy := r.cellAt(center)
	onSurface := r.contains(center)
	r.eachInRect(center, radius, func(x, y int) {
		mx := (float64(x) + 0.5) * cw
		my := (float64(y) + 0.5) * ch
		if (!onSurface || x != hx || y != hy) && math.Hypot(mx-center.X, my-center.Y) > radius {
			return
		}
		i := y*r.cols + x
		r.cells[i] = cell{painted: true, color: c.Over(r.base(i))}
		r.put(x, y)
	})
}

func (r *Renderer) base(i int) colors.RGB {
	if r.cells[i].painted {
		return r.cells[i].color
	}
	if r.background != nil {
		return *r.background
	}
	return colors.RGB{}
}

func (r *Renderer) cellSize() (float64, float64) {
	return r.extent / float64(r.cols), r.extent / float64(r.rows)
}

func (r *Renderer) cellAt(p pulse.Point) (int, int) {
	cw, ch := r.cellSize()
	return clampIndex(p.X/cw, r.cols), clampIndex(p.Y/ch, r.rows)
}

func (r *Renderer) contains(p pulse.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= r.extent && p.Y <= r.extent
}

// eachInRect visits the cells touched by the square of half-extent half
// around center, clipped to the surface. A square entirely off the surface
// visits nothing.
func (r *Renderer) eachInRect(center pulse.Point, half float64, fn func(x, y int)) {
	if r.cols == 0 || r.rows == 0 {
		return
	}
	if center.X+half < 0 || center.Y+half < 0 || center.X-half > r.extent || center.Y-half > r.extent {
		return
	}
	x0, y0 := r.cellAt(pulse.Point{X: center.X - half, Y: center.Y - half})
	x1, y1 := r.cellAt(pulse.Point{X: center.X + half, Y: center.Y + half})
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			fn(x, y)
		}
	}
}

func (r *Renderer) put(x, y int) {
	c := r.cells[y*r.cols+x]
	style := tcell.StyleDefault
	switch {
	case c.painted:
		style = style.Background(rgb(c.color))
	case r.background != nil:
		style = style.Background(rgb(*r.background))
	}
	r.screen.SetContent(x, y, ' ', nil, style)
}

func rgb(c colors.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func clampIndex(v float64, n int) int {
	i := int(math.Floor(v))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
