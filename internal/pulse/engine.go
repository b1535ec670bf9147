package pulse

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/iburimskiy/pulse/internal/colors"
)

const (
	DefaultSize             = 150
	DefaultTrailLength      = 70
	DefaultWaypointCapacity = 3
)

var (
	DefaultPattern = []float64{5, -2, 3, 0}
	DefaultColor   = colors.RGB{R: 0, G: 250, B: 0}
)

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	// Size is the glyph half-extent in pixels; the surface is 2*Size square.
	Size float64
	// Pattern holds signed divisors; entry d becomes the target
	// Size + Size/d, or Size when d is 0.
	Pattern []float64
	// Color defaults to DefaultColor when nil.
	Color      *colors.RGB
	Background *colors.RGB

	TrailLength      int
	WaypointCapacity int
}

// Engine advances the pulse cursor one frame at a time. It is not safe for
// concurrent use; a single Loop or host frame callback owns it.
type Engine struct {
	size       float64
	dotSize    float64
	color      colors.RGB
	background *colors.RGB

	targets     []float64
	waypointCap int

	cursor    Point
	target    float64
	hasTarget bool
	waypoints *Queue[float64]
	trail     *Queue[Point]

	pings int
}

// NewEngine validates opts and returns an engine with the cursor at the
// left edge of the vertical center.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Size == 0 {
		opts.Size = DefaultSize
	}
	if opts.Size < 0 || math.IsNaN(opts.Size) || math.IsInf(opts.Size, 0) {
		return nil, fmt.Errorf("size must be a positive number, got %v", opts.Size)
	}
	if opts.Pattern == nil {
		opts.Pattern = DefaultPattern
	}
	if len(opts.Pattern) == 0 {
		return nil, errors.New("displacement pattern is empty")
	}
	dot := DefaultColor
	if opts.Color != nil {
		dot = *opts.Color
	}
	if opts.TrailLength == 0 {
		opts.TrailLength = DefaultTrailLength
	}
	if opts.TrailLength < 0 {
		return nil, fmt.Errorf("trail length must be positive, got %d", opts.TrailLength)
	}
	if opts.WaypointCapacity == 0 {
		opts.WaypointCapacity = DefaultWaypointCapacity
	}
	if opts.WaypointCapacity < 0 {
		return nil, fmt.Errorf("waypoint capacity must be positive, got %d", opts.WaypointCapacity)
	}

	targets := make([]float64, len(opts.Pattern))
	for i, d := range opts.Pattern {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return nil, fmt.Errorf("pattern[%d]: not a finite number", i)
		}
		targets[i] = opts.Size
		if d != 0 {
			targets[i] += opts.Size / d
		}
	}

	e := &Engine{
		size:        opts.Size,
		dotSize:     opts.Size / 25,
		color:       dot,
		targets:     targets,
		waypointCap: opts.WaypointCapacity,
		cursor:      Point{X: 0, Y: opts.Size},
		target:      opts.Size,
		hasTarget:   true,
		trail:       NewQueue[Point](opts.TrailLength),
	}
	if opts.Background != nil {
		bg := *opts.Background
		e.background = &bg
	}
	return e, nil
}

// Ping replaces any pending waypoints with a fresh burst of pattern targets.
// The queue is seeded with every target even when the pattern is longer
// than the queue capacity.
func (e *Engine) Ping() {
	e.waypoints = NewQueue(e.waypointCap, e.targets...)
	e.pings++
}

// Reset returns the commands that wipe the whole surface.
func (e *Engine) Reset() []Command {
	return []Command{e.erase(Point{X: e.size, Y: e.size}, e.size)}
}

// Tick advances one frame and returns the commands that redraw the trail.
func (e *Engine) Tick() []Command {
	cmds := make([]Command, 0, 2*e.trail.Cap()+1)

	e.trail.ForEach(func(p Point, _ int) {
		cmds = append(cmds, e.erase(p, e.dotSize))
	})

	e.trail.Add(e.cursor)

	speed := e.dotSize
	if e.seeking() {
		dir := 1.0
		if e.target < e.cursor.Y {
			dir = -1
		}
		e.cursor.Y += dir * e.dotSize
		if (dir > 0 && e.cursor.Y > e.target) || (dir < 0 && e.cursor.Y < e.target) {
			e.nextTarget()
		}
		speed = e.dotSize / 10
	} else if e.waypoints != nil && e.waypoints.Size() > 0 {
		e.nextTarget()
		speed = e.dotSize / 10
	}

	e.cursor.X += speed
	if e.cursor.X >= 2*e.size {
		e.cursor.X = 0
	}

	if (e.waypoints == nil || e.waypoints.Size() == 0) &&
		e.cursor.X > e.size-e.size/10 &&
		e.cursor.X < e.size+e.size/10 {
		e.Ping()
	}

	n := float64(e.trail.Size())
	e.trail.ForEach(func(p Point, idx int) {
		age := float64(idx) / n
		cmds = append(cmds, Command{
			Kind:  Dot,
			At:    p,
			Size:  e.dotSize * age,
			Color: e.color.With(age),
		})
	})
	return cmds
}

// seeking reports whether the cursor has a target it has not reached.
// An absent target is never sought.
func (e *Engine) seeking() bool {
	return e.hasTarget && e.cursor.Y != e.target
}

// nextTarget pops the next waypoint; an exhausted or absent queue leaves
// the target absent.
func (e *Engine) nextTarget() {
	if e.waypoints == nil {
		e.hasTarget = false
		return
	}
	e.target, e.hasTarget = e.waypoints.Pop()
}

func (e *Engine) erase(at Point, half float64) Command {
	if e.background != nil {
		return Command{Kind: Fill, At: at, Size: half, Color: e.background.With(1)}
	}
	return Command{Kind: Clear, At: at, Size: half}
}

func (e *Engine) Cursor() Point { return e.cursor }

// Target returns the y coordinate being sought; ok is false when absent.
func (e *Engine) Target() (y float64, ok bool) { return e.target, e.hasTarget }

// Waypoints returns the number of pending waypoints, or -1 before the first ping.
func (e *Engine) Waypoints() int {
	if e.waypoints == nil {
		return -1
	}
	return e.waypoints.Size()
}

// Targets returns the absolute y targets derived from the pattern.
func (e *Engine) Targets() []float64 { return slices.Clone(e.targets) }

func (e *Engine) Trail() []Point { return e.trail.Items() }

func (e *Engine) Size() float64 { return e.size }

// Extent is the surface width and height.
func (e *Engine) Extent() float64 { return 2 * e.size }

func (e *Engine) DotSize() float64 { return e.dotSize }

func (e *Engine) Color() colors.RGB { return e.color }

func (e *Engine) Background() (colors.RGB, bool) {
	if e.background == nil {
		return colors.RGB{}, false
	}
	return *e.background, true
}

// Pings counts Ping calls since construction.
func (e *Engine) Pings() int { return e.pings }
