package pulse

import "github.com/iburimskiy/pulse/internal/colors"

// Point is a position in surface coordinates, origin top-left.
type Point struct {
	X, Y float64
}

type CommandKind uint8

const (
	// Clear empties the square of half-extent Size around At.
	Clear CommandKind = iota
	// Fill paints the square of half-extent Size around At with Color.
	Fill
	// Dot paints a filled circle of radius Size at At with Color.
	Dot
)

func (k CommandKind) String() string {
	switch k {
	case Clear:
		return "clear"
	case Fill:
		return "fill"
	case Dot:
		return "dot"
	}
	return "unknown"
}

// Command is one drawing step produced by the engine.
type Command struct {
	Kind  CommandKind
	At    Point
	Size  float64
	Color colors.RGBA
}

// Renderer is the drawing surface a frame is replayed onto.
type Renderer interface {
	ClearRect(center Point, half float64)
	FillRect(center Point, half float64, c colors.RGB)
	FillCircle(center Point, radius float64, c colors.RGBA)
}

// Replay executes cmds in order on r.
func Replay(r Renderer, cmds []Command) {
	for _, c := range cmds {
		switch c.Kind {
		case Clear:
			r.ClearRect(c.At, c.Size)
		case Fill:
			r.FillRect(c.At, c.Size, c.Color.RGB)
		case Dot:
			r.FillCircle(c.At, c.Size, c.Color)
		}
	}
}
