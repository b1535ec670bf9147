package game

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/pulse/internal/colors"
	"github.com/iburimskiy/pulse/internal/pulse"
)

// Canvas is an offscreen image that keeps its pixels between frames, so
// the engine only has to erase what it drew last time.
type Canvas struct {
	img *ebiten.Image
}

func NewCanvas(extent int) *Canvas {
	return &Canvas{img: ebiten.NewImage(extent, extent)}
}

func (c *Canvas) Image() *ebiten.Image { return c.img }

func (c *Canvas) ClearRect(center pulse.Point, half float64) {
	r := squareBounds(center, half).Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	c.img.SubImage(r).(*ebiten.Image).Clear()
}

// FillRect paints the same pixels ClearRect would clear, so antialiased
// dot edges at fractional positions are covered too.
func (c *Canvas) FillRect(center pulse.Point, half float64, clr colors.RGB) {
	x, y, w, h := fillArea(center, half)
	vector.DrawFilledRect(c.img, x, y, w, h, clr.Color(), false)
}

func (c *Canvas) FillCircle(center pulse.Point, radius float64, clr colors.RGBA) {
	if radius <= 0 || clr.A <= 0 {
		return
	}
	vector.DrawFilledCircle(c.img, float32(center.X), float32(center.Y), float32(radius), clr.Color(), true)
}

func fillArea(center pulse.Point, half float64) (x, y, w, h float32) {
	r := squareBounds(center, half)
	return float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy())
}

// squareBounds covers every pixel touched by the square, rounding outwards.
func squareBounds(center pulse.Point, half float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(center.X-half)), int(math.Floor(center.Y-half)),
		int(math.Ceil(center.X+half)), int(math.Ceil(center.Y+half)),
	)
}
