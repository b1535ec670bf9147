package colors

import (
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an opaque color triple.
type RGB struct {
	R, G, B uint8
}

// RGBA is an RGB color with a straight (non-premultiplied) alpha in [0, 1].
type RGBA struct {
	RGB
	A float64
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-f]{3}|[0-9a-f]{6})$`)

// Parse accepts a numeric sequence of at least three components or a
// lowercase "#rgb" / "#rrggbb" string.
func Parse(v any) (RGB, error) {
	switch c := v.(type) {
	case RGB:
		return c, nil
	case string:
		return parseHex(c)
	case []int:
		return fromComponents(len(c), func(i int) (float64, bool) { return float64(c[i]), true }, v)
	case []int64:
		return fromComponents(len(c), func(i int) (float64, bool) { return float64(c[i]), true }, v)
	case []float64:
		return fromComponents(len(c), func(i int) (float64, bool) { return c[i], true }, v)
	case []uint8:
		return fromComponents(len(c), func(i int) (float64, bool) { return float64(c[i]), true }, v)
	case []any:
		return fromComponents(len(c), func(i int) (float64, bool) { return number(c[i]) }, v)
	}
	return RGB{}, unsupported(v)
}

// MustParse is like Parse but panics on error. Use it for literals only.
func MustParse(v any) RGB {
	c, err := Parse(v)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !hexColor.MatchString(s) {
		return RGB{}, unsupported(s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

func fromComponents(n int, at func(int) (float64, bool), orig any) (RGB, error) {
	if n < 3 {
		return RGB{}, unsupported(orig)
	}
	var out [3]uint8
	for i := range out {
		f, ok := at(i)
		if !ok || math.IsNaN(f) {
			return RGB{}, unsupported(orig)
		}
		out[i] = clampByte(f)
	}
	return RGB{R: out[0], G: out[1], B: out[2]}, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func clampByte(f float64) uint8 {
	f = math.Trunc(f)
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f)
}

func unsupported(v any) error {
	return fmt.Errorf("unsupported color value: %v", v)
}

// With returns c at opacity a.
func (c RGB) With(a float64) RGBA {
	return RGBA{RGB: c, A: a}
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Color implements the image/color conversion used by the drawing backends.
func (c RGB) Color() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func (c RGBA) Color() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(clamp01(c.A) * 255))}
}

// FromColor converts any image/color value (alpha dropped).
func FromColor(c color.Color) RGB {
	cf, _ := colorful.MakeColor(c)
	r, g, b := cf.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Over composites c at its opacity over an opaque base.
func (c RGBA) Over(base RGB) RGB {
	bc := colorful.Color{R: float64(base.R) / 255, G: float64(base.G) / 255, B: float64(base.B) / 255}
	fc := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	r, g, b := bc.BlendRgb(fc, clamp01(c.A)).Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
