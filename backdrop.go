package backdrop

import (
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// Range is a general-purpose min/max range used wherever a renderer rolls a
// random tuning value (particle lifetimes, column speeds, spawn intervals).
type Range struct {
	Min, Max float64
}

// random returns a random float64 in [Min, Max] drawn from the given source.
// Renderers never touch the global math/rand state; each Director owns one
// rand.Rand and hands it down (multiple engine instances must not interfere).
func (r Range) random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// whitePixel is a 1x1 white image used for solid color fills. Scaling it with
// GeoM is cheaper than the vector path for axis-aligned rectangles.
var whitePixel *ebiten.Image

func init() {
	whitePixel = ebiten.NewImage(1, 1)
	whitePixel.Fill(Color{1, 1, 1, 1}.toRGBA())
}

// fillRect draws a solid axis-aligned rectangle onto dst. Alpha multiplies
// the color's own alpha. Uses nearest filtering so block art stays crisp.
func fillRect(dst *ebiten.Image, x, y, w, h float64, col Color, alpha float32) {
	if w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.Scale(float32(col.R), float32(col.G), float32(col.B), float32(col.A))
	op.ColorScale.ScaleAlpha(alpha)
	dst.DrawImage(whitePixel, op)
}

// toRGBA converts a Color to a premultiplied 8-bit color for image fills.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp(c.R*c.A, 0, 1) * 255),
		G: uint8(clamp(c.G*c.A, 0, 1) * 255),
		B: uint8(clamp(c.B*c.A, 0, 1) * 255),
		A: uint8(clamp(c.A, 0, 1) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampInt limits v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
