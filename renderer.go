package backdrop

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// renderer is the per-scene contract. Exactly one renderer is active at a
// time; the Director steps it, draws it, and disposes it before starting a
// replacement. Renderers own all of their entity state and never retain the
// destination image past a draw call.
type renderer interface {
	// step advances the simulation by dt seconds. It performs no drawing,
	// so it is safe to run headless.
	step(dt float64)
	// draw renders the current state onto dst. alpha is a global multiplier
	// applied on top of every entity's own opacity (used for the start
	// crossfade).
	draw(dst *ebiten.Image, alpha float32)
	// dispose releases renderer-owned images. The renderer must not be
	// stepped or drawn afterwards.
	dispose()
}

// pointerTarget is implemented by renderers that react to the host pointer.
// Only the ember scene does; the Director forwards positions last-value-wins.
type pointerTarget interface {
	setPointer(x, y float64)
}

// rendererFactory builds a renderer bound to the given surface dimensions.
type rendererFactory func(w, h int, opts Options, rng *rand.Rand) renderer

// styleFactories is the scene registry. Immutable after init; StyleNone and
// unknown styles have no entry, which the Director reads as "stay idle".
var styleFactories = map[Style]rendererFactory{
	StyleEmbers:   newEmbers,
	StyleMatrix:   newMatrixRain,
	StyleTerrain:  newTerrain,
	StyleNightSky: newNightSky,
}

// newRenderer instantiates a fresh renderer for the style, or nil when the
// style selects no scene (none, unknown).
func newRenderer(style Style, w, h int, opts Options, rng *rand.Rand) renderer {
	factory, ok := styleFactories[style]
	if !ok {
		return nil
	}
	return factory(w, h, opts, rng)
}

// newRadialSprite builds a soft radial gradient: near-opaque white at the
// center falling off to transparent at the edge. Renderers tint and scale it
// per entity instead of filling gradients pixel-by-pixel every frame.
// falloff shapes the curve; 2 gives the soft halo used by embers and
// fireflies.
func newRadialSprite(size int, falloff float64) *ebiten.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	center := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) - center
			dy := float64(y) - center
			d := math.Sqrt(dx*dx+dy*dy) / center
			if d > 1 {
				continue
			}
			a := math.Pow(1-d, falloff)
			v := uint8(a * 255)
			// Premultiplied white.
			i := img.PixOffset(x, y)
			img.Pix[i+0] = v
			img.Pix[i+1] = v
			img.Pix[i+2] = v
			img.Pix[i+3] = v
		}
	}
	return ebiten.NewImageFromImage(img)
}

// drawRadial draws a tinted radial sprite centered at (cx, cy) with the
// given pixel radius.
func drawRadial(dst, sprite *ebiten.Image, cx, cy, radius float64, col Color, alpha float32) {
	if radius <= 0 {
		return
	}
	size := float64(sprite.Bounds().Dx())
	scale := radius * 2 / size
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(cx-radius, cy-radius)
	op.ColorScale.Scale(float32(col.R), float32(col.G), float32(col.B), float32(col.A))
	op.ColorScale.ScaleAlpha(alpha)
	dst.DrawImage(sprite, op)
}
