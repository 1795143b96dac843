package backdrop

import (
	"bytes"
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	glyphCellW = 14 // fixed horizontal pixel step per column
	glyphCellH = 16
	// One random glyph per column is swapped on this real-time cadence,
	// independent of scroll speed or frame rate.
	glyphFlickerEvery = 0.08
	matrixMaxTrail    = 28
)

var (
	matrixSpeed = Range{60, 240}  // px/s
	matrixTrail = Range{8, 26}    // glyphs
	matrixHead  = Color{0.85, 1, 0.9, 1}
	matrixBase  = Color{0.25, 0.95, 0.4, 1}
)

// glyphColumn is one falling stream. Glyphs live on a fixed row grid; the
// ring buffer maps absolute row index to glyph, so characters hold still
// while the brightness window scrolls over them.
type glyphColumn struct {
	x      float64
	head   float64 // scroll head y in px
	speed  float64
	trail  int
	glyphs [matrixMaxTrail]rune
}

// matrixRain renders falling glyph streams, one column per fixed horizontal
// step across the surface width.
type matrixRain struct {
	width, height float64
	rng           *rand.Rand
	columns       []glyphColumn
	flickerAccum  float64

	face text.Face // lazy; steps stay image- and font-free
}

func newMatrixRain(w, h int, opts Options, rng *rand.Rand) renderer {
	m := &matrixRain{
		width:  float64(w),
		height: float64(h),
		rng:    rng,
	}
	n := (w + glyphCellW - 1) / glyphCellW
	m.columns = make([]glyphColumn, n)
	for i := range m.columns {
		c := &m.columns[i]
		c.x = float64(i * glyphCellW)
		m.reroll(c)
		// Stagger initial heads so the first frames aren't one solid bar.
		c.head = rng.Float64() * m.height
		for j := range c.glyphs {
			c.glyphs[j] = randGlyph(rng)
		}
	}
	return m
}

// reroll restarts a column above the top edge with fresh speed and trail
// length, so columns drift out of phase instead of marching in lockstep.
func (m *matrixRain) reroll(c *glyphColumn) {
	c.head = -m.rng.Float64() * m.height * 0.5
	c.speed = matrixSpeed.random(m.rng)
	c.trail = int(matrixTrail.random(m.rng))
}

func (m *matrixRain) step(dt float64) {
	for i := range m.columns {
		c := &m.columns[i]
		c.head += c.speed * dt
		if c.head-float64(c.trail*glyphCellH) > m.height {
			m.reroll(c)
		}
	}

	// Glyph flicker runs on its own clock.
	m.flickerAccum += dt
	for m.flickerAccum >= glyphFlickerEvery {
		m.flickerAccum -= glyphFlickerEvery
		for i := range m.columns {
			c := &m.columns[i]
			c.glyphs[m.rng.IntN(len(c.glyphs))] = randGlyph(m.rng)
		}
	}
}

func (m *matrixRain) draw(dst *ebiten.Image, alpha float32) {
	if m.face == nil {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
		if err != nil {
			// Should never happen with the embedded face; drop the frame
			// rather than crash the host.
			fmt.Fprintf(os.Stderr, "[backdrop] glyph face unavailable: %v\n", err)
			return
		}
		m.face = &text.GoTextFace{Source: src, Size: glyphCellH - 2}
	}

	for i := range m.columns {
		c := &m.columns[i]
		headRow := int(math.Floor(c.head / glyphCellH))
		for j := 0; j < c.trail; j++ {
			row := headRow - j
			y := float64(row * glyphCellH)
			if y < -glyphCellH || y > m.height {
				continue
			}
			fade := 1 - float64(j)/float64(c.trail)
			col := matrixBase
			if j == 0 {
				col = matrixHead
			}
			g := c.glyphs[((row%len(c.glyphs))+len(c.glyphs))%len(c.glyphs)]

			op := &text.DrawOptions{}
			op.GeoM.Translate(c.x, y)
			op.ColorScale.Scale(float32(col.R), float32(col.G), float32(col.B), 1)
			op.ColorScale.ScaleAlpha(float32(fade) * alpha)
			text.Draw(dst, string(g), m.face, op)
		}
	}
}

func (m *matrixRain) dispose() {
	m.face = nil
	m.columns = nil
}

// randGlyph picks from halfwidth katakana plus digits, the classic rain set.
func randGlyph(rng *rand.Rand) rune {
	if rng.IntN(5) == 0 {
		return rune('0' + rng.IntN(10))
	}
	return rune(0xFF66 + rng.IntN(0xFF9D-0xFF66))
}
