package backdrop

import (
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	blockSize         = 16
	terrainMarginCols = 8 // off-screen columns so wraparound is seamless
	terrainDirtRows   = 3
	terrainBGAlpha    = 0.5
	terrainBGSpeed    = 12.0 // px/s
	terrainFGSpeed    = 34.0 // foreground scrolls faster for parallax depth
)

var (
	terrainSkyTop    = Color{0.3, 0.55, 0.92, 1}
	terrainSkyBottom = Color{0.66, 0.83, 0.98, 1}
	terrainGrass     = Color{0.3, 0.65, 0.25, 1}
	terrainDirt      = Color{0.45, 0.3, 0.18, 1}
	terrainStone     = Color{0.45, 0.45, 0.48, 1}
	terrainDeep      = Color{0.24, 0.24, 0.28, 1}
	terrainTrunk     = Color{0.4, 0.26, 0.13, 1}
	terrainLeafA     = Color{0.22, 0.55, 0.2, 1}
	terrainLeafB     = Color{0.3, 0.68, 0.26, 1}
	terrainCloud     = Color{1, 1, 1, 0.85}
)

// tree is a placement on a terrain layer: trunk column, trunk height in
// blocks, and canopy radius in blocks.
type tree struct {
	col    int
	trunk  int
	canopy int
}

// cloud scrolls independently of the terrain layers. x is the leading
// (left) edge in px; size is in blocks.
type cloud struct {
	x       float64
	row     int
	wBlocks int
	hBlocks int
	speed   float64
}

// terrainLayer is one parallax band: a fixed height silhouette plus tree
// placements, scrolled by a pixel offset. Heights are regenerated only on
// renderer (re)start; scrolling just moves the read window.
type terrainLayer struct {
	heights []int // surface elevation per column, in blocks from the bottom
	trees   []tree
	offset  float64
	speed   float64
	alpha   float32
}

// terrain renders a scrolling block world: sky, drifting clouds, and two
// independently seeded hill layers with trees.
type terrain struct {
	width, height int
	rng           *rand.Rand
	background    *terrainLayer
	foreground    *terrainLayer
	clouds        []cloud

	sky *ebiten.Image // lazy vertical gradient strip
}

func newTerrain(w, h int, opts Options, rng *rand.Rand) renderer {
	t := &terrain{
		width:  w,
		height: h,
		rng:    rng,
	}
	cols := w/blockSize + terrainMarginCols
	rows := h / blockSize
	t.background = newTerrainLayer(rng.Uint64(), cols, rows, terrainBGSpeed, terrainBGAlpha, rng)
	t.foreground = newTerrainLayer(rng.Uint64(), cols, rows, terrainFGSpeed, 1, rng)

	// Clouds start spread over the width with randomized spacing so no two
	// share a starting region.
	n := w/300 + 2
	spacing := float64(w+200) / float64(n)
	t.clouds = make([]cloud, n)
	for i := range t.clouds {
		c := &t.clouds[i]
		t.rerollCloud(c)
		c.x = float64(i)*spacing + rng.Float64()*spacing*0.5
	}
	return t
}

func newTerrainLayer(seed uint64, cols, rows int, speed, alpha float64, rng *rand.Rand) *terrainLayer {
	l := &terrainLayer{
		heights: make([]int, cols),
		speed:   speed,
		alpha:   float32(alpha),
	}
	for i := range l.heights {
		l.heights[i] = terrainHeight(seed, i, rows)
	}

	// Trees at randomized spacing with a minimum gap, skipped
	// probabilistically so the treeline stays ragged.
	col := rng.IntN(4)
	for col < cols-2 {
		if rng.Float64() > 0.4 {
			l.trees = append(l.trees, tree{
				col:    col,
				trunk:  2 + rng.IntN(3),
				canopy: 1 + rng.IntN(2),
			})
		}
		col += 3 + rng.IntN(6)
	}
	return l
}

// terrainHeight is the elevation in blocks of column i for a layer seed.
// It is a pure function of (seed, i, rows): three overlaid sine terms at
// different frequencies with seed-derived phases, snapped to the block grid.
// Determinism matters: wraparound and restart must reproduce the exact
// silhouette.
func terrainHeight(seed uint64, i, rows int) int {
	fi := float64(i)
	base := float64(rows) * 0.3
	h := base +
		float64(rows)*0.12*math.Sin(fi*0.11+seedPhase(seed, 1)) +
		float64(rows)*0.06*math.Sin(fi*0.045+seedPhase(seed, 2)) +
		float64(rows)*0.03*math.Sin(fi*0.29+seedPhase(seed, 3))
	return clampInt(int(math.Round(h)), 2, rows-3)
}

// seedPhase derives a stable phase in [0, 2π) from a layer seed and term
// index using a splitmix64 round.
func seedPhase(seed, k uint64) float64 {
	z := seed + k*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	return float64(z%360) / 360 * 2 * math.Pi
}

func (t *terrain) rerollCloud(c *cloud) {
	c.row = 1 + t.rng.IntN(5)
	c.wBlocks = 3 + t.rng.IntN(5)
	c.hBlocks = 2 + t.rng.IntN(2)
	c.speed = Range{6, 18}.random(t.rng)
	c.x = float64(t.width) + blockSize + t.rng.Float64()*200
}

func (t *terrain) step(dt float64) {
	virtual := float64(len(t.background.heights) * blockSize)
	t.background.offset = math.Mod(t.background.offset+t.background.speed*dt, virtual)
	t.foreground.offset = math.Mod(t.foreground.offset+t.foreground.speed*dt, virtual)

	for i := range t.clouds {
		c := &t.clouds[i]
		c.x -= c.speed * dt
		if c.x+float64(c.wBlocks*blockSize) < 0 {
			t.rerollCloud(c)
		}
	}
}

func (t *terrain) draw(dst *ebiten.Image, alpha float32) {
	t.drawSky(dst, alpha)
	for i := range t.clouds {
		t.drawCloud(dst, &t.clouds[i], alpha)
	}
	t.drawLayer(dst, t.background, alpha)
	t.drawLayer(dst, t.foreground, alpha)
}

func (t *terrain) drawSky(dst *ebiten.Image, alpha float32) {
	if t.sky == nil {
		t.sky = newVerticalGradient(t.height, terrainSkyTop, terrainSkyBottom)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(t.width), 1)
	op.ColorScale.ScaleAlpha(alpha)
	dst.DrawImage(t.sky, op)
}

// drawCloud draws a puffy block cluster: a full-width body with a narrower
// cap above it for a rounded silhouette.
func (t *terrain) drawCloud(dst *ebiten.Image, c *cloud, alpha float32) {
	y := float64(c.row * blockSize)
	w := float64(c.wBlocks * blockSize)
	body := float64((c.hBlocks - 1) * blockSize)
	fillRect(dst, c.x, y+blockSize, w, body, terrainCloud, alpha)
	fillRect(dst, c.x+blockSize, y, w-2*blockSize, blockSize, terrainCloud, alpha)
}

func (t *terrain) drawLayer(dst *ebiten.Image, l *terrainLayer, alpha float32) {
	a := l.alpha * alpha
	rows := t.height / blockSize
	stoneRows := rows / 6
	cols := len(l.heights)
	firstCol := int(l.offset) / blockSize
	shift := math.Mod(l.offset, blockSize)
	screenCols := t.width/blockSize + 2

	for sx := 0; sx < screenCols; sx++ {
		ci := (firstCol + sx) % cols
		elev := l.heights[ci]
		x := float64(sx*blockSize) - shift
		y := float64(t.height) - float64(elev)*blockSize

		// Grass cap, then dirt, then stone, then one deep-fill rect for
		// everything below the visible detail band.
		fillRect(dst, x, y, blockSize, blockSize, terrainGrass, a)
		y += blockSize
		for d := 0; d < terrainDirtRows && y < float64(t.height); d++ {
			fillRect(dst, x, y, blockSize, blockSize, terrainDirt, a)
			y += blockSize
		}
		for s := 0; s < stoneRows && y < float64(t.height); s++ {
			fillRect(dst, x, y, blockSize, blockSize, terrainStone, a)
			y += blockSize
		}
		if y < float64(t.height) {
			fillRect(dst, x, y, blockSize, float64(t.height)-y, terrainDeep, a)
		}
	}

	for i := range l.trees {
		t.drawTree(dst, l, &l.trees[i], firstCol, shift, a)
	}
}

func (t *terrain) drawTree(dst *ebiten.Image, l *terrainLayer, tr *tree, firstCol int, shift float64, alpha float32) {
	cols := len(l.heights)
	rel := ((tr.col-firstCol)%cols + cols) % cols
	x := float64(rel*blockSize) - shift
	canopyW := float64((2*tr.canopy + 1) * blockSize)
	if x+canopyW < -float64(tr.canopy*blockSize) || x > float64(t.width)+canopyW {
		return
	}

	groundY := float64(t.height) - float64(l.heights[tr.col])*blockSize
	for b := 1; b <= tr.trunk; b++ {
		fillRect(dst, x, groundY-float64(b*blockSize), blockSize, blockSize, terrainTrunk, alpha)
	}

	// Canopy: block cluster with the corners omitted for a rounded
	// silhouette, leaves checkerboarded between two greens.
	cy := groundY - float64((tr.trunk+1)*blockSize)
	r := tr.canopy
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx == r*r && dy*dy == r*r {
				continue // corner
			}
			col := terrainLeafA
			if (dx+dy)&1 != 0 {
				col = terrainLeafB
			}
			fillRect(dst, x+float64(dx*blockSize), cy+float64(dy*blockSize), blockSize, blockSize, col, alpha)
		}
	}
}

func (t *terrain) dispose() {
	if t.sky != nil {
		t.sky.Deallocate()
		t.sky = nil
	}
	t.background = nil
	t.foreground = nil
	t.clouds = nil
}

// newVerticalGradient builds a 1xH strip interpolating top to bottom;
// drawLayer scales it across the surface width.
func newVerticalGradient(h int, top, bottom Color) *ebiten.Image {
	if h < 1 {
		h = 1
	}
	img := ebiten.NewImage(1, h)
	pix := make([]byte, 4*h)
	for y := 0; y < h; y++ {
		f := float64(y) / float64(max(1, h-1))
		c := Color{
			R: lerp(top.R, bottom.R, f),
			G: lerp(top.G, bottom.G, f),
			B: lerp(top.B, bottom.B, f),
			A: 1,
		}.toRGBA()
		pix[y*4+0] = c.R
		pix[y*4+1] = c.G
		pix[y*4+2] = c.B
		pix[y*4+3] = c.A
	}
	img.WritePixels(pix)
	return img
}
