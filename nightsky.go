package backdrop

import (
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	starGrid           = 2    // star positions snap to this pixel grid
	starCullBrightness = 0.02 // stars dimmer than this are skipped entirely
	shootingPoolSize   = 3
	tailSegments       = 8
	fireflyEase        = 1.6 // 1/s, exponential approach to target velocity
)

var (
	skyTop          = Color{0.02, 0.02, 0.08, 1}
	skyBottom       = Color{0.05, 0.07, 0.16, 1}
	starColor       = Color{0.9, 0.93, 1, 1}
	shootingColor   = Color{1, 1, 0.95, 1}
	fireflyColor    = Color{0.72, 1, 0.35, 1}
	shootingGap     = Range{4, 9} // seconds between spawn attempts
	shootingLife    = Range{0.6, 1.4}
	shootingSpeed   = Range{320, 560} // px/s
	shootingLength  = Range{60, 140}  // px
	fireflyRetarget = Range{1.5, 4}   // seconds between velocity re-rolls
)

// star twinkles in place: brightness = max(0, sin(phase)) * ceiling.
type star struct {
	x, y    float64
	phase   float64
	speed   float64
	ceiling float64
}

// shootingStar is one pooled slot, inactive most of the time.
type shootingStar struct {
	active   bool
	x0, y0   float64
	vx, vy   float64
	trailLen float64
	life     float64
	maxLife  float64
}

// firefly wanders by easing its velocity toward a periodically re-rolled
// target, bouncing off the surface bounds.
type firefly struct {
	x, y       float64
	vx, vy     float64
	tvx, tvy   float64
	retargetIn float64
	phase      float64
}

// nightSky renders a calm star field with occasional shooting stars and a
// handful of drifting fireflies.
type nightSky struct {
	width, height float64
	rng           *rand.Rand
	stars         []star
	shooting      [shootingPoolSize]shootingStar
	spawnIn       float64
	fireflies     []firefly

	sky  *ebiten.Image // lazy gradient strip
	halo *ebiten.Image // lazy radial sprite for star cores and firefly glow
}

func newNightSky(w, h int, opts Options, rng *rand.Rand) renderer {
	n := &nightSky{
		width:   float64(w),
		height:  float64(h),
		rng:     rng,
		spawnIn: shootingGap.random(rng),
	}

	n.stars = make([]star, w*h/4000+20)
	for i := range n.stars {
		n.stars[i] = star{
			x:       float64(rng.IntN(max(1, w/starGrid)) * starGrid),
			y:       float64(rng.IntN(max(1, h/starGrid)) * starGrid),
			phase:   rng.Float64() * 2 * math.Pi,
			speed:   Range{0.3, 1.6}.random(rng),
			ceiling: Range{0.25, 1}.random(rng),
		}
	}

	n.fireflies = make([]firefly, 6+w/300)
	for i := range n.fireflies {
		f := &n.fireflies[i]
		f.x = rng.Float64() * n.width
		f.y = n.height*0.4 + rng.Float64()*n.height*0.55
		f.phase = rng.Float64() * 2 * math.Pi
		n.retargetFirefly(f)
		f.vx, f.vy = f.tvx, f.tvy
	}
	return n
}

func (n *nightSky) retargetFirefly(f *firefly) {
	angle := n.rng.Float64() * 2 * math.Pi
	speed := Range{8, 35}.random(n.rng)
	f.tvx = math.Cos(angle) * speed
	f.tvy = math.Sin(angle) * speed
	f.retargetIn = fireflyRetarget.random(n.rng)
}

func (n *nightSky) step(dt float64) {
	for i := range n.stars {
		n.stars[i].phase += dt * n.stars[i].speed
	}

	n.stepShooting(dt)

	ease := math.Min(1, fireflyEase*dt)
	for i := range n.fireflies {
		f := &n.fireflies[i]
		f.phase += dt * 3

		f.retargetIn -= dt
		if f.retargetIn <= 0 {
			n.retargetFirefly(f)
		}
		// Ease toward the target velocity rather than snapping to it;
		// the drift should read as organic wandering.
		f.vx += (f.tvx - f.vx) * ease
		f.vy += (f.tvy - f.vy) * ease

		f.x += f.vx * dt
		f.y += f.vy * dt
		if f.x < 0 {
			f.x, f.vx = 0, -f.vx
		} else if f.x > n.width {
			f.x, f.vx = n.width, -f.vx
		}
		if f.y < 0 {
			f.y, f.vy = 0, -f.vy
		} else if f.y > n.height {
			f.y, f.vy = n.height, -f.vy
		}
	}
}

func (n *nightSky) stepShooting(dt float64) {
	n.spawnIn -= dt
	if n.spawnIn <= 0 {
		n.spawnIn = shootingGap.random(n.rng)
		for i := range n.shooting {
			if n.shooting[i].active {
				continue
			}
			s := &n.shooting[i]
			s.active = true
			s.x0 = n.rng.Float64() * n.width * 0.6
			s.y0 = n.rng.Float64() * n.height * 0.4
			// Shallow downward-right trajectory.
			angle := Range{math.Pi * 0.05, math.Pi * 0.2}.random(n.rng)
			speed := shootingSpeed.random(n.rng)
			s.vx = math.Cos(angle) * speed
			s.vy = math.Sin(angle) * speed
			s.trailLen = shootingLength.random(n.rng)
			s.life = 0
			s.maxLife = shootingLife.random(n.rng)
			break
		}
	}

	for i := range n.shooting {
		s := &n.shooting[i]
		if !s.active {
			continue
		}
		s.life += dt
		if s.life >= s.maxLife {
			s.active = false
		}
	}
}

func (n *nightSky) draw(dst *ebiten.Image, alpha float32) {
	if n.sky == nil {
		n.sky = newVerticalGradient(int(n.height), skyTop, skyBottom)
		n.halo = newRadialSprite(32, 2)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(n.width, 1)
	op.ColorScale.ScaleAlpha(alpha)
	dst.DrawImage(n.sky, op)

	for i := range n.stars {
		s := &n.stars[i]
		b := math.Max(0, math.Sin(s.phase)) * s.ceiling
		if b < starCullBrightness {
			continue
		}
		c := starColor
		c.A = b
		fillRect(dst, s.x, s.y, 2, 2, c, alpha)
	}

	for i := range n.shooting {
		s := &n.shooting[i]
		if !s.active {
			continue
		}
		n.drawShooting(dst, s, alpha)
	}

	for i := range n.fireflies {
		f := &n.fireflies[i]
		glow := 0.55 + 0.45*math.Sin(f.phase)
		halo := fireflyColor
		halo.A = 0.25 * glow
		drawRadial(dst, n.halo, f.x, f.y, 8, halo, alpha)
		core := fireflyColor
		core.A = glow
		fillRect(dst, f.x-1, f.y-1, 2, 2, core, alpha)
	}
}

// drawShooting draws the head and a gradient tail. The visible tail shrinks
// as life progresses and the whole streak fades toward max life.
func (n *nightSky) drawShooting(dst *ebiten.Image, s *shootingStar, alpha float32) {
	hx := s.x0 + s.vx*s.life
	hy := s.y0 + s.vy*s.life
	t := s.life / s.maxLife
	fade := 1 - t
	length := s.trailLen * (1 - t*0.7)

	mag := math.Hypot(s.vx, s.vy)
	if mag < 1e-6 {
		return
	}
	dx, dy := s.vx/mag, s.vy/mag
	tx := hx - dx*length
	ty := hy - dy*length

	// Approximate the gradient with short segments of rising alpha.
	for seg := 0; seg < tailSegments; seg++ {
		f0 := float64(seg) / tailSegments
		f1 := float64(seg+1) / tailSegments
		a := float32(f1 * fade * shootingColor.A)
		vector.StrokeLine(dst,
			float32(lerp(tx, hx, f0)), float32(lerp(ty, hy, f0)),
			float32(lerp(tx, hx, f1)), float32(lerp(ty, hy, f1)),
			1.5,
			Color{shootingColor.R, shootingColor.G, shootingColor.B, float64(a * alpha)}.toRGBA(),
			false)
	}
	c := shootingColor
	c.A = fade
	fillRect(dst, hx-1, hy-1, 3, 3, c, alpha)
}

func (n *nightSky) dispose() {
	if n.sky != nil {
		n.sky.Deallocate()
		n.sky = nil
	}
	if n.halo != nil {
		n.halo.Deallocate()
		n.halo = nil
	}
	n.stars = nil
	n.fireflies = nil
}
