package backdrop

import (
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
)

// Ember scene tuning. These values are matched to the shipped look by eye;
// treat them as part of the contract, not as knobs to re-derive.
const (
	emberSmokePerStep = 8  // smoke particles per intensity step (10 -> 80)
	emberBlobPerStep  = 4  // blob particles per count step (10 -> 40)
	emberPointerRange = 180.0
	emberAttract      = 260.0 // attraction acceleration at zero distance, px/s^2
	emberDamping      = 0.98  // per-step velocity multiplier
	emberFadeRate     = 3.0   // exponential opacity smoothing rate, 1/s
	emberWobbleFreq   = 1.7
	emberWobbleAmp    = 14.0 // px/s
	emberBlobBase     = 0.35 // blob baseline target opacity
	emberBlobIgnite   = 0.9  // blob target opacity at the pointer
	emberSmokeTarget  = 0.1  // smoke target opacity, fixed
)

type emberKind uint8

const (
	emberSmoke emberKind = iota
	emberBlob
)

// emberParticle holds per-particle simulation state.
type emberParticle struct {
	x, y          float64
	vx, vy        float64
	radius        float64
	opacity       float64
	targetOpacity float64
	age           float64
	maxLife       float64
	kind          emberKind
}

// embers renders a drifting field of warm glowing blobs and neutral smoke.
// Blobs within reach of the pointer are pulled toward it and brighten;
// particle count is fixed for the renderer's lifetime (expiry respawns in
// place, it never shrinks the pool).
type embers struct {
	width, height float64
	rng           *rand.Rand
	particles     []emberParticle
	elapsed       float64

	pointerX, pointerY float64
	hasPointer         bool

	sprite *ebiten.Image // lazy; steps stay image-free
}

func newEmbers(w, h int, opts Options, rng *rand.Rand) renderer {
	e := &embers{
		width:  float64(w),
		height: float64(h),
		rng:    rng,
	}
	smoke := opts.SmokeIntensity * emberSmokePerStep
	blobs := opts.BlobCount * emberBlobPerStep
	e.particles = make([]emberParticle, smoke+blobs)
	for i := range e.particles {
		kind := emberSmoke
		if i >= smoke {
			kind = emberBlob
		}
		e.respawn(&e.particles[i], kind)
		// Scatter initial positions over the full surface so the scene
		// doesn't start as an empty screen with a wall of particles at
		// the bottom edge.
		e.particles[i].y = rng.Float64() * e.height
		e.particles[i].age = rng.Float64() * e.particles[i].maxLife * 0.5
	}
	return e
}

// respawn resets p at the bottom edge with a fresh lifetime, keeping its kind.
func (e *embers) respawn(p *emberParticle, kind emberKind) {
	p.kind = kind
	p.x = e.rng.Float64() * e.width
	p.y = e.height + e.rng.Float64()*24 // always at or below the bottom edge
	p.vx = Range{-12, 12}.random(e.rng)
	p.vy = -Range{12, 45}.random(e.rng) // upward drift
	p.age = 0
	p.maxLife = Range{4, 9}.random(e.rng)
	p.opacity = 0
	if kind == emberBlob {
		p.radius = Range{2, 5}.random(e.rng)
		p.targetOpacity = emberBlobBase
	} else {
		p.radius = Range{6, 14}.random(e.rng)
		p.targetOpacity = emberSmokeTarget
	}
}

func (e *embers) setPointer(x, y float64) {
	e.pointerX, e.pointerY = x, y
	e.hasPointer = true
}

func (e *embers) step(dt float64) {
	e.elapsed += dt
	fade := math.Min(1, emberFadeRate*dt)
	ease := math.Min(1, 2*dt)

	for i := range e.particles {
		p := &e.particles[i]

		p.age += dt
		if p.age > p.maxLife || p.y < -p.radius {
			e.respawn(p, p.kind)
			continue
		}

		if p.kind == emberBlob && e.hasPointer {
			dx := e.pointerX - p.x
			dy := e.pointerY - p.y
			dist := math.Hypot(dx, dy)
			if dist < emberPointerRange && dist > 1e-6 {
				f := (emberPointerRange - dist) / emberPointerRange
				p.vx += dx / dist * f * emberAttract * dt
				p.vy += dy / dist * f * emberAttract * dt
				// Ignite: brighten in proportion to proximity.
				p.targetOpacity = emberBlobBase + f*(emberBlobIgnite-emberBlobBase)
			} else {
				p.targetOpacity += (emberBlobBase - p.targetOpacity) * ease
			}
		}

		p.vx *= emberDamping
		p.vy *= emberDamping

		wobble := math.Sin(e.elapsed*emberWobbleFreq+float64(i)) * emberWobbleAmp
		p.x += (p.vx + wobble) * dt
		p.y += p.vy * dt

		// Opacity converges toward its target; never assigned directly
		// outside respawn.
		p.opacity += (p.targetOpacity - p.opacity) * fade
	}
}

func (e *embers) draw(dst *ebiten.Image, alpha float32) {
	if e.sprite == nil {
		e.sprite = newRadialSprite(64, 2)
	}
	for i := range e.particles {
		p := &e.particles[i]
		if p.opacity <= 0.004 {
			continue
		}
		col := Color{1, 0.35, 0.15, p.opacity} // warm ember
		if p.kind == emberSmoke {
			col = Color{0.55, 0.55, 0.58, p.opacity}
		}
		drawRadial(dst, e.sprite, p.x, p.y, p.radius, col, alpha)
	}
}

func (e *embers) dispose() {
	if e.sprite != nil {
		e.sprite.Deallocate()
		e.sprite = nil
	}
	e.particles = nil
}
