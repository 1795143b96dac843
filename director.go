package backdrop

import (
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// State is the Director's lifecycle state.
type State uint8

const (
	// StateIdle means no renderer is active: the engine is disabled, the
	// style is none/unknown, or the surface has no usable size.
	StateIdle State = iota
	// StateStarting is the transient rebuild point: any previous renderer
	// is torn down and a new one is bound to the current dimensions.
	StateStarting
	// StateRunning means the active renderer is stepped and drawn each frame.
	StateRunning
	// StatePaused means stepping is suspended (host hidden/unfocused) but
	// renderer state is retained.
	StatePaused
	// StateStopped means the Director is torn down for good; every call
	// after Close is a no-op.
	StateStopped
)

// String returns the state name for debug logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// maxDelta caps the elapsed time fed into any integration. After a stall
// (host suspended, window dragged) the simulation takes one sane step
// instead of teleporting everything.
const maxDelta = 0.05

// fadeDuration is how long a freshly started renderer takes to fade in.
const fadeDuration = 0.4

// Director coordinates the surface, the scene registry, and the single
// active renderer: it owns the frame lifecycle (start, pause, resume,
// resize, teardown) and guarantees at most one renderer is ever stepping.
//
// All methods must be called from the host's frame goroutine; the engine is
// strictly single-threaded and never blocks.
type Director struct {
	surface Surface
	opts    Options
	rng     *rand.Rand

	state   State
	active  renderer
	pending *Options // latest requested options; nil when none queued
	rebuild bool     // a restart is due on the next step
	visible bool     // last host visibility signal; no renderer starts while false

	fade      *gween.Tween
	fadeAlpha float32

	pointerX, pointerY float64
	hasPointer         bool

	lastStep time.Time

	// Lifecycle counters, used by the debug log and the lifecycle tests.
	starts  int // renderer instantiations
	cancels int // frame-loop suspensions (pause on hidden)

	debug      bool
	debugAccum float64
	stepTime   time.Duration
	drawTime   time.Duration
}

// NewDirector creates an idle Director. It stays idle until the host reports
// a usable surface size via Resize and the options select a scene.
func NewDirector(opts Options) *Director {
	return &Director{
		opts:    opts.normalized(),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		visible: true,
	}
}

// State returns the current lifecycle state.
func (d *Director) State() State {
	return d.state
}

// Options returns the currently applied configuration.
func (d *Director) Options() Options {
	return d.opts
}

// SetOptions queues a configuration change. Rapid repeated calls coalesce:
// only the most recent options are applied, on the next Step.
func (d *Director) SetOptions(opts Options) {
	if d.state == StateStopped {
		return
	}
	o := opts.normalized()
	d.pending = &o
}

// SetPointer records the pointer position in surface coordinates,
// last-value-wins. Only pointer-aware renderers (embers) consume it.
func (d *Director) SetPointer(x, y float64) {
	if d.state == StateStopped {
		return
	}
	d.pointerX, d.pointerY = x, y
	d.hasPointer = true
	if pt, ok := d.active.(pointerTarget); ok {
		pt.setPointer(x, y)
	}
}

// Resize reports the surface's pixel dimensions. A genuine change while a
// renderer is active forces a rebuild, since renderers precompute
// size-dependent arrays; layout churn that lands on the same size is free.
func (d *Director) Resize(w, h int) {
	if d.state == StateStopped {
		return
	}
	if d.surface.SetSize(w, h) {
		d.requestRestart()
	}
}

// SetVisible folds the host visibility signal into the state machine.
// Hiding while running suspends stepping but retains all entity state;
// showing again restarts from scratch, which also re-validates dimensions.
func (d *Director) SetVisible(visible bool) {
	if d.state == StateStopped {
		return
	}
	// Record the signal in every state; a later restart must know the host
	// is hidden even when nothing is animating right now.
	d.visible = visible
	switch d.state {
	case StateRunning, StateStarting:
		if !visible {
			d.state = StatePaused
			d.cancels++
			d.logf("paused")
		}
	case StatePaused:
		if visible {
			d.requestRestart()
		}
	}
}

// requestRestart marks the configuration dirty; the next Step rebuilds (or
// settles into idle). Deferring to the step coalesces event bursts. While
// the host is hidden the restart stays parked in paused rather than
// starting, so resize and options events arriving mid-pause cannot wake
// the frame loop.
func (d *Director) requestRestart() {
	d.rebuild = true
	if d.state == StateIdle {
		return
	}
	if d.visible {
		d.state = StateStarting
	} else {
		d.state = StatePaused
	}
}

// Update measures wall-clock elapsed time since the previous call and
// advances the engine by it. Hosts with their own clock call Step directly.
func (d *Director) Update() {
	now := time.Now()
	dt := 1.0 / 60.0
	if !d.lastStep.IsZero() {
		dt = now.Sub(d.lastStep).Seconds()
	}
	d.lastStep = now
	d.Step(dt)
}

// Step advances the active renderer by dt seconds. dt is clamped to
// maxDelta. In idle, paused, and stopped states this does nothing.
func (d *Director) Step(dt float64) {
	if d.state == StateStopped || d.state == StatePaused {
		return
	}
	if dt < 0 {
		dt = 0
	}
	if dt > maxDelta {
		dt = maxDelta
	}

	if d.pending != nil {
		d.opts = *d.pending
		d.pending = nil
		d.rebuild = true
	}
	if d.rebuild {
		d.restart()
	}
	if d.state != StateRunning {
		return
	}

	var t0 time.Time
	if d.debug {
		t0 = time.Now()
	}

	if d.fade != nil {
		a, done := d.fade.Update(float32(dt))
		d.fadeAlpha = a
		if done {
			d.fade = nil
		}
	}
	d.active.step(dt)

	if d.debug {
		d.stepTime = time.Since(t0)
		d.debugAccum += dt
		if d.debugAccum >= 1 {
			d.debugAccum = 0
			d.logf("state=%s style=%s step=%v draw=%v",
				d.state, d.opts.Style, d.stepTime, d.drawTime)
		}
	}
}

// Draw renders the active renderer onto screen. Outside StateRunning no
// drawing operation is issued at all.
func (d *Director) Draw(screen *ebiten.Image) {
	if d.state != StateRunning || d.active == nil {
		return
	}
	var t0 time.Time
	if d.debug {
		t0 = time.Now()
	}
	d.active.draw(screen, d.fadeAlpha)
	if d.debug {
		d.drawTime = time.Since(t0)
	}
}

// restart tears down any active renderer and, if the configuration selects
// a scene and the surface is drawable, starts a fresh one. Teardown happens
// before the new renderer exists, so at most one renderer ever steps.
func (d *Director) restart() {
	d.rebuild = false
	d.teardownActive()

	if d.opts.Disabled || !d.surface.Ready() {
		d.state = StateIdle
		return
	}
	if !d.visible {
		// The host is hidden: park in paused with the rebuild still
		// pending, and start once visibility returns.
		d.rebuild = true
		d.state = StatePaused
		return
	}
	w, h := d.surface.Size()
	r := newRenderer(d.opts.Style, w, h, d.opts, d.rng)
	if r == nil {
		// StyleNone or unknown: a valid "no scene" configuration.
		d.state = StateIdle
		return
	}

	d.active = r
	d.starts++
	d.fade = gween.New(0, 1, fadeDuration, ease.OutQuad)
	d.fadeAlpha = 0
	if pt, ok := r.(pointerTarget); ok && d.hasPointer {
		pt.setPointer(d.pointerX, d.pointerY)
	}
	d.state = StateRunning
	d.logf("started style=%s %dx%d", d.opts.Style, w, h)
}

func (d *Director) teardownActive() {
	if d.active != nil {
		d.active.dispose()
		d.active = nil
	}
	d.fade = nil
	d.fadeAlpha = 0
}

// Close tears the Director down permanently. The active renderer is
// disposed synchronously; every later call is a no-op.
func (d *Director) Close() {
	if d.state == StateStopped {
		return
	}
	d.teardownActive()
	d.state = StateStopped
	d.logf("stopped")
}
