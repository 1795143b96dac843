package backdrop

import "testing"

func embersOptions() Options {
	return Options{Style: StyleEmbers, SmokeIntensity: 10, BlobCount: 10}
}

// startedDirector returns a Director attached at 640x480 and stepped into
// StateRunning.
func startedDirector(t *testing.T, opts Options) *Director {
	t.Helper()
	d := NewDirector(opts)
	d.Resize(640, 480)
	d.Step(16e-3)
	if d.State() != StateRunning {
		t.Fatalf("state = %s, want running", d.State())
	}
	return d
}

func TestDirectorStartsIdle(t *testing.T) {
	d := NewDirector(embersOptions())
	if d.State() != StateIdle {
		t.Errorf("state = %s, want idle before attach", d.State())
	}
	// Stepping without a surface must not start anything.
	d.Step(16e-3)
	if d.State() != StateIdle || d.active != nil {
		t.Error("director must stay idle with no drawable surface")
	}
}

func TestDirectorAttachStartsRenderer(t *testing.T) {
	d := startedDirector(t, embersOptions())
	if d.active == nil {
		t.Fatal("no active renderer while running")
	}
	if d.starts != 1 {
		t.Errorf("starts = %d, want 1", d.starts)
	}
}

func TestDirectorZeroSurfaceStaysIdle(t *testing.T) {
	d := NewDirector(embersOptions())
	d.Resize(0, 480)
	d.Step(16e-3)
	if d.State() != StateIdle {
		t.Errorf("state = %s, want idle for a zero-sized surface", d.State())
	}
	// A usable size arriving later recovers without any explicit reset.
	d.Resize(640, 480)
	d.Step(16e-3)
	if d.State() != StateRunning {
		t.Errorf("state = %s, want running once the surface is drawable", d.State())
	}
}

func TestDirectorStyleNoneIsIdle(t *testing.T) {
	opts := embersOptions()
	opts.Style = StyleNone
	d := NewDirector(opts)
	d.Resize(640, 480)
	d.Step(16e-3)
	if d.State() != StateIdle || d.active != nil {
		t.Error("style none must select no renderer")
	}
}

func TestDirectorDisabledIsIdle(t *testing.T) {
	opts := embersOptions()
	opts.Disabled = true
	d := NewDirector(opts)
	d.Resize(640, 480)
	d.Step(16e-3)
	if d.State() != StateIdle || d.active != nil {
		t.Error("disabled must force idle regardless of style")
	}
}

func TestDirectorUnknownStyleFailsClosed(t *testing.T) {
	d := NewDirector(Options{Style: "lava-lamp"})
	d.Resize(640, 480)
	d.Step(16e-3)
	if d.State() != StateIdle || d.active != nil {
		t.Error("unknown style must select no renderer")
	}
}

// Scenario: resize mid-run. The renderer must be rebuilt against the new
// dimensions with fresh entity arrays.
func TestDirectorResizeRebuildsRenderer(t *testing.T) {
	d := startedDirector(t, embersOptions())
	old := d.active

	d.Resize(800, 600)
	if d.State() != StateStarting {
		t.Errorf("state = %s, want starting after a genuine resize", d.State())
	}
	d.Step(16e-3)
	if d.State() != StateRunning {
		t.Fatalf("state = %s, want running after rebuild", d.State())
	}
	if d.active == old {
		t.Error("resize must instantiate a fresh renderer")
	}
	e := d.active.(*embers)
	if e.width != 800 || e.height != 600 {
		t.Errorf("renderer bound to %fx%f, want 800x600", e.width, e.height)
	}
	if d.starts != 2 {
		t.Errorf("starts = %d, want 2", d.starts)
	}
}

func TestDirectorIgnoresLayoutChurn(t *testing.T) {
	d := startedDirector(t, embersOptions())
	old := d.active
	// Same measurement arriving repeatedly must not rebuild.
	for i := 0; i < 10; i++ {
		d.Resize(640, 480)
		d.Step(16e-3)
	}
	if d.active != old {
		t.Error("renderer rebuilt on a no-op resize")
	}
	if d.starts != 1 {
		t.Errorf("starts = %d, want 1", d.starts)
	}
}

// Scenario: hide then show twice. Each hide suspends the loop exactly once;
// each show starts exactly one fresh renderer.
func TestDirectorVisibilityPauseResume(t *testing.T) {
	d := startedDirector(t, embersOptions())

	for round := 1; round <= 2; round++ {
		d.SetVisible(false)
		if d.State() != StatePaused {
			t.Fatalf("round %d: state = %s, want paused", round, d.State())
		}
		if d.cancels != round {
			t.Fatalf("round %d: cancels = %d, want %d", round, d.cancels, round)
		}
		// Steps while hidden must not advance or rebuild anything.
		retained := d.active
		d.Step(16e-3)
		if d.active != retained {
			t.Fatal("paused state must retain the renderer")
		}

		d.SetVisible(true)
		d.Step(16e-3)
		if d.State() != StateRunning {
			t.Fatalf("round %d: state = %s, want running after resume", round, d.State())
		}
		if d.starts != 1+round {
			t.Fatalf("round %d: starts = %d, want %d", round, d.starts, 1+round)
		}
	}
}

// Events arriving while hidden must not wake the frame loop: the rebuild
// they request stays parked until visibility returns.
func TestDirectorResizeWhileHiddenStaysPaused(t *testing.T) {
	d := startedDirector(t, embersOptions())
	d.SetVisible(false)

	d.Resize(800, 600)
	for i := 0; i < 5; i++ {
		d.Step(16e-3)
		if d.State() != StatePaused {
			t.Fatalf("state = %s after resize while hidden, want paused", d.State())
		}
	}
	if d.starts != 1 {
		t.Fatalf("starts = %d, want 1 (no renderer may start while hidden)", d.starts)
	}

	// Visibility returning applies the deferred rebuild at the new size.
	d.SetVisible(true)
	d.Step(16e-3)
	if d.State() != StateRunning {
		t.Fatalf("state = %s, want running after resume", d.State())
	}
	e := d.active.(*embers)
	if e.width != 800 || e.height != 600 {
		t.Errorf("renderer bound to %fx%f, want the post-hide size 800x600", e.width, e.height)
	}
	if d.starts != 2 {
		t.Errorf("starts = %d, want 2", d.starts)
	}
}

func TestDirectorOptionsWhileHiddenStayPaused(t *testing.T) {
	d := startedDirector(t, embersOptions())
	d.SetVisible(false)

	opts := embersOptions()
	opts.Style = StyleMatrix
	d.SetOptions(opts)
	d.Step(16e-3)
	if d.State() != StatePaused || d.starts != 1 {
		t.Fatalf("state = %s starts = %d, want paused/1 while hidden", d.State(), d.starts)
	}

	d.SetVisible(true)
	d.Step(16e-3)
	if _, ok := d.active.(*matrixRain); !ok {
		t.Errorf("active renderer is %T, want *matrixRain after resume", d.active)
	}
	if d.starts != 2 {
		t.Errorf("starts = %d, want 2", d.starts)
	}
}

// The hidden signal must be remembered even when nothing is animating yet:
// a scene enabled later must not start for an invisible host.
func TestDirectorHiddenSignalRememberedWhileIdle(t *testing.T) {
	opts := embersOptions()
	opts.Style = StyleNone
	d := NewDirector(opts)
	d.Resize(640, 480)
	d.Step(16e-3)
	if d.State() != StateIdle {
		t.Fatalf("state = %s, want idle with style none", d.State())
	}

	d.SetVisible(false)
	opts.Style = StyleEmbers
	d.SetOptions(opts)
	for i := 0; i < 5; i++ {
		d.Step(16e-3)
	}
	if d.State() == StateRunning || d.active != nil || d.starts != 0 {
		t.Fatalf("state = %s starts = %d, renderer must not start while hidden", d.State(), d.starts)
	}

	d.SetVisible(true)
	d.Step(16e-3)
	if d.State() != StateRunning || d.starts != 1 {
		t.Errorf("state = %s starts = %d, want running/1 once visible", d.State(), d.starts)
	}
	if _, ok := d.active.(*embers); !ok {
		t.Errorf("active renderer is %T, want *embers", d.active)
	}
}

func TestDirectorPausedRetainsEntityState(t *testing.T) {
	d := startedDirector(t, embersOptions())
	e := d.active.(*embers)
	d.SetVisible(false)

	x, y := e.particles[0].x, e.particles[0].y
	for i := 0; i < 10; i++ {
		d.Step(16e-3)
	}
	if e.particles[0].x != x || e.particles[0].y != y {
		t.Error("entity state mutated while paused")
	}
}

func TestDirectorOptionsCoalesce(t *testing.T) {
	d := startedDirector(t, embersOptions())

	opts := embersOptions()
	opts.Style = StyleMatrix
	d.SetOptions(opts)
	opts.Style = StyleTerrain
	d.SetOptions(opts)
	opts.Style = StyleNightSky
	d.SetOptions(opts)

	d.Step(16e-3)
	// Only the most recent configuration matters: one rebuild, final style.
	if d.starts != 2 {
		t.Errorf("starts = %d, want 2 (burst coalesced)", d.starts)
	}
	if _, ok := d.active.(*nightSky); !ok {
		t.Errorf("active renderer is %T, want *nightSky", d.active)
	}
	if d.Options().Style != StyleNightSky {
		t.Errorf("Options().Style = %q, want night-sky", d.Options().Style)
	}
}

func TestDirectorSetOptionsToNoneGoesIdle(t *testing.T) {
	d := startedDirector(t, embersOptions())
	opts := d.Options()
	opts.Style = StyleNone
	d.SetOptions(opts)
	d.Step(16e-3)
	if d.State() != StateIdle || d.active != nil {
		t.Error("switching to style none must tear down and idle")
	}
}

func TestDirectorClampsStallDeltas(t *testing.T) {
	d := startedDirector(t, embersOptions())
	e := d.active.(*embers)
	before := e.elapsed
	d.Step(10) // host was suspended for ten seconds
	if got := e.elapsed - before; got > maxDelta+1e-9 {
		t.Errorf("integrated dt = %f, want clamped to %f", got, maxDelta)
	}
}

func TestDirectorPointerForwarding(t *testing.T) {
	// Pointer arriving before the renderer starts must still reach it.
	d := NewDirector(embersOptions())
	d.SetPointer(100, 120)
	d.Resize(640, 480)
	d.Step(16e-3)

	e := d.active.(*embers)
	if !e.hasPointer || e.pointerX != 100 || e.pointerY != 120 {
		t.Error("pointer state not forwarded to a freshly started renderer")
	}

	// Last value wins.
	d.SetPointer(10, 20)
	d.SetPointer(300, 400)
	if e.pointerX != 300 || e.pointerY != 400 {
		t.Error("pointer forwarding must be last-value-wins")
	}
}

func TestDirectorCrossfadeRampsToFull(t *testing.T) {
	d := startedDirector(t, embersOptions())
	if d.fadeAlpha >= 1 {
		t.Fatal("fade should start below full opacity")
	}
	prev := d.fadeAlpha
	for i := 0; i < 60; i++ {
		d.Step(16e-3)
		if d.fadeAlpha < prev {
			t.Fatal("fade alpha must be monotonically non-decreasing")
		}
		prev = d.fadeAlpha
	}
	if d.fadeAlpha != 1 {
		t.Errorf("fadeAlpha = %f, want 1 after the fade duration", d.fadeAlpha)
	}
}

func TestDirectorCloseIsTerminal(t *testing.T) {
	d := startedDirector(t, embersOptions())
	d.Close()
	if d.State() != StateStopped || d.active != nil {
		t.Fatal("Close must dispose the renderer and stop")
	}

	// Everything after Close is a no-op.
	d.SetOptions(embersOptions())
	d.SetVisible(true)
	d.Resize(1024, 768)
	d.SetPointer(1, 2)
	d.Step(16e-3)
	if d.State() != StateStopped || d.active != nil || d.starts != 1 {
		t.Error("stopped director must ignore all further events")
	}
	d.Close() // idempotent
}

func TestDirectorSingleRendererAcrossRestarts(t *testing.T) {
	d := startedDirector(t, embersOptions())
	seen := map[renderer]bool{d.active: true}
	sizes := [][2]int{{800, 600}, {320, 240}, {1024, 768}}
	for _, s := range sizes {
		d.Resize(s[0], s[1])
		d.Step(16e-3)
		if d.active == nil {
			t.Fatal("expected an active renderer")
		}
		if seen[d.active] {
			t.Fatal("renderer instance reused across restarts")
		}
		seen[d.active] = true
	}
	if d.starts != 1+len(sizes) {
		t.Errorf("starts = %d, want %d", d.starts, 1+len(sizes))
	}
}
