package backdrop

import "testing"

func TestRegistryCoversAllStyles(t *testing.T) {
	opts := DefaultOptions()
	rng := testRNG()
	for _, style := range []Style{StyleEmbers, StyleMatrix, StyleTerrain, StyleNightSky} {
		r := newRenderer(style, 320, 240, opts, rng)
		if r == nil {
			t.Errorf("newRenderer(%q) = nil, want a renderer", style)
			continue
		}
		r.dispose()
	}
}

func TestRegistryFailsClosed(t *testing.T) {
	opts := DefaultOptions()
	rng := testRNG()
	for _, style := range []Style{StyleNone, Style("unknown"), Style("")} {
		if r := newRenderer(style, 320, 240, opts, rng); r != nil {
			t.Errorf("newRenderer(%q) should select no renderer", style)
		}
	}
}

func TestOnlyEmbersTracksPointer(t *testing.T) {
	opts := DefaultOptions()
	rng := testRNG()
	cases := []struct {
		style Style
		want  bool
	}{
		{StyleEmbers, true},
		{StyleMatrix, false},
		{StyleTerrain, false},
		{StyleNightSky, false},
	}
	for _, c := range cases {
		r := newRenderer(c.style, 320, 240, opts, rng)
		_, ok := r.(pointerTarget)
		if ok != c.want {
			t.Errorf("%q pointerTarget = %v, want %v", c.style, ok, c.want)
		}
		r.dispose()
	}
}
