package backdrop

// Surface tracks the pixel dimensions of the drawing target the host hands
// to Draw each frame. It exists so the Director can tell a genuine resize
// apart from the host's layout churn: SetSize reports a change only when the
// measurement actually differs from the previous one, and only then does the
// Director pay for a renderer rebuild.
//
// All drawing uses nearest-neighbor filtering (the ebiten default for
// DrawImageOptions); block art and glyphs must not be resampled.
type Surface struct {
	width  int
	height int
}

// SetSize records new pixel dimensions and reports whether they differ from
// the previous measurement. The first call with nonzero dimensions counts as
// a change. Negative dimensions are treated as zero.
func (s *Surface) SetSize(w, h int) bool {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if w == s.width && h == s.height {
		return false
	}
	s.width = w
	s.height = h
	return true
}

// Size returns the current pixel dimensions.
func (s *Surface) Size() (w, h int) {
	return s.width, s.height
}

// Ready reports whether the surface can be drawn to. A zero-sized surface
// (not yet attached, or collapsed by the host layout) is not an error; the
// Director simply stays idle until a usable size arrives.
func (s *Surface) Ready() bool {
	return s.width > 0 && s.height > 0
}
