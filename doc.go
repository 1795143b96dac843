// Package backdrop is a procedural animated background engine for
// [Ebitengine].
//
// It continuously generates and draws one of several generative scenes
// behind a host application's UI: a pointer-reactive ember field, falling
// glyph rain, a scrolling block world with parallax hills and clouds, and a
// night sky with shooting stars and fireflies.
//
// # Quick start
//
// The simplest way to see it is [Run], which opens a window and drives the
// engine for you:
//
//	d := backdrop.NewDirector(backdrop.DefaultOptions())
//	backdrop.Run(d, backdrop.RunConfig{Title: "backdrop", Width: 960, Height: 540})
//
// To embed the engine behind your own UI, implement [ebiten.Game] yourself
// and forward the frame lifecycle:
//
//	type Game struct{ d *backdrop.Director }
//
//	func (g *Game) Update() error              { g.d.Update(); return nil }
//	func (g *Game) Draw(screen *ebiten.Image)  { g.d.Draw(screen); drawUI(screen) }
//	func (g *Game) Layout(w, h int) (int, int) { g.d.Resize(w, h); return w, h }
//
// # Lifecycle
//
// The [Director] is a small state machine (idle, starting, running, paused,
// stopped). Style and intensity changes arrive through [Director.SetOptions]
// and coalesce to the latest value; resizes and visibility changes restart
// the active scene cleanly. All motion scales by measured elapsed time, so
// the engine is correct at any frame rate. Everything is single-threaded:
// call the Director only from the host's frame goroutine.
//
// # Configuration
//
// [Options] selects the scene and tunes particle counts, and round-trips
// through TOML via [DecodeOptions] and [EncodeOptions] for hosts that
// persist settings on disk. Invalid values clamp rather than error; an
// unknown style renders nothing rather than failing.
//
// [Ebitengine]: https://ebitengine.org
package backdrop
