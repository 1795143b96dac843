package backdrop

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the standalone window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	Options Options
	Debug   bool
}

// game adapts a Director to ebiten.Game: Layout feeds the surface size,
// Update forwards focus and pointer signals and steps the simulation, and
// Draw hands the screen to the active renderer.
type game struct {
	director *Director
	visible  bool
}

func (g *game) Update() error {
	focused := ebiten.IsFocused()
	if focused != g.visible {
		g.visible = focused
		g.director.SetVisible(focused)
	}
	cx, cy := ebiten.CursorPosition()
	g.director.SetPointer(float64(cx), float64(cy))
	g.director.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.director.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.director.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run opens a window and drives the given Director until the window closes.
// Hosts embedding the engine in an existing ebiten.Game should instead call
// Director.Resize, Director.Update, and Director.Draw themselves.
func Run(d *Director, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 540
	}
	if cfg.Title == "" {
		cfg.Title = "backdrop"
	}
	d.SetDebugMode(cfg.Debug)
	if cfg.Options != (Options{}) {
		d.SetOptions(cfg.Options)
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := &game{director: d, visible: true}
	defer d.Close()
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run backdrop: %w", err)
	}
	return nil
}
