package sprig

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Game is the callback pair driven by Run. Update runs once per tick with the
// tick length in seconds. Draw records sprites between the renderer's Begin
// and Flush, which Run performs.
type Game interface {
	Update(dt float64) error
	Draw(r *Renderer) error
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS overlays FPS, TPS and the frame's transform stats.
	ShowFPS bool
}

// fpsRefresh is how often, in seconds, the overlay text is rebuilt.
const fpsRefresh = 0.5

// Run opens a window and drives game with r until the window closes or
// game returns an error.
func Run(r *Renderer, game Game, rc RunConfig) error {
	if rc.Title != "" {
		ebiten.SetWindowTitle(rc.Title)
	}
	w, h := rc.Width, rc.Height
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 480
	}
	ebiten.SetWindowSize(w, h)
	return ebiten.RunGame(&gameShell{r: r, game: game, cfg: rc, w: w, h: h})
}

// gameShell adapts a Game to ebiten.Game.
type gameShell struct {
	r    *Renderer
	game Game
	cfg  RunConfig
	w, h int

	drawErr error

	overlay     *ebiten.Image
	overlayAge  float64
	overlayText string
}

func (g *gameShell) Update() error {
	if g.drawErr != nil {
		return g.drawErr
	}
	dt := 1 / float64(ebiten.TPS())
	if g.r.camera != nil {
		g.r.camera.Update(float32(dt))
	}
	if g.cfg.ShowFPS {
		g.overlayAge += dt
	}
	return g.game.Update(dt)
}

func (g *gameShell) Draw(screen *ebiten.Image) {
	if cc := g.r.cfg.ClearColor; cc != (Color{}) {
		screen.Fill(cc.toRGBA())
	}

	g.r.Begin()
	if err := g.game.Draw(g.r); err != nil {
		g.drawErr = err
	}
	g.r.Flush(screen)

	if g.cfg.ShowFPS {
		g.drawOverlay(screen)
	}
}

func (g *gameShell) Layout(_, _ int) (int, int) {
	return g.w, g.h
}

// drawOverlay blits the stats panel, rebuilding it every fpsRefresh seconds.
func (g *gameShell) drawOverlay(screen *ebiten.Image) {
	if g.overlay == nil {
		// Enough for four lines of debug font.
		g.overlay = ebiten.NewImage(200, 64)
		g.overlayAge = fpsRefresh
	}
	if g.overlayAge >= fpsRefresh {
		g.overlayAge = 0
		st := g.r.Stats()
		g.overlayText = fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nSprites: %d\nTransforms: %d/%d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), st.Instances, st.UniqueTransforms, g.r.sr.Cap())
		g.overlay.Clear()
		// Semi-transparent background for readability
		g.overlay.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(g.overlay, g.overlayText)
	}
	screen.DrawImage(g.overlay, nil)
}
