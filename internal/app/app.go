//go:build ebiten

package app

import (
	"time"

	"phase-lab/internal/lab"
	"phase-lab/internal/render"
	"phase-lab/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PanelWidth is the width of the HUD column in screen pixels.
const PanelWidth = 260

// Game adapts a lab session to the ebiten.Game interface.
type Game struct {
	session *lab.Session
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay

	scale    int
	tickOnce bool
	painting bool
	seed     int64
}

// New constructs a Game for the provided session.
func New(session *lab.Session, scale int, seed int64) *Game {
	if scale <= 0 {
		scale = 1
	}
	size := session.Size()
	return &Game{
		session: session,
		painter: render.NewGridPainter(size.W, size.H),
		hud:     ui.NewHUD(session, PanelWidth),
		overlay: ui.NewOverlay(session, scale),
		scale:   scale,
		seed:    seed,
	}
}

// Reset reinitializes the session with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.session.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame input and advances the session.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.session.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.session.SetRunning(true)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.session.Clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		dir := 1
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			dir = -1
		}
		next := lab.Next(g.session.Experiment().ID, dir)
		_ = g.session.SetExperiment(next.ID)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.session.CycleTool(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.session.CycleTool(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		_ = g.session.SelectTool("eraser")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.session.SetFloatParameter("magnetic_polarity", -g.session.EngineConfig().MagneticPolarity)
	}

	fieldW := g.session.Size().W * g.scale
	g.hud.Update(fieldW)
	g.overlay.Update()
	g.handleBrush(fieldW)

	if g.session.Running() {
		g.session.Step()
	} else if g.tickOnce {
		g.session.Advance()
	}
	g.tickOnce = false
	return nil
}

func (g *Game) handleBrush(fieldW int) {
	mx, my := ebiten.CursorPosition()
	inField := mx >= 0 && my >= 0 && mx < fieldW && my < g.session.Size().H*g.scale
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !g.painting && !inField {
			return
		}
		g.painting = true
		_ = g.session.PaintActive(float64(mx)/float64(g.scale), float64(my)/float64(g.scale))
		return
	}
	if g.painting && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.session.Release()
	}
	g.painting = false
}

// Draw renders the field, overlay and HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	bg, err := render.ParseHex(g.session.EngineConfig().BackgroundColor)
	if err != nil {
		bg = render.Background
	}
	g.painter.Blit(screen, g.session.Engine(), bg, 0, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.session.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.session.Size()
	return s.W*g.scale + PanelWidth, s.H * g.scale
}
