//go:build ebiten

package render

import (
	"image/color"

	"phase-lab/pkg/phase"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter updates a single RGBA image from the particle field.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit uploads the engine's current field into the painter image and draws
// it scaled at the given offset.
func (gp *GridPainter) Blit(dst *ebiten.Image, eng *phase.Engine, bg color.RGBA, offsetX, scale int) {
	cells := eng.Occupancy()
	if len(cells) != gp.w*gp.h {
		return
	}
	FillPhase(gp.buf, cells, eng.Charge(), gp.w, bg)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	op.GeoM.Translate(float64(offsetX), 0)
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
