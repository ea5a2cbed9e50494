//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"phase-lab/internal/lab"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// poleOffset is the distance in cells from the dipole centre to each pole.
const poleOffset = 15

var (
	northColor  = color.RGBA{R: 229, G: 57, B: 53, A: 220}
	southColor  = color.RGBA{R: 30, G: 136, B: 229, A: 220}
	chargeTint  = color.RGBA{R: 255, G: 235, B: 59, A: 0}
	cursorColor = color.RGBA{R: 255, G: 255, B: 255, A: 90}
)

// Overlay draws the magnet poles plus optional charge and brush visuals on
// top of the field.
type Overlay struct {
	session    *lab.Session
	scale      int
	showCharge bool
	showBrush  bool

	maskImg *ebiten.Image
	maskBuf []byte
	pixel   *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(session *lab.Session, scale int) *Overlay {
	o := &Overlay{session: session, scale: max(scale, 1), showBrush: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles layers: 1 charge glow, 2 brush outline.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showCharge = !o.showCharge
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showBrush = !o.showBrush
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	eng := o.session.Engine()
	w, h := eng.Width(), eng.Height()
	scale := float64(o.scale)

	if o.showCharge {
		o.drawMask(screen, eng.Charge(), w, h, chargeTint)
	}

	if x, y, ok := eng.Magnet(); ok {
		cx := (float64(x) + 0.5) * scale
		north := (float64(y-poleOffset) + 0.5) * scale
		south := (float64(y+poleOffset) + 0.5) * scale
		o.drawLine(screen, cx, north, cx, south, scale, color.RGBA{R: 120, G: 120, B: 130, A: 160})
		o.drawPoint(screen, cx, north, 4*scale, northColor)
		o.drawPoint(screen, cx, south, 4*scale, southColor)
	}

	if o.showBrush {
		mx, my := ebiten.CursorPosition()
		if mx < w*o.scale && my < h*o.scale {
			r := float64(o.session.EngineConfig().BrushSize) * scale
			o.drawCircle(screen, float64(mx), float64(my), r, cursorColor)
		}
	}
}

func (o *Overlay) drawCircle(screen *ebiten.Image, cx, cy, r float64, col color.RGBA) {
	if r <= 0 {
		return
	}
	const segments = 32
	for i := 0; i < segments; i++ {
		a0 := 2 * math.Pi * float64(i) / segments
		a1 := 2 * math.Pi * float64(i+1) / segments
		o.drawLine(screen, cx+r*math.Cos(a0), cy+r*math.Sin(a0), cx+r*math.Cos(a1), cy+r*math.Sin(a1), 1, col)
	}
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawMask(screen *ebiten.Image, mask []float32, w, h int, tint color.RGBA) {
	total := w * h
	if len(mask) != total || total == 0 {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != w || o.maskImg.Bounds().Dy() != h {
		o.maskImg = ebiten.NewImage(w, h)
		o.maskBuf = make([]byte, 4*total)
	}
	for i, v := range mask {
		base := i * 4
		alpha, glow := maskPixel(float64(v))
		o.maskBuf[base+0] = scaleColorComponent(tint.R, glow)
		o.maskBuf[base+1] = scaleColorComponent(tint.G, glow)
		o.maskBuf[base+2] = scaleColorComponent(tint.B, glow)
		o.maskBuf[base+3] = alpha
	}
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.maskImg, op)
}
