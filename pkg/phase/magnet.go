package phase

import "math"

const (
	magnetPoleOffset = 15
	magnetRange      = 180
	magnetFalloff    = 2.5
	magnetGain       = 2000
)

// SetMagnet places the dipole center at (x, y). Poles sit 15 cells above
// and below it.
func (e *Engine) SetMagnet(x, y int) {
	e.magX, e.magY = x, y
	e.hasMagnet = true
}

// ClearMagnet removes the dipole.
func (e *Engine) ClearMagnet() {
	e.hasMagnet = false
}

func (e *Engine) moveMagnetic(x, y, i int, p Particle) {
	if e.hasMagnet {
		if tx, ty, ok := e.magneticTarget(x, y); ok {
			if j := ty*e.w + tx; e.open(j) {
				e.place(i, j, p)
				return
			}
		}
	}
	e.moveFalling(x, y, i, p)
}

// magneticTarget computes the cell iron at (x, y) is pulled toward. ok is
// false when both poles are out of range.
func (e *Engine) magneticTarget(x, y int) (tx, ty int, ok bool) {
	fx, fy := float64(x), float64(y)
	mx := float64(e.magX)
	northY := float64(e.magY - magnetPoleOffset)
	southY := float64(e.magY + magnetPoleOffset)

	distN := math.Hypot(fx-mx, fy-northY)
	distS := math.Hypot(fx-mx, fy-southY)
	if distN >= magnetRange && distS >= magnetRange {
		return x, y, false
	}
	distN = math.Max(distN, 1)
	distS = math.Max(distS, 1)

	pol := e.cfg.MagneticPolarity
	pn := math.Pow(distN, magnetFalloff)
	ps := math.Pow(distS, magnetFalloff)
	vx := pol*(fx-mx)/pn - pol*(fx-mx)/ps
	vy := pol*(fy-northY)/pn - pol*(fy-southY)/ps

	scale := magnetGain * e.cfg.MolecularMotion
	tx = clampInt(x+int(math.Round(vx*scale)), 0, e.w-1)
	ty = clampInt(y+int(math.Round(vy*scale)), 0, e.h-1)
	return tx, ty, true
}
