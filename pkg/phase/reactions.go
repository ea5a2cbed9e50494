package phase

import "math"

const (
	chargeFloor  = 0.05
	chargeDecay  = 0.92
	siliconLoss  = 0.6
	clayErosion  = 0.02
	graniteWear  = 0.0005
	twinNeutrons = 0.7

	spontaneousDecay = 0.0001
	radiationDecay   = 0.1
)

// propagateCharge decays every charged cell and diffuses charge one hop
// into axially adjacent conductors.
func (e *Engine) propagateCharge() {
	loss := float32(e.cfg.ElectricalConductivity)
	for i, c := range e.charge {
		if c <= chargeFloor {
			continue
		}
		e.nextCharge[i] = max(e.nextCharge[i], c*chargeDecay)
		if !e.conductorAt(i).Conductive() {
			continue
		}
		x, y := i%e.w, i/e.w
		for _, d := range axial {
			nx, ny := x+d.dx, y+d.dy
			if !e.in(nx, ny) {
				continue
			}
			n := ny*e.w + nx
			m := e.conductorAt(n)
			if !m.Conductive() {
				continue
			}
			f := loss
			if m == Silicon {
				f = siliconLoss
			}
			e.nextCharge[n] = max(e.nextCharge[n], c*f)
		}
	}
	e.charge, e.nextCharge = e.nextCharge, e.charge
}

// neutralize pairs each acid with its first unreacted base neighbor, then
// each base with an acid. The acid side becomes salt and the base side
// water, and both are pinned for the tick.
func (e *Engine) neutralize() {
	for _, kind := range [2]Particle{Acid, Base} {
		other := Base
		if kind == Base {
			other = Acid
		}
		for i, p := range e.cells {
			if p != kind || e.dest[i] != destPending {
				continue
			}
			x, y := i%e.w, i/e.w
			for _, d := range axial {
				nx, ny := x+d.dx, y+d.dy
				if !e.in(nx, ny) {
					continue
				}
				n := ny*e.w + nx
				if e.cells[n] != other || e.dest[n] != destPending {
					continue
				}
				acid, base := i, n
				if kind == Base {
					acid, base = n, i
				}
				e.cells[acid], e.cells[base] = Salt, Water
				e.hold(acid, Salt)
				e.hold(base, Water)
				break
			}
		}
	}
}

// erode lets water wear away adjacent clay and granite.
func (e *Engine) erode() {
	for i, p := range e.cells {
		if p != Water {
			continue
		}
		x, y := i%e.w, i/e.w
		for _, d := range axial {
			nx, ny := x+d.dx, y+d.dy
			if !e.in(nx, ny) {
				continue
			}
			n := ny*e.w + nx
			switch e.cells[n] {
			case Clay:
				if e.chance(clayErosion) {
					e.cells[n] = Empty
				}
			case Granite:
				if e.chance(graniteWear) {
					e.cells[n] = Empty
				}
			}
		}
	}
}

// emitNeutrons releases one or two neutrons around the isotope at center
// and records the decay. During a tick the neutrons are written to the
// next buffer; otherwise they land in the current grid. It returns false,
// emitting nothing, when no neighbor is free.
func (e *Engine) emitNeutrons(center int, inTick bool) bool {
	count := 1
	if e.rng.Float64() > twinNeutrons {
		count = 2
	}
	cx, cy := center%e.w, center/e.w
	emitted := 0
	for k := 0; k < count; k++ {
		heading := e.angle()
		n, ok := e.neutronSlot(cx, cy, heading, inTick)
		if !ok {
			break
		}
		if inTick {
			e.next[n] = Neutron
			e.nextDir[n] = float32(heading)
			e.nextSub[n] = Empty
		} else {
			e.cells[n] = Neutron
			e.dir[n] = float32(heading)
			e.sub[n] = Empty
		}
		emitted++
	}
	if emitted == 0 {
		return false
	}
	e.stats.Decays++
	e.stats.NeutronsEmitted += emitted
	return true
}

// neutronSlot picks the neighbor along heading, or the first free Moore
// neighbor when that one is taken.
func (e *Engine) neutronSlot(cx, cy int, heading float64, inTick bool) (int, bool) {
	free := func(x, y int) bool {
		if !e.in(x, y) {
			return false
		}
		n := y*e.w + x
		if inTick {
			return e.open(n)
		}
		return e.cells[n] == Empty
	}
	px := cx + int(math.Round(math.Cos(heading)))
	py := cy + int(math.Round(math.Sin(heading)))
	if free(px, py) {
		return py*e.w + px, true
	}
	for _, d := range moore {
		if x, y := cx+d.dx, cy+d.dy; free(x, y) {
			return y*e.w + x, true
		}
	}
	return 0, false
}

// decayImpact converts the isotope struck at j. An isotope that already
// moved this tick is transmuted at its destination.
func (e *Engine) decayImpact(j int) {
	switch d := e.dest[j]; {
	case d == destPending:
		if e.emitNeutrons(j, true) {
			e.cells[j] = Lead
		}
	case d >= 0 && e.next[d] == Isotope:
		if e.emitNeutrons(int(d), true) {
			e.next[d] = Lead
		}
	}
}

// decayBetweenTicks is used by the radiation effect.
func (e *Engine) decayBetweenTicks(i int) {
	if e.cells[i] != Isotope {
		return
	}
	if e.emitNeutrons(i, false) {
		e.cells[i] = Lead
		e.sub[i] = Empty
	}
}
