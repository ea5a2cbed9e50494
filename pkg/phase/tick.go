package phase

// Tick advances the simulation by one generation under cfg. Nothing happens
// while running is false.
func (e *Engine) Tick(cfg Config, running bool) {
	if !running {
		return
	}
	e.cfg = cfg

	clear(e.next)
	clear(e.nextCharge)
	clear(e.nextDir)
	clear(e.nextSub)
	for i := range e.dest {
		e.dest[i] = destPending
	}

	e.propagateCharge()
	e.neutralize()
	e.erode()

	for i, p := range e.cells {
		if p.Static() && e.dest[i] == destPending {
			e.next[i] = p
			e.dest[i] = int32(i)
		}
	}

	for y := e.h - 1; y >= 0; y-- {
		leftToRight := e.coin()
		for k := 0; k < e.w; k++ {
			x := k
			if !leftToRight {
				x = e.w - 1 - k
			}
			i := y*e.w + x
			p := e.cells[i]
			if p == Empty || p.Static() || e.dest[i] != destPending {
				continue
			}
			if n := e.next[i]; n != Empty && n != p {
				e.dest[i] = destGone
				continue
			}
			e.update(x, y, i, p)
		}
	}

	e.cells, e.next = e.next, e.cells
	e.dir, e.nextDir = e.nextDir, e.dir
	e.sub, e.nextSub = e.nextSub, e.sub
	e.stats.Ticks++
}

func (e *Engine) update(x, y, i int, p Particle) {
	switch p {
	case Electron:
		e.moveElectron(x, y, i)
	case Photon:
		e.moveBeam(x, y, i, p, photonSpeed)
	case Neutron:
		e.moveBeam(x, y, i, p, neutronSpeed)
	case Isotope:
		if e.next[i] == Empty && e.chance(spontaneousDecay) && e.emitNeutrons(i, true) {
			e.place(i, i, Lead)
			return
		}
		e.moveFalling(x, y, i, p)
	case Silt:
		e.moveSilt(x, y, i, p)
	case Iron:
		e.moveMagnetic(x, y, i, p)
	case Water, Acid, Base:
		e.moveLiquid(x, y, i, p)
	case Steam:
		e.moveGas(x, y, i, p)
	default:
		switch {
		case p.Dense():
			e.moveDense(x, y, i, p)
		case p.Falling():
			e.moveFalling(x, y, i, p)
		default:
			e.stay(i, p)
		}
	}
}
