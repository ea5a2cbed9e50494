package phase

import "math"

const (
	photonSpeed  = 4
	neutronSpeed = 6

	glassIndex = 1.5
	airIndex   = 1.0

	neutronCapture = 0.05
	siliconAdmit   = 0.4
	strayHop       = 0.05
)

// moveBeam steps a photon or neutron along its heading for up to speed
// cells, reflecting, refracting or being absorbed on the way.
func (e *Engine) moveBeam(x, y, i int, p Particle, speed int) {
	heading := float64(e.dir[i])
	fx, fy := float64(x), float64(y)
	cx, cy := x, y

	limit := speed
	maxLimit := speed + e.w + e.h
	for step := 0; step < limit; step++ {
		nfx, nfy := fx+math.Cos(heading), fy+math.Sin(heading)
		nx, ny := int(math.Round(nfx)), int(math.Round(nfy))
		if !e.in(nx, ny) {
			e.dest[i] = destGone
			return
		}
		if nx == cx && ny == cy {
			fx, fy = nfx, nfy
			continue
		}
		n := ny*e.w + nx
		target := e.cells[n]
		inGlass := p == Photon && e.cells[cy*e.w+cx] == Glass

		switch {
		case e.reflects(p, target):
			heading = e.reflect(p, heading, cx, cy, nx, ny)
			continue
		case p == Neutron && target == Isotope:
			if e.chance(neutronCapture) {
				e.decayImpact(n)
			}
			e.dest[i] = destGone
			return
		case p == Photon && target == Glass:
			if !inGlass {
				heading *= airIndex / glassIndex
			}
		case target == Empty || target == Water || target == Steam || target == p:
			if inGlass {
				heading *= glassIndex / airIndex
			}
		default:
			e.dest[i] = destGone
			return
		}

		fx, fy = nfx, nfy
		cx, cy = nx, ny
		if step == limit-1 && limit < maxLimit && transmits(p, e.cells[cy*e.w+cx]) {
			limit++
		}
	}

	final := cy*e.w + cx
	if e.next[final] != Empty || transmits(p, e.cells[final]) {
		e.dest[i] = destGone
		return
	}
	e.place(i, final, p)
	e.nextDir[final] = float32(heading)
}

// transmits reports whether a beam passes through m without coming to rest
// in it.
func transmits(p, m Particle) bool {
	return m == Water || m == Steam || (p == Photon && m == Glass)
}

func (e *Engine) reflects(p, target Particle) bool {
	switch p {
	case Photon:
		return target == Mirror
	case Neutron:
		return target == Lead || target == Granite
	}
	return false
}

// reflect mirrors heading about the face crossed when stepping from
// (cx, cy) to (nx, ny). A blocked corner sends the beam back.
func (e *Engine) reflect(p Particle, heading float64, cx, cy, nx, ny int) float64 {
	colChanged, rowChanged := nx != cx, ny != cy
	switch {
	case colChanged && !rowChanged:
		return math.Pi - heading
	case rowChanged && !colChanged:
		return -heading
	}
	side := e.reflects(p, e.cells[cy*e.w+nx])
	floor := e.reflects(p, e.cells[ny*e.w+cx])
	switch {
	case side && !floor:
		return math.Pi - heading
	case floor && !side:
		return -heading
	}
	return heading + math.Pi
}

func (e *Engine) moveElectron(x, y, i int) {
	order := moore
	for k := len(order) - 1; k > 0; k-- {
		j := int(e.rng.Float64() * float64(k+1))
		order[k], order[j] = order[j], order[k]
	}

	for _, d := range order {
		nx, ny := x+d.dx, y+d.dy
		if !e.in(nx, ny) {
			continue
		}
		n := ny*e.w + nx
		m := e.cells[n]
		path := m == Copper || m == Silicon
		switch {
		case m == Empty:
			if e.next[n] != Empty {
				continue
			}
		case path:
			if e.next[n] != m {
				continue
			}
		default:
			continue
		}
		if m == Silicon && e.rng.Float64() > siliconAdmit {
			continue
		}
		hop := strayHop
		if path {
			hop = 1
		}
		if e.rng.Float64() >= hop {
			continue
		}

		e.next[n] = Electron
		e.nextDir[n] = e.dir[i]
		if path {
			e.nextSub[n] = m
			e.dest[n] = destUnder
		}
		e.dest[i] = int32(n)
		if s := e.sub[i]; s != Empty && e.next[i] == Empty {
			e.next[i] = s
		}
		return
	}

	if e.next[i] != Empty {
		e.dest[i] = destGone
		return
	}
	e.place(i, i, Electron)
	e.nextDir[i] = e.dir[i]
	e.nextSub[i] = e.sub[i]
}
