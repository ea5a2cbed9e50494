package phase

import (
	"fmt"
	"strings"
)

// Effect names a brush effect applied by ApplyThermodynamics.
type Effect string

const (
	Heat       Effect = "heat"
	Cold       Effect = "cold"
	Neutralize Effect = "neutralize"
	Power      Effect = "power"
	Radiation  Effect = "radiation"
)

const powerSpawn = 0.2

// Effects lists the supported effects in display order.
func Effects() []Effect {
	return []Effect{Heat, Cold, Neutralize, Power, Radiation}
}

// ParseEffect resolves an effect by name.
func ParseEffect(name string) (Effect, bool) {
	key := Effect(strings.ToLower(strings.TrimSpace(name)))
	for _, eff := range Effects() {
		if eff == key {
			return eff, true
		}
	}
	return "", false
}

// SetParticle writes p to (x, y) in the current grid. Out-of-range
// coordinates are ignored. heading is stored for beam particles. An
// electron placed on a conductor keeps it as substrate; any other
// placement discards the substrate.
func (e *Engine) SetParticle(x, y int, p Particle, heading float64) error {
	if !p.Valid() {
		return fmt.Errorf("set particle at %d,%d: %w: %d", x, y, ErrUnknownParticle, uint8(p))
	}
	if !e.in(x, y) {
		return nil
	}
	i := y*e.w + x
	under := Empty
	if p == Electron {
		if c := e.conductorAt(i); c.Conductive() {
			under = c
		}
	}
	e.cells[i] = p
	e.sub[i] = under
	if p.Beam() {
		e.dir[i] = float32(heading)
	}
	return nil
}

// ApplyThermodynamics applies effect to every cell within a filled circle
// of radius around (x, y). Unknown effects do nothing.
func (e *Engine) ApplyThermodynamics(x, y, radius int, effect Effect) {
	if _, ok := ParseEffect(string(effect)); !ok || radius < 0 {
		return
	}
	r2 := radius * radius
	for ty := max(y-radius, 0); ty <= min(y+radius, e.h-1); ty++ {
		for tx := max(x-radius, 0); tx <= min(x+radius, e.w-1); tx++ {
			dx, dy := tx-x, ty-y
			if dx*dx+dy*dy > r2 {
				continue
			}
			e.applyEffect(tx, ty, effect)
		}
	}
}

func (e *Engine) applyEffect(x, y int, effect Effect) {
	i := y*e.w + x
	p := e.cells[i]
	switch effect {
	case Heat:
		switch p {
		case Ice:
			e.cells[i] = Water
		case Water:
			e.cells[i] = Steam
		}
	case Cold:
		switch p {
		case Steam:
			e.cells[i] = Water
		case Water:
			e.cells[i] = Ice
		}
	case Neutralize:
		if p == Acid || p == Base {
			if e.coin() {
				e.cells[i] = Salt
			} else {
				e.cells[i] = Water
			}
		}
	case Power:
		if e.conductorAt(i).Conductive() {
			e.charge[i] = 1
			if e.chance(powerSpawn) {
				_ = e.SetParticle(x, y, Electron, e.angle())
			}
		}
	case Radiation:
		if p == Isotope && e.chance(radiationDecay) {
			e.decayBetweenTicks(i)
		}
	}
}
