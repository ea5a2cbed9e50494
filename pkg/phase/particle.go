package phase

import (
	"errors"
	"fmt"
	"strings"
)

// Particle enumerates the closed set of cell occupants.
type Particle uint8

const (
	Empty Particle = iota
	Wall
	Ice
	Water
	Steam
	Acid
	Base
	Salt
	Iron
	Graphite
	Gold
	Silt
	Membrane
	Clay
	Granite
	Glass
	Mirror
	Photon
	Copper
	Silicon
	Electron
	Isotope
	Lead
	Neutron

	// NumParticles is the number of valid particle types.
	NumParticles = int(Neutron) + 1
)

// ErrUnknownParticle is returned when a value outside the particle set
// reaches an effector.
var ErrUnknownParticle = errors.New("unknown particle")

var particleNames = [NumParticles]string{
	"empty", "wall", "ice", "water", "steam", "acid", "base", "salt",
	"iron", "graphite", "gold", "silt", "membrane", "clay", "granite",
	"glass", "mirror", "photon", "copper", "silicon", "electron",
	"isotope", "lead", "neutron",
}

// String returns the lower-case particle name.
func (p Particle) String() string {
	if !p.Valid() {
		return fmt.Sprintf("particle(%d)", uint8(p))
	}
	return particleNames[p]
}

// Valid reports whether p belongs to the closed particle set.
func (p Particle) Valid() bool { return int(p) < NumParticles }

// ParseParticle resolves a particle by name.
func ParseParticle(name string) (Particle, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range particleNames {
		if n == key {
			return Particle(i), nil
		}
	}
	return Empty, fmt.Errorf("%w: %q", ErrUnknownParticle, name)
}

// Static reports whether the particle never relocates.
func (p Particle) Static() bool {
	switch p {
	case Wall, Membrane, Clay, Granite, Glass, Mirror, Copper, Silicon:
		return true
	}
	return false
}

// Liquid reports whether the particle follows the liquid rule.
func (p Particle) Liquid() bool {
	return p == Water || p == Acid || p == Base
}

// Beam reports whether the particle carries a persistent heading.
func (p Particle) Beam() bool {
	return p == Photon || p == Electron || p == Neutron
}

// Conductive reports whether the particle can hold and diffuse charge.
func (p Particle) Conductive() bool {
	return p == Graphite || p == Copper || p == Silicon
}

// Falling reports whether the particle is a plain falling solid.
func (p Particle) Falling() bool {
	switch p {
	case Ice, Salt, Graphite, Isotope:
		return true
	}
	return false
}

// Dense reports whether the particle sinks through liquids.
func (p Particle) Dense() bool { return p == Gold || p == Lead }
