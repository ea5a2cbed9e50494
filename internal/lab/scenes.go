package lab

import (
	"math"

	pcore "phase-lab/pkg/core"
	"phase-lab/pkg/phase"

	"github.com/aquilax/go-perlin"
)

const (
	noiseAlpha  = 2.0
	noiseBeta   = 2.0
	noiseOctave = 3
)

// scene lays out preset material on a freshly reset engine.
type scene struct {
	eng   *phase.Engine
	rng   *pcore.RNG
	noise *perlin.Perlin
	w, h  int
}

func buildScene(id string, eng *phase.Engine, rng *pcore.RNG, seed int64) {
	sc := &scene{
		eng:   eng,
		rng:   rng,
		noise: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, seed),
		w:     eng.Width(),
		h:     eng.Height(),
	}
	switch id {
	case "phase":
		sc.fill(sc.w/4, sc.h/8, 3*sc.w/4, sc.h/3, phase.Ice, 0.6)
		sc.floor(phase.Wall)
	case "chem":
		sc.fill(sc.w/8, sc.h/8, 3*sc.w/8, sc.h/3, phase.Acid, 0.5)
		sc.fill(5*sc.w/8, sc.h/8, 7*sc.w/8, sc.h/3, phase.Base, 0.5)
		sc.bowl(phase.Wall)
	case "magnet":
		sc.terrain(phase.Granite, phase.Granite, 0.08)
		sc.fill(sc.w/6, sc.h/2, 5*sc.w/6, 2*sc.h/3, phase.Iron, 0.15)
	case "circuit":
		sc.floor(phase.Wall)
		for x := sc.w / 8; x < 7*sc.w/8; x++ {
			sc.set(x, sc.h-2, phase.Graphite, 0)
		}
	case "filtration":
		sc.hline(sc.h/2, phase.Membrane)
		sc.fill(sc.w/4, sc.h/10, 3*sc.w/4, sc.h/4, phase.Gold, 0.15)
		sc.fill(sc.w/4, sc.h/10, 3*sc.w/4, sc.h/4, phase.Silt, 0.25)
		sc.fill(sc.w/4, sc.h/4, 3*sc.w/4, sc.h/3, phase.Water, 0.4)
	case "erosion":
		sc.terrain(phase.Clay, phase.Granite, 0.3)
		sc.fill(sc.w/3, 0, 2*sc.w/3, sc.h/12, phase.Water, 0.4)
	case "optics":
		sc.prism(sc.w/2, sc.h/2, sc.h/5)
		for y := sc.h / 4; y < 3*sc.h/4; y++ {
			sc.set(sc.w-sc.w/10, y, phase.Mirror, 0)
		}
		for y := sc.h/2 - 4; y <= sc.h/2+4; y++ {
			sc.set(sc.w/10, y, phase.Photon, 0)
		}
	case "electricity":
		y := sc.h / 2
		for x := sc.w / 8; x < 7*sc.w/8; x++ {
			p := phase.Copper
			switch {
			case x > 3*sc.w/8 && x < sc.w/2:
				p = phase.Silicon
			case x >= 5*sc.w/8 && x < 5*sc.w/8+3:
				p = phase.Glass
			}
			sc.set(x, y, p, 0)
		}
		for x := sc.w / 8; x < sc.w/8+6; x++ {
			sc.set(x, y, phase.Electron, sc.rng.Angle())
		}
	case "osmosis":
		sc.vline(sc.w/2, phase.Membrane)
		sc.floor(phase.Wall)
		sc.fill(1, sc.h/2, sc.w/2, sc.h-1, phase.Water, 0.6)
		sc.fill(sc.w/2+1, sc.h/2, sc.w, sc.h-1, phase.Water, 0.6)
		sc.fill(sc.w/2+1, 2*sc.h/3, sc.w, sc.h-1, phase.Salt, 0.2)
	case "nuclear":
		sc.floor(phase.Wall)
		cx, cy := sc.w/2, sc.h-sc.h/6
		r := sc.h / 8
		sc.disc(cx, cy, r, phase.Isotope, 0.7)
		for x := cx - r - 8; x <= cx+r+8; x++ {
			sc.set(x, cy-r-10, phase.Lead, 0)
		}
		sc.set(cx-r-12, cy, phase.Neutron, 0)
	}
}

func (sc *scene) set(x, y int, p phase.Particle, heading float64) {
	_ = sc.eng.SetParticle(x, y, p, heading)
}

// fill sprinkles p over [x0,x1)×[y0,y1) with the given density.
func (sc *scene) fill(x0, y0, x1, y1 int, p phase.Particle, density float64) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if sc.eng.At(x, y) != phase.Empty || !sc.rng.Chance(density) {
				continue
			}
			heading := 0.0
			if p.Beam() {
				heading = sc.rng.Angle()
			}
			sc.set(x, y, p, heading)
		}
	}
}

func (sc *scene) disc(cx, cy, r int, p phase.Particle, density float64) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r && sc.rng.Chance(density) {
				sc.set(cx+dx, cy+dy, p, 0)
			}
		}
	}
}

func (sc *scene) hline(y int, p phase.Particle) {
	for x := 0; x < sc.w; x++ {
		sc.set(x, y, p, 0)
	}
}

func (sc *scene) vline(x int, p phase.Particle) {
	for y := 0; y < sc.h; y++ {
		sc.set(x, y, p, 0)
	}
}

func (sc *scene) floor(p phase.Particle) { sc.hline(sc.h-1, p) }

func (sc *scene) bowl(p phase.Particle) {
	sc.floor(p)
	for y := sc.h / 2; y < sc.h; y++ {
		sc.set(0, y, p, 0)
		sc.set(sc.w-1, y, p, 0)
	}
}

// prism places an upward triangle of glass centred on (cx, cy).
func (sc *scene) prism(cx, cy, size int) {
	for dy := 0; dy < size; dy++ {
		half := dy / 2
		for dx := -half; dx <= half; dx++ {
			sc.set(cx+dx, cy-size/2+dy, phase.Glass, 0)
		}
	}
}

// terrain builds noise-shaped strata: soft material on top of bedrock. The
// surface rises to at most relief of the grid height.
func (sc *scene) terrain(soft, hard phase.Particle, relief float64) {
	for x := 0; x < sc.w; x++ {
		n := sc.noise.Noise2D(float64(x)/float64(sc.w)*4, 0.5)
		surface := sc.h - 1 - int(math.Round((n+1)/2*relief*float64(sc.h)))
		bedrock := sc.h - 1 - int(math.Round((n+1)/4*relief*float64(sc.h)))
		for y := max(surface, 0); y < sc.h; y++ {
			p := soft
			if y >= bedrock {
				p = hard
			}
			sc.set(x, y, p, 0)
		}
	}
}
