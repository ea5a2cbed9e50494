// Package phase implements a grid cellular automaton coupling phase change,
// acid/base chemistry, magnetism, conduction, optics, nuclear decay,
// filtration and osmosis.
//
// An Engine is single-threaded: callers apply effectors and call Tick from
// one goroutine. Slices returned by the accessors alias engine buffers and
// must not be retained across a Tick; use Snapshot for owned copies.
package phase

import (
	"math"

	"phase-lab/pkg/core"
)

// Rand is the randomness source consumed by every rule. *core.RNG and
// *rand.Rand from math/rand/v2 both satisfy it.
type Rand interface {
	Float64() float64
}

const (
	destPending int32 = -1
	destGone    int32 = -2
	// destUnder marks a conductor now carried as an electron's substrate.
	destUnder int32 = -3
)

// Counts is the telemetry snapshot consumed by the UI layer.
type Counts struct {
	Isotope int
	Lead    int
	Water   int
	Salt    int
}

// HalfLife returns the share of remaining isotope mass as a percentage of
// isotope plus lead. It is 0 when neither is present.
func (c Counts) HalfLife() float64 {
	total := c.Isotope + c.Lead
	if total == 0 {
		return 0
	}
	return 100 * float64(c.Isotope) / float64(total)
}

// Stats accumulates event counters since the last Reset.
type Stats struct {
	Ticks           int
	Decays          int
	NeutronsEmitted int
}

// Snapshot is an owned copy of the grid buffers.
type Snapshot struct {
	W, H      int
	Cells     []Particle
	Charge    []float32
	Direction []float32
}

// Engine owns the double-buffered grid state.
type Engine struct {
	w, h int

	cells      []Particle
	next       []Particle
	charge     []float32
	nextCharge []float32
	dir        []float32
	nextDir    []float32
	// sub holds the conductor lying under an electron.
	sub     []Particle
	nextSub []Particle
	// dest records, per source cell, where its particle went this tick.
	dest []int32

	magX, magY int
	hasMagnet  bool

	cfg   Config
	rng   Rand
	stats Stats
}

// New allocates an engine for a w*h grid. A nil rng falls back to a
// deterministic generator seeded with 1.
func New(w, h int, rng Rand) *Engine {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	if rng == nil {
		rng = core.NewRNG(1)
	}
	total := w * h
	return &Engine{
		w:          w,
		h:          h,
		cells:      make([]Particle, total),
		next:       make([]Particle, total),
		charge:     make([]float32, total),
		nextCharge: make([]float32, total),
		dir:        make([]float32, total),
		nextDir:    make([]float32, total),
		sub:        make([]Particle, total),
		nextSub:    make([]Particle, total),
		dest:       make([]int32, total),
		cfg:        DefaultConfig(),
		rng:        rng,
	}
}

// Width returns the grid width.
func (e *Engine) Width() int { return e.w }

// Height returns the grid height.
func (e *Engine) Height() int { return e.h }

// Occupancy exposes the current occupancy buffer.
func (e *Engine) Occupancy() []Particle { return e.cells }

// Charge exposes the current charge buffer.
func (e *Engine) Charge() []float32 { return e.charge }

// Direction exposes the current heading buffer. Entries are meaningful only
// for beam occupants.
func (e *Engine) Direction() []float32 { return e.dir }

// At returns the occupant of (x, y), or Empty when out of range.
func (e *Engine) At(x, y int) Particle {
	if !e.in(x, y) {
		return Empty
	}
	return e.cells[y*e.w+x]
}

// ChargeAt returns the charge of (x, y), or 0 when out of range.
func (e *Engine) ChargeAt(x, y int) float32 {
	if !e.in(x, y) {
		return 0
	}
	return e.charge[y*e.w+x]
}

// HeadingAt returns the stored heading of (x, y), or 0 when out of range.
func (e *Engine) HeadingAt(x, y int) float64 {
	if !e.in(x, y) {
		return 0
	}
	return float64(e.dir[y*e.w+x])
}

// Magnet returns the dipole center, if one is set.
func (e *Engine) Magnet() (x, y int, ok bool) {
	return e.magX, e.magY, e.hasMagnet
}

// Counts tallies the telemetry particle types.
func (e *Engine) Counts() Counts {
	var c Counts
	for _, p := range e.cells {
		switch p {
		case Isotope:
			c.Isotope++
		case Lead:
			c.Lead++
		case Water:
			c.Water++
		case Salt:
			c.Salt++
		}
	}
	return c
}

// Stats returns the cumulative event counters.
func (e *Engine) Stats() Stats { return e.stats }

// Snapshot returns deep copies of the grid buffers.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		W:         e.w,
		H:         e.h,
		Cells:     append([]Particle(nil), e.cells...),
		Charge:    append([]float32(nil), e.charge...),
		Direction: append([]float32(nil), e.dir...),
	}
}

// Reset zeroes every buffer, the counters and the magnet.
func (e *Engine) Reset() {
	clear(e.cells)
	clear(e.next)
	clear(e.charge)
	clear(e.nextCharge)
	clear(e.dir)
	clear(e.nextDir)
	clear(e.sub)
	clear(e.nextSub)
	e.hasMagnet = false
	e.magX, e.magY = 0, 0
	e.stats = Stats{}
}

func (e *Engine) in(x, y int) bool {
	return x >= 0 && x < e.w && y >= 0 && y < e.h
}

func (e *Engine) chance(p float64) bool { return e.rng.Float64() < p }

func (e *Engine) coin() bool { return e.rng.Float64() > 0.5 }

func (e *Engine) angle() float64 { return e.rng.Float64() * 2 * math.Pi }

// conductorAt reports the material that carries charge at i, looking
// through an electron to its substrate.
func (e *Engine) conductorAt(i int) Particle {
	if p := e.cells[i]; p != Electron {
		return p
	}
	return e.sub[i]
}

// open reports whether i is free in both buffers.
func (e *Engine) open(i int) bool {
	return e.cells[i] == Empty && e.next[i] == Empty
}

func (e *Engine) place(src, dst int, p Particle) {
	e.next[dst] = p
	e.dest[src] = int32(dst)
}

func (e *Engine) stay(i int, p Particle) {
	if e.next[i] != Empty {
		e.dest[i] = destGone
		return
	}
	e.place(i, i, p)
}

// hold pins a particle formed during the immediate-effects pass.
func (e *Engine) hold(i int, p Particle) {
	e.next[i] = p
	e.dest[i] = int32(i)
}

// swap trades places with the settled occupant of dst. It fails unless the
// occupant stayed put this tick and the source cell is still free.
func (e *Engine) swap(src, dst int, p Particle) bool {
	if e.dest[dst] != int32(dst) || e.next[src] != Empty {
		return false
	}
	displaced := e.next[dst]
	if displaced != e.cells[dst] || displaced.Static() {
		return false
	}
	e.next[dst] = p
	e.next[src] = displaced
	e.dest[src] = int32(dst)
	e.dest[dst] = int32(src)
	return true
}

type offset struct{ dx, dy int }

var (
	// right, left, down, up
	axial = [4]offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	// down, up, right, left
	osmosisDirs = [4]offset{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	// down, right, left, up
	percolationDirs = [4]offset{{0, 1}, {1, 0}, {-1, 0}, {0, -1}}
	moore           = [8]offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
)

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
