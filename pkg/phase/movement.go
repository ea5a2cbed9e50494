package phase

import "math"

const (
	denseDisplace   = 0.3
	saltDissolve    = 0.2
	liquidOverSalt  = 0.1
	siltPass        = 0.3
	siltPassSolvent = 0.7
	siltDepth       = 4
	liquidDepth     = 3
	liquidSpread    = 3
	osmoticPull     = 0.98
	osmoticBase     = 0.4
	osmoticReach    = 3
	osmoticWindow   = 6
)

func (e *Engine) moveFalling(x, y, i int, p Particle) {
	if y >= e.h-1 {
		e.stay(i, p)
		return
	}
	below := i + e.w
	target := e.cells[below]
	if target == Empty && e.next[below] == Empty {
		e.place(i, below, p)
		return
	}
	if p == Salt && target.Liquid() && e.chance(saltDissolve) && e.swap(i, below, p) {
		return
	}
	dx := -1
	if e.coin() {
		dx = 1
	}
	if nx := x + dx; nx >= 0 && nx < e.w && e.open(below+dx) {
		e.place(i, below+dx, p)
		return
	}
	e.stay(i, p)
}

func (e *Engine) moveDense(x, y, i int, p Particle) {
	if y < e.h-1 {
		below := i + e.w
		if e.cells[below].Liquid() && e.chance(denseDisplace) && e.swap(i, below, p) {
			return
		}
	}
	e.moveFalling(x, y, i, p)
}

func (e *Engine) moveSilt(x, y, i int, p Particle) {
	pass := siltPass
	if (x > 0 && e.cells[i-1].Liquid()) || (x < e.w-1 && e.cells[i+1].Liquid()) {
		pass = siltPassSolvent
	}
	if e.percolate(x, y, i, p, siltDepth, pass) {
		return
	}
	e.moveFalling(x, y, i, p)
}

// percolate tries to tunnel through adjacent membrane into the first free
// cell within depth.
func (e *Engine) percolate(x, y, i int, p Particle, depth int, pass float64) bool {
	for _, d := range percolationDirs {
		mx, my := x+d.dx, y+d.dy
		if !e.in(mx, my) || e.cells[my*e.w+mx] != Membrane {
			continue
		}
		if !e.chance(pass) {
			continue
		}
		for k := 2; k <= depth; k++ {
			px, py := x+d.dx*k, y+d.dy*k
			if !e.in(px, py) {
				break
			}
			j := py*e.w + px
			if e.open(j) {
				e.place(i, j, p)
				return true
			}
			if e.cells[j] != Membrane {
				break
			}
		}
	}
	return false
}

// saltDensity counts salt within a square window of the given radius.
func (e *Engine) saltDensity(cx, cy, radius int) int {
	n := 0
	for y := max(cy-radius, 0); y <= min(cy+radius, e.h-1); y++ {
		row := y * e.w
		for x := max(cx-radius, 0); x <= min(cx+radius, e.w-1); x++ {
			if e.cells[row+x] == Salt {
				n++
			}
		}
	}
	return n
}

func (e *Engine) moveLiquid(x, y, i int, p Particle) {
	pass := osmoticBase
	for _, d := range osmosisDirs {
		mx, my := x+d.dx, y+d.dy
		if !e.in(mx, my) || e.cells[my*e.w+mx] != Membrane {
			continue
		}
		local := e.saltDensity(x, y, osmoticWindow)
		far := e.saltDensity(x+d.dx*osmoticReach, y+d.dy*osmoticReach, osmoticWindow)
		if far > local {
			pass = osmoticPull
		}
		break
	}
	if e.percolate(x, y, i, p, liquidDepth, pass) {
		return
	}

	if y < e.h-1 {
		below := i + e.w
		if e.open(below) {
			e.place(i, below, p)
			return
		}
		if e.cells[below] == Salt && e.chance(liquidOverSalt) && e.swap(i, below, p) {
			return
		}
	}

	first := -1
	if e.coin() {
		first = 1
	}
	for _, s := range [2]int{first, -first} {
		for d := 1; d <= liquidSpread; d++ {
			tx := x + s*d
			if tx < 0 || tx >= e.w {
				break
			}
			j := i + s*d
			if e.open(j) {
				e.place(i, j, p)
				return
			}
			if e.cells[j] != Empty {
				break
			}
		}
	}
	e.stay(i, p)
}

func (e *Engine) moveGas(x, y, i int, p Particle) {
	span := int(math.Floor(e.cfg.MolecularMotion * 2))
	if span < 1 {
		span = 1
	}
	dx := int(math.Floor(e.rng.Float64()*float64(2*span+1))) - span
	dy := 1 + int(math.Floor(e.rng.Float64()*float64(span)))
	tx := clampInt(x+dx, 0, e.w-1)
	ty := clampInt(y-dy, 0, e.h-1)
	if j := ty*e.w + tx; e.open(j) {
		e.place(i, j, p)
		return
	}
	e.stay(i, p)
}
