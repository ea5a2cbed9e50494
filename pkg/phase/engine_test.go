package phase

import (
	"errors"
	"math"
	"slices"
	"testing"

	"phase-lab/pkg/core"
)

// fixedRand replays vals cyclically.
type fixedRand struct {
	vals []float64
	i    int
}

func (r *fixedRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func constRand(v float64) *fixedRand { return &fixedRand{vals: []float64{v}} }

func mustSet(t *testing.T, e *Engine, x, y int, p Particle, heading float64) {
	t.Helper()
	if err := e.SetParticle(x, y, p, heading); err != nil {
		t.Fatalf("set %v at %d,%d: %v", p, x, y, err)
	}
}

func countOf(e *Engine, p Particle) int {
	n := 0
	for _, c := range e.Occupancy() {
		if c == p {
			n++
		}
	}
	return n
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-5 }

func TestNewClampsSize(t *testing.T) {
	e := New(0, -4, nil)
	if e.Width() != 1 || e.Height() != 1 {
		t.Fatalf("expected 1x1 grid, got %dx%d", e.Width(), e.Height())
	}
	if len(e.Occupancy()) != 1 || len(e.Charge()) != 1 || len(e.Direction()) != 1 {
		t.Fatal("buffers not sized to the grid")
	}
}

func TestBoundsSafety(t *testing.T) {
	e := New(8, 8, core.NewRNG(3))
	mustSet(t, e, 3, 3, Water, 0)
	before := e.Snapshot()

	for _, pt := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {100, 100}} {
		mustSet(t, e, pt[0], pt[1], Wall, 0)
		e.ApplyThermodynamics(pt[0]+20, pt[1]+20, 3, Heat)
	}
	if e.At(-1, 0) != Empty || e.ChargeAt(9, 9) != 0 || e.HeadingAt(0, 99) != 0 {
		t.Fatal("out-of-range reads must return zero values")
	}
	after := e.Snapshot()
	if !slices.Equal(before.Cells, after.Cells) {
		t.Fatal("out-of-range writes changed the grid")
	}
}

func TestSetParticleRejectsUnknown(t *testing.T) {
	e := New(4, 4, nil)
	err := e.SetParticle(1, 1, Particle(NumParticles+3), 0)
	if !errors.Is(err, ErrUnknownParticle) {
		t.Fatalf("expected ErrUnknownParticle, got %v", err)
	}
	if e.At(1, 1) != Empty {
		t.Fatal("rejected particle was written")
	}
}

func TestTickPausedIsNoop(t *testing.T) {
	e := New(6, 6, nil)
	mustSet(t, e, 2, 0, Water, 0)
	e.Tick(DefaultConfig(), false)
	if e.At(2, 0) != Water || e.Stats().Ticks != 0 {
		t.Fatal("paused tick must not advance the grid")
	}
}

func TestResetClearsState(t *testing.T) {
	e := New(6, 6, constRand(0.1))
	mustSet(t, e, 1, 1, Copper, 0)
	e.ApplyThermodynamics(1, 1, 0, Power)
	e.SetMagnet(3, 3)
	e.Tick(DefaultConfig(), true)
	e.Reset()
	for i, p := range e.Occupancy() {
		if p != Empty || e.Charge()[i] != 0 {
			t.Fatalf("cell %d not cleared", i)
		}
	}
	if _, _, ok := e.Magnet(); ok {
		t.Fatal("reset should clear the magnet")
	}
	if e.Stats() != (Stats{}) {
		t.Fatalf("stats not cleared: %+v", e.Stats())
	}
}

func TestAcidBaseScenario(t *testing.T) {
	e := New(10, 10, core.NewRNG(11))
	mustSet(t, e, 5, 5, Acid, 0)
	mustSet(t, e, 6, 5, Base, 0)
	e.Tick(DefaultConfig(), true)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			want := Empty
			switch {
			case x == 5 && y == 5:
				want = Salt
			case x == 6 && y == 5:
				want = Water
			}
			if got := e.At(x, y); got != want {
				t.Fatalf("cell %d,%d = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestNeutralizationIsDeterministic(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		e := New(10, 10, core.NewRNG(seed))
		mustSet(t, e, 4, 2, Base, 0)
		mustSet(t, e, 4, 3, Acid, 0)
		e.Tick(DefaultConfig(), true)
		if e.At(4, 3) != Salt || e.At(4, 2) != Water {
			t.Fatalf("seed %d: acid %v base %v", seed, e.At(4, 3), e.At(4, 2))
		}
	}
}

func TestWaterFallsStraight(t *testing.T) {
	e := New(10, 10, core.NewRNG(5))
	mustSet(t, e, 5, 5, Water, 0)
	e.Tick(DefaultConfig(), true)
	if e.At(5, 6) != Water || e.At(5, 5) != Empty {
		t.Fatalf("water did not fall straight: %v / %v", e.At(5, 5), e.At(5, 6))
	}
}

func TestRadiationScenario(t *testing.T) {
	// trigger, single neutron, heading 0
	e := New(10, 10, &fixedRand{vals: []float64{0.05, 0.1, 0}})
	mustSet(t, e, 5, 5, Isotope, 0)
	for i := 0; i < 50; i++ {
		e.ApplyThermodynamics(5, 5, 1, Radiation)
	}
	if e.At(5, 5) != Lead {
		t.Fatalf("isotope not transmuted: %v", e.At(5, 5))
	}
	adjacent := 0
	for _, d := range moore {
		if e.At(5+d.dx, 5+d.dy) == Neutron {
			adjacent++
		}
	}
	if adjacent < 1 {
		t.Fatal("expected at least one adjacent neutron")
	}
	if e.At(6, 5) != Neutron {
		t.Fatal("neutron should be emitted along its heading")
	}
	if st := e.Stats(); st.Decays != 1 || st.NeutronsEmitted != adjacent {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestDecayAbortsWhenBoxedIn(t *testing.T) {
	e := New(3, 3, constRand(0.01))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			mustSet(t, e, x, y, Wall, 0)
		}
	}
	mustSet(t, e, 1, 1, Isotope, 0)
	e.ApplyThermodynamics(1, 1, 0, Radiation)
	if e.At(1, 1) != Isotope || e.Stats().Decays != 0 {
		t.Fatal("decay without room for a neutron must leave the isotope intact")
	}
}

func TestNeutronImpactTransmutesMovedIsotope(t *testing.T) {
	// 0.01 misses the spontaneous roll and hits the capture roll.
	e := New(12, 10, constRand(0.01))
	mustSet(t, e, 2, 5, Neutron, 0)
	mustSet(t, e, 4, 5, Isotope, 0)
	e.Tick(DefaultConfig(), true)

	c := e.Counts()
	if c.Isotope != 0 || c.Lead != 1 {
		t.Fatalf("unexpected counts %+v", c)
	}
	if st := e.Stats(); st.Decays != 1 || st.NeutronsEmitted < 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestPhotonReflection(t *testing.T) {
	cases := []struct {
		name    string
		heading float64
		mirror  [2]int
		want    float64
		end     [2]int
	}{
		{"horizontal face", 0, [2]int{6, 5}, math.Pi, [2]int{2, 5}},
		{"vertical face", math.Pi / 2, [2]int{5, 6}, -math.Pi / 2, [2]int{5, 2}},
	}
	for _, tc := range cases {
		e := New(12, 12, constRand(0.9))
		mustSet(t, e, 5, 5, Photon, tc.heading)
		mustSet(t, e, tc.mirror[0], tc.mirror[1], Mirror, 0)
		e.Tick(DefaultConfig(), true)
		if e.At(tc.end[0], tc.end[1]) != Photon {
			t.Fatalf("%s: photon not at %v", tc.name, tc.end)
		}
		if got := e.HeadingAt(tc.end[0], tc.end[1]); !near(got, tc.want) {
			t.Fatalf("%s: heading %f, want %f", tc.name, got, tc.want)
		}
	}
}

func TestDiagonalReflectionUsesBlockedFace(t *testing.T) {
	e := New(20, 20, constRand(0.9))
	for x := 0; x < 20; x++ {
		mustSet(t, e, x, 6, Mirror, 0)
	}
	mustSet(t, e, 5, 5, Photon, math.Pi/4)
	e.Tick(DefaultConfig(), true)

	found := false
	for i, p := range e.Occupancy() {
		if p != Photon {
			continue
		}
		found = true
		if got := float64(e.Direction()[i]); !near(got, -math.Pi/4) {
			t.Fatalf("heading %f, want %f", got, -math.Pi/4)
		}
	}
	if !found {
		t.Fatal("photon lost")
	}
}

func TestPhotonCrossesGlass(t *testing.T) {
	e := New(20, 10, constRand(0.9))
	for x := 6; x <= 9; x++ {
		mustSet(t, e, x, 5, Glass, 0)
	}
	mustSet(t, e, 5, 5, Photon, 0)
	e.Tick(DefaultConfig(), true)
	if e.At(10, 5) != Photon {
		t.Fatalf("photon should exit the glass, got %v at 10,5", e.At(10, 5))
	}
	if countOf(e, Glass) != 4 {
		t.Fatal("glass must be untouched")
	}
}

func TestBeamAbsorbedAndLeavesGrid(t *testing.T) {
	e := New(10, 10, constRand(0.9))
	mustSet(t, e, 5, 5, Neutron, 0)
	mustSet(t, e, 7, 5, Glass, 0)
	mustSet(t, e, 8, 2, Photon, 0)
	e.Tick(DefaultConfig(), true)
	if countOf(e, Neutron) != 0 {
		t.Fatal("neutron should be absorbed by glass")
	}
	if countOf(e, Photon) != 0 {
		t.Fatal("photon should leave the grid")
	}
}

func TestChargeDiffusesOneHop(t *testing.T) {
	e := New(10, 10, constRand(0.9))
	for x := 0; x < 10; x++ {
		mustSet(t, e, x, 5, Copper, 0)
	}
	e.ApplyThermodynamics(0, 5, 0, Power)
	cfg := DefaultConfig()

	e.Tick(cfg, true)
	if got := float64(e.ChargeAt(0, 5)); !near(got, 0.92) {
		t.Fatalf("source charge %f", got)
	}
	if got := float64(e.ChargeAt(1, 5)); !near(got, 0.85) {
		t.Fatalf("first hop %f", got)
	}
	if e.ChargeAt(2, 5) != 0 {
		t.Fatal("charge travelled more than one hop")
	}

	e.Tick(cfg, true)
	if got := float64(e.ChargeAt(2, 5)); !near(got, 0.85*0.85) {
		t.Fatalf("second hop %f", got)
	}
	if got := float64(e.ChargeAt(1, 5)); !near(got, 0.92*0.85) {
		t.Fatalf("back-diffusion should win the max, got %f", got)
	}
}

func TestPowerSpawnsElectronOnConductor(t *testing.T) {
	e := New(6, 6, constRand(0.1))
	mustSet(t, e, 3, 3, Copper, 0)
	e.ApplyThermodynamics(3, 3, 0, Power)
	if e.At(3, 3) != Electron || e.ChargeAt(3, 3) != 1 {
		t.Fatalf("expected charged electron, got %v charge %f", e.At(3, 3), e.ChargeAt(3, 3))
	}
	if e.sub[3*6+3] != Copper {
		t.Fatal("electron should keep copper as substrate")
	}
}

func TestElectronRestoresConductor(t *testing.T) {
	e := New(10, 10, constRand(0))
	for x := 0; x < 10; x++ {
		mustSet(t, e, x, 4, Wall, 0)
		mustSet(t, e, x, 6, Wall, 0)
		mustSet(t, e, x, 5, Copper, 0)
	}
	mustSet(t, e, 2, 5, Electron, 0)
	e.Tick(DefaultConfig(), true)

	if e.At(2, 5) != Copper {
		t.Fatalf("copper not restored, got %v", e.At(2, 5))
	}
	if countOf(e, Electron) != 1 {
		t.Fatal("electron count changed")
	}
	if e.At(1, 5) != Electron && e.At(3, 5) != Electron {
		t.Fatal("electron should hop along the wire")
	}
	if countOf(e, Copper) != 9 {
		t.Fatalf("wire lost copper: %d", countOf(e, Copper))
	}
}

func TestMagnetPullsIron(t *testing.T) {
	for _, tc := range []struct {
		polarity float64
		wantY    int
	}{{1, 0}, {-1, 49}} {
		e := New(40, 50, constRand(0.9))
		mustSet(t, e, 20, 40, Iron, 0)
		e.SetMagnet(20, 20)
		cfg := DefaultConfig()
		cfg.MagneticPolarity = tc.polarity
		e.Tick(cfg, true)
		if e.At(20, tc.wantY) != Iron {
			t.Fatalf("polarity %v: iron not at row %d", tc.polarity, tc.wantY)
		}
	}

	e := New(40, 50, constRand(0.9))
	mustSet(t, e, 20, 40, Iron, 0)
	e.SetMagnet(20, 20)
	e.ClearMagnet()
	e.Tick(DefaultConfig(), true)
	if e.At(20, 41) != Iron {
		t.Fatal("without a magnet iron should fall")
	}
}

func TestSteamRises(t *testing.T) {
	e := New(10, 10, constRand(0.5))
	mustSet(t, e, 5, 9, Steam, 0)
	e.Tick(DefaultConfig(), true)
	if e.At(5, 7) != Steam {
		t.Fatal("steam should rise two rows at default motion")
	}
}

func TestSiltPercolatesThroughMembrane(t *testing.T) {
	e := New(10, 10, constRand(0.1))
	mustSet(t, e, 5, 3, Silt, 0)
	mustSet(t, e, 5, 4, Membrane, 0)
	e.Tick(DefaultConfig(), true)
	if e.At(5, 5) != Silt || e.At(5, 4) != Membrane {
		t.Fatalf("silt did not pass the membrane: %v", e.At(5, 5))
	}
}

func TestGoldSinksThroughWater(t *testing.T) {
	e := New(10, 7, constRand(0.1))
	mustSet(t, e, 4, 6, Wall, 0)
	mustSet(t, e, 6, 6, Wall, 0)
	mustSet(t, e, 5, 6, Water, 0)
	mustSet(t, e, 5, 5, Gold, 0)
	e.Tick(DefaultConfig(), true)
	if e.At(5, 6) != Gold || e.At(5, 5) != Water {
		t.Fatalf("expected swap, got %v over %v", e.At(5, 5), e.At(5, 6))
	}
}

func TestClaimExclusivity(t *testing.T) {
	rng := core.NewRNG(21)
	e := New(40, 30, rng)
	kinds := []Particle{Water, Salt, Silt, Iron, Photon, Neutron, Isotope, Steam, Acid, Base, Copper, Electron, Membrane, Gold}
	for i := range e.Occupancy() {
		if rng.Chance(0.4) {
			p := kinds[rng.IntN(len(kinds))]
			mustSet(t, e, i%40, i/40, p, rng.Angle())
		}
	}
	e.SetMagnet(20, 15)

	for tick := 0; tick < 60; tick++ {
		e.Tick(DefaultConfig(), true)
		seen := make(map[int32]int)
		for src, d := range e.dest {
			if d < 0 {
				continue
			}
			if prev, ok := seen[d]; ok {
				t.Fatalf("tick %d: cells %d and %d both wrote %d", tick, prev, src, d)
			}
			seen[d] = src
			if e.cells[d] == Empty {
				t.Fatalf("tick %d: claimed cell %d is empty", tick, d)
			}
		}
	}
}

func TestDecayMassMonotonic(t *testing.T) {
	rng := core.NewRNG(8)
	e := New(30, 30, rng)
	for i := range e.Occupancy() {
		switch {
		case rng.Chance(0.15):
			mustSet(t, e, i%30, i/30, Isotope, 0)
		case rng.Chance(0.05):
			mustSet(t, e, i%30, i/30, Neutron, rng.Angle())
		case rng.Chance(0.05):
			mustSet(t, e, i%30, i/30, Water, 0)
		}
	}
	prev := e.Counts()
	for tick := 0; tick < 80; tick++ {
		if tick%10 == 0 {
			e.ApplyThermodynamics(15, 15, 6, Radiation)
		}
		e.Tick(DefaultConfig(), true)
		c := e.Counts()
		if c.Isotope > prev.Isotope {
			t.Fatalf("tick %d: isotope grew %d -> %d", tick, prev.Isotope, c.Isotope)
		}
		if c.Lead < prev.Lead {
			t.Fatalf("tick %d: lead shrank %d -> %d", tick, prev.Lead, c.Lead)
		}
		prev = c
	}
	if st := e.Stats(); st.NeutronsEmitted < st.Decays {
		t.Fatalf("every decay must emit a neutron: %+v", st)
	}
}

func TestDeterministicReplay(t *testing.T) {
	run := func() Snapshot {
		rng := core.NewRNG(99)
		e := New(32, 24, rng)
		for x := 4; x < 28; x++ {
			mustSet(t, e, x, 2, Water, 0)
			mustSet(t, e, x, 12, Membrane, 0)
		}
		for x := 6; x < 26; x += 3 {
			mustSet(t, e, x, 16, Salt, 0)
			mustSet(t, e, x, 4, Iron, 0)
		}
		mustSet(t, e, 2, 20, Photon, 0.3)
		e.SetMagnet(16, 8)
		for i := 0; i < 40; i++ {
			e.Tick(DefaultConfig(), true)
		}
		return e.Snapshot()
	}
	a, b := run(), run()
	if !slices.Equal(a.Cells, b.Cells) || !slices.Equal(a.Direction, b.Direction) {
		t.Fatal("equal seeds produced different grids")
	}
}

func TestThermodynamicEffects(t *testing.T) {
	e := New(9, 9, constRand(0.9))
	mustSet(t, e, 4, 4, Ice, 0)
	mustSet(t, e, 5, 4, Water, 0)
	e.ApplyThermodynamics(4, 4, 1, Heat)
	if e.At(4, 4) != Water || e.At(5, 4) != Steam {
		t.Fatalf("heat: %v %v", e.At(4, 4), e.At(5, 4))
	}
	e.ApplyThermodynamics(4, 4, 1, Cold)
	if e.At(4, 4) != Ice || e.At(5, 4) != Water {
		t.Fatalf("cold: %v %v", e.At(4, 4), e.At(5, 4))
	}

	mustSet(t, e, 1, 1, Acid, 0)
	e.ApplyThermodynamics(1, 1, 0, Neutralize)
	if e.At(1, 1) != Salt {
		t.Fatalf("neutralize brush with high roll should give salt, got %v", e.At(1, 1))
	}

	before := e.Snapshot()
	e.ApplyThermodynamics(4, 4, 3, Effect("plasma"))
	if !slices.Equal(before.Cells, e.Snapshot().Cells) {
		t.Fatal("unknown effect must be a no-op")
	}
}

func TestParseEffect(t *testing.T) {
	for _, eff := range Effects() {
		if got, ok := ParseEffect(string(eff)); !ok || got != eff {
			t.Fatalf("parse %q failed", eff)
		}
	}
	if _, ok := ParseEffect("freeze"); ok {
		t.Fatal("unexpected effect accepted")
	}
}

func TestCountsHalfLife(t *testing.T) {
	if (Counts{}).HalfLife() != 0 {
		t.Fatal("empty counts should report 0")
	}
	if got := (Counts{Isotope: 1, Lead: 3}).HalfLife(); got != 25 {
		t.Fatalf("half-life = %f", got)
	}
}

func TestErosionWearsStrata(t *testing.T) {
	cases := []struct {
		name    string
		roll    float64
		clay    bool
		granite bool
	}{
		{"clay and granite hold", 0.5, true, true},
		{"clay erodes", 0.01, false, true},
		{"both erode", 0.0001, false, false},
	}
	for _, tc := range cases {
		e := New(5, 1, constRand(tc.roll))
		mustSet(t, e, 0, 0, Granite, 0)
		mustSet(t, e, 1, 0, Water, 0)
		mustSet(t, e, 2, 0, Clay, 0)
		e.Tick(DefaultConfig(), true)
		if got := countOf(e, Clay) == 1; got != tc.clay {
			t.Fatalf("%s: clay present = %v", tc.name, got)
		}
		if got := countOf(e, Granite) == 1; got != tc.granite {
			t.Fatalf("%s: granite present = %v", tc.name, got)
		}
		if countOf(e, Water) != 1 {
			t.Fatalf("%s: water must survive erosion", tc.name)
		}
	}
}

func TestErodedClayFreesItsCell(t *testing.T) {
	e := New(5, 1, constRand(0.01))
	mustSet(t, e, 0, 0, Granite, 0)
	mustSet(t, e, 1, 0, Water, 0)
	mustSet(t, e, 2, 0, Clay, 0)
	e.Tick(DefaultConfig(), true)
	if e.At(0, 0) != Granite || e.At(2, 0) != Water {
		t.Fatalf("water should flow into the eroded cell, got %v %v %v", e.At(0, 0), e.At(1, 0), e.At(2, 0))
	}
}

func TestOsmoticPull(t *testing.T) {
	cases := []struct {
		name  string
		salt  int
		wantX int
	}{
		{"saltier far side", 11, 5},
		{"saltier near side", 0, 2},
	}
	for _, tc := range cases {
		// 0.9 passes only the strong pull.
		e := New(14, 3, constRand(0.9))
		mustSet(t, e, 3, 2, Water, 0)
		mustSet(t, e, 4, 2, Membrane, 0)
		mustSet(t, e, tc.salt, 2, Salt, 0)
		e.Tick(DefaultConfig(), true)
		if e.At(tc.wantX, 2) != Water {
			t.Fatalf("%s: water not at %d, row is %v", tc.name, tc.wantX, e.Occupancy()[2*14:])
		}
		if e.At(4, 2) != Membrane || e.At(tc.salt, 2) != Salt {
			t.Fatalf("%s: membrane or salt moved", tc.name)
		}
	}
}

func TestLiquidPercolationDepth(t *testing.T) {
	e := New(10, 10, constRand(0.1))
	mustSet(t, e, 5, 3, Water, 0)
	mustSet(t, e, 5, 4, Membrane, 0)
	mustSet(t, e, 5, 5, Membrane, 0)
	e.Tick(DefaultConfig(), true)
	if e.At(5, 6) != Water {
		t.Fatalf("water should tunnel through two membrane cells, got %v", e.At(5, 6))
	}

	e = New(10, 10, constRand(0.1))
	mustSet(t, e, 5, 3, Water, 0)
	for y := 4; y <= 6; y++ {
		mustSet(t, e, 5, y, Membrane, 0)
	}
	e.Tick(DefaultConfig(), true)
	if e.At(5, 7) != Empty || e.At(4, 3) != Water {
		t.Fatal("three membrane cells exceed the tunnelling depth")
	}
	if countOf(e, Membrane) != 3 {
		t.Fatal("membrane must be untouched")
	}
}

func TestLiquidSpreadsPastClaims(t *testing.T) {
	cases := []struct {
		name    string
		claimed []int
		wall    int
		want    int
	}{
		{"third cell", []int{1, 2}, -1, 3},
		{"beyond reach", []int{1, 2, 3}, -1, 0},
		{"blocked", []int{1}, 2, 0},
	}
	for _, tc := range cases {
		e := New(8, 1, constRand(0.9))
		mustSet(t, e, 0, 0, Water, 0)
		if tc.wall >= 0 {
			mustSet(t, e, tc.wall, 0, Wall, 0)
		}
		for _, c := range tc.claimed {
			e.next[c] = Salt
		}
		e.moveLiquid(0, 0, 0, Water)
		if e.next[tc.want] != Water || e.dest[0] != int32(tc.want) {
			t.Fatalf("%s: water went to %d", tc.name, e.dest[0])
		}
	}
}

func TestSaltAndLiquidExchange(t *testing.T) {
	cases := []struct {
		name       string
		top, below Particle
		roll       float64
		swapped    bool
	}{
		{"salt dissolves", Salt, Water, 0.1, true},
		{"salt rests", Salt, Water, 0.3, false},
		{"water sinks through salt", Water, Salt, 0.05, true},
		{"water flows aside", Water, Salt, 0.2, false},
	}
	for _, tc := range cases {
		e := New(10, 7, constRand(tc.roll))
		mustSet(t, e, 4, 6, Wall, 0)
		mustSet(t, e, 6, 6, Wall, 0)
		mustSet(t, e, 5, 6, tc.below, 0)
		mustSet(t, e, 5, 5, tc.top, 0)
		e.Tick(DefaultConfig(), true)
		swapped := e.At(5, 6) == tc.top && e.At(5, 5) == tc.below
		if swapped != tc.swapped {
			t.Fatalf("%s: swapped = %v, column %v over %v", tc.name, swapped, e.At(5, 5), e.At(5, 6))
		}
		if !tc.swapped && e.At(5, 6) != tc.below {
			t.Fatalf("%s: bottom cell changed to %v", tc.name, e.At(5, 6))
		}
	}
}

func TestNeutronBouncesOffShielding(t *testing.T) {
	for _, shield := range []Particle{Lead, Granite} {
		e := New(10, 6, constRand(0.5))
		mustSet(t, e, 2, 5, Neutron, 0)
		mustSet(t, e, 5, 5, shield, 0)
		e.Tick(DefaultConfig(), true)
		if e.At(1, 5) != Neutron {
			t.Fatalf("%v: neutron not reflected back to 1,5", shield)
		}
		if got := e.HeadingAt(1, 5); !near(got, math.Pi) {
			t.Fatalf("%v: heading %f, want pi", shield, got)
		}
		if e.At(5, 5) != shield {
			t.Fatalf("%v: shield moved", shield)
		}
	}

	e := New(10, 6, constRand(0.5))
	mustSet(t, e, 2, 5, Photon, 0)
	mustSet(t, e, 5, 5, Lead, 0)
	e.Tick(DefaultConfig(), true)
	if countOf(e, Photon) != 0 {
		t.Fatal("lead should absorb photons")
	}
}

func TestBeamLeavesWaterIntact(t *testing.T) {
	cases := []struct {
		name   string
		top    int
		photon bool
	}{
		{"exits the pool", 5, true},
		{"leaves the grid", 0, false},
	}
	for _, tc := range cases {
		e := New(3, 12, constRand(0.9))
		for y := tc.top; y <= 10; y++ {
			for x := 0; x < 3; x++ {
				mustSet(t, e, x, y, Water, 0)
			}
		}
		mustSet(t, e, 0, 11, Wall, 0)
		mustSet(t, e, 2, 11, Wall, 0)
		mustSet(t, e, 1, 11, Photon, -math.Pi/2)
		water := countOf(e, Water)
		e.Tick(DefaultConfig(), true)
		if got := countOf(e, Water); got != water {
			t.Fatalf("%s: photon consumed water, %d -> %d", tc.name, water, got)
		}
		if tc.photon && e.At(1, tc.top-1) != Photon {
			t.Fatalf("%s: photon should rest above the pool", tc.name)
		}
		if !tc.photon && countOf(e, Photon) != 0 {
			t.Fatalf("%s: photon should leave the grid", tc.name)
		}
	}
}
