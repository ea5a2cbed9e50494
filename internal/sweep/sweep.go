// Package sweep runs many independent lab sessions in parallel and reports
// how quickly their isotope mass decays.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"phase-lab/internal/lab"
	"phase-lab/pkg/phase"
)

// ErrBadOptions is returned when a sweep cannot be scheduled.
var ErrBadOptions = errors.New("bad sweep options")

// Variant is one parameter set, applied on top of the experiment defaults.
type Variant struct {
	Label     string
	Overrides map[string]string
}

// Options describes a sweep.
type Options struct {
	Experiment  string
	Width       int
	Height      int
	Ticks       int
	SampleEvery int
	Workers     int
	Seeds       []int64
	Variants    []Variant
}

// DefaultOptions sweeps eight seeds of the nuclear scene.
func DefaultOptions() Options {
	return Options{
		Experiment:  "nuclear",
		Width:       160,
		Height:      120,
		Ticks:       1500,
		SampleEvery: 25,
		Workers:     runtime.NumCPU(),
		Seeds:       []int64{1, 2, 3, 4, 5, 6, 7, 8},
		Variants:    []Variant{{Label: "baseline"}},
	}
}

// Result is the trace of one (variant, seed) run.
type Result struct {
	Variant int
	Label   string
	Seed    int64

	Ticks    []int
	HalfLife []float64

	Initial phase.Counts
	Final   phase.Counts
	Stats   phase.Stats
	// HalfTick is the first sampled tick at which at most half of the
	// initial isotope remained, or -1.
	HalfTick int
}

type job struct {
	variant int
	seed    int64
}

func (o Options) validate() error {
	switch {
	case o.Ticks <= 0 || o.SampleEvery <= 0:
		return fmt.Errorf("%w: ticks and sample interval must be positive", ErrBadOptions)
	case len(o.Seeds) == 0:
		return fmt.Errorf("%w: no seeds", ErrBadOptions)
	case o.Width <= 0 || o.Height <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrBadOptions, o.Width, o.Height)
	}
	if _, err := lab.Lookup(o.Experiment); err != nil {
		return fmt.Errorf("%w: %w", ErrBadOptions, err)
	}
	return nil
}

// Run executes every (variant, seed) pair on a worker pool. Results are
// ordered by variant, then seed.
func Run(ctx context.Context, opts Options) ([]Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	variants := opts.Variants
	if len(variants) == 0 {
		variants = []Variant{{Label: "baseline"}}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan job)
	results := make(chan Result)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res, ok := runOne(ctx, opts, variants[j.variant], j)
				if !ok {
					continue
				}
				results <- res
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for v := range variants {
			for _, seed := range opts.Seeds {
				select {
				case jobs <- job{variant: v, seed: seed}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	var all []Result
	for res := range results {
		all = append(all, res)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Variant != all[j].Variant {
			return all[i].Variant < all[j].Variant
		}
		return all[i].Seed < all[j].Seed
	})
	return all, nil
}

func runOne(ctx context.Context, opts Options, v Variant, j job) (Result, bool) {
	values := map[string]string{}
	for k, val := range v.Overrides {
		values[k] = val
	}
	values["experiment"] = opts.Experiment
	cfg := lab.FromMap(values)
	cfg.Width, cfg.Height = opts.Width, opts.Height
	cfg.Seed = j.seed
	cfg.Scene = true
	s := lab.NewSession(cfg)

	res := Result{Variant: j.variant, Label: v.Label, Seed: j.seed, HalfTick: -1}
	res.Initial = s.RefreshCounts()
	sample := func(tick int, c phase.Counts) {
		res.Ticks = append(res.Ticks, tick)
		res.HalfLife = append(res.HalfLife, c.HalfLife())
		if res.HalfTick < 0 && res.Initial.Isotope > 0 && 2*c.Isotope <= res.Initial.Isotope {
			res.HalfTick = tick
		}
	}
	sample(0, res.Initial)
	for t := 1; t <= opts.Ticks; t++ {
		s.Step()
		if t%opts.SampleEvery != 0 {
			continue
		}
		if ctx.Err() != nil {
			return Result{}, false
		}
		sample(t, s.RefreshCounts())
	}
	res.Final = s.RefreshCounts()
	res.Stats = s.Engine().Stats()
	return res, true
}

// Curve is the mean half-life trace of one variant.
type Curve struct {
	Label string
	Ticks []float64
	Mean  []float64
	Runs  int
}

// Average folds results into one curve per variant, in variant order.
func Average(results []Result) []Curve {
	var curves []Curve
	index := map[int]int{}
	for _, r := range results {
		i, ok := index[r.Variant]
		if !ok {
			i = len(curves)
			index[r.Variant] = i
			c := Curve{Label: r.Label, Ticks: make([]float64, len(r.Ticks)), Mean: make([]float64, len(r.HalfLife))}
			for k, t := range r.Ticks {
				c.Ticks[k] = float64(t)
			}
			curves = append(curves, c)
		}
		c := &curves[i]
		for k := range c.Mean {
			if k < len(r.HalfLife) {
				c.Mean[k] += r.HalfLife[k]
			}
		}
		c.Runs++
	}
	for i := range curves {
		for k := range curves[i].Mean {
			curves[i].Mean[k] /= float64(curves[i].Runs)
		}
	}
	return curves
}

// Table formats one line per result.
func Table(results []Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %6s %8s %8s %8s %8s %9s\n", "variant", "seed", "isotope", "lead", "decays", "neutrons", "half-tick")
	for _, r := range results {
		half := "-"
		if r.HalfTick >= 0 {
			half = fmt.Sprint(r.HalfTick)
		}
		fmt.Fprintf(&b, "%-12s %6d %8d %8d %8d %8d %9s\n",
			r.Label, r.Seed, r.Final.Isotope, r.Final.Lead, r.Stats.Decays, r.Stats.NeutronsEmitted, half)
	}
	return b.String()
}
