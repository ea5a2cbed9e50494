package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"phase-lab/internal/sweep"
)

func parseVariants(args []string) ([]sweep.Variant, error) {
	if len(args) == 0 {
		return []sweep.Variant{{Label: "baseline"}}, nil
	}
	var out []sweep.Variant
	for _, arg := range args {
		label, rest, ok := strings.Cut(arg, ":")
		if !ok || label == "" {
			return nil, fmt.Errorf("variant %q: want label:key=value,...", arg)
		}
		v := sweep.Variant{Label: label, Overrides: map[string]string{}}
		for _, kv := range strings.Split(rest, ",") {
			if kv == "" {
				continue
			}
			k, val, ok := strings.Cut(kv, "=")
			if !ok {
				return nil, fmt.Errorf("variant %q: bad pair %q", arg, kv)
			}
			v.Overrides[strings.TrimSpace(k)] = strings.TrimSpace(val)
		}
		out = append(out, v)
	}
	return out, nil
}

func main() {
	opts := sweep.DefaultOptions()
	flag.StringVar(&opts.Experiment, "experiment", opts.Experiment, "experiment scene to sweep")
	flag.IntVar(&opts.Width, "w", opts.Width, "grid width")
	flag.IntVar(&opts.Height, "h", opts.Height, "grid height")
	flag.IntVar(&opts.Ticks, "ticks", opts.Ticks, "ticks to simulate per run")
	flag.IntVar(&opts.SampleEvery, "sample", opts.SampleEvery, "ticks between samples")
	flag.IntVar(&opts.Workers, "workers", opts.Workers, "number of worker goroutines")
	seeds := flag.Int("seeds", len(opts.Seeds), "number of seeds per variant")
	png := flag.String("png", "", "write a PNG chart to this path")
	var variants []string
	flag.Func("variant", "label:key=value,... (repeatable)", func(s string) error {
		variants = append(variants, s)
		return nil
	})
	flag.Parse()

	var err error
	if opts.Variants, err = parseVariants(variants); err != nil {
		log.Fatal(err)
	}
	opts.Seeds = opts.Seeds[:0]
	for i := 1; i <= *seeds; i++ {
		opts.Seeds = append(opts.Seeds, int64(i))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Sweeping %d variants x %d seeds (%d workers, %d ticks)\n", len(opts.Variants), len(opts.Seeds), opts.Workers, opts.Ticks)
	start := time.Now()
	results, err := sweep.Run(ctx, opts)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nFinished in %s\n\n", time.Since(start).Round(time.Millisecond))
	fmt.Print(sweep.Table(results))

	curves := sweep.Average(results)
	fmt.Println()
	fmt.Print(sweep.ASCII(curves, 10, 60))

	if *png == "" {
		return
	}
	f, err := os.Create(*png)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := sweep.WritePNG(f, curves); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s\n", *png)
}
