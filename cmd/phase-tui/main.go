package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"

	"phase-lab/internal/app"
	"phase-lab/internal/lab"
	"phase-lab/internal/term"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Width, cfg.Height = 160, 90
	cfg.TPS = 30
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if _, err := lab.Lookup(cfg.Experiment); err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	viewer := term.New(screen, lab.NewSession(cfg.Lab()), cfg.TPS)
	err = viewer.Run(ctx)
	screen.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
