//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"phase-lab/internal/app"
	"phase-lab/internal/lab"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if _, err := lab.Lookup(cfg.Experiment); err != nil {
		log.Fatal(err)
	}
	session := lab.NewSession(cfg.Lab())
	game := app.New(session, cfg.Scale, cfg.Seed)
	size := session.Size()

	ebiten.SetWindowTitle("phase-lab: " + session.Experiment().Name)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+app.PanelWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
