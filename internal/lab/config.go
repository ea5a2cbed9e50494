package lab

import (
	"strconv"
	"strings"

	"phase-lab/pkg/phase"
)

// Config controls a lab session.
type Config struct {
	Width  int
	Height int

	Seed       int64
	Experiment string
	// Scene seeds the grid with the experiment's preset layout on reset.
	Scene bool

	Engine phase.Config
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:      450,
		Height:     320,
		Seed:       1337,
		Experiment: "phase",
		Scene:      true,
		Engine:     phase.DefaultConfig(),
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Engine keys are forwarded to phase.Config.Apply.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["experiment"]; ok {
		if e, err := Lookup(v); err == nil {
			c.Experiment = e.ID
		}
	}
	if v, ok := cfg["scene"]; ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Scene = parsed
		}
	}
	c.Engine.Apply(cfg)
	return c
}
