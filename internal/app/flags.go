package app

import (
	"flag"
	"fmt"
	"strings"

	"phase-lab/internal/lab"
)

// Config represents the command-line parameters shared by the front-ends.
type Config struct {
	Experiment string
	Scale      int
	TPS        int
	Seed       int64
	Width      int
	Height     int
	Scene      bool

	// Overrides holds key=value pairs forwarded to lab.FromMap.
	Overrides map[string]string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	def := lab.DefaultConfig()
	return &Config{
		Experiment: def.Experiment,
		Scale:      2,
		TPS:        60,
		Seed:       def.Seed,
		Width:      def.Width,
		Height:     def.Height,
		Scene:      def.Scene,
		Overrides:  map[string]string{},
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Experiment, "experiment", c.Experiment, "experiment module to open")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.Width, "w", c.Width, "grid width in cells")
	fs.IntVar(&c.Height, "h", c.Height, "grid height in cells")
	fs.BoolVar(&c.Scene, "scene", c.Scene, "lay out the experiment's preset scene")
	fs.Func("set", "engine override as key=value (repeatable)", func(s string) error {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("want key=value, got %q", s)
		}
		if c.Overrides == nil {
			c.Overrides = map[string]string{}
		}
		c.Overrides[key] = strings.TrimSpace(value)
		return nil
	})
}

// Values flattens the configuration into the string map understood by the
// sim registry.
func (c *Config) Values() map[string]string {
	out := make(map[string]string, len(c.Overrides)+6)
	for k, v := range c.Overrides {
		out[k] = v
	}
	out["experiment"] = c.Experiment
	out["w"] = fmt.Sprint(c.Width)
	out["h"] = fmt.Sprint(c.Height)
	out["seed"] = fmt.Sprint(c.Seed)
	out["scene"] = fmt.Sprint(c.Scene)
	return out
}

// Lab converts the flags into a session configuration.
func (c *Config) Lab() lab.Config {
	return lab.FromMap(c.Values())
}
