package phase

import (
	"strconv"
	"strings"
)

// Config carries the per-tick tunables. The engine reads MolecularMotion,
// MagneticPolarity and ElectricalConductivity; the remaining fields belong to
// the rendering and input layers and are carried through untouched.
type Config struct {
	MolecularMotion        float64
	MagneticPolarity       float64
	ElectricalConductivity float64

	Gravity         float64
	BrushSize       int
	GlobalTemp      float64
	Pressure        float64
	LatentHeatRatio float64
	TrailIntensity  float64
	BackgroundColor string
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		MolecularMotion:        1.2,
		MagneticPolarity:       1,
		ElectricalConductivity: 0.85,
		Gravity:                0.8,
		BrushSize:              12,
		GlobalTemp:             20,
		Pressure:               1.0,
		LatentHeatRatio:        0.05,
		TrailIntensity:         1.15,
		BackgroundColor:        "#0d1117",
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Malformed values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.Apply(cfg)
	return c
}

// Apply overrides fields named in cfg and returns how many values were
// accepted.
func (c *Config) Apply(cfg map[string]string) int {
	n := 0
	if v, ok := cfg["molecular_motion"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.MolecularMotion = parsed
			n++
		}
	}
	if v, ok := cfg["magnetic_polarity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			switch {
			case parsed < 0:
				c.MagneticPolarity = -1
				n++
			case parsed > 0:
				c.MagneticPolarity = 1
				n++
			}
		}
	}
	if v, ok := cfg["electrical_conductivity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.ElectricalConductivity = parsed
			n++
		}
	}
	if v, ok := cfg["gravity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Gravity = parsed
			n++
		}
	}
	if v, ok := cfg["brush_size"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.BrushSize = parsed
			n++
		}
	}
	if v, ok := cfg["global_temp"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.GlobalTemp = parsed
			n++
		}
	}
	if v, ok := cfg["pressure"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Pressure = parsed
			n++
		}
	}
	if v, ok := cfg["latent_heat_ratio"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.LatentHeatRatio = parsed
			n++
		}
	}
	if v, ok := cfg["trail_intensity"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.TrailIntensity = parsed
			n++
		}
	}
	if v, ok := cfg["background_color"]; ok {
		if v = strings.TrimSpace(v); strings.HasPrefix(v, "#") {
			c.BackgroundColor = v
			n++
		}
	}
	return n
}
