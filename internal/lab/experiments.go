package lab

import (
	"errors"
	"fmt"
	"strings"

	"phase-lab/internal/core"
)

// ErrUnknownExperiment is returned for ids outside the module list.
var ErrUnknownExperiment = errors.New("unknown experiment")

// ErrToolUnavailable is returned when a tool is not on the active palette.
var ErrToolUnavailable = errors.New("tool not available in experiment")

// Experiment is one lab module: a palette of tools around a physical theme.
type Experiment struct {
	ID          string
	Name        string
	DefaultTool string
	Tools       []Tool
}

// Tool returns the palette entry with the given id.
func (e Experiment) Tool(id string) (Tool, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	for _, t := range e.Tools {
		if t.ID == key {
			return t, nil
		}
	}
	if _, err := ParseTool(key); err != nil {
		return Tool{}, err
	}
	return Tool{}, fmt.Errorf("%w: %s in %s", ErrToolUnavailable, key, e.ID)
}

func common() []Tool {
	return []Tool{paletteTool("wall", "Static Wall"), paletteTool("eraser", "Eraser")}
}

func palette(tools ...Tool) []Tool { return append(tools, common()...) }

var experiments = []Experiment{
	{ID: "phase", Name: "Phase", DefaultTool: "ice", Tools: palette(
		paletteTool("ice", "H2O Seeder"), paletteTool("heat", "Heat Brush"), paletteTool("cold", "Cold Brush"))},
	{ID: "chem", Name: "Chem", DefaultTool: "acid", Tools: palette(
		paletteTool("acid", "Acid (HCl)"), paletteTool("base", "Base (NaOH)"), paletteTool("neutralize", "Neutralizer"))},
	{ID: "magnet", Name: "Magnet", DefaultTool: "iron", Tools: palette(
		paletteTool("iron", "Iron Filings"), paletteTool("magnet", "Dipole Magnet"))},
	{ID: "circuit", Name: "Circuit", DefaultTool: "graphite", Tools: palette(
		paletteTool("graphite", "Graphite"), paletteTool("power", "Power Probe"))},
	{ID: "filtration", Name: "Filtration", DefaultTool: "gold", Tools: palette(
		paletteTool("gold", "Gold (Heavy)"), paletteTool("silt", "Silt (Light)"),
		paletteTool("membrane", "Membrane"), paletteTool("water", "Solvent"))},
	{ID: "erosion", Name: "Erosion", DefaultTool: "clay", Tools: palette(
		paletteTool("clay", "Soft Clay"), paletteTool("granite", "Hard Granite"), paletteTool("water", "Water Source"))},
	{ID: "optics", Name: "Optics", DefaultTool: "photon", Tools: palette(
		paletteTool("photon", "Light Source"), paletteTool("glass", "Prism/Glass"), paletteTool("mirror", "Mirror"))},
	{ID: "electricity", Name: "Electricity", DefaultTool: "copper", Tools: palette(
		paletteTool("copper", "Copper"), paletteTool("silicon", "Silicon"), paletteTool("electron", "Electron Seeder"),
		paletteTool("power", "Battery/Source"), paletteTool("glass", "Glass Insulator"))},
	{ID: "osmosis", Name: "Osmosis", DefaultTool: "water", Tools: palette(
		paletteTool("water", "Water (Solvent)"), paletteTool("salt", "Salt (Solute)"), paletteTool("membrane", "Membrane"))},
	{ID: "nuclear", Name: "Nuclear", DefaultTool: "isotope", Tools: palette(
		paletteTool("isotope", "Isotope-235"), paletteTool("radiation", "Radiation Field"),
		paletteTool("neutron", "Neutron Source"), paletteTool("lead", "Stable Lead"))},
}

// Experiments lists the modules in display order.
func Experiments() []Experiment {
	out := make([]Experiment, len(experiments))
	copy(out, experiments)
	return out
}

// Lookup resolves an experiment by id.
func Lookup(id string) (Experiment, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	for _, e := range experiments {
		if e.ID == key {
			return e, nil
		}
	}
	return Experiment{}, fmt.Errorf("%w %q", ErrUnknownExperiment, id)
}

// Next returns the module after id in display order, wrapping around.
func Next(id string, dir int) Experiment {
	idx := 0
	for i, e := range experiments {
		if e.ID == id {
			idx = i
			break
		}
	}
	n := len(experiments)
	return experiments[((idx+dir)%n+n)%n]
}

func init() {
	for _, e := range experiments {
		id := e.ID
		core.Register(id, func(cfg map[string]string) core.Sim {
			c := FromMap(cfg)
			c.Experiment = id
			return NewSession(c)
		})
	}
}
