package lab

import (
	"errors"
	"fmt"
	"strings"

	"phase-lab/pkg/phase"
)

// ToolKind selects how a brush stroke reaches the engine.
type ToolKind uint8

const (
	// ToolParticle paints particles into the brush circle.
	ToolParticle ToolKind = iota
	// ToolEffect applies a thermodynamic effect.
	ToolEffect
	// ToolMagnet positions the magnetic dipole.
	ToolMagnet
	// ToolEraser paints empty cells.
	ToolEraser
)

// ErrUnknownTool is returned for tool ids outside the catalogue.
var ErrUnknownTool = errors.New("unknown tool")

// Tool describes one brush in the palette.
type Tool struct {
	ID       string
	Label    string
	Kind     ToolKind
	Particle phase.Particle
	Effect   phase.Effect
	Color    string

	Title       string
	Description string
	Principle   string
}

// Beam reports whether the tool paints directional particles.
func (t Tool) Beam() bool { return t.Kind == ToolParticle && t.Particle.Beam() }

// Solid reports whether the tool fills its circle completely rather than
// sprinkling it.
func (t Tool) Solid() bool { return t.Kind == ToolEraser || t.Particle.Static() }

func particleTool(id string, p phase.Particle, col, title, desc, principle string) Tool {
	return Tool{ID: id, Kind: ToolParticle, Particle: p, Color: col, Title: title, Description: desc, Principle: principle}
}

func effectTool(id string, eff phase.Effect, col, title, desc, principle string) Tool {
	return Tool{ID: id, Kind: ToolEffect, Effect: eff, Color: col, Title: title, Description: desc, Principle: principle}
}

var catalogue = map[string]Tool{
	"heat":       effectTool("heat", phase.Heat, "#FF4F00", "Thermal Excitation", "Increases kinetic energy, breaking intermolecular bonds and forcing phase transitions.", "Kinetic Theory"),
	"cold":       effectTool("cold", phase.Cold, "#00B0FF", "Cryogenic Depletion", "Removes thermal energy, slowing molecules until they settle into crystalline lattices.", "Thermodynamics"),
	"neutralize": effectTool("neutralize", phase.Neutralize, "#00E676", "Neutralizer", "Converts acids and bases under the brush into salt or water.", "Neutralization"),
	"power":      effectTool("power", phase.Power, "#FFEB3B", "Voltage Source", "An electrode that injects potential energy, driving electrons through conductors.", "Ohm's Law"),
	"radiation":  effectTool("radiation", phase.Radiation, "#E91E63", "Radiation Field", "A region of high-energy flux that increases the probability of nuclear transitions.", "Quantum Tunneling"),

	"magnet": {ID: "magnet", Kind: ToolMagnet, Color: "#D32F2F", Title: "Magnetic Dipole", Description: "An effector creating flux lines that exert force on ferromagnetic matter.", Principle: "Lorentz Force"},
	"eraser": {ID: "eraser", Kind: ToolEraser, Particle: phase.Empty, Color: "#000000", Title: "Mass Erasure", Description: "Total spatial removal of particulate matter from the observation grid.", Principle: "Void Creation"},

	"wall":     particleTool("wall", phase.Wall, "#333333", "Static Wall", "An immovable boundary.", "Containment"),
	"ice":      particleTool("ice", phase.Ice, "#B2EBF2", "Crystalline H2O", "A solid state where hydrogen bonds lock molecules into a rigid, low-density lattice.", "Solidification"),
	"acid":     particleTool("acid", phase.Acid, "#FF1744", "Corrosive Reagent", "A proton-donating liquid that reacts exothermically with basic compounds.", "Acidity"),
	"base":     particleTool("base", phase.Base, "#3D5AFE", "Alkaline Solution", "A hydroxide-rich liquid that neutralizes acids through ionic exchange.", "Basicity"),
	"iron":     particleTool("iron", phase.Iron, "#78909C", "Magnetic Dust", "Ferromagnetic particles that align their spins with external magnetic field vectors.", "Ferromagnetism"),
	"graphite": particleTool("graphite", phase.Graphite, "#263238", "Conductive Carbon", "An allotrope of carbon with delocalized electrons, allowing current flow.", "Electron Mobility"),
	"gold":     particleTool("gold", phase.Gold, "#FFD700", "Dense Aurum", "High-mass particles that fall rapidly and displace lighter fluids.", "Gravitational Inertia"),
	"silt":     particleTool("silt", phase.Silt, "#D7CCC8", "Fine Sediment", "Low-mass particulates that are easily suspended in fluids and diffuse through pores.", "Diffusion"),
	"membrane": particleTool("membrane", phase.Membrane, "#546E7A", "Semi-Permeable Barrier", "A microscopic filter that allows small solvent molecules (Water) to pass but blocks larger solute particles (Salt).", "Osmosis"),
	"water":    particleTool("water", phase.Water, "#03A9F4", "Universal Solvent", "A polar liquid that flows over strata, potentially causing particle displacement or erasure.", "Hydrological Erosion"),
	"clay":     particleTool("clay", phase.Clay, "#A1887F", "Soft Clay Strata", "Unconsolidated geological material that erodes quickly when exposed to flowing water.", "Weathering"),
	"granite":  particleTool("granite", phase.Granite, "#424242", "Hard Granite Bedrock", "Dense igneous rock with high cohesive strength, resisting erosion for long periods.", "Geomorphology"),
	"glass":    particleTool("glass", phase.Glass, "#81D4FA", "Glass Insulator", "A transparent medium that blocks electrical charge while permitting optical transmission.", "High Resistance"),
	"mirror":   particleTool("mirror", phase.Mirror, "#B0BEC5", "Reflective Mirror", "A polished surface that reflects photons perfectly, with angle of incidence equaling angle of reflection.", "Law of Reflection"),
	"photon":   particleTool("photon", phase.Photon, "#FFFFFF", "Photon Beam", "Elementary particles of light moving in straight lines. They refract in glass and reflect on mirrors.", "Snell's Law"),
	"copper":   particleTool("copper", phase.Copper, "#B87333", "Copper Conductor", "A metal with extremely low resistance, allowing electrons to move with high velocity.", "Conductivity"),
	"silicon":  particleTool("silicon", phase.Silicon, "#4A4A4A", "Semiconductor", "A material whose conductivity is between a conductor and an insulator, often used in chips.", "Band Gap Physics"),
	"electron": particleTool("electron", phase.Electron, "#FFFF00", "Electron Flow", "Negative charge carriers that travel through conductive paths. They pile up at insulators.", "Electric Current"),
	"salt":     particleTool("salt", phase.Salt, "#FFFFFF", "Ionic Solute (NaCl)", "Large crystalline particles that cannot pass through semi-permeable membranes, creating osmotic potential.", "Solute Concentration"),
	"isotope":  particleTool("isotope", phase.Isotope, "#4AF626", "Radioisotope", "Unstable atomic nuclei that spontaneously decay into more stable forms over time.", "Radioactive Decay"),
	"lead":     particleTool("lead", phase.Lead, "#546E7A", "Stable Lead", "The dense, non-radioactive byproduct of nuclear decay. Blocks most radiation.", "Stability"),
	"neutron":  particleTool("neutron", phase.Neutron, "#FFFC00", "Neutron Particle", "Fast, uncharged subatomic particles that can trigger decay in unstable atoms via impact.", "Chain Reaction"),
}

// ParseTool resolves a tool id from the catalogue.
func ParseTool(id string) (Tool, error) {
	t, ok := catalogue[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Tool{}, fmt.Errorf("%w %q", ErrUnknownTool, id)
	}
	t.Label = t.Title
	return t, nil
}

func paletteTool(id, label string) Tool {
	t, err := ParseTool(id)
	if err != nil {
		panic(err)
	}
	t.Label = label
	return t
}
