package lab

import (
	"math"
	"strconv"
	"strings"

	"phase-lab/internal/core"
)

// Parameters reports the session tunables grouped for the HUD.
func (s *Session) Parameters() core.ParameterSnapshot {
	eng := s.cfg.Engine
	groups := []core.ParameterGroup{
		{
			Name: "Session",
			Params: []core.Parameter{
				core.StringParam("experiment", "Experiment", s.exp.ID),
				core.StringParam("tool", "Tool", s.tool.ID),
				core.IntParam("w", "Width", s.eng.Width()),
				core.IntParam("h", "Height", s.eng.Height()),
				core.Int64Param("seed", "Seed", s.cfg.Seed),
			},
		},
		{
			Name: "Engine",
			Params: []core.Parameter{
				core.FloatParam("molecular_motion", "Molecular motion", eng.MolecularMotion),
				core.FloatParam("magnetic_polarity", "Magnetic polarity", eng.MagneticPolarity),
				core.FloatParam("electrical_conductivity", "Conductivity", eng.ElectricalConductivity),
			},
		},
		{
			Name: "Brush",
			Params: []core.Parameter{
				core.IntParam("brush_size", "Brush radius", eng.BrushSize),
				core.FloatParam("trail_intensity", "Trail intensity", eng.TrailIntensity),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

const maxBrush = 50

var controls = []core.ParameterControl{
	{Key: "brush_size", Label: "Brush radius", Type: core.ParamTypeInt, Step: 2, Min: 0, Max: maxBrush, HasMin: true, HasMax: true},
	{Key: "molecular_motion", Label: "Molecular motion", Type: core.ParamTypeFloat, Step: 0.1, Min: 0, Max: 4, HasMin: true, HasMax: true},
	{Key: "magnetic_polarity", Label: "Polarity", Type: core.ParamTypeFloat, Step: 2, Min: -1, Max: 1, HasMin: true, HasMax: true},
	{Key: "electrical_conductivity", Label: "Conductivity", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
	{Key: "trail_intensity", Label: "Trail intensity", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1.3, HasMin: true, HasMax: true},
}

// ParameterControls lists the HUD-adjustable values.
func (s *Session) ParameterControls() []core.ParameterControl {
	out := make([]core.ParameterControl, len(controls))
	copy(out, controls)
	return out
}

func findControl(key string) (core.ParameterControl, bool) {
	for _, c := range controls {
		if c.Key == key {
			return c, true
		}
	}
	return core.ParameterControl{}, false
}

// SetFloatParameter updates a floating-point engine tunable.
func (s *Session) SetFloatParameter(key string, value float64) bool {
	ctrl, ok := findControl(key)
	if !ok || ctrl.Type != core.ParamTypeFloat || math.IsNaN(value) {
		return false
	}
	value = ctrl.Clamp(value)
	switch key {
	case "molecular_motion":
		s.cfg.Engine.MolecularMotion = value
	case "magnetic_polarity":
		if value < 0 {
			s.cfg.Engine.MagneticPolarity = -1
		} else {
			s.cfg.Engine.MagneticPolarity = 1
		}
	case "electrical_conductivity":
		s.cfg.Engine.ElectricalConductivity = value
	case "trail_intensity":
		s.cfg.Engine.TrailIntensity = value
	default:
		return false
	}
	return true
}

// SetIntParameter updates an integer tunable.
func (s *Session) SetIntParameter(key string, value int) bool {
	ctrl, ok := findControl(key)
	if !ok || ctrl.Type != core.ParamTypeInt {
		return false
	}
	value = int(ctrl.Clamp(float64(value)))
	switch key {
	case "brush_size":
		s.cfg.Engine.BrushSize = value
	default:
		return false
	}
	return true
}

// Set applies a key/value pair received as text, as the stream protocol
// and command-line overrides deliver them. Keys with a HUD control must lie
// within the control limits; anything else is rejected.
func (s *Session) Set(key, value string) bool {
	ctrl, ok := findControl(key)
	if !ok {
		return s.cfg.Engine.Apply(map[string]string{key: value}) > 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if (ctrl.HasMin && v < ctrl.Min) || (ctrl.HasMax && v > ctrl.Max) {
		return false
	}
	if ctrl.Type == core.ParamTypeInt {
		if v != math.Trunc(v) {
			return false
		}
		return s.SetIntParameter(key, int(v))
	}
	return s.SetFloatParameter(key, v)
}
