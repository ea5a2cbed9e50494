package lab

import "math"

const sprinkle = 0.25

// Paint applies tool at grid coordinates (x, y) using the configured brush
// radius. Any tool other than the magnet removes the dipole.
func (s *Session) Paint(tool Tool, x, y float64) error {
	cx, cy := int(math.Floor(x)), int(math.Floor(y))
	if tool.Kind == ToolMagnet {
		s.eng.SetMagnet(cx, cy)
		return nil
	}
	s.eng.ClearMagnet()

	r := s.cfg.Engine.BrushSize
	if tool.Kind == ToolEffect {
		s.eng.ApplyThermodynamics(cx, cy, r, tool.Effect)
		return nil
	}

	solid := tool.Solid()
	beam := tool.Beam()
	w, h := s.eng.Width(), s.eng.Height()
	for dy := max(-r, -cy); dy <= min(r, h-1-cy); dy++ {
		for dx := max(-r, -cx); dx <= min(r, w-1-cx); dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			if !solid && !s.rng.Chance(sprinkle) {
				continue
			}
			heading := 0.0
			if beam {
				heading = s.rng.Angle()
			}
			if err := s.eng.SetParticle(cx+dx, cy+dy, tool.Particle, heading); err != nil {
				return err
			}
		}
	}
	return nil
}

// PaintActive applies the selected tool.
func (s *Session) PaintActive(x, y float64) error {
	return s.Paint(s.tool, x, y)
}

// Release ends a stroke. The magnet only persists while held.
func (s *Session) Release() {
	s.eng.ClearMagnet()
}
