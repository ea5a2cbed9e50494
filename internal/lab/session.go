package lab

import (
	"phase-lab/internal/core"
	pcore "phase-lab/pkg/core"
	"phase-lab/pkg/phase"
)

// countsInterval is the number of frames between telemetry refreshes.
const countsInterval = 30

var (
	_ core.Sim                       = (*Session)(nil)
	_ core.ParameterProvider         = (*Session)(nil)
	_ core.ParameterControlsProvider = (*Session)(nil)
	_ core.IntParameterSetter        = (*Session)(nil)
	_ core.FloatParameterSetter      = (*Session)(nil)
)

// Session binds an engine to an experiment, its active tool and the run
// state. It implements core.Sim.
type Session struct {
	cfg  Config
	exp  Experiment
	tool Tool

	eng     *phase.Engine
	rng     *pcore.RNG
	display *core.ByteGrid

	running bool
	frames  int
	counts  phase.Counts
}

// NewSession builds a session and resets it with cfg.Seed.
func NewSession(cfg Config) *Session {
	exp, err := Lookup(cfg.Experiment)
	if err != nil {
		exp = experiments[0]
	}
	cfg.Experiment = exp.ID
	rng := pcore.NewRNG(cfg.Seed)
	s := &Session{
		cfg:     cfg,
		exp:     exp,
		eng:     phase.New(cfg.Width, cfg.Height, rng),
		rng:     rng,
		running: true,
	}
	s.display = core.NewByteGrid(s.eng.Width(), s.eng.Height())
	s.tool, _ = exp.Tool(exp.DefaultTool)
	s.Reset(cfg.Seed)
	return s
}

// Name identifies the active experiment.
func (s *Session) Name() string { return s.exp.ID }

// Size returns the grid dimensions.
func (s *Session) Size() core.Size { return core.Size{W: s.eng.Width(), H: s.eng.Height()} }

// Reset clears the grid, reseeds the generator and lays out the preset
// scene when enabled.
func (s *Session) Reset(seed int64) {
	s.cfg.Seed = seed
	s.rng.Seed(seed)
	s.eng.Reset()
	if s.cfg.Scene {
		buildScene(s.exp.ID, s.eng, s.rng, seed)
	}
	s.frames = 0
	s.counts = s.eng.Counts()
}

// Clear empties the field without laying out a scene.
func (s *Session) Clear() {
	s.eng.Reset()
	s.display.Clear()
	s.frames = 0
	s.counts = phase.Counts{}
}

// Step advances the engine by one frame, honoring the run state.
func (s *Session) Step() {
	s.eng.Tick(s.cfg.Engine, s.running)
	s.frames++
	if s.frames%countsInterval == 0 {
		s.counts = s.eng.Counts()
	}
}

// Advance ticks once regardless of the run state.
func (s *Session) Advance() {
	s.eng.Tick(s.cfg.Engine, true)
	s.counts = s.eng.Counts()
}

// Cells exposes the occupancy grid as raw particle ids.
func (s *Session) Cells() []uint8 {
	out := s.display.Cells()
	for i, p := range s.eng.Occupancy() {
		out[i] = uint8(p)
	}
	return out
}

// Engine exposes the underlying engine for renderers.
func (s *Session) Engine() *phase.Engine { return s.eng }

// Config returns the current configuration.
func (s *Session) Config() Config { return s.cfg }

// EngineConfig returns the per-tick engine configuration.
func (s *Session) EngineConfig() phase.Config { return s.cfg.Engine }

// Running reports whether Step advances the grid.
func (s *Session) Running() bool { return s.running }

// SetRunning pauses or resumes the session.
func (s *Session) SetRunning(running bool) { s.running = running }

// Toggle flips the run state and returns the new value.
func (s *Session) Toggle() bool {
	s.running = !s.running
	return s.running
}

// Frames returns the number of Step calls since the last reset.
func (s *Session) Frames() int { return s.frames }

// Counts returns the telemetry sampled every 30 frames.
func (s *Session) Counts() phase.Counts { return s.counts }

// RefreshCounts samples telemetry immediately.
func (s *Session) RefreshCounts() phase.Counts {
	s.counts = s.eng.Counts()
	return s.counts
}

// Experiment returns the active module.
func (s *Session) Experiment() Experiment { return s.exp }

// SetExperiment switches module and selects its default tool. The grid is
// left untouched.
func (s *Session) SetExperiment(id string) error {
	exp, err := Lookup(id)
	if err != nil {
		return err
	}
	s.exp = exp
	s.cfg.Experiment = exp.ID
	s.tool, _ = exp.Tool(exp.DefaultTool)
	return nil
}

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// SelectTool activates a tool from the current palette.
func (s *Session) SelectTool(id string) error {
	t, err := s.exp.Tool(id)
	if err != nil {
		return err
	}
	s.tool = t
	return nil
}

// CycleTool steps through the palette.
func (s *Session) CycleTool(dir int) Tool {
	tools := s.exp.Tools
	idx := 0
	for i, t := range tools {
		if t.ID == s.tool.ID {
			idx = i
			break
		}
	}
	n := len(tools)
	s.tool = tools[((idx+dir)%n+n)%n]
	return s.tool
}
