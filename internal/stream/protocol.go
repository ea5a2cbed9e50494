package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"phase-lab/internal/lab"
)

var (
	// ErrUnknownCommand is reported for unrecognized command types.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrBadParameter is reported when a set command is rejected.
	ErrBadParameter = errors.New("bad parameter")
)

// Counts mirrors phase.Counts on the wire.
type Counts struct {
	Isotope int `json:"isotope"`
	Lead    int `json:"lead"`
	Water   int `json:"water"`
	Salt    int `json:"salt"`
}

// Point is a grid coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Frame is broadcast to every client. Cells carries one particle id per
// cell, row-major, base64-encoded by encoding/json.
type Frame struct {
	Type       string  `json:"type"`
	Tick       int     `json:"tick"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Cells      []byte  `json:"cells"`
	Counts     Counts  `json:"counts"`
	HalfLife   float64 `json:"halfLife"`
	Running    bool    `json:"running"`
	Experiment string  `json:"experiment"`
	Tool       string  `json:"tool"`
	Magnet     *Point  `json:"magnet,omitempty"`
}

// ErrorMessage answers a command that could not be applied.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Command is a client request. Only the fields relevant to Type are read.
type Command struct {
	Type   string  `json:"type"`
	Tool   string  `json:"tool,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Radius *int    `json:"radius,omitempty"`
	Name   string  `json:"name,omitempty"`
	Key    string  `json:"key,omitempty"`
	Value  string  `json:"value,omitempty"`
	Seed   *int64  `json:"seed,omitempty"`
}

// Apply executes the command against a session.
func (c Command) Apply(s *lab.Session) error {
	switch strings.ToLower(c.Type) {
	case "paint":
		tool := s.Tool()
		if c.Tool != "" {
			t, err := lab.ParseTool(c.Tool)
			if err != nil {
				return err
			}
			tool = t
		}
		if c.Radius != nil && !s.Set("brush_size", strconv.Itoa(*c.Radius)) {
			return fmt.Errorf("%w: radius %d", ErrBadParameter, *c.Radius)
		}
		return s.Paint(tool, c.X, c.Y)
	case "release":
		s.Release()
	case "tool":
		return s.SelectTool(c.Tool)
	case "pause":
		s.SetRunning(false)
	case "resume":
		s.SetRunning(true)
	case "step":
		s.Advance()
	case "reset":
		seed := s.Config().Seed
		if c.Seed != nil {
			seed = *c.Seed
		}
		s.Reset(seed)
	case "clear":
		s.Clear()
	case "experiment":
		return s.SetExperiment(c.Name)
	case "set":
		if !s.Set(c.Key, c.Value) {
			return fmt.Errorf("%w: %s=%q", ErrBadParameter, c.Key, c.Value)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, c.Type)
	}
	return nil
}

// snapshot captures the session state for broadcast.
func snapshot(s *lab.Session) Frame {
	eng := s.Engine()
	counts := s.Counts()
	f := Frame{
		Type:       "frame",
		Tick:       eng.Stats().Ticks,
		Width:      eng.Width(),
		Height:     eng.Height(),
		Cells:      s.Cells(),
		Counts:     Counts{Isotope: counts.Isotope, Lead: counts.Lead, Water: counts.Water, Salt: counts.Salt},
		HalfLife:   counts.HalfLife(),
		Running:    s.Running(),
		Experiment: s.Experiment().ID,
		Tool:       s.Tool().ID,
	}
	if x, y, ok := eng.Magnet(); ok {
		f.Magnet = &Point{X: x, Y: y}
	}
	return f
}

func encodeError(err error) []byte {
	b, _ := json.Marshal(ErrorMessage{Type: "error", Message: err.Error()})
	return b
}
