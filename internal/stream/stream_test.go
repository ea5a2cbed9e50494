package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"phase-lab/internal/lab"
	"phase-lab/pkg/phase"

	"github.com/gorilla/websocket"
)

func testSession(w, h int) *lab.Session {
	cfg := lab.DefaultConfig()
	cfg.Width, cfg.Height = w, h
	cfg.Scene = false
	return lab.NewSession(cfg)
}

func intPtr(v int) *int { return &v }

func TestCommandApply(t *testing.T) {
	s := testSession(20, 10)
	cmds := []Command{
		{Type: "pause"},
		{Type: "paint", Tool: "wall", X: 5.5, Y: 5.2, Radius: intPtr(0)},
		{Type: "set", Key: "molecular_motion", Value: "2"},
	}
	for _, c := range cmds {
		if err := c.Apply(s); err != nil {
			t.Fatalf("%s: %v", c.Type, err)
		}
	}
	if s.Running() || s.Engine().At(5, 5) != phase.Wall || s.EngineConfig().MolecularMotion != 2 {
		t.Fatal("commands not applied")
	}

	if err := (Command{Type: "warp"}).Apply(s); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
	if err := (Command{Type: "set", Key: "molecular_motion", Value: "fast"}).Apply(s); !errors.Is(err, ErrBadParameter) {
		t.Fatalf("expected ErrBadParameter, got %v", err)
	}
	if err := (Command{Type: "experiment", Name: "alchemy"}).Apply(s); !errors.Is(err, lab.ErrUnknownExperiment) {
		t.Fatalf("expected ErrUnknownExperiment, got %v", err)
	}
	if err := (Command{Type: "paint", Tool: "plasma"}).Apply(s); !errors.Is(err, lab.ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}

	if err := (Command{Type: "paint", Tool: "magnet", X: 3, Y: 4}).Apply(s); err != nil {
		t.Fatal(err)
	}
	f := snapshot(s)
	if f.Magnet == nil || *f.Magnet != (Point{X: 3, Y: 4}) {
		t.Fatalf("magnet missing from frame: %+v", f.Magnet)
	}
	_ = Command{Type: "release"}.Apply(s)
	if snapshot(s).Magnet != nil {
		t.Fatal("release should clear the magnet")
	}

	_ = Command{Type: "clear"}.Apply(s)
	if s.Engine().At(5, 5) != phase.Empty {
		t.Fatal("clear should empty the grid")
	}
}

func TestOversizedBrushRejected(t *testing.T) {
	s := testSession(20, 20)
	before := s.EngineConfig().BrushSize

	done := make(chan error, 1)
	go func() {
		done <- Command{Type: "paint", Tool: "wall", X: 10, Y: 10, Radius: intPtr(30000)}.Apply(s)
	}()
	select {
	case err := <-done:
		if !errors.Is(err, ErrBadParameter) {
			t.Fatalf("expected ErrBadParameter, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("oversized paint did not return")
	}
	if err := (Command{Type: "set", Key: "brush_size", Value: "30000"}).Apply(s); !errors.Is(err, ErrBadParameter) {
		t.Fatalf("expected ErrBadParameter, got %v", err)
	}
	if err := (Command{Type: "paint", Tool: "wall", X: 10, Y: 10, Radius: intPtr(-1)}).Apply(s); !errors.Is(err, ErrBadParameter) {
		t.Fatalf("expected ErrBadParameter for a negative radius, got %v", err)
	}
	if got := s.EngineConfig().BrushSize; got != before {
		t.Fatalf("brush size changed to %d", got)
	}
	if s.Engine().At(10, 10) != phase.Empty {
		t.Fatal("rejected paint must not draw")
	}
}

func TestSnapshotEncoding(t *testing.T) {
	s := testSession(4, 2)
	_ = s.Engine().SetParticle(1, 0, phase.Isotope, 0)
	_ = s.Engine().SetParticle(2, 1, phase.Lead, 0)
	s.RefreshCounts()
	b, err := json.Marshal(snapshot(s))
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["type"] != "frame" || raw["experiment"] != "phase" || raw["halfLife"] != 50.0 {
		t.Fatalf("unexpected frame fields %v", raw)
	}
	if _, ok := raw["magnet"]; ok {
		t.Fatal("magnet should be omitted when absent")
	}
	var f Frame
	if err := json.Unmarshal(b, &f); err != nil {
		t.Fatal(err)
	}
	if len(f.Cells) != 8 || f.Cells[1] != uint8(phase.Isotope) || f.Cells[6] != uint8(phase.Lead) {
		t.Fatalf("cells = %v", f.Cells)
	}
	if f.Counts != (Counts{Isotope: 1, Lead: 1}) {
		t.Fatalf("counts = %+v", f.Counts)
	}
}

func startHub(t *testing.T, s *lab.Session) *websocket.Conn {
	t.Helper()
	hub := NewHub(s, Options{TPS: 200, FrameEvery: 1})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	srv := httptest.NewServer(hub)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		cancel()
		srv.Close()
		t.Fatal(err)
	}
	t.Cleanup(func() {
		conn.Close()
		cancel()
		<-done
		srv.Close()
	})
	return conn
}

type message struct {
	Frame
	Message string `json:"message"`
}

// readUntil reads messages until match accepts one or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, match func(message) bool) message {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		var m message
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read: %v", err)
		}
		if match(m) {
			return m
		}
	}
	t.Fatal("no matching message before the deadline")
	return message{}
}

func TestHubSendsInitialFrame(t *testing.T) {
	conn := startHub(t, testSession(20, 10))
	m := readUntil(t, conn, func(m message) bool { return m.Type == "frame" })
	if m.Width != 20 || m.Height != 10 || len(m.Cells) != 200 {
		t.Fatalf("frame %dx%d with %d cells", m.Width, m.Height, len(m.Cells))
	}
	if !m.Running || m.Tool != "ice" {
		t.Fatalf("unexpected state running=%v tool=%s", m.Running, m.Tool)
	}
}

func TestHubAppliesCommandsInOrder(t *testing.T) {
	conn := startHub(t, testSession(20, 10))
	cmds := []Command{
		{Type: "pause"},
		{Type: "experiment", Name: "optics"},
		{Type: "paint", Tool: "wall", X: 5, Y: 5, Radius: intPtr(0)},
	}
	for _, c := range cmds {
		if err := conn.WriteJSON(c); err != nil {
			t.Fatal(err)
		}
	}
	m := readUntil(t, conn, func(m message) bool {
		return m.Type == "frame" && len(m.Cells) == 200 && m.Cells[5*20+5] == uint8(phase.Wall)
	})
	if m.Running || m.Experiment != "optics" || m.Tool != "photon" {
		t.Fatalf("state after commands: running=%v experiment=%s tool=%s", m.Running, m.Experiment, m.Tool)
	}

	tick := m.Tick
	if err := conn.WriteJSON(Command{Type: "step"}); err != nil {
		t.Fatal(err)
	}
	m = readUntil(t, conn, func(m message) bool { return m.Type == "frame" && m.Tick > tick })
	if m.Tick != tick+1 {
		t.Fatalf("step should advance exactly one tick, got %d -> %d", tick, m.Tick)
	}
}

func TestHubSurvivesOversizedBrush(t *testing.T) {
	conn := startHub(t, testSession(20, 10))
	cmds := []Command{
		{Type: "paint", Tool: "wall", X: 5, Y: 5, Radius: intPtr(30000)},
		{Type: "set", Key: "brush_size", Value: "30000"},
	}
	for _, c := range cmds {
		if err := conn.WriteJSON(c); err != nil {
			t.Fatal(err)
		}
		m := readUntil(t, conn, func(m message) bool { return m.Type == "error" })
		if !strings.Contains(m.Message, "bad parameter") {
			t.Fatalf("error message = %q", m.Message)
		}
	}
	if err := conn.WriteJSON(Command{Type: "pause"}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, func(m message) bool { return m.Type == "frame" && !m.Running })
}

func TestHubReportsErrors(t *testing.T) {
	conn := startHub(t, testSession(10, 10))
	if err := conn.WriteJSON(Command{Type: "warp"}); err != nil {
		t.Fatal(err)
	}
	m := readUntil(t, conn, func(m message) bool { return m.Type == "error" })
	if !strings.Contains(m.Message, "unknown command") {
		t.Fatalf("error message = %q", m.Message)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type": 5}`)); err != nil {
		t.Fatal(err)
	}
	m = readUntil(t, conn, func(m message) bool { return m.Type == "error" })
	if !strings.Contains(m.Message, "malformed") {
		t.Fatalf("error message = %q", m.Message)
	}

	if err := conn.WriteJSON(Command{Type: "pause"}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, func(m message) bool { return m.Type == "frame" && !m.Running })
}
