// Package term renders a lab session in a terminal using half-block cells,
// two grid rows per character.
package term

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"phase-lab/internal/core"
	"phase-lab/internal/lab"
	"phase-lab/internal/render"
	"phase-lab/pkg/phase"

	"github.com/gdamore/tcell/v2"
)

const halfBlock = '▀'

// Viewer drives a session from a tcell screen.
type Viewer struct {
	screen  tcell.Screen
	session *lab.Session
	timer   *core.FixedStep
	seed    int64

	cursorX, cursorY int
	painting         bool
	// notice is the last command error, shown on the status line.
	notice string
}

// New binds an initialized screen to session. tps sets the tick rate.
func New(screen tcell.Screen, session *lab.Session, tps int) *Viewer {
	size := session.Size()
	return &Viewer{
		screen:  screen,
		session: session,
		timer:   core.NewFixedStep(tps),
		seed:    session.Config().Seed,
		cursorX: size.W / 2,
		cursorY: size.H / 2,
	}
}

// Run processes input and advances the session until ctx is done or the
// user quits.
func (v *Viewer) Run(ctx context.Context) error {
	v.screen.EnableMouse()
	events := make(chan tcell.Event, 64)
	go v.pollEvents(ctx, events)

	ticker := time.NewTicker(v.timer.Interval())
	defer ticker.Stop()
	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || !v.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			for v.timer.ShouldStep() {
				v.session.Step()
			}
			v.Draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or ctx
// is done, then closes events.
func (v *Viewer) pollEvents(ctx context.Context, events chan<- tcell.Event) {
	defer close(events)
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (v *Viewer) report(err error) {
	if err != nil {
		v.notice = err.Error()
		return
	}
	v.notice = ""
}

// HandleEvent applies a tcell event. It returns false when the viewer
// should exit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		v.handleMouse(x, y, ev.Buttons()&tcell.Button1 != 0)
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) handleKey(key tcell.Key, r rune) bool {
	step := v.stride()
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		v.report(v.session.SetExperiment(lab.Next(v.session.Experiment().ID, 1).ID))
	case tcell.KeyBacktab:
		v.report(v.session.SetExperiment(lab.Next(v.session.Experiment().ID, -1).ID))
	case tcell.KeyLeft:
		v.moveCursor(-step, 0)
	case tcell.KeyRight:
		v.moveCursor(step, 0)
	case tcell.KeyUp:
		v.moveCursor(0, -step)
	case tcell.KeyDown:
		v.moveCursor(0, step)
	case tcell.KeyEnter:
		v.paintCursor()
	case tcell.KeyRune:
		return v.handleRune(r)
	}
	return true
}

func (v *Viewer) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case ' ':
		v.session.Toggle()
	case 'n':
		v.session.Advance()
	case 'r':
		v.session.Reset(v.seed)
	case 'c':
		v.session.Clear()
	case '[':
		v.session.CycleTool(-1)
	case ']':
		v.session.CycleTool(1)
	case 'e':
		v.report(v.session.SelectTool("eraser"))
	case 'p':
		v.session.SetFloatParameter("magnetic_polarity", -v.session.EngineConfig().MagneticPolarity)
	case 'x':
		v.paintCursor()
	case 'X':
		v.session.Release()
	case '+':
		v.session.SetIntParameter("brush_size", v.session.EngineConfig().BrushSize+2)
	case '-':
		v.session.SetIntParameter("brush_size", v.session.EngineConfig().BrushSize-2)
	default:
		if r >= '1' && r <= '9' {
			tools := v.session.Experiment().Tools
			if idx := int(r - '1'); idx < len(tools) {
				v.report(v.session.SelectTool(tools[idx].ID))
			}
		}
	}
	return true
}

func (v *Viewer) handleMouse(x, y int, pressed bool) {
	if !pressed {
		if v.painting {
			v.session.Release()
		}
		v.painting = false
		return
	}
	gx, gy, ok := v.gridAt(x, y)
	if !ok {
		return
	}
	v.painting = true
	v.cursorX, v.cursorY = gx, gy
	v.report(v.session.PaintActive(float64(gx), float64(gy)))
}

func (v *Viewer) paintCursor() {
	v.report(v.session.PaintActive(float64(v.cursorX), float64(v.cursorY)))
}

func (v *Viewer) moveCursor(dx, dy int) {
	size := v.session.Size()
	v.cursorX = min(max(v.cursorX+dx, 0), size.W-1)
	v.cursorY = min(max(v.cursorY+dy, 0), size.H-1)
}

// stride is the number of grid cells folded into one terminal column.
func (v *Viewer) stride() int {
	cols, rows := v.screen.Size()
	return fieldStride(v.session.Size(), cols, rows-1)
}

func fieldStride(size core.Size, cols, rows int) int {
	if cols <= 0 || rows <= 0 {
		return 1
	}
	sx := (size.W + cols - 1) / cols
	sy := (size.H + 2*rows - 1) / (2 * rows)
	return max(sx, sy, 1)
}

// gridAt maps a terminal cell to the grid coordinate of its upper half.
func (v *Viewer) gridAt(x, y int) (int, int, bool) {
	_, rows := v.screen.Size()
	if y >= rows-1 {
		return 0, 0, false
	}
	s := v.stride()
	gx, gy := x*s, 2*y*s
	size := v.session.Size()
	if gx < 0 || gy < 0 || gx >= size.W || gy >= size.H {
		return 0, 0, false
	}
	return gx, gy, true
}

// Draw renders the field and the status line.
func (v *Viewer) Draw() {
	cols, rows := v.screen.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	v.screen.Clear()
	bg, err := render.ParseHex(v.session.EngineConfig().BackgroundColor)
	if err != nil {
		bg = render.Background
	}
	s := v.stride()
	eng := v.session.Engine()
	sample := func(x, y int) tcell.Color {
		if x >= eng.Width() || y >= eng.Height() {
			return toColor(bg)
		}
		p := eng.At(x, y)
		if p == phase.Empty {
			return toColor(bg)
		}
		return toColor(render.Color(p, x, y, eng.ChargeAt(x, y)))
	}
	for cy := 0; cy < rows-1; cy++ {
		for cx := 0; cx < cols; cx++ {
			gx, top, bottom := cx*s, 2*cy*s, (2*cy+1)*s
			if gx >= eng.Width() || top >= eng.Height() {
				continue
			}
			style := tcell.StyleDefault.Foreground(sample(gx, top)).Background(sample(gx, bottom))
			v.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
	cursorCol, cursorRow := v.cursorX/s, v.cursorY/(2*s)
	if cursorRow < rows-1 {
		v.screen.SetContent(cursorCol, cursorRow, '+', nil, tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(toColor(bg)))
	}

	status := []rune(v.statusLine())
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for x := 0; x < cols; x++ {
		r := ' '
		if x < len(status) {
			r = status[x]
		}
		v.screen.SetContent(x, rows-1, r, nil, style)
	}
	v.screen.Show()
}

func (v *Viewer) statusLine() string {
	counts := v.session.Counts()
	state := "run"
	if !v.session.Running() {
		state = "pause"
	}
	line := fmt.Sprintf(" %s | %s r%d | %s | iso %d lead %d water %d salt %d | t½ %.1f%% ",
		v.session.Experiment().Name, v.session.Tool().Label, v.session.EngineConfig().BrushSize,
		state, counts.Isotope, counts.Lead, counts.Water, counts.Salt, counts.HalfLife())
	if v.notice != "" {
		line += "| " + v.notice + " "
	}
	return line
}

func toColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
