//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"phase-lab/internal/core"
	"phase-lab/internal/lab"
	"phase-lab/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var (
	headerColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor    = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	activeColor = color.RGBA{R: 255, G: 235, B: 59, A: 255}
)

// HUD renders the tool palette, parameter controls and telemetry to the
// right of the simulation view.
type HUD struct {
	session    *lab.Session
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot

	expID        string
	tools        []toolRow
	controls     []hudControlState
	controlsTop  int
	panelOffsetX int

	pixel *ebiten.Image
}

type toolRow struct {
	tool lab.Tool
	rect image.Rectangle
	col  color.RGBA
}

type hudControlState struct {
	control core.ParameterControl
	value   string

	number   float64
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// NewHUD constructs a HUD for the session and panel width.
func NewHUD(session *lab.Session, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{session: session, width: width}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	controls := session.ParameterControls()
	h.controls = make([]hudControlState, len(controls))
	for i, ctrl := range controls {
		h.controls[i] = hudControlState{control: ctrl, value: "--"}
	}
	h.layout()
	return h
}

// Update refreshes the cached parameter snapshot and handles clicks on tool
// rows and control buttons.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	if h.session.Experiment().ID != h.expID {
		h.layout()
	}
	h.snapshot = h.session.Parameters()
	h.refreshControlValues()
	h.handleInput()
}

// Draw paints the HUD panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.session.Size().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawTools()
	h.drawControls()
	h.drawTelemetry()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) layout() {
	exp := h.session.Experiment()
	h.expID = exp.ID
	h.tools = h.tools[:0]
	top := controlsTop
	for _, t := range exp.Tools {
		col, err := render.ParseHex(t.Color)
		if err != nil {
			col = labelColor
		}
		rect := image.Rect(panelPadding, top, h.width-panelPadding, top+toolRowHeight)
		h.tools = append(h.tools, toolRow{tool: t, rect: rect, col: col})
		top += toolRowHeight
	}
	h.controlsTop = top + infoSpacing
	for i := range h.controls {
		rowTop := h.controlsTop + i*lineHeight
		h.controls[i].top = rowTop
		h.controls[i].minusRect, h.controls[i].plusRect = controlRects(h.width, rowTop)
	}
}

func (h *HUD) refreshControlValues() {
	for i := range h.controls {
		state := &h.controls[i]
		state.hasValue = false
		state.value = "--"
		param, ok := h.snapshot.Lookup(state.control.Key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			continue
		}
		state.number = parsed
		state.hasValue = true
		if state.control.Type == core.ParamTypeInt {
			state.value = strconv.Itoa(int(parsed))
		} else {
			state.value = formatFloat(state.control, parsed)
		}
	}
}

func (h *HUD) handleInput() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for _, row := range h.tools {
		if pointInRect(px, my, row.rect) {
			_ = h.session.SelectTool(row.tool.ID)
			return
		}
	}
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(px, my, state.minusRect) {
			h.applyAdjustment(state, -1)
			return
		}
		if pointInRect(px, my, state.plusRect) {
			h.applyAdjustment(state, 1)
			return
		}
	}
}

func (h *HUD) applyAdjustment(state *hudControlState, direction int) {
	target, ok := stepTarget(state.control, state.number, direction)
	if !ok {
		return
	}
	switch state.control.Type {
	case core.ParamTypeInt:
		ok = h.session.SetIntParameter(state.control.Key, int(target))
	case core.ParamTypeFloat:
		ok = h.session.SetFloatParameter(state.control.Key, target)
	default:
		ok = false
	}
	if ok {
		state.number = target
	}
}

func (h *HUD) drawTools() {
	face := basicfont.Face7x13
	exp := h.session.Experiment()
	text.Draw(h.panel, exp.Name+" Lab", face, panelPadding, panelPadding+headerBaseline, headerColor)
	active := h.session.Tool().ID
	for _, row := range h.tools {
		h.fillRect(image.Rect(row.rect.Min.X, row.rect.Min.Y+4, row.rect.Min.X+10, row.rect.Min.Y+14), row.col)
		fg := labelColor
		label := row.tool.Label
		if row.tool.ID == active {
			fg = activeColor
			label = "> " + label
		}
		text.Draw(h.panel, label, face, row.rect.Min.X+16, row.rect.Min.Y+13, fg)
	}
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	for i := range h.controls {
		state := &h.controls[i]
		labelY := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, labelColor)
		valueColor := labelColor
		if !state.hasValue {
			valueColor = dimColor
		}
		bounds := text.BoundString(face, state.value)
		valueX := state.minusRect.Min.X - buttonGap - bounds.Dx()
		text.Draw(h.panel, state.value, face, valueX, labelY, valueColor)

		_, minusEnabled := stepTarget(state.control, state.number, -1)
		_, plusEnabled := stepTarget(state.control, state.number, 1)
		h.drawButton(state.minusRect, "-", state.hasValue && minusEnabled)
		h.drawButton(state.plusRect, "+", state.hasValue && plusEnabled)
	}
}

func (h *HUD) drawTelemetry() {
	face := basicfont.Face7x13
	y := h.controlsTop + len(h.controls)*lineHeight + infoSpacing
	tool := h.session.Tool()
	text.Draw(h.panel, tool.Title, face, panelPadding, y, activeColor)
	y += infoSpacing
	text.Draw(h.panel, "Principle: "+tool.Principle, face, panelPadding, y, headerColor)
	y += infoSpacing
	for _, line := range wrapText(tool.Description, h.width-2*panelPadding) {
		text.Draw(h.panel, line, face, panelPadding, y, dimColor)
		y += infoSpacing
	}

	y += infoSpacing / 2
	counts := h.session.Counts()
	stats := h.session.Engine().Stats()
	state := "RUNNING"
	if !h.session.Running() {
		state = "PAUSED"
	}
	lines := []string{
		fmt.Sprintf("%s  tick %d", state, stats.Ticks),
		fmt.Sprintf("Isotope %d  Lead %d", counts.Isotope, counts.Lead),
		fmt.Sprintf("Water %d  Salt %d", counts.Water, counts.Salt),
		fmt.Sprintf("Half-life %5.1f%% %s", counts.HalfLife(), halfLifeBar(counts.HalfLife(), 10)),
	}
	for _, line := range lines {
		text.Draw(h.panel, line, face, panelPadding, y, labelColor)
		y += infoSpacing
	}
}

func (h *HUD) fillRect(rect image.Rectangle, col color.RGBA) {
	if h.pixel == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	h.panel.DrawImage(h.pixel, op)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	h.fillRect(rect, bg)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}
