package ui

import (
	"image"
	"math"
	"strconv"
	"strings"

	"phase-lab/internal/core"
)

const (
	panelPadding   = 12
	lineHeight     = 30
	toolRowHeight  = 18
	buttonSize     = 22
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 20
	infoSpacing    = 16
	glyphWidth     = 7
	controlsTop    = panelPadding + headerBaseline + 14
)

// stepTarget computes the value one step away from current in direction
// dir. It reports false when the control is already at the bound.
func stepTarget(ctrl core.ParameterControl, current float64, dir int) (float64, bool) {
	if dir == 0 {
		return current, false
	}
	step := ctrl.Step
	if ctrl.Type == core.ParamTypeInt {
		step = math.Round(step)
		if step <= 0 {
			step = 1
		}
	} else if step <= 0 {
		step = 0.05
	}
	target := ctrl.Clamp(current + float64(dir)*step)
	if math.Abs(target-current) < 1e-9 {
		return current, false
	}
	return target, true
}

func formatFloat(ctrl core.ParameterControl, value float64) string {
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	var precision int
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	default:
		precision = 1
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

// wrapText breaks s into lines of at most width pixels for the fixed-width
// HUD font. Words longer than a line are kept whole.
func wrapText(s string, width int) []string {
	limit := width / glyphWidth
	if limit <= 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > limit {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// controlRects places the minus and plus buttons of row i.
func controlRects(width, top int) (minus, plus image.Rectangle) {
	buttonY := top + (lineHeight-buttonSize)/2
	plus = image.Rect(width-panelPadding-buttonSize, buttonY, width-panelPadding, buttonY+buttonSize)
	minus = image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
	return minus, plus
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// maskPixel maps a scalar intensity to overlay alpha and a brightness
// factor for the tint.
func maskPixel(intensity float64) (alpha uint8, glow float64) {
	const (
		maxAlpha      = 140.0
		glowBase      = 0.35
		glowRange     = 0.65
		intensityBias = 0.75
	)
	intensity = clamp01(intensity)
	if intensity == 0 {
		return 0, 0
	}
	alpha = uint8(math.Round(maxAlpha * math.Pow(intensity, intensityBias)))
	return alpha, glowBase + glowRange*math.Sqrt(intensity)
}

func scaleColorComponent(v uint8, f float64) uint8 {
	return uint8(math.Round(clamp01(float64(v) * f / 255.0) * 255))
}

// halfLifeBar renders the remaining isotope fraction as a text gauge.
func halfLifeBar(pct float64, cells int) string {
	if cells <= 0 {
		return ""
	}
	filled := int(math.Round(clamp01(pct/100) * float64(cells)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", cells-filled) + "]"
}
