package sweep

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrTooFewSamples is returned when a curve cannot be plotted.
var ErrTooFewSamples = errors.New("too few samples to plot")

var seriesColors = []drawing.Color{
	chart.ColorRed,
	chart.ColorGreen,
	chart.ColorBlue,
	{R: 255, G: 165, B: 0, A: 255},
	{R: 156, G: 39, B: 176, A: 255},
}

// ASCII plots each curve in the terminal, one chart per variant.
func ASCII(curves []Curve, height, width int) string {
	var b strings.Builder
	for _, c := range curves {
		if len(c.Mean) == 0 {
			continue
		}
		caption := fmt.Sprintf("%s: remaining isotope %% (%d runs)", c.Label, c.Runs)
		b.WriteString(asciigraph.Plot(c.Mean, asciigraph.Height(height), asciigraph.Width(width), asciigraph.Caption(caption)))
		b.WriteString("\n\n")
	}
	return b.String()
}

// WritePNG renders the curves on one set of axes.
func WritePNG(w io.Writer, curves []Curve) error {
	var series []chart.Series
	for i, c := range curves {
		if len(c.Mean) < 2 || len(c.Ticks) != len(c.Mean) {
			return fmt.Errorf("%w: %s", ErrTooFewSamples, c.Label)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    c.Label,
			XValues: c.Ticks,
			YValues: c.Mean,
			Style:   chart.Style{StrokeColor: seriesColors[i%len(seriesColors)], StrokeWidth: 3.0},
		})
	}
	if len(series) == 0 {
		return ErrTooFewSamples
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name:  "tick",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "isotope %",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: series,
	}
	return graph.Render(chart.PNG, w)
}
