package style

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Point sizes shared by the multi-panel figures.
const (
	TickLabelSize  = 9
	AxisLabelSize  = 11
	LegendTextSize = 10
	TitleSize      = 12
)

// AxisColor is the colour of axis lines and tick marks.
var AxisColor = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}

// NewPlot returns a plot with a transparent background, light grid, and the
// house tick label sizes.
func NewPlot() *plot.Plot {
	p := plot.New()
	p.BackgroundColor = color.Transparent
	StyleAxis(p)
	return p
}

// NewPlainPlot returns a transparent plot without a grid, with the given
// tick and axis label sizes in points.
func NewPlainPlot(tickSize, labelSize float64) *plot.Plot {
	p := plot.New()
	p.BackgroundColor = color.Transparent
	TextSizes(p, tickSize, labelSize)
	return p
}

// TextSizes sets the tick label and axis label sizes of both axes.
func TextSizes(p *plot.Plot, tickSize, labelSize float64) {
	for _, a := range []*plot.Axis{&p.X, &p.Y} {
		a.Tick.Label.Font.Size = vg.Points(tickSize)
		a.Label.TextStyle.Font.Size = vg.Points(labelSize)
	}
}

// StyleAxis sets label sizes and adds a faint grid beneath later plotters.
func StyleAxis(p *plot.Plot) {
	TextSizes(p, TickLabelSize, AxisLabelSize)

	grid := plotter.NewGrid()
	grid.Vertical.Color = WithAlpha(color.Black, 0.2)
	grid.Vertical.Width = vg.Points(0.5)
	grid.Horizontal = grid.Vertical
	p.Add(grid)
}

// Finalize applies the final axis-line treatment to every non-nil plot:
// dark grey 1pt axis lines and outward ticks.
func Finalize(plots ...*plot.Plot) {
	for _, p := range plots {
		if p == nil {
			continue
		}
		for _, a := range []*plot.Axis{&p.X, &p.Y} {
			a.Color = AxisColor
			a.Width = vg.Points(1)
			a.Tick.Color = AxisColor
			a.Tick.Width = vg.Points(1)
			a.Tick.Length = vg.Points(4)
			a.Padding = vg.Points(4)
		}
	}
}
