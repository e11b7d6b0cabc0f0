// Package titration draws the stimulation titration figures: freezing at
// each stimulation level, and shank velocity traces beside the arrhythmicity
// recorded while titrating.
package titration

import (
	"fmt"
	"image/color"
	"log"
	"sort"

	"github.com/carbocation/dbsfigures/axis"
	"github.com/carbocation/dbsfigures/figure"
	"github.com/carbocation/dbsfigures/style"
	"github.com/carbocation/dbsfigures/table"
	"github.com/carbocation/pfx"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gopkg.in/guregu/null.v3"
)

const (
	FreezingWidth  = vg.Length(3.65) * vg.Inch
	FreezingHeight = vg.Length(3.5) * vg.Inch
)

// Therapeutic window, in stimulation level percent.
const (
	WindowStart = 75
	WindowEnd   = 100
)

// WindowColor shades the therapeutic window.
var WindowColor = color.NRGBA{R: 0xba, G: 0xc0, B: 0x95, A: 0xff}

// Level is one row of the titration output.
type Level struct {
	StimLevel null.Float `csv:"Stim Level"`
	Freezes   null.Float `csv:"freezes"`
}

// LoadLevels reads the titration output and returns its rows sorted by
// stimulation level. Rows without a level are dropped.
func LoadLevels(path string) ([]Level, error) {
	tbl, err := table.Open(path)
	if err != nil {
		return nil, err
	}
	if err := tbl.Has("Stim Level", "freezes"); err != nil {
		return nil, err
	}

	var rows []Level
	if err := tbl.Unmarshal(&rows); err != nil {
		return nil, err
	}

	out := rows[:0]
	for _, r := range rows {
		if !r.StimLevel.Valid {
			log.Printf("%s: skipping row without a stim level\n", path)
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StimLevel.Float64 < out[j].StimLevel.Float64
	})
	log.Printf("Read %d stim levels from %s\n", len(out), path)

	return out, nil
}

// indexOf returns the position of the first level equal to v, or -1.
func indexOf(levels []Level, v float64) int {
	for i, l := range levels {
		if l.StimLevel.Float64 == v {
			return i
		}
	}
	return -1
}

// Window returns the x positions spanned by the therapeutic window. It
// reports false if either end is not among the levels.
func Window(levels []Level) (x0, x1 float64, ok bool) {
	start, end := indexOf(levels, WindowStart), indexOf(levels, WindowEnd)
	if start < 0 || end < 0 {
		return 0, 0, false
	}
	return float64(start), float64(end), true
}

// LevelTicks labels each x position with its integer stimulation level.
func LevelTicks(levels []Level) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(levels))
	for i, l := range levels {
		ticks[i] = plot.Tick{Value: float64(i), Label: fmt.Sprintf("%d", int(l.StimLevel.Float64))}
	}
	return ticks
}

// freezingSeries places each level at its sorted position. Levels without a
// freeze count are NaN so the line breaks there instead of joining the
// neighbours.
func freezingSeries(levels []Level) (x, y []float64) {
	x = make([]float64, len(levels))
	y = make([]float64, len(levels))
	for i, l := range levels {
		x[i] = float64(i)
		y[i] = orNaN(l.Freezes)
	}
	return x, y
}

// FreezingPlot draws percent time freezing against stimulation level, with
// levels placed at evenly spaced positions in sorted order.
func FreezingPlot(levels []Level) (*plot.Plot, error) {
	p := style.NewPlainPlot(12, 12)

	if x0, x1, ok := Window(levels); ok {
		shade, err := figure.Shade(x0, x1, 0, 100, WindowColor)
		if err != nil {
			return nil, err
		}
		p.Add(shade)
	} else {
		log.Printf("Stim levels %d and %d not both present, no window shaded\n", WindowStart, WindowEnd)
	}

	x, y := freezingSeries(levels)
	if err := addSeries(p, x, y, draw.LineStyle{Color: color.Black, Width: vg.Points(2.5)}); err != nil {
		return nil, err
	}

	var pts plotter.XYs
	for _, seg := range segments(x, y) {
		pts = append(pts, seg...)
	}
	if len(pts) > 0 {
		dots, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, pfx.Err(err)
		}
		dots.GlyphStyle = draw.GlyphStyle{Color: color.Black, Radius: vg.Points(5), Shape: draw.CircleGlyph{}}
		p.Add(dots)
	}

	p.X.Label.Text = "Stim Level (%)"
	p.Y.Label.Text = "% Time Freezing"
	p.X.Tick.Marker = LevelTicks(levels)
	p.X.Min = -0.5
	p.X.Max = float64(len(levels)) - 0.5

	p.Y.Min, p.Y.Max = 0, 100
	p.Y.Tick.Marker = axis.Fixed(axis.StepTicks(0, 100, axis.StepFor(100))...)

	style.Finalize(p)
	for _, a := range []*plot.Axis{&p.X, &p.Y} {
		a.Tick.Width = vg.Points(0.5)
		a.Tick.Length = vg.Points(5)
	}

	return p, nil
}

// FreezingFigure is the single-panel titration figure.
func FreezingFigure(levels []Level) (figure.Layout, error) {
	p, err := FreezingPlot(levels)
	if err != nil {
		return figure.Layout{}, err
	}
	return figure.Single(p, FreezingWidth, FreezingHeight), nil
}
