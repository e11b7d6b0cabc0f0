package titration

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"path/filepath"
	"time"

	"github.com/araddon/dateparse"
	"github.com/carbocation/dbsfigures/axis"
	"github.com/carbocation/dbsfigures/figure"
	"github.com/carbocation/dbsfigures/style"
	"github.com/carbocation/dbsfigures/table"
	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gopkg.in/guregu/null.v3"
)

const (
	ThresholdWidth  = vg.Length(7.3) * vg.Inch
	ThresholdHeight = vg.Length(3.5) * vg.Inch
)

// TraceSeconds is how much of each velocity recording is shown.
const TraceSeconds = 15

// ShankLevels are the stimulation levels with a velocity recording, top to
// bottom.
var ShankLevels = []int{0, 50, 75, 90, 100}

const (
	thresholdTickSize  = 8
	thresholdLabelSize = 9
)

var (
	rightLeg = color.NRGBA{B: 0xff, A: 0xff}
	leftLeg  = color.NRGBA{R: 0xff, A: 0xff}
)

// ShankSample is one row of a shank angular velocity recording.
type ShankSample struct {
	Time null.Float `csv:"Time"`
	RZAV null.Float `csv:"RZAV"`
	LZAV null.Float `csv:"LZAV"`
}

// Trace is a velocity recording re-zeroed to its first sample. Missing
// velocities are NaN.
type Trace struct {
	Level       int
	Time        []float64
	Right, Left []float64
}

// ShankPath is the recording for a stimulation level inside dir.
func ShankPath(dir string, level int) string {
	return filepath.Join(dir, fmt.Sprintf("shankav_%d.csv", level))
}

// LoadTrace reads one recording, re-zeroes its clock and keeps the first
// TraceSeconds seconds.
func LoadTrace(path string, level int) (Trace, error) {
	var rows []ShankSample
	if err := table.Load(path, &rows); err != nil {
		return Trace{}, err
	}

	tr := Trace{Level: level}
	t0 := math.NaN()
	for _, r := range rows {
		if !r.Time.Valid {
			continue
		}
		if math.IsNaN(t0) {
			t0 = r.Time.Float64
		}
		t := r.Time.Float64 - t0
		if t > TraceSeconds {
			continue
		}
		tr.Time = append(tr.Time, t)
		tr.Right = append(tr.Right, orNaN(r.RZAV))
		tr.Left = append(tr.Left, orNaN(r.LZAV))
	}
	log.Printf("Read %d samples at stim level %d from %s\n", len(tr.Time), level, path)

	return tr, nil
}

// LoadTraces reads the recording of every level in ShankLevels from dir.
func LoadTraces(dir string) ([]Trace, error) {
	out := make([]Trace, 0, len(ShankLevels))
	for _, level := range ShankLevels {
		tr, err := LoadTrace(ShankPath(dir, level), level)
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, nil
}

func orNaN(f null.Float) float64 {
	if !f.Valid {
		return math.NaN()
	}
	return f.Float64
}

// VelocityLimits returns the floor of the smallest and the ceiling of the
// largest velocity across every trace and both legs. With no velocities at
// all it returns (-1, 1); equal limits are widened by 1 each way.
func VelocityLimits(traces []Trace) (ymin, ymax float64) {
	var all []float64
	for _, tr := range traces {
		all = append(all, axis.Present(tr.Right)...)
		all = append(all, axis.Present(tr.Left)...)
	}
	if len(all) == 0 {
		return -1, 1
	}
	ymin, ymax = math.Floor(floats.Min(all)), math.Ceil(floats.Max(all))
	if ymin == ymax {
		ymin, ymax = ymin-1, ymax+1
	}
	return ymin, ymax
}

// VelocityTicks are the ticks of every velocity panel: the limits and zero.
func VelocityTicks(ymin, ymax float64) []float64 {
	out := []float64{ymin}
	for _, v := range []float64{0, ymax} {
		if v > out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// segments splits a series at missing or infinite values so gaps are not
// bridged.
func segments(x, y []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i := range x {
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: x[i], Y: y[i]})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func addSeries(p *plot.Plot, x, y []float64, ls draw.LineStyle) error {
	for _, seg := range segments(x, y) {
		line, err := plotter.NewLine(seg)
		if err != nil {
			return pfx.Err(err)
		}
		line.LineStyle = ls
		p.Add(line)
	}
	return nil
}

func unlabelled(values []float64) plot.ConstantTicks {
	ticks := axis.Fixed(values...)
	for i := range ticks {
		ticks[i].Label = ""
	}
	return ticks
}

// VelocityPlots draws one panel per trace, sharing the y limits. Only the
// last panel labels its time axis; the middle one carries the y label.
func VelocityPlots(traces []Trace) ([]*plot.Plot, error) {
	ymin, ymax := VelocityLimits(traces)
	timeTicks := axis.StepTicks(0, TraceSeconds, 5)

	plots := make([]*plot.Plot, len(traces))
	for i, tr := range traces {
		p := style.NewPlainPlot(thresholdTickSize, thresholdLabelSize)

		if err := addSeries(p, tr.Time, tr.Right, draw.LineStyle{Color: rightLeg, Width: vg.Points(1.5)}); err != nil {
			return nil, err
		}
		if err := addSeries(p, tr.Time, tr.Left, draw.LineStyle{Color: leftLeg, Width: vg.Points(1.5)}); err != nil {
			return nil, err
		}
		zero, err := figure.HLine(0, 0, TraceSeconds, draw.LineStyle{
			Color: style.WithAlpha(color.Black, 0.5),
			Width: vg.Points(0.5),
		})
		if err != nil {
			return nil, err
		}
		p.Add(zero)

		p.X.Min, p.X.Max = 0, TraceSeconds
		p.Y.Min, p.Y.Max = ymin, ymax
		p.Y.Tick.Marker = axis.Fixed(VelocityTicks(ymin, ymax)...)

		if i == len(traces)-1 {
			p.X.Tick.Marker = axis.Fixed(timeTicks...)
			p.X.Label.Text = "Time (s)"
		} else {
			p.X.Tick.Marker = unlabelled(timeTicks)
		}
		if i == 2 {
			p.Y.Label.Text = "Shank Angular Velocity (deg/s)"
		}

		plots[i] = p
	}

	style.Finalize(plots...)
	return plots, nil
}

// ArrhythmicityRow is one row of the arrhythmicity table.
type ArrhythmicityRow struct {
	Time          string     `csv:"Time"`
	Arrhythmicity null.Float `csv:"Arrhythmicity"`
}

// Series is arrhythmicity in percent against seconds since the first row.
type Series struct {
	Seconds []float64
	Percent []float64
}

// clockLayouts are tried before dateparse, which reads a bare "10:15:30" as a
// date in October 2030.
var clockLayouts = []string{"15:04:05.999999999", "15:04"}

// ParseTimestamp accepts bare clock times, with or without fractional
// seconds, plus anything dateparse recognises.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return dateparse.ParseAny(s)
}

// LoadArrhythmicity reads the arrhythmicity table. Arrhythmicity is a
// fraction in the file and scaled to percent.
func LoadArrhythmicity(path string) (Series, error) {
	var rows []ArrhythmicityRow
	if err := table.Load(path, &rows); err != nil {
		return Series{}, err
	}

	var s Series
	var t0 time.Time
	for i, r := range rows {
		t, err := ParseTimestamp(r.Time)
		if err != nil {
			return Series{}, pfx.Err(fmt.Errorf("%s row %d: time %q: %w", path, i+2, r.Time, err))
		}
		if i == 0 {
			t0 = t
		}
		s.Seconds = append(s.Seconds, t.Sub(t0).Seconds())
		if r.Arrhythmicity.Valid {
			s.Percent = append(s.Percent, r.Arrhythmicity.Float64*100)
		} else {
			s.Percent = append(s.Percent, math.NaN())
		}
	}
	log.Printf("Read %d arrhythmicity rows from %s\n", len(s.Seconds), path)

	return s, nil
}

// ArrhythmicityTicks rounds the largest value up to a multiple of 5 and
// divides it into about four integer steps.
func ArrhythmicityTicks(percent []float64) (ymax float64, ticks []float64) {
	present := axis.Present(percent)
	if len(present) > 0 {
		ymax = 5 * math.Ceil(floats.Max(present)/5)
	}
	if ymax <= 0 {
		ymax = 5
	}
	step := math.Max(math.Trunc(ymax/4), 1)
	return ymax, axis.StepTicks(0, ymax, step)
}

// ArrhythmicityPlot draws arrhythmicity over the titration session.
func ArrhythmicityPlot(s Series) (*plot.Plot, error) {
	p := style.NewPlainPlot(thresholdTickSize, thresholdLabelSize)

	if err := addSeries(p, s.Seconds, s.Percent, draw.LineStyle{Color: color.Black, Width: vg.Points(0.8)}); err != nil {
		return nil, err
	}

	maxSec := 0.0
	if len(s.Seconds) > 0 {
		maxSec = floats.Max(s.Seconds)
	}
	p.X.Min, p.X.Max = 0, maxSec
	if maxSec <= 0 {
		p.X.Max = 1
	}
	p.X.Tick.Marker = axis.Fixed(axis.Spaced(0, maxSec, 5)...)
	p.X.Label.Text = "Time (s)"

	ymax, ticks := ArrhythmicityTicks(s.Percent)
	p.Y.Min, p.Y.Max = 0, ymax
	p.Y.Tick.Marker = axis.Fixed(ticks...)
	p.Y.Label.Text = "Arrhythmicity"

	style.Finalize(p)
	return p, nil
}

// ThresholdFigure places the stacked velocity panels in the left half of the
// page and the arrhythmicity panel in the right half.
func ThresholdFigure(traces []Trace, s Series) (figure.Layout, error) {
	velocity, err := VelocityPlots(traces)
	if err != nil {
		return figure.Layout{}, err
	}
	arr, err := ArrhythmicityPlot(s)
	if err != nil {
		return figure.Layout{}, err
	}

	column := make([][]*plot.Plot, len(velocity))
	for i, p := range velocity {
		column[i] = []*plot.Plot{p}
	}

	return figure.Layout{
		Width:  ThresholdWidth,
		Height: ThresholdHeight,
		Cells: []figure.Cell{
			figure.Grid(column).In(0, 0, 0.5, 1),
			figure.Grid([][]*plot.Plot{{arr}}).In(0.5, 0, 1, 1),
		},
	}, nil
}
