// Package axis picks human-readable tick sets and display ranges for the
// y axes shared across multi-panel figures, so that panels drawn from
// different sub-groups of the same data line up.
package axis

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
)

const (
	// DefaultMin and DefaultMax are the observed limits reported for an
	// empty sample set.
	DefaultMin = -5.0
	DefaultMax = 15.0

	// DefaultPad is the distance below zero shown by ZeroPaddedTicks.
	DefaultPad = 5.0

	// Floor is the lowest observed minimum Limits will report.
	Floor = -5.0
)

// stepTable maps an upper bound on a magnitude to the tick step used for it.
// Magnitudes beyond the last bound use largestStep.
var stepTable = []struct {
	Limit float64
	Step  float64
}{
	{20, 5},
	{50, 10},
	{100, 20},
	{200, 25},
}

const largestStep = 50.0

// StepFor returns the tick step for a range (or maximum) of the given
// magnitude.
func StepFor(magnitude float64) float64 {
	for _, v := range stepTable {
		if magnitude <= v.Limit {
			return v.Step
		}
	}
	return largestStep
}

// Range is a deterministic y-axis description: the observed extremes it was
// built from, the chosen step, the inclusive tick sequence, and the padded
// limits to display.
type Range struct {
	Min, Max float64
	Step     float64
	Ticks    []float64

	DisplayMin, DisplayMax float64
}

// NiceTicks snaps [min, max] outward to multiples of a step chosen from the
// magnitude of max-min. If min > max the two are swapped.
func NiceTicks(min, max float64) Range {
	if min > max {
		min, max = max, min
	}

	r := max - min
	step := StepFor(r)

	start := math.Floor(min/step) * step
	end := math.Ceil(max/step) * step

	return Range{
		Min:        min,
		Max:        max,
		Step:       step,
		Ticks:      StepTicks(start, end, step),
		DisplayMin: min - math.Max(step*0.2, r*0.08),
		DisplayMax: max + step*0.4,
	}
}

// ZeroPaddedTicks produces ticks from zero up to max, with the step chosen
// from the magnitude of max alone. The displayed range starts pad below zero.
// A max at or below zero yields the single tick 0.
func ZeroPaddedTicks(max, pad float64) Range {
	step := StepFor(max)

	end := math.Ceil(max/step) * step
	if end < 0 {
		end = 0
	}

	return Range{
		Min:        0,
		Max:        max,
		Step:       step,
		Ticks:      StepTicks(0, end, step),
		DisplayMin: -pad,
		DisplayMax: max + step*0.4,
	}
}

// StepTicks returns start, start+step, ..., up to and including stop. Ticks
// are computed by multiplication from start so that long sequences do not
// accumulate rounding error. A non-finite argument yields just start.
func StepTicks(start, stop, step float64) []float64 {
	if !finite(start) || !finite(stop) || !finite(step) || step <= 0 || stop < start {
		return []float64{start}
	}

	n := int(math.Floor((stop-start)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = noNegativeZero(start + float64(i)*step)
	}
	return out
}

// Spaced returns n values evenly spaced from start to stop inclusive,
// truncated to integers.
func Spaced(start, stop float64, n int) []float64 {
	if n < 2 {
		return []float64{math.Trunc(start)}
	}

	out := make([]float64, n)
	floats.Span(out, start, stop)
	for i, v := range out {
		out[i] = noNegativeZero(math.Trunc(v))
	}
	return out
}

// Limits reduces a sample set to the (min, max) pair handed to NiceTicks.
// Missing (NaN) and infinite values are ignored. The minimum is pulled down
// by at least 1 (or 5% of itself) but never below Floor; the maximum is pushed
// up by at least 2 (or 10% of itself). An empty sample set yields DefaultMin and
// DefaultMax.
func Limits(values []float64) (min, max float64) {
	present := Present(values)
	if len(present) == 0 {
		return DefaultMin, DefaultMax
	}

	vmin, vmax := floats.Min(present), floats.Max(present)

	min = math.Max(Floor, vmin-math.Max(1, vmin*0.05))
	max = vmax + math.Max(2, vmax*0.1)

	return min, max
}

// Present returns the finite values, preserving order. NaN is missing and
// infinities cannot be placed on an axis.
func Present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !finite(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Ticker exposes the range's ticks as a gonum plot.Ticker.
func (r Range) Ticker() plot.Ticker {
	return Fixed(r.Ticks...)
}

// Apply sets the axis limits to the display range and its ticks to the
// range's ticks. Apply after adding plotters, since adding data that falls
// outside the axis widens it.
func (r Range) Apply(a *plot.Axis) {
	a.Min = r.DisplayMin
	a.Max = r.DisplayMax
	a.Tick.Marker = r.Ticker()
}

// Fixed returns a ticker with labelled major ticks at exactly the given
// values.
func Fixed(values ...float64) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, plot.Tick{Value: v, Label: Label(v)})
	}
	return ticks
}

// Label formats a tick value with the fewest digits that represent it.
func Label(v float64) string {
	return strconv.FormatFloat(noNegativeZero(v), 'f', -1, 64)
}

func noNegativeZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
