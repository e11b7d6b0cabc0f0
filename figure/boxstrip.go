package figure

import (
	"image/color"

	"github.com/carbocation/dbsfigures/axis"
	"github.com/carbocation/dbsfigures/style"
	"github.com/carbocation/pfx"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// StripColor is the colour of the individual observations drawn over a box.
var StripColor = color.NRGBA{R: 0x2c, G: 0x2c, B: 0x2c, A: 0xff}

// BoxOptions tunes BoxStrip. The zero value is not useful; start from
// DefaultBoxOptions.
type BoxOptions struct {
	// BoxWidth is the absolute width of each box.
	BoxWidth vg.Length

	// Jitter is the full horizontal spread of the strip, in category units.
	Jitter float64

	// Seed makes the jitter reproducible.
	Seed uint64

	FillAlpha float64
	DotRadius vg.Length
	DotAlpha  float64

	// DotEdge is the width of the white ring around each observation.
	DotEdge vg.Length
}

func DefaultBoxOptions(seed uint64) BoxOptions {
	return BoxOptions{
		BoxWidth:  vg.Points(30),
		Jitter:    0.35,
		Seed:      seed,
		FillAlpha: 0.8,
		DotRadius: vg.Points(3),
		DotAlpha:  0.8,
		DotEdge:   vg.Points(0.8),
	}
}

// BoxStrip draws, for each condition in order, a box plot of its values
// with no outlier markers and a jittered strip of the values on top. Missing
// values are ignored and conditions with no values are skipped. It returns
// the number of boxes drawn.
func BoxStrip(p *plot.Plot, groups map[string][]float64, order []string, cfg style.Config, opts BoxOptions) (int, error) {
	jitter := newJitter(opts)

	drawn := 0
	for i, condition := range order {
		values := axis.Present(groups[condition])
		if len(values) == 0 {
			continue
		}

		box, err := plotter.NewBoxPlot(opts.BoxWidth, float64(i), plotter.Values(values))
		if err != nil {
			return drawn, pfx.Err(err)
		}
		box.Outside = nil
		box.GlyphStyle.Radius = 0
		box.FillColor = style.WithAlpha(cfg.ConditionColor(condition), opts.FillAlpha)
		box.BoxStyle = draw.LineStyle{Color: style.AxisColor, Width: vg.Points(1)}
		box.WhiskerStyle = draw.LineStyle{Color: style.AxisColor, Width: vg.Points(1)}
		box.MedianStyle = draw.LineStyle{Color: color.White, Width: vg.Points(1.5)}
		box.CapWidth = opts.BoxWidth / 2

		pts := strip(values, float64(i), jitter)

		halo, err := plotter.NewScatter(pts)
		if err != nil {
			return drawn, pfx.Err(err)
		}
		halo.GlyphStyle = draw.GlyphStyle{
			Color:  color.White,
			Radius: opts.DotRadius + opts.DotEdge,
			Shape:  draw.CircleGlyph{},
		}

		dots, err := plotter.NewScatter(pts)
		if err != nil {
			return drawn, pfx.Err(err)
		}
		dots.GlyphStyle = draw.GlyphStyle{
			Color:  style.WithAlpha(StripColor, opts.DotAlpha),
			Radius: opts.DotRadius,
			Shape:  draw.CircleGlyph{},
		}

		p.Add(box, halo, dots)
		drawn++
	}

	return drawn, nil
}

// newJitter returns a reproducible source of horizontal offsets spread
// evenly across opts.Jitter.
func newJitter(opts BoxOptions) func() float64 {
	if opts.Jitter <= 0 {
		return func() float64 { return 0 }
	}
	u := distuv.Uniform{
		Min: -opts.Jitter / 2,
		Max: opts.Jitter / 2,
		Src: rand.NewSource(opts.Seed),
	}
	return u.Rand
}

func strip(values []float64, x float64, jitter func() float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for k, v := range values {
		pts[k].X = x + jitter()
		pts[k].Y = v
	}
	return pts
}
