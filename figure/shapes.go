package figure

import (
	"image/color"

	"github.com/carbocation/pfx"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
)

// Shade returns a filled, unstroked rectangle spanning [x0, x1] x [y0, y1]
// in data coordinates. Add it before the data so that it sits underneath.
func Shade(x0, x1, y0, y1 float64, fill color.Color) (*plotter.Polygon, error) {
	poly, err := plotter.NewPolygon(plotter.XYs{
		{X: x0, Y: y0},
		{X: x0, Y: y1},
		{X: x1, Y: y1},
		{X: x1, Y: y0},
	})
	if err != nil {
		return nil, pfx.Err(err)
	}
	poly.Color = fill
	poly.LineStyle.Width = 0
	return poly, nil
}

// HLine returns a horizontal reference line at y from x0 to x1.
func HLine(y, x0, x1 float64, ls draw.LineStyle) (*plotter.Line, error) {
	line, err := plotter.NewLine(plotter.XYs{{X: x0, Y: y}, {X: x1, Y: y}})
	if err != nil {
		return nil, pfx.Err(err)
	}
	line.LineStyle = ls
	return line, nil
}
