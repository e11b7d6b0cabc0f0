// Package figure lays out and writes multi-panel figures built with
// gonum/plot, and holds the plotters the panels share.
package figure

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/carbocation/dbsfigures"
	"github.com/carbocation/pfx"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

// Cell is an aligned grid of panels placed within a region of the page. The
// region is given in page fractions with the origin at the bottom left; a
// zero region means the whole page.
type Cell struct {
	Plots [][]*plot.Plot
	Tiles draw.Tiles

	Left, Bottom, Right, Top float64
}

// Grid returns a whole-page cell with the house spacing between panels.
func Grid(plots [][]*plot.Plot) Cell {
	cols := 0
	for _, row := range plots {
		if len(row) > cols {
			cols = len(row)
		}
	}

	return Cell{
		Plots: plots,
		Tiles: draw.Tiles{
			Rows:      len(plots),
			Cols:      cols,
			PadX:      vg.Points(18),
			PadY:      vg.Points(14),
			PadTop:    vg.Points(6),
			PadBottom: vg.Points(6),
			PadLeft:   vg.Points(6),
			PadRight:  vg.Points(6),
		},
	}
}

// In returns a copy of c placed in the given page fractions.
func (c Cell) In(left, bottom, right, top float64) Cell {
	c.Left, c.Bottom, c.Right, c.Top = left, bottom, right, top
	return c
}

func (c Cell) region(dc draw.Canvas) draw.Canvas {
	if c.Left == 0 && c.Bottom == 0 && c.Right == 0 && c.Top == 0 {
		return dc
	}
	w := dc.Max.X - dc.Min.X
	h := dc.Max.Y - dc.Min.Y
	return draw.Crop(dc,
		vg.Length(c.Left)*w,
		-vg.Length(1-c.Right)*w,
		vg.Length(c.Bottom)*h,
		-vg.Length(1-c.Top)*h,
	)
}

// Draw aligns the cell's panels inside its region and draws them.
func (c Cell) Draw(dc draw.Canvas) {
	tiles := c.Tiles
	if tiles.Rows == 0 || tiles.Cols == 0 {
		tiles = Grid(c.Plots).Tiles
	}
	if tiles.Rows == 0 || tiles.Cols == 0 {
		return
	}

	// plot.Align needs a rectangular grid.
	plots := make([][]*plot.Plot, tiles.Rows)
	for j := range plots {
		plots[j] = make([]*plot.Plot, tiles.Cols)
		if j < len(c.Plots) {
			copy(plots[j], c.Plots[j])
		}
	}

	canvases := plot.Align(plots, tiles, c.region(dc))
	for j := range plots {
		for i, p := range plots[j] {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}
}

// Bands splits the unit interval top to bottom by the given ratios and
// returns (bottom, top) fractions for each band in order.
func Bands(ratios ...float64) [][2]float64 {
	var total float64
	for _, r := range ratios {
		total += r
	}
	out := make([][2]float64, len(ratios))
	if total <= 0 {
		return out
	}

	top := 1.0
	for i, r := range ratios {
		bottom := top - r/total
		if i == len(ratios)-1 {
			bottom = 0
		}
		out[i] = [2]float64{bottom, top}
		top = bottom
	}
	return out
}

// Layout is a page of one or more cells.
type Layout struct {
	Width, Height vg.Length
	Cells         []Cell

	// Background is painted before the panels. Nil leaves the page
	// transparent.
	Background color.Color
}

// Single is a layout holding one panel.
func Single(p *plot.Plot, w, h vg.Length) Layout {
	return Layout{Width: w, Height: h, Cells: []Cell{Grid([][]*plot.Plot{{p}})}}
}

// Draw renders every cell onto dc.
func (l Layout) Draw(dc draw.Canvas) {
	if l.Background != nil {
		dc.SetColor(l.Background)
		dc.Fill(dc.Rectangle.Path())
	}
	for _, c := range l.Cells {
		c.Draw(dc)
	}
}

// Save writes the layout once per configured format as
// <OutputDir>/<name>.<format> and returns the paths written.
func (l Layout) Save(name string, s Settings) ([]string, error) {
	if len(s.Formats) == 0 {
		return nil, fmt.Errorf("%s: no output formats configured", name)
	}

	dir := dbsfigures.ExpandHome(s.OutputDir)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pfx.Err(err)
	}

	var written []string
	for _, format := range s.Formats {
		path := filepath.Join(dir, name+"."+format)
		if err := l.write(path, format, s.DPI); err != nil {
			return written, pfx.Err(fmt.Errorf("%s: %w", path, err))
		}
		log.Printf("Wrote %s\n", path)
		written = append(written, path)
	}

	return written, nil
}

func (l Layout) write(path, format string, dpi int) error {
	c, err := NewCanvas(l.Width, l.Height, format, dpi)
	if err != nil {
		return err
	}
	l.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// NewCanvas returns a canvas for the format. Raster PNG output honours dpi
// and starts transparent; every other format is delegated to gonum/plot.
func NewCanvas(w, h vg.Length, format string, dpi int) (vg.CanvasWriterTo, error) {
	if format == "png" {
		if dpi <= 0 {
			dpi = vgimg.DefaultDPI
		}
		c := vgimg.NewWith(
			vgimg.UseWH(w, h),
			vgimg.UseDPI(dpi),
			vgimg.UseBackgroundColor(color.Transparent),
		)
		return vgimg.PngCanvas{Canvas: c}, nil
	}

	return draw.NewFormattedCanvas(w, h, format)
}
