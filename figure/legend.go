package figure

import (
	"github.com/carbocation/dbsfigures/style"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// LegendEntry is one labelled sample. An entry with no thumbnails and no
// label is a spacer that holds its slot empty.
type LegendEntry struct {
	Label  string
	Thumbs []plot.Thumbnailer
}

// Spacer returns an empty legend slot.
func Spacer() LegendEntry { return LegendEntry{} }

// LegendRow is a plotter that lays legend entries out in columns, filling
// each column top to bottom before moving right. It ignores the plot's data
// coordinates, so it is meant for a panel with hidden axes.
type LegendRow struct {
	Entries []LegendEntry
	Columns int

	TextStyle      text.Style
	ThumbnailWidth vg.Length
	ColumnSpacing  vg.Length
	RowSpacing     vg.Length
}

// NewLegendRow returns a legend with the house text size.
func NewLegendRow(columns int, entries ...LegendEntry) *LegendRow {
	if columns < 1 {
		columns = 1
	}
	return &LegendRow{
		Entries: entries,
		Columns: columns,
		TextStyle: text.Style{
			Color:   style.AxisColor,
			Font:    font.From(plot.DefaultFont, vg.Points(style.LegendTextSize)),
			Handler: plot.DefaultTextHandler,
		},
		ThumbnailWidth: vg.Points(22),
		ColumnSpacing:  vg.Points(15),
		RowSpacing:     vg.Points(4),
	}
}

// LegendPanel returns a plot with hidden axes holding only the legend.
func LegendPanel(l *LegendRow) *plot.Plot {
	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = nil
	p.Add(l)
	return p
}

// ColumnSizes returns how many entries each column holds. Entries are
// spread so that the leading columns hold at most one more entry than the
// trailing ones.
func (l *LegendRow) ColumnSizes() []int {
	if len(l.Entries) == 0 {
		return nil
	}
	cols := l.Columns
	if cols < 1 {
		cols = 1
	}
	if cols > len(l.Entries) {
		cols = len(l.Entries)
	}

	rows, large := len(l.Entries)/cols, len(l.Entries)%cols
	sizes := make([]int, cols)
	for i := range sizes {
		sizes[i] = rows
		if i < large {
			sizes[i]++
		}
	}
	return sizes
}

// Rows is the height of the tallest column, in entries.
func (l *LegendRow) Rows() int {
	sizes := l.ColumnSizes()
	if len(sizes) == 0 {
		return 0
	}
	return sizes[0]
}

func (l *LegendRow) entryHeight() vg.Length {
	return l.TextStyle.Rectangle("P0").Max.Y
}

func (l *LegendRow) columnWidth(entries []LegendEntry) vg.Length {
	var w vg.Length
	for _, e := range entries {
		if tw := l.TextStyle.Width(e.Label); tw > w {
			w = tw
		}
	}
	em := l.TextStyle.Width(" ")
	return l.ThumbnailWidth + em + w
}

// Plot implements plot.Plotter. The block of columns is centred in c.
func (l *LegendRow) Plot(c draw.Canvas, _ *plot.Plot) {
	sizes := l.ColumnSizes()
	if len(sizes) == 0 {
		return
	}
	rows := sizes[0]

	columns := make([][]LegendEntry, len(sizes))
	k := 0
	for i, n := range sizes {
		columns[i] = l.Entries[k : k+n]
		k += n
	}

	widths := make([]vg.Length, len(columns))
	var total vg.Length
	for i, col := range columns {
		widths[i] = l.columnWidth(col)
		total += widths[i]
	}
	total += vg.Length(len(columns)-1) * l.ColumnSpacing

	enth := l.entryHeight()
	height := vg.Length(rows)*enth + vg.Length(rows-1)*l.RowSpacing

	center := c.Center()
	x := center.X - total/2
	top := center.Y + height/2

	em := l.TextStyle.Width(" ")
	sty := l.TextStyle
	sty.YAlign = draw.YCenter

	for i, col := range columns {
		for row, e := range col {
			y := top - vg.Length(row)*(enth+l.RowSpacing) - enth

			icon := &draw.Canvas{
				Canvas: c.Canvas,
				Rectangle: vg.Rectangle{
					Min: vg.Point{X: x, Y: y},
					Max: vg.Point{X: x + l.ThumbnailWidth, Y: y + enth},
				},
			}
			for _, t := range e.Thumbs {
				t.Thumbnail(icon)
			}
			if e.Label != "" {
				c.FillText(sty, vg.Point{X: x + l.ThumbnailWidth + em, Y: y + enth/2}, e.Label)
			}
		}
		x += widths[i] + l.ColumnSpacing
	}
}
