package safety

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/carbocation/dbsfigures"
	"github.com/carbocation/dbsfigures/figure"
	"github.com/carbocation/dbsfigures/style"
	"github.com/carbocation/pfx"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/go-fonts/liberation/liberationsansbold"
	"github.com/go-fonts/liberation/liberationsansregular"
	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
)

// Composite page geometry, in inches.
const (
	PageWidth  = 7.3
	PageHeight = 3.2

	titleBand  = 0.4
	legendBand = 0.55
)

// Donuts are drawn this many times larger and scaled down into the composite.
const supersample = 2

// HoleFraction is the radius of the donut hole relative to the pie.
const HoleFraction = 0.45

// Panel is one donut: a title over the symptom shares of a cohort.
type Panel struct {
	Title   string
	Percent map[string]float64
}

type typefaces struct {
	regular, bold *truetype.Font
}

func loadTypefaces() (typefaces, error) {
	regular, err := truetype.Parse(liberationsansregular.TTF)
	if err != nil {
		return typefaces{}, pfx.Err(err)
	}
	bold, err := truetype.Parse(liberationsansbold.TTF)
	if err != nil {
		return typefaces{}, pfx.Err(err)
	}
	return typefaces{regular: regular, bold: bold}, nil
}

func (tf typefaces) face(f *truetype.Font, points, dpi float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: points, DPI: dpi, Hinting: font.HintingFull})
}

var transparent = chart.Style{
	FillColor:   chart.ColorTransparent,
	StrokeColor: chart.ColorTransparent,
}

// Donut builds the chart for a panel at size x size pixels. It reports false
// when the panel has nothing to draw.
func Donut(p Panel, cfg style.Config, size int, dpi float64) (chart.DonutChart, bool, error) {
	wedges := Wedges(p.Percent)
	if len(wedges) == 0 {
		return chart.DonutChart{}, false, nil
	}

	tf, err := loadTypefaces()
	if err != nil {
		return chart.DonutChart{}, false, err
	}

	values := make([]chart.Value, len(wedges))
	for i, w := range wedges {
		values[i] = chart.Value{
			Value: w.Percent,
			Style: chart.Style{
				FillColor:   chartColor(cfg.SymptomColor(w.Label)),
				StrokeColor: chart.ColorWhite,
				StrokeWidth: 1.5 * dpi / 72,
			},
		}
	}
	// go-chart draws a lone value as a bare circle that its hole pass then
	// fills white, so a full ring is drawn as two seamless halves.
	if len(values) == 1 {
		half := values[0]
		half.Value /= 2
		half.Style.StrokeColor = half.Style.FillColor
		values = []chart.Value{half, half}
	}

	return chart.DonutChart{
		Width:      size,
		Height:     size,
		DPI:        dpi,
		Font:       tf.regular,
		Background: transparent,
		Canvas:     transparent,
		Values:     values,
		Elements:   []chart.Renderable{centre(p.Percent[None], tf)},
	}, true, nil
}

func chartColor(c color.NRGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// pieRadius mirrors the radius go-chart gives the wedges inside canvasBox.
func pieRadius(canvasBox chart.Box) float64 {
	diameter := chart.MinInt(canvasBox.Width(), canvasBox.Height())
	return float64(diameter>>1) / 1.1 / 1.25
}

// centre widens the hole and writes the symptom-free share inside it.
func centre(nonePercent float64, tf typefaces) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, _ chart.Style) {
		cx, cy := canvasBox.Center()
		pie := pieRadius(canvasBox)

		r.SetFillColor(chart.ColorWhite)
		r.SetStrokeColor(chart.ColorWhite)
		r.SetStrokeWidth(1)
		r.MoveTo(cx, cy)
		r.ArcTo(cx, cy, pie*HoleFraction, pie*HoleFraction, 0, chart.DegreesToRadians(359.9))
		r.LineTo(cx, cy)
		r.Close()
		r.FillStroke()

		text := func(body string, f *truetype.Font, size float64, dy float64) {
			r.SetFont(f)
			r.SetFontSize(size)
			r.SetFontColor(drawing.ColorBlack)
			tb := r.MeasureText(body)
			y := cy - int(math.Round(dy*pie))
			r.Text(body, cx-tb.Width()/2, y+tb.Height()/2)
		}
		text(fmt.Sprintf("%.1f%%", nonePercent), tf.bold, 14, 0.05)
		text(None, tf.regular, 12, -0.17)
	}
}

// Composite draws the donuts side by side with titles and a shared legend
// and returns the canvas. Panels with nothing to draw read "No data".
func Composite(panels []Panel, legend []string, cfg style.Config, dpi int) (*gg.Context, error) {
	if dpi <= 0 {
		dpi = 300
	}
	scale := float64(dpi)
	width := int(PageWidth * scale)
	height := int(PageHeight * scale)

	tf, err := loadTypefaces()
	if err != nil {
		return nil, err
	}
	titleFace := tf.face(tf.bold, 12, scale)
	labelFace := tf.face(tf.regular, 12, scale)

	dc := gg.NewContext(width, height)

	colWidth := float64(width) / float64(max(len(panels), 1))
	areaTop := titleBand * scale
	areaHeight := float64(height) - areaTop - legendBand*scale
	size := int(math.Min(colWidth, areaHeight))

	for i, p := range panels {
		cx := colWidth*float64(i) + colWidth/2
		cy := areaTop + areaHeight/2

		dc.SetFontFace(titleFace)
		dc.SetHexColor("#000000")
		dc.DrawStringAnchored(p.Title, cx, areaTop-0.05*scale, 0.5, 0)

		donut, ok, err := Donut(p, cfg, size*supersample, scale*supersample)
		if err != nil {
			return nil, err
		}
		if !ok {
			dc.SetFontFace(labelFace)
			dc.DrawStringAnchored("No data", cx, cy, 0.5, 0.5)
			continue
		}

		img, err := renderPNG(donut)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %w", p.Title, err))
		}
		dc.DrawImageAnchored(imaging.Resize(img, size, size, imaging.Lanczos), int(cx), int(cy), 0.5, 0.5)
	}

	drawLegend(dc, legend, cfg, labelFace, float64(height)-legendBand*scale/2, scale)

	return dc, nil
}

func drawLegend(dc *gg.Context, labels []string, cfg style.Config, face font.Face, y, scale float64) {
	dc.SetFontFace(face)

	swatch := 0.12 * scale
	gap := 0.05 * scale
	spacing := 0.15 * scale

	var total float64
	for i, label := range labels {
		w, _ := dc.MeasureString(label)
		total += swatch + gap + w
		if i > 0 {
			total += spacing
		}
	}

	x := (float64(dc.Width()) - total) / 2
	for _, label := range labels {
		dc.SetColor(cfg.SymptomColor(label))
		dc.DrawRectangle(x, y-swatch/2, swatch, swatch)
		dc.Fill()
		x += swatch + gap

		dc.SetHexColor("#000000")
		dc.DrawStringAnchored(label, x, y, 0, 0.35)
		w, _ := dc.MeasureString(label)
		x += w + spacing
	}
}

func renderPNG(c chart.DonutChart) (image.Image, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

// Render writes the composite PNG and one SVG per drawable donut into the
// output directory and returns the paths written.
func Render(panels []Panel, cfg style.Config, s figure.Settings, name string) ([]string, error) {
	dir := dbsfigures.ExpandHome(s.OutputDir)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pfx.Err(err)
	}

	percents := make([]map[string]float64, len(panels))
	for i, p := range panels {
		percents[i] = p.Percent
	}

	dc, err := Composite(panels, LegendLabels(percents...), cfg, s.DPI)
	if err != nil {
		return nil, err
	}

	var written []string
	path := filepath.Join(dir, name+".png")
	if err := dc.SavePNG(path); err != nil {
		return nil, pfx.Err(err)
	}
	log.Printf("Wrote %s\n", path)
	written = append(written, path)

	for i, p := range panels {
		donut, ok, err := Donut(p, cfg, 600, 72)
		if err != nil {
			return written, err
		}
		if !ok {
			log.Printf("%s: no symptoms reported, no SVG written\n", p.Title)
			continue
		}

		path := filepath.Join(dir, fmt.Sprintf("%s_%d.svg", name, i+1))
		f, err := os.Create(path)
		if err != nil {
			return written, pfx.Err(err)
		}
		if err := donut.Render(chart.SVG, f); err != nil {
			f.Close()
			return written, pfx.Err(err)
		}
		if err := f.Close(); err != nil {
			return written, pfx.Err(err)
		}
		log.Printf("Wrote %s\n", path)
		written = append(written, path)
	}

	return written, nil
}
