// Package trajectory draws one connected line per entity (patient) across an
// ordered set of categorical conditions.
package trajectory

import (
	"image/color"
	"math"

	"github.com/carbocation/dbsfigures/style"
	"github.com/carbocation/pfx"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// MinPoints is the fewest present values an entity needs to be drawn. A
// single point is not drawn on its own.
const MinPoints = 2

// Sample is one (entity, condition, value) observation. NaN marks a
// missing value.
type Sample struct {
	Entity    string
	Condition string
	Value     float64
}

// Entity holds one entity's value per condition. A condition that is absent
// from Values and one whose value is NaN are both treated as missing.
type Entity struct {
	ID     string
	Values map[string]float64
}

// Trajectory is an entity's present values positioned at the index of their
// condition.
type Trajectory struct {
	ID     string
	Points plotter.XYs
}

// Collect groups samples into entities, in order of first appearance. When an
// entity has several samples for the same condition, the first one is kept
// even when its value is missing.
func Collect(samples []Sample) []Entity {
	index := make(map[string]int)
	out := make([]Entity, 0)

	for _, s := range samples {
		i, exists := index[s.Entity]
		if !exists {
			i = len(out)
			index[s.Entity] = i
			out = append(out, Entity{ID: s.Entity, Values: make(map[string]float64)})
		}

		if _, seen := out[i].Values[s.Condition]; seen {
			continue
		}
		out[i].Values[s.Condition] = s.Value
	}

	return out
}

// Points returns (position, value) for every condition in order that has a
// present value for e.
func Points(e Entity, order []string) plotter.XYs {
	out := make(plotter.XYs, 0, len(order))
	for i, cond := range order {
		v, ok := e.Values[cond]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, plotter.XY{X: float64(i), Y: v})
	}
	return out
}

// Build returns the drawable trajectories of the requested ids, in the order
// requested. Ids with no entity, and entities with fewer than MinPoints
// present values, are skipped.
func Build(entities []Entity, ids []string, order []string) []Trajectory {
	byID := make(map[string]Entity, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
	}

	out := make([]Trajectory, 0, len(ids))
	for _, id := range ids {
		e, ok := byID[id]
		if !ok {
			continue
		}

		pts := Points(e, order)
		if len(pts) < MinPoints {
			continue
		}

		out = append(out, Trajectory{ID: id, Points: pts})
	}

	return out
}

// Mark describes how a cohort's trajectories are drawn.
type Mark struct {
	Shape  draw.GlyphDrawer
	Dashed bool
}

var (
	// Solid is used for baseline freezers.
	Solid = Mark{Shape: draw.CircleGlyph{}}

	// Dashed is used for non-freezers.
	Dashed = Mark{Shape: draw.TriangleGlyph{}, Dashed: true}
)

// LineStyle returns the line style for a trajectory of the given colour.
func (m Mark) LineStyle(c color.Color) draw.LineStyle {
	ls := draw.LineStyle{
		Color: style.WithAlpha(c, 0.9),
		Width: vg.Points(2.2),
	}
	if m.Dashed {
		ls.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	}
	return ls
}

// GlyphStyle returns the marker style for a trajectory of the given colour.
func (m Mark) GlyphStyle(c color.Color) draw.GlyphStyle {
	return draw.GlyphStyle{
		Color:  c,
		Radius: vg.Points(3.5),
		Shape:  m.Shape,
	}
}

// Halo is drawn beneath each marker to give it a white edge.
func (m Mark) Halo() draw.GlyphStyle {
	return draw.GlyphStyle{
		Color:  color.White,
		Radius: vg.Points(4.5),
		Shape:  m.Shape,
	}
}

// Thumbnails returns the legend sample for a patient drawn with this mark.
func (m Mark) Thumbnails(c color.Color) []plot.Thumbnailer {
	line := &plotter.Line{LineStyle: m.LineStyle(c)}
	halo := &plotter.Scatter{GlyphStyle: m.Halo()}
	marks := &plotter.Scatter{GlyphStyle: m.GlyphStyle(c)}
	return []plot.Thumbnailer{line, halo, marks}
}

// Render adds every trajectory to p, coloured per patient from cfg, and
// labels the x axis with the condition order. It returns how many
// trajectories were drawn.
func Render(p *plot.Plot, trajs []Trajectory, cfg style.Config, m Mark) (int, error) {
	for _, tr := range trajs {
		col := cfg.PatientColor(tr.ID)

		line, err := plotter.NewLine(tr.Points)
		if err != nil {
			return 0, pfx.Err(err)
		}
		line.LineStyle = m.LineStyle(col)

		halo, err := plotter.NewScatter(tr.Points)
		if err != nil {
			return 0, pfx.Err(err)
		}
		halo.GlyphStyle = m.Halo()

		marks, err := plotter.NewScatter(tr.Points)
		if err != nil {
			return 0, pfx.Err(err)
		}
		marks.GlyphStyle = m.GlyphStyle(col)

		p.Add(line, halo, marks)
	}

	ConditionAxis(p, cfg.ConditionOrder)

	return len(trajs), nil
}

// Plot builds the trajectories of ids from entities and renders them.
func Plot(p *plot.Plot, entities []Entity, ids []string, cfg style.Config, m Mark) (int, error) {
	return Render(p, Build(entities, ids, cfg.ConditionOrder), cfg, m)
}

// ConditionAxis labels the x axis with the condition names at positions
// 0..n-1 and fixes its range so that every panel sharing the order lines up.
func ConditionAxis(p *plot.Plot, order []string) {
	if len(order) == 0 {
		return
	}

	p.NominalX(order...)
	p.X.Min = -0.5
	p.X.Max = float64(len(order)) - 0.5
}
