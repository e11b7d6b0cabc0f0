package gait

import (
	"github.com/carbocation/dbsfigures/axis"
	"github.com/carbocation/dbsfigures/figure"
	"github.com/carbocation/dbsfigures/style"
	"github.com/carbocation/dbsfigures/trajectory"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Page size of the gait figures.
const (
	Width  = vg.Length(7.3) * vg.Inch
	Height = vg.Length(7.2) * vg.Inch
)

// FreezingCeiling is the upper end of the percent-time-freezing axis.
const FreezingCeiling = 100

const (
	labelFreezing        = "% Time Freezing"
	labelFreezersFreeze  = "% Time Freezing\n(Baseline Freezers)"
	labelVelocity        = "Mean Angular Velocity\n(deg/s)"
	labelArrhythmFreeze  = "Arrhythmicity\n(Freezers)"
	labelArrhythmNoFreez = "Arrhythmicity\n(Non-Freezers)"
)

// Panels describes one gait figure.
type Panels struct {
	Cohort Cohort
	Obs    []Observation

	// Entities reduces observations to one value per patient and condition
	// for the trajectory panels.
	Entities func([]Observation, Metric) []trajectory.Entity

	Strip  figure.BoxOptions
	Legend *figure.LegendRow
}

// SIPPanels is the stepping-in-place figure: one observation per visit,
// legend with the freezers split over two columns.
func SIPPanels(obs []Observation, cfg style.Config, seed uint64) Panels {
	return Panels{
		Cohort:   SIPCohort,
		Obs:      obs,
		Entities: FirstEntities,
		Strip:    figure.DefaultBoxOptions(seed),
		Legend:   SplitLegend(cfg, SIPCohort, Available(obs)),
	}
}

// TBCPanels is the turning and barrier course figure: two tasks per visit,
// averaged for the trajectories, legend in a single row.
func TBCPanels(obs []Observation, cfg style.Config, seed uint64) Panels {
	strip := figure.DefaultBoxOptions(seed)
	strip.Jitter = 0.25
	strip.DotRadius = vg.Points(2.5)
	strip.DotAlpha = 0.7
	strip.DotEdge = vg.Points(0.5)

	return Panels{
		Cohort:   TBCCohort,
		Obs:      obs,
		Entities: MeanEntities,
		Strip:    strip,
		Legend:   RowLegend(cfg, TBCCohort, Available(obs)),
	}
}

// Layout renders the six panels and the legend:
//
//	A freezing box plot          B freezer freezing trajectories
//	C velocity box plot          D velocity trajectories, both cohorts
//	E freezer arrhythmicity      F non-freezer arrhythmicity
func (p Panels) Layout(cfg style.Config) (figure.Layout, error) {
	order := cfg.ConditionOrder

	velMin, velMax := Limits(p.Obs, Velocity, nil)
	arrFMin, arrFMax := Limits(p.Obs, Arrhythmicity, p.Cohort.Freezers)
	arrNMin, arrNMax := Limits(p.Obs, Arrhythmicity, p.Cohort.NonFreezers)

	freezing := axis.ZeroPaddedTicks(FreezingCeiling, axis.DefaultPad)
	velocity := axis.NiceTicks(velMin, velMax)

	a := style.NewPlot()
	figure.Describe(Freezing.Name, Groups(p.Obs, Freezing), order)
	if _, err := figure.BoxStrip(a, Groups(p.Obs, Freezing), order, cfg, p.Strip); err != nil {
		return figure.Layout{}, err
	}
	trajectory.ConditionAxis(a, order)
	freezing.Apply(&a.Y)
	a.Y.Label.Text = labelFreezing

	b := style.NewPlot()
	if _, err := trajectory.Plot(b, p.Entities(p.Obs, Freezing), p.Cohort.Freezers, cfg, trajectory.Solid); err != nil {
		return figure.Layout{}, err
	}
	freezing.Apply(&b.Y)
	b.Y.Label.Text = labelFreezersFreeze

	c := style.NewPlot()
	figure.Describe(Velocity.Name, Groups(p.Obs, Velocity), order)
	if _, err := figure.BoxStrip(c, Groups(p.Obs, Velocity), order, cfg, p.Strip); err != nil {
		return figure.Layout{}, err
	}
	trajectory.ConditionAxis(c, order)
	velocity.Apply(&c.Y)
	c.Y.Label.Text = labelVelocity

	d := style.NewPlot()
	velEntities := p.Entities(p.Obs, Velocity)
	if _, err := trajectory.Plot(d, velEntities, p.Cohort.Freezers, cfg, trajectory.Solid); err != nil {
		return figure.Layout{}, err
	}
	if _, err := trajectory.Plot(d, velEntities, p.Cohort.NonFreezers, cfg, trajectory.Dashed); err != nil {
		return figure.Layout{}, err
	}
	velocity.Apply(&d.Y)
	d.Y.Label.Text = labelVelocity

	arrEntities := p.Entities(p.Obs, Arrhythmicity)

	e := style.NewPlot()
	if _, err := trajectory.Plot(e, arrEntities, p.Cohort.Freezers, cfg, trajectory.Solid); err != nil {
		return figure.Layout{}, err
	}
	axis.NiceTicks(arrFMin, arrFMax).Apply(&e.Y)
	e.Y.Label.Text = labelArrhythmFreeze

	f := style.NewPlot()
	if _, err := trajectory.Plot(f, arrEntities, p.Cohort.NonFreezers, cfg, trajectory.Dashed); err != nil {
		return figure.Layout{}, err
	}
	axis.NiceTicks(arrNMin, arrNMax).Apply(&f.Y)
	f.Y.Label.Text = labelArrhythmNoFreez

	style.Finalize(a, b, c, d, e, f)

	bands := figure.Bands(3, 0.35)
	layout := figure.Layout{
		Width:  Width,
		Height: Height,
		Cells: []figure.Cell{
			figure.Grid([][]*plot.Plot{{a, b}, {c, d}, {e, f}}).In(0.02, bands[0][0], 0.98, bands[0][1]),
		},
	}
	if p.Legend != nil {
		layout.Cells = append(layout.Cells,
			figure.Grid([][]*plot.Plot{{figure.LegendPanel(p.Legend)}}).In(0, bands[1][0], 1, bands[1][1]))
	}

	return layout, nil
}

func patientEntry(cfg style.Config, id string, m trajectory.Mark) figure.LegendEntry {
	return figure.LegendEntry{
		Label:  cfg.LegendLabel(id),
		Thumbs: m.Thumbnails(cfg.PatientColor(id)),
	}
}

// present keeps the ids found in available, sorted by display label.
func present(cfg style.Config, ids, available []string) []string {
	have := make(map[string]struct{}, len(available))
	for _, id := range available {
		have[id] = struct{}{}
	}
	var out []string
	for _, id := range ids {
		if _, ok := have[id]; ok {
			out = append(out, id)
		}
	}
	return cfg.SortByLabel(out)
}

// SplitLegend lays out three columns: the first half of the freezers, the
// second half, then the non-freezers, with spacers ahead of each group.
func SplitLegend(cfg style.Config, cohort Cohort, available []string) *figure.LegendRow {
	freezers := present(cfg, cohort.Freezers, available)
	nonFreezers := present(cfg, cohort.NonFreezers, available)
	mid := len(freezers) / 2

	entries := []figure.LegendEntry{figure.Spacer()}
	for _, id := range freezers[:mid] {
		entries = append(entries, patientEntry(cfg, id, trajectory.Solid))
	}
	entries = append(entries, figure.Spacer())
	for _, id := range freezers[mid:] {
		entries = append(entries, patientEntry(cfg, id, trajectory.Solid))
	}
	entries = append(entries, figure.Spacer())
	for _, id := range nonFreezers {
		entries = append(entries, patientEntry(cfg, id, trajectory.Dashed))
	}

	return figure.NewLegendRow(3, entries...)
}

// RowLegend lays the freezers, a spacer, and the non-freezers across one
// column per freezer plus one.
func RowLegend(cfg style.Config, cohort Cohort, available []string) *figure.LegendRow {
	freezers := present(cfg, cohort.Freezers, available)
	nonFreezers := present(cfg, cohort.NonFreezers, available)

	var entries []figure.LegendEntry
	for _, id := range freezers {
		entries = append(entries, patientEntry(cfg, id, trajectory.Solid))
	}
	entries = append(entries, figure.Spacer())
	for _, id := range nonFreezers {
		entries = append(entries, patientEntry(cfg, id, trajectory.Dashed))
	}

	return figure.NewLegendRow(len(freezers)+1, entries...)
}
