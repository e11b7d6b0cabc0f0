package gait

import (
	"log"

	"github.com/carbocation/dbsfigures/style"
	"github.com/carbocation/dbsfigures/table"
	"gopkg.in/guregu/null.v3"
)

// TBCCohort is the freezer split used for the turning and barrier course
// figure.
var TBCCohort = Cohort{
	Freezers:    []string{"RCS02", "RCS03", "RCS09", "RCS11"},
	NonFreezers: []string{"RCS01", "RCS04", "RCS10"},
}

const (
	TaskEllipses = "Ellipses"
	TaskFigure8  = "Figure8"
)

// TBCRow is one wide row of the merged turning and barrier course metrics,
// holding both walking tasks side by side.
type TBCRow struct {
	Patient string `csv:"patient_num"`
	Visit   string `csv:"stringvisit"`

	EllipseFreezing      null.Float `csv:"Emean_freezing"`
	EllipseArrhythmicity null.Float `csv:"Earrhythmicity_new"`
	EllipseShankAV       null.Float `csv:"Emean_shankav"`

	Figure8Freezing      null.Float `csv:"eigmean_freezing"`
	Figure8Arrhythmicity null.Float `csv:"eigarrhythmicity_new"`
	Figure8ShankAV       null.Float `csv:"eigmean_shankav"`
}

// LoadTBC reads the merged turning and barrier course metrics and reshapes
// them to one observation per (patient, visit, task). Task columns that are
// absent from the file read as missing.
func LoadTBC(path string, cfg style.Config) ([]Observation, error) {
	tbl, err := table.Open(path)
	if err != nil {
		return nil, err
	}
	if err := tbl.Has("patient_num", "stringvisit"); err != nil {
		return nil, err
	}

	var rows []TBCRow
	if err := tbl.Unmarshal(&rows); err != nil {
		return nil, err
	}
	log.Printf("Read %d TBC rows from %s\n", len(rows), path)

	return Reshape(rows, cfg), nil
}

// Reshape splits each wide row whose visit is in the event map into an
// Ellipses and a Figure8 observation. Arrhythmicity is scaled to percent.
func Reshape(rows []TBCRow, cfg style.Config) []Observation {
	out := make([]Observation, 0, 2*len(rows))
	for _, r := range rows {
		condition, ok := cfg.Condition(r.Visit)
		if !ok {
			continue
		}

		out = append(out,
			Observation{
				Patient:       r.Patient,
				Visit:         r.Visit,
				Condition:     condition,
				Task:          TaskEllipses,
				Freezing:      orNaN(r.EllipseFreezing),
				Velocity:      orNaN(r.EllipseShankAV),
				Arrhythmicity: scaled(r.EllipseArrhythmicity, 100),
			},
			Observation{
				Patient:       r.Patient,
				Visit:         r.Visit,
				Condition:     condition,
				Task:          TaskFigure8,
				Freezing:      orNaN(r.Figure8Freezing),
				Velocity:      orNaN(r.Figure8ShankAV),
				Arrhythmicity: scaled(r.Figure8Arrhythmicity, 100),
			},
		)
	}
	return out
}
