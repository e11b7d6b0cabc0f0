package gait

import (
	"log"

	"github.com/carbocation/dbsfigures/style"
	"github.com/carbocation/dbsfigures/table"
	"gopkg.in/guregu/null.v3"
)

// SIPCohort is the freezer split used for the stepping-in-place figure.
var SIPCohort = Cohort{
	Freezers:    []string{"RCS02", "RCS03", "RCS04", "RCS06", "RCS11"},
	NonFreezers: []string{"RCS01", "RCS09", "RCS10"},
}

// SIPBackfillPatients have no full-length baseline arrhythmicity; their
// short-trial value stands in for it.
var SIPBackfillPatients = []string{"RCS01", "RCS09", "RCS10"}

// SIPRow is one row of the merged stepping-in-place metrics workbook.
type SIPRow struct {
	Patient       string     `csv:"patient_num"`
	Visit         string     `csv:"stringvisit"`
	Freezes       null.Float `csv:"freezes"`
	ShankAV       null.Float `csv:"mean_shank_av"`
	FullArrhythm  null.Float `csv:"full_arrhythm"`
	ShortArrhythm null.Float `csv:"short_arrhythm"`
}

// LoadSIP reads the merged stepping-in-place metrics, applies the baseline
// back-fill, and returns the observations whose visit maps to a condition.
func LoadSIP(path string, cfg style.Config) ([]Observation, error) {
	tbl, err := table.Open(path)
	if err != nil {
		return nil, err
	}
	if err := tbl.Has("patient_num", "stringvisit", "freezes", "mean_shank_av", "full_arrhythm"); err != nil {
		return nil, err
	}

	var rows []SIPRow
	if err := tbl.Unmarshal(&rows); err != nil {
		return nil, err
	}
	log.Printf("Read %d SIP rows from %s\n", len(rows), path)

	BackfillBaseline(rows, SIPBackfillPatients)

	return SIPObservations(rows, cfg), nil
}

// BackfillBaseline copies short_arrhythm into a missing full_arrhythm on the
// first baseline row of each listed patient.
func BackfillBaseline(rows []SIPRow, patients []string) {
	for _, patient := range patients {
		for i := range rows {
			if rows[i].Patient != patient || rows[i].Visit != "baseline" {
				continue
			}
			if !rows[i].FullArrhythm.Valid && rows[i].ShortArrhythm.Valid {
				rows[i].FullArrhythm = rows[i].ShortArrhythm
				log.Printf("%s: baseline arrhythmicity taken from the short trial\n", patient)
			}
			break
		}
	}
}

// SIPObservations keeps rows whose visit is in the event map.
func SIPObservations(rows []SIPRow, cfg style.Config) []Observation {
	out := make([]Observation, 0, len(rows))
	for _, r := range rows {
		condition, ok := cfg.Condition(r.Visit)
		if !ok {
			continue
		}
		out = append(out, Observation{
			Patient:       r.Patient,
			Visit:         r.Visit,
			Condition:     condition,
			Freezing:      orNaN(r.Freezes),
			Velocity:      orNaN(r.ShankAV),
			Arrhythmicity: orNaN(r.FullArrhythm),
		})
	}
	return out
}
