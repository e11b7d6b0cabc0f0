package gait

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/carbocation/dbsfigures/figure"
	"github.com/carbocation/dbsfigures/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/guregu/null.v3"
)

func TestBackfillBaseline(t *testing.T) {
	rows := []SIPRow{
		{Patient: "RCS01", Visit: "olDBS", ShortArrhythm: null.FloatFrom(9)},
		{Patient: "RCS01", Visit: "baseline", ShortArrhythm: null.FloatFrom(31)},
		{Patient: "RCS01", Visit: "baseline", ShortArrhythm: null.FloatFrom(44)},
		{Patient: "RCS09", Visit: "baseline", FullArrhythm: null.FloatFrom(12), ShortArrhythm: null.FloatFrom(55)},
		{Patient: "RCS10", Visit: "baseline"},
		{Patient: "RCS02", Visit: "baseline", ShortArrhythm: null.FloatFrom(20)},
	}

	BackfillBaseline(rows, SIPBackfillPatients)

	assert.False(t, rows[0].FullArrhythm.Valid, "only baseline rows are filled")
	assert.Equal(t, null.FloatFrom(31), rows[1].FullArrhythm)
	assert.False(t, rows[2].FullArrhythm.Valid, "only the first baseline row is filled")
	assert.Equal(t, 12.0, rows[3].FullArrhythm.Float64, "present values are kept")
	assert.False(t, rows[4].FullArrhythm.Valid, "nothing to copy")
	assert.False(t, rows[5].FullArrhythm.Valid, "patient not listed")
}

func TestSIPObservationsDropsUnmappedVisits(t *testing.T) {
	cfg := style.Default()
	rows := []SIPRow{
		{Patient: "RCS02", Visit: "baseline", Freezes: null.FloatFrom(40), ShankAV: null.FloatFrom(80)},
		{Patient: "RCS02", Visit: "screening", Freezes: null.FloatFrom(1)},
		{Patient: "RCS02", Visit: "KaDBSI", FullArrhythm: null.FloatFrom(22)},
	}

	obs := SIPObservations(rows, cfg)
	require.Len(t, obs, 2)
	assert.Equal(t, "OFF", obs[0].Condition)
	assert.Equal(t, 40.0, obs[0].Freezing)
	assert.True(t, math.IsNaN(obs[0].Arrhythmicity))
	assert.Equal(t, "KaDBS", obs[1].Condition)
	assert.Equal(t, 22.0, obs[1].Arrhythmicity)
}

func TestReshape(t *testing.T) {
	cfg := style.Default()
	rows := []TBCRow{
		{
			Patient:              "RCS03",
			Visit:                "olDBS",
			EllipseFreezing:      null.FloatFrom(10),
			EllipseArrhythmicity: null.FloatFrom(0.25),
			Figure8Freezing:      null.FloatFrom(30),
			Figure8ShankAV:       null.FloatFrom(90),
		},
		{Patient: "RCS03", Visit: "unknown"},
	}

	obs := Reshape(rows, cfg)
	require.Len(t, obs, 2)

	assert.Equal(t, TaskEllipses, obs[0].Task)
	assert.Equal(t, "cDBS", obs[0].Condition)
	assert.Equal(t, 25.0, obs[0].Arrhythmicity)
	assert.True(t, math.IsNaN(obs[0].Velocity))

	assert.Equal(t, TaskFigure8, obs[1].Task)
	assert.Equal(t, 30.0, obs[1].Freezing)
	assert.Equal(t, 90.0, obs[1].Velocity)
	assert.True(t, math.IsNaN(obs[1].Arrhythmicity))
}

func TestMeanEntities(t *testing.T) {
	nan := math.NaN()
	obs := []Observation{
		{Patient: "RCS02", Condition: "OFF", Freezing: 10},
		{Patient: "RCS02", Condition: "OFF", Freezing: 30},
		{Patient: "RCS02", Condition: "cDBS", Freezing: nan},
		{Patient: "RCS02", Condition: "cDBS", Freezing: 4},
		{Patient: "RCS03", Condition: "OFF", Freezing: nan},
	}

	entities := MeanEntities(obs, Freezing)
	require.Len(t, entities, 2)
	assert.Equal(t, "RCS02", entities[0].ID)
	assert.Equal(t, 20.0, entities[0].Values["OFF"])
	assert.Equal(t, 4.0, entities[0].Values["cDBS"])
	assert.True(t, math.IsNaN(entities[1].Values["OFF"]))

	first := FirstEntities(obs, Freezing)
	assert.Equal(t, 10.0, first[0].Values["OFF"])
	assert.True(t, math.IsNaN(first[0].Values["cDBS"]), "the first row wins even when missing")
}

func TestLimitsAndAvailable(t *testing.T) {
	obs := []Observation{
		{Patient: "RCS10", Arrhythmicity: 50},
		{Patient: "RCS02", Arrhythmicity: 10},
		{Patient: "RCS02", Arrhythmicity: math.NaN()},
	}

	min, max := Limits(obs, Arrhythmicity, []string{"RCS02"})
	assert.Equal(t, 9.0, min)
	assert.Equal(t, 12.0, max)

	min, max = Limits(obs, Arrhythmicity, []string{"RCS99"})
	assert.Equal(t, -5.0, min)
	assert.Equal(t, 15.0, max)

	_, max = Limits(obs, Arrhythmicity, nil)
	assert.Equal(t, 55.0, max)

	assert.Equal(t, []string{"RCS02", "RCS10"}, Available(obs))
}

func labels(l *figure.LegendRow) []string {
	out := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		out[i] = e.Label
	}
	return out
}

func TestSplitLegend(t *testing.T) {
	cfg := style.Default()
	available := []string{"RCS01", "RCS02", "RCS03", "RCS04", "RCS06", "RCS09", "RCS10", "RCS11"}

	l := SplitLegend(cfg, SIPCohort, available)
	assert.Equal(t, []string{"", "P02", "P03", "", "P04", "P06", "P11", "", "P01", "P09", "P10"}, labels(l))
	assert.Equal(t, 3, l.Columns)
	assert.Len(t, l.Entries[1].Thumbs, 3)
	assert.Empty(t, l.Entries[0].Thumbs)

	l = SplitLegend(cfg, SIPCohort, []string{"RCS11", "RCS01"})
	assert.Equal(t, []string{"", "", "P11", "", "P01"}, labels(l))
}

func TestRowLegend(t *testing.T) {
	cfg := style.Default()
	available := []string{"RCS01", "RCS02", "RCS03", "RCS04", "RCS09", "RCS10", "RCS11"}

	l := RowLegend(cfg, TBCCohort, available)
	assert.Equal(t, []string{"P02", "P03", "P09", "P11", "", "P01", "P04", "P10"}, labels(l))
	assert.Equal(t, 5, l.Columns)
}

func TestLoadSIPAndRender(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "MergedSIPMetrics.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"patient_num", "stringvisit", "freezes", "mean_shank_av", "full_arrhythm", "short_arrhythm"},
		{"RCS02", "baseline", 45, 120, 30, ""},
		{"RCS02", "olDBS", 20, 150, 22, ""},
		{"RCS02", "KaDBSI", 5, 170, 15, ""},
		{"RCS01", "baseline", 0, 200, "", 12},
		{"RCS01", "iolDBSI", 0, 210, 9, ""},
		{"RCS01", "screening", 0, 1, 1, ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := style.Default()
	obs, err := LoadSIP(path, cfg)
	require.NoError(t, err)
	require.Len(t, obs, 5)
	assert.Equal(t, 12.0, obs[3].Arrhythmicity, "baseline back-filled from the short trial")

	layout, err := SIPPanels(obs, cfg, 1).Layout(cfg)
	require.NoError(t, err)
	require.Len(t, layout.Cells, 2)

	written, err := layout.Save("fig5_sip_gait", figure.Settings{OutputDir: dir, Formats: []string{"svg"}, DPI: 72})
	require.NoError(t, err)
	require.Len(t, written, 1)
	info, err := os.Stat(written[0])
	require.NoError(t, err)
	assert.True(t, info.Size() > 0)
}

func TestLoadTBCMissingColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "MergedTBCMetrics.csv")
	content := "patient_num,stringvisit,Emean_freezing,Earrhythmicity_new\n" +
		"RCS02,baseline,50,0.4\n" +
		"RCS02,olDBS,NA,0.2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := style.Default()
	obs, err := LoadTBC(path, cfg)
	require.NoError(t, err)
	require.Len(t, obs, 4)
	assert.InDelta(t, 40.0, obs[0].Arrhythmicity, 1e-9)
	assert.True(t, math.IsNaN(obs[1].Freezing), "figure-8 columns are absent")
	assert.True(t, math.IsNaN(obs[2].Freezing))

	layout, err := TBCPanels(obs, cfg, 1).Layout(cfg)
	require.NoError(t, err)
	assert.Equal(t, Width, layout.Width)

	_, err = LoadTBC(filepath.Join(dir, "missing.csv"), cfg)
	assert.Error(t, err)
}
