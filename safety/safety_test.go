package safety

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/carbocation/dbsfigures/figure"
	"github.com/carbocation/dbsfigures/style"
	"github.com/carbocation/dbsfigures/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answers(pairs ...interface{}) map[string]float64 {
	out := make(map[string]float64)
	for i := 0; i+1 < len(pairs); i += 2 {
		out[pairs[i].(string)] = float64(pairs[i+1].(int))
	}
	return out
}

func TestResponses(t *testing.T) {
	tbl, err := table.FromRecords("survey.csv", [][]string{
		{PatientColumn, EventColumn, "did_have_any_feelings_of_Nausea", "did_have_any_feelings_of_Noneoftheabove"},
		{"1.0", "set_a_kadbsi__140h_arm_6", "1", ""},
		{"x", "set_a_kadbsi__140h_arm_6", "1", "0"},
		{"", "set_a_kadbsi__140h_arm_6", "1", "0"},
		{"3", "set_a_oldbs140_hz_arm_6", "NA", "1"},
	})
	require.NoError(t, err)

	rs, err := Responses(tbl)
	require.NoError(t, err)
	require.Len(t, rs, 2)

	assert.Equal(t, 1, rs[0].PatientID)
	assert.Equal(t, 1.0, rs[0].Answers["Nausea"])
	assert.Equal(t, 0.0, rs[0].Answers[None], "blank answers count as 0")
	_, ok := rs[0].Answers["Pulling"]
	assert.False(t, ok, "absent columns stay absent")

	assert.Equal(t, 3, rs[1].PatientID)
	assert.Equal(t, 0.0, rs[1].Answers["Nausea"])

	noID, err := table.FromRecords("survey.csv", [][]string{{"did_have_any_feelings_of_Nausea"}, {"1"}})
	require.NoError(t, err)
	_, err = Responses(noID)
	assert.Error(t, err)
}

func TestFilterKeepsPIDOrder(t *testing.T) {
	rs := []Response{
		{PatientID: 4, Event: "a"},
		{PatientID: 1, Event: "a"},
		{PatientID: 1, Event: "b"},
		{PatientID: 2, Event: "a"},
	}

	got := Filter(rs, []int{2, 1, 4, 9}, "a")
	require.Len(t, got, 3)
	assert.Equal(t, 2, got[0].PatientID)
	assert.Equal(t, 1, got[1].PatientID)
	assert.Equal(t, 4, got[2].PatientID)

	assert.Empty(t, Filter(rs, []int{1}, "c"))
}

func TestPercentages(t *testing.T) {
	pct, counts := Percentages(nil)
	assert.Nil(t, counts)
	assert.Len(t, pct, len(Symptoms))
	for _, v := range pct {
		assert.Zero(t, v)
	}

	pct, counts = Percentages([]Response{{Answers: answers("Nausea", 0)}})
	assert.Equal(t, 0, counts["Nausea"])
	assert.Zero(t, pct["Nausea"], "no answers at all")

	rs := []Response{
		{Answers: answers("Nausea", 1, "Dizziness", 1)},
		{Answers: answers(None, 1)},
		{Answers: answers(None, 1)},
	}
	pct, counts = Percentages(rs)
	assert.Equal(t, 2, counts[None])
	assert.Equal(t, 50.0, pct[None])
	assert.Equal(t, 25.0, pct["Nausea"])
	assert.Equal(t, 25.0, pct["Dizziness"])
	assert.Zero(t, pct["Other"])
}

func TestParticipantsAndSymptomFree(t *testing.T) {
	rs := []Response{
		{Answers: answers(None, 1)},
		{Answers: answers("Pulling", 1)},
		{Answers: answers(None, 1)},
	}

	n, none, affected := Participants(rs)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, none)
	assert.Equal(t, 1, affected)

	assert.Equal(t, "Clinical cDBS: 2/3 (66.7%) symptom-free", SymptomFree("Clinical cDBS", rs))
	assert.Equal(t, "P(FOG) Model: 0/0 (0.0%) symptom-free", SymptomFree("P(FOG) Model", nil))
}

func TestWedges(t *testing.T) {
	pct := map[string]float64{
		"Nausea":    10,
		"Pulling":   30,
		"Tingling":  10,
		"Dizziness": 0,
		None:        20,
	}

	got := Wedges(pct)
	require.Len(t, got, 4)
	assert.Equal(t, None, got[0].Label, "None leads regardless of share")
	assert.Equal(t, "Pulling", got[1].Label)
	assert.Equal(t, "Nausea", got[2].Label, "ties keep survey order")
	assert.Equal(t, "Tingling", got[3].Label)

	assert.Empty(t, Wedges(map[string]float64{None: 0}))
}

func TestLegendLabels(t *testing.T) {
	a := map[string]float64{"Nausea": 5, None: 95}
	b := map[string]float64{"Imbalance": 10, "Other": 0}

	assert.Equal(t, []string{None, "Imbalance", "Nausea"}, LegendLabels(a, b))
	assert.Equal(t, []string{None}, LegendLabels())
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	cfg := style.Default()

	panels := []Panel{
		{Title: "Arrhythmicity Model", Percent: map[string]float64{None: 60, "Imbalance": 25, "Nausea": 15}},
		{Title: "P(FOG) Model", Percent: map[string]float64{None: 100}},
		{Title: "Clinical cDBS", Percent: map[string]float64{}},
	}

	written, err := Render(panels, cfg, figure.Settings{OutputDir: filepath.Join(dir, "out"), DPI: 72}, "fig4_safety")
	require.NoError(t, err)
	require.Len(t, written, 3, "composite plus one SVG per non-empty donut")
	assert.Equal(t, filepath.Join(dir, "out", "fig4_safety.png"), written[0])
	assert.Equal(t, filepath.Join(dir, "out", "fig4_safety_2.svg"), written[2])

	for _, path := range written {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.Size() > 0, path)
	}

	_, ok, err := Donut(panels[2], cfg, 100, 72)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	surveys := map[Survey][]Response{
		SIP: {
			{PatientID: 1, Event: "set_a_kadbsi__140h_arm_6", Answers: answers(None, 1)},
			{PatientID: 2, Event: "set_a_kadbsi__140h_arm_6", Answers: answers("Tingling", 1)},
			{PatientID: 5, Event: "set_a_kadbsi__140h_arm_6", Answers: answers("Other", 1)},
		},
	}

	panels := Summarize(Cohorts, surveys)
	require.Len(t, panels, 3)
	assert.Equal(t, "Arrhythmicity Model", panels[0].Title)
	assert.Equal(t, 50.0, panels[0].Percent[None])
	assert.Equal(t, 50.0, panels[0].Percent["Tingling"])
	assert.Zero(t, panels[0].Percent["Other"], "patient 5 is not in the cohort")
	assert.Empty(t, Wedges(panels[1].Percent))
}
