// Package safety summarizes the stimulation side-effect surveys and draws
// them as one donut per stimulation model.
package safety

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"

	"github.com/carbocation/dbsfigures/table"
)

const (
	PatientColumn = "patientid"
	EventColumn   = "redcap_event_name"

	// None is the "none of the above" answer.
	None = "None"
)

// Symptom ties a survey column to its display label.
type Symptom struct {
	Column string
	Label  string
}

// Symptoms lists every survey answer in survey order.
var Symptoms = []Symptom{
	{"did_have_any_feelings_of_Nausea", "Nausea"},
	{"did_have_any_feelings_of_Pulling", "Pulling"},
	{"did_have_any_feelings_of_Tingling", "Tingling"},
	{"did_have_any_feelings_of_Dizziness", "Dizziness"},
	{"did_have_any_feelings_of_Imbalance", "Imbalance"},
	{"did_have_any_feelings_of_Other", "Other"},
	{"did_have_any_feelings_of_Noneoftheabove", None},
}

// LegendOrder is the order of the symptoms after None in the legend.
var LegendOrder = []string{"Imbalance", "Dizziness", "Pulling", "Nausea", "Tingling", "Other"}

// Survey names the workbook a cohort is read from.
type Survey string

const (
	SIP Survey = "sip"
	TBC Survey = "tbc"
)

// Cohort is the set of participants and the visit compared in one donut.
type Cohort struct {
	Title  string
	Survey Survey
	Event  string
	PIDs   []int
}

// Cohorts are the three donuts, left to right.
var Cohorts = []Cohort{
	{
		Title:  "Arrhythmicity Model",
		Survey: SIP,
		Event:  "set_a_kadbsi__140h_arm_6",
		PIDs:   []int{1, 2, 3, 4, 6, 9, 10, 11},
	},
	{
		Title:  "P(FOG) Model",
		Survey: TBC,
		Event:  "set_a_kadbsi__140h_arm_7",
		PIDs:   []int{1, 2, 3, 4, 9, 10, 11},
	},
	{
		Title:  "Clinical cDBS",
		Survey: SIP,
		Event:  "set_a_oldbs140_hz_arm_6",
		PIDs:   []int{1, 2, 3, 4, 6, 9, 10, 11},
	},
}

// Response is one participant's survey at one visit. Answers holds the 0/1
// answer per symptom label; answers the file does not carry are absent.
type Response struct {
	PatientID int
	Event     string
	Answers   map[string]float64
}

// Responses reads every row of a survey table. Rows with no parseable
// patient id are skipped; a blank answer counts as 0.
func Responses(t *table.Table) ([]Response, error) {
	if err := t.Has(PatientColumn, EventColumn); err != nil {
		return nil, err
	}

	out := make([]Response, 0, len(t.Rows))
	for i := range t.Rows {
		pid, err := parseID(t.String(i, PatientColumn))
		if err != nil {
			log.Printf("%s row %d: skipping, %v\n", t.Path, i+2, err)
			continue
		}

		r := Response{
			PatientID: pid,
			Event:     t.String(i, EventColumn),
			Answers:   make(map[string]float64),
		}
		for _, s := range Symptoms {
			if t.Column(s.Column) < 0 {
				continue
			}
			if v := t.Float(i, s.Column); v.Valid {
				r.Answers[s.Label] = v.Float64
			} else {
				r.Answers[s.Label] = 0
			}
		}
		out = append(out, r)
	}

	return out, nil
}

// Load opens a survey workbook and reads its responses.
func Load(path string) ([]Response, error) {
	t, err := table.Open(path)
	if err != nil {
		return nil, err
	}
	return Responses(t)
}

func parseID(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("no patient id")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("patient id %q is not an integer", s)
	}
	return int(f), nil
}

// Filter returns the responses at event for each pid, grouped in pid order.
func Filter(rs []Response, pids []int, event string) []Response {
	var out []Response
	for _, pid := range pids {
		for _, r := range rs {
			if r.PatientID == pid && r.Event == event {
				out = append(out, r)
			}
		}
	}
	return out
}

// Percentages converts answer counts to each symptom's share of all answers
// given, in percent. With no responses or no answers every share is 0; counts
// are nil when there are no responses.
func Percentages(rs []Response) (map[string]float64, map[string]int) {
	pct := make(map[string]float64, len(Symptoms))
	for _, s := range Symptoms {
		pct[s.Label] = 0
	}
	if len(rs) == 0 {
		return pct, nil
	}

	counts := make(map[string]int, len(Symptoms))
	total := 0
	for _, s := range Symptoms {
		var sum float64
		for _, r := range rs {
			sum += r.Answers[s.Label]
		}
		counts[s.Label] = int(sum)
		total += counts[s.Label]
	}

	if total > 0 {
		for label, n := range counts {
			pct[label] = float64(n) / float64(total) * 100
		}
	}

	return pct, counts
}

// Participants counts responses, those answering "none of the above", and
// the rest.
func Participants(rs []Response) (n, none, affected int) {
	var sum float64
	for _, r := range rs {
		sum += r.Answers[None]
	}
	n = len(rs)
	none = int(sum)
	return n, none, n - none
}

// SymptomFree formats the symptom-free summary line for a cohort.
func SymptomFree(title string, rs []Response) string {
	n, none, _ := Participants(rs)
	pct := 0.0
	if n > 0 {
		pct = 100 * float64(none) / float64(n)
	}
	return fmt.Sprintf("%s: %d/%d (%.1f%%) symptom-free", title, none, n, pct)
}

// Wedge is one slice of a donut.
type Wedge struct {
	Label   string
	Percent float64
}

// Wedges returns the symptoms with a positive share, None first and the rest
// by decreasing share. Ties keep survey order.
func Wedges(pct map[string]float64) []Wedge {
	var out []Wedge
	for _, s := range Symptoms {
		if v := pct[s.Label]; v > 0 {
			out = append(out, Wedge{Label: s.Label, Percent: v})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if (out[i].Label == None) != (out[j].Label == None) {
			return out[i].Label == None
		}
		return out[i].Percent > out[j].Percent
	})
	return out
}

// LegendLabels returns None followed by every symptom with a positive share
// in any donut, in LegendOrder.
func LegendLabels(pcts ...map[string]float64) []string {
	out := []string{None}
	for _, label := range LegendOrder {
		for _, pct := range pcts {
			if pct[label] > 0 {
				out = append(out, label)
				break
			}
		}
	}
	return out
}

// Summarize filters each cohort out of its survey, logs the symptom-free
// line and answer counts, and returns one panel per cohort.
func Summarize(cohorts []Cohort, surveys map[Survey][]Response) []Panel {
	panels := make([]Panel, 0, len(cohorts))
	for _, c := range cohorts {
		rs := Filter(surveys[c.Survey], c.PIDs, c.Event)
		pct, counts := Percentages(rs)

		log.Println(SymptomFree(c.Title, rs))
		for _, s := range Symptoms {
			if counts[s.Label] > 0 {
				log.Printf("  %s: %d (%.1f%%)\n", s.Label, counts[s.Label], pct[s.Label])
			}
		}

		panels = append(panels, Panel{Title: c.Title, Percent: pct})
	}
	return panels
}
