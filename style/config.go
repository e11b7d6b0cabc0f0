package style

import (
	"encoding/json"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/dbsfigures"
	"github.com/carbocation/pfx"
)

// Config carries every colour, label and ordering decision a figure needs.
// It is passed explicitly to rendering functions; nothing in this module
// keeps style state at package level.
type Config struct {
	ConfigPath string `json:"-"`

	// ConditionOrder fixes the x position of each treatment condition.
	ConditionOrder []string `json:"condition_order"`

	// EventMap translates visit (event) names found in the data into
	// condition labels. Visits not present are dropped.
	EventMap map[string]string `json:"event_map"`

	ConditionColors map[string]string `json:"condition_colors"`
	PatientColors   map[string]string `json:"patient_colors"`

	// PatientLabels are the short, numeric display labels for patients.
	PatientLabels map[string]string `json:"patient_labels"`

	SymptomColors map[string]string `json:"symptom_colors"`

	// FallbackColor is used for any name without an assigned colour.
	FallbackColor string `json:"fallback_color"`
}

// Default returns the house style used in the manuscript figures.
func Default() Config {
	return Config{
		ConditionOrder: []string{"OFF", "cDBS", "KaDBS", "iDBS"},
		EventMap: map[string]string{
			"baseline": "OFF",
			"olDBS":    "cDBS",
			"KaDBSI":   "KaDBS",
			"iolDBSI":  "iDBS",
		},
		ConditionColors: map[string]string{
			"OFF":   "#e69f00",
			"cDBS":  "#56b4e9",
			"KaDBS": "#009e73",
			"iDBS":  "#f0e442",
		},
		PatientColors: map[string]string{
			"RCS02": "#c62828", "RCS03": "#1565c0", "RCS04": "#2e7d32",
			"RCS06": "#ef6c00", "RCS11": "#6a1b9a",
			"RCS01": "#f06292", "RCS09": "#42a5f5", "RCS10": "#66bb6a",
		},
		PatientLabels: map[string]string{
			"RCS02": "02", "RCS03": "03", "RCS04": "04",
			"RCS06": "06", "RCS11": "11",
			"RCS01": "01", "RCS09": "09", "RCS10": "10",
		},
		SymptomColors: map[string]string{
			"None":      "#bdd9bf",
			"Imbalance": "#f39b53",
			"Dizziness": "#9b72cf",
			"Nausea":    "#c4b454",
			"Pulling":   "#e85d75",
			"Tingling":  "#5bc0eb",
			"Other":     "#a0a0a0",
		},
		FallbackColor: "#cccccc",
	}
}

// ParseJSONConfigFromPath layers a JSON style file over Default. Map entries
// in the file add to or replace the defaults; a condition_order in the file
// replaces the default order entirely.
func ParseJSONConfigFromPath(path string) (Config, error) {
	out := Default()
	out.ConfigPath = dbsfigures.ExpandHome(path)

	f, err := os.Open(out.ConfigPath)
	if err != nil {
		return out, pfx.Err(err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&out); err != nil {
		if e, ok := err.(*json.SyntaxError); ok {
			log.Printf("syntax error at byte offset %d", e.Offset)
		}
		return out, pfx.Err(err)
	}

	// Colors are compared and parsed in lower case, while permitting the user
	// to use mixed case
	out.FallbackColor = strings.ToLower(out.FallbackColor)
	for _, m := range []map[string]string{out.ConditionColors, out.PatientColors, out.SymptomColors} {
		for k, v := range m {
			m[k] = strings.ToLower(v)
		}
	}

	return out, nil
}

// Condition maps a visit name onto its condition label.
func (c Config) Condition(event string) (string, bool) {
	cond, ok := c.EventMap[event]
	return cond, ok
}

// PatientLabel returns the display label of a patient, falling back to the
// identifier itself.
func (c Config) PatientLabel(id string) string {
	if label, ok := c.PatientLabels[id]; ok {
		return label
	}
	return id
}

// LegendLabel is the legend text for a patient, e.g. "P02".
func (c Config) LegendLabel(id string) string {
	return "P" + c.PatientLabel(id)
}

// SortByLabel orders patient identifiers by the numeric value of their
// labels. Identifiers whose label is not numeric sort last, alphabetically.
func (c Config) SortByLabel(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.SliceStable(out, func(i, j int) bool {
		a, errA := strconv.Atoi(c.PatientLabel(out[i]))
		b, errB := strconv.Atoi(c.PatientLabel(out[j]))
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return out[i] < out[j]
	})
	return out
}
