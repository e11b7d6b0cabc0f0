// Package gait builds the gait outcome figures: per-condition box plots of
// freezing and shank velocity across the cohort, and per-patient
// trajectories of freezing, velocity and arrhythmicity.
package gait

import (
	"math"
	"sort"

	"github.com/carbocation/dbsfigures/axis"
	"github.com/carbocation/dbsfigures/trajectory"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/guregu/null.v3"
)

// Observation is one set of gait metrics for a patient at a visit. Missing
// metrics are NaN.
type Observation struct {
	Patient   string
	Visit     string
	Condition string

	// Task is set when a visit yields more than one walking task.
	Task string

	Freezing      float64
	Velocity      float64
	Arrhythmicity float64
}

// Metric selects one value from an Observation.
type Metric struct {
	Name  string
	Value func(Observation) float64
}

var (
	Freezing      = Metric{Name: "freezing", Value: func(o Observation) float64 { return o.Freezing }}
	Velocity      = Metric{Name: "velocity", Value: func(o Observation) float64 { return o.Velocity }}
	Arrhythmicity = Metric{Name: "arrhythmicity", Value: func(o Observation) float64 { return o.Arrhythmicity }}
)

// Cohort splits patients by whether they froze at baseline.
type Cohort struct {
	Freezers    []string
	NonFreezers []string
}

func orNaN(f null.Float) float64 {
	if !f.Valid {
		return math.NaN()
	}
	return f.Float64
}

func scaled(f null.Float, by float64) float64 {
	if !f.Valid {
		return math.NaN()
	}
	return f.Float64 * by
}

// Groups collects a metric's values by condition.
func Groups(obs []Observation, m Metric) map[string][]float64 {
	out := make(map[string][]float64)
	for _, o := range obs {
		out[o.Condition] = append(out[o.Condition], m.Value(o))
	}
	return out
}

// Values returns a metric's values for the given patients; nil patients
// means everyone.
func Values(obs []Observation, m Metric, patients []string) []float64 {
	var keep map[string]struct{}
	if patients != nil {
		keep = make(map[string]struct{}, len(patients))
		for _, p := range patients {
			keep[p] = struct{}{}
		}
	}

	var out []float64
	for _, o := range obs {
		if keep != nil {
			if _, ok := keep[o.Patient]; !ok {
				continue
			}
		}
		out = append(out, m.Value(o))
	}
	return out
}

// Limits is axis.Limits over a metric restricted to patients.
func Limits(obs []Observation, m Metric, patients []string) (min, max float64) {
	return axis.Limits(Values(obs, m, patients))
}

// Available returns the sorted distinct patients present in obs.
func Available(obs []Observation) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, o := range obs {
		if _, ok := seen[o.Patient]; ok {
			continue
		}
		seen[o.Patient] = struct{}{}
		out = append(out, o.Patient)
	}
	sort.Strings(out)
	return out
}

// FirstEntities builds one trajectory entity per patient, keeping the first
// value of the metric per condition, missing or not.
func FirstEntities(obs []Observation, m Metric) []trajectory.Entity {
	samples := make([]trajectory.Sample, 0, len(obs))
	for _, o := range obs {
		samples = append(samples, trajectory.Sample{Entity: o.Patient, Condition: o.Condition, Value: m.Value(o)})
	}
	return trajectory.Collect(samples)
}

// MeanEntities builds one trajectory entity per patient whose value per
// condition is the mean of the present metric values across tasks.
func MeanEntities(obs []Observation, m Metric) []trajectory.Entity {
	type key struct{ patient, condition string }

	values := make(map[key][]float64)
	var keys []key
	for _, o := range obs {
		k := key{o.Patient, o.Condition}
		if _, ok := values[k]; !ok {
			keys = append(keys, k)
			values[k] = nil
		}
		if v := m.Value(o); !math.IsNaN(v) {
			values[k] = append(values[k], v)
		}
	}

	samples := make([]trajectory.Sample, 0, len(keys))
	for _, k := range keys {
		mean := math.NaN()
		if vs := values[k]; len(vs) > 0 {
			mean = stat.Mean(vs, nil)
		}
		samples = append(samples, trajectory.Sample{Entity: k.patient, Condition: k.condition, Value: mean})
	}
	return trajectory.Collect(samples)
}
