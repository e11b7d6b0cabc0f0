package figure

import (
	"log"
	"math"

	"github.com/carbocation/dbsfigures/axis"
	"github.com/montanaflynn/stats"
)

// Summary is the descriptive line logged for one condition of a metric.
type Summary struct {
	Condition string
	N         int
	Mean      float64
	Median    float64
}

// Describe summarizes each condition's present values in order and logs one
// line per condition. Conditions without values report N=0 and NaN.
func Describe(metric string, groups map[string][]float64, order []string) []Summary {
	out := make([]Summary, 0, len(order))
	for _, condition := range order {
		values := stats.Float64Data(axis.Present(groups[condition]))

		s := Summary{Condition: condition, N: len(values), Mean: math.NaN(), Median: math.NaN()}
		if len(values) > 0 {
			if mean, err := stats.Mean(values); err == nil {
				s.Mean = mean
			}
			if median, err := stats.Median(values); err == nil {
				s.Median = median
			}
		}

		log.Printf("%s %s: n=%d mean=%.2f median=%.2f\n", metric, condition, s.N, s.Mean, s.Median)
		out = append(out, s)
	}
	return out
}
