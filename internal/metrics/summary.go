package metrics

import (
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/boatsim/internal/sim"
)

// Summary aggregates one metric over an ensemble.
type Summary struct {
	Name   string
	Runs   int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize collects every metric that appears in results. Runs missing a
// metric are skipped for that metric. Names come back sorted.
func Summarize(results []*sim.Result) []Summary {
	values := make(map[string][]float64)
	for _, r := range results {
		if r == nil {
			continue
		}
		for name, v := range r.Metrics {
			values[name] = append(values[name], v)
		}
	}

	names := lo.Keys(values)
	slices.Sort(names)

	out := make([]Summary, 0, len(names))
	for _, name := range names {
		vs := values[name]
		s := Summary{Name: name, Runs: len(vs), Min: floats.Min(vs), Max: floats.Max(vs)}
		if len(vs) > 1 {
			s.Mean, s.StdDev = stat.MeanStdDev(vs, nil)
		} else {
			s.Mean = vs[0]
		}
		out = append(out, s)
	}
	return out
}
