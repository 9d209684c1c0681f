// Package stats summarises the total distances of a batch of evaluated routes.
package stats

import (
	"fmt"
	"math"

	"tourga/internal/route"
)

// Summary holds statistics across multiple routes
type Summary struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
}

// Summarize computes statistics over evaluated routes. Any unevaluated route
// is an error, since its distance would be meaningless.
func Summarize(routes []*route.Route) (Summary, error) {
	totals := make([]float64, 0, len(routes))
	for i, r := range routes {
		d, err := r.TotalDistance()
		if err != nil {
			return Summary{}, fmt.Errorf("route %d: %w", i, err)
		}
		totals = append(totals, d)
	}
	return Aggregate(totals), nil
}

// Aggregate computes statistics from raw distances
func Aggregate(totals []float64) Summary {
	n := len(totals)
	if n == 0 {
		return Summary{}
	}

	s := Summary{
		Count: n,
		Min:   math.Inf(1),
		Max:   math.Inf(-1),
	}

	var sum float64
	for _, d := range totals {
		sum += d
		s.Min = math.Min(s.Min, d)
		s.Max = math.Max(s.Max, d)
	}
	nf := float64(n)
	s.Mean = sum / nf

	// Population standard deviation
	var variance float64
	for _, d := range totals {
		diff := d - s.Mean
		variance += diff * diff
	}
	s.Std = math.Sqrt(variance / nf)

	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d routes: mean %.2f, std %.2f, min %.2f, max %.2f", s.Count, s.Mean, s.Std, s.Min, s.Max)
}
