package formulas

import (
	"fmt"
	"math"
	"sort"
)

// Rank returns 1-based ranks for xs.
//
// Ties are broken by position: among equal values the one that appears first
// gets the lower rank. Ranks are never averaged.
func Rank(xs []float64) []float64 {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return xs[idx[a]] < xs[idx[b]]
	})

	ranks := make([]float64, len(xs))
	for pos, i := range idx {
		ranks[i] = float64(pos + 1)
	}
	return ranks
}

// Percentile returns the nearest-rank percentile of an ascending-sorted
// sample: index = floor(p × n), clamped to n-1. p must lie in [0, 1].
func Percentile(sorted []float64, p float64) (float64, error) {
	if len(sorted) == 0 {
		return 0, fmt.Errorf("percentile of empty sample: %w", ErrInsufficientData)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("percentile %v outside [0,1]: %w", p, ErrInvalidDomain)
	}
	n := len(sorted)
	index := int(math.Floor(p * float64(n)))
	if index > n-1 {
		index = n - 1
	}
	return sorted[index], nil
}

// Percentiles extracts several nearest-rank percentiles from one sorted sample.
func Percentiles(sorted []float64, ps ...float64) ([]float64, error) {
	out := make([]float64, len(ps))
	for i, p := range ps {
		v, err := Percentile(sorted, p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
