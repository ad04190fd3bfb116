package correlation

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/aristath/quantkit/pkg/formulas"
)

// Pair is one off-diagonal entry of a correlation matrix.
type Pair struct {
	Name1       string  `json:"name1" yaml:"name1" msgpack:"name1"`
	Name2       string  `json:"name2" yaml:"name2" msgpack:"name2"`
	Correlation float64 `json:"correlation" yaml:"correlation" msgpack:"correlation"`
}

// Matrix builds the symmetric pairwise correlation matrix of k equally long
// series. The diagonal is 1.
func Matrix(series [][]float64, method Method) (*mat.SymDense, error) {
	k := len(series)
	if k == 0 {
		return nil, fmt.Errorf("correlation matrix of no series: %w", formulas.ErrInsufficientData)
	}

	m := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		m.SetSym(i, i, 1)
		for j := i + 1; j < k; j++ {
			r, err := Coefficient(series[i], series[j], method)
			if err != nil {
				return nil, fmt.Errorf("series %d vs %d: %w", i, j, err)
			}
			m.SetSym(i, j, r)
		}
	}
	return m, nil
}

// HighlyCorrelated lists the pairs whose |r| is at least threshold, strongest first.
func HighlyCorrelated(m mat.Symmetric, names []string, threshold float64) ([]Pair, error) {
	k := m.SymmetricDim()
	if len(names) != k {
		return nil, fmt.Errorf("%d names for a %dx%d matrix: %w", len(names), k, k, formulas.ErrLengthMismatch)
	}

	pairs := make([]Pair, 0)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			r := m.At(i, j)
			if math.Abs(r) >= threshold {
				pairs = append(pairs, Pair{Name1: names[i], Name2: names[j], Correlation: r})
			}
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		return math.Abs(pairs[a].Correlation) > math.Abs(pairs[b].Correlation)
	})
	return pairs, nil
}
