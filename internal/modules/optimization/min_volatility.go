package optimization

import (
	"fmt"
	"math"

	"github.com/aristath/quantkit/pkg/formulas"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// budgetPenalty weights the squared violation of the fully-invested budget.
const budgetPenalty = 1000.0

// MinVolatility finds long-only weights minimising wᵀΣw with Σw = 1, the
// continuous counterpart of the frontier's grid scan. It runs BFGS on a
// penalised objective and falls back to Nelder-Mead.
func MinVolatility(cov mat.Symmetric) ([]float64, error) {
	n := cov.SymmetricDim()
	if n == 0 {
		return nil, fmt.Errorf("min volatility of no assets: %w", formulas.ErrInsufficientData)
	}
	if n == 1 {
		return []float64{1}, nil
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			xProj := projectLongOnly(x)

			var variance float64
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					variance += xProj[i] * xProj[j] * cov.At(i, j)
				}
			}

			excess := floats.Sum(xProj) - 1.0
			return variance + budgetPenalty*excess*excess
		},
		Grad: func(grad, x []float64) {
			xProj := projectLongOnly(x)

			for i := 0; i < n; i++ {
				grad[i] = 0
				for j := 0; j < n; j++ {
					grad[i] += 2 * cov.At(i, j) * xProj[j]
				}
			}

			excess := floats.Sum(xProj) - 1.0
			for i := 0; i < n; i++ {
				grad[i] += 2 * budgetPenalty * excess
			}
		},
	}

	initial := make([]float64, n)
	for i := range initial {
		initial[i] = 1.0 / float64(n)
	}

	result, err := optimize.Minimize(problem, initial, &optimize.Settings{}, &optimize.BFGS{})
	if err != nil {
		result, err = optimize.Minimize(problem, initial, &optimize.Settings{}, &optimize.NelderMead{})
		if err != nil {
			return nil, fmt.Errorf("min volatility: %v: %w", err, formulas.ErrNonConvergence)
		}
	}

	switch result.Status {
	case optimize.Success, optimize.GradientThreshold, optimize.FunctionConvergence:
	default:
		return nil, fmt.Errorf("min volatility stopped with status %v: %w", result.Status, formulas.ErrNonConvergence)
	}

	weights := projectLongOnly(result.X)
	total := math.Max(floats.Sum(weights), 1e-10)
	for i := range weights {
		weights[i] /= total
	}
	return weights, nil
}

func projectLongOnly(x []float64) []float64 {
	proj := make([]float64, len(x))
	for i := range x {
		proj[i] = math.Max(0, math.Min(1, x[i]))
	}
	return proj
}

// Allocation is a continuous weighting of named assets with its statistics.
type Allocation struct {
	Names   []string  `json:"names,omitempty" yaml:"names,omitempty" msgpack:"names,omitempty"`
	Weights []float64 `json:"weights" yaml:"weights" msgpack:"weights"`
	Stats   Stats     `json:"stats" yaml:"stats" msgpack:"stats"`
}

// MinVolatilityPortfolio solves MinVolatility over the sample covariance of
// the return series and reports the resulting portfolio. names may be nil;
// otherwise it labels the series in order.
func MinVolatilityPortfolio(names []string, series [][]float64, riskFreeRate float64) (Allocation, error) {
	if names != nil && len(names) != len(series) {
		return Allocation{}, fmt.Errorf("%d names for %d series: %w", len(names), len(series), formulas.ErrLengthMismatch)
	}
	cov, err := CovarianceMatrix(series)
	if err != nil {
		return Allocation{}, fmt.Errorf("min volatility portfolio: %w", err)
	}

	means := make([]float64, len(series))
	for i, s := range series {
		if means[i], err = formulas.Mean(s); err != nil {
			return Allocation{}, fmt.Errorf("series %d: %w", i, err)
		}
	}

	weights, err := MinVolatility(cov)
	if err != nil {
		return Allocation{}, err
	}
	stats, err := PortfolioStats(weights, means, cov, riskFreeRate)
	if err != nil {
		return Allocation{}, err
	}
	return Allocation{Names: names, Weights: weights, Stats: stats}, nil
}
