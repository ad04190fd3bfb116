// Package optimization combines asset return series into portfolios: the
// coarse two-asset frontier scan and a continuous long-only minimum
// volatility solve for n assets.
package optimization

import (
	"fmt"
	"math"

	"github.com/aristath/quantkit/pkg/formulas"
	"gonum.org/v1/gonum/mat"
)

// Stats is the expected return, risk and Sharpe ratio of a weighting.
type Stats struct {
	Return float64 `json:"return" yaml:"return" msgpack:"return"`
	Risk   float64 `json:"risk" yaml:"risk" msgpack:"risk"`
	Sharpe float64 `json:"sharpe" yaml:"sharpe" msgpack:"sharpe"`
}

// PortfolioStats computes return wᵀμ, risk sqrt(wᵀΣw) and the Sharpe ratio
// over riskFreeRate. Rounding can push a degenerate quadratic form a hair
// below zero; risk is floored at 0.
func PortfolioStats(weights, means []float64, cov mat.Symmetric, riskFreeRate float64) (Stats, error) {
	n := len(weights)
	if n == 0 {
		return Stats{}, fmt.Errorf("portfolio has no assets: %w", formulas.ErrInsufficientData)
	}
	if len(means) != n || cov.SymmetricDim() != n {
		return Stats{}, fmt.Errorf("weights (%d), means (%d) and covariance (%d) disagree: %w",
			n, len(means), cov.SymmetricDim(), formulas.ErrLengthMismatch)
	}

	w := mat.NewVecDense(n, weights)
	ret := mat.Dot(w, mat.NewVecDense(n, means))
	variance := mat.Inner(w, cov, w)
	risk := math.Sqrt(math.Max(0, variance))

	return Stats{
		Return: ret,
		Risk:   risk,
		Sharpe: formulas.SharpeRatio(ret, risk, riskFreeRate),
	}, nil
}

// CovarianceMatrix builds the sample covariance matrix of k equal-length
// series.
func CovarianceMatrix(series [][]float64) (*mat.SymDense, error) {
	k := len(series)
	if k == 0 {
		return nil, fmt.Errorf("covariance of no series: %w", formulas.ErrInsufficientData)
	}
	cov := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			c, err := formulas.Covariance(series[i], series[j])
			if err != nil {
				return nil, fmt.Errorf("covariance of series %d and %d: %w", i, j, err)
			}
			cov.SetSym(i, j, c)
		}
	}
	return cov, nil
}
