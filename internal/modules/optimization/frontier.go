package optimization

import (
	"fmt"

	"github.com/aristath/quantkit/pkg/formulas"
)

// GridSteps is the number of intervals in the weight grid; the frontier has
// GridSteps+1 points.
const GridSteps = 10

// Point is one weighting of the two-asset frontier.
type Point struct {
	WeightA        float64 `json:"weight_a" yaml:"weight_a" msgpack:"weight_a"`
	WeightB        float64 `json:"weight_b" yaml:"weight_b" msgpack:"weight_b"`
	ExpectedReturn float64 `json:"expected_return" yaml:"expected_return" msgpack:"expected_return"`
	Risk           float64 `json:"risk" yaml:"risk" msgpack:"risk"`
	Sharpe         float64 `json:"sharpe" yaml:"sharpe" msgpack:"sharpe"`
}

// Frontier is the scanned weight grid and the portfolios picked from it.
// MaxSharpe is meaningful only when HasMaxSharpe is set.
type Frontier struct {
	Points       []Point `json:"points" yaml:"points" msgpack:"points"`
	MinVariance  Point   `json:"min_variance" yaml:"min_variance" msgpack:"min_variance"`
	MaxSharpe    Point   `json:"max_sharpe" yaml:"max_sharpe" msgpack:"max_sharpe"`
	HasMaxSharpe bool    `json:"has_max_sharpe" yaml:"has_max_sharpe" msgpack:"has_max_sharpe"`
	RiskFreeRate float64 `json:"risk_free_rate" yaml:"risk_free_rate" msgpack:"risk_free_rate"`
}

// TwoAssetFrontier scans weights 0, 0.1, ..., 1 on asset a (1-w on b).
//
// The grid is a fixed discretisation: the minimum-variance and max-Sharpe
// portfolios are the best grid points, not continuous optima. Both picks keep
// the first point on ties. Points with zero risk have no Sharpe ratio and are
// skipped by the max-Sharpe scan.
func TwoAssetFrontier(a, b []float64, riskFreeRate float64) (Frontier, error) {
	if err := formulas.ValidatePair(a, b, 2); err != nil {
		return Frontier{}, fmt.Errorf("two-asset frontier: %w", err)
	}

	meanA, err := formulas.Mean(a)
	if err != nil {
		return Frontier{}, err
	}
	meanB, err := formulas.Mean(b)
	if err != nil {
		return Frontier{}, err
	}
	cov, err := CovarianceMatrix([][]float64{a, b})
	if err != nil {
		return Frontier{}, err
	}
	means := []float64{meanA, meanB}

	f := Frontier{
		Points:       make([]Point, 0, GridSteps+1),
		RiskFreeRate: riskFreeRate,
	}
	for i := 0; i <= GridSteps; i++ {
		w := float64(i) / GridSteps
		weights := []float64{w, 1 - w}

		s, err := PortfolioStats(weights, means, cov, riskFreeRate)
		if err != nil {
			return Frontier{}, err
		}
		f.Points = append(f.Points, Point{
			WeightA:        weights[0],
			WeightB:        weights[1],
			ExpectedReturn: s.Return,
			Risk:           s.Risk,
			Sharpe:         s.Sharpe,
		})
	}

	f.MinVariance = f.Points[0]
	for _, p := range f.Points[1:] {
		if p.Risk < f.MinVariance.Risk {
			f.MinVariance = p
		}
	}

	for _, p := range f.Points {
		if p.Risk == 0 {
			continue
		}
		if !f.HasMaxSharpe || p.Sharpe > f.MaxSharpe.Sharpe {
			f.MaxSharpe = p
			f.HasMaxSharpe = true
		}
	}

	return f, nil
}
