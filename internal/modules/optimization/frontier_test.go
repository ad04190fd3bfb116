package optimization

import (
	"math"
	"testing"

	"github.com/aristath/quantkit/pkg/formulas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var (
	equityReturns = []float64{0.10, 0.02, -0.05, 0.08, 0.04}
	bondReturns   = []float64{0.03, 0.01, 0.02, 0.00, 0.04}
)

func TestTwoAssetFrontier_Grid(t *testing.T) {
	f, err := TwoAssetFrontier(equityReturns, bondReturns, 0)
	require.NoError(t, err)
	require.Len(t, f.Points, 11)

	assert.Equal(t, 0.0, f.Points[0].WeightA)
	assert.Equal(t, 1.0, f.Points[10].WeightA)
	for i, p := range f.Points {
		assert.InDelta(t, float64(i)/10, p.WeightA, 1e-15)
		assert.True(t, p.WeightA+p.WeightB == 1, "weights at point %d must sum to exactly 1", i)
		assert.GreaterOrEqual(t, p.Risk, 0.0)
	}
}

func TestTwoAssetFrontier_MatchesClosedForm(t *testing.T) {
	f, err := TwoAssetFrontier(equityReturns, bondReturns, 0)
	require.NoError(t, err)

	meanA, _ := formulas.Mean(equityReturns)
	meanB, _ := formulas.Mean(bondReturns)
	varA, _ := formulas.Variance(equityReturns)
	varB, _ := formulas.Variance(bondReturns)
	cov, _ := formulas.Covariance(equityReturns, bondReturns)

	for _, p := range f.Points {
		w := p.WeightA
		expectedReturn := w*meanA + (1-w)*meanB
		expectedRisk := math.Sqrt(w*w*varA + (1-w)*(1-w)*varB + 2*w*(1-w)*cov)

		assert.InDelta(t, expectedReturn, p.ExpectedReturn, 1e-12)
		assert.InDelta(t, expectedRisk, p.Risk, 1e-12)
	}
}

func TestTwoAssetFrontier_Selections(t *testing.T) {
	f, err := TwoAssetFrontier(equityReturns, bondReturns, 0.01)
	require.NoError(t, err)
	require.True(t, f.HasMaxSharpe)

	assert.True(t, f.MinVariance.WeightA+f.MinVariance.WeightB == 1)
	assert.Equal(t, 0.01, f.RiskFreeRate)

	for _, p := range f.Points {
		assert.LessOrEqual(t, f.MinVariance.Risk, p.Risk)
		if p.Risk > 0 {
			assert.GreaterOrEqual(t, f.MaxSharpe.Sharpe, p.Sharpe)
			assert.InDelta(t, (p.ExpectedReturn-0.01)/p.Risk, p.Sharpe, 1e-12)
		}
	}
}

func TestTwoAssetFrontier_PerfectHedge(t *testing.T) {
	a := []float64{1, -1, 1, -1}
	b := []float64{-1, 1, -1, 1}

	f, err := TwoAssetFrontier(a, b, 0)
	require.NoError(t, err)

	assert.Equal(t, 0.5, f.MinVariance.WeightA)
	assert.Equal(t, 0.0, f.MinVariance.Risk)

	// Every risky point has a zero Sharpe ratio; the first one wins the tie.
	require.True(t, f.HasMaxSharpe)
	assert.Equal(t, 0.0, f.MaxSharpe.WeightA)
}

func TestTwoAssetFrontier_NoRisk(t *testing.T) {
	flat := []float64{0.5, 0.5, 0.5}

	f, err := TwoAssetFrontier(flat, flat, 0)
	require.NoError(t, err)

	assert.False(t, f.HasMaxSharpe)
	assert.Equal(t, Point{}, f.MaxSharpe)
	assert.Equal(t, 0.0, f.MinVariance.Risk)
}

func TestTwoAssetFrontier_Errors(t *testing.T) {
	_, err := TwoAssetFrontier([]float64{1, 2, 3}, []float64{1, 2}, 0)
	assert.ErrorIs(t, err, formulas.ErrLengthMismatch)

	_, err = TwoAssetFrontier([]float64{1}, []float64{2}, 0)
	assert.ErrorIs(t, err, formulas.ErrInsufficientData)

	_, err = TwoAssetFrontier([]float64{1, math.NaN()}, []float64{2, 3}, 0)
	assert.ErrorIs(t, err, formulas.ErrInvalidDomain)
}

func TestPortfolioStats(t *testing.T) {
	cov := mat.NewSymDense(2, []float64{
		0.04, 0.01,
		0.01, 0.03,
	})

	s, err := PortfolioStats([]float64{0.6, 0.4}, []float64{0.12, 0.08}, cov, 0.02)
	require.NoError(t, err)

	expectedVar := 0.36*0.04 + 0.16*0.03 + 2*0.24*0.01
	assert.InDelta(t, 0.104, s.Return, 1e-12)
	assert.InDelta(t, math.Sqrt(expectedVar), s.Risk, 1e-12)
	assert.InDelta(t, (0.104-0.02)/math.Sqrt(expectedVar), s.Sharpe, 1e-12)
}

func TestPortfolioStats_Errors(t *testing.T) {
	cov := mat.NewSymDense(2, []float64{0.04, 0.01, 0.01, 0.03})

	_, err := PortfolioStats([]float64{1}, []float64{0.1, 0.2}, cov, 0)
	assert.ErrorIs(t, err, formulas.ErrLengthMismatch)

	_, err = PortfolioStats(nil, nil, cov, 0)
	assert.ErrorIs(t, err, formulas.ErrInsufficientData)
}

func TestCovarianceMatrix(t *testing.T) {
	cov, err := CovarianceMatrix([][]float64{equityReturns, bondReturns})
	require.NoError(t, err)

	varA, _ := formulas.Variance(equityReturns)
	c, _ := formulas.Covariance(equityReturns, bondReturns)
	assert.InDelta(t, varA, cov.At(0, 0), 1e-15)
	assert.InDelta(t, c, cov.At(0, 1), 1e-15)
	assert.Equal(t, cov.At(0, 1), cov.At(1, 0))

	_, err = CovarianceMatrix(nil)
	assert.ErrorIs(t, err, formulas.ErrInsufficientData)
}
