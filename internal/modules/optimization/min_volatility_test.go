package optimization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMinVolatility_TwoAssetsMatchesClosedForm(t *testing.T) {
	cov := mat.NewSymDense(2, []float64{
		0.04, 0.01,
		0.01, 0.03,
	})

	weights, err := MinVolatility(cov)
	require.NoError(t, err)
	require.Len(t, weights, 2)

	// w* = (σ2² - cov) / (σ1² + σ2² - 2cov) = 0.02 / 0.05
	assert.InDelta(t, 0.4, weights[0], 1e-3)
	assert.InDelta(t, 0.6, weights[1], 1e-3)
}

func TestMinVolatility_ThreeAssets(t *testing.T) {
	cov := mat.NewSymDense(3, []float64{
		0.04, 0.01, 0.005,
		0.01, 0.03, 0.008,
		0.005, 0.008, 0.025,
	})

	weights, err := MinVolatility(cov)
	require.NoError(t, err)
	require.Len(t, weights, 3)

	total := 0.0
	for _, w := range weights {
		assert.GreaterOrEqual(t, w, 0.0, "weights should be non-negative")
		assert.LessOrEqual(t, w, 1.0, "weights should be <= 1")
		total += w
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	// The optimum beats the equal-weight portfolio.
	eq := []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}
	means := []float64{0, 0, 0}
	opt, err := PortfolioStats(weights, means, cov, 0)
	require.NoError(t, err)
	naive, err := PortfolioStats(eq, means, cov, 0)
	require.NoError(t, err)
	assert.Less(t, opt.Risk, naive.Risk)
}

func TestMinVolatility_SingleAsset(t *testing.T) {
	weights, err := MinVolatility(mat.NewSymDense(1, []float64{0.04}))
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, weights)
}
