package montecarlo

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/aristath/quantkit/pkg/formulas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func breakevenRun(t *testing.T, seed uint64, trials int) Result {
	t.Helper()
	base := BreakevenInputs(50, 30, 10000)
	res, err := Run(context.Background(), base, trials, BreakevenPerturbations(), BreakevenProfit, NewSource(seed))
	require.NoError(t, err)
	return res
}

func TestRun_SeededRunsAreBitReproducible(t *testing.T) {
	first := breakevenRun(t, 42, 10000)
	second := breakevenRun(t, 42, 10000)

	assert.Equal(t, first, second)
	assert.Equal(t, 10000, first.Samples)
}

func TestRun_DifferentSeedsDiffer(t *testing.T) {
	a := breakevenRun(t, 1, 1000)
	b := breakevenRun(t, 2, 1000)
	assert.NotEqual(t, a.Mean, b.Mean)
}

func TestRun_SummaryIsOrdered(t *testing.T) {
	res := breakevenRun(t, 7, 5000)

	p := res.Percentiles
	assert.LessOrEqual(t, res.Min, p.P10)
	assert.LessOrEqual(t, p.P10, p.P25)
	assert.LessOrEqual(t, p.P25, p.P50)
	assert.LessOrEqual(t, p.P50, p.P75)
	assert.LessOrEqual(t, p.P75, p.P90)
	assert.LessOrEqual(t, p.P90, res.Max)
	assert.LessOrEqual(t, res.CVaR95, res.VaR95)

	assert.InDelta(t, res.Mean-1.96*res.StdDev, res.Interval95.Lower, 1e-9)
	assert.InDelta(t, res.Mean+1.96*res.StdDev, res.Interval95.Upper, 1e-9)
}

func TestRun_BreakevenModelIsCentredOnZero(t *testing.T) {
	// Selling volume_factor times breakeven earns fixed·(factor-1), which is
	// symmetric around zero.
	res := breakevenRun(t, 2024, 10000)

	assert.InDelta(t, 0, res.Mean, 100)
	assert.InDelta(t, 0.5, res.ProbabilityOfLoss, 0.03)
	assert.GreaterOrEqual(t, res.Min, -11000*0.3)
	assert.LessOrEqual(t, res.Max, 11000*0.3)
}

func TestRun_ZeroBandIsDeterministic(t *testing.T) {
	perturbations := []Perturbation{{Name: InputSellingPrice, Band: 0}}
	res, err := Run(context.Background(), BreakevenInputs(50, 30, 4000), 100, perturbations, BreakevenProfit, NewSource(3))
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Mean)
	assert.Equal(t, 0.0, res.StdDev)
	assert.Equal(t, 0.0, res.ProbabilityOfLoss)
	assert.Equal(t, res.Interval95.Lower, res.Interval95.Upper)
}

func TestRun_DefaultsTrialsAndSource(t *testing.T) {
	res, err := Run(context.Background(), BreakevenInputs(50, 30, 1000), 0, BreakevenPerturbations(), BreakevenProfit, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTrials, res.Samples)
}

func TestRun_PerturbationsStayWithinBand(t *testing.T) {
	base := map[string]float64{"x": 100, "untouched": 5}
	perturbations := []Perturbation{{Name: "x", Band: 0.25}}

	var seen []float64
	payoff := func(in map[string]float64) float64 {
		assert.Equal(t, 5.0, in["untouched"])
		seen = append(seen, in["x"])
		return in["x"]
	}

	_, err := Run(context.Background(), base, 500, perturbations, payoff, NewSource(9))
	require.NoError(t, err)
	require.Len(t, seen, 500)
	for _, x := range seen {
		assert.GreaterOrEqual(t, x, 75.0)
		assert.Less(t, x, 125.0)
	}
}

func TestRun_InvalidInputs(t *testing.T) {
	base := BreakevenInputs(50, 30, 1000)

	tests := []struct {
		name   string
		base   map[string]float64
		perturbations   []Perturbation
		payoff Payoff
	}{
		{"unknown perturbation", base, []Perturbation{{Name: "tax_rate", Band: 0.1}}, BreakevenProfit},
		{"negative band", base, []Perturbation{{Name: InputFixedCosts, Band: -0.1}}, BreakevenProfit},
		{"band above one", base, []Perturbation{{Name: InputFixedCosts, Band: 1.5}}, BreakevenProfit},
		{"nil payoff", base, BreakevenPerturbations(), nil},
		{"non-finite base", map[string]float64{"x": math.Inf(1)}, nil, func(map[string]float64) float64 { return 0 }},
		{"non-finite outcome", base, BreakevenPerturbations(), func(map[string]float64) float64 { return math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), tt.base, 10, tt.perturbations, tt.payoff, NewSource(1))
			assert.ErrorIs(t, err, formulas.ErrInvalidDomain)
		})
	}
}

func TestRun_Cancellation(t *testing.T) {
	t.Run("cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := Run(ctx, BreakevenInputs(50, 30, 1000), 100, BreakevenPerturbations(), BreakevenProfit, NewSource(1))
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, Result{}, res)
	})

	t.Run("cancelled between trials", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		calls := 0
		payoff := func(in map[string]float64) float64 {
			calls++
			if calls == 50 {
				cancel()
			}
			return BreakevenProfit(in)
		}

		_, err := Run(ctx, BreakevenInputs(50, 30, 1000), 10000, BreakevenPerturbations(), payoff, NewSource(1))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 50, calls)
	})
}

func TestSummarize_KnownSample(t *testing.T) {
	outcomes := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}

	res, err := Summarize(outcomes)
	require.NoError(t, err)

	assert.Equal(t, 10, res.Samples)
	assert.Equal(t, Percentiles{P10: 2, P25: 3, P50: 6, P75: 8, P90: 10}, res.Percentiles)
	assert.InDelta(t, 5.5, res.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(55.0/6.0), res.StdDev, 1e-12)
	assert.Equal(t, 1.0, res.Min)
	assert.Equal(t, 10.0, res.Max)
	assert.Equal(t, 0.0, res.ProbabilityOfLoss)
	assert.Equal(t, 1.0, res.VaR95)
	assert.Equal(t, 1.0, res.CVaR95)
	assert.Equal(t, []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, outcomes, "input order is preserved")
}

func TestSummarize_LossShare(t *testing.T) {
	res, err := Summarize([]float64{-3, 2, -1, 4})
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.ProbabilityOfLoss)
	assert.Equal(t, -3.0, res.Min)
}

func TestSummarize_SingleOutcome(t *testing.T) {
	res, err := Summarize([]float64{5})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.StdDev)
	assert.Equal(t, Interval{Lower: 5, Upper: 5}, res.Interval95)
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(nil)
	assert.ErrorIs(t, err, formulas.ErrInsufficientData)
}
