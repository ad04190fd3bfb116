package correlation

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/quantkit/pkg/formulas"
)

var (
	sampleX = []float64{1, 2, 3, 4, 5}
	sampleY = []float64{2, 4, 5, 4, 5}
)

func TestCorrelate_Pearson(t *testing.T) {
	res, err := Correlate(sampleX, sampleY, Pearson, 0.95)
	require.NoError(t, err)

	assert.InDelta(t, 6/math.Sqrt(60), res.Coefficient, 1e-12)
	assert.Equal(t, Pearson, res.Method)
	assert.InDelta(t, 1.5, res.Covariance, 1e-12)
	assert.Equal(t, 5, res.SampleSize)
	assert.InDelta(t, 0.0339, res.PValue, 1e-3)

	assert.InDelta(t, 0.6, res.Regression.Slope, 1e-12)
	assert.InDelta(t, 2.2, res.Regression.Intercept, 1e-12)
	assert.InDelta(t, 0.6, res.Regression.RSquared, 1e-12)
	assert.InDelta(t, 1-0.4*4.0/3.0, res.Regression.AdjRSquared, 1e-12)

	assert.InDelta(t, -0.340, res.ConfidenceInterval.Lower, 0.01)
	assert.InDelta(t, 0.984, res.ConfidenceInterval.Upper, 0.01)
	assert.Equal(t, Strong, res.Strength)
	assert.Equal(t, Positive, res.Direction)
}

func TestCorrelate_Spearman(t *testing.T) {
	// ys ranks with positional ties: [1, 2, 4, 3, 5]
	res, err := Correlate(sampleX, sampleY, Spearman, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, res.Coefficient, 1e-12)
	assert.Equal(t, VeryStrong, res.Strength)
}

func TestCorrelate_Kendall(t *testing.T) {
	// 7 concordant, 1 discordant, 2 tied pairs out of 10.
	res, err := Correlate(sampleX, sampleY, Kendall, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, res.Coefficient, 1e-12)
	assert.Equal(t, Moderate, res.Strength)
}

func TestCorrelate_SelfAndNegation(t *testing.T) {
	xs := []float64{1.5, 2.3, 3.7, 4.1, 5.9, 0.2, 7.3}
	neg := make([]float64, len(xs))
	for i, x := range xs {
		neg[i] = -x
	}

	self, err := Correlate(xs, xs, Pearson, 0.95)
	require.NoError(t, err)
	assert.Equal(t, 1.0, self.Coefficient)
	assert.Equal(t, 0.0, self.PValue)
	assert.LessOrEqual(t, self.ConfidenceInterval.Upper, 1.0)

	inverse, err := Correlate(xs, neg, Pearson, 0.95)
	require.NoError(t, err)
	assert.Equal(t, -1.0, inverse.Coefficient)
	assert.Equal(t, Negative, inverse.Direction)
	assert.GreaterOrEqual(t, inverse.ConfidenceInterval.Lower, -1.0)
}

func TestCorrelate_ZeroVarianceFallsBackToZero(t *testing.T) {
	constant := []float64{3, 3, 3, 3, 3}

	for _, method := range []Method{Pearson, Spearman, Kendall} {
		t.Run(method.String(), func(t *testing.T) {
			res, err := Correlate(constant, sampleY, method, 0.95)
			require.NoError(t, err)
			assert.Equal(t, 0.0, res.Coefficient)
			assert.False(t, math.IsNaN(res.PValue))

			res, err = Correlate(sampleY, constant, method, 0.95)
			require.NoError(t, err)
			assert.Equal(t, 0.0, res.Coefficient)
		})
	}
}

func TestCorrelate_ConstantWithInexactMeanFallsBackToZero(t *testing.T) {
	// The mean of these constants is not exactly representable, so the
	// deviations from it are tiny but non-zero.
	tests := []struct {
		name  string
		value float64
		n     int
	}{
		{"27 copies", 461.3862177205994, 27},
		{"7 copies", 894.3920161489536, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			constant := make([]float64, tt.n)
			varying := make([]float64, tt.n)
			for i := range constant {
				constant[i] = tt.value
				varying[i] = float64(i*i%11) + 0.5*float64(i)
			}

			for _, method := range []Method{Pearson, Spearman, Kendall} {
				res, err := Correlate(constant, varying, method, 0.95)
				require.NoError(t, err)
				assert.Equal(t, 0.0, res.Coefficient, "%v against varying", method)

				res, err = Correlate(constant, constant, method, 0.95)
				require.NoError(t, err)
				assert.Equal(t, 0.0, res.Coefficient, "%v against itself", method)
				assert.Equal(t, NoStrength, res.Strength)
				assert.Equal(t, NoDirection, res.Direction)
				assert.Equal(t, 1.0, res.PValue)
				assert.Equal(t, 0.0, res.Regression.Slope)
				assert.Equal(t, 0.0, res.Regression.RSquared)
			}

			r, err := Coefficient(varying, constant, Pearson)
			require.NoError(t, err)
			assert.Equal(t, 0.0, r)

			m, err := Matrix([][]float64{constant, varying}, Pearson)
			require.NoError(t, err)
			assert.Equal(t, 0.0, m.At(0, 1))
		})
	}
}

func TestCorrelate_RankCoefficientsStayInUnitRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 50; trial++ {
		n := 4 + rng.IntN(30)
		xs := make([]float64, n)
		ys := make([]float64, n)
		for i := range xs {
			// Rounding creates plenty of ties.
			xs[i] = math.Round(rng.NormFloat64() * 3)
			ys[i] = math.Round(rng.NormFloat64() * 3)
		}

		for _, method := range []Method{Spearman, Kendall} {
			r, err := Coefficient(xs, ys, method)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, r, -1.0)
			assert.LessOrEqual(t, r, 1.0)
		}
	}
}

func TestCorrelate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		xs, ys  []float64
		conf    float64
		wantErr error
	}{
		{name: "length mismatch", xs: []float64{1, 2, 3, 4}, ys: []float64{1, 2, 3}, wantErr: formulas.ErrLengthMismatch},
		{name: "three observations", xs: []float64{1, 2, 3}, ys: []float64{3, 2, 1}, wantErr: formulas.ErrInsufficientData},
		{name: "non-finite value", xs: []float64{1, 2, math.NaN(), 4}, ys: []float64{1, 2, 3, 4}, wantErr: formulas.ErrInvalidDomain},
		{name: "confidence out of range", xs: sampleX, ys: sampleY, conf: 1.2, wantErr: formulas.ErrInvalidDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Correlate(tt.xs, tt.ys, Pearson, tt.conf)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCorrelate_DefaultConfidence(t *testing.T) {
	res, err := Correlate(sampleX, sampleY, Pearson, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfidence, res.ConfidenceLevel)
}

func TestCoefficient_TwoObservations(t *testing.T) {
	r, err := Coefficient([]float64{1, 2}, []float64{5, 3}, Pearson)
	require.NoError(t, err)
	assert.Equal(t, -1.0, r)
}

func TestParseMethod(t *testing.T) {
	for name, want := range map[string]Method{
		"":            Pearson,
		"Pearson":     Pearson,
		"spearman":    Spearman,
		" kendall ":   Kendall,
		"kendall-tau": Kendall,
	} {
		got, err := ParseMethod(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseMethod("cosine")
	assert.ErrorIs(t, err, formulas.ErrInvalidDomain)

	var m Method
	require.NoError(t, m.UnmarshalText([]byte("kendall")))
	assert.Equal(t, Kendall, m)
	text, err := m.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "kendall", string(text))
}
