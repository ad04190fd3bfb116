package correlation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/quantkit/pkg/formulas"
)

// fisherClamp keeps atanh finite for |r| = 1.
const fisherClamp = 1 - 1e-12

// Interval is a closed range on the correlation scale.
type Interval struct {
	Lower float64 `json:"lower" yaml:"lower" msgpack:"lower"`
	Upper float64 `json:"upper" yaml:"upper" msgpack:"upper"`
}

// TStatistic returns r·sqrt((n-2)/(1-r²)). It is ±Inf for |r| = 1.
func TStatistic(r float64, n int) float64 {
	den := 1 - r*r
	if den <= 0 {
		return math.Copysign(math.Inf(1), r)
	}
	return r * math.Sqrt(float64(n-2)/den)
}

// PValue is the two-tailed p-value for H0: ρ = 0.
//
// By default it uses the normal approximation 2·(1 − Φ(|t|)) of the
// t-statistic rather than a Student-t tail; exact selects the t distribution
// with n-2 degrees of freedom. Samples with n < 3 cannot be tested and get 1.
func PValue(r float64, n int, exact bool) float64 {
	if n < 3 {
		return 1
	}
	t := TStatistic(r, n)
	if math.IsInf(t, 0) {
		return 0
	}

	var tail float64
	if exact {
		tail = 1 - distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}.CDF(math.Abs(t))
	} else {
		tail = 1 - distuv.UnitNormal.CDF(math.Abs(t))
	}
	return math.Max(0, math.Min(1, 2*tail))
}

// ConfidenceInterval applies the Fisher z-transform: atanh(r) ± Z/sqrt(n-3),
// mapped back with tanh. Z is the two-sided standard normal critical value for
// the confidence level (1.959964 for 0.95).
func ConfidenceInterval(r float64, n int, confidence float64) (Interval, error) {
	if n <= 3 {
		return Interval{}, fmt.Errorf("confidence interval needs more than 3 observations, got %d: %w", n, formulas.ErrInsufficientData)
	}
	if math.IsNaN(confidence) || confidence <= 0 || confidence >= 1 {
		return Interval{}, fmt.Errorf("confidence %v outside (0,1): %w", confidence, formulas.ErrInvalidDomain)
	}

	z := math.Atanh(math.Max(-fisherClamp, math.Min(fisherClamp, r)))
	critical := distuv.UnitNormal.Quantile(1 - (1-confidence)/2)
	margin := critical / math.Sqrt(float64(n-3))

	return Interval{
		Lower: math.Tanh(z - margin),
		Upper: math.Tanh(z + margin),
	}, nil
}
