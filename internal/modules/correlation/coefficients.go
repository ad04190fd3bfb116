package correlation

import (
	"math"

	"github.com/aristath/quantkit/pkg/formulas"
)

// pearson is the product-moment coefficient of two validated series.
// A series with zero variance has no defined correlation; 0 is returned.
// Constancy is checked on the raw values: the mean of a constant series can be
// off by an ulp, leaving tiny non-zero deviations.
func pearson(xs, ys []float64) float64 {
	if isConstant(xs) || isConstant(ys) {
		return 0
	}

	mx, _ := formulas.Mean(xs)
	my, _ := formulas.Mean(ys)

	var sxy, sxx, syy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return clampUnit(sxy / math.Sqrt(sxx*syy))
}

// kendallTau counts concordant minus discordant pairs over all n(n-1)/2
// pairs. Pairs tied in either series count as neither.
func kendallTau(xs, ys []float64) float64 {
	n := len(xs)
	pairs := n * (n - 1) / 2
	if pairs == 0 {
		return 0
	}

	balance := 0
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			s := sign(xs[j]-xs[i]) * sign(ys[j]-ys[i])
			switch {
			case s > 0:
				balance++
			case s < 0:
				balance--
			}
		}
	}
	return float64(balance) / float64(pairs)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func clampUnit(r float64) float64 {
	return math.Max(-1, math.Min(1, r))
}
