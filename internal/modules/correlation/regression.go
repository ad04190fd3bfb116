package correlation

import (
	"math"

	"github.com/aristath/quantkit/pkg/formulas"
)

// Regression is the ordinary least squares fit y = Intercept + Slope·x.
type Regression struct {
	Intercept   float64 `json:"intercept" yaml:"intercept" msgpack:"intercept"`
	Slope       float64 `json:"slope" yaml:"slope" msgpack:"slope"`
	RSquared    float64 `json:"r_squared" yaml:"r_squared" msgpack:"r_squared"`
	AdjRSquared float64 `json:"adj_r_squared" yaml:"adj_r_squared" msgpack:"adj_r_squared"`
	// SlopeStdErr is the standard error of the slope; 0 when n <= 2 or x is constant.
	SlopeStdErr float64 `json:"slope_std_err" yaml:"slope_std_err" msgpack:"slope_std_err"`
}

// Regress fits ys on xs: slope = cov(x,y)/var(x), intercept = ȳ − slope·x̄,
// R² = r² of the Pearson coefficient, adjusted R² = 1 − (1−R²)(n−1)/(n−2).
// A constant xs gives slope 0 and intercept ȳ.
func Regress(xs, ys []float64) (Regression, error) {
	if err := formulas.ValidatePair(xs, ys, 2); err != nil {
		return Regression{}, err
	}
	return regress(xs, ys), nil
}

func regress(xs, ys []float64) Regression {
	n := len(xs)
	mx, _ := formulas.Mean(xs)
	my, _ := formulas.Mean(ys)
	varX, _ := formulas.Variance(xs)
	if isConstant(xs) {
		varX = 0
	}
	cov, _ := formulas.Covariance(xs, ys)

	slope := 0.0
	if varX > 0 {
		slope = cov / varX
	}
	r := pearson(xs, ys)
	rSquared := r * r

	reg := Regression{
		Intercept: my - slope*mx,
		Slope:     slope,
		RSquared:  rSquared,
	}

	if n > 2 {
		reg.AdjRSquared = 1 - (1-rSquared)*float64(n-1)/float64(n-2)

		if varX > 0 {
			var sse float64
			for i := range xs {
				resid := ys[i] - (reg.Intercept + slope*xs[i])
				sse += resid * resid
			}
			sxx := varX * float64(n-1)
			reg.SlopeStdErr = math.Sqrt(sse / float64(n-2) / sxx)
		}
	} else {
		reg.AdjRSquared = rSquared
	}
	return reg
}
