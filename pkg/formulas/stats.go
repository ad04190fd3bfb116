package formulas

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ValidateSample checks that xs has at least minLen values and that every
// value is finite.
func ValidateSample(xs []float64, minLen int) error {
	if len(xs) < minLen {
		return fmt.Errorf("need at least %d values, got %d: %w", minLen, len(xs), ErrInsufficientData)
	}
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("value at index %d is not finite (%v): %w", i, x, ErrInvalidDomain)
		}
	}
	return nil
}

// ValidatePair checks a pair of series for a pairwise statistic: equal
// lengths, at least minLen values each, all finite.
func ValidatePair(xs, ys []float64, minLen int) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("series lengths %d and %d differ: %w", len(xs), len(ys), ErrLengthMismatch)
	}
	if err := ValidateSample(xs, minLen); err != nil {
		return fmt.Errorf("first series: %w", err)
	}
	if err := ValidateSample(ys, minLen); err != nil {
		return fmt.Errorf("second series: %w", err)
	}
	return nil
}

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) (float64, error) {
	if err := ValidateSample(data, 1); err != nil {
		return 0, err
	}
	return stat.Mean(data, nil), nil
}

// Variance calculates the sample variance (divides by n-1)
func Variance(data []float64) (float64, error) {
	if err := ValidateSample(data, 2); err != nil {
		return 0, err
	}
	return stat.Variance(data, nil), nil
}

// StdDev calculates the sample standard deviation
func StdDev(data []float64) (float64, error) {
	v, err := Variance(data)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// Covariance calculates the sample covariance between two datasets (divides by n-1)
func Covariance(x, y []float64) (float64, error) {
	if err := ValidatePair(x, y, 2); err != nil {
		return 0, err
	}
	return stat.Covariance(x, y, nil), nil
}

// CalculateReturns converts prices to simple returns.
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]; a zero base price yields a 0 return.
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// SharpeRatio is (ret - riskFree) / risk. Zero or negative risk has no
// meaningful ratio and yields 0.
func SharpeRatio(ret, risk, riskFree float64) float64 {
	if risk <= 0 {
		return 0
	}
	return (ret - riskFree) / risk
}
