package formulas

import (
	"fmt"
	"math"
	"sort"
)

// CalculateVaR returns the Value at Risk of an ascending-sorted outcome
// sample at the given confidence: the nearest-rank (1-confidence) percentile.
// A negative result is a loss.
func CalculateVaR(sorted []float64, confidence float64) (float64, error) {
	if err := validateConfidence(confidence); err != nil {
		return 0, err
	}
	return Percentile(sorted, 1.0-confidence)
}

// CalculateCVaR calculates Conditional Value at Risk (CVaR) at the specified confidence level.
// CVaR is the mean of the worst ceil(n × (1-confidence)) outcomes (at least one).
//
// Args:
//   - returns: outcomes in any order (negative for losses)
//   - confidence: Confidence level (e.g., 0.95 for 95%)
func CalculateCVaR(returns []float64, confidence float64) (float64, error) {
	if err := validateConfidence(confidence); err != nil {
		return 0, err
	}
	if err := ValidateSample(returns, 1); err != nil {
		return 0, err
	}

	if len(returns) == 1 {
		return returns[0], nil
	}

	// Sort returns in ascending order (worst first)
	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	return tailMean(sorted, confidence), nil
}

// tailMean averages the worst tail of an already sorted sample.
func tailMean(sorted []float64, confidence float64) float64 {
	tailCount := int(math.Ceil(float64(len(sorted)) * (1.0 - confidence)))
	if tailCount == 0 {
		tailCount = 1
	}
	if tailCount > len(sorted) {
		tailCount = len(sorted)
	}

	sum := 0.0
	for _, r := range sorted[:tailCount] {
		sum += r
	}
	return sum / float64(tailCount)
}

// CalculateSortedCVaR is CalculateCVaR for a sample the caller already sorted.
func CalculateSortedCVaR(sorted []float64, confidence float64) (float64, error) {
	if err := validateConfidence(confidence); err != nil {
		return 0, err
	}
	if len(sorted) == 0 {
		return 0, fmt.Errorf("cvar of empty sample: %w", ErrInsufficientData)
	}
	return tailMean(sorted, confidence), nil
}

func validateConfidence(confidence float64) error {
	if math.IsNaN(confidence) || confidence <= 0 || confidence >= 1 {
		return fmt.Errorf("confidence %v outside (0,1): %w", confidence, ErrInvalidDomain)
	}
	return nil
}
