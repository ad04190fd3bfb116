package correlation

import (
	"fmt"

	"github.com/aristath/quantkit/pkg/formulas"
)

// DefaultConfidence is used when a caller passes a zero confidence level.
const DefaultConfidence = 0.95

// MinSampleSize is the smallest sample for which a full Result (including the
// Fisher interval) exists.
const MinSampleSize = 4

// Result is the immutable outcome of one Correlate call.
type Result struct {
	Coefficient        float64    `json:"coefficient" yaml:"coefficient" msgpack:"coefficient"`
	Method             Method     `json:"method" yaml:"method" msgpack:"method"`
	Covariance         float64    `json:"covariance" yaml:"covariance" msgpack:"covariance"`
	PValue             float64    `json:"p_value" yaml:"p_value" msgpack:"p_value"`
	ConfidenceLevel    float64    `json:"confidence_level" yaml:"confidence_level" msgpack:"confidence_level"`
	ConfidenceInterval Interval   `json:"confidence_interval" yaml:"confidence_interval" msgpack:"confidence_interval"`
	SampleSize         int        `json:"sample_size" yaml:"sample_size" msgpack:"sample_size"`
	Regression         Regression `json:"regression" yaml:"regression" msgpack:"regression"`
	Strength           Strength   `json:"strength" yaml:"strength" msgpack:"strength"`
	Direction          Direction  `json:"direction" yaml:"direction" msgpack:"direction"`
}

// Options tunes Correlate beyond the method and confidence level.
type Options struct {
	// ExactPValue replaces the normal approximation with a Student-t tail.
	ExactPValue bool
}

// Correlate computes the coefficient of xs and ys by method together with its
// covariance, p-value, Fisher confidence interval and the regression of ys on xs.
func Correlate(xs, ys []float64, method Method, confidence float64) (Result, error) {
	return CorrelateWithOptions(xs, ys, method, confidence, Options{})
}

// CorrelateWithOptions is Correlate with explicit Options.
func CorrelateWithOptions(xs, ys []float64, method Method, confidence float64, opts Options) (Result, error) {
	if confidence == 0 {
		confidence = DefaultConfidence
	}
	if err := formulas.ValidatePair(xs, ys, MinSampleSize); err != nil {
		return Result{}, fmt.Errorf("correlate: %w", err)
	}

	r, err := method.coefficient(xs, ys)
	if err != nil {
		return Result{}, fmt.Errorf("correlate: %w", err)
	}

	n := len(xs)
	ci, err := ConfidenceInterval(r, n, confidence)
	if err != nil {
		return Result{}, fmt.Errorf("correlate: %w", err)
	}

	cov, err := formulas.Covariance(xs, ys)
	if err != nil {
		return Result{}, fmt.Errorf("correlate: %w", err)
	}

	reg, err := Regress(xs, ys)
	if err != nil {
		return Result{}, fmt.Errorf("correlate: %w", err)
	}

	strength, direction := Classify(r)

	return Result{
		Coefficient:        r,
		Method:             method,
		Covariance:         cov,
		PValue:             PValue(r, n, opts.ExactPValue),
		ConfidenceLevel:    confidence,
		ConfidenceInterval: ci,
		SampleSize:         n,
		Regression:         reg,
		Strength:           strength,
		Direction:          direction,
	}, nil
}

// Coefficient returns only the coefficient. It accepts any pair with at least
// two observations.
func Coefficient(xs, ys []float64, method Method) (float64, error) {
	if err := formulas.ValidatePair(xs, ys, 2); err != nil {
		return 0, err
	}
	return method.coefficient(xs, ys)
}
