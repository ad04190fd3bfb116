package formulas

import "errors"

// Error taxonomy shared by every analytics package. Callers wrap these with
// context and match them with errors.Is.
var (
	// ErrInsufficientData means the sample is too small for the requested statistic.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrLengthMismatch means two paired series have different lengths.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrInvalidDomain means an input lies outside the domain of the calculation
	// (non-finite value, non-positive face value, probability outside [0,1], ...).
	ErrInvalidDomain = errors.New("invalid domain")
	// ErrNonConvergence is returned only by callers that opt in to treating an
	// exhausted root search as an error. Solvers themselves report a flag.
	ErrNonConvergence = errors.New("non-convergence")
)
