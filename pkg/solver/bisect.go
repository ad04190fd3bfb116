// Package solver inverts monotonic one-dimensional functions by bisection.
package solver

import (
	"fmt"
	"math"

	"github.com/aristath/quantkit/pkg/formulas"
)

// Default search settings.
const (
	DefaultLo            = 0.0
	DefaultHi            = 0.5
	DefaultTolerance     = 1e-4
	DefaultMaxIterations = 100
)

// Direction describes how f moves as x increases.
type Direction int

const (
	// Decreasing functions fall as x rises (price as a function of yield).
	Decreasing Direction = iota
	// Increasing functions rise as x rises (future value as a function of rate).
	Increasing
)

// Options configures Bisect. Zero values select the defaults; MaxIterations
// below DefaultMaxIterations is raised to it.
type Options struct {
	Lo            float64
	Hi            float64
	Tolerance     float64
	MaxIterations int
	Direction     Direction
}

func (o Options) withDefaults() Options {
	if o.Lo == 0 && o.Hi == 0 {
		o.Lo, o.Hi = DefaultLo, DefaultHi
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations < DefaultMaxIterations {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

// Result is the terminal state of a search.
type Result struct {
	Root       float64
	Iterations int
	Converged  bool
	// Residual is f(Root) - target.
	Residual float64
}

// Err returns nil for a converged search and a wrapped ErrNonConvergence otherwise.
func (r Result) Err() error {
	if r.Converged {
		return nil
	}
	return fmt.Errorf("no root within tolerance after %d iterations (last x=%v, residual=%v): %w",
		r.Iterations, r.Root, r.Residual, formulas.ErrNonConvergence)
}

// Bisect searches [Lo, Hi] for x with |f(x) - target| < Tolerance.
//
// Each iteration evaluates f at the midpoint. For a decreasing f a value above
// the target means x is too low, so the lower bound moves up; otherwise the
// upper bound moves down. Increasing functions mirror this.
//
// A search that spends its iteration budget is not an error: the last midpoint
// is returned with Converged=false.
func Bisect(f func(float64) float64, target float64, opts Options) (Result, error) {
	opts = opts.withDefaults()
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return Result{}, fmt.Errorf("target %v is not finite: %w", target, formulas.ErrInvalidDomain)
	}
	if !(opts.Lo < opts.Hi) {
		return Result{}, fmt.Errorf("empty bracket [%v, %v]: %w", opts.Lo, opts.Hi, formulas.ErrInvalidDomain)
	}

	lo, hi := opts.Lo, opts.Hi
	var res Result
	for i := 1; i <= opts.MaxIterations; i++ {
		mid := (lo + hi) / 2
		residual := f(mid) - target

		res = Result{Root: mid, Iterations: i, Residual: residual}
		if math.Abs(residual) < opts.Tolerance {
			res.Converged = true
			return res, nil
		}

		tooLow := residual > 0
		if opts.Direction == Increasing {
			tooLow = residual < 0
		}
		if tooLow {
			lo = mid
		} else {
			hi = mid
		}
	}
	return res, nil
}
