// Package montecarlo runs single-threaded scenario simulations: each trial
// perturbs named inputs by a uniform multiplier, evaluates a payoff, and the
// collected outcomes are summarised once at the end.
package montecarlo

import (
	"context"
	"fmt"
	"math"

	"github.com/aristath/quantkit/pkg/formulas"
)

// DefaultTrials is used when a caller asks for zero or fewer trials.
const DefaultTrials = 10000

// Perturbation scales the input Name by a multiplier drawn uniformly from
// [1-Band, 1+Band] on every trial. Band 0.2 is the ±20% of the breakeven model.
type Perturbation struct {
	Name string  `json:"name" yaml:"name" toml:"name" msgpack:"name"`
	Band float64 `json:"band" yaml:"band" toml:"band" msgpack:"band"`
}

func (p Perturbation) multiplier(u float64) float64 {
	return 1 - p.Band + 2*p.Band*u
}

// Payoff maps one trial's inputs to an outcome. The map is reused between
// trials and must not be retained.
type Payoff func(inputs map[string]float64) float64

// Run executes trials scenarios and summarises the outcomes.
//
// Perturbations consume one uniform draw each, in slice order, so a seeded
// Source reproduces the run exactly. A nil src uses SystemSource. The context
// is checked between trials; cancellation returns its error and no result.
func Run(ctx context.Context, base map[string]float64, trials int, perturbations []Perturbation, payoff Payoff, src Source) (Result, error) {
	if trials <= 0 {
		trials = DefaultTrials
	}
	if payoff == nil {
		return Result{}, fmt.Errorf("monte carlo: nil payoff: %w", formulas.ErrInvalidDomain)
	}
	if err := validatePerturbations(base, perturbations); err != nil {
		return Result{}, fmt.Errorf("monte carlo: %w", err)
	}
	if src == nil {
		src = SystemSource()
	}

	inputs := make(map[string]float64, len(base))
	outcomes := make([]float64, trials)

	for i := 0; i < trials; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("monte carlo stopped after %d of %d trials: %w", i, trials, err)
		}

		for k, v := range base {
			inputs[k] = v
		}
		for _, p := range perturbations {
			inputs[p.Name] = base[p.Name] * p.multiplier(src.Float64())
		}

		outcome := payoff(inputs)
		if math.IsNaN(outcome) || math.IsInf(outcome, 0) {
			return Result{}, fmt.Errorf("monte carlo: trial %d produced %v: %w", i, outcome, formulas.ErrInvalidDomain)
		}
		outcomes[i] = outcome
	}

	return Summarize(outcomes)
}

func validatePerturbations(base map[string]float64, perturbations []Perturbation) error {
	for name, v := range base {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("base input %q is not finite: %w", name, formulas.ErrInvalidDomain)
		}
	}
	for _, p := range perturbations {
		if _, ok := base[p.Name]; !ok {
			return fmt.Errorf("perturbation of unknown input %q: %w", p.Name, formulas.ErrInvalidDomain)
		}
		if math.IsNaN(p.Band) || p.Band < 0 || p.Band > 1 {
			return fmt.Errorf("band %v for %q outside [0,1]: %w", p.Band, p.Name, formulas.ErrInvalidDomain)
		}
	}
	return nil
}
