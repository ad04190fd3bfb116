package bonds

import (
	"fmt"

	"github.com/aristath/quantkit/pkg/solver"
)

// Yield search bracket, as decimals.
const (
	yieldFloor   = 0.0
	yieldCeiling = 0.50
)

// SolveYield finds the yield to maturity that reprices the bond to its market
// price, by bisection over 0% and 50%.
//
// tolerance is on price (default 1e-4) and maxIterations is at least 100.
// An exhausted search is reported with Converged=false, not as an error;
// errors are reserved for invalid terms.
func SolveYield(terms Terms, tolerance float64, maxIterations int) (YieldSolveResult, error) {
	if err := terms.Validate(); err != nil {
		return YieldSolveResult{}, err
	}
	if err := terms.requireMarketPrice(); err != nil {
		return YieldSolveResult{}, err
	}

	flows := schedule(terms)
	priceAt := func(y float64) float64 {
		if y == 0 {
			return price(terms, 0)
		}
		total := 0.0
		for _, d := range discount(flows, y, terms.Frequency) {
			total += d.PV
		}
		return total
	}

	res, err := solver.Bisect(priceAt, terms.MarketPrice, solver.Options{
		Lo:            yieldFloor,
		Hi:            yieldCeiling,
		Tolerance:     tolerance,
		MaxIterations: maxIterations,
		Direction:     solver.Decreasing,
	})
	if err != nil {
		return YieldSolveResult{}, err
	}

	return YieldSolveResult{
		YieldPct:   res.Root * 100,
		Iterations: res.Iterations,
		Converged:  res.Converged,
		Residual:   res.Residual,
	}, nil
}

// Err returns nil for a converged solve and a wrapped
// formulas.ErrNonConvergence otherwise.
func (r YieldSolveResult) Err() error {
	res := solver.Result{
		Root:       r.YieldPct / 100,
		Iterations: r.Iterations,
		Converged:  r.Converged,
		Residual:   r.Residual,
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("yield to maturity: %w", err)
	}
	return nil
}
