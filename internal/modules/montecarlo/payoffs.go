package montecarlo

import (
	"context"
	"fmt"
	"math"

	"github.com/aristath/quantkit/pkg/formulas"
	"github.com/aristath/quantkit/pkg/solver"
)

// Input names understood by the built-in payoff models.
const (
	InputSellingPrice = "selling_price"
	InputVariableCost = "variable_cost"
	InputFixedCosts   = "fixed_costs"
	InputVolumeFactor = "volume_factor"

	InputStake       = "stake"
	InputAPYPct      = "apy_pct"
	InputFeePct      = "fee_pct"
	InputPriceFactor = "price_factor"
	InputYears       = "years"
)

// BreakevenInputs returns the base inputs of the breakeven model. The volume
// factor starts at 1, i.e. sales exactly at the breakeven volume.
func BreakevenInputs(sellingPrice, variableCost, fixedCosts float64) map[string]float64 {
	return map[string]float64{
		InputSellingPrice: sellingPrice,
		InputVariableCost: variableCost,
		InputFixedCosts:   fixedCosts,
		InputVolumeFactor: 1,
	}
}

// BreakevenPerturbations is the uncertainty of the breakeven model: price and variable
// cost ±20%, fixed costs ±10%, achieved volume ±30% around breakeven.
func BreakevenPerturbations() []Perturbation {
	return []Perturbation{
		{Name: InputSellingPrice, Band: 0.20},
		{Name: InputVariableCost, Band: 0.20},
		{Name: InputVolumeFactor, Band: 0.30},
		{Name: InputFixedCosts, Band: 0.10},
	}
}

// BreakevenProfit is the profit of selling volume_factor times the breakeven
// volume. With no positive contribution margin there is no breakeven and the
// whole fixed cost is lost.
func BreakevenProfit(inputs map[string]float64) float64 {
	margin := inputs[InputSellingPrice] - inputs[InputVariableCost]
	fixed := inputs[InputFixedCosts]
	if margin <= 0 {
		return -fixed
	}
	breakeven := fixed / margin
	expected := breakeven * inputs[InputVolumeFactor]
	return (expected - breakeven) * margin
}

// StakingInputs returns the base inputs of the staking model.
func StakingInputs(stake, apyPct, feePct, years float64) map[string]float64 {
	return map[string]float64{
		InputStake:       stake,
		InputAPYPct:      apyPct,
		InputFeePct:      feePct,
		InputPriceFactor: 1,
		InputYears:       years,
	}
}

// StakingPerturbations perturbs the reward rate ±20%, the validator fee ±20% and the
// token price ±30%.
func StakingPerturbations() []Perturbation {
	return []Perturbation{
		{Name: InputAPYPct, Band: 0.20},
		{Name: InputFeePct, Band: 0.20},
		{Name: InputPriceFactor, Band: 0.30},
	}
}

// StakingNetReward is the gain in value of a stake compounding its
// after-fee reward yearly, marked at the perturbed token price.
func StakingNetReward(inputs map[string]float64) float64 {
	stake := inputs[InputStake]
	netRate := inputs[InputAPYPct] / 100 * (1 - inputs[InputFeePct]/100)
	final := stake * math.Pow(1+netRate, inputs[InputYears]) * inputs[InputPriceFactor]
	return final - stake
}

// GrowthParams describes a compounding investment with normally
// distributed yearly returns. Rates are decimals (0.07 = 7%). Target is an
// optional goal for the final value; 0 disables it.
type GrowthParams struct {
	Principal  float64 `json:"principal" yaml:"principal" toml:"principal" msgpack:"principal"`
	MeanReturn float64 `json:"mean_return" yaml:"mean_return" toml:"mean_return" msgpack:"mean_return"`
	Volatility float64 `json:"volatility" yaml:"volatility" toml:"volatility" msgpack:"volatility"`
	Years      int     `json:"years" yaml:"years" toml:"years" msgpack:"years"`
	Target     float64 `json:"target,omitempty" yaml:"target,omitempty" toml:"target" msgpack:"target,omitempty"`
}

// TargetOutcome relates a growth simulation to its goal. RequiredReturn is
// the constant yearly return that compounds the principal exactly to Value;
// Probability is the share of trials ending at or above it.
type TargetOutcome struct {
	Value          float64 `json:"value" yaml:"value" msgpack:"value"`
	RequiredReturn float64 `json:"required_return" yaml:"required_return" msgpack:"required_return"`
	Probability    float64 `json:"probability" yaml:"probability" msgpack:"probability"`
}

// GrowthResult summarises final values of a growth simulation.
type GrowthResult struct {
	Result                    `yaml:",inline"`
	WorstCase                 float64        `json:"worst_case" yaml:"worst_case" msgpack:"worst_case"`
	BestCase                  float64        `json:"best_case" yaml:"best_case" msgpack:"best_case"`
	ProbabilityBelowPrincipal float64        `json:"probability_below_principal" yaml:"probability_below_principal" msgpack:"probability_below_principal"`
	Target                    *TargetOutcome `json:"target,omitempty" yaml:"target,omitempty" msgpack:"target,omitempty"`
}

func (p GrowthParams) validate() error {
	for _, v := range []float64{p.Principal, p.MeanReturn, p.Volatility} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("growth parameters must be finite: %w", formulas.ErrInvalidDomain)
		}
	}
	if p.Principal <= 0 {
		return fmt.Errorf("principal must be positive, got %v: %w", p.Principal, formulas.ErrInvalidDomain)
	}
	if p.Volatility < 0 {
		return fmt.Errorf("volatility must be non-negative, got %v: %w", p.Volatility, formulas.ErrInvalidDomain)
	}
	if p.Years <= 0 {
		return fmt.Errorf("years must be positive, got %d: %w", p.Years, formulas.ErrInvalidDomain)
	}
	if math.IsNaN(p.Target) || math.IsInf(p.Target, 0) || p.Target < 0 {
		return fmt.Errorf("target must be a non-negative finite value, got %v: %w", p.Target, formulas.ErrInvalidDomain)
	}
	return nil
}

// Required return search bracket.
const (
	minRequiredReturn = -0.99
	maxRequiredReturn = 10.0
)

// RequiredReturn solves (1+r)^years = target/principal for r by bisection
// over [-99%, 1000%]. A target outside that range fails with
// formulas.ErrNonConvergence.
func RequiredReturn(principal, target float64, years int) (float64, error) {
	if principal <= 0 || target <= 0 || years <= 0 {
		return 0, fmt.Errorf("required return needs positive principal, target and years: %w", formulas.ErrInvalidDomain)
	}
	multiple := target / principal
	growth := func(r float64) float64 {
		return math.Pow(1+r, float64(years)) / multiple
	}

	res, err := solver.Bisect(growth, 1, solver.Options{
		Lo:        minRequiredReturn,
		Hi:        maxRequiredReturn,
		Tolerance: 1e-10,
		Direction: solver.Increasing,
	})
	if err != nil {
		return 0, err
	}
	if err := res.Err(); err != nil {
		return 0, fmt.Errorf("required return for %vx over %d years: %w", multiple, years, err)
	}
	return res.Root, nil
}

// SimulateGrowth compounds the principal through Years yearly returns drawn
// from N(MeanReturn, Volatility²) per trial. Yearly losses are capped at
// -100% so a value never turns negative.
func SimulateGrowth(ctx context.Context, params GrowthParams, trials int, src Source) (GrowthResult, error) {
	if err := params.validate(); err != nil {
		return GrowthResult{}, fmt.Errorf("growth simulation: %w", err)
	}
	if trials <= 0 {
		trials = DefaultTrials
	}
	if src == nil {
		src = SystemSource()
	}

	var target *TargetOutcome
	if params.Target > 0 {
		r, err := RequiredReturn(params.Principal, params.Target, params.Years)
		if err != nil {
			return GrowthResult{}, fmt.Errorf("growth simulation: %w", err)
		}
		target = &TargetOutcome{Value: params.Target, RequiredReturn: r}
	}

	finals := make([]float64, trials)
	below, reached := 0, 0
	for i := 0; i < trials; i++ {
		if err := ctx.Err(); err != nil {
			return GrowthResult{}, fmt.Errorf("growth simulation stopped after %d of %d trials: %w", i, trials, err)
		}

		value := params.Principal
		for year := 0; year < params.Years; year++ {
			r := params.MeanReturn + params.Volatility*src.NormFloat64()
			value *= math.Max(0, 1+r)
		}
		if value < params.Principal {
			below++
		}
		if target != nil && value >= target.Value {
			reached++
		}
		finals[i] = value
	}

	summary, err := Summarize(finals)
	if err != nil {
		return GrowthResult{}, err
	}
	if target != nil {
		target.Probability = float64(reached) / float64(trials)
	}
	return GrowthResult{
		Result:                    summary,
		WorstCase:                 summary.Min,
		BestCase:                  summary.Max,
		ProbabilityBelowPrincipal: float64(below) / float64(trials),
		Target:                    target,
	}, nil
}
