package cmd

import (
	"fmt"
	"strings"

	"github.com/aristath/quantkit/internal/modules/montecarlo"
	"github.com/spf13/cobra"
)

type breakevenModel struct {
	SellingPrice float64 `json:"selling_price" yaml:"selling_price" toml:"selling_price"`
	VariableCost float64 `json:"variable_cost" yaml:"variable_cost" toml:"variable_cost"`
	FixedCosts   float64 `json:"fixed_costs" yaml:"fixed_costs" toml:"fixed_costs"`
}

type stakingModel struct {
	Stake  float64 `json:"stake" yaml:"stake" toml:"stake"`
	APYPct float64 `json:"apy_pct" yaml:"apy_pct" toml:"apy_pct"`
	FeePct float64 `json:"fee_pct" yaml:"fee_pct" toml:"fee_pct"`
	Years  float64 `json:"years" yaml:"years" toml:"years"`
}

type monteCarloRequest struct {
	Model  string `json:"model" yaml:"model" toml:"model"`
	Trials int    `json:"trials" yaml:"trials" toml:"trials"`
	Seed   uint64 `json:"seed" yaml:"seed" toml:"seed"`

	Breakeven *breakevenModel          `json:"breakeven" yaml:"breakeven" toml:"breakeven"`
	Staking   *stakingModel            `json:"staking" yaml:"staking" toml:"staking"`
	Growth    *montecarlo.GrowthParams `json:"growth" yaml:"growth" toml:"growth"`

	// Perturbations replaces the model's default uncertainty bands.
	Perturbations []montecarlo.Perturbation `json:"perturbations" yaml:"perturbations" toml:"perturbations"`
}

var (
	mcTrials int
	mcSeed   uint64
)

var monteCarloCmd = &cobra.Command{
	Use:     "montecarlo <request-file>",
	Aliases: []string{"mc"},
	Short:   "Run a Monte Carlo simulation",
	Long: `Runs a single-threaded Monte Carlo simulation and reports the outcome
distribution: nearest-rank percentiles, mean, sample standard deviation, the
normal-approximation 95% interval, probability of loss, VaR and CVaR.

Models:
  breakeven  - profit around the breakeven volume (price/cost ±20%,
               fixed costs ±10%, volume ±30%)
  staking    - net staking reward (APY ±20%, fee ±20%, token price ±30%)
  growth     - compounding investment with normal yearly returns

A non-zero seed replays the simulation exactly.

Example request (YAML):
  model: breakeven
  trials: 10000
  seed: 42
  breakeven:
    selling_price: 50
    variable_cost: 30
    fixed_costs: 10000`,
	Args: cobra.ExactArgs(1),
	RunE: runMonteCarlo,
}

func init() {
	rootCmd.AddCommand(monteCarloCmd)
	monteCarloCmd.Flags().IntVarP(&mcTrials, "trials", "n", 0, "Trial count override")
	monteCarloCmd.Flags().Uint64Var(&mcSeed, "seed", 0, "Seed override (0 keeps the request or configured seed)")
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	var req monteCarloRequest
	if err := readRequest(args, &req); err != nil {
		return err
	}
	if mcTrials > 0 {
		req.Trials = mcTrials
	}
	if mcSeed != 0 {
		req.Seed = mcSeed
	}

	var src montecarlo.Source
	if req.Seed != 0 {
		src = montecarlo.NewSource(req.Seed)
	}

	ctx := cmd.Context()
	svc := current.service

	switch strings.ToLower(req.Model) {
	case "breakeven":
		if req.Breakeven == nil {
			return fmt.Errorf("breakeven model needs a breakeven section")
		}
		m := req.Breakeven
		perturbations := withDefaultPerturbations(req.Perturbations, montecarlo.BreakevenPerturbations())
		res, err := svc.RunMonteCarlo(ctx, montecarlo.BreakevenInputs(m.SellingPrice, m.VariableCost, m.FixedCosts),
			req.Trials, perturbations, montecarlo.BreakevenProfit, src)
		if err != nil {
			return fmt.Errorf("simulation failed: %w", err)
		}
		return writeResult(cmd.OutOrStdout(), res)

	case "staking":
		if req.Staking == nil {
			return fmt.Errorf("staking model needs a staking section")
		}
		m := req.Staking
		perturbations := withDefaultPerturbations(req.Perturbations, montecarlo.StakingPerturbations())
		res, err := svc.RunMonteCarlo(ctx, montecarlo.StakingInputs(m.Stake, m.APYPct, m.FeePct, m.Years),
			req.Trials, perturbations, montecarlo.StakingNetReward, src)
		if err != nil {
			return fmt.Errorf("simulation failed: %w", err)
		}
		return writeResult(cmd.OutOrStdout(), res)

	case "growth":
		if req.Growth == nil {
			return fmt.Errorf("growth model needs a growth section")
		}
		res, err := svc.SimulateGrowth(ctx, *req.Growth, req.Trials, src)
		if err != nil {
			return fmt.Errorf("simulation failed: %w", err)
		}
		return writeResult(cmd.OutOrStdout(), res)

	default:
		return fmt.Errorf("unknown model %q (breakeven, staking, growth)", req.Model)
	}
}

func withDefaultPerturbations(requested, defaults []montecarlo.Perturbation) []montecarlo.Perturbation {
	if len(requested) > 0 {
		return requested
	}
	return defaults
}
