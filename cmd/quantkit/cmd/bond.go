package cmd

import (
	"fmt"

	"github.com/aristath/quantkit/internal/modules/bonds"
	"github.com/spf13/cobra"
)

type bondRequest struct {
	Bond bonds.Terms `json:"bond" yaml:"bond" toml:"bond"`

	// YieldPct prices the bond at a given yield instead of solving for it.
	YieldPct *float64 `json:"yield_pct" yaml:"yield_pct" toml:"yield_pct"`

	// DeltaYieldPct adds a duration+convexity price change estimate.
	DeltaYieldPct float64 `json:"delta_yield_pct" yaml:"delta_yield_pct" toml:"delta_yield_pct"`
}

type bondResponse struct {
	Price       float64                       `json:"price" yaml:"price" msgpack:"price"`
	YieldPct    float64                       `json:"yield_pct" yaml:"yield_pct" msgpack:"yield_pct"`
	Sensitivity bonds.DurationConvexityResult `json:"sensitivity" yaml:"sensitivity" msgpack:"sensitivity"`
	PV01        float64                       `json:"pv01" yaml:"pv01" msgpack:"pv01"`
	Analysis    *bonds.Analysis               `json:"analysis,omitempty" yaml:"analysis,omitempty" msgpack:"analysis,omitempty"`
	Estimate    *bonds.PriceChange            `json:"estimate,omitempty" yaml:"estimate,omitempty" msgpack:"estimate,omitempty"`
	Schedule    []bonds.CashFlow              `json:"schedule,omitempty" yaml:"schedule,omitempty" msgpack:"schedule,omitempty"`
}

var (
	bondSchedule bool
	bondStrict   bool
)

var bondCmd = &cobra.Command{
	Use:   "bond <request-file>",
	Short: "Bond price, yield to maturity, duration and convexity",
	Long: `Analyses a fixed-coupon bond.

With "yield_pct" the bond is priced at that yield. Otherwise the yield to
maturity is solved from "bond.market_price" by bisection over 0-50% and the
full metrics block is reported; check analysis.yield.converged, or pass
--strict to fail when the search does not converge.

Example request (TOML):
  delta_yield_pct = 1.0

  [bond]
  face_value = 1000.0
  coupon_rate_pct = 5.0
  years_to_maturity = 10.0
  frequency = 2
  market_price = 1050.0`,
	Args: cobra.ExactArgs(1),
	RunE: runBond,
}

func init() {
	rootCmd.AddCommand(bondCmd)
	bondCmd.Flags().BoolVar(&bondSchedule, "schedule", false, "Include the cash-flow schedule")
	bondCmd.Flags().BoolVar(&bondStrict, "strict", false, "Fail when the yield search does not converge")
}

func runBond(cmd *cobra.Command, args []string) error {
	var req bondRequest
	if err := readRequest(args, &req); err != nil {
		return err
	}

	var resp bondResponse
	if req.YieldPct != nil {
		price, err := current.service.BondPrice(req.Bond, *req.YieldPct)
		if err != nil {
			return fmt.Errorf("pricing failed: %w", err)
		}
		dc, err := current.service.DurationConvexity(req.Bond, *req.YieldPct)
		if err != nil {
			return fmt.Errorf("duration failed: %w", err)
		}
		pv01, err := bonds.PV01(req.Bond, *req.YieldPct)
		if err != nil {
			return fmt.Errorf("pv01 failed: %w", err)
		}
		resp = bondResponse{Price: price, YieldPct: *req.YieldPct, Sensitivity: dc, PV01: pv01}
	} else {
		analysis, err := current.service.AnalyzeBond(req.Bond)
		if err != nil {
			return fmt.Errorf("bond analysis failed: %w", err)
		}
		if bondStrict {
			if err := analysis.Yield.Err(); err != nil {
				return fmt.Errorf("bond analysis failed: %w", err)
			}
		}
		resp = bondResponse{
			Price:       req.Bond.MarketPrice,
			YieldPct:    analysis.Yield.YieldPct,
			Sensitivity: analysis.Sensitivity,
			PV01:        analysis.PV01,
			Analysis:    &analysis,
		}
	}

	if req.DeltaYieldPct != 0 {
		est := bonds.EstimatePriceChange(resp.Sensitivity, resp.Price, req.DeltaYieldPct)
		resp.Estimate = &est
	}

	if bondSchedule {
		flows, err := bonds.Schedule(req.Bond)
		if err != nil {
			return fmt.Errorf("schedule failed: %w", err)
		}
		resp.Schedule = flows
	}

	return writeResult(cmd.OutOrStdout(), resp)
}
