package cmd

import (
	"fmt"

	"github.com/aristath/quantkit/internal/modules/optimization"
	"github.com/aristath/quantkit/pkg/formulas"
	"github.com/spf13/cobra"
)

type frontierRequest struct {
	A []float64 `json:"a" yaml:"a" toml:"a"`
	B []float64 `json:"b" yaml:"b" toml:"b"`

	// Prices marks a and b as price histories rather than returns.
	Prices bool `json:"prices" yaml:"prices" toml:"prices"`
}

// frontierResponse omits ContinuousMinVariance when the optimiser does not
// converge.
type frontierResponse struct {
	optimization.Frontier `yaml:",inline"`
	ContinuousMinVariance *optimization.Allocation `json:"continuous_min_variance,omitempty" yaml:"continuous_min_variance,omitempty" msgpack:"continuous_min_variance,omitempty"`
}

var frontierCmd = &cobra.Command{
	Use:   "frontier <request-file>",
	Short: "Scan the two-asset efficient frontier",
	Long: `Combines return series a and b at weights 0, 0.1, ..., 1 on a and
reports each point with the minimum-variance and maximum-Sharpe picks. The
grid is coarse by construction; picks are grid points, not continuous optima.
The continuous minimum-variance weighting is reported alongside.
The Sharpe ratio uses QK_RISK_FREE_RATE (default 0).

Set "prices: true" to pass price histories; they are converted to simple
returns first.`,
	Args: cobra.ExactArgs(1),
	RunE: runFrontier,
}

func init() {
	rootCmd.AddCommand(frontierCmd)
}

func runFrontier(cmd *cobra.Command, args []string) error {
	var req frontierRequest
	if err := readRequest(args, &req); err != nil {
		return err
	}

	a, b := req.A, req.B
	if req.Prices {
		var err error
		if a, err = returnsFromPrices(a); err != nil {
			return fmt.Errorf("series a: %w", err)
		}
		if b, err = returnsFromPrices(b); err != nil {
			return fmt.Errorf("series b: %w", err)
		}
	}

	f, err := current.service.TwoAssetFrontier(a, b)
	if err != nil {
		return fmt.Errorf("frontier failed: %w", err)
	}

	resp := frontierResponse{Frontier: f}
	alloc, err := current.service.MinVolatility([]string{"a", "b"}, [][]float64{a, b})
	if err != nil {
		current.log.Warn().Err(err).Msg("Continuous minimum variance unavailable")
	} else {
		resp.ContinuousMinVariance = &alloc
	}
	return writeResult(cmd.OutOrStdout(), resp)
}

// returnsFromPrices converts a price history into simple returns. Prices must
// be positive.
func returnsFromPrices(prices []float64) ([]float64, error) {
	if err := formulas.ValidateSample(prices, 3); err != nil {
		return nil, err
	}
	for i, p := range prices {
		if p <= 0 {
			return nil, fmt.Errorf("price at index %d is %v: %w", i, p, formulas.ErrInvalidDomain)
		}
	}
	return formulas.CalculateReturns(prices), nil
}
