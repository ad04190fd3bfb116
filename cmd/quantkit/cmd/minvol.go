package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

type minVolRequest struct {
	Series []namedSeries `json:"series" yaml:"series" toml:"series"`
	Prices bool          `json:"prices" yaml:"prices" toml:"prices"`
}

var minVolCmd = &cobra.Command{
	Use:   "minvol <request-file>",
	Short: "Solve long-only minimum-volatility weights for n assets",
	Long: `Finds the fully-invested long-only weights with the lowest portfolio
volatility over the sample covariance of the listed return series, and
reports the portfolio return, risk and Sharpe ratio (QK_RISK_FREE_RATE).

Set "prices: true" to pass price histories instead of returns.

Example request (YAML):
  series:
    - name: bonds
      values: [0.01, 0.02, 0.00, 0.01]
    - name: stocks
      values: [0.05, -0.03, 0.04, 0.02]`,
	Args: cobra.ExactArgs(1),
	RunE: runMinVol,
}

func init() {
	rootCmd.AddCommand(minVolCmd)
}

func runMinVol(cmd *cobra.Command, args []string) error {
	var req minVolRequest
	if err := readRequest(args, &req); err != nil {
		return err
	}

	names := make([]string, len(req.Series))
	values := make([][]float64, len(req.Series))
	for i, s := range req.Series {
		names[i] = s.Name
		values[i] = s.Values
		if req.Prices {
			returns, err := returnsFromPrices(s.Values)
			if err != nil {
				return fmt.Errorf("series %q: %w", s.Name, err)
			}
			values[i] = returns
		}
	}

	alloc, err := current.service.MinVolatility(names, values)
	if err != nil {
		return fmt.Errorf("minimum volatility failed: %w", err)
	}
	return writeResult(cmd.OutOrStdout(), alloc)
}
