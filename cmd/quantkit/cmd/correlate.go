package cmd

import (
	"fmt"

	"github.com/aristath/quantkit/internal/modules/correlation"
	"github.com/spf13/cobra"
)

// namedSeries is one input of a correlation matrix request.
type namedSeries struct {
	Name   string    `json:"name" yaml:"name" toml:"name"`
	Values []float64 `json:"values" yaml:"values" toml:"values"`
}

type correlateRequest struct {
	A          []float64 `json:"a" yaml:"a" toml:"a"`
	B          []float64 `json:"b" yaml:"b" toml:"b"`
	Method     string    `json:"method" yaml:"method" toml:"method"`
	Confidence float64   `json:"confidence" yaml:"confidence" toml:"confidence"`

	// Series switches to matrix mode: every pair at or above Threshold.
	Series    []namedSeries `json:"series" yaml:"series" toml:"series"`
	Threshold float64       `json:"threshold" yaml:"threshold" toml:"threshold"`
}

var correlateMethod string

var correlateCmd = &cobra.Command{
	Use:   "correlate <request-file>",
	Short: "Correlate two series or scan a set of series for correlated pairs",
	Long: `Correlates series a and b, reporting the coefficient, covariance,
p-value, Fisher confidence interval and the regression of b on a.

With a "series" list instead, builds the correlation matrix and lists every
pair whose absolute correlation reaches "threshold" (default 0.8).

Example request (YAML):
  method: spearman
  confidence: 0.95
  a: [1, 2, 3, 4, 5]
  b: [2, 4, 5, 4, 5]`,
	Args: cobra.ExactArgs(1),
	RunE: runCorrelate,
}

func init() {
	rootCmd.AddCommand(correlateCmd)
	correlateCmd.Flags().StringVarP(&correlateMethod, "method", "m", "", "Method override (pearson, spearman, kendall)")
}

func runCorrelate(cmd *cobra.Command, args []string) error {
	var req correlateRequest
	if err := readRequest(args, &req); err != nil {
		return err
	}

	name := req.Method
	if correlateMethod != "" {
		name = correlateMethod
	}
	method, err := correlation.ParseMethod(name)
	if err != nil {
		return err
	}

	if len(req.Series) > 0 {
		threshold := req.Threshold
		if threshold == 0 {
			threshold = 0.8
		}
		names := make([]string, len(req.Series))
		values := make([][]float64, len(req.Series))
		for i, s := range req.Series {
			names[i] = s.Name
			values[i] = s.Values
		}
		pairs, err := current.service.CorrelatedPairs(names, values, method, threshold)
		if err != nil {
			return fmt.Errorf("correlation matrix failed: %w", err)
		}
		return writeResult(cmd.OutOrStdout(), pairs)
	}

	res, err := current.service.Correlate(req.A, req.B, method, req.Confidence)
	if err != nil {
		return fmt.Errorf("correlation failed: %w", err)
	}
	return writeResult(cmd.OutOrStdout(), res)
}
