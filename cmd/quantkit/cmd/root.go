// Package cmd holds the quantkit command tree.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/aristath/quantkit/internal/analytics"
	"github.com/aristath/quantkit/internal/codec"
	"github.com/aristath/quantkit/internal/config"
	"github.com/aristath/quantkit/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	envFile      string
	outputFormat string
	logLevel     string
	logPretty    bool
)

// app is what PersistentPreRunE prepares for every subcommand.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	service *analytics.Service
	format  codec.Format
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "quantkit",
	Short: "Quantitative financial analytics",
	Long: `quantkit runs the analytics kernel on request files.

Requests are read from .json, .yaml/.yml or .toml files. Results are written
to stdout as JSON (default), YAML or MessagePack.

Commands:
  correlate   - Pearson, Spearman and Kendall correlation with significance
  bond        - Price, yield to maturity, duration and convexity
  montecarlo  - Breakeven, staking and growth simulations
  frontier    - Two-asset efficient frontier scan`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with a context that subcommands use
// for cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Env file with QK_* defaults (default: ./.env if present)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, yaml, msgpack)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "pretty", false, "Human readable logs on stderr")
}

func setup(cmd *cobra.Command, args []string) error {
	var envFiles []string
	if envFile != "" {
		envFiles = append(envFiles, envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logPretty {
		cfg.LogPretty = true
	}

	format, err := codec.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	if format == codec.FormatTOML {
		return fmt.Errorf("%w for results: %s", codec.ErrUnsupportedFormat, format)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: cmd.ErrOrStderr(),
	})
	logger.SetGlobalLogger(log)

	current = &app{
		cfg:     cfg,
		log:     log,
		service: analytics.NewService(cfg, log),
		format:  format,
	}
	return nil
}

// readRequest decodes the request file named by the single positional
// argument.
func readRequest(args []string, v interface{}) error {
	if len(args) != 1 {
		return fmt.Errorf("expected one request file, got %d arguments", len(args))
	}
	return codec.DecodeFile(args[0], v)
}

func writeResult(w io.Writer, v interface{}) error {
	return codec.Encode(w, current.format, v)
}
