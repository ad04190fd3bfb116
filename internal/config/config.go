// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/aristath/quantkit/internal/modules/bonds"
	"github.com/aristath/quantkit/internal/modules/correlation"
	"github.com/aristath/quantkit/internal/modules/montecarlo"
	"github.com/aristath/quantkit/pkg/solver"
	"github.com/joho/godotenv"
)

// Config holds the analytics defaults applied when a call leaves a knob at
// its zero value.
type Config struct {
	LogLevel  string
	LogPretty bool

	MonteCarloTrials int
	MonteCarloSeed   uint64 // 0 draws from the system source

	SolverTolerance     float64
	SolverMaxIterations int

	Confidence   float64
	RiskFreeRate float64 // decimal, used by the frontier
	RiskFreePct  float64 // percent, used for bond credit spreads
	TaxRate      float64
	ExactPValue  bool
}

// Default returns the built-in configuration without reading the
// environment.
func Default() *Config {
	return &Config{
		LogLevel:            "info",
		MonteCarloTrials:    montecarlo.DefaultTrials,
		SolverTolerance:     solver.DefaultTolerance,
		SolverMaxIterations: solver.DefaultMaxIterations,
		Confidence:          correlation.DefaultConfidence,
	}
}

// Load reads configuration from environment variables. Each envFile is
// loaded first when present; with none, an optional .env in the working
// directory is used. Variables already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		// Load .env file if it exists
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	d := Default()
	cfg := &Config{
		LogLevel:            getEnv("LOG_LEVEL", d.LogLevel),
		LogPretty:           getEnvAsBool("LOG_PRETTY", d.LogPretty),
		MonteCarloTrials:    getEnvAsInt("QK_MC_TRIALS", d.MonteCarloTrials),
		MonteCarloSeed:      getEnvAsUint64("QK_MC_SEED", d.MonteCarloSeed),
		SolverTolerance:     getEnvAsFloat("QK_SOLVER_TOLERANCE", d.SolverTolerance),
		SolverMaxIterations: getEnvAsInt("QK_SOLVER_MAX_ITERATIONS", d.SolverMaxIterations),
		Confidence:          getEnvAsFloat("QK_CONFIDENCE", d.Confidence),
		RiskFreeRate:        getEnvAsFloat("QK_RISK_FREE_RATE", d.RiskFreeRate),
		RiskFreePct:         getEnvAsFloat("QK_RISK_FREE_PCT", d.RiskFreePct),
		TaxRate:             getEnvAsFloat("QK_TAX_RATE", d.TaxRate),
		ExactPValue:         getEnvAsBool("QK_EXACT_PVALUE", d.ExactPValue),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every default lies in its usable range
func (c *Config) Validate() error {
	if c.MonteCarloTrials <= 0 {
		return fmt.Errorf("QK_MC_TRIALS must be positive, got %d", c.MonteCarloTrials)
	}
	if !(c.SolverTolerance > 0) || math.IsInf(c.SolverTolerance, 0) {
		return fmt.Errorf("QK_SOLVER_TOLERANCE must be a positive number, got %v", c.SolverTolerance)
	}
	if c.SolverMaxIterations < solver.DefaultMaxIterations {
		return fmt.Errorf("QK_SOLVER_MAX_ITERATIONS must be at least %d, got %d",
			solver.DefaultMaxIterations, c.SolverMaxIterations)
	}
	if !(c.Confidence > 0 && c.Confidence < 1) {
		return fmt.Errorf("QK_CONFIDENCE must lie in (0,1), got %v", c.Confidence)
	}
	if math.IsNaN(c.RiskFreeRate) || math.IsInf(c.RiskFreeRate, 0) {
		return fmt.Errorf("QK_RISK_FREE_RATE must be finite, got %v", c.RiskFreeRate)
	}
	if math.IsNaN(c.RiskFreePct) || math.IsInf(c.RiskFreePct, 0) {
		return fmt.Errorf("QK_RISK_FREE_PCT must be finite, got %v", c.RiskFreePct)
	}
	if !(c.TaxRate >= 0 && c.TaxRate <= 1) {
		return fmt.Errorf("QK_TAX_RATE must lie in [0,1], got %v", c.TaxRate)
	}
	return nil
}

// BondAnalysisOptions converts the defaults into bond analysis options.
func (c *Config) BondAnalysisOptions() bonds.AnalysisOptions {
	return bonds.AnalysisOptions{
		RiskFreePct:   c.RiskFreePct,
		TaxRate:       c.TaxRate,
		Tolerance:     c.SolverTolerance,
		MaxIterations: c.SolverMaxIterations,
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintVal, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
