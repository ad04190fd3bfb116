// Package analytics is the entry point to the analytics kernel. Service
// applies configured defaults, tags every call with a run id and logs it;
// the numerical work happens in the module packages.
package analytics

import (
	"context"
	"time"

	"github.com/aristath/quantkit/internal/config"
	"github.com/aristath/quantkit/internal/modules/bonds"
	"github.com/aristath/quantkit/internal/modules/correlation"
	"github.com/aristath/quantkit/internal/modules/montecarlo"
	"github.com/aristath/quantkit/internal/modules/optimization"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service runs analytics calls. It holds no state that a call mutates, so
// one Service may be shared by concurrent callers.
type Service struct {
	cfg config.Config
	log zerolog.Logger
}

// NewService creates a service with the given defaults. A nil cfg uses
// config.Default().
func NewService(cfg *config.Config, log zerolog.Logger) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Service{
		cfg: *cfg,
		log: log.With().Str("component", "analytics").Logger(),
	}
}

// Config returns a copy of the service defaults.
func (s *Service) Config() config.Config {
	return s.cfg
}

// begin returns a logger tagged with a fresh run id for one call.
func (s *Service) begin(operation string) zerolog.Logger {
	return s.log.With().
		Str("run_id", uuid.NewString()).
		Str("operation", operation).
		Logger()
}

func finish(log zerolog.Logger, start time.Time, err error) {
	if err != nil {
		log.Debug().Err(err).Dur("elapsed", time.Since(start)).Msg("Calculation failed")
		return
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("Calculation completed")
}

// Correlate computes a correlation of a and b. A zero confidence uses the
// configured level.
func (s *Service) Correlate(a, b []float64, method correlation.Method, confidence float64) (correlation.Result, error) {
	log := s.begin("correlate")
	start := time.Now()
	if confidence == 0 {
		confidence = s.cfg.Confidence
	}

	res, err := correlation.CorrelateWithOptions(a, b, method, confidence, correlation.Options{
		ExactPValue: s.cfg.ExactPValue,
	})
	if err == nil {
		log.Debug().
			Str("method", method.String()).
			Int("n", res.SampleSize).
			Float64("r", res.Coefficient).
			Float64("p_value", res.PValue).
			Msg("Correlation computed")
	}
	finish(log, start, err)
	return res, err
}

// SolveYield recovers the yield to maturity of terms. Zero tolerance or
// iteration limits use the configured solver defaults.
func (s *Service) SolveYield(terms bonds.Terms, tolerance float64, maxIterations int) (bonds.YieldSolveResult, error) {
	log := s.begin("solve_yield")
	start := time.Now()
	if tolerance == 0 {
		tolerance = s.cfg.SolverTolerance
	}
	if maxIterations == 0 {
		maxIterations = s.cfg.SolverMaxIterations
	}

	res, err := bonds.SolveYield(terms, tolerance, maxIterations)
	if err == nil && !res.Converged {
		log.Warn().
			Float64("market_price", terms.MarketPrice).
			Float64("last_yield_pct", res.YieldPct).
			Float64("residual", res.Residual).
			Int("iterations", res.Iterations).
			Msg("Yield solve did not converge")
	}
	finish(log, start, err)
	return res, err
}

// BondPrice prices terms at yieldPct.
func (s *Service) BondPrice(terms bonds.Terms, yieldPct float64) (float64, error) {
	log := s.begin("bond_price")
	start := time.Now()
	price, err := bonds.Price(terms, yieldPct)
	finish(log, start, err)
	return price, err
}

// DurationConvexity computes the rate sensitivities of terms at yieldPct.
func (s *Service) DurationConvexity(terms bonds.Terms, yieldPct float64) (bonds.DurationConvexityResult, error) {
	log := s.begin("duration_convexity")
	start := time.Now()
	res, err := bonds.DurationConvexity(terms, yieldPct)
	finish(log, start, err)
	return res, err
}

// AnalyzeBond solves the yield of terms and derives the full metrics block
// using the configured risk-free rate, tax rate and solver settings.
func (s *Service) AnalyzeBond(terms bonds.Terms) (bonds.Analysis, error) {
	log := s.begin("analyze_bond")
	start := time.Now()
	res, err := bonds.Analyze(terms, s.cfg.BondAnalysisOptions())
	if err == nil && !res.Yield.Converged {
		log.Warn().Float64("last_yield_pct", res.Yield.YieldPct).Msg("Yield solve did not converge")
	}
	finish(log, start, err)
	return res, err
}

// source returns the configured randomness: seeded when a seed is set.
func (s *Service) source() montecarlo.Source {
	if s.cfg.MonteCarloSeed != 0 {
		return montecarlo.NewSource(s.cfg.MonteCarloSeed)
	}
	return montecarlo.SystemSource()
}

// RunMonteCarlo runs a perturbation simulation. Zero trials use the
// configured count; a nil src uses the configured source.
func (s *Service) RunMonteCarlo(
	ctx context.Context,
	base map[string]float64,
	trials int,
	perturbations []montecarlo.Perturbation,
	payoff montecarlo.Payoff,
	src montecarlo.Source,
) (montecarlo.Result, error) {
	log := s.begin("monte_carlo")
	start := time.Now()
	if trials <= 0 {
		trials = s.cfg.MonteCarloTrials
	}
	if src == nil {
		src = s.source()
	}

	log.Debug().Int("trials", trials).Int("perturbations", len(perturbations)).Msg("Starting simulation")
	res, err := montecarlo.Run(ctx, base, trials, perturbations, payoff, src)
	finish(log, start, err)
	return res, err
}

// SimulateGrowth runs the compounding growth simulation with the same
// trial and source defaults as RunMonteCarlo.
func (s *Service) SimulateGrowth(ctx context.Context, params montecarlo.GrowthParams, trials int, src montecarlo.Source) (montecarlo.GrowthResult, error) {
	log := s.begin("simulate_growth")
	start := time.Now()
	if trials <= 0 {
		trials = s.cfg.MonteCarloTrials
	}
	if src == nil {
		src = s.source()
	}

	res, err := montecarlo.SimulateGrowth(ctx, params, trials, src)
	finish(log, start, err)
	return res, err
}

// TwoAssetFrontier scans the two-asset weight grid using the configured
// risk-free rate.
func (s *Service) TwoAssetFrontier(a, b []float64) (optimization.Frontier, error) {
	log := s.begin("two_asset_frontier")
	start := time.Now()
	res, err := optimization.TwoAssetFrontier(a, b, s.cfg.RiskFreeRate)
	if err == nil {
		log.Debug().
			Float64("min_variance_weight", res.MinVariance.WeightA).
			Bool("has_max_sharpe", res.HasMaxSharpe).
			Msg("Frontier scanned")
	}
	finish(log, start, err)
	return res, err
}

// CorrelatedPairs builds the correlation matrix of named series and returns
// the pairs whose absolute correlation reaches threshold.
func (s *Service) CorrelatedPairs(names []string, series [][]float64, method correlation.Method, threshold float64) ([]correlation.Pair, error) {
	log := s.begin("correlated_pairs")
	start := time.Now()

	m, err := correlation.Matrix(series, method)
	if err != nil {
		finish(log, start, err)
		return nil, err
	}
	pairs, err := correlation.HighlyCorrelated(m, names, threshold)
	finish(log, start, err)
	return pairs, err
}

// MinVolatility solves the continuous long-only minimum-volatility weights of
// the named return series using the configured risk-free rate.
func (s *Service) MinVolatility(names []string, series [][]float64) (optimization.Allocation, error) {
	log := s.begin("min_volatility")
	start := time.Now()
	res, err := optimization.MinVolatilityPortfolio(names, series, s.cfg.RiskFreeRate)
	if err == nil {
		log.Debug().
			Int("assets", len(series)).
			Float64("risk", res.Stats.Risk).
			Msg("Minimum volatility solved")
	}
	finish(log, start, err)
	return res, err
}
