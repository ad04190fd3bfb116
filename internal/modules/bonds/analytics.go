package bonds

import (
	"fmt"
	"math"

	"github.com/aristath/quantkit/pkg/formulas"
)

// CreditSpread is yield minus the risk-free rate, both in percent.
func CreditSpread(yieldPct, riskFreePct float64) float64 {
	return yieldPct - riskFreePct
}

// AfterTaxYield is yield × (1 − taxRate), with taxRate as a fraction in [0, 1].
func AfterTaxYield(yieldPct, taxRate float64) (float64, error) {
	if math.IsNaN(taxRate) || taxRate < 0 || taxRate > 1 {
		return 0, fmt.Errorf("tax rate %v outside [0,1]: %w", taxRate, formulas.ErrInvalidDomain)
	}
	return yieldPct * (1 - taxRate), nil
}

// CurrentYield is the annual coupon over the market price, in percent.
// A zero-coupon bond has a current yield of 0.
func CurrentYield(terms Terms) (float64, error) {
	if err := terms.Validate(); err != nil {
		return 0, err
	}
	if terms.CouponRatePct == 0 {
		return 0, nil
	}
	if err := terms.requireMarketPrice(); err != nil {
		return 0, err
	}
	return terms.AnnualCoupon() / terms.MarketPrice * 100, nil
}

// Analysis bundles the measures a bond screen shows for one bond.
type Analysis struct {
	Yield           YieldSolveResult        `json:"yield" yaml:"yield" msgpack:"yield"`
	CurrentYieldPct float64                 `json:"current_yield_pct" yaml:"current_yield_pct" msgpack:"current_yield_pct"`
	CreditSpreadPct float64                 `json:"credit_spread_pct" yaml:"credit_spread_pct" msgpack:"credit_spread_pct"`
	AfterTaxYield   float64                 `json:"after_tax_yield_pct" yaml:"after_tax_yield_pct" msgpack:"after_tax_yield_pct"`
	Sensitivity     DurationConvexityResult `json:"sensitivity" yaml:"sensitivity" msgpack:"sensitivity"`
	PV01            float64                 `json:"pv01" yaml:"pv01" msgpack:"pv01"`
	// PremiumDiscount is "premium", "discount" or "par" relative to face value.
	PremiumDiscount string `json:"premium_discount" yaml:"premium_discount" msgpack:"premium_discount"`
}

// AnalysisOptions carries the market context for Analyze.
type AnalysisOptions struct {
	RiskFreePct   float64
	TaxRate       float64
	Tolerance     float64
	MaxIterations int
}

// Analyze solves the yield and derives every measure at that yield. When the
// solve does not converge the remaining measures are still computed at the
// last trial yield and the caller must check Yield.Converged.
func Analyze(terms Terms, opts AnalysisOptions) (Analysis, error) {
	ytm, err := SolveYield(terms, opts.Tolerance, opts.MaxIterations)
	if err != nil {
		return Analysis{}, err
	}

	current, err := CurrentYield(terms)
	if err != nil {
		return Analysis{}, err
	}
	afterTax, err := AfterTaxYield(ytm.YieldPct, opts.TaxRate)
	if err != nil {
		return Analysis{}, err
	}
	dc, err := DurationConvexity(terms, ytm.YieldPct)
	if err != nil {
		return Analysis{}, err
	}
	pv01, err := PV01(terms, ytm.YieldPct)
	if err != nil {
		return Analysis{}, err
	}

	status := "par"
	switch {
	case terms.MarketPrice > terms.FaceValue:
		status = "premium"
	case terms.MarketPrice < terms.FaceValue:
		status = "discount"
	}

	return Analysis{
		Yield:           ytm,
		CurrentYieldPct: current,
		CreditSpreadPct: CreditSpread(ytm.YieldPct, opts.RiskFreePct),
		AfterTaxYield:   afterTax,
		Sensitivity:     dc,
		PV01:            pv01,
		PremiumDiscount: status,
	}, nil
}
