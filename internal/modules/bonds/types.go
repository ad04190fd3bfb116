// Package bonds prices plain fixed-coupon bonds from a periodic cash-flow
// table and derives yield, duration, convexity and spread measures from it.
package bonds

import (
	"fmt"
	"math"

	"github.com/aristath/quantkit/pkg/formulas"
)

// Terms describe a fixed-coupon bullet bond.
//
// Rates are in percent (5 means 5%). MarketPrice is only required for yield
// solving and current yield.
type Terms struct {
	FaceValue       float64 `json:"face_value" yaml:"face_value" toml:"face_value" msgpack:"face_value"`
	CouponRatePct   float64 `json:"coupon_rate_pct" yaml:"coupon_rate_pct" toml:"coupon_rate_pct" msgpack:"coupon_rate_pct"`
	YearsToMaturity float64 `json:"years_to_maturity" yaml:"years_to_maturity" toml:"years_to_maturity" msgpack:"years_to_maturity"`
	// Frequency is coupons per year: 1, 2, 4 or 12.
	Frequency   int     `json:"frequency" yaml:"frequency" toml:"frequency" msgpack:"frequency"`
	MarketPrice float64 `json:"market_price,omitempty" yaml:"market_price,omitempty" toml:"market_price,omitempty" msgpack:"market_price,omitempty"`
}

// CashFlow is one row of the payment schedule.
type CashFlow struct {
	// Period is the 1-based coupon period index.
	Period int `json:"period" yaml:"period" msgpack:"period"`
	// Time is Period/Frequency, in years.
	Time      float64 `json:"time" yaml:"time" msgpack:"time"`
	Coupon    float64 `json:"coupon" yaml:"coupon" msgpack:"coupon"`
	Principal float64 `json:"principal" yaml:"principal" msgpack:"principal"`
}

// Amount is the total paid in the period.
func (c CashFlow) Amount() float64 {
	return c.Coupon + c.Principal
}

// YieldSolveResult is the outcome of SolveYield. A result with
// Converged=false carries the last trial yield and must not be treated as a
// yield to maturity.
type YieldSolveResult struct {
	YieldPct   float64 `json:"yield_pct" yaml:"yield_pct" msgpack:"yield_pct"`
	Iterations int     `json:"iterations" yaml:"iterations" msgpack:"iterations"`
	Converged  bool    `json:"converged" yaml:"converged" msgpack:"converged"`
	// Residual is Price(YieldPct) - MarketPrice.
	Residual float64 `json:"residual" yaml:"residual" msgpack:"residual"`
}

// DurationConvexityResult holds the sensitivity measures computed from one
// discounted cash-flow table.
type DurationConvexityResult struct {
	MacaulayDuration float64 `json:"macaulay_duration" yaml:"macaulay_duration" msgpack:"macaulay_duration"`
	ModifiedDuration float64 `json:"modified_duration" yaml:"modified_duration" msgpack:"modified_duration"`
	Convexity        float64 `json:"convexity" yaml:"convexity" msgpack:"convexity"`
}

var validFrequencies = map[int]bool{1: true, 2: true, 4: true, 12: true}

// periodEpsilon tolerates float noise in years × frequency (e.g. 2.5 × 12).
const periodEpsilon = 1e-9

// Validate checks the bond invariants. Market price is checked separately by
// the operations that need it.
func (t Terms) Validate() error {
	for name, v := range map[string]float64{
		"face value":        t.FaceValue,
		"coupon rate":       t.CouponRatePct,
		"years to maturity": t.YearsToMaturity,
		"market price":      t.MarketPrice,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not finite: %w", name, formulas.ErrInvalidDomain)
		}
	}
	if t.FaceValue <= 0 {
		return fmt.Errorf("face value must be positive, got %v: %w", t.FaceValue, formulas.ErrInvalidDomain)
	}
	if t.CouponRatePct < 0 {
		return fmt.Errorf("coupon rate must not be negative, got %v: %w", t.CouponRatePct, formulas.ErrInvalidDomain)
	}
	if t.YearsToMaturity <= 0 {
		return fmt.Errorf("years to maturity must be positive, got %v: %w", t.YearsToMaturity, formulas.ErrInvalidDomain)
	}
	if !validFrequencies[t.Frequency] {
		return fmt.Errorf("coupon frequency must be 1, 2, 4 or 12, got %d: %w", t.Frequency, formulas.ErrInvalidDomain)
	}
	raw := t.YearsToMaturity * float64(t.Frequency)
	if math.Abs(raw-math.Round(raw)) > periodEpsilon {
		return fmt.Errorf("%v years at %d coupons per year is not a whole number of periods: %w",
			t.YearsToMaturity, t.Frequency, formulas.ErrInvalidDomain)
	}
	if t.MarketPrice < 0 {
		return fmt.Errorf("market price must not be negative, got %v: %w", t.MarketPrice, formulas.ErrInvalidDomain)
	}
	return nil
}

func (t Terms) requireMarketPrice() error {
	if t.MarketPrice <= 0 {
		return fmt.Errorf("market price must be positive, got %v: %w", t.MarketPrice, formulas.ErrInvalidDomain)
	}
	return nil
}

// Periods is the number of coupon periods.
func (t Terms) Periods() int {
	return int(math.Round(t.YearsToMaturity * float64(t.Frequency)))
}

// CouponPayment is the coupon paid each period.
func (t Terms) CouponPayment() float64 {
	return t.FaceValue * t.CouponRatePct / 100 / float64(t.Frequency)
}

// AnnualCoupon is the coupon paid per year.
func (t Terms) AnnualCoupon() float64 {
	return t.FaceValue * t.CouponRatePct / 100
}
