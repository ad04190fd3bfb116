package bonds

import (
	"fmt"
	"math"

	"github.com/aristath/quantkit/pkg/formulas"
)

// Schedule returns the coupon and principal payments, one row per period.
// The principal is repaid with the final coupon.
func Schedule(terms Terms) ([]CashFlow, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	return schedule(terms), nil
}

func schedule(terms Terms) []CashFlow {
	periods := terms.Periods()
	coupon := terms.CouponPayment()
	freq := float64(terms.Frequency)

	flows := make([]CashFlow, periods)
	for k := range flows {
		flows[k] = CashFlow{
			Period: k + 1,
			Time:   float64(k+1) / freq,
			Coupon: coupon,
		}
	}
	flows[periods-1].Principal = terms.FaceValue
	return flows
}

// discounted is a cash flow with its present value at a given yield.
type discounted struct {
	CashFlow
	PV float64
}

// discount values every row of the schedule at annual yield y (decimal).
func discount(flows []CashFlow, y float64, freq int) []discounted {
	perPeriod := 1 + y/float64(freq)
	out := make([]discounted, len(flows))
	for i, cf := range flows {
		out[i] = discounted{
			CashFlow: cf,
			PV:       cf.Amount() / math.Pow(perPeriod, float64(cf.Period)),
		}
	}
	return out
}

func checkYield(yieldPct float64, freq int) (float64, error) {
	if math.IsNaN(yieldPct) || math.IsInf(yieldPct, 0) {
		return 0, fmt.Errorf("yield %v is not finite: %w", yieldPct, formulas.ErrInvalidDomain)
	}
	y := yieldPct / 100
	if 1+y/float64(freq) <= 0 {
		return 0, fmt.Errorf("yield %v%% leaves no positive discount base: %w", yieldPct, formulas.ErrInvalidDomain)
	}
	return y, nil
}

// Price discounts the coupons and the face value at yieldPct (percent,
// compounded Frequency times a year). A zero yield degrades to the plain sum
// face + coupon × periods.
func Price(terms Terms, yieldPct float64) (float64, error) {
	if err := terms.Validate(); err != nil {
		return 0, err
	}
	y, err := checkYield(yieldPct, terms.Frequency)
	if err != nil {
		return 0, err
	}
	return price(terms, y), nil
}

func price(terms Terms, y float64) float64 {
	if y == 0 {
		return terms.FaceValue + terms.CouponPayment()*float64(terms.Periods())
	}
	total := 0.0
	for _, d := range discount(schedule(terms), y, terms.Frequency) {
		total += d.PV
	}
	return total
}

// PV01 is the price value of one basis point: the central-difference price
// change for a 0.01 percentage point move in yield, quoted as a positive number.
func PV01(terms Terms, yieldPct float64) (float64, error) {
	down, err := Price(terms, yieldPct-0.01)
	if err != nil {
		return 0, err
	}
	up, err := Price(terms, yieldPct+0.01)
	if err != nil {
		return 0, err
	}
	return (down - up) / 2, nil
}
