package bonds

import "math"

// convexityScale expresses convexity per percentage point squared, so that
// %ΔP ≈ -ModifiedDuration·Δy + ½·Convexity·Δy² with Δy in percentage points.
const convexityScale = 100

// DurationConvexity derives Macaulay duration, modified duration and convexity
// from a single discounted cash-flow table at yieldPct.
//
// Convexity is the PV-weighted mean of k(k+1) over periods k, converted to
// years by dividing by Frequency², then divided by (1+y)² and by 100.
func DurationConvexity(terms Terms, yieldPct float64) (DurationConvexityResult, error) {
	if err := terms.Validate(); err != nil {
		return DurationConvexityResult{}, err
	}
	y, err := checkYield(yieldPct, terms.Frequency)
	if err != nil {
		return DurationConvexityResult{}, err
	}
	return durationConvexity(terms, y), nil
}

func durationConvexity(terms Terms, y float64) DurationConvexityResult {
	freq := float64(terms.Frequency)
	table := discount(schedule(terms), y, terms.Frequency)

	var totalPV, timeWeighted, convexWeighted float64
	for _, d := range table {
		k := float64(d.Period)
		totalPV += d.PV
		timeWeighted += d.Time * d.PV
		convexWeighted += k * (k + 1) * d.PV
	}
	if totalPV == 0 {
		return DurationConvexityResult{}
	}

	macaulay := timeWeighted / totalPV
	convexity := convexWeighted / (freq * freq) / totalPV / math.Pow(1+y, 2) / convexityScale

	return DurationConvexityResult{
		MacaulayDuration: macaulay,
		ModifiedDuration: macaulay / (1 + y/freq),
		Convexity:        convexity,
	}
}

// PriceChange is a duration/convexity estimate of a price move.
type PriceChange struct {
	DurationPct  float64 `json:"duration_pct" yaml:"duration_pct" msgpack:"duration_pct"`
	ConvexityPct float64 `json:"convexity_pct" yaml:"convexity_pct" msgpack:"convexity_pct"`
	TotalPct     float64 `json:"total_pct" yaml:"total_pct" msgpack:"total_pct"`
	Amount       float64 `json:"amount" yaml:"amount" msgpack:"amount"`
}

// EstimatePriceChange approximates the price response to a yield shift of
// deltaYieldPct percentage points: -ModD·Δy + ½·C·Δy², in percent of price.
func EstimatePriceChange(dc DurationConvexityResult, price, deltaYieldPct float64) PriceChange {
	durationPct := -dc.ModifiedDuration * deltaYieldPct
	convexityPct := 0.5 * dc.Convexity * deltaYieldPct * deltaYieldPct
	total := durationPct + convexityPct
	return PriceChange{
		DurationPct:  durationPct,
		ConvexityPct: convexityPct,
		TotalPct:     total,
		Amount:       price * total / 100,
	}
}
