package montecarlo

import (
	"fmt"
	"math"
	"sort"

	"github.com/aristath/quantkit/pkg/formulas"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// intervalZ is the two-sided 95% normal critical value.
const intervalZ = 1.96

// tailConfidence is the confidence level of the reported VaR and CVaR.
const tailConfidence = 0.95

// Percentiles holds the nearest-rank quantiles of a simulation.
type Percentiles struct {
	P10 float64 `json:"p10" yaml:"p10" msgpack:"p10"`
	P25 float64 `json:"p25" yaml:"p25" msgpack:"p25"`
	P50 float64 `json:"p50" yaml:"p50" msgpack:"p50"`
	P75 float64 `json:"p75" yaml:"p75" msgpack:"p75"`
	P90 float64 `json:"p90" yaml:"p90" msgpack:"p90"`
}

// Interval is a closed range of outcomes.
type Interval struct {
	Lower float64 `json:"lower" yaml:"lower" msgpack:"lower"`
	Upper float64 `json:"upper" yaml:"upper" msgpack:"upper"`
}

// Result summarises the outcome distribution of a simulation.
type Result struct {
	Samples           int         `json:"samples" yaml:"samples" msgpack:"samples"`
	Percentiles       Percentiles `json:"percentiles" yaml:"percentiles" msgpack:"percentiles"`
	Mean              float64     `json:"mean" yaml:"mean" msgpack:"mean"`
	StdDev            float64     `json:"std_dev" yaml:"std_dev" msgpack:"std_dev"`
	Interval95        Interval    `json:"confidence_interval_95" yaml:"confidence_interval_95" msgpack:"confidence_interval_95"`
	Min               float64     `json:"min" yaml:"min" msgpack:"min"`
	Max               float64     `json:"max" yaml:"max" msgpack:"max"`
	ProbabilityOfLoss float64     `json:"probability_of_loss" yaml:"probability_of_loss" msgpack:"probability_of_loss"`
	VaR95             float64     `json:"var_95" yaml:"var_95" msgpack:"var_95"`
	CVaR95            float64     `json:"cvar_95" yaml:"cvar_95" msgpack:"cvar_95"`
}

// Summarize derives the distribution summary of outcomes, sorting a copy so
// the caller's slice keeps its order. The 95% interval is mean ± 1.96·sd, a normal approximation rather than the
// empirical 2.5/97.5 percentiles. A single outcome has zero spread.
func Summarize(outcomes []float64) (Result, error) {
	if err := formulas.ValidateSample(outcomes, 1); err != nil {
		return Result{}, fmt.Errorf("summarize outcomes: %w", err)
	}

	sorted := make([]float64, len(outcomes))
	copy(sorted, outcomes)
	sort.Float64s(sorted)

	q, err := formulas.Percentiles(sorted, 0.10, 0.25, 0.50, 0.75, 0.90)
	if err != nil {
		return Result{}, err
	}

	n := float64(len(sorted))
	mean := floats.Sum(sorted) / n
	sd := 0.0
	if len(sorted) > 1 {
		sd = math.Sqrt(stat.Variance(sorted, nil))
	}

	losses := 0
	for _, v := range sorted {
		if v >= 0 {
			break
		}
		losses++
	}

	varValue, err := formulas.CalculateVaR(sorted, tailConfidence)
	if err != nil {
		return Result{}, err
	}
	cvarValue, err := formulas.CalculateSortedCVaR(sorted, tailConfidence)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Samples: len(sorted),
		Percentiles: Percentiles{
			P10: q[0],
			P25: q[1],
			P50: q[2],
			P75: q[3],
			P90: q[4],
		},
		Mean:   mean,
		StdDev: sd,
		Interval95: Interval{
			Lower: mean - intervalZ*sd,
			Upper: mean + intervalZ*sd,
		},
		Min:               floats.Min(sorted),
		Max:               floats.Max(sorted),
		ProbabilityOfLoss: float64(losses) / n,
		VaR95:             varValue,
		CVaR95:            cvarValue,
	}, nil
}
