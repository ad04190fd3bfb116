package montecarlo

import "math/rand/v2"

// Source is the randomness a simulation consumes. *rand.Rand satisfies it.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// NormFloat64 returns a standard normal value.
	NormFloat64() float64
}

// NewSource returns a deterministic generator: equal seeds replay identical
// simulations bit for bit.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SystemSource returns a randomly seeded generator for production use.
//
//nolint:gosec // G404: Monte Carlo simulation doesn't require crypto-grade randomness
func SystemSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
