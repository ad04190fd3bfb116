// Package correlation computes Pearson, Spearman and Kendall-tau coefficients
// together with their significance, confidence interval and a simple linear
// regression of one series on the other.
package correlation

import (
	"fmt"
	"strings"

	"github.com/aristath/quantkit/pkg/formulas"
)

// Method selects the correlation estimator.
type Method int

const (
	Pearson Method = iota
	Spearman
	Kendall
)

func (m Method) String() string {
	switch m {
	case Pearson:
		return "pearson"
	case Spearman:
		return "spearman"
	case Kendall:
		return "kendall"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseMethod maps a user supplied name to a Method. Only the CLI and other
// boundaries should need this.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pearson":
		return Pearson, nil
	case "spearman":
		return Spearman, nil
	case "kendall", "kendall-tau", "kendall_tau":
		return Kendall, nil
	default:
		return 0, fmt.Errorf("unknown correlation method %q: %w", name, formulas.ErrInvalidDomain)
	}
}

// MarshalText lets Method appear by name in JSON, YAML and TOML payloads.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// coefficient dispatches to the estimator for m. Inputs are already validated.
func (m Method) coefficient(xs, ys []float64) (float64, error) {
	switch m {
	case Pearson:
		return pearson(xs, ys), nil
	case Spearman:
		// Positional tie-breaking gives a constant series distinct ranks.
		if isConstant(xs) || isConstant(ys) {
			return 0, nil
		}
		return pearson(formulas.Rank(xs), formulas.Rank(ys)), nil
	case Kendall:
		return kendallTau(xs, ys), nil
	default:
		return 0, fmt.Errorf("unsupported correlation method %v: %w", m, formulas.ErrInvalidDomain)
	}
}

func isConstant(xs []float64) bool {
	if len(xs) == 0 {
		return true
	}
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
