package correlation

import "math"

// Strength buckets |r|.
type Strength string

const (
	VeryStrong Strength = "Very Strong"
	Strong     Strength = "Strong"
	Moderate   Strength = "Moderate"
	Weak       Strength = "Weak"
	VeryWeak   Strength = "Very Weak"
	NoStrength Strength = "None"
)

// Direction is the sign of a non-negligible coefficient.
type Direction string

const (
	Positive    Direction = "Positive"
	Negative    Direction = "Negative"
	NoDirection Direction = "None"
)

// Classify maps a coefficient to its strength and direction. Strength uses
// |r| >= 0.9, 0.7, 0.5, 0.3, 0.1; direction needs |r| > 0.1.
func Classify(r float64) (Strength, Direction) {
	abs := math.Abs(r)

	var s Strength
	switch {
	case abs >= 0.9:
		s = VeryStrong
	case abs >= 0.7:
		s = Strong
	case abs >= 0.5:
		s = Moderate
	case abs >= 0.3:
		s = Weak
	case abs >= 0.1:
		s = VeryWeak
	default:
		s = NoStrength
	}

	d := NoDirection
	if abs > 0.1 {
		if r > 0 {
			d = Positive
		} else {
			d = Negative
		}
	}
	return s, d
}
