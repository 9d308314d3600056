// Package window generates the weighting windows of the trigger search.
package window

import (
	"fmt"
	"math"
)

// Type identifies a trigger weighting window.
type Type int

const (
	// TypeSineSquared is sin^2(pi*(i+1)/(n+1)). Every coefficient is
	// positive, so the first and last sample can still win a search.
	TypeSineSquared Type = iota
	// TypeRectangular weighs every sample 1.
	TypeRectangular
)

// String returns the window name.
func (t Type) String() string {
	switch t {
	case TypeSineSquared:
		return "sine-squared"
	case TypeRectangular:
		return "rectangular"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Valid reports whether t is a known window.
func (t Type) Valid() bool {
	return t == TypeSineSquared || t == TypeRectangular
}

// ParseType returns the window named s, as printed by String.
func ParseType(s string) (Type, error) {
	for _, t := range []Type{TypeSineSquared, TypeRectangular} {
		if s == t.String() {
			return t, nil
		}
	}
	return 0, fmt.Errorf("window: unknown type %q", s)
}

// Generate returns window coefficients of the given length.
//
// Only the first half is evaluated; the second half is its mirror image, so
// w[i] == w[n-1-i] holds exactly. Equal inputs at mirrored positions
// therefore weigh the same, bit for bit.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}

	out := make([]float64, length)
	fill(t, out)

	return out
}

// fill writes window coefficients into dst, reusing its storage.
func fill(t Type, dst []float64) {
	n := len(dst)
	denom := float64(n + 1)
	for i := 0; i < (n+1)/2; i++ {
		v := evalWindow(t, float64(i+1)/denom)
		dst[i] = v
		dst[n-1-i] = v
	}
}

// Peak returns the index of the largest coefficient. Ties resolve to the
// lowest index.
func Peak(coeffs []float64) int {
	best := 0
	for i := 1; i < len(coeffs); i++ {
		if coeffs[i] > coeffs[best] {
			best = i
		}
	}

	return best
}

// evalWindow evaluates the window at normalized position x in (0, 1).
func evalWindow(t Type, x float64) float64 {
	switch t {
	case TypeSineSquared:
		s := math.Sin(math.Pi * x)
		return s * s
	default:
		return 1
	}
}
