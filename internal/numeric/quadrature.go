package numeric

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

var (
	ErrTooFewSamples  = errors.New("numeric: at least 3 samples required")
	ErrUnordered      = errors.New("numeric: abscissae must be monotonic")
	ErrLengthMismatch = errors.New("numeric: sample length mismatch")
)

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Integrate returns ∫f dx along the sampled path using Simpson's rule.
// The path may run in either direction; a decreasing x yields the integral
// taken from x[0] to x[len-1], i.e. with the sign of the traversal.
func Integrate(x, f []float64) (float64, error) {
	if len(x) != len(f) {
		return 0, fmt.Errorf("%w: %d abscissae, %d ordinates", ErrLengthMismatch, len(x), len(f))
	}
	if len(x) < 3 {
		return 0, ErrTooFewSamples
	}

	if sort.Float64sAreSorted(x) {
		return integrate.Simpsons(x, f), nil
	}

	rx := reversed(x)
	if !sort.Float64sAreSorted(rx) {
		return 0, ErrUnordered
	}
	return -integrate.Simpsons(rx, reversed(f)), nil
}

func reversed(s []float64) []float64 {
	r := make([]float64, len(s))
	for i, v := range s {
		r[len(s)-1-i] = v
	}
	return r
}
