package numeric

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoConvergence indicates the solver exhausted its iteration budget.
var ErrNoConvergence = errors.New("numeric: root solver did not converge")

// SolverConfig bounds a root search.
type SolverConfig struct {
	// XTol is the relative step size below which the iterate is accepted.
	XTol float64
	// MaxIter bounds the number of secant updates.
	MaxIter int
	// MaxBacktrack bounds how many times a step is halved when f fails.
	MaxBacktrack int
}

func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		XTol:         1e-12,
		MaxIter:      64,
		MaxBacktrack: 40,
	}
}

// Func is a scalar function that may be undefined at some points.
type Func func(x float64) (float64, error)

// Secant finds a root of f starting from x0. The second seed is x0 perturbed
// by a relative 1e-4. When f fails at a proposed iterate (for instance outside
// its physical domain) the step is halved back toward the last good point.
func Secant(f Func, x0 float64, cfg SolverConfig) (float64, error) {
	if cfg.MaxIter <= 0 {
		cfg = DefaultSolverConfig()
	}

	fPrev, err := f(x0)
	if err != nil {
		return 0, fmt.Errorf("initial guess %g: %w", x0, err)
	}
	if fPrev == 0 {
		return x0, nil
	}

	xPrev := x0
	x := x0 * (1 + 1e-4)
	if x0 == 0 {
		x = 1e-4
	}
	fx, err := f(x)
	if err != nil {
		return 0, fmt.Errorf("second seed %g: %w", x, err)
	}

	for i := 0; i < cfg.MaxIter; i++ {
		if fx == 0 {
			return x, nil
		}
		denom := fx - fPrev
		if denom == 0 || math.IsNaN(denom) {
			return 0, fmt.Errorf("%w: secant stalled after %d iterations (x=%g, f=%g)", ErrNoConvergence, i, x, fx)
		}
		step := fx * (x - xPrev) / denom

		next, fNext, err := backtrack(f, x, step, cfg.MaxBacktrack)
		if err != nil {
			return 0, err
		}

		xPrev, fPrev = x, fx
		x, fx = next, fNext

		if math.Abs(x-xPrev) <= cfg.XTol*math.Abs(x) {
			return x, nil
		}
	}

	return 0, fmt.Errorf("%w after %d iterations (x=%g, f=%g)", ErrNoConvergence, cfg.MaxIter, x, fx)
}

func backtrack(f Func, x, step float64, maxHalvings int) (float64, float64, error) {
	var lastErr error
	for k := 0; k <= maxHalvings; k++ {
		next := x - step
		fNext, err := f(next)
		if err == nil && !math.IsNaN(fNext) && !math.IsInf(fNext, 0) {
			return next, fNext, nil
		}
		lastErr = err
		step /= 2
	}
	if lastErr == nil {
		lastErr = errors.New("non-finite function value")
	}
	return 0, 0, fmt.Errorf("%w: step rejected near x=%g: %w", ErrNoConvergence, x, lastErr)
}
