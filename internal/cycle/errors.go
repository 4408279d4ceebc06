package cycle

import (
	"errors"
	"fmt"

	"github.com/san-kum/thermocycle/internal/gas"
	"github.com/san-kum/thermocycle/internal/numeric"
)

var (
	// ErrInvalidConfiguration indicates inputs rejected before any computation.
	ErrInvalidConfiguration = errors.New("cycle: invalid configuration")

	// ErrPhysicalInfeasibility indicates a required state outside the domain
	// of the equation of state, or a cycle that cannot close.
	ErrPhysicalInfeasibility = errors.New("cycle: physically infeasible")

	// ErrConvergence indicates the Diesel combustion volume could not be solved.
	ErrConvergence = errors.New("cycle: combustion volume did not converge")
)

// LegError wraps an error with the leg of the cycle where it occurred.
type LegError struct {
	Leg     string
	Wrapped error
}

func (e *LegError) Error() string {
	return fmt.Sprintf("leg %s: %v", e.Leg, e.Wrapped)
}

func (e *LegError) Unwrap() error {
	return e.Wrapped
}

// classify maps lower level failures onto the cycle error taxonomy.
func classify(leg string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, numeric.ErrNoConvergence):
		err = fmt.Errorf("%w: %w", ErrConvergence, err)
	case errors.Is(err, gas.ErrCovolume), errors.Is(err, gas.ErrNonPositive):
		err = fmt.Errorf("%w: %w", ErrPhysicalInfeasibility, err)
	}
	return &LegError{Leg: leg, Wrapped: err}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
