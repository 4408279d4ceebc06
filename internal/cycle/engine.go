package cycle

import (
	"fmt"

	"github.com/san-kum/thermocycle/internal/gas"
	"github.com/san-kum/thermocycle/internal/numeric"
)

const (
	DefaultSamples        = 100
	DefaultEntropySamples = 50
)

// Options tunes the numerics of an engine.
type Options struct {
	// Samples is the number of points along each adiabatic leg used for the
	// work integral.
	Samples int
	Solver  numeric.SolverConfig
}

func DefaultOptions() Options {
	return Options{
		Samples: DefaultSamples,
		Solver:  numeric.DefaultSolverConfig(),
	}
}

// Engine is a computed cycle for one gas model and boundary.
type Engine struct {
	kind   Kind
	gas    gas.Model
	bounds Boundary
	opts   Options
	state  State
}

// New validates the inputs and derives the four corners. On failure no
// engine is returned.
func New(kind Kind, g gas.Model, b Boundary, opts Options) (*Engine, error) {
	if g == nil {
		return nil, invalid("gas model is required")
	}
	if kind != Otto && kind != Diesel {
		return nil, invalid("unknown cycle %v", kind)
	}
	if err := g.Params().Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if opts.Samples == 0 {
		opts.Samples = DefaultSamples
	}
	if opts.Samples < 3 {
		return nil, invalid("samples must be at least 3, got %d", opts.Samples)
	}
	if opts.Solver.MaxIter <= 0 {
		opts.Solver = numeric.DefaultSolverConfig()
	}

	e := &Engine{kind: kind, gas: g, bounds: b, opts: opts}
	state, err := e.corners()
	if err != nil {
		return nil, err
	}
	e.state = state
	return e, nil
}

func (e *Engine) Kind() Kind           { return e.kind }
func (e *Engine) Gas() gas.Model       { return e.gas }
func (e *Engine) Boundary() Boundary   { return e.bounds }
func (e *Engine) State() State         { return e.state }
func (e *Engine) Point(c Corner) Point { return e.state[c] }
func (e *Engine) Tau() float64         { return e.bounds.Tau() }
func (e *Engine) Options() Options     { return e.opts }

// Legs returns the four transformations in traversal order.
func (e *Engine) Legs() [4]Leg {
	combustion := Isochoric
	if e.kind == Diesel {
		combustion = Isobaric
	}
	return [4]Leg{
		{From: A, To: B, Process: Adiabatic},
		{From: B, To: C, Process: combustion},
		{From: C, To: D, Process: Adiabatic},
		{From: D, To: A, Process: Isochoric},
	}
}

func (e *Engine) corners() (State, error) {
	b := e.bounds
	a := Point{V: b.VMax, P: b.PAmbient, T: b.TAmbient}

	pb, err := e.adiabaticEnd(a, b.VMin)
	if err != nil {
		return State{}, classify("A->B", err)
	}
	if !(b.TMax > pb.T) {
		return State{}, &LegError{Leg: "B->C", Wrapped: fmt.Errorf(
			"%w: t_max %.1f K does not exceed end-of-compression temperature %.1f K",
			ErrPhysicalInfeasibility, b.TMax, pb.T)}
	}

	var pc Point
	switch e.kind {
	case Otto:
		pc, err = e.isochoricCombustion(pb)
	case Diesel:
		pc, err = e.isobaricCombustion(pb)
	}
	if err != nil {
		return State{}, classify("B->C", err)
	}

	pd, err := e.adiabaticEnd(pc, b.VMax)
	if err != nil {
		return State{}, classify("C->D", err)
	}

	s := State{a, pb, pc, pd}
	for _, c := range Corners {
		if p := s[c]; !(p.P > 0) || !(p.T > 0) {
			return State{}, fmt.Errorf("%w: corner %s has P=%g T=%g", ErrPhysicalInfeasibility, c, p.P, p.T)
		}
	}
	return s, nil
}

// adiabaticEnd follows the adiabatic through start to volume v.
func (e *Engine) adiabaticEnd(start Point, v float64) (Point, error) {
	p, err := e.gas.AdiabaticPressure(v, start.P, start.V)
	if err != nil {
		return Point{}, err
	}
	t, err := e.gas.Temperature(p, v)
	if err != nil {
		return Point{}, err
	}
	return Point{V: v, P: p, T: t}, nil
}

func (e *Engine) isochoricCombustion(b Point) (Point, error) {
	p, err := e.gas.Pressure(b.V, e.bounds.TMax)
	if err != nil {
		return Point{}, err
	}
	return Point{V: b.V, P: p, T: e.bounds.TMax}, nil
}

// isobaricCombustion solves Pressure(V, TMax) = P_B. The ideal-gas volume
// V_B·TMax/T_B seeds the search and is exact for an ideal gas.
func (e *Engine) isobaricCombustion(b Point) (Point, error) {
	tMax := e.bounds.TMax
	residual := func(v float64) (float64, error) {
		p, err := e.gas.Pressure(v, tMax)
		if err != nil {
			return 0, err
		}
		return p - b.P, nil
	}

	guess := b.V * tMax / b.T
	v, err := numeric.Secant(residual, guess, e.opts.Solver)
	if err != nil {
		return Point{}, err
	}
	if v <= b.V {
		return Point{}, fmt.Errorf("%w: combustion volume %g does not exceed V_B %g", ErrPhysicalInfeasibility, v, b.V)
	}
	if v >= e.bounds.VMax {
		return Point{}, fmt.Errorf("%w: combustion volume %g reaches V_max %g", ErrPhysicalInfeasibility, v, e.bounds.VMax)
	}
	return Point{V: v, P: b.P, T: tMax}, nil
}

// AdiabaticPath samples n volumes evenly between two corners and returns the
// pressures on the adiabatic through the first one.
func (e *Engine) AdiabaticPath(from, to Corner, n int) ([]float64, []float64, error) {
	if n < 2 {
		return nil, nil, invalid("path needs at least 2 samples, got %d", n)
	}
	start, end := e.state[from], e.state[to]
	vs := numeric.Linspace(start.V, end.V, n)
	ps, err := e.gas.AdiabaticPressures(vs, start.P, start.V)
	if err != nil {
		return nil, nil, classify(from.String()+"->"+to.String(), err)
	}
	return vs, ps, nil
}

// adiabaticWork is -∫P dV along the leg in traversal order: positive when the
// gas is compressed.
func (e *Engine) adiabaticWork(from, to Corner) (float64, error) {
	vs, ps, err := e.AdiabaticPath(from, to, e.opts.Samples)
	if err != nil {
		return 0, err
	}
	integral, err := numeric.Integrate(vs, ps)
	if err != nil {
		return 0, classify(from.String()+"->"+to.String(), err)
	}
	return -integral, nil
}
