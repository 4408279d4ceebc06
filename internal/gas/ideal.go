package gas

import (
	"fmt"
	"math"
)

// Ideal is the ideal gas PV = nRT.
type Ideal struct {
	params Params
}

// NewIdeal builds an ideal gas. A and B are ignored and reset to zero.
func NewIdeal(p Params) (*Ideal, error) {
	p.A, p.B = 0, 0
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Ideal{params: p}, nil
}

func (g *Ideal) Name() string      { return "ideal" }
func (g *Ideal) Params() Params    { return g.params }
func (g *Ideal) Covolume() float64 { return 0 }

func (g *Ideal) Pressure(v, t float64) (float64, error) {
	if err := checkPositive("V", v); err != nil {
		return 0, err
	}
	return g.params.N * g.params.R * t / v, nil
}

func (g *Ideal) Temperature(p, v float64) (float64, error) {
	if err := checkPositive("V", v); err != nil {
		return 0, err
	}
	return p * v / (g.params.N * g.params.R), nil
}

// AdiabaticPressure follows PV^γ = const.
func (g *Ideal) AdiabaticPressure(v, p0, v0 float64) (float64, error) {
	if err := checkPositive("V", v); err != nil {
		return 0, err
	}
	if err := checkPositive("V0", v0); err != nil {
		return 0, fmt.Errorf("reference state: %w", err)
	}
	return p0 * math.Pow(v0/v, g.params.Gamma), nil
}

func (g *Ideal) AdiabaticPressures(vs []float64, p0, v0 float64) ([]float64, error) {
	return adiabaticPressures(g, vs, p0, v0)
}

func (g *Ideal) EntropyDifference(t, v, tRef, vRef float64) float64 {
	return entropyDifference(g.params, 0, t, v, tRef, vRef)
}
