package gas

import (
	"fmt"
	"math"
)

// VanDerWaals is a real gas with attraction a and covolume b per mole.
type VanDerWaals struct {
	params Params
}

func NewVanDerWaals(p Params) (*VanDerWaals, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &VanDerWaals{params: p}, nil
}

func (g *VanDerWaals) Name() string      { return "vdw" }
func (g *VanDerWaals) Params() Params    { return g.params }
func (g *VanDerWaals) Covolume() float64 { return g.params.N * g.params.B }

func (g *VanDerWaals) checkVolume(name string, v float64) error {
	if err := checkPositive(name, v); err != nil {
		return err
	}
	if nb := g.Covolume(); v <= nb {
		return fmt.Errorf("%w: %s=%g, n·b=%g", ErrCovolume, name, v, nb)
	}
	return nil
}

func (g *VanDerWaals) Pressure(v, t float64) (float64, error) {
	if err := g.checkVolume("V", v); err != nil {
		return 0, err
	}
	n := g.params.N
	return n*g.params.R*t/(v-n*g.params.B) - g.params.A*n*n/(v*v), nil
}

func (g *VanDerWaals) Temperature(p, v float64) (float64, error) {
	if err := g.checkVolume("V", v); err != nil {
		return 0, err
	}
	n := g.params.N
	return (p + g.params.A*n*n/(v*v)) * (v - n*g.params.B) / (n * g.params.R), nil
}

// AdiabaticPressure uses T·(V - nb)^(γ-1) = const with constant Cv.
func (g *VanDerWaals) AdiabaticPressure(v, p0, v0 float64) (float64, error) {
	if err := g.checkVolume("V", v); err != nil {
		return 0, err
	}
	t0, err := g.Temperature(p0, v0)
	if err != nil {
		return 0, fmt.Errorf("reference state: %w", err)
	}
	nb := g.Covolume()
	t := t0 * math.Pow((v0-nb)/(v-nb), g.params.Gamma-1)
	return g.Pressure(v, t)
}

func (g *VanDerWaals) AdiabaticPressures(vs []float64, p0, v0 float64) ([]float64, error) {
	return adiabaticPressures(g, vs, p0, v0)
}

func (g *VanDerWaals) EntropyDifference(t, v, tRef, vRef float64) float64 {
	return entropyDifference(g.params, g.Covolume(), t, v, tRef, vRef)
}
