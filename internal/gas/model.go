package gas

import (
	"fmt"
	"math"
)

// R is the universal gas constant in J/(mol·K).
const R = 8.314

// Van der Waals constants for nitrogen (Pa·m⁶/mol², m³/mol).
const (
	NitrogenA = 0.14
	NitrogenB = 3.9e-5
)

// minEffectiveVolume floors V - nb before taking a logarithm.
const minEffectiveVolume = 1e-10

// Params holds the constants of a gas sample. A and B are zero for an ideal gas.
type Params struct {
	N     float64 `json:"n" yaml:"n"`
	Gamma float64 `json:"gamma" yaml:"gamma"`
	R     float64 `json:"r" yaml:"r"`
	A     float64 `json:"a" yaml:"a"`
	B     float64 `json:"b" yaml:"b"`
}

// Validate checks the ranges shared by every variant.
func (p Params) Validate() error {
	switch {
	case !(p.N > 0) || math.IsInf(p.N, 0):
		return fmt.Errorf("%w: n must be positive, got %g", ErrInvalidParams, p.N)
	case !(p.Gamma > 1) || math.IsInf(p.Gamma, 0):
		return fmt.Errorf("%w: gamma must exceed 1, got %g", ErrInvalidParams, p.Gamma)
	case !(p.R > 0):
		return fmt.Errorf("%w: R must be positive, got %g", ErrInvalidParams, p.R)
	case p.A < 0 || math.IsNaN(p.A):
		return fmt.Errorf("%w: a must be non-negative, got %g", ErrInvalidParams, p.A)
	case p.B < 0 || math.IsNaN(p.B):
		return fmt.Errorf("%w: b must be non-negative, got %g", ErrInvalidParams, p.B)
	}
	return nil
}

// Cv is the molar heat capacity at constant volume.
func (p Params) Cv() float64 { return p.R / (p.Gamma - 1) }

// Cp is the molar heat capacity at constant pressure.
func (p Params) Cp() float64 { return p.Gamma * p.R / (p.Gamma - 1) }

// Model is an equation of state with an adiabatic path and entropy function.
type Model interface {
	Name() string
	Params() Params

	// Covolume returns the excluded volume n·b (zero for an ideal gas).
	Covolume() float64

	Pressure(v, t float64) (float64, error)
	Temperature(p, v float64) (float64, error)

	// AdiabaticPressure returns the pressure at v on the reversible adiabatic
	// through (p0, v0).
	AdiabaticPressure(v, p0, v0 float64) (float64, error)
	AdiabaticPressures(vs []float64, p0, v0 float64) ([]float64, error)

	// EntropyDifference returns S(t, v) - S(tRef, vRef).
	EntropyDifference(t, v, tRef, vRef float64) float64
}

// MolesFromState estimates the amount of gas filling volume v at (p, t)
// with the ideal gas law.
func MolesFromState(p, v, t, r float64) float64 {
	return p * v / (r * t)
}

// entropyDifference is shared by both variants; covolume is n·b.
func entropyDifference(par Params, covolume, t, v, tRef, vRef float64) float64 {
	termT := par.N * par.Cv() * math.Log(t/tRef)

	vEff := math.Max(minEffectiveVolume, v-covolume)
	vRefEff := math.Max(minEffectiveVolume, vRef-covolume)
	termV := par.N * par.R * math.Log(vEff/vRefEff)

	return termT + termV
}

func adiabaticPressures(m Model, vs []float64, p0, v0 float64) ([]float64, error) {
	out := make([]float64, len(vs))
	for i, v := range vs {
		p, err := m.AdiabaticPressure(v, p0, v0)
		if err != nil {
			return nil, fmt.Errorf("sample %d (V=%g): %w", i, v, err)
		}
		out[i] = p
	}
	return out, nil
}

func checkPositive(name string, x float64) error {
	if !(x > 0) || math.IsInf(x, 0) {
		return fmt.Errorf("%w: %s=%g", ErrNonPositive, name, x)
	}
	return nil
}

// New builds a model by name: "ideal" or "vdw".
func New(name string, p Params) (Model, error) {
	switch name {
	case "ideal":
		return NewIdeal(p)
	case "vdw", "van_der_waals":
		return NewVanDerWaals(p)
	default:
		return nil, fmt.Errorf("%w: unknown gas model %q", ErrInvalidParams, name)
	}
}
