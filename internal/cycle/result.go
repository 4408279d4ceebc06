package cycle

import (
	"encoding/json"
	"fmt"
	"math"
)

// Efficiency is a thermal efficiency that may not be defined for a model.
type Efficiency struct {
	Value      float64
	Applicable bool
}

func (e Efficiency) String() string {
	if !e.Applicable {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", e.Value*100)
}

func (e Efficiency) MarshalJSON() ([]byte, error) {
	var v *float64
	if !math.IsNaN(e.Value) && !math.IsInf(e.Value, 0) {
		v = &e.Value
	}
	return json.Marshal(struct {
		Value      *float64 `json:"value"`
		Applicable bool     `json:"applicable"`
	}{v, e.Applicable})
}

func (e *Efficiency) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value      *float64 `json:"value"`
		Applicable bool     `json:"applicable"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Value = math.NaN()
	if raw.Value != nil {
		e.Value = *raw.Value
	}
	e.Applicable = raw.Applicable
	return nil
}

// Result holds the integrals of a cycle. Work is the net work received by the
// gas: negative for an engine.
type Result struct {
	Work        float64    `json:"work"`
	LegWork     [4]float64 `json:"leg_work"`
	HeatIn      float64    `json:"heat_in"`
	HeatOut     float64    `json:"heat_out"`
	Efficiency  float64    `json:"efficiency"`
	Theoretical Efficiency `json:"theoretical"`
}

// BalanceResidual is the first-law mismatch (|W| - (Qin - Qout)) / Qin.
// It vanishes for an ideal gas up to quadrature error.
func (r Result) BalanceResidual() float64 {
	return (math.Abs(r.Work) - (r.HeatIn - r.HeatOut)) / r.HeatIn
}

// Result integrates the work of every leg and derives heat and efficiency.
func (e *Engine) Result() (Result, error) {
	var res Result

	wab, err := e.adiabaticWork(A, B)
	if err != nil {
		return Result{}, err
	}
	wcd, err := e.adiabaticWork(C, D)
	if err != nil {
		return Result{}, err
	}

	par := e.gas.Params()
	pb, pc := e.state[B], e.state[C]

	res.LegWork[0] = wab
	res.LegWork[2] = wcd

	switch e.kind {
	case Otto:
		res.HeatIn = par.N * par.Cv() * (pc.T - pb.T)
	case Diesel:
		res.LegWork[1] = -pb.P * (pc.V - pb.V)
		res.HeatIn = par.N * par.Cp() * (pc.T - pb.T)
	}
	res.HeatOut = par.N * par.Cv() * (e.state[D].T - e.state[A].T)

	for _, w := range res.LegWork {
		res.Work += w
	}
	res.Efficiency = math.Abs(res.Work) / res.HeatIn
	res.Theoretical = e.TheoreticalEfficiency()

	return res, nil
}

// TheoreticalEfficiency is the closed form 1 - τ^(1-γ) of the ideal-gas Otto
// cycle. The value is still filled in for a Van der Waals gas, for
// comparison, but marked not applicable. Diesel has no closed form here.
func (e *Engine) TheoreticalEfficiency() Efficiency {
	if e.kind != Otto {
		return Efficiency{Value: math.NaN()}
	}
	par := e.gas.Params()
	return Efficiency{
		Value:      1 - math.Pow(e.Tau(), 1-par.Gamma),
		Applicable: par.A == 0 && par.B == 0,
	}
}
