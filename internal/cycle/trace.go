package cycle

import (
	"github.com/san-kum/thermocycle/internal/numeric"
)

// TraceSegment is one leg sampled in the temperature–entropy plane. S is the
// entropy relative to corner A.
type TraceSegment struct {
	Label   string    `json:"label"`
	Process Process   `json:"process"`
	V       []float64 `json:"v"`
	T       []float64 `json:"t"`
	S       []float64 `json:"s"`
}

// EntropyTrace samples the four legs in traversal order with n points each.
// Adiabatic legs are sampled evenly in volume, isochoric legs evenly in
// temperature and the isobaric leg evenly in volume at constant pressure.
//
// The reference is the stored corner A, so every trace ends D->A at zero. A
// Van der Waals A->B leg sits on a small constant offset because the
// equation of state reads a slightly different temperature at (P_A, V_A).
func (e *Engine) EntropyTrace(n int) ([]TraceSegment, error) {
	if n < 2 {
		return nil, invalid("trace needs at least 2 samples, got %d", n)
	}

	ref := e.state[A]
	legs := e.Legs()
	out := make([]TraceSegment, 0, len(legs))

	for _, leg := range legs {
		vs, ts, err := e.sampleLeg(leg, n)
		if err != nil {
			return nil, classify(leg.Label(), err)
		}

		s := make([]float64, len(vs))
		for i := range vs {
			s[i] = e.gas.EntropyDifference(ts[i], vs[i], ref.T, ref.V)
		}

		out = append(out, TraceSegment{
			Label:   leg.Label(),
			Process: leg.Process,
			V:       vs,
			T:       ts,
			S:       s,
		})
	}
	return out, nil
}

func (e *Engine) sampleLeg(leg Leg, n int) ([]float64, []float64, error) {
	start, end := e.state[leg.From], e.state[leg.To]

	switch leg.Process {
	case Adiabatic:
		vs, ps, err := e.AdiabaticPath(leg.From, leg.To, n)
		if err != nil {
			return nil, nil, err
		}
		ts := make([]float64, n)
		for i := range vs {
			if ts[i], err = e.gas.Temperature(ps[i], vs[i]); err != nil {
				return nil, nil, err
			}
		}
		return vs, ts, nil

	case Isobaric:
		vs := numeric.Linspace(start.V, end.V, n)
		ts := make([]float64, n)
		for i, v := range vs {
			t, err := e.gas.Temperature(start.P, v)
			if err != nil {
				return nil, nil, err
			}
			ts[i] = t
		}
		return vs, ts, nil

	default:
		vs := make([]float64, n)
		for i := range vs {
			vs[i] = start.V
		}
		return vs, numeric.Linspace(start.T, end.T, n), nil
	}
}
