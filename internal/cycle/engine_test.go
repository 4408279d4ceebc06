package cycle_test

import (
	"encoding/json"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/thermocycle/internal/cycle"
	"github.com/san-kum/thermocycle/internal/gas"
)

const (
	vMax     = 1e-3
	pAmbient = 1.013e5
	tAmbient = 300.0
)

func params(a, b float64) gas.Params {
	return gas.Params{
		N:     gas.MolesFromState(pAmbient, vMax, tAmbient, gas.R),
		Gamma: 1.4,
		R:     gas.R,
		A:     a,
		B:     b,
	}
}

func idealGas() gas.Model {
	g, err := gas.NewIdeal(params(0, 0))
	Expect(err).NotTo(HaveOccurred())
	return g
}

func vdwGas(a, b float64) gas.Model {
	g, err := gas.NewVanDerWaals(params(a, b))
	Expect(err).NotTo(HaveOccurred())
	return g
}

func build(kind cycle.Kind, g gas.Model, tau, tMax float64) (*cycle.Engine, error) {
	b := cycle.BoundaryFromRatio(vMax, tau, pAmbient, tAmbient, tMax)
	return cycle.New(kind, g, b, cycle.DefaultOptions())
}

func mustBuild(kind cycle.Kind, g gas.Model, tau, tMax float64) *cycle.Engine {
	e, err := build(kind, g, tau, tMax)
	Expect(err).NotTo(HaveOccurred())
	return e
}

func mustResult(e *cycle.Engine) cycle.Result {
	r, err := e.Result()
	Expect(err).NotTo(HaveOccurred())
	return r
}

var _ = Describe("Otto cycle", func() {
	Context("with an ideal gas", func() {
		It("reproduces the 1 L, tau=8 reference run", func() {
			e := mustBuild(cycle.Otto, idealGas(), 8, 2000)
			r := mustResult(e)

			Expect(r.Theoretical.Applicable).To(BeTrue())
			Expect(r.Theoretical.Value).To(BeNumerically("~", 1-math.Pow(8, -0.4), 1e-12))
			Expect(r.Theoretical.Value).To(BeNumerically("~", 0.5647, 1e-4))
			Expect(math.Abs(r.Efficiency-r.Theoretical.Value) / r.Theoretical.Value).To(BeNumerically("<", 0.01))
			Expect(r.Work).To(BeNumerically("<", 0))
		})

		DescribeTable("numerical efficiency agrees with the closed form",
			func(tau float64) {
				r := mustResult(mustBuild(cycle.Otto, idealGas(), tau, 2000))
				rel := math.Abs(r.Efficiency-r.Theoretical.Value) / r.Theoretical.Value
				Expect(rel).To(BeNumerically("<", 1e-3))
			},
			Entry("tau 4", 4.0),
			Entry("tau 6", 6.0),
			Entry("tau 8", 8.0),
			Entry("tau 12", 12.0),
			Entry("tau 16", 16.0),
			Entry("tau 20", 20.0),
			Entry("tau 25", 25.0),
		)

		It("gains theoretical efficiency with compression ratio", func() {
			prev := 0.0
			for tau := 4.0; tau <= 25; tau += 0.5 {
				eta := mustBuild(cycle.Otto, idealGas(), tau, 3000).TheoreticalEfficiency().Value
				Expect(eta).To(BeNumerically(">", prev))
				prev = eta
			}
		})

		It("places B on the ideal adiabatic", func() {
			e := mustBuild(cycle.Otto, idealGas(), 8, 2000)
			Expect(e.Point(cycle.B).T).To(BeNumerically("~", tAmbient*math.Pow(8, 0.4), 1e-9))
			Expect(e.Point(cycle.B).V).To(Equal(vMax / 8))
			Expect(e.Point(cycle.C).V).To(Equal(e.Point(cycle.B).V))
			Expect(e.Point(cycle.D).V).To(Equal(vMax))
		})

		It("closes back onto the ambient state through D->A", func() {
			g := idealGas()
			e := mustBuild(cycle.Otto, g, 10, 2200)
			s := e.State()

			// cooling D at constant volume down to T_A must land on P_A
			p, err := g.Pressure(s.At(cycle.D).V, s.At(cycle.A).T)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeNumerically("~", s.At(cycle.A).P, 1e-6*pAmbient))

			Expect(s.At(cycle.A).T * s.At(cycle.C).T).To(
				BeNumerically("~", s.At(cycle.B).T*s.At(cycle.D).T, 1e-6))
		})

		It("satisfies the first law", func() {
			r := mustResult(mustBuild(cycle.Otto, idealGas(), 12, 2500))
			Expect(math.Abs(r.BalanceResidual())).To(BeNumerically("<", 1e-3))
			Expect(r.LegWork[1]).To(BeZero())
			Expect(r.LegWork[3]).To(BeZero())
		})
	})

	Context("with a Van der Waals gas", func() {
		It("marks the closed form as not applicable but keeps it for comparison", func() {
			e := mustBuild(cycle.Otto, vdwGas(gas.NitrogenA, gas.NitrogenB), 8, 2000)
			th := e.TheoreticalEfficiency()
			Expect(th.Applicable).To(BeFalse())
			Expect(th.Value).To(BeNumerically("~", 0.5647, 1e-4))
			Expect(th.String()).To(Equal("n/a"))
		})

		It("keeps every corner above the covolume", func() {
			g := vdwGas(gas.NitrogenA, gas.NitrogenB)
			e := mustBuild(cycle.Otto, g, 25, 3000)
			for _, c := range cycle.Corners {
				Expect(e.Point(c).V).To(BeNumerically(">", g.Covolume()))
			}
		})
	})
})

var _ = Describe("Diesel cycle", func() {
	Context("with an ideal gas", func() {
		It("solves the combustion volume to the isobaric closed form", func() {
			e := mustBuild(cycle.Diesel, idealGas(), 16, 2000)
			b, c := e.Point(cycle.B), e.Point(cycle.C)
			expected := b.V * c.T / b.T
			Expect(math.Abs(c.V-expected) / expected).To(BeNumerically("<", 1e-10))
			Expect(c.P).To(Equal(b.P))
		})

		It("uses isobaric work and Cp heat input", func() {
			e := mustBuild(cycle.Diesel, idealGas(), 16, 2000)
			r := mustResult(e)
			b, c := e.Point(cycle.B), e.Point(cycle.C)
			par := e.Gas().Params()

			Expect(r.LegWork[1]).To(BeNumerically("~", -b.P*(c.V-b.V), 1e-9))
			Expect(r.HeatIn).To(BeNumerically("~", par.N*par.Cp()*(c.T-b.T), 1e-9))
			Expect(math.Abs(r.BalanceResidual())).To(BeNumerically("<", 1e-3))
		})

		It("reports no theoretical efficiency", func() {
			r := mustResult(mustBuild(cycle.Diesel, idealGas(), 16, 2000))
			Expect(r.Theoretical.Applicable).To(BeFalse())
			Expect(math.IsNaN(r.Theoretical.Value)).To(BeTrue())

			data, err := json.Marshal(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"theoretical":{"value":null,"applicable":false}`))
		})

		It("is less efficient than Otto at the same compression ratio", func() {
			otto := mustResult(mustBuild(cycle.Otto, idealGas(), 12, 2000))
			diesel := mustResult(mustBuild(cycle.Diesel, idealGas(), 12, 2000))
			Expect(diesel.Efficiency).To(BeNumerically("<", otto.Efficiency))
		})
	})

	Context("with a Van der Waals gas", func() {
		It("lands C on the equation of state at the combustion pressure", func() {
			g := vdwGas(gas.NitrogenA, gas.NitrogenB)
			e := mustBuild(cycle.Diesel, g, 8, 2000)
			c := e.Point(cycle.C)

			p, err := g.Pressure(c.V, c.T)
			Expect(err).NotTo(HaveOccurred())
			Expect(math.Abs(p-e.Point(cycle.B).P) / p).To(BeNumerically("<", 1e-9))
		})

		It("surfaces an exhausted solver as a convergence failure", func() {
			opts := cycle.DefaultOptions()
			opts.Solver.MaxIter = 1
			b := cycle.BoundaryFromRatio(vMax, 8, pAmbient, tAmbient, 2000)

			_, err := cycle.New(cycle.Diesel, vdwGas(gas.NitrogenA, gas.NitrogenB), b, opts)
			Expect(err).To(MatchError(cycle.ErrConvergence))
			Expect(errors.Is(err, cycle.ErrPhysicalInfeasibility)).To(BeFalse())
		})
	})

	It("rejects combustion that runs past V_max", func() {
		_, err := build(cycle.Diesel, idealGas(), 4, 3500)
		Expect(err).To(MatchError(cycle.ErrPhysicalInfeasibility))
	})
})

var _ = Describe("Van der Waals degenerate case", func() {
	DescribeTable("a=0, b=0 matches the ideal gas",
		func(kind cycle.Kind) {
			ideal := mustBuild(kind, idealGas(), 10, 2200)
			vdw := mustBuild(kind, vdwGas(0, 0), 10, 2200)

			for _, c := range cycle.Corners {
				pi, pv := ideal.Point(c), vdw.Point(c)
				Expect(pv.V).To(BeNumerically("~", pi.V, 1e-12*pi.V))
				Expect(pv.P).To(BeNumerically("~", pi.P, 1e-9*pi.P))
				Expect(pv.T).To(BeNumerically("~", pi.T, 1e-9*pi.T))
			}

			ri, rv := mustResult(ideal), mustResult(vdw)
			Expect(rv.Work).To(BeNumerically("~", ri.Work, 1e-9*math.Abs(ri.Work)))
			Expect(rv.Efficiency).To(BeNumerically("~", ri.Efficiency, 1e-9))
			Expect(rv.Theoretical.Applicable).To(Equal(ri.Theoretical.Applicable))
		},
		Entry("otto", cycle.Otto),
		Entry("diesel", cycle.Diesel),
	)
})

var _ = Describe("Configuration", func() {
	It("rejects a compression ratio of 1", func() {
		_, err := build(cycle.Otto, idealGas(), 1, 2000)
		Expect(err).To(MatchError(cycle.ErrInvalidConfiguration))
	})

	It("rejects a peak temperature below ambient", func() {
		_, err := build(cycle.Otto, idealGas(), 8, 250)
		Expect(err).To(MatchError(cycle.ErrInvalidConfiguration))
	})

	It("rejects negative pressure", func() {
		b := cycle.BoundaryFromRatio(vMax, 8, -1, tAmbient, 2000)
		_, err := cycle.New(cycle.Otto, idealGas(), b, cycle.DefaultOptions())
		Expect(err).To(MatchError(cycle.ErrInvalidConfiguration))
	})

	It("rejects a missing gas model and too few samples", func() {
		b := cycle.BoundaryFromRatio(vMax, 8, pAmbient, tAmbient, 2000)
		_, err := cycle.New(cycle.Otto, nil, b, cycle.DefaultOptions())
		Expect(err).To(MatchError(cycle.ErrInvalidConfiguration))

		_, err = cycle.New(cycle.Otto, idealGas(), b, cycle.Options{Samples: 2})
		Expect(err).To(MatchError(cycle.ErrInvalidConfiguration))
	})

	It("rejects a peak temperature the compression already exceeds", func() {
		_, err := build(cycle.Otto, idealGas(), 25, 1000)
		Expect(err).To(MatchError(cycle.ErrPhysicalInfeasibility))
	})

	It("fails explicitly when compression crosses the covolume", func() {
		// n·b = 2e-4 m³ sits between V_min and V_max
		g := vdwGas(gas.NitrogenA, 2e-4/params(0, 0).N)
		_, err := build(cycle.Otto, g, 8, 2000)

		Expect(err).To(MatchError(cycle.ErrPhysicalInfeasibility))
		Expect(err).To(MatchError(gas.ErrCovolume))

		var legErr *cycle.LegError
		Expect(errors.As(err, &legErr)).To(BeTrue())
		Expect(legErr.Leg).To(Equal("A->B"))
	})
})

var _ = Describe("Path sampling", func() {
	It("samples the compression adiabatic between corners", func() {
		e := mustBuild(cycle.Otto, idealGas(), 8, 2000)
		vs, ps, err := e.AdiabaticPath(cycle.A, cycle.B, 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(vs).To(HaveLen(100))
		Expect(ps).To(HaveLen(100))
		Expect(vs[0]).To(Equal(vMax))
		Expect(ps[0]).To(BeNumerically("~", pAmbient, 1e-6))
		Expect(ps[99]).To(BeNumerically("~", e.Point(cycle.B).P, 1e-6*e.Point(cycle.B).P))
	})

	It("rejects fewer than two samples", func() {
		e := mustBuild(cycle.Otto, idealGas(), 8, 2000)
		_, _, err := e.AdiabaticPath(cycle.A, cycle.B, 1)
		Expect(err).To(MatchError(cycle.ErrInvalidConfiguration))
	})
})

var _ = Describe("Cycle closure", func() {
	DescribeTable("cooling D at constant volume lands back on the ambient state",
		func(kind cycle.Kind, mk func() gas.Model, tau, tMax float64) {
			g := mk()
			s := mustBuild(kind, g, tau, tMax).State()
			a, d := s.At(cycle.A), s.At(cycle.D)
			Expect(d.V).To(Equal(a.V))

			p, err := g.Pressure(d.V, a.T)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeNumerically("~", a.P, 2e-3*a.P))

			t, err := g.Temperature(a.P, d.V)
			Expect(err).NotTo(HaveOccurred())
			Expect(t).To(BeNumerically("~", a.T, 1e-3*a.T))
		},
		Entry("otto ideal", cycle.Otto, idealGas, 10.0, 2200.0),
		Entry("diesel ideal", cycle.Diesel, idealGas, 18.0, 2200.0),
		Entry("otto vdw", cycle.Otto, func() gas.Model { return vdwGas(gas.NitrogenA, gas.NitrogenB) }, 8.0, 2000.0),
		Entry("otto vdw high ratio", cycle.Otto, func() gas.Model { return vdwGas(gas.NitrogenA, gas.NitrogenB) }, 20.0, 3000.0),
		Entry("diesel vdw", cycle.Diesel, func() gas.Model { return vdwGas(gas.NitrogenA, gas.NitrogenB) }, 18.0, 2200.0),
	)

	It("keeps T_A·T_C = T_B·T_D on the Van der Waals Otto adiabats", func() {
		g := vdwGas(gas.NitrogenA, gas.NitrogenB)
		s := mustBuild(cycle.Otto, g, 12, 2400).State()

		tA, err := g.Temperature(s.At(cycle.A).P, s.At(cycle.A).V)
		Expect(err).NotTo(HaveOccurred())
		Expect(tA * s.At(cycle.C).T).To(
			BeNumerically("~", s.At(cycle.B).T*s.At(cycle.D).T, 1e-6*tA*s.At(cycle.C).T))
	})
})

var _ = Describe("Entropy trace", func() {
	models := map[string]func() gas.Model{
		"ideal": idealGas,
		"vdw":   func() gas.Model { return vdwGas(gas.NitrogenA, gas.NitrogenB) },
	}

	for name, mk := range models {
		name, mk := name, mk

		for _, kind := range []cycle.Kind{cycle.Otto, cycle.Diesel} {
			kind := kind

			It("returns to zero entropy at A for "+kind.String()+"/"+name, func() {
				trace, err := mustBuild(kind, mk(), 8, 2000).EntropyTrace(cycle.DefaultEntropySamples)
				Expect(err).NotTo(HaveOccurred())
				Expect(trace).To(HaveLen(4))

				last := trace[3]
				Expect(last.V[len(last.V)-1]).To(Equal(vMax))
				Expect(last.T[len(last.T)-1]).To(Equal(tAmbient))
				Expect(last.S[len(last.S)-1]).To(BeNumerically("~", 0, 1e-12))

				labels := []string{trace[0].Label, trace[1].Label, trace[2].Label, trace[3].Label}
				Expect(labels).To(Equal([]string{"A->B", "B->C", "C->D", "D->A"}))
			})

			It("keeps the adiabatic legs isentropic for "+kind.String()+"/"+name, func() {
				trace, err := mustBuild(kind, mk(), 8, 2000).EntropyTrace(20)
				Expect(err).NotTo(HaveOccurred())

				for _, seg := range []cycle.TraceSegment{trace[0], trace[2]} {
					Expect(seg.Process).To(Equal(cycle.Adiabatic))
					for _, s := range seg.S {
						Expect(s).To(BeNumerically("~", seg.S[0], 1e-9))
					}
				}
			})
		}
	}

	It("starts A->B at zero entropy for an ideal gas", func() {
		for _, kind := range []cycle.Kind{cycle.Otto, cycle.Diesel} {
			trace, err := mustBuild(kind, idealGas(), 8, 2000).EntropyTrace(20)
			Expect(err).NotTo(HaveOccurred())
			Expect(trace[0].S[0]).To(BeNumerically("~", 0, 1e-9))
		}
	})

	It("offsets the Van der Waals compression by the equation-of-state temperature at A", func() {
		g := vdwGas(gas.NitrogenA, gas.NitrogenB)
		e := mustBuild(cycle.Otto, g, 8, 2000)
		trace, err := e.EntropyTrace(20)
		Expect(err).NotTo(HaveOccurred())

		a := e.Point(cycle.A)
		tEOS, err := g.Temperature(a.P, a.V)
		Expect(err).NotTo(HaveOccurred())
		want := g.EntropyDifference(tEOS, a.V, a.T, a.V)

		Expect(trace[0].S[0]).To(BeNumerically("~", want, 1e-12))
		Expect(math.Abs(trace[0].S[0])).To(BeNumerically("<", 1e-2))
	})

	It("samples the Diesel combustion at constant pressure", func() {
		e := mustBuild(cycle.Diesel, idealGas(), 16, 2000)
		trace, err := e.EntropyTrace(30)
		Expect(err).NotTo(HaveOccurred())

		seg := trace[1]
		Expect(seg.Process).To(Equal(cycle.Isobaric))
		Expect(seg.V[0]).To(Equal(e.Point(cycle.B).V))
		Expect(seg.T[len(seg.T)-1]).To(BeNumerically("~", 2000, 1e-6))
		for i := 1; i < len(seg.S); i++ {
			Expect(seg.S[i]).To(BeNumerically(">", seg.S[i-1]))
		}
	})

	It("samples isochoric legs evenly in temperature", func() {
		e := mustBuild(cycle.Otto, idealGas(), 8, 2000)
		trace, err := e.EntropyTrace(11)
		Expect(err).NotTo(HaveOccurred())

		seg := trace[1]
		Expect(seg.Process).To(Equal(cycle.Isochoric))
		step := (e.Point(cycle.C).T - e.Point(cycle.B).T) / 10
		for i := 1; i < len(seg.T); i++ {
			Expect(seg.T[i] - seg.T[i-1]).To(BeNumerically("~", step, 1e-9))
			Expect(seg.V[i]).To(Equal(e.Point(cycle.B).V))
		}
	})
})

var _ = Describe("Efficiency encoding", func() {
	It("round-trips a missing value as NaN", func() {
		var eff cycle.Efficiency
		Expect(json.Unmarshal([]byte(`{"value":null,"applicable":false}`), &eff)).To(Succeed())
		Expect(math.IsNaN(eff.Value)).To(BeTrue())
		Expect(eff.Applicable).To(BeFalse())
	})

	It("keeps a finite value", func() {
		data, err := json.Marshal(cycle.Efficiency{Value: 0.5, Applicable: true})
		Expect(err).NotTo(HaveOccurred())

		var eff cycle.Efficiency
		Expect(json.Unmarshal(data, &eff)).To(Succeed())
		Expect(eff).To(Equal(cycle.Efficiency{Value: 0.5, Applicable: true}))
		Expect(eff.String()).To(Equal("50.00%"))
	})
})
