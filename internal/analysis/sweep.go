package analysis

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/thermocycle/internal/cycle"
	"github.com/san-kum/thermocycle/internal/numeric"
)

// Builder constructs a fresh engine for one compression ratio. It is called
// concurrently and must not share mutable state between calls.
type Builder func(tau float64) (*cycle.Engine, error)

// SweepPoint is the outcome of one compression ratio. Err is set when the
// engine could not be built or integrated; the other fields are then zero.
type SweepPoint struct {
	Tau         float64          `json:"tau"`
	Work        float64          `json:"work"`
	HeatIn      float64          `json:"heat_in"`
	Efficiency  float64          `json:"efficiency"`
	Theoretical cycle.Efficiency `json:"theoretical"`
	Err         error            `json:"-"`
}

func (p SweepPoint) OK() bool { return p.Err == nil }

// Span returns n compression ratios evenly spaced over [lo, hi].
func Span(lo, hi float64, n int) []float64 {
	return numeric.Linspace(lo, hi, n)
}

// SweepCompressionRatio evaluates every tau with at most workers engines in
// flight. Results keep the order of taus. A failing point is recorded and the
// sweep continues; only cancellation of ctx aborts it.
func SweepCompressionRatio(ctx context.Context, build Builder, taus []float64, workers int) ([]SweepPoint, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	points := make([]SweepPoint, len(taus))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, tau := range taus {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			points[i] = evaluate(build, tau)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

func evaluate(build Builder, tau float64) SweepPoint {
	p := SweepPoint{Tau: tau}
	e, err := build(tau)
	if err != nil {
		p.Err = err
		return p
	}
	r, err := e.Result()
	if err != nil {
		p.Err = err
		return p
	}
	p.Work = r.Work
	p.HeatIn = r.HeatIn
	p.Efficiency = r.Efficiency
	p.Theoretical = r.Theoretical
	return p
}

// Series extracts the successful points as parallel slices, for plotting.
func Series(points []SweepPoint) (taus, eta []float64) {
	for _, p := range points {
		if !p.OK() {
			continue
		}
		taus = append(taus, p.Tau)
		eta = append(eta, p.Efficiency)
	}
	return taus, eta
}

// Failures counts the points that carry an error.
func Failures(points []SweepPoint) int {
	n := 0
	for _, p := range points {
		if !p.OK() {
			n++
		}
	}
	return n
}
