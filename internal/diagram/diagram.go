package diagram

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/thermocycle/internal/cycle"
)

// Plane identifies the axes of a diagram.
type Plane int

const (
	PlanePV Plane = iota
	PlaneTS
)

func (p Plane) String() string {
	if p == PlaneTS {
		return "ts"
	}
	return "pv"
}

// Axes returns the axis labels with units.
func (p Plane) Axes() (x, y string) {
	if p == PlaneTS {
		return "S - S_A (J/K)", "T (K)"
	}
	return "V (m³)", "P (Pa)"
}

// Segment is one leg drawn as a polyline.
type Segment struct {
	Label string        `json:"label"`
	Kind  cycle.Process `json:"kind"`
	X     []float64     `json:"x"`
	Y     []float64     `json:"y"`
}

func (s Segment) Len() int { return len(s.X) }

// PV samples the pressure-volume diagram with n points per adiabatic leg.
func PV(e *cycle.Engine, n int) ([]Segment, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: diagram needs at least 2 samples, got %d", cycle.ErrInvalidConfiguration, n)
	}

	st := e.State()
	out := make([]Segment, 0, 4)
	for _, leg := range e.Legs() {
		seg := Segment{Label: leg.Label(), Kind: leg.Process}
		if leg.Process == cycle.Adiabatic {
			vs, ps, err := e.AdiabaticPath(leg.From, leg.To, n)
			if err != nil {
				return nil, err
			}
			seg.X, seg.Y = vs, ps
		} else {
			from, to := st.At(leg.From), st.At(leg.To)
			seg.X = []float64{from.V, to.V}
			seg.Y = []float64{from.P, to.P}
		}
		out = append(out, seg)
	}
	return out, nil
}

// TS samples the temperature-entropy diagram with n points per leg.
func TS(e *cycle.Engine, n int) ([]Segment, error) {
	trace, err := e.EntropyTrace(n)
	if err != nil {
		return nil, err
	}
	out := make([]Segment, len(trace))
	for i, t := range trace {
		out[i] = Segment{Label: t.Label, Kind: t.Process, X: t.S, Y: t.T}
	}
	return out, nil
}

// Build samples the requested plane.
func Build(e *cycle.Engine, plane Plane, n int) ([]Segment, error) {
	if plane == PlaneTS {
		return TS(e, n)
	}
	return PV(e, n)
}

// Bounds is the bounding box of a set of segments.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Extent returns the box enclosing every point of every segment set given.
// The second result is false when there are no points.
func Extent(sets ...[]Segment) (Bounds, bool) {
	b := Bounds{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
	found := false
	for _, segs := range sets {
		for _, s := range segs {
			for i := range s.X {
				b.MinX = math.Min(b.MinX, s.X[i])
				b.MaxX = math.Max(b.MaxX, s.X[i])
				b.MinY = math.Min(b.MinY, s.Y[i])
				b.MaxY = math.Max(b.MaxY, s.Y[i])
				found = true
			}
		}
	}
	return b, found
}

// Snapshot freezes both diagrams of one run for later overlay.
type Snapshot struct {
	Name       string    `json:"name"`
	CapturedAt time.Time `json:"captured_at"`
	PV         []Segment `json:"pv"`
	TS         []Segment `json:"ts"`
}

// Capture samples both planes of e.
func Capture(name string, e *cycle.Engine, pvSamples, tsSamples int) (Snapshot, error) {
	pv, err := PV(e, pvSamples)
	if err != nil {
		return Snapshot{}, err
	}
	ts, err := TS(e, tsSamples)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Name:       name,
		CapturedAt: time.Now().UTC(),
		PV:         pv,
		TS:         ts,
	}, nil
}

// Plane returns the segments of the snapshot in the given plane.
func (s Snapshot) Plane(p Plane) []Segment {
	if p == PlaneTS {
		return s.TS
	}
	return s.PV
}
