package metrics

import (
	"math"

	"github.com/san-kum/thermocycle/internal/cycle"
)

// StrokesPerCycle is four: one cycle every two crank revolutions.
const StrokesPerCycle = 4

// CyclesPerSecond for a four-stroke engine turning at rpm.
func CyclesPerSecond(rpm float64) float64 {
	return rpm / 120
}

// Power is the mean shaft power in W of one cylinder producing work per
// cycle. The sign of work is ignored.
func Power(work, rpm float64) float64 {
	return math.Abs(work) * CyclesPerSecond(rpm)
}

// Torque is the mean torque in N·m: |W| spread over the 4π rad of a cycle.
func Torque(work float64) float64 {
	return math.Abs(work) / (4 * math.Pi)
}

// MEP is the mean effective pressure in Pa over the swept volume.
func MEP(work, vMin, vMax float64) float64 {
	swept := vMax - vMin
	if swept <= 0 {
		return 0
	}
	return math.Abs(work) / swept
}

type Performance struct {
	RPM    float64 `json:"rpm"`
	Power  float64 `json:"power"`
	Torque float64 `json:"torque"`
	MEP    float64 `json:"mep"`
}

func Evaluate(r cycle.Result, b cycle.Boundary, rpm float64) Performance {
	return Performance{
		RPM:    rpm,
		Power:  Power(r.Work, rpm),
		Torque: Torque(r.Work),
		MEP:    MEP(r.Work, b.VMin, b.VMax),
	}
}

// Metric is one named figure of a report.
type Metric struct {
	name  string
	unit  string
	value float64
}

func (m Metric) Name() string   { return m.name }
func (m Metric) Unit() string   { return m.unit }
func (m Metric) Value() float64 { return m.value }

// Report flattens a result and its performance into display order.
func Report(r cycle.Result, p Performance) []Metric {
	return []Metric{
		{"net work", "J", r.Work},
		{"heat in", "J", r.HeatIn},
		{"heat out", "J", r.HeatOut},
		{"efficiency", "", r.Efficiency},
		{"balance residual", "", r.BalanceResidual()},
		{"power", "W", p.Power},
		{"torque", "N·m", p.Torque},
		{"mep", "Pa", p.MEP},
	}
}
