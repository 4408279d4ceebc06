package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/thermocycle/internal/cycle"
	"github.com/san-kum/thermocycle/internal/gas"
	"github.com/san-kum/thermocycle/internal/metrics"
)

type CornerRow struct {
	Corner string  `json:"corner"`
	V      float64 `json:"v"`
	P      float64 `json:"p"`
	T      float64 `json:"t"`
}

// Report is the corner table and integrals of one run.
type Report struct {
	Cycle       string              `json:"cycle"`
	Gas         string              `json:"gas"`
	Params      gas.Params          `json:"params"`
	Boundary    cycle.Boundary      `json:"boundary"`
	Corners     []CornerRow         `json:"corners"`
	Result      cycle.Result        `json:"result"`
	Performance metrics.Performance `json:"performance"`
}

func NewReport(e *cycle.Engine, r cycle.Result, perf metrics.Performance) Report {
	rows := make([]CornerRow, 0, len(cycle.Corners))
	for _, c := range cycle.Corners {
		p := e.Point(c)
		rows = append(rows, CornerRow{Corner: c.String(), V: p.V, P: p.P, T: p.T})
	}
	return Report{
		Cycle:       e.Kind().String(),
		Gas:         e.Gas().Name(),
		Params:      e.Gas().Params(),
		Boundary:    e.Boundary(),
		Corners:     rows,
		Result:      r,
		Performance: perf,
	}
}

func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func ExportJSON(path string, v any) error {
	return WriteFile(path, func(w io.Writer) error { return WriteJSON(w, v) })
}
