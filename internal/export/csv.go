package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/thermocycle/internal/analysis"
	"github.com/san-kum/thermocycle/internal/diagram"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// WriteSegmentsCSV writes one row per sample: leg, process, x, y. The axis
// columns are named after the plane.
func WriteSegmentsCSV(w io.Writer, plane diagram.Plane, segs []diagram.Segment) error {
	cw := csv.NewWriter(w)

	x, y := "v", "p"
	if plane == diagram.PlaneTS {
		x, y = "s", "t"
	}
	if err := cw.Write([]string{"leg", "process", x, y}); err != nil {
		return err
	}

	for _, s := range segs {
		for i := range s.X {
			row := []string{s.Label, s.Kind.String(), formatFloat(s.X[i]), formatFloat(s.Y[i])}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSweepCSV writes one row per compression ratio. Failed points keep
// their row with the error text and empty figures.
func WriteSweepCSV(w io.Writer, points []analysis.SweepPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"tau", "work", "heat_in", "efficiency", "theoretical", "error"}); err != nil {
		return err
	}

	for _, p := range points {
		row := []string{formatFloat(p.Tau), "", "", "", "", ""}
		if p.OK() {
			row[1] = formatFloat(p.Work)
			row[2] = formatFloat(p.HeatIn)
			row[3] = formatFloat(p.Efficiency)
			if p.Theoretical.Applicable {
				row[4] = formatFloat(p.Theoretical.Value)
			}
		} else {
			row[5] = p.Err.Error()
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile creates path and hands it to write.
func WriteFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := write(file); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	return file.Close()
}
