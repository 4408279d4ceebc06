package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/thermocycle/internal/analysis"
	"github.com/san-kum/thermocycle/internal/cycle"
	"github.com/san-kum/thermocycle/internal/diagram"
)

var referenceColor = color.Gray{Y: 150}

func processColor(p cycle.Process) color.Color {
	return plotutil.Color(int(p))
}

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.X.Padding = vg.Points(10)
	p.Y.Padding = vg.Points(10)
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
}

func toXYs(s diagram.Segment) plotter.XYs {
	pts := make(plotter.XYs, len(s.X))
	for i := range s.X {
		pts[i].X = s.X[i]
		pts[i].Y = s.Y[i]
	}
	return pts
}

// Figure draws the segments of one plane, leg by leg, over an optional
// dashed reference.
func Figure(title string, plane diagram.Plane, segs, ref []diagram.Segment) (*plot.Plot, error) {
	if len(segs) == 0 {
		return nil, fmt.Errorf("figure %q: no segments", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text, p.Y.Label.Text = plane.Axes()
	stylePlot(p)

	for i, s := range ref {
		line, err := plotter.NewLine(toXYs(s))
		if err != nil {
			return nil, fmt.Errorf("reference %s: %w", s.Label, err)
		}
		line.LineStyle.Color = referenceColor
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(line)
		if i == 0 {
			p.Legend.Add("reference", line)
		}
	}

	for _, s := range segs {
		line, err := plotter.NewLine(toXYs(s))
		if err != nil {
			return nil, fmt.Errorf("segment %s: %w", s.Label, err)
		}
		line.LineStyle.Color = processColor(s.Kind)
		line.LineStyle.Width = vg.Points(2.5)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s %s", s.Label, s.Kind), line)
	}
	return p, nil
}

// SweepFigure plots the numerical efficiency against compression ratio and
// the closed form where it applies.
func SweepFigure(title string, points []analysis.SweepPoint) (*plot.Plot, error) {
	var num, th plotter.XYs
	for _, pt := range points {
		if !pt.OK() {
			continue
		}
		num = append(num, plotter.XY{X: pt.Tau, Y: pt.Efficiency})
		if pt.Theoretical.Applicable {
			th = append(th, plotter.XY{X: pt.Tau, Y: pt.Theoretical.Value})
		}
	}
	if len(num) == 0 {
		return nil, fmt.Errorf("figure %q: no successful points", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "compression ratio"
	p.Y.Label.Text = "efficiency"
	stylePlot(p)

	line, marks, err := plotter.NewLinePoints(num)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(2)
	line.LineStyle.Color = plotutil.Color(0)
	marks.GlyphStyle.Color = plotutil.Color(0)
	p.Add(line, marks)
	p.Legend.Add("numerical", line, marks)

	if len(th) > 0 {
		thLine, err := plotter.NewLine(th)
		if err != nil {
			return nil, err
		}
		thLine.LineStyle.Color = plotutil.Color(1)
		thLine.LineStyle.Dashes = plotutil.Dashes(1)
		p.Add(thLine)
		p.Legend.Add("1 - tau^(1-gamma)", thLine)
	}
	return p, nil
}

// SaveFigure writes p to path; the extension picks the format (png, svg,
// pdf, ...).
func SaveFigure(p *plot.Plot, path string) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	wt, err := p.WriterTo(8*vg.Inch, 6*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create directory: %w", err)
		}
	}
	return WriteFile(path, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
}
