package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/thermocycle/internal/diagram"
)

// Plot maps data coordinates of a diagram onto a pair of canvases: one for
// the current run and one for the reference drawn behind it.
type Plot struct {
	Plane   diagram.Plane
	Current *Canvas
	Ref     *Canvas
	bounds  diagram.Bounds
}

const margin = 0.05

// NewPlot sizes the plot in terminal cells so that every given segment set
// fits inside it.
func NewPlot(plane diagram.Plane, w, h int, sets ...[]diagram.Segment) *Plot {
	b, ok := diagram.Extent(sets...)
	if !ok {
		b = diagram.Bounds{MaxX: 1, MaxY: 1}
	}
	dx, dy := b.MaxX-b.MinX, b.MaxY-b.MinY
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}
	b.MinX -= dx * margin
	b.MaxX += dx * margin
	b.MinY -= dy * margin
	b.MaxY += dy * margin

	return &Plot{
		Plane:   plane,
		Current: NewCanvas(w, h),
		Ref:     NewCanvas(w, h),
		bounds:  b,
	}
}

func (p *Plot) Bounds() diagram.Bounds { return p.bounds }

// Project converts a data point to sub-pixel coordinates, y growing down.
func (p *Plot) Project(x, y float64) (int, int) {
	w := float64(p.Current.Width*2 - 1)
	h := float64(p.Current.Height*4 - 1)
	px := (x - p.bounds.MinX) / (p.bounds.MaxX - p.bounds.MinX) * w
	py := (p.bounds.MaxY - y) / (p.bounds.MaxY - p.bounds.MinY) * h
	return int(px + 0.5), int(py + 0.5)
}

func (p *Plot) draw(c *Canvas, segs []diagram.Segment, dash int) {
	for _, s := range segs {
		for i := 1; i < len(s.X); i++ {
			x0, y0 := p.Project(s.X[i-1], s.Y[i-1])
			x1, y1 := p.Project(s.X[i], s.Y[i])
			c.drawLine(x0, y0, x1, y1, dash)
		}
	}
}

func (p *Plot) DrawCurrent(segs []diagram.Segment) { p.draw(p.Current, segs, 0) }

func (p *Plot) DrawReference(segs []diagram.Segment) { p.draw(p.Ref, segs, 2) }

// Render merges both layers. A cell takes the current style when the current
// run lights it, the reference style otherwise.
func (p *Plot) Render(current, ref lipgloss.Style) string {
	var b strings.Builder
	for row := 0; row < p.Current.Height; row++ {
		for col := 0; col < p.Current.Width; col++ {
			cell := p.Current.Grid[row][col] | p.Ref.Grid[row][col]
			switch {
			case p.Current.Lit(col, row):
				b.WriteString(current.Render(string(cell)))
			case p.Ref.Lit(col, row):
				b.WriteString(ref.Render(string(cell)))
			default:
				b.WriteRune(cell)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Frame adds axis extents and labels around a rendered plot.
func (p *Plot) Frame(body string) string {
	xLabel, yLabel := p.Plane.Axes()
	b := p.bounds

	top := MetricLabel.Render(fmt.Sprintf("%s  max %s", yLabel, formatSI(b.MaxY)))
	bottom := MetricLabel.Render(fmt.Sprintf("%s  [%s .. %s]   %s min %s",
		xLabel, formatSI(b.MinX), formatSI(b.MaxX), yLabel, formatSI(b.MinY)))
	return top + "\n" + strings.TrimSuffix(body, "\n") + "\n" + bottom
}

// formatSI prints v with an engineering prefix, e.g. 1.2M or 350m.
func formatSI(v float64) string {
	prefixes := []struct {
		scale float64
		sym   string
	}{
		{1e9, "G"}, {1e6, "M"}, {1e3, "k"}, {1, ""}, {1e-3, "m"}, {1e-6, "µ"},
	}
	a := v
	if a < 0 {
		a = -a
	}
	if a == 0 {
		return "0"
	}
	for _, p := range prefixes {
		if a >= p.scale {
			return fmt.Sprintf("%.3g%s", v/p.scale, p.sym)
		}
	}
	return fmt.Sprintf("%.3g", v)
}
