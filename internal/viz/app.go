package viz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/thermocycle/internal/analysis"
	"github.com/san-kum/thermocycle/internal/config"
	"github.com/san-kum/thermocycle/internal/cycle"
	"github.com/san-kum/thermocycle/internal/diagram"
	"github.com/san-kum/thermocycle/internal/metrics"
	"github.com/san-kum/thermocycle/internal/storage"
)

type slider struct {
	name         string
	lo, hi       float64
	step, coarse float64
	get          func(*config.Config) float64
	set          func(*config.Config, float64)
}

var sliders = []slider{
	{
		name: "tau", lo: 4, hi: 25, step: 0.1, coarse: 1,
		get: func(c *config.Config) float64 { return c.Tau },
		set: func(c *config.Config, v float64) { c.Tau = v },
	},
	{
		name: "t_max", lo: 800, hi: 4000, step: 50, coarse: 250,
		get: func(c *config.Config) float64 { return c.TMax },
		set: func(c *config.Config, v float64) { c.TMax = v },
	},
}

const (
	sweepLo     = 4
	sweepHi     = 25
	sweepPoints = 43
)

type sweepMsg struct {
	points []analysis.SweepPoint
	err    error
}

// App is the interactive cycle explorer. Every parameter change builds a
// fresh engine from the configuration.
type App struct {
	cfg    *config.Config
	store  *storage.Store
	plane  diagram.Plane
	cursor int

	engine *cycle.Engine
	result cycle.Result
	perf   metrics.Performance
	segs   []diagram.Segment
	err    error

	ref    *diagram.Snapshot
	status string

	sweep     []analysis.SweepPoint
	showSweep bool

	width, height int
}

// NewApp starts from a copy of cfg. A stored reference, if any, is loaded
// for overlay; store may be nil.
func NewApp(cfg *config.Config, store *storage.Store) App {
	a := App{
		cfg:    cfg.Clone(),
		store:  store,
		width:  100,
		height: 30,
	}
	if store != nil {
		ref, err := store.LoadReference()
		switch {
		case err == nil:
			a.ref = &ref.Snapshot
		case !errors.Is(err, storage.ErrNoReference):
			a.status = "reference: " + err.Error()
		}
	}
	a.recompute()
	return a
}

func (a *App) recompute() {
	a.engine, a.segs, a.err = nil, nil, nil

	e, err := a.cfg.Build()
	if err != nil {
		a.err = err
		return
	}
	res, err := e.Result()
	if err != nil {
		a.err = err
		return
	}
	segs, err := diagram.Build(e, a.plane, a.samples())
	if err != nil {
		a.err = err
		return
	}
	a.engine, a.result, a.segs = e, res, segs
	a.perf = metrics.Evaluate(res, e.Boundary(), a.cfg.RPM)
}

func (a App) samples() int {
	if a.plane == diagram.PlaneTS {
		return a.cfg.TraceSamples()
	}
	return a.cfg.Options().Samples
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
	case sweepMsg:
		if msg.err != nil {
			a.status = "sweep: " + msg.err.Error()
			return a, nil
		}
		a.sweep, a.showSweep = msg.points, true
	}
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	a.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "c":
		a.cfg.Cycle = toggle(a.cfg.Cycle, "otto", "diesel")
		a.recompute()
	case "g":
		a.cfg.Gas = toggle(a.cfg.Gas, "ideal", "vdw")
		a.recompute()
	case "v":
		if a.plane == diagram.PlanePV {
			a.plane = diagram.PlaneTS
		} else {
			a.plane = diagram.PlanePV
		}
		a.recompute()
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(sliders)-1 {
			a.cursor++
		}
	case "left", "h":
		a.nudge(-1, false)
	case "right", "l":
		a.nudge(1, false)
	case "H":
		a.nudge(-1, true)
	case "L":
		a.nudge(1, true)
	case "f":
		a.freeze()
	case "x":
		a.ref = nil
		a.status = "reference cleared"
	case "p":
		a.persist()
	case "s":
		if a.showSweep {
			a.showSweep = false
			return a, nil
		}
		a.status = "sweeping..."
		return a, sweepCmd(a.cfg.Clone())
	}
	return a, nil
}

func toggle(cur, x, y string) string {
	if cur == x {
		return y
	}
	return x
}

func (a *App) nudge(dir float64, coarse bool) {
	s := sliders[a.cursor]
	step := s.step
	if coarse {
		step = s.coarse
	}
	v := s.get(a.cfg) + dir*step
	v = math.Round(v/s.step) * s.step
	v = math.Round(v*1e6) / 1e6
	v = math.Max(s.lo, math.Min(s.hi, v))
	s.set(a.cfg, v)
	a.recompute()
}

func (a *App) freeze() {
	if a.engine == nil {
		a.status = "nothing to freeze"
		return
	}
	snap, err := diagram.Capture(a.cfg.Label(), a.engine, a.cfg.Options().Samples, a.cfg.TraceSamples())
	if err != nil {
		a.status = err.Error()
		return
	}
	a.ref = &snap
	a.status = "reference frozen: " + snap.Name
}

func (a *App) persist() {
	if a.store == nil || a.engine == nil {
		a.status = "no store"
		return
	}
	ref, err := storage.NewReference(a.cfg.Label(), a.engine, a.cfg.Gas, a.cfg.TraceSamples())
	if err == nil {
		err = a.store.SaveReference(ref)
	}
	if err != nil {
		a.status = err.Error()
		return
	}
	a.ref = &ref.Snapshot
	a.status = "reference saved to " + a.store.Dir()
}

func sweepCmd(cfg *config.Config) tea.Cmd {
	return func() tea.Msg {
		points, err := analysis.SweepCompressionRatio(context.Background(), cfg.BuildAt,
			analysis.Span(sweepLo, sweepHi, sweepPoints), 0)
		return sweepMsg{points: points, err: err}
	}
}

func (a App) View() string {
	var b strings.Builder

	title := GradientText("THERMOCYCLE", "#00ffff", "#ff00ff")
	b.WriteString(title + "  " + Subtle.Render(a.cfg.Label()) + "\n")
	b.WriteString(Separator(a.width-2) + "\n")

	left := a.viewDiagram()
	right := lipgloss.JoinVertical(lipgloss.Left, a.viewControls(), a.viewResult())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right) + "\n")

	if a.showSweep {
		b.WriteString(a.viewSweep() + "\n")
	}
	if a.status != "" {
		b.WriteString(Subtle.Render(a.status) + "\n")
	}
	b.WriteString(KeyHint.Render("c cycle  g gas  v pv/ts  j/k select  h/l adjust  H/L coarse  f freeze  x clear  p save  s sweep  q quit"))
	return b.String()
}

func (a App) plotSize() (int, int) {
	w := a.width - 44
	if w < 30 {
		w = 30
	}
	h := a.height - 10
	if a.showSweep {
		h -= 10
	}
	if h < 8 {
		h = 8
	}
	return w, h
}

func (a App) viewDiagram() string {
	var ref []diagram.Segment
	if a.ref != nil {
		ref = a.ref.Plane(a.plane)
	}
	w, h := a.plotSize()
	p := NewPlot(a.plane, w, h, a.segs, ref)
	p.DrawReference(ref)
	p.DrawCurrent(a.segs)
	return p.Frame(p.Render(CurrentCurve, ReferenceCurve))
}

func (a App) viewControls() string {
	var b strings.Builder
	b.WriteString(MetricLabel.Render("cycle ") + MetricValue.Render(a.cfg.Cycle) + "   ")
	b.WriteString(MetricLabel.Render("gas ") + MetricValue.Render(a.cfg.Gas) + "\n")

	for i, s := range sliders {
		name := fmt.Sprintf("%-6s", s.name)
		if i == a.cursor {
			name = Selected.Render("▸ " + name)
		} else {
			name = MetricLabel.Render("  " + name)
		}
		v := s.get(a.cfg)
		b.WriteString(fmt.Sprintf("%s %s %s\n", name, Slider(v, s.lo, s.hi, 16), MetricValue.Render(fmt.Sprintf("%g", v))))
	}
	if a.ref != nil {
		b.WriteString(ReferenceCurve.Render("ref ") + Subtle.Render(a.ref.Name))
	} else {
		b.WriteString(Subtle.Render("no reference"))
	}
	return Panel.Render(b.String())
}

func (a App) viewResult() string {
	if a.err != nil {
		return ErrorCard(a.err)
	}
	return ResultCard("result", a.result, a.perf)
}

func (a App) viewSweep() string {
	taus, eta := analysis.Series(a.sweep)
	if len(eta) == 0 {
		return ErrorStyle.Render("sweep: no point could be computed")
	}
	w, _ := a.plotSize()
	caption := fmt.Sprintf("efficiency vs tau %.3g..%.3g", taus[0], taus[len(taus)-1])
	if n := analysis.Failures(a.sweep); n > 0 {
		caption += fmt.Sprintf(" (%d failed)", n)
	}
	return asciigraph.Plot(eta,
		asciigraph.Height(8),
		asciigraph.Width(w),
		asciigraph.Precision(3),
		asciigraph.Caption(caption))
}

func Run(cfg *config.Config, store *storage.Store) error {
	_, err := tea.NewProgram(NewApp(cfg, store), tea.WithAltScreen()).Run()
	return err
}
