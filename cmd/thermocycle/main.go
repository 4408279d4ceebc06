package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/thermocycle/internal/analysis"
	"github.com/san-kum/thermocycle/internal/automation"
	"github.com/san-kum/thermocycle/internal/config"
	"github.com/san-kum/thermocycle/internal/cycle"
	"github.com/san-kum/thermocycle/internal/diagram"
	"github.com/san-kum/thermocycle/internal/export"
	"github.com/san-kum/thermocycle/internal/metrics"
	"github.com/san-kum/thermocycle/internal/optim"
	"github.com/san-kum/thermocycle/internal/storage"
	"github.com/san-kum/thermocycle/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	cycleName string
	gasName   string
	tau       float64
	tMax      float64
	vMax      float64
	pAmbient  float64
	tAmbient  float64
	moles     float64
	gamma     float64
	vdwA      float64
	vdwB      float64
	samples   int
	rpm       float64

	asJSON bool

	// sweep
	sweepFrom    float64
	sweepTo      float64
	sweepPoints  int
	sweepWorkers int
	sweepCSV     string
	sweepPNG     string

	// plot and export
	plane        string
	outDir       string
	plotFormat   string
	exportFormat string
	outFile      string
	overlay   bool
	terminal  bool
	termWidth int

	// optimize
	objective string
	optTaus   []float64
	optTMaxes []float64
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "thermocycle",
		Short: "otto and diesel cycle simulator",
		RunE:  runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	addCycleFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "compute one cycle",
		Args:  cobra.NoArgs,
		RunE:  runCycle,
	}
	addCycleFlags(runCmd)
	runCmd.Flags().BoolVar(&asJSON, "json", false, "print the report as json")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "efficiency against compression ratio",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addCycleFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 4, "first compression ratio")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 30, "last compression ratio")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 40, "number of ratios")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "concurrent engines (0 = all cpus)")
	sweepCmd.Flags().StringVar(&sweepCSV, "csv", "", "write the sweep to a csv file")
	sweepCmd.Flags().StringVar(&sweepPNG, "figure", "", "write the sweep figure (png, svg, pdf)")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "draw the p-v and t-s diagrams",
		Args:  cobra.NoArgs,
		RunE:  plotCycle,
	}
	addCycleFlags(plotCmd)
	plotCmd.Flags().StringVar(&plane, "plane", "both", "pv, ts or both")
	plotCmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	plotCmd.Flags().StringVar(&plotFormat, "format", "png", "png, svg or pdf")
	plotCmd.Flags().BoolVar(&overlay, "reference", true, "overlay the stored reference")
	plotCmd.Flags().BoolVar(&terminal, "terminal", false, "draw in the terminal instead of writing files")
	plotCmd.Flags().IntVar(&termWidth, "width", 72, "terminal plot width in cells")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "export corner table or diagram samples",
		Args:  cobra.NoArgs,
		RunE:  exportCycle,
	}
	addCycleFlags(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "json, pv-csv or ts-csv")
	exportCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	referenceCmd := &cobra.Command{
		Use:   "reference",
		Short: "manage the reference cycle",
	}
	captureCmd := &cobra.Command{
		Use:   "capture",
		Short: "store the current cycle as reference",
		Args:  cobra.NoArgs,
		RunE:  captureReference,
	}
	addCycleFlags(captureCmd)
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "show the stored reference",
		Args:  cobra.NoArgs,
		RunE:  showReference,
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "remove the stored reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := storage.New(cfg.DataDir).ClearReference(); err != nil {
				return err
			}
			fmt.Println("reference cleared")
			return nil
		},
	}
	referenceCmd.AddCommand(captureCmd, showCmd, clearCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive cycle explorer",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	addCycleFlags(tuiCmd)

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search for the best compression ratio and peak temperature",
		Args:  cobra.NoArgs,
		RunE:  optimizeCycle,
	}
	addCycleFlags(optimizeCmd)
	optimizeCmd.Flags().StringVar(&objective, "objective", "efficiency", strings.Join(optim.ObjectiveNames(), ", "))
	optimizeCmd.Flags().Float64SliceVar(&optTaus, "taus", []float64{6, 8, 10, 12, 14, 16, 18, 20, 22}, "compression ratios to try")
	optimizeCmd.Flags().Float64SliceVar(&optTMaxes, "tmaxes", []float64{1500, 1800, 2100, 2400}, "peak temperatures to try")

	batchCmd := &cobra.Command{
		Use:   "batch <scenario.yaml>",
		Short: "run every configuration in a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	rootCmd.AddCommand(runCmd, sweepCmd, plotCmd, exportCmd, referenceCmd, presetsCmd, optimizeCmd, batchCmd, tuiCmd)

	return rootCmd
}

func addCycleFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&cycleName, "cycle", d.Cycle, "otto or diesel")
	f.StringVar(&gasName, "gas", d.Gas, "ideal or vdw")
	f.Float64Var(&tau, "tau", d.Tau, "compression ratio")
	f.Float64Var(&tMax, "tmax", d.TMax, "peak temperature (K)")
	f.Float64Var(&vMax, "vmax", d.VMax, "maximum volume (m³)")
	f.Float64Var(&pAmbient, "pamb", d.PAmbient, "ambient pressure (Pa)")
	f.Float64Var(&tAmbient, "tamb", d.TAmbient, "ambient temperature (K)")
	f.Float64Var(&moles, "moles", 0, "amount of gas (0 = fill vmax at ambient)")
	f.Float64Var(&gamma, "gamma", d.Gamma, "heat capacity ratio")
	f.Float64Var(&vdwA, "a", d.A, "van der waals a (Pa·m⁶/mol²)")
	f.Float64Var(&vdwB, "b", d.B, "van der waals b (m³/mol)")
	f.IntVar(&samples, "samples", d.Samples, "samples per adiabatic leg")
	f.Float64Var(&rpm, "rpm", d.RPM, "engine speed for power and torque")
}

// resolveConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("cycle") {
		cfg.Cycle = cycleName
	}
	if flags.Changed("gas") {
		cfg.Gas = gasName
	}
	if flags.Changed("tau") {
		cfg.Tau = tau
	}
	if flags.Changed("tmax") {
		cfg.TMax = tMax
	}
	if flags.Changed("vmax") {
		cfg.VMax = vMax
	}
	if flags.Changed("pamb") {
		cfg.PAmbient = pAmbient
	}
	if flags.Changed("tamb") {
		cfg.TAmbient = tAmbient
	}
	if flags.Changed("moles") {
		cfg.Moles = moles
	}
	if flags.Changed("gamma") {
		cfg.Gamma = gamma
	}
	if flags.Changed("a") {
		cfg.A = vdwA
	}
	if flags.Changed("b") {
		cfg.B = vdwB
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("rpm") {
		cfg.RPM = rpm
	}
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	return cfg, nil
}

func buildEngine(cmd *cobra.Command) (*config.Config, *cycle.Engine, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	e, err := cfg.Build()
	if err != nil {
		return cfg, nil, fmt.Errorf("%s: %w", cfg.Label(), err)
	}
	return cfg, e, nil
}

func runCycle(cmd *cobra.Command, args []string) error {
	cfg, e, err := buildEngine(cmd)
	if err != nil {
		return err
	}
	res, err := e.Result()
	if err != nil {
		return err
	}
	perf := metrics.Evaluate(res, e.Boundary(), cfg.RPM)

	if asJSON {
		return export.WriteJSON(os.Stdout, export.NewReport(e, res, perf))
	}

	fmt.Printf("cycle: %s\n", cfg.Label())
	fmt.Printf("gas: %s, n = %.5g mol\n\n", e.Gas().Name(), e.Gas().Params().N)

	if err := writeCorners(os.Stdout, e); err != nil {
		return err
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE\tUNIT")
	for _, m := range metrics.Report(res, perf) {
		fmt.Fprintf(w, "%s\t%.6g\t%s\n", m.Name(), m.Value(), m.Unit())
	}
	fmt.Fprintf(w, "theoretical\t%s\t\n", res.Theoretical)
	return w.Flush()
}

func writeCorners(out io.Writer, e *cycle.Engine) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POINT\tV (m³)\tP (Pa)\tT (K)")
	for _, c := range cycle.Corners {
		p := e.Point(c)
		fmt.Fprintf(w, "%s\t%.5e\t%.5e\t%.2f\n", c, p.V, p.P, p.T)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	taus := analysis.Span(sweepFrom, sweepTo, sweepPoints)
	fmt.Printf("sweeping %s over tau %.3g..%.3g (%d points)\n\n", cfg.Label(), sweepFrom, sweepTo, len(taus))

	points, err := analysis.SweepCompressionRatio(context.Background(), cfg.BuildAt, taus, sweepWorkers)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAU\tWORK (J)\tETA\tETA_TH\tERROR")
	for _, p := range points {
		if !p.OK() {
			fmt.Fprintf(w, "%.3f\t-\t-\t-\t%v\n", p.Tau, p.Err)
			continue
		}
		fmt.Fprintf(w, "%.3f\t%.3f\t%.4f\t%s\t\n", p.Tau, p.Work, p.Efficiency, p.Theoretical)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if _, eta := analysis.Series(points); len(eta) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(eta,
			asciigraph.Height(12),
			asciigraph.Width(72),
			asciigraph.Precision(3),
			asciigraph.Caption("efficiency vs compression ratio"),
		))
	}

	if sweepCSV != "" {
		if err := export.WriteFile(sweepCSV, func(w io.Writer) error {
			return export.WriteSweepCSV(w, points)
		}); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", sweepCSV)
	}
	if sweepPNG != "" {
		p, err := export.SweepFigure(cfg.Label(), points)
		if err != nil {
			return err
		}
		if err := export.SaveFigure(p, sweepPNG); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", sweepPNG)
	}

	if n := analysis.Failures(points); n > 0 {
		fmt.Printf("\n%d of %d points failed\n", n, len(points))
	}
	return nil
}

func optimizeCycle(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	obj, ok := optim.Objectives[objective]
	if !ok {
		return fmt.Errorf("unknown objective %q (want %s)", objective, strings.Join(optim.ObjectiveNames(), ", "))
	}

	g, err := optim.NewGridSearch([]string{"tau", "t_max"}, [][]float64{optTaus, optTMaxes})
	if err != nil {
		return err
	}
	best, err := g.Search(context.Background(), cfg, obj)
	if err != nil {
		return err
	}

	fmt.Printf("%s: best %s = %.4g at tau=%g t_max=%g K\n",
		cfg.Label(), objective, best.Value, best.Params["tau"], best.Params["t_max"])
	fmt.Printf("%d points evaluated, %d infeasible\n", best.Evaluated, best.Failed)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if sc.Name != "" {
		fmt.Printf("%s", sc.Name)
		if sc.Description != "" {
			fmt.Printf(": %s", sc.Description)
		}
		fmt.Print("\n\n")
	}

	results, err := automation.RunScenario(context.Background(), sc)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tWORK (J)\tETA\tPOWER\tMEP\tERROR")
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t%v\n", r.Name, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.3f\t%.4f\t%.4g W\t%.4g Pa\t\n", r.Name, r.Result.Work, r.Result.Efficiency,
			r.Performance.Power, r.Performance.MEP)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		fmt.Printf("\n%d of %d steps failed\n", failed, len(results))
	}
	return nil
}

func planes() ([]diagram.Plane, error) {
	switch strings.ToLower(plane) {
	case "pv":
		return []diagram.Plane{diagram.PlanePV}, nil
	case "ts":
		return []diagram.Plane{diagram.PlaneTS}, nil
	case "both", "":
		return []diagram.Plane{diagram.PlanePV, diagram.PlaneTS}, nil
	default:
		return nil, fmt.Errorf("unknown plane: %s (pv, ts or both)", plane)
	}
}

func samplesFor(cfg *config.Config, p diagram.Plane) int {
	if p == diagram.PlaneTS {
		return cfg.TraceSamples()
	}
	return cfg.Options().Samples
}

func plotCycle(cmd *cobra.Command, args []string) error {
	cfg, e, err := buildEngine(cmd)
	if err != nil {
		return err
	}
	ps, err := planes()
	if err != nil {
		return err
	}

	var ref *storage.Reference
	if overlay {
		ref, err = storage.New(cfg.DataDir).LoadReference()
		if err != nil && !errors.Is(err, storage.ErrNoReference) {
			return err
		}
	}

	for _, p := range ps {
		segs, err := diagram.Build(e, p, samplesFor(cfg, p))
		if err != nil {
			return err
		}
		var refSegs []diagram.Segment
		if ref != nil {
			refSegs = ref.Snapshot.Plane(p)
		}

		if terminal {
			fmt.Println(renderTerminal(p, segs, refSegs, termWidth))
			continue
		}

		fig, err := export.Figure(fmt.Sprintf("%s (%s)", cfg.Label(), strings.ToUpper(p.String())), p, segs, refSegs)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, fmt.Sprintf("%s_%s_%s.%s", cfg.Cycle, cfg.Gas, p, plotFormat))
		if err := export.SaveFigure(fig, path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func renderTerminal(p diagram.Plane, segs, ref []diagram.Segment, width int) string {
	plot := viz.NewPlot(p, width, width/3, segs, ref)
	plot.DrawReference(ref)
	plot.DrawCurrent(segs)
	return plot.Frame(plot.Render(viz.CurrentCurve, viz.ReferenceCurve))
}

func exportCycle(cmd *cobra.Command, args []string) error {
	cfg, e, err := buildEngine(cmd)
	if err != nil {
		return err
	}

	var write func(io.Writer) error
	switch exportFormat {
	case "json":
		res, err := e.Result()
		if err != nil {
			return err
		}
		rep := export.NewReport(e, res, metrics.Evaluate(res, e.Boundary(), cfg.RPM))
		write = func(w io.Writer) error { return export.WriteJSON(w, rep) }
	case "pv-csv", "ts-csv":
		p := diagram.PlanePV
		if exportFormat == "ts-csv" {
			p = diagram.PlaneTS
		}
		segs, err := diagram.Build(e, p, samplesFor(cfg, p))
		if err != nil {
			return err
		}
		write = func(w io.Writer) error { return export.WriteSegmentsCSV(w, p, segs) }
	default:
		return fmt.Errorf("unknown format: %s (json, pv-csv or ts-csv)", exportFormat)
	}

	if outFile == "" {
		return write(os.Stdout)
	}
	if err := export.WriteFile(outFile, write); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func captureReference(cmd *cobra.Command, args []string) error {
	cfg, e, err := buildEngine(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	ref, err := storage.NewReference(cfg.Label(), e, cfg.Gas, cfg.TraceSamples())
	if err != nil {
		return err
	}
	if err := st.SaveReference(ref); err != nil {
		return err
	}

	fmt.Printf("captured reference: %s\n", ref.Metadata.Name)
	fmt.Printf("efficiency: %.2f%%\n", ref.Metadata.Result.Efficiency*100)
	return nil
}

func showReference(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ref, err := storage.New(cfg.DataDir).LoadReference()
	if err != nil {
		return err
	}
	meta := ref.Metadata

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "name\t%s\n", meta.Name)
	fmt.Fprintf(w, "captured\t%s\n", meta.CapturedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "cycle\t%s\n", meta.Cycle)
	fmt.Fprintf(w, "gas\t%s\n", meta.Gas)
	fmt.Fprintf(w, "tau\t%.3g\n", meta.Tau)
	fmt.Fprintf(w, "t_max\t%.0f K\n", meta.TMax)
	fmt.Fprintf(w, "work\t%.3f J\n", meta.Result.Work)
	fmt.Fprintf(w, "efficiency\t%.2f%%\n", meta.Result.Efficiency*100)
	fmt.Fprintf(w, "theoretical\t%s\n", meta.Result.Theoretical)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(renderTerminal(diagram.PlanePV, ref.Snapshot.PV, nil, 72))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCYCLE\tGAS\tTAU\tT_MAX")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%.0f K\n", name, p.Cycle, p.Gas, p.Tau, p.TMax)
	}
	return w.Flush()
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(cfg, storage.New(cfg.DataDir))
}
