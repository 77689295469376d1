package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/cowsim/internal/analysis"
	"github.com/san-kum/cowsim/internal/config"
	"github.com/san-kum/cowsim/internal/experiment"
	"github.com/san-kum/cowsim/internal/export"
	"github.com/san-kum/cowsim/internal/gui"
	"github.com/san-kum/cowsim/internal/integrators"
	"github.com/san-kum/cowsim/internal/metrics"
	"github.com/san-kum/cowsim/internal/optim"
	"github.com/san-kum/cowsim/internal/sim"
	"github.com/san-kum/cowsim/internal/storage"
	"github.com/san-kum/cowsim/internal/viz"
)

var (
	settingsFile string
	// Scenario overrides
	dt           float64
	duration     float64
	gravity      float64
	integrator   string
	noCollisions bool
	recordEvery  int
	// Output
	outFile   string
	svgWidth  int
	svgHeight int
	// Analysis
	sweepParams  []string
	sweepMetric  string
	perturbation float64
	phaseBody    int
	phaseWith    int
	phaseAxis    string
	// Viewers
	watch  bool
	theme  string
	mass   float64
	radius float64
	member bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cowsim",
		Short: "spherical cows in a vacuum: a 2D gravity and collision sandbox",
		Long: `cowsim simulates point-mass bodies under pairwise Newtonian gravity with
elastic collisions. Runs are stored on disk and can be plotted, exported and
replayed; live and gui open interactive viewers.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "settings file (default is $HOME/.cowsim/config.yaml)")
	rootCmd.PersistentFlags().String("data", ".cowsim", "data directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	_ = viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().IntVar(&recordEvery, "record-every", 10, "record a frame every n steps")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energies and centre of mass of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a run's trajectories as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.svg)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "run a scenario with several integrators side by side",
		RunE:  compareIntegrators,
	}
	scenarioFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid-search scenario parameters for the smallest metric",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	scenarioFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil,
		fmt.Sprintf("name=v1,v2,... (repeatable; names %v)", config.ParamNames))
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to minimise")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate the largest Lyapunov exponent of a scenario",
		Args:  cobra.NoArgs,
		RunE:  runLyapunov,
	}
	scenarioFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-6, "initial displacement of the first body")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "draw a phase portrait from a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotPhase,
	}
	phaseCmd.Flags().IntVar(&phaseBody, "body", 0, "body index")
	phaseCmd.Flags().IntVar(&phaseWith, "with", -1, "second body: plot their separation instead")
	phaseCmd.Flags().StringVar(&phaseAxis, "axis", "x", "coordinate for single-body portraits (x or y)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a scenario evolve in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	scenarioFlags(liveCmd)
	liveCmd.Flags().BoolVar(&watch, "watch", false, "reload when the --config file changes")
	liveCmd.Flags().StringVar(&theme, "theme", "night", fmt.Sprintf("color theme %v", viz.ThemeNames()))
	_ = viper.BindPFlag("theme", liveCmd.Flags().Lookup("theme"))

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "place bodies with the mouse and run them in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	guiCmd.Flags().String("config", "", "scenario file to preload (yaml)")
	guiCmd.Flags().String("preset", "", "preset to preload")
	guiCmd.Flags().BoolVar(&watch, "watch", false, "reload when the --config file changes")
	guiCmd.Flags().Float64Var(&mass, "mass", 5, "mass of placed bodies")
	guiCmd.Flags().Float64Var(&radius, "radius", 5, "radius of placed bodies")
	guiCmd.Flags().BoolVar(&member, "member", true, "placed bodies belong to the system")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, svgCmd,
		compareCmd, sweepCmd, lyapunovCmd, phaseCmd, presetsCmd, liveCmd, guiCmd)

	cobra.OnInitialize(initConfig)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	if settingsFile != "" {
		viper.SetConfigFile(settingsFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".cowsim"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("COWSIM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger().Debug("using settings file", "path", viper.ConfigFileUsed())
	}
}

func logger() *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func store() *storage.Store {
	return storage.New(viper.GetString("data"))
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "scenario file (yaml)")
	cmd.Flags().String("preset", "pair", fmt.Sprintf("built-in scenario %v", config.ListPresets()))
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&gravity, "g", config.DefaultG, "gravitational constant")
	cmd.Flags().StringVar(&integrator, "integrator", integrators.Default, fmt.Sprintf("integrator %v", integrators.Names()))
	cmd.Flags().BoolVar(&noCollisions, "no-collisions", false, "disable collision resolution")
}

// loadScenario resolves --config or --preset, then applies any flag the
// user set explicitly. The config file wins over the preset.
func loadScenario(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config")
	preset, _ := flags.GetString("preset")

	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("g") {
		cfg.G = gravity
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("no-collisions") {
		cfg.Collisions = !noCollisions
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	log := logger()
	registry := experiment.NewRegistry()

	exp := experiment.New(cfg, recordEvery)
	observed := registry.DefaultMetrics(cfg)
	if err := exp.Setup(observed, sim.WithLogger(log)); err != nil {
		return err
	}
	l0 := exp.Simulator().AngularMomentum()

	ctx, cancel := interruptContext()
	defer cancel()

	log.Info("running scenario", "scenario", cfg.Name, "bodies", len(cfg.Bodies),
		"integrator", cfg.Integrator, "dt", cfg.Dt, "duration", cfg.Duration)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		log.Warn("run interrupted, storing partial result", "err", runErr)
	}
	for _, e := range result.Errors {
		log.Warn("run stopped early", "err", e)
	}
	elapsed := time.Since(start)

	st := store()
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunInfo{
		Scenario:   cfg.Name,
		Integrator: cfg.Integrator,
		G:          cfg.G,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy drift: %s\n", formatValue(result.EnergyDrift))
	fmt.Printf("skipped pairs: %d  collisions: %d\n", result.Stats.SkippedPairs, result.Stats.Collisions.Resolved)
	fmt.Printf("angular momentum: %s -> %s\n", formatValue(l0), formatValue(exp.Simulator().AngularMomentum()))
	for _, m := range observed {
		if d, ok := m.(*metrics.EnergyDrift); ok {
			mean, std := d.MeanStdDev()
			fmt.Printf("energy drift samples: mean %s  std %s\n", formatValue(mean), formatValue(std))
		}
	}
	if period, ok := analysis.DominantPeriod(result.Kinetic, cfg.Dt*float64(max(recordEvery, 1))); ok {
		fmt.Printf("kinetic energy period: %.4gs\n", period)
	}
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %s\n", name, formatValue(result.Metrics[name]))
	}
	return runErr
}

func formatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "undefined"
	}
	return fmt.Sprintf("%.6g", v)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store().List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tDURATION\tDT\tINTEG\tDRIFT")

	for _, run := range runs {
		drift := "undefined"
		if run.EnergyDrift != nil {
			drift = fmt.Sprintf("%.3g", *run.EnergyDrift)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Bodies),
			run.Duration,
			run.Dt,
			run.Integrator,
			drift,
		)
	}

	return w.Flush()
}

// plottable replaces infinities with NaN, which asciigraph leaves as gaps.
func plottable(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if math.IsInf(v, 0) {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

func hasFinite(vals []float64) bool {
	for _, v := range vals {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store()
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(traj.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(traj.Times))

	total := make([]float64, len(traj.Kinetic))
	comX := make([]float64, len(traj.CenterOfMass))
	comY := make([]float64, len(traj.CenterOfMass))
	for i := range traj.Kinetic {
		total[i] = traj.Kinetic[i] + traj.Potential[i]
	}
	for i, c := range traj.CenterOfMass {
		comX[i], comY[i] = c.X, c.Y
	}

	series := []struct {
		caption string
		data    []float64
	}{
		{"kinetic energy", traj.Kinetic},
		{"potential energy", traj.Potential},
		{"total energy", total},
		{"centre of mass x", comX},
		{"centre of mass y", comY},
	}
	for _, s := range series {
		data := plottable(s.data)
		if !hasFinite(data) {
			fmt.Printf("%s: undefined\n\n", s.caption)
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

// output opens outFile, or stdout when it is empty.
func output(fallback string) (io.WriteCloser, string, error) {
	path := outFile
	if path == "" {
		path = fallback
	}
	if path == "" {
		return nopCloser{os.Stdout}, "", nil
	}
	f, err := os.Create(path)
	return f, path, err
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store()
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	w, path, err := output("")
	if err != nil {
		return err
	}
	defer w.Close()
	if err := storage.ExportJSON(w, meta, traj); err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(os.Stderr, "exported to %s\n", path)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	traj, err := store().LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	w, path, err := output("")
	if err != nil {
		return err
	}
	defer w.Close()
	if err := storage.WriteCSV(w, traj); err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(os.Stderr, "exported to %s\n", path)
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	traj, err := store().LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	svg := export.TrajectoryToSVG(traj, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("run %s has nothing to draw", args[0])
	}

	w, path, err := output(args[0] + ".svg")
	if err != nil {
		return err
	}
	defer w.Close()
	if _, err := io.WriteString(w, svg); err != nil {
		return err
	}
	fmt.Printf("saved %s\n", path)
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	ctx, cancel := interruptContext()
	defer cancel()

	log := logger()
	log.Info("comparing integrators", "scenario", cfg.Name, "integrators", strings.Join(names, ","))

	results, err := experiment.Compare(ctx, experiment.NewRegistry(), cfg, names, 100, sim.WithLogger(log))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tENERGY DRIFT\tMOMENTUM DRIFT\tBOUNDED\tSTATUS")
	for i, res := range results {
		status := "ok"
		if len(res.Errors) > 0 {
			status = res.Errors[0].Error()
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			names[i],
			res.StepsTaken,
			formatValue(res.EnergyDrift),
			formatValue(res.Metrics["momentum_drift"]),
			formatValue(res.Metrics["bounded"]),
			status,
		)
	}
	return w.Flush()
}

// parseParam splits "name=v1,v2" into a name and its values.
func parseParam(arg string) (string, []float64, error) {
	name, list, ok := strings.Cut(arg, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("bad --param %q, want name=v1,v2", arg)
	}
	var vals []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad --param %q: %w", arg, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, arg := range sweepParams {
		name, vals, err := parseParam(arg)
		if err != nil {
			return err
		}
		if err := base.Clone().SetParam(name, 0); err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(sweepMetric, base); err != nil {
		return fmt.Errorf("%w (available: %v)", err, registry.ListMetrics())
	}
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := cfg.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		exp := experiment.New(cfg, 100)
		if err := exp.Setup(registry.DefaultMetrics(cfg)); err != nil {
			return nil, err
		}
		return exp, nil
	}

	ctx, cancel := interruptContext()
	defer cancel()

	best, trials, err := search.Search(ctx, build, sweepMetric)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(sweepMetric))
	for _, tr := range trials {
		cols := make([]string, len(names))
		for i, name := range names {
			cols[i] = strconv.FormatFloat(tr.Params[name], 'g', -1, 64)
		}
		val := formatValue(tr.Value)
		if tr.Err != nil {
			val = "failed: " + tr.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.Join(cols, "\t"), val)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	fmt.Println("\nbest:")
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best.Params[name])
	}
	fmt.Printf("  %s = %s\n", sweepMetric, formatValue(best.Value))
	return nil
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	logger().Info("estimating lyapunov exponent", "scenario", cfg.Name, "duration", cfg.Duration, "perturbation", perturbation)

	lambda, err := analysis.LyapunovExponent(cfg.Build, cfg.Dt, cfg.Duration, perturbation)
	if err != nil {
		return err
	}
	fmt.Printf("largest lyapunov exponent: %.6g /s\n", lambda)
	if lambda > 0 {
		fmt.Printf("e-folding time: %.4gs\n", 1/lambda)
	}
	return nil
}

func plotPhase(cmd *cobra.Command, args []string) error {
	traj, err := store().LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(traj.Frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	var portrait *analysis.PhasePortrait
	if phaseWith >= 0 {
		portrait = analysis.SeparationPortrait(traj.Frames, phaseBody, phaseWith)
	} else {
		axis := analysis.AxisX
		switch phaseAxis {
		case "x":
		case "y":
			axis = analysis.AxisY
		default:
			return fmt.Errorf("unknown axis %q (want x or y)", phaseAxis)
		}
		portrait = analysis.BodyPhasePortrait(traj.Frames, phaseBody, axis)
	}

	out := analysis.PhasePortraitToASCII(portrait, 80, 24)
	if out == "" {
		return fmt.Errorf("run %s has no finite points for that portrait", args[0])
	}
	fmt.Print(out)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tG\tDT\tDURATION\tINTEG")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%gs\t%s\n", name, len(p.Bodies), p.G, p.Dt, p.Duration, p.Integrator)
	}
	return w.Flush()
}

func scenarioWatcher(cmd *cobra.Command) (*config.Watcher, error) {
	if !watch {
		return nil, nil
	}
	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		return nil, fmt.Errorf("--watch needs --config")
	}
	return config.NewWatcher(configFile)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	s, err := cfg.Build()
	if err != nil {
		return err
	}

	m := viz.NewModel(s, cfg.Name, cfg.Dt).WithTheme(viper.GetString("theme"))
	w, err := scenarioWatcher(cmd)
	if err != nil {
		return err
	}
	if w != nil {
		defer w.Close()
		m = m.WithWatcher(w)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runGUI(cmd *cobra.Command, args []string) error {
	opts := gui.Options{
		Template: gui.Template{Mass: mass, Radius: radius, Member: member},
		Logger:   logger(),
	}
	opts.SimOptions = []sim.Option{sim.WithLogger(opts.Logger)}

	if cmd.Flags().Changed("config") || cmd.Flags().Changed("preset") {
		cfg, err := loadScenario(cmd)
		if err != nil {
			return err
		}
		opts.Scenario = cfg
	}
	w, err := scenarioWatcher(cmd)
	if err != nil {
		return err
	}
	if w != nil {
		defer w.Close()
		opts.Watcher = w
	}
	return gui.Run(opts)
}
