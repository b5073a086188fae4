package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zhangluna929/Thermal-Management-Model/internal/battery"
	"github.com/zhangluna929/Thermal-Management-Model/internal/config"
	"github.com/zhangluna929/Thermal-Management-Model/internal/cooling"
	"github.com/zhangluna929/Thermal-Management-Model/internal/electrochem"
	"github.com/zhangluna929/Thermal-Management-Model/internal/export"
	"github.com/zhangluna929/Thermal-Management-Model/internal/metrics"
	"github.com/zhangluna929/Thermal-Management-Model/internal/optim"
	"github.com/zhangluna929/Thermal-Management-Model/internal/sim"
	"github.com/zhangluna929/Thermal-Management-Model/internal/storage"
	"github.com/zhangluna929/Thermal-Management-Model/internal/sweep"
	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
	"github.com/zhangluna929/Thermal-Management-Model/internal/viz"
)

var log zerolog.Logger

var (
	dataDir        string
	verbose        bool
	quiet          bool
	configFile     string
	preset         string
	current        float64
	steps          int
	dt             float64
	coolingType    string
	externalHeat   float64
	zones          int
	useMPC         bool
	useElectrochem bool
	cellModel      string
	trace          bool
	noSave         bool
	// Sweep ranges
	sweepParams []string
	workers     int
	// GA settings
	seed        int64
	generations int
	population  int
	// Chart geometry
	plotHeight int
	plotWidth  int
	// SVG export
	svgPath   string
	svgWidth  int
	svgHeight int
)

// main registers the packsim commands and executes the root command. It
// exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "packsim",
		Short: "battery pack thermal simulation lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = setupLogger()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultOutDir, "run storage directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "errors only")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario",
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&trace, "trace", false, "log per-step state")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip storing the run")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid sweep over pack parameters",
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "sweep range name:min:max (repeatable)")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = all cores)")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "evolve liquid-cooling parameters",
		RunE:  runOptimize,
	}
	addScenarioFlags(optimizeCmd)
	optimizeCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	optimizeCmd.Flags().IntVar(&generations, "generations", 20, "GA generations")
	optimizeCmd.Flags().IntVar(&population, "population", 40, "GA population size")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive live view",
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "chart a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotHeight, "height", viz.DefaultPlotHeight, "chart height")
	plotCmd.Flags().IntVar(&plotWidth, "width", viz.DefaultPlotWidth, "chart width")

	heatmapCmd := &cobra.Command{
		Use:   "heatmap [run_id]",
		Short: "time-by-zone heat strip of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  heatmapRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run (JSON to stdout, or SVG)",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG chart to this path")
	exportCmd.Flags().IntVar(&svgWidth, "svg-width", export.DefaultWidth, "SVG width")
	exportCmd.Flags().IntVar(&svgHeight, "svg-height", export.DefaultHeight, "SVG height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, sweepCmd, optimizeCmd, liveCmd, listCmd, plotCmd, heatmapCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addScenarioFlags registers the flags shared by every command that
// assembles a scenario.
func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
	cmd.Flags().Float64Var(&current, "current", config.DefaultCurrent, "discharge current (A)")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	cmd.Flags().StringVar(&coolingType, "cooling", "passive", "cooling strategy")
	cmd.Flags().Float64Var(&externalHeat, "external-heat", 0, "external heat per zone (W)")
	cmd.Flags().IntVar(&zones, "zones", 3, "number of zones")
	cmd.Flags().BoolVar(&useMPC, "mpc", false, "enable the horizon planner")
	cmd.Flags().BoolVar(&useElectrochem, "electrochem", false, "enable the electrochemical heat source")
	cmd.Flags().StringVar(&cellModel, "cell-model", "SPM", "cell model (SPM or DFN)")
}

// setupLogger builds a console logger. The default level only surfaces
// warnings so normal runs stay quiet.
func setupLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	} else if quiet {
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	return zerolog.New(output).With().Timestamp().Logger()
}

// buildConfig assembles the scenario: preset first, then config file, then
// any explicitly set CLI flags on top.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("current") {
		cfg.Run.Current = current
	}
	if cmd.Flags().Changed("steps") {
		cfg.Run.Steps = steps
	}
	if cmd.Flags().Changed("dt") {
		cfg.Run.Dt = dt
	}
	if cmd.Flags().Changed("cooling") {
		cfg.Cooling = cooling.Spec{Type: coolingType}
	}
	if cmd.Flags().Changed("external-heat") {
		cfg.Run.ExternalHeat = []float64{externalHeat}
	}
	if cmd.Flags().Changed("zones") {
		cfg.Pack.NumZones = zones
	}
	if cmd.Flags().Changed("mpc") {
		cfg.MPC.Enabled = useMPC
	}
	if cmd.Flags().Changed("electrochem") {
		cfg.Run.Electrochem.Enabled = useElectrochem
	}
	if cmd.Flags().Changed("cell-model") {
		cfg.Run.Electrochem.Model = cellModel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// assembleRunner wires a pack, metrics, planner, heat source and observers
// into a ready-to-run simulation.
func assembleRunner(cfg *config.Config) (*sim.Runner, error) {
	pack, err := cfg.BuildPack()
	if err != nil {
		return nil, err
	}

	runner := sim.New(pack)
	runner.SetLogger(log)
	runner.AddMetric(metrics.NewPeakTemperature())
	runner.AddMetric(metrics.NewOverheatFraction(battery.OverheatThreshold))
	runner.AddMetric(metrics.NewCoolingEffort())

	if cfg.MPC.Enabled {
		runner.SetPlanner(cfg.BuildMPC())
	}
	if cfg.Run.Electrochem.Enabled {
		src, err := electrochem.New(cfg.Run.Electrochem.Model)
		if err != nil {
			return nil, err
		}
		runner.SetHeatSource(src)
	}
	if trace || cfg.Output.Trace {
		runner.AddObserver(sim.NewTraceObserver(log))
	}
	return runner, nil
}

// storeDir prefers an explicit --data flag over the scenario's output dir.
func storeDir(cmd *cobra.Command, cfg *config.Config) string {
	if cmd.Root().PersistentFlags().Changed("data") || cfg.Output.Dir == "" {
		return dataDir
	}
	return cfg.Output.Dir
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	runner, err := assembleRunner(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %s scenario...\n", cfg.Scenario)
	start := time.Now()

	result, err := runner.Run(context.Background(), cfg.SimConfig())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("completed in %v\n", elapsed)

	if cfg.Output.Save && !noSave {
		st := storage.New(storeDir(cmd, cfg))
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Scenario, cfg.Cooling.Type, cfg.SimConfig(), result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("steps: %d\n", result.StepsTaken)
	if len(result.Errors) > 0 {
		fmt.Printf("step errors: %d\n", len(result.Errors))
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	if cfg.Output.Plot {
		chart, err := viz.Plot(result.History, viz.PlotOptions{})
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(chart)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	params, err := parseSweepParams(sweepParams)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %d cases...\n", len(sweep.Grid(params)))
	start := time.Now()

	results, err := sweep.Run(context.Background(), cfg.Pack, params, cfg.SimConfig(), workers)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := make([]string, 0, len(params)+1)
	for _, p := range params {
		header = append(header, strings.ToUpper(p.Name))
	}
	header = append(header, "MAX_TEMP")
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, r := range results {
		row := make([]string, 0, len(params)+1)
		for _, p := range params {
			row = append(row, strconv.FormatFloat(r.Values[p.Name], 'g', -1, 64))
		}
		if r.Err != nil {
			row = append(row, "error: "+r.Err.Error())
		} else {
			row = append(row, strconv.FormatFloat(r.MaxTemp, 'f', 2, 64))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := sweep.Best(results); ok {
		parts := make([]string, 0, len(params))
		for _, p := range params {
			parts = append(parts, fmt.Sprintf("%s=%g", p.Name, best.Values[p.Name]))
		}
		fmt.Printf("\nbest: %s (max temp %.2f°C)\n", strings.Join(parts, " "), best.MaxTemp)
	}
	return nil
}

func parseSweepParams(specs []string) ([]sweep.Param, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one --param name:min:max is required")
	}
	params := make([]sweep.Param, 0, len(specs))
	for _, s := range specs {
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("bad --param %q, want name:min:max", s)
		}
		lo, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad --param %q: %w", s, err)
		}
		hi, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("bad --param %q: %w", s, err)
		}
		params = append(params, sweep.Param{Name: parts[0], Min: lo, Max: hi})
	}
	return params, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ga := optim.NewGA(seed)
	if cmd.Flags().Changed("generations") {
		ga.Generations = generations
	}
	if cmd.Flags().Changed("population") {
		ga.PopulationSize = population
	}

	fmt.Printf("evolving cooling design: population %d, %d generations...\n", ga.PopulationSize, ga.Generations)
	start := time.Now()

	genes, score := ga.Optimize(optim.CoolingObjective(cfg.Pack, cfg.SimConfig()), 3)

	elapsed := time.Since(start)
	htc, depression, area := optim.CoolingParams(genes)

	fmt.Printf("completed in %v\n\n", elapsed)
	fmt.Printf("best score: %.4f\n", score)
	fmt.Printf("  htc: %.1f W/m²·°C\n", htc)
	fmt.Printf("  coolant depression: %.2f°C below ambient\n", depression)
	fmt.Printf("  area per zone: %.5f m²\n", area)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	pack, err := cfg.BuildPack()
	if err != nil {
		return err
	}

	var source therm.HeatSource
	if cfg.Run.Electrochem.Enabled {
		src, err := electrochem.New(cfg.Run.Electrochem.Model)
		if err != nil {
			return err
		}
		source = src
	}

	var planner sim.Planner
	if cfg.MPC.Enabled {
		planner = cfg.BuildMPC()
	}

	m := viz.NewModel(cfg.Scenario, pack, source, planner, cfg.Run.Current, cfg.Run.Dt, cfg.Run.ExternalHeat)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSTEPS\tDT\tCURRENT\tZONES\tCOOLING")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.1fA\t%d\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Current,
			run.Zones,
			run.Cooling,
		)
	}

	return w.Flush()
}

// loadRun resolves a run ID (or the literal "latest") to its metadata and
// temperature history.
func loadRun(st *storage.Store, runID string) (*storage.RunMetadata, therm.History, error) {
	var meta *storage.RunMetadata
	var err error
	if runID == "latest" {
		meta, err = st.Latest()
	} else {
		meta, err = st.Load(runID)
	}
	if err != nil {
		return nil, nil, err
	}

	history, err := st.LoadHistory(meta.ID)
	if err != nil {
		return nil, nil, err
	}
	return meta, history, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, history, err := loadRun(st, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", history.Steps())

	chart, err := viz.Plot(history, viz.PlotOptions{Height: plotHeight, Width: plotWidth})
	if err != nil {
		return err
	}
	fmt.Println(chart)
	return nil
}

func heatmapRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, history, err := loadRun(st, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s)\n\n", meta.ID, meta.Scenario)

	strip, err := viz.Heatmap(history)
	if err != nil {
		return err
	}
	fmt.Println(strip)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, history, err := loadRun(st, args[0])
	if err != nil {
		return err
	}

	if svgPath != "" {
		if err := export.HistoryToSVG(history, svgPath, svgWidth, svgHeight); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
		return nil
	}

	result := &sim.Result{
		History:    history,
		Metrics:    meta.Metrics,
		StepsTaken: history.Steps(),
	}
	return storage.ExportJSONStdout(meta.Scenario, meta.Cooling, meta.Dt, result)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCOOLING\tCURRENT\tSTEPS\tMPC")

	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%.1fA\t%d\t%t\n", name, p.Cooling.Type, p.Run.Current, p.Run.Steps, p.MPC.Enabled)
	}

	return w.Flush()
}
