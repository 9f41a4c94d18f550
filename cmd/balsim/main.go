package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/balsimlab/balsim/internal/config"
	"github.com/balsimlab/balsim/internal/dataset"
	"github.com/balsimlab/balsim/internal/experiment"
	"github.com/balsimlab/balsim/internal/export"
	"github.com/balsimlab/balsim/internal/flight"
	"github.com/balsimlab/balsim/internal/physics"
	"github.com/balsimlab/balsim/internal/storage"
	"github.com/balsimlab/balsim/internal/sweep"
	"github.com/balsimlab/balsim/internal/viz"
)

var (
	dataDir    string
	speed      float64
	angle      float64
	drag       float64
	gravity    float64
	wind       float64
	dt         float64
	tolerance  float64
	maxTime    float64
	integrator string
	seed       int64
	configFile string
	preset     string
	// dataset generation
	outPath  string
	numRuns  int
	interval float64
	jitter   float64
	// range curves
	curveMode string
	curveMin  float64
	curveMax  float64
	samples   int
	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// export
	svgOut string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "balsim",
		Short: "projectile flight simulator and dataset generator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".balsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a flight and store the trajectory",
		RunE:  runFlight,
	}
	addPhysicsFlags(runCmd)

	datasetCmd := &cobra.Command{
		Use:   "dataset",
		Short: "generate noisy sampled trajectory CSV files",
		RunE:  generateDataset,
	}
	addPhysicsFlags(datasetCmd)
	datasetCmd.Flags().StringVar(&outPath, "out", "trajectory.csv", "output file path")
	datasetCmd.Flags().IntVar(&numRuns, "runs", 1, "number of files to generate")
	datasetCmd.Flags().Float64Var(&interval, "interval", config.DefaultInterval, "sampling interval (s)")
	datasetCmd.Flags().Float64Var(&jitter, "jitter", config.DefaultJitter, "uniform position jitter amplitude (m)")

	rangeCmd := &cobra.Command{
		Use:   "range",
		Short: "plot drag-free range curves",
		RunE:  plotRangeCurve,
	}
	rangeCmd.Flags().StringVar(&curveMode, "mode", "speed", "curve mode: speed or angle")
	rangeCmd.Flags().Float64Var(&curveMin, "min", 0, "domain lower bound")
	rangeCmd.Flags().Float64Var(&curveMax, "max", 0, "domain upper bound")
	rangeCmd.Flags().IntVar(&samples, "samples", 50, "number of samples")
	rangeCmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "launch speed for angle mode (m/s)")
	rangeCmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational acceleration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a stored trajectory to stdout as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a stored run to stdout as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a stored trajectory to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "", "output path (default <run_id>.svg)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark integrators across step sizes",
		RunE:  benchIntegrators,
	}
	addPhysicsFlags(benchCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same launch",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addPhysicsFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and plot the resulting ranges",
		RunE:  runSweep,
	}
	addPhysicsFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "drag", "parameter to sweep: drag|gravity|wind|speed|angle")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "sweep lower bound")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.01, "sweep upper bound")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 20, "number of sweep steps")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the flight in the terminal",
		RunE:  runLive,
	}
	addPhysicsFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, datasetCmd, rangeCmd, listCmd, plotCmd, exportCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, benchCmd, compareCmd, sweepCmd,
		liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPhysicsFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "launch speed (m/s)")
	cmd.Flags().Float64Var(&angle, "angle", config.DefaultAngle, "launch angle (radians)")
	cmd.Flags().Float64Var(&drag, "drag", config.DefaultDrag, "drag coefficient per unit mass (1/m)")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational acceleration (m/s^2)")
	cmd.Flags().Float64Var(&wind, "wind", 0, "horizontal wind speed (m/s)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "checkpoint interval / max solver step (s)")
	cmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTol, "adaptive error tolerance")
	cmd.Flags().Float64Var(&maxTime, "max-time", config.DefaultMaxTime, "flight time limit (s)")
	cmd.Flags().StringVar(&integrator, "integrator", "rk45", "integrator: euler|rk4|rk45")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig merges preset, config file, and CLI flags; later sources
// win only for flags the user actually changed.
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

	flagOverrides := []struct {
		name string
		dst  *float64
		src  float64
	}{
		{"speed", &cfg.Launch.Speed, speed},
		{"angle", &cfg.Launch.Angle, angle},
		{"drag", &cfg.Params.Drag, drag},
		{"gravity", &cfg.Params.Gravity, gravity},
		{"wind", &cfg.Params.Wind, wind},
		{"dt", &cfg.Dt, dt},
		{"tol", &cfg.Tolerance, tolerance},
		{"max-time", &cfg.MaxFlightTime, maxTime},
	}
	for _, fo := range flagOverrides {
		if cmd.Flags().Changed(fo.name) {
			*fo.dst = fo.src
		}
	}
	if cmd.Flags().Changed("integrator") || cfg.Integrator == "" {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if f := cmd.Flags().Lookup("interval"); f != nil && f.Changed {
		cfg.Sampling.Interval = interval
	}
	if f := cmd.Flags().Lookup("jitter"); f != nil && f.Changed {
		cfg.Sampling.Jitter = jitter
	}

	return cfg, nil
}

func runFlight(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(registry); err != nil {
		return err
	}

	fmt.Printf("launching at %.1f m/s, %.3f rad...\n", cfg.Launch.Speed, cfg.Launch.Angle)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Speed:      cfg.Launch.Speed,
		Angle:      cfg.Launch.Angle,
		Drag:       cfg.Params.Drag,
		Gravity:    cfg.Params.Gravity,
		Wind:       cfg.Params.Wind,
		Dt:         cfg.Dt,
		Integrator: cfg.Integrator,
		Seed:       cfg.Seed,
	}
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("status: %s\n", result.Status)
	if result.Err != nil {
		fmt.Printf("terminated early: %v\n", result.Err)
	}
	fmt.Printf("samples: %d\n", len(result.States))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func generateDataset(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()

	if numRuns <= 1 {
		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return err
		}
		rows, result, err := exp.GenerateDataset(context.Background())
		if err != nil {
			return err
		}
		if err := dataset.WriteFile(outPath, rows); err != nil {
			return err
		}
		fmt.Printf("wrote %d rows to %s (%s)\n", len(rows), outPath, result.Status)
		return nil
	}

	// identical flights, so fly them concurrently and jitter each copy
	// with its own seeded stream
	newSim := func() *flight.Simulator {
		integ, err := registry.GetIntegrator(cfg.Integrator)
		if err != nil {
			return nil
		}
		return flight.New(physics.NewProjectile(cfg.Params.Drag, cfg.Params.Gravity, cfg.Params.Wind), integ)
	}
	if _, err := registry.GetIntegrator(cfg.Integrator); err != nil {
		return err
	}

	fc := flight.DefaultConfig()
	fc.Dt = cfg.Dt
	fc.Tolerance = cfg.Tolerance
	fc.MaxFlightTime = cfg.MaxFlightTime

	volley := flight.NewVolley(newSim, numRuns)
	results, err := volley.Run(context.Background(),
		flight.Launch{Speed: cfg.Launch.Speed, Angle: cfg.Launch.Angle}, fc)
	if err != nil {
		return err
	}

	for i, result := range results {
		rows := flight.Downsample(result, cfg.Dt, cfg.Sampling.Interval)
		rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
		rows = flight.Perturb(rows, cfg.Sampling.Jitter, rng)

		path := indexedPath(outPath, i)
		if err := dataset.WriteFile(path, rows); err != nil {
			return err
		}
		fmt.Printf("wrote %d rows to %s\n", len(rows), path)
	}
	return nil
}

// indexedPath turns "data.csv" into "data_03.csv".
func indexedPath(path string, idx int) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s_%02d%s", base, idx, ext)
}

func plotRangeCurve(cmd *cobra.Command, args []string) error {
	var curve physics.Curve
	var caption string

	switch curveMode {
	case "speed":
		lo, hi := curveMin, curveMax
		if hi <= lo {
			lo, hi = 0, 150
		}
		curve = physics.RangeVsSpeed(lo, hi, samples, gravity)
		caption = "range (m) vs launch speed (m/s), angle=pi/4"
	case "angle":
		lo, hi := curveMin, curveMax
		if hi <= lo {
			lo, hi = 0, math.Pi/2
		}
		curve = physics.RangeVsAngle(speed, lo, hi, samples, gravity)
		caption = fmt.Sprintf("range (m) vs launch angle (rad), v=%.0f m/s", speed)
	default:
		return fmt.Errorf("unknown mode: %s (want speed or angle)", curveMode)
	}

	graph := asciigraph.Plot(curve.Y,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tRANGE\n", strings.ToUpper(curveMode))
	step := len(curve.X) / 10
	if step < 1 {
		step = 1
	}
	for i := 0; i < len(curve.X); i += step {
		fmt.Fprintf(w, "%.3f\t%.2f\n", curve.X[i], curve.Y[i])
	}
	return w.Flush()
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
	fmt.Fprintln(w, "ID\tTIME\tSPEED\tANGLE\tDRAG\tWIND\tSTATUS\tRANGE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%.3f\t%.4f\t%.1f\t%s\t%.1f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Speed,
			run.Angle,
			run.Drag,
			run.Wind,
			run.Status,
			run.Metrics["range"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("status: %s\n", meta.Status)
	fmt.Printf("samples: %d\n\n", len(states))

	captions := map[int]string{
		physics.PosX: "x (downrange, m)",
		physics.VelX: "vx (m/s)",
		physics.PosY: "y (altitude, m)",
		physics.VelY: "vy (m/s)",
	}

	for varIdx := 0; varIdx < len(states[0]); varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			data[i] = states[i][varIdx]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(captions[varIdx]),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, times, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "x", "vx", "y", "vy"}); err != nil {
		return err
	}
	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, states, times)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	states, _, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(states) < 2 {
		return fmt.Errorf("not enough data to render")
	}

	xs := make([]float64, len(states))
	ys := make([]float64, len(states))
	for i, s := range states {
		xs[i] = s[physics.PosX]
		ys[i] = s[physics.PosY]
	}

	svg := export.TrajectoryToSVG(xs, ys, 800, 400, "#00ff88")
	if svg == "" {
		return fmt.Errorf("failed to render trajectory")
	}

	path := svgOut
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func benchIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	dts := []float64{0.0005, 0.001, 0.01}
	names := []string{"euler", "rk4", "rk45"}

	fmt.Printf("benchmarking launch v=%.0f theta=%.3f\n\n", cfg.Launch.Speed, cfg.Launch.Angle)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tDT\tSAMPLES\tRANGE\tTIME")

	for _, name := range names {
		for _, stepSize := range dts {
			runCfg := *cfg
			runCfg.Integrator = name
			runCfg.Dt = stepSize

			exp := experiment.New(&runCfg)
			if err := exp.Setup(registry); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%.4fs\t%d\t%.2f\t%v\n",
				name, stepSize, len(result.States), result.Range(), elapsed)
		}
	}

	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()

	// closed-form reference only meaningful in vacuum
	analytic := math.NaN()
	if cfg.Params.Drag == 0 && cfg.Params.Wind == 0 {
		analytic = physics.Range(cfg.Launch.Speed, cfg.Launch.Angle, cfg.Params.Gravity)
	}

	fmt.Printf("comparing integrators (dt=%.4f, v=%.0f, theta=%.3f)\n\n", cfg.Dt, cfg.Launch.Speed, cfg.Launch.Angle)
	fmt.Printf("%-12s  %-12s  %-12s  %-12s\n", "integrator", "range", "vs_analytic", "time_ms")
	fmt.Println(strings.Repeat("-", 54))

	for _, name := range args {
		runCfg := *cfg
		runCfg.Integrator = name

		exp := experiment.New(&runCfg)
		if err := exp.Setup(registry); err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		diff := "n/a"
		if !math.IsNaN(analytic) {
			diff = fmt.Sprintf("%.4f", result.Range()-analytic)
		}

		fmt.Printf("%-12s  %12.4f  %12s  %12.2f\n", name, result.Range(), diff, float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	points, err := sweep.Run(context.Background(), cfg, registry, sweep.Sweep{
		Param: sweepParam,
		Min:   sweepMin,
		Max:   sweepMax,
		Steps: sweepSteps,
	})
	if err != nil {
		return err
	}

	ranges := make([]float64, len(points))
	for i, p := range points {
		ranges[i] = p.Range
	}

	graph := asciigraph.Plot(ranges,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("range (m) vs %s [%g..%g]", sweepParam, sweepMin, sweepMax)),
	)
	fmt.Println(graph)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tRANGE\tAPEX\tFLIGHT_TIME\tSTATUS\n", strings.ToUpper(sweepParam))
	for _, p := range points {
		fmt.Fprintf(w, "%.5f\t%.2f\t%.2f\t%.3f\t%s\n", p.Value, p.Range, p.Apex, p.FlightTime, p.Status)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	integ, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}

	proj := physics.NewProjectile(cfg.Params.Drag, cfg.Params.Gravity, cfg.Params.Wind)
	if err := proj.Validate(); err != nil {
		return err
	}

	// a coarser step keeps the animation watchable
	liveDt := cfg.Dt
	if liveDt < 0.005 {
		liveDt = 0.005
	}

	m := viz.NewModel(proj, integ, flight.Launch{Speed: cfg.Launch.Speed, Angle: cfg.Launch.Angle}, liveDt)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
