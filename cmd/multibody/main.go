package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/multibody/internal/analysis"
	"github.com/san-kum/multibody/internal/config"
	"github.com/san-kum/multibody/internal/linalg"
	"github.com/san-kum/multibody/internal/metrics"
	"github.com/san-kum/multibody/internal/render"
	"github.com/san-kum/multibody/internal/sim"
	"github.com/san-kum/multibody/internal/storage"
)

var (
	dataDir     string
	dt          float64
	duration    float64
	links       int
	angle       float64
	gravity     float64
	recordEvery int
	configFile  string
	bodyIdx     int
	axis        int
	maxLinks    int
	trace       bool
	svgOut      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "multibody",
		Short: "constrained rigid-multibody chain simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".multibody", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a chain simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().IntVar(&links, "links", config.DefaultLinks, "number of chain links")
	runCmd.Flags().Float64Var(&angle, "angle", config.DefaultAngleDeg, "initial tilt angle (degrees)")
	runCmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravity magnitude")
	runCmd.Flags().IntVar(&recordEvery, "record-every", 10, "record a frame every N steps")
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body's trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&bodyIdx, "body", 1, "mobile body number (1-based)")
	plotCmd.Flags().BoolVar(&trace, "trace", false, "draw the body's z-y path instead of per-axis graphs")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata or an SVG trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&svgOut, "svg", "", "write the body's z-y path as SVG to this file")
	exportCmd.Flags().IntVar(&bodyIdx, "body", 1, "mobile body number (1-based)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate the dominant oscillation period",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bodyIdx, "body", 1, "mobile body number (1-based)")
	analyzeCmd.Flags().IntVar(&axis, "axis", 1, "position axis (0=x 1=y 2=z)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark chain lengths and timesteps",
		RunE:  benchChains,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run chain lengths 1..N concurrently and compare drift",
		RunE:  sweepChains,
	}
	sweepCmd.Flags().IntVar(&maxLinks, "max-links", 5, "longest chain to run")
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")

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

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, analyzeCmd, benchCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config

	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case len(args) == 1:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	default:
		cfg = config.Chain(links, angle)
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("gravity") {
		cfg.Gravity = gravity
	}
	if cmd.Flags().Changed("record-every") {
		cfg.RecordEvery = recordEvery
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sys, err := sim.FromConfig(cfg, linalg.NewDense())
	if err != nil {
		return err
	}
	if err := sys.Init(); err != nil {
		return err
	}

	runner := sim.NewRunner(sys)
	runner.AddMetric(metrics.NewConstraintDrift())
	runner.AddMetric(metrics.NewEnergyDrift())

	fmt.Printf("running %s (%d bodies, %d joints)...\n", cfg.Name, sys.NumBodies(), sys.NumJoints())
	start := time.Now()

	result, err := runner.Run(context.Background(), sim.Config{
		Duration:    cfg.Duration,
		RecordEvery: cfg.RecordEvery,
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Name, cfg.Dt, cfg.Duration, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6e\n", name, val)
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tDT\tBODIES\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Bodies,
			run.Steps,
		)
	}

	return w.Flush()
}

func bodyColumn(frames [][]float64, body, axis int) ([]float64, error) {
	col := (body-1)*3 + axis
	if len(frames) == 0 || col < 0 || col >= len(frames[0]) {
		return nil, fmt.Errorf("body %d axis %d out of range", body, axis)
	}
	data := make([]float64, len(frames))
	for i := range frames {
		data[i] = frames[i][col]
	}
	return data, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	_, frames, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(frames))

	if trace {
		ys, err := bodyColumn(frames, bodyIdx, 1)
		if err != nil {
			return err
		}
		zs, err := bodyColumn(frames, bodyIdx, 2)
		if err != nil {
			return err
		}
		fmt.Println(render.TracePath(60, 18, zs, ys))
		fmt.Printf("body %d path (z horizontal, y vertical)\n", bodyIdx)
		return nil
	}

	axes := []string{"x", "y", "z"}
	for a := 0; a < 3; a++ {
		data, err := bodyColumn(frames, bodyIdx, a)
		if err != nil {
			return err
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d %s vs time", bodyIdx, axes[a])),
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

	if svgOut != "" {
		_, frames, err := st.LoadTrajectory(args[0])
		if err != nil {
			return err
		}
		ys, err := bodyColumn(frames, bodyIdx, 1)
		if err != nil {
			return err
		}
		zs, err := bodyColumn(frames, bodyIdx, 2)
		if err != nil {
			return err
		}
		svg := render.PathSVG(zs, ys, 800, 600, "#00ff00")
		if svg == "" {
			return fmt.Errorf("not enough samples to draw")
		}
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	times, frames, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(times) < 2 {
		return fmt.Errorf("no data")
	}

	data, err := bodyColumn(frames, bodyIdx, axis)
	if err != nil {
		return err
	}

	sampleDt := times[1] - times[0]

	ps, _ := analysis.PowerSpectrum(data)
	plotData := ps
	if len(plotData) > len(ps)/4 {
		plotData = ps[:len(ps)/4]
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (body %d)", bodyIdx)),
	)
	fmt.Println(graph)
	fmt.Println()

	period := analysis.DominantPeriod(data, sampleDt)
	if period > 0 {
		fmt.Printf("dominant period: %.3f s (%.3f hz)\n", period, 1/period)
	} else {
		fmt.Println("no dominant oscillation found")
	}

	return nil
}

func benchChains(cmd *cobra.Command, args []string) error {
	chainSizes := []int{1, 2, 5}
	dts := []float64{0.01, 0.001}

	fmt.Println("benchmarking chains")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LINKS\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range chainSizes {
		for _, benchDt := range dts {
			cfg := config.Chain(n, config.DefaultAngleDeg)
			cfg.Dt = benchDt
			cfg.Duration = 1.0

			sys, err := sim.FromConfig(cfg, linalg.NewDense())
			if err != nil {
				return err
			}
			if err := sys.Init(); err != nil {
				return err
			}

			runner := sim.NewRunner(sys)
			start := time.Now()
			result, err := runner.Run(context.Background(), sim.Config{
				Duration:    cfg.Duration,
				RecordEvery: 100,
			})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%.4fs\t%d\t%v\t%.0f\n",
				n, benchDt, result.Steps, elapsed,
				float64(result.Steps)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func sweepChains(cmd *cobra.Command, args []string) error {
	if maxLinks < 1 {
		return fmt.Errorf("max-links must be at least 1")
	}

	cfgs := make([]*config.Config, maxLinks)
	for i := range cfgs {
		cfgs[i] = config.Chain(i+1, config.DefaultAngleDeg)
		if cmd.Flags().Changed("time") {
			cfgs[i].Duration = duration
		}
	}

	newMetrics := func() []sim.Metric {
		return []sim.Metric{metrics.NewConstraintDrift(), metrics.NewEnergyDrift()}
	}

	fmt.Printf("sweeping chains 1..%d\n\n", maxLinks)
	start := time.Now()

	results, err := sim.Sweep(context.Background(), linalg.NewDense(), cfgs, newMetrics)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LINKS\tSTEPS\tCONSTRAINT DRIFT\tENERGY DRIFT")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.3e\t%.3e\n",
			i+1, r.Steps, r.Metrics["constraint_drift"], r.Metrics["energy_drift"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	return nil
}
