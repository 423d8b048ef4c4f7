package main

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/experiment"
	"github.com/san-kum/mdsim/internal/export"
	"github.com/san-kum/mdsim/internal/logging"
	"github.com/san-kum/mdsim/internal/metrics"
	"github.com/san-kum/mdsim/internal/sim"
	"github.com/san-kum/mdsim/internal/storage"
	"github.com/san-kum/mdsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string

	configFile  string
	preset      string
	seed        int64
	temperature float64
	size        int
	timestep    float64
	steps       int
	batches     int
	trajPath    string
	replicas    int
	noSave      bool

	plotWidth  int
	plotHeight int
	exportOut  string
	exportSVG  string
)

// main registers the commands and runs the reference simulation when no
// subcommand is given. Any error exits with status 1.
func main() {
	rootCmd := &cobra.Command{
		Use:           "mdsim",
		Short:         "constant-energy molecular dynamics of a copper crystal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDemo,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mdsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a configured simulation and record it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 draws one from the clock)")
	runCmd.Flags().Float64Var(&temperature, "temperature", config.DefaultTemperature, "initial temperature in K")
	runCmd.Flags().IntVar(&size, "size", config.DefaultSize, "lattice repeats along each axis")
	runCmd.Flags().Float64Var(&timestep, "timestep", config.DefaultTimestepFs, "timestep in fs")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultStepsPerBatch, "steps per batch")
	runCmd.Flags().IntVar(&batches, "batches", config.DefaultBatches, "number of batches")
	runCmd.Flags().StringVar(&trajPath, "trajectory", config.DefaultTrajectory, "trajectory file (empty disables)")
	runCmd.Flags().IntVar(&replicas, "replicas", 1, "independent runs with consecutive seeds")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file with the default settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				if cfg = config.GetPreset(preset); cfg == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
				}
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energy series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and energies as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&exportSVG, "svg", "", "also write an energy chart to this svg file")

	rootCmd.AddCommand(runCmd, presetsCmd, initCmd, listCmd, plotCmd, exportCmd)
	rootCmd.AddCommand(toolCommands()...)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mdsim: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return logging.New(logging.ParseLevel(logLevel))
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func printSample(s metrics.Sample) {
	fmt.Println(s.Report.String())
}

// runDemo is the reference run: Cu fcc 3x3x3 under EMT at 300 K, 20 batches
// of 10 steps of 5 fs, a trajectory frame every 10 steps.
func runDemo(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	exp, err := experiment.New(config.DefaultConfig(), newLogger())
	if err != nil {
		return err
	}
	_, err = exp.Run(ctx, printSample)
	return err
}

// resolveConfig layers preset, config file and explicitly set flags, in that
// order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("temperature") {
		cfg.TemperatureK = temperature
	}
	if flags.Changed("size") {
		cfg.Size = []int{size, size, size}
	}
	if flags.Changed("timestep") {
		cfg.TimestepFs = timestep
	}
	if flags.Changed("steps") {
		cfg.StepsPerBatch = steps
	}
	if flags.Changed("batches") {
		cfg.Batches = batches
	}
	if flags.Changed("trajectory") {
		cfg.Trajectory = trajPath
		if trajPath == "" {
			cfg.TrajectoryInterval = 0
		}
	}
	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	logger := newLogger()
	exp, err := experiment.New(cfg, logger)
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	start := time.Now()
	var results []*sim.Result
	if replicas > 1 {
		fmt.Printf("running %d replicas of %s %s (%s)...\n", replicas, cfg.Lattice, cfg.Symbol, cfg.Potential)
		results, err = exp.RunReplicas(ctx, replicas)
	} else {
		var res *sim.Result
		res, err = exp.Run(ctx, printSample)
		results = []*sim.Result{res}
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("\ncompleted in %v (seed %d)\n", elapsed.Round(time.Millisecond), exp.Seed())
	for i, res := range results {
		runSeed := exp.Seed() + int64(i)
		if replicas > 1 {
			fmt.Printf("replica %d: seed %d, drift %.2e, mean T %.1f K\n",
				i, runSeed, res.EnergyDrift, res.Summary.MeanTemperature)
		}
		if st == nil {
			continue
		}
		runID, err := st.Save(cfg, runSeed, res)
		if err != nil {
			return err
		}
		logger.Info("run recorded", "id", runID, "steps", res.StepsTaken, "frames", res.Frames)
		fmt.Printf("run id: %s\n", runID)
	}

	if replicas == 1 {
		res := results[0]
		fmt.Printf("steps: %d, frames: %d\n", res.StepsTaken, res.Frames)
		fmt.Println("\nmetrics:")
		for _, name := range slices.Sorted(maps.Keys(res.Metrics)) {
			fmt.Printf("  %s: %.6g\n", name, res.Metrics[name])
		}
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println(viz.Title.Render("presets"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSYSTEM\tSIZE\tPOTENTIAL\tT\tDT\tSTEPS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s %s\t%v\t%s\t%.0fK\t%.1ffs\t%dx%d\n",
			name, p.Lattice, p.Symbol, p.Size, p.Potential,
			p.TemperatureK, p.TimestepFs, p.Batches, p.StepsPerBatch)
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
		fmt.Println(viz.Subtle.Render("no runs found"))
		return nil
	}

	fmt.Println(viz.Title.Render("runs"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSYSTEM\tPOTENTIAL\tT\tSTEPS\tSEED\tDRIFT")
	for _, run := range runs {
		cfg := run.Config
		if cfg == nil {
			cfg = &config.Config{}
		}
		fmt.Fprintf(w, "%s\t%s\t%s %s %v\t%s\t%.0fK\t%d\t%d\t%.2e\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			cfg.Lattice, cfg.Symbol, cfg.Size,
			cfg.Potential,
			cfg.TemperatureK,
			run.Steps,
			run.Seed,
			run.EnergyDrift,
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
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	graphs, err := viz.EnergyPlots(samples, plotWidth, plotHeight)
	if err != nil {
		return err
	}

	temps := make([]float64, len(samples))
	for i, s := range samples {
		temps[i] = s.Temperature
	}

	fmt.Println(viz.SummaryBox(meta.ID, metrics.Summarize(samples), meta.EnergyDrift))
	fmt.Printf("T %s\n\n", viz.Sparkline(temps, plotWidth/2))
	fmt.Println(graphs)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if exportSVG != "" {
		samples, err := st.LoadSamples(args[0])
		if err != nil {
			return err
		}
		if err := export.WriteEnergySVGFile(exportSVG, samples, 800, 400); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", exportSVG)
	}
	if exportOut != "" {
		if err := st.ExportFile(exportOut, args[0]); err != nil {
			return err
		}
		fmt.Printf("exported %s to %s\n", args[0], exportOut)
		return nil
	}
	return st.Export(os.Stdout, args[0])
}
