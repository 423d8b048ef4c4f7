package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/mdsim/internal/analysis"
	"github.com/san-kum/mdsim/internal/automation"
	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/optim"
	"github.com/san-kum/mdsim/internal/storage"
	"github.com/san-kum/mdsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepN     int

	basePreset string
	gridSpecs  []string
	objective  string
)

func toolCommands() []*cobra.Command {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a scenario file and record them",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one config parameter and compare energy statistics",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&basePreset, "preset", "test", "base preset")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "timestep_fs", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 10, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "n", 5, "number of points")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search config parameters minimising an objective",
		Example: "  mdsim optimize --grid lattice_constant=3.5,3.55,3.6,3.65,3.7 " +
			"--grid temperature_k=0 --objective mean_epot",
		Args: cobra.NoArgs,
		RunE: runOptimize,
	}
	optimizeCmd.Flags().StringVar(&basePreset, "preset", "test", "base preset")
	optimizeCmd.Flags().StringArrayVar(&gridSpecs, "grid", nil, "name=v1,v2,... (repeatable)")
	optimizeCmd.Flags().StringVar(&objective, "objective", "energy_drift", "value to minimise")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "plot the power spectrum of a run's kinetic energy",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSpectrum,
	}
	spectrumCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	spectrumCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	return []*cobra.Command{scenarioCmd, sweepCmd, optimizeCmd, spectrumCmd}
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	logger := newLogger()
	results, runErr := automation.RunScenario(ctx, sc, logger)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(sc.Name))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tSEED\tMEAN T\tMEAN ETOT\tDRIFT")
	for _, r := range results {
		runID, err := st.Save(r.Config, r.Seed, r.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1fK\t%.5feV\t%.2e\n",
			r.Name, runID, r.Seed, r.Result.Summary.MeanTemperature, r.Result.Summary.MeanEtot, r.Result.EnergyDrift)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func baseConfig() (*config.Config, error) {
	cfg := config.GetPreset(basePreset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", basePreset, config.ListPresets())
	}
	return cfg, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := baseConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	sweep := &automation.ParameterSweep{Base: base, Param: sweepParam, Min: sweepMin, Max: sweepMax, NumSteps: sweepN}
	results, err := automation.RunSweep(ctx, sweep, newLogger())
	if err != nil {
		return err
	}

	drift := make([]float64, len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tDRIFT\tETOT SPREAD\tMEAN T\tFINAL EPOT\n", strings.ToUpper(sweepParam))
	for i, r := range results {
		drift[i] = r.EnergyDrift
		fmt.Fprintf(w, "%g\t%.2e\t%.2e\t%.1fK\t%.5feV\n",
			r.ParamValue, r.EnergyDrift, r.EtotSpread, r.MeanTemperature, r.FinalEpot)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ndrift %s  (seed %d)\n", viz.Sparkline(drift, len(drift)), results[0].Seed)
	return nil
}

// parseGrid reads "name=v1,v2,..." args.
func parseGrid(args []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, arg := range args {
		name, list, ok := strings.Cut(arg, "=")
		if !ok || name == "" || list == "" {
			return nil, nil, fmt.Errorf("bad grid %q, want name=v1,v2", arg)
		}
		var vals []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad grid %q: %w", arg, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	if len(gridSpecs) == 0 {
		return fmt.Errorf("no --grid given (parameters: %v)", config.ParamNames())
	}
	names, ranges, err := parseGrid(gridSpecs)
	if err != nil {
		return err
	}
	base, err := baseConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	best, all, err := optim.NewGridSearch(names, ranges, newLogger()).Search(ctx, base, objective)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(objective))
	for _, p := range all {
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", p.Params[n])
		}
		fmt.Fprintf(w, "%.6g\n", p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%s %s = %.6g at", viz.Title.Render("best"), objective, best.Value)
	for _, n := range names {
		fmt.Printf(" %s=%g", n, best.Params[n])
	}
	fmt.Println()
	return nil
}

func plotSpectrum(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	dt, err := analysis.SampleSpacing(samples)
	if err != nil {
		return err
	}
	ekin := make([]float64, len(samples))
	for i, s := range samples {
		ekin[i] = s.Ekin
	}
	sp, err := analysis.PowerSpectrum(ekin, dt)
	if err != nil {
		return err
	}
	peak, err := sp.Dominant()
	if err != nil {
		return err
	}

	nyquist := sp.FreqTHz[len(sp.FreqTHz)-1]
	graph := asciigraph.Plot(sp.Power,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("Ekin power spectrum, 0..%.1f THz, peak %.2f THz", nyquist, peak)),
	)
	fmt.Println(graph)
	return nil
}
