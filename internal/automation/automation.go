package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/experiment"
	"github.com/san-kum/mdsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a preset (default "demo") with numeric overrides
// applied through config.SetParam. Trajectories are written only when the
// step names one.
type ScenarioStep struct {
	Name       string             `yaml:"name"`
	Preset     string             `yaml:"preset"`
	Potential  string             `yaml:"potential"`
	Params     map[string]float64 `yaml:"params"`
	Trajectory string             `yaml:"trajectory"`
}

// StepResult pairs a finished run with the configuration and seed it used.
type StepResult struct {
	Name   string
	Config *config.Config
	Seed   int64
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config resolves the run configuration of a step.
func (s ScenarioStep) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "demo"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}
	if s.Potential != "" {
		cfg.Potential = s.Potential
	}
	for k, v := range s.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	cfg.Trajectory = s.Trajectory
	if cfg.Trajectory == "" {
		cfg.TrajectoryInterval = 0
	}
	return cfg, cfg.Validate()
}

// RunScenario executes the steps in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}
		logger.Info("scenario step", "scenario", scenario.Name, "step", name, "index", i+1, "of", len(scenario.Steps))

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.New(cfg, logger)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx, nil)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Name: name, Config: cfg, Seed: exp.Seed(), Result: result})
	}

	return results, nil
}

// ParameterSweep runs Base with Param stepped evenly from Min to Max.
// Every point uses the same seed so only the parameter changes.
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min      float64
	Max      float64
	NumSteps int
}

// SweepResult holds the energy statistics of one sweep point.
type SweepResult struct {
	ParamValue      float64
	Seed            int64
	EnergyDrift     float64
	MeanEtot        float64
	EtotSpread      float64
	MeanTemperature float64
	FinalEpot       float64
}

// Values returns the parameter values visited by the sweep.
func (sw *ParameterSweep) Values() []float64 {
	if sw.NumSteps == 1 {
		return []float64{sw.Min}
	}
	vals := make([]float64, sw.NumSteps)
	step := (sw.Max - sw.Min) / float64(sw.NumSteps-1)
	for i := range vals {
		vals[i] = sw.Min + float64(i)*step
	}
	return vals
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *slog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one point, got %d", sweep.NumSteps)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	seed := sweep.Base.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	values := sweep.Values()
	results := make([]SweepResult, 0, len(values))
	for i, v := range values {
		cfg := sweep.Base.Clone()
		cfg.Seed = seed
		cfg.Trajectory = ""
		cfg.TrajectoryInterval = 0
		if err := cfg.SetParam(sweep.Param, v); err != nil {
			return nil, err
		}

		exp, err := experiment.New(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", sweep.Param, v, err)
		}
		result, err := exp.Run(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", sweep.Param, v, err)
		}

		sr := SweepResult{
			ParamValue:      v,
			Seed:            seed,
			EnergyDrift:     result.EnergyDrift,
			MeanEtot:        result.Summary.MeanEtot,
			EtotSpread:      result.Summary.EtotSpread,
			MeanTemperature: result.Summary.MeanTemperature,
		}
		if n := len(result.Samples); n > 0 {
			sr.FinalEpot = result.Samples[n-1].Epot
		}
		results = append(results, sr)

		logger.Info("sweep point", "index", i+1, "of", len(values), sweep.Param, v, "energy_drift", sr.EnergyDrift)
	}

	return results, nil
}
