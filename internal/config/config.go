package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/mdsim/internal/units"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSymbol             = "Cu"
	DefaultLattice            = "fcc"
	DefaultSize               = 3
	DefaultPotential          = "emt"
	DefaultIntegrator         = "verlet"
	DefaultTemperature        = 300.0
	DefaultTimestepFs         = 5.0
	DefaultStepsPerBatch      = 10
	DefaultBatches            = 20
	DefaultTrajectory         = "cu_traj"
	DefaultTrajectoryInterval = 10
)

// ErrInvalid indicates a configuration that fails validation.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Symbol             string  `yaml:"symbol"`
	Lattice            string  `yaml:"lattice"`
	Size               []int   `yaml:"size"`
	Periodic           bool    `yaml:"pbc"`
	LatticeConstant    float64 `yaml:"lattice_constant,omitempty"`
	Potential          string  `yaml:"potential"`
	Integrator         string  `yaml:"integrator"`
	TemperatureK       float64 `yaml:"temperature_k"`
	TimestepFs         float64 `yaml:"timestep_fs"`
	StepsPerBatch      int     `yaml:"steps_per_batch"`
	Batches            int     `yaml:"batches"`
	// Trajectory is the snapshot file; empty disables snapshots whatever the
	// interval.
	Trajectory         string  `yaml:"trajectory"`
	TrajectoryInterval int     `yaml:"trajectory_interval"`
	ReportInterval     int     `yaml:"report_interval,omitempty"`
	Seed               int64   `yaml:"seed,omitempty"`
	Stationary         bool    `yaml:"stationary,omitempty"`
	ForceTemperature   bool    `yaml:"force_temperature,omitempty"`
}

// DefaultConfig is the reference run: a 3×3×3 periodic copper crystal under
// EMT at 300 K, 20 batches of 10 steps of 5 fs.
func DefaultConfig() *Config {
	return &Config{
		Symbol:             DefaultSymbol,
		Lattice:            DefaultLattice,
		Size:               []int{DefaultSize, DefaultSize, DefaultSize},
		Periodic:           true,
		Potential:          DefaultPotential,
		Integrator:         DefaultIntegrator,
		TemperatureK:       DefaultTemperature,
		TimestepFs:         DefaultTimestepFs,
		StepsPerBatch:      DefaultStepsPerBatch,
		Batches:            DefaultBatches,
		Trajectory:         DefaultTrajectory,
		TrajectoryInterval: DefaultTrajectoryInterval,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be adjusted without mutating
// the table.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Size = append([]int(nil), c.Size...)
	return &cp
}

// TrajectoryEnabled reports whether the run writes snapshots.
func (c *Config) TrajectoryEnabled() bool {
	return c.Trajectory != "" && c.TrajectoryInterval > 0
}

// Dt returns the timestep in internal time units.
func (c *Config) Dt() float64 {
	return c.TimestepFs * units.Fs
}

// Repeats returns the lattice repeat counts.
func (c *Config) Repeats() [3]int {
	var r [3]int
	copy(r[:], c.Size)
	return r
}

func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalid)
	}
	if len(c.Size) != 3 {
		return fmt.Errorf("%w: size needs 3 repeat counts, got %v", ErrInvalid, c.Size)
	}
	for _, n := range c.Size {
		if n < 1 {
			return fmt.Errorf("%w: repeat counts must be positive, got %v", ErrInvalid, c.Size)
		}
	}
	if c.LatticeConstant < 0 {
		return fmt.Errorf("%w: negative lattice constant %g", ErrInvalid, c.LatticeConstant)
	}
	if c.TemperatureK < 0 {
		return fmt.Errorf("%w: negative temperature %g", ErrInvalid, c.TemperatureK)
	}
	if c.TimestepFs <= 0 {
		return fmt.Errorf("%w: timestep must be positive, got %g", ErrInvalid, c.TimestepFs)
	}
	if c.StepsPerBatch <= 0 || c.Batches <= 0 {
		return fmt.Errorf("%w: steps_per_batch and batches must be positive", ErrInvalid)
	}
	if c.TrajectoryInterval < 0 || c.ReportInterval < 0 {
		return fmt.Errorf("%w: intervals must not be negative", ErrInvalid)
	}
	return nil
}
