package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/mdsim/internal/atoms"
	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/lattice"
	"github.com/san-kum/mdsim/internal/sim"
	"github.com/san-kum/mdsim/internal/trajectory"
	"golang.org/x/exp/rand"
)

// Experiment turns a run configuration into configured simulators.
type Experiment struct {
	cfg      *config.Config
	seed     int64
	registry *Registry
	logger   *slog.Logger
}

// New validates cfg. A zero seed is replaced by one drawn from the clock;
// Seed reports the value actually used so the run can be repeated.
func New(cfg *config.Config, logger *slog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Experiment{
		cfg:      cfg,
		seed:     seed,
		registry: NewRegistry(),
		logger:   logger,
	}, nil
}

func (e *Experiment) Seed() int64            { return e.seed }
func (e *Experiment) Config() *config.Config { return e.cfg }
func (e *Experiment) Registry() *Registry    { return e.registry }

// SimConfig returns the driver settings of the run.
func (e *Experiment) SimConfig() sim.Config {
	interval := 0
	if e.cfg.TrajectoryEnabled() {
		interval = e.cfg.TrajectoryInterval
	}
	return sim.Config{
		Dt:                 e.cfg.Dt(),
		StepsPerBatch:      e.cfg.StepsPerBatch,
		Batches:            e.cfg.Batches,
		TrajectoryInterval: interval,
		ReportInterval:     e.cfg.ReportInterval,
	}
}

// Builder returns the construction step for the given seed: lattice,
// potential, then Maxwell-Boltzmann momenta.
func (e *Experiment) Builder(seed int64) sim.Builder {
	return func() (*atoms.Atoms, error) {
		structure, err := lattice.ParseStructure(e.cfg.Lattice)
		if err != nil {
			return nil, err
		}
		pbc := [3]bool{e.cfg.Periodic, e.cfg.Periodic, e.cfg.Periodic}
		a, err := lattice.Build(structure, e.cfg.Symbol, e.cfg.Repeats(), pbc, e.cfg.LatticeConstant)
		if err != nil {
			return nil, err
		}

		calc, err := e.registry.GetPotential(e.cfg.Potential, e.cfg.Symbol)
		if err != nil {
			return nil, err
		}
		a.SetCalculator(calc)

		opts := integrators.VelocityOptions{
			Stationary:       e.cfg.Stationary,
			ForceTemperature: e.cfg.ForceTemperature,
		}
		if err := integrators.MaxwellBoltzmann(a, e.cfg.TemperatureK, rand.NewSource(uint64(seed)), opts); err != nil {
			return nil, err
		}
		return a, nil
	}
}

// Simulator assembles and configures a simulator writing its trajectory to
// trajPath; an empty path disables the trajectory.
func (e *Experiment) Simulator(seed int64, trajPath string) (*sim.Simulator, error) {
	integ, err := e.registry.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return nil, err
	}

	s := sim.New(integ, e.logger.With("seed", seed))
	for _, m := range e.registry.DefaultMetrics() {
		s.AddMetric(m)
	}
	if trajPath != "" {
		s.SetTrajectory(func() (sim.TrajectoryWriter, error) {
			return trajectory.Create(trajPath)
		})
	}
	if err := s.Configure(e.Builder(seed)); err != nil {
		return nil, err
	}
	return s, nil
}

// Run performs the configured run, passing every energy sample to reporter.
func (e *Experiment) Run(ctx context.Context, reporter sim.Reporter) (*sim.Result, error) {
	s, err := e.Simulator(e.seed, e.cfg.Trajectory)
	if err != nil {
		return nil, err
	}
	s.SetReporter(reporter)
	return s.Run(ctx, e.SimConfig())
}

// RunReplicas performs n independent runs with seeds Seed(), Seed()+1, ...
// Replica i writes its trajectory to "<trajectory>_r<i>".
func (e *Experiment) RunReplicas(ctx context.Context, n int) ([]*sim.Result, error) {
	if n < 1 {
		return nil, fmt.Errorf("experiment: replica count must be positive, got %d", n)
	}
	factory := func(seed int64) (*sim.Simulator, error) {
		path := ""
		if e.cfg.Trajectory != "" {
			path = fmt.Sprintf("%s_r%d", e.cfg.Trajectory, seed-e.seed)
		}
		return e.Simulator(seed, path)
	}
	return sim.NewReplicas(factory, n, e.seed).Run(ctx, e.SimConfig())
}
