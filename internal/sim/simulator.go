package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/mdsim/internal/atoms"
	"github.com/san-kum/mdsim/internal/metrics"
	"github.com/san-kum/mdsim/internal/units"
)

type intervalObserver struct {
	interval int
	obs      Observer
}

type Simulator struct {
	integrator Integrator
	atoms      *atoms.Atoms
	state      State
	logger     *slog.Logger

	openTrajectory TrajectoryOpener
	reporter       Reporter
	metrics        []Metric
	observers      []intervalObserver
}

func New(integrator Integrator, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Simulator{
		integrator: integrator,
		logger:     logger,
		metrics:    make([]Metric, 0),
		observers:  make([]intervalObserver, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// AddObserver registers o to fire every interval steps.
func (s *Simulator) AddObserver(interval int, o Observer) {
	s.observers = append(s.observers, intervalObserver{interval: interval, obs: o})
}

func (s *Simulator) SetTrajectory(open TrajectoryOpener) { s.openTrajectory = open }
func (s *Simulator) SetReporter(r Reporter)              { s.reporter = r }

func (s *Simulator) State() State        { return s.state }
func (s *Simulator) Atoms() *atoms.Atoms { return s.atoms }

// Configure builds the initial ensemble and moves the simulator from Unbuilt
// to Configured.
func (s *Simulator) Configure(build Builder) error {
	if s.state != Unbuilt {
		return fmt.Errorf("%w: configure while %s", ErrInvalidTransition, s.state)
	}
	a, err := build()
	if err != nil {
		return fmt.Errorf("sim: build: %w", err)
	}
	if a.Calculator() == nil {
		return fmt.Errorf("sim: build: %w", atoms.ErrNoCalculator)
	}
	s.atoms = a
	s.state = Configured
	s.logger.Debug("ensemble configured", "atoms", a.Len())
	return nil
}

// Run advances the configured ensemble cfg.Batches times by
// cfg.StepsPerBatch steps. Observers fire on the absolute step count, and
// the trajectory is closed on every return path.
func (s *Simulator) Run(ctx context.Context, cfg Config) (res *Result, err error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if s.state != Configured {
		return nil, fmt.Errorf("%w: run while %s", ErrInvalidTransition, s.state)
	}
	s.state = Running

	result := &Result{
		Samples: make([]metrics.Sample, 0, cfg.Batches+1),
		Metrics: make(map[string]float64),
	}
	defer func() {
		if err != nil {
			s.state = Failed
			return
		}
		s.state = Completed
	}()

	observers := make([]intervalObserver, 0, len(s.observers)+2)
	if s.openTrajectory != nil && cfg.TrajectoryInterval > 0 {
		traj, oerr := s.openTrajectory()
		if oerr != nil {
			return result, &SimError{Step: 0, Wrapped: oerr}
		}
		defer func() {
			if cerr := traj.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("sim: close trajectory: %w", cerr))
			}
		}()
		observers = append(observers, intervalObserver{
			interval: cfg.TrajectoryInterval,
			obs: ObserverFunc(func(step int, a *atoms.Atoms) error {
				if err := traj.Write(a); err != nil {
					return err
				}
				result.Frames++
				return nil
			}),
		})
	}

	report := func(step int, a *atoms.Atoms) error {
		r, err := metrics.Compute(a)
		if err != nil {
			return err
		}
		sample := metrics.Sample{Step: step, TimeFs: float64(step) * cfg.Dt / units.Fs, Report: r}
		result.Samples = append(result.Samples, sample)
		if s.reporter != nil {
			s.reporter(sample)
		}
		return nil
	}
	if cfg.ReportInterval > 0 {
		observers = append(observers, intervalObserver{interval: cfg.ReportInterval, obs: ObserverFunc(report)})
	}
	observers = append(observers, s.observers...)

	for _, m := range s.metrics {
		m.Reset()
	}

	s.logger.Info("run started",
		"atoms", s.atoms.Len(),
		"dt_fs", cfg.Dt/units.Fs,
		"steps", cfg.TotalSteps(),
	)

	step := 0
	if err := s.observe(step, observers); err != nil {
		return result, err
	}
	if cfg.ReportInterval == 0 {
		if err := report(step, s.atoms); err != nil {
			return result, &SimError{Step: step, Wrapped: err}
		}
	}

	for b := 0; b < cfg.Batches; b++ {
		for i := 0; i < cfg.StepsPerBatch; i++ {
			select {
			case <-ctx.Done():
				return result, &SimError{Step: step, Wrapped: ctx.Err()}
			default:
			}

			if err := s.integrator.Step(s.atoms, cfg.Dt); err != nil {
				return result, &SimError{Step: step, Wrapped: err}
			}
			step++
			result.StepsTaken = step

			if err := s.observe(step, observers); err != nil {
				return result, err
			}
		}

		if cfg.ReportInterval == 0 {
			if err := report(step, s.atoms); err != nil {
				return result, &SimError{Step: step, Wrapped: err}
			}
		}
		s.logger.Debug("batch done", "batch", b+1, "step", step)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Summary = metrics.Summarize(result.Samples)
	result.EnergyDrift = energyDrift(result.Samples)

	s.logger.Info("run completed",
		"steps", result.StepsTaken,
		"frames", result.Frames,
		"energy_drift", result.EnergyDrift,
	)
	return result, nil
}

// observe fires metrics on every step and observers whose interval divides step.
func (s *Simulator) observe(step int, observers []intervalObserver) error {
	for _, m := range s.metrics {
		if err := m.Observe(s.atoms); err != nil {
			return &SimError{Step: step, Wrapped: fmt.Errorf("metric %s: %w", m.Name(), err)}
		}
	}
	for _, o := range observers {
		if o.interval > 0 && step%o.interval == 0 {
			if err := o.obs.OnStep(step, s.atoms); err != nil {
				return &SimError{Step: step, Wrapped: err}
			}
		}
	}
	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.StepsPerBatch <= 0 {
		return fmt.Errorf("%w: steps per batch must be positive, got %d", ErrInvalidConfig, cfg.StepsPerBatch)
	}
	if cfg.Batches <= 0 {
		return fmt.Errorf("%w: batches must be positive, got %d", ErrInvalidConfig, cfg.Batches)
	}
	if cfg.TrajectoryInterval < 0 || cfg.ReportInterval < 0 {
		return fmt.Errorf("%w: intervals must not be negative", ErrInvalidConfig)
	}
	return nil
}

// energyDrift is the largest |Etot - Etot(0)| per atom over the samples.
func energyDrift(samples []metrics.Sample) float64 {
	drift := 0.0
	for _, s := range samples {
		drift = math.Max(drift, math.Abs(s.Etot-samples[0].Etot))
	}
	return drift
}
