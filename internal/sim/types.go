package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/mdsim/internal/atoms"
	"github.com/san-kum/mdsim/internal/metrics"
	"github.com/san-kum/mdsim/internal/units"
)

var (
	// ErrInvalidTransition indicates an operation not allowed in the
	// simulator's current state.
	ErrInvalidTransition = errors.New("sim: invalid state transition")

	// ErrInvalidConfig indicates a run configuration that cannot be executed.
	ErrInvalidConfig = errors.New("sim: invalid run config")
)

// State is the lifecycle stage of a Simulator.
type State int

const (
	Unbuilt State = iota
	Configured
	Running
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case Configured:
		return "configured"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Integrator advances an ensemble by one timestep.
type Integrator interface {
	Step(a *atoms.Atoms, dt float64) error
}

// Builder produces the initial ensemble with its calculator attached and
// momenta initialized.
type Builder func() (*atoms.Atoms, error)

// Observer is called after every step whose absolute index is a multiple of
// its interval, step 0 included.
type Observer interface {
	OnStep(step int, a *atoms.Atoms) error
}

type ObserverFunc func(step int, a *atoms.Atoms) error

func (f ObserverFunc) OnStep(step int, a *atoms.Atoms) error { return f(step, a) }

// Metric accumulates a scalar over every step of a run.
type Metric interface {
	Name() string
	Observe(a *atoms.Atoms) error
	Value() float64
	Reset()
}

// TrajectoryWriter is an append-only sink of configurations.
type TrajectoryWriter interface {
	Write(a *atoms.Atoms) error
	Close() error
}

// TrajectoryOpener opens the trajectory at run start. The simulator closes
// what it opens.
type TrajectoryOpener func() (TrajectoryWriter, error)

// Reporter receives every energy sample as it is taken.
type Reporter func(metrics.Sample)

type Config struct {
	// Dt is the timestep in internal time units (see package units).
	Dt            float64
	StepsPerBatch int
	Batches       int
	// TrajectoryInterval is the step interval between snapshots; zero
	// disables the trajectory.
	TrajectoryInterval int
	// ReportInterval is the step interval between energy reports. Zero
	// reports at step 0 and after every batch.
	ReportInterval int
}

func DefaultConfig() Config {
	return Config{
		Dt:                 5 * units.Fs,
		StepsPerBatch:      10,
		Batches:            20,
		TrajectoryInterval: 10,
	}
}

// TotalSteps is the number of integrator steps a run performs.
func (c Config) TotalSteps() int { return c.StepsPerBatch * c.Batches }

type Result struct {
	StepsTaken  int
	Samples     []metrics.Sample
	Frames      int
	Metrics     map[string]float64
	Summary     metrics.Summary
	EnergyDrift float64
}

// SimError wraps an error with the step at which the run failed.
type SimError struct {
	Step    int
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
