package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/mdsim/internal/atoms"
	"github.com/san-kum/mdsim/internal/units"
)

var (
	// ErrNoAtoms indicates a per-atom reduction over an empty ensemble.
	ErrNoAtoms = errors.New("metrics: ensemble has no atoms")

	// ErrNonFinite indicates the ensemble reported a NaN or Inf energy.
	ErrNonFinite = errors.New("metrics: non-finite energy")
)

// Ensemble is what the energy reduction needs to know about a configuration.
type Ensemble interface {
	Len() int
	PotentialEnergy() (float64, error)
	KineticEnergy() float64
}

// Report holds per-atom energies in eV and the instantaneous temperature in K.
type Report struct {
	Epot        float64 `json:"epot"`
	Ekin        float64 `json:"ekin"`
	Temperature float64 `json:"temperature"`
	Etot        float64 `json:"etot"`
}

func (r Report) String() string {
	return fmt.Sprintf("Energy per atom: Epot = %.3feV  Ekin = %.3feV (T=%3.0fK)  Etot = %.3feV",
		r.Epot, r.Ekin, r.Temperature, r.Etot)
}

// Compute reduces the ensemble to per-atom energies. The temperature follows
// equipartition with three degrees of freedom per atom: Ekin = 1.5·kB·T.
func Compute(e Ensemble) (Report, error) {
	n := e.Len()
	if n == 0 {
		return Report{}, ErrNoAtoms
	}

	epot, err := e.PotentialEnergy()
	if err != nil {
		return Report{}, fmt.Errorf("metrics: potential energy: %w", err)
	}
	ekin := e.KineticEnergy()
	if math.IsNaN(epot) || math.IsInf(epot, 0) || math.IsNaN(ekin) || math.IsInf(ekin, 0) {
		return Report{}, fmt.Errorf("%w: epot=%v ekin=%v", ErrNonFinite, epot, ekin)
	}

	r := Report{
		Epot: epot / float64(n),
		Ekin: ekin / float64(n),
	}
	r.Temperature = r.Ekin / (1.5 * units.KB)
	r.Etot = r.Epot + r.Ekin
	return r, nil
}

// EnergyDrift tracks the largest absolute deviation, in eV/atom, of the total
// energy per atom from its first observed value. For a constant-energy run it measures integrator
// error.
type EnergyDrift struct {
	name     string
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(a *atoms.Atoms) error {
	r, err := Compute(a)
	if err != nil {
		return err
	}

	if e.samples == 0 {
		e.initial = r.Etot
	}
	e.current = r.Etot
	e.samples++
	e.maxDrift = math.Max(e.maxDrift, math.Abs(r.Etot-e.initial))
	return nil
}

// Value returns the maximum drift in eV/atom.
func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.current = 0
	e.maxDrift = 0
	e.samples = 0
}
