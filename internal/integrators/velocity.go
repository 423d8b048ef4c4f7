package integrators

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/mdsim/internal/atoms"
	"github.com/san-kum/mdsim/internal/units"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrNoKineticEnergy indicates a temperature rescale of atoms at rest.
var ErrNoKineticEnergy = errors.New("integrators: cannot rescale zero kinetic energy")

type VelocityOptions struct {
	// Stationary removes the centre-of-mass momentum after sampling.
	Stationary bool
	// ForceTemperature rescales the sampled momenta so the instantaneous
	// temperature equals the target exactly.
	ForceTemperature bool
}

// MaxwellBoltzmann draws momenta from the Maxwell-Boltzmann distribution at
// temperatureK. Every component of atom i is normal with variance m_i·kB·T.
// src makes the draw reproducible; pass rand.NewSource(seed).
func MaxwellBoltzmann(a *atoms.Atoms, temperatureK float64, src rand.Source, opts VelocityOptions) error {
	if temperatureK < 0 {
		return fmt.Errorf("integrators: negative temperature %g K", temperatureK)
	}
	kT := units.KB * temperatureK
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	p := make([]r3.Vec, a.Len())
	for i := range p {
		s := math.Sqrt(a.Mass(i) * kT)
		p[i] = r3.Vec{X: s * normal.Rand(), Y: s * normal.Rand(), Z: s * normal.Rand()}
	}
	if err := a.SetMomenta(p); err != nil {
		return err
	}

	if opts.Stationary {
		if err := Stationary(a); err != nil {
			return err
		}
	}
	if opts.ForceTemperature && temperatureK > 0 {
		return ForceTemperature(a, temperatureK)
	}
	return nil
}

// Stationary subtracts the centre-of-mass velocity from every atom.
func Stationary(a *atoms.Atoms) error {
	p := a.Momenta()
	total := r3.Vec{}
	mass := 0.0
	for i := range p {
		total = r3.Add(total, p[i])
		mass += a.Mass(i)
	}
	if mass == 0 {
		return nil
	}
	vcm := r3.Scale(1/mass, total)
	for i := range p {
		p[i] = r3.Sub(p[i], r3.Scale(a.Mass(i), vcm))
	}
	return a.SetMomenta(p)
}

// ForceTemperature scales momenta so that Ekin = 1.5·N·kB·T.
func ForceTemperature(a *atoms.Atoms, temperatureK float64) error {
	ekin := a.KineticEnergy()
	if ekin == 0 {
		return ErrNoKineticEnergy
	}
	target := 1.5 * float64(a.Len()) * units.KB * temperatureK
	scale := math.Sqrt(target / ekin)

	p := a.Momenta()
	for i := range p {
		p[i] = r3.Scale(scale, p[i])
	}
	return a.SetMomenta(p)
}
