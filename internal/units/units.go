// Package units defines the unit system used by the simulation engine.
//
// Energies are in eV, lengths in Å and masses in amu. The derived time unit is
// Å·sqrt(amu/eV), roughly 10.18 fs, so a femtosecond is a small fraction of it.
package units

import "math"

const (
	// CODATA 2018 values.
	elementaryCharge = 1.602176634e-19
	boltzmannSI      = 1.380649e-23
	atomicMassUnit   = 1.66053906660e-27
)

var (
	// Second is one SI second in internal time units.
	Second = 1e10 * math.Sqrt(elementaryCharge/atomicMassUnit)
	// Fs is one femtosecond in internal time units.
	Fs = 1e-15 * Second
)

const (
	// KB is the Boltzmann constant in eV/K.
	KB = boltzmannSI / elementaryCharge
	// Bohr is the Bohr radius in Å.
	Bohr = 0.5291772105638411
)
