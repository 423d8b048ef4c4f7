// Package atoms holds the particle ensemble advanced by the integrators.
//
// An [Atoms] value owns positions, momenta, masses and species of every
// particle together with the simulation cell. A [Calculator] may be attached
// to supply potential energy and forces; results are cached until the
// positions change.
//
// Atoms implements gochem's Atomer, so a configuration can be handed to the
// gochem writers directly:
//
//	a, _ := lattice.FaceCenteredCubic("Cu", [3]int{3, 3, 3}, [3]bool{true, true, true}, 0)
//	chem.XYZWrite(os.Stdout, a.Coords(), a)
package atoms

import (
	"fmt"

	chem "github.com/rmera/gochem"
	v3 "github.com/rmera/gochem/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Calculator evaluates the potential energy and forces of a configuration.
type Calculator interface {
	Calculate(a *Atoms) (energy float64, forces []r3.Vec, err error)
}

type Atoms struct {
	chemAtoms []*chem.Atom
	positions []r3.Vec
	momenta   []r3.Vec
	masses    []float64
	cell      r3.Vec
	pbc       [3]bool
	calc      Calculator

	cached bool
	energy float64
	forces []r3.Vec
}

// New builds an ensemble at rest. cell holds the lengths of an orthorhombic
// box in Å.
func New(symbols []string, positions []r3.Vec, cell r3.Vec, pbc [3]bool) (*Atoms, error) {
	if len(symbols) != len(positions) {
		return nil, fmt.Errorf("%w: %d symbols, %d positions", ErrDimensionMismatch, len(symbols), len(positions))
	}
	a := &Atoms{
		chemAtoms: make([]*chem.Atom, len(symbols)),
		positions: make([]r3.Vec, len(positions)),
		momenta:   make([]r3.Vec, len(positions)),
		masses:    make([]float64, len(symbols)),
		cell:      cell,
		pbc:       pbc,
	}
	copy(a.positions, positions)
	for i, sym := range symbols {
		m, ok := Mass(sym)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownElement, sym)
		}
		a.masses[i] = m
		a.chemAtoms[i] = &chem.Atom{
			Symbol:  sym,
			Name:    sym,
			Molname: "CRY",
			ID:      i + 1,
			Mass:    m,
		}
	}
	return a, nil
}

// Len returns the number of atoms. Together with Atom it satisfies chem.Atomer.
func (a *Atoms) Len() int { return len(a.positions) }

// Atom returns the gochem description of atom i.
func (a *Atoms) Atom(i int) *chem.Atom { return a.chemAtoms[i] }

func (a *Atoms) Symbol(i int) string { return a.chemAtoms[i].Symbol }

func (a *Atoms) Cell() r3.Vec       { return a.cell }
func (a *Atoms) PBC() [3]bool       { return a.pbc }
func (a *Atoms) Mass(i int) float64 { return a.masses[i] }

// Masses returns a copy of the per-atom masses.
func (a *Atoms) Masses() []float64 {
	m := make([]float64, len(a.masses))
	copy(m, a.masses)
	return m
}

// Positions returns a copy of the positions.
func (a *Atoms) Positions() []r3.Vec {
	p := make([]r3.Vec, len(a.positions))
	copy(p, a.positions)
	return p
}

// SetPositions replaces all positions and drops cached energies.
func (a *Atoms) SetPositions(p []r3.Vec) error {
	if len(p) != len(a.positions) {
		return fmt.Errorf("%w: %d positions for %d atoms", ErrDimensionMismatch, len(p), len(a.positions))
	}
	copy(a.positions, p)
	a.cached = false
	return nil
}

// Momenta returns a copy of the momenta.
func (a *Atoms) Momenta() []r3.Vec {
	p := make([]r3.Vec, len(a.momenta))
	copy(p, a.momenta)
	return p
}

func (a *Atoms) SetMomenta(p []r3.Vec) error {
	if len(p) != len(a.momenta) {
		return fmt.Errorf("%w: %d momenta for %d atoms", ErrDimensionMismatch, len(p), len(a.momenta))
	}
	copy(a.momenta, p)
	return nil
}

// Velocities returns momenta divided by masses.
func (a *Atoms) Velocities() []r3.Vec {
	v := make([]r3.Vec, len(a.momenta))
	for i, p := range a.momenta {
		v[i] = r3.Scale(1/a.masses[i], p)
	}
	return v
}

// KineticEnergy returns sum(p²/2m) in eV.
func (a *Atoms) KineticEnergy() float64 {
	ke := 0.0
	for i, p := range a.momenta {
		ke += 0.5 * r3.Norm2(p) / a.masses[i]
	}
	return ke
}

// SetCalculator attaches c. Passing nil detaches the current calculator.
func (a *Atoms) SetCalculator(c Calculator) {
	a.calc = c
	a.cached = false
}

func (a *Atoms) Calculator() Calculator { return a.calc }

// PotentialEnergy returns the total potential energy of the configuration.
func (a *Atoms) PotentialEnergy() (float64, error) {
	if err := a.calculate(); err != nil {
		return 0, err
	}
	return a.energy, nil
}

// Forces returns a copy of the forces on every atom in eV/Å.
func (a *Atoms) Forces() ([]r3.Vec, error) {
	if err := a.calculate(); err != nil {
		return nil, err
	}
	f := make([]r3.Vec, len(a.forces))
	copy(f, a.forces)
	return f, nil
}

func (a *Atoms) calculate() error {
	if a.calc == nil {
		return ErrNoCalculator
	}
	if a.cached {
		return nil
	}
	e, f, err := a.calc.Calculate(a)
	if err != nil {
		return err
	}
	if len(f) != len(a.positions) {
		return fmt.Errorf("%w: calculator returned %d forces for %d atoms", ErrDimensionMismatch, len(f), len(a.positions))
	}
	a.energy, a.forces, a.cached = e, f, true
	return nil
}

// Coords returns the positions as a gochem coordinate matrix.
func (a *Atoms) Coords() *v3.Matrix {
	m := v3.Zeros(len(a.positions))
	for i, p := range a.positions {
		m.Set(i, 0, p.X)
		m.Set(i, 1, p.Y)
		m.Set(i, 2, p.Z)
	}
	return m
}
