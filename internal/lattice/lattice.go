// Package lattice generates periodic cubic crystals aligned with the
// Cartesian axes.
package lattice

import (
	"errors"
	"fmt"

	"github.com/san-kum/mdsim/internal/atoms"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrInvalidSize indicates a repeat count below one.
	ErrInvalidSize = errors.New("lattice: repeat counts must be positive")

	// ErrUnknownStructure indicates an unsupported crystal symmetry.
	ErrUnknownStructure = errors.New("lattice: unknown structure")

	// ErrNoLatticeConstant indicates no lattice constant was given and the
	// element has no reference value for the requested structure.
	ErrNoLatticeConstant = errors.New("lattice: no lattice constant")
)

type Structure string

const (
	FCC Structure = "fcc"
	BCC Structure = "bcc"
	SC  Structure = "sc"
)

// fractional coordinates of the conventional cubic cell
var bases = map[Structure][]r3.Vec{
	FCC: {{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0.5, Z: 0.5}, {X: 0.5, Y: 0, Z: 0.5}, {X: 0.5, Y: 0.5, Z: 0}},
	BCC: {{X: 0, Y: 0, Z: 0}, {X: 0.5, Y: 0.5, Z: 0.5}},
	SC:  {{X: 0, Y: 0, Z: 0}},
}

type reference struct {
	structure Structure
	a         float64
}

// ground-state structures and lattice constants in Å
var references = map[string]reference{
	"Al": {FCC, 4.05},
	"Ar": {FCC, 5.26},
	"Ni": {FCC, 3.52},
	"Cu": {FCC, 3.61},
	"Pd": {FCC, 3.89},
	"Ag": {FCC, 4.09},
	"Pt": {FCC, 3.92},
	"Au": {FCC, 4.08},
}

// ReferenceConstant returns the tabulated ground-state structure and lattice
// constant of symbol.
func ReferenceConstant(symbol string) (Structure, float64, bool) {
	r, ok := references[symbol]
	return r.structure, r.a, ok
}

// ParseStructure maps a name such as "fcc" to a Structure.
func ParseStructure(name string) (Structure, error) {
	s := Structure(name)
	if _, ok := bases[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStructure, name)
	}
	return s, nil
}

// Build repeats the conventional cell of s size times along x, y and z. A
// zero latticeConstant selects the element's reference value, which must
// exist for the same structure.
func Build(s Structure, symbol string, size [3]int, pbc [3]bool, latticeConstant float64) (*atoms.Atoms, error) {
	basis, ok := bases[s]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStructure, s)
	}
	for _, n := range size {
		if n < 1 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
		}
	}
	a := latticeConstant
	if a < 0 {
		return nil, fmt.Errorf("lattice: negative lattice constant %g", a)
	}
	if a == 0 {
		ref, ok := references[symbol]
		if !ok || ref.structure != s {
			return nil, fmt.Errorf("%w: %s in %s", ErrNoLatticeConstant, symbol, s)
		}
		a = ref.a
	}

	n := size[0] * size[1] * size[2] * len(basis)
	symbols := make([]string, 0, n)
	positions := make([]r3.Vec, 0, n)
	for i := 0; i < size[0]; i++ {
		for j := 0; j < size[1]; j++ {
			for k := 0; k < size[2]; k++ {
				origin := r3.Vec{X: float64(i), Y: float64(j), Z: float64(k)}
				for _, b := range basis {
					positions = append(positions, r3.Scale(a, r3.Add(origin, b)))
					symbols = append(symbols, symbol)
				}
			}
		}
	}

	cell := r3.Vec{X: a * float64(size[0]), Y: a * float64(size[1]), Z: a * float64(size[2])}
	return atoms.New(symbols, positions, cell, pbc)
}

func FaceCenteredCubic(symbol string, size [3]int, pbc [3]bool, latticeConstant float64) (*atoms.Atoms, error) {
	return Build(FCC, symbol, size, pbc, latticeConstant)
}

func BodyCenteredCubic(symbol string, size [3]int, pbc [3]bool, latticeConstant float64) (*atoms.Atoms, error) {
	return Build(BCC, symbol, size, pbc, latticeConstant)
}

func SimpleCubic(symbol string, size [3]int, pbc [3]bool, latticeConstant float64) (*atoms.Atoms, error) {
	return Build(SC, symbol, size, pbc, latticeConstant)
}
