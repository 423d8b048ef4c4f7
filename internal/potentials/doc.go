// Package potentials provides interatomic potentials that can be attached to
// an [atoms.Atoms] ensemble as its calculator:
//
//   - [EMT]: Effective Medium Theory for fcc metals (Al, Cu, Ag, Au, Ni, Pd, Pt)
//   - [LennardJones]: truncated and shifted 12-6 pair potential
//
// Both walk the same periodic half neighbor list, so cutoffs longer than half
// the cell are handled by including further images.
package potentials
