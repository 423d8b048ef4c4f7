package potentials

import (
	"fmt"
	"math"

	"github.com/san-kum/mdsim/internal/atoms"
	"github.com/san-kum/mdsim/internal/units"
	"gonum.org/v1/gonum/spatial/r3"
)

// emtParams holds the tabulated Effective Medium Theory parameters:
// E0 (eV), s0 (bohr), V0 (eV), eta2, kappa, lambda (1/bohr), n0 (1/bohr³).
type emtParams struct {
	E0, S0, V0, Eta2, Kappa, Lambda, N0 float64
}

var emtTable = map[string]emtParams{
	"Al": {-3.28, 3.00, 1.493, 1.240, 2.000, 1.169, 0.00700},
	"Cu": {-3.51, 2.67, 2.476, 1.652, 2.740, 1.906, 0.00910},
	"Ag": {-2.96, 3.01, 2.132, 1.652, 2.790, 1.892, 0.00547},
	"Au": {-3.80, 3.00, 2.321, 1.674, 2.873, 2.182, 0.00703},
	"Ni": {-4.44, 2.60, 3.673, 1.669, 2.757, 1.948, 0.01030},
	"Pd": {-3.90, 2.87, 2.773, 1.818, 3.107, 2.155, 0.00688},
	"Pt": {-5.85, 2.90, 4.067, 1.812, 3.145, 2.192, 0.00802},
	"H":  {-3.21, 1.31, 0.132, 2.652, 2.790, 3.892, 0.00547},
	"C":  {-3.50, 1.81, 0.332, 1.652, 2.790, 1.892, 0.01322},
	"N":  {-5.10, 1.88, 0.132, 1.652, 2.790, 1.892, 0.01222},
	"O":  {-4.60, 1.95, 0.332, 1.652, 2.790, 1.892, 0.00850},
}

// (16π/3)^(1/3)/√2 with its historical rounding
const emtBeta = 1.809

// element parameters converted to Å plus the lattice sums gamma1, gamma2
type emtElement struct {
	e0, s0, v0, eta2, kappa, lambda, n0 float64
	gamma1, gamma2                      float64
}

// EMT is the Effective Medium Theory potential for fcc metals with the
// classic parameter set. Energies are measured relative to the ideal fcc
// crystal, so bulk copper at its lattice constant sits close to zero.
type EMT struct {
	// AsapCutoff derives the cutoff from the elements present instead of
	// the whole parameter table.
	AsapCutoff bool
}

func NewEMT() *EMT { return &EMT{} }

// Supports reports whether EMT has parameters for symbol.
func (e *EMT) Supports(symbol string) bool {
	_, ok := emtTable[symbol]
	return ok
}

// cutoff returns the smooth cutoff radius, its steepness and the radius of
// the neighbour list.
func (e *EMT) cutoff(symbols map[string]bool) (rc, acut, listCutoff float64) {
	maxS0 := 0.0
	for sym, p := range emtTable {
		if e.AsapCutoff && !symbols[sym] {
			continue
		}
		maxS0 = math.Max(maxS0, p.S0)
	}
	maxS0 *= units.Bohr
	rc = emtBeta * maxS0 * 0.5 * (math.Sqrt(3) + math.Sqrt(4))
	rr := rc * 2 * math.Sqrt(4) / (math.Sqrt(3) + math.Sqrt(4))
	acut = math.Log(9999.0) / (rr - rc)
	listCutoff = rc + 0.5
	if e.AsapCutoff {
		listCutoff = rc * 1.045
	}
	return rc, acut, listCutoff
}

func (e *EMT) Calculate(a *atoms.Atoms) (float64, []r3.Vec, error) {
	n := a.Len()
	present := make(map[string]bool)
	for i := 0; i < n; i++ {
		present[a.Symbol(i)] = true
	}
	for sym := range present {
		if !e.Supports(sym) {
			return 0, nil, fmt.Errorf("%w: EMT has no parameters for %q", ErrUnsupportedElement, sym)
		}
	}

	rc, acut, listCutoff := e.cutoff(present)
	elements := make(map[string]*emtElement, len(present))
	for sym := range present {
		elements[sym] = newEMTElement(emtTable[sym], rc, acut)
	}
	par := make([]*emtElement, n)
	for i := range par {
		par[i] = elements[a.Symbol(i)]
	}

	pairs := neighborPairs(a, listCutoff)
	energy := 0.0
	forces := make([]r3.Vec, n)
	sigma1 := make([]float64, n)
	deds := make([]float64, n)

	for _, pr := range pairs {
		p1, p2 := par[pr.i], par[pr.j]
		ksi := p2.n0 / p1.n0
		x := math.Exp(acut * (pr.r - rc))
		theta := 1.0 / (1.0 + x)
		y1 := 0.5 * p1.v0 * math.Exp(-p2.kappa*(pr.r/emtBeta-p2.s0)) * ksi / p1.gamma2 * theta
		y2 := 0.5 * p2.v0 * math.Exp(-p1.kappa*(pr.r/emtBeta-p1.s0)) / ksi / p2.gamma2 * theta
		energy -= y1 + y2
		f := r3.Scale(((y1*p2.kappa+y2*p1.kappa)/emtBeta+(y1+y2)*acut*theta*x)/pr.r, pr.d)
		forces[pr.i] = r3.Add(forces[pr.i], f)
		forces[pr.j] = r3.Sub(forces[pr.j], f)
		sigma1[pr.i] += math.Exp(-p2.eta2*(pr.r-emtBeta*p2.s0)) * ksi * theta / p1.gamma1
		sigma1[pr.j] += math.Exp(-p1.eta2*(pr.r-emtBeta*p1.s0)) / ksi * theta / p2.gamma1
	}

	for i := 0; i < n; i++ {
		p := par[i]
		if sigma1[i] <= 0 {
			// isolated atom: no embedding density
			energy -= p.e0
			continue
		}
		ds := -math.Log(sigma1[i]/12) / (emtBeta * p.eta2)
		x := p.lambda * ds
		y := math.Exp(-x)
		z := 6 * p.v0 * math.Exp(-p.kappa*ds)
		deds[i] = (x*y*p.e0*p.lambda + p.kappa*z) / (sigma1[i] * emtBeta * p.eta2)
		energy += p.e0*((1+x)*y-1) + z
	}

	for _, pr := range pairs {
		p1, p2 := par[pr.i], par[pr.j]
		ksi := p2.n0 / p1.n0
		x := math.Exp(acut * (pr.r - rc))
		theta := 1.0 / (1.0 + x)
		y1 := math.Exp(-p2.eta2*(pr.r-emtBeta*p2.s0)) * ksi / p1.gamma1 * theta * deds[pr.i]
		y2 := math.Exp(-p1.eta2*(pr.r-emtBeta*p1.s0)) / ksi / p2.gamma1 * theta * deds[pr.j]
		f := r3.Scale(((y1*p2.eta2+y2*p1.eta2)+(y1+y2)*acut*theta*x)/pr.r, pr.d)
		forces[pr.i] = r3.Sub(forces[pr.i], f)
		forces[pr.j] = r3.Add(forces[pr.j], f)
	}

	if err := checkFinite(energy, forces); err != nil {
		return 0, nil, err
	}
	return energy, forces, nil
}

func newEMTElement(p emtParams, rc, acut float64) *emtElement {
	el := &emtElement{
		e0:     p.E0,
		s0:     p.S0 * units.Bohr,
		v0:     p.V0,
		eta2:   p.Eta2 / units.Bohr,
		kappa:  p.Kappa / units.Bohr,
		lambda: p.Lambda / units.Bohr,
		n0:     p.N0 / (units.Bohr * units.Bohr * units.Bohr),
	}
	// first three fcc shells: 12, 6 and 24 neighbours
	for i, count := range []float64{12, 6, 24} {
		r := el.s0 * emtBeta * math.Sqrt(float64(i+1))
		w := count / (12 * (1.0 + math.Exp(acut*(r-rc))))
		el.gamma1 += w * math.Exp(-el.eta2*(r-emtBeta*el.s0))
		el.gamma2 += w * math.Exp(-el.kappa/emtBeta*(r-emtBeta*el.s0))
	}
	return el
}

func checkFinite(energy float64, forces []r3.Vec) error {
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return fmt.Errorf("%w: energy %v", ErrNonFinite, energy)
	}
	for i, f := range forces {
		for _, c := range [3]float64{f.X, f.Y, f.Z} {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return fmt.Errorf("%w: force on atom %d", ErrNonFinite, i)
			}
		}
	}
	return nil
}
