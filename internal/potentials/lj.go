package potentials

import (
	"math"

	"github.com/san-kum/mdsim/internal/atoms"
	"gonum.org/v1/gonum/spatial/r3"
)

// LennardJones is a single-species 12-6 pair potential truncated and shifted
// at Cutoff.
type LennardJones struct {
	Epsilon float64 // eV
	Sigma   float64 // Å
	Cutoff  float64 // Å; zero means 3σ
}

// pair parameters fitted to bulk properties
var ljTable = map[string]LennardJones{
	"Ar": {Epsilon: 0.0104, Sigma: 3.40},
	"Cu": {Epsilon: 0.4093, Sigma: 2.338},
	"Ag": {Epsilon: 0.3450, Sigma: 2.644},
	"Au": {Epsilon: 0.4415, Sigma: 2.637},
	"Al": {Epsilon: 0.3922, Sigma: 2.620},
	"Ni": {Epsilon: 0.5197, Sigma: 2.282},
}

func NewLennardJones(epsilon, sigma, cutoff float64) *LennardJones {
	return &LennardJones{Epsilon: epsilon, Sigma: sigma, Cutoff: cutoff}
}

// LennardJonesFor returns tabulated parameters for symbol.
func LennardJonesFor(symbol string) (*LennardJones, bool) {
	lj, ok := ljTable[symbol]
	if !ok {
		return nil, false
	}
	return &lj, true
}

func (lj *LennardJones) rc() float64 {
	if lj.Cutoff > 0 {
		return lj.Cutoff
	}
	return 3 * lj.Sigma
}

func (lj *LennardJones) Calculate(a *atoms.Atoms) (float64, []r3.Vec, error) {
	rc := lj.rc()
	s6 := math.Pow(lj.Sigma, 6)
	shift := 4 * lj.Epsilon * (s6*s6/math.Pow(rc, 12) - s6/math.Pow(rc, 6))

	energy := 0.0
	forces := make([]r3.Vec, a.Len())
	for _, pr := range neighborPairs(a, rc) {
		r2 := pr.r * pr.r
		c6 := s6 / (r2 * r2 * r2)
		c12 := c6 * c6
		energy += 4*lj.Epsilon*(c12-c6) - shift
		f := r3.Scale(24*lj.Epsilon*(2*c12-c6)/r2, pr.d)
		forces[pr.i] = r3.Sub(forces[pr.i], f)
		forces[pr.j] = r3.Add(forces[pr.j], f)
	}

	if err := checkFinite(energy, forces); err != nil {
		return 0, nil, err
	}
	return energy, forces, nil
}
