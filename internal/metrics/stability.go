package metrics

import (
	"github.com/san-kum/mdsim/internal/atoms"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stability is the fraction of observed steps in which some atom felt a force
// above threshold (eV/Å). A steadily rising value points at too large a
// timestep or atoms pushed into the repulsive core.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string { return s.name }

func (s *Stability) Observe(a *atoms.Atoms) error {
	forces, err := a.Forces()
	if err != nil {
		return err
	}
	s.samples++
	for _, f := range forces {
		if r3.Norm(f) > s.threshold {
			s.violations++
			return nil
		}
	}
	return nil
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.violations) / float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
