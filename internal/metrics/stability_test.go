package metrics

import (
	"testing"

	"github.com/san-kum/mdsim/internal/lattice"
	"github.com/san-kum/mdsim/internal/potentials"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestStability(t *testing.T) {
	a, err := lattice.FaceCenteredCubic("Cu", [3]int{2, 2, 2}, [3]bool{true, true, true}, 0)
	if err != nil {
		t.Fatal(err)
	}
	a.SetCalculator(potentials.NewEMT())

	s := NewStability(1.0)
	if err := s.Observe(a); err != nil {
		t.Fatal(err)
	}
	if s.Value() != 0 {
		t.Errorf("expected perfect crystal to be stable, got %f", s.Value())
	}

	pos := a.Positions()
	pos[0] = r3.Add(pos[0], r3.Vec{X: 1.0})
	if err := a.SetPositions(pos); err != nil {
		t.Fatal(err)
	}
	if err := s.Observe(a); err != nil {
		t.Fatal(err)
	}
	if s.Value() != 0.5 {
		t.Errorf("expected half the samples unstable, got %f", s.Value())
	}

	s.Reset()
	if s.Value() != 0 {
		t.Error("expected zero after reset")
	}
}
