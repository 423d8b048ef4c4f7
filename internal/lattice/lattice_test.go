package lattice

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/mdsim/internal/atoms"
	"gonum.org/v1/gonum/spatial/r3"
)

var periodic = [3]bool{true, true, true}

func TestFaceCenteredCubicCopper(t *testing.T) {
	a, err := FaceCenteredCubic("Cu", [3]int{3, 3, 3}, periodic, 0)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if a.Len() != 108 {
		t.Errorf("expected 108 atoms, got %d", a.Len())
	}

	cell := a.Cell()
	if math.Abs(cell.X-3*3.61) > 1e-12 || cell.X != cell.Y || cell.Y != cell.Z {
		t.Errorf("unexpected cell %v", cell)
	}

	for i := 0; i < a.Len(); i++ {
		if a.Symbol(i) != "Cu" {
			t.Fatalf("atom %d: expected Cu, got %s", i, a.Symbol(i))
		}
	}
}

func TestNearestNeighbourDistance(t *testing.T) {
	a, err := FaceCenteredCubic("Cu", [3]int{1, 1, 1}, periodic, 0)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	p := a.Positions()
	d := r3.Norm(r3.Sub(p[1], p[0]))
	expected := 3.61 / math.Sqrt2
	if math.Abs(d-expected) > 1e-12 {
		t.Errorf("expected nearest neighbour %f, got %f", expected, d)
	}
}

func TestAtomsPerCell(t *testing.T) {
	tests := []struct {
		s        Structure
		expected int
	}{
		{FCC, 4},
		{BCC, 2},
		{SC, 1},
	}

	for _, tt := range tests {
		a, err := Build(tt.s, "Cu", [3]int{2, 1, 1}, periodic, 3.0)
		if err != nil {
			t.Fatalf("%s: build failed: %v", tt.s, err)
		}
		if a.Len() != 2*tt.expected {
			t.Errorf("%s: expected %d atoms, got %d", tt.s, 2*tt.expected, a.Len())
		}
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name   string
		s      Structure
		symbol string
		size   [3]int
		a      float64
		want   error
	}{
		{"zero size", FCC, "Cu", [3]int{0, 3, 3}, 0, ErrInvalidSize},
		{"negative size", FCC, "Cu", [3]int{3, -1, 3}, 0, ErrInvalidSize},
		{"unknown structure", Structure("hcp"), "Cu", [3]int{1, 1, 1}, 0, ErrUnknownStructure},
		{"no reference for bcc", BCC, "Cu", [3]int{1, 1, 1}, 0, ErrNoLatticeConstant},
		{"unknown element", FCC, "Xx", [3]int{1, 1, 1}, 4.0, atoms.ErrUnknownElement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.s, tt.symbol, tt.size, periodic, tt.a)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseStructure(t *testing.T) {
	if s, err := ParseStructure("fcc"); err != nil || s != FCC {
		t.Errorf("expected fcc, got %q (%v)", s, err)
	}
	if _, err := ParseStructure("diamond"); !errors.Is(err, ErrUnknownStructure) {
		t.Errorf("expected ErrUnknownStructure, got %v", err)
	}
}
