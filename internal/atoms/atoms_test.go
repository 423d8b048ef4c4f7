package atoms

import (
	"errors"
	"math"
	"testing"

	chem "github.com/rmera/gochem"
	"gonum.org/v1/gonum/spatial/r3"
)

// springCalc pulls every atom towards the origin with unit stiffness and
// counts its evaluations.
type springCalc struct {
	calls int
	err   error
}

func (c *springCalc) Calculate(a *Atoms) (float64, []r3.Vec, error) {
	c.calls++
	if c.err != nil {
		return 0, nil, c.err
	}
	e := 0.0
	f := make([]r3.Vec, a.Len())
	for i, p := range a.Positions() {
		e += 0.5 * r3.Norm2(p)
		f[i] = r3.Scale(-1, p)
	}
	return e, f, nil
}

func pair(t *testing.T) *Atoms {
	t.Helper()
	a, err := New(
		[]string{"Cu", "Ar"},
		[]r3.Vec{{X: 1}, {Y: 2}},
		r3.Vec{X: 10, Y: 10, Z: 10},
		[3]bool{true, true, false},
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestNew(t *testing.T) {
	a := pair(t)

	if a.Len() != 2 {
		t.Fatalf("Len = %d", a.Len())
	}
	if a.Symbol(0) != "Cu" || a.Symbol(1) != "Ar" {
		t.Errorf("symbols = %s, %s", a.Symbol(0), a.Symbol(1))
	}
	if a.Mass(0) != 63.546 {
		t.Errorf("Cu mass = %g", a.Mass(0))
	}
	if a.PBC() != [3]bool{true, true, false} {
		t.Errorf("pbc = %v", a.PBC())
	}
	if a.KineticEnergy() != 0 {
		t.Errorf("new atoms not at rest: %g", a.KineticEnergy())
	}
	if at := a.Atom(1); at.ID != 2 || at.Mass != a.Mass(1) {
		t.Errorf("chem atom = %+v", at)
	}

	var _ chem.Atomer = a
}

func TestNewErrors(t *testing.T) {
	cell := r3.Vec{X: 1, Y: 1, Z: 1}
	if _, err := New([]string{"Cu"}, nil, cell, [3]bool{}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if _, err := New([]string{"Xx"}, []r3.Vec{{}}, cell, [3]bool{}); !errors.Is(err, ErrUnknownElement) {
		t.Errorf("expected ErrUnknownElement, got %v", err)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	a := pair(t)

	p := a.Positions()
	p[0].X = 99
	if a.Positions()[0].X != 1 {
		t.Error("Positions exposes internal storage")
	}

	m := a.Masses()
	m[0] = 0
	if a.Mass(0) == 0 {
		t.Error("Masses exposes internal storage")
	}
}

func TestKineticEnergyAndVelocities(t *testing.T) {
	a := pair(t)
	mom := []r3.Vec{{X: 2 * a.Mass(0)}, {Z: -a.Mass(1)}}
	if err := a.SetMomenta(mom); err != nil {
		t.Fatal(err)
	}

	v := a.Velocities()
	if math.Abs(v[0].X-2) > 1e-12 || math.Abs(v[1].Z+1) > 1e-12 {
		t.Errorf("velocities = %v", v)
	}
	want := 0.5*a.Mass(0)*4 + 0.5*a.Mass(1)
	if math.Abs(a.KineticEnergy()-want) > 1e-9 {
		t.Errorf("KineticEnergy = %g, want %g", a.KineticEnergy(), want)
	}

	if err := a.SetMomenta(mom[:1]); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestCalculatorCache(t *testing.T) {
	a := pair(t)

	if _, err := a.PotentialEnergy(); !errors.Is(err, ErrNoCalculator) {
		t.Fatalf("expected ErrNoCalculator, got %v", err)
	}

	calc := &springCalc{}
	a.SetCalculator(calc)

	e, err := a.PotentialEnergy()
	if err != nil {
		t.Fatal(err)
	}
	if e != 2.5 {
		t.Errorf("energy = %g, want 2.5", e)
	}
	if _, err := a.Forces(); err != nil {
		t.Fatal(err)
	}
	if calc.calls != 1 {
		t.Errorf("expected one evaluation, got %d", calc.calls)
	}

	if err := a.SetPositions([]r3.Vec{{X: 2}, {}}); err != nil {
		t.Fatal(err)
	}
	f, err := a.Forces()
	if err != nil {
		t.Fatal(err)
	}
	if calc.calls != 2 {
		t.Errorf("position change did not invalidate cache: %d calls", calc.calls)
	}
	if f[0].X != -2 {
		t.Errorf("force = %v", f[0])
	}

	// momenta do not affect the potential
	if err := a.SetMomenta([]r3.Vec{{X: 1}, {}}); err != nil {
		t.Fatal(err)
	}
	if _, err := a.PotentialEnergy(); err != nil || calc.calls != 2 {
		t.Errorf("momentum change triggered evaluation: %d calls, %v", calc.calls, err)
	}
}

func TestCalculatorError(t *testing.T) {
	a := pair(t)
	boom := errors.New("boom")
	a.SetCalculator(&springCalc{err: boom})
	if _, err := a.Forces(); !errors.Is(err, boom) {
		t.Errorf("expected calculator error, got %v", err)
	}
}

func TestCoords(t *testing.T) {
	a := pair(t)
	c := a.Coords()
	if c.NVecs() != 2 {
		t.Fatalf("NVecs = %d", c.NVecs())
	}
	if c.At(0, 0) != 1 || c.At(1, 1) != 2 {
		t.Errorf("coords = %v", c)
	}
}

func TestAtomDescription(t *testing.T) {
	a := pair(t)
	for i := 0; i < a.Len(); i++ {
		at := a.Atom(i)
		if at.Symbol != a.Symbol(i) || at.Name != at.Symbol {
			t.Errorf("atom %d: symbol %q name %q", i, at.Symbol, at.Name)
		}
		if at.Molname != "CRY" || at.ID != i+1 {
			t.Errorf("atom %d: residue %q id %d", i, at.Molname, at.ID)
		}
		if at.Mass != a.Mass(i) {
			t.Errorf("atom %d: mass %g, want %g", i, at.Mass, a.Mass(i))
		}
	}
}

func TestMass(t *testing.T) {
	if m, ok := Mass("Au"); !ok || m < 196 || m > 197 {
		t.Errorf("Mass(Au) = %g, %v", m, ok)
	}
	if _, ok := Mass("Unobtainium"); ok {
		t.Error("unexpected mass for unknown symbol")
	}
}
