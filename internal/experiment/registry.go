package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/mdsim/internal/atoms"
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/metrics"
	"github.com/san-kum/mdsim/internal/potentials"
	"github.com/san-kum/mdsim/internal/sim"
)

// force above which a step counts as unstable, eV/Å
const stabilityThreshold = 10.0

type Registry struct {
	potentials  map[string]func(symbol string) (atoms.Calculator, error)
	integrators map[string]func() sim.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		potentials:  make(map[string]func(string) (atoms.Calculator, error)),
		integrators: make(map[string]func() sim.Integrator),
	}

	r.potentials["emt"] = func(symbol string) (atoms.Calculator, error) {
		emt := potentials.NewEMT()
		if !emt.Supports(symbol) {
			return nil, fmt.Errorf("%w: EMT has no parameters for %q", potentials.ErrUnsupportedElement, symbol)
		}
		return emt, nil
	}
	r.potentials["lj"] = func(symbol string) (atoms.Calculator, error) {
		lj, ok := potentials.LennardJonesFor(symbol)
		if !ok {
			return nil, fmt.Errorf("%w: no Lennard-Jones parameters for %q", potentials.ErrUnsupportedElement, symbol)
		}
		return lj, nil
	}

	r.integrators["verlet"] = func() sim.Integrator { return integrators.NewVelocityVerlet() }

	return r
}

func (r *Registry) GetPotential(name, symbol string) (atoms.Calculator, error) {
	fn, ok := r.potentials[name]
	if !ok {
		return nil, fmt.Errorf("unknown potential: %s", name)
	}
	return fn(symbol)
}

func (r *Registry) GetIntegrator(name string) (sim.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListPotentials() []string {
	return sortedKeys(r.potentials)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergyDrift(),
		metrics.NewStability(stabilityThreshold),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
