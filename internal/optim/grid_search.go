package optim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/experiment"
	"github.com/san-kum/mdsim/internal/sim"
)

var ErrUnknownObjective = errors.New("optim: unknown objective")

// Objectives computed from every run, in addition to the run's metrics.
var objectives = map[string]func(*sim.Result) float64{
	"energy_drift":     func(r *sim.Result) float64 { return r.EnergyDrift },
	"mean_etot":        func(r *sim.Result) float64 { return r.Summary.MeanEtot },
	"etot_spread":      func(r *sim.Result) float64 { return r.Summary.EtotSpread },
	"mean_temperature": func(r *sim.Result) float64 { return r.Summary.MeanTemperature },
	"mean_epot": func(r *sim.Result) float64 {
		if len(r.Samples) == 0 {
			return math.NaN()
		}
		sum := 0.0
		for _, s := range r.Samples {
			sum += s.Epot
		}
		return sum / float64(len(r.Samples))
	},
}

// Objective evaluates name on a finished run: one of the built-in
// objectives, or a metric recorded in r.Metrics.
func Objective(r *sim.Result, name string) (float64, error) {
	if fn, ok := objectives[name]; ok {
		return fn(r), nil
	}
	if v, ok := r.Metrics[name]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownObjective, name)
}

// GridSearch minimises an objective over the cartesian product of parameter
// values. Parameters are config keys accepted by config.SetParam.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	logger     *slog.Logger
}

func NewGridSearch(params []string, ranges [][]float64, logger *slog.Logger) *GridSearch {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GridSearch{paramNames: params, ranges: ranges, logger: logger}
}

// Point is one evaluated grid point.
type Point struct {
	Params map[string]float64
	Value  float64
}

// Search runs base once per grid point and returns the best point and every
// evaluated point in visiting order. Each run reuses base's seed; a zero seed
// is fixed once so all points share it.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective string) (Point, []Point, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Point{}, nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	for i, r := range g.ranges {
		if len(r) == 0 {
			return Point{}, nil, fmt.Errorf("optim: no values for %s", g.paramNames[i])
		}
	}

	base = base.Clone()
	base.Trajectory = ""
	base.TrajectoryInterval = 0
	if base.Seed == 0 {
		exp, err := experiment.New(base, nil)
		if err != nil {
			return Point{}, nil, err
		}
		base.Seed = exp.Seed()
	}

	best := Point{Value: math.Inf(1)}
	var all []Point
	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, objective, &best, &all)
	if err != nil {
		return Point{}, all, err
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	objective string,
	best *Point,
	all *[]Point,
) error {
	if depth == len(g.paramNames) {
		cfg := base.Clone()
		for k, v := range current {
			if err := cfg.SetParam(k, v); err != nil {
				return err
			}
		}

		exp, err := experiment.New(cfg, g.logger)
		if err != nil {
			return fmt.Errorf("optim %v: %w", current, err)
		}
		result, err := exp.Run(ctx, nil)
		if err != nil {
			return fmt.Errorf("optim %v: %w", current, err)
		}

		val, err := Objective(result, objective)
		if err != nil {
			return err
		}
		p := Point{Params: maps.Clone(current), Value: val}
		*all = append(*all, p)
		g.logger.Debug("grid point", "params", current, objective, val)

		if val < best.Value {
			*best = p
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := maps.Clone(current)
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, objective, best, all); err != nil {
			return err
		}
	}
	return nil
}
