package config

import (
	"fmt"
	"math"
	"sort"
)

var ErrUnknownParam = fmt.Errorf("%w: unknown parameter", ErrInvalid)

type paramSetter func(c *Config, v float64) error

func integer(v float64) (int, error) {
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %g is not an integer", ErrInvalid, v)
	}
	return int(v), nil
}

var params = map[string]paramSetter{
	"temperature_k":    func(c *Config, v float64) error { c.TemperatureK = v; return nil },
	"timestep_fs":      func(c *Config, v float64) error { c.TimestepFs = v; return nil },
	"lattice_constant": func(c *Config, v float64) error { c.LatticeConstant = v; return nil },
	"size": func(c *Config, v float64) error {
		n, err := integer(v)
		if err != nil {
			return err
		}
		c.Size = []int{n, n, n}
		return nil
	},
	"steps_per_batch": func(c *Config, v float64) error {
		n, err := integer(v)
		c.StepsPerBatch = n
		return err
	},
	"batches": func(c *Config, v float64) error {
		n, err := integer(v)
		c.Batches = n
		return err
	},
	"seed": func(c *Config, v float64) error {
		n, err := integer(v)
		c.Seed = int64(n)
		return err
	},
}

// SetParam sets a numeric field by its YAML key. Integer fields reject
// fractional values. The result is not validated.
func (c *Config) SetParam(name string, v float64) error {
	set, ok := params[name]
	if !ok {
		return fmt.Errorf("%w %q (available: %v)", ErrUnknownParam, name, ParamNames())
	}
	return set(c, v)
}

// ParamNames lists the keys accepted by SetParam.
func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
