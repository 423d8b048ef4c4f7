package config

import "sort"

var Presets = map[string]*Config{
	"demo": DefaultConfig(),
	"test": {
		Symbol: "Cu", Lattice: "fcc", Size: []int{3, 3, 3}, Periodic: true,
		Potential: "emt", Integrator: "verlet", TemperatureK: 300, TimestepFs: 5,
		StepsPerBatch: 3, Batches: 10, Trajectory: "cu_traj", TrajectoryInterval: 10,
	},
	"large": {
		Symbol: "Cu", Lattice: "fcc", Size: []int{10, 10, 10}, Periodic: true,
		Potential: "emt", Integrator: "verlet", TemperatureK: 300, TimestepFs: 5,
		StepsPerBatch: 10, Batches: 20, Trajectory: "cu_traj", TrajectoryInterval: 10,
	},
	"hot": {
		Symbol: "Cu", Lattice: "fcc", Size: []int{3, 3, 3}, Periodic: true,
		Potential: "emt", Integrator: "verlet", TemperatureK: 1000, TimestepFs: 2,
		StepsPerBatch: 25, Batches: 20, Trajectory: "cu_hot_traj", TrajectoryInterval: 25,
		Stationary: true,
	},
	"lj": {
		Symbol: "Cu", Lattice: "fcc", Size: []int{3, 3, 3}, Periodic: true,
		Potential: "lj", Integrator: "verlet", TemperatureK: 300, TimestepFs: 5,
		StepsPerBatch: 10, Batches: 20, Trajectory: "cu_lj_traj", TrajectoryInterval: 10,
	},
	"argon": {
		Symbol: "Ar", Lattice: "fcc", Size: []int{4, 4, 4}, Periodic: true,
		Potential: "lj", Integrator: "verlet", TemperatureK: 40, TimestepFs: 10,
		StepsPerBatch: 10, Batches: 20, Trajectory: "ar_traj", TrajectoryInterval: 10,
		Stationary: true,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
