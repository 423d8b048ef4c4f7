package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/mdsim/internal/config"
)

const quickScenario = `name: quick
description: two short runs
steps:
  - name: cold
    preset: test
    params:
      temperature_k: 100
      size: 2
      steps_per_batch: 2
      batches: 2
      seed: 1
  - preset: test
    potential: lj
    params:
      steps_per_batch: 2
      batches: 2
      seed: 2
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, quickScenario))
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if sc.Name != "quick" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}

	results, err := RunScenario(context.Background(), sc, nil)
	if err != nil {
		t.Fatalf("RunScenario: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].Name != "cold" || results[1].Name != "step2" {
		t.Errorf("names = %q, %q", results[0].Name, results[1].Name)
	}
	if results[0].Seed != 1 || results[1].Seed != 2 {
		t.Errorf("seeds = %d, %d", results[0].Seed, results[1].Seed)
	}
	if results[1].Config.Potential != "lj" {
		t.Errorf("potential override lost: %s", results[1].Config.Potential)
	}
	for _, r := range results {
		if r.Result.StepsTaken != 4 {
			t.Errorf("%s: steps = %d, want 4", r.Name, r.Result.StepsTaken)
		}
		if len(r.Result.Samples) != 3 {
			t.Errorf("%s: samples = %d, want 3", r.Name, len(r.Result.Samples))
		}
		if r.Result.Frames != 0 {
			t.Errorf("%s: wrote %d frames without a trajectory", r.Name, r.Result.Frames)
		}
	}
}

func TestRunScenarioStopsOnError(t *testing.T) {
	sc := &Scenario{
		Name: "broken",
		Steps: []ScenarioStep{
			{Preset: "test", Params: map[string]float64{"gravity": 1}},
			{Preset: "test"},
		},
	}
	results, err := RunScenario(context.Background(), sc, nil)
	if !errors.Is(err, config.ErrUnknownParam) {
		t.Fatalf("expected ErrUnknownParam, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestLoadScenarioRejectsEmpty(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestStepConfigUnknownPreset(t *testing.T) {
	if _, err := (ScenarioStep{Preset: "nope"}).Config(); err == nil {
		t.Error("expected unknown preset error")
	}
}

func TestSweepValues(t *testing.T) {
	sw := &ParameterSweep{Param: "temperature_k", Min: 0, Max: 200, NumSteps: 3}
	got := sw.Values()
	want := []float64{0, 100, 200}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("values = %v, want %v", got, want)
		}
	}

	single := &ParameterSweep{Min: 5, Max: 9, NumSteps: 1}
	if v := single.Values(); len(v) != 1 || v[0] != 5 {
		t.Errorf("single point sweep = %v", v)
	}
}

func TestRunSweep(t *testing.T) {
	base := config.GetPreset("test")
	base.Size = []int{2, 2, 2}
	base.StepsPerBatch = 2
	base.Batches = 1
	base.Seed = 11

	sweep := &ParameterSweep{Base: base, Param: "temperature_k", Min: 0, Max: 300, NumSteps: 2}
	results, err := RunSweep(context.Background(), sweep, nil)
	if err != nil {
		t.Fatalf("RunSweep: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 points, got %d", len(results))
	}

	for _, r := range results {
		if r.Seed != 11 {
			t.Errorf("seed = %d, want 11", r.Seed)
		}
	}
	if results[0].MeanTemperature > 1e-6 {
		t.Errorf("crystal at 0 K heated to %g K", results[0].MeanTemperature)
	}
	if results[1].MeanTemperature <= results[0].MeanTemperature {
		t.Errorf("expected hotter second point: %g <= %g", results[1].MeanTemperature, results[0].MeanTemperature)
	}
	if base.TemperatureK != 300 {
		t.Errorf("sweep modified its base config: T = %g", base.TemperatureK)
	}
}

func TestRunSweepRejectsNoPoints(t *testing.T) {
	if _, err := RunSweep(context.Background(), &ParameterSweep{Base: config.DefaultConfig()}, nil); err == nil {
		t.Error("expected error for empty sweep")
	}
}
