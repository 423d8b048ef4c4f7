package viz

import (
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/mdsim/internal/metrics"
)

func series(n int) []metrics.Sample {
	out := make([]metrics.Sample, n)
	for i := range out {
		out[i] = metrics.Sample{
			Step:   i * 10,
			TimeFs: float64(i) * 50,
			Report: metrics.Report{
				Epot:        -0.01 + 0.001*float64(i%3),
				Ekin:        0.03 - 0.001*float64(i%3),
				Temperature: 250 + float64(i),
				Etot:        0.02,
			},
		}
	}
	return out
}

func TestEnergyPlots(t *testing.T) {
	out, err := EnergyPlots(series(21), 60, 8)
	if err != nil {
		t.Fatalf("EnergyPlots: %v", err)
	}
	for _, want := range []string{"Etot per atom", "step 0..200", "Epot (blue)", "temperature [K]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestEnergyPlotsTooFew(t *testing.T) {
	if _, err := EnergyPlots(series(1), 60, 8); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("err = %v, want ErrTooFewSamples", err)
	}
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		runes  int
	}{
		{"empty", nil, 5, 5},
		{"flat", []float64{1, 1, 1}, 10, 3},
		{"sampled", []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 5, 5},
		{"zero width", []float64{1, 2}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sparkline(tt.values, tt.width)
			n := 0
			for _, r := range got {
				if r == '─' || (r >= '▁' && r <= '█') {
					n++
				}
			}
			if n != tt.runes {
				t.Errorf("got %d bar runes in %q, want %d", n, got, tt.runes)
			}
		})
	}
}

func TestSummaryBox(t *testing.T) {
	out := SummaryBox("run-1", metrics.Summary{MeanEtot: 0.0123, MeanTemperature: 280}, 1e-4)
	for _, want := range []string{"run-1", "mean Etot", "0.01230 eV", "280.0 K", "1.00e-04"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
