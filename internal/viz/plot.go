package viz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/mdsim/internal/metrics"
)

var ErrTooFewSamples = errors.New("viz: need at least two samples to plot")

// EnergyPlots charts total energy, the potential/kinetic split and the
// instantaneous temperature of samples, one graph per block.
func EnergyPlots(samples []metrics.Sample, width, height int) (string, error) {
	if len(samples) < 2 {
		return "", ErrTooFewSamples
	}

	epot := make([]float64, len(samples))
	ekin := make([]float64, len(samples))
	etot := make([]float64, len(samples))
	temp := make([]float64, len(samples))
	for i, s := range samples {
		epot[i], ekin[i], etot[i], temp[i] = s.Epot, s.Ekin, s.Etot, s.Temperature
	}

	first, last := samples[0], samples[len(samples)-1]
	span := fmt.Sprintf("step %d..%d", first.Step, last.Step)

	graphs := []string{
		asciigraph.Plot(etot,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Precision(4),
			asciigraph.Caption("Etot per atom [eV], "+span),
		),
		asciigraph.PlotMany([][]float64{epot, ekin},
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Precision(4),
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
			asciigraph.Caption("Epot (blue) and Ekin (red) per atom [eV]"),
		),
		asciigraph.Plot(temp,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Precision(1),
			asciigraph.Caption("temperature [K]"),
		),
	}
	return strings.Join(graphs, "\n\n"), nil
}

// SummaryBox renders the run summary in a bordered panel.
func SummaryBox(title string, sum metrics.Summary, drift float64) string {
	rows := [][2]string{
		{"mean Etot", fmt.Sprintf("%.5f eV", sum.MeanEtot)},
		{"std Etot", fmt.Sprintf("%.2e eV", sum.StdEtot)},
		{"Etot spread", fmt.Sprintf("%.2e eV", sum.EtotSpread)},
		{"energy drift", fmt.Sprintf("%.2e", drift)},
		{"mean T", fmt.Sprintf("%.1f K", sum.MeanTemperature)},
		{"std T", fmt.Sprintf("%.1f K", sum.StdTemperature)},
	}

	var b strings.Builder
	b.WriteString(Title.Render(title))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(MetricLabel.Render(fmt.Sprintf("%-13s", r[0])))
		b.WriteString(MetricValue.Render(r[1]))
	}
	return Panel.Render(b.String())
}
