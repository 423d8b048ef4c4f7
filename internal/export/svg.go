package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/san-kum/mdsim/internal/metrics"
)

var ErrTooFewPoints = errors.New("export: need at least two samples")

// Series is one polyline of an energy chart.
type Series struct {
	Label  string
	Color  string
	Values func(metrics.Sample) float64
}

// DefaultSeries are the per-atom energies of a run.
var DefaultSeries = []Series{
	{Label: "Epot", Color: "#4488ff", Values: func(s metrics.Sample) float64 { return s.Epot }},
	{Label: "Ekin", Color: "#ff4444", Values: func(s metrics.Sample) float64 { return s.Ekin }},
	{Label: "Etot", Color: "#00ff88", Values: func(s metrics.Sample) float64 { return s.Etot }},
}

type point struct{ X, Y float64 }

// EnergySVG draws series against simulation time on shared axes.
func EnergySVG(samples []metrics.Sample, series []Series, width, height int) (string, error) {
	if len(samples) < 2 {
		return "", ErrTooFewPoints
	}

	lines := make([][]point, len(series))
	minX, maxX := samples[0].TimeFs, samples[0].TimeFs
	minY, maxY := series[0].Values(samples[0]), series[0].Values(samples[0])
	for k, s := range series {
		lines[k] = make([]point, len(samples))
		for i, smp := range samples {
			p := point{X: smp.TimeFs, Y: s.Values(smp)}
			lines[k][i] = p
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for k, s := range series {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.Color)
		for i, p := range lines[k] {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
		fmt.Fprintf(&sb, `<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16*(k+1), s.Color, s.Label)
	}

	fmt.Fprintf(&sb, `<text x="%d" y="%d" fill="#666688" font-family="monospace" font-size="11" text-anchor="end">%.0f fs, %.4f..%.4f eV/atom</text>
`, width-8, height-8, maxX, minY, maxY)
	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// WriteEnergySVG writes the default energy chart of samples.
func WriteEnergySVG(w io.Writer, samples []metrics.Sample, width, height int) error {
	svg, err := EnergySVG(samples, DefaultSeries, width, height)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, svg)
	return err
}

func WriteEnergySVGFile(path string, samples []metrics.Sample, width, height int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteEnergySVG(file, samples, width, height); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
