package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sample is a report taken at an absolute integrator step.
type Sample struct {
	Step   int     `json:"step"`
	TimeFs float64 `json:"time_fs"`
	Report
}

// Summary describes the energy series of a run.
type Summary struct {
	MeanEtot        float64 `json:"mean_etot"`
	StdEtot         float64 `json:"std_etot"`
	MeanTemperature float64 `json:"mean_temperature"`
	StdTemperature  float64 `json:"std_temperature"`
	EtotSpread      float64 `json:"etot_spread"`
}

// Summarize computes means and standard deviations over samples. It needs at
// least two samples for a spread; fewer give zero deviations.
func Summarize(samples []Sample) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	etot := make([]float64, len(samples))
	temp := make([]float64, len(samples))
	for i, s := range samples {
		etot[i] = s.Etot
		temp[i] = s.Temperature
	}

	var sum Summary
	if len(samples) == 1 {
		sum.MeanEtot, sum.MeanTemperature = etot[0], temp[0]
		return sum
	}
	sum.MeanEtot, sum.StdEtot = stat.MeanStdDev(etot, nil)
	sum.MeanTemperature, sum.StdTemperature = stat.MeanStdDev(temp, nil)
	sum.EtotSpread = floats.Max(etot) - floats.Min(etot)
	return sum
}
