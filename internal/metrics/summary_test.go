package metrics

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	samples := []Sample{
		{Step: 0, Report: Report{Etot: 1.0, Temperature: 290}},
		{Step: 10, Report: Report{Etot: 3.0, Temperature: 310}},
	}

	s := Summarize(samples)
	if s.MeanEtot != 2.0 {
		t.Errorf("expected mean Etot 2, got %f", s.MeanEtot)
	}
	if math.Abs(s.StdEtot-math.Sqrt2) > 1e-12 {
		t.Errorf("expected std Etot sqrt(2), got %f", s.StdEtot)
	}
	if s.MeanTemperature != 300 {
		t.Errorf("expected mean T 300, got %f", s.MeanTemperature)
	}
	if s.EtotSpread != 2.0 {
		t.Errorf("expected spread 2, got %f", s.EtotSpread)
	}
}

func TestSummarizeShortSeries(t *testing.T) {
	if s := Summarize(nil); s != (Summary{}) {
		t.Errorf("expected zero summary, got %+v", s)
	}

	s := Summarize([]Sample{{Report: Report{Etot: 0.5, Temperature: 100}}})
	if s.MeanEtot != 0.5 || s.StdEtot != 0 {
		t.Errorf("unexpected single-sample summary %+v", s)
	}
}
