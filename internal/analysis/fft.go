package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/mdsim/internal/metrics"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrTooShort   = errors.New("analysis: series too short")
	ErrNonUniform = errors.New("analysis: samples are not uniformly spaced")
)

// Spectrum is a one-sided power spectrum. Frequencies are in THz.
type Spectrum struct {
	FreqTHz []float64
	Power   []float64
}

// PowerSpectrum returns the power of series after removing its mean.
// dtFs is the sampling interval in femtoseconds.
func PowerSpectrum(series []float64, dtFs float64) (Spectrum, error) {
	n := len(series)
	if n < 4 {
		return Spectrum{}, fmt.Errorf("%w: %d points", ErrTooShort, n)
	}
	if dtFs <= 0 {
		return Spectrum{}, fmt.Errorf("analysis: sampling interval must be positive, got %g", dtFs)
	}

	mean := stat.Mean(series, nil)
	centred := make([]float64, n)
	copy(centred, series)
	floats.AddConst(-mean, centred)

	coeff := fft.FFTReal(centred)[:n/2+1]

	sp := Spectrum{
		FreqTHz: make([]float64, len(coeff)),
		Power:   make([]float64, len(coeff)),
	}
	for i, c := range coeff {
		// cycles per fs -> THz
		sp.FreqTHz[i] = float64(i) / (float64(n) * dtFs) * 1000
		a := cmplx.Abs(c)
		sp.Power[i] = a * a / float64(n)
	}
	return sp, nil
}

// Dominant returns the frequency with the largest power, ignoring the zero
// frequency.
func (s Spectrum) Dominant() (float64, error) {
	if len(s.Power) < 2 {
		return 0, ErrTooShort
	}
	i := floats.MaxIdx(s.Power[1:]) + 1
	return s.FreqTHz[i], nil
}

// SampleSpacing returns the common time between consecutive samples in fs.
func SampleSpacing(samples []metrics.Sample) (float64, error) {
	if len(samples) < 2 {
		return 0, fmt.Errorf("%w: %d samples", ErrTooShort, len(samples))
	}
	dt := samples[1].TimeFs - samples[0].TimeFs
	for i := 2; i < len(samples); i++ {
		d := samples[i].TimeFs - samples[i-1].TimeFs
		if math.Abs(d-dt) > 1e-6*math.Max(1, math.Abs(dt)) {
			return 0, fmt.Errorf("%w: %g fs then %g fs at sample %d", ErrNonUniform, dt, d, i)
		}
	}
	if dt <= 0 {
		return 0, fmt.Errorf("%w: non-increasing time", ErrNonUniform)
	}
	return dt, nil
}
