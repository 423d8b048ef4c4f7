// Package analysis provides frequency analysis of recorded energy series.
//
//   - [PowerSpectrum]: one-sided power spectrum of a uniformly sampled series
//   - [SampleSpacing]: the sampling interval of a run's samples
//   - [Spectrum.Dominant]: the strongest non-zero frequency
//
// The kinetic energy of a crystal exchanges with the potential energy at
// twice the phonon frequencies, so its spectrum shows the lattice vibrations
// resolved by the report interval:
//
//	dt, _ := analysis.SampleSpacing(samples)
//	sp, _ := analysis.PowerSpectrum(ekin, dt)
//	f, _ := sp.Dominant()
package analysis
