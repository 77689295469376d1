package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// minSpectrumSamples is the shortest signal worth transforming.
const minSpectrumSamples = 4

// PowerSpectrum returns the magnitude of each non-negative frequency bin of
// the mean-removed signal. Bin k corresponds to k/len(data) cycles per
// sample. Signals containing NaN or Inf have no spectrum.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < minSpectrumSamples {
		return nil
	}
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
	}

	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	coeffs := fourier.NewFFT(len(centered)).Coefficients(nil, centered)
	ps := make([]float64, len(coeffs))
	for i, c := range coeffs {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantPeriod returns the period of the strongest non-constant component
// of a signal sampled every interval seconds. ok is false for short, flat or
// non-finite signals.
func DominantPeriod(data []float64, interval float64) (period float64, ok bool) {
	ps := PowerSpectrum(data)
	if ps == nil || !(interval > 0) {
		return 0, false
	}

	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[best] || best == 0 {
			best = k
		}
	}
	if best == 0 || ps[best] < 1e-12*float64(len(data)) {
		return 0, false
	}
	return interval * float64(len(data)) / float64(best), true
}
