package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// Spectrum is the one-sided amplitude spectrum of a sampled signal.
// Frequencies are in Hz; the zero-frequency bin is dropped.
type Spectrum struct {
	Frequencies []float64 `json:"frequencies"`
	Amplitude   []float64 `json:"amplitude"`
}

// DischargeSpectrum transforms a series sampled every dt seconds after
// removing its mean, so a steady flow has no dominant component.
func DischargeSpectrum(series []float64, dt float64) Spectrum {
	n := len(series)
	if n < 4 || dt <= 0 {
		return Spectrum{}
	}

	mean := stat.Mean(series, nil)
	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, centered)

	var s Spectrum
	for i := 1; i < len(coeff); i++ {
		s.Frequencies = append(s.Frequencies, fft.Freq(i)/dt)
		s.Amplitude = append(s.Amplitude, cmplx.Abs(coeff[i])/float64(n))
	}
	return s
}

// minRelativePeak is the fraction of total spectral amplitude a peak needs to
// count as a fluctuation rather than noise.
const minRelativePeak = 1e-9

// DominantPeriod returns the period of the strongest component, if any.
func (s Spectrum) DominantPeriod() (float64, bool) {
	best, total := -1, 0.0
	for i, a := range s.Amplitude {
		total += a
		if best < 0 || a > s.Amplitude[best] {
			best = i
		}
	}
	if best < 0 || total == 0 || s.Amplitude[best] <= minRelativePeak*total {
		return 0, false
	}
	return 1 / s.Frequencies[best], true
}
