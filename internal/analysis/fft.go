package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// Spectrum returns the single-sided amplitude spectrum of x sampled every dt
// seconds. The mean is removed first so a settled offset does not swamp the
// DC bin.
func Spectrum(x []float64, dt float64) (freqs, amps []float64) {
	n := len(x)
	if n < 2 || dt <= 0 {
		return nil, nil
	}

	mean := stat.Mean(x, nil)
	centred := make([]float64, n)
	for i, v := range x {
		centred[i] = v - mean
	}
	y := fft.FFTReal(centred)

	half := n/2 + 1
	freqs = make([]float64, half)
	amps = make([]float64, half)
	for i := 0; i < half; i++ {
		freqs[i] = float64(i) / (float64(n) * dt)
		mag := cmplx.Abs(y[i])
		if i == 0 || (n%2 == 0 && i == n/2) {
			amps[i] = mag / float64(n)
		} else {
			amps[i] = 2 * mag / float64(n)
		}
	}
	return freqs, amps
}

// DominantFrequency returns the strongest non-DC component of x.
func DominantFrequency(x []float64, dt float64) (freq, amp float64) {
	freqs, amps := Spectrum(x, dt)
	for i := 1; i < len(amps); i++ {
		if amps[i] > amp {
			freq, amp = freqs[i], amps[i]
		}
	}
	return freq, amp
}
