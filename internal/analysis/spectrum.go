// Package analysis provides frequency-domain tools for recorded
// trajectories.
package analysis

import (
	"math"
	"math/cmplx"
)

// fft computes the radix-2 Cooley-Tukey transform. len(data) must be a
// power of two; PowerSpectrum pads its input before calling.
func fft(data []complex128) []complex128 {
	n := len(data)
	if n <= 1 {
		out := make([]complex128, n)
		copy(out, data)
		return out
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	fe := fft(even)
	fo := fft(odd)

	out := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		out[k] = fe[k] + w*fo[k]
		out[k+n/2] = fe[k] - w*fo[k]
	}
	return out
}

// PowerSpectrum returns the one-sided magnitude spectrum of data. The
// mean is removed and the signal zero-padded to a power of two, so the
// caller can pass raw samples. The padded length is returned alongside
// for frequency-bin conversion.
func PowerSpectrum(data []float64) ([]float64, int) {
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	if len(data) > 0 {
		mean /= float64(len(data))
	}

	n := 1
	for n < len(data) {
		n *= 2
	}

	padded := make([]complex128, n)
	for i, v := range data {
		padded[i] = complex(v-mean, 0)
	}

	spectrum := fft(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps, n
}

// DominantPeriod estimates the strongest oscillation period in a sampled
// signal with sample spacing dt. It returns 0 when no non-DC peak
// exists.
func DominantPeriod(data []float64, dt float64) float64 {
	if len(data) < 2 || dt <= 0 {
		return 0
	}

	ps, n := PowerSpectrum(data)

	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 {
		return 0
	}

	freq := float64(maxIdx) / (float64(n) * dt)
	return 1 / freq
}
