package modem

import "math"

// goertzelPower estimates the power of samples at freq Hz (sampled at
// SampleRate) using the Goertzel algorithm — a single-bin DFT, far cheaper
// than a full FFT when only one tone's presence matters. The frequency bin
// is the nearest integer bin to freq for a DFT of length len(samples), so
// the estimate is exact for a window that is an integer number of carrier
// cycles and close otherwise.
func goertzelPower(samples []float64, freq float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	k := math.Round(float64(n) * freq / SampleRate)
	omega := 2 * math.Pi * k / float64(n)
	coeff := 2 * math.Cos(omega)

	var s0, s1, s2 float64
	for _, x := range samples {
		s0 = x + coeff*s1 - s2
		s2 = s1
		s1 = s0
	}
	power := s1*s1 + s2*s2 - coeff*s1*s2
	return power / float64(n*n)
}
