package modem

import "math"

// bandpassFilter is a digital IIR bandpass filter built from a Butterworth
// analog prototype via the standard lowpass-to-bandpass and bilinear
// transforms. b and a are the numerator/denominator coefficients of the
// resulting transfer function, highest-order term first, with a[0] == 1.
type bandpassFilter struct {
	b, a []float64
}

// newCarrierBandpass builds the receive-side filter: a butterworthOrder
// Butterworth bandpass spanning [bandpassLow, bandpassHigh] Hz at
// SampleRate, designed the way scipy.signal.butter(..., btype="bandpass")
// does — analog Butterworth prototype, lowpass-to-bandpass transform,
// bilinear transform to the digital domain.
func newCarrierBandpass() bandpassFilter {
	// Prewarp the edge frequencies (bilinear transform distorts frequency,
	// so the analog prototype must be designed at the warped location to
	// land on the right digital cutoff).
	warp := func(fHz float64) float64 {
		return 2 * SampleRate * math.Tan(math.Pi*fHz/SampleRate)
	}
	wl, wh := warp(bandpassLow), warp(bandpassHigh)
	w0 := math.Sqrt(wl * wh)
	bw := wh - wl

	poles := butterworthPrototypePoles(butterworthOrder)
	zBP, pBP, kBP := lowpassToBandpass(poles, w0, bw)
	zD, pD, kD := bilinearTransform(zBP, pBP, kBP, SampleRate)

	b := realPoly(polyFromRoots(zD))
	a := realPoly(polyFromRoots(pD))
	for i := range b {
		b[i] *= kD
	}
	return bandpassFilter{b: b, a: a}
}

// butterworthPrototypePoles returns the N poles of the normalized
// (cutoff = 1 rad/s) analog Butterworth lowpass prototype, all-pole with
// unity DC gain: p_k = -exp(i*pi*m/(2N)) for m = -N+1, -N+3, ..., N-1.
func butterworthPrototypePoles(order int) []complex128 {
	poles := make([]complex128, order)
	for k := 0; k < order; k++ {
		m := float64(-order + 1 + 2*k)
		theta := math.Pi * m / (2 * float64(order))
		poles[k] = -complex(math.Cos(theta), math.Sin(theta))
	}
	return poles
}

// lowpassToBandpass applies the analog lowpass-to-bandpass frequency
// transform s -> (s^2 + w0^2)/(bw*s) to an all-pole lowpass prototype,
// doubling the pole count and introducing a zero of that same multiplicity
// at the origin.
func lowpassToBandpass(lpPoles []complex128, w0, bw float64) (zeros, poles []complex128, gain float64) {
	degree := len(lpPoles)
	zeros = make([]complex128, degree) // all at s=0
	poles = make([]complex128, 0, 2*degree)
	w0sq := complex(w0*w0, 0)
	for _, p := range lpPoles {
		pScaled := p * complex(bw/2, 0)
		disc := csqrt(pScaled*pScaled - w0sq)
		poles = append(poles, pScaled+disc, pScaled-disc)
	}
	gain = math.Pow(bw, float64(degree))
	return zeros, poles, gain
}

// bilinearTransform maps an analog zpk filter to its digital equivalent via
// z = (2*fs + s) / (2*fs - s), padding the zero count up to the pole count
// with zeros at z = -1 (the standard convention for a degree-deficient
// analog prototype).
func bilinearTransform(zeros, poles []complex128, gain float64, fs float64) (zD, pD []complex128, kD float64) {
	fs2 := complex(2*fs, 0)
	degree := len(poles) - len(zeros)

	zD = make([]complex128, 0, len(poles))
	prodNumFs := complex(1, 0)
	for _, z := range zeros {
		zD = append(zD, (fs2+z)/(fs2-z))
		prodNumFs *= fs2 - z
	}
	for i := 0; i < degree; i++ {
		zD = append(zD, -1)
	}

	pD = make([]complex128, 0, len(poles))
	prodDenFs := complex(1, 0)
	for _, p := range poles {
		pD = append(pD, (fs2+p)/(fs2-p))
		prodDenFs *= fs2 - p
	}

	kD = gain * real(prodNumFs/prodDenFs)
	return zD, pD, kD
}

// polyFromRoots expands prod(x - r_i) into its coefficients, highest
// degree first, leading coefficient 1.
func polyFromRoots(roots []complex128) []complex128 {
	coeffs := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * r
		}
		coeffs = next
	}
	return coeffs
}

// realPoly discards the (numerically negligible) imaginary part left over
// from conjugate-pair root expansion.
func realPoly(c []complex128) []float64 {
	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = real(v)
	}
	return out
}

// csqrt returns the principal complex square root of z.
func csqrt(z complex128) complex128 {
	r := math.Hypot(real(z), imag(z))
	re := math.Sqrt((r + real(z)) / 2)
	im := math.Sqrt((r - real(z)) / 2)
	if imag(z) < 0 {
		im = -im
	}
	return complex(re, im)
}

// apply runs x through the filter once (direct form II transposed would be
// more numerically robust; this direct form matches the teacher's
// preference for the most legible implementation over squeezing out the
// last bit of numerical headroom on a 9-tap filter).
func (f bandpassFilter) apply(x []float64) []float64 {
	y := make([]float64, len(x))
	for n := range x {
		acc := 0.0
		for i, bi := range f.b {
			if n-i >= 0 {
				acc += bi * x[n-i]
			}
		}
		for j := 1; j < len(f.a); j++ {
			if n-j >= 0 {
				acc -= f.a[j] * y[n-j]
			}
		}
		y[n] = acc
	}
	return y
}

// filtfilt applies f forward then backward so the result has zero phase
// distortion, at the cost of running the filter twice. Edges are padded by
// reflection to damp the transient the filter's own startup otherwise
// injects near the boundaries.
func (f bandpassFilter) filtfilt(x []float64) []float64 {
	padLen := 3 * len(f.a)
	if padLen >= len(x) {
		padLen = len(x) - 1
	}
	if padLen < 0 {
		padLen = 0
	}

	padded := make([]float64, 0, len(x)+2*padLen)
	for i := padLen; i >= 1; i-- {
		padded = append(padded, 2*x[0]-x[i])
	}
	padded = append(padded, x...)
	for i := 1; i <= padLen; i++ {
		padded = append(padded, 2*x[len(x)-1]-x[len(x)-1-i])
	}

	forward := f.apply(padded)
	reverse(forward)
	backward := f.apply(forward)
	reverse(backward)

	return backward[padLen : padLen+len(x)]
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
