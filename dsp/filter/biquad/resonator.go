package biquad

import "math"

// maxZeroTheta keeps resonator zeros just below Nyquist.
const maxZeroTheta = 0.98 * math.Pi

// Resonator designs one stage of a cascade of asymmetric resonators.
//
// The poles sit at poleHz with radius exp(-zeta*theta); the zeros sit at
// zeroRatio*poleHz (capped below Nyquist) on the same radius, which gives the
// stage its steep high-side slope. The numerator is scaled for unity DC gain
// so that a long cascade does not drift in level at low frequencies.
func Resonator(poleHz, zeroRatio, zeta, sampleRate float64) Coefficients {
	theta := 2 * math.Pi * poleHz / sampleRate
	oneMinusR := -math.Expm1(-zeta * theta)
	r := 1 - oneMinusR

	thetaZ := math.Min(theta*zeroRatio, maxZeroTheta)

	a1 := -2 * r * math.Cos(theta)
	a2 := r * r
	n1 := -2 * r * math.Cos(thetaZ)
	n2 := r * r

	g := dcSum(oneMinusR, r, theta) / dcSum(oneMinusR, r, thetaZ)

	return Coefficients{
		B0: g,
		B1: g * n1,
		B2: g * n2,
		A1: a1,
		A2: a2,
	}
}

// dcSum returns 1 - 2r*cos(theta) + r^2 without the cancellation of the
// direct sum when r is near 1 and theta is small.
func dcSum(oneMinusR, r, theta float64) float64 {
	s := math.Sin(theta / 2)
	return oneMinusR*oneMinusR + 4*r*s*s
}

// OnePoleLowpass designs a first-order lowpass y += c*(x - y) with
// c = 1 - exp(-2*pi*cutoffHz/sampleRate), expressed as a biquad.
func OnePoleLowpass(cutoffHz, sampleRate float64) Coefficients {
	c := 1 - math.Exp(-2*math.Pi*cutoffHz/sampleRate)

	return Coefficients{B0: c, A1: c - 1}
}
