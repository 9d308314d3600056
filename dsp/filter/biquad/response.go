package biquad

import (
	"math"
	"math/cmplx"
)

// Response computes the complex frequency response H(e^jw) of a biquad
// at the given frequency (Hz) and sample rate (Hz).
func (c *Coefficients) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	ejw := cmplx.Exp(complex(0, -w))
	ej2w := cmplx.Exp(complex(0, -2*w))

	num := complex(c.B0, 0) + complex(c.B1, 0)*ejw + complex(c.B2, 0)*ej2w
	den := complex(1, 0) + complex(c.A1, 0)*ejw + complex(c.A2, 0)*ej2w
	return num / den
}

// MagnitudeSquared returns |H(f)|^2 using a closed-form expression.
func (c *Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freqHz/sampleRate)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw
	return num / den
}

// CascadeMagnitudeSquared returns the product of |H(f)|^2 over coeffs.
func CascadeMagnitudeSquared(coeffs []Coefficients, freqHz, sampleRate float64) float64 {
	m := 1.0
	for i := range coeffs {
		m *= coeffs[i].MagnitudeSquared(freqHz, sampleRate)
	}
	return m
}

// Poles returns the z-plane roots of 1 + A1*z^-1 + A2*z^-2.
func (c *Coefficients) Poles() [2]complex128 {
	disc := cmplx.Sqrt(complex(c.A1*c.A1-4*c.A2, 0))
	return [2]complex128{
		(-complex(c.A1, 0) + disc) / 2,
		(-complex(c.A1, 0) - disc) / 2,
	}
}

// Stable reports whether both poles lie strictly inside the unit circle.
func (c *Coefficients) Stable() bool {
	p := c.Poles()
	return cmplx.Abs(p[0]) < 1 && cmplx.Abs(p[1]) < 1
}
