package core

import "math"

// ClampUnit limits value to [0, 1]. NaN maps to 0.
func ClampUnit(value float64) float64 {
	if !(value > 0) {
		return 0
	}

	if value > 1 {
		return 1
	}

	return value
}

// PowerToDB converts a power ratio to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func PowerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// Long-running feedback state (AGC smoothers, IIR delay lines fed with
// silence) otherwise decays into the denormal range and slows the hot loop.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// ERBHz returns the equivalent rectangular bandwidth at freqHz for a
// Glasberg-Moore style model with the given break frequency and Q.
func ERBHz(freqHz, breakFreqHz, q float64) float64 {
	return (breakFreqHz + freqHz) / q
}
