package testutil

import (
	"math"
	"math/rand"
)

// Tone generates a deterministic sine wave.
func Tone(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Noise generates white noise with a fixed seed for reproducibility.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Pulses places a unit impulse every period samples, the first at offset.
func Pulses(period, offset, length int) []float64 {
	out := make([]float64, length)
	if period <= 0 {
		return out
	}
	for i := offset; i < length; i += period {
		if i >= 0 {
			out[i] = 1
		}
	}
	return out
}

// Silence returns length zero samples.
func Silence(length int) []float64 {
	return make([]float64, length)
}

// Split cuts data into consecutive segments of width samples, dropping a
// short tail.
func Split(data []float64, width int) [][]float64 {
	var out [][]float64
	for i := 0; i+width <= len(data); i += width {
		out = append(out, data[i:i+width])
	}
	return out
}
