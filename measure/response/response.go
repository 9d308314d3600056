package response

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-sai/dsp/core"
	"github.com/cwbudde/algo-sai/dsp/filter/biquad"
	"github.com/cwbudde/algo-vecmath"
)

// Channel describes the response at one tap of the cascade.
type Channel struct {
	// Index is the tap position, 0 being the output of the first stage.
	Index int

	// PeakHz is the centre frequency of the strongest bin.
	PeakHz float64

	// PeakGainDB is the gain at PeakHz.
	PeakGainDB float64

	// LowerHz and UpperHz are the -3 dB points around the peak,
	// interpolated between bins. They stop at DC and Nyquist.
	LowerHz, UpperHz float64

	// Power holds |H|^2 for bins 0..FFTSize/2, spaced BinHz apart.
	Power []float64
	BinHz float64
}

// BandwidthHz returns UpperHz - LowerHz.
func (c Channel) BandwidthHz() float64 { return c.UpperHz - c.LowerHz }

// Q returns PeakHz over the -3 dB bandwidth, or 0 for an unbounded band.
func (c Channel) Q() float64 {
	bw := c.BandwidthHz()
	if bw <= 0 {
		return 0
	}
	return c.PeakHz / bw
}

// Measure returns one Channel per section of coeffs. Channel i is the
// response of sections 0..i in series.
func Measure(coeffs []biquad.Coefficients, sampleRate float64, opts ...Option) ([]Channel, error) {
	if len(coeffs) == 0 {
		return nil, fmt.Errorf("response: no sections")
	}
	if !(sampleRate > 0) {
		return nil, fmt.Errorf("response: sample rate must be > 0: %g", sampleRate)
	}

	cfg := config{fftSize: defaultFFTSize}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	for i := range coeffs {
		if !coeffs[i].Stable() {
			return nil, fmt.Errorf("response: section %d is unstable", i)
		}
	}

	n := cfg.fftSize
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("response: FFT plan: %w", err)
	}

	tap := make([]float64, n)
	tap[0] = 1

	in := make([]complex128, n)
	freq := make([]complex128, n)
	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	binHz := sampleRate / float64(n)

	channels := make([]Channel, len(coeffs))
	for i := range coeffs {
		biquad.NewSection(coeffs[i]).ProcessBlock(tap)

		for j, v := range tap {
			in[j] = complex(v, 0)
		}
		if err := plan.Forward(freq, in); err != nil {
			return nil, fmt.Errorf("response: forward FFT: %w", err)
		}
		for k := 0; k < bins; k++ {
			re[k] = real(freq[k])
			im[k] = imag(freq[k])
		}

		power := make([]float64, bins)
		vecmath.Power(power, re, im)

		channels[i] = summarize(i, power, binHz)
	}

	return channels, nil
}

func summarize(index int, power []float64, binHz float64) Channel {
	peak := 0
	for k, p := range power {
		if p > power[peak] {
			peak = k
		}
	}

	ch := Channel{
		Index:  index,
		PeakHz: float64(peak) * binHz,
		Power:  power,
		BinHz:  binHz,
	}
	ch.PeakGainDB = core.PowerToDB(power[peak])
	if power[peak] <= 0 {
		return ch
	}

	half := power[peak] / 2
	last := len(power) - 1

	lo := peak
	for lo > 0 && power[lo] >= half {
		lo--
	}
	if power[lo] < half {
		ch.LowerHz = crossing(power, lo, lo+1, half) * binHz
	}

	hi := peak
	for hi < last && power[hi] >= half {
		hi++
	}
	if power[hi] < half {
		ch.UpperHz = crossing(power, hi-1, hi, half) * binHz
	} else {
		ch.UpperHz = float64(last) * binHz
	}

	return ch
}

// crossing returns the fractional bin between a and a+1 where power meets
// level.
func crossing(power []float64, a, b int, level float64) float64 {
	return float64(a) + (level-power[a])/(power[b]-power[a])*float64(b-a)
}
