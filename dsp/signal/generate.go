package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-sai/dsp/core"
)

// Generator creates deterministic test and demo signals at a shared sample
// rate.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a signal generator. Processor options set the sample
// rate; signal options tune the generator itself.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: sine samples must be > 0: %d", samples)
	}
	if freqHz < 0 || freqHz >= g.cfg.SampleRate/2 {
		return nil, fmt.Errorf("signal: sine frequency must be in [0, %g): %g", g.cfg.SampleRate/2, freqHz)
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// PulseTrain generates unit impulses scaled by amplitude, repeating every
// round(sampleRate/freqHz) samples and starting at sample 0. A pulse train
// is the canonical periodic input for the stabilized auditory image: its
// period shows up as a vertical line at the matching lag.
func (g *Generator) PulseTrain(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: pulse samples must be > 0: %d", samples)
	}
	if freqHz <= 0 {
		return nil, fmt.Errorf("signal: pulse frequency must be > 0: %g", freqHz)
	}

	period := int(math.Round(g.cfg.SampleRate / freqHz))
	if period < 1 {
		return nil, fmt.Errorf("signal: pulse frequency %g Hz exceeds sample rate %g Hz", freqHz, g.cfg.SampleRate)
	}

	out := make([]float64, samples)
	for i := 0; i < samples; i += period {
		out[i] = amplitude
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("signal: noise amplitude must be >= 0: %g", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Segments splits data into consecutive width-sample segments. The final
// segment is zero-padded to full width. The returned segments do not alias
// data.
func Segments(data []float64, width int) ([][]float64, error) {
	if width <= 0 {
		return nil, fmt.Errorf("signal: segment width must be > 0: %d", width)
	}

	count := (len(data) + width - 1) / width
	backing := make([]float64, count*width)
	copy(backing, data)

	out := make([][]float64, count)
	for i := range out {
		out[i] = backing[i*width : (i+1)*width : (i+1)*width]
	}
	return out, nil
}

// Peak returns the largest absolute sample value of data.
func Peak(data []float64) float64 {
	maxAbs := 0.0
	for _, v := range data {
		if av := math.Abs(v); av > maxAbs {
			maxAbs = av
		}
	}
	return maxAbs
}

// Normalize scales data in place to the target peak amplitude. Silent input
// is left untouched.
func Normalize(data []float64, targetPeak float64) error {
	if targetPeak < 0 {
		return fmt.Errorf("signal: normalize target peak must be >= 0: %g", targetPeak)
	}

	maxAbs := Peak(data)
	if maxAbs == 0 {
		return nil
	}

	scale := targetPeak / maxAbs
	for i := range data {
		data[i] *= scale
	}
	return nil
}
