package carfac

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sai/dsp/core"
	"github.com/cwbudde/algo-sai/dsp/filter/biquad"
	"gonum.org/v1/gonum/mat"
)

// CARFAC is a multi-ear cochlear filterbank. It is not safe for concurrent
// use.
type CARFAC struct {
	sampleRate float64
	car        CARParams
	ihc        IHCParams
	agc        AGCParams

	poles []float64
	ears  []*ear

	// agcAlpha[k] is the per-sample smoothing coefficient of AGC stage k.
	agcAlpha []float64
	ihcLPF   biquad.Coefficients
	rest     float64

	scratch []float64
}

// New constructs a filterbank for numEars independent inputs.
func New(numEars int, sampleRate float64, car CARParams, ihc IHCParams, agc AGCParams) (*CARFAC, error) {
	if numEars < 1 {
		return nil, fmt.Errorf("carfac: number of ears must be >= 1: %d", numEars)
	}
	if !(sampleRate > 0) {
		return nil, fmt.Errorf("carfac: sample rate must be > 0: %g", sampleRate)
	}
	if err := car.Validate(); err != nil {
		return nil, err
	}
	if err := ihc.Validate(); err != nil {
		return nil, err
	}
	if err := agc.Validate(); err != nil {
		return nil, err
	}

	poles := poleFrequencies(sampleRate, car)
	if len(poles) == 0 {
		return nil, fmt.Errorf("carfac: first pole %g Hz is below min pole %g Hz",
			car.FirstPoleTheta*sampleRate/(2*math.Pi), car.MinPoleHz)
	}

	c := &CARFAC{
		sampleRate: sampleRate,
		car:        car,
		ihc:        ihc,
		agc:        agc,
		poles:      poles,
		agcAlpha:   make([]float64, agc.NumStages),
		ihcLPF:     biquad.OnePoleLowpass(1/(2*math.Pi*ihc.TauLPF), sampleRate),
		rest:       detect(ihc.Offset),
	}

	tau := agc.TimeConstant
	for k := range c.agcAlpha {
		c.agcAlpha[k] = 1 - math.Exp(-1/(tau*sampleRate))
		tau *= agc.TimeConstantMul
	}

	c.ears = make([]*ear, numEars)
	for i := range c.ears {
		c.ears[i] = newEar(c)
	}

	return c, nil
}

// poleFrequencies steps down from the first pole by ERBPerStep ERBs until
// MinPoleHz.
func poleFrequencies(sampleRate float64, p CARParams) []float64 {
	var poles []float64
	f := p.FirstPoleTheta * sampleRate / (2 * math.Pi)
	for f > p.MinPoleHz {
		poles = append(poles, f)
		f -= p.ERBPerStep * core.ERBHz(f, p.ERBBreakFreq, p.ERBQ)
	}
	return poles
}

// NumChannels returns the number of cochlear channels per ear.
func (c *CARFAC) NumChannels() int { return len(c.poles) }

// NumEars returns the number of independent inputs.
func (c *CARFAC) NumEars() int { return len(c.ears) }

// SampleRate returns the sample rate in Hz.
func (c *CARFAC) SampleRate() float64 { return c.sampleRate }

// PoleFrequencies returns a copy of the channel pole frequencies in Hz,
// highest first.
func (c *CARFAC) PoleFrequencies() []float64 {
	return append([]float64(nil), c.poles...)
}

// Coefficients returns a copy of the current stage coefficients of ear 0.
// In closed-loop operation they change as the AGC level moves.
func (c *CARFAC) Coefficients() []biquad.Coefficients {
	e := c.ears[0]
	out := make([]biquad.Coefficients, len(e.stages))
	for i, s := range e.stages {
		out[i] = s.Coefficients
	}
	return out
}

// Damping returns a copy of the current per-channel damping of ear 0.
func (c *CARFAC) Damping() []float64 {
	return append([]float64(nil), c.ears[0].zeta...)
}

// Reset returns every ear to its initial state: zero filter memory, zero
// AGC level and the undamped-by-AGC stage coefficients.
func (c *CARFAC) Reset() {
	for _, e := range c.ears {
		e.reset()
	}
}

// RunSegment filters one segment. input has one row per ear and one column
// per sample; out must come from NewOutput with the same width. When
// openLoop is true the AGC state is updated but not fed back into the
// cascade.
//
// RunSegment panics if the shapes disagree.
func (c *CARFAC) RunSegment(input *mat.Dense, openLoop bool, out *Output) {
	if input == nil || out == nil {
		panic("carfac: nil input or output")
	}
	rows, width := input.Dims()
	if rows != len(c.ears) {
		panic(fmt.Sprintf("carfac: input has %d rows, want %d ears", rows, len(c.ears)))
	}
	if len(out.nap) != len(c.ears) || out.width != width || out.channels != len(c.poles) {
		panic(fmt.Sprintf("carfac: output is %d ears x %d channels x %d samples, want %d x %d x %d",
			len(out.nap), out.channels, out.width, len(c.ears), len(c.poles), width))
	}

	if cap(c.scratch) < width {
		c.scratch = make([]float64, width)
	}
	buf := c.scratch[:width]

	for i, e := range c.ears {
		copy(buf, input.RawRowView(i))
		e.run(buf, out.nap[i])
		e.smoothAGC()
		if !openLoop {
			e.applyFeedback()
		}
	}
}
