package carfac

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Output holds the NAP frames of one segment, one matrix per ear. It is
// reused across calls to RunSegment.
type Output struct {
	nap      []*mat.Dense
	channels int
	width    int
}

// NewOutput allocates an Output of numEars NAP frames, each numChannels x
// width.
func NewOutput(numEars, numChannels, width int) *Output {
	if numEars < 1 || numChannels < 1 || width < 1 {
		panic(fmt.Sprintf("carfac: invalid output shape %d x %d x %d", numEars, numChannels, width))
	}
	out := &Output{
		nap:      make([]*mat.Dense, numEars),
		channels: numChannels,
		width:    width,
	}
	for i := range out.nap {
		out.nap[i] = mat.NewDense(numChannels, width, nil)
	}
	return out
}

// NewOutput allocates an Output matching c for segments of width samples.
func (c *CARFAC) NewOutput(width int) *Output {
	return NewOutput(len(c.ears), len(c.poles), width)
}

// NAP returns the per-ear NAP frames (channels x samples). The matrices are
// overwritten by the next RunSegment.
func (o *Output) NAP() []*mat.Dense { return o.nap }

// Channels returns the number of rows of each NAP frame.
func (o *Output) Channels() int { return o.channels }

// Width returns the number of samples per segment.
func (o *Output) Width() int { return o.width }
