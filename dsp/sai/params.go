package sai

import (
	"fmt"

	"github.com/cwbudde/algo-sai/dsp/window"
)

// Params is the immutable engine configuration.
type Params struct {
	// NumChannels is the number of NAP rows.
	NumChannels int

	// SAIWidth is the number of lag columns in the output.
	SAIWidth int

	// InputSegmentWidth is the number of NAP columns per segment.
	InputSegmentWidth int

	// TriggerWindowWidth is the length of the trigger search region.
	TriggerWindowWidth int

	// FutureLags is the number of output columns taken from after the
	// trigger.
	FutureLags int

	// NumTriggersPerFrame is the number of sub-windows searched, and the
	// number of history windows averaged, per channel and segment.
	NumTriggersPerFrame int

	// TriggerWindow weighs each sub-window before its argmax. The zero
	// value is sine-squared.
	TriggerWindow window.Type
}

// DefaultParams derives the visualizer configuration for a segment width:
// the image spans one segment of lag, the search region one segment plus one
// sample, half of the lags lie after the trigger and two triggers are
// averaged.
func DefaultParams(numChannels, segmentWidth int) Params {
	return Params{
		NumChannels:         numChannels,
		SAIWidth:            segmentWidth,
		InputSegmentWidth:   segmentWidth,
		TriggerWindowWidth:  segmentWidth + 1,
		FutureLags:          segmentWidth / 2,
		NumTriggersPerFrame: 2,
	}
}

// Validate reports the first inconsistent field.
func (p Params) Validate() error {
	switch {
	case p.NumChannels < 1:
		return fmt.Errorf("sai: channels must be >= 1: %d", p.NumChannels)
	case p.SAIWidth < 1:
		return fmt.Errorf("sai: width must be >= 1: %d", p.SAIWidth)
	case p.InputSegmentWidth < 1:
		return fmt.Errorf("sai: input segment width must be >= 1: %d", p.InputSegmentWidth)
	case p.TriggerWindowWidth < 1:
		return fmt.Errorf("sai: trigger window width must be >= 1: %d", p.TriggerWindowWidth)
	case p.FutureLags < 0 || p.FutureLags > p.SAIWidth:
		return fmt.Errorf("sai: future lags must be in [0, %d]: %d", p.SAIWidth, p.FutureLags)
	case p.NumTriggersPerFrame < 1 || p.NumTriggersPerFrame > p.TriggerWindowWidth:
		return fmt.Errorf("sai: triggers per frame must be in [1, %d]: %d",
			p.TriggerWindowWidth, p.NumTriggersPerFrame)
	case !p.TriggerWindow.Valid():
		return fmt.Errorf("sai: unknown trigger window %v", p.TriggerWindow)
	}
	return nil
}

// BufferWidth returns the history depth in samples.
func (p Params) BufferWidth() int {
	return p.SAIWidth + p.TriggerWindowWidth
}

// PastLags returns the number of output columns up to and including the
// trigger.
func (p Params) PastLags() int {
	return p.SAIWidth - p.FutureLags
}
