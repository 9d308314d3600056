package carfac

import (
	"fmt"
	"math"
)

// CARParams configures the resonator cascade.
type CARParams struct {
	// MinZeta and MaxZeta bound the stage damping. MinZeta applies at zero
	// AGC level; MaxZeta is approached as the level grows.
	MinZeta float64
	MaxZeta float64

	// FirstPoleTheta is the pole angle of channel 0 in radians per sample.
	FirstPoleTheta float64

	// ZeroRatio places each stage's zeros at ZeroRatio times its pole
	// frequency.
	ZeroRatio float64

	// ERBPerStep is the channel spacing in equivalent rectangular
	// bandwidths.
	ERBPerStep float64

	// MinPoleHz ends the cascade.
	MinPoleHz float64

	// ERBBreakFreq and ERBQ parameterize ERB(f) = (ERBBreakFreq + f) / ERBQ.
	ERBBreakFreq float64
	ERBQ         float64
}

// DefaultCARParams returns the standard human-cochlea cascade settings.
func DefaultCARParams() CARParams {
	return CARParams{
		MinZeta:        0.10,
		MaxZeta:        0.35,
		FirstPoleTheta: 0.85 * math.Pi,
		ZeroRatio:      math.Sqrt2,
		ERBPerStep:     0.5,
		MinPoleHz:      30,
		ERBBreakFreq:   165.3,
		ERBQ:           1000 / (24.7 * 4.37),
	}
}

// Validate reports the first inconsistent field.
func (p CARParams) Validate() error {
	switch {
	case !(p.MinZeta > 0):
		return fmt.Errorf("carfac: min zeta must be > 0: %g", p.MinZeta)
	case p.MaxZeta < p.MinZeta || p.MaxZeta >= 1:
		return fmt.Errorf("carfac: max zeta must be in [%g, 1): %g", p.MinZeta, p.MaxZeta)
	case !(p.FirstPoleTheta > 0) || p.FirstPoleTheta >= math.Pi:
		return fmt.Errorf("carfac: first pole theta must be in (0, pi): %g", p.FirstPoleTheta)
	case !(p.ZeroRatio > 1):
		return fmt.Errorf("carfac: zero ratio must be > 1: %g", p.ZeroRatio)
	case !(p.ERBPerStep > 0):
		return fmt.Errorf("carfac: ERB per step must be > 0: %g", p.ERBPerStep)
	case !(p.MinPoleHz > 0):
		return fmt.Errorf("carfac: min pole frequency must be > 0: %g", p.MinPoleHz)
	case p.ERBBreakFreq < 0:
		return fmt.Errorf("carfac: ERB break frequency must be >= 0: %g", p.ERBBreakFreq)
	case !(p.ERBQ > 0):
		return fmt.Errorf("carfac: ERB Q must be > 0: %g", p.ERBQ)
	}
	return nil
}

// IHCParams configures the inner-hair-cell detector.
type IHCParams struct {
	// Offset is added to the cascade output before rectification.
	Offset float64

	// TauLPF is the time constant in seconds of each of the two output
	// lowpass sections.
	TauLPF float64
}

// DefaultIHCParams returns the standard detector settings.
func DefaultIHCParams() IHCParams {
	return IHCParams{
		Offset: 0.175,
		TauLPF: 80e-6,
	}
}

// Validate reports the first inconsistent field.
func (p IHCParams) Validate() error {
	if p.Offset < 0 {
		return fmt.Errorf("carfac: IHC offset must be >= 0: %g", p.Offset)
	}
	if !(p.TauLPF > 0) {
		return fmt.Errorf("carfac: IHC lowpass time constant must be > 0: %g", p.TauLPF)
	}
	return nil
}

// AGCParams configures the automatic gain control loop.
type AGCParams struct {
	// NumStages is the number of parallel temporal smoothers.
	NumStages int

	// TimeConstant is the time constant of stage 0 in seconds; stage k uses
	// TimeConstant * TimeConstantMul^k.
	TimeConstant    float64
	TimeConstantMul float64

	// SpatialSmoothing is the weight given to each neighbouring channel in
	// the per-segment 3-tap spatial filter.
	SpatialSmoothing float64

	// Gain scales the mean stage level before it is mapped to damping.
	Gain float64
}

// DefaultAGCParams returns the standard gain-control settings.
func DefaultAGCParams() AGCParams {
	return AGCParams{
		NumStages:        4,
		TimeConstant:     0.002,
		TimeConstantMul:  4,
		SpatialSmoothing: 0.25,
		Gain:             2,
	}
}

// Validate reports the first inconsistent field.
func (p AGCParams) Validate() error {
	switch {
	case p.NumStages < 1:
		return fmt.Errorf("carfac: AGC stages must be >= 1: %d", p.NumStages)
	case !(p.TimeConstant > 0):
		return fmt.Errorf("carfac: AGC time constant must be > 0: %g", p.TimeConstant)
	case !(p.TimeConstantMul >= 1):
		return fmt.Errorf("carfac: AGC time constant multiplier must be >= 1: %g", p.TimeConstantMul)
	case p.SpatialSmoothing < 0 || p.SpatialSmoothing >= 0.5:
		return fmt.Errorf("carfac: AGC spatial smoothing must be in [0, 0.5): %g", p.SpatialSmoothing)
	case p.Gain < 0:
		return fmt.Errorf("carfac: AGC gain must be >= 0: %g", p.Gain)
	}
	return nil
}
