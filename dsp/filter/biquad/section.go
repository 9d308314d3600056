package biquad

import (
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// Coefficients holds the transfer function coefficients for a single
// second-order section. a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Section is a single biquad filter with coefficients and internal state.
type Section struct {
	Coefficients

	d0, d1 float64
}

type blockKernel func(c *Coefficients, d0, d1 float64, buf []float64) (float64, float64)

var (
	processBlockImpl     blockKernel
	processBlockInitOnce sync.Once
)

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float64) {
	processBlockInitOnce.Do(initProcessBlockKernel)

	s.d0, s.d1 = processBlockImpl(&s.Coefficients, s.d0, s.d1, buf)
}

// SetCoefficients replaces the coefficients and keeps the delay line.
func (s *Section) SetCoefficients(c Coefficients) {
	s.Coefficients = c
}

// Reset clears the delay line to zero.
func (s *Section) Reset() {
	s.d0 = 0
	s.d1 = 0
}

func initProcessBlockKernel() {
	processBlockImpl = selectKernel(cpu.DetectFeatures())
}

// selectKernel picks the 4x-unrolled loop on AVX2 and NEON machines, the
// scalar loop when generic code is forced, and the 2x loop elsewhere.
func selectKernel(f cpu.Features) blockKernel {
	if f.ForceGeneric {
		return processBlockScalar
	}

	if f.HasAVX2 || f.HasNEON {
		return processBlockUnrolled4
	}

	return processBlockUnrolled2
}
