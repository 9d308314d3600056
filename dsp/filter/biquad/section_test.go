package biquad

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// tolerance for floating-point comparisons.
const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func state(s *Section) [2]float64 {
	return [2]float64{s.d0, s.d1}
}

func TestNewSection(t *testing.T) {
	c := Coefficients{B0: 1, B1: 2, B2: 3, A1: 4, A2: 5}
	s := NewSection(c)
	if s.Coefficients != c {
		t.Fatalf("coefficients mismatch: got %v, want %v", s.Coefficients, c)
	}
	if st := state(s); st != [2]float64{0, 0} {
		t.Fatalf("initial state not zero: %v", st)
	}
}

func TestProcessSample_DFIIT(t *testing.T) {
	// x = [1, 0, 0, 0] through B0=0.25, B1=0.5, B2=0.25, A1=-0.2, A2=0.04:
	//
	// n=0: y=0.25, d0=0.5+0.05=0.55, d1=0.25-0.01=0.24
	// n=1: y=0.55, d0=0.11+0.24=0.35, d1=-0.022
	// n=2: y=0.35, d0=0.07-0.022=0.048, d1=-0.014
	// n=3: y=0.048
	s := NewSection(Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04})

	want := []float64{0.25, 0.55, 0.35, 0.048}
	for i, w := range want {
		var x float64
		if i == 0 {
			x = 1
		}
		if y := s.ProcessSample(x); !almostEqual(y, w, eps) {
			t.Fatalf("n=%d: got %.15f, want %.15f", i, y, w)
		}
	}
}

func TestProcessBlock_MatchesProcessSample(t *testing.T) {
	c := Resonator(700, math.Sqrt2, 0.15, 16000)

	for _, n := range []int{0, 1, 2, 3, 4, 5, 7, 64, 257} {
		input := make([]float64, n)
		for i := range input {
			input[i] = math.Sin(0.3*float64(i)) + 0.1*float64(i%3)
		}

		ref := NewSection(c)
		want := make([]float64, n)
		for i, x := range input {
			want[i] = ref.ProcessSample(x)
		}

		s := NewSection(c)
		got := append([]float64(nil), input...)
		s.ProcessBlock(got)

		for i := range got {
			if !almostEqual(got[i], want[i], 1e-12) {
				t.Fatalf("n=%d sample %d: block=%.15f, ref=%.15f", n, i, got[i], want[i])
			}
		}
		if state(s) != state(ref) {
			t.Fatalf("n=%d: state mismatch block=%v ref=%v", n, state(s), state(ref))
		}
	}
}

func TestKernelsAgree(t *testing.T) {
	c := Resonator(1200, math.Sqrt2, 0.2, 22050)
	input := make([]float64, 131)
	for i := range input {
		input[i] = math.Cos(0.17 * float64(i))
	}

	kernels := map[string]blockKernel{
		"scalar":    processBlockScalar,
		"unrolled2": processBlockUnrolled2,
		"unrolled4": processBlockUnrolled4,
	}

	ref := append([]float64(nil), input...)
	refD0, refD1 := processBlockScalar(&c, 0, 0, ref)

	for name, k := range kernels {
		t.Run(name, func(t *testing.T) {
			buf := append([]float64(nil), input...)
			d0, d1 := k(&c, 0, 0, buf)
			for i := range buf {
				if !almostEqual(buf[i], ref[i], 1e-12) {
					t.Fatalf("sample %d: got %.15f, want %.15f", i, buf[i], ref[i])
				}
			}
			if !almostEqual(d0, refD0, 1e-12) || !almostEqual(d1, refD1, 1e-12) {
				t.Fatalf("state = (%v, %v), want (%v, %v)", d0, d1, refD0, refD1)
			}
		})
	}
}

func TestSelectKernel(t *testing.T) {
	if k := selectKernel(cpu.Features{ForceGeneric: true}); k == nil {
		t.Fatal("selectKernel returned nil for generic features")
	}
	if k := selectKernel(cpu.Features{HasAVX2: true}); k == nil {
		t.Fatal("selectKernel returned nil for AVX2 features")
	}
}

func TestSetCoefficients_PreservesState(t *testing.T) {
	s := NewSection(Resonator(500, math.Sqrt2, 0.1, 16000))
	s.ProcessSample(1)
	s.ProcessSample(0.5)
	before := state(s)

	s.SetCoefficients(Resonator(500, math.Sqrt2, 0.3, 16000))
	if state(s) != before {
		t.Fatalf("state changed: got %v, want %v", state(s), before)
	}
}

func TestReset(t *testing.T) {
	s := NewSection(Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04})
	s.ProcessSample(1)
	if state(s) == [2]float64{0, 0} {
		t.Fatal("impulse left no state")
	}

	s.Reset()
	if state(s) != [2]float64{0, 0} {
		t.Fatalf("Reset left state %v", state(s))
	}
	if y := s.ProcessSample(1); !almostEqual(y, 0.25, eps) {
		t.Fatalf("after Reset: got %v, want 0.25", y)
	}
}
