package sai

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-sai/dsp/window"
	"github.com/cwbudde/algo-sai/internal/testutil"
	"gonum.org/v1/gonum/mat"
)

func newTestSAI(t *testing.T, p Params) *SAI {
	t.Helper()
	s, err := New(p)
	if err != nil {
		t.Fatalf("New(%+v): %v", p, err)
	}
	return s
}

// rowFrame builds a 1 x len(data) NAP frame.
func rowFrame(data []float64) *mat.Dense {
	return mat.NewDense(1, len(data), append([]float64(nil), data...))
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams(65, 256)
	want := Params{
		NumChannels:         65,
		SAIWidth:            256,
		InputSegmentWidth:   256,
		TriggerWindowWidth:  257,
		FutureLags:          128,
		NumTriggersPerFrame: 2,
		TriggerWindow:       window.TypeSineSquared,
	}
	if p != want {
		t.Fatalf("DefaultParams = %+v, want %+v", p, want)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.BufferWidth() != 513 {
		t.Fatalf("BufferWidth = %d, want 513", p.BufferWidth())
	}
}

func TestValidate(t *testing.T) {
	base := DefaultParams(4, 16)
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{name: "channels", mutate: func(p *Params) { p.NumChannels = 0 }},
		{name: "width", mutate: func(p *Params) { p.SAIWidth = 0 }},
		{name: "segment", mutate: func(p *Params) { p.InputSegmentWidth = -1 }},
		{name: "trigger window", mutate: func(p *Params) { p.TriggerWindowWidth = 0 }},
		{name: "future lags above width", mutate: func(p *Params) { p.FutureLags = p.SAIWidth + 1 }},
		{name: "negative future lags", mutate: func(p *Params) { p.FutureLags = -1 }},
		{name: "no triggers", mutate: func(p *Params) { p.NumTriggersPerFrame = 0 }},
		{name: "too many triggers", mutate: func(p *Params) { p.NumTriggersPerFrame = p.TriggerWindowWidth + 1 }},
		{name: "unknown trigger window", mutate: func(p *Params) { p.TriggerWindow = window.Type(9) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Fatalf("Validate(%+v) = nil, want error", p)
			}
			if _, err := New(p); err == nil {
				t.Fatal("New accepted invalid params")
			}
		})
	}

	edge := base
	edge.FutureLags = edge.SAIWidth
	if err := edge.Validate(); err != nil {
		t.Fatalf("FutureLags == SAIWidth rejected: %v", err)
	}
}

func TestRunSegment_Shape(t *testing.T) {
	p := DefaultParams(5, 32)
	s := newTestSAI(t, p)

	nap := mat.NewDense(5, 32, testutil.Noise(1, 0.5, 5*32))
	out := s.RunSegment(nap)

	testutil.RequireShape(t, out, 5, 32)
	testutil.RequireShape(t, s.History(), 5, p.BufferWidth())
	testutil.RequireFinite(t, out)
	if out != s.Output() {
		t.Fatal("RunSegment did not return the owned output matrix")
	}
}

func TestRunSegment_ShapePanics(t *testing.T) {
	s := newTestSAI(t, DefaultParams(3, 16))

	testutil.RequirePanics(t, "want 3x16", func() {
		s.RunSegment(mat.NewDense(3, 15, nil))
	})
	testutil.RequirePanics(t, "want 3x16", func() {
		s.RunSegment(mat.NewDense(2, 16, nil))
	})
	testutil.RequirePanics(t, "nil", func() {
		s.RunSegment(nil)
	})
}

func TestRunSegment_FirstSegmentClamped(t *testing.T) {
	for _, p := range []Params{
		DefaultParams(3, 256),
		{NumChannels: 2, SAIWidth: 64, InputSegmentWidth: 16, TriggerWindowWidth: 17, FutureLags: 64, NumTriggersPerFrame: 3},
		{NumChannels: 2, SAIWidth: 16, InputSegmentWidth: 40, TriggerWindowWidth: 5, FutureLags: 0, NumTriggersPerFrame: 5},
	} {
		s := newTestSAI(t, p)
		nap := mat.NewDense(p.NumChannels, p.InputSegmentWidth,
			testutil.Noise(5, 1, p.NumChannels*p.InputSegmentWidth))

		out := s.RunSegment(nap)
		testutil.RequireShape(t, out, p.NumChannels, p.SAIWidth)
		testutil.RequireFinite(t, out)

		for ch := 0; ch < p.NumChannels; ch++ {
			trig := s.Triggers(ch)
			if len(trig) != p.NumTriggersPerFrame {
				t.Fatalf("%+v: %d triggers, want %d", p, len(trig), p.NumTriggersPerFrame)
			}
			for _, pos := range trig {
				if pos < 0 || pos >= p.BufferWidth() {
					t.Fatalf("%+v: trigger %d outside history", p, pos)
				}
			}
		}
	}
}

func TestRunSegment_SilenceIsZero(t *testing.T) {
	s := newTestSAI(t, DefaultParams(4, 64))
	nap := mat.NewDense(4, 64, nil)

	for i := 0; i < 3; i++ {
		testutil.RequireAllZero(t, s.RunSegment(nap))
	}
}

func TestRunSegment_EarliestTieBreak(t *testing.T) {
	// BufferWidth 17, search region [4, 13), weight peak at offset 4.
	p := Params{NumChannels: 1, SAIWidth: 8, InputSegmentWidth: 8, TriggerWindowWidth: 9, FutureLags: 4, NumTriggersPerFrame: 1}
	s := newTestSAI(t, p)

	first := make([]float64, 8)
	first[6] = 1 // history index 7, offset 3
	second := make([]float64, 8)
	second[0] = 1 // history index 9, offset 5

	s.RunSegment(rowFrame(first))
	out := s.RunSegment(rowFrame(second))

	if got := s.Triggers(0)[0]; got != 7 {
		t.Fatalf("trigger = %d, want 7 (earlier of two equal candidates)", got)
	}

	want := []float64{0, 0, 0, 1, 0, 1, 0, 0}
	for i, w := range want {
		if out.At(0, i) != w {
			t.Fatalf("out = %v, want %v", mat.Row(nil, 0, out), want)
		}
	}
}

func TestRunSegment_NoActivityTriggersAtWeightPeak(t *testing.T) {
	p := Params{NumChannels: 1, SAIWidth: 8, InputSegmentWidth: 8, TriggerWindowWidth: 9, FutureLags: 4, NumTriggersPerFrame: 1}
	s := newTestSAI(t, p)

	s.RunSegment(rowFrame([]float64{-1, -1, -1, -1, -1, -1, -1, -1}))
	if got := s.Triggers(0)[0]; got != 8 {
		t.Fatalf("trigger = %d, want weight peak at 8", got)
	}
}

func TestRunSegment_SubWindowEdgesCanTrigger(t *testing.T) {
	// BufferWidth 17, search region [4, 13): sub-windows [4, 6), [6, 8),
	// [8, 10) and [10, 13). Each peak sits on a sub-window edge.
	p := Params{NumChannels: 1, SAIWidth: 8, InputSegmentWidth: 8, TriggerWindowWidth: 9, FutureLags: 4, NumTriggersPerFrame: 4}
	s := newTestSAI(t, p)

	s.RunSegment(rowFrame([]float64{0, 0, 0, 0, 1, 0, 1, 0})) // history 5 and 7
	s.RunSegment(rowFrame([]float64{1, 1, 0.4, 0, 0, 0, 0, 0})) // history 9, 10, 11

	want := []int{5, 7, 9, 10}
	for i, w := range want {
		if got := s.Triggers(0)[i]; got != w {
			t.Fatalf("triggers = %v, want %v", s.Triggers(0), want)
		}
	}
}

func TestRunSegment_LastSampleOfRegionCanTrigger(t *testing.T) {
	p := Params{NumChannels: 1, SAIWidth: 8, InputSegmentWidth: 8, TriggerWindowWidth: 9, FutureLags: 4, NumTriggersPerFrame: 1}
	s := newTestSAI(t, p)

	// History index 12 is the last sample of the search region [4, 13).
	s.RunSegment(rowFrame([]float64{0, 0, 0, 1, 0, 0, 0, 0}))
	if got := s.Triggers(0)[0]; got != 12 {
		t.Fatalf("trigger = %d, want 12", got)
	}
}

func TestRunSegment_TriggerWindowChoice(t *testing.T) {
	// Search region [4, 13): 0.9 at history 4 (the region's first sample)
	// and 0.5 at history 8 (its centre).
	seg1 := []float64{0, 0, 0, 0.9, 0, 0, 0, 0.5}
	seg2 := make([]float64, 8)

	tests := []struct {
		window window.Type
		want   int
	}{
		{window: window.TypeSineSquared, want: 8},
		{window: window.TypeRectangular, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.window.String(), func(t *testing.T) {
			p := Params{NumChannels: 1, SAIWidth: 8, InputSegmentWidth: 8, TriggerWindowWidth: 9, FutureLags: 4,
				NumTriggersPerFrame: 1, TriggerWindow: tt.window}
			s := newTestSAI(t, p)

			s.RunSegment(rowFrame(seg1))
			s.RunSegment(rowFrame(seg2))
			if got := s.Triggers(0)[0]; got != tt.want {
				t.Fatalf("trigger = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRunSegment_PulseTrainIsStationary(t *testing.T) {
	const (
		width  = 256
		period = 120
	)
	p := DefaultParams(1, width)
	s := newTestSAI(t, p)
	pastLags := p.PastLags()

	segs := testutil.Split(testutil.Pulses(period, 7, width*10), width)
	for i, seg := range segs {
		out := s.RunSegment(rowFrame(seg))
		if i < 3 {
			continue
		}

		for col := 0; col < width; col++ {
			want := 0.0
			if (col-(pastLags-1))%period == 0 {
				want = 1
			}
			if got := out.At(0, col); got != want {
				t.Fatalf("segment %d col %d = %v, want %v", i, col, got, want)
			}
		}
	}
}

func TestRunSegment_AveragesTriggers(t *testing.T) {
	// Two sub-windows; only the first sees activity, so the second window
	// falls at its weight peak over zeros and halves the average.
	p := Params{NumChannels: 1, SAIWidth: 4, InputSegmentWidth: 4, TriggerWindowWidth: 8, FutureLags: 2, NumTriggersPerFrame: 2}
	s := newTestSAI(t, p)

	// BufferWidth 12, search region [2, 10): sub-windows [2, 6) and [6, 10).
	s.RunSegment(rowFrame([]float64{0, 0, 0, 0}))
	s.RunSegment(rowFrame([]float64{0, 0, 0, 0}))
	out := s.RunSegment(rowFrame([]float64{0, 0, 0, 0}))
	testutil.RequireAllZero(t, out)

	// Put a single spike at history index 4 (offset 2 of sub-window 0).
	s.Reset()
	s.RunSegment(rowFrame([]float64{0, 0, 0, 0}))
	s.RunSegment(rowFrame([]float64{1, 0, 0, 0}))
	out = s.RunSegment(rowFrame([]float64{0, 0, 0, 0}))

	if trig := s.Triggers(0); trig[0] != 4 || trig[1] != 7 {
		t.Fatalf("triggers = %v, want [4 7]", trig)
	}
	want := []float64{0, 0.5, 0, 0}
	for i, w := range want {
		if got := out.At(0, i); math.Abs(got-w) > 1e-15 {
			t.Fatalf("out = %v, want %v", mat.Row(nil, 0, out), want)
		}
	}
}

func TestRunSegment_LongSegmentKeepsNewest(t *testing.T) {
	p := Params{NumChannels: 1, SAIWidth: 4, InputSegmentWidth: 20, TriggerWindowWidth: 3, FutureLags: 2, NumTriggersPerFrame: 1}
	s := newTestSAI(t, p)

	seg := make([]float64, 20)
	for i := range seg {
		seg[i] = float64(i)
	}
	s.RunSegment(rowFrame(seg))

	got := mat.Row(nil, 0, s.History())
	for i, v := range got {
		if want := float64(13 + i); v != want {
			t.Fatalf("history = %v, want 13..19", got)
		}
	}
}

func TestReset_Equivalence(t *testing.T) {
	p := DefaultParams(3, 64)
	fresh := newTestSAI(t, p)
	used := newTestSAI(t, p)

	for i := 0; i < 5; i++ {
		used.RunSegment(mat.NewDense(3, 64, testutil.Noise(int64(i), 1, 3*64)))
	}
	used.Reset()

	if !mat.Equal(fresh.History(), used.History()) {
		t.Fatal("history differs after Reset")
	}
	if !mat.Equal(fresh.Output(), used.Output()) {
		t.Fatal("output differs after Reset")
	}

	nap := mat.NewDense(3, 64, testutil.Noise(42, 1, 3*64))
	testutil.RequireMatrixEqual(t, used.RunSegment(nap), fresh.RunSegment(nap))
}

func TestRunSegment_Deterministic(t *testing.T) {
	p := DefaultParams(4, 128)
	a := newTestSAI(t, p)
	b := newTestSAI(t, p)

	for i := 0; i < 4; i++ {
		nap := mat.NewDense(4, 128, testutil.Noise(int64(10+i), 1, 4*128))
		testutil.RequireMatrixEqual(t, a.RunSegment(nap), b.RunSegment(nap))
	}
}

func TestRunSegment_ChannelsIndependent(t *testing.T) {
	p := DefaultParams(2, 32)
	s := newTestSAI(t, p)

	data := make([]float64, 2*32)
	copy(data, testutil.Noise(9, 1, 32))
	out := s.RunSegment(mat.NewDense(2, 32, data))

	for col := 0; col < 32; col++ {
		if out.At(1, col) != 0 {
			t.Fatalf("silent channel leaked at col %d: %v", col, out.At(1, col))
		}
	}
}
