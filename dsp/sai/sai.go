package sai

import (
	"fmt"

	"github.com/cwbudde/algo-sai/dsp/window"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SAI is the stabilization engine. It is not safe for concurrent use.
type SAI struct {
	p Params

	history *mat.Dense // NumChannels x BufferWidth
	output  *mat.Dense // NumChannels x SAIWidth

	// Sub-window bounds of the search region in history coordinates, and
	// the weight of each sub-window.
	bounds    [][2]int
	weights   [][]float64
	weightTop []int

	triggers [][]int
	strength []float64
}

// New constructs an engine with zeroed history.
func New(p Params) (*SAI, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s := &SAI{
		p:        p,
		history:  mat.NewDense(p.NumChannels, p.BufferWidth(), nil),
		output:   mat.NewDense(p.NumChannels, p.SAIWidth, nil),
		triggers: make([][]int, p.NumChannels),
		strength: make([]float64, p.TriggerWindowWidth),
	}

	// The search region is the TriggerWindowWidth most recent samples that
	// still have FutureLags samples of history after them.
	end := p.BufferWidth() - p.FutureLags
	start := end - p.TriggerWindowWidth
	n := p.NumTriggersPerFrame
	for w := 0; w < n; w++ {
		lo := start + w*p.TriggerWindowWidth/n
		hi := start + (w+1)*p.TriggerWindowWidth/n
		weight := window.Generate(p.TriggerWindow, hi-lo)
		s.bounds = append(s.bounds, [2]int{lo, hi})
		s.weights = append(s.weights, weight)
		s.weightTop = append(s.weightTop, window.Peak(weight))
	}

	for ch := range s.triggers {
		s.triggers[ch] = make([]int, n)
	}

	return s, nil
}

// Params returns the engine configuration.
func (s *SAI) Params() Params { return s.p }

// BufferWidth returns the history depth in samples.
func (s *SAI) BufferWidth() int { return s.p.BufferWidth() }

// History returns the history buffer, oldest sample first.
func (s *SAI) History() mat.Matrix { return s.history }

// Output returns the last SAI frame.
func (s *SAI) Output() mat.Matrix { return s.output }

// Triggers returns the trigger positions chosen for channel ch in the last
// segment, in history coordinates. The slice is reused.
func (s *SAI) Triggers(ch int) []int { return s.triggers[ch] }

// Reset zeroes the history, the output and the trigger positions.
func (s *SAI) Reset() {
	s.history.Zero()
	s.output.Zero()
	for _, t := range s.triggers {
		for i := range t {
			t[i] = 0
		}
	}
}

// RunSegment appends nap to the history and returns the stabilized frame.
// The returned matrix is owned by s and overwritten by the next call.
//
// RunSegment panics unless nap is NumChannels x InputSegmentWidth.
func (s *SAI) RunSegment(nap *mat.Dense) *mat.Dense {
	if nap == nil {
		panic("sai: nil NAP frame")
	}
	if r, c := nap.Dims(); r != s.p.NumChannels || c != s.p.InputSegmentWidth {
		panic(fmt.Sprintf("sai: NAP frame is %dx%d, want %dx%d",
			r, c, s.p.NumChannels, s.p.InputSegmentWidth))
	}

	for ch := 0; ch < s.p.NumChannels; ch++ {
		hist := s.history.RawRowView(ch)
		shiftAppend(hist, nap.RawRowView(ch))
		s.stabilize(ch, hist, s.output.RawRowView(ch))
	}

	return s.output
}

// shiftAppend discards the oldest len(seg) samples of hist and appends seg.
func shiftAppend(hist, seg []float64) {
	if len(seg) >= len(hist) {
		copy(hist, seg[len(seg)-len(hist):])
		return
	}
	copy(hist, hist[len(seg):])
	copy(hist[len(hist)-len(seg):], seg)
}

// stabilize finds the channel's triggers and averages their windows into out.
func (s *SAI) stabilize(ch int, hist, out []float64) {
	pastLags := s.p.PastLags()
	maxStart := len(hist) - s.p.SAIWidth

	for i := range out {
		out[i] = 0
	}

	for w, b := range s.bounds {
		t := b[0] + s.findTrigger(hist[b[0]:b[1]], w)
		s.triggers[ch][w] = t

		start := t - pastLags + 1
		if start < 0 {
			start = 0
		} else if start > maxStart {
			start = maxStart
		}
		floats.Add(out, hist[start:start+s.p.SAIWidth])
	}

	floats.Scale(1/float64(len(s.bounds)), out)
}

// findTrigger returns the offset of the strongest weighted sample in region.
// Ties resolve to the earliest sample; a region without positive activity
// triggers at the weight's peak.
func (s *SAI) findTrigger(region []float64, w int) int {
	strength := s.strength[:len(region)]
	vecmath.MulBlock(strength, region, s.weights[w])

	best := floats.MaxIdx(strength)
	if !(strength[best] > 0) {
		return s.weightTop[w]
	}
	return best
}
