package carfac

import (
	"github.com/cwbudde/algo-sai/dsp/core"
	"github.com/cwbudde/algo-sai/dsp/filter/biquad"
	"gonum.org/v1/gonum/mat"
)

// ear holds the per-input state of the cascade, detector and AGC.
type ear struct {
	fb *CARFAC

	stages []*biquad.Section
	zeta   []float64

	ihc1, ihc2 []*biquad.Section

	// agc[k][ch] is the level of AGC stage k in channel ch.
	agc    [][]float64
	agcTmp []float64
}

func newEar(fb *CARFAC) *ear {
	n := len(fb.poles)
	e := &ear{
		fb:     fb,
		stages: make([]*biquad.Section, n),
		zeta:   make([]float64, n),
		ihc1:   make([]*biquad.Section, n),
		ihc2:   make([]*biquad.Section, n),
		agc:    make([][]float64, fb.agc.NumStages),
		agcTmp: make([]float64, n),
	}

	for ch, pole := range fb.poles {
		e.zeta[ch] = fb.car.MinZeta
		e.stages[ch] = biquad.NewSection(fb.design(pole, fb.car.MinZeta))
		e.ihc1[ch] = biquad.NewSection(fb.ihcLPF)
		e.ihc2[ch] = biquad.NewSection(fb.ihcLPF)
	}
	for k := range e.agc {
		e.agc[k] = make([]float64, n)
	}

	return e
}

func (c *CARFAC) design(pole, zeta float64) biquad.Coefficients {
	return biquad.Resonator(pole, c.car.ZeroRatio, zeta, c.sampleRate)
}

// detect is the saturating hair-cell nonlinearity for u >= 0.
func detect(u float64) float64 {
	u2 := u * u
	u3 := u2 * u
	return u3 / (u3 + u2 + 0.1)
}

func (e *ear) reset() {
	for ch, pole := range e.fb.poles {
		e.stages[ch].Reset()
		e.stages[ch].SetCoefficients(e.fb.design(pole, e.fb.car.MinZeta))
		e.zeta[ch] = e.fb.car.MinZeta
		e.ihc1[ch].Reset()
		e.ihc2[ch].Reset()
	}
	for _, level := range e.agc {
		core.Zero(level)
	}
}

// run pushes buf through the cascade, writing one NAP row per channel.
// buf is overwritten.
func (e *ear) run(buf []float64, nap *mat.Dense) {
	offset := e.fb.ihc.Offset
	rest := e.fb.rest

	for ch, stage := range e.stages {
		stage.ProcessBlock(buf)

		row := nap.RawRowView(ch)
		for i, x := range buf {
			u := x + offset
			if u < 0 {
				u = 0
			}
			row[i] = detect(u) - rest
		}
		e.ihc1[ch].ProcessBlock(row)
		e.ihc2[ch].ProcessBlock(row)

		e.integrate(ch, row)
	}
}

// integrate advances every AGC stage of channel ch over one NAP row.
func (e *ear) integrate(ch int, row []float64) {
	for k, alpha := range e.fb.agcAlpha {
		s := e.agc[k][ch]
		for _, v := range row {
			if v < 0 {
				v = 0
			}
			s += alpha * (v - s)
		}
		e.agc[k][ch] = core.FlushDenormals(s)
	}
}

// smoothAGC applies the 3-tap spatial filter to every AGC stage. Edge
// channels reuse their own value for the missing neighbour.
func (e *ear) smoothAGC() {
	w := e.fb.agc.SpatialSmoothing
	if w == 0 {
		return
	}

	n := len(e.agcTmp)
	for _, level := range e.agc {
		copy(e.agcTmp, level)
		for ch := range level {
			left, right := e.agcTmp[ch], e.agcTmp[ch]
			if ch > 0 {
				left = e.agcTmp[ch-1]
			}
			if ch < n-1 {
				right = e.agcTmp[ch+1]
			}
			level[ch] = core.FlushDenormals((1-2*w)*e.agcTmp[ch] + w*(left+right))
		}
	}
}

// applyFeedback maps the AGC level of every channel to stage damping and
// redesigns the stages whose damping moved. Filter memory is kept.
func (e *ear) applyFeedback() {
	car := e.fb.car
	gain := e.fb.agc.Gain / float64(len(e.agc))

	for ch, pole := range e.fb.poles {
		level := 0.0
		for _, stage := range e.agc {
			level += stage[ch]
		}
		level *= gain

		b := level / (1 + level)
		zeta := car.MinZeta + (car.MaxZeta-car.MinZeta)*b
		if zeta == e.zeta[ch] {
			continue
		}
		e.zeta[ch] = zeta
		e.stages[ch].SetCoefficients(e.fb.design(pole, zeta))
	}
}
