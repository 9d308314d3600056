package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cwbudde/algo-sai/display"
	"github.com/cwbudde/algo-sai/dsp/carfac"
	"github.com/cwbudde/algo-sai/dsp/core"
	"github.com/cwbudde/algo-sai/dsp/sai"
	"github.com/cwbudde/algo-sai/internal/observe"
	"gonum.org/v1/gonum/mat"
)

// Filterbank turns one segment of audio into a NAP frame. *carfac.CARFAC
// satisfies it. The pipeline feeds a single ear: input is 1 x width and
// out holds one NumChannels x width frame.
type Filterbank interface {
	NumChannels() int
	Reset()
	RunSegment(input *mat.Dense, openLoop bool, out *carfac.Output)
}

// Pipeline is the segment orchestrator.
type Pipeline struct {
	cfg    core.ProcessorConfig
	params sai.Params

	fb       Filterbank
	engine   *sai.SAI
	surface  display.Surface
	renderer *display.Renderer

	input *mat.Dense
	out   *carfac.Output
	wide  []float64

	openLoop bool
	segments uint64

	metrics *observe.Metrics
	logger  *slog.Logger
}

// New constructs a pipeline for segments of segmentWidth samples at
// sampleRate. Any inconsistency or allocation failure is returned; the
// pipeline must not be used then.
func New(sampleRate float64, segmentWidth int, opts ...Option) (*Pipeline, error) {
	if !(sampleRate > 0) {
		return nil, fmt.Errorf("pipeline: sample rate must be > 0: %g", sampleRate)
	}
	if segmentWidth < 1 {
		return nil, fmt.Errorf("pipeline: segment width must be >= 1: %d", segmentWidth)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.metrics == nil {
		cfg.metrics = observe.DefaultMetrics()
	}

	fb := cfg.fb
	if fb == nil {
		c, err := carfac.New(1, sampleRate, cfg.car, cfg.ihc, cfg.agc)
		if err != nil {
			return nil, fmt.Errorf("pipeline: filterbank: %w", err)
		}
		fb = c
	}
	channels := fb.NumChannels()
	if channels < 1 {
		return nil, fmt.Errorf("pipeline: filterbank has %d channels", channels)
	}

	params := sai.DefaultParams(channels, segmentWidth)
	if cfg.triggers != 0 {
		params.NumTriggersPerFrame = cfg.triggers
	}
	params.TriggerWindow = cfg.triggerWindow
	engine, err := sai.New(params)
	if err != nil {
		return nil, fmt.Errorf("pipeline: stabilizer: %w", err)
	}

	surface, err := cfg.alloc(params.SAIWidth, params.NumChannels, cfg.format)
	if err != nil {
		return nil, fmt.Errorf("pipeline: surface: %w", err)
	}
	if surface.Width() != params.SAIWidth || surface.Height() != params.NumChannels {
		return nil, fmt.Errorf("pipeline: surface is %dx%d, want %dx%d",
			surface.Width(), surface.Height(), params.SAIWidth, params.NumChannels)
	}

	p := &Pipeline{
		cfg: core.ApplyProcessorOptions(
			core.WithSampleRate(sampleRate),
			core.WithSegmentWidth(segmentWidth),
		),
		params:   params,
		fb:       fb,
		engine:   engine,
		surface:  surface,
		renderer: display.NewRenderer(surface),
		input:    mat.NewDense(1, segmentWidth, nil),
		out:      carfac.NewOutput(1, channels, segmentWidth),
		wide:     make([]float64, segmentWidth),
		openLoop: cfg.openLoop,
		metrics:  cfg.metrics,
		logger:   cfg.logger,
	}

	p.logger.Debug("pipeline constructed",
		"sample_rate", sampleRate,
		"segment_width", segmentWidth,
		"channels", channels,
		"sai_width", params.SAIWidth,
		"future_lags", params.FutureLags,
		"triggers_per_frame", params.NumTriggersPerFrame,
		"trigger_window", params.TriggerWindow.String(),
		"open_loop", cfg.openLoop,
		"pixel_format", surface.Format().String(),
	)

	return p, nil
}

// Reset returns the filterbank and the stabilizer to their post-construction
// state without reallocating.
func (p *Pipeline) Reset() {
	p.fb.Reset()
	p.engine.Reset()
	p.metrics.Resets.Add(context.Background(), 1)
	p.logger.Debug("pipeline reset", "segments", p.segments)
	p.segments = 0
}

// ProcessSegment runs one segment through the filterbank, the stabilizer and
// the renderer. The returned error only reports a presentation failure.
//
// ProcessSegment panics unless len(samples) equals the segment width.
func (p *Pipeline) ProcessSegment(samples []float64) error {
	if len(samples) != p.params.InputSegmentWidth {
		panic(fmt.Sprintf("pipeline: segment has %d samples, want %d",
			len(samples), p.params.InputSegmentWidth))
	}
	ctx := context.Background()

	start := time.Now()
	p.input.SetRow(0, samples)
	p.fb.RunSegment(p.input, p.openLoop, p.out)
	observe.Since(ctx, p.metrics.FilterbankDuration, start)

	start = time.Now()
	frame := p.engine.RunSegment(p.out.NAP()[0])
	observe.Since(ctx, p.metrics.StabilizeDuration, start)

	p.segments++
	p.metrics.RecordSegment(ctx, p.openLoop)

	start = time.Now()
	if err := p.renderer.Present(frame); err != nil {
		p.metrics.RecordStageError(ctx, observe.StageRender)
		return fmt.Errorf("pipeline: present: %w", err)
	}
	observe.Since(ctx, p.metrics.RenderDuration, start)

	return nil
}

// ProcessSegment32 is ProcessSegment for float32 audio.
func (p *Pipeline) ProcessSegment32(samples []float32) error {
	if len(samples) != p.params.InputSegmentWidth {
		panic(fmt.Sprintf("pipeline: segment has %d samples, want %d",
			len(samples), p.params.InputSegmentWidth))
	}
	core.CopyFloat32(p.wide, samples)
	return p.ProcessSegment(p.wide)
}

// Config returns the sample rate and segment width.
func (p *Pipeline) Config() core.ProcessorConfig { return p.cfg }

// Params returns the stabilizer configuration.
func (p *Pipeline) Params() sai.Params { return p.params }

// NumChannels returns the number of image rows.
func (p *Pipeline) NumChannels() int { return p.params.NumChannels }

// Surface returns the display surface.
func (p *Pipeline) Surface() display.Surface { return p.surface }

// Frame returns the last SAI frame.
func (p *Pipeline) Frame() mat.Matrix { return p.engine.Output() }

// NAP returns the last NAP frame.
func (p *Pipeline) NAP() mat.Matrix { return p.out.NAP()[0] }

// Segments returns the number of segments processed since construction or
// the last Reset.
func (p *Pipeline) Segments() uint64 { return p.segments }
