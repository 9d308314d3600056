// Package observe holds the OpenTelemetry metric instruments of the segment
// pipeline.
//
// Instruments are created from an injected [metric.MeterProvider] so tests
// can read them through a ManualReader. [DefaultMetrics] binds to the global
// provider, which is a no-op unless the host installs one.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all metrics.
const meterName = "github.com/cwbudde/algo-sai"

// Stage names used as the "stage" attribute on StageErrors.
const (
	StageFilterbank = "filterbank"
	StageStabilize  = "stabilize"
	StageRender     = "render"
)

// Metrics holds the pipeline instruments. All fields are safe for
// concurrent use.
type Metrics struct {
	// FilterbankDuration tracks the filterbank step per segment.
	FilterbankDuration metric.Float64Histogram

	// StabilizeDuration tracks the SAI step per segment.
	StabilizeDuration metric.Float64Histogram

	// RenderDuration tracks presentation per segment.
	RenderDuration metric.Float64Histogram

	// Segments counts processed segments. Use with attribute:
	//   attribute.Bool("open_loop", ...)
	Segments metric.Int64Counter

	// Resets counts pipeline resets.
	Resets metric.Int64Counter

	// StageErrors counts failed stages. Use with attribute:
	//   attribute.String("stage", ...)
	StageErrors metric.Int64Counter

	// Prebuilt so RecordSegment passes an existing slice and does not
	// allocate per call.
	closedLoop []metric.AddOption
	openLoop   []metric.AddOption
}

// segmentBuckets are histogram boundaries in seconds around the 16 ms
// budget of a 256-sample segment at 16 kHz.
var segmentBuckets = []float64{
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.016, 0.025, 0.05,
}

// NewMetrics creates all instruments from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.FilterbankDuration, err = m.Float64Histogram("sai.filterbank.duration",
		metric.WithDescription("Time spent in the cochlear filterbank per segment."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(segmentBuckets...),
	); err != nil {
		return nil, err
	}
	if met.StabilizeDuration, err = m.Float64Histogram("sai.stabilize.duration",
		metric.WithDescription("Time spent stabilizing the auditory image per segment."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(segmentBuckets...),
	); err != nil {
		return nil, err
	}
	if met.RenderDuration, err = m.Float64Histogram("sai.render.duration",
		metric.WithDescription("Time spent writing and flipping the display surface per segment."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(segmentBuckets...),
	); err != nil {
		return nil, err
	}

	if met.Segments, err = m.Int64Counter("sai.segments",
		metric.WithDescription("Total processed audio segments."),
	); err != nil {
		return nil, err
	}
	if met.Resets, err = m.Int64Counter("sai.resets",
		metric.WithDescription("Total pipeline resets."),
	); err != nil {
		return nil, err
	}
	if met.StageErrors, err = m.Int64Counter("sai.stage.errors",
		metric.WithDescription("Total failed pipeline stages by stage."),
	); err != nil {
		return nil, err
	}

	met.closedLoop = []metric.AddOption{
		metric.WithAttributeSet(attribute.NewSet(attribute.Bool("open_loop", false))),
	}
	met.openLoop = []metric.AddOption{
		metric.WithAttributeSet(attribute.NewSet(attribute.Bool("open_loop", true))),
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level instance bound to
// [otel.GetMeterProvider], creating it on first call.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Since records the seconds elapsed since start on h.
func Since(ctx context.Context, h metric.Float64Histogram, start time.Time) {
	h.Record(ctx, time.Since(start).Seconds())
}

// RecordSegment increments the segment counter.
func (m *Metrics) RecordSegment(ctx context.Context, openLoop bool) {
	opts := m.closedLoop
	if openLoop {
		opts = m.openLoop
	}
	m.Segments.Add(ctx, 1, opts...)
}

// RecordStageError increments the error counter for stage.
func (m *Metrics) RecordStageError(ctx context.Context, stage string) {
	m.StageErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}
