package pipeline

import (
	"log/slog"

	"github.com/cwbudde/algo-sai/display"
	"github.com/cwbudde/algo-sai/dsp/carfac"
	"github.com/cwbudde/algo-sai/dsp/window"
	"github.com/cwbudde/algo-sai/internal/observe"
)

// Option configures a Pipeline.
type Option func(*config)

type config struct {
	car carfac.CARParams
	ihc carfac.IHCParams
	agc carfac.AGCParams

	triggers      int
	triggerWindow window.Type
	fb            Filterbank
	alloc         display.Allocator
	format        display.PixelFormat
	metrics       *observe.Metrics
	logger        *slog.Logger
	openLoop      bool
}

func defaultConfig() config {
	return config{
		car:    carfac.DefaultCARParams(),
		ihc:    carfac.DefaultIHCParams(),
		agc:    carfac.DefaultAGCParams(),
		alloc:  display.MemoryAllocator,
		format: display.ARGB8888,
	}
}

// WithCARFACParams replaces the filterbank parameters. Ignored when
// WithFilterbank is given.
func WithCARFACParams(car carfac.CARParams, ihc carfac.IHCParams, agc carfac.AGCParams) Option {
	return func(c *config) {
		c.car = car
		c.ihc = ihc
		c.agc = agc
	}
}

// WithTriggersPerFrame overrides the number of triggers averaged per
// channel and segment.
func WithTriggersPerFrame(n int) Option {
	return func(c *config) {
		c.triggers = n
	}
}

// WithTriggerWindow selects the weighting of the trigger search. The
// default is sine-squared.
func WithTriggerWindow(t window.Type) Option {
	return func(c *config) {
		c.triggerWindow = t
	}
}

// WithFilterbank injects a filterbank in place of the built-in CARFAC.
func WithFilterbank(fb Filterbank) Option {
	return func(c *config) {
		c.fb = fb
	}
}

// WithSurfaceAllocator sets how the display surface is created.
func WithSurfaceAllocator(alloc display.Allocator) Option {
	return func(c *config) {
		if alloc != nil {
			c.alloc = alloc
		}
	}
}

// WithPixelFormat sets the pixel format requested from the allocator.
func WithPixelFormat(f display.PixelFormat) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithMetrics records per-stage timings and counters on m.
func WithMetrics(m *observe.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithLogger sets the logger for construction and reset events.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithOpenLoop runs the filterbank without AGC feedback into the cascade.
func WithOpenLoop(open bool) Option {
	return func(c *config) {
		c.openLoop = open
	}
}
