package core

// ProcessorConfig defines common segment-processing settings.
type ProcessorConfig struct {
	SampleRate   float64
	SegmentWidth int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the 16 kHz / 256-sample configuration the
// visualizer is tuned for.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:   16000,
		SegmentWidth: 256,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithSegmentWidth sets the number of samples per processed segment.
func WithSegmentWidth(width int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if width > 0 {
			cfg.SegmentWidth = width
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// SegmentDuration returns the duration of one segment in seconds.
func (c ProcessorConfig) SegmentDuration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(c.SegmentWidth) / c.SampleRate
}
