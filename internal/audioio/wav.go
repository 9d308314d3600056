// Package audioio loads and streams mono audio for the commands.
package audioio

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/go-audio/wav"
)

// Clip is mono audio at a fixed sample rate.
type Clip struct {
	SampleRate float64
	Samples    []float64
}

// Duration returns the clip length in seconds.
func (c Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / c.SampleRate
}

// LoadWAV decodes a PCM WAV stream. Multi-channel files are averaged down
// to mono and samples are scaled to [-1, 1).
func LoadWAV(r io.ReadSeeker, logger *slog.Logger) (Clip, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Clip{}, fmt.Errorf("audioio: not a valid WAV stream")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("audioio: decode: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	channels := int(dec.NumChans)
	if bitDepth == 0 || channels == 0 || dec.SampleRate == 0 {
		return Clip{}, fmt.Errorf("audioio: incomplete WAV header: %d bit, %d channels, %d Hz",
			bitDepth, channels, dec.SampleRate)
	}

	fb := buf.AsFloatBuffer()
	frames := len(fb.Data) / channels
	scale := 1 / (math.Pow(2, float64(bitDepth-1)) * float64(channels))

	samples := make([]float64, frames)
	for i := range samples {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += fb.Data[i*channels+ch]
		}
		samples[i] = sum * scale
	}

	logger.Debug("decoded wav",
		"sample_rate", dec.SampleRate,
		"channels", channels,
		"bit_depth", bitDepth,
		"frames", frames,
	)

	return Clip{SampleRate: float64(dec.SampleRate), Samples: samples}, nil
}
