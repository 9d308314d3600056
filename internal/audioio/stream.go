package audioio

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"
)

// Stream plays a clip as float32 little-endian PCM. It is the io.Reader
// handed to an oto player; Position is safe to call from other goroutines.
type Stream struct {
	samples []float64
	pos     atomic.Int64
}

// NewStream returns a stream positioned at the first sample.
func NewStream(samples []float64) *Stream {
	return &Stream{samples: samples}
}

// Read fills p with whole float32 samples and returns io.EOF once the clip
// is exhausted. A non-empty p shorter than one sample gets
// io.ErrShortBuffer.
func (s *Stream) Read(p []byte) (int, error) {
	pos := int(s.pos.Load())
	if pos >= len(s.samples) {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	if len(p) < 4 {
		return 0, io.ErrShortBuffer
	}

	n := min(len(p)/4, len(s.samples)-pos)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(float32(s.samples[pos+i])))
	}
	s.pos.Add(int64(n))
	return 4 * n, nil
}

// Position returns the number of samples handed out so far.
func (s *Stream) Position() int { return int(s.pos.Load()) }

// Len returns the clip length in samples.
func (s *Stream) Len() int { return len(s.samples) }
