package audioio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeWAV(t *testing.T, rate, channels int, data []int) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err = os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestLoadWAV_Mono(t *testing.T) {
	f := writeWAV(t, 16000, 1, []int{0, 16384, -16384, 32767})

	clip, err := LoadWAV(f, nil)
	if err != nil {
		t.Fatalf("LoadWAV: %v", err)
	}
	if clip.SampleRate != 16000 {
		t.Fatalf("SampleRate = %v, want 16000", clip.SampleRate)
	}

	want := []float64{0, 0.5, -0.5, 32767.0 / 32768}
	if len(clip.Samples) != len(want) {
		t.Fatalf("len = %d, want %d", len(clip.Samples), len(want))
	}
	for i := range want {
		if math.Abs(clip.Samples[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d = %v, want %v", i, clip.Samples[i], want[i])
		}
	}
	if d := clip.Duration(); math.Abs(d-4.0/16000) > 1e-15 {
		t.Fatalf("Duration = %v", d)
	}
}

func TestLoadWAV_StereoMixdown(t *testing.T) {
	f := writeWAV(t, 8000, 2, []int{16384, 0, 16384, 16384, -16384, 16384})

	clip, err := LoadWAV(f, nil)
	if err != nil {
		t.Fatalf("LoadWAV: %v", err)
	}

	want := []float64{0.25, 0.5, 0}
	if len(clip.Samples) != len(want) {
		t.Fatalf("len = %d, want %d", len(clip.Samples), len(want))
	}
	for i := range want {
		if math.Abs(clip.Samples[i]-want[i]) > 1e-12 {
			t.Fatalf("frame %d = %v, want %v", i, clip.Samples[i], want[i])
		}
	}
}

func TestLoadWAV_Invalid(t *testing.T) {
	_, err := LoadWAV(strings.NewReader("definitely not RIFF data"), nil)
	if err == nil || !strings.Contains(err.Error(), "not a valid WAV") {
		t.Fatalf("err = %v", err)
	}
}

func TestStream_Read(t *testing.T) {
	s := NewStream([]float64{0.5, -1, 0.25})

	p := make([]byte, 8)
	n, err := s.Read(p)
	if err != nil || n != 8 {
		t.Fatalf("Read = %d, %v", n, err)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(p[4:])); got != -1 {
		t.Fatalf("second sample = %v, want -1", got)
	}
	if s.Position() != 2 {
		t.Fatalf("Position = %d, want 2", s.Position())
	}

	n, err = s.Read(p)
	if err != nil || n != 4 {
		t.Fatalf("tail Read = %d, %v", n, err)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(p)); got != 0.25 {
		t.Fatalf("tail sample = %v", got)
	}

	if _, err := s.Read(p); !errors.Is(err, io.EOF) {
		t.Fatalf("Read past end = %v, want io.EOF", err)
	}
	if s.Len() != 3 || s.Position() != 3 {
		t.Fatalf("Len=%d Position=%d", s.Len(), s.Position())
	}
}

func TestStream_ShortBuffer(t *testing.T) {
	s := NewStream([]float64{0.5, -1})

	for _, size := range []int{1, 2, 3} {
		n, err := s.Read(make([]byte, size))
		if n != 0 || !errors.Is(err, io.ErrShortBuffer) {
			t.Fatalf("Read(%d bytes) = %d, %v, want 0, io.ErrShortBuffer", size, n, err)
		}
	}
	if n, err := s.Read(nil); n != 0 || err != nil {
		t.Fatalf("Read(nil) = %d, %v, want 0, nil", n, err)
	}
	if s.Position() != 0 {
		t.Fatalf("short reads advanced Position to %d", s.Position())
	}

	// A reader that loops on (0, nil) would spin forever; ReadFull must fail.
	if _, err := io.ReadFull(s, make([]byte, 3)); !errors.Is(err, io.ErrShortBuffer) {
		t.Fatalf("ReadFull = %v, want io.ErrShortBuffer", err)
	}
}
