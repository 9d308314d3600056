//go:build !headless

package main

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/cwbudde/algo-sai/pipeline"
	"github.com/hajimehoshi/ebiten/v2"
)

func TestCloseWhen(t *testing.T) {
	done := make(chan struct{})
	update := closeWhen(done)

	if err := update(); err != nil {
		t.Fatalf("before done: %v", err)
	}
	close(done)
	if err := update(); !errors.Is(err, ebiten.Termination) {
		t.Fatalf("after done: %v, want ebiten.Termination", err)
	}
}

func TestProduce(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := pipeline.New(16000, 64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	samples := make([]float64, 64*3-10)

	produce(make(chan struct{}), p, samples, func() int { return len(samples) }, logger)
	if got := p.Segments(); got != 3 {
		t.Fatalf("Segments = %d, want 3", got)
	}

	p.Reset()
	stop := make(chan struct{})
	close(stop)
	produce(stop, p, samples, func() int { return 0 }, logger)
	if got := p.Segments(); got != 0 {
		t.Fatalf("Segments after stop = %d, want 0", got)
	}
}
