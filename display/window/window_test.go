//go:build !headless

package window

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-sai/display"
)

func TestNew(t *testing.T) {
	w, err := New(16, 8, 3, "test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if w.Width() != 16 || w.Height() != 8 {
		t.Fatalf("size = %dx%d, want 16x8", w.Width(), w.Height())
	}
	if lw, lh := w.Layout(640, 480); lw != 16 || lh != 8 {
		t.Fatalf("Layout = %dx%d, want 16x8", lw, lh)
	}
	if len(w.rgba) != 4*16*8 {
		t.Fatalf("rgba buffer = %d bytes", len(w.rgba))
	}

	if _, err := New(16, 8, 0, "test"); err == nil {
		t.Fatal("expected error for zero scale")
	}
	if _, err := New(0, 8, 1, "test"); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestAllocator(t *testing.T) {
	var created *Window
	alloc := Allocator(2, "sai", func(w *Window) { created = w })

	s, err := alloc(4, 3, display.ARGB8888)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if created == nil || display.Surface(created) != s {
		t.Fatal("created callback did not receive the surface")
	}

	px, err := s.Lock()
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	px[0] = 1
	if err := s.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if err := s.Flip(); err != nil {
		t.Fatalf("Flip: %v", err)
	}
	if created.Frames() != 1 {
		t.Fatalf("Frames = %d, want 1", created.Frames())
	}
}

func TestUpdateReportsCallbackError(t *testing.T) {
	w, _ := New(2, 2, 1, "test")
	want := errors.New("stop")
	w.OnUpdate(func() error { return want })

	if err := w.onUpdate(); !errors.Is(err, want) {
		t.Fatalf("onUpdate = %v, want %v", err, want)
	}
}
