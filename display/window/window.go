//go:build !headless

// Package window shows a display surface in a desktop window.
package window

import (
	"fmt"

	"github.com/cwbudde/algo-sai/display"
	"github.com/hajimehoshi/ebiten/v2"
)

// Window is a Memory surface mirrored into an ebiten window. The producer
// writes and flips it like any surface; Draw uploads the front buffer on the
// ebiten goroutine.
type Window struct {
	*display.Memory

	scale int
	title string

	img  *ebiten.Image
	rgba []byte

	onUpdate func() error
	done     chan struct{}
}

// New creates a window surface of width x height pixels, shown at an
// integer scale.
func New(width, height, scale int, title string) (*Window, error) {
	if scale < 1 {
		return nil, fmt.Errorf("window: scale must be >= 1: %d", scale)
	}
	mem, err := display.NewMemory(width, height, display.ABGR8888)
	if err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}
	return &Window{
		Memory: mem,
		scale:  scale,
		title:  title,
		rgba:   make([]byte, 4*width*height),
		done:   make(chan struct{}),
	}, nil
}

// Allocator returns a display.Allocator that creates one Window. The pixel
// format requested by the caller is ignored; the window converts to RGBA
// itself.
func Allocator(scale int, title string, created func(*Window)) display.Allocator {
	return func(width, height int, _ display.PixelFormat) (display.Surface, error) {
		w, err := New(width, height, scale, title)
		if err != nil {
			return nil, err
		}
		if created != nil {
			created(w)
		}
		return w, nil
	}
}

// OnUpdate registers fn to run once per ebiten tick before drawing. An error
// from fn ends Run.
func (w *Window) OnUpdate(fn func() error) {
	w.onUpdate = fn
}

// Done is closed when Run returns.
func (w *Window) Done() <-chan struct{} {
	return w.done
}

// Run opens the window and blocks until it is closed. It must be called from
// the main goroutine.
func (w *Window) Run() error {
	defer close(w.done)

	ebiten.SetWindowSize(w.Width()*w.scale, w.Height()*w.scale)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if w.onUpdate != nil {
		return w.onUpdate()
	}
	return nil
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.img == nil {
		w.img = ebiten.NewImage(w.Width(), w.Height())
	}

	w.ReadFront(func(pixels []uint32) {
		w.Format().PutRGBA(w.rgba, pixels)
	})
	w.img.WritePixels(w.rgba)
	screen.DrawImage(w.img, nil)
}

// Layout implements ebiten.Game. The logical screen is the surface size;
// ebiten scales it to the window.
func (w *Window) Layout(_, _ int) (int, int) {
	return w.Width(), w.Height()
}
