package display

import (
	"fmt"
	"image"
	"sync"
)

// Memory is a double-buffered in-memory Surface. Lock, Unlock and Flip
// belong to a single producer; Snapshot, FrontPixels and Frames may be
// called from any goroutine.
type Memory struct {
	width, height int
	format        PixelFormat

	stateMu sync.Mutex
	locked  bool
	back    []uint32

	frontMu sync.RWMutex
	front   []uint32
	frames  uint64
}

// NewMemory allocates a surface. Both buffers start zeroed.
func NewMemory(width, height int, format PixelFormat) (*Memory, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("display: surface size must be positive: %dx%d", width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("display: unsupported pixel format %v", format)
	}
	return &Memory{
		width:  width,
		height: height,
		format: format,
		back:   make([]uint32, width*height),
		front:  make([]uint32, width*height),
	}, nil
}

// Width returns the surface width in pixels.
func (m *Memory) Width() int { return m.width }

// Height returns the surface height in pixels.
func (m *Memory) Height() int { return m.height }

// Format returns the pixel format.
func (m *Memory) Format() PixelFormat { return m.format }

// Lock returns the back buffer.
func (m *Memory) Lock() ([]uint32, error) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	if m.locked {
		return nil, ErrLocked
	}
	m.locked = true
	return m.back, nil
}

// Unlock ends a write.
func (m *Memory) Unlock() error {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	if !m.locked {
		return ErrNotLocked
	}
	m.locked = false
	return nil
}

// Flip copies the back buffer to the front buffer.
func (m *Memory) Flip() error {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	if m.locked {
		return ErrLocked
	}

	m.frontMu.Lock()
	copy(m.front, m.back)
	m.frames++
	m.frontMu.Unlock()
	return nil
}

// Frames returns the number of completed flips.
func (m *Memory) Frames() uint64 {
	m.frontMu.RLock()
	defer m.frontMu.RUnlock()
	return m.frames
}

// FrontPixels copies the front buffer into dst and returns the number of
// pixels copied.
func (m *Memory) FrontPixels(dst []uint32) int {
	m.frontMu.RLock()
	defer m.frontMu.RUnlock()
	return copy(dst, m.front)
}

// ReadFront calls fn with the front buffer held under the read lock. fn
// must not retain pixels.
func (m *Memory) ReadFront(fn func(pixels []uint32)) {
	m.frontMu.RLock()
	defer m.frontMu.RUnlock()
	fn(m.front)
}

// Snapshot returns the front buffer as an RGBA image.
func (m *Memory) Snapshot() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.width, m.height))
	m.ReadFront(func(pixels []uint32) {
		m.format.PutRGBA(img.Pix, pixels)
	})
	return img
}
