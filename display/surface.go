package display

import "errors"

var (
	// ErrLocked is returned when a surface is locked twice or flipped while
	// locked.
	ErrLocked = errors.New("display: surface is locked")
	// ErrNotLocked is returned when an unlocked surface is unlocked.
	ErrNotLocked = errors.New("display: surface is not locked")
)

// Surface is a fixed-size 32-bit pixel target.
//
// Lock returns the back buffer, row-major with Width pixels per row; it is
// only valid until Unlock. Flip publishes the back buffer as one atomic step.
type Surface interface {
	Width() int
	Height() int
	Format() PixelFormat
	Lock() ([]uint32, error)
	Unlock() error
	Flip() error
}

// Allocator creates a surface of the given size and format.
type Allocator func(width, height int, format PixelFormat) (Surface, error)

// MemoryAllocator is the default Allocator.
func MemoryAllocator(width, height int, format PixelFormat) (Surface, error) {
	return NewMemory(width, height, format)
}
