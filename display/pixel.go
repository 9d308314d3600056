package display

import "fmt"

// PixelFormat describes how a packed 32-bit pixel stores its channels.
type PixelFormat int

const (
	// ARGB8888 stores alpha in the top byte, then red, green and blue.
	ARGB8888 PixelFormat = iota
	// ABGR8888 stores alpha in the top byte, then blue, green and red. On
	// little-endian machines its memory layout is R, G, B, A.
	ABGR8888
)

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case ARGB8888:
		return "ARGB8888"
	case ABGR8888:
		return "ABGR8888"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// Valid reports whether f is a known format.
func (f PixelFormat) Valid() bool {
	return f == ARGB8888 || f == ABGR8888
}

// MapRGB packs an opaque pixel.
func (f PixelFormat) MapRGB(r, g, b uint8) uint32 {
	if f == ABGR8888 {
		return 0xFF<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
	}
	return 0xFF<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// RGB unpacks the colour channels of p.
func (f PixelFormat) RGB(p uint32) (r, g, b uint8) {
	if f == ABGR8888 {
		return uint8(p), uint8(p >> 8), uint8(p >> 16)
	}
	return uint8(p >> 16), uint8(p >> 8), uint8(p)
}

// PutRGBA writes pixels as R, G, B, A bytes into dst, which must hold
// 4*len(pixels) bytes.
func (f PixelFormat) PutRGBA(dst []byte, pixels []uint32) {
	if len(pixels) == 0 {
		return
	}
	_ = dst[4*len(pixels)-1]
	for i, p := range pixels {
		r, g, b := f.RGB(p)
		o := 4 * i
		dst[o] = r
		dst[o+1] = g
		dst[o+2] = b
		dst[o+3] = uint8(p >> 24)
	}
}
