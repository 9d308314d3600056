package display

import (
	"fmt"

	"github.com/cwbudde/algo-sai/dsp/core"
	"gonum.org/v1/gonum/mat"
)

// Renderer presents frames on a surface as grayscale images.
type Renderer struct {
	s    Surface
	gray [256]uint32
}

// NewRenderer returns a renderer for s.
func NewRenderer(s Surface) *Renderer {
	r := &Renderer{s: s}
	f := s.Format()
	for i := range r.gray {
		g := uint8(i)
		r.gray[i] = f.MapRGB(g, g, g)
	}
	return r
}

// Surface returns the target surface.
func (r *Renderer) Surface() Surface { return r.s }

// Intensity maps a frame value to a gray level. Values are clamped to
// [0, 1] first; NaN counts as 0.
func Intensity(v float64) uint8 {
	return uint8(255 * (1 - core.ClampUnit(v)))
}

// Present writes frame (Height rows x Width columns) to the surface and
// flips it.
func (r *Renderer) Present(frame mat.Matrix) error {
	w, h := r.s.Width(), r.s.Height()
	if rows, cols := frame.Dims(); rows != h || cols != w {
		return fmt.Errorf("display: frame is %dx%d, surface is %dx%d", rows, cols, h, w)
	}

	pixels, err := r.s.Lock()
	if err != nil {
		return fmt.Errorf("display: lock: %w", err)
	}
	if len(pixels) < w*h {
		_ = r.s.Unlock()
		return fmt.Errorf("display: surface buffer holds %d pixels, want %d", len(pixels), w*h)
	}

	if raw, ok := frame.(mat.RawMatrixer); ok {
		m := raw.RawMatrix()
		for i := 0; i < h; i++ {
			src := m.Data[i*m.Stride : i*m.Stride+w]
			dst := pixels[i*w : (i+1)*w]
			for j, v := range src {
				dst[j] = r.gray[Intensity(v)]
			}
		}
	} else {
		for i := 0; i < h; i++ {
			for j := 0; j < w; j++ {
				pixels[i*w+j] = r.gray[Intensity(frame.At(i, j))]
			}
		}
	}

	if err := r.s.Unlock(); err != nil {
		return fmt.Errorf("display: unlock: %w", err)
	}
	if err := r.s.Flip(); err != nil {
		return fmt.Errorf("display: flip: %w", err)
	}
	return nil
}
