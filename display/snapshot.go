package display

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// Scale enlarges img by an integer factor with nearest-neighbour sampling.
func Scale(img image.Image, scale int) (image.Image, error) {
	if scale < 1 {
		return nil, fmt.Errorf("display: scale must be >= 1: %d", scale)
	}
	if scale == 1 {
		return img, nil
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}

// WriteSnapshotPNG scales img and encodes it as PNG.
func WriteSnapshotPNG(w io.Writer, img image.Image, scale int) error {
	scaled, err := Scale(img, scale)
	if err != nil {
		return err
	}
	if err := png.Encode(w, scaled); err != nil {
		return fmt.Errorf("display: encode png: %w", err)
	}
	return nil
}
