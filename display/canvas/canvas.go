//go:build js && wasm

// Package canvas shows a display surface in an HTML canvas element.
package canvas

import (
	"fmt"
	"syscall/js"

	"github.com/cwbudde/algo-sai/display"
)

// Canvas is a Memory surface whose Flip also uploads the front buffer to a
// 2D canvas context.
type Canvas struct {
	*display.Memory

	ctx       js.Value
	imageData js.Value
	data      js.Value
	rgba      []byte
}

// New binds the canvas element with the given id and resizes it to
// width x height.
func New(canvasID string, width, height int) (*Canvas, error) {
	mem, err := display.NewMemory(width, height, display.ABGR8888)
	if err != nil {
		return nil, fmt.Errorf("canvas: %w", err)
	}

	el := js.Global().Get("document").Call("getElementById", canvasID)
	if el.IsNull() || el.IsUndefined() {
		return nil, fmt.Errorf("canvas: no element with id %q", canvasID)
	}
	el.Set("width", width)
	el.Set("height", height)

	ctx := el.Call("getContext", "2d")
	if ctx.IsNull() || ctx.IsUndefined() {
		return nil, fmt.Errorf("canvas: element %q has no 2d context", canvasID)
	}

	imageData := ctx.Call("createImageData", width, height)
	return &Canvas{
		Memory:    mem,
		ctx:       ctx,
		imageData: imageData,
		data:      imageData.Get("data"),
		rgba:      make([]byte, 4*width*height),
	}, nil
}

// Allocator returns a display.Allocator bound to one canvas element.
func Allocator(canvasID string) display.Allocator {
	return func(width, height int, _ display.PixelFormat) (display.Surface, error) {
		return New(canvasID, width, height)
	}
}

// Flip publishes the back buffer and paints it.
func (c *Canvas) Flip() error {
	if err := c.Memory.Flip(); err != nil {
		return err
	}

	c.ReadFront(func(pixels []uint32) {
		c.Format().PutRGBA(c.rgba, pixels)
	})
	js.CopyBytesToJS(c.data, c.rgba)
	c.ctx.Call("putImageData", c.imageData, 0, 0)
	return nil
}
