// Package display turns SAI frames into pixels.
//
// A Surface is a 32-bit packed pixel buffer with a lock/unlock/flip
// discipline: the producer writes the back buffer between Lock and Unlock
// and publishes it with Flip. Readers only ever observe flipped frames.
//
// Memory is the in-process Surface used by tests, the headless renderer and
// as the back end of the window and canvas surfaces. Renderer maps frame
// values in [0, 1] to grayscale, 0 as white and 1 as black.
package display
