// Package pipeline drives the fixed-cadence segment loop: audio segment to
// cochlear filterbank to stabilized auditory image to pixels.
//
// A Pipeline owns every buffer it touches and reuses them across segments.
// It is single-threaded: ProcessSegment and Reset must not be called
// concurrently. Only the display surface is shared with other goroutines,
// through its own lock/flip discipline.
package pipeline
