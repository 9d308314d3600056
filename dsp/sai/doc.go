// Package sai implements the stabilized auditory image (SAI).
//
// Each call to RunSegment appends one NAP segment to a per-channel history,
// searches the recent history for periodic trigger points and averages the
// history windows around them into one output row per channel. Aligning on
// triggers turns a periodic input into a stationary image whose columns are
// lags relative to the trigger.
//
// Output column SAIWidth-FutureLags-1 holds the trigger sample itself;
// columns to its left are earlier lags and columns to its right are the
// FutureLags samples that followed the trigger.
package sai
