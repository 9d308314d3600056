// Package biquad provides the second-order IIR sections the cochlear
// filterbank is built from.
//
// A [Section] implements Direct Form II Transposed processing for one
// section defined by [Coefficients]. Coefficients may be replaced between
// blocks without clearing the delay line, which is how the filterbank's
// AGC loop retunes stage damping once per segment.
//
// [Resonator] designs the two-pole, two-zero stage of a cascade of
// asymmetric resonators; [OnePoleLowpass] designs the smoothing sections
// of the hair-cell model.
package biquad
