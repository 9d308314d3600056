// Package carfac implements a compact cascade-of-asymmetric-resonators
// cochlear filterbank with inner-hair-cell detection and automatic gain
// control (CAR/IHC/AGC).
//
// The cascade runs from the base (highest pole frequency, channel 0) to the
// apex (lowest pole frequency). Each channel taps the cascade after its own
// stage and feeds an inner-hair-cell detector, producing a neural activity
// pattern (NAP) with one row per channel. The AGC smooths the NAP in time
// and across neighbouring channels; in closed-loop operation its level
// raises the damping of each stage once per segment.
//
// Ears are processed independently. Silent input produces an exactly zero
// NAP.
package carfac
