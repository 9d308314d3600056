// Package response measures the magnitude response of every tap of a
// cascade of biquad sections.
//
// An impulse is run through the cascade once. The output of stage i is the
// impulse response of channel i; each is transformed with an FFT and reduced
// to its peak frequency, peak gain and -3 dB bandwidth.
package response
