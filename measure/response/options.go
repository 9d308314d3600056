package response

import "fmt"

const defaultFFTSize = 4096

// Option configures Measure.
type Option func(*config) error

type config struct {
	fftSize int
}

// WithFFTSize sets the impulse response length and FFT size. n must be a
// power of two and at least 16.
func WithFFTSize(n int) Option {
	return func(c *config) error {
		if n < 16 || n&(n-1) != 0 {
			return fmt.Errorf("response: FFT size must be a power of two >= 16: %d", n)
		}
		c.fftSize = n
		return nil
	}
}
