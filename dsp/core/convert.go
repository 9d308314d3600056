package core

// CopyFloat32 widens src into dst and returns the number of copied elements.
func CopyFloat32(dst []float64, src []float32) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] = float64(src[i])
	}
	return n
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}
