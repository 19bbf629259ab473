package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// AddInto accumulates src into dst over the shorter of the two lengths.
func AddInto(dst, src []float64) {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] += src[i]
	}
}

// PeakAbs returns the largest absolute sample value and its index.
// The index is -1 for an empty or all-zero slice.
func PeakAbs(buf []float64) (float64, int) {
	peak, idx := 0.0, -1
	for i, v := range buf {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak, idx = v, i
		}
	}
	return peak, idx
}
