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

// EnsureBlock returns a channels × n block, reusing buf where possible.
func EnsureBlock(buf [][]float64, channels, n int) [][]float64 {
	if channels <= 0 {
		return buf[:0]
	}
	if cap(buf) >= channels {
		buf = buf[:channels]
	} else {
		next := make([][]float64, channels)
		copy(next, buf)
		buf = next
	}
	for ch := range buf {
		buf[ch] = EnsureLen(buf[ch], n)
	}
	return buf
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// ZeroBlock sets all channels of block to 0.
func ZeroBlock(block [][]float64) {
	for ch := range block {
		Zero(block[ch])
	}
}

// ZeroComplex sets all values in buf to 0.
func ZeroComplex(buf []complex128) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float64) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
	return n
}
