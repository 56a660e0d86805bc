// Package window provides analysis/synthesis window generation for the
// STFT-based processors.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Hann returns an n-point Hann window.
//
// Periodic windows omit the final repeated endpoint and are the correct
// choice for overlap-add STFT processing; symmetric windows are intended
// for spectral analysis.
func Hann(n int, periodic bool) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{1}
	}

	denom := float64(n - 1)
	if periodic {
		denom = float64(n)
	}

	coeffs := make([]float64, n)
	for i := range coeffs {
		coeffs[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/denom))
	}
	return coeffs
}

// ApplyInPlace multiplies buf by coeffs element-wise.
// Both slices must have equal length.
func ApplyInPlace(buf, coeffs []float64) {
	vecmath.MulBlockInPlace(buf, coeffs)
}

// OverlapGain returns the constant the squared window sums to when frames
// are overlap-added at the given hop. Synthesis output must be divided by
// this to reconstruct unity gain.
func OverlapGain(coeffs []float64, hop int) float64 {
	if hop <= 0 || len(coeffs) == 0 {
		return 1
	}

	sum := 0.0
	for i := 0; i < len(coeffs); i += hop {
		sum += coeffs[i] * coeffs[i]
	}
	return sum
}
