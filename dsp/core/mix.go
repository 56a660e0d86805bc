package core

import "math"

// SoftClip applies a bounded cubic saturation (Pade approximation of tanh).
// Output stays within [-1, 1] for all finite inputs.
func SoftClip(x float64) float64 {
	if x > 3 {
		return 1
	}

	if x < -3 {
		return -1
	}

	x2 := x * x

	return x * (27 + x2) / (27 + 9*x2)
}

// Lerp linearly interpolates from a to b by t.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// EqualPowerMix crossfades dry and wet with constant perceived energy.
// mix=0 returns dry, mix=1 returns wet.
func EqualPowerMix(dry, wet, mix float64) float64 {
	angle := mix * (math.Pi / 2)
	return dry*math.Cos(angle) + wet*math.Sin(angle)
}
