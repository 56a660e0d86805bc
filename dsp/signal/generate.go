// Package signal generates deterministic test signals: sines, bursts,
// and seeded white noise, used as probes throughout the kernel tests.
package signal

import (
	"fmt"
	"math"
	"math/rand"
)

// Sine generates a sine wave at the given frequency and amplitude.
func Sine(sampleRate, freqHz, amplitude float64, samples int) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", sampleRate)
	}
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// SineBurst generates a sine that runs for burstSamples and is silent
// for the rest of the buffer, for tail and decay measurements.
func SineBurst(sampleRate, freqHz, amplitude float64, samples, burstSamples int) ([]float64, error) {
	if burstSamples < 0 || burstSamples > samples {
		return nil, fmt.Errorf("sine burst length must be in [0, %d]: %d", samples, burstSamples)
	}
	out, err := Sine(sampleRate, freqHz, amplitude, samples)
	if err != nil {
		return nil, err
	}
	for i := burstSamples; i < samples; i++ {
		out[i] = 0
	}
	return out, nil
}

// WhiteNoise generates seeded uniform noise in [-amplitude, amplitude].
func WhiteNoise(seed int64, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 || math.IsNaN(amplitude) {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Normalize returns a copy of data scaled to the target peak. Silence
// stays silence.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 || math.IsNaN(targetPeak) {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		if av := math.Abs(v); av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}
	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
