// Package spectrum provides single-bin frequency measurement via the
// Goertzel algorithm, used to verify kernel frequency responses without
// computing a full transform.
package spectrum

import (
	"fmt"
	"math"
)

// Goertzel evaluates one DFT bin incrementally. It is stateful: Power
// and Magnitude reflect every sample processed since the last Reset.
// The main lobe width is 4*pi/N for a block of N samples, so pick the
// block length from the frequency resolution you need.
type Goertzel struct {
	frequency  float64
	sampleRate float64
	coeff      float64
	s0, s1     float64
}

// NewGoertzel creates an analyzer for the target frequency. The
// frequency must lie in [0, sampleRate/2].
func NewGoertzel(frequency, sampleRate float64) (*Goertzel, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("goertzel sample rate must be > 0: %v", sampleRate)
	}
	if frequency < 0 || frequency > sampleRate/2 || math.IsNaN(frequency) {
		return nil, fmt.Errorf("goertzel frequency must be in [0, %v]: %v", sampleRate/2, frequency)
	}

	g := &Goertzel{frequency: frequency, sampleRate: sampleRate}
	g.coeff = 2 * math.Cos(2*math.Pi*frequency/sampleRate)
	return g, nil
}

// Reset clears the accumulator state.
func (g *Goertzel) Reset() {
	g.s0 = 0
	g.s1 = 0
}

// ProcessBlock folds a block of samples into the analyzer state.
func (g *Goertzel) ProcessBlock(input []float64) {
	s0, s1 := g.s0, g.s1
	coeff := g.coeff
	for _, x := range input {
		s := x + coeff*s0 - s1
		s1 = s0
		s0 = s
	}
	g.s0, g.s1 = s0, s1
}

// Power returns the squared magnitude of the frequency component,
// equivalent to |X[k]|^2 of a DFT over the processed samples.
func (g *Goertzel) Power() float64 {
	return g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
}

// Magnitude returns the magnitude of the frequency component.
func (g *Goertzel) Magnitude() float64 {
	p := g.Power()
	if p <= 0 {
		return 0
	}
	return math.Sqrt(p)
}

// Frequency returns the target frequency.
func (g *Goertzel) Frequency() float64 { return g.frequency }

// AnalyzeBlock measures the power of one frequency in one shot.
func AnalyzeBlock(input []float64, frequency, sampleRate float64) (float64, error) {
	g, err := NewGoertzel(frequency, sampleRate)
	if err != nil {
		return 0, err
	}
	g.ProcessBlock(input)
	return g.Power(), nil
}
