package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

const (
	// -18 dBFS, the staging target.
	gainStagerTargetRMS = 0.126

	gainStagerSmoothSec = 0.3
	gainStagerMinGain   = 0.1
	gainStagerMaxGain   = 4.0
	gainStagerRMSFloor  = 1e-6
)

// GainStager measures block RMS and applies a smoothed correction gain that
// pulls the level towards -18 dBFS, keeping chained nonlinear stages in a
// sane operating range.
type GainStager struct {
	sampleRate float64

	rmsSmooth float64
	rmsCoeff  float64
	gain      float64
}

// NewGainStager creates a gain stager for the given sample rate.
func NewGainStager(sampleRate float64) (*GainStager, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("gain stager sample rate must be > 0: %f", sampleRate)
	}

	return &GainStager{
		sampleRate: sampleRate,
		rmsCoeff:   mathExp(-1 / (gainStagerSmoothSec * sampleRate)),
		gain:       1,
	}, nil
}

// Gain returns the correction gain applied to the last block.
func (g *GainStager) Gain() float64 { return g.gain }

// Reset clears the RMS history and returns the gain to unity.
func (g *GainStager) Reset() {
	g.rmsSmooth = 0
	g.gain = 1
}

// ProcessBlock measures and corrects a planar block in place.
func (g *GainStager) ProcessBlock(block [][]float64) {
	if len(block) == 0 || len(block[0]) == 0 {
		return
	}

	sum := 0.0
	n := 0
	for ch := range block {
		sum += vecmath.DotProduct(block[ch], block[ch])
		n += len(block[ch])
	}
	rms := mathSqrt(sum / float64(n))

	// Per-sample smoothing coefficient applied once per block keeps the
	// response slow regardless of block size variation.
	coeff := math.Pow(g.rmsCoeff, float64(len(block[0])))
	g.rmsSmooth = g.rmsSmooth*coeff + rms*(1-coeff)

	if g.rmsSmooth > gainStagerRMSFloor {
		correction := gainStagerTargetRMS / g.rmsSmooth
		if correction < gainStagerMinGain {
			correction = gainStagerMinGain
		} else if correction > gainStagerMaxGain {
			correction = gainStagerMaxGain
		}
		g.gain = correction
	}

	for ch := range block {
		vecmath.ScaleBlockInPlace(block[ch], g.gain)
	}
}
