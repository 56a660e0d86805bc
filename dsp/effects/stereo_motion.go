package effects

import (
	"fmt"
	"math"
)

const (
	defaultMotionWidth  = 1.0
	defaultMotionAmount = 0.3
	defaultMotionRate   = 0.2

	maxMotionWidth = 2.0
	minMotionRate  = 0.01
	maxMotionRate  = 4.0
)

// StereoMotion widens or narrows the stereo image in mid/side space and
// adds a slow LFO-driven pan oscillation on the mid channel.
type StereoMotion struct {
	sampleRate float64

	width  float64
	motion float64
	rateHz float64

	phase float64
}

// NewStereoMotion creates a stereo motion stage for the given sample rate.
func NewStereoMotion(sampleRate float64) (*StereoMotion, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("stereo motion sample rate must be > 0: %f", sampleRate)
	}

	return &StereoMotion{
		sampleRate: sampleRate,
		width:      defaultMotionWidth,
		motion:     defaultMotionAmount,
		rateHz:     defaultMotionRate,
	}, nil
}

// SetWidth sets the side gain in [0, 2]. 1 is unity width.
func (m *StereoMotion) SetWidth(v float64) error {
	if v < 0 || v > maxMotionWidth || math.IsNaN(v) {
		return fmt.Errorf("stereo motion width must be in [0, %v]: %f", maxMotionWidth, v)
	}
	m.width = v
	return nil
}

// SetMotion sets the pan oscillation depth in [0, 1].
func (m *StereoMotion) SetMotion(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("stereo motion amount must be in [0, 1]: %f", v)
	}
	m.motion = v
	return nil
}

// SetRate sets the pan LFO rate in Hz.
func (m *StereoMotion) SetRate(hz float64) error {
	if hz < minMotionRate || hz > maxMotionRate || math.IsNaN(hz) {
		return fmt.Errorf("stereo motion rate must be in [%v, %v]: %f",
			minMotionRate, maxMotionRate, hz)
	}
	m.rateHz = hz
	return nil
}

// Reset restarts the pan LFO.
func (m *StereoMotion) Reset() {
	m.phase = 0
}

// ProcessBlock runs the stage over a planar block in place. Mono blocks
// pass only through the pan gain.
func (m *StereoMotion) ProcessBlock(block [][]float64) {
	if len(block) == 0 || len(block[0]) == 0 {
		return
	}
	numSamples := len(block[0])
	stereo := len(block) > 1
	inc := m.rateHz / m.sampleRate

	for s := 0; s < numSamples; s++ {
		m.phase += inc
		if m.phase > 1 {
			m.phase -= 1
		}
		lfo := math.Sin(m.phase * 2 * math.Pi)

		left := block[0][s]
		right := left
		if stereo {
			right = block[1][s]
		}

		mid := (left + right) * 0.5
		side := (left - right) * 0.5 * m.width

		panGain := 1 + lfo*m.motion*0.3

		block[0][s] = mid*panGain + side
		if stereo {
			block[1][s] = mid/panGain - side
		}
	}
}
