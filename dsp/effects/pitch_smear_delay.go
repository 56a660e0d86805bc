package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
	"github.com/cwbudde/algo-fxgraph/dsp/delay"
)

const (
	maxSmearDelaySeconds = 4.0

	defaultSmearDelayTime     = 0.25
	defaultSmearDelayFeedback = 0.4
	defaultSmearDelayAmount   = 0.3
	defaultSmearDelayMix      = 0.4

	minSmearDelayTime     = 0.01
	maxSmearDelayFeedback = 0.99

	// Maximum read-pointer wander as a fraction of the delay time.
	smearDelayModScale = 0.02

	smearDelayPhaseInc = 0.0003
)

// PitchSmearDelay is a feedback delay whose read pointer is slowly swept
// by a sine, smearing repeats into a pitch wobble instead of clean echoes.
// The feedback path is soft-clipped so high feedback settings saturate
// instead of running away.
type PitchSmearDelay struct {
	sampleRate float64

	timeSeconds float64
	feedback    float64
	smear       float64
	mix         float64

	lines      [2]*delay.Line
	smearPhase [2]float64
}

// NewPitchSmearDelay creates a delay configured for the given sample rate.
func NewPitchSmearDelay(sampleRate float64) (*PitchSmearDelay, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("pitch smear delay sample rate must be > 0: %f", sampleRate)
	}

	d := &PitchSmearDelay{
		sampleRate:  sampleRate,
		timeSeconds: defaultSmearDelayTime,
		feedback:    defaultSmearDelayFeedback,
		smear:       defaultSmearDelayAmount,
		mix:         defaultSmearDelayMix,
	}

	size := int(maxSmearDelaySeconds * sampleRate)
	for ch := range d.lines {
		line, err := delay.New(size)
		if err != nil {
			return nil, err
		}
		d.lines[ch] = line
	}

	return d, nil
}

// SetTime sets the delay time in seconds.
func (d *PitchSmearDelay) SetTime(seconds float64) error {
	if seconds < minSmearDelayTime || seconds > maxSmearDelaySeconds || math.IsNaN(seconds) {
		return fmt.Errorf("pitch smear delay time must be in [%v, %v]: %f",
			minSmearDelayTime, maxSmearDelaySeconds, seconds)
	}
	d.timeSeconds = seconds
	return nil
}

// SetFeedback sets the feedback amount in [0, 0.99].
func (d *PitchSmearDelay) SetFeedback(v float64) error {
	if v < 0 || v > maxSmearDelayFeedback || math.IsNaN(v) {
		return fmt.Errorf("pitch smear delay feedback must be in [0, %v]: %f",
			maxSmearDelayFeedback, v)
	}
	d.feedback = v
	return nil
}

// SetSmear sets the read-pointer wobble depth in [0, 1].
func (d *PitchSmearDelay) SetSmear(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("pitch smear delay smear must be in [0, 1]: %f", v)
	}
	d.smear = v
	return nil
}

// SetMix sets the equal-power dry/wet blend in [0, 1].
func (d *PitchSmearDelay) SetMix(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("pitch smear delay mix must be in [0, 1]: %f", v)
	}
	d.mix = v
	return nil
}

// Mix returns the current dry/wet blend.
func (d *PitchSmearDelay) Mix() float64 { return d.mix }

// Reset clears the delay buffers and restarts the smear LFO.
func (d *PitchSmearDelay) Reset() {
	for ch := range d.lines {
		d.lines[ch].Reset()
		d.smearPhase[ch] = 0
	}
}

// ProcessBlock runs the delay over a planar block in place.
func (d *PitchSmearDelay) ProcessBlock(block [][]float64) {
	if len(block) == 0 || len(block[0]) == 0 {
		return
	}
	numChannels := len(block)
	if numChannels > 2 {
		numChannels = 2
	}

	smear := d.smear * smearDelayModScale
	delayLen := float64(int(d.timeSeconds * d.sampleRate))
	if delayLen < 1 {
		delayLen = 1
	}

	for ch := 0; ch < numChannels; ch++ {
		line := d.lines[ch]
		buf := block[ch]
		for s := range buf {
			d.smearPhase[ch] += smearDelayPhaseInc
			if d.smearPhase[ch] > 1 {
				d.smearPhase[ch] -= 1
			}
			mod := math.Sin(d.smearPhase[ch] * 2 * math.Pi)

			delayed := line.ReadFractionalLinear(delayLen - mod*smear*delayLen)

			in := buf[s]
			line.Write(core.SoftClip(in + delayed*d.feedback))
			buf[s] = core.EqualPowerMix(in, delayed, d.mix)
		}
	}
}
