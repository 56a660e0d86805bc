package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
)

const (
	defaultInflatorDrive = 0.3
	defaultInflatorPunch = 0.5
	defaultInflatorBloom = 0.2
	defaultInflatorMix   = 0.8

	inflatorMinDrive = 1.0
	inflatorMaxDrive = 8.0

	inflatorAttackSec  = 0.002
	inflatorReleaseSec = 0.1

	inflatorBloomCutoff = 80.0
)

// HarmonicInflator thickens bass-heavy material. An envelope follower
// gates a second-harmonic "punch" injection onto transients, full-wave
// rectification through a high-pass adds an even-harmonic "bloom", and the
// drive stage soft-saturates with 1/drive output compensation.
type HarmonicInflator struct {
	sampleRate float64

	drive float64
	punch float64
	bloom float64
	mix   float64

	bloomHPF   [2]*svfTPT
	envelope   [2]float64
	envAttack  float64
	envRelease float64
}

// NewHarmonicInflator creates an inflator for the given sample rate.
func NewHarmonicInflator(sampleRate float64) (*HarmonicInflator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("harmonic inflator sample rate must be > 0: %f", sampleRate)
	}

	h := &HarmonicInflator{
		sampleRate: sampleRate,
		drive:      defaultInflatorDrive,
		punch:      defaultInflatorPunch,
		bloom:      defaultInflatorBloom,
		mix:        defaultInflatorMix,
		envAttack:  mathExp(-1 / (inflatorAttackSec * sampleRate)),
		envRelease: mathExp(-1 / (inflatorReleaseSec * sampleRate)),
	}
	for ch := range h.bloomHPF {
		f := newSVF(sampleRate)
		f.setCutoff(inflatorBloomCutoff)
		f.setResonance(0.5)
		h.bloomHPF[ch] = f
	}

	return h, nil
}

// SetDrive sets the drive amount in [0, 1], mapped to a 1..8 pre-gain.
func (h *HarmonicInflator) SetDrive(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("harmonic inflator drive must be in [0, 1]: %f", v)
	}
	h.drive = v
	return nil
}

// SetPunch sets the transient harmonic injection amount in [0, 1].
func (h *HarmonicInflator) SetPunch(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("harmonic inflator punch must be in [0, 1]: %f", v)
	}
	h.punch = v
	return nil
}

// SetBloom sets the rectified even-harmonic amount in [0, 1].
func (h *HarmonicInflator) SetBloom(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("harmonic inflator bloom must be in [0, 1]: %f", v)
	}
	h.bloom = v
	return nil
}

// SetMix sets the equal-power dry/wet blend in [0, 1].
func (h *HarmonicInflator) SetMix(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("harmonic inflator mix must be in [0, 1]: %f", v)
	}
	h.mix = v
	return nil
}

// Mix returns the current dry/wet blend.
func (h *HarmonicInflator) Mix() float64 { return h.mix }

// Reset clears the bloom filter and envelope state.
func (h *HarmonicInflator) Reset() {
	for ch := range h.bloomHPF {
		h.bloomHPF[ch].reset()
		h.envelope[ch] = 0
	}
}

// ProcessBlock runs the inflator over a planar block in place.
func (h *HarmonicInflator) ProcessBlock(block [][]float64) {
	if len(block) == 0 || len(block[0]) == 0 {
		return
	}
	numChannels := len(block)
	if numChannels > 2 {
		numChannels = 2
	}

	drive := inflatorMinDrive + h.drive*(inflatorMaxDrive-inflatorMinDrive)
	outGain := 1 / drive

	for ch := 0; ch < numChannels; ch++ {
		hpf := h.bloomHPF[ch]
		buf := block[ch]
		for s := range buf {
			dry := buf[s]

			rectified := math.Abs(dry)
			coeff := h.envRelease
			if rectified > h.envelope[ch] {
				coeff = h.envAttack
			}
			h.envelope[ch] = rectified*(1-coeff) + h.envelope[ch]*coeff

			x := core.SoftClip(dry * drive)

			// Asymmetric second harmonic, shaped by the transient envelope.
			h2 := x * x
			if x < 0 {
				h2 = -h2
			}
			x += h2 * h.punch * h.envelope[ch] * 0.5

			_, _, bloomSig := hpf.process(rectified)
			x += bloomSig * h.bloom * 0.3

			x *= outGain

			buf[s] = core.EqualPowerMix(dry, x, h.mix)
		}
	}
}
