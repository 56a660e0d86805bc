package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
)

const (
	defaultPlasmaDrive     = 0.4
	defaultPlasmaCharacter = 0.5
	defaultPlasmaBias      = 0.0
	defaultPlasmaMix       = 0.5

	plasmaMinDrive = 1.0
	plasmaMaxDrive = 40.0
)

// PlasmaDistortion is a waveshaper with the transfer function
//
//	y = clip(drive*x + bias) * (1 - character * x^2 * sin(pi * x * bias))
//
// followed by a low-pass anti-aliasing stage. Bias introduces asymmetric
// even harmonics, character blends from smooth saturation into the harsher
// oscillatory term. The wet path is soft-clipped after gain compensation so
// the output stays inside a fixed headroom bound for any parameter setting.
type PlasmaDistortion struct {
	sampleRate float64

	drive     float64
	character float64
	bias      float64
	mix       float64

	antiAlias [2]*svfTPT
}

// NewPlasmaDistortion creates a distortion stage for the given sample rate.
func NewPlasmaDistortion(sampleRate float64) (*PlasmaDistortion, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("plasma distortion sample rate must be > 0: %f", sampleRate)
	}

	p := &PlasmaDistortion{
		sampleRate: sampleRate,
		drive:      defaultPlasmaDrive,
		character:  defaultPlasmaCharacter,
		bias:       defaultPlasmaBias,
		mix:        defaultPlasmaMix,
	}
	for ch := range p.antiAlias {
		f := newSVF(sampleRate)
		f.setCutoff(sampleRate * 0.45)
		f.setResonance(0.5)
		p.antiAlias[ch] = f
	}

	return p, nil
}

// SetDrive sets the drive amount in [0, 1], mapped to a 1..40 pre-gain.
func (p *PlasmaDistortion) SetDrive(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("plasma distortion drive must be in [0, 1]: %f", v)
	}
	p.drive = v
	return nil
}

// SetCharacter sets the oscillatory-term amount in [0, 1].
func (p *PlasmaDistortion) SetCharacter(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("plasma distortion character must be in [0, 1]: %f", v)
	}
	p.character = v
	return nil
}

// SetBias sets the pre-nonlinearity DC offset in [-1, 1].
func (p *PlasmaDistortion) SetBias(v float64) error {
	if v < -1 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("plasma distortion bias must be in [-1, 1]: %f", v)
	}
	p.bias = v
	return nil
}

// SetMix sets the equal-power dry/wet blend in [0, 1].
func (p *PlasmaDistortion) SetMix(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("plasma distortion mix must be in [0, 1]: %f", v)
	}
	p.mix = v
	return nil
}

// Mix returns the current dry/wet blend.
func (p *PlasmaDistortion) Mix() float64 { return p.mix }

// Reset clears the anti-aliasing filter state.
func (p *PlasmaDistortion) Reset() {
	for ch := range p.antiAlias {
		p.antiAlias[ch].reset()
	}
}

// ProcessBlock runs the distortion over a planar block in place.
func (p *PlasmaDistortion) ProcessBlock(block [][]float64) {
	if len(block) == 0 || len(block[0]) == 0 {
		return
	}
	numChannels := len(block)
	if numChannels > 2 {
		numChannels = 2
	}

	drive := plasmaMinDrive + p.drive*(plasmaMaxDrive-plasmaMinDrive)
	character := p.character
	bias := p.bias * 0.5
	outGain := 1 / mathSqrt(drive)

	for ch := 0; ch < numChannels; ch++ {
		filter := p.antiAlias[ch]
		buf := block[ch]
		for s := range buf {
			dry := buf[s]
			x := dry*drive + bias

			shaped := core.SoftClip(x)
			plasma := shaped * (1 - character*x*x*math.Sin(math.Pi*x*bias))

			lp, _, _ := filter.process(plasma)
			wet := core.SoftClip(lp * outGain)

			buf[s] = core.EqualPowerMix(dry, wet, p.mix)
		}
	}
}
