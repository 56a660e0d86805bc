package effects

import (
	"fmt"
	"math"
)

// GravityFilterMode selects the filter response.
type GravityFilterMode int

const (
	// GravityModeLowpass is a plain low-pass response.
	GravityModeLowpass GravityFilterMode = iota
	// GravityModeHighpass is a plain high-pass response.
	GravityModeHighpass
	// GravityModeBandpass is a plain band-pass response.
	GravityModeBandpass
	// GravityModeNotch sums the low- and high-pass outputs.
	GravityModeNotch
	// GravityModeGravity is a low-pass whose cutoff is pulled by the
	// signal's smoothed RMS level.
	GravityModeGravity
)

const (
	defaultGravityFreq  = 2000.0
	defaultGravityReso  = 0.3
	defaultGravityCurve = 0.0

	minGravityFreq = 20.0
	maxGravityFreq = 20000.0

	gravityRMSSmoothSec = 0.02
	gravityModRangeHz   = 3000.0
)

// GravityFilter is a state-variable filter with an adaptive "gravity" mode:
// the cutoff is continuously offset by the smoothed input RMS raised to a
// curve exponent, so loud passages pull the cutoff up (positive curve) or
// down (negative curve).
type GravityFilter struct {
	sampleRate float64

	baseFreq float64
	reso     float64
	curve    float64
	mode     GravityFilterMode

	filters  [2]*svfTPT
	rmsPower float64
	rmsCoeff float64
}

// NewGravityFilter creates a filter for the given sample rate.
func NewGravityFilter(sampleRate float64) (*GravityFilter, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("gravity filter sample rate must be > 0: %f", sampleRate)
	}

	f := &GravityFilter{
		sampleRate: sampleRate,
		baseFreq:   defaultGravityFreq,
		reso:       defaultGravityReso,
		curve:      defaultGravityCurve,
		mode:       GravityModeGravity,
		rmsCoeff:   mathExp(-1 / (gravityRMSSmoothSec * sampleRate)),
	}
	for ch := range f.filters {
		f.filters[ch] = newSVF(sampleRate)
	}

	return f, nil
}

// SetFrequency sets the base cutoff in Hz.
func (f *GravityFilter) SetFrequency(hz float64) error {
	if hz < minGravityFreq || hz > maxGravityFreq || math.IsNaN(hz) {
		return fmt.Errorf("gravity filter frequency must be in [%v, %v]: %f",
			minGravityFreq, maxGravityFreq, hz)
	}
	f.baseFreq = hz
	return nil
}

// SetResonance sets the resonance in [0, 1], mapped to Q of 0.5..20.
func (f *GravityFilter) SetResonance(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("gravity filter resonance must be in [0, 1]: %f", v)
	}
	f.reso = v
	return nil
}

// SetCurve sets the gravity exponent in [-1, 1]. Positive values pull the
// cutoff up with level, negative values pull it down.
func (f *GravityFilter) SetCurve(v float64) error {
	if v < -1 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("gravity filter curve must be in [-1, 1]: %f", v)
	}
	f.curve = v
	return nil
}

// SetMode selects the filter response.
func (f *GravityFilter) SetMode(mode GravityFilterMode) error {
	if mode < GravityModeLowpass || mode > GravityModeGravity {
		return fmt.Errorf("gravity filter mode must be in [0, 4]: %d", mode)
	}
	f.mode = mode
	return nil
}

// Mode returns the active filter response.
func (f *GravityFilter) Mode() GravityFilterMode { return f.mode }

// Reset clears the filter and RMS state.
func (f *GravityFilter) Reset() {
	for ch := range f.filters {
		f.filters[ch].reset()
	}
	f.rmsPower = 0
}

// ProcessBlock runs the filter over a planar block in place.
func (f *GravityFilter) ProcessBlock(block [][]float64) {
	if len(block) == 0 || len(block[0]) == 0 {
		return
	}
	numChannels := len(block)
	if numChannels > 2 {
		numChannels = 2
	}
	numSamples := len(block[0])

	q := 0.5 + f.reso*19.5
	for ch := 0; ch < numChannels; ch++ {
		f.filters[ch].setResonance(q)
	}

	gravity := f.mode == GravityModeGravity
	if !gravity {
		for ch := 0; ch < numChannels; ch++ {
			f.filters[ch].setCutoff(f.baseFreq)
		}
	}

	for s := 0; s < numSamples; s++ {
		if gravity {
			power := 0.0
			for ch := 0; ch < numChannels; ch++ {
				power += block[ch][s] * block[ch][s]
			}
			power /= float64(numChannels)
			f.rmsPower = f.rmsPower*f.rmsCoeff + power*(1-f.rmsCoeff)
			rms := mathSqrt(f.rmsPower)

			modFreq := f.baseFreq
			if rms > 1e-9 {
				exponent := math.Abs(f.curve) + 0.1
				sign := -1.0
				if f.curve > 0 {
					sign = 1.0
				}
				modFreq += mathExp(exponent*mathLog(rms)) * sign * gravityModRangeHz
			}
			// Clamp to the audible range before it reaches the filter.
			if modFreq < minGravityFreq {
				modFreq = minGravityFreq
			} else if modFreq > maxGravityFreq {
				modFreq = maxGravityFreq
			}
			for ch := 0; ch < numChannels; ch++ {
				f.filters[ch].setCutoff(modFreq)
			}
		}

		for ch := 0; ch < numChannels; ch++ {
			lp, bp, hp := f.filters[ch].process(block[ch][s])
			switch f.mode {
			case GravityModeHighpass:
				block[ch][s] = hp
			case GravityModeBandpass:
				block[ch][s] = bp
			case GravityModeNotch:
				block[ch][s] = lp + hp
			default:
				block[ch][s] = lp
			}
		}
	}
}
