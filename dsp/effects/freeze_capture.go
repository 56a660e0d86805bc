package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
)

const (
	freezeCaptureSeconds = 4.0

	defaultFreezeSize  = 0.5
	defaultFreezePitch = 0.0
	defaultFreezeMix   = 1.0

	minFreezeSize  = 0.01
	minFreezePitch = -24.0
	maxFreezePitch = 24.0
)

// FreezeCapture records the incoming signal into a rolling buffer and, when
// frozen, loops the captured slice back with a semitone pitch offset.
//
// The write cursor survives freeze/unfreeze toggles, so unfreezing resumes
// capture where it left off. Playback reads always wrap inside the
// currently selected capture length.
type FreezeCapture struct {
	sampleRate float64

	frozen      bool
	sizeSeconds float64
	pitch       float64
	mix         float64

	captureBuf [2][]float64
	writePos   int
	readPos    float64
}

// NewFreezeCapture creates a freeze stage for the given sample rate.
func NewFreezeCapture(sampleRate float64) (*FreezeCapture, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("freeze capture sample rate must be > 0: %f", sampleRate)
	}

	f := &FreezeCapture{
		sampleRate:  sampleRate,
		sizeSeconds: defaultFreezeSize,
		pitch:       defaultFreezePitch,
		mix:         defaultFreezeMix,
	}
	size := int(freezeCaptureSeconds * sampleRate)
	for ch := range f.captureBuf {
		f.captureBuf[ch] = make([]float64, size)
	}

	return f, nil
}

// SetFrozen toggles between capture and looped playback.
func (f *FreezeCapture) SetFrozen(frozen bool) {
	if frozen && !f.frozen {
		f.readPos = 0
	}
	f.frozen = frozen
}

// Frozen reports whether playback mode is active.
func (f *FreezeCapture) Frozen() bool { return f.frozen }

// SetSize sets the looped slice length in seconds.
func (f *FreezeCapture) SetSize(seconds float64) error {
	if seconds < minFreezeSize || seconds > freezeCaptureSeconds || math.IsNaN(seconds) {
		return fmt.Errorf("freeze capture size must be in [%v, %v]: %f",
			minFreezeSize, freezeCaptureSeconds, seconds)
	}
	f.sizeSeconds = seconds
	return nil
}

// SetPitch sets the playback pitch offset in semitones.
func (f *FreezeCapture) SetPitch(semitones float64) error {
	if semitones < minFreezePitch || semitones > maxFreezePitch || math.IsNaN(semitones) {
		return fmt.Errorf("freeze capture pitch must be in [%v, %v]: %f",
			minFreezePitch, maxFreezePitch, semitones)
	}
	f.pitch = semitones
	return nil
}

// SetMix sets the equal-power dry/frozen blend in [0, 1].
func (f *FreezeCapture) SetMix(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("freeze capture mix must be in [0, 1]: %f", v)
	}
	f.mix = v
	return nil
}

// Reset clears the capture buffer and cursors.
func (f *FreezeCapture) Reset() {
	for ch := range f.captureBuf {
		core.Zero(f.captureBuf[ch])
	}
	f.writePos = 0
	f.readPos = 0
}

// ProcessBlock runs the freeze stage over a planar block in place. While
// capturing, the input passes through untouched.
func (f *FreezeCapture) ProcessBlock(block [][]float64) {
	if len(block) == 0 || len(block[0]) == 0 {
		return
	}
	numChannels := len(block)
	if numChannels > 2 {
		numChannels = 2
	}
	numSamples := len(block[0])

	bufLen := len(f.captureBuf[0])
	captureLen := int(f.sizeSeconds * f.sampleRate)
	if captureLen < 1 {
		captureLen = 1
	} else if captureLen > bufLen-1 {
		captureLen = bufLen - 1
	}

	ratio := math.Pow(2, f.pitch/12)

	for s := 0; s < numSamples; s++ {
		if !f.frozen {
			for ch := 0; ch < numChannels; ch++ {
				f.captureBuf[ch][f.writePos] = block[ch][s]
			}
			f.writePos++
			if f.writePos >= bufLen {
				f.writePos = 0
			}
			continue
		}

		f.readPos += ratio
		for f.readPos >= float64(captureLen) {
			f.readPos -= float64(captureLen)
		}
		ri := int(f.readPos)
		frac := f.readPos - float64(ri)
		next := ri + 1
		if next >= captureLen {
			next = 0
		}

		for ch := 0; ch < numChannels; ch++ {
			s0 := f.captureBuf[ch][ri]
			s1 := f.captureBuf[ch][next]
			frozenSample := s0 + frac*(s1-s0)
			block[ch][s] = core.EqualPowerMix(block[ch][s], frozenSample, f.mix)
		}
	}
}
