package effects

import (
	"fmt"
	"math"
	"math/rand"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
	"github.com/cwbudde/algo-fxgraph/dsp/window"
)

const (
	chorusFFTSize   = 2048
	chorusHopSize   = chorusFFTSize / 4
	chorusMaxVoices = 8

	chorusPhaseTableSize = 512

	defaultChorusDepth = 0.5
	defaultChorusRate  = 0.5
	defaultChorusWarp  = 0.3
	defaultChorusMix   = 0.6
	defaultChorusVoice = 4

	minChorusRate = 0.01
	maxChorusRate = 10.0
)

// SpectralWarpChorus is an overlap-add STFT chorus. Per frame, each voice
// applies a per-bin complex rotation built from a static pseudo-random
// phase table plus a fractional bin shift, and an LFO-driven magnitude
// scaling. Voices sum in the frequency domain with the dry spectrum.
//
// The kernel introduces a fixed latency of one transform size.
type SpectralWarpChorus struct {
	sampleRate float64

	depth     float64
	rateHz    float64
	warp      float64
	mix       float64
	numVoices int

	plan         *algofft.Plan[complex128]
	windowCoeffs []float64
	overlapGain  float64

	// Streaming state, two channels max.
	inFrame  [2][]float64
	hopBuf   [2][]float64
	outFifo  [2][]float64
	outAccum [2][]float64
	hopIndex int

	timeFrame  []complex128
	spectrum   []complex128
	voiceAccum []complex128

	voiceLFOPhase [chorusMaxVoices]float64
	voiceDetune   [chorusMaxVoices]float64
	phaseTable    [chorusMaxVoices][chorusPhaseTableSize]float64
}

// NewSpectralWarpChorus creates a chorus configured for the given sample rate.
func NewSpectralWarpChorus(sampleRate float64) (*SpectralWarpChorus, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("spectral chorus sample rate must be > 0: %f", sampleRate)
	}

	plan, err := algofft.NewPlan64(chorusFFTSize)
	if err != nil {
		return nil, fmt.Errorf("spectral chorus: %w", err)
	}

	c := &SpectralWarpChorus{
		sampleRate: sampleRate,
		depth:      defaultChorusDepth,
		rateHz:     defaultChorusRate,
		warp:       defaultChorusWarp,
		mix:        defaultChorusMix,
		numVoices:  defaultChorusVoice,
		plan:       plan,
	}

	c.windowCoeffs = window.Hann(chorusFFTSize, true)
	c.overlapGain = window.OverlapGain(c.windowCoeffs, chorusHopSize)

	for ch := 0; ch < 2; ch++ {
		c.inFrame[ch] = make([]float64, chorusFFTSize)
		c.hopBuf[ch] = make([]float64, chorusHopSize)
		c.outFifo[ch] = make([]float64, chorusHopSize)
		c.outAccum[ch] = make([]float64, chorusFFTSize+chorusHopSize)
	}
	c.timeFrame = make([]complex128, chorusFFTSize)
	c.spectrum = make([]complex128, chorusFFTSize)
	c.voiceAccum = make([]complex128, chorusFFTSize)

	for v := 0; v < chorusMaxVoices; v++ {
		c.voiceLFOPhase[v] = float64(v) / chorusMaxVoices
		sign := 1.0
		if v%2 != 0 {
			sign = -1.0
		}
		c.voiceDetune[v] = sign * (0.1 + 0.15*float64(v))

		rng := rand.New(rand.NewSource(int64(v)*0x9e3779b9 + 12345678))
		for b := 0; b < chorusPhaseTableSize; b++ {
			c.phaseTable[v][b] = rng.Float64() * 2 * math.Pi
		}
	}

	return c, nil
}

// Latency returns the fixed processing latency in samples.
func (c *SpectralWarpChorus) Latency() int { return chorusFFTSize }

// SetDepth sets the modulation depth in [0, 1]. At zero depth every voice
// passes the spectrum unchanged.
func (c *SpectralWarpChorus) SetDepth(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("spectral chorus depth must be in [0, 1]: %f", v)
	}
	c.depth = v
	return nil
}

// SetRate sets the voice LFO rate in Hz.
func (c *SpectralWarpChorus) SetRate(hz float64) error {
	if hz < minChorusRate || hz > maxChorusRate || math.IsNaN(hz) {
		return fmt.Errorf("spectral chorus rate must be in [%v, %v]: %f",
			minChorusRate, maxChorusRate, hz)
	}
	c.rateHz = hz
	return nil
}

// SetVoices sets the voice count in [0, 8]. Zero voices passes the dry
// spectrum through the analysis/synthesis chain unchanged.
func (c *SpectralWarpChorus) SetVoices(n int) error {
	if n < 0 || n > chorusMaxVoices {
		return fmt.Errorf("spectral chorus voices must be in [0, %d]: %d", chorusMaxVoices, n)
	}
	c.numVoices = n
	return nil
}

// SetWarp sets the fractional bin shift amount in [0, 1].
func (c *SpectralWarpChorus) SetWarp(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("spectral chorus warp must be in [0, 1]: %f", v)
	}
	c.warp = v
	return nil
}

// SetMix sets the equal-power dry/wet blend in [0, 1].
func (c *SpectralWarpChorus) SetMix(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("spectral chorus mix must be in [0, 1]: %f", v)
	}
	c.mix = v
	return nil
}

// Mix returns the current dry/wet blend.
func (c *SpectralWarpChorus) Mix() float64 { return c.mix }

// Reset clears all streaming state and restarts the voice LFOs.
func (c *SpectralWarpChorus) Reset() {
	for ch := 0; ch < 2; ch++ {
		core.Zero(c.inFrame[ch])
		core.Zero(c.hopBuf[ch])
		core.Zero(c.outFifo[ch])
		core.Zero(c.outAccum[ch])
	}
	c.hopIndex = 0
	for v := 0; v < chorusMaxVoices; v++ {
		c.voiceLFOPhase[v] = float64(v) / chorusMaxVoices
	}
}

// ProcessBlock runs the chorus over a planar block in place.
func (c *SpectralWarpChorus) ProcessBlock(block [][]float64) {
	if len(block) == 0 || len(block[0]) == 0 {
		return
	}
	numChannels := len(block)
	if numChannels > 2 {
		numChannels = 2
	}
	numSamples := len(block[0])

	for s := 0; s < numSamples; s++ {
		for ch := 0; ch < numChannels; ch++ {
			in := block[ch][s]
			c.hopBuf[ch][c.hopIndex] = in
			block[ch][s] = core.EqualPowerMix(in, c.outFifo[ch][c.hopIndex], c.mix)
		}

		c.hopIndex++
		if c.hopIndex >= chorusHopSize {
			c.hopIndex = 0
			for ch := 0; ch < numChannels; ch++ {
				c.processFrame(ch)
			}
		}
	}
}

// processFrame slides the analysis frame by one hop, transforms it, applies
// the voice bank and overlap-adds the synthesis result.
func (c *SpectralWarpChorus) processFrame(ch int) {
	frame := c.inFrame[ch]
	copy(frame, frame[chorusHopSize:])
	copy(frame[chorusFFTSize-chorusHopSize:], c.hopBuf[ch])

	for i := 0; i < chorusFFTSize; i++ {
		c.timeFrame[i] = complex(frame[i]*c.windowCoeffs[i], 0)
	}
	if err := c.plan.Forward(c.spectrum, c.timeFrame); err != nil {
		return
	}

	c.applyVoices(ch == 0)

	if err := c.plan.Inverse(c.timeFrame, c.spectrum); err != nil {
		return
	}

	accum := c.outAccum[ch]
	for i := 0; i < chorusFFTSize; i++ {
		accum[i] += real(c.timeFrame[i]) * c.windowCoeffs[i]
	}

	// Release the completed hop, shift the accumulator and zero the tail.
	scale := 1 / c.overlapGain
	for i := 0; i < chorusHopSize; i++ {
		c.outFifo[ch][i] = accum[i] * scale
	}
	copy(accum, accum[chorusHopSize:])
	core.Zero(accum[len(accum)-chorusHopSize:])
}

// applyVoices modifies c.spectrum in place. Voice LFO phases advance once
// per frame pair, driven by the left channel so both channels share phase.
func (c *SpectralWarpChorus) applyVoices(advanceLFO bool) {
	const half = chorusFFTSize / 2

	numVoices := c.numVoices
	if numVoices == 0 {
		return
	}

	depth := c.depth
	warp := c.warp
	lfoInc := c.rateHz / c.sampleRate * chorusHopSize

	core.ZeroComplex(c.voiceAccum[:half])

	for v := 0; v < numVoices; v++ {
		if advanceLFO {
			c.voiceLFOPhase[v] += lfoInc
			if c.voiceLFOPhase[v] > 1 {
				c.voiceLFOPhase[v] -= 1
			}
		}
		lfo := math.Sin(c.voiceLFOPhase[v] * 2 * math.Pi)

		// Fractional bin shift, at most +-3 bins at full depth and warp.
		shift := c.voiceDetune[v] * depth * warp * 3
		magMod := 1 + lfo*depth*0.4

		for bin := 1; bin < half; bin++ {
			re := real(c.spectrum[bin])
			im := imag(c.spectrum[bin])

			phi := c.phaseTable[v][bin%chorusPhaseTableSize]*depth*0.3 +
				float64(bin)*shift*0.01
			sinP, cosP := math.Sincos(phi)

			c.voiceAccum[bin] += complex(
				(re*cosP-im*sinP)*magMod,
				(re*sinP+im*cosP)*magMod,
			)
		}
	}

	// Blend voices with the dry spectrum; bin 0 and Nyquist stay untouched.
	voiceScale := 1 / float64(numVoices+1)
	for bin := 1; bin < half; bin++ {
		c.spectrum[bin] = (c.spectrum[bin] + c.voiceAccum[bin]) * complex(voiceScale, 0)
		v := c.spectrum[bin]
		c.spectrum[chorusFFTSize-bin] = complex(real(v), -imag(v))
	}
}
