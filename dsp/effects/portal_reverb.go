package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
	"github.com/cwbudde/algo-fxgraph/dsp/delay"
)

const (
	portalNumLines      = 8
	portalReferenceRate = 44100.0

	defaultPortalSize    = 0.7
	defaultPortalDecay   = 8.0
	defaultPortalDrift   = 0.4
	defaultPortalShimmer = 0.2
	defaultPortalDamping = 0.3
	defaultPortalMix     = 0.4

	minPortalDecay = 0.1
	maxPortalDecay = 60.0

	// Maximum read-offset wander as a fraction of the line length.
	portalDriftScale = 0.003

	portalLFORateHz = 0.15

	ln1000th = -6.907755278982137 // ln(0.001), the -60 dB point
)

// Mutually prime line lengths at the reference rate give a dense,
// non-repeating echo pattern.
var portalLinePrimes = [portalNumLines]int{
	2039, 2311, 2683, 3001, 3299, 3671, 4049, 4421,
}

// PortalReverb is a feedback-delay-network reverb with slowly drifting
// line lengths, per-line damping and an octave-up shimmer feedback path.
//
// The eight delay lines are cross-coupled through a Hadamard matrix;
// the drift modulation makes the delay times wander continuously so the
// tail never settles into discrete, metallic echoes.
type PortalReverb struct {
	sampleRate float64

	size    float64
	decay   float64
	drift   float64
	shimmer float64
	damping float64
	mix     float64

	lines       [portalNumLines]*delay.Line
	baseDelay   [portalNumLines]float64
	filterState [portalNumLines]float64
	lfoPhase    [portalNumLines]float64
	outCache    [portalNumLines]float64

	preDelay *delay.Line

	shimmerBuf      []float64
	shimmerWritePos int
	shimmerReadPos  float64

	avgLineLen float64
	lfoInc     float64
}

// NewPortalReverb creates a reverb configured for the given sample rate.
func NewPortalReverb(sampleRate float64) (*PortalReverb, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("portal reverb sample rate must be > 0: %f", sampleRate)
	}

	r := &PortalReverb{
		sampleRate: sampleRate,
		size:       defaultPortalSize,
		decay:      defaultPortalDecay,
		drift:      defaultPortalDrift,
		shimmer:    defaultPortalShimmer,
		damping:    defaultPortalDamping,
		mix:        defaultPortalMix,
		lfoInc:     portalLFORateHz / sampleRate,
	}

	scale := sampleRate / portalReferenceRate
	sum := 0.0
	for i := range r.lines {
		length := int(float64(portalLinePrimes[i])*scale + 0.5)
		line, err := delay.New(length)
		if err != nil {
			return nil, err
		}
		r.lines[i] = line
		// Center the modulated read offset so full drift stays inside
		// the line.
		r.baseDelay[i] = float64(length)*(1-portalDriftScale) - 2
		r.lfoPhase[i] = float64(i) / portalNumLines
		sum += float64(length)
	}
	r.avgLineLen = sum / portalNumLines

	preDelay, err := delay.New(int(sampleRate * 0.5))
	if err != nil {
		return nil, err
	}
	r.preDelay = preDelay

	r.shimmerBuf = make([]float64, int(sampleRate*0.5))

	return r, nil
}

// SetSize sets the room size in [0, 1]. Size maps to a 5..80 ms pre-delay.
func (r *PortalReverb) SetSize(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("portal reverb size must be in [0, 1]: %f", v)
	}
	r.size = v
	return nil
}

// SetDecay sets the RT60 decay time in seconds.
func (r *PortalReverb) SetDecay(seconds float64) error {
	if seconds < minPortalDecay || seconds > maxPortalDecay || math.IsNaN(seconds) {
		return fmt.Errorf("portal reverb decay must be in [%v, %v]: %f",
			minPortalDecay, maxPortalDecay, seconds)
	}
	r.decay = seconds
	return nil
}

// SetDrift sets the line wander depth in [0, 1].
func (r *PortalReverb) SetDrift(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("portal reverb drift must be in [0, 1]: %f", v)
	}
	r.drift = v
	return nil
}

// SetShimmer sets the octave-up feedback amount in [0, 1].
func (r *PortalReverb) SetShimmer(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("portal reverb shimmer must be in [0, 1]: %f", v)
	}
	r.shimmer = v
	return nil
}

// SetDamping sets the feedback low-pass damping in [0, 1].
func (r *PortalReverb) SetDamping(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("portal reverb damping must be in [0, 1]: %f", v)
	}
	r.damping = v
	return nil
}

// SetMix sets the equal-power dry/wet blend in [0, 1].
func (r *PortalReverb) SetMix(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("portal reverb mix must be in [0, 1]: %f", v)
	}
	r.mix = v
	return nil
}

// Mix returns the current dry/wet blend.
func (r *PortalReverb) Mix() float64 { return r.mix }

// Reset clears all delay lines and filter state.
func (r *PortalReverb) Reset() {
	for i := range r.lines {
		r.lines[i].Reset()
		r.filterState[i] = 0
		r.outCache[i] = 0
		r.lfoPhase[i] = float64(i) / portalNumLines
	}
	r.preDelay.Reset()
	for i := range r.shimmerBuf {
		r.shimmerBuf[i] = 0
	}
	r.shimmerWritePos = 0
	r.shimmerReadPos = 0
}

// decayCoeff maps the RT60 time to a per-pass feedback scalar so the tail
// loses 60 dB in decay seconds. The result is always < 1.
func (r *PortalReverb) decayCoeff() float64 {
	return mathExp(ln1000th * r.avgLineLen / (r.decay * r.sampleRate))
}

// ProcessBlock runs the reverb over a planar block in place. Channels are
// summed to mono at the reverb input; the wet tail is spread back to
// stereo from two decorrelated line outputs.
func (r *PortalReverb) ProcessBlock(block [][]float64) {
	if len(block) == 0 || len(block[0]) == 0 {
		return
	}
	numChannels := len(block)
	numSamples := len(block[0])

	decay := r.decayCoeff()
	driftDepth := r.drift * portalDriftScale
	shimmer := r.shimmer
	// Feedback low-pass pole. Kept well below 1 so damping trims the top
	// octaves without shortening the broadband RT60.
	pole := 0.6 * r.damping
	preDelaySamples := (0.005 + 0.075*r.size) * r.sampleRate
	preLen := int(preDelaySamples)

	var mixed [portalNumLines]float64

	for s := 0; s < numSamples; s++ {
		in := 0.0
		for ch := 0; ch < numChannels; ch++ {
			in += block[ch][s]
		}
		in /= float64(numChannels)

		r.preDelay.Write(in)
		diffused := r.preDelay.Read(preLen)

		// Read and damp all lines, then cross-couple the damped outputs.
		wetMono := 0.0
		for i := 0; i < portalNumLines; i++ {
			r.lfoPhase[i] += r.lfoInc
			if r.lfoPhase[i] > 1 {
				r.lfoPhase[i] -= 1
			}
			lfo := math.Sin(r.lfoPhase[i] * 2 * math.Pi)

			d := r.baseDelay[i] + lfo*driftDepth*float64(r.lines[i].Len())
			raw := r.lines[i].ReadFractionalLinear(d)

			r.filterState[i] = core.FlushDenormals(r.filterState[i]*pole + raw*(1-pole))
			r.outCache[i] = r.filterState[i]
			wetMono += r.outCache[i]
		}
		wetMono /= portalNumLines

		hadamardMix(&r.outCache, &mixed)

		var shimmerSample float64
		if shimmer > 0.001 {
			shimmerSample = r.readShimmer()
		}

		for i := 0; i < portalNumLines; i++ {
			writeVal := diffused*0.125 + mixed[i]*decay
			if shimmer > 0.001 {
				writeVal += shimmerSample * shimmer * decay * 0.3
			}
			r.lines[i].Write(writeVal)
		}

		r.shimmerBuf[r.shimmerWritePos] = wetMono
		r.shimmerWritePos++
		if r.shimmerWritePos >= len(r.shimmerBuf) {
			r.shimmerWritePos = 0
		}

		// Decorrelate left/right from two of the line outputs.
		left := wetMono + r.outCache[0]*0.3 - r.outCache[1]*0.1
		right := wetMono - r.outCache[0]*0.3 + r.outCache[1]*0.1

		for ch := 0; ch < numChannels; ch++ {
			wet := right
			if ch == 0 {
				wet = left
			}
			block[ch][s] = core.EqualPowerMix(block[ch][s], wet, r.mix)
		}
	}
}

// readShimmer reads the rolling wet buffer at twice the write rate,
// shifting the feedback up one octave.
func (r *PortalReverb) readShimmer() float64 {
	r.shimmerReadPos += 2
	length := float64(len(r.shimmerBuf))
	for r.shimmerReadPos >= length {
		r.shimmerReadPos -= length
	}
	i := int(r.shimmerReadPos)
	frac := r.shimmerReadPos - float64(i)
	next := i + 1
	if next >= len(r.shimmerBuf) {
		next = 0
	}
	s0 := r.shimmerBuf[i]
	s1 := r.shimmerBuf[next]
	return s0 + frac*(s1-s0)
}

// hadamardMix applies the 8x8 Walsh-Hadamard matrix, normalized to be
// energy preserving.
func hadamardMix(in, out *[portalNumLines]float64) {
	var tmp [portalNumLines]float64
	for i := 0; i < 4; i++ {
		tmp[i*2] = in[i*2] + in[i*2+1]
		tmp[i*2+1] = in[i*2] - in[i*2+1]
	}
	for i := 0; i < 2; i++ {
		out[i*4] = tmp[i*4] + tmp[i*4+2]
		out[i*4+1] = tmp[i*4+1] + tmp[i*4+3]
		out[i*4+2] = tmp[i*4] - tmp[i*4+2]
		out[i*4+3] = tmp[i*4+1] - tmp[i*4+3]
	}
	a, b, c, d := out[0], out[1], out[2], out[3]
	e, f, g, h := out[4], out[5], out[6], out[7]
	out[0], out[1], out[2], out[3] = a+e, b+f, c+g, d+h
	out[4], out[5], out[6], out[7] = a-e, b-f, c-g, d-h

	norm := 1 / math.Sqrt(portalNumLines)
	for i := range out {
		out[i] *= norm
	}
}
