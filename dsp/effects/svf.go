package effects

import "math"

// svfTPT is a topology-preserving-transform state variable filter.
// Unlike a biquad it stays stable under audio-rate cutoff modulation,
// which the gravity filter and texture kernels rely on.
type svfTPT struct {
	sampleRate float64
	g          float64
	k          float64
	ic1        float64
	ic2        float64
}

func newSVF(sampleRate float64) *svfTPT {
	f := &svfTPT{sampleRate: sampleRate, k: 1}
	f.setCutoff(1000)
	return f
}

// setCutoff tunes the filter. The frequency is clamped to (0, Nyquist)
// so modulated cutoffs can never push tan() past the pole.
func (f *svfTPT) setCutoff(hz float64) {
	const minHz = 10.0
	maxHz := 0.49 * f.sampleRate
	if hz < minHz {
		hz = minHz
	} else if hz > maxHz {
		hz = maxHz
	}
	f.g = math.Tan(math.Pi * hz / f.sampleRate)
}

// setResonance sets the filter Q. Values below 0.5 are lifted to keep the
// damping coefficient bounded.
func (f *svfTPT) setResonance(q float64) {
	if q < 0.5 {
		q = 0.5
	}
	f.k = 1 / q
}

// process advances the filter one sample and returns all three outputs.
func (f *svfTPT) process(x float64) (lp, bp, hp float64) {
	hp = (x - (f.k+f.g)*f.ic1 - f.ic2) / (1 + f.g*(f.g+f.k))
	bp = f.g*hp + f.ic1
	lp = f.g*bp + f.ic2

	f.ic1 = f.g*hp + bp
	f.ic2 = f.g*bp + lp

	return lp, bp, hp
}

func (f *svfTPT) reset() {
	f.ic1 = 0
	f.ic2 = 0
}
