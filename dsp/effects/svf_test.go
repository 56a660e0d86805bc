package effects

import (
	"math"
	"testing"
)

func TestSVFPassesDCThroughLowpass(t *testing.T) {
	f := newSVF(48000)
	f.setCutoff(1000)
	f.setResonance(0.707)

	var lp float64
	for i := 0; i < 48000; i++ {
		lp, _, _ = f.process(1)
	}
	if math.Abs(lp-1) > 1e-3 {
		t.Fatalf("lowpass DC gain = %v, want 1", lp)
	}
}

func TestSVFBlocksDCThroughHighpass(t *testing.T) {
	f := newSVF(48000)
	f.setCutoff(1000)
	f.setResonance(0.707)

	var hp float64
	for i := 0; i < 48000; i++ {
		_, _, hp = f.process(1)
	}
	if math.Abs(hp) > 1e-3 {
		t.Fatalf("highpass DC gain = %v, want 0", hp)
	}
}

func TestSVFLowpassAttenuatesHighFrequency(t *testing.T) {
	const sampleRate = 48000.0
	f := newSVF(sampleRate)
	f.setCutoff(200)
	f.setResonance(0.707)

	// 10 kHz sine, far above cutoff.
	peak := 0.0
	for i := 0; i < 48000; i++ {
		x := math.Sin(2 * math.Pi * 10000 * float64(i) / sampleRate)
		lp, _, _ := f.process(x)
		if i > 24000 && math.Abs(lp) > peak {
			peak = math.Abs(lp)
		}
	}
	if peak > 0.01 {
		t.Fatalf("lowpass output peak at 10 kHz = %v, want < 0.01", peak)
	}
}

func TestSVFCutoffClamped(t *testing.T) {
	f := newSVF(48000)
	f.setCutoff(1e9)
	// tan must stay finite below the pole.
	if math.IsNaN(f.g) || math.IsInf(f.g, 0) || f.g < 0 {
		t.Fatalf("g = %v after extreme cutoff, want finite positive", f.g)
	}
	f.setCutoff(-5)
	if f.g <= 0 {
		t.Fatalf("g = %v after negative cutoff, want positive", f.g)
	}
}

func TestSVFResetClearsState(t *testing.T) {
	f := newSVF(48000)
	f.setCutoff(500)
	for i := 0; i < 100; i++ {
		f.process(1)
	}
	f.reset()
	if f.ic1 != 0 || f.ic2 != 0 {
		t.Fatalf("state = %v, %v after reset, want 0, 0", f.ic1, f.ic2)
	}
}
