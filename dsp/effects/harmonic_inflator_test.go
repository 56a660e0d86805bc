package effects

import (
	"math"
	"testing"
)

func TestHarmonicInflatorSetterValidation(t *testing.T) {
	h, err := NewHarmonicInflator(48000)
	if err != nil {
		t.Fatalf("NewHarmonicInflator: %v", err)
	}
	if err := h.SetDrive(-0.1); err == nil {
		t.Fatal("expected error for negative drive")
	}
	if err := h.SetPunch(1.1); err == nil {
		t.Fatal("expected error for punch above range")
	}
	if err := h.SetBloom(math.NaN()); err == nil {
		t.Fatal("expected error for NaN bloom")
	}
	if err := h.SetMix(2); err == nil {
		t.Fatal("expected error for mix above range")
	}
}

func TestHarmonicInflatorNearTransparentAtNeutralSettings(t *testing.T) {
	h, err := NewHarmonicInflator(48000)
	if err != nil {
		t.Fatalf("NewHarmonicInflator: %v", err)
	}
	for _, set := range []error{
		h.SetDrive(0), h.SetPunch(0), h.SetBloom(0), h.SetMix(1),
	} {
		if set != nil {
			t.Fatalf("setter: %v", set)
		}
	}

	// Small signal through unity drive and the soft clip is near-linear.
	buf := make([]float64, 512)
	want := make([]float64, 512)
	for i := range buf {
		buf[i] = 0.05 * math.Sin(0.1*float64(i))
		want[i] = buf[i]
	}
	h.ProcessBlock([][]float64{buf})

	for i := range buf {
		if math.Abs(buf[i]-want[i]) > 1e-4 {
			t.Fatalf("sample %d = %v, want about %v", i, buf[i], want[i])
		}
	}
}

func TestHarmonicInflatorPunchFollowsTransients(t *testing.T) {
	const sampleRate = 48000.0
	h, err := NewHarmonicInflator(sampleRate)
	if err != nil {
		t.Fatalf("NewHarmonicInflator: %v", err)
	}
	for _, set := range []error{
		h.SetDrive(0.5), h.SetPunch(1), h.SetBloom(0), h.SetMix(1),
	} {
		if set != nil {
			t.Fatalf("setter: %v", set)
		}
	}

	// Loud attack then quiet tail; the envelope-gated harmonic injection
	// must deviate more from a pure drive stage during the attack.
	reference, errRef := NewHarmonicInflator(sampleRate)
	if errRef != nil {
		t.Fatalf("NewHarmonicInflator: %v", errRef)
	}
	for _, set := range []error{
		reference.SetDrive(0.5), reference.SetPunch(0), reference.SetBloom(0), reference.SetMix(1),
	} {
		if set != nil {
			t.Fatalf("setter: %v", set)
		}
	}

	input := make([]float64, 9600)
	for i := range input {
		amp := 0.9
		if i >= 4800 {
			amp = 0.05
		}
		input[i] = amp * math.Sin(2*math.Pi*60*float64(i)/sampleRate)
	}

	withPunch := make([]float64, len(input))
	copy(withPunch, input)
	h.ProcessBlock([][]float64{withPunch})

	noPunch := make([]float64, len(input))
	copy(noPunch, input)
	reference.ProcessBlock([][]float64{noPunch})

	attackDiff, tailDiff := 0.0, 0.0
	for i := range input {
		d := math.Abs(withPunch[i] - noPunch[i])
		if i < 4800 {
			attackDiff += d
		} else {
			tailDiff += d
		}
	}
	if attackDiff <= tailDiff {
		t.Fatalf("attack deviation %v not above tail deviation %v", attackDiff, tailDiff)
	}
}

func TestHarmonicInflatorStaysFiniteAtExtremes(t *testing.T) {
	h, err := NewHarmonicInflator(48000)
	if err != nil {
		t.Fatalf("NewHarmonicInflator: %v", err)
	}
	for _, set := range []error{
		h.SetDrive(1), h.SetPunch(1), h.SetBloom(1), h.SetMix(1),
	} {
		if set != nil {
			t.Fatalf("setter: %v", set)
		}
	}

	block := [][]float64{make([]float64, 512), make([]float64, 512)}
	for b := 0; b < 200; b++ {
		for i := range block[0] {
			v := math.Sin(0.02 * float64(b*512+i))
			block[0][i] = v
			block[1][i] = v
		}
		h.ProcessBlock(block)
		for ch := range block {
			for i, v := range block[ch] {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("block %d ch %d sample %d is not finite: %v", b, ch, i, v)
				}
			}
		}
	}
}
