package effects

import (
	"math"
	"testing"
)

func TestGainStagerPullsLoudSignalDown(t *testing.T) {
	g, err := NewGainStager(48000)
	if err != nil {
		t.Fatalf("NewGainStager: %v", err)
	}

	// 0.9 amplitude square wave sits far above the -18 dBFS target.
	for b := 0; b < 400; b++ {
		buf := make([]float64, 512)
		for i := range buf {
			buf[i] = 0.9
		}
		g.ProcessBlock([][]float64{buf})
	}

	if g.Gain() >= 1 {
		t.Fatalf("gain = %v for loud input, want < 1", g.Gain())
	}
	want := gainStagerTargetRMS / 0.9
	if math.Abs(g.Gain()-want) > 0.05 {
		t.Fatalf("gain = %v, want about %v", g.Gain(), want)
	}
}

func TestGainStagerBoostClamped(t *testing.T) {
	g, err := NewGainStager(48000)
	if err != nil {
		t.Fatalf("NewGainStager: %v", err)
	}

	for b := 0; b < 400; b++ {
		buf := make([]float64, 512)
		for i := range buf {
			buf[i] = 0.001
		}
		g.ProcessBlock([][]float64{buf})
	}

	if g.Gain() != gainStagerMaxGain {
		t.Fatalf("gain = %v for very quiet input, want clamp at %v", g.Gain(), gainStagerMaxGain)
	}
}

func TestGainStagerIgnoresSilence(t *testing.T) {
	g, err := NewGainStager(48000)
	if err != nil {
		t.Fatalf("NewGainStager: %v", err)
	}

	buf := make([]float64, 512)
	g.ProcessBlock([][]float64{buf})

	if g.Gain() != 1 {
		t.Fatalf("gain = %v for silence, want unchanged unity", g.Gain())
	}
}
