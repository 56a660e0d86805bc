package effects

import (
	"math"
	"testing"
)

func TestStereoMotionSetterValidation(t *testing.T) {
	m, err := NewStereoMotion(48000)
	if err != nil {
		t.Fatalf("NewStereoMotion: %v", err)
	}
	if err := m.SetWidth(2.5); err == nil {
		t.Fatal("expected error for width above range")
	}
	if err := m.SetMotion(-0.1); err == nil {
		t.Fatal("expected error for negative motion")
	}
	if err := m.SetRate(0); err == nil {
		t.Fatal("expected error for rate below range")
	}
}

func TestStereoMotionLosslessAtUnity(t *testing.T) {
	m, err := NewStereoMotion(48000)
	if err != nil {
		t.Fatalf("NewStereoMotion: %v", err)
	}
	if err := m.SetWidth(1); err != nil {
		t.Fatalf("SetWidth: %v", err)
	}
	if err := m.SetMotion(0); err != nil {
		t.Fatalf("SetMotion: %v", err)
	}

	left := make([]float64, 256)
	right := make([]float64, 256)
	wantL := make([]float64, 256)
	wantR := make([]float64, 256)
	for i := range left {
		left[i] = math.Sin(0.07 * float64(i))
		right[i] = math.Cos(0.11 * float64(i))
		wantL[i] = left[i]
		wantR[i] = right[i]
	}

	m.ProcessBlock([][]float64{left, right})

	for i := range left {
		if math.Abs(left[i]-wantL[i]) > 1e-12 || math.Abs(right[i]-wantR[i]) > 1e-12 {
			t.Fatalf("sample %d = %v, %v, want %v, %v (unity must be lossless)",
				i, left[i], right[i], wantL[i], wantR[i])
		}
	}
}

func TestStereoMotionZeroWidthCollapsesToMono(t *testing.T) {
	m, err := NewStereoMotion(48000)
	if err != nil {
		t.Fatalf("NewStereoMotion: %v", err)
	}
	if err := m.SetWidth(0); err != nil {
		t.Fatalf("SetWidth: %v", err)
	}
	if err := m.SetMotion(0); err != nil {
		t.Fatalf("SetMotion: %v", err)
	}

	left := make([]float64, 128)
	right := make([]float64, 128)
	for i := range left {
		left[i] = math.Sin(0.05 * float64(i))
		right[i] = -left[i]
	}

	m.ProcessBlock([][]float64{left, right})

	for i := range left {
		if math.Abs(left[i]-right[i]) > 1e-12 {
			t.Fatalf("sample %d: L=%v R=%v, want identical at zero width", i, left[i], right[i])
		}
	}
}

func TestStereoMotionPanOscillates(t *testing.T) {
	m, err := NewStereoMotion(48000)
	if err != nil {
		t.Fatalf("NewStereoMotion: %v", err)
	}
	if err := m.SetMotion(1); err != nil {
		t.Fatalf("SetMotion: %v", err)
	}
	if err := m.SetRate(4); err != nil {
		t.Fatalf("SetRate: %v", err)
	}

	// Mono-correlated input isolates the pan gain on both channels.
	left := make([]float64, 48000)
	right := make([]float64, 48000)
	for i := range left {
		left[i] = 0.5
		right[i] = 0.5
	}
	m.ProcessBlock([][]float64{left, right})

	minL, maxL := left[0], left[0]
	for _, v := range left {
		minL = math.Min(minL, v)
		maxL = math.Max(maxL, v)
	}
	if maxL-minL < 0.1 {
		t.Fatalf("left channel range = %v, want visible pan oscillation", maxL-minL)
	}
}
