package modulation

import (
	"math"
	"testing"
)

func TestNewSourceRejectsBadKind(t *testing.T) {
	if _, err := NewSource(SourceKind(-1)); err == nil {
		t.Fatal("expected error for negative kind")
	}
	if _, err := NewSource(SourceKind(99)); err == nil {
		t.Fatal("expected error for out-of-range kind")
	}
}

func TestSourceValidation(t *testing.T) {
	s, err := NewSource(KindSine)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	if err := s.SetRate(0); err == nil {
		t.Fatal("expected error for zero rate")
	}
	if err := s.SetDepth(1.5); err == nil {
		t.Fatal("expected error for depth > 1")
	}
	if err := s.SetADSR(-1, 0.1, 0.5, 0.1); err == nil {
		t.Fatal("expected error for negative attack")
	}
	if err := s.SetADSR(0.1, 0.1, 2, 0.1); err == nil {
		t.Fatal("expected error for sustain > 1")
	}
}

func TestSineSourceQuarterPhase(t *testing.T) {
	s, _ := NewSource(KindSine)
	if err := s.SetRate(1); err != nil {
		t.Fatalf("SetRate: %v", err)
	}
	if err := s.SetDepth(1); err != nil {
		t.Fatalf("SetDepth: %v", err)
	}

	// advance to phase 0.25 in one step
	got := s.advance(0.25)
	if math.Abs(got-1) > 1e-12 {
		t.Fatalf("sine at quarter phase = %f, want 1", got)
	}
}

func TestTriangleSourceShape(t *testing.T) {
	s, _ := NewSource(KindTriangle)
	s.SetRate(1)
	s.SetDepth(1)

	if got := s.advance(0.25); math.Abs(got-0) > 1e-12 {
		t.Fatalf("triangle at 0.25 = %f, want 0", got)
	}
	if got := s.advance(0.25); math.Abs(got-1) > 1e-12 {
		t.Fatalf("triangle at 0.5 = %f, want 1", got)
	}
	if got := s.advance(0.25); math.Abs(got-0) > 1e-12 {
		t.Fatalf("triangle at 0.75 = %f, want 0", got)
	}
}

func TestSquareSourceFlips(t *testing.T) {
	s, _ := NewSource(KindSquare)
	s.SetRate(1)
	s.SetDepth(1)

	if got := s.advance(0.1); got != 1 {
		t.Fatalf("square in first half = %f, want 1", got)
	}
	if got := s.advance(0.5); got != -1 {
		t.Fatalf("square in second half = %f, want -1", got)
	}
}

func TestRandomSourceHoldsBetweenWraps(t *testing.T) {
	s, _ := NewSource(KindRandom)
	s.SetRate(1)
	s.SetDepth(1)

	// within one period the held value must not change
	a := s.advance(0.2)
	b := s.advance(0.2)
	if a != b {
		t.Fatalf("sample-and-hold changed mid-period: %f vs %f", a, b)
	}

	// crossing the wrap draws a new value eventually
	changed := false
	prev := b
	for i := 0; i < 20; i++ {
		v := s.advance(1.1)
		if v != prev {
			changed = true
			break
		}
		prev = v
	}
	if !changed {
		t.Fatal("sample-and-hold never redrew across wraps")
	}

	if math.Abs(a) > 1 {
		t.Fatalf("sample-and-hold value out of range: %f", a)
	}
}

func TestEnvelopeStages(t *testing.T) {
	s, _ := NewSource(KindEnvelope)
	s.SetDepth(1)
	if err := s.SetADSR(0.1, 0.1, 0.5, 0.1); err != nil {
		t.Fatalf("SetADSR: %v", err)
	}

	// idle before the gate opens
	if got := s.advance(0.01); got != 0 {
		t.Fatalf("idle envelope = %f, want 0", got)
	}

	s.SetGate(true)

	// attack should climb toward 1
	v1 := s.advance(0.05)
	v2 := s.advance(0.04)
	if !(v2 > v1 && v1 > 0) {
		t.Fatalf("attack not rising: %f then %f", v1, v2)
	}

	// run well past attack+decay, should settle at sustain
	for i := 0; i < 100; i++ {
		s.advance(0.01)
	}
	if got := s.advance(0.01); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("sustain level = %f, want 0.5", got)
	}

	s.SetGate(false)
	for i := 0; i < 200; i++ {
		s.advance(0.01)
	}
	if got := s.advance(0.01); got != 0 {
		t.Fatalf("released envelope = %f, want 0", got)
	}
}

func TestSourceReset(t *testing.T) {
	s, _ := NewSource(KindSine)
	s.SetRate(1)
	s.SetDepth(1)
	s.advance(0.3)
	s.Reset()
	if s.phase != 0 {
		t.Fatalf("phase after reset = %f, want 0", s.phase)
	}
}
