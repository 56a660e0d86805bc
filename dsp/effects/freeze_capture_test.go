package effects

import (
	"math"
	"testing"
)

func TestFreezeCaptureSetterValidation(t *testing.T) {
	f, err := NewFreezeCapture(48000)
	if err != nil {
		t.Fatalf("NewFreezeCapture: %v", err)
	}
	if err := f.SetSize(0); err == nil {
		t.Fatal("expected error for size below range")
	}
	if err := f.SetSize(5); err == nil {
		t.Fatal("expected error for size above range")
	}
	if err := f.SetPitch(25); err == nil {
		t.Fatal("expected error for pitch above range")
	}
	if err := f.SetMix(1.1); err == nil {
		t.Fatal("expected error for mix above range")
	}
}

func TestFreezeCapturePassThroughWhileCapturing(t *testing.T) {
	f, err := NewFreezeCapture(48000)
	if err != nil {
		t.Fatalf("NewFreezeCapture: %v", err)
	}

	buf := make([]float64, 256)
	want := make([]float64, 256)
	for i := range buf {
		buf[i] = math.Sin(0.2 * float64(i))
		want[i] = buf[i]
	}
	f.ProcessBlock([][]float64{buf})

	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("sample %d = %v, want %v (capture mode is transparent)", i, buf[i], want[i])
		}
	}
}

func TestFreezeCaptureLoopsCapturedAudio(t *testing.T) {
	const sampleRate = 48000.0
	f, err := NewFreezeCapture(sampleRate)
	if err != nil {
		t.Fatalf("NewFreezeCapture: %v", err)
	}
	if err := f.SetSize(0.01); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	if err := f.SetPitch(0); err != nil {
		t.Fatalf("SetPitch: %v", err)
	}
	if err := f.SetMix(1); err != nil {
		t.Fatalf("SetMix: %v", err)
	}

	// Capture a constant so the frozen loop is trivially checkable.
	capture := make([]float64, int(0.02*sampleRate))
	for i := range capture {
		capture[i] = 0.25
	}
	f.ProcessBlock([][]float64{capture})

	f.SetFrozen(true)
	out := make([]float64, 512)
	f.ProcessBlock([][]float64{out})

	for i, v := range out {
		if math.Abs(v-0.25) > 1e-12 {
			t.Fatalf("frozen sample %d = %v, want 0.25", i, v)
		}
	}
}

func TestFreezeCaptureNeverReadsBeyondCapturedLength(t *testing.T) {
	const sampleRate = 48000.0
	f, err := NewFreezeCapture(sampleRate)
	if err != nil {
		t.Fatalf("NewFreezeCapture: %v", err)
	}
	if err := f.SetSize(0.05); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	if err := f.SetMix(1); err != nil {
		t.Fatalf("SetMix: %v", err)
	}

	// Poison everything beyond the selected capture length. Any read past
	// the boundary shows up as NaN in the output.
	captureLen := int(0.05 * sampleRate)
	for ch := range f.captureBuf {
		for i := captureLen; i < len(f.captureBuf[ch]); i++ {
			f.captureBuf[ch][i] = math.NaN()
		}
	}

	f.SetFrozen(true)
	for _, pitch := range []float64{-24, -7, 0, 12, 24} {
		if err := f.SetPitch(pitch); err != nil {
			t.Fatalf("SetPitch(%v): %v", pitch, err)
		}
		out := [][]float64{make([]float64, 4096), make([]float64, 4096)}
		f.ProcessBlock(out)
		for ch := range out {
			for i, v := range out[ch] {
				if math.IsNaN(v) {
					t.Fatalf("pitch %v ch %d sample %d is NaN, read past captured length", pitch, ch, i)
				}
			}
		}
	}
}

func TestFreezeCaptureWriteCursorSurvivesToggle(t *testing.T) {
	f, err := NewFreezeCapture(48000)
	if err != nil {
		t.Fatalf("NewFreezeCapture: %v", err)
	}

	first := make([]float64, 100)
	for i := range first {
		first[i] = 1
	}
	f.ProcessBlock([][]float64{first})

	f.SetFrozen(true)
	frozen := make([]float64, 64)
	f.ProcessBlock([][]float64{frozen})
	f.SetFrozen(false)

	second := make([]float64, 100)
	for i := range second {
		second[i] = 2
	}
	f.ProcessBlock([][]float64{second})

	// Capture must have resumed exactly where it stopped.
	for i := 0; i < 100; i++ {
		if f.captureBuf[0][i] != 1 {
			t.Fatalf("captureBuf[%d] = %v, want 1", i, f.captureBuf[0][i])
		}
		if f.captureBuf[0][100+i] != 2 {
			t.Fatalf("captureBuf[%d] = %v, want 2", 100+i, f.captureBuf[0][100+i])
		}
	}
}
