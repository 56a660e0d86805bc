package fxgraph

import (
	"fmt"
	"math"
)

// Spec describes the processing configuration handed to every unit
// before audio starts.
type Spec struct {
	SampleRate   float64
	MaxBlockSize int
	NumChannels  int
}

// Validate reports the first invalid field.
func (s Spec) Validate() error {
	if s.SampleRate <= 0 || math.IsNaN(s.SampleRate) || math.IsInf(s.SampleRate, 0) {
		return fmt.Errorf("spec sample rate must be positive: %f", s.SampleRate)
	}
	if s.MaxBlockSize <= 0 {
		return fmt.Errorf("spec max block size must be positive: %d", s.MaxBlockSize)
	}
	if s.NumChannels <= 0 {
		return fmt.Errorf("spec channel count must be positive: %d", s.NumChannels)
	}
	return nil
}
