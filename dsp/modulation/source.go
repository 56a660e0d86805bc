package modulation

import (
	"fmt"
	"math"
	"math/rand"
)

// SourceKind identifies the waveform or behavior of a modulation source.
type SourceKind int

const (
	// KindSine is a sine LFO.
	KindSine SourceKind = iota
	// KindTriangle is a triangle LFO.
	KindTriangle
	// KindSquare is a square LFO.
	KindSquare
	// KindRandom is a sample-and-hold LFO that draws a new uniform value
	// each time its phase wraps.
	KindRandom
	// KindEnvelope is a gate-driven attack/decay/sustain/release envelope.
	KindEnvelope
)

type envStage int

const (
	envIdle envStage = iota
	envAttack
	envDecay
	envSustain
	envRelease
)

const (
	defaultSourceRate  = 1.0
	defaultSourceDepth = 0.5

	minSourceRate = 0.001
	maxSourceRate = 50.0

	defaultEnvAttack  = 0.01
	defaultEnvDecay   = 0.1
	defaultEnvSustain = 0.7
	defaultEnvRelease = 0.3
)

// Source is one modulation generator. Its phase (or envelope stage) is
// advanced once per audio block by the owning Matrix.
type Source struct {
	kind  SourceKind
	rate  float64
	depth float64

	attack  float64
	decay   float64
	sustain float64
	release float64

	phase float64
	held  float64
	gate  bool
	stage envStage
	level float64

	rng *rand.Rand
}

// NewSource creates a modulation source of the given kind.
func NewSource(kind SourceKind) (*Source, error) {
	if kind < KindSine || kind > KindEnvelope {
		return nil, fmt.Errorf("modulation source kind must be in [0, 4]: %d", kind)
	}

	return &Source{
		kind:    kind,
		rate:    defaultSourceRate,
		depth:   defaultSourceDepth,
		attack:  defaultEnvAttack,
		decay:   defaultEnvDecay,
		sustain: defaultEnvSustain,
		release: defaultEnvRelease,
		rng:     rand.New(rand.NewSource(0x51f0a11d)),
	}, nil
}

// Kind returns the source kind.
func (s *Source) Kind() SourceKind { return s.kind }

// SetRate sets the LFO rate in Hz.
func (s *Source) SetRate(hz float64) error {
	if hz < minSourceRate || hz > maxSourceRate || math.IsNaN(hz) {
		return fmt.Errorf("modulation source rate must be in [%v, %v]: %f",
			minSourceRate, maxSourceRate, hz)
	}
	s.rate = hz
	return nil
}

// SetDepth sets the output scale in [0, 1].
func (s *Source) SetDepth(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("modulation source depth must be in [0, 1]: %f", v)
	}
	s.depth = v
	return nil
}

// Rate returns the LFO rate in Hz.
func (s *Source) Rate() float64 { return s.rate }

// Depth returns the output scale.
func (s *Source) Depth() float64 { return s.depth }

// SetADSR sets the envelope stage times in seconds and the sustain level.
func (s *Source) SetADSR(attack, decay, sustain, release float64) error {
	for _, v := range []float64{attack, decay, release} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("modulation envelope times must be >= 0: %f", v)
		}
	}
	if sustain < 0 || sustain > 1 || math.IsNaN(sustain) {
		return fmt.Errorf("modulation envelope sustain must be in [0, 1]: %f", sustain)
	}
	s.attack, s.decay, s.sustain, s.release = attack, decay, sustain, release
	return nil
}

// ADSR returns the envelope stage times and sustain level.
func (s *Source) ADSR() (attack, decay, sustain, release float64) {
	return s.attack, s.decay, s.sustain, s.release
}

// SetGate opens or closes the envelope gate. Opening restarts the attack
// stage from the current level; closing enters release.
func (s *Source) SetGate(open bool) {
	if s.kind != KindEnvelope {
		return
	}
	if open && !s.gate {
		s.stage = envAttack
	} else if !open && s.gate {
		s.stage = envRelease
	}
	s.gate = open
}

// Reset restarts the phase and envelope state.
func (s *Source) Reset() {
	s.phase = 0
	s.held = 0
	s.gate = false
	s.stage = envIdle
	s.level = 0
}

// advance moves the source forward by dt seconds and returns its value,
// scaled by depth. LFO kinds return values in [-depth, depth]; the
// envelope returns [0, depth].
func (s *Source) advance(dt float64) float64 {
	if s.kind == KindEnvelope {
		return s.advanceEnvelope(dt) * s.depth
	}

	s.phase += s.rate * dt
	wrapped := false
	for s.phase > 1 {
		s.phase -= 1
		wrapped = true
	}

	switch s.kind {
	case KindSine:
		return math.Sin(s.phase*2*math.Pi) * s.depth
	case KindTriangle:
		if s.phase < 0.5 {
			return (s.phase*4 - 1) * s.depth
		}
		return (3 - s.phase*4) * s.depth
	case KindSquare:
		if s.phase < 0.5 {
			return s.depth
		}
		return -s.depth
	case KindRandom:
		if wrapped {
			s.held = s.rng.Float64()*2 - 1
		}
		return s.held * s.depth
	}
	return 0
}

func (s *Source) advanceEnvelope(dt float64) float64 {
	switch s.stage {
	case envAttack:
		if s.attack <= 0 {
			s.level = 1
		} else {
			s.level += dt / s.attack
		}
		if s.level >= 1 {
			s.level = 1
			s.stage = envDecay
		}
	case envDecay:
		if s.decay <= 0 {
			s.level = s.sustain
		} else {
			s.level -= dt * (1 - s.sustain) / s.decay
		}
		if s.level <= s.sustain {
			s.level = s.sustain
			s.stage = envSustain
		}
	case envSustain:
		s.level = s.sustain
	case envRelease:
		if s.release <= 0 {
			s.level = 0
		} else {
			s.level -= dt * s.sustain / s.release
		}
		if s.level <= 0 {
			s.level = 0
			s.stage = envIdle
		}
	case envIdle:
		s.level = 0
	}
	return s.level
}
