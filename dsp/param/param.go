// Package param provides a lock-free parameter store shared between the
// control surface and the audio thread.
//
// Parameter values are held normalized in [0, 1] as atomic float bits so
// the audio thread can read them without locking. Plain-value accessors
// map through the parameter's declared range.
package param

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// Param is a single automatable value with a plain-unit range.
type Param struct {
	ID      string
	Name    string
	Min     float64
	Max     float64
	Default float64

	bits atomic.Uint64
}

// New creates a parameter with the given plain range and default.
func New(id, name string, min, max, def float64) (*Param, error) {
	if id == "" {
		return nil, fmt.Errorf("param id must not be empty")
	}
	if max <= min {
		return nil, fmt.Errorf("param %s range must satisfy min < max: [%f, %f]", id, min, max)
	}
	if def < min || def > max {
		return nil, fmt.Errorf("param %s default must be in [%f, %f]: %f", id, min, max, def)
	}

	p := &Param{ID: id, Name: name, Min: min, Max: max, Default: def}
	p.bits.Store(math.Float64bits(p.normalize(def)))
	return p, nil
}

// Value returns the normalized value in [0, 1].
func (p *Param) Value() float64 {
	return math.Float64frombits(p.bits.Load())
}

// SetValue stores a normalized value, clamped to [0, 1].
// Non-finite values are dropped.
func (p *Param) SetValue(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	p.bits.Store(math.Float64bits(v))
}

// Plain returns the value mapped to the parameter's plain range.
func (p *Param) Plain() float64 {
	return p.Min + p.Value()*(p.Max-p.Min)
}

// SetPlain stores a plain-unit value, clamped to the parameter's range.
func (p *Param) SetPlain(v float64) {
	p.SetValue(p.normalize(v))
}

// ResetToDefault restores the default value.
func (p *Param) ResetToDefault() {
	p.SetPlain(p.Default)
}

func (p *Param) normalize(plain float64) float64 {
	return (plain - p.Min) / (p.Max - p.Min)
}

// Store is a registry of parameters keyed by ID.
// Registration happens once at setup; lookups afterwards are read-only.
type Store struct {
	mu     sync.RWMutex
	params map[string]*Param
	order  []*Param
}

// NewStore creates an empty parameter store.
func NewStore() *Store {
	return &Store{params: make(map[string]*Param)}
}

// Add registers a parameter. Duplicate IDs are rejected.
func (s *Store) Add(p *Param) error {
	if p == nil {
		return fmt.Errorf("param must not be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.params[p.ID]; ok {
		return fmt.Errorf("param %s already registered", p.ID)
	}
	s.params[p.ID] = p
	s.order = append(s.order, p)
	return nil
}

// Get returns the parameter with the given ID, or nil if absent.
func (s *Store) Get(id string) *Param {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params[id]
}

// Snapshot returns all parameters in registration order.
func (s *Store) Snapshot() []*Param {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Param, len(s.order))
	copy(out, s.order)
	return out
}
