package fxgraph

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cwbudde/algo-fxgraph/dsp/param"
)

// Unit type tags, stable for serialization.
const (
	TypeGravityFilter      = "gravity_filter"
	TypeSpectralWarpChorus = "spectral_warp_chorus"
	TypePitchSmearDelay    = "pitch_smear_delay"
	TypePortalReverb       = "portal_reverb"
	TypePlasmaDistortion   = "plasma_distortion"
	TypeStereoMotion       = "stereo_motion"
	TypeHarmonicInflator   = "harmonic_inflator"
	TypeTextureGenerator   = "texture_generator"
	TypeFreezeCapture      = "freeze_capture"
	TypeMutationEngine     = "mutation_engine"
)

// Factory builds a fresh unit of one type.
type Factory func() (Unit, error)

// Registry maps type tags to unit factories, used when rebuilding a
// graph from a snapshot.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a factory for a type tag. Duplicate tags are rejected.
func (r *Registry) Register(typeTag string, f Factory) error {
	if typeTag == "" {
		return fmt.Errorf("registry type tag must not be empty")
	}
	if f == nil {
		return fmt.Errorf("registry factory for %q must not be nil", typeTag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[typeTag]; ok {
		return fmt.Errorf("registry already has a factory for %q", typeTag)
	}
	r.factories[typeTag] = f
	return nil
}

// MustRegister is Register that panics on error, for static setup.
func (r *Registry) MustRegister(typeTag string, f Factory) {
	if err := r.Register(typeTag, f); err != nil {
		panic(err)
	}
}

// New builds a unit for the given type tag.
func (r *Registry) New(typeTag string) (Unit, error) {
	r.mu.RLock()
	f, ok := r.factories[typeTag]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry has no factory for %q", typeTag)
	}
	return f()
}

// Types returns every registered type tag, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// DefaultRegistry registers all ten node types over the given store.
func DefaultRegistry(store *param.Store) (*Registry, error) {
	if store == nil {
		return nil, fmt.Errorf("parameter store must not be nil")
	}

	r := NewRegistry()
	r.MustRegister(TypeGravityFilter, func() (Unit, error) { return NewFilterNode(store) })
	r.MustRegister(TypeSpectralWarpChorus, func() (Unit, error) { return NewChorusNode(store) })
	r.MustRegister(TypePitchSmearDelay, func() (Unit, error) { return NewDelayNode(store) })
	r.MustRegister(TypePortalReverb, func() (Unit, error) { return NewReverbNode(store) })
	r.MustRegister(TypePlasmaDistortion, func() (Unit, error) { return NewDistortionNode(store) })
	r.MustRegister(TypeStereoMotion, func() (Unit, error) { return NewMotionNode(store) })
	r.MustRegister(TypeHarmonicInflator, func() (Unit, error) { return NewInflatorNode(store) })
	r.MustRegister(TypeTextureGenerator, func() (Unit, error) { return NewTextureNode(store) })
	r.MustRegister(TypeFreezeCapture, func() (Unit, error) { return NewFreezeNode(store) })
	r.MustRegister(TypeMutationEngine, func() (Unit, error) { return NewMutationNode(store) })
	return r, nil
}
