package fxgraph

import "fmt"

// defaultChain is the serial signal path the processor starts with.
var defaultChain = []string{
	TypeGravityFilter,
	TypeSpectralWarpChorus,
	TypePitchSmearDelay,
	TypePortalReverb,
	TypePlasmaDistortion,
	TypeStereoMotion,
	TypeHarmonicInflator,
	TypeTextureGenerator,
	TypeFreezeCapture,
	TypeMutationEngine,
}

// DefaultGraph builds the default serial chain with unit weights:
// filter, chorus, delay, reverb, distortion, motion, inflator, texture,
// freeze, mutator.
func DefaultGraph(reg *Registry) (*Graph, error) {
	if reg == nil {
		return nil, fmt.Errorf("default graph registry must not be nil")
	}

	g := NewGraph()
	prev := -1
	for _, tag := range defaultChain {
		u, err := reg.New(tag)
		if err != nil {
			return nil, err
		}
		id, err := g.AddNode(u)
		if err != nil {
			return nil, err
		}
		if prev >= 0 {
			if err := g.AddConnection(Connection{Source: prev, Dest: id, Weight: 1}); err != nil {
				return nil, err
			}
		}
		prev = id
	}
	return g, nil
}
