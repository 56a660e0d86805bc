package fxgraph

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
	"github.com/cwbudde/algo-fxgraph/dsp/effects"
	"github.com/cwbudde/algo-fxgraph/dsp/param"
)

// MasterStage is the output section around the graph: it captures the
// dry input, runs the block through the graph, pulls the level back
// with an auto gain stager, blends dry and wet linearly per master_mix,
// and applies master_gain.
type MasterStage struct {
	gain, mix *param.Param

	stager *effects.GainStager
	dry    [][]float64
	spec   Spec
}

// NewMasterStage builds the master section over the given store.
func NewMasterStage(store *param.Store) (*MasterStage, error) {
	params, err := lookup(store, ParamMasterGain, ParamMasterMix)
	if err != nil {
		return nil, err
	}
	return &MasterStage{gain: params[0], mix: params[1]}, nil
}

// Prepare allocates the dry buffer and the gain stager.
func (m *MasterStage) Prepare(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	stager, err := effects.NewGainStager(spec.SampleRate)
	if err != nil {
		return err
	}
	m.stager = stager
	m.spec = spec
	m.dry = core.EnsureBlock(m.dry, spec.NumChannels, spec.MaxBlockSize)
	return nil
}

// Reset clears the gain stager history.
func (m *MasterStage) Reset() {
	if m.stager != nil {
		m.stager.Reset()
	}
}

// StagerGain returns the correction gain applied to the last block.
func (m *MasterStage) StagerGain() float64 {
	if m.stager == nil {
		return 1
	}
	return m.stager.Gain()
}

// Process runs one block through the graph and the master section,
// mutating the block in place.
func (m *MasterStage) Process(g *Graph, block [][]float64) {
	if m.stager == nil || g == nil || len(block) == 0 {
		return
	}

	channels := len(block)
	if channels > m.spec.NumChannels {
		channels = m.spec.NumChannels
	}
	samples := len(block[0])
	if samples > m.spec.MaxBlockSize {
		samples = m.spec.MaxBlockSize
	}

	for ch := 0; ch < channels; ch++ {
		copy(m.dry[ch][:samples], block[ch][:samples])
	}

	g.ProcessBlock(block)
	m.stager.ProcessBlock(block)

	// Linear master blend, then output gain.
	mix := m.mix.Plain()
	gain := m.gain.Plain()
	for ch := 0; ch < channels; ch++ {
		wet := block[ch][:samples]
		dry := m.dry[ch][:samples]
		for i := range wet {
			wet[i] = wet[i]*mix + dry[i]*(1-mix)
		}
		vecmath.ScaleBlockInPlace(wet, gain)
	}
}
