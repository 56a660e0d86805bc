package modulation

import (
	"fmt"

	"github.com/cwbudde/algo-fxgraph/dsp/param"
)

// SourceSnapshot records one modulation source's serializable settings.
type SourceSnapshot struct {
	Kind    SourceKind
	Rate    float64
	Depth   float64
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// MatrixSnapshot is the modulation configuration record handed to a
// persistence collaborator. The on-disk format is the host's choice.
type MatrixSnapshot struct {
	Sources []SourceSnapshot
	Routes  []Route
}

// Snapshot captures the current sources and routes.
func (m *Matrix) Snapshot() MatrixSnapshot {
	st := m.state.Load()
	snap := MatrixSnapshot{}
	for _, src := range st.sources {
		attack, decay, sustain, release := src.ADSR()
		snap.Sources = append(snap.Sources, SourceSnapshot{
			Kind:    src.Kind(),
			Rate:    src.Rate(),
			Depth:   src.Depth(),
			Attack:  attack,
			Decay:   decay,
			Sustain: sustain,
			Release: release,
		})
	}
	snap.Routes = append(snap.Routes, st.routes...)
	return snap
}

// MatrixFromSnapshot rebuilds a matrix over the given store. Source
// indices in the saved routes stay valid because sources are restored
// in order.
func MatrixFromSnapshot(store *param.Store, sampleRate float64, snap MatrixSnapshot) (*Matrix, error) {
	m, err := NewMatrix(store, sampleRate)
	if err != nil {
		return nil, err
	}
	for i, ss := range snap.Sources {
		src, err := NewSource(ss.Kind)
		if err == nil {
			err = src.SetRate(ss.Rate)
		}
		if err == nil {
			err = src.SetDepth(ss.Depth)
		}
		if err == nil {
			err = src.SetADSR(ss.Attack, ss.Decay, ss.Sustain, ss.Release)
		}
		if err != nil {
			return nil, fmt.Errorf("matrix snapshot source %d: %w", i, err)
		}
		if _, err := m.AddSource(src); err != nil {
			return nil, fmt.Errorf("matrix snapshot source %d: %w", i, err)
		}
	}
	for _, r := range snap.Routes {
		if err := m.AddRoute(r); err != nil {
			return nil, fmt.Errorf("matrix snapshot route to %q: %w", r.ParamID, err)
		}
	}
	return m, nil
}

// MacroSlotSnapshot records one macro slot's name and mappings.
type MacroSlotSnapshot struct {
	Name     string
	Mappings []Mapping
}

// MacroSnapshot is the macro configuration record handed to a
// persistence collaborator. Macro values themselves live in the
// parameter store and persist with the other parameters.
type MacroSnapshot struct {
	Slots [NumMacros]MacroSlotSnapshot
}

// Snapshot captures every slot's name and mapping list.
func (e *MacroEngine) Snapshot() MacroSnapshot {
	var snap MacroSnapshot
	for i := 0; i < NumMacros; i++ {
		snap.Slots[i] = MacroSlotSnapshot{
			Name:     e.Name(i),
			Mappings: e.Mappings(i),
		}
	}
	return snap
}

// Restore replaces every slot's name and mappings with the snapshot's.
func (e *MacroEngine) Restore(snap MacroSnapshot) error {
	for i := 0; i < NumMacros; i++ {
		if err := e.SetName(i, snap.Slots[i].Name); err != nil {
			return err
		}
		if err := e.ClearMappings(i); err != nil {
			return err
		}
		for _, m := range snap.Slots[i].Mappings {
			if err := e.AddMapping(i, m); err != nil {
				return fmt.Errorf("macro snapshot slot %d: %w", i, err)
			}
		}
	}
	return nil
}
