package modulation

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-fxgraph/dsp/param"
)

// NumMacros is the number of macro control slots.
const NumMacros = 8

// macroEpsilon is the change threshold below which a macro value is
// considered unchanged and its mappings are skipped.
const macroEpsilon = 1e-6

// Mapping fans one macro out to one target parameter. Curve shapes the
// macro value before it is mapped into [RangeMin, RangeMax]; Bipolar
// treats 0.5 as the range midpoint and curves the deviation instead.
type Mapping struct {
	ParamID  string
	RangeMin float64
	RangeMax float64
	Curve    float64
	Bipolar  bool
}

type macroSlot struct {
	name     string
	mappings []Mapping
}

type macroState struct {
	slots [NumMacros]macroSlot
}

// MacroEngine applies eight macro controls to their mapped parameters
// once per block. Macro values themselves live in the parameter store
// under the given IDs so they can be modulated and persisted like any
// other parameter.
type MacroEngine struct {
	store    *param.Store
	macroIDs [NumMacros]string
	last     [NumMacros]float64

	mu    sync.Mutex
	state atomic.Pointer[macroState]
}

// NewMacroEngine creates a macro engine reading macro values from the
// given parameter IDs.
func NewMacroEngine(store *param.Store, macroIDs [NumMacros]string) (*MacroEngine, error) {
	if store == nil {
		return nil, fmt.Errorf("macro engine store must not be nil")
	}
	for i, id := range macroIDs {
		if store.Get(id) == nil {
			return nil, fmt.Errorf("macro engine slot %d reads unknown parameter %q", i, id)
		}
	}

	e := &MacroEngine{store: store, macroIDs: macroIDs}
	for i := range e.last {
		e.last[i] = -1 // outside [0, 1] so the first block always applies
	}
	e.state.Store(&macroState{})
	return e, nil
}

// SetName labels a macro slot.
func (e *MacroEngine) SetName(slot int, name string) error {
	if slot < 0 || slot >= NumMacros {
		return fmt.Errorf("macro slot must be in [0, %d]: %d", NumMacros-1, slot)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := *e.state.Load()
	next.slots[slot].name = name
	e.state.Store(&next)
	return nil
}

// Name returns a macro slot's label.
func (e *MacroEngine) Name(slot int) string {
	if slot < 0 || slot >= NumMacros {
		return ""
	}
	return e.state.Load().slots[slot].name
}

// Mappings returns a copy of a macro slot's mapping list.
func (e *MacroEngine) Mappings(slot int) []Mapping {
	if slot < 0 || slot >= NumMacros {
		return nil
	}
	st := e.state.Load()
	return append([]Mapping(nil), st.slots[slot].mappings...)
}

// AddMapping appends a parameter mapping to a macro slot.
func (e *MacroEngine) AddMapping(slot int, m Mapping) error {
	if slot < 0 || slot >= NumMacros {
		return fmt.Errorf("macro slot must be in [0, %d]: %d", NumMacros-1, slot)
	}
	if e.store.Get(m.ParamID) == nil {
		return fmt.Errorf("macro mapping targets unknown parameter %q", m.ParamID)
	}
	if m.Curve <= 0 || math.IsNaN(m.Curve) || math.IsInf(m.Curve, 0) {
		return fmt.Errorf("macro mapping curve must be positive: %f", m.Curve)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	old := e.state.Load()
	next := *old
	next.slots[slot].mappings = append(
		append([]Mapping(nil), old.slots[slot].mappings...), m)
	e.state.Store(&next)
	return nil
}

// ClearMappings removes every mapping from a macro slot.
func (e *MacroEngine) ClearMappings(slot int) error {
	if slot < 0 || slot >= NumMacros {
		return fmt.Errorf("macro slot must be in [0, %d]: %d", NumMacros-1, slot)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := *e.state.Load()
	next.slots[slot].mappings = nil
	e.state.Store(&next)
	return nil
}

// Process reads each macro value and, when it changed since the last
// block, applies every mapping of that slot to its target parameter.
func (e *MacroEngine) Process() {
	st := e.state.Load()
	for i := 0; i < NumMacros; i++ {
		p := e.store.Get(e.macroIDs[i])
		if p == nil {
			continue
		}
		value := p.Value()
		if math.Abs(value-e.last[i]) < macroEpsilon {
			continue
		}
		e.last[i] = value

		for _, m := range st.slots[i].mappings {
			target := e.store.Get(m.ParamID)
			if target == nil {
				continue
			}
			target.SetPlain(mapMacro(value, m))
		}
	}
}

func mapMacro(value float64, m Mapping) float64 {
	if m.Bipolar {
		dev := value*2 - 1
		curved := dev
		if m.Curve != 1 {
			curved = math.Pow(math.Abs(dev), m.Curve)
			if dev < 0 {
				curved = -curved
			}
		}
		mid := (m.RangeMin + m.RangeMax) * 0.5
		return mid + curved*(m.RangeMax-m.RangeMin)*0.5
	}

	curved := value
	if m.Curve != 1 {
		curved = math.Pow(value, m.Curve)
	}
	return m.RangeMin + curved*(m.RangeMax-m.RangeMin)
}
