package modulation

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-fxgraph/dsp/param"
)

// routeScale keeps per-block modulation writes small relative to the
// normalized parameter range so routed motion stays smooth.
const routeScale = 0.01

// Route connects one modulation source to one target parameter.
type Route struct {
	SourceIndex int
	ParamID     string
	Amount      float64
	Bipolar     bool
}

type matrixState struct {
	sources []*Source
	routes  []Route

	// scratch for per-block source values, sized at edit time so the
	// audio thread never allocates
	values []float64
}

// Matrix owns a list of modulation sources and the routes that apply
// them to parameters. Edits rebuild a snapshot under a short lock;
// Process reads the snapshot without taking the lock.
type Matrix struct {
	store *param.Store
	rate  float64

	mu    sync.Mutex
	state atomic.Pointer[matrixState]
}

// NewMatrix creates an empty modulation matrix writing to the given store.
func NewMatrix(store *param.Store, sampleRate float64) (*Matrix, error) {
	if store == nil {
		return nil, fmt.Errorf("modulation matrix store must not be nil")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("modulation matrix sample rate must be positive: %f", sampleRate)
	}

	m := &Matrix{store: store, rate: sampleRate}
	m.state.Store(&matrixState{})
	return m, nil
}

// AddSource appends a source and returns its index.
func (m *Matrix) AddSource(src *Source) (int, error) {
	if src == nil {
		return 0, fmt.Errorf("modulation matrix source must not be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	old := m.state.Load()
	sources := append(append([]*Source(nil), old.sources...), src)
	next := &matrixState{
		sources: sources,
		routes:  old.routes,
		values:  make([]float64, len(sources)),
	}
	m.state.Store(next)
	return len(next.sources) - 1, nil
}

// AddRoute appends a route. Amount is clamped to [-1, 1] by validation.
func (m *Matrix) AddRoute(r Route) error {
	if r.Amount < -1 || r.Amount > 1 {
		return fmt.Errorf("modulation route amount must be in [-1, 1]: %f", r.Amount)
	}
	if m.store.Get(r.ParamID) == nil {
		return fmt.Errorf("modulation route targets unknown parameter %q", r.ParamID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	old := m.state.Load()
	if r.SourceIndex < 0 || r.SourceIndex >= len(old.sources) {
		return fmt.Errorf("modulation route source index out of range: %d", r.SourceIndex)
	}
	next := &matrixState{
		sources: old.sources,
		routes:  append(append([]Route(nil), old.routes...), r),
		values:  old.values,
	}
	m.state.Store(next)
	return nil
}

// Routes returns a copy of the current route list.
func (m *Matrix) Routes() []Route {
	st := m.state.Load()
	return append([]Route(nil), st.routes...)
}

// NumSources returns the number of registered sources.
func (m *Matrix) NumSources() int { return len(m.state.Load().sources) }

// ClearAll removes every source and route.
func (m *Matrix) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Store(&matrixState{})
}

// Reset restarts every source without removing routes.
func (m *Matrix) Reset() {
	st := m.state.Load()
	for _, src := range st.sources {
		src.Reset()
	}
}

// Process advances every source by the block duration and applies each
// route to its target parameter. Unipolar routes shift the source value
// into [0, depth] before scaling.
func (m *Matrix) Process(numSamples int) {
	if numSamples <= 0 {
		return
	}

	st := m.state.Load()
	if len(st.sources) == 0 || len(st.routes) == 0 {
		for _, src := range st.sources {
			src.advance(float64(numSamples) / m.rate)
		}
		return
	}

	dt := float64(numSamples) / m.rate
	values := st.values[:len(st.sources)]
	for i, src := range st.sources {
		values[i] = src.advance(dt)
	}

	for _, r := range st.routes {
		p := m.store.Get(r.ParamID)
		if p == nil {
			continue
		}
		v := values[r.SourceIndex]
		if !r.Bipolar {
			v = (v + st.sources[r.SourceIndex].depth) * 0.5
		}
		p.SetValue(p.Value() + v*r.Amount*routeScale)
	}
}
