package fxgraph

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
)

// Connection is a weighted directed edge between two nodes.
type Connection struct {
	Source        int
	SourceChannel int
	Dest          int
	DestChannel   int
	Weight        float64
}

type node struct {
	id   int
	unit Unit

	// audio-thread only
	buf  [][]float64
	view [][]float64
}

type edge struct {
	src    *node
	weight float64
}

// graphState is an immutable topology snapshot. Edits build a new one
// under the graph mutex; ProcessBlock loads the current one without
// taking the lock.
type graphState struct {
	nodes map[int]*node
	conns []Connection

	order    []*node
	incoming [][]edge // parallel to order
}

// Graph owns the unit set and connection set and drives per-block
// processing in topological order.
type Graph struct {
	mu    sync.Mutex
	state atomic.Pointer[graphState]

	nextID   int
	spec     Spec
	prepared bool

	scratch []float64
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	g := &Graph{}
	g.state.Store(&graphState{nodes: map[int]*node{}})
	return g
}

// AddNode inserts a unit and returns its assigned id. If the graph is
// already prepared the unit is prepared immediately.
func (g *Graph) AddNode(u Unit) (int, error) {
	if u == nil {
		return 0, fmt.Errorf("graph node unit must not be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	n := &node{id: g.nextID, unit: u}
	if g.prepared {
		if err := u.Prepare(g.spec); err != nil {
			return 0, fmt.Errorf("prepare node %d (%s): %w", n.id, u.Type(), err)
		}
		g.allocNode(n)
	}

	old := g.state.Load()
	nodes := copyNodes(old.nodes)
	nodes[n.id] = n

	next, err := buildState(nodes, old.conns)
	if err != nil {
		// a new node has no edges, so this cannot happen
		return 0, err
	}
	g.state.Store(next)
	g.nextID++
	return n.id, nil
}

// RemoveNode drops a unit and every connection touching it.
func (g *Graph) RemoveNode(id int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	old := g.state.Load()
	if _, ok := old.nodes[id]; !ok {
		return fmt.Errorf("graph has no node %d", id)
	}

	nodes := copyNodes(old.nodes)
	delete(nodes, id)
	conns := make([]Connection, 0, len(old.conns))
	for _, c := range old.conns {
		if c.Source == id || c.Dest == id {
			continue
		}
		conns = append(conns, c)
	}

	next, err := buildState(nodes, conns)
	if err != nil {
		return err
	}
	g.state.Store(next)
	return nil
}

// AddConnection appends an edge. Edits that reference missing nodes,
// carry a non-finite weight, or would introduce a cycle are rejected
// and the graph keeps its last valid topology.
func (g *Graph) AddConnection(c Connection) error {
	if math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) {
		return fmt.Errorf("graph connection weight must be finite: %f", c.Weight)
	}
	if c.Source == c.Dest {
		return fmt.Errorf("graph connection must not be a self-loop: node %d", c.Source)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	old := g.state.Load()
	if _, ok := old.nodes[c.Source]; !ok {
		return fmt.Errorf("graph connection source %d does not exist", c.Source)
	}
	if _, ok := old.nodes[c.Dest]; !ok {
		return fmt.Errorf("graph connection destination %d does not exist", c.Dest)
	}

	conns := append(append([]Connection(nil), old.conns...), c)
	next, err := buildState(old.nodes, conns)
	if err != nil {
		return err
	}
	g.state.Store(next)
	return nil
}

// RemoveConnection drops every edge from src to dst.
func (g *Graph) RemoveConnection(src, dst int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	old := g.state.Load()
	conns := make([]Connection, 0, len(old.conns))
	removed := false
	for _, c := range old.conns {
		if c.Source == src && c.Dest == dst {
			removed = true
			continue
		}
		conns = append(conns, c)
	}
	if !removed {
		return fmt.Errorf("graph has no connection %d -> %d", src, dst)
	}

	next, err := buildState(old.nodes, conns)
	if err != nil {
		return err
	}
	g.state.Store(next)
	return nil
}

// Prepare propagates the spec to every unit and allocates per-node
// scratch buffers. Must be called before ProcessBlock.
func (g *Graph) Prepare(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.spec = spec
	st := g.state.Load()
	for _, n := range st.order {
		if err := n.unit.Prepare(spec); err != nil {
			return fmt.Errorf("prepare node %d (%s): %w", n.id, n.unit.Type(), err)
		}
		g.allocNode(n)
	}
	g.scratch = core.EnsureLen(g.scratch, spec.MaxBlockSize)
	g.prepared = true
	return nil
}

func (g *Graph) allocNode(n *node) {
	n.buf = core.EnsureBlock(n.buf, g.spec.NumChannels, g.spec.MaxBlockSize)
	n.view = make([][]float64, g.spec.NumChannels)
}

// Reset clears every unit's history without reallocating.
func (g *Graph) Reset() {
	st := g.state.Load()
	for _, n := range st.order {
		n.unit.Reset()
	}
}

// Node returns the unit with the given id, or nil.
func (g *Graph) Node(id int) Unit {
	if n, ok := g.state.Load().nodes[id]; ok {
		return n.unit
	}
	return nil
}

// NodeIDs returns every node id in ascending order.
func (g *Graph) NodeIDs() []int {
	st := g.state.Load()
	ids := make([]int, 0, len(st.nodes))
	for id := range st.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Connections returns a copy of the edge list.
func (g *Graph) Connections() []Connection {
	st := g.state.Load()
	return append([]Connection(nil), st.conns...)
}

// Order returns the node ids in execution order.
func (g *Graph) Order() []int {
	st := g.state.Load()
	ids := make([]int, len(st.order))
	for i, n := range st.order {
		ids[i] = n.id
	}
	return ids
}

// ProcessBlock walks the graph in topological order, mutating the block
// in place. The external input feeds the first node in order; the last
// node's buffer becomes the output. Disabled nodes contribute silence.
func (g *Graph) ProcessBlock(block [][]float64) {
	st := g.state.Load()
	if !g.prepared || len(st.order) == 0 || len(block) == 0 {
		return
	}

	channels := len(block)
	if channels > g.spec.NumChannels {
		channels = g.spec.NumChannels
	}
	samples := len(block[0])
	if samples > g.spec.MaxBlockSize {
		samples = g.spec.MaxBlockSize
	}

	for _, n := range st.order {
		for ch := 0; ch < channels; ch++ {
			core.Zero(n.buf[ch][:samples])
		}
	}

	entry := st.order[0]
	if entry.unit.Enabled() {
		for ch := 0; ch < channels; ch++ {
			copy(entry.buf[ch][:samples], block[ch][:samples])
		}
	}

	scratch := g.scratch[:samples]
	for i, n := range st.order {
		if !n.unit.Enabled() {
			continue
		}
		for _, e := range st.incoming[i] {
			for ch := 0; ch < channels; ch++ {
				dst := n.buf[ch][:samples]
				src := e.src.buf[ch][:samples]
				if e.weight == 1 {
					vecmath.AddBlockInPlace(dst, src)
					continue
				}
				vecmath.ScaleBlock(scratch, src, e.weight)
				vecmath.AddBlockInPlace(dst, scratch)
			}
		}
		for ch := 0; ch < channels; ch++ {
			n.view[ch] = n.buf[ch][:samples]
		}
		n.unit.ProcessBlock(n.view[:channels])
	}

	last := st.order[len(st.order)-1]
	for ch := 0; ch < channels; ch++ {
		copy(block[ch][:samples], last.buf[ch][:samples])
	}
}

// MorphTo blends this graph's unit state toward the target graph's for
// every id present in both graphs. Units of a different type or without
// morph support are skipped. t is clamped to [0, 1].
func (g *Graph) MorphTo(target *Graph, t float64) {
	if target == nil {
		return
	}
	t = core.Clamp01(t)

	st := g.state.Load()
	tst := target.state.Load()
	for id, n := range st.nodes {
		tn, ok := tst.nodes[id]
		if !ok || tn.unit.Type() != n.unit.Type() {
			continue
		}
		if m, ok := n.unit.(Morpher); ok {
			m.MorphFrom(tn.unit, t)
		}
	}
}

func copyNodes(src map[int]*node) map[int]*node {
	dst := make(map[int]*node, len(src)+1)
	for id, n := range src {
		dst[id] = n
	}
	return dst
}

// buildState runs Kahn's algorithm over the tentative topology. Nodes
// are consumed in ascending id order so the execution order is
// deterministic regardless of insertion order. Returns an error when a
// cycle prevents a complete ordering.
func buildState(nodes map[int]*node, conns []Connection) (*graphState, error) {
	ids := make([]int, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	inDegree := make(map[int]int, len(nodes))
	for _, id := range ids {
		inDegree[id] = 0
	}
	for _, c := range conns {
		inDegree[c.Dest]++
	}

	order := make([]*node, 0, len(nodes))
	emitted := make(map[int]bool, len(nodes))
	for len(order) < len(nodes) {
		progressed := false
		for _, id := range ids {
			if emitted[id] || inDegree[id] != 0 {
				continue
			}
			emitted[id] = true
			order = append(order, nodes[id])
			for _, c := range conns {
				if c.Source == id {
					inDegree[c.Dest]--
				}
			}
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("graph topology contains a cycle")
		}
	}

	incoming := make([][]edge, len(order))
	pos := make(map[int]int, len(order))
	for i, n := range order {
		pos[n.id] = i
	}
	for _, c := range conns {
		i := pos[c.Dest]
		incoming[i] = append(incoming[i], edge{src: nodes[c.Source], weight: c.Weight})
	}

	return &graphState{
		nodes:    nodes,
		conns:    conns,
		order:    order,
		incoming: incoming,
	}, nil
}
