package fxgraph

import "fmt"

// SnapshotVersion is the current snapshot layout version.
const SnapshotVersion = 1

// NodeSnapshot records one node's serializable identity.
type NodeSnapshot struct {
	ID      int
	Type    string
	Enabled bool
}

// GraphSnapshot is the opaque topology record handed to a persistence
// collaborator. The on-disk format is the host's choice.
type GraphSnapshot struct {
	Version     int
	Nodes       []NodeSnapshot
	Connections []Connection
}

// Snapshot captures the current topology.
func (g *Graph) Snapshot() GraphSnapshot {
	st := g.state.Load()
	snap := GraphSnapshot{Version: SnapshotVersion}
	for _, id := range g.NodeIDs() {
		n := st.nodes[id]
		snap.Nodes = append(snap.Nodes, NodeSnapshot{
			ID:      n.id,
			Type:    n.unit.Type(),
			Enabled: n.unit.Enabled(),
		})
	}
	snap.Connections = append(snap.Connections, st.conns...)
	return snap
}

// FromSnapshot rebuilds a graph from a snapshot, constructing units by
// type tag through the registry. Node ids are preserved so saved
// connections stay valid.
func FromSnapshot(reg *Registry, snap GraphSnapshot) (*Graph, error) {
	if reg == nil {
		return nil, fmt.Errorf("snapshot registry must not be nil")
	}
	if snap.Version <= 0 || snap.Version > SnapshotVersion {
		return nil, fmt.Errorf("unsupported graph snapshot version %d", snap.Version)
	}

	g := NewGraph()
	for _, ns := range snap.Nodes {
		if ns.ID < 0 {
			return nil, fmt.Errorf("snapshot node id must not be negative: %d", ns.ID)
		}
		u, err := reg.New(ns.Type)
		if err != nil {
			return nil, fmt.Errorf("snapshot node %d: %w", ns.ID, err)
		}
		u.SetEnabled(ns.Enabled)
		if err := g.addNodeWithID(ns.ID, u); err != nil {
			return nil, err
		}
	}
	for _, c := range snap.Connections {
		if err := g.AddConnection(c); err != nil {
			return nil, fmt.Errorf("snapshot connection %d -> %d: %w", c.Source, c.Dest, err)
		}
	}
	return g, nil
}

// addNodeWithID inserts a unit under a fixed id, used when restoring a
// snapshot.
func (g *Graph) addNodeWithID(id int, u Unit) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	old := g.state.Load()
	if _, ok := old.nodes[id]; ok {
		return fmt.Errorf("snapshot node id %d is duplicated", id)
	}

	nodes := copyNodes(old.nodes)
	nodes[id] = &node{id: id, unit: u}
	next, err := buildState(nodes, old.conns)
	if err != nil {
		return err
	}
	g.state.Store(next)
	if id >= g.nextID {
		g.nextID = id + 1
	}
	return nil
}
