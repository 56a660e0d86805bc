package fxgraph

import (
	"testing"

	"github.com/cwbudde/algo-fxgraph/dsp/param"
)

func newChainRegistry(t *testing.T) *Registry {
	t.Helper()
	store := param.NewStore()
	if err := RegisterDefaults(store); err != nil {
		t.Fatalf("RegisterDefaults: %v", err)
	}
	reg, err := DefaultRegistry(store)
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}
	return reg
}

func TestSnapshotRoundTrip(t *testing.T) {
	reg := newChainRegistry(t)
	g, err := DefaultGraph(reg)
	if err != nil {
		t.Fatalf("DefaultGraph: %v", err)
	}
	g.Node(g.Order()[2]).SetEnabled(false)

	snap := g.Snapshot()
	if snap.Version != SnapshotVersion {
		t.Fatalf("snapshot version = %d, want %d", snap.Version, SnapshotVersion)
	}

	restored, err := FromSnapshot(reg, snap)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}

	wantOrder := g.Order()
	gotOrder := restored.Order()
	if len(gotOrder) != len(wantOrder) {
		t.Fatalf("restored order length = %d, want %d", len(gotOrder), len(wantOrder))
	}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("restored order = %v, want %v", gotOrder, wantOrder)
		}
		want := g.Node(wantOrder[i])
		got := restored.Node(gotOrder[i])
		if got.Type() != want.Type() {
			t.Fatalf("node %d type = %s, want %s", gotOrder[i], got.Type(), want.Type())
		}
		if got.Enabled() != want.Enabled() {
			t.Fatalf("node %d enabled = %v, want %v", gotOrder[i], got.Enabled(), want.Enabled())
		}
	}
	if got, want := len(restored.Connections()), len(g.Connections()); got != want {
		t.Fatalf("restored connection count = %d, want %d", got, want)
	}
}

func TestFromSnapshotRejectsBadInput(t *testing.T) {
	reg := newChainRegistry(t)

	if _, err := FromSnapshot(nil, GraphSnapshot{Version: 1}); err == nil {
		t.Fatal("expected error for nil registry")
	}
	if _, err := FromSnapshot(reg, GraphSnapshot{Version: 99}); err == nil {
		t.Fatal("expected error for unsupported version")
	}
	snap := GraphSnapshot{
		Version: 1,
		Nodes:   []NodeSnapshot{{ID: 0, Type: "no_such_unit", Enabled: true}},
	}
	if _, err := FromSnapshot(reg, snap); err == nil {
		t.Fatal("expected error for unknown type tag")
	}
	snap = GraphSnapshot{
		Version: 1,
		Nodes: []NodeSnapshot{
			{ID: 0, Type: TypePortalReverb, Enabled: true},
			{ID: 0, Type: TypeStereoMotion, Enabled: true},
		},
	}
	if _, err := FromSnapshot(reg, snap); err == nil {
		t.Fatal("expected error for duplicate node id")
	}
	snap = GraphSnapshot{
		Version:     1,
		Nodes:       []NodeSnapshot{{ID: 0, Type: TypePortalReverb, Enabled: true}},
		Connections: []Connection{{Source: 0, Dest: 7, Weight: 1}},
	}
	if _, err := FromSnapshot(reg, snap); err == nil {
		t.Fatal("expected error for dangling connection")
	}
}

func TestRegistryValidation(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("", func() (Unit, error) { return nil, nil }); err == nil {
		t.Fatal("expected error for empty type tag")
	}
	if err := r.Register("x", nil); err == nil {
		t.Fatal("expected error for nil factory")
	}
	if err := r.Register("x", func() (Unit, error) { return newGainUnit(1), nil }); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("x", func() (Unit, error) { return newGainUnit(1), nil }); err == nil {
		t.Fatal("expected error for duplicate type tag")
	}
	if _, err := r.New("missing"); err == nil {
		t.Fatal("expected error for unknown type tag")
	}
	if got := r.Types(); len(got) != 1 || got[0] != "x" {
		t.Fatalf("Types() = %v, want [x]", got)
	}
}
