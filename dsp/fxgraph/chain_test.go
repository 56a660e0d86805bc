package fxgraph

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fxgraph/dsp/param"
	"github.com/cwbudde/algo-fxgraph/dsp/signal"
)

func newChainGraph(t *testing.T) (*param.Store, *Graph) {
	t.Helper()
	store := param.NewStore()
	if err := RegisterDefaults(store); err != nil {
		t.Fatalf("RegisterDefaults: %v", err)
	}
	reg, err := DefaultRegistry(store)
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}
	g, err := DefaultGraph(reg)
	if err != nil {
		t.Fatalf("DefaultGraph: %v", err)
	}
	if err := g.Prepare(Spec{SampleRate: 48000, MaxBlockSize: 512, NumChannels: 2}); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	return store, g
}

func TestDefaultChainOrder(t *testing.T) {
	_, g := newChainGraph(t)

	order := g.Order()
	if len(order) != len(defaultChain) {
		t.Fatalf("order length = %d, want %d", len(order), len(defaultChain))
	}
	for i, id := range order {
		u := g.Node(id)
		if u == nil {
			t.Fatalf("order position %d has no unit", i)
		}
		if u.Type() != defaultChain[i] {
			t.Fatalf("order position %d = %s, want %s", i, u.Type(), defaultChain[i])
		}
	}
}

func TestDefaultChainSilentInputStaysSilent(t *testing.T) {
	_, g := newChainGraph(t)

	block := constBlock(2, 512, 0)
	for i := 0; i < 20; i++ {
		g.ProcessBlock(block)
		for ch := range block {
			for s, v := range block[ch] {
				if math.Abs(v) > 1e-12 {
					t.Fatalf("block %d ch %d sample %d = %v, want silence", i, ch, s, v)
				}
			}
		}
	}
}

func TestDefaultChainSignalStaysFinite(t *testing.T) {
	_, g := newChainGraph(t)

	tone, err := signal.Sine(48000, 440, 0.5, 200*512)
	if err != nil {
		t.Fatalf("signal.Sine: %v", err)
	}
	for i := 0; i < 200; i++ {
		block := make([][]float64, 2)
		for ch := range block {
			block[ch] = append([]float64(nil), tone[i*512:(i+1)*512]...)
		}
		g.ProcessBlock(block)
		for ch := range block {
			for s, v := range block[ch] {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("block %d ch %d sample %d is not finite: %v", i, ch, s, v)
				}
			}
		}
	}
}

func TestMutatorOnlyWritesAllowList(t *testing.T) {
	store, g := newChainGraph(t)

	// fastest mutation rate so many ticks happen
	store.Get(ParamMutationRate).SetPlain(8)
	store.Get(ParamMutationAmount).SetPlain(1)

	allowed := map[string]bool{}
	for _, id := range mutationTargets {
		allowed[id] = true
	}

	before := map[string]float64{}
	for _, p := range store.Snapshot() {
		before[p.ID] = p.Value()
	}

	block := constBlock(2, 512, 0)
	for i := 0; i < 2000; i++ {
		g.ProcessBlock(block)
	}

	changedAllowed := false
	for _, p := range store.Snapshot() {
		if p.Value() != before[p.ID] {
			if !allowed[p.ID] {
				t.Fatalf("mutator wrote parameter %q outside its allow-list", p.ID)
			}
			changedAllowed = true
		}
	}
	if !changedAllowed {
		t.Fatal("mutator never perturbed any allow-listed parameter")
	}
}

func TestMorphBlendsParameterState(t *testing.T) {
	storeA := param.NewStore()
	if err := RegisterDefaults(storeA); err != nil {
		t.Fatalf("RegisterDefaults: %v", err)
	}
	storeB := param.NewStore()
	if err := RegisterDefaults(storeB); err != nil {
		t.Fatalf("RegisterDefaults: %v", err)
	}

	regA, _ := DefaultRegistry(storeA)
	regB, _ := DefaultRegistry(storeB)
	ga, _ := DefaultGraph(regA)
	gb, _ := DefaultGraph(regB)

	storeA.Get(ParamReverbMix).SetValue(0)
	storeB.Get(ParamReverbMix).SetValue(1)

	ga.MorphTo(gb, 0.5)
	if got := storeA.Get(ParamReverbMix).Value(); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("morphed reverb mix = %f, want 0.5", got)
	}

	// t clamps
	ga.MorphTo(gb, 2)
	if got := storeA.Get(ParamReverbMix).Value(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("morphed reverb mix at t=2 = %f, want 1", got)
	}
}
