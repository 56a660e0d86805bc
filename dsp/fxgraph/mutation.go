package fxgraph

import (
	"math/rand"

	"github.com/cwbudde/algo-fxgraph/dsp/param"
)

// mutationTargets is the fixed allow-list of parameters the mutator may
// perturb. Everything else is off limits.
var mutationTargets = []string{
	ParamReverbDrift,
	ParamReverbShimmer,
	ParamChorusDepth,
	ParamChorusWarp,
	ParamDelaySmear,
	ParamMotionAmt,
	ParamFilterCurve,
}

const (
	// mutationGate is the per-tick probability that a target is touched.
	mutationGate = 0.4
	// mutationDeltaScale bounds a single perturbation relative to the
	// amount parameter.
	mutationDeltaScale = 0.15
)

// MutationNode periodically nudges a fixed allow-list of parameters by
// a small random delta. Audio passes through untouched.
type MutationNode struct {
	nodeBase
	store        *param.Store
	amount, rate *param.Param

	sampleRate float64
	counter    int
	rng        *rand.Rand
}

// NewMutationNode builds the mutator over the given store.
func NewMutationNode(store *param.Store) (*MutationNode, error) {
	params, err := lookup(store, ParamMutationAmount, ParamMutationRate)
	if err != nil {
		return nil, err
	}
	n := &MutationNode{store: store, amount: params[0], rate: params[1]}
	n.init("Mutation Engine", TypeMutationEngine, params)
	return n, nil
}

// Targets returns a copy of the mutation allow-list.
func (n *MutationNode) Targets() []string {
	return append([]string(nil), mutationTargets...)
}

func (n *MutationNode) Prepare(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	n.sampleRate = spec.SampleRate
	n.counter = int(spec.SampleRate / 2)
	n.rng = rand.New(rand.NewSource(0x6d757461))
	return nil
}

func (n *MutationNode) Reset() {
	n.counter = 1000
}

func (n *MutationNode) ProcessBlock(block [][]float64) {
	if n.rng == nil || len(block) == 0 {
		return
	}

	n.counter -= len(block[0])
	if n.counter > 0 {
		return
	}
	n.counter = int(n.sampleRate / n.rate.Plain())

	amount := n.amount.Plain()
	for _, id := range mutationTargets {
		if n.rng.Float64() > mutationGate {
			continue
		}
		p := n.store.Get(id)
		if p == nil {
			continue
		}
		delta := (n.rng.Float64()*2 - 1) * amount * mutationDeltaScale
		p.SetValue(p.Value() + delta)
	}
}
