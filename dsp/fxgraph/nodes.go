package fxgraph

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-fxgraph/dsp/core"
	"github.com/cwbudde/algo-fxgraph/dsp/effects"
	"github.com/cwbudde/algo-fxgraph/dsp/param"
)

// nodeBase carries the identity, enabled flag, and parameter list
// shared by every node wrapper. Morphing blends the normalized value of
// each parameter toward the target's parameter at the same position.
type nodeBase struct {
	name    string
	tag     string
	enabled atomic.Bool
	params  []*param.Param
}

func (b *nodeBase) init(name, tag string, params []*param.Param) {
	b.name = name
	b.tag = tag
	b.params = params
	b.enabled.Store(true)
}

func (b *nodeBase) Name() string      { return b.name }
func (b *nodeBase) Type() string      { return b.tag }
func (b *nodeBase) Enabled() bool     { return b.enabled.Load() }
func (b *nodeBase) SetEnabled(e bool) { b.enabled.Store(e) }

func (b *nodeBase) paramList() []*param.Param { return b.params }

type paramLister interface {
	paramList() []*param.Param
}

func (b *nodeBase) MorphFrom(target Unit, t float64) {
	if target == nil || target.Type() != b.tag {
		return
	}
	other, ok := target.(paramLister)
	if !ok {
		return
	}
	tp := other.paramList()
	if len(tp) != len(b.params) {
		return
	}
	t = core.Clamp01(t)
	for i, p := range b.params {
		p.SetValue(core.Lerp(p.Value(), tp[i].Value(), t))
	}
}

// lookup collects parameters from the store, failing on the first
// missing id so a misconfigured store surfaces at build time.
func lookup(store *param.Store, ids ...string) ([]*param.Param, error) {
	if store == nil {
		return nil, fmt.Errorf("parameter store must not be nil")
	}
	params := make([]*param.Param, len(ids))
	for i, id := range ids {
		p := store.Get(id)
		if p == nil {
			return nil, fmt.Errorf("parameter %q is not registered", id)
		}
		params[i] = p
	}
	return params, nil
}

// Setter errors below are discarded: parameter plain ranges are
// registered to match the kernel setter ranges, so validation cannot
// fail on a value read from the store.

// ChorusNode drives a SpectralWarpChorus from the parameter store.
type ChorusNode struct {
	nodeBase
	depth, rate, voices, warp, mix *param.Param
	kernel                         *effects.SpectralWarpChorus
}

// NewChorusNode builds the chorus wrapper over the given store.
func NewChorusNode(store *param.Store) (*ChorusNode, error) {
	params, err := lookup(store, ParamChorusDepth, ParamChorusRate,
		ParamChorusVoices, ParamChorusWarp, ParamChorusMix)
	if err != nil {
		return nil, err
	}
	n := &ChorusNode{
		depth: params[0], rate: params[1], voices: params[2],
		warp: params[3], mix: params[4],
	}
	n.init("Spectral Warp Chorus", TypeSpectralWarpChorus, params)
	return n, nil
}

func (n *ChorusNode) Prepare(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	k, err := effects.NewSpectralWarpChorus(spec.SampleRate)
	if err != nil {
		return err
	}
	n.kernel = k
	return nil
}

func (n *ChorusNode) Reset() {
	if n.kernel != nil {
		n.kernel.Reset()
	}
}

func (n *ChorusNode) ProcessBlock(block [][]float64) {
	if n.kernel == nil {
		return
	}
	_ = n.kernel.SetDepth(n.depth.Plain())
	_ = n.kernel.SetRate(n.rate.Plain())
	_ = n.kernel.SetVoices(int(math.Round(n.voices.Plain())))
	_ = n.kernel.SetWarp(n.warp.Plain())
	_ = n.kernel.SetMix(n.mix.Plain())
	n.kernel.ProcessBlock(block)
}

// ReverbNode drives a PortalReverb.
type ReverbNode struct {
	nodeBase
	size, decay, drift, shimmer, damping, mix *param.Param
	kernel                                    *effects.PortalReverb
}

func NewReverbNode(store *param.Store) (*ReverbNode, error) {
	params, err := lookup(store, ParamReverbSize, ParamReverbDecay,
		ParamReverbDrift, ParamReverbShimmer, ParamReverbDamping, ParamReverbMix)
	if err != nil {
		return nil, err
	}
	n := &ReverbNode{
		size: params[0], decay: params[1], drift: params[2],
		shimmer: params[3], damping: params[4], mix: params[5],
	}
	n.init("Portal Reverb", TypePortalReverb, params)
	return n, nil
}

func (n *ReverbNode) Prepare(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	k, err := effects.NewPortalReverb(spec.SampleRate)
	if err != nil {
		return err
	}
	n.kernel = k
	return nil
}

func (n *ReverbNode) Reset() {
	if n.kernel != nil {
		n.kernel.Reset()
	}
}

func (n *ReverbNode) ProcessBlock(block [][]float64) {
	if n.kernel == nil {
		return
	}
	_ = n.kernel.SetSize(n.size.Plain())
	_ = n.kernel.SetDecay(n.decay.Plain())
	_ = n.kernel.SetDrift(n.drift.Plain())
	_ = n.kernel.SetShimmer(n.shimmer.Plain())
	_ = n.kernel.SetDamping(n.damping.Plain())
	_ = n.kernel.SetMix(n.mix.Plain())
	n.kernel.ProcessBlock(block)
}

// DelayNode drives a PitchSmearDelay.
type DelayNode struct {
	nodeBase
	time, feedback, smear, mix *param.Param
	kernel                     *effects.PitchSmearDelay
}

func NewDelayNode(store *param.Store) (*DelayNode, error) {
	params, err := lookup(store, ParamDelayTime, ParamDelayFeedback,
		ParamDelaySmear, ParamDelayMix)
	if err != nil {
		return nil, err
	}
	n := &DelayNode{time: params[0], feedback: params[1], smear: params[2], mix: params[3]}
	n.init("Pitch Smear Delay", TypePitchSmearDelay, params)
	return n, nil
}

func (n *DelayNode) Prepare(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	k, err := effects.NewPitchSmearDelay(spec.SampleRate)
	if err != nil {
		return err
	}
	n.kernel = k
	return nil
}

func (n *DelayNode) Reset() {
	if n.kernel != nil {
		n.kernel.Reset()
	}
}

func (n *DelayNode) ProcessBlock(block [][]float64) {
	if n.kernel == nil {
		return
	}
	_ = n.kernel.SetTime(n.time.Plain())
	_ = n.kernel.SetFeedback(n.feedback.Plain())
	_ = n.kernel.SetSmear(n.smear.Plain())
	_ = n.kernel.SetMix(n.mix.Plain())
	n.kernel.ProcessBlock(block)
}

// InflatorNode drives a HarmonicInflator.
type InflatorNode struct {
	nodeBase
	drive, punch, bloom, mix *param.Param
	kernel                   *effects.HarmonicInflator
}

func NewInflatorNode(store *param.Store) (*InflatorNode, error) {
	params, err := lookup(store, ParamInflatorDrive, ParamInflatorPunch,
		ParamInflatorBloom, ParamInflatorMix)
	if err != nil {
		return nil, err
	}
	n := &InflatorNode{drive: params[0], punch: params[1], bloom: params[2], mix: params[3]}
	n.init("Harmonic Inflator", TypeHarmonicInflator, params)
	return n, nil
}

func (n *InflatorNode) Prepare(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	k, err := effects.NewHarmonicInflator(spec.SampleRate)
	if err != nil {
		return err
	}
	n.kernel = k
	return nil
}

func (n *InflatorNode) Reset() {
	if n.kernel != nil {
		n.kernel.Reset()
	}
}

func (n *InflatorNode) ProcessBlock(block [][]float64) {
	if n.kernel == nil {
		return
	}
	_ = n.kernel.SetDrive(n.drive.Plain())
	_ = n.kernel.SetPunch(n.punch.Plain())
	_ = n.kernel.SetBloom(n.bloom.Plain())
	_ = n.kernel.SetMix(n.mix.Plain())
	n.kernel.ProcessBlock(block)
}

// FilterNode drives a GravityFilter.
type FilterNode struct {
	nodeBase
	freq, reso, curve, mode *param.Param
	kernel                  *effects.GravityFilter
}

func NewFilterNode(store *param.Store) (*FilterNode, error) {
	params, err := lookup(store, ParamFilterFreq, ParamFilterReso,
		ParamFilterCurve, ParamFilterMode)
	if err != nil {
		return nil, err
	}
	n := &FilterNode{freq: params[0], reso: params[1], curve: params[2], mode: params[3]}
	n.init("Gravity Filter", TypeGravityFilter, params)
	return n, nil
}

func (n *FilterNode) Prepare(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	k, err := effects.NewGravityFilter(spec.SampleRate)
	if err != nil {
		return err
	}
	n.kernel = k
	return nil
}

func (n *FilterNode) Reset() {
	if n.kernel != nil {
		n.kernel.Reset()
	}
}

func (n *FilterNode) ProcessBlock(block [][]float64) {
	if n.kernel == nil {
		return
	}
	_ = n.kernel.SetFrequency(n.freq.Plain())
	_ = n.kernel.SetResonance(n.reso.Plain())
	_ = n.kernel.SetCurve(n.curve.Plain())
	_ = n.kernel.SetMode(effects.GravityFilterMode(int(math.Round(n.mode.Plain()))))
	n.kernel.ProcessBlock(block)
}

// DistortionNode drives a PlasmaDistortion.
type DistortionNode struct {
	nodeBase
	drive, character, bias, mix *param.Param
	kernel                      *effects.PlasmaDistortion
}

func NewDistortionNode(store *param.Store) (*DistortionNode, error) {
	params, err := lookup(store, ParamDistortionDrive, ParamDistortionCharacter,
		ParamDistortionBias, ParamDistortionMix)
	if err != nil {
		return nil, err
	}
	n := &DistortionNode{drive: params[0], character: params[1], bias: params[2], mix: params[3]}
	n.init("Plasma Distortion", TypePlasmaDistortion, params)
	return n, nil
}

func (n *DistortionNode) Prepare(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	k, err := effects.NewPlasmaDistortion(spec.SampleRate)
	if err != nil {
		return err
	}
	n.kernel = k
	return nil
}

func (n *DistortionNode) Reset() {
	if n.kernel != nil {
		n.kernel.Reset()
	}
}

func (n *DistortionNode) ProcessBlock(block [][]float64) {
	if n.kernel == nil {
		return
	}
	_ = n.kernel.SetDrive(n.drive.Plain())
	_ = n.kernel.SetCharacter(n.character.Plain())
	_ = n.kernel.SetBias(n.bias.Plain())
	_ = n.kernel.SetMix(n.mix.Plain())
	n.kernel.ProcessBlock(block)
}

// MotionNode drives a StereoMotion.
type MotionNode struct {
	nodeBase
	width, motion, rate *param.Param
	kernel              *effects.StereoMotion
}

func NewMotionNode(store *param.Store) (*MotionNode, error) {
	params, err := lookup(store, ParamMotionWidth, ParamMotionAmt, ParamMotionRate)
	if err != nil {
		return nil, err
	}
	n := &MotionNode{width: params[0], motion: params[1], rate: params[2]}
	n.init("Stereo Motion", TypeStereoMotion, params)
	return n, nil
}

func (n *MotionNode) Prepare(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	k, err := effects.NewStereoMotion(spec.SampleRate)
	if err != nil {
		return err
	}
	n.kernel = k
	return nil
}

func (n *MotionNode) Reset() {
	if n.kernel != nil {
		n.kernel.Reset()
	}
}

func (n *MotionNode) ProcessBlock(block [][]float64) {
	if n.kernel == nil {
		return
	}
	_ = n.kernel.SetWidth(n.width.Plain())
	_ = n.kernel.SetMotion(n.motion.Plain())
	_ = n.kernel.SetRate(n.rate.Plain())
	n.kernel.ProcessBlock(block)
}

// TextureNode drives a TextureGenerator.
type TextureNode struct {
	nodeBase
	density, character, mix *param.Param
	kernel                  *effects.TextureGenerator
}

func NewTextureNode(store *param.Store) (*TextureNode, error) {
	params, err := lookup(store, ParamTextureDensity, ParamTextureCharacter, ParamTextureMix)
	if err != nil {
		return nil, err
	}
	n := &TextureNode{density: params[0], character: params[1], mix: params[2]}
	n.init("Texture Generator", TypeTextureGenerator, params)
	return n, nil
}

func (n *TextureNode) Prepare(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	k, err := effects.NewTextureGenerator(spec.SampleRate)
	if err != nil {
		return err
	}
	n.kernel = k
	return nil
}

func (n *TextureNode) Reset() {
	if n.kernel != nil {
		n.kernel.Reset()
	}
}

func (n *TextureNode) ProcessBlock(block [][]float64) {
	if n.kernel == nil {
		return
	}
	_ = n.kernel.SetDensity(n.density.Plain())
	_ = n.kernel.SetCharacter(n.character.Plain())
	_ = n.kernel.SetMix(n.mix.Plain())
	n.kernel.ProcessBlock(block)
}

// FreezeNode drives a FreezeCapture.
type FreezeNode struct {
	nodeBase
	freeze, size, pitch, mix *param.Param
	kernel                   *effects.FreezeCapture
}

func NewFreezeNode(store *param.Store) (*FreezeNode, error) {
	params, err := lookup(store, ParamFreezeActive, ParamFreezeSize,
		ParamFreezePitch, ParamFreezeMix)
	if err != nil {
		return nil, err
	}
	n := &FreezeNode{freeze: params[0], size: params[1], pitch: params[2], mix: params[3]}
	n.init("Freeze Capture", TypeFreezeCapture, params)
	return n, nil
}

func (n *FreezeNode) Prepare(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	k, err := effects.NewFreezeCapture(spec.SampleRate)
	if err != nil {
		return err
	}
	n.kernel = k
	return nil
}

func (n *FreezeNode) Reset() {
	if n.kernel != nil {
		n.kernel.Reset()
	}
}

func (n *FreezeNode) ProcessBlock(block [][]float64) {
	if n.kernel == nil {
		return
	}
	n.kernel.SetFrozen(n.freeze.Plain() >= 0.5)
	_ = n.kernel.SetSize(n.size.Plain())
	_ = n.kernel.SetPitch(n.pitch.Plain())
	_ = n.kernel.SetMix(n.mix.Plain())
	n.kernel.ProcessBlock(block)
}
