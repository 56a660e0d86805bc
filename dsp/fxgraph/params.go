package fxgraph

import (
	"fmt"

	"github.com/cwbudde/algo-fxgraph/dsp/param"
)

// Stable parameter identifiers, the string keys host automation uses.
const (
	ParamMasterGain = "master_gain"
	ParamMasterMix  = "master_mix"

	ParamMacro1 = "macro_1"
	ParamMacro2 = "macro_2"
	ParamMacro3 = "macro_3"
	ParamMacro4 = "macro_4"
	ParamMacro5 = "macro_5"
	ParamMacro6 = "macro_6"
	ParamMacro7 = "macro_7"
	ParamMacro8 = "macro_8"

	ParamChorusDepth  = "swc_depth"
	ParamChorusRate   = "swc_rate"
	ParamChorusVoices = "swc_voices"
	ParamChorusWarp   = "swc_warp"
	ParamChorusMix    = "swc_mix"

	ParamReverbSize    = "pr_size"
	ParamReverbDecay   = "pr_decay"
	ParamReverbDrift   = "pr_drift"
	ParamReverbShimmer = "pr_shimmer"
	ParamReverbDamping = "pr_damping"
	ParamReverbMix     = "pr_mix"

	ParamDelayTime     = "psd_time"
	ParamDelayFeedback = "psd_feedback"
	ParamDelaySmear    = "psd_smear"
	ParamDelayMix      = "psd_mix"

	ParamInflatorDrive = "h8_drive"
	ParamInflatorPunch = "h8_punch"
	ParamInflatorBloom = "h8_bloom"
	ParamInflatorMix   = "h8_mix"

	ParamFilterFreq  = "gf_freq"
	ParamFilterReso  = "gf_reso"
	ParamFilterCurve = "gf_curve"
	ParamFilterMode  = "gf_mode"

	ParamDistortionDrive     = "pd_drive"
	ParamDistortionCharacter = "pd_character"
	ParamDistortionBias      = "pd_bias"
	ParamDistortionMix       = "pd_mix"

	ParamMotionWidth = "snm_width"
	ParamMotionAmt   = "snm_motion"
	ParamMotionRate  = "snm_rate"

	ParamTextureDensity   = "tg_density"
	ParamTextureCharacter = "tg_character"
	ParamTextureMix       = "tg_mix"

	ParamFreezeActive = "fc_freeze"
	ParamFreezeSize   = "fc_size"
	ParamFreezePitch  = "fc_pitch"
	ParamFreezeMix    = "fc_mix"

	ParamMutationAmount = "me_amount"
	ParamMutationRate   = "me_rate"
)

// MacroParamIDs lists the eight macro value parameters in slot order.
var MacroParamIDs = [8]string{
	ParamMacro1, ParamMacro2, ParamMacro3, ParamMacro4,
	ParamMacro5, ParamMacro6, ParamMacro7, ParamMacro8,
}

type paramDef struct {
	id   string
	name string
	min  float64
	max  float64
	def  float64
}

// defaultParams mirrors the plain ranges the kernel setters accept, so
// any value read from the store is valid at the kernel boundary.
var defaultParams = []paramDef{
	{ParamMasterGain, "Master Gain", 0, 2, 1},
	{ParamMasterMix, "Mix", 0, 1, 1},

	{ParamMacro1, "Macro 1", 0, 1, 0},
	{ParamMacro2, "Macro 2", 0, 1, 0},
	{ParamMacro3, "Macro 3", 0, 1, 0},
	{ParamMacro4, "Macro 4", 0, 1, 0},
	{ParamMacro5, "Macro 5", 0, 1, 0},
	{ParamMacro6, "Macro 6", 0, 1, 0},
	{ParamMacro7, "Macro 7", 0, 1, 0},
	{ParamMacro8, "Macro 8", 0, 1, 0},

	{ParamChorusDepth, "Chorus Depth", 0, 1, 0.5},
	{ParamChorusRate, "Chorus Rate", 0.01, 10, 0.5},
	{ParamChorusVoices, "Chorus Voices", 0, 8, 4},
	{ParamChorusWarp, "Chorus Warp", 0, 1, 0.3},
	{ParamChorusMix, "Chorus Mix", 0, 1, 0.6},

	{ParamReverbSize, "Reverb Size", 0, 1, 0.7},
	{ParamReverbDecay, "Reverb Decay", 0.1, 60, 8},
	{ParamReverbDrift, "Reverb Drift", 0, 1, 0.4},
	{ParamReverbShimmer, "Reverb Shimmer", 0, 1, 0.2},
	{ParamReverbDamping, "Reverb Damping", 0, 1, 0.3},
	{ParamReverbMix, "Reverb Mix", 0, 1, 0.4},

	{ParamDelayTime, "Delay Time", 0.01, 4, 0.25},
	{ParamDelayFeedback, "Delay Feedback", 0, 0.99, 0.4},
	{ParamDelaySmear, "Delay Smear", 0, 1, 0.3},
	{ParamDelayMix, "Delay Mix", 0, 1, 0.4},

	{ParamInflatorDrive, "Inflator Drive", 0, 1, 0.3},
	{ParamInflatorPunch, "Inflator Punch", 0, 1, 0.5},
	{ParamInflatorBloom, "Inflator Bloom", 0, 1, 0.2},
	{ParamInflatorMix, "Inflator Mix", 0, 1, 0.8},

	{ParamFilterFreq, "Filter Freq", 20, 20000, 2000},
	{ParamFilterReso, "Filter Reso", 0, 1, 0.3},
	{ParamFilterCurve, "Filter Curve", -1, 1, 0},
	{ParamFilterMode, "Filter Mode", 0, 4, 4},

	{ParamDistortionDrive, "Plasma Drive", 0, 1, 0.4},
	{ParamDistortionCharacter, "Plasma Character", 0, 1, 0.5},
	{ParamDistortionBias, "Plasma Bias", -1, 1, 0},
	{ParamDistortionMix, "Plasma Mix", 0, 1, 0.5},

	{ParamMotionWidth, "Motion Width", 0, 2, 1},
	{ParamMotionAmt, "Motion Amount", 0, 1, 0.3},
	{ParamMotionRate, "Motion Rate", 0.01, 4, 0.2},

	{ParamTextureDensity, "Texture Density", 0, 1, 0.2},
	{ParamTextureCharacter, "Texture Character", 0, 1, 0.5},
	{ParamTextureMix, "Texture Mix", 0, 1, 0.15},

	{ParamFreezeActive, "Freeze", 0, 1, 0},
	{ParamFreezeSize, "Freeze Size", 0.01, 4, 0.5},
	{ParamFreezePitch, "Freeze Pitch", -24, 24, 0},
	{ParamFreezeMix, "Freeze Mix", 0, 1, 1},

	{ParamMutationAmount, "Mutation Amount", 0, 1, 0.2},
	{ParamMutationRate, "Mutation Rate", 0.01, 8, 0.5},
}

// RegisterDefaults adds the full parameter set with its plain ranges
// and defaults to the store.
func RegisterDefaults(store *param.Store) error {
	if store == nil {
		return fmt.Errorf("parameter store must not be nil")
	}
	for _, d := range defaultParams {
		p, err := param.New(d.id, d.name, d.min, d.max, d.def)
		if err != nil {
			return fmt.Errorf("register %s: %w", d.id, err)
		}
		if err := store.Add(p); err != nil {
			return fmt.Errorf("register %s: %w", d.id, err)
		}
	}
	return nil
}
