// Package effects implements the audio processing kernels of the effect
// graph: spectral chorus, feedback-network reverb, pitch-smear delay,
// harmonic inflator, adaptive filter, nonlinear distortion, stereo motion,
// texture generator, freeze capture and output gain staging.
//
// Kernels are created with NewX(sampleRate) and process planar blocks
// (channels x samples) in place. Parameter setters validate their ranges
// and return an error on out-of-range values; the audio path itself never
// clamps or validates.
package effects
