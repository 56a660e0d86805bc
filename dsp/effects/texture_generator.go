package effects

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultTextureDensity   = 0.2
	defaultTextureCharacter = 0.5
	defaultTextureMix       = 0.15

	textureMinCutoff = 200.0
	textureMaxCutoff = 8000.0
	textureResonance = 2.0

	// Texture never exceeds 30% of the signal even at full mix.
	textureMixScale = 0.3

	textureSilenceFloor = 1e-9
)

// TextureGenerator adds sparse band-passed noise impulses to the signal.
// Density controls the per-sample impulse probability, character the
// brightness of the band-pass that shapes the impulses.
type TextureGenerator struct {
	sampleRate float64

	density   float64
	character float64
	mix       float64

	filters [2]*svfTPT
	rng     *rand.Rand
}

// NewTextureGenerator creates a texture generator for the given sample rate.
func NewTextureGenerator(sampleRate float64) (*TextureGenerator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("texture generator sample rate must be > 0: %f", sampleRate)
	}

	g := &TextureGenerator{
		sampleRate: sampleRate,
		density:    defaultTextureDensity,
		character:  defaultTextureCharacter,
		mix:        defaultTextureMix,
		rng:        rand.New(rand.NewSource(0x7e1e57a7)),
	}
	for ch := range g.filters {
		f := newSVF(sampleRate)
		f.setResonance(textureResonance)
		g.filters[ch] = f
	}

	return g, nil
}

// SetDensity sets the impulse probability in [0, 1].
func (g *TextureGenerator) SetDensity(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("texture generator density must be in [0, 1]: %f", v)
	}
	g.density = v
	return nil
}

// SetCharacter sets the texture brightness in [0, 1].
func (g *TextureGenerator) SetCharacter(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("texture generator character must be in [0, 1]: %f", v)
	}
	g.character = v
	return nil
}

// SetMix sets the texture level in [0, 1].
func (g *TextureGenerator) SetMix(v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return fmt.Errorf("texture generator mix must be in [0, 1]: %f", v)
	}
	g.mix = v
	return nil
}

// Reset clears the band-pass filter state.
func (g *TextureGenerator) Reset() {
	for ch := range g.filters {
		g.filters[ch].reset()
	}
}

// ProcessBlock adds texture to a planar block in place.
func (g *TextureGenerator) ProcessBlock(block [][]float64) {
	if len(block) == 0 || len(block[0]) == 0 {
		return
	}
	numChannels := len(block)
	if numChannels > 2 {
		numChannels = 2
	}

	cutoff := textureMinCutoff + g.character*(textureMaxCutoff-textureMinCutoff)
	for ch := 0; ch < numChannels; ch++ {
		g.filters[ch].setCutoff(cutoff)
	}

	// Texture is a layer on top of an existing signal. On silent input
	// no impulses are generated, so silence stays silence.
	silent := true
	for ch := 0; ch < numChannels && silent; ch++ {
		if vecmath.MaxAbs(block[ch]) > textureSilenceFloor {
			silent = false
		}
	}
	if silent {
		return
	}

	prob := g.density * 0.1
	level := g.mix * textureMixScale

	numSamples := len(block[0])
	for s := 0; s < numSamples; s++ {
		for ch := 0; ch < numChannels; ch++ {
			noise := 0.0
			if g.rng.Float64() < prob {
				noise = g.rng.Float64()*2 - 1
			}
			_, bp, _ := g.filters[ch].process(noise)
			block[ch][s] += bp * level
		}
	}
}
