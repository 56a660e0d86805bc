package fxgraph

// Unit is the contract every effect node implements. ProcessBlock runs
// on the audio thread and must not allocate, block, or lock; Enabled
// and SetEnabled are safe from any thread.
type Unit interface {
	Prepare(spec Spec) error
	ProcessBlock(block [][]float64)
	Reset()

	Enabled() bool
	SetEnabled(enabled bool)

	Name() string
	Type() string
}

// Morpher is implemented by units whose parameter state can be blended
// toward another unit of the same type.
type Morpher interface {
	MorphFrom(target Unit, t float64)
}
