package spectrum

// Linear congruential generator constants (Numerical Recipes).
const (
	lcgMul = 1664525
	lcgAdd = 1013904223
)

// DefaultNoiseSeed is the generator state a new session starts from.
const DefaultNoiseSeed = 1

// NoiseRNG is the 32-bit linear congruential generator feeding PNS. One
// generator runs across every channel and frame of a session.
type NoiseRNG struct {
	state uint32
}

// NewNoiseRNG returns a generator seeded with seed.
func NewNoiseRNG(seed uint32) *NoiseRNG {
	return &NoiseRNG{state: seed}
}

// Next advances the generator and returns the new state.
func (g *NoiseRNG) Next() uint32 {
	g.state = g.state*lcgMul + lcgAdd
	return g.state
}

// State returns the current generator state.
func (g *NoiseRNG) State() uint32 {
	return g.state
}

// SetState restores a state returned by State.
func (g *NoiseRNG) SetState(s uint32) {
	g.state = s
}
