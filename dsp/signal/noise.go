package signal

import "math/rand"

// Noise is a deterministic white-noise source in [-1, 1).
type Noise struct {
	rng *rand.Rand
}

// NewNoise creates a noise source with a fixed seed.
func NewNoise(seed int64) *Noise {
	return &Noise{rng: rand.New(rand.NewSource(seed))}
}

// Next returns the next noise sample.
func (n *Noise) Next() float64 {
	return n.rng.Float64()*2 - 1
}

// Sign returns +1 or -1 with equal probability.
func (n *Noise) Sign() float64 {
	if n.rng.Float64() < 0.5 {
		return -1
	}
	return 1
}
