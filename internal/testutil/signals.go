package testutil

import (
	"encoding/binary"
	"math"
	"math/rand"
)

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// DecodeFloat32LE decodes little-endian float32 samples. Trailing bytes
// that do not form a whole sample are ignored.
func DecodeFloat32LE(p []byte) []float32 {
	out := make([]float32, len(p)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[4*i:]))
	}
	return out
}

// Deinterleave splits interleaved frames into per-channel float64 slices.
func Deinterleave(frames []float32, channels int) [][]float64 {
	out := make([][]float64, channels)
	n := len(frames) / channels
	for ch := range out {
		out[ch] = make([]float64, n)
		for i := range n {
			out[ch][i] = float64(frames[i*channels+ch])
		}
	}
	return out
}
