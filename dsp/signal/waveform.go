package signal

import (
	"fmt"
	"math"
	"strings"
)

// Waveform defines an oscillator shape.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveSawtooth
	WaveSquare
	WaveTriangle
)

// String returns the canonical waveform name.
func (w Waveform) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveSawtooth:
		return "sawtooth"
	case WaveSquare:
		return "square"
	case WaveTriangle:
		return "triangle"
	default:
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
}

// ParseWaveform resolves a waveform name. "saw" is accepted as an alias
// for "sawtooth".
func ParseWaveform(name string) (Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "sin":
		return WaveSine, nil
	case "sawtooth", "saw":
		return WaveSawtooth, nil
	case "square", "sq":
		return WaveSquare, nil
	case "triangle", "tri":
		return WaveTriangle, nil
	default:
		return WaveSine, fmt.Errorf("signal: unknown waveform %q", name)
	}
}

// Sample evaluates the waveform at phase, given in cycles. Only the
// fractional part of phase matters. Every shape starts at zero and rises,
// with a peak amplitude of 1.
func (w Waveform) Sample(phase float64) float64 {
	p := phase - math.Floor(phase)

	switch w {
	case WaveSawtooth:
		if p < 0.5 {
			return 2 * p
		}
		return 2*p - 2
	case WaveSquare:
		if p < 0.5 {
			return 1
		}
		return -1
	case WaveTriangle:
		switch {
		case p < 0.25:
			return 4 * p
		case p < 0.75:
			return 2 - 4*p
		default:
			return 4*p - 4
		}
	default:
		return math.Sin(2 * math.Pi * p)
	}
}
