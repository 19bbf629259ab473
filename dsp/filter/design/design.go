package design

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rack/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// minQ keeps alpha finite for a zero resonance setting.
const minQ = 1e-4

// Type selects the response shape of a designed section.
type Type int

const (
	TypeLowpass Type = iota
	TypeHighpass
	TypeBandpass
)

// String returns the host-facing name of the filter type.
func (t Type) String() string {
	switch t {
	case TypeHighpass:
		return "highpass"
	case TypeBandpass:
		return "bandpass"
	default:
		return "lowpass"
	}
}

// ParseType maps a filter type name to a Type.
func ParseType(name string) (Type, error) {
	switch name {
	case "lowpass", "lp":
		return TypeLowpass, nil
	case "highpass", "hp":
		return TypeHighpass, nil
	case "bandpass", "bp":
		return TypeBandpass, nil
	default:
		return TypeLowpass, fmt.Errorf("design: unknown filter type %q", name)
	}
}

// Design returns the coefficients of the given type. The frequency is
// clamped just inside (0, nyquist) so a modulated cutoff never produces an
// unstable section.
func Design(t Type, freq, q, sampleRate float64) biquad.Coefficients {
	if sampleRate > 0 {
		freq = math.Min(math.Max(freq, 10), sampleRate*0.499)
	}

	switch t {
	case TypeHighpass:
		return Highpass(freq, q, sampleRate)
	case TypeBandpass:
		return Bandpass(freq, q, sampleRate)
	default:
		return Lowpass(freq, q, sampleRate)
	}
}

// Lowpass designs a lowpass biquad at freq (Hz) with quality factor q.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{B0: 1}
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * normalizedQ(q))

	return normalizeBiquad((1-cw)/2, 1-cw, (1-cw)/2, 1+alpha, -2*cw, 1-alpha)
}

// Highpass designs a highpass biquad at freq (Hz) with quality factor q.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{B0: 1}
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * normalizedQ(q))

	return normalizeBiquad((1+cw)/2, -(1 + cw), (1+cw)/2, 1+alpha, -2*cw, 1-alpha)
}

// Bandpass designs a bandpass biquad with 0 dB gain at the center frequency.
func Bandpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{B0: 1}
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * normalizedQ(q))

	return normalizeBiquad(alpha, 0, -alpha, 1+alpha, -2*cw, 1-alpha)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	nyquist := sampleRate / 2
	if freq <= 0 || freq >= nyquist || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
		return defaultQ
	}

	return math.Max(q, minQ)
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{B0: 1}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
