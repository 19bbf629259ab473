package synth

import (
	"fmt"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/filter/design"
	"github.com/cwbudde/algo-rack/dsp/signal"
)

// LFOTarget selects what the LFO modulates.
type LFOTarget int

const (
	// TargetFilter adds the LFO (in Hz) to each voice's filter cutoff.
	TargetFilter LFOTarget = iota
	// TargetPitch adds the LFO (in cents) to each voice's oscillator detune.
	TargetPitch
)

// String returns the host-facing target name.
func (t LFOTarget) String() string {
	if t == TargetPitch {
		return "pitch"
	}

	return "filter"
}

// ParseLFOTarget maps "filter" or "pitch" to a target.
func ParseLFOTarget(name string) (LFOTarget, error) {
	switch name {
	case "filter", "cutoff":
		return TargetFilter, nil
	case "pitch", "detune":
		return TargetPitch, nil
	default:
		return TargetFilter, fmt.Errorf("synth: unknown LFO target %q", name)
	}
}

// Parameter ranges. Setters clamp into these.
const (
	MinOctave, MaxOctave       = -2, 2
	MinDetune, MaxDetune       = -100.0, 100.0
	MinCutoff, MaxCutoff       = 20.0, 20000.0
	MinResonance, MaxResonance = 0.0, 20.0
	MinAttack, MaxAttack       = 0.001, 5.0
	MinDecay, MaxDecay         = 0.001, 5.0
	MinRelease, MaxRelease     = 0.001, 10.0
	MinLFORate, MaxLFORate     = 0.1, 20.0
	MaxLFODepth                = 200.0
)

// Params is the complete sound of the synth. All voices share it.
type Params struct {
	Waveform signal.Waveform
	Octave   int
	Detune   float64 // cents

	FilterType design.Type
	Cutoff     float64 // Hz
	Resonance  float64 // Q
	EnvAmount  float64 // 0..1, scales the filter envelope start above cutoff

	Attack  float64 // seconds
	Decay   float64 // seconds
	Sustain float64 // 0..1
	Release float64 // seconds

	LFOShape  signal.Waveform
	LFORate   float64 // Hz
	LFODepth  float64 // Hz or cents depending on target
	LFOTarget LFOTarget

	Volume float64
}

// DefaultParams returns the initial patch: a sawtooth through a 5 kHz
// lowpass with a short envelope and a slow sine LFO on the filter.
func DefaultParams() Params {
	return Params{
		Waveform:   signal.WaveSawtooth,
		FilterType: design.TypeLowpass,
		Cutoff:     5000,
		Resonance:  1,
		Attack:     0.01,
		Decay:      0.3,
		Sustain:    0.7,
		Release:    0.3,
		LFOShape:   signal.WaveSine,
		LFORate:    2,
		LFODepth:   50,
		LFOTarget:  TargetFilter,
		Volume:     0.7,
	}
}

// clamped returns p with every field forced into its range. NaN fields
// fall back to the defaults.
func (p Params) clamped() Params {
	d := DefaultParams()

	p.Octave = core.ClampInt(p.Octave, MinOctave, MaxOctave)
	p.Detune = core.ClampOr(p.Detune, MinDetune, MaxDetune, d.Detune)
	p.Cutoff = core.ClampOr(p.Cutoff, MinCutoff, MaxCutoff, d.Cutoff)
	p.Resonance = core.ClampOr(p.Resonance, MinResonance, MaxResonance, d.Resonance)
	p.EnvAmount = core.ClampOr(p.EnvAmount, 0, 1, d.EnvAmount)
	p.Attack = core.ClampOr(p.Attack, MinAttack, MaxAttack, d.Attack)
	p.Decay = core.ClampOr(p.Decay, MinDecay, MaxDecay, d.Decay)
	p.Sustain = core.ClampOr(p.Sustain, 0, 1, d.Sustain)
	p.Release = core.ClampOr(p.Release, MinRelease, MaxRelease, d.Release)
	p.LFORate = core.ClampOr(p.LFORate, MinLFORate, MaxLFORate, d.LFORate)
	p.LFODepth = core.ClampOr(p.LFODepth, 0, MaxLFODepth, d.LFODepth)
	p.Volume = core.ClampOr(p.Volume, 0, 1, d.Volume)

	return p
}

// envelopeCutoff is where the filter envelope starts for a new note.
func (p Params) envelopeCutoff() float64 {
	return min(MaxCutoff, p.Cutoff+p.EnvAmount*p.Cutoff)
}
