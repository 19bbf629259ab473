package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rack/dsp/core"
	irgen "github.com/cwbudde/algo-rack/dsp/effects/reverb"
)

// Preset returns the selected preset.
func (r *Reverb) Preset() irgen.Preset {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.preset
}

// Params returns the parameters the current response is generated from.
func (r *Reverb) Params() irgen.Params {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.params()
}

// Mix returns the wet/dry balance, 0 dry to 1 wet.
func (r *Reverb) Mix() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.mix
}

// SetPreset selects a preset and resets decay and tone to its values.
func (r *Reverb) SetPreset(key string) error {
	p, ok := irgen.LookupPreset(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.preset = p
	r.decay = p.Decay
	r.tone = p.Tone

	return r.regenerate()
}

// SetDecay overrides the preset decay time in seconds. On error the
// previous decay stays in effect.
func (r *Reverb) SetDecay(sec float64) error {
	if math.IsNaN(sec) {
		return fmt.Errorf("%w: decay %v", ErrInvalidValue, sec)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.decay
	r.decay = core.Clamp(sec, MinDecay, MaxDecay)

	err := r.regenerate()
	if err != nil {
		r.decay = prev
	}

	return err
}

// SetTone overrides the preset tail lowpass cutoff in Hz. On error the
// previous tone stays in effect.
func (r *Reverb) SetTone(hz float64) error {
	if math.IsNaN(hz) {
		return fmt.Errorf("%w: tone %v", ErrInvalidValue, hz)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.tone
	r.tone = core.Clamp(hz, MinTone, MaxTone)

	err := r.regenerate()
	if err != nil {
		r.tone = prev
	}

	return err
}

// SetMix sets the wet/dry balance at the current context time.
func (r *Reverb) SetMix(mix float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mix = core.ClampOr(mix, 0, 1, r.mix)
	if r.ctx == nil {
		return
	}

	now := r.ctx.CurrentTime()
	r.dry.Gain().SetValueAtTime(1-r.mix, now)
	r.wet.Gain().SetValueAtTime(r.mix, now)
}

// Scope writes the most recent output as bytes (128 = silence) and returns
// the count written. It writes nothing while closed.
func (r *Reverb) Scope(dst []byte) int {
	r.mu.Lock()
	a := r.analyser
	r.mu.Unlock()

	if a == nil {
		return 0
	}

	return a.ByteTimeDomain(dst)
}

// ScopeSamples is Scope with float samples.
func (r *Reverb) ScopeSamples(dst []float64) int {
	r.mu.Lock()
	a := r.analyser
	r.mu.Unlock()

	if a == nil {
		return 0
	}

	return a.TimeDomain(dst)
}

// Spectrum writes the magnitude spectrum of the output and returns the
// number of bins.
func (r *Reverb) Spectrum(dst []float64) (int, error) {
	r.mu.Lock()
	a := r.analyser
	r.mu.Unlock()

	if a == nil {
		return 0, nil
	}

	return a.Magnitudes(dst)
}
