package graph

import (
	"math"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/signal"
)

// Oscillator is a periodic source. It runs from creation.
type Oscillator struct {
	*nodeBase

	waveform  signal.Waveform
	frequency *Param
	detune    *Param

	phase float64 // cycles
}

// NewOscillator creates a 440 Hz sine oscillator.
func (c *Context) NewOscillator() *Oscillator {
	nyquist := c.cfg.SampleRate / 2

	o := &Oscillator{waveform: signal.WaveSine}
	o.nodeBase = newNodeBase(c, "oscillator", o, true)
	o.frequency = newParam(c, "frequency", 440, -nyquist, nyquist)
	o.detune = newParam(c, "detune", 0, -153600, 153600)

	return o
}

// Frequency returns the frequency param in Hz.
func (o *Oscillator) Frequency() *Param { return o.frequency }

// Detune returns the detune param in cents.
func (o *Oscillator) Detune() *Param { return o.detune }

// Waveform returns the current shape.
func (o *Oscillator) Waveform() signal.Waveform {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()

	return o.waveform
}

// SetWaveform changes the shape without resetting the phase.
func (o *Oscillator) SetWaveform(w signal.Waveform) {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()

	o.waveform = w
}

func (o *Oscillator) process(rs renderState, _, out *[numChannels][]float64) {
	freq := o.frequency.render(rs)
	detune := o.detune.render(rs)

	for i := range rs.n {
		v := o.waveform.Sample(o.phase)
		out[0][i] = v
		out[1][i] = v

		f := freq[i]
		if d := detune[i]; d != 0 {
			f *= core.CentsToRatio(d)
		}
		o.phase += f / rs.sr
		o.phase -= math.Floor(o.phase)
	}
}
