package graph

import (
	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/filter/biquad"
	"github.com/cwbudde/algo-rack/dsp/filter/design"
)

// redesignEpsilon is the relative param change that triggers a redesign.
const redesignEpsilon = 1e-9

// BiquadFilter is a second-order lowpass, highpass or bandpass filter.
// Coefficients are redesigned once per block from the first sample of the
// frequency and Q params.
type BiquadFilter struct {
	*nodeBase

	typ       design.Type
	frequency *Param
	q         *Param

	sections [numChannels]*biquad.Section

	designed bool
	lastType design.Type
	lastFreq float64
	lastQ    float64
}

// NewBiquadFilter creates a 350 Hz lowpass with Q 1.
func (c *Context) NewBiquadFilter() *BiquadFilter {
	nyquist := c.cfg.SampleRate / 2

	f := &BiquadFilter{typ: design.TypeLowpass}
	f.nodeBase = newNodeBase(c, "biquad", f, true)
	f.frequency = newParam(c, "frequency", 350, 0, nyquist)
	f.q = newParam(c, "Q", 1, 0, 1000)
	for ch := range f.sections {
		f.sections[ch] = biquad.NewSection(biquad.Coefficients{B0: 1})
	}

	return f
}

// Frequency returns the cutoff/center frequency param in Hz.
func (f *BiquadFilter) Frequency() *Param { return f.frequency }

// Q returns the resonance param.
func (f *BiquadFilter) Q() *Param { return f.q }

// Type returns the response shape.
func (f *BiquadFilter) Type() design.Type {
	f.ctx.mu.Lock()
	defer f.ctx.mu.Unlock()

	return f.typ
}

// SetType changes the response shape. Filter state is kept.
func (f *BiquadFilter) SetType(t design.Type) {
	f.ctx.mu.Lock()
	defer f.ctx.mu.Unlock()

	f.typ = t
}

func (f *BiquadFilter) process(rs renderState, in, out *[numChannels][]float64) {
	freq := f.frequency.render(rs)[0]
	q := f.q.render(rs)[0]

	changed := !core.NearlyEqual(freq, f.lastFreq, redesignEpsilon) || !core.NearlyEqual(q, f.lastQ, redesignEpsilon)
	if !f.designed || changed || f.typ != f.lastType {
		// an unstable design keeps the previous coefficients
		if coeffs := design.Design(f.typ, freq, q, rs.sr); coeffs.IsStable() {
			for _, s := range f.sections {
				s.SetCoefficients(coeffs)
			}
		}
		f.designed = true
		f.lastType, f.lastFreq, f.lastQ = f.typ, freq, q
	}

	for ch, s := range f.sections {
		s.ProcessBlockTo(out[ch], in[ch])
	}
}
