package synth

import (
	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/filter/design"
	"github.com/cwbudde/algo-rack/dsp/signal"
)

// Params returns the current patch.
func (s *Synth) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.params
}

// SetParams replaces the whole patch and applies it to the running voices
// the same way the individual setters do. NaN fields keep their current value.
func (s *Synth) SetParams(p Params) {
	s.SetWaveform(p.Waveform)
	s.SetOctave(p.Octave)
	s.SetDetune(p.Detune)
	s.SetFilterType(p.FilterType)
	s.SetCutoff(p.Cutoff)
	s.SetResonance(p.Resonance)
	s.SetEnvAmount(p.EnvAmount)
	s.SetAttack(p.Attack)
	s.SetDecay(p.Decay)
	s.SetSustain(p.Sustain)
	s.SetRelease(p.Release)
	s.SetLFOShape(p.LFOShape)
	s.SetLFORate(p.LFORate)
	s.SetLFODepth(p.LFODepth)
	s.SetLFOTarget(p.LFOTarget)
	s.SetVolume(p.Volume)
}

// SetWaveform changes the oscillator shape of every voice.
func (s *Synth) SetWaveform(w signal.Waveform) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.Waveform = w
	for _, v := range s.voices {
		v.osc.SetWaveform(w)
	}
}

// SetOctave sets the transposition applied to the next notes.
func (s *Synth) SetOctave(octave int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.Octave = core.ClampInt(octave, MinOctave, MaxOctave)
}

// SetDetune sets the oscillator detune in cents.
func (s *Synth) SetDetune(cents float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.Detune = core.ClampOr(cents, MinDetune, MaxDetune, s.params.Detune)
	for _, v := range s.voices {
		v.osc.Detune().SetValue(s.params.Detune)
	}
}

// SetFilterType changes the filter response of every voice.
func (s *Synth) SetFilterType(t design.Type) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.FilterType = t
	for _, v := range s.voices {
		v.filter.SetType(t)
	}
}

// SetCutoff sets the filter cutoff. Sounding voices keep their envelope;
// they pick up the new cutoff with their next note.
func (s *Synth) SetCutoff(hz float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.Cutoff = core.ClampOr(hz, MinCutoff, MaxCutoff, s.params.Cutoff)
	for _, v := range s.voices {
		if v.note < 0 && !v.releasing {
			v.filter.Frequency().SetValue(s.params.Cutoff)
		}
	}
}

// SetResonance sets the filter Q of every voice.
func (s *Synth) SetResonance(q float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.Resonance = core.ClampOr(q, MinResonance, MaxResonance, s.params.Resonance)
	for _, v := range s.voices {
		v.filter.Q().SetValue(s.params.Resonance)
	}
}

// SetEnvAmount sets how far above the cutoff the filter envelope starts.
func (s *Synth) SetEnvAmount(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.EnvAmount = core.ClampOr(amount, 0, 1, s.params.EnvAmount)
}

func (s *Synth) SetAttack(sec float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.Attack = core.ClampOr(sec, MinAttack, MaxAttack, s.params.Attack)
}

func (s *Synth) SetDecay(sec float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.Decay = core.ClampOr(sec, MinDecay, MaxDecay, s.params.Decay)
}

func (s *Synth) SetSustain(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.Sustain = core.ClampOr(level, 0, 1, s.params.Sustain)
}

func (s *Synth) SetRelease(sec float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.Release = core.ClampOr(sec, MinRelease, MaxRelease, s.params.Release)
}

// SetLFOShape changes the LFO waveform.
func (s *Synth) SetLFOShape(w signal.Waveform) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.LFOShape = w
	if s.lfo != nil {
		s.lfo.SetWaveform(w)
	}
}

// SetLFORate sets the LFO frequency in Hz.
func (s *Synth) SetLFORate(hz float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.LFORate = core.ClampOr(hz, MinLFORate, MaxLFORate, s.params.LFORate)
	if s.lfo != nil {
		s.lfo.Frequency().SetValue(s.params.LFORate)
	}
}

// SetLFODepth sets the LFO amount, in Hz for the filter target and in cents
// for the pitch target.
func (s *Synth) SetLFODepth(depth float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.LFODepth = core.ClampOr(depth, 0, MaxLFODepth, s.params.LFODepth)
	if s.lfoGain != nil {
		s.lfoGain.Gain().SetValue(s.params.LFODepth)
	}
}

// SetLFOTarget reroutes the LFO to every voice's filter cutoff or detune.
func (s *Synth) SetLFOTarget(t LFOTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t == s.params.LFOTarget {
		return
	}
	s.params.LFOTarget = t
	s.routeLFO()
}

// SetVolume sets the master gain.
func (s *Synth) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params.Volume = core.ClampOr(v, 0, 1, s.params.Volume)
	if s.master != nil {
		s.master.Gain().SetValue(s.params.Volume)
	}
}
