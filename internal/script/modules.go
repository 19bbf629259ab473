package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/cwbudde/algo-rack/dsp/filter/design"
	"github.com/cwbudde/algo-rack/dsp/signal"
	"github.com/cwbudde/algo-rack/modules/synth"
)

func (e *Engine) synthTable(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"note_on":  e.synthNoteOn,
		"note_off": e.synthNoteOff,
		"all_off":  e.synthAllOff,
		"set":      e.synthSet,
		"get":      e.synthGet,
		"status":   e.synthStatus,
	})
}

func (e *Engine) requireSynth(L *lua.LState) bool {
	if e.synth == nil {
		raise(L, fmt.Errorf("%w: synth", ErrNoModule))
		return false
	}
	return true
}

func (e *Engine) synthNoteOn(L *lua.LState) int {
	n := L.CheckInt(1)
	if e.requireSynth(L) {
		e.synth.NoteOn(n)
	}
	return 0
}

func (e *Engine) synthNoteOff(L *lua.LState) int {
	n := L.CheckInt(1)
	if e.requireSynth(L) {
		e.synth.NoteOff(n)
	}
	return 0
}

func (e *Engine) synthAllOff(L *lua.LState) int {
	if e.requireSynth(L) {
		e.synth.AllNotesOff()
	}
	return 0
}

func (e *Engine) synthStatus(L *lua.LState) int {
	if !e.requireSynth(L) {
		return 0
	}
	L.Push(lua.LString(e.synth.Status()))
	return 1
}

// synthSet applies synth.set(name, value).
func (e *Engine) synthSet(L *lua.LState) int {
	name := L.CheckString(1)
	if !e.requireSynth(L) {
		return 0
	}
	s := e.synth

	var err error
	switch name {
	case "waveform", "lfo_shape":
		var w signal.Waveform
		w, err = signal.ParseWaveform(L.CheckString(2))
		if err == nil && name == "waveform" {
			s.SetWaveform(w)
		} else if err == nil {
			s.SetLFOShape(w)
		}
	case "filter":
		var t design.Type
		t, err = design.ParseType(L.CheckString(2))
		if err == nil {
			s.SetFilterType(t)
		}
	case "lfo_target":
		var t synth.LFOTarget
		t, err = synth.ParseLFOTarget(L.CheckString(2))
		if err == nil {
			s.SetLFOTarget(t)
		}
	case "octave":
		s.SetOctave(L.CheckInt(2))
	default:
		set, ok := synthNumeric(s)[name]
		if !ok {
			L.ArgError(1, "unknown synth parameter "+name)
			return 0
		}
		set(float64(L.CheckNumber(2)))
	}
	if err != nil {
		return raise(L, err)
	}

	return 0
}

func synthNumeric(s *synth.Synth) map[string]func(float64) {
	return map[string]func(float64){
		"detune":     s.SetDetune,
		"cutoff":     s.SetCutoff,
		"resonance":  s.SetResonance,
		"env_amount": s.SetEnvAmount,
		"attack":     s.SetAttack,
		"decay":      s.SetDecay,
		"sustain":    s.SetSustain,
		"release":    s.SetRelease,
		"lfo_rate":   s.SetLFORate,
		"lfo_depth":  s.SetLFODepth,
		"volume":     s.SetVolume,
	}
}

// synthGet returns a parameter as a number or string.
func (e *Engine) synthGet(L *lua.LState) int {
	name := L.CheckString(1)
	if !e.requireSynth(L) {
		return 0
	}
	p := e.synth.Params()

	var v lua.LValue
	switch name {
	case "waveform":
		v = lua.LString(p.Waveform.String())
	case "lfo_shape":
		v = lua.LString(p.LFOShape.String())
	case "filter":
		v = lua.LString(p.FilterType.String())
	case "lfo_target":
		v = lua.LString(p.LFOTarget.String())
	default:
		n, ok := map[string]float64{
			"octave":     float64(p.Octave),
			"detune":     p.Detune,
			"cutoff":     p.Cutoff,
			"resonance":  p.Resonance,
			"env_amount": p.EnvAmount,
			"attack":     p.Attack,
			"decay":      p.Decay,
			"sustain":    p.Sustain,
			"release":    p.Release,
			"lfo_rate":   p.LFORate,
			"lfo_depth":  p.LFODepth,
			"volume":     p.Volume,
		}[name]
		if !ok {
			L.ArgError(1, "unknown synth parameter "+name)
			return 0
		}
		v = lua.LNumber(n)
	}
	L.Push(v)

	return 1
}

func (e *Engine) reverbTable(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"preset":  e.reverbPreset,
		"set":     e.reverbSet,
		"status":  e.reverbStatus,
		"measure": e.reverbMeasure,
	})
}

func (e *Engine) requireReverb(L *lua.LState) bool {
	if e.reverb == nil {
		raise(L, fmt.Errorf("%w: reverb", ErrNoModule))
		return false
	}
	return true
}

func (e *Engine) reverbPreset(L *lua.LState) int {
	key := L.CheckString(1)
	if !e.requireReverb(L) {
		return 0
	}
	if err := e.reverb.SetPreset(key); err != nil {
		return raise(L, err)
	}
	return 0
}

func (e *Engine) reverbSet(L *lua.LState) int {
	name := L.CheckString(1)
	v := float64(L.CheckNumber(2))
	if !e.requireReverb(L) {
		return 0
	}

	var err error
	switch name {
	case "decay":
		err = e.reverb.SetDecay(v)
	case "tone":
		err = e.reverb.SetTone(v)
	case "mix":
		e.reverb.SetMix(v)
	default:
		L.ArgError(1, "unknown reverb parameter "+name)
		return 0
	}
	if err != nil {
		return raise(L, err)
	}

	return 0
}

func (e *Engine) reverbStatus(L *lua.LState) int {
	if !e.requireReverb(L) {
		return 0
	}
	L.Push(lua.LString(e.reverb.Status()))
	return 1
}

// reverbMeasure returns the acoustic figures of the loaded response.
func (e *Engine) reverbMeasure(L *lua.LState) int {
	if !e.requireReverb(L) {
		return 0
	}
	m, err := e.reverb.Measure()
	if err != nil {
		return raise(L, err)
	}

	t := L.NewTable()
	t.RawSetString("rt60", lua.LNumber(m.RT60))
	t.RawSetString("edt", lua.LNumber(m.EDT))
	t.RawSetString("c80", lua.LNumber(m.C80))
	t.RawSetString("d50", lua.LNumber(m.D50))
	t.RawSetString("center_time", lua.LNumber(m.CenterTime))
	L.Push(t)

	return 1
}
