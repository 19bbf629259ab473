//go:build js && wasm

package main

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/filter/design"
	"github.com/cwbudde/algo-rack/dsp/graph"
	"github.com/cwbudde/algo-rack/dsp/signal"
	"github.com/cwbudde/algo-rack/internal/rack"
	"github.com/cwbudde/algo-rack/modules/reverb"
	"github.com/cwbudde/algo-rack/modules/synth"
	"github.com/cwbudde/algo-rack/patchbay"
)

var (
	engine *rack.Rack
	funcs  []js.Func
)

func main() {
	api := js.Global().Get("Object").New()

	// init(sampleRate, {jackID: element}, svg)
	api.Set("init", export(func(args []js.Value) any {
		sr := 48000.0
		if len(args) > 0 {
			sr = args[0].Float()
		}

		var opts []rack.Option
		if len(args) > 1 && args[1].Truthy() {
			for _, id := range []string{synth.OutputJackID, reverb.InputJackID, reverb.OutputJackID} {
				if node := args[1].Get(id); node.Truthy() {
					opts = append(opts, rack.WithElement(id, newDOMElement(node)))
				}
			}
		}
		if len(args) > 2 && args[2].Truthy() {
			opts = append(opts, rack.WithBayOptions(
				patchbay.WithOverlay(newSVGOverlay(args[2])),
				patchbay.WithFrameScheduler(animationFrames{})))
		}

		if engine != nil {
			engine.Close()
			_ = engine.Context().Close()
		}

		ctx := graph.NewContext(core.WithSampleRate(sr))
		if err := ctx.Resume(); err != nil {
			return err.Error()
		}
		r, err := rack.New(ctx, opts...)
		if err != nil {
			return err.Error()
		}
		engine = r
		return js.Null()
	}))

	api.Set("render", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		n := args[0].Int()
		buf := make([]float32, n)
		engine.Render(buf)
		arr := js.Global().Get("Float32Array").New(n)
		for i := 0; i < n; i++ {
			arr.SetIndex(i, buf[i])
		}
		return arr
	}))

	api.Set("keyDown", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return false
		}
		return engine.KeyDown(args[0].String())
	}))

	api.Set("keyUp", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return false
		}
		return engine.KeyUp(args[0].String())
	}))

	api.Set("noteOn", export(func(args []js.Value) any {
		if engine != nil && len(args) > 0 {
			engine.Synth.NoteOn(args[0].Int())
		}
		return js.Null()
	}))

	api.Set("noteOff", export(func(args []js.Value) any {
		if engine != nil && len(args) > 0 {
			engine.Synth.NoteOff(args[0].Int())
		}
		return js.Null()
	}))

	api.Set("connect", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		id, ok := engine.Bay.Connect(args[0].String(), args[1].String())
		if !ok {
			return js.Null()
		}
		return id
	}))

	api.Set("disconnect", export(func(args []js.Value) any {
		if engine != nil && len(args) > 0 {
			engine.Bay.Disconnect(args[0].String())
		}
		return js.Null()
	}))

	api.Set("pointerMove", export(func(args []js.Value) any {
		if engine != nil && len(args) > 2 {
			engine.Bay.PointerMove(patchbay.Point{X: args[0].Float(), Y: args[1].Float()}, args[2].Bool())
		}
		return js.Null()
	}))

	api.Set("clickAway", export(func([]js.Value) any {
		if engine != nil {
			engine.Bay.ClickAway()
		}
		return js.Null()
	}))

	api.Set("resized", export(func([]js.Value) any {
		if engine != nil {
			engine.Bay.Resized()
		}
		return js.Null()
	}))

	// setSynth(name, value) returns an error message or null.
	api.Set("setSynth", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		if err := setSynth(engine.Synth, args[0].String(), args[1]); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("setReverb", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		if err := setReverb(engine.Reverb, args[0].String(), args[1]); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("responseCurve", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		input := args[0]
		freqs := make([]float64, input.Length())
		for i := 0; i < input.Length(); i++ {
			freqs[i] = input.Index(i).Float()
		}
		resp := engine.FilterResponseDB(freqs)
		arr := js.Global().Get("Float32Array").New(len(resp))
		for i := range resp {
			arr.SetIndex(i, resp[i])
		}
		return arr
	}))

	api.Set("scope", export(func([]js.Value) any {
		if engine == nil {
			return js.Global().Get("Uint8Array").New(0)
		}
		buf := make([]byte, reverb.ScopeSize)
		n := engine.Reverb.Scope(buf)
		arr := js.Global().Get("Uint8Array").New(n)
		js.CopyBytesToJS(arr, buf[:n])
		return arr
	}))

	api.Set("status", export(func([]js.Value) any {
		if engine == nil {
			return ""
		}
		return strings.Join(engine.Status(), "\n")
	}))

	js.Global().Set("AlgoRack", api)
	select {}
}

func setSynth(s *synth.Synth, name string, v js.Value) error {
	switch name {
	case "waveform", "lfoShape":
		w, err := signal.ParseWaveform(v.String())
		if err != nil {
			return err
		}
		if name == "waveform" {
			s.SetWaveform(w)
		} else {
			s.SetLFOShape(w)
		}
	case "filterType":
		t, err := design.ParseType(v.String())
		if err != nil {
			return err
		}
		s.SetFilterType(t)
	case "lfoTarget":
		t, err := synth.ParseLFOTarget(v.String())
		if err != nil {
			return err
		}
		s.SetLFOTarget(t)
	case "octave":
		s.SetOctave(v.Int())
	case "detune":
		s.SetDetune(v.Float())
	case "cutoff":
		s.SetCutoff(v.Float())
	case "resonance":
		s.SetResonance(v.Float())
	case "envAmount":
		s.SetEnvAmount(v.Float())
	case "attack":
		s.SetAttack(v.Float())
	case "decay":
		s.SetDecay(v.Float())
	case "sustain":
		s.SetSustain(v.Float())
	case "release":
		s.SetRelease(v.Float())
	case "lfoRate":
		s.SetLFORate(v.Float())
	case "lfoDepth":
		s.SetLFODepth(v.Float())
	case "volume":
		s.SetVolume(v.Float())
	default:
		return fmt.Errorf("unknown synth parameter %q", name)
	}
	return nil
}

// setReverb takes slider positions for decay and tone, like the panel.
func setReverb(r *reverb.Reverb, name string, v js.Value) error {
	switch name {
	case "preset":
		return r.SetPreset(v.String())
	case "decay":
		return r.SetDecay(reverb.DecayFromSlider(v.Int()))
	case "tone":
		return r.SetTone(reverb.ToneFromSlider(v.Int()))
	case "mix":
		r.SetMix(v.Float())
		return nil
	default:
		return fmt.Errorf("unknown reverb parameter %q", name)
	}
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
