// Package reverb is the rack's convolution reverb module. It mixes a dry
// path with a convolver whose impulse response is synthesized from the
// selected room preset, and exposes its input and output as patch-bay jacks.
package reverb

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cwbudde/algo-rack/dsp/core"
	irgen "github.com/cwbudde/algo-rack/dsp/effects/reverb"
	"github.com/cwbudde/algo-rack/dsp/graph"
	"github.com/cwbudde/algo-rack/patchbay"
)

const (
	InputJackID  = "rv-in"
	OutputJackID = "rv-out"
	InputLabel   = "Reverb Input"
	OutputLabel  = "Reverb Output"

	DefaultMix = 0.5

	MinDecay, MaxDecay = 0.1, 8.0
	MinTone, MaxTone   = 200.0, 20000.0

	// ScopeSize is the analyser window behind Scope.
	ScopeSize = graph.DefaultFFTSize
)

var (
	ErrUnknownPreset = errors.New("reverb: unknown preset")
	ErrNoContext     = errors.New("reverb: no audio context")
	ErrContextClosed = errors.New("reverb: audio context is closed")
	ErrInvalidValue  = errors.New("reverb: invalid value")
)

// Option configures a Reverb.
type Option func(*Reverb)

// WithPreset selects the initial preset. Unknown keys are ignored.
func WithPreset(key string) Option {
	return func(r *Reverb) {
		if p, ok := irgen.LookupPreset(key); ok {
			r.preset = p
			r.decay = p.Decay
			r.tone = p.Tone
		}
	}
}

// WithMix sets the initial wet/dry balance.
func WithMix(mix float64) Option {
	return func(r *Reverb) {
		r.mix = core.Clamp(mix, 0, 1)
	}
}

// WithSeed fixes the noise seed of generated responses.
func WithSeed(seed int64) Option {
	return func(r *Reverb) {
		r.seed = seed
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reverb) {
		if l != nil {
			r.logger = l
		}
	}
}

// Reverb is a convolution reverb module.
type Reverb struct {
	mu     sync.Mutex
	logger *slog.Logger
	seed   int64

	preset irgen.Preset
	decay  float64
	tone   float64
	mix    float64

	ctx *graph.Context
	bay *patchbay.Bay

	input     *graph.Gain
	dry       *graph.Gain
	wet       *graph.Gain
	output    *graph.Gain
	convolver *graph.Convolver
	analyser  *graph.Analyser
}

// New creates a closed reverb on the default preset.
func New(opts ...Option) *Reverb {
	p, _ := irgen.LookupPreset(irgen.DefaultPreset)
	r := &Reverb{
		logger: slog.Default(),
		seed:   1,
		preset: p,
		decay:  p.Decay,
		tone:   p.Tone,
		mix:    DefaultMix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// Open builds the module graph in ctx and registers its jacks with bay.
// bay and the elements may be nil. Opening an open module is a no-op.
//
//	input -> dry -> output
//	input -> convolver -> wet -> output
//	output -> analyser -> destination
func (r *Reverb) Open(ctx *graph.Context, bay *patchbay.Bay, inEl, outEl patchbay.Element) error {
	if ctx == nil {
		return ErrNoContext
	}
	if ctx.State() == graph.StateClosed {
		return ErrContextClosed
	}

	r.mu.Lock()
	if r.ctx != nil {
		r.mu.Unlock()
		return nil
	}

	r.ctx = ctx
	r.bay = bay
	r.input = ctx.NewGain()
	r.dry = ctx.NewGain()
	r.dry.Gain().SetValue(1 - r.mix)
	r.wet = ctx.NewGain()
	r.wet.Gain().SetValue(r.mix)
	r.output = ctx.NewGain()
	r.convolver = ctx.NewConvolver()
	r.analyser = ctx.NewAnalyser()

	err := r.regenerate()
	if err != nil {
		r.teardown()
		r.mu.Unlock()
		return err
	}

	r.link(r.input, r.dry)
	r.link(r.input, r.convolver)
	r.link(r.convolver, r.wet)
	r.link(r.dry, r.output)
	r.link(r.wet, r.output)
	r.link(r.output, r.analyser)
	r.link(r.analyser, ctx.Destination())

	input, output := r.input, r.output
	r.mu.Unlock()

	if bay != nil {
		bay.RegisterInput(InputJackID, input, InputLabel, inEl)
		bay.RegisterOutput(OutputJackID, output, OutputLabel, outEl)
	}
	r.logger.Debug("reverb opened", "preset", r.preset.Key)

	return nil
}

// Close removes the jacks and tears down the graph.
func (r *Reverb) Close() {
	r.mu.Lock()
	if r.ctx == nil {
		r.mu.Unlock()
		return
	}
	bay := r.bay
	r.teardown()
	r.mu.Unlock()

	if bay != nil {
		bay.UnregisterInput(InputJackID)
		bay.UnregisterOutput(OutputJackID)
	}
	r.logger.Debug("reverb closed")
}

func (r *Reverb) teardown() {
	for _, n := range []graph.Node{r.input, r.dry, r.wet, r.output, r.convolver, r.analyser} {
		n.DisconnectAll()
	}
	r.ctx, r.bay = nil, nil
	r.input, r.dry, r.wet, r.output = nil, nil, nil, nil
	r.convolver, r.analyser = nil, nil
}

func (r *Reverb) link(src, dst graph.Node) {
	err := src.Connect(dst)
	if err != nil {
		r.logger.Warn("reverb: connect failed", "src", src.Kind(), "dst", dst.Kind(), "err", err)
	}
}

// regenerate renders a new response and swaps it into the convolver.
// Callers hold r.mu.
func (r *Reverb) regenerate() error {
	if r.ctx == nil {
		return nil
	}

	sr := r.ctx.SampleRate()
	data, err := irgen.GenerateIR(r.params(), sr, irgen.WithSeed(r.seed))
	if err != nil {
		return fmt.Errorf("reverb: generate response: %w", err)
	}

	buf, err := graph.BufferFromChannels(data, sr)
	if err != nil {
		return fmt.Errorf("reverb: response buffer: %w", err)
	}

	err = r.convolver.SetBuffer(buf)
	if err != nil {
		return fmt.Errorf("reverb: load response: %w", err)
	}

	return nil
}

func (r *Reverb) params() irgen.Params {
	return irgen.Params{Decay: r.decay, PreDelay: r.preset.PreDelay, Tone: r.tone}
}

// IsOpen reports whether the module graph exists.
func (r *Reverb) IsOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ctx != nil
}

// Input returns the node behind the input jack, or nil when closed.
func (r *Reverb) Input() graph.Node {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.input == nil {
		return nil
	}

	return r.input
}

// Output returns the node behind the output jack, or nil when closed.
func (r *Reverb) Output() graph.Node {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.output == nil {
		return nil
	}

	return r.output
}

// Response returns the loaded impulse response, or nil when closed.
func (r *Reverb) Response() *graph.Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.convolver == nil {
		return nil
	}

	return r.convolver.Buffer()
}
