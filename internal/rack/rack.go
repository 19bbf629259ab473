// Package rack assembles the patch bay, the synth and the reverb on one
// audio context. The terminal host and the browser bridge both drive it.
package rack

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-rack/dsp/filter/design"
	"github.com/cwbudde/algo-rack/dsp/graph"
	"github.com/cwbudde/algo-rack/modules/reverb"
	"github.com/cwbudde/algo-rack/modules/synth"
	"github.com/cwbudde/algo-rack/patchbay"
)

// Jack positions in the default layout.
var layout = map[string]patchbay.Point{
	synth.OutputJackID:  {X: 40, Y: 200},
	reverb.InputJackID:  {X: 320, Y: 120},
	reverb.OutputJackID: {X: 320, Y: 200},
}

type config struct {
	voices       int
	reverbPreset string
	scheduler    synth.Scheduler
	bayOpts      []patchbay.Option
	elements     map[string]patchbay.Element
	logger       *slog.Logger
}

// Option configures a Rack.
type Option func(*config)

func WithVoices(n int) Option {
	return func(c *config) { c.voices = n }
}

func WithReverbPreset(key string) Option {
	return func(c *config) { c.reverbPreset = key }
}

// WithScheduler sets the timer source for synth note releases.
func WithScheduler(s synth.Scheduler) Option {
	return func(c *config) { c.scheduler = s }
}

// WithBayOptions passes options such as an overlay to the patch bay.
func WithBayOptions(opts ...patchbay.Option) Option {
	return func(c *config) { c.bayOpts = append(c.bayOpts, opts...) }
}

// WithElement places jack id on a host element instead of a headless
// slot from the default layout.
func WithElement(id string, el patchbay.Element) Option {
	return func(c *config) {
		if el == nil {
			return
		}
		if c.elements == nil {
			c.elements = make(map[string]patchbay.Element)
		}
		c.elements[id] = el
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Rack is the running set of modules.
type Rack struct {
	Bay      *patchbay.Bay
	Synth    *synth.Synth
	Reverb   *reverb.Reverb
	Keyboard *synth.Keyboard

	ctx      *graph.Context
	elements map[string]patchbay.Element
	logger   *slog.Logger
}

// New opens both modules on ctx and registers their jacks.
func New(ctx *graph.Context, opts ...Option) (*Rack, error) {
	if ctx == nil {
		return nil, errors.New("rack: nil audio context")
	}

	cfg := config{voices: synth.DefaultVoices, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	r := &Rack{
		ctx:      ctx,
		elements: make(map[string]patchbay.Element, len(layout)),
		logger:   cfg.logger,
	}
	for id, p := range layout {
		if el, ok := cfg.elements[id]; ok {
			r.elements[id] = el
			continue
		}
		r.elements[id] = patchbay.NewSlot(p.X, p.Y)
	}

	r.Bay = patchbay.New(append([]patchbay.Option{patchbay.WithLogger(cfg.logger)}, cfg.bayOpts...)...)

	synthOpts := []synth.Option{synth.WithVoices(cfg.voices), synth.WithLogger(cfg.logger)}
	if cfg.scheduler != nil {
		synthOpts = append(synthOpts, synth.WithScheduler(cfg.scheduler))
	}
	r.Synth = synth.New(synthOpts...)
	r.Keyboard = synth.NewKeyboard(r.Synth)

	r.Reverb = reverb.New(reverb.WithPreset(cfg.reverbPreset), reverb.WithLogger(cfg.logger))

	err := r.Synth.Open(ctx, r.Bay, r.elements[synth.OutputJackID])
	if err != nil {
		return nil, fmt.Errorf("rack: open synth: %w", err)
	}
	err = r.Reverb.Open(ctx, r.Bay, r.elements[reverb.InputJackID], r.elements[reverb.OutputJackID])
	if err != nil {
		r.Synth.Close()
		return nil, fmt.Errorf("rack: open reverb: %w", err)
	}

	return r, nil
}

// Context returns the audio context the modules run on.
func (r *Rack) Context() *graph.Context {
	return r.ctx
}

// Slot returns the headless slot behind a jack id. It reports false for
// unknown ids and for jacks placed on host elements.
func (r *Rack) Slot(id string) (*patchbay.Slot, bool) {
	s, ok := r.elements[id].(*patchbay.Slot)
	return s, ok
}

// PatchReverb cables the synth into the reverb.
func (r *Rack) PatchReverb() (string, bool) {
	return r.Bay.Connect(synth.OutputJackID, reverb.InputJackID)
}

// Render pulls interleaved stereo frames from the context.
func (r *Rack) Render(dst []float32) {
	r.ctx.Render(dst)
}

// KeyDown routes a key press: Escape cancels patching, the rest play the
// synth. It reports whether the key was used.
func (r *Rack) KeyDown(key string) bool {
	if key == "Escape" {
		_, pending := r.Bay.Pending()
		r.Bay.KeyDown(key)
		return pending
	}

	return r.Keyboard.KeyDown(key)
}

// KeyUp releases a played key.
func (r *Rack) KeyUp(key string) bool {
	return r.Keyboard.KeyUp(key)
}

// FilterResponseDB returns the magnitude response of the synth voice filter
// at its resting cutoff, in dB, for each frequency.
func (r *Rack) FilterResponseDB(freqs []float64) []float64 {
	p := r.Synth.Params()
	sr := r.ctx.SampleRate()
	coeffs := design.Design(p.FilterType, p.Cutoff, p.Resonance, sr)

	out := make([]float64, len(freqs))
	for i, f := range freqs {
		f = math.Min(math.Max(f, 1), sr*0.49)
		out[i] = coeffs.MagnitudeDB(f, sr)
	}

	return out
}

// Status returns one line per module.
func (r *Rack) Status() []string {
	lines := []string{
		"synth:  " + r.Synth.Status(),
		"reverb: " + r.Reverb.Status(),
	}
	for _, c := range r.Bay.Cables() {
		lines = append(lines, fmt.Sprintf("%s: %s -> %s", c.ID, c.OutputID, c.InputID))
	}
	if out, ok := r.Bay.Pending(); ok {
		lines = append(lines, "patching from "+out)
	}

	return lines
}

// Close releases every note and closes both modules.
func (r *Rack) Close() {
	r.Bay.CancelPatching()
	r.Synth.Close()
	r.Reverb.Close()
}
