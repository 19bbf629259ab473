package synth

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cwbudde/algo-rack/dsp/graph"
	"github.com/cwbudde/algo-rack/patchbay"
)

const (
	// DefaultVoices is the default polyphony.
	DefaultVoices = 4
	// OutputJackID is the patch-bay id of the synth output.
	OutputJackID = "synth-out"
	// OutputLabel is the tooltip of the output jack.
	OutputLabel = "Synth Output"
)

var (
	ErrNoContext     = errors.New("synth: no audio context")
	ErrContextClosed = errors.New("synth: audio context is closed")
)

// Option configures a Synth.
type Option func(*Synth)

// WithVoices sets the polyphony. Values below 1 are ignored.
func WithVoices(n int) Option {
	return func(s *Synth) {
		if n > 0 {
			s.numVoices = n
		}
	}
}

// WithParams sets the initial patch.
func WithParams(p Params) Option {
	return func(s *Synth) {
		s.params = p.clamped()
	}
}

// WithScheduler sets the scheduler used to free released voices.
func WithScheduler(sched Scheduler) Option {
	return func(s *Synth) {
		if sched != nil {
			s.sched = sched
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Synth) {
		if l != nil {
			s.logger = l
		}
	}
}

type voice struct {
	osc    *graph.Oscillator
	filter *graph.BiquadFilter
	vca    *graph.Gain

	note      int // -1 when free
	age       uint64
	releasing bool
	release   Timer
}

func (v *voice) stopRelease() {
	if v.release != nil {
		v.release.Stop()
		v.release = nil
	}
}

// VoiceState is a snapshot of one voice.
type VoiceState struct {
	Index     int
	Note      int
	Age       uint64
	Releasing bool
}

// Free reports whether the voice has no note assigned.
func (v VoiceState) Free() bool { return v.Note < 0 }

// Synth is a polyphonic synthesizer with a fixed voice pool.
type Synth struct {
	mu sync.Mutex

	numVoices int
	params    Params
	sched     Scheduler
	logger    *slog.Logger

	ctx    *graph.Context
	bay    *patchbay.Bay
	voices []*voice
	active map[int]int // note -> voice index

	// ages increase for the lifetime of the Synth, across Open/Close.
	ageCounter uint64
	lastNote   int

	master  *graph.Gain
	output  *graph.Gain
	lfo     *graph.Oscillator
	lfoGain *graph.Gain
}

// New creates a closed synth.
func New(opts ...Option) *Synth {
	s := &Synth{
		numVoices: DefaultVoices,
		params:    DefaultParams(),
		sched:     WallClock{},
		logger:    slog.Default(),
		active:    make(map[int]int),
		lastNote:  -1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Open builds the voice graph in ctx, routes it to the context destination
// and registers the output jack with bay. bay and el may be nil. Opening an
// open synth is a no-op.
func (s *Synth) Open(ctx *graph.Context, bay *patchbay.Bay, el patchbay.Element) error {
	if ctx == nil {
		return ErrNoContext
	}
	if ctx.State() == graph.StateClosed {
		return ErrContextClosed
	}

	s.mu.Lock()
	if s.ctx != nil {
		s.mu.Unlock()
		return nil
	}

	s.ctx = ctx
	s.bay = bay
	p := s.params

	s.master = ctx.NewGain()
	s.master.Gain().SetValue(p.Volume)
	s.output = ctx.NewGain()
	s.link(s.master, s.output)
	s.link(s.output, ctx.Destination())

	s.voices = make([]*voice, s.numVoices)
	for i := range s.voices {
		v := &voice{
			osc:    ctx.NewOscillator(),
			filter: ctx.NewBiquadFilter(),
			vca:    ctx.NewGain(),
			note:   -1,
		}
		v.osc.SetWaveform(p.Waveform)
		v.osc.Detune().SetValue(p.Detune)
		v.filter.SetType(p.FilterType)
		v.filter.Frequency().SetValue(p.Cutoff)
		v.filter.Q().SetValue(p.Resonance)
		v.vca.Gain().SetValue(0)

		s.link(v.osc, v.filter)
		s.link(v.filter, v.vca)
		s.link(v.vca, s.master)
		s.voices[i] = v
	}

	s.lfo = ctx.NewOscillator()
	s.lfo.SetWaveform(p.LFOShape)
	s.lfo.Frequency().SetValue(p.LFORate)
	s.lfoGain = ctx.NewGain()
	s.lfoGain.Gain().SetValue(p.LFODepth)
	s.link(s.lfo, s.lfoGain)
	s.routeLFO()

	output := s.output
	s.mu.Unlock()

	if bay != nil {
		bay.RegisterOutput(OutputJackID, output, OutputLabel, el)
	}
	s.logger.Debug("synth opened", "voices", s.numVoices, "sample_rate", ctx.SampleRate())

	return nil
}

// Close releases every note, removes the output jack and tears down the
// graph. The synth can be opened again afterwards.
func (s *Synth) Close() {
	s.AllNotesOff()

	s.mu.Lock()
	if s.ctx == nil {
		s.mu.Unlock()
		return
	}

	bay := s.bay
	for _, v := range s.voices {
		v.stopRelease()
		v.osc.DisconnectAll()
		v.filter.DisconnectAll()
		v.vca.DisconnectAll()
	}
	s.lfo.DisconnectAll()
	s.lfoGain.DisconnectAll()
	s.master.DisconnectAll()
	s.output.DisconnectAll()

	s.voices = nil
	clear(s.active)
	s.lastNote = -1
	s.ctx, s.bay = nil, nil
	s.master, s.output, s.lfo, s.lfoGain = nil, nil, nil, nil
	s.mu.Unlock()

	if bay != nil {
		bay.UnregisterOutput(OutputJackID)
	}
	s.logger.Debug("synth closed")
}

// IsOpen reports whether the voice graph exists.
func (s *Synth) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ctx != nil
}

// Output returns the node behind the output jack, or nil when closed.
func (s *Synth) Output() graph.Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.output == nil {
		return nil
	}

	return s.output
}

func (s *Synth) link(src, dst graph.Node) {
	err := src.Connect(dst)
	if err != nil {
		s.logger.Warn("synth: connect failed", "src", src.Kind(), "dst", dst.Kind(), "err", err)
	}
}

// routeLFO rebuilds the LFO fan-out for the current target.
func (s *Synth) routeLFO() {
	if s.lfoGain == nil {
		return
	}

	s.lfoGain.DisconnectAll()
	for _, v := range s.voices {
		target := v.filter.Frequency()
		if s.params.LFOTarget == TargetPitch {
			target = v.osc.Detune()
		}

		err := s.lfoGain.ConnectParam(target)
		if err != nil {
			s.logger.Warn("synth: LFO routing failed", "target", s.params.LFOTarget, "err", err)
		}
	}
}

// ActiveCount returns the number of voices holding a note, including
// voices in their release phase.
func (s *Synth) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.activeCount()
}

func (s *Synth) activeCount() int {
	n := 0
	for _, v := range s.voices {
		if v.note >= 0 {
			n++
		}
	}

	return n
}

// NumVoices returns the pool size.
func (s *Synth) NumVoices() int {
	return s.numVoices
}

// Voices returns a snapshot of the pool. It is empty while closed.
func (s *Synth) Voices() []VoiceState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]VoiceState, len(s.voices))
	for i, v := range s.voices {
		out[i] = VoiceState{Index: i, Note: v.note, Age: v.age, Releasing: v.releasing}
	}

	return out
}

// Status returns a one-line summary like "C4 | 2/4 voices" naming the last
// note played, or "ready" when no voice is sounding.
func (s *Synth) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.activeCount()
	if n == 0 || s.lastNote < 0 {
		return "ready"
	}

	return fmt.Sprintf("%s | %d/%d voices", NoteName(s.lastNote), n, s.numVoices)
}
