package reverb

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-rack/dsp/core"
	irgen "github.com/cwbudde/algo-rack/dsp/effects/reverb"
	"github.com/cwbudde/algo-rack/dsp/graph"
	"github.com/cwbudde/algo-rack/dsp/signal"
	"github.com/cwbudde/algo-rack/patchbay"
)

const testRate = 8000

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openReverb(t *testing.T, opts ...Option) (*Reverb, *graph.Context) {
	t.Helper()

	ctx := graph.NewContext(core.WithSampleRate(testRate), core.WithBlockSize(64))
	require.NoError(t, ctx.Resume())

	r := New(append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, r.Open(ctx, nil, nil, nil))
	return r, ctx
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	r := New()
	assert.Equal(t, irgen.DefaultPreset, r.Preset().Key)
	assert.Equal(t, irgen.Params{Decay: 0.4, PreDelay: 0.005, Tone: 8000}, r.Params())
	assert.InDelta(t, DefaultMix, r.Mix(), 0)
	assert.Equal(t, "Small Room 0.4s 8.0k 50%", r.Status())

	// closed module has nothing to show
	assert.Nil(t, r.Response())
	assert.Nil(t, r.Input())
	assert.Zero(t, r.Scope(make([]byte, 16)))
	r.SetMix(0.2)
	assert.InDelta(t, 0.2, r.Mix(), 1e-12)
	require.NoError(t, r.SetDecay(2))
}

func TestOptions(t *testing.T) {
	t.Parallel()

	r := New(WithPreset("plate"), WithMix(3), WithPreset("nope"))
	assert.Equal(t, "plate", r.Preset().Key)
	assert.InDelta(t, 1, r.Mix(), 0)
	assert.InDelta(t, 12000, r.Params().Tone, 0)
}

func TestOpenWiresGraphAndJacks(t *testing.T) {
	t.Parallel()

	ctx := graph.NewContext(core.WithSampleRate(testRate))
	bay := patchbay.New(patchbay.WithLogger(quietLogger()))
	in, out := patchbay.NewSlot(0, 0), patchbay.NewSlot(0, 50)
	r := New(WithLogger(quietLogger()))

	require.ErrorIs(t, r.Open(nil, bay, in, out), ErrNoContext)
	require.NoError(t, r.Open(ctx, bay, in, out))
	require.NoError(t, r.Open(ctx, bay, in, out))

	assert.True(t, r.input.IsConnectedTo(r.dry))
	assert.True(t, r.input.IsConnectedTo(r.convolver))
	assert.True(t, r.convolver.IsConnectedTo(r.wet))
	assert.True(t, r.dry.IsConnectedTo(r.output))
	assert.True(t, r.wet.IsConnectedTo(r.output))
	assert.True(t, r.output.IsConnectedTo(r.analyser))
	assert.True(t, r.analyser.IsConnectedTo(ctx.Destination()))

	j, ok := bay.Input(InputJackID)
	require.True(t, ok)
	assert.Same(t, r.input, j.Node)
	assert.Equal(t, InputLabel, in.Title())
	j, ok = bay.Output(OutputJackID)
	require.True(t, ok)
	assert.Same(t, r.output, j.Node)
	assert.Equal(t, OutputLabel, out.Title())

	ir := r.Response()
	require.NotNil(t, ir)
	assert.Equal(t, irgen.Channels, ir.NumChannels())
	assert.Equal(t, irgen.Length(0.4, testRate), ir.Len())

	r.Close()
	r.Close()
	assert.False(t, r.IsOpen())
	assert.Empty(t, bay.Inputs())
	assert.Empty(t, bay.Outputs())
	assert.False(t, in.HasClass(patchbay.ClassJack))

	closed := graph.NewContext()
	require.NoError(t, closed.Close())
	require.ErrorIs(t, New().Open(closed, nil, nil, nil), ErrContextClosed)
}

func TestSetPresetResetsDecayAndTone(t *testing.T) {
	t.Parallel()
	r, _ := openReverb(t)

	require.NoError(t, r.SetDecay(2.5))
	require.NoError(t, r.SetTone(1000))
	assert.Equal(t, irgen.Length(2.5, testRate), r.Response().Len())

	require.NoError(t, r.SetPreset("cathedral"))
	assert.Equal(t, irgen.Params{Decay: 6, PreDelay: 0.04, Tone: 3000}, r.Params())
	assert.Equal(t, irgen.Length(6, testRate), r.Response().Len())

	err := r.SetPreset("closet")
	require.ErrorIs(t, err, ErrUnknownPreset)
	assert.Equal(t, "cathedral", r.Preset().Key)
}

func TestSettersClamp(t *testing.T) {
	t.Parallel()
	r, _ := openReverb(t)

	require.NoError(t, r.SetDecay(30))
	assert.InDelta(t, MaxDecay, r.Params().Decay, 0)
	require.NoError(t, r.SetDecay(0))
	assert.InDelta(t, MinDecay, r.Params().Decay, 0)
	assert.Equal(t, irgen.Length(MinDecay, testRate), r.Response().Len())

	require.NoError(t, r.SetTone(5))
	assert.InDelta(t, MinTone, r.Params().Tone, 0)
	require.NoError(t, r.SetTone(1e6))
	assert.InDelta(t, MaxTone, r.Params().Tone, 0)

	r.SetMix(-1)
	assert.InDelta(t, 0, r.Mix(), 0)
}

func TestNaNKeepsPreviousState(t *testing.T) {
	t.Parallel()
	r, _ := openReverb(t)

	require.NoError(t, r.SetDecay(1.5))
	require.NoError(t, r.SetTone(4000))
	r.SetMix(0.3)
	before := r.Status()

	require.ErrorIs(t, r.SetDecay(math.NaN()), ErrInvalidValue)
	require.ErrorIs(t, r.SetTone(math.NaN()), ErrInvalidValue)
	r.SetMix(math.NaN())

	assert.InDelta(t, 1.5, r.Params().Decay, 0)
	assert.InDelta(t, 4000, r.Params().Tone, 0)
	assert.InDelta(t, 0.3, r.Mix(), 0)
	assert.Equal(t, before, r.Status())
	assert.Equal(t, irgen.Length(1.5, testRate), r.Response().Len())

	require.NoError(t, r.SetTone(5000))
	assert.InDelta(t, 5000, r.Params().Tone, 0)
}

func TestRegenerateKeepsCable(t *testing.T) {
	t.Parallel()

	ctx := graph.NewContext(core.WithSampleRate(testRate), core.WithBlockSize(64))
	bay := patchbay.New(patchbay.WithLogger(quietLogger()))
	r := New(WithLogger(quietLogger()))
	require.NoError(t, r.Open(ctx, bay, nil, nil))

	src := ctx.NewGain()
	bay.RegisterOutput("src", src, "Source", nil)
	id, ok := bay.Connect("src", InputJackID)
	require.True(t, ok)

	require.NoError(t, r.SetPreset("cathedral"))
	require.NoError(t, r.SetDecay(2))
	require.NoError(t, r.SetTone(1500))

	got, ok := bay.InputCable(InputJackID)
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.True(t, src.IsConnectedTo(r.Input()))
	assert.True(t, r.input.IsConnectedTo(r.convolver))
	assert.Equal(t, irgen.Length(2, testRate), r.Response().Len())
}

func TestResponsePeakIsNormalized(t *testing.T) {
	t.Parallel()
	r, _ := openReverb(t, WithPreset("largeHall"))

	ir := r.Response()
	for ch := range ir.NumChannels() {
		peak, _ := core.PeakAbs(ir.Channel(ch))
		assert.InDelta(t, irgen.PeakLevel, peak, 1e-12)
	}
}

func TestSetMixSchedulesGains(t *testing.T) {
	t.Parallel()
	r, ctx := openReverb(t)

	r.SetMix(0.25)
	ctx.RenderBlock()

	assert.InDelta(t, 0.75, r.dry.Gain().Value(), 1e-12)
	assert.InDelta(t, 0.25, r.wet.Gain().Value(), 1e-12)
}

func TestDryPathReachesScope(t *testing.T) {
	t.Parallel()
	r, ctx := openReverb(t, WithMix(0))

	// a square oscillator at 0 Hz holds +1
	src := ctx.NewOscillator()
	src.SetWaveform(signal.WaveSquare)
	src.Frequency().SetValue(0)
	require.NoError(t, src.Connect(r.Input()))

	for range ScopeSize / ctx.BlockSize() {
		left, right := ctx.RenderBlock()
		assert.InDelta(t, 1, left[0], 1e-12)
		assert.InDelta(t, 1, right[len(right)-1], 1e-12)
	}

	samples := make([]float64, ScopeSize)
	require.Equal(t, ScopeSize, r.ScopeSamples(samples))
	for _, v := range samples {
		assert.InDelta(t, 1, v, 1e-12)
	}

	bytes := make([]byte, 8)
	require.Equal(t, 8, r.Scope(bytes))
	assert.Equal(t, byte(255), bytes[0])

	bins := make([]float64, ScopeSize/2)
	n, err := r.Spectrum(bins)
	require.NoError(t, err)
	assert.Equal(t, ScopeSize/2, n)
	assert.Greater(t, bins[0], bins[100])
}

func TestSliderMappings(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 200, ToneFromSlider(0), 0)
	assert.InDelta(t, 2000, ToneFromSlider(50), 0)
	assert.InDelta(t, 20000, ToneFromSlider(100), 0)
	assert.Equal(t, 0, ToneToSlider(200))
	assert.Equal(t, 80, ToneToSlider(8000))
	assert.Equal(t, 100, ToneToSlider(20000))

	for pos := 0; pos <= 100; pos += 10 {
		assert.Equal(t, pos, ToneToSlider(ToneFromSlider(pos)))
	}

	assert.InDelta(t, 0.4, DecayFromSlider(4), 1e-12)
	assert.Equal(t, 35, DecayToSlider(3.5))

	assert.Equal(t, "800", FormatTone(800))
	assert.Equal(t, "12.0k", FormatTone(12000))
	assert.Equal(t, "6.0s", FormatDecay(6))
	assert.Equal(t, "35%", FormatMix(0.35))
}

func TestMeasureFollowsDecay(t *testing.T) {
	t.Parallel()

	_, err := New().Measure()
	require.ErrorIs(t, err, ErrNoContext)

	small, _ := openReverb(t)
	t.Cleanup(small.Close)
	hall, _ := openReverb(t, WithPreset("cathedral"))
	t.Cleanup(hall.Close)

	ms, err := small.Measure()
	require.NoError(t, err)
	mh, err := hall.Measure()
	require.NoError(t, err)

	assert.Positive(t, ms.RT60)
	assert.Positive(t, ms.EDT)
	assert.Greater(t, mh.RT60, 3*ms.RT60)
	assert.Greater(t, mh.CenterTime, ms.CenterTime)
}
