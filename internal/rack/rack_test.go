package rack

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/filter/design"
	"github.com/cwbudde/algo-rack/dsp/graph"
	"github.com/cwbudde/algo-rack/internal/testutil"
	"github.com/cwbudde/algo-rack/modules/reverb"
	"github.com/cwbudde/algo-rack/modules/synth"
	"github.com/cwbudde/algo-rack/patchbay"
)

// heldTimers never fire, so released voices stay in their release phase.
type heldTimers struct{}

type heldTimer struct{}

func (heldTimers) AfterFunc(time.Duration, func()) synth.Timer { return heldTimer{} }

func (heldTimer) Stop() bool { return true }

func newRack(t *testing.T, sampleRate float64, opts ...Option) *Rack {
	t.Helper()

	ctx := graph.NewContext(core.WithSampleRate(sampleRate), core.WithBlockSize(64))
	require.NoError(t, ctx.Resume())

	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithScheduler(heldTimers{}),
	}
	r, err := New(ctx, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(r.Close)

	return r
}

func TestNewNilContext(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.Error(t, err)
}

func TestNewRegistersJacks(t *testing.T) {
	t.Parallel()

	r := newRack(t, 8000, WithVoices(2), WithReverbPreset("largeHall"))

	assert.Equal(t, []string{reverb.OutputJackID, synth.OutputJackID}, r.Bay.Outputs())
	assert.Equal(t, []string{reverb.InputJackID}, r.Bay.Inputs())
	assert.Equal(t, 2, r.Synth.NumVoices())
	assert.Equal(t, "largeHall", r.Reverb.Preset().Key)

	s, ok := r.Slot(synth.OutputJackID)
	require.True(t, ok)
	assert.Equal(t, synth.OutputLabel, s.Title())

	_, ok = r.Slot("nope")
	assert.False(t, ok)
}

func TestPatchReverbShowsInStatus(t *testing.T) {
	t.Parallel()

	r := newRack(t, 8000)

	id, ok := r.PatchReverb()
	require.True(t, ok)

	lines := r.Status()
	require.Len(t, lines, 3)
	assert.Equal(t, "synth:  ready", lines[0])
	assert.Contains(t, lines[1], "Small Room")
	assert.Equal(t, id+": "+synth.OutputJackID+" -> "+reverb.InputJackID, lines[2])
}

func TestKeysPlayAndEscapeCancels(t *testing.T) {
	t.Parallel()

	r := newRack(t, 8000)

	assert.True(t, r.KeyDown("a"))
	assert.Equal(t, 1, r.Synth.ActiveCount())
	assert.False(t, r.KeyDown("Escape"))

	r.Bay.StartPatching(synth.OutputJackID)
	assert.Contains(t, r.Status(), "patching from "+synth.OutputJackID)
	assert.True(t, r.KeyDown("Escape"))
	_, pending := r.Bay.Pending()
	assert.False(t, pending)

	assert.True(t, r.KeyUp("a"))
	assert.False(t, r.KeyUp("a"))
	assert.False(t, r.KeyDown("1"))
}

func TestRenderProducesSound(t *testing.T) {
	t.Parallel()

	r := newRack(t, 8000)
	buf := make([]float32, 2*512)

	r.Render(buf)
	frames := testutil.Deinterleave(buf, 2)
	testutil.RequireSilent(t, frames[0], 0)

	r.Synth.NoteOn(57)
	r.Render(buf)
	frames = testutil.Deinterleave(buf, 2)
	assert.Greater(t, testutil.Peak(frames[0]), 0.01)
	testutil.RequireFinite(t, frames[1])
}

func TestFilterResponseFollowsSynth(t *testing.T) {
	t.Parallel()

	r := newRack(t, 44100)
	r.Synth.SetCutoff(1000)

	db := r.FilterResponseDB([]float64{50, 1000, 15000, 0})
	require.Len(t, db, 4)
	assert.InDelta(t, 0, db[0], 0.1)
	assert.Less(t, db[2], -40.0)
	testutil.RequireFinite(t, db)

	r.Synth.SetFilterType(design.TypeHighpass)
	db = r.FilterResponseDB([]float64{50, 15000})
	assert.Less(t, db[0], -40.0)
	assert.InDelta(t, 0, db[1], 0.1)
}

func TestCloseUnregisters(t *testing.T) {
	t.Parallel()

	r := newRack(t, 8000)
	_, ok := r.PatchReverb()
	require.True(t, ok)

	r.Close()
	assert.Empty(t, r.Bay.Outputs())
	assert.Empty(t, r.Bay.Cables())
	assert.False(t, r.Synth.IsOpen())
}

func TestWithElementReplacesSlot(t *testing.T) {
	t.Parallel()

	el := patchbay.NewSlot(5, 5)
	r := newRack(t, 8000, WithElement(reverb.InputJackID, el), WithElement(reverb.OutputJackID, nil))

	_, ok := r.Slot(reverb.InputJackID)
	assert.True(t, ok)
	assert.Equal(t, reverb.InputLabel, el.Title())

	out, ok := r.Slot(reverb.OutputJackID)
	require.True(t, ok)
	assert.Equal(t, patchbay.Point{X: 320, Y: 200}, out.Center())

	// gestures on the supplied element reach the bay
	s, _ := r.Slot(synth.OutputJackID)
	s.Click()
	el.Click()
	_, ok = r.Bay.InputCable(reverb.InputJackID)
	assert.True(t, ok)
}
