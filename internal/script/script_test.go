package script

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/filter/design"
	"github.com/cwbudde/algo-rack/dsp/graph"
	"github.com/cwbudde/algo-rack/dsp/signal"
	"github.com/cwbudde/algo-rack/modules/reverb"
	"github.com/cwbudde/algo-rack/modules/synth"
	"github.com/cwbudde/algo-rack/patchbay"
)

type sleepLog struct {
	mu    sync.Mutex
	total time.Duration
}

func (s *sleepLog) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	s.total += d
	s.mu.Unlock()
	return nil
}

type rig struct {
	engine *Engine
	bay    *patchbay.Bay
	synth  *synth.Synth
	reverb *reverb.Reverb
	sleeps *sleepLog
	logs   *bytes.Buffer
}

func newRig(t *testing.T) *rig {
	t.Helper()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := graph.NewContext(core.WithSampleRate(8000), core.WithBlockSize(64))
	require.NoError(t, ctx.Resume())

	r := &rig{
		bay:    patchbay.New(patchbay.WithLogger(quiet)),
		synth:  synth.New(synth.WithLogger(quiet)),
		reverb: reverb.New(reverb.WithLogger(quiet)),
		sleeps: &sleepLog{},
		logs:   &bytes.Buffer{},
	}
	require.NoError(t, r.synth.Open(ctx, r.bay, nil))
	require.NoError(t, r.reverb.Open(ctx, r.bay, nil, nil))
	t.Cleanup(r.synth.Close)

	r.engine = New(
		WithBay(r.bay),
		WithSynth(r.synth),
		WithReverb(r.reverb),
		WithSleeper(r.sleeps.sleep),
		WithLogger(slog.New(slog.NewTextHandler(r.logs, nil))),
	)
	return r
}

func TestPatchingFromLua(t *testing.T) {
	t.Parallel()
	r := newRig(t)

	err := r.engine.RunString(context.Background(), "patch", `
		local id = rack.connect("synth-out", "rv-in")
		assert(id == "cable-1", "unexpected cable id " .. tostring(id))
		assert(rack.connect("nope", "rv-in") == nil)

		local outs = rack.outputs()
		assert(#outs == 2 and outs[1] == "rv-out" and outs[2] == "synth-out")
		assert(rack.inputs()[1] == "rv-in")

		local cables = rack.cables()
		assert(#cables == 1)
		assert(cables[1].output == "synth-out" and cables[1].input == "rv-in")
		print("patched", cables[1].id)
	`)
	require.NoError(t, err)

	cables := r.bay.Cables()
	require.Len(t, cables, 1)
	assert.Equal(t, "synth-out", cables[0].OutputID)
	assert.Contains(t, r.logs.String(), "patched cable-1")

	require.NoError(t, r.engine.RunString(context.Background(), "unplug", `rack.unplug("rv-in")`))
	assert.Empty(t, r.bay.Cables())
}

func TestSynthFromLua(t *testing.T) {
	t.Parallel()
	r := newRig(t)

	err := r.engine.RunString(context.Background(), "synth", `
		synth.set("waveform", "square")
		synth.set("filter", "highpass")
		synth.set("cutoff", 1200)
		synth.set("octave", -1)
		synth.set("lfo_target", "pitch")
		synth.set("lfo_shape", "triangle")
		synth.set("release", 0.5)
		assert(synth.get("cutoff") == 1200)
		assert(synth.get("waveform") == "square")

		synth.note_on(60)
		synth.note_on(64)
		rack.sleep(0.25)
		assert(synth.status() == "E4 | 2/4 voices", synth.status())
		synth.note_off(60)
		synth.all_off()
	`)
	require.NoError(t, err)

	p := r.synth.Params()
	assert.Equal(t, signal.WaveSquare, p.Waveform)
	assert.Equal(t, design.TypeHighpass, p.FilterType)
	assert.InDelta(t, 1200, p.Cutoff, 0)
	assert.Equal(t, -1, p.Octave)
	assert.Equal(t, synth.TargetPitch, p.LFOTarget)
	assert.Equal(t, signal.WaveTriangle, p.LFOShape)
	assert.InDelta(t, 0.5, p.Release, 0)
	assert.Equal(t, 250*time.Millisecond, r.sleeps.total)

	for _, v := range r.synth.Voices()[:2] {
		assert.True(t, v.Releasing)
	}
}

func TestReverbFromLua(t *testing.T) {
	t.Parallel()
	r := newRig(t)

	err := r.engine.RunString(context.Background(), "reverb", `
		reverb.preset("plate")
		reverb.set("decay", 3)
		reverb.set("mix", 0.3)
		assert(reverb.status() == "Plate 3.0s 12.0k 30%", reverb.status())
		local m = reverb.measure()
		assert(m.rt60 > 0 and m.edt > 0, "no decay measured")
		assert(m.d50 >= 0 and m.d50 <= 1, "d50 out of range")
	`)
	require.NoError(t, err)
	assert.Equal(t, "plate", r.reverb.Preset().Key)

	err = r.engine.RunString(context.Background(), "bad preset", `reverb.preset("closet")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preset")
}

func TestScriptErrors(t *testing.T) {
	t.Parallel()
	r := newRig(t)
	ctx := context.Background()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"parse", `rack.connect(`, "syntax error"},
		{"synth param", `synth.set("warmth", 1)`, "unknown synth parameter warmth"},
		{"waveform", `synth.set("waveform", "noise")`, `"noise"`},
		{"reverb param", `reverb.set("size", 1)`, "unknown reverb parameter size"},
		{"sandbox", `io.open("x")`, "attempt to index"},
	}
	for _, tc := range tests {
		err := r.engine.RunString(ctx, tc.name, tc.src)
		require.Error(t, err, tc.name)
		assert.Contains(t, err.Error(), tc.want, tc.name)
	}
}

func TestMissingModules(t *testing.T) {
	t.Parallel()

	e := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	for _, src := range []string{`rack.outputs()`, `synth.note_on(60)`, `reverb.status()`} {
		err := e.RunString(context.Background(), "missing", src)
		require.Error(t, err, src)
		assert.Contains(t, err.Error(), "module not available", src)
	}
}

func TestSleepHonorsCancellation(t *testing.T) {
	t.Parallel()

	e := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := e.RunString(ctx, "long", `rack.sleep(30)`)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunFile(t *testing.T) {
	t.Parallel()
	r := newRig(t)

	path := filepath.Join(t.TempDir(), "demo.lua")
	require.NoError(t, os.WriteFile(path, []byte(`rack.connect("synth-out", "rv-in")`), 0o600))

	require.NoError(t, r.engine.RunFile(context.Background(), path))
	assert.Len(t, r.bay.Cables(), 1)

	err := r.engine.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua"))
	require.Error(t, err)
}
