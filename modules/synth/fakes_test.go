package synth

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/graph"
)

// manualClock is a Scheduler driven by Advance.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer

	// ignoreStop simulates a task that was already running when Stop came.
	ignoreStop bool
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (c *manualClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &manualTimer{clock: c, at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	if !t.clock.ignoreStop {
		t.stopped = true
	}
	return true
}

// Advance moves the clock forward and runs every task that came due.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.fired && !t.stopped && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

// Pending returns the number of tasks that have neither run nor been stopped.
func (c *manualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runningContext(t *testing.T) *graph.Context {
	t.Helper()

	ctx := graph.NewContext(core.WithSampleRate(8000), core.WithBlockSize(64))
	require.NoError(t, ctx.Resume())
	return ctx
}

// openSynth returns an open synth on a running context with a manual clock.
func openSynth(t *testing.T, opts ...Option) (*Synth, *manualClock, *graph.Context) {
	t.Helper()

	clock := &manualClock{}
	ctx := runningContext(t)
	s := New(append([]Option{WithScheduler(clock), WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, s.Open(ctx, nil, nil))
	return s, clock, ctx
}

func notes(vs []VoiceState) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = v.Note
	}
	return out
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) NoteOn(n int)  { r.add("on " + NoteName(n)) }
func (r *recorder) NoteOff(n int) { r.add("off " + NoteName(n)) }
func (r *recorder) AllNotesOff()  { r.add("all off") }
