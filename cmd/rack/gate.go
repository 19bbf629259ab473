package main

import (
	"sync"
	"time"

	"github.com/cwbudde/algo-rack/modules/synth"
)

// gate turns the press-only key stream of a raw terminal into press and
// release pairs. A key is released once it has not been seen for hold.
// Auto-repeat keeps re-arming the timer while the key is down.
type gate struct {
	mu      sync.Mutex
	hold    time.Duration
	sched   synth.Scheduler
	release func(key string)
	open    map[string]*gateEntry
}

type gateEntry struct {
	timer synth.Timer
}

func newGate(hold time.Duration, sched synth.Scheduler, release func(key string)) *gate {
	return &gate{
		hold:    hold,
		sched:   sched,
		release: release,
		open:    make(map[string]*gateEntry),
	}
}

// Press arms or re-arms the release timer of key.
func (g *gate) Press(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.open[key]; ok {
		e.timer.Stop()
	}

	e := &gateEntry{}
	e.timer = g.sched.AfterFunc(g.hold, func() { g.expire(key, e) })
	g.open[key] = e
}

func (g *gate) expire(key string, e *gateEntry) {
	g.mu.Lock()
	if g.open[key] != e {
		// re-armed after this timer was already due
		g.mu.Unlock()
		return
	}
	delete(g.open, key)
	g.mu.Unlock()

	g.release(key)
}

// ReleaseAll releases every open key now.
func (g *gate) ReleaseAll() {
	g.mu.Lock()
	keys := make([]string, 0, len(g.open))
	for key, e := range g.open {
		e.timer.Stop()
		keys = append(keys, key)
	}
	clear(g.open)
	g.mu.Unlock()

	for _, key := range keys {
		g.release(key)
	}
}

// Open returns the number of keys currently held.
func (g *gate) Open() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.open)
}
