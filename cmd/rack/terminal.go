package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	irgen "github.com/cwbudde/algo-rack/dsp/effects/reverb"
	"github.com/cwbudde/algo-rack/internal/rack"
	"github.com/cwbudde/algo-rack/modules/reverb"
	"github.com/cwbudde/algo-rack/modules/synth"
)

// Covers the usual auto-repeat delay so a held key keeps sounding.
const keyHold = 600 * time.Millisecond

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// runTerminal puts the terminal in raw mode and plays the rack from the
// keyboard until q, Ctrl-C or ctx ends.
func runTerminal(ctx context.Context, fd int, r *rack.Rack, logger *slog.Logger) error {
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(os.Stdout, "\r\n")
	}()

	g := newGate(keyHold, synth.WallClock{}, func(key string) { r.KeyUp(key) })
	defer g.ReleaseAll()

	keys := make(chan []byte)
	go readKeys(keys)

	c := &console{rack: r, gate: g, logger: logger}
	c.draw()

	for {
		select {
		case <-ctx.Done():
			return nil
		case chunk, ok := <-keys:
			if !ok {
				return nil
			}
			if !c.handle(chunk) {
				return nil
			}
			c.draw()
		}
	}
}

func readKeys(out chan<- []byte) {
	defer close(out)

	buf := make([]byte, 16)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			out <- append([]byte(nil), buf[:n]...)
		}
		if err != nil {
			return
		}
	}
}

// console maps raw key bytes to rack actions.
type console struct {
	rack   *rack.Rack
	gate   *gate
	logger *slog.Logger
}

// handle processes one read from the terminal and reports whether to keep
// running.
func (c *console) handle(chunk []byte) bool {
	if len(chunk) == 0 {
		return true
	}
	if chunk[0] == keyEscape {
		// a lone ESC is the key, longer sequences are cursor keys
		if len(chunk) == 1 {
			c.rack.KeyDown("Escape")
		}
		return true
	}

	for _, b := range chunk {
		switch b {
		case keyCtrlC, 'q':
			return false
		case '1':
			c.toggleReverb()
		case '2':
			c.nextPreset()
		default:
			key := strings.ToLower(string(rune(b)))
			if _, ok := synth.KeyOffset(key); ok {
				c.gate.Press(key)
			}
			c.rack.KeyDown(key)
		}
	}

	return true
}

func (c *console) toggleReverb() {
	bay := c.rack.Bay
	if id, ok := bay.InputCable(reverb.InputJackID); ok {
		bay.Disconnect(id)
		return
	}
	if _, ok := c.rack.PatchReverb(); !ok {
		c.logger.Warn("could not patch the reverb")
	}
}

func (c *console) nextPreset() {
	presets := irgen.Presets()
	cur := c.rack.Reverb.Preset().Key

	next := presets[0]
	for i, p := range presets {
		if p.Key == cur {
			next = presets[(i+1)%len(presets)]
			break
		}
	}

	err := c.rack.Reverb.SetPreset(next.Key)
	if err != nil {
		c.logger.Warn("preset change failed", "preset", next.Key, "err", err)
	}
}

func (c *console) draw() {
	status := c.rack.Status()
	fmt.Fprintf(os.Stdout, "\r\x1b[K[oct %d] %s", c.rack.Keyboard.Octave(), strings.Join(status, " | "))
}
