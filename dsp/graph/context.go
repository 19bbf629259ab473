package graph

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-rack/dsp/core"
)

// State is the lifecycle state of a Context.
type State int

const (
	StateSuspended State = iota
	StateRunning
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// numChannels is the channel count of every node buffer.
const numChannels = 2

// Context owns a signal graph and its clock. A new context is suspended:
// Render produces silence and the clock stands still until Resume.
type Context struct {
	mu sync.Mutex

	cfg   core.ProcessorConfig
	state State

	// frames rendered while running
	frames int64

	// id of the block being rendered; node caches compare against it
	renderID uint64

	dest *Destination

	// interleaving cursor into the last rendered destination block
	outPos int
}

// NewContext creates a suspended context. The block size is rounded up to a
// power of two so convolvers can partition on it.
func NewContext(opts ...core.ProcessorOption) *Context {
	cfg := core.ApplyProcessorOptions(opts...)
	cfg.BlockSize = nextPowerOf2(cfg.BlockSize)

	c := &Context{cfg: cfg}
	c.dest = newDestination(c)
	c.outPos = cfg.BlockSize

	return c
}

// SampleRate returns the context sample rate in Hz.
func (c *Context) SampleRate() float64 {
	return c.cfg.SampleRate
}

// BlockSize returns the render quantum in frames.
func (c *Context) BlockSize() int {
	return c.cfg.BlockSize
}

// Config returns the processor configuration of the context.
func (c *Context) Config() core.ProcessorConfig {
	return c.cfg
}

// Destination returns the node whose input is the context output.
func (c *Context) Destination() *Destination {
	return c.dest
}

// State returns the current lifecycle state.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Resume starts the clock.
func (c *Context) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return ErrClosed
	}
	c.state = StateRunning

	return nil
}

// Suspend stops the clock. Render outputs silence while suspended.
func (c *Context) Suspend() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return ErrClosed
	}
	c.state = StateSuspended

	return nil
}

// Close permanently stops the context. Closing twice is a no-op.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateClosed

	return nil
}

// CurrentTime returns the context time in seconds: the start time of the
// next block to be rendered.
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now()
}

func (c *Context) now() float64 {
	return float64(c.frames) / c.cfg.SampleRate
}

// Render fills dst with interleaved stereo float32 frames pulled from the
// destination. A trailing odd sample is zeroed. Frames are produced in
// blocks of BlockSize; partial blocks carry over between calls.
func (c *Context) Render(dst []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRunning {
		clear(dst)
		return
	}

	frames := len(dst) / numChannels
	out := c.dest.out

	for f := range frames {
		if c.outPos >= c.cfg.BlockSize {
			c.renderBlock()
			c.outPos = 0
		}
		dst[2*f] = float32(out[0][c.outPos])
		dst[2*f+1] = float32(out[1][c.outPos])
		c.outPos++
	}

	if len(dst)%numChannels != 0 {
		dst[len(dst)-1] = 0
	}
}

// RenderBlock renders exactly one block and returns copies of the left and
// right destination channels. It ignores the interleaving cursor of Render
// and is meant for offline use and tests.
func (c *Context) RenderBlock() (left, right []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRunning {
		return make([]float64, c.cfg.BlockSize), make([]float64, c.cfg.BlockSize)
	}

	c.renderBlock()
	c.outPos = c.cfg.BlockSize

	return append([]float64(nil), c.dest.out[0]...), append([]float64(nil), c.dest.out[1]...)
}

func (c *Context) renderBlock() {
	c.renderID++
	rs := renderState{
		id:    c.renderID,
		start: c.frames,
		sr:    c.cfg.SampleRate,
		n:     c.cfg.BlockSize,
	}

	c.pull(c.dest.nodeBase, rs)
	c.frames += int64(c.cfg.BlockSize)
}

// renderState describes the block being rendered.
type renderState struct {
	id    uint64
	start int64 // first frame of the block
	sr    float64
	n     int
}

func (rs renderState) time(i int) float64 {
	return float64(rs.start+int64(i)) / rs.sr
}

// pull renders n for the current block, once per block. A node that is
// reached again while rendering its own inputs belongs to a cycle and
// contributes silence on that edge.
func (c *Context) pull(n *nodeBase, rs renderState) *[numChannels][]float64 {
	if n.renderedAt == rs.id {
		return &n.out
	}
	if n.visiting {
		return nil
	}

	n.visiting = true
	defer func() { n.visiting = false }()

	for ch := range n.in {
		clear(n.in[ch])
	}
	for _, src := range n.inputs {
		buf := c.pull(src, rs)
		if buf == nil {
			continue
		}
		for ch := range n.in {
			core.AddInto(n.in[ch], buf[ch])
		}
	}

	n.proc.process(rs, &n.in, &n.out)
	n.renderedAt = rs.id

	return &n.out
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
