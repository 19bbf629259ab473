package device

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"sync"
	"time"

	"github.com/cwbudde/algo-rack/dsp/graph"
)

// Sink consumes rendered audio from a stream of interleaved stereo
// float32 little-endian samples.
type Sink interface {
	Start(src io.Reader) error
	Close() error
}

// Stream adapts a graph.Context to an io.Reader of interleaved stereo
// float32 little-endian samples.
type Stream struct {
	ctx *graph.Context
	buf []float32
}

// NewStream returns a reader that renders ctx on demand.
func NewStream(ctx *graph.Context) *Stream {
	return &Stream{ctx: ctx}
}

// Read renders whole stereo frames into p. It never blocks and never
// returns an error; p shorter than one frame yields 0 bytes.
func (s *Stream) Read(p []byte) (int, error) {
	const frameBytes = 8

	frames := len(p) / frameBytes
	samples := frames * 2
	if cap(s.buf) < samples {
		s.buf = make([]float32, samples)
	}
	buf := s.buf[:samples]

	s.ctx.Render(buf)
	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(v))
	}

	return frames * frameBytes, nil
}

// NullSink pulls audio at real-time pace and discards it. It keeps the
// context clock moving on machines without an audio device.
type NullSink struct {
	period time.Duration
	chunk  int // bytes per period

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	frames int64
}

// NewNullSink returns a sink that reads sampleRate*period frames every period.
func NewNullSink(sampleRate float64, period time.Duration) *NullSink {
	frames := max(1, int(sampleRate*period.Seconds()))
	return &NullSink{period: period, chunk: frames * 8}
}

// Start begins pulling from src in a goroutine.
func (n *NullSink) Start(src io.Reader) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	n.done = make(chan struct{})

	go n.run(ctx, src)

	return nil
}

func (n *NullSink) run(ctx context.Context, src io.Reader) {
	defer close(n.done)

	ticker := time.NewTicker(n.period)
	defer ticker.Stop()

	buf := make([]byte, n.chunk)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			read, _ := src.Read(buf)
			n.mu.Lock()
			n.frames += int64(read / 8)
			n.mu.Unlock()
		}
	}
}

// Frames returns the number of frames consumed so far.
func (n *NullSink) Frames() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.frames
}

// Close stops the pulling goroutine and waits for it to exit.
func (n *NullSink) Close() error {
	n.mu.Lock()
	cancel, done := n.cancel, n.done
	n.cancel = nil
	n.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	return nil
}
