// Package device owns the rack's shared audio context. The context is
// created lazily on first use and resumed on demand; once running, an output
// sink pulls rendered frames from it.
package device

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/graph"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("device: closed")

// SinkFactory opens the output sink for a context configuration.
type SinkFactory func(cfg core.ProcessorConfig, logger *slog.Logger) (Sink, error)

// Option configures a Device.
type Option func(*Device)

// WithProcessorOptions sets the sample rate and block size of the context.
func WithProcessorOptions(opts ...core.ProcessorOption) Option {
	return func(d *Device) {
		d.procOpts = append(d.procOpts, opts...)
	}
}

// WithSink uses s as the output instead of the platform default.
func WithSink(s Sink) Option {
	return func(d *Device) {
		d.newSink = func(core.ProcessorConfig, *slog.Logger) (Sink, error) { return s, nil }
	}
}

// WithSinkFactory sets the function that opens the output sink.
func WithSinkFactory(f SinkFactory) Option {
	return func(d *Device) {
		if f != nil {
			d.newSink = f
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Device) {
		if l != nil {
			d.logger = l
		}
	}
}

// Device lazily creates one graph.Context and connects it to a Sink.
type Device struct {
	mu sync.Mutex

	procOpts []core.ProcessorOption
	newSink  SinkFactory
	logger   *slog.Logger

	ctx    *graph.Context
	sink   Sink
	closed bool
}

// New returns a device without a context. Nothing is opened until
// Context or Resume is called.
func New(opts ...Option) *Device {
	d := &Device{
		newSink: NewDefaultSink,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Context returns the shared context, creating it suspended on first call.
// It returns nil after Close.
func (d *Device) Context() *graph.Context {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.contextLocked()
}

func (d *Device) contextLocked() *graph.Context {
	if d.closed {
		return nil
	}
	if d.ctx == nil {
		d.ctx = graph.NewContext(d.procOpts...)
		cfg := d.ctx.Config()
		d.logger.Debug("audio context created",
			"sample_rate", cfg.SampleRate,
			"block_size", cfg.BlockSize)
	}
	return d.ctx
}

// Existing returns the context if it has been created, without creating it.
func (d *Device) Existing() *graph.Context {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	return d.ctx
}

// Resume creates the context if needed, opens the sink on first resume and
// then starts the clock. A sink failure leaves the context suspended.
func (d *Device) Resume() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx := d.contextLocked()
	if ctx == nil {
		return ErrClosed
	}

	if ctx.State() == graph.StateRunning && d.sink != nil {
		return nil
	}

	if d.sink == nil {
		sink, err := d.newSink(ctx.Config(), d.logger)
		if err != nil {
			return fmt.Errorf("device: open sink: %w", err)
		}
		if err := sink.Start(NewStream(ctx)); err != nil {
			return errors.Join(fmt.Errorf("device: start sink: %w", err), sink.Close())
		}
		d.sink = sink
		d.logger.Info("audio output started", "sink", fmt.Sprintf("%T", sink))
	}

	if err := ctx.Resume(); err != nil {
		return fmt.Errorf("device: resume: %w", err)
	}

	return nil
}

// Suspend stops the context clock. The sink keeps pulling silence.
func (d *Device) Suspend() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.ctx == nil {
		return nil
	}
	return d.ctx.Suspend()
}

// Running reports whether the context exists and is running.
func (d *Device) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.ctx != nil && d.ctx.State() == graph.StateRunning
}

// Close stops the sink and closes the context.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	if d.sink != nil {
		errs = append(errs, d.sink.Close())
		d.sink = nil
	}
	if d.ctx != nil {
		errs = append(errs, d.ctx.Close())
	}

	return errors.Join(errs...)
}
