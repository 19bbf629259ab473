//go:build portmidi

package midiin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rakyll/portmidi"
)

const (
	portMIDIBuffer = 1024
	portMIDIPoll   = 2 * time.Millisecond
)

// PortMIDIPorts lists portmidi input devices.
func PortMIDIPorts() ([]string, error) {
	err := portmidi.Initialize()
	if err != nil {
		return nil, fmt.Errorf("midiin: portmidi init: %w", err)
	}
	defer portmidi.Terminate()

	names, _ := portMIDIInputs()

	return names, nil
}

func portMIDIInputs() ([]string, []portmidi.DeviceID) {
	var (
		names []string
		ids   []portmidi.DeviceID
	)
	for i := range portmidi.CountDevices() {
		id := portmidi.DeviceID(i)
		info := portmidi.Info(id)
		if info == nil || !info.IsInputAvailable {
			continue
		}
		names = append(names, info.Name)
		ids = append(ids, id)
	}

	return names, ids
}

// PortInput is an open portmidi input stream polled on its own goroutine.
type PortInput struct {
	name   string
	stream *portmidi.Stream
	logger *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	err    error
}

// ListenPortMIDI opens the first portmidi input whose name contains name
// and forwards its notes to p until Close.
func ListenPortMIDI(name string, p Player, opts ...Option) (*PortInput, error) {
	cfg := applyOptions(opts)

	err := portmidi.Initialize()
	if err != nil {
		return nil, fmt.Errorf("midiin: portmidi init: %w", err)
	}

	names, ids := portMIDIInputs()
	idx, err := matchPort(names, name)
	if err != nil {
		portmidi.Terminate()
		return nil, err
	}

	stream, err := portmidi.NewInputStream(ids[idx], portMIDIBuffer)
	if err != nil {
		portmidi.Terminate()
		return nil, fmt.Errorf("midiin: open %s: %w", names[idx], err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	in := &PortInput{
		name:   names[idx],
		stream: stream,
		logger: cfg.logger.With("port", names[idx], "backend", BackendPortMIDI),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go in.run(ctx, p)
	in.logger.Info("midi input opened")

	return in, nil
}

func (in *PortInput) run(ctx context.Context, p Player) {
	defer close(in.done)

	ticker := time.NewTicker(portMIDIPoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		ready, err := in.stream.Poll()
		if err != nil {
			in.logger.Warn("midi poll failed", "err", err)
			continue
		}
		if !ready {
			continue
		}

		events, err := in.stream.Read(portMIDIBuffer)
		if err != nil {
			in.logger.Warn("midi read failed", "err", err)
			continue
		}
		for _, e := range events {
			Dispatch(p, byte(e.Status), byte(e.Data1), byte(e.Data2))
		}
	}
}

// Name returns the device name.
func (in *PortInput) Name() string {
	return in.name
}

// Close stops polling, closes the stream and shuts portmidi down.
func (in *PortInput) Close() error {
	in.once.Do(func() {
		in.cancel()
		<-in.done
		in.err = in.stream.Close()
		portmidi.Terminate()
	})

	return in.err
}
