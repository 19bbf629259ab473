package midiin

import (
	"fmt"
	"log/slog"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// HandleMessage forwards a note message to p and reports whether msg was a
// note.
func HandleMessage(p Player, msg midi.Message) bool {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		p.NoteOn(int(key))
		return true
	case msg.GetNoteEnd(&ch, &key):
		p.NoteOff(int(key))
		return true
	default:
		return false
	}
}

// Ports lists the input ports of the registered gomidi driver.
func Ports() []string {
	ports := midi.GetInPorts()
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.String()
	}

	return names
}

// Input is an open gomidi input port.
type Input struct {
	mu     sync.Mutex
	port   drivers.In
	stop   func()
	logger *slog.Logger
}

// Listen opens the first input port whose name contains name and forwards
// its notes to p. The gomidi driver must be registered by the caller.
func Listen(name string, p Player, opts ...Option) (*Input, error) {
	cfg := applyOptions(opts)

	ports := midi.GetInPorts()
	names := make([]string, len(ports))
	for i, port := range ports {
		names[i] = port.String()
	}
	idx, err := matchPort(names, name)
	if err != nil {
		return nil, err
	}

	port := ports[idx]
	in := &Input{port: port, logger: cfg.logger.With("port", port.String())}

	stop, err := midi.ListenTo(port, func(msg midi.Message, _ int32) {
		if !HandleMessage(p, msg) {
			in.logger.Debug("midi message ignored", "msg", msg.String())
		}
	}, midi.HandleError(func(err error) {
		in.logger.Warn("midi listener error", "err", err)
	}))
	if err != nil {
		return nil, fmt.Errorf("midiin: listen on %s: %w", port, err)
	}
	in.stop = stop
	in.logger.Info("midi input opened")

	return in, nil
}

// Name returns the port name.
func (in *Input) Name() string {
	return in.port.String()
}

// Close stops listening and closes the port.
func (in *Input) Close() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.stop == nil {
		return nil
	}
	in.stop()
	in.stop = nil

	return in.port.Close()
}
