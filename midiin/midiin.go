// Package midiin feeds MIDI note messages from hardware ports to a note
// player. Two backends are available: gomidi ports and portmidi streams.
package midiin

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Player receives decoded notes.
type Player interface {
	NoteOn(note int)
	NoteOff(note int)
}

// Backend names accepted by Open.
const (
	BackendGoMIDI   = "gomidi"
	BackendPortMIDI = "portmidi"
	BackendNone     = "none"
)

var (
	ErrNoPorts        = errors.New("midiin: no MIDI input ports")
	ErrPortNotFound   = errors.New("midiin: MIDI input port not found")
	ErrUnknownBackend = errors.New("midiin: unknown backend")
)

const (
	statusNoteOff = 0x80
	statusNoteOn  = 0x90
)

// Dispatch decodes one raw channel message. A note-on with velocity 0 is a
// note-off. The channel is ignored. It reports whether the message was a
// note.
func Dispatch(p Player, status, data1, data2 byte) bool {
	switch status & 0xf0 {
	case statusNoteOn:
		if data2 > 0 {
			p.NoteOn(int(data1))
		} else {
			p.NoteOff(int(data1))
		}
		return true
	case statusNoteOff:
		p.NoteOff(int(data1))
		return true
	default:
		return false
	}
}

type config struct {
	logger *slog.Logger
}

// Option configures an input.
type Option func(*config)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// matchPort returns the index of the first name containing want, case
// insensitively. An empty want matches the first port.
func matchPort(names []string, want string) (int, error) {
	if len(names) == 0 {
		return -1, ErrNoPorts
	}
	if want == "" {
		return 0, nil
	}

	want = strings.ToLower(want)
	for i, n := range names {
		if strings.Contains(strings.ToLower(n), want) {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: %q", ErrPortNotFound, want)
}

// Open starts listening on backend for the port matching name.
func Open(backend, name string, p Player, opts ...Option) (io.Closer, error) {
	var (
		c   io.Closer
		err error
	)
	switch backend {
	case BackendGoMIDI, "":
		var in *Input
		in, err = Listen(name, p, opts...)
		c = in
	case BackendPortMIDI:
		var in *PortInput
		in, err = ListenPortMIDI(name, p, opts...)
		c = in
	case BackendNone:
		return nopCloser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	if err != nil {
		return nil, err
	}

	return c, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
