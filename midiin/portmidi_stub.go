//go:build !portmidi

package midiin

import "errors"

// ErrPortMIDIUnavailable is returned when the binary was built without the
// portmidi tag.
var ErrPortMIDIUnavailable = errors.New("midiin: built without portmidi support (use -tags portmidi)")

// PortInput is unavailable in this build.
type PortInput struct{}

func PortMIDIPorts() ([]string, error) {
	return nil, ErrPortMIDIUnavailable
}

func ListenPortMIDI(string, Player, ...Option) (*PortInput, error) {
	return nil, ErrPortMIDIUnavailable
}

func (*PortInput) Name() string { return "" }

func (*PortInput) Close() error { return nil }
