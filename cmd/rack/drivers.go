//go:build cgo

package main

// Registers the RtMidi driver with gomidi so midiin can list ports.
import _ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
