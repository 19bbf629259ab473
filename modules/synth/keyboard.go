package synth

import (
	"strings"
	"sync"

	"github.com/cwbudde/algo-rack/dsp/core"
)

// KeyboardKeys lists the computer keys that play notes, lowest first. The
// home row plays the white keys and the row above plays the black keys.
const KeyboardKeys = "awsedftgyhujkolp;"

const (
	DefaultKeyboardOctave = 3
	MinKeyboardOctave     = 0
	MaxKeyboardOctave     = 7
)

// NotePlayer receives note events.
type NotePlayer interface {
	NoteOn(note int)
	NoteOff(note int)
	AllNotesOff()
}

// Keyboard turns computer key presses into notes.
type Keyboard struct {
	mu     sync.Mutex
	player NotePlayer
	octave int
	held   map[string]int // key -> note started by it
}

// NewKeyboard creates a keyboard playing p at the default octave.
func NewKeyboard(p NotePlayer) *Keyboard {
	return &Keyboard{
		player: p,
		octave: DefaultKeyboardOctave,
		held:   make(map[string]int),
	}
}

// KeyOffset returns the semitone offset of key within the keyboard.
func KeyOffset(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	i := strings.Index(KeyboardKeys, strings.ToLower(key))

	return i, i >= 0
}

// NoteForKey returns the note key plays at the current octave.
func (k *Keyboard) NoteForKey(key string) (int, bool) {
	off, ok := KeyOffset(key)
	if !ok {
		return 0, false
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	return k.octave*12 + 12 + off, true
}

// KeyDown handles a key press and reports whether the key was used.
// Auto-repeat presses of a held key are ignored. "z" and "x" shift the
// keyboard octave down and up.
func (k *Keyboard) KeyDown(key string) bool {
	key = strings.ToLower(key)

	switch key {
	case "z":
		k.shift(-1)
		return true
	case "x":
		k.shift(1)
		return true
	}

	off, ok := KeyOffset(key)
	if !ok {
		return false
	}

	k.mu.Lock()
	if _, held := k.held[key]; held {
		k.mu.Unlock()
		return true
	}
	note := k.octave*12 + 12 + off
	k.held[key] = note
	k.mu.Unlock()

	k.player.NoteOn(note)

	return true
}

// KeyUp handles a key release and reports whether the key was used.
func (k *Keyboard) KeyUp(key string) bool {
	key = strings.ToLower(key)

	k.mu.Lock()
	note, held := k.held[key]
	delete(k.held, key)
	k.mu.Unlock()

	if held {
		k.player.NoteOff(note)
	}

	return held
}

// Octave returns the keyboard octave.
func (k *Keyboard) Octave() int {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.octave
}

// SetOctave moves the keyboard to octave, releasing all notes if it changes.
func (k *Keyboard) SetOctave(octave int) {
	octave = core.ClampInt(octave, MinKeyboardOctave, MaxKeyboardOctave)

	k.mu.Lock()
	if octave == k.octave {
		k.mu.Unlock()
		return
	}
	k.octave = octave
	clear(k.held)
	k.mu.Unlock()

	k.player.AllNotesOff()
}

func (k *Keyboard) shift(delta int) {
	k.SetOctave(k.Octave() + delta)
}
