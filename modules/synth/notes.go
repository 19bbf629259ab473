package synth

import (
	"slices"
	"time"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/graph"
)

// releaseMargin is added to the release time before a voice is freed so the
// ramp has fully reached zero.
const releaseMargin = 50 * time.Millisecond

// NoteName returns the scientific pitch name of a MIDI note, e.g. 60 -> "C4".
func NoteName(note int) string {
	return core.NoteName(note)
}

// playable reports whether notes can sound. Callers hold s.mu.
func (s *Synth) playable() bool {
	return s.ctx != nil && s.ctx.State() == graph.StateRunning
}

// NoteOn starts note on a free voice, or steals the oldest voice when all
// are busy. It does nothing while the synth is closed, the context is not
// running or note is already held.
func (s *Synth) NoteOn(note int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playable() {
		return
	}
	if _, held := s.active[note]; held {
		return
	}

	now := s.ctx.CurrentTime()
	idx := s.pickVoice()
	v := s.voices[idx]

	if v.note >= 0 {
		// steal: hard reset, no release tail
		g := v.vca.Gain()
		g.CancelScheduledValues(now)
		g.SetValueAtTime(0, now)
		delete(s.active, v.note)
		s.logger.Debug("synth: voice stolen", "voice", idx, "old_note", v.note, "note", note)
	}

	v.stopRelease()
	s.ageCounter++
	v.note = note
	v.age = s.ageCounter
	v.releasing = false
	s.active[note] = idx
	s.lastNote = note

	p := s.params
	v.osc.Frequency().SetValueAtTime(core.MIDINoteToFreq(float64(note+12*p.Octave)), now)

	f := v.filter.Frequency()
	f.CancelScheduledValues(now)
	f.SetValueAtTime(p.envelopeCutoff(), now)
	f.LinearRampToValueAtTime(p.Cutoff, now+p.Decay)

	g := v.vca.Gain()
	g.CancelScheduledValues(now)
	g.SetValueAtTime(0, now)
	g.LinearRampToValueAtTime(1, now+p.Attack)
	g.LinearRampToValueAtTime(p.Sustain, now+p.Attack+p.Decay)
}

// pickVoice returns the first free voice, otherwise the one with the
// smallest age. Releasing voices are stolen like any other.
func (s *Synth) pickVoice() int {
	oldest := 0
	for i, v := range s.voices {
		if v.note < 0 {
			return i
		}
		if v.age < s.voices[oldest].age {
			oldest = i
		}
	}

	return oldest
}

// NoteOff moves the voice holding note into its release phase. The voice
// stays assigned until the release has finished.
func (s *Synth) NoteOff(note int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.noteOff(note)
}

func (s *Synth) noteOff(note int) {
	if !s.playable() {
		return
	}
	idx, held := s.active[note]
	if !held {
		return
	}

	v := s.voices[idx]
	now := s.ctx.CurrentTime()
	release := s.params.Release

	v.releasing = true
	g := v.vca.Gain()
	g.CancelScheduledValues(now)
	g.SetValueAtTime(g.Value(), now)
	g.LinearRampToValueAtTime(0, now+release)

	v.stopRelease()
	delay := time.Duration(release*float64(time.Second)) + releaseMargin
	v.release = s.sched.AfterFunc(delay, func() {
		s.freeVoice(idx, note)
	})
}

// freeVoice runs when a release has finished. The voice may have been
// stolen or retriggered in the meantime, so it is checked again first.
func (s *Synth) freeVoice(idx, note int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx >= len(s.voices) {
		return
	}
	v := s.voices[idx]
	if !v.releasing || v.note != note {
		return
	}

	v.note = -1
	v.releasing = false
	v.release = nil
	if s.active[note] == idx {
		delete(s.active, note)
	}
}

// AllNotesOff releases every held note.
func (s *Synth) AllNotesOff() {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := make([]int, 0, len(s.active))
	for note := range s.active {
		notes = append(notes, note)
	}
	slices.Sort(notes)

	for _, note := range notes {
		s.noteOff(note)
	}
}
