// Package synth implements a small polyphonic subtractive synthesizer on top
// of dsp/graph.
//
// Each voice is an oscillator, a biquad filter and an amplifier. A shared
// LFO modulates either the filter cutoff or the oscillator detune of every
// voice. When all voices are busy, a new note steals the voice that was
// assigned least recently. Released voices are freed after their release
// ramp through a Scheduler, so timers can be driven by a manual clock in
// tests.
package synth
