// Package reverb synthesizes stereo room impulse responses from a small
// parameter set: decay time, pre-delay and a tone (low-pass) cutoff.
//
// The generated response has three stages. Eight early reflection taps are
// spread between the pre-delay and 80 ms, a noise tail decays exponentially
// over the decay time, and the result is shaped by a one-pole low-pass at the
// tone cutoff and a one-pole high-pass at 80 Hz. Each channel is then
// normalized to a fixed peak of [PeakLevel].
//
// [Presets] lists the built-in rooms.
package reverb
