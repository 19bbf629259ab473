// Package design provides the RBJ cookbook coefficient designers used by the
// synth voice filter: lowpass, highpass and bandpass (0 dB peak gain).
package design
