// Package signal provides the periodic waveforms, seeded noise and peak
// normalization shared by the oscillators and the impulse-response
// generator.
package signal
