// Package ir measures room-acoustic parameters of an impulse response.
//
// All decay figures come from the Schroeder backward integral of the
// squared response:
//
//   - EDT: early decay time, fitted from 0 to -10 dB
//   - T20, T30: fitted from -5 to -25 dB and from -5 to -35 dB
//   - RT60: T30 when the response decays far enough, otherwise T20
//   - C50, C80: early-to-late energy ratio in dB
//   - D50: early energy fraction within 50 ms
//   - CenterTime: energy centroid in seconds
//
// Usage:
//
//	m, err := ir.NewAnalyzer(48000).Analyze(response)
//	fmt.Printf("RT60 %.2fs C80 %.1fdB\n", m.RT60, m.C80)
package ir
