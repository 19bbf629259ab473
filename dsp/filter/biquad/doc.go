// Package biquad provides the second-order IIR section used by the graph's
// filter node.
//
// A [Section] implements Direct Form II Transposed processing for a single
// section defined by [Coefficients]. Coefficient design lives in
// dsp/filter/design.
package biquad
