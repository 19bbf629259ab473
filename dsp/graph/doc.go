// Package graph is the audio processing host used by the rack modules.
//
// A [Context] owns a pull-based signal graph of nodes: oscillators, biquad
// filters, gain stages, convolvers, analysers and the context destination.
// Nodes are wired with Connect and can also drive the [Param] values of
// other nodes, which is how LFO modulation is routed. Params support
// sample-accurate automation (set-at-time and linear ramps) evaluated on the
// context clock.
//
// Every mutation and every call to [Context.Render] is serialized by a
// single mutex owned by the context, so an interaction goroutine and an audio
// device callback can share one graph.
//
// All node buffers are stereo. Mono sources such as oscillators write the
// same signal to both channels.
package graph
