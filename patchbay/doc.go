// Package patchbay manages the jacks and cables that wire rack modules
// together over one shared audio graph.
//
// A [Bay] tracks named output and input jacks, each backed by a graph node
// and an optional presentation [Element]. Cables are directed edges from an
// output jack to an input jack. An input accepts at most one cable and a new
// connection replaces the old one; outputs fan out freely. The Bay performs
// the real graph connect and disconnect, but graph failures are logged and
// swallowed: the Bay's own bookkeeping is what the user sees.
//
// Gestures (activating jacks, cancel keys, clicks on empty space) drive a
// two-state machine, Idle and Pending(output), defined by the pure
// [Transition] function. While pending, a phantom cable follows the pointer
// on the [Overlay] and every input jack is highlighted as a drop target.
//
// All methods are safe for concurrent use. Presentation callbacks (Element,
// Overlay) are invoked with the Bay's lock held and must not call back into
// the Bay synchronously.
package patchbay
