package graph

import "errors"

var (
	// ErrClosed is returned when mutating a closed context.
	ErrClosed = errors.New("graph: context closed")
	// ErrNotConnected is returned when removing an edge that does not exist.
	ErrNotConnected = errors.New("graph: not connected")
	// ErrContextMismatch is returned when connecting nodes of different contexts.
	ErrContextMismatch = errors.New("graph: nodes belong to different contexts")
	// ErrNoOutput is returned when connecting from a node without an output.
	ErrNoOutput = errors.New("graph: node has no output")
	// ErrNilNode is returned for a nil node or param argument.
	ErrNilNode = errors.New("graph: nil node")
	// ErrInvalidBuffer is returned for an empty or ragged audio buffer.
	ErrInvalidBuffer = errors.New("graph: invalid buffer")
)
