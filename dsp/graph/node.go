package graph

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Node is a processing node in a Context graph.
type Node interface {
	// ID returns the node's unique identity.
	ID() uuid.UUID
	// Kind returns a short type name such as "gain" or "oscillator".
	Kind() string
	// Connect routes this node's output into dst's input. Connecting the
	// same pair twice is a no-op.
	Connect(dst Node) error
	// ConnectParam routes this node's output into p, summed with p's value.
	ConnectParam(p *Param) error
	// Disconnect removes the edge to dst.
	Disconnect(dst Node) error
	// DisconnectParam removes the edge to p.
	DisconnectParam(p *Param) error
	// DisconnectAll removes every outgoing edge.
	DisconnectAll()

	base() *nodeBase
}

// processor renders one block from the summed input into out.
type processor interface {
	process(rs renderState, in, out *[numChannels][]float64)
}

type nodeBase struct {
	id        uuid.UUID
	kind      string
	ctx       *Context
	proc      processor
	hasOutput bool

	inputs    []*nodeBase
	outputs   []*nodeBase
	paramOuts []*Param

	in  [numChannels][]float64
	out [numChannels][]float64

	renderedAt uint64
	visiting   bool
}

func newNodeBase(ctx *Context, kind string, proc processor, hasOutput bool) *nodeBase {
	n := &nodeBase{
		id:        uuid.New(),
		kind:      kind,
		ctx:       ctx,
		proc:      proc,
		hasOutput: hasOutput,
	}
	for ch := range numChannels {
		n.in[ch] = make([]float64, ctx.cfg.BlockSize)
		n.out[ch] = make([]float64, ctx.cfg.BlockSize)
	}
	return n
}

func (n *nodeBase) base() *nodeBase { return n }

func (n *nodeBase) ID() uuid.UUID { return n.id }

func (n *nodeBase) Kind() string { return n.kind }

func (n *nodeBase) String() string {
	return fmt.Sprintf("%s(%s)", n.kind, n.id)
}

func (n *nodeBase) Connect(dst Node) error {
	if dst == nil {
		return ErrNilNode
	}
	d := dst.base()

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if err := n.checkConnect(d.ctx); err != nil {
		return err
	}
	if slices.Contains(n.outputs, d) {
		return nil
	}

	n.outputs = append(n.outputs, d)
	d.inputs = append(d.inputs, n)

	return nil
}

func (n *nodeBase) ConnectParam(p *Param) error {
	if p == nil {
		return ErrNilNode
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if err := n.checkConnect(p.ctx); err != nil {
		return err
	}
	if slices.Contains(n.paramOuts, p) {
		return nil
	}

	n.paramOuts = append(n.paramOuts, p)
	p.inputs = append(p.inputs, n)

	return nil
}

func (n *nodeBase) checkConnect(other *Context) error {
	switch {
	case n.ctx.state == StateClosed:
		return ErrClosed
	case other != n.ctx:
		return ErrContextMismatch
	case !n.hasOutput:
		return fmt.Errorf("%w: %s", ErrNoOutput, n.kind)
	}
	return nil
}

func (n *nodeBase) Disconnect(dst Node) error {
	if dst == nil {
		return ErrNilNode
	}
	d := dst.base()

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if n.ctx.state == StateClosed {
		return ErrClosed
	}

	i := slices.Index(n.outputs, d)
	if i < 0 {
		return fmt.Errorf("%w: %s -> %s", ErrNotConnected, n, d)
	}

	n.outputs = slices.Delete(n.outputs, i, i+1)
	d.inputs = removeNode(d.inputs, n)

	return nil
}

func (n *nodeBase) DisconnectParam(p *Param) error {
	if p == nil {
		return ErrNilNode
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if n.ctx.state == StateClosed {
		return ErrClosed
	}

	i := slices.Index(n.paramOuts, p)
	if i < 0 {
		return fmt.Errorf("%w: %s -> param %s", ErrNotConnected, n, p.name)
	}

	n.paramOuts = slices.Delete(n.paramOuts, i, i+1)
	p.inputs = removeNode(p.inputs, n)

	return nil
}

func (n *nodeBase) DisconnectAll() {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	for _, d := range n.outputs {
		d.inputs = removeNode(d.inputs, n)
	}
	for _, p := range n.paramOuts {
		p.inputs = removeNode(p.inputs, n)
	}
	n.outputs = nil
	n.paramOuts = nil
}

// Outputs returns the number of node and param edges leaving n.
func (n *nodeBase) Outputs() int {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	return len(n.outputs) + len(n.paramOuts)
}

// IsConnectedTo reports whether n feeds dst directly.
func (n *nodeBase) IsConnectedTo(dst Node) bool {
	if dst == nil {
		return false
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	return slices.Contains(n.outputs, dst.base())
}

func removeNode(list []*nodeBase, n *nodeBase) []*nodeBase {
	if i := slices.Index(list, n); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}
