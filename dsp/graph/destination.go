package graph

// Destination is the context output. Everything connected to it is summed
// into the rendered stream.
type Destination struct {
	*nodeBase
}

func newDestination(ctx *Context) *Destination {
	d := &Destination{}
	d.nodeBase = newNodeBase(ctx, "destination", d, false)
	return d
}

func (d *Destination) process(_ renderState, in, out *[numChannels][]float64) {
	for ch := range out {
		copy(out[ch], in[ch])
	}
}
