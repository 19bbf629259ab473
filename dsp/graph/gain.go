package graph

import "github.com/cwbudde/algo-vecmath"

// Gain scales its input by the per-sample gain param.
type Gain struct {
	*nodeBase

	gain *Param
}

// NewGain creates a unity gain stage.
func (c *Context) NewGain() *Gain {
	g := &Gain{}
	g.nodeBase = newNodeBase(c, "gain", g, true)
	g.gain = newParam(c, "gain", 1, -1e9, 1e9)

	return g
}

// Gain returns the gain param (linear).
func (g *Gain) Gain() *Param { return g.gain }

func (g *Gain) process(rs renderState, in, out *[numChannels][]float64) {
	values := g.gain.render(rs)
	for ch := range out {
		vecmath.MulBlock(out[ch], in[ch], values)
	}
}
