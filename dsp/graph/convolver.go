package graph

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rack/dsp/conv"
	"github.com/cwbudde/algo-rack/dsp/core"
)

// Equal-power normalization constants for impulse responses.
const (
	irGainCalibration           = 0.00125
	irGainCalibrationSampleRate = 44100.0
	irMinPower                  = 0.000125
)

// Convolver convolves its input with an impulse response buffer. A mono
// response is applied to both channels; a stereo response maps left to left
// and right to right. Without a buffer the node outputs silence.
type Convolver struct {
	*nodeBase

	buffer    *Buffer
	normalize bool

	engines [numChannels]*conv.NonUniform
}

// NewConvolver creates a convolver with normalization enabled and no buffer.
func (c *Context) NewConvolver() *Convolver {
	v := &Convolver{normalize: true}
	v.nodeBase = newNodeBase(c, "convolver", v, true)

	return v
}

// Normalize reports whether responses are scaled to equal power.
func (v *Convolver) Normalize() bool {
	v.ctx.mu.Lock()
	defer v.ctx.mu.Unlock()

	return v.normalize
}

// SetNormalize controls equal-power scaling of the next buffer set.
func (v *Convolver) SetNormalize(on bool) {
	v.ctx.mu.Lock()
	defer v.ctx.mu.Unlock()

	v.normalize = on
}

// Buffer returns the current impulse response, or nil.
func (v *Convolver) Buffer() *Buffer {
	v.ctx.mu.Lock()
	defer v.ctx.mu.Unlock()

	return v.buffer
}

// SetBuffer swaps the impulse response in place. Connections are kept and
// the convolution history restarts from silence. A nil buffer silences the
// node.
func (v *Convolver) SetBuffer(b *Buffer) error {
	var engines [numChannels]*conv.NonUniform

	v.ctx.mu.Lock()
	normalize := v.normalize
	blockSize := v.ctx.cfg.BlockSize
	v.ctx.mu.Unlock()

	if b != nil {
		if b.NumChannels() > numChannels {
			return fmt.Errorf("%w: %d channel impulse response", ErrInvalidBuffer, b.NumChannels())
		}

		scale := 1.0
		if normalize {
			scale = normalizationScale(b)
		}

		kernel := make([]float64, b.Len())
		for ch := range engines {
			src := b.Channel(min(ch, b.NumChannels()-1))
			vecmath.ScaleBlock(kernel, src, scale)

			engine, err := conv.NewNonUniform(kernel, blockSize, conv.DefaultTailFactor)
			if err != nil {
				return fmt.Errorf("graph: convolver channel %d: %w", ch, err)
			}
			engines[ch] = engine
		}
	}

	v.ctx.mu.Lock()
	defer v.ctx.mu.Unlock()

	v.buffer = b
	v.engines = engines

	return nil
}

func normalizationScale(b *Buffer) float64 {
	power := 0.0
	for ch := range b.NumChannels() {
		for _, s := range b.Channel(ch) {
			power += s * s
		}
	}
	power = math.Sqrt(power / float64(b.NumChannels()*b.Len()))

	if math.IsNaN(power) || math.IsInf(power, 0) || power < irMinPower {
		power = irMinPower
	}

	return irGainCalibration / power * irGainCalibrationSampleRate / b.SampleRate()
}

func (v *Convolver) process(_ renderState, in, out *[numChannels][]float64) {
	for ch, engine := range v.engines {
		if engine == nil {
			clear(out[ch])
			continue
		}
		if err := engine.ProcessBlockTo(out[ch], in[ch]); err != nil {
			clear(out[ch])
			continue
		}
		for i, s := range out[ch] {
			out[ch][i] = core.FlushDenormals(s)
		}
	}
}
