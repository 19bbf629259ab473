package graph

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/cwbudde/algo-rack/dsp/window"
)

const (
	// DefaultFFTSize is the analyser window length.
	DefaultFFTSize = 2048

	minFFTSize = 32
	maxFFTSize = 32768
)

// Analyser passes its input through unchanged and keeps the most recent
// FFTSize samples of the mono down-mix for inspection.
type Analyser struct {
	*nodeBase

	fftSize int
	ring    []float64
	pos     int

	plan       *algofft.Plan[complex128]
	windowType window.Type
	window     []float64
	frame      []float64
	spec       []complex128
	fftIn      []complex128
	re, im     []float64

	scratch []float64
}

// NewAnalyser creates an analyser with DefaultFFTSize.
func (c *Context) NewAnalyser() *Analyser {
	a := &Analyser{windowType: window.TypeHann}
	a.nodeBase = newNodeBase(c, "analyser", a, true)
	a.resize(DefaultFFTSize)

	return a
}

// FFTSize returns the window length.
func (a *Analyser) FFTSize() int {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	return a.fftSize
}

// SetFFTSize changes the window length. n must be a power of two in
// [32, 32768]. History is cleared.
func (a *Analyser) SetFFTSize(n int) error {
	if n < minFFTSize || n > maxFFTSize || n&(n-1) != 0 {
		return fmt.Errorf("graph: analyser fft size %d not a power of two in [%d, %d]", n, minFFTSize, maxFFTSize)
	}

	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	a.resize(n)

	return nil
}

func (a *Analyser) resize(n int) {
	a.fftSize = n
	a.ring = make([]float64, n)
	a.pos = 0
	a.plan = nil
	a.window = window.Generate(a.windowType, n, window.WithPeriodic())
	a.frame = make([]float64, n)
	a.spec = make([]complex128, n)
	a.fftIn = make([]complex128, n)
	a.re = make([]float64, n/2)
	a.im = make([]float64, n/2)
}

// Window returns the taper applied before the FFT.
func (a *Analyser) Window() window.Type {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	return a.windowType
}

// SetWindow changes the taper applied before the FFT. History is kept.
func (a *Analyser) SetWindow(t window.Type) {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	a.windowType = t
	a.window = window.Generate(t, a.fftSize, window.WithPeriodic())
}

// TimeDomain copies the most recent samples, oldest first, into dst and
// returns the count written: min(len(dst), FFTSize).
func (a *Analyser) TimeDomain(dst []float64) int {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	return a.timeDomain(dst)
}

func (a *Analyser) timeDomain(dst []float64) int {
	n := min(len(dst), a.fftSize)
	start := a.pos - n
	for i := range n {
		dst[i] = a.ring[(start+i+a.fftSize)%a.fftSize]
	}

	return n
}

// ByteTimeDomain writes the most recent samples as unsigned bytes where 128
// is silence and ±1 maps to 0 and 255.
func (a *Analyser) ByteTimeDomain(dst []byte) int {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	a.scratch = core.EnsureLen(a.scratch, min(len(dst), a.fftSize))
	n := a.timeDomain(a.scratch)
	for i := range n {
		v := 128 * (a.scratch[i] + 1)
		dst[i] = byte(math.Max(0, math.Min(255, math.Floor(v))))
	}

	return n
}

// Magnitudes writes the linear magnitude spectrum of the windowed
// history into dst and returns the number of bins written, at most
// FFTSize/2.
func (a *Analyser) Magnitudes(dst []float64) (int, error) {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	if a.plan == nil {
		plan, err := algofft.NewPlan64(a.fftSize)
		if err != nil {
			return 0, fmt.Errorf("graph: analyser plan: %w", err)
		}
		a.plan = plan
	}

	for i := range a.frame {
		a.frame[i] = a.ring[(a.pos+i)%a.fftSize]
	}
	vecmath.MulBlockInPlace(a.frame, a.window)

	for i, v := range a.frame {
		a.fftIn[i] = complex(v, 0)
	}
	if err := a.plan.Forward(a.spec, a.fftIn); err != nil {
		return 0, fmt.Errorf("graph: analyser fft: %w", err)
	}

	bins := a.fftSize / 2
	scale := 1 / float64(a.fftSize)
	for i := range bins {
		a.re[i] = real(a.spec[i]) * scale
		a.im[i] = imag(a.spec[i]) * scale
	}

	n := min(len(dst), bins)
	vecmath.Magnitude(dst[:n], a.re[:n], a.im[:n])

	return n, nil
}

func (a *Analyser) process(rs renderState, in, out *[numChannels][]float64) {
	for ch := range out {
		copy(out[ch], in[ch])
	}
	for i := range rs.n {
		a.ring[a.pos] = 0.5 * (in[0][i] + in[1][i])
		a.pos = (a.pos + 1) % a.fftSize
	}
}
