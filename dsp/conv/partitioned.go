package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Partitioned is a streaming, uniformly partitioned overlap-save convolver.
// Input and output blocks have a fixed size equal to the partition size.
type Partitioned struct {
	kernelLen int
	blockSize int // partition and I/O block size (power of 2)
	fftSize   int // 2 * blockSize

	plan *algofft.Plan[complex128]

	// kernel partitions in the frequency domain
	parts [][]complex128

	// frequency-domain delay line of past input spectra, ring indexed by head
	fdl  [][]complex128
	head int

	// time-domain input window: previous block followed by current block
	window []float64

	scratch []complex128
	acc     []complex128
}

// NewPartitioned creates a convolver for kernel that consumes blocks of
// blockSize samples. blockSize is rounded up to a power of 2; callers must
// feed blocks of BlockSize() samples.
func NewPartitioned(kernel []float64, blockSize int) (*Partitioned, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}

	blockSize = nextPowerOf2(blockSize)
	fftSize := 2 * blockSize

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	numParts := (len(kernel) + blockSize - 1) / blockSize

	p := &Partitioned{
		kernelLen: len(kernel),
		blockSize: blockSize,
		fftSize:   fftSize,
		plan:      plan,
		parts:     make([][]complex128, numParts),
		fdl:       make([][]complex128, numParts),
		window:    make([]float64, fftSize),
		scratch:   make([]complex128, fftSize),
		acc:       make([]complex128, fftSize),
	}

	for i := range numParts {
		start := i * blockSize
		end := min(start+blockSize, len(kernel))

		clear(p.scratch)
		for j, v := range kernel[start:end] {
			p.scratch[j] = complex(v, 0)
		}

		p.parts[i] = make([]complex128, fftSize)
		err = plan.Forward(p.parts[i], p.scratch)
		if err != nil {
			return nil, fmt.Errorf("conv: kernel partition %d FFT: %w", i, err)
		}

		p.fdl[i] = make([]complex128, fftSize)
	}

	return p, nil
}

// ProcessBlockTo convolves one input block into dst. Both slices must hold
// exactly BlockSize() samples. State carries over between calls.
func (p *Partitioned) ProcessBlockTo(dst, src []float64) error {
	if len(src) != p.blockSize {
		return fmt.Errorf("%w: expected %d input samples, got %d", ErrLengthMismatch, p.blockSize, len(src))
	}
	if len(dst) != p.blockSize {
		return fmt.Errorf("%w: expected %d output samples, got %d", ErrLengthMismatch, p.blockSize, len(dst))
	}

	// slide the input window by one block
	copy(p.window, p.window[p.blockSize:])
	copy(p.window[p.blockSize:], src)

	for i, v := range p.window {
		p.scratch[i] = complex(v, 0)
	}

	p.head = (p.head + 1) % len(p.fdl)
	err := p.plan.Forward(p.fdl[p.head], p.scratch)
	if err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	clear(p.acc)
	n := len(p.fdl)
	for k, h := range p.parts {
		x := p.fdl[(p.head-k+n)%n]
		for i := range p.acc {
			p.acc[i] += x[i] * h[i]
		}
	}

	err = p.plan.Inverse(p.scratch, p.acc)
	if err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	// the second half is free of circular wrap-around
	for i := range dst {
		dst[i] = real(p.scratch[p.blockSize+i])
	}

	return nil
}

// Reset clears the input history so the next block starts from silence.
func (p *Partitioned) Reset() {
	clear(p.window)
	for _, spec := range p.fdl {
		clear(spec)
	}
	p.head = 0
}

// BlockSize returns the expected input/output block size.
func (p *Partitioned) BlockSize() int {
	return p.blockSize
}

// KernelLen returns the convolution kernel length.
func (p *Partitioned) KernelLen() int {
	return p.kernelLen
}

// FFTSize returns the internal FFT size.
func (p *Partitioned) FFTSize() int {
	return p.fftSize
}

// Partitions returns the number of kernel partitions.
func (p *Partitioned) Partitions() int {
	return len(p.parts)
}
