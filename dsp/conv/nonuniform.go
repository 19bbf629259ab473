package conv

import "fmt"

// DefaultTailFactor is the tail partition size as a multiple of the block size.
const DefaultTailFactor = 16

// NonUniform is a two-stage streaming convolver. The first tailFactor
// blocks of the kernel run through a [Partitioned] engine at the I/O block
// size, the rest through a second engine whose partitions are tailFactor
// times longer. The tail segment starts exactly one tail partition into the
// kernel, so its output is always ready before it is due and the overall
// latency stays zero.
type NonUniform struct {
	kernelLen int
	blockSize int
	tailSize  int

	head *Partitioned
	tail *Partitioned

	// tail input collected until a full tail partition is available
	tailIn  []float64
	tailOut []float64
	fill    int

	// overlap ring of tail output, indexed by sample position mod len(ring)
	ring []float64
	mask int
	pos  int
}

// NewNonUniform creates a convolver for kernel consuming blocks of
// blockSize samples. blockSize and tailFactor are rounded up to powers of
// 2; a tailFactor below 2 selects DefaultTailFactor. Kernels no longer than
// one tail partition use the head engine only.
func NewNonUniform(kernel []float64, blockSize, tailFactor int) (*NonUniform, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}
	if tailFactor < 2 {
		tailFactor = DefaultTailFactor
	}

	blockSize = nextPowerOf2(blockSize)
	tailSize := blockSize * nextPowerOf2(tailFactor)

	head, err := NewPartitioned(kernel[:min(len(kernel), tailSize)], blockSize)
	if err != nil {
		return nil, fmt.Errorf("conv: head segment: %w", err)
	}

	c := &NonUniform{
		kernelLen: len(kernel),
		blockSize: blockSize,
		head:      head,
	}
	if len(kernel) <= tailSize {
		return c, nil
	}

	tail, err := NewPartitioned(kernel[tailSize:], tailSize)
	if err != nil {
		return nil, fmt.Errorf("conv: tail segment: %w", err)
	}

	// writes land in [pos+blockSize, pos+blockSize+tailSize)
	ringSize := nextPowerOf2(blockSize + tailSize)

	c.tailSize = tailSize
	c.tail = tail
	c.tailIn = make([]float64, tailSize)
	c.tailOut = make([]float64, tailSize)
	c.ring = make([]float64, ringSize)
	c.mask = ringSize - 1

	return c, nil
}

// ProcessBlockTo convolves one input block into dst. Both slices must hold
// exactly BlockSize() samples.
func (c *NonUniform) ProcessBlockTo(dst, src []float64) error {
	err := c.head.ProcessBlockTo(dst, src)
	if err != nil {
		return err
	}
	if c.tail == nil {
		return nil
	}

	copy(c.tailIn[c.fill:], src)
	c.fill += c.blockSize

	if c.fill == c.tailSize {
		c.fill = 0

		err = c.tail.ProcessBlockTo(c.tailOut, c.tailIn)
		if err != nil {
			return err
		}

		// the collected input started tailSize-blockSize samples ago and the
		// segment is delayed by tailSize, so output begins after this block
		start := c.pos + c.blockSize
		for i, v := range c.tailOut {
			c.ring[(start+i)&c.mask] += v
		}
	}

	for i := range dst {
		j := (c.pos + i) & c.mask
		dst[i] += c.ring[j]
		c.ring[j] = 0
	}
	c.pos = (c.pos + c.blockSize) & c.mask

	return nil
}

// Reset clears all history so the next block starts from silence.
func (c *NonUniform) Reset() {
	c.head.Reset()
	if c.tail == nil {
		return
	}

	c.tail.Reset()
	clear(c.tailIn)
	clear(c.ring)
	c.fill = 0
	c.pos = 0
}

// BlockSize returns the expected input/output block size.
func (c *NonUniform) BlockSize() int {
	return c.blockSize
}

// KernelLen returns the convolution kernel length.
func (c *NonUniform) KernelLen() int {
	return c.kernelLen
}

// TailSize returns the tail partition size, or 0 when the kernel fits the
// head segment.
func (c *NonUniform) TailSize() int {
	return c.tailSize
}
