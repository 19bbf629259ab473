// Package conv provides the block convolution engines behind the graph's
// convolver node.
//
// [Partitioned] implements uniformly partitioned overlap-save convolution:
// the kernel is split into partitions of the render block size, each
// partition is transformed once, and every input block costs one forward
// FFT, one inverse FFT and a complex multiply-accumulate over the
// frequency-domain delay line. Latency is zero beyond the block itself.
//
// [NonUniform] splits the kernel into a head at the block size and a tail
// with partitions [DefaultTailFactor] times longer. The tail runs once per
// tail partition, which cuts the per-block cost of multi-second reverb
// responses by roughly that factor at the same zero latency.
//
// [Direct] is the O(N*M) time-domain reference used in tests and for very
// short kernels.
package conv
