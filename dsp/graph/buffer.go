package graph

import "fmt"

// Buffer is a multi-channel block of samples at a fixed sample rate.
type Buffer struct {
	sampleRate float64
	channels   [][]float64
}

// NewBuffer allocates a silent buffer.
func NewBuffer(channels, length int, sampleRate float64) (*Buffer, error) {
	if channels <= 0 || length <= 0 || !(sampleRate > 0) {
		return nil, fmt.Errorf("%w: %d channels, %d frames at %v Hz", ErrInvalidBuffer, channels, length, sampleRate)
	}

	b := &Buffer{sampleRate: sampleRate, channels: make([][]float64, channels)}
	for ch := range b.channels {
		b.channels[ch] = make([]float64, length)
	}

	return b, nil
}

// BufferFromChannels wraps existing channel data. All channels must have the
// same non-zero length. The slices are not copied.
func BufferFromChannels(data [][]float64, sampleRate float64) (*Buffer, error) {
	if len(data) == 0 || len(data[0]) == 0 || !(sampleRate > 0) {
		return nil, ErrInvalidBuffer
	}
	for ch, d := range data {
		if len(d) != len(data[0]) {
			return nil, fmt.Errorf("%w: channel %d has %d frames, want %d", ErrInvalidBuffer, ch, len(d), len(data[0]))
		}
	}

	return &Buffer{sampleRate: sampleRate, channels: data}, nil
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int { return len(b.channels) }

// Len returns the length in frames.
func (b *Buffer) Len() int { return len(b.channels[0]) }

// SampleRate returns the buffer sample rate in Hz.
func (b *Buffer) SampleRate() float64 { return b.sampleRate }

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	return float64(b.Len()) / b.sampleRate
}

// Channel returns the samples of channel ch.
func (b *Buffer) Channel(ch int) []float64 { return b.channels[ch] }
