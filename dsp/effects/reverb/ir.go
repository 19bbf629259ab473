package reverb

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-rack/dsp/signal"
)

const (
	// Channels is the number of channels in a generated response.
	Channels = 2

	// PeakLevel is the absolute peak of every normalized channel.
	PeakLevel = 0.8

	// TailPadding is added to the decay time to get the buffer duration.
	TailPadding = 0.1

	earlyWindow    = 0.08
	numReflections = 8
	rumbleCutoff   = 80.0
)

var (
	// ErrInvalidParams is returned for non-positive or non-finite parameters.
	ErrInvalidParams = errors.New("reverb: invalid parameters")
	// ErrInvalidSampleRate is returned for a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("reverb: invalid sample rate")
)

// Params describes a room response.
type Params struct {
	Decay    float64 // seconds
	PreDelay float64 // seconds
	Tone     float64 // low-pass cutoff in Hz
}

// Validate reports whether p can be rendered.
func (p Params) Validate() error {
	switch {
	case !(p.Decay > 0) || math.IsInf(p.Decay, 0):
		return fmt.Errorf("%w: decay %v", ErrInvalidParams, p.Decay)
	case !(p.PreDelay >= 0) || math.IsInf(p.PreDelay, 0):
		return fmt.Errorf("%w: pre-delay %v", ErrInvalidParams, p.PreDelay)
	case !(p.Tone > 0) || math.IsInf(p.Tone, 0):
		return fmt.Errorf("%w: tone %v", ErrInvalidParams, p.Tone)
	}
	return nil
}

// Length returns the per-channel response length in samples.
func Length(decay, sampleRate float64) int {
	return int(math.Round(sampleRate * (decay + TailPadding)))
}

type generateConfig struct {
	seed int64
}

// Option configures GenerateIR.
type Option func(*generateConfig)

// WithSeed sets the seed of the noise source used for the tail and the
// reflection polarities.
func WithSeed(seed int64) Option {
	return func(c *generateConfig) {
		c.seed = seed
	}
}

// GenerateIR renders a stereo impulse response. The result holds Channels
// slices of Length(p.Decay, sampleRate) samples, each normalized to a peak
// of PeakLevel.
func GenerateIR(p Params, sampleRate float64, opts ...Option) ([][]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	cfg := generateConfig{seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	length := Length(p.Decay, sampleRate)
	if length <= 0 {
		return nil, fmt.Errorf("%w: empty response for decay %v", ErrInvalidParams, p.Decay)
	}

	noise := signal.NewNoise(cfg.seed)
	out := make([][]float64, Channels)

	for ch := range out {
		data := make([]float64, length)

		addEarlyReflections(data, ch, p, sampleRate, noise)
		addTail(data, p, sampleRate, noise)
		onePoleLowpass(data, p.Tone, sampleRate)
		onePoleHighpass(data, rumbleCutoff, sampleRate)

		if err := signal.NormalizePeak(data, PeakLevel); err != nil {
			return nil, fmt.Errorf("reverb: channel %d: %w", ch, err)
		}

		out[ch] = data
	}

	return out, nil
}

func earlyEnd(length int, sampleRate float64) int {
	return min(int(math.Floor(earlyWindow*sampleRate)), length)
}

func addEarlyReflections(data []float64, ch int, p Params, sampleRate float64, noise *signal.Noise) {
	pre := int(math.Floor(p.PreDelay * sampleRate))
	end := earlyEnd(len(data), sampleRate)
	span := float64(end - pre)

	for r := range numReflections {
		tap := pre + int(math.Floor(float64(r+1)*span/numReflections))
		if tap < 0 || tap >= len(data) {
			continue
		}

		amp := 0.7 * math.Pow(0.7, float64(r))

		// left and right take sin/cos of the tap index so they decorrelate
		var pan float64
		if ch == 0 {
			pan = 0.5 + math.Sin(float64(r)*2.3)*0.5
		} else {
			pan = 0.5 + math.Cos(float64(r)*2.3)*0.5
		}

		data[tap] += amp * pan * noise.Sign()
	}
}

func addTail(data []float64, p Params, sampleRate float64, noise *signal.Noise) {
	pre := math.Floor(p.PreDelay * sampleRate)

	for i := earlyEnd(len(data), sampleRate); i < len(data); i++ {
		t := (float64(i) - pre) / sampleRate
		if t < 0 {
			continue
		}

		envelope := math.Exp(-3 * t / p.Decay)
		damping := 1 - 0.5*(t/p.Decay)
		data[i] += noise.Next() * damping * envelope * 0.5
	}
}

func onePoleLowpass(data []float64, cutoff, sampleRate float64) {
	rc := 1 / (2 * math.Pi * cutoff)
	dt := 1 / sampleRate
	alpha := dt / (rc + dt)

	prev := 0.0
	for i, x := range data {
		prev += alpha * (x - prev)
		data[i] = prev
	}
}

func onePoleHighpass(data []float64, cutoff, sampleRate float64) {
	rc := 1 / (2 * math.Pi * cutoff)
	dt := 1 / sampleRate
	alpha := rc / (rc + dt)

	prevIn, prevOut := 0.0, 0.0
	for i, x := range data {
		y := alpha * (prevOut + x - prevIn)
		prevIn = x
		prevOut = y
		data[i] = y
	}
}
