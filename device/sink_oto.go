//go:build !headless

package device

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/cwbudde/algo-rack/dsp/core"
	"github.com/ebitengine/oto/v3"
)

// OtoSink plays the stream through the system audio device.
type OtoSink struct {
	sampleRate int
	logger     *slog.Logger

	mu     sync.Mutex
	ctx    *oto.Context
	player *oto.Player
}

// NewDefaultSink opens the platform audio output.
func NewDefaultSink(cfg core.ProcessorConfig, logger *slog.Logger) (Sink, error) {
	return &OtoSink{sampleRate: int(cfg.SampleRate), logger: logger}, nil
}

// Start creates the oto context and starts a player reading from src.
func (s *OtoSink) Start(src io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player != nil {
		return nil
	}

	if s.ctx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   s.sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatFloat32LE,
		}

		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			return fmt.Errorf("device: oto context: %w", err)
		}
		<-ready
		s.ctx = ctx
	}

	s.player = s.ctx.NewPlayer(src)
	s.player.Play()
	s.logger.Debug("oto player started", "sample_rate", s.sampleRate)

	return nil
}

// Close stops playback.
func (s *OtoSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return nil
	}

	err := s.player.Close()
	s.player = nil
	if err != nil {
		return fmt.Errorf("device: oto player: %w", err)
	}
	return nil
}
