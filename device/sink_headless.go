//go:build headless

package device

import (
	"log/slog"
	"time"

	"github.com/cwbudde/algo-rack/dsp/core"
)

// NewDefaultSink returns a NullSink in headless builds.
func NewDefaultSink(cfg core.ProcessorConfig, logger *slog.Logger) (Sink, error) {
	logger.Debug("headless build, audio is discarded")
	return NewNullSink(cfg.SampleRate, 10*time.Millisecond), nil
}
