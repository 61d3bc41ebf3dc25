package relay

import (
	"github.com/rs/zerolog"
	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/relay/metrics"
)

// config holds Relay configuration.
type config struct {
	// Sequence is the cyclic character sequence workers read from.
	// Required; there is no usable default.
	Sequence string

	// CharCount is the number of characters each worker emits per turn.
	// Default: 1.
	CharCount int

	// Workers is the number of workers taking turns.
	// Default: 1.
	Workers int

	// TurnsBufferSize defines the size of the turns channel buffer.
	// Default: 64.
	TurnsBufferSize uint

	// StartImmediately defines whether workers start taking turns as soon as
	// New returns, without an explicit Start call.
	// Default: false.
	StartImmediately bool

	// Metrics receives turn counters and wait-duration measurements.
	// Default: a no-op provider.
	Metrics metrics.Provider

	// Logger receives debug events (registration, shutdown).
	// Default: a no-op logger.
	Logger zerolog.Logger

	// RunID tags log events for correlation across a run.
	// Default: generated at construction.
	RunID string
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		Sequence:         "",
		CharCount:        1,
		Workers:          1,
		TurnsBufferSize:  64,
		StartImmediately: false,
		Metrics:          metrics.NewNoopProvider(),
		Logger:           zerolog.Nop(),
		RunID:            "",
	}
}

// validateConfig rejects configurations no Relay can run with. It fires
// before any worker goroutine is spawned.
func validateConfig(cfg *config) error {
	if len(cfg.Sequence) == 0 {
		return errorc.With(ErrInvalidConfig, errorc.String("option", "sequence"))
	}
	if cfg.CharCount < 1 {
		return errorc.With(ErrInvalidConfig, errorc.String("option", "charCount"))
	}
	if cfg.Workers < 1 {
		return errorc.With(ErrInvalidConfig, errorc.String("option", "workers"))
	}
	return nil
}
