package relay

import (
	"github.com/rs/zerolog"
	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/relay/metrics"
)

// Option configures a Relay. Use New(ctx, opts...) to construct a Relay via
// options. Options return an error on invalid input instead of panicking.
type Option func(*config) error

// WithSequence sets the cyclic character sequence workers read from.
// The sequence must be non-empty.
func WithSequence(s string) Option {
	return func(cfg *config) error {
		if len(s) == 0 {
			return errorc.With(ErrInvalidConfig,
				errorc.String("", "WithSequence requires a non-empty sequence"))
		}
		cfg.Sequence = s
		return nil
	}
}

// WithCharCount sets how many characters each worker emits per turn (must be > 0).
// The count may exceed the sequence length; reads wrap as needed.
func WithCharCount(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return errorc.With(ErrInvalidConfig,
				errorc.String("", "WithCharCount requires n > 0"))
		}
		cfg.CharCount = n
		return nil
	}
}

// WithWorkers sets the number of workers taking turns (must be > 0).
// The set is fixed for the life of the Relay; workers never join or leave.
func WithWorkers(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return errorc.With(ErrInvalidConfig,
				errorc.String("", "WithWorkers requires n > 0"))
		}
		cfg.Workers = n
		return nil
	}
}

// WithTurnsBuffer sets the size of the turns channel buffer (default 64).
// Zero makes the channel unbuffered: each turn is then delivered synchronously
// to the consumer before the next worker proceeds.
func WithTurnsBuffer(size uint) Option {
	return func(cfg *config) error { cfg.TurnsBufferSize = size; return nil }
}

// WithStartImmediately starts the workers as soon as New returns.
func WithStartImmediately() Option {
	return func(cfg *config) error { cfg.StartImmediately = true; return nil }
}

// WithMetrics wires a metrics provider. The Relay records turns taken, bytes
// emitted, and per-turn wait durations through it.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig,
				errorc.String("", "WithMetrics requires a non-nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}

// WithLogger wires a zerolog logger for debug events. Without it the Relay
// stays silent.
func WithLogger(l zerolog.Logger) Option {
	return func(cfg *config) error { cfg.Logger = l; return nil }
}

// WithRunID overrides the generated run identifier used to tag log events.
func WithRunID(id string) Option {
	return func(cfg *config) error { cfg.RunID = id; return nil }
}
