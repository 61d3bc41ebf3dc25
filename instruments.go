package relay

import "github.com/ygrebnov/relay/metrics"

// instruments bundles the instruments a Relay records into. All workers
// share one set; the underlying instruments are concurrency-safe.
type instruments struct {
	turns       metrics.Counter
	bytes       metrics.Counter
	waitSeconds metrics.Histogram
}

func newInstruments(p metrics.Provider) *instruments {
	return &instruments{
		turns: p.Counter("relay.turns.total",
			metrics.WithDescription("turns completed"),
			metrics.WithUnit("1")),
		bytes: p.Counter("relay.chars.emitted",
			metrics.WithDescription("characters emitted across all turns"),
			metrics.WithUnit("By")),
		waitSeconds: p.Histogram("relay.turn.wait.seconds",
			metrics.WithDescription("time a worker spent waiting for its turn"),
			metrics.WithUnit("s")),
	}
}
