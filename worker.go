package relay

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// worker is the per-goroutine execution unit. It registers once, waits at
// the roster gate, then cycles: wait for its turn, read its slice, deliver
// the Turn record, hand the turn off. Every suspension point observes
// cancellation, so a blocked worker exits promptly on shutdown.
type worker struct {
	roster    *roster
	ledger    *ledger
	charCount int
	turns     chan<- Turn
	inst      *instruments
	log       zerolog.Logger
}

func newWorker(r *roster, l *ledger, charCount int, turns chan<- Turn, inst *instruments, log zerolog.Logger) *worker {
	return &worker{
		roster:    r,
		ledger:    l,
		charCount: charCount,
		turns:     turns,
		inst:      inst,
		log:       log,
	}
}

func (w *worker) run(ctx context.Context) {
	id, err := w.roster.register()
	if err != nil {
		// Cannot happen when the orchestrator sizes the roster to the
		// number of workers it spawns; log and bail rather than panic.
		w.log.Error().Err(err).Msg("worker registration rejected")
		return
	}
	w.log.Debug().Int("worker", id).Msg("registered")

	if err := w.roster.awaitReady(ctx); err != nil {
		return
	}

	for {
		waitStart := time.Now()
		if err := w.ledger.waitTurn(id); err != nil {
			w.log.Debug().Int("worker", id).Msg("stopped while waiting for turn")
			return
		}
		w.inst.waitSeconds.Record(time.Since(waitStart).Seconds())

		t, err := w.ledger.take(id, w.charCount)
		if err != nil {
			return
		}

		// Deliver before handing the turn off: the next worker cannot act
		// until advance runs, so records reach the channel in turn order.
		select {
		case w.turns <- t:
		case <-ctx.Done():
			return
		}

		w.inst.turns.Add(1)
		w.inst.bytes.Add(int64(len(t.Chars)))

		if err := w.ledger.advance(id, w.charCount); err != nil {
			return
		}
	}
}
