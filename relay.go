package relay

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Relay coordinates a fixed set of workers taking strict round-robin turns
// reading a shared cyclic character sequence. Each turn produces one Turn
// record on the channel returned by Turns, in exact turn order.
//
// Relay is a concrete struct; methods are safe for concurrent use. Construct
// via New, then call Start (or pass WithStartImmediately). The relay runs
// until the Start context is canceled or Close is called.
type Relay struct {
	// noCopy prevents accidental copying of the controller.
	//go:nocopy
	nc noCopy

	config *config
	src    Source
	runID  string

	once      sync.Once
	closeOnce sync.Once

	// internal lifecycle control
	ctx    context.Context
	cancel context.CancelFunc
	lc     *lifecycleCoordinator

	// shared coordination state
	roster *roster
	ledger *ledger

	turns chan Turn
	done  chan struct{}

	// worker goroutine accounting
	workersWG sync.WaitGroup

	inst *instruments
	log  zerolog.Logger
}

// noCopy is a vet-recognized marker to discourage copying types with this
// field embedded. It works with the "-copylocks" analyzer via the presence
// of Lock/Unlock methods.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates a new Relay using functional options. It assembles an internal
// config, validates it, and initializes the controller. No worker goroutine
// is spawned before validation passes.
func New(ctx context.Context, opts ...Option) (*Relay, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	src, err := NewSource(cfg.Sequence)
	if err != nil {
		return nil, err
	}

	r := &Relay{}
	r.initialize(&cfg, src)

	if cfg.StartImmediately {
		r.Start(ctx)
	}
	return r, nil
}

// initialize sets up shared state from a validated configuration.
func (r *Relay) initialize(cfg *config, src Source) {
	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	r.config = cfg
	r.src = src
	r.runID = runID
	r.roster = newRoster(cfg.Workers)
	r.ledger = newLedger(src, cfg.Workers)
	r.turns = make(chan Turn, cfg.TurnsBufferSize)
	r.done = make(chan struct{})
	r.inst = newInstruments(cfg.Metrics)
	r.log = cfg.Logger.With().Str("run_id", runID).Logger()
}

// Start spawns the workers and begins turn taking. It is idempotent; only
// the first call has effect. The provided context bounds the whole run:
// when it is done, every worker unblocks and exits, and Turns is closed.
func (r *Relay) Start(ctx context.Context) {
	r.once.Do(func() {
		r.ctx, r.cancel = context.WithCancel(ctx)
		r.lc = newLifecycleCoordinator(
			r.cancel,
			r.ledger.stop,
			&r.workersWG,
			func() { close(r.turns) },
			func() { close(r.done) },
		)

		r.log.Debug().
			Int("workers", r.config.Workers).
			Int("char_count", r.config.CharCount).
			Int("sequence_len", r.src.Len()).
			Msg("starting")

		for i := 0; i < r.config.Workers; i++ {
			w := newWorker(r.roster, r.ledger, r.config.CharCount, r.turns, r.inst, r.log)
			r.workersWG.Add(1)
			go func() {
				defer r.workersWG.Done()
				w.run(r.ctx)
			}()
		}

		// Shutdown watcher: runs the full close sequence when the context
		// ends, whether through Close or external cancellation.
		go func() {
			<-r.ctx.Done()
			r.lc.Close()
		}()
	})
}

// Turns returns the channel delivering one record per completed turn, in
// strict turn order. The channel is closed once all workers have exited.
func (r *Relay) Turns() <-chan Turn { return r.turns }

// Done returns a channel closed after shutdown completes: all workers
// exited and the turns channel closed.
func (r *Relay) Done() <-chan struct{} { return r.done }

// RunID returns the identifier tagging this run's log events.
func (r *Relay) RunID() string { return r.runID }

// Close stops turn taking and waits for all workers to exit.
//
// Semantics:
//   - Idempotent and safe for concurrent use.
//   - Cancels the internal context created at Start, releasing workers
//     blocked at any suspension point.
//   - Waits for worker goroutines to return, then closes Turns.
//   - Closing a Relay that was never started closes Turns and Done directly.
func (r *Relay) Close() {
	r.closeOnce.Do(func() {
		if r.lc != nil {
			r.lc.Close()
			return
		}
		r.log.Debug().Msg("closed before start")
		close(r.turns)
		close(r.done)
	})
}
