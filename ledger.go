package relay

import (
	"strconv"
	"sync"

	"github.com/ygrebnov/errorc"
)

// Turn describes a single completed turn.
type Turn struct {
	// Worker is the logical index of the worker that took the turn.
	Worker int
	// Pos is the cursor position the read started at, in [0, source length).
	Pos int
	// Chars holds the characters emitted this turn.
	Chars []byte
	// Seq is the global turn number, starting at 0.
	Seq uint64
}

// ledger holds the current turn and the shared cursor into the source.
//
// Both fields live behind one mutex and always advance together, so no
// goroutine can observe the turn moved without the cursor or vice versa.
// waitTurn is a guarded wait: advance broadcasts to all waiters and each one
// re-checks the predicate before proceeding, so spurious or collective
// wake-ups never let the wrong worker through.
type ledger struct {
	mu   sync.Mutex
	cond *sync.Cond

	src Source
	n   int

	turn    int
	cursor  int
	seq     uint64
	stopped bool
}

func newLedger(src Source, n int) *ledger {
	l := &ledger{src: src, n: n}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// waitTurn suspends the caller until the current turn equals id, or until
// stop is called, in which case it returns ErrStopped.
func (l *ledger) waitTurn(id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for l.turn != id && !l.stopped {
		l.cond.Wait()
	}
	if l.stopped {
		return ErrStopped
	}
	return nil
}

// take reads count characters at the current cursor and returns the Turn
// record for the holder. It does not advance anything: the turn stays with
// id until advance is called, which keeps emission within the turn and lets
// the caller deliver the record before the next worker can act.
//
// The caller must hold the turn, established by a prior waitTurn.
func (l *ledger) take(id, count int) (Turn, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return Turn{}, ErrStopped
	}
	if l.turn != id {
		return Turn{}, errorc.With(ErrNotYourTurn,
			errorc.String("worker", strconv.Itoa(id)),
			errorc.String("turn", strconv.Itoa(l.turn)))
	}

	return Turn{
		Worker: id,
		Pos:    l.cursor,
		Chars:  l.src.Read(l.cursor, count),
		Seq:    l.seq,
	}, nil
}

// advance moves the cursor by count (modulo source length, so it never grows
// unbounded even when count exceeds the length) and passes the turn to the
// next worker, then wakes all waiters. Cursor and turn move in the same
// critical section.
func (l *ledger) advance(id, count int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return ErrStopped
	}
	if l.turn != id {
		return errorc.With(ErrNotYourTurn,
			errorc.String("worker", strconv.Itoa(id)),
			errorc.String("turn", strconv.Itoa(l.turn)))
	}

	l.cursor = (l.cursor + count) % l.src.Len()
	l.turn = (l.turn + 1) % l.n
	l.seq++
	l.cond.Broadcast()
	return nil
}

// stop wakes every waiter and makes all subsequent ledger operations return
// ErrStopped. It is idempotent.
func (l *ledger) stop() {
	l.mu.Lock()
	l.stopped = true
	l.cond.Broadcast()
	l.mu.Unlock()
}

// snapshot returns the current (turn, cursor) pair. Test hook.
func (l *ledger) snapshot() (turn, cursor int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.turn, l.cursor
}
