package relay

import (
	"context"
	"strconv"
	"sync"

	"github.com/ygrebnov/errorc"
)

// roster is the registration gate shared by all workers of one Relay.
//
// Each worker calls register exactly once and receives the next free logical
// index, in arrival order. The roster is sized at construction; indices form
// a bijection with [0, size). Once the last slot is taken the ready latch
// opens and stays open, releasing every awaitReady caller including ones
// that arrive later.
//
// The latch is a closed channel rather than a polled counter, so waiters
// consume no CPU and remain cancellation-aware.
type roster struct {
	mu    sync.Mutex
	size  int
	next  int
	ready chan struct{}
}

func newRoster(size int) *roster {
	return &roster{size: size, ready: make(chan struct{})}
}

// register assigns and records the next free index. Calling it more than
// size times is a programming error and returns ErrRosterFull.
func (r *roster) register() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.next >= r.size {
		return 0, errorc.With(ErrRosterFull,
			errorc.String("capacity", strconv.Itoa(r.size)))
	}

	id := r.next
	r.next++
	if r.next == r.size {
		close(r.ready)
	}
	return id, nil
}

// awaitReady blocks until all slots are registered or ctx is done.
func (r *roster) awaitReady(ctx context.Context) error {
	select {
	case <-r.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// registered reports how many workers have registered so far.
func (r *roster) registered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next
}
