package relay

import (
	"sync"
)

// lifecycleCoordinator encapsulates the shutdown sequence for a Relay.
// It is a wiring helper: it doesn't own channels; it orchestrates
// cancellation, waiter release, goroutine joins, and channel closures in a
// deterministic order.
//
// Close() is safe for concurrent calls; the sequence executes exactly once.
type lifecycleCoordinator struct {
	cancel      func()
	stopWaiters func()
	workers     *sync.WaitGroup
	closeTurns  func()
	markDone    func()

	once sync.Once
}

func newLifecycleCoordinator(
	cancel func(),
	stopWaiters func(),
	workers *sync.WaitGroup,
	closeTurns func(),
	markDone func(),
) *lifecycleCoordinator {
	return &lifecycleCoordinator{
		cancel:      cancel,
		stopWaiters: stopWaiters,
		workers:     workers,
		closeTurns:  closeTurns,
		markDone:    markDone,
	}
}

// Close executes the shutdown sequence exactly once:
// 1) cancel the internal context (unblocks gate waits and channel sends)
// 2) release turn-ledger waiters so no worker stays parked on the condition
// 3) wait for all worker goroutines to return
// 4) close the turns channel (no sender remains at this point)
// 5) mark the Relay done
func (lc *lifecycleCoordinator) Close() {
	lc.once.Do(func() {
		if lc.cancel != nil {
			lc.cancel()
		}
		if lc.stopWaiters != nil {
			lc.stopWaiters()
		}
		if lc.workers != nil {
			lc.workers.Wait()
		}
		if lc.closeTurns != nil {
			lc.closeTurns()
		}
		if lc.markDone != nil {
			lc.markDone()
		}
	})
}
