package relay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/relay/metrics"
)

// collectTurns receives n turns or fails the test after a timeout.
func collectTurns(t *testing.T, r *Relay, n int) []Turn {
	t.Helper()
	out := make([]Turn, 0, n)
	timeout := time.After(5 * time.Second)
	for len(out) < n {
		select {
		case turn, ok := <-r.Turns():
			require.True(t, ok, "turns channel closed after %d of %d turns", len(out), n)
			out = append(out, turn)
		case <-timeout:
			t.Fatalf("timed out after %d of %d turns", len(out), n)
		}
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		opts []Option
	}{
		{"no sequence", nil},
		{"empty sequence via validate", []Option{func(cfg *config) error { cfg.Sequence = ""; return nil }}},
		{"zero charCount", []Option{WithSequence("ab"), func(cfg *config) error { cfg.CharCount = 0; return nil }}},
		{"zero workers", []Option{WithSequence("ab"), func(cfg *config) error { cfg.Workers = 0; return nil }}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(ctx, tc.opts...)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNew_NilOptionsSkipped(t *testing.T) {
	r, err := New(context.Background(), nil, WithSequence("ab"), nil)
	require.NoError(t, err)
	r.Close()
}

// The concrete scenario: sequence abcdef, two characters per turn, three
// workers. The first six turns are fully determined.
func TestRelay_RoundRobin_Scenario(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := New(ctx,
		WithSequence("abcdef"),
		WithCharCount(2),
		WithWorkers(3),
	)
	require.NoError(t, err)
	r.Start(ctx)
	defer r.Close()

	turns := collectTurns(t, r, 6)

	expected := []struct {
		worker int
		pos    int
		chars  string
	}{
		{0, 0, "ab"},
		{1, 2, "cd"},
		{2, 4, "ef"},
		{0, 0, "ab"},
		{1, 2, "cd"},
		{2, 4, "ef"},
	}
	for i, want := range expected {
		require.Equal(t, want.worker, turns[i].Worker, "turn %d worker", i)
		require.Equal(t, want.pos, turns[i].Pos, "turn %d position", i)
		require.Equal(t, want.chars, string(turns[i].Chars), "turn %d characters", i)
		require.Equal(t, uint64(i), turns[i].Seq, "turn %d sequence number", i)
	}
}

// Wrap with remainder: sequence abc (L=3), two characters per turn, one
// worker. The cursor steps 0, 2, 1, 0, ... and reads wrap mid-slice.
func TestRelay_WrapWithRemainder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := New(ctx,
		WithSequence("abc"),
		WithCharCount(2),
		WithWorkers(1),
		WithStartImmediately(),
	)
	require.NoError(t, err)
	defer r.Close()

	turns := collectTurns(t, r, 4)

	wantChars := []string{"ab", "ca", "bc", "ab"}
	wantPos := []int{0, 2, 1, 0}
	for i := range wantChars {
		require.Equal(t, 0, turns[i].Worker)
		require.Equal(t, wantPos[i], turns[i].Pos, "turn %d position", i)
		require.Equal(t, wantChars[i], string(turns[i].Chars), "turn %d characters", i)
	}
}

// Round-robin order and even distribution, independent of scheduling:
// identities follow 0..N-1 cyclically, and over T turns each worker takes
// floor(T/N) or ceil(T/N) of them.
func TestRelay_StrictCyclicOrder(t *testing.T) {
	const (
		n = 5
		T = 100
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := New(ctx,
		WithSequence("abcdefg"),
		WithCharCount(3),
		WithWorkers(n),
	)
	require.NoError(t, err)
	r.Start(ctx)
	defer r.Close()

	turns := collectTurns(t, r, T)

	perWorker := make(map[int]int, n)
	for i, turn := range turns {
		require.Equal(t, i%n, turn.Worker, "turn %d out of cyclic order", i)
		require.Equal(t, uint64(i), turn.Seq)
		perWorker[turn.Worker]++
	}
	for id := 0; id < n; id++ {
		require.InDelta(t, T/n, perWorker[id], 1, "worker %d turn share", id)
	}
}

// The cursor law holds across turns: the read on turn k starts at
// (charCount*k) mod L.
func TestRelay_CursorLaw(t *testing.T) {
	const (
		charCount = 4
		seq       = "abcdef" // L = 6
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := New(ctx,
		WithSequence(seq),
		WithCharCount(charCount),
		WithWorkers(2),
		WithStartImmediately(),
	)
	require.NoError(t, err)
	defer r.Close()

	src, _ := NewSource(seq)
	for k, turn := range collectTurns(t, r, 30) {
		wantPos := (charCount * k) % len(seq)
		require.Equal(t, wantPos, turn.Pos, "turn %d position", k)
		require.Equal(t, string(src.Read(wantPos, charCount)), string(turn.Chars), "turn %d characters", k)
	}
}

// charCount greater than the sequence length: reads wrap the sequence more
// than once and the cursor stays normalized.
func TestRelay_CharCountExceedsSequence(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := New(ctx,
		WithSequence("abc"),
		WithCharCount(7),
		WithWorkers(2),
		WithStartImmediately(),
	)
	require.NoError(t, err)
	defer r.Close()

	for k, turn := range collectTurns(t, r, 9) {
		require.Len(t, turn.Chars, 7, "turn %d slice length", k)
		require.Equal(t, (7*k)%3, turn.Pos, "turn %d position", k)
		require.GreaterOrEqual(t, turn.Pos, 0)
		require.Less(t, turn.Pos, 3)
	}
}

// No worker takes a turn before every worker has registered.
func TestRelay_RegistrationLatch(t *testing.T) {
	const n = 6
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := New(ctx,
		WithSequence("abcdef"),
		WithCharCount(1),
		WithWorkers(n),
	)
	require.NoError(t, err)
	r.Start(ctx)
	defer r.Close()

	collectTurns(t, r, 1)
	require.Equal(t, n, r.roster.registered(),
		"a turn was taken before all workers registered")
}

func TestRelay_SingleWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := New(ctx, WithSequence("ab"), WithStartImmediately())
	require.NoError(t, err)
	defer r.Close()

	for i, turn := range collectTurns(t, r, 5) {
		require.Equal(t, 0, turn.Worker, "turn %d", i)
	}
}

func TestRelay_CancellationClosesTurns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	r, err := New(ctx,
		WithSequence("abcdef"),
		WithCharCount(2),
		WithWorkers(3),
	)
	require.NoError(t, err)
	r.Start(ctx)

	collectTurns(t, r, 3)
	cancel()

	// All workers observe the signal at their next suspension point; the
	// turns channel closes once every one of them has exited.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-r.Turns():
			if !ok {
				select {
				case <-r.Done():
				case <-deadline:
					t.Fatal("Done not closed after turns channel closed")
				}
				return
			}
		case <-deadline:
			t.Fatal("turns channel not closed after cancellation")
		}
	}
}

func TestRelay_CloseIsIdempotent(t *testing.T) {
	ctx := context.Background()

	r, err := New(ctx, WithSequence("abc"), WithWorkers(2), WithCharCount(1))
	require.NoError(t, err)
	r.Start(ctx)
	collectTurns(t, r, 2)

	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		go func() {
			r.Close()
			done <- struct{}{}
		}()
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("concurrent Close did not return")
		}
	}
	<-r.Done()
}

func TestRelay_CloseBeforeStart(t *testing.T) {
	r, err := New(context.Background(), WithSequence("abc"))
	require.NoError(t, err)

	r.Close()

	_, ok := <-r.Turns()
	require.False(t, ok, "turns channel should be closed")
	select {
	case <-r.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed")
	}
}

func TestRelay_StartIsIdempotent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := New(ctx, WithSequence("abcdef"), WithCharCount(2), WithWorkers(3))
	require.NoError(t, err)
	r.Start(ctx)
	r.Start(ctx)
	defer r.Close()

	// A second Start must not spawn a second set of workers; order stays
	// strictly cyclic.
	for i, turn := range collectTurns(t, r, 9) {
		require.Equal(t, i%3, turn.Worker, "turn %d", i)
	}
}

func TestRelay_Metrics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := metrics.NewBasicProvider()
	r, err := New(ctx,
		WithSequence("abcdef"),
		WithCharCount(2),
		WithWorkers(3),
		WithMetrics(p),
	)
	require.NoError(t, err)
	r.Start(ctx)

	collectTurns(t, r, 12)
	r.Close()
	<-r.Done()

	turns := p.Counter("relay.turns.total").(*metrics.BasicCounter).Snapshot()
	chars := p.Counter("relay.chars.emitted").(*metrics.BasicCounter).Snapshot()
	require.GreaterOrEqual(t, turns, int64(12))
	require.Equal(t, 2*turns, chars)

	waits, _, _, _ := p.Histogram("relay.turn.wait.seconds").(*metrics.BasicHistogram).Snapshot()
	require.GreaterOrEqual(t, waits, turns)
}

func TestRelay_RunID(t *testing.T) {
	ctx := context.Background()

	r, err := New(ctx, WithSequence("ab"))
	require.NoError(t, err)
	require.NotEmpty(t, r.RunID())
	r.Close()

	r2, err := New(ctx, WithSequence("ab"), WithRunID("run-42"))
	require.NoError(t, err)
	require.Equal(t, "run-42", r2.RunID())
	r2.Close()
}
