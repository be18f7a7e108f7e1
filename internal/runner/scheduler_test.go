package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abstain/internal/testutil"
)

func TestSchedulerRespectsConcurrencyBound(t *testing.T) {
	ctx := testutil.Context(t, 5*time.Second)
	var inFlight, peak atomic.Int32
	unit := unitFunc(func(_ context.Context, combination Combination) Outcome {
		current := inFlight.Add(1)
		for {
			seen := peak.Load()
			if current <= seen || peak.CompareAndSwap(seen, current) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		return recordedOutcome(combination)
	})
	store := newMemLedger()
	scheduler := &Scheduler{Unit: unit, Ledger: store, Concurrency: 3, BatchSize: 5}

	summary, err := scheduler.Run(ctx, testCombinations(15))

	require.NoError(t, err)
	assert.Equal(t, 15, summary.Attempted)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Equal(t, int32(3), peak.Load(), "expected the pool to fill up")
	assert.Equal(t, 15, store.recordCount())
}

func TestSchedulerFlushesEveryBatch(t *testing.T) {
	cases := []struct {
		name      string
		successes int
		batch     int
		appends   int
	}{
		{name: "remainder", successes: 7, batch: 3, appends: 3},
		{name: "exact", successes: 6, batch: 3, appends: 2},
		{name: "single batch", successes: 2, batch: 50, appends: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := testutil.Context(t, 5*time.Second)
			store := newMemLedger()
			observer := &recordingObserver{}
			scheduler := &Scheduler{
				Unit:        unitFunc(func(_ context.Context, c Combination) Outcome { return recordedOutcome(c) }),
				Ledger:      store,
				Concurrency: 2,
				BatchSize:   tc.batch,
				Observer:    observer,
			}

			summary, err := scheduler.Run(ctx, testCombinations(tc.successes))

			require.NoError(t, err)
			assert.Equal(t, tc.appends, store.appendCount())
			assert.Equal(t, tc.successes, store.recordCount())
			assert.Equal(t, tc.successes, summary.Persisted)
			assert.Len(t, observer.progress, tc.successes/tc.batch)
		})
	}
}

func TestSchedulerFailuresDoNotAbortOrPersist(t *testing.T) {
	ctx := testutil.Context(t, 5*time.Second)
	store := newMemLedger()
	unit := unitFunc(func(_ context.Context, c Combination) Outcome {
		switch c.Question.Text {
		case "q1":
			return Outcome{Combination: c, Status: OutcomeFailed, Err: errors.New("timeout")}
		case "q2":
			return Outcome{Combination: c, Status: OutcomeJudgedError, Category: "ERROR"}
		default:
			return recordedOutcome(c)
		}
	})
	scheduler := &Scheduler{Unit: unit, Ledger: store, Concurrency: 4, BatchSize: 2}

	summary, err := scheduler.Run(ctx, testCombinations(6))

	require.NoError(t, err)
	assert.Equal(t, 6, summary.Attempted)
	assert.Equal(t, 4, summary.Recorded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.JudgedError)
	assert.False(t, summary.Clean())
	keys, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 4)
	for key := range keys {
		assert.NotEqual(t, "q1", key.Question)
		assert.NotEqual(t, "q2", key.Question)
	}
}

func TestSchedulerEmptyBatchesSkipAppend(t *testing.T) {
	ctx := testutil.Context(t, 5*time.Second)
	store := newMemLedger()
	unit := unitFunc(func(_ context.Context, c Combination) Outcome {
		return Outcome{Combination: c, Status: OutcomeFailed, Err: errors.New("down")}
	})
	scheduler := &Scheduler{Unit: unit, Ledger: store, Concurrency: 2, BatchSize: 2}

	_, err := scheduler.Run(ctx, testCombinations(5))

	require.NoError(t, err)
	assert.Zero(t, store.appendCount())
}

func TestSchedulerRetriesFailedFlush(t *testing.T) {
	ctx := testutil.Context(t, 5*time.Second)
	store := newMemLedger()
	store.failTimes = 1
	observer := &recordingObserver{}
	scheduler := &Scheduler{
		Unit:        unitFunc(func(_ context.Context, c Combination) Outcome { return recordedOutcome(c) }),
		Ledger:      store,
		Concurrency: 1,
		BatchSize:   2,
		Observer:    observer,
	}

	summary, err := scheduler.Run(ctx, testCombinations(4))

	require.NoError(t, err)
	assert.Equal(t, 4, store.recordCount())
	assert.Equal(t, 4, summary.Persisted)
	require.Len(t, observer.progress, 2)
	assert.ErrorIs(t, observer.progress[0].FlushErr, errAppendFailed)
	assert.NoError(t, observer.progress[1].FlushErr)
}

func TestSchedulerFinalFlushFailureIsReturned(t *testing.T) {
	ctx := testutil.Context(t, 5*time.Second)
	store := newMemLedger()
	store.failTimes = 1
	scheduler := &Scheduler{
		Unit:        unitFunc(func(_ context.Context, c Combination) Outcome { return recordedOutcome(c) }),
		Ledger:      store,
		Concurrency: 1,
		BatchSize:   10,
	}

	_, err := scheduler.Run(ctx, testCombinations(3))

	require.ErrorIs(t, err, errAppendFailed)
	assert.Zero(t, store.recordCount())
}

func TestSchedulerCancellationFlushesResidual(t *testing.T) {
	ctx, cancel := context.WithCancel(testutil.Context(t, 5*time.Second))
	defer cancel()
	store := newMemLedger()
	var recorded atomic.Int32
	observer := &recordingObserver{onOutcome: func(o Outcome) {
		if o.Status == OutcomeRecorded && recorded.Add(1) == 3 {
			cancel()
		}
	}}
	unit := unitFunc(func(ctx context.Context, c Combination) Outcome {
		switch c.Question.Text {
		case "q0", "q1", "q2":
			return recordedOutcome(c)
		}
		<-ctx.Done()
		return Outcome{Combination: c, Status: OutcomeFailed, Err: ctx.Err()}
	})
	scheduler := &Scheduler{Unit: unit, Ledger: store, Concurrency: 2, BatchSize: 100, Observer: observer}

	summary, err := scheduler.Run(ctx, testCombinations(10))

	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, summary.Interrupted)
	assert.Equal(t, 3, summary.Recorded)
	assert.Less(t, summary.Attempted, 10)
	assert.Positive(t, summary.NotStarted())
	assert.Equal(t, 3, store.recordCount())
}

func TestSchedulerReportsProgressAndETA(t *testing.T) {
	ctx := testutil.Context(t, 5*time.Second)
	clock := testutil.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	observer := &recordingObserver{onOutcome: func(Outcome) { clock.Advance(time.Second) }}
	scheduler := &Scheduler{
		Unit:        unitFunc(func(_ context.Context, c Combination) Outcome { return recordedOutcome(c) }),
		Ledger:      newMemLedger(),
		Concurrency: 1,
		BatchSize:   2,
		Observer:    observer,
		Now:         clock.Now,
	}

	_, err := scheduler.Run(ctx, testCombinations(4))

	require.NoError(t, err)
	require.Len(t, observer.progress, 2)
	first := observer.progress[0]
	assert.Equal(t, 2, first.Completed)
	assert.Equal(t, 4, first.Total)
	assert.InDelta(t, 50.0, first.Percent(), 1e-9)
	assert.Equal(t, 2*time.Second, first.ETA.Round(time.Millisecond))
	assert.Zero(t, observer.progress[1].ETA)
}
