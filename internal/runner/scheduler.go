package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"abstain/internal/ledger"
	"abstain/internal/observability"
)

// Scheduler executes units under a concurrency cap and flushes successes to
// the ledger every BatchSize completions.
type Scheduler struct {
	Unit        Unit
	Ledger      ledger.Ledger
	Concurrency int
	BatchSize   int
	Observer    Observer
	Logger      *slog.Logger
	Metrics     *observability.Metrics
	Now         func() time.Time
}

// Run executes pending and returns once every started unit has finished and
// the residual buffer is flushed. Unit failures never abort the run. On
// cancellation no new units start and ctx.Err() is returned with the summary.
func (s *Scheduler) Run(ctx context.Context, pending []Combination) (Summary, error) {
	s.defaults()
	start := s.Now()
	summary := Summary{Pending: len(pending)}
	s.Metrics.SetPending(len(pending))

	outcomes := make(chan Outcome, s.Concurrency)
	go s.submit(ctx, pending, outcomes)

	acc := &accumulator{}
	progress := Progress{Total: len(pending)}
	sinceFlush := 0
	for outcome := range outcomes {
		summary.add(outcome)
		s.Metrics.ObserveOutcome(string(outcome.Status), string(outcome.Category))
		if outcome.Status == OutcomeFailed {
			s.Logger.Warn("unit failed",
				"variant", outcome.Combination.Variant.Name,
				"model", outcome.Combination.Model,
				"question", outcome.Combination.Question.Text,
				"error", outcome.Err,
			)
		}
		if outcome.Status == OutcomeRecorded {
			acc.add(outcome.Record)
		}
		s.Observer.OnOutcome(outcome)

		sinceFlush++
		if sinceFlush < s.BatchSize {
			continue
		}
		sinceFlush = 0
		flushed, err := s.flush(ctx, acc)
		if err != nil {
			s.Logger.Error("ledger flush failed; records kept for retry", "buffered", acc.len(), "error", err)
		} else {
			summary.Persisted += flushed
			if flushed > 0 {
				summary.Flushes++
			}
		}
		elapsed := s.Now().Sub(start)
		progress.Completed = summary.Attempted
		progress.Recorded = summary.Recorded
		progress.Flushed = summary.Persisted
		progress.Elapsed = elapsed
		progress.ETA = estimate(summary.Attempted, len(pending), elapsed)
		progress.FlushErr = err
		s.Observer.OnProgress(progress)
	}

	flushed, flushErr := s.flush(ctx, acc)
	if flushErr == nil {
		summary.Persisted += flushed
		if flushed > 0 {
			summary.Flushes++
		}
	}
	summary.Elapsed = s.Now().Sub(start)
	summary.Interrupted = ctx.Err() != nil
	if flushErr != nil {
		return summary, fmt.Errorf("final flush: %w", flushErr)
	}
	if summary.Interrupted {
		return summary, ctx.Err()
	}
	return summary, nil
}

// submit starts units through a bounded errgroup and closes outcomes once all
// of them have returned. Go blocks while Concurrency units are in flight.
func (s *Scheduler) submit(ctx context.Context, pending []Combination, outcomes chan<- Outcome) {
	defer close(outcomes)
	group := new(errgroup.Group)
	group.SetLimit(s.Concurrency)
	for _, combination := range pending {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			s.Metrics.UnitStarted()
			outcome := s.Unit.Run(ctx, combination)
			s.Metrics.UnitFinished()
			outcomes <- outcome
			return nil
		})
	}
	_ = group.Wait()
}

// flush appends buffered records. Records survive a failed append so the next
// flush retries them. Flushing ignores cancellation so completed work is kept.
func (s *Scheduler) flush(ctx context.Context, acc *accumulator) (int, error) {
	records := acc.drain()
	if len(records) == 0 {
		return 0, nil
	}
	err := s.Ledger.Append(context.WithoutCancel(ctx), records)
	s.Metrics.ObserveFlush(len(records), err)
	if err != nil {
		acc.restore(records)
		return 0, err
	}
	s.Logger.Debug("ledger flushed", "records", len(records))
	return len(records), nil
}

func (s *Scheduler) defaults() {
	if s.Concurrency <= 0 {
		s.Concurrency = 1
	}
	if s.BatchSize <= 0 {
		s.BatchSize = 1
	}
	if s.Observer == nil {
		s.Observer = NopObserver{}
	}
	if s.Logger == nil {
		s.Logger = slog.New(slog.DiscardHandler)
	}
	if s.Now == nil {
		s.Now = time.Now
	}
}

// estimate returns remaining / (completed / elapsed).
func estimate(completed, total int, elapsed time.Duration) time.Duration {
	if completed <= 0 || elapsed <= 0 {
		return 0
	}
	rate := float64(completed) / elapsed.Seconds()
	remaining := float64(total - completed)
	return time.Duration(remaining / rate * float64(time.Second))
}
