package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"abstain/internal/agent"
	"abstain/internal/ledger"
	"abstain/internal/observability"
	"abstain/internal/prompt"
	"abstain/internal/ratelimit"
	"abstain/internal/spec"
)

// CallerFactory builds the remote caller for a provider config.
type CallerFactory func(cfg spec.ProviderConfig) (agent.Caller, error)

// LedgerOpener opens the configured ledger.
type LedgerOpener func(ctx context.Context, cfg spec.LedgerConfig, runID string) (ledger.Ledger, error)

// Deps holds replaceable collaborators for Run.
type Deps struct {
	CallerFactory CallerFactory
	OpenLedger    LedgerOpener
	RunID         string
	Now           func() time.Time
}

// RunParams tunes a run. Positive Concurrency, BatchSize, and Limit override
// the config.
type RunParams struct {
	Concurrency int
	BatchSize   int
	Limit       int
	Observer    Observer
	Logger      *slog.Logger
	Metrics     *observability.Metrics
	Deps        Deps
}

// Run evaluates every combination not yet in the ledger.
func Run(ctx context.Context, cfg spec.Config, params RunParams) (Summary, error) {
	deps := params.Deps
	if deps.CallerFactory == nil {
		return Summary{}, fmt.Errorf("caller factory is required")
	}
	if deps.OpenLedger == nil {
		deps.OpenLedger = ledger.Open
	}
	if deps.RunID == "" {
		deps.RunID = NewRunID()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	observer := params.Observer
	if observer == nil {
		observer = NopObserver{}
	}
	logger := params.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("run_id", deps.RunID)

	limit := cfg.Run.Limit
	if params.Limit > 0 {
		limit = params.Limit
	}
	inputs, err := LoadInputs(cfg, limit)
	if err != nil {
		return Summary{}, err
	}

	store, err := deps.OpenLedger(ctx, cfg.Ledger, deps.RunID)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("close ledger", "error", closeErr)
		}
	}()
	completed, err := store.Load(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load ledger: %w", err)
	}

	all := inputs.Combinations()
	pending := Pending(all, completed)
	concurrency := ratelimit.ResolveConcurrency(cfg.Run, params.Concurrency)
	batchSize := ratelimit.ResolveBatchSize(cfg.Run, params.BatchSize)
	info := RunInfo{
		RunID:       deps.RunID,
		Experiment:  cfg.Experiment,
		Questions:   len(inputs.Questions),
		Models:      inputs.Models,
		Variants:    prompt.Names(inputs.Variants),
		Total:       len(all),
		Completed:   len(all) - len(pending),
		Pending:     len(pending),
		Concurrency: concurrency,
		BatchSize:   batchSize,
		LedgerPath:  cfg.Ledger.Path,
		StartedAt:   deps.Now(),
	}
	logger.Info("run starting",
		"experiment", info.Experiment,
		"total", info.Total,
		"completed", info.Completed,
		"pending", info.Pending,
		"concurrency", concurrency,
		"batch_size", batchSize,
	)
	observer.OnRunStart(info)

	summary := Summary{}
	if len(pending) > 0 {
		caller, err := deps.CallerFactory(cfg.Provider)
		if err != nil {
			return Summary{}, err
		}
		caller = agent.Logged(agent.Throttled(caller, ratelimit.BuildLimiter(cfg.Provider)), logger, params.Metrics)
		scheduler := &Scheduler{
			Unit: Task{
				Caller:            caller,
				JudgeModel:        cfg.Judge.Model,
				JudgeSystem:       inputs.JudgeSystem,
				JudgeMaxTokens:    cfg.Judge.MaxTokens,
				AnswerTemperature: cfg.Answer.Temperature,
				AnswerMaxTokens:   cfg.Answer.MaxTokens,
			},
			Ledger:      store,
			Concurrency: concurrency,
			BatchSize:   batchSize,
			Observer:    observer,
			Logger:      logger,
			Metrics:     params.Metrics,
			Now:         deps.Now,
		}
		summary, err = scheduler.Run(ctx, pending)
		summary.RunID = deps.RunID
		summary.Total = info.Total
		summary.Completed = info.Completed
		observer.OnRunEnd(summary)
		logger.Info("run finished",
			"attempted", summary.Attempted,
			"recorded", summary.Recorded,
			"judged_error", summary.JudgedError,
			"failed", summary.Failed,
			"elapsed", summary.Elapsed,
			"interrupted", summary.Interrupted,
		)
		return summary, err
	}

	summary.RunID = deps.RunID
	summary.Total = info.Total
	summary.Completed = info.Completed
	observer.OnRunEnd(summary)
	return summary, nil
}
