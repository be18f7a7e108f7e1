package runner

import "time"

// RunInfo describes a run before any unit starts.
type RunInfo struct {
	RunID       string
	Experiment  string
	Questions   int
	Models      []string
	Variants    []string
	Total       int
	Completed   int
	Pending     int
	Concurrency int
	BatchSize   int
	LedgerPath  string
	StartedAt   time.Time
}

// Progress is reported after every flush batch.
type Progress struct {
	Completed int
	Total     int
	Recorded  int
	Flushed   int
	Elapsed   time.Duration
	ETA       time.Duration
	FlushErr  error
}

// Percent returns completion as a percentage of Total.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Completed) / float64(p.Total) * 100
}

// Observer receives run lifecycle events. Calls come from a single goroutine.
type Observer interface {
	// OnRunStart signals the start of a run.
	OnRunStart(info RunInfo)
	// OnOutcome delivers each finished unit in completion order.
	OnOutcome(outcome Outcome)
	// OnProgress delivers the state after a flush batch.
	OnProgress(progress Progress)
	// OnRunEnd signals run completion.
	OnRunEnd(summary Summary)
}

// Observers fans events out to every observer in order.
type Observers []Observer

func (o Observers) OnRunStart(info RunInfo) {
	for _, observer := range o {
		observer.OnRunStart(info)
	}
}

func (o Observers) OnOutcome(outcome Outcome) {
	for _, observer := range o {
		observer.OnOutcome(outcome)
	}
}

func (o Observers) OnProgress(progress Progress) {
	for _, observer := range o {
		observer.OnProgress(progress)
	}
}

func (o Observers) OnRunEnd(summary Summary) {
	for _, observer := range o {
		observer.OnRunEnd(summary)
	}
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnRunStart(RunInfo)  {}
func (NopObserver) OnOutcome(Outcome)   {}
func (NopObserver) OnProgress(Progress) {}
func (NopObserver) OnRunEnd(Summary)    {}
