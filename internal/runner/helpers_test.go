package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"abstain/internal/ledger"
	"abstain/internal/prompt"
	"abstain/internal/question"
)

var errAppendFailed = errors.New("append failed")

// memLedger is an in-memory ledger that records every append call.
type memLedger struct {
	mu        sync.Mutex
	keys      ledger.KeySet
	appends   [][]ledger.Record
	failTimes int
	closed    bool
}

func newMemLedger() *memLedger {
	return &memLedger{keys: ledger.KeySet{}}
}

func (l *memLedger) Load(context.Context) (ledger.KeySet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := ledger.KeySet{}
	for key := range l.keys {
		out.Add(key)
	}
	return out, nil
}

func (l *memLedger) Append(_ context.Context, records []ledger.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failTimes > 0 {
		l.failTimes--
		return errAppendFailed
	}
	l.appends = append(l.appends, append([]ledger.Record(nil), records...))
	l.keys.AddRecords(records)
	return nil
}

func (l *memLedger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

func (l *memLedger) appendCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.appends)
}

func (l *memLedger) recordCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, batch := range l.appends {
		total += len(batch)
	}
	return total
}

// unitFunc adapts a function to Unit.
type unitFunc func(ctx context.Context, combination Combination) Outcome

func (fn unitFunc) Run(ctx context.Context, combination Combination) Outcome {
	return fn(ctx, combination)
}

func recordedOutcome(combination Combination) Outcome {
	return Outcome{
		Combination: combination,
		Status:      OutcomeRecorded,
		Category:    "CORRECT",
		Record: ledger.Record{
			Question:   combination.Question.Text,
			Model:      combination.Model,
			Evaluation: "CORRECT",
		},
	}
}

func testCombinations(n int) []Combination {
	combinations := make([]Combination, 0, n)
	for i := 0; i < n; i++ {
		combinations = append(combinations, Combination{
			Question: question.Question{Text: fmt.Sprintf("q%d", i), Answer: "a"},
			Variant:  prompt.Variant{Name: "base", System: "sys"},
			Model:    "m1",
		})
	}
	return combinations
}

// recordingObserver keeps every event for assertions.
type recordingObserver struct {
	mu        sync.Mutex
	start     []RunInfo
	outcomes  []Outcome
	progress  []Progress
	end       []Summary
	onOutcome func(Outcome)
}

func (o *recordingObserver) OnRunStart(info RunInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.start = append(o.start, info)
}

func (o *recordingObserver) OnOutcome(outcome Outcome) {
	o.mu.Lock()
	o.outcomes = append(o.outcomes, outcome)
	hook := o.onOutcome
	o.mu.Unlock()
	if hook != nil {
		hook(outcome)
	}
}

func (o *recordingObserver) OnProgress(progress Progress) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress = append(o.progress, progress)
}

func (o *recordingObserver) OnRunEnd(summary Summary) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.end = append(o.end, summary)
}
