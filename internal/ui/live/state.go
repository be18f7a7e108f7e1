package live

import (
	"time"

	"abstain/internal/eval"
	"abstain/internal/runner"
)

// recentLimit bounds the number of outcome rows kept for display.
const recentLimit = 200

// OutcomeRow captures the display fields of one finished unit.
type OutcomeRow struct {
	Variant  string
	Model    string
	Question string
	Expected string
	Received string
	Status   runner.OutcomeStatus
	Category eval.Category
	Error    string
	Duration time.Duration
}

// OutcomeCounts tracks totals by verdict.
type OutcomeCounts struct {
	Correct   int
	Incorrect int
	Doubt     int
	Error     int
	Failed    int
}

// Done returns the number of finished units.
func (c OutcomeCounts) Done() int {
	return c.Correct + c.Incorrect + c.Doubt + c.Error + c.Failed
}

// State holds the live UI view model.
type State struct {
	RunID      string
	Experiment string
	Models     int
	Variants   int
	Total      int
	Completed  int
	Pending    int
	LedgerPath string
	StartedAt  time.Time
	Counts     OutcomeCounts
	Flushed    int
	ETA        time.Duration
	HasETA     bool
	Rows       []OutcomeRow
	LastEvent  string
	Finished   bool
}

// Percent returns overall completion in [0, 1], counting prior runs.
func (s State) Percent() float64 {
	if s.Total == 0 {
		return 1
	}
	done := s.Completed + s.Counts.Done()
	if done > s.Total {
		done = s.Total
	}
	return float64(done) / float64(s.Total)
}
