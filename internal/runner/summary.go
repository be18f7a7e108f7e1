package runner

import (
	"time"

	"abstain/internal/eval"
)

// Summary aggregates a run.
type Summary struct {
	RunID       string
	Total       int
	Completed   int
	Pending     int
	Attempted   int
	Recorded    int
	JudgedError int
	Failed      int
	Persisted   int
	Flushes     int
	Categories  map[eval.Category]int
	Elapsed     time.Duration
	Interrupted bool
}

// NotStarted returns the pending units that never ran.
func (s Summary) NotStarted() int {
	return s.Pending - s.Attempted
}

// Clean reports whether every pending unit ran and was recorded.
func (s Summary) Clean() bool {
	return !s.Interrupted && s.Failed == 0 && s.JudgedError == 0 && s.Attempted == s.Pending
}

func (s *Summary) add(outcome Outcome) {
	s.Attempted++
	if s.Categories == nil {
		s.Categories = map[eval.Category]int{}
	}
	switch outcome.Status {
	case OutcomeRecorded:
		s.Recorded++
		s.Categories[outcome.Category]++
	case OutcomeJudgedError:
		s.JudgedError++
		s.Categories[outcome.Category]++
	default:
		s.Failed++
	}
}
