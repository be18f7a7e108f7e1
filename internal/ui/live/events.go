package live

import "abstain/internal/runner"

// EventKind identifies UI event types.
type EventKind string

const (
	EventRunStart EventKind = "run_start"
	EventOutcome  EventKind = "outcome"
	EventProgress EventKind = "progress"
	EventRunEnd   EventKind = "run_end"
)

// Event is a UI update emitted by the runner.
type Event struct {
	Kind     EventKind
	Info     runner.RunInfo
	Outcome  runner.Outcome
	Progress runner.Progress
	Summary  runner.Summary
}
