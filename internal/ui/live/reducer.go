package live

import (
	"fmt"
	"strings"

	"abstain/internal/eval"
	"abstain/internal/runner"
)

// Reduce applies an event to the UI state and returns the updated state.
func Reduce(state State, event Event) State {
	switch event.Kind {
	case EventRunStart:
		info := event.Info
		state = State{
			RunID:      info.RunID,
			Experiment: info.Experiment,
			Models:     len(info.Models),
			Variants:   len(info.Variants),
			Total:      info.Total,
			Completed:  info.Completed,
			Pending:    info.Pending,
			LedgerPath: info.LedgerPath,
			StartedAt:  info.StartedAt,
		}
	case EventOutcome:
		row := rowForOutcome(event.Outcome)
		state.Counts = count(state.Counts, event.Outcome)
		state.Rows = prepend(state.Rows, row)
		state.LastEvent = row.Variant + " - " + row.Model + " " + verdictLabel(row)
	case EventProgress:
		progress := event.Progress
		state.Flushed = progress.Flushed
		state.ETA = progress.ETA
		state.HasETA = true
		if progress.FlushErr != nil {
			state.LastEvent = "Flush failed: " + progress.FlushErr.Error()
		}
	case EventRunEnd:
		summary := event.Summary
		state.Finished = true
		state.Flushed = summary.Persisted
		state.ETA = 0
		switch {
		case summary.Interrupted:
			state.LastEvent = fmt.Sprintf("Interrupted: %d not started", summary.NotStarted())
		case summary.Clean():
			state.LastEvent = "All combinations completed!"
		default:
			state.LastEvent = fmt.Sprintf("Finished: %d not recorded", summary.JudgedError+summary.Failed)
		}
	}
	return state
}

func rowForOutcome(outcome runner.Outcome) OutcomeRow {
	combination := outcome.Combination
	row := OutcomeRow{
		Variant:  combination.Variant.Name,
		Model:    combination.Model,
		Question: strings.TrimSpace(combination.Question.Text),
		Expected: strings.TrimSpace(combination.Question.Answer),
		Received: outcome.Received,
		Status:   outcome.Status,
		Category: outcome.Category,
		Duration: outcome.Duration,
	}
	if outcome.Err != nil {
		row.Error = outcome.Err.Error()
	}
	return row
}

func count(counts OutcomeCounts, outcome runner.Outcome) OutcomeCounts {
	if outcome.Status == runner.OutcomeFailed {
		counts.Failed++
		return counts
	}
	switch outcome.Category {
	case eval.Correct:
		counts.Correct++
	case eval.Incorrect:
		counts.Incorrect++
	case eval.Doubt:
		counts.Doubt++
	default:
		counts.Error++
	}
	return counts
}

// prepend keeps the newest row first and caps the list at recentLimit.
func prepend(rows []OutcomeRow, row OutcomeRow) []OutcomeRow {
	next := make([]OutcomeRow, 0, min(len(rows)+1, recentLimit))
	next = append(next, row)
	for _, existing := range rows {
		if len(next) == recentLimit {
			break
		}
		next = append(next, existing)
	}
	return next
}
