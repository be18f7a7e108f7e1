package runner

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Reporter prints the run as plain text.
type Reporter struct {
	w io.Writer
}

// NewReporter returns a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func (r *Reporter) OnRunStart(info RunInfo) {
	fmt.Fprintf(r.w, "Starting experiment: %s\n", info.Experiment)
	fmt.Fprintf(r.w, "Run ID: %s\n", info.RunID)
	fmt.Fprintf(r.w, "Questions: %d\n", info.Questions)
	fmt.Fprintf(r.w, "Models: %d\n", len(info.Models))
	fmt.Fprintf(r.w, "System Prompts: %s\n", strings.Join(info.Variants, ", "))
	fmt.Fprintf(r.w, "Total combinations: %d\n", info.Total)
	fmt.Fprintf(r.w, "Already completed: %d combinations\n", info.Completed)
	fmt.Fprintf(r.w, "Remaining: %d combinations\n\n", info.Pending)
	fmt.Fprintf(r.w, "Starting %d tasks with concurrency limit of %d\n", info.Pending, info.Concurrency)
}

func (r *Reporter) OnOutcome(outcome Outcome) {
	fmt.Fprintln(r.w, outcome.Combination.Label())
	if outcome.Status == OutcomeFailed {
		fmt.Fprintf(r.w, "🚨 EXCEPTION: %v\n", outcome.Err)
		return
	}
	fmt.Fprintf(r.w, "  Expected: %s\n", outcome.Combination.Question.Answer)
	fmt.Fprintf(r.w, "%sGot:      %s\n", outcome.Category.Marker(), outcome.Received)
}

func (r *Reporter) OnProgress(progress Progress) {
	fmt.Fprintf(r.w, "\n  Progress: %d/%d (%.1f%%)\n", progress.Completed, progress.Total, progress.Percent())
	fmt.Fprintf(r.w, "  ETA: %s\n", FormatClock(progress.ETA))
	if progress.FlushErr != nil {
		fmt.Fprintf(r.w, "  Flush failed, will retry: %v\n", progress.FlushErr)
	}
	fmt.Fprintln(r.w)
}

func (r *Reporter) OnRunEnd(summary Summary) {
	fmt.Fprintf(r.w, "\nCompleted %d out of %d tasks\n", summary.Recorded, summary.Pending)
	if summary.JudgedError > 0 || summary.Failed > 0 {
		fmt.Fprintf(r.w, "Not recorded: %d judged ERROR, %d failed (retried on the next run)\n", summary.JudgedError, summary.Failed)
	}
	if summary.Interrupted {
		fmt.Fprintf(r.w, "Interrupted: %d tasks not started\n", summary.NotStarted())
	}
	fmt.Fprintf(r.w, "Total time: %s\n", FormatClock(summary.Elapsed))
	if summary.Clean() {
		fmt.Fprintln(r.w, "All combinations completed!")
	}
}

// FormatClock renders d as H:MM:SS, truncated to whole seconds.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
