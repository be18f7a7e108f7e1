package live

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the run header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	line := "Experiment " + state.Experiment
	if state.RunID != "" {
		line += " | Run " + state.RunID
	}
	if !state.StartedAt.IsZero() {
		line += " | Elapsed: " + formatClock(now.Sub(state.StartedAt))
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the verdict counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Done: " + fmtInt(counts.Done()) + "/" + fmtInt(state.Pending) +
		" Correct: " + fmtInt(counts.Correct) +
		" Incorrect: " + fmtInt(counts.Incorrect) +
		" Doubt: " + fmtInt(counts.Doubt) +
		" Error: " + fmtInt(counts.Error) +
		" Failed: " + fmtInt(counts.Failed) +
		" Flushed: " + fmtInt(state.Flushed)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderProgressLine renders the overall completion and ETA.
func renderProgressLine(state State, bar string, noColor bool) string {
	line := bar + " " + fmtInt(state.Completed+state.Counts.Done()) + "/" + fmtInt(state.Total)
	if state.HasETA && !state.Finished {
		line += " | ETA " + formatClock(state.ETA)
	}
	if state.Models > 0 || state.Variants > 0 {
		line += " | " + fmtInt(state.Models) + " models x " + fmtInt(state.Variants) + " prompts"
	}
	return stylize(line, noColor, lipgloss.Color("240"))
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
