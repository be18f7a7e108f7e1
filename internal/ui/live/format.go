package live

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"abstain/internal/eval"
	"abstain/internal/runner"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// truncate collapses whitespace and shortens text to limit runes.
func truncate(text string, limit int) string {
	normalized := strings.Join(strings.Fields(text), " ")
	runes := []rune(normalized)
	if limit <= 3 || len(runes) <= limit {
		return normalized
	}
	return string(runes[:limit-3]) + "..."
}

// formatDuration rounds durations for display.
func formatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}
	return duration.Round(100 * time.Millisecond).String()
}

// formatClock renders durations as H:MM:SS.
func formatClock(duration time.Duration) string {
	return runner.FormatClock(duration)
}

// verdictLabel renders the marker and verdict for a row.
func verdictLabel(row OutcomeRow) string {
	if row.Status == runner.OutcomeFailed {
		return "🚨 EXCEPTION"
	}
	return row.Category.Marker() + " " + string(row.Category)
}

// stylizeVerdict applies verdict coloring when enabled.
func stylizeVerdict(text string, row OutcomeRow, noColor bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(verdictColor(row)).Render(text)
}

// verdictColor selects a color for a row's verdict.
func verdictColor(row OutcomeRow) lipgloss.Color {
	if row.Status == runner.OutcomeFailed {
		return lipgloss.Color("196")
	}
	switch row.Category {
	case eval.Correct:
		return lipgloss.Color("42")
	case eval.Incorrect:
		return lipgloss.Color("220")
	case eval.Doubt:
		return lipgloss.Color("246")
	default:
		return lipgloss.Color("201")
	}
}
