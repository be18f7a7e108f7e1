package live

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// defaultColumns returns columns sized for an 120-column terminal.
func defaultColumns() []table.Column {
	return columnsForWidth(120)
}

// columnsForWidth distributes the terminal width, giving the remainder to
// the question and answer columns.
func columnsForWidth(width int) []table.Column {
	const (
		variantWidth  = 14
		modelWidth    = 24
		verdictWidth  = 14
		durationWidth = 8
		padding       = 14
	)
	flexible := max(width-variantWidth-modelWidth-verdictWidth-durationWidth-padding, 30)
	questionWidth := flexible / 2
	answerWidth := (flexible - questionWidth) / 2
	receivedWidth := flexible - questionWidth - answerWidth
	return []table.Column{
		{Title: "Variant", Width: variantWidth},
		{Title: "Model", Width: modelWidth},
		{Title: "Question", Width: questionWidth},
		{Title: "Expected", Width: answerWidth},
		{Title: "Got", Width: receivedWidth},
		{Title: "Verdict", Width: verdictWidth},
		{Title: "Time", Width: durationWidth},
	}
}

// rowsForState converts UI state into table rows, newest first.
func rowsForState(state State, columns []table.Column, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		received := row.Received
		if row.Error != "" {
			received = row.Error
		}
		rows = append(rows, table.Row{
			truncate(row.Variant, columns[0].Width),
			truncate(row.Model, columns[1].Width),
			truncate(row.Question, columns[2].Width),
			truncate(row.Expected, columns[3].Width),
			truncate(received, columns[4].Width),
			stylizeVerdict(verdictLabel(row), row, noColor),
			formatDuration(row.Duration),
		})
	}
	return rows
}
