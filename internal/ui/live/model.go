package live

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model renders a live console UI using Bubble Tea.
type Model struct {
	state        State
	table        table.Model
	columns      []table.Column
	bar          progress.Model
	events       <-chan Event
	tickInterval time.Duration
	now          time.Time
	noColor      bool
	interrupt    func()
}

// Options configures the live UI model.
type Options struct {
	NoColor      bool
	TickInterval time.Duration
	// Interrupt is called on ctrl+c, which raw mode delivers as a key.
	Interrupt func()
}

// NewModel constructs a live UI model for an event stream.
func NewModel(events <-chan Event, opts Options) Model {
	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = 200 * time.Millisecond
	}
	columns := defaultColumns()
	t := table.New(
		table.WithColumns(columns),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
	)
	t.SetStyles(tableStyles(opts.NoColor))
	return Model{
		state:        State{},
		table:        t,
		columns:      columns,
		bar:          newBar(opts.NoColor),
		events:       events,
		tickInterval: tickInterval,
		now:          time.Now(),
		noColor:      opts.NoColor,
		interrupt:    opts.Interrupt,
	}
}

// newBar builds the overall progress bar.
func newBar(noColor bool) progress.Model {
	if noColor {
		return progress.New(progress.WithFillCharacters('#', '.'), progress.WithoutPercentage(), progress.WithWidth(40))
	}
	return progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
}

// Init starts ticking and waits for the first event.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tick(m.tickInterval))
}

// Update consumes UI events and timer ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.columns = columnsForWidth(typed.Width)
		m.table.SetWidth(typed.Width)
		m.table.SetHeight(max(typed.Height-6, 1))
		m.table.SetColumns(m.columns)
		m.table.SetRows(rowsForState(m.state, m.columns, m.noColor))
		m.bar.Width = min(max(typed.Width/3, 10), 60)
		return m, nil
	case tea.KeyMsg:
		if typed.Type == tea.KeyCtrlC && m.interrupt != nil {
			m.interrupt()
			m.state.LastEvent = "Interrupted: waiting for in-flight units"
		}
		return m, nil
	case EventMsg:
		m = applyEvent(m, typed.Event)
		return m, waitForEvent(m.events)
	case tickMsg:
		m.now = time.Time(typed)
		return m, tick(m.tickInterval)
	}
	return m, nil
}

// View renders the live UI.
func (m Model) View() string {
	header := renderHeader(m.state, m.now, m.noColor)
	progressLine := renderProgressLine(m.state, m.bar.ViewAs(m.state.Percent()), m.noColor)
	summary := renderSummary(m.state, m.noColor)
	tableView := m.table.View()
	footer := renderFooter(m.state, m.noColor)
	return lipgloss.JoinVertical(lipgloss.Left, header, progressLine, summary, tableView, footer)
}

// EventMsg wraps a UI event for Bubble Tea.
type EventMsg struct {
	Event Event
}

// tickMsg carries a clock tick for updates.
type tickMsg time.Time

// waitForEvent blocks until a UI event is available.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		event, ok := <-events
		if !ok {
			return tea.Quit()
		}
		return EventMsg{Event: event}
	}
}

// tick emits a periodic tick message.
func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// applyEvent folds an event into the model state and refreshes the table.
func applyEvent(model Model, event Event) Model {
	model.state = Reduce(model.state, event)
	if event.Kind == EventOutcome || event.Kind == EventRunStart {
		model.table.SetRows(rowsForState(model.state, model.columns, model.noColor))
	}
	return model
}
