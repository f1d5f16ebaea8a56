package dash

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vizual-ai/vizdash/internal/gateway"
)

// keyMap defines the dashboard keybindings.
type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("tab", "right", "l"),
		key.WithHelp("tab", "section"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "left", "h"),
		key.WithHelp("shift+tab", "back"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "re-probe"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type dataMsg Data

type reportMsg gateway.Report

// Model is the interactive dashboard. Data loading and probing are
// injected as functions so the model stays testable without a network.
type Model struct {
	data     Data
	sections []string
	active   int

	width  int
	height int

	checking bool

	loadData func(context.Context) Data
	refresh  func(context.Context) gateway.Report
}

// NewModel creates the dashboard model. loadData assembles a full Data
// snapshot; refresh runs one probe batch.
func NewModel(loadData func(context.Context) Data, refresh func(context.Context) gateway.Report) Model {
	return Model{
		sections: SectionOrder,
		loadData: loadData,
		refresh:  refresh,
	}
}

// Run starts the dashboard TUI and blocks until quit.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err := p.Run()

	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.refreshCmd())
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return dataMsg(m.loadData(context.Background()))
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return reportMsg(m.refresh(context.Background()))
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m, nil

	case dataMsg:
		// Keep the latest probe report; a data reload must not wipe it.
		report := m.data.Report
		m.data = Data(msg)

		if len(report.Endpoints) > 0 {
			m.data.Report = report
		}

		return m, nil

	case reportMsg:
		m.data.Report = gateway.Report(msg)
		m.checking = false

		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Next):
			m.active = (m.active + 1) % len(m.sections)
			return m, nil
		case key.Matches(msg, keys.Prev):
			m.active = (m.active - 1 + len(m.sections)) % len(m.sections)
			return m, nil
		case key.Matches(msg, keys.Refresh):
			return m.startRefresh()
		}
	}

	return m, nil
}

// startRefresh flips every endpoint to checking before the batch is
// dispatched, so the next frame shows the transient state.
func (m Model) startRefresh() (tea.Model, tea.Cmd) {
	if m.checking {
		// A batch is in flight; overlapping batches are not queued.
		return m, nil
	}

	statuses := make(map[string]gateway.Status, len(m.data.Report.Endpoints))
	for _, ep := range m.data.Report.Endpoints {
		statuses[ep.ID] = gateway.StatusChecking
	}

	m.data.Report.Statuses = statuses
	m.data.Report.TunnelOnline = false
	m.checking = true

	return m, m.refreshCmd()
}

func (m Model) View() string {
	if m.width == 0 {
		return "loading…"
	}

	body, err := Render(m.sections[m.active], m.data, m.width)
	if err != nil {
		body = badStyle.Render(err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body)
}

// ActiveSection returns the name of the currently selected section.
func (m Model) ActiveSection() string {
	return m.sections[m.active]
}

func (m Model) renderHeader() string {
	indicator := badStyle.Render("●")
	indicatorLabel := "degraded"

	switch {
	case m.checking:
		indicator = warnStyle.Render("◌")
		indicatorLabel = "checking"
	case m.data.Report.TunnelOnline:
		indicator = okStyle.Render("●")
		indicatorLabel = "online"
	}

	left := titleStyle.Render("vizdash") + mutedStyle.Render("  "+m.data.Org)
	right := indicator + mutedStyle.Render(" gateway "+indicatorLabel)

	tabs := make([]string, 0, len(m.sections))

	for i, name := range m.sections {
		if i == m.active {
			tabs = append(tabs, titleStyle.Render(name))
		} else {
			tabs = append(tabs, mutedStyle.Render(name))
		}
	}

	hintParts := make([]string, 0, 4)
	for _, binding := range []key.Binding{keys.Next, keys.Prev, keys.Refresh, keys.Quit} {
		help := binding.Help()
		hintParts = append(hintParts, fmt.Sprintf("<%s> %s", help.Key, help.Desc))
	}

	hints := mutedStyle.Render(strings.Join(hintParts, "  "))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	top := left + strings.Repeat(" ", gap) + right

	return strings.Join([]string{
		top,
		strings.Join(tabs, mutedStyle.Render(" · ")),
		hints,
		separator(m.width),
	}, "\n")
}
