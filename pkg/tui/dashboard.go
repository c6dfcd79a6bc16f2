// Package tui implements the live occupancy dashboard behind the watch
// command: a bubbletea program that polls engine.Stats() on a fixed
// tick and renders worker/arena occupancy with lipgloss.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MBatuhanOzer/filter/pkg/engine"
)

// pollInterval is how often the model refreshes its engine.Stats snapshot.
const pollInterval = 250 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	busyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	idleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

// StatsSource is the subset of *engine.Engine the dashboard depends on,
// so tests can supply a fake without spinning up a real worker pool.
type StatsSource interface {
	Stats() engine.Stats
}

type tickMsg time.Time

type model struct {
	source StatsSource
	stats  engine.Stats
	bar    progress.Model
	ticks  int
}

// NewModel builds the initial dashboard model over source.
func NewModel(source StatsSource) tea.Model {
	return model{
		source: source,
		bar:    progress.New(progress.WithDefaultGradient()),
	}
}

func (m model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		m.stats = m.source.Stats()
		m.ticks++
		return m, tick()
	}
	return m, nil
}

func (m model) View() string {
	occupied := m.stats.ArenaSize - m.stats.ArenaFree
	ratio := 0.0
	if m.stats.ArenaSize > 0 {
		ratio = float64(occupied) / float64(m.stats.ArenaSize)
	}

	status := idleStyle.Render("idle")
	if m.stats.QueueBusy {
		status = busyStyle.Render("busy")
	}

	return fmt.Sprintf(
		"%s\n\n%s %s\n%s %d\n%s %d/%d (%s)\n\n%s\n\n%s\n",
		titleStyle.Render("imgfilter — live engine occupancy"),
		labelStyle.Render("queue:"), status,
		labelStyle.Render("workers:"), m.stats.Workers,
		labelStyle.Render("arena nodes in use:"), occupied, m.stats.ArenaSize, status,
		m.bar.ViewAs(ratio),
		labelStyle.Render("press q to quit"),
	)
}

// Run starts the dashboard program over source and blocks until the user
// quits.
func Run(source StatsSource) error {
	p := tea.NewProgram(NewModel(source))
	_, err := p.Run()
	return err
}
