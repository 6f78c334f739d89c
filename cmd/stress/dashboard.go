package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/host-runtime/host"
	"github.com/wippyai/host-runtime/queue"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	numStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type dashboardModel struct {
	h   *host.Host
	q   *queue.ConcurrentQueue
	cfg stressConfig

	spin    spinner.Model
	stats   queue.Stats
	summary *stressSummary
	started time.Time
}

type tickMsg time.Time

type doneMsg stressSummary

func newDashboardModel(h *host.Host, q *queue.ConcurrentQueue, cfg stressConfig) *dashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &dashboardModel{h: h, q: q, cfg: cfg, spin: s, started: time.Now()}
}

func (m *dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.startStress, tick())
}

func (m *dashboardModel) startStress() tea.Msg {
	return doneMsg(runStress(m.h, m.cfg))
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case tickMsg:
		m.stats = m.q.Stats()
		if m.summary != nil {
			return m, nil
		}
		return m, tick()

	case doneMsg:
		s := stressSummary(msg)
		m.summary = &s
		m.stats = m.q.Stats()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Host Runtime Stress"))
	b.WriteString("\n\n")

	if m.summary == nil {
		b.WriteString(m.spin.View())
		b.WriteString(fmt.Sprintf(" running for %s\n\n", time.Since(m.started).Round(time.Millisecond)))
	} else {
		b.WriteString(fmt.Sprintf("done in %s\n\n", m.summary.elapsed.Round(time.Millisecond)))
	}

	row := func(label string, v any) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", label)))
		b.WriteString(numStyle.Render(fmt.Sprintf("%v", v)))
		b.WriteString("\n")
	}
	row("pending", m.stats.Pending)
	row("blocking pending", m.stats.BlockingPending)
	row("blocking threads", m.stats.BlockingThreads)
	row("executed", m.stats.Executed)
	row("blocking executed", m.stats.BlockingExecuted)
	if m.stats.Rejected > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%-18s%d", "rejected", m.stats.Rejected)))
		b.WriteString("\n")
	}

	if m.summary != nil {
		b.WriteString("\n")
		if m.summary.errors > 0 {
			b.WriteString(warnStyle.Render(fmt.Sprintf("errors: %d", m.summary.errors)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func runDashboard(h *host.Host, q *queue.ConcurrentQueue, cfg stressConfig) error {
	p := tea.NewProgram(newDashboardModel(h, q, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
