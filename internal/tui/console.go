package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rubentalstra/OpCore-Simplify/internal/clock"
	"github.com/rubentalstra/OpCore-Simplify/internal/logging"
)

// consoleTickMsg drives the periodic refresh from the log ring buffer.
type consoleTickMsg time.Time

// levelFilters cycles with the f key; empty string means show all.
var levelFilters = []string{"", "debug", "info", "warn", "error"}

// ConsoleModel shows the captured application log.
type ConsoleModel struct {
	Backend  Backend
	Viewport viewport.Model

	FilterIdx  int
	AutoScroll bool
	Status     string

	lineCount int
	ready     bool
}

func NewConsoleModel(backend Backend) ConsoleModel {
	return ConsoleModel{
		Backend:    backend,
		AutoScroll: true,
	}
}

func consoleTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return consoleTickMsg(t)
	})
}

func (m ConsoleModel) Init() tea.Cmd {
	return consoleTick()
}

func (m ConsoleModel) Update(msg tea.Msg) (ConsoleModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 6
		if !m.ready {
			m.Viewport = viewport.New(msg.Width-6, msg.Height-headerHeight)
			m.ready = true
		} else {
			m.Viewport.Width = msg.Width - 6
			m.Viewport.Height = msg.Height - headerHeight
		}
		m.refresh()
		return m, nil

	case consoleTickMsg:
		m.refresh()
		return m, consoleTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "f":
			m.FilterIdx = (m.FilterIdx + 1) % len(levelFilters)
			m.refresh()
			return m, nil
		case "a":
			m.AutoScroll = !m.AutoScroll
			return m, nil
		case "s":
			m.Status = m.saveToFile()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// refresh re-renders the viewport content from the ring buffer.
func (m *ConsoleModel) refresh() {
	entries := logging.GetAppLogBuffer().GetAll()
	filter := levelFilters[m.FilterIdx]

	var lines []string
	for _, e := range entries {
		if filter != "" && e.Level != filter {
			continue
		}
		lines = append(lines, formatEntry(e))
	}

	m.lineCount = len(lines)
	m.Viewport.SetContent(strings.Join(lines, "\n"))
	if m.AutoScroll {
		m.Viewport.GotoBottom()
	}
}

func formatEntry(e logging.AppLogEntry) string {
	level := fmt.Sprintf("[%s]", e.Level)
	switch e.Level {
	case "error":
		level = StyleStatusBad.Render(level)
	case "warn":
		level = StyleStatusWarn.Render(level)
	case "debug":
		level = StyleSubtitle.Render(level)
	}
	return fmt.Sprintf("%s %s %s: %s",
		StyleSubtitle.Render(e.Timestamp.Format("15:04:05")),
		level, e.Source, e.Message)
}

// saveToFile dumps the unfiltered buffer to a timestamped file in the
// working directory and returns a status line.
func (m *ConsoleModel) saveToFile() string {
	name := fmt.Sprintf("opcore-simplify-%s.log", clock.Now().Format("20060102-150405"))

	var sb strings.Builder
	for _, e := range logging.GetAppLogBuffer().GetAll() {
		fmt.Fprintf(&sb, "%s [%s] %s: %s\n",
			e.Timestamp.Format(time.RFC3339), e.Level, e.Source, e.Message)
	}

	if err := os.WriteFile(name, []byte(sb.String()), 0644); err != nil {
		return StyleStatusBad.Render("save failed: " + err.Error())
	}
	return StyleStatusGood.Render("saved " + name)
}

func (m ConsoleModel) View() string {
	filter := levelFilters[m.FilterIdx]
	if filter == "" {
		filter = "all"
	}
	scroll := "off"
	if m.AutoScroll {
		scroll = "on"
	}

	header := StyleHeader.Render("CONSOLE") + "  " +
		StyleSubtitle.Render(fmt.Sprintf("%d lines · filter: %s · autoscroll: %s", m.lineCount, filter, scroll))

	body := "waiting for window size..."
	if m.ready {
		body = m.Viewport.View()
	}

	parts := []string{
		header,
		StyleCard.Render(body),
		StyleSubtitle.Render("f filter · a autoscroll · s save"),
	}
	if m.Status != "" {
		parts = append(parts, m.Status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
