package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rubentalstra/OpCore-Simplify/internal/brand"
	"github.com/rubentalstra/OpCore-Simplify/internal/config"
	"github.com/rubentalstra/OpCore-Simplify/internal/pipeline"
	"github.com/rubentalstra/OpCore-Simplify/internal/plist"
	"github.com/rubentalstra/OpCore-Simplify/internal/snapshot"
)

// View represents the currently active screen
type View int

const (
	ViewHome View = iota
	ViewEditor
	ViewBuild
	ViewConsole
)

const viewCount = 4

// Backend defines the interface for data access and actions. The cmd
// layer implements it over the loaded document, settings and runner.
type Backend interface {
	Settings() *config.Settings
	Document() *plist.Dict
	ConfigPath() string
	LoadDocument(path string) error
	SaveDocument() error
	Snapshot(mode snapshot.Mode) (*snapshot.Report, error)
	HardwareReportLoaded() bool
	StartBuild(ctx context.Context) error
	BuildEvents() <-chan pipeline.Event
}

// Model is the main application state
type Model struct {
	Backend Backend

	ActiveView View
	Width      int
	Height     int

	Home    HomeModel
	Editor  EditorModel
	Build   BuildModel
	Console ConsoleModel
}

// NewModel creates a new initial model
func NewModel(backend Backend) Model {
	return Model{
		Backend:    backend,
		ActiveView: ViewHome,
		Home:       NewHomeModel(backend),
		Editor:     NewEditorModel(backend),
		Build:      NewBuildModel(backend),
		Console:    NewConsoleModel(backend),
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.Home.Init(),
		m.Editor.Init(),
		m.Build.Init(),
		m.Console.Init(),
	)
}

// captureInput reports whether the active view owns the keyboard
// (form editing, filepicker), so global shortcuts must stay out.
func (m Model) captureInput() bool {
	return m.ActiveView == ViewEditor && m.Editor.CapturesInput()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.captureInput() {
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "tab":
				m.ActiveView = (m.ActiveView + 1) % viewCount
				return m, nil
			case "1":
				m.ActiveView = ViewHome
				return m, nil
			case "2":
				m.ActiveView = ViewEditor
				return m, nil
			case "3":
				m.ActiveView = ViewBuild
				return m, nil
			case "4":
				m.ActiveView = ViewConsole
				return m, nil
			}
		} else if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

		var cmd tea.Cmd
		m.Home, cmd = m.Home.Update(msg)
		cmds = append(cmds, cmd)

		m.Editor, cmd = m.Editor.Update(msg)
		cmds = append(cmds, cmd)

		m.Build, cmd = m.Build.Update(msg)
		cmds = append(cmds, cmd)

		m.Console, cmd = m.Console.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	// Build events and console ticks flow regardless of the active view
	switch msg.(type) {
	case buildEventMsg, consoleTickMsg:
		var cmd tea.Cmd
		switch msg.(type) {
		case buildEventMsg:
			m.Build, cmd = m.Build.Update(msg)
		case consoleTickMsg:
			m.Console, cmd = m.Console.Update(msg)
		}
		return m, cmd
	}

	// Delegate to active view
	var cmd tea.Cmd
	switch m.ActiveView {
	case ViewHome:
		m.Home, cmd = m.Home.Update(msg)
	case ViewEditor:
		m.Editor, cmd = m.Editor.Update(msg)
	case ViewBuild:
		m.Build, cmd = m.Build.Update(msg)
	case ViewConsole:
		m.Console, cmd = m.Console.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the application
func (m Model) View() string {
	doc := m.ViewTopBar() + "\n"

	switch m.ActiveView {
	case ViewHome:
		doc += m.Home.View()
	case ViewEditor:
		doc += m.Editor.View()
	case ViewBuild:
		doc += m.Build.View()
	case ViewConsole:
		doc += m.Console.View()
	}

	return StyleApp.Render(doc)
}

// ViewTopBar renders the top navigation menu
func (m Model) ViewTopBar() string {
	var items []string

	menus := []struct {
		View  View
		Label string
		Key   string
	}{
		{ViewHome, "Home", "1"},
		{ViewEditor, "Editor", "2"},
		{ViewBuild, "Build", "3"},
		{ViewConsole, "Console", "4"},
	}

	for _, menu := range menus {
		key := StyleMenuKey.Render("[" + menu.Key + "]")
		label := menu.Label

		if m.ActiveView == menu.View {
			items = append(items, StyleMenuItemActive.Render(key+" "+label))
		} else {
			items = append(items, StyleMenuItem.Render(key+" "+label))
		}
	}

	title := StyleTitle.Render(brand.Name + " ")

	bar := lipgloss.JoinHorizontal(lipgloss.Top, append([]string{title}, items...)...)
	return StyleTopBar.Render(bar)
}
