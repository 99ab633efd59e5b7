package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rubentalstra/OpCore-Simplify/internal/clock"
	"github.com/rubentalstra/OpCore-Simplify/internal/pipeline"
)

// buildEventMsg wraps a pipeline event for the update loop.
type buildEventMsg pipeline.Event

// knownSteps is the canonical pipeline order, used to size the progress
// bar. Steps the pipeline never reports are simply skipped.
var knownSteps = []string{"download", "acpi", "kexts", "config", "assemble"}

// BuildModel drives the external build pipeline.
type BuildModel struct {
	Backend Backend

	Spinner  spinner.Model
	Progress progress.Model

	Running   bool
	StartedAt time.Time
	Steps     []string
	Current   string
	LastLine  string
	Report    *pipeline.Report
	Err       error

	Width int
}

func NewBuildModel(backend Backend) BuildModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	pr := progress.New(progress.WithDefaultGradient())

	return BuildModel{
		Backend:  backend,
		Spinner:  sp,
		Progress: pr,
	}
}

func (m BuildModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent blocks on the runner's event stream.
func (m BuildModel) waitForEvent() tea.Cmd {
	ch := m.Backend.BuildEvents()
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return buildEventMsg(ev)
	}
}

func (m BuildModel) Update(msg tea.Msg) (BuildModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Progress.Width = msg.Width - 12
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "enter" || msg.String() == "b" {
			if m.Running || !m.Backend.HardwareReportLoaded() {
				return m, nil
			}
			if err := m.Backend.StartBuild(context.Background()); err != nil {
				m.Err = err
				return m, nil
			}
			return m, m.Spinner.Tick
		}

	case spinner.TickMsg:
		if !m.Running {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case buildEventMsg:
		ev := pipeline.Event(msg)
		switch ev.Type {
		case pipeline.EventStarted:
			m.Running = true
			m.StartedAt = clock.Now()
			m.Steps = nil
			m.Current = ""
			m.LastLine = ""
			m.Report = nil
			m.Err = nil
			return m, tea.Batch(m.waitForEvent(), m.Spinner.Tick)
		case pipeline.EventStep:
			m.Current = ev.Step
			m.Steps = append(m.Steps, ev.Step)
		case pipeline.EventOutput:
			m.LastLine = ev.Message
		case pipeline.EventDone:
			m.Running = false
			m.Report = ev.Report
			m.Err = ev.Err
		}
		return m, m.waitForEvent()
	}

	return m, nil
}

// stepProgress maps completed steps onto the canonical pipeline order.
func (m BuildModel) stepProgress() float64 {
	if len(m.Steps) == 0 {
		return 0
	}
	last := m.Steps[len(m.Steps)-1]
	for i, s := range knownSteps {
		if s == last {
			return float64(i+1) / float64(len(knownSteps)+1)
		}
	}
	return float64(len(m.Steps)) / float64(len(knownSteps)+1)
}

func (m BuildModel) View() string {
	if !m.Backend.HardwareReportLoaded() {
		return lipgloss.JoinVertical(lipgloss.Left,
			StyleHeader.Render("BUILD"),
			StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left,
				StyleStatusWarn.Render("Hardware report not loaded."),
				"Set macos_version and smbios_model in your settings first.",
			)),
		)
	}

	var body []string

	switch {
	case m.Running:
		elapsed := clock.Now().Sub(m.StartedAt).Round(time.Second)
		body = append(body,
			fmt.Sprintf("%s building · %s elapsed", m.Spinner.View(), elapsed),
			m.Progress.ViewAs(m.stepProgress()),
			"",
		)
		body = append(body, m.stepCards()...)
		if m.LastLine != "" {
			body = append(body, StyleSubtitle.Render(m.LastLine))
		}

	case m.Err != nil:
		body = append(body, StyleStatusBad.Render("Build error: "+m.Err.Error()))

	case m.Report != nil:
		if m.Report.Success {
			body = append(body, StyleStatusGood.Render("Build succeeded."))
		} else {
			body = append(body, StyleStatusBad.Render("Build failed. Check the Console for details."))
		}
		if len(m.Report.BIOSRequirements) > 0 {
			body = append(body, "", StyleTitle.Render("Required BIOS/UEFI changes:"))
			for i, req := range m.Report.BIOSRequirements {
				body = append(body, fmt.Sprintf("  %d. %s", i+1, req))
			}
		}
		body = append(body, "", StyleSubtitle.Render("Press enter to build again"))

	default:
		body = append(body,
			"Ready to build.",
			StyleSubtitle.Render("Press enter to start the pipeline"),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		StyleHeader.Render("BUILD"),
		StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left, body...)),
	)
}

var stepTitler = cases.Title(language.English)

// stepCards renders one line per reported step, marking the current one.
func (m BuildModel) stepCards() []string {
	var out []string
	for _, s := range m.Steps {
		marker := StyleStatusGood.Render("✓")
		if s == m.Current && m.Running {
			marker = m.Spinner.View()
		}
		out = append(out, fmt.Sprintf("%s %s", marker, stepTitler.String(s)))
	}
	return out
}
