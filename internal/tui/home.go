package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rubentalstra/OpCore-Simplify/internal/brand"
)

// HomeModel is the welcome screen: what is loaded, what to do next.
type HomeModel struct {
	Backend Backend
	Width   int
	Height  int
}

func NewHomeModel(backend Backend) HomeModel {
	return HomeModel{Backend: backend}
}

func (m HomeModel) Init() tea.Cmd {
	return nil
}

func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.Width = size.Width
		m.Height = size.Height
	}
	return m, nil
}

func (m HomeModel) View() string {
	s := m.Backend.Settings()

	configPath := m.Backend.ConfigPath()
	configLine := StyleStatusWarn.Render("no config.plist loaded")
	if m.Backend.Document() != nil {
		configLine = StyleStatusGood.Render(configPath)
	}

	efiLine := StyleStatusWarn.Render("not set")
	if s.EFIDir != "" {
		efiLine = StyleBase.Render(s.EFIDir)
	}

	hwIcon, hwText := "✗", StyleStatusWarn.Render("hardware report not loaded")
	if m.Backend.HardwareReportLoaded() {
		hwIcon, hwText = "✓", StyleStatusGood.Render("hardware report loaded")
	}

	statusBlock := StyleCard.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			StyleTitle.Render("Session"),
			fmt.Sprintf("config.plist: %s", configLine),
			fmt.Sprintf("EFI folder:   %s", efiLine),
			fmt.Sprintf("%s %s", hwIcon, hwText),
		),
	)

	targetBlock := StyleCard.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			StyleTitle.Render("Target"),
			fmt.Sprintf("macOS:  %s", orDash(s.MacOSVersion)),
			fmt.Sprintf("SMBIOS: %s", orDash(s.SMBIOSModel)),
		),
	)

	hints := []string{StyleTitle.Render("Next steps")}
	if m.Backend.Document() == nil {
		hints = append(hints, "• open a config.plist in the Editor ([2], then o)")
	} else {
		hints = append(hints, "• reconcile against your EFI folder (Editor, s)")
	}
	if !m.Backend.HardwareReportLoaded() {
		hints = append(hints, "• set macos_version and smbios_model in "+brand.SettingsPath())
	} else {
		hints = append(hints, "• run the build pipeline ([3])")
	}
	hints = append(hints, "• watch the log in the Console ([4])")

	hintsBlock := StyleCard.Render(lipgloss.JoinVertical(lipgloss.Left, hints...))

	return lipgloss.JoinVertical(lipgloss.Left,
		StyleHeader.Render("WELCOME TO "+brand.Name),
		lipgloss.JoinHorizontal(lipgloss.Top, statusBlock, targetBlock),
		hintsBlock,
		StyleSubtitle.Render("Tab cycles views · q quits"),
	)
}

func orDash(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
