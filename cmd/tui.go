package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rubentalstra/OpCore-Simplify/internal/brand"
	"github.com/rubentalstra/OpCore-Simplify/internal/config"
	"github.com/rubentalstra/OpCore-Simplify/internal/logging"
	"github.com/rubentalstra/OpCore-Simplify/internal/tui"
)

// RunTui starts the full-screen interface. configPath and efiDir
// override the values from settings when non-empty.
func RunTui(configPath, efiDir string) error {
	settings, err := config.LoadOrDefault(brand.SettingsPath())
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if efiDir != "" {
		settings.Settings.EFIDir = efiDir
	}

	applyLogSettings(settings.Settings)

	a := newApp(settings)
	if configPath == "" {
		configPath = settings.Settings.ConfigPlist
	}
	if configPath != "" {
		if err := a.LoadDocument(configPath); err != nil {
			// Start anyway; the editor page can open a document later.
			logging.TuiLog("warn", "could not load %s: %v", configPath, err)
		}
	}

	p := tea.NewProgram(tui.NewModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run interface: %w", err)
	}
	return nil
}

// applyLogSettings configures the default logger from settings.
func applyLogSettings(s *config.Settings) {
	cfg := logging.DefaultConfig()
	cfg.JSON = s.LogJSON
	switch s.LogLevel {
	case "debug":
		cfg.Level = logging.LevelDebug
	case "warn":
		cfg.Level = logging.LevelWarn
	case "error":
		cfg.Level = logging.LevelError
	}
	logging.SetDefault(logging.New(cfg))
}
