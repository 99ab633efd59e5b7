// Package cmd implements the CLI subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rubentalstra/OpCore-Simplify/internal/config"
	"github.com/rubentalstra/OpCore-Simplify/internal/i18n"
	"github.com/rubentalstra/OpCore-Simplify/internal/pipeline"
	"github.com/rubentalstra/OpCore-Simplify/internal/plist"
	"github.com/rubentalstra/OpCore-Simplify/internal/snapshot"
)

// Printer localizes all CLI output.
var Printer = i18n.NewCLIPrinter()

// app holds the editing session shared by the TUI pages. It implements
// tui.Backend.
type app struct {
	settings *config.SettingsFile
	runner   *pipeline.Runner

	doc        *plist.Dict
	configPath string
}

func newApp(settings *config.SettingsFile) *app {
	s := settings.Settings
	builder := &pipeline.ExecBuilder{
		Command: s.Build.Command,
		Args:    s.Build.Args,
		Timeout: time.Duration(s.Build.TimeoutMinutes) * time.Minute,
	}
	return &app{
		settings: settings,
		runner:   pipeline.NewRunner(builder, nil),
	}
}

func (a *app) Settings() *config.Settings { return a.settings.Settings }
func (a *app) Document() *plist.Dict      { return a.doc }
func (a *app) ConfigPath() string         { return a.configPath }

func (a *app) LoadDocument(path string) error {
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}
	a.doc = doc
	a.configPath = path
	a.settings.Settings.ConfigPlist = path
	return nil
}

func (a *app) SaveDocument() error {
	if a.doc == nil {
		return fmt.Errorf("no document loaded")
	}
	return saveDocument(a.configPath, a.doc)
}

func (a *app) Snapshot(mode snapshot.Mode) (*snapshot.Report, error) {
	if a.doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	layout, err := snapshot.ResolveLayout(a.settings.Settings.EFIDir)
	if err != nil {
		return nil, err
	}
	return snapshot.Snapshot(a.doc, layout, mode)
}

// HardwareReportLoaded mirrors the desktop app's gate on the build page:
// the pipeline needs a target before it can assemble an EFI.
func (a *app) HardwareReportLoaded() bool {
	s := a.settings.Settings
	return s.MacOSVersion != "" && s.SMBIOSModel != ""
}

func (a *app) StartBuild(ctx context.Context) error {
	_, err := a.runner.Start(ctx, pipeline.Request{
		ConfigPlist:  a.configPath,
		EFIDir:       a.settings.Settings.EFIDir,
		MacOSVersion: a.settings.Settings.MacOSVersion,
		SMBIOSModel:  a.settings.Settings.SMBIOSModel,
	})
	return err
}

func (a *app) BuildEvents() <-chan pipeline.Event {
	return a.runner.Events()
}

// loadDocument reads and parses a config.plist.
func loadDocument(path string) (*plist.Dict, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := plist.LoadDict(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// saveDocument writes the document back, keeping a .bak of the previous
// file contents.
func saveDocument(path string, doc *plist.Dict) error {
	data, err := plist.Save(doc)
	if err != nil {
		return fmt.Errorf("serialize document: %w", err)
	}
	if prev, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+".bak", prev, 0644); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
