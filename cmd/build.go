package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rubentalstra/OpCore-Simplify/internal/brand"
	"github.com/rubentalstra/OpCore-Simplify/internal/config"
	"github.com/rubentalstra/OpCore-Simplify/internal/pipeline"
)

// RunBuild runs the external build pipeline headless and prints the
// outcome, including the BIOS/UEFI changes the user still has to make.
func RunBuild(settingsPath string) error {
	if settingsPath == "" {
		settingsPath = brand.SettingsPath()
	}
	settings, err := config.LoadOrDefault(settingsPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	s := settings.Settings
	applyLogSettings(s)

	if s.Build.Command == "" {
		return fmt.Errorf("no build command configured in %s", settingsPath)
	}
	if s.MacOSVersion == "" || s.SMBIOSModel == "" {
		return fmt.Errorf("macos_version and smbios_model must be set before building")
	}

	builder := &pipeline.ExecBuilder{
		Command: s.Build.Command,
		Args:    s.Build.Args,
		Timeout: time.Duration(s.Build.TimeoutMinutes) * time.Minute,
	}

	ctx := pipeline.WithProgress(context.Background(), func(step, message string) {
		if message == "" {
			Printer.Printf("==> %s\n", step)
		} else {
			Printer.Printf("    %s\n", message)
		}
	})

	report, err := builder.Build(ctx, pipeline.Request{
		ConfigPlist:  s.ConfigPlist,
		EFIDir:       s.EFIDir,
		MacOSVersion: s.MacOSVersion,
		SMBIOSModel:  s.SMBIOSModel,
	})
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	if report.Success {
		Printer.Println("Build succeeded.")
	} else {
		Printer.Println("Build failed.")
	}
	if len(report.BIOSRequirements) > 0 {
		Printer.Println("\nRequired BIOS/UEFI changes:")
		for i, req := range report.BIOSRequirements {
			Printer.Printf("  %d. %s\n", i+1, req)
		}
	}
	if !report.Success {
		return fmt.Errorf("build pipeline reported failure")
	}
	return nil
}
