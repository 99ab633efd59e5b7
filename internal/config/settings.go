// Package config provides HCL settings handling with comment preservation.
package config

import (
	"fmt"
	"strings"
)

// Settings is the decoded form of settings.hcl.
type Settings struct {
	EFIDir       string `hcl:"efi_dir,optional"`
	ConfigPlist  string `hcl:"config_plist,optional"`
	LogLevel     string `hcl:"log_level,optional"`
	LogJSON      bool   `hcl:"log_json,optional"`
	MacOSVersion string `hcl:"macos_version,optional"`
	SMBIOSModel  string `hcl:"smbios_model,optional"`

	Build *BuildSettings `hcl:"build,block"`
}

// BuildSettings configures the external build pipeline command.
type BuildSettings struct {
	Command        string   `hcl:"command,optional"`
	Args           []string `hcl:"args,optional"`
	TimeoutMinutes int      `hcl:"timeout_minutes,optional"`
}

// validLogLevels are the accepted log_level values.
var validLogLevels = []string{"debug", "info", "warn", "error"}

// DefaultSettings returns a Settings with all defaults applied.
func DefaultSettings() *Settings {
	return &Settings{
		LogLevel: "info",
		Build: &BuildSettings{
			TimeoutMinutes: 30,
		},
	}
}

// ApplyDefaults fills in zero-valued fields with defaults.
func (s *Settings) ApplyDefaults() {
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.Build == nil {
		s.Build = &BuildSettings{}
	}
	if s.Build.TimeoutMinutes == 0 {
		s.Build.TimeoutMinutes = 30
	}
}

// Validate checks the settings for consistency.
func (s *Settings) Validate() error {
	level := strings.ToLower(s.LogLevel)
	ok := false
	for _, l := range validLogLevels {
		if level == l {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("invalid log_level %q (must be one of %s)",
			s.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if s.Build != nil {
		if s.Build.TimeoutMinutes < 0 {
			return fmt.Errorf("build timeout_minutes must not be negative, got %d", s.Build.TimeoutMinutes)
		}
		if len(s.Build.Args) > 0 && s.Build.Command == "" {
			return fmt.Errorf("build args given without a build command")
		}
	}

	return nil
}
