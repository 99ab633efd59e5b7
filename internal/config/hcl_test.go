package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHCL = `# opcore-simplify settings
efi_dir      = "/Volumes/EFI/EFI"
config_plist = "/Volumes/EFI/EFI/OC/config.plist"
log_level    = "debug"

# external pipeline
build {
  command         = "opcore-build"
  args            = ["--offline"]
  timeout_minutes = 10
}
`

func TestLoadSettingsFromBytes(t *testing.T) {
	sf, err := LoadSettingsFromBytes("settings.hcl", []byte(sampleHCL))
	require.NoError(t, err)

	s := sf.Settings
	assert.Equal(t, "/Volumes/EFI/EFI", s.EFIDir)
	assert.Equal(t, "/Volumes/EFI/EFI/OC/config.plist", s.ConfigPlist)
	assert.Equal(t, "debug", s.LogLevel)
	require.NotNil(t, s.Build)
	assert.Equal(t, "opcore-build", s.Build.Command)
	assert.Equal(t, []string{"--offline"}, s.Build.Args)
	assert.Equal(t, 10, s.Build.TimeoutMinutes)
}

func TestLoadSettingsDefaults(t *testing.T) {
	sf, err := LoadSettingsFromBytes("settings.hcl", []byte(""))
	require.NoError(t, err)

	if got := sf.Settings.LogLevel; got != "info" {
		t.Errorf("default log_level = %q, want %q", got, "info")
	}
	require.NotNil(t, sf.Settings.Build)
	if got := sf.Settings.Build.TimeoutMinutes; got != 30 {
		t.Errorf("default timeout_minutes = %d, want 30", got)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	_, err := LoadSettingsFromBytes("settings.hcl", []byte("log_level = \"loud\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")

	_, err = LoadSettingsFromBytes("settings.hcl", []byte("efi_dir = {\n"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"ok", func(s *Settings) {}, ""},
		{"bad level", func(s *Settings) { s.LogLevel = "chatty" }, "log_level"},
		{"negative timeout", func(s *Settings) { s.Build.TimeoutMinutes = -1 }, "timeout_minutes"},
		{"args without command", func(s *Settings) { s.Build.Args = []string{"-x"} }, "without a build command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCommentPreservation(t *testing.T) {
	sf, err := LoadSettingsFromBytes("settings.hcl", []byte(sampleHCL))
	require.NoError(t, err)

	sf.Settings.SMBIOSModel = "iMacPro1,1"
	require.NoError(t, sf.SyncSettingsToHCL())

	out := sf.GetRawHCL()
	assert.Contains(t, out, "# opcore-simplify settings")
	assert.Contains(t, out, `smbios_model = "iMacPro1,1"`)
	// build block rebuilt from struct, values survive
	assert.Contains(t, out, `command`)
	assert.Contains(t, out, `"opcore-build"`)
}

func TestSyncRemovesEmptyAttributes(t *testing.T) {
	sf, err := LoadSettingsFromBytes("settings.hcl", []byte(sampleHCL))
	require.NoError(t, err)

	sf.Settings.ConfigPlist = ""
	require.NoError(t, sf.SyncSettingsToHCL())

	assert.NotContains(t, sf.GetRawHCL(), "config_plist")
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "settings.hcl")

	sf := NewSettingsFile(path)
	sf.Settings.EFIDir = "/tmp/EFI"
	require.NoError(t, sf.SyncSettingsToHCL())
	require.NoError(t, sf.Save())

	loaded, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/EFI", loaded.Settings.EFIDir)

	// Saving again backs up the previous file
	loaded.Settings.EFIDir = "/mnt/EFI"
	require.NoError(t, loaded.SyncSettingsToHCL())
	require.NoError(t, loaded.Save())
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("expected backup file: %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.hcl")

	sf, err := LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, "info", sf.Settings.LogLevel)
	assert.False(t, sf.HasChanges())
}

func TestHasChanges(t *testing.T) {
	sf, err := LoadSettingsFromBytes("settings.hcl", []byte(sampleHCL))
	require.NoError(t, err)
	assert.False(t, sf.HasChanges())

	sf.Settings.LogJSON = true
	require.NoError(t, sf.SyncSettingsToHCL())
	assert.True(t, sf.HasChanges())
}

func TestSetRawHCL(t *testing.T) {
	sf, err := LoadSettingsFromBytes("settings.hcl", []byte(sampleHCL))
	require.NoError(t, err)

	err = sf.SetRawHCL("log_level = \"warn\"\n")
	require.NoError(t, err)
	assert.Equal(t, "warn", sf.Settings.LogLevel)

	err = sf.SetRawHCL("log_level = [\n")
	require.Error(t, err)
	if !strings.Contains(err.Error(), "invalid HCL") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateHCL(t *testing.T) {
	assert.NoError(t, ValidateHCL(sampleHCL))
	assert.Error(t, ValidateHCL("log_level = \"silent\"\n"))
	assert.Error(t, ValidateHCL("build {"))
}
