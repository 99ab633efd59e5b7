package brand

import (
	"os"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	b := Get()
	if b.Name == "" {
		t.Error("Brand name should not be empty")
	}
	// Version is a global variable, not in the struct
	if Version == "" {
		t.Error("Global Version should be initialized (to dev default)")
	}
	if Name == "" {
		t.Error("Global Name should be initialized")
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent("1.0.0")
	if ua != Name+"/1.0.0" {
		t.Errorf("UserAgent = %q, want %q", ua, Name+"/1.0.0")
	}
	if UserAgent("") != Name+"/dev" {
		t.Errorf("UserAgent default = %q, want %q", UserAgent(""), Name+"/dev")
	}
}

func TestGetDirectories(t *testing.T) {
	cleanEnv := func() {
		os.Unsetenv(ConfigEnvPrefix + "_PREFIX")
		os.Unsetenv(ConfigEnvPrefix + "_CONFIG_DIR")
		os.Unsetenv(ConfigEnvPrefix + "_LOG_DIR")
	}
	cleanEnv()
	defer cleanEnv()

	// Test Defaults
	if GetConfigDir() != DefaultConfigDir {
		t.Errorf("Expected default config dir %s, got %s", DefaultConfigDir, GetConfigDir())
	}
	if GetLogDir() != DefaultLogDir {
		t.Errorf("Expected default log dir %s, got %s", DefaultLogDir, GetLogDir())
	}

	// Test Prefix
	os.Setenv(ConfigEnvPrefix+"_PREFIX", "/tmp/opcore")
	if GetConfigDir() != "/tmp/opcore/config" {
		t.Errorf("Expected prefix config dir, got %s", GetConfigDir())
	}

	// Test Direct Override (Highest Priority)
	os.Setenv(ConfigEnvPrefix+"_CONFIG_DIR", "/custom/config")
	if GetConfigDir() != "/custom/config" {
		t.Errorf("Expected custom config dir, got %s", GetConfigDir())
	}
}

func TestSettingsPath(t *testing.T) {
	os.Unsetenv(ConfigEnvPrefix + "_CONFIG_DIR")
	os.Unsetenv(ConfigEnvPrefix + "_PREFIX")
	if !strings.HasSuffix(SettingsPath(), SettingsFileName) {
		t.Errorf("SettingsPath() = %q, want suffix %q", SettingsPath(), SettingsFileName)
	}
}
