package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// SettingsFile represents settings.hcl with preserved source.
// This allows round-trip editing while preserving comments and formatting.
type SettingsFile struct {
	Path     string
	Settings *Settings
	hclFile  *hclwrite.File
	original []byte
}

// LoadSettingsFile loads an HCL settings file, preserving the original source
// for round-trip editing with comments.
func LoadSettingsFile(path string) (*SettingsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	return LoadSettingsFromBytes(path, data)
}

// LoadSettingsFromBytes loads settings from bytes, preserving source for round-trip.
func LoadSettingsFromBytes(filename string, data []byte) (*SettingsFile, error) {
	// Parse for writing (preserves comments and formatting)
	hclFile, diags := hclwrite.ParseConfig(data, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL for writing: %s", diags.Error())
	}

	// Parse for reading (into Go struct)
	var s Settings
	if err := hclsimple.Decode(filename, data, nil, &s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return &SettingsFile{
		Path:     filename,
		Settings: &s,
		hclFile:  hclFile,
		original: data,
	}, nil
}

// LoadOrDefault loads the settings file at path, or returns defaults when
// the file does not exist yet.
func LoadOrDefault(path string) (*SettingsFile, error) {
	sf, err := LoadSettingsFile(path)
	if err == nil {
		return sf, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return NewSettingsFile(path), nil
	}
	return nil, err
}

// NewSettingsFile creates a new empty settings file.
func NewSettingsFile(path string) *SettingsFile {
	return &SettingsFile{
		Path:     path,
		Settings: DefaultSettings(),
		hclFile:  hclwrite.NewEmptyFile(),
	}
}

// Save writes the settings back to disk, preserving comments where possible.
func (sf *SettingsFile) Save() error {
	return sf.SaveTo(sf.Path)
}

// SaveTo writes the settings to a specific path.
func (sf *SettingsFile) SaveTo(path string) error {
	// Create backup of original file
	if _, err := os.Stat(path); err == nil {
		backupPath := path + ".bak"
		if err := copyFile(path, backupPath); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data := sf.hclFile.Bytes()
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	sf.Path = path
	sf.original = data
	return nil
}

// GetRawHCL returns the current HCL source as a string.
func (sf *SettingsFile) GetRawHCL() string {
	return string(sf.hclFile.Bytes())
}

// SetRawHCL replaces the entire settings with new HCL source.
// Returns an error if the HCL is invalid.
func (sf *SettingsFile) SetRawHCL(hclSource string) error {
	data := []byte(hclSource)

	// Validate by parsing
	newFile, diags := hclwrite.ParseConfig(data, sf.Path, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return fmt.Errorf("invalid HCL: %s", diags.Error())
	}

	// Also validate it decodes to our settings struct
	var s Settings
	if err := hclsimple.Decode(sf.Path, data, nil, &s); err != nil {
		return fmt.Errorf("HCL does not match settings schema: %w", err)
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	sf.hclFile = newFile
	sf.Settings = &s
	return nil
}

// HasChanges returns true if the settings have been modified since loading.
func (sf *SettingsFile) HasChanges() bool {
	return !bytes.Equal(sf.original, sf.hclFile.Bytes())
}

// Reload discards changes and reloads from disk.
func (sf *SettingsFile) Reload() error {
	newSf, err := LoadSettingsFile(sf.Path)
	if err != nil {
		return err
	}
	*sf = *newSf
	return nil
}

// SyncSettingsToHCL updates the HCL AST to match the current Settings struct.
// This preserves comments and formatting for unchanged parts.
func (sf *SettingsFile) SyncSettingsToHCL() error {
	body := sf.hclFile.Body()
	s := sf.Settings

	setOrRemoveString(body, "efi_dir", s.EFIDir)
	setOrRemoveString(body, "config_plist", s.ConfigPlist)
	setOrRemoveString(body, "log_level", s.LogLevel)
	if s.LogJSON {
		body.SetAttributeValue("log_json", cty.BoolVal(true))
	} else {
		body.RemoveAttribute("log_json")
	}
	setOrRemoveString(body, "macos_version", s.MacOSVersion)
	setOrRemoveString(body, "smbios_model", s.SMBIOSModel)

	return sf.syncBuild()
}

// syncBuild synchronizes the build block
func (sf *SettingsFile) syncBuild() error {
	body := sf.hclFile.Body()

	for _, block := range body.Blocks() {
		if block.Type() == "build" {
			body.RemoveBlock(block)
		}
	}

	if sf.Settings.Build == nil {
		return nil
	}

	bs := sf.Settings.Build
	block := body.AppendNewBlock("build", nil)
	b := block.Body()

	if bs.Command != "" {
		b.SetAttributeValue("command", cty.StringVal(bs.Command))
	}
	if len(bs.Args) > 0 {
		vals := make([]cty.Value, len(bs.Args))
		for i, a := range bs.Args {
			vals[i] = cty.StringVal(a)
		}
		b.SetAttributeValue("args", cty.ListVal(vals))
	}
	if bs.TimeoutMinutes != 0 {
		b.SetAttributeValue("timeout_minutes", cty.NumberIntVal(int64(bs.TimeoutMinutes)))
	}
	return nil
}

func setOrRemoveString(body *hclwrite.Body, name, val string) {
	if val == "" {
		body.RemoveAttribute(name)
		return
	}
	body.SetAttributeValue(name, cty.StringVal(val))
}

// ValidateHCL validates settings HCL source without modifying anything.
func ValidateHCL(hclSource string) error {
	data := []byte(hclSource)

	// Check syntax
	_, diags := hclwrite.ParseConfig(data, "validate.hcl", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return fmt.Errorf("syntax error: %s", diags.Error())
	}

	// Check schema
	var s Settings
	if err := hclsimple.Decode("validate.hcl", data, nil, &s); err != nil {
		return fmt.Errorf("schema error: %w", err)
	}
	s.ApplyDefaults()
	return s.Validate()
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
