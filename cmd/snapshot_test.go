package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubentalstra/OpCore-Simplify/internal/plist"
)

func writeEFITree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"ACPI", "Kexts", "Drivers"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "ACPI", "SSDT-EC.aml"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Drivers", "OpenRuntime.efi"), []byte("x"), 0644))
	return root
}

func TestRunSnapshot(t *testing.T) {
	efi := writeEFITree(t)
	configPath := writeConfig(t, plist.NewDict())

	err := RunSnapshot(SnapshotOptions{ConfigPath: configPath, EFIDir: efi})
	require.NoError(t, err)

	doc, err := loadDocument(configPath)
	require.NoError(t, err)

	v, err := plist.GetPath(doc, "ACPI.Add.0.Path")
	require.NoError(t, err)
	assert.Equal(t, plist.String("SSDT-EC.aml"), v)

	v, err = plist.GetPath(doc, "UEFI.Drivers.0")
	require.NoError(t, err)
	assert.Equal(t, plist.String("OpenRuntime.efi"), v)
}

func TestRunSnapshotDryRun(t *testing.T) {
	efi := writeEFITree(t)
	configPath := writeConfig(t, plist.NewDict())
	before, err := os.ReadFile(configPath)
	require.NoError(t, err)

	err = RunSnapshot(SnapshotOptions{ConfigPath: configPath, EFIDir: efi, DryRun: true})
	require.NoError(t, err)

	after, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "dry run must not modify the file")
}

func TestRunSnapshotMissingArgs(t *testing.T) {
	assert.Error(t, RunSnapshot(SnapshotOptions{}))
	assert.Error(t, RunSnapshot(SnapshotOptions{ConfigPath: "a", EFIDir: "b", ReportFormat: "xml"}))
}

func TestRunSnapshotInvalidLayout(t *testing.T) {
	configPath := writeConfig(t, plist.NewDict())
	err := RunSnapshot(SnapshotOptions{ConfigPath: configPath, EFIDir: t.TempDir()})
	assert.Error(t, err)
}

func TestRunDiffCommand(t *testing.T) {
	a := plist.NewDict()
	a.Set("Misc", plist.NewDict())
	pathA := writeConfig(t, a)

	b := plist.NewDict()
	b.Set("Misc", plist.NewDict())
	pathB := writeConfig(t, b)

	assert.NoError(t, RunDiff(pathA, pathB))

	c := plist.NewDict()
	c.Set("Kernel", plist.NewDict())
	pathC := writeConfig(t, c)
	assert.Error(t, RunDiff(pathA, pathC))
}
