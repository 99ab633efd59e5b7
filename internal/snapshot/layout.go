package snapshot

import (
	"os"
	"path/filepath"
)

// Layout holds the resolved section subdirectories of a reference OC folder.
// Tools is optional; an empty Tools field means the directory is absent and
// the Tools section is left alone.
type Layout struct {
	Root    string
	ACPI    string
	Kexts   string
	Drivers string
	Tools   string
}

// ResolveLayout validates that root directly contains ACPI, Drivers and
// Kexts. When it does not, it retries once against an OC child of root
// (users routinely pick the EFI folder instead of EFI/OC). A *LayoutError
// names the missing subdirectories if both attempts fail.
func ResolveLayout(root string) (Layout, error) {
	layout, missing := probe(root)
	if len(missing) == 0 {
		return layout, nil
	}

	alt := filepath.Join(root, "OC")
	if isDir(alt) {
		if altLayout, altMissing := probe(alt); len(altMissing) == 0 {
			return altLayout, nil
		}
	}
	return Layout{}, &LayoutError{Root: root, Missing: missing}
}

func probe(root string) (Layout, []string) {
	layout := Layout{
		Root:    root,
		ACPI:    filepath.Join(root, "ACPI"),
		Kexts:   filepath.Join(root, "Kexts"),
		Drivers: filepath.Join(root, "Drivers"),
	}

	var missing []string
	if !isDir(layout.ACPI) {
		missing = append(missing, "ACPI")
	}
	if !isDir(layout.Drivers) {
		missing = append(missing, "Drivers")
	}
	if !isDir(layout.Kexts) {
		missing = append(missing, "Kexts")
	}

	if tools := filepath.Join(root, "Tools"); isDir(tools) {
		layout.Tools = tools
	}
	return layout, missing
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
