package snapshot

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rubentalstra/OpCore-Simplify/internal/kext"
)

// DiscoveredKext is one kext found beneath the Kexts subdirectory.
type DiscoveredKext struct {
	// BundlePath is relative to the Kexts subdirectory, forward slashes.
	// Plugin kexts nested inside another bundle keep their full relative
	// path, e.g. "VoodooPS2Controller.kext/Contents/PlugIns/VoodooPS2Mouse.kext".
	BundlePath     string
	Name           string
	ExecutablePath string
	PlistPath      string
}

// scanFiles walks dir recursively and returns the relative paths (forward
// slashes) of all non-hidden files whose lowercased name ends in one of the
// given extensions, sorted case-insensitively.
func scanFiles(dir string, exts ...string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			return nil
		}
		lower := strings.ToLower(name)
		for _, ext := range exts {
			if strings.HasSuffix(lower, ext) {
				rel, err := filepath.Rel(dir, path)
				if err != nil {
					return err
				}
				out = append(out, filepath.ToSlash(rel))
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortFold(out)
	return out, nil
}

// scanKexts walks the Kexts subdirectory and returns every valid bundle,
// sorted case-insensitively by bundle path. Directories that look like
// kexts but fail inspection (no Info.plist, no CFBundleIdentifier,
// unreadable) are skipped silently.
func scanKexts(dir string) ([]DiscoveredKext, error) {
	var out []DiscoveredKext
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == dir || !kext.IsBundleDir(d.Name()) {
			return nil
		}
		b, err := kext.Inspect(path)
		if err != nil {
			if errors.Is(err, kext.ErrInvalidBundle) {
				return nil
			}
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, DiscoveredKext{
			BundlePath:     filepath.ToSlash(rel),
			Name:           b.Name,
			ExecutablePath: b.ExecutablePath,
			PlistPath:      b.PlistPath,
		})
		// Keep walking: plugin kexts live inside their parent bundle.
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].BundlePath) < strings.ToLower(out[j].BundlePath)
	})
	return out, nil
}

func sortFold(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return strings.ToLower(paths[i]) < strings.ToLower(paths[j])
	})
}
