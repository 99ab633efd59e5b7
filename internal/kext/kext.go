// Package kext inspects kernel-extension bundles on disk.
//
// A kext is a directory ending in .kext whose Info.plist (located anywhere
// beneath the bundle, usually Contents/Info.plist) declares a
// CFBundleIdentifier. Bundles that fail that test are not errors; the
// snapshot scanner simply skips them.
package kext

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"
)

// ErrInvalidBundle marks a directory that is not a usable kext: no
// Info.plist, or an Info.plist without a CFBundleIdentifier.
var ErrInvalidBundle = errors.New("kext: not a valid bundle")

// Bundle describes one inspected kext.
type Bundle struct {
	// Name is the bundle directory name, e.g. "Lilu.kext".
	Name string
	// Identifier is the CFBundleIdentifier from Info.plist.
	Identifier string
	// PlistPath is the Info.plist location relative to the bundle root,
	// with forward slashes.
	PlistPath string
	// ExecutablePath is "Contents/MacOS/<CFBundleExecutable>" when that
	// file exists with non-zero size, otherwise empty.
	ExecutablePath string
}

// bundleInfo is the subset of Info.plist the snapshot needs. Info.plist may
// be XML or binary; howett.net/plist handles both.
type bundleInfo struct {
	CFBundleIdentifier string `plist:"CFBundleIdentifier"`
	CFBundleExecutable string `plist:"CFBundleExecutable"`
}

// IsBundleDir reports whether name looks like a kext directory entry:
// not hidden and ending in .kext (case-insensitive).
func IsBundleDir(name string) bool {
	return !strings.HasPrefix(name, ".") && strings.HasSuffix(strings.ToLower(name), ".kext")
}

// Inspect examines the kext bundle rooted at dir. It returns
// ErrInvalidBundle (possibly wrapped) when the directory does not qualify;
// callers treat that as "skip", never as a scan failure.
func Inspect(dir string) (*Bundle, error) {
	infoPath, err := findInfoPlist(dir)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(infoPath)
	if err != nil {
		return nil, errors.Join(ErrInvalidBundle, err)
	}
	var info bundleInfo
	if _, err := plist.Unmarshal(raw, &info); err != nil {
		return nil, errors.Join(ErrInvalidBundle, err)
	}
	if info.CFBundleIdentifier == "" {
		return nil, errors.Join(ErrInvalidBundle, errors.New("missing CFBundleIdentifier"))
	}

	rel, err := filepath.Rel(dir, infoPath)
	if err != nil {
		return nil, errors.Join(ErrInvalidBundle, err)
	}

	b := &Bundle{
		Name:       filepath.Base(dir),
		Identifier: info.CFBundleIdentifier,
		PlistPath:  filepath.ToSlash(rel),
	}
	if info.CFBundleExecutable != "" {
		execFull := filepath.Join(dir, "Contents", "MacOS", info.CFBundleExecutable)
		if fi, err := os.Stat(execFull); err == nil && !fi.IsDir() && fi.Size() > 0 {
			b.ExecutablePath = "Contents/MacOS/" + info.CFBundleExecutable
		}
	}
	return b, nil
}

// findInfoPlist locates the first file named exactly Info.plist beneath dir,
// walking in lexical order so the result is deterministic.
func findInfoPlist(dir string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// An unreadable subtree disqualifies the bundle, it does not
			// abort the surrounding scan.
			return errors.Join(ErrInvalidBundle, err)
		}
		if !d.IsDir() && d.Name() == "Info.plist" {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", errors.Join(ErrInvalidBundle, errors.New("no Info.plist"))
	}
	return found, nil
}
