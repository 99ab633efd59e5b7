// Package snapshot reconciles an OpenCore config.plist against the actual
// contents of an EFI folder ("OC Snapshot").
//
// Four document sections are synchronized against four subdirectories of
// the reference folder: ACPI.Add against ACPI/, Kernel.Add against Kexts/,
// UEFI.Drivers against Drivers/ and Misc.Tools against Tools/. Entries are
// matched by their path field, case-insensitively; the stored value keeps
// its original case. Retained entries preserve their relative order and new
// entries are appended after them in case-insensitive lexicographic path
// order.
package snapshot

import (
	"path"
	"strings"

	"github.com/rubentalstra/OpCore-Simplify/internal/plist"
)

// Mode selects how existing section entries are treated.
type Mode int

const (
	// ModeMerge keeps existing entries that still match a file on disk,
	// including any user customizations on them.
	ModeMerge Mode = iota
	// ModeClean discards every existing entry and repopulates each section
	// with fresh default entries from disk.
	ModeClean
)

func (m Mode) String() string {
	if m == ModeClean {
		return "clean"
	}
	return "merge"
}

// section ties a document location to its staged replacement list.
type section struct {
	name      string
	container string
	key       string
	list      plist.Array
	report    SectionReport
	skipped   bool
}

// Snapshot reconciles doc in place against the resolved layout and returns
// a change report. The operation is all-or-nothing: all four sections are
// scanned and staged first, and the document is only mutated once every
// scan has succeeded, so a failing section never leaves a partial result.
func Snapshot(doc *plist.Dict, layout Layout, mode Mode) (*Report, error) {
	stages := []func(*plist.Dict, Layout, Mode) (section, error){
		stageACPI,
		stageKexts,
		stageDrivers,
		stageTools,
	}

	staged := make([]section, 0, len(stages))
	for _, stage := range stages {
		s, err := stage(doc, layout, mode)
		if err != nil {
			return nil, err
		}
		staged = append(staged, s)
	}

	report := &Report{Mode: mode.String()}
	for _, s := range staged {
		if !s.skipped {
			container := doc.GetDict(s.container)
			if container == nil {
				container = plist.NewDict()
				doc.Set(s.container, container)
			}
			container.Set(s.key, s.list)
		}
		report.Sections = append(report.Sections, s.report)
	}
	return report, nil
}

func stageACPI(doc *plist.Dict, layout Layout, mode Mode) (section, error) {
	discovered, err := scanFiles(layout.ACPI, ".aml", ".bin")
	if err != nil {
		return section{}, &ScanError{Section: "ACPI", Err: err}
	}

	existing := existingList(doc, "ACPI", "Add")
	list, rep := reconcilePaths(existing, discovered, mode, func(p string) plist.Value {
		e := plist.NewDict()
		e.Set("Comment", plist.String(path.Base(p)))
		e.Set("Enabled", plist.Bool(true))
		e.Set("Path", plist.String(p))
		return e
	}, dictPath("Path"))
	rep.Name = "ACPI"
	return section{name: "ACPI", container: "ACPI", key: "Add", list: list, report: rep}, nil
}

func stageKexts(doc *plist.Dict, layout Layout, mode Mode) (section, error) {
	discovered, err := scanKexts(layout.Kexts)
	if err != nil {
		return section{}, &ScanError{Section: "Kexts", Err: err}
	}

	byLower := make(map[string]DiscoveredKext, len(discovered))
	paths := make([]string, len(discovered))
	for i, k := range discovered {
		paths[i] = k.BundlePath
		byLower[strings.ToLower(k.BundlePath)] = k
	}

	existing := existingList(doc, "Kernel", "Add")
	list, rep := reconcilePaths(existing, paths, mode, func(p string) plist.Value {
		k := byLower[strings.ToLower(p)]
		e := plist.NewDict()
		e.Set("Arch", plist.String("Any"))
		e.Set("BundlePath", plist.String(k.BundlePath))
		e.Set("Comment", plist.String(k.Name))
		e.Set("Enabled", plist.Bool(true))
		e.Set("ExecutablePath", plist.String(k.ExecutablePath))
		e.Set("MaxKernel", plist.String(""))
		e.Set("MinKernel", plist.String(""))
		e.Set("PlistPath", plist.String(k.PlistPath))
		return e
	}, dictPath("BundlePath"))
	rep.Name = "Kexts"

	// Retained entries get their bundle-internal paths refreshed from disk;
	// everything else on them (MinKernel, MaxKernel, ...) is user data and
	// stays untouched.
	for _, v := range list {
		e, ok := v.(*plist.Dict)
		if !ok {
			continue
		}
		k, ok := byLower[strings.ToLower(e.GetString("BundlePath"))]
		if !ok {
			continue
		}
		if e.GetString("ExecutablePath") != k.ExecutablePath || e.GetString("PlistPath") != k.PlistPath {
			e.Set("ExecutablePath", plist.String(k.ExecutablePath))
			e.Set("PlistPath", plist.String(k.PlistPath))
			rep.Refreshed = append(rep.Refreshed, k.BundlePath)
		}
	}
	return section{name: "Kexts", container: "Kernel", key: "Add", list: list, report: rep}, nil
}

func stageDrivers(doc *plist.Dict, layout Layout, mode Mode) (section, error) {
	discovered, err := scanFiles(layout.Drivers, ".efi")
	if err != nil {
		return section{}, &ScanError{Section: "Drivers", Err: err}
	}

	existing := existingList(doc, "UEFI", "Drivers")

	// New entries mimic whatever shape the first existing entry uses.
	// An empty list (including every clean snapshot) gets the legacy
	// bare-string format.
	dictFormat := false
	if mode != ModeClean && len(existing) > 0 {
		_, dictFormat = existing[0].(*plist.Dict)
	}

	build := func(p string) plist.Value {
		if !dictFormat {
			return plist.String(p)
		}
		e := plist.NewDict()
		e.Set("Arguments", plist.String(""))
		e.Set("Comment", plist.String(path.Base(p)))
		e.Set("Enabled", plist.Bool(true))
		e.Set("LoadEarly", plist.Bool(false))
		e.Set("Path", plist.String(p))
		return e
	}

	list, rep := reconcilePaths(existing, discovered, mode, build, driverPath)
	rep.Name = "Drivers"
	return section{name: "Drivers", container: "UEFI", key: "Drivers", list: list, report: rep}, nil
}

func stageTools(doc *plist.Dict, layout Layout, mode Mode) (section, error) {
	if layout.Tools == "" {
		// Tools/ is optional; without it the section stays untouched.
		return section{skipped: true, report: SectionReport{Name: "Tools", Skipped: true}}, nil
	}

	discovered, err := scanFiles(layout.Tools, ".efi")
	if err != nil {
		return section{}, &ScanError{Section: "Tools", Err: err}
	}

	existing := existingList(doc, "Misc", "Tools")
	list, rep := reconcilePaths(existing, discovered, mode, func(p string) plist.Value {
		e := plist.NewDict()
		e.Set("Arguments", plist.String(""))
		e.Set("Auxiliary", plist.Bool(true))
		e.Set("Comment", plist.String(path.Base(p)))
		e.Set("Enabled", plist.Bool(true))
		e.Set("Flavour", plist.String("Auto"))
		e.Set("FullNvramAccess", plist.Bool(false))
		e.Set("Path", plist.String(p))
		e.Set("RealPath", plist.Bool(false))
		e.Set("TextMode", plist.Bool(false))
		return e
	}, dictPath("Path"))
	rep.Name = "Tools"
	return section{name: "Tools", container: "Misc", key: "Tools", list: list, report: rep}, nil
}

// reconcilePaths implements the shared diff: retained existing entries in
// their prior relative order, pruned of paths no longer on disk, followed
// by fresh entries for newly discovered paths. discovered must already be
// sorted case-insensitively. pathOf extracts the match key from an entry;
// an empty key means the entry has no usable path and is dropped, counted
// in the report's Dropped tally.
func reconcilePaths(existing plist.Array, discovered []string, mode Mode,
	build func(string) plist.Value, pathOf func(plist.Value) string) (plist.Array, SectionReport) {

	var rep SectionReport

	working := existing
	if mode == ModeClean {
		working = nil
		for _, v := range existing {
			if p := pathOf(v); p != "" {
				rep.Removed = append(rep.Removed, p)
			} else {
				rep.Dropped++
			}
		}
	}

	onDisk := make(map[string]bool, len(discovered))
	for _, p := range discovered {
		onDisk[strings.ToLower(p)] = true
	}

	result := make(plist.Array, 0, len(working)+len(discovered))
	inList := make(map[string]bool, len(working))
	for _, v := range working {
		p := pathOf(v)
		if p == "" {
			rep.Dropped++
			continue
		}
		lower := strings.ToLower(p)
		if !onDisk[lower] {
			if mode != ModeClean {
				rep.Removed = append(rep.Removed, p)
			}
			continue
		}
		inList[lower] = true
		result = append(result, v)
	}

	for _, p := range discovered {
		if inList[strings.ToLower(p)] {
			continue
		}
		result = append(result, build(p))
		rep.Added = append(rep.Added, p)
	}
	return result, rep
}

// existingList returns the section list at container.key, or nil when the
// container or the list is absent or of the wrong type.
func existingList(doc *plist.Dict, container, key string) plist.Array {
	c := doc.GetDict(container)
	if c == nil {
		return nil
	}
	return c.GetArray(key)
}

func dictPath(field string) func(plist.Value) string {
	return func(v plist.Value) string {
		if e, ok := v.(*plist.Dict); ok {
			return e.GetString(field)
		}
		return ""
	}
}

// driverPath handles both Driver entry shapes: legacy bare strings and
// modern dictionaries with a Path field.
func driverPath(v plist.Value) string {
	switch e := v.(type) {
	case plist.String:
		return string(e)
	case *plist.Dict:
		return e.GetString("Path")
	}
	return ""
}
