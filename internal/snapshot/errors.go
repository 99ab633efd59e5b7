package snapshot

import (
	"fmt"
	"strings"
)

// LayoutError reports a reference directory that does not look like an OC
// folder even after the OC/ fallback was tried. The reconciler is never
// invoked when this is returned.
type LayoutError struct {
	Root    string
	Missing []string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("snapshot: %s is not a valid OC folder, missing: %s",
		e.Root, strings.Join(e.Missing, ", "))
}

// ScanError reports a filesystem failure while walking one of the section
// subdirectories. The document is left untouched when it occurs.
type ScanError struct {
	Section string
	Err     error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("snapshot: scanning %s: %v", e.Section, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
