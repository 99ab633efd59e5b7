package snapshot

import (
	"fmt"
	"strings"
)

// Report summarizes what a snapshot changed, per section.
type Report struct {
	Mode     string          `yaml:"mode" json:"mode"`
	Sections []SectionReport `yaml:"sections" json:"sections"`
}

// SectionReport lists the paths a single section gained, lost, or had
// refreshed. Skipped marks the optional Tools section when its directory
// was absent.
type SectionReport struct {
	Name      string   `yaml:"name" json:"name"`
	Added     []string `yaml:"added,omitempty" json:"added,omitempty"`
	Removed   []string `yaml:"removed,omitempty" json:"removed,omitempty"`
	Refreshed []string `yaml:"refreshed,omitempty" json:"refreshed,omitempty"`
	// Dropped counts malformed entries without a usable path field that
	// were discarded from the section.
	Dropped int  `yaml:"dropped,omitempty" json:"dropped,omitempty"`
	Skipped bool `yaml:"skipped,omitempty" json:"skipped,omitempty"`
}

// Changed reports whether any section was modified.
func (r *Report) Changed() bool {
	for _, s := range r.Sections {
		if len(s.Added) > 0 || len(s.Removed) > 0 || len(s.Refreshed) > 0 || s.Dropped > 0 {
			return true
		}
	}
	return false
}

// Summary renders a one-line digest such as
// "ACPI +2 -1, Kexts +1 ~1, Drivers ±0, Tools skipped"; discarded
// malformed entries show up as "!n".
func (r *Report) Summary() string {
	parts := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		switch {
		case s.Skipped:
			parts = append(parts, s.Name+" skipped")
		case len(s.Added) == 0 && len(s.Removed) == 0 && len(s.Refreshed) == 0 && s.Dropped == 0:
			parts = append(parts, s.Name+" ±0")
		default:
			p := s.Name
			if n := len(s.Added); n > 0 {
				p += fmt.Sprintf(" +%d", n)
			}
			if n := len(s.Removed); n > 0 {
				p += fmt.Sprintf(" -%d", n)
			}
			if n := len(s.Refreshed); n > 0 {
				p += fmt.Sprintf(" ~%d", n)
			}
			if n := s.Dropped; n > 0 {
				p += fmt.Sprintf(" !%d", n)
			}
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
