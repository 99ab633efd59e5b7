package plist

import "fmt"

// ParseError indicates that input bytes are not a valid property list.
// No partial document is ever returned alongside it.
type ParseError struct {
	Format string // "xml" or "binary"
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("plist: invalid %s property list: %s: %v", e.Format, e.Detail, e.Err)
	}
	return fmt.Sprintf("plist: invalid %s property list: %s", e.Format, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErrf(format, detail string, args ...any) *ParseError {
	return &ParseError{Format: format, Detail: fmt.Sprintf(detail, args...)}
}
