// Package pipeline drives the external EFI build pipeline. The pipeline
// itself (component downloads, ACPI patching, EFI assembly) lives outside
// this tool; this package owns the contract and the job orchestration.
package pipeline

import (
	"context"
	"time"
)

// Request carries the inputs the build pipeline needs.
type Request struct {
	ConfigPlist  string
	EFIDir       string
	MacOSVersion string
	SMBIOSModel  string
}

// Report is the outcome of a build run. BIOSRequirements is an ordered
// list of human-readable BIOS/UEFI setting changes the user must make
// before the built EFI will boot.
type Report struct {
	Success          bool
	BIOSRequirements []string
}

// Builder performs a single build run.
type Builder interface {
	Build(ctx context.Context, req Request) (*Report, error)
}

// EventType classifies job events.
type EventType int

const (
	EventStarted EventType = iota
	EventStep
	EventOutput
	EventDone
)

func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventStep:
		return "step"
	case EventOutput:
		return "output"
	case EventDone:
		return "done"
	default:
		return "unknown"
	}
}

// Event is emitted by a Runner as a job progresses. For EventDone either
// Report or Err is set.
type Event struct {
	JobID   string
	Type    EventType
	Step    string
	Message string
	Report  *Report
	Err     error
	Time    time.Time
}

// ProgressFunc receives step transitions and output lines during a build.
type ProgressFunc func(step, message string)

type progressKey struct{}

// WithProgress returns a context carrying a progress callback for the
// Builder to report through.
func WithProgress(ctx context.Context, fn ProgressFunc) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

// Progress returns the progress callback from the context, or a no-op.
func Progress(ctx context.Context) ProgressFunc {
	if fn, ok := ctx.Value(progressKey{}).(ProgressFunc); ok {
		return fn
	}
	return func(string, string) {}
}
