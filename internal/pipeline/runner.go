package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/rubentalstra/OpCore-Simplify/internal/clock"
	"github.com/rubentalstra/OpCore-Simplify/internal/logging"
)

// ErrBuildInProgress is returned by Start while a job is still running.
var ErrBuildInProgress = errors.New("a build is already in progress")

// Runner executes builds one at a time on a background goroutine and
// streams progress events to the UI. Events are delivered best-effort:
// a slow consumer drops intermediate events, never the final EventDone.
type Runner struct {
	builder Builder
	logger  *logging.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	events  chan Event
}

// NewRunner creates a Runner around the given Builder.
func NewRunner(builder Builder, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{
		builder: builder,
		logger:  logger.WithComponent("pipeline"),
		events:  make(chan Event, 64),
	}
}

// Events returns the event stream. The channel stays open across jobs.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Running reports whether a job is in flight.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Start launches a build job and returns its ID. Only one job may run
// at a time.
func (r *Runner) Start(ctx context.Context, req Request) (string, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return "", ErrBuildInProgress
	}
	jobCtx, cancel := context.WithCancel(ctx)
	r.running = true
	r.cancel = cancel
	r.mu.Unlock()

	jobID := uuid.NewString()
	r.logger.Info("build started", "job", jobID, "config", req.ConfigPlist)
	r.emit(Event{JobID: jobID, Type: EventStarted, Time: clock.Now()})

	jobCtx = WithProgress(jobCtx, func(step, message string) {
		typ := EventOutput
		if message == "" {
			typ = EventStep
		}
		r.emit(Event{JobID: jobID, Type: typ, Step: step, Message: message, Time: clock.Now()})
	})

	go func() {
		defer cancel()

		report, err := r.builder.Build(jobCtx, req)

		r.mu.Lock()
		r.running = false
		r.cancel = nil
		r.mu.Unlock()

		if err != nil {
			r.logger.Error("build failed", "job", jobID, "error", err)
		} else {
			r.logger.Info("build finished", "job", jobID, "success", report.Success)
		}
		r.emitFinal(Event{JobID: jobID, Type: EventDone, Report: report, Err: err, Time: clock.Now()})
	}()

	return jobID, nil
}

// Cancel aborts the running job, if any.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}

// emit drops the event when the consumer is not keeping up.
func (r *Runner) emit(ev Event) {
	select {
	case r.events <- ev:
	default:
	}
}

// emitFinal blocks: EventDone must not be lost.
func (r *Runner) emitFinal(ev Event) {
	r.events <- ev
}
