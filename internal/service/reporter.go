package service

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrNoHandle is returned when reporting without a registered handle.
	ErrNoHandle = errors.New("no service status handle")

	// ErrInvalidTransition is returned for a report that would move the
	// lifecycle backwards or past STOPPED.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
)

// Reporter publishes lifecycle transitions to the supervisor. It is safe to
// call from the control handler and the coordinator concurrently.
type Reporter struct {
	sup Supervisor

	mu         sync.Mutex
	handle     Handle
	status     Status
	checkpoint uint32
}

// NewReporter creates a reporter that publishes through sup.
func NewReporter(sup Supervisor) *Reporter {
	return &Reporter{sup: sup}
}

// Attach binds the handle returned by handler registration.
func (r *Reporter) Attach(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handle = h
}

// Release drops the handle. Later reports fail with ErrNoHandle.
func (r *Reporter) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handle = 0
}

// Current returns the last successfully published status.
func (r *Reporter) Current() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// ReportStatus composes and publishes a status record. Stop requests are
// accepted in every state except START_PENDING. The checkpoint is 0 for
// RUNNING and STOPPED and advances on every other report. A failed publish
// leaves the recorded status unchanged.
func (r *Reporter) ReportStatus(state State, exitCode uint32, waitHint time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handle == 0 {
		return fmt.Errorf("report %s: %w", state, ErrNoHandle)
	}
	if err := r.checkTransition(state); err != nil {
		return err
	}

	next := Status{
		State:         state,
		Accepts:       AcceptStop,
		Win32ExitCode: exitCode,
		WaitHint:      waitHint,
	}
	if state == StateStartPending {
		next.Accepts = AcceptNone
	}

	checkpoint := uint32(0)
	if state != StateRunning && state != StateStopped {
		checkpoint = r.checkpoint + 1
	}
	next.CheckPoint = checkpoint

	if err := r.sup.SetStatus(r.handle, next); err != nil {
		return fmt.Errorf("report %s: %w", state, err)
	}

	r.status = next
	r.checkpoint = checkpoint
	return nil
}

func (r *Reporter) checkTransition(next State) error {
	if next.rank() == 0 {
		return fmt.Errorf("%w: %s is not reportable", ErrInvalidTransition, next)
	}
	cur := r.status.State
	switch {
	case cur == StateStopped:
		return fmt.Errorf("%w: %s after %s", ErrInvalidTransition, next, cur)
	case next.rank() < cur.rank():
		return fmt.Errorf("%w: %s after %s", ErrInvalidTransition, next, cur)
	case next == cur && !next.pending():
		return fmt.Errorf("%w: %s repeated", ErrInvalidTransition, next)
	}
	return nil
}
