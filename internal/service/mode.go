package service

import (
	"errors"
	"fmt"
)

// Mode is the kind of execution chosen at process start.
type Mode int

const (
	// ModeDispatched means the supervisor ran the service to completion.
	ModeDispatched Mode = iota
	// ModeInteractive means no supervisor is present.
	ModeInteractive
	// ModeDispatchFailed means connecting to the supervisor failed for any
	// other reason.
	ModeDispatchFailed
)

func (m Mode) String() string {
	switch m {
	case ModeDispatched:
		return "dispatched"
	case ModeInteractive:
		return "interactive"
	case ModeDispatchFailed:
		return "dispatch-failed"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ExecutionMode is the outcome of a dispatch attempt. Code is set only for
// ModeDispatchFailed.
type ExecutionMode struct {
	Kind Mode
	Code uint32
}

// DetectExecutionMode classifies the error returned by Supervisor.Dispatch.
func DetectExecutionMode(dispatchErr error) ExecutionMode {
	switch {
	case dispatchErr == nil:
		return ExecutionMode{Kind: ModeDispatched}
	case errors.Is(dispatchErr, ErrNoSupervisor):
		return ExecutionMode{Kind: ModeInteractive}
	default:
		return ExecutionMode{Kind: ModeDispatchFailed, Code: ErrorCode(dispatchErr)}
	}
}
