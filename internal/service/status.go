package service

import (
	"fmt"
	"time"
)

// State is a lifecycle state as reported to the supervisor. The reported
// values match the Win32 SERVICE_* state codes.
type State uint32

const (
	StateUninitialized State = 0
	StateStopped       State = 1
	StateStartPending  State = 2
	StateStopPending   State = 3
	StateRunning       State = 4
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateStopped:
		return "STOPPED"
	case StateStartPending:
		return "START_PENDING"
	case StateStopPending:
		return "STOP_PENDING"
	case StateRunning:
		return "RUNNING"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// rank orders states along the lifecycle. Reported states never move to a
// lower rank.
func (s State) rank() int {
	switch s {
	case StateStartPending:
		return 1
	case StateRunning:
		return 2
	case StateStopPending:
		return 3
	case StateStopped:
		return 4
	default:
		return 0
	}
}

// pending reports whether the state is a transition in progress.
func (s State) pending() bool {
	return s == StateStartPending || s == StateStopPending
}

// Accepts is the set of control requests the supervisor may forward.
type Accepts uint32

const (
	AcceptNone Accepts = 0
	AcceptStop Accepts = 0x1 // SERVICE_ACCEPT_STOP
)

// Status is the record published to the supervisor.
type Status struct {
	State         State
	Accepts       Accepts
	Win32ExitCode uint32
	CheckPoint    uint32
	WaitHint      time.Duration
}

// Control is a control code sent by the supervisor.
type Control uint32

const (
	ControlStop        Control = 0x1 // SERVICE_CONTROL_STOP
	ControlPause       Control = 0x2
	ControlContinue    Control = 0x3
	ControlInterrogate Control = 0x4
	ControlShutdown    Control = 0x5
)

func (c Control) String() string {
	switch c {
	case ControlStop:
		return "STOP"
	case ControlPause:
		return "PAUSE"
	case ControlContinue:
		return "CONTINUE"
	case ControlInterrogate:
		return "INTERROGATE"
	case ControlShutdown:
		return "SHUTDOWN"
	default:
		return fmt.Sprintf("Control(%#x)", uint32(c))
	}
}
