package service

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestDetectExecutionMode_Dispatched(t *testing.T) {
	mode := DetectExecutionMode(nil)
	if mode.Kind != ModeDispatched || mode.Code != 0 {
		t.Errorf("got %+v, want dispatched", mode)
	}
}

func TestDetectExecutionMode_NoSupervisorIsInteractive(t *testing.T) {
	// ERROR_FAILED_SERVICE_CONTROLLER_CONNECT wrapped the way the Windows backend does
	err := fmt.Errorf("%w: %w", ErrNoSupervisor, syscall.Errno(1063))

	mode := DetectExecutionMode(err)
	if mode.Kind != ModeInteractive {
		t.Errorf("got %s, want interactive", mode.Kind)
	}
	if mode.Code != 0 {
		t.Errorf("interactive mode should carry no code, got %d", mode.Code)
	}
}

func TestDetectExecutionMode_OtherErrorsFail(t *testing.T) {
	err := fmt.Errorf("StartServiceCtrlDispatcher: %w", syscall.Errno(5))

	mode := DetectExecutionMode(err)
	if mode.Kind != ModeDispatchFailed {
		t.Errorf("got %s, want dispatch-failed", mode.Kind)
	}
	if mode.Code != 5 {
		t.Errorf("Code = %d, want 5", mode.Code)
	}
}

func TestErrorCode(t *testing.T) {
	if got := ErrorCode(nil); got != 0 {
		t.Errorf("ErrorCode(nil) = %d, want 0", got)
	}
	if got := ErrorCode(errors.New("plain")); got != 1 {
		t.Errorf("ErrorCode(plain) = %d, want 1", got)
	}
	wrapped := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", syscall.Errno(1073)))
	if got := ErrorCode(wrapped); got != 1073 {
		t.Errorf("ErrorCode(wrapped) = %d, want 1073", got)
	}
	if got := ErrorCode(errorWithCode("dispatch", 87)); got != 87 {
		t.Errorf("ErrorCode(errorWithCode) = %d, want 87", got)
	}
}
