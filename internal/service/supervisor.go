// Package service implements the service lifecycle: dispatch by the OS
// supervisor or interactive execution, status reporting, stop handling and
// self-installation.
package service

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

var (
	// ErrNoSupervisor means the process was not started by the supervisor.
	// It selects interactive mode and is not a failure.
	ErrNoSupervisor = errors.New("no service supervisor connection")

	// ErrAlreadyDispatched is returned when Dispatch is called while a
	// dispatch is in progress.
	ErrAlreadyDispatched = errors.New("service dispatch already in progress")

	// ErrUnsupported is returned by backends that cannot perform an operation
	// on this platform.
	ErrUnsupported = errors.New("operation not supported on this platform")
)

// Handle is the opaque token returned by handler registration. It is
// required by every status report.
type Handle uintptr

// MainFunc is the service entry point invoked by the supervisor with its
// start arguments. It returns when the service has stopped.
type MainFunc func(args []string)

// HandlerFunc receives control requests on a supervisor-owned thread.
type HandlerFunc func(c Control)

// Supervisor is the boundary to the OS service supervisor.
type Supervisor interface {
	// Dispatch connects to the supervisor and runs main when the supervisor
	// starts the service. It blocks until main returns. If the process was
	// not launched by the supervisor the error matches ErrNoSupervisor.
	Dispatch(name string, main MainFunc) error

	// RegisterHandler registers the control handler for the named service.
	RegisterHandler(name string, h HandlerFunc) (Handle, error)

	// SetStatus publishes a status record.
	SetStatus(h Handle, st Status) error
}

// ServiceType selects how the service process is hosted.
type ServiceType uint32

// StartType selects when the supervisor starts the service.
type StartType uint32

// ErrorControl selects what the supervisor does when the service fails to start.
type ErrorControl uint32

const (
	TypeOwnProcess ServiceType  = 0x10 // SERVICE_WIN32_OWN_PROCESS
	StartDemand    StartType    = 3    // SERVICE_DEMAND_START
	ErrorIgnore    ErrorControl = 0    // SERVICE_ERROR_IGNORE
)

// ServiceConfig describes a new registry entry.
type ServiceConfig struct {
	Type         ServiceType
	Start        StartType
	ErrorControl ErrorControl
}

// Registry is the supervisor's service database.
type Registry interface {
	// Open connects with the capability to create services.
	Open() (RegistryConn, error)
}

// RegistryConn is an open connection to the service database. Close
// releases it.
type RegistryConn interface {
	io.Closer

	// CreateService adds an entry launching exePath. The returned service
	// handle must be closed by the caller.
	CreateService(id Identity, exePath string, cfg ServiceConfig) (io.Closer, error)
}

// errGenericFailure is the code used for errors that carry no OS code
// (ERROR_INVALID_FUNCTION).
const errGenericFailure = 1

// ErrorCode returns the OS error code carried by err, 0 for nil and 1 for
// errors without a code.
func ErrorCode(err error) uint32 {
	if err == nil {
		return 0
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return uint32(errno)
	}
	return errGenericFailure
}

func errorWithCode(msg string, code uint32) error {
	return fmt.Errorf("%s: %w", msg, syscall.Errno(code))
}
