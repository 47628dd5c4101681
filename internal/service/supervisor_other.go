//go:build !windows
// +build !windows

package service

import (
	"fmt"
)

// otherSupervisor is used where no service supervisor protocol is
// implemented. Every dispatch falls through to interactive mode.
type otherSupervisor struct{}

// NewSupervisor returns the platform supervisor backend.
func NewSupervisor() Supervisor {
	return otherSupervisor{}
}

func (otherSupervisor) Dispatch(name string, main MainFunc) error {
	return fmt.Errorf("dispatch %s: %w", name, ErrNoSupervisor)
}

func (otherSupervisor) RegisterHandler(name string, h HandlerFunc) (Handle, error) {
	return 0, fmt.Errorf("register handler for %s: %w", name, ErrUnsupported)
}

func (otherSupervisor) SetStatus(h Handle, st Status) error {
	return fmt.Errorf("set status %s: %w", st.State, ErrUnsupported)
}

type otherRegistry struct{}

// NewRegistry returns the platform service database.
func NewRegistry() Registry {
	return otherRegistry{}
}

func (otherRegistry) Open() (RegistryConn, error) {
	return nil, fmt.Errorf("open service manager: %w", ErrUnsupported)
}
