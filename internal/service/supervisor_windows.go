//go:build windows
// +build windows

package service

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc/mgr"
)

// The SCM calls back through plain function pointers, so the entry point and
// control handler of the service being dispatched live in package state.
// A process dispatches at most one service at a time.
var (
	active struct {
		sync.Mutex
		main    MainFunc
		handler HandlerFunc
	}

	serviceMainCallback = windows.NewCallback(serviceMainProc)
	ctlHandlerCallback  = windows.NewCallback(ctlHandlerProc)
)

type windowsSupervisor struct{}

// NewSupervisor returns the Service Control Manager backend.
func NewSupervisor() Supervisor {
	return windowsSupervisor{}
}

// Dispatch calls StartServiceCtrlDispatcher, which returns only after main
// has returned. ERROR_FAILED_SERVICE_CONTROLLER_CONNECT means the process
// was started from a console and is reported as ErrNoSupervisor.
func (windowsSupervisor) Dispatch(name string, main MainFunc) error {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return fmt.Errorf("invalid service name %q: %w", name, err)
	}

	active.Lock()
	if active.main != nil {
		active.Unlock()
		return ErrAlreadyDispatched
	}
	active.main = main
	active.Unlock()

	defer func() {
		active.Lock()
		active.main, active.handler = nil, nil
		active.Unlock()
	}()

	table := []windows.SERVICE_TABLE_ENTRY{
		{ServiceName: namePtr, ServiceProc: serviceMainCallback},
		{ServiceName: nil, ServiceProc: 0},
	}
	if err := windows.StartServiceCtrlDispatcher(&table[0]); err != nil {
		if errors.Is(err, windows.ERROR_FAILED_SERVICE_CONTROLLER_CONNECT) {
			return fmt.Errorf("%w: %w", ErrNoSupervisor, err)
		}
		return fmt.Errorf("StartServiceCtrlDispatcher: %w", err)
	}
	return nil
}

// RegisterHandler calls RegisterServiceCtrlHandlerEx. The returned handle
// does not need to be closed.
func (windowsSupervisor) RegisterHandler(name string, h HandlerFunc) (Handle, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, fmt.Errorf("invalid service name %q: %w", name, err)
	}

	active.Lock()
	active.handler = h
	active.Unlock()

	handle, err := windows.RegisterServiceCtrlHandlerEx(namePtr, ctlHandlerCallback, 0)
	if err != nil {
		return 0, fmt.Errorf("RegisterServiceCtrlHandlerEx: %w", err)
	}
	return Handle(handle), nil
}

// SetStatus calls SetServiceStatus.
func (windowsSupervisor) SetStatus(h Handle, st Status) error {
	status := windows.SERVICE_STATUS{
		ServiceType:      windows.SERVICE_WIN32_OWN_PROCESS,
		CurrentState:     uint32(st.State),
		ControlsAccepted: uint32(st.Accepts),
		Win32ExitCode:    st.Win32ExitCode,
		CheckPoint:       st.CheckPoint,
		WaitHint:         uint32(st.WaitHint.Milliseconds()),
	}
	if err := windows.SetServiceStatus(windows.Handle(h), &status); err != nil {
		return fmt.Errorf("SetServiceStatus: %w", err)
	}
	return nil
}

// serviceMainProc runs on a thread created by the SCM.
func serviceMainProc(argc uint32, argv **uint16) uintptr {
	var args []string
	if argc > 0 && argv != nil {
		for _, p := range unsafe.Slice(argv, argc) {
			args = append(args, windows.UTF16PtrToString(p))
		}
	}

	active.Lock()
	main := active.main
	active.Unlock()

	if main != nil {
		main(args)
	}
	return 0
}

// ctlHandlerProc runs on the dispatcher thread, concurrently with the
// service main function.
func ctlHandlerProc(ctl, evtype uint32, evdata, context uintptr) uintptr {
	active.Lock()
	h := active.handler
	active.Unlock()

	if h != nil {
		h(Control(ctl))
	}
	return uintptr(windows.NO_ERROR)
}

type windowsRegistry struct{}

// NewRegistry returns the Service Control Manager database.
func NewRegistry() Registry {
	return windowsRegistry{}
}

// Open connects to the active services database with connect and
// create-service rights only.
func (windowsRegistry) Open() (RegistryConn, error) {
	h, err := windows.OpenSCManager(nil, nil, windows.SC_MANAGER_CONNECT|windows.SC_MANAGER_CREATE_SERVICE)
	if err != nil {
		return nil, fmt.Errorf("OpenSCManager: %w", err)
	}
	return &scmConn{m: &mgr.Mgr{Handle: h}}, nil
}

type scmConn struct {
	m *mgr.Mgr
}

func (c *scmConn) Close() error {
	return c.m.Disconnect()
}

func (c *scmConn) CreateService(id Identity, exePath string, cfg ServiceConfig) (io.Closer, error) {
	s, err := c.m.CreateService(id.Name(), exePath, mgr.Config{
		ServiceType:  uint32(cfg.Type),
		StartType:    uint32(cfg.Start),
		ErrorControl: uint32(cfg.ErrorControl),
		DisplayName:  id.DisplayName(),
	})
	if err != nil {
		return nil, fmt.Errorf("CreateService %s: %w", id.Name(), err)
	}
	return s, nil
}
