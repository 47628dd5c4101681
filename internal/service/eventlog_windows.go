//go:build windows
// +build windows

package service

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

// ReportStartupError writes a fatal lifecycle error to the Windows Event Log,
// so "sc query" and Event Viewer show why the service did not run even when
// the log file is missing. The event ID is the OS error code.
func ReportStartupError(serviceName string, err error) {
	// Registers the event source; harmless if it already exists
	_ = eventlog.InstallAsEventCreate(serviceName, eventlog.Error|eventlog.Warning|eventlog.Info)

	elog, openErr := eventlog.Open(serviceName)
	if openErr != nil {
		return
	}
	defer elog.Close()

	elog.Error(ErrorCode(err), fmt.Sprintf("%s failed: %v", serviceName, err))
}
