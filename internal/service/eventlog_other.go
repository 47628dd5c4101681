//go:build !windows
// +build !windows

package service

// ReportStartupError is a no-op on non-Windows platforms; the log sink is
// the only record there.
func ReportStartupError(serviceName string, err error) {}
