package service

import (
	"os"
	"path/filepath"
	"strings"

	"mysvc/internal/logger"
)

// InstallTrigger is the single argument that requests self-installation.
const InstallTrigger = "/install"

// IsInstallRequest reports whether args (without the program name) ask for
// installation. Matching is case-insensitive and requires no other arguments.
func IsInstallRequest(args []string) bool {
	return len(args) == 1 && strings.EqualFold(args[0], InstallTrigger)
}

// installConfig is the registry entry created by Install: own process,
// started on demand, no recovery action on failure.
var installConfig = ServiceConfig{
	Type:         TypeOwnProcess,
	Start:        StartDemand,
	ErrorControl: ErrorIgnore,
}

// Install registers exePath as a service under the runtime's identity and
// returns 0 or the OS error code. The service is not started. Every handle
// acquired is closed before returning.
func (rt *Runtime) Install(exePath string) uint32 {
	conn, err := rt.registry.Open()
	if err != nil {
		code := ErrorCode(err)
		rt.log.Error().Err(err).Uint32("code", code).Msg("OpenSCManager() failed")
		return code
	}
	defer func() {
		if err := conn.Close(); err != nil {
			rt.log.Warn().Err(err).Msg("Closing service manager handle failed")
		}
	}()

	svc, err := conn.CreateService(rt.id, exePath, installConfig)
	if err != nil {
		code := ErrorCode(err)
		rt.log.Error().
			Err(err).
			Uint32("code", code).
			Str("service", rt.id.Name()).
			Msg("CreateService() failed")
		return code
	}
	defer func() {
		if err := svc.Close(); err != nil {
			rt.log.Warn().Err(err).Msg("Closing service handle failed")
		}
	}()

	logger.Succeed(rt.log.Info()).
		Str("service", rt.id.Name()).
		Str("display_name", rt.id.DisplayName()).
		Msg("Service installed")
	return 0
}

// resolveExecutable returns the absolute path of the running binary.
func resolveExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Abs(exe)
}
