package service

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DefaultStartWaitHint is advertised with START_PENDING.
const DefaultStartWaitHint = 3 * time.Second

// Options configures a Runtime. Zero values select the platform defaults.
type Options struct {
	Identity   Identity
	Supervisor Supervisor
	Registry   Registry
	Loop       *WorkLoop

	StartWaitHint time.Duration
	StopWaitHint  time.Duration

	Logger zerolog.Logger

	// UseConsole switches logging to the console when the process turns out
	// to be interactive.
	UseConsole func()

	// Executable resolves the path registered by Install.
	Executable func() (string, error)

	// Notify subscribes c to interactive interrupt signals and returns a
	// function that unsubscribes it.
	Notify func(c chan<- os.Signal) (stop func())

	// ReportStartupError records fatal startup errors outside the log sink.
	ReportStartupError func(serviceName string, err error)
}

// Runtime holds the state of one service process: identity, supervisor
// connection, status record and shutdown signal. It is created once at
// process start.
type Runtime struct {
	id       Identity
	sup      Supervisor
	registry Registry
	loop     *WorkLoop

	signal   *ShutdownSignal
	reporter *Reporter
	handler  *ControlHandler

	startWaitHint time.Duration
	log           zerolog.Logger

	useConsole         func()
	executable         func() (string, error)
	notify             func(c chan<- os.Signal) func()
	reportStartupError func(string, error)
}

// NewRuntime creates the runtime. The identity must be valid.
func NewRuntime(opts Options) (*Runtime, error) {
	if err := opts.Identity.Validate(); err != nil {
		return nil, err
	}

	rt := &Runtime{
		id:                 opts.Identity,
		sup:                opts.Supervisor,
		registry:           opts.Registry,
		loop:               opts.Loop,
		startWaitHint:      opts.StartWaitHint,
		log:                opts.Logger,
		useConsole:         opts.UseConsole,
		executable:         opts.Executable,
		notify:             opts.Notify,
		reportStartupError: opts.ReportStartupError,
	}
	if rt.sup == nil {
		rt.sup = NewSupervisor()
	}
	if rt.registry == nil {
		rt.registry = NewRegistry()
	}
	if rt.loop == nil {
		rt.loop = NewWorkLoop(WorkLoopConfig{}, rt.log)
	}
	if rt.startWaitHint <= 0 {
		rt.startWaitHint = DefaultStartWaitHint
	}
	if rt.useConsole == nil {
		rt.useConsole = func() {}
	}
	if rt.executable == nil {
		rt.executable = resolveExecutable
	}
	if rt.notify == nil {
		rt.notify = notifyInterrupts
	}
	if rt.reportStartupError == nil {
		rt.reportStartupError = ReportStartupError
	}

	rt.signal = NewShutdownSignal()
	rt.reporter = NewReporter(rt.sup)
	rt.handler = NewControlHandler(rt.reporter, rt.signal, opts.StopWaitHint, rt.log)
	return rt, nil
}

// Signal returns the shutdown signal shared by the handler and the work loop.
func (rt *Runtime) Signal() *ShutdownSignal { return rt.signal }

// Reporter returns the status reporter.
func (rt *Runtime) Reporter() *Reporter { return rt.reporter }

// Run is the process entry point. It blocks for the whole service lifetime
// when the supervisor dispatches the service, and otherwise runs
// interactively or installs the service. args exclude the program name. The
// result is the process exit code.
func (rt *Runtime) Run(args []string) int {
	mode := DetectExecutionMode(rt.sup.Dispatch(rt.id.Name(), rt.serviceMain))

	switch mode.Kind {
	case ModeDispatched:
		rt.log.Info().Msg("Service exits cleanly")
		return 0
	case ModeDispatchFailed:
		rt.log.Error().
			Uint32("code", mode.Code).
			Msg("Service failed to communicate with SCM: StartServiceCtrlDispatcher() failed")
		rt.reportStartupError(rt.id.Name(), errorWithCode("service dispatch failed", mode.Code))
		return int(mode.Code)
	}

	// Not started by the supervisor: the console is now the observable output.
	rt.useConsole()

	if IsInstallRequest(args) {
		exe, err := rt.executable()
		if err != nil {
			code := ErrorCode(err)
			rt.log.Error().Err(err).Uint32("code", code).Msg("Unable to resolve executable path")
			return int(code)
		}
		rt.log.Info().
			Str("path", exe).
			Str("service", rt.id.Name()).
			Msg("Will install binary as service")
		return int(rt.Install(exe))
	}

	rt.log.Info().Msg("Starting as interactive process")
	return int(rt.runInteractive(args))
}

// serviceMain is invoked by the supervisor. It registers the control
// handler, reports START_PENDING and RUNNING, runs the work loop and reports
// STOPPED with its exit code. A failed registration or status report ends
// the service without further reporting.
func (rt *Runtime) serviceMain(args []string) {
	handle, err := rt.sup.RegisterHandler(rt.id.Name(), rt.handler.Handle)
	if err != nil {
		rt.fatal("RegisterServiceCtrlHandler() failed", err)
		return
	}
	rt.reporter.Attach(handle)
	defer rt.reporter.Release()

	if err := rt.reporter.ReportStatus(StateStartPending, 0, rt.startWaitHint); err != nil {
		rt.fatal("ReportStatus(START_PENDING) failed", err)
		return
	}
	if err := rt.reporter.ReportStatus(StateRunning, 0, 0); err != nil {
		rt.fatal("ReportStatus(RUNNING) failed", err)
		return
	}

	code := rt.loop.Run(rt.signal, args)

	if err := rt.reporter.ReportStatus(StateStopped, code, 0); err != nil {
		rt.fatal("ReportStatus(STOPPED) failed", err)
	}
}

func (rt *Runtime) fatal(msg string, err error) {
	rt.log.Error().Err(err).Uint32("code", ErrorCode(err)).Msg(msg)
	rt.reportStartupError(rt.id.Name(), err)
}
