// Package main is the entry point for the mysvc service.
package main

import (
	"fmt"
	"os"

	"mysvc/internal/config"
	"mysvc/internal/logger"
	"mysvc/internal/service"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	configPath := config.PathBesideExecutable(exe)

	cfg, cfgErr := config.LoadOrDefault(configPath)

	// The SCM gives a service no console, so the file is the only sink until
	// the process turns out to be interactive.
	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", logger.MarkError, err)
	}
	defer logger.Close()

	log := logger.WithComponent("main")
	log.Info().
		Str("version", version).
		Str("build_time", buildTime).
		Str("config", configPath).
		Str("log_file", logger.FilePath()).
		Msg("Starting mysvc")
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("Configuration unusable, running with defaults")
	}

	loop := service.NewWorkLoop(service.WorkLoopConfig{
		PollInterval:  cfg.PollInterval,
		MaxIterations: cfg.MaxIterations,
	}, logger.WithComponent("work"))

	watcher, err := config.NewWatcher(configPath, func(next *config.Config) {
		if err := service.ValidatePollInterval(next.PollInterval, cfg.StopWaitHint); err != nil {
			log.Warn().Err(err).Msg("Ignoring poll interval change")
		} else if next.PollInterval != loop.Interval() {
			loop.SetInterval(next.PollInterval)
			log.Info().Dur("interval", next.PollInterval).Msg("Poll interval updated")
		}
		logger.SetLevel(next.Logging.Level)
	})
	if err != nil {
		log.Warn().Err(err).Msg("Config watcher unavailable")
	} else if err := watcher.Start(); err != nil {
		log.Warn().Err(err).Msg("Config watcher failed to start")
	} else {
		defer watcher.Stop()
	}

	rt, err := service.NewRuntime(service.Options{
		Identity:      cfg.Identity(),
		Loop:          loop,
		StartWaitHint: cfg.StartWaitHint,
		StopWaitHint:  cfg.StopWaitHint,
		Logger:        logger.WithComponent("lifecycle"),
		UseConsole:    logger.UseConsole,
	})
	if err != nil {
		log.Error().Err(err).Msg("Invalid service identity")
		service.ReportStartupError(cfg.ServiceName, err)
		return int(service.ErrorCode(err))
	}

	return rt.Run(args)
}
