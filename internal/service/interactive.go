package service

import (
	"os"
	"os/signal"
	"syscall"
)

// runInteractive runs the work loop on the calling goroutine. Ctrl+C and
// SIGTERM raise the shutdown signal, so the loop stops the same way it does
// under the supervisor.
func (rt *Runtime) runInteractive(args []string) uint32 {
	sigChan := make(chan os.Signal, 1)
	stop := rt.notify(sigChan)
	defer stop()

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case sig := <-sigChan:
			rt.log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			rt.signal.Raise()
		case <-done:
		}
	}()

	return rt.loop.Run(rt.signal, args)
}

func notifyInterrupts(c chan<- os.Signal) func() {
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	return func() { signal.Stop(c) }
}
