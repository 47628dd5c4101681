package service

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// DefaultPollInterval is the idle time of one unit of work.
const DefaultPollInterval = time.Second

// ValidatePollInterval checks that a poll interval fits within the stop wait
// hint, since the interval bounds how long a stop request takes to observe.
func ValidatePollInterval(poll, stopWaitHint time.Duration) error {
	if poll <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", poll)
	}
	if stopWaitHint > 0 && poll >= stopWaitHint {
		return fmt.Errorf("poll interval %s must be shorter than the stop wait hint %s", poll, stopWaitHint)
	}
	return nil
}

// WorkLoopConfig configures a WorkLoop.
type WorkLoopConfig struct {
	PollInterval  time.Duration
	MaxIterations int         // 0 runs until the shutdown signal is raised
	Clock         clock.Clock // nil uses the wall clock
}

// WorkLoop runs units of work until the shutdown signal is observed. The
// signal is checked after every unit, so the poll interval is the worst case
// shutdown latency.
type WorkLoop struct {
	clock         clock.Clock
	interval      atomic.Int64
	maxIterations int
	log           zerolog.Logger

	afterUnit func(n int)
}

// NewWorkLoop creates a work loop.
func NewWorkLoop(cfg WorkLoopConfig, log zerolog.Logger) *WorkLoop {
	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	l := &WorkLoop{
		clock:         c,
		maxIterations: cfg.MaxIterations,
		log:           log,
	}
	l.SetInterval(cfg.PollInterval)
	return l
}

// SetInterval changes the poll interval from the next unit on. Non-positive
// values select DefaultPollInterval.
func (l *WorkLoop) SetInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultPollInterval
	}
	l.interval.Store(int64(d))
}

// Interval returns the current poll interval.
func (l *WorkLoop) Interval() time.Duration {
	return time.Duration(l.interval.Load())
}

// Run executes the loop and returns its exit code. args are the start
// arguments of the service, if any; they do not change behavior.
func (l *WorkLoop) Run(sig *ShutdownSignal, args []string) uint32 {
	evt := l.log.Info().Dur("interval", l.Interval())
	if len(args) > 0 {
		evt = evt.Strs("args", args)
	}
	withProcessInfo(evt).Msg("Starting work")

	units := 0
	for {
		l.unit()
		units++
		if l.afterUnit != nil {
			l.afterUnit(units)
		}

		if sig.Raised() {
			break
		}
		if l.maxIterations > 0 && units >= l.maxIterations {
			break
		}
	}

	l.log.Info().Int("units", units).Msg("Done")
	return 0
}

// unit is the placeholder for one unit of real work.
func (l *WorkLoop) unit() {
	l.clock.Sleep(l.Interval())
}
