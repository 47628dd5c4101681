package service

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultStopWaitHint is how long the supervisor is told to wait for the
// service to stop after a stop request.
const DefaultStopWaitHint = 3 * time.Second

// ControlHandler maps supervisor control requests onto the shutdown signal.
// Handle never blocks on the work loop.
type ControlHandler struct {
	reporter *Reporter
	signal   *ShutdownSignal
	waitHint time.Duration
	log      zerolog.Logger
}

// NewControlHandler creates a handler. A zero waitHint uses DefaultStopWaitHint.
func NewControlHandler(r *Reporter, sig *ShutdownSignal, waitHint time.Duration, log zerolog.Logger) *ControlHandler {
	if waitHint <= 0 {
		waitHint = DefaultStopWaitHint
	}
	return &ControlHandler{
		reporter: r,
		signal:   sig,
		waitHint: waitHint,
		log:      log,
	}
}

// Handle processes one control request. Only STOP has an effect: STOP_PENDING
// is reported, then the shutdown signal is raised. The signal is raised even
// when the report fails.
func (h *ControlHandler) Handle(c Control) {
	if c != ControlStop {
		h.log.Debug().Stringer("control", c).Msg("Ignoring control request")
		return
	}

	h.log.Info().Msg("Exit requested by service manager")

	if err := h.reporter.ReportStatus(StateStopPending, 0, h.waitHint); err != nil {
		h.log.Error().
			Err(err).
			Uint32("code", ErrorCode(err)).
			Msg("ReportStatus(STOP_PENDING) failed")
	}
	h.signal.Raise()
}
