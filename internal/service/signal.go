package service

import (
	"sync"
	"sync/atomic"
)

// ShutdownSignal is a one-shot, manual-reset flag. Once raised it stays
// raised for the life of the process. It is safe for concurrent use.
type ShutdownSignal struct {
	once   sync.Once
	raised atomic.Bool
	done   chan struct{}
}

// NewShutdownSignal creates an unraised signal.
func NewShutdownSignal() *ShutdownSignal {
	return &ShutdownSignal{done: make(chan struct{})}
}

// Raise sets the signal. It returns true only for the call that raised it.
func (s *ShutdownSignal) Raise() bool {
	first := false
	s.once.Do(func() {
		s.raised.Store(true)
		close(s.done)
		first = true
	})
	return first
}

// Raised reports whether the signal has been raised.
func (s *ShutdownSignal) Raised() bool {
	return s.raised.Load()
}

// Done returns a channel that is closed when the signal is raised.
func (s *ShutdownSignal) Done() <-chan struct{} {
	return s.done
}
