package worker

import (
	"context"
	"time"

	"github.com/fieldline-hq/fieldline/pkg/utils/logging"
)

// SessionSweeper periodically closes option sessions that have been idle
// too long, releasing their resolvers
//
// Architecture assumptions:
// - Single server instance; sessions live in process memory
type SessionSweeper struct {
	sessions SessionCloser
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// SessionCloser is the part of the options use case the sweeper needs
type SessionCloser interface {
	SweepIdleSessions(now time.Time) int
}

// NewSessionSweeper creates a sweeper for idle option sessions
func NewSessionSweeper(sessions SessionCloser, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop. Does not block server startup.
func (w *SessionSweeper) Start(ctx context.Context) error {
	logging.Default().Info("option session sweeper starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the sweeper to stop and waits for completion
func (w *SessionSweeper) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("option session sweeper stopped")
}

func (w *SessionSweeper) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := w.sessions.SweepIdleSessions(time.Now()); n > 0 {
				logging.Default().Info("closed idle option sessions", "count", n)
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("option session sweeper context cancelled")
			return
		}
	}
}
