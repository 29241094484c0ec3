package app

import (
	"context"
	"time"

	"healthmini/internal"
	"healthmini/internal/errors"
	"healthmini/ports"
)

// RetentionSweeper deletes sessions whose deletion eligibility window has
// elapsed. It runs on its own timer, holds no long-lived lock, and is
// idempotent: a second run in the same period finds nothing eligible.
type RetentionSweeper struct {
	sessions ports.SessionRepository
	log      *internal.Logger
}

// NewRetentionSweeper creates a sweeper.
func NewRetentionSweeper(sessions ports.SessionRepository, log *internal.Logger) *RetentionSweeper {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &RetentionSweeper{sessions: sessions, log: log}
}

// Sweep deletes every session with deletion_eligible_at <= now, cascading to
// messages, and returns how many were removed.
func (s *RetentionSweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	eligible, err := s.sessions.FindPastEligibility(ctx, now)
	if err != nil {
		return 0, errors.Wrap(err, "finding expired sessions")
	}
	if len(eligible) == 0 {
		return 0, nil
	}

	ids := make([]int64, len(eligible))
	for i, session := range eligible {
		ids[i] = session.ID
	}
	if err := s.sessions.DeleteByIDs(ctx, ids); err != nil {
		return 0, errors.Wrap(err, "deleting expired sessions")
	}
	return len(ids), nil
}

// Run fires the sweep at the next local midnight and then once per interval
// until ctx is cancelled. Sweep failures are logged, never fatal; eligible
// rows stay eligible, so the next run retries implicitly.
func (s *RetentionSweeper) Run(ctx context.Context, interval time.Duration) {
	timer := time.NewTimer(untilNextMidnight(time.Now()))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-timer.C:
			if deleted, err := s.Sweep(ctx, now); err != nil {
				s.log.Error("retention sweep failed: %v", err)
			} else if deleted > 0 {
				s.log.Info("retention sweep deleted %d old sessions", deleted)
			} else {
				s.log.Debug("retention sweep found no eligible sessions")
			}
			timer.Reset(interval)
		}
	}
}

func untilNextMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return next.Sub(now)
}
