package app

import (
	"context"
	"time"

	"healthmini/internal/errors"
	"healthmini/internal/keylock"
	"healthmini/models"
	"healthmini/ports"
)

// sessionRetentionDays is how long a session lives before it becomes eligible
// for the retention sweep.
const sessionRetentionDays = 7

// SessionManager owns the get-or-create semantics for daily sessions.
//
// Invariant: at most one non-deleted session exists per (user, calendar day).
// Two guards uphold it: a per-user mutex serializes the read-then-create
// inside this process, and the repository's (user, day) uniqueness reports a
// CONFLICT for racing writers from other processes, which is resolved by
// re-fetching the winner.
type SessionManager struct {
	sessions ports.SessionRepository
	locks    *keylock.KeyedMutex
	now      func() time.Time
}

// NewSessionManager creates a session manager.
func NewSessionManager(sessions ports.SessionRepository) *SessionManager {
	return &SessionManager{
		sessions: sessions,
		locks:    keylock.New(),
		now:      time.Now,
	}
}

// GetOrCreateDailySession returns the user's session for today, creating it
// from the seed prompt if this is the first message of the day.
func (m *SessionManager) GetOrCreateDailySession(ctx context.Context, user *models.User, seedPrompt string) (*models.ChatSession, error) {
	m.locks.Lock(user.ID)
	defer m.locks.Unlock(user.ID)

	now := m.now()
	start, end := models.DayWindow(now)

	existing, err := m.sessions.FindForUserInWindow(ctx, user.ID, start, end)
	if err != nil {
		return nil, errors.Wrap(err, "looking up today's session")
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	session := &models.ChatSession{
		UserID:             user.ID,
		Title:              models.SessionTitle(seedPrompt, now),
		CreatedAt:          now,
		ExpiresAt:          end,
		DeletionEligibleAt: now.AddDate(0, 0, sessionRetentionDays),
	}

	if err := m.sessions.Create(ctx, session); err != nil {
		if errors.HasCode(err, errors.CodeConflict) {
			// Another writer won the race; fetch its session.
			winners, ferr := m.sessions.FindForUserInWindow(ctx, user.ID, start, end)
			if ferr == nil && len(winners) > 0 {
				return winners[0], nil
			}
		}
		return nil, errors.Wrap(err, "creating daily session")
	}
	return session, nil
}
