package ports

import (
	"context"
	"time"

	"healthmini/models"
)

// SessionRepository defines the interface for daily chat session storage.
//
// All lookups exclude soft-deleted sessions.
type SessionRepository interface {
	// Create persists a new session and assigns its ID. Implementations
	// backed by a (user, day) uniqueness guarantee return a CONFLICT error
	// when a non-deleted session already exists for the session's day, so
	// callers can re-fetch the winner instead of duplicating it.
	Create(ctx context.Context, session *models.ChatSession) error

	// GetByID retrieves a single session.
	GetByID(ctx context.Context, sessionID int64) (*models.ChatSession, error)

	// FindForUserInWindow returns the user's sessions created inside the
	// inclusive [start, end] window, oldest first.
	FindForUserInWindow(ctx context.Context, userID int64, start, end time.Time) ([]*models.ChatSession, error)

	// FindForUserBefore returns all of the user's sessions created before
	// asOf, oldest first.
	FindForUserBefore(ctx context.Context, userID int64, asOf time.Time) ([]*models.ChatSession, error)

	// FindPastEligibility returns sessions whose deletion_eligible_at is at
	// or before now.
	FindPastEligibility(ctx context.Context, now time.Time) ([]*models.ChatSession, error)

	// DeleteByIDs removes the given sessions, cascading to their messages.
	DeleteByIDs(ctx context.Context, sessionIDs []int64) error
}
