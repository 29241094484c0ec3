package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"healthmini/models"
	"healthmini/ports"
)

const sessionColumns = `id, user_id, title, created_at, expires_at, deletion_eligible_at, is_deleted`

// SessionRepositoryImpl implements SessionRepository for PostgreSQL
type SessionRepositoryImpl struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sqlx.DB) ports.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// Create inserts a new daily session. A racing insert for the same
// (user, day) trips the partial unique index and surfaces as CONFLICT, which
// the session manager resolves by re-fetching the winner.
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *models.ChatSession) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO chat_sessions (user_id, title, created_at, expires_at, deletion_eligible_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, session.UserID, session.Title, session.CreatedAt, session.ExpiresAt,
		session.DeletionEligibleAt, session.IsDeleted).Scan(&session.ID)
	return translate(err, "session")
}

func (r *SessionRepositoryImpl) GetByID(ctx context.Context, sessionID int64) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.db.GetContext(ctx, &session, `
		SELECT `+sessionColumns+`
		FROM chat_sessions
		WHERE id = $1 AND NOT is_deleted
	`, sessionID)
	if err != nil {
		return nil, translate(err, "session")
	}
	return &session, nil
}

func (r *SessionRepositoryImpl) FindForUserInWindow(ctx context.Context, userID int64, start, end time.Time) ([]*models.ChatSession, error) {
	var sessions []*models.ChatSession
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT `+sessionColumns+`
		FROM chat_sessions
		WHERE user_id = $1 AND created_at BETWEEN $2 AND $3 AND NOT is_deleted
		ORDER BY created_at
	`, userID, start, end)
	if err != nil {
		return nil, translate(err, "sessions")
	}
	return sessions, nil
}

func (r *SessionRepositoryImpl) FindForUserBefore(ctx context.Context, userID int64, asOf time.Time) ([]*models.ChatSession, error) {
	var sessions []*models.ChatSession
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT `+sessionColumns+`
		FROM chat_sessions
		WHERE user_id = $1 AND created_at < $2 AND NOT is_deleted
		ORDER BY created_at
	`, userID, asOf)
	if err != nil {
		return nil, translate(err, "sessions")
	}
	return sessions, nil
}

func (r *SessionRepositoryImpl) FindPastEligibility(ctx context.Context, now time.Time) ([]*models.ChatSession, error) {
	var sessions []*models.ChatSession
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT `+sessionColumns+`
		FROM chat_sessions
		WHERE deletion_eligible_at <= $1
		ORDER BY deletion_eligible_at
	`, now)
	if err != nil {
		return nil, translate(err, "sessions")
	}
	return sessions, nil
}

func (r *SessionRepositoryImpl) DeleteByIDs(ctx context.Context, sessionIDs []int64) error {
	if len(sessionIDs) == 0 {
		return nil
	}
	// Messages cascade via foreign key.
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM chat_sessions WHERE id = ANY($1)
	`, pq.Array(sessionIDs))
	return translate(err, "sessions")
}
