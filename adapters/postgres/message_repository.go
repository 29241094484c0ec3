package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"healthmini/models"
	"healthmini/ports"
)

// MessageRepositoryImpl implements MessageRepository for PostgreSQL
type MessageRepositoryImpl struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new PostgreSQL message repository
func NewMessageRepository(db *sqlx.DB) ports.MessageRepository {
	return &MessageRepositoryImpl{db: db}
}

func (r *MessageRepositoryImpl) Append(ctx context.Context, message *models.ChatMessage) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO chat_messages (session_id, content, is_user_message, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, message.SessionID, message.Content, message.IsUserMessage, message.Timestamp).Scan(&message.ID)
	return translate(err, "message")
}

func (r *MessageRepositoryImpl) ListBySession(ctx context.Context, sessionID int64) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	err := r.db.SelectContext(ctx, &messages, `
		SELECT id, session_id, content, is_user_message, timestamp
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY timestamp, id
	`, sessionID)
	if err != nil {
		return nil, translate(err, "messages")
	}
	return messages, nil
}

func (r *MessageRepositoryImpl) CountUserMessagesInWindow(ctx context.Context, userID int64, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM chat_messages m
		JOIN chat_sessions s ON s.id = m.session_id
		WHERE s.user_id = $1
		  AND m.is_user_message
		  AND m.timestamp BETWEEN $2 AND $3
	`, userID, start, end)
	if err != nil {
		return 0, translate(err, "message count")
	}
	return count, nil
}

func (r *MessageRepositoryImpl) CountPerUserInWindow(ctx context.Context, start, end time.Time) ([]models.UsageRow, error) {
	var rows []models.UsageRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT s.user_id AS user_id, COUNT(*) AS messages
		FROM chat_messages m
		JOIN chat_sessions s ON s.id = m.session_id
		WHERE m.is_user_message
		  AND m.timestamp BETWEEN $1 AND $2
		GROUP BY s.user_id
		ORDER BY s.user_id
	`, start, end)
	if err != nil {
		return nil, translate(err, "usage counts")
	}
	return rows, nil
}
