package ports

import (
	"context"
	"time"

	"healthmini/models"
)

// MessageRepository defines the interface for chat message storage.
type MessageRepository interface {
	// Append persists a new message and assigns its ID.
	Append(ctx context.Context, message *models.ChatMessage) error

	// ListBySession returns the session's messages ordered ascending by
	// timestamp.
	ListBySession(ctx context.Context, sessionID int64) ([]*models.ChatMessage, error)

	// CountUserMessagesInWindow counts user-authored messages across all of
	// the user's sessions inside the inclusive [start, end] window. This is
	// the quota counter; there is no separate mutable counter to drift.
	CountUserMessagesInWindow(ctx context.Context, userID int64, start, end time.Time) (int64, error)

	// CountPerUserInWindow returns per-user counts of user-authored messages
	// inside the inclusive [start, end] window.
	CountPerUserInWindow(ctx context.Context, start, end time.Time) ([]models.UsageRow, error)
}
