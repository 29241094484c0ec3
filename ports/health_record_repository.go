package ports

import (
	"context"

	"healthmini/models"
)

// HealthRecordRepository defines the interface for prediction submissions.
type HealthRecordRepository interface {
	// Create persists a new record and assigns its ID.
	Create(ctx context.Context, record *models.HealthRecord) error

	// ListByUser returns the user's records, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*models.HealthRecord, error)
}
