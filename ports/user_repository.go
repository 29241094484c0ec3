package ports

import (
	"context"

	"healthmini/models"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// GetByID retrieves a user by primary key.
	GetByID(ctx context.Context, userID int64) (*models.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByEmailOrPhone retrieves a user whose email or phone number matches
	// the identifier, whichever field the caller typed into the login form.
	GetByEmailOrPhone(ctx context.Context, identifier string) (*models.User, error)

	// Create persists a new user and assigns its ID.
	Create(ctx context.Context, user *models.User) error

	// Update persists mutations to an existing user.
	Update(ctx context.Context, user *models.User) error

	// Delete removes a user and cascades to all owned sessions, messages and
	// health records.
	Delete(ctx context.Context, userID int64) error

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]*models.User, error)
}
