package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"healthmini/internal/errors"
	"healthmini/models"
	"healthmini/ports"
)

const userColumns = `id, full_name, email, phone_number, password_hash, role, otp, otp_generated_at, email_verified, subscription_plan, last_prompt_time, created_at`

// UserRepositoryImpl implements UserRepository for PostgreSQL
type UserRepositoryImpl struct {
	db *sqlx.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) ports.UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `
		SELECT `+userColumns+`
		FROM healthcare_users
		WHERE id = $1
	`, userID)
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `
		SELECT `+userColumns+`
		FROM healthcare_users
		WHERE email = $1
	`, email)
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *UserRepositoryImpl) GetByEmailOrPhone(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `
		SELECT `+userColumns+`
		FROM healthcare_users
		WHERE email = $1 OR phone_number = $1
		ORDER BY id
		LIMIT 1
	`, identifier)
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO healthcare_users
			(full_name, email, phone_number, password_hash, role, otp, otp_generated_at, email_verified, subscription_plan, last_prompt_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, user.FullName, user.Email, user.PhoneNumber, user.PasswordHash, user.Role,
		user.OTP, user.OTPGeneratedAt, user.EmailVerified, user.SubscriptionPlan,
		user.LastPromptTime, user.CreatedAt).Scan(&user.ID)
	return translate(err, "user")
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *models.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE healthcare_users
		SET full_name = $2, email = $3, phone_number = $4, password_hash = $5,
			role = $6, otp = $7, otp_generated_at = $8, email_verified = $9,
			subscription_plan = $10, last_prompt_time = $11
		WHERE id = $1
	`, user.ID, user.FullName, user.Email, user.PhoneNumber, user.PasswordHash,
		user.Role, user.OTP, user.OTPGeneratedAt, user.EmailVerified,
		user.SubscriptionPlan, user.LastPromptTime)
	if err != nil {
		return translate(err, "user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("user")
	}
	return nil
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, userID int64) error {
	// Sessions, messages and health records cascade via foreign keys.
	res, err := r.db.ExecContext(ctx, `DELETE FROM healthcare_users WHERE id = $1`, userID)
	if err != nil {
		return translate(err, "user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("user")
	}
	return nil
}

func (r *UserRepositoryImpl) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.SelectContext(ctx, &users, `
		SELECT `+userColumns+`
		FROM healthcare_users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, translate(err, "users")
	}
	return users, nil
}
