package app

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"

	"healthmini/internal/auth"
	"healthmini/internal/errors"
	"healthmini/models"
	"healthmini/ports"
)

// AdminService covers the operator surface: admin account creation, the user
// list and today's usage aggregates.
type AdminService struct {
	users    ports.UserRepository
	messages ports.MessageRepository
	now      func() time.Time
}

// NewAdminService creates an admin service.
func NewAdminService(users ports.UserRepository, messages ports.MessageRepository) *AdminService {
	return &AdminService{users: users, messages: messages, now: time.Now}
}

// CreateAdmin provisions a pre-verified ADMIN-plan account.
func (s *AdminService) CreateAdmin(ctx context.Context, email, password string) (*models.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, errors.AlreadyExists("admin account")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, "hashing password")
	}

	admin := &models.User{
		Email:            email,
		PasswordHash:     hash,
		Role:             "admin",
		EmailVerified:    true,
		SubscriptionPlan: models.PlanAdmin,
		CreatedAt:        s.now(),
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.HasCode(err, errors.CodeConflict) {
			return nil, errors.AlreadyExists("admin account")
		}
		return nil, errors.Wrap(err, "creating admin account")
	}
	return admin, nil
}

// ListUsers returns every account.
func (s *AdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// UsageSummary aggregates today's user-authored message counts.
func (s *AdminService) UsageSummary(ctx context.Context) (*models.UsageSummary, error) {
	now := s.now()
	start, end := models.DayWindow(now)

	rows, err := s.messages.CountPerUserInWindow(ctx, start, end)
	if err != nil {
		return nil, errors.Wrap(err, "counting usage")
	}

	summary := &models.UsageSummary{
		ActiveUsers:    len(rows),
		GeneratedAtISO: now.Format(time.RFC3339),
	}
	if len(rows) == 0 {
		return summary, nil
	}

	counts := make([]float64, len(rows))
	for i, row := range rows {
		counts[i] = float64(row.Messages)
		summary.TotalMessages += row.Messages
	}
	if summary.MeanPerUser, err = stats.Mean(counts); err != nil {
		return nil, errors.Wrap(err, "computing usage mean")
	}
	if summary.MedianPerUser, err = stats.Median(counts); err != nil {
		return nil, errors.Wrap(err, "computing usage median")
	}
	if summary.MaxPerUser, err = stats.Max(counts); err != nil {
		return nil, errors.Wrap(err, "computing usage max")
	}
	return summary, nil
}
