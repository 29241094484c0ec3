package app

import (
	"context"
	"time"

	"healthmini/internal/errors"
	"healthmini/models"
	"healthmini/ports"
)

// QuotaEnforcer decides whether another user-authored message may be
// accepted today. The check is read-only: the persisted message log is the
// counter, so there is no separate counter to drift or reset.
type QuotaEnforcer struct {
	messages ports.MessageRepository
	now      func() time.Time
}

// NewQuotaEnforcer creates a quota enforcer.
func NewQuotaEnforcer(messages ports.MessageRepository) *QuotaEnforcer {
	return &QuotaEnforcer{messages: messages, now: time.Now}
}

// CheckDailyLimit returns nil when the user may send another message today,
// or a QUOTA_EXCEEDED error carrying the plan's limit. ADMIN users are never
// counted. Callers wanting a hard cap must hold the same per-user lock as
// the message insert; the advice orchestrator does.
func (q *QuotaEnforcer) CheckDailyLimit(ctx context.Context, user *models.User) error {
	if user.SubscriptionPlan.Unlimited() {
		return nil
	}

	limit := user.SubscriptionPlan.DailyLimit()
	start, end := models.DayWindow(q.now())

	count, err := q.messages.CountUserMessagesInWindow(ctx, user.ID, start, end)
	if err != nil {
		return errors.Wrap(err, "counting today's messages")
	}
	if count >= int64(limit) {
		return errors.QuotaExceeded(limit)
	}
	return nil
}
