// Package mail provides the MailSender used when no real mail transport is
// configured: it logs the message instead of delivering it. Outbound SMTP is
// an external concern.
package mail

import (
	"context"

	"github.com/google/uuid"

	"healthmini/internal"
	"healthmini/models"
)

// LogMailer writes account emails to the application log.
type LogMailer struct {
	log *internal.Logger
}

// NewLogMailer creates a logging mail sender.
func NewLogMailer(log *internal.Logger) *LogMailer {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &LogMailer{log: log}
}

// SendOTP logs the verification code that would have been emailed.
func (m *LogMailer) SendOTP(ctx context.Context, user *models.User, otp int) error {
	messageID := uuid.NewString()
	m.log.Info("mail %s: verification code %06d for %s", messageID, otp, user.Email)
	return nil
}
