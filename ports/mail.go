package ports

import (
	"context"

	"healthmini/models"
)

// MailSender delivers account emails. Real SMTP is out of scope; the default
// implementation logs the message.
type MailSender interface {
	SendOTP(ctx context.Context, user *models.User, otp int) error
}
