package app

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"healthmini/internal/auth"
	"healthmini/internal/config"
	"healthmini/internal/errors"
	"healthmini/models"
	"healthmini/ports"
)

// UserService handles the account lifecycle: signup with email verification,
// login issuing bearer tokens, plan changes and account deletion.
type UserService struct {
	users ports.UserRepository
	mail  ports.MailSender
	cfg   config.AuthConfig
	now   func() time.Time
}

// NewUserService creates a user service.
func NewUserService(users ports.UserRepository, mail ports.MailSender, cfg config.AuthConfig) *UserService {
	return &UserService{users: users, mail: mail, cfg: cfg, now: time.Now}
}

// SignUpInput carries the registration form fields.
type SignUpInput struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// SignUp registers a new FREE-plan account and emails a verification code.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Password) == "" {
		return nil, errors.InvalidInput("email and password are required")
	}
	if _, err := s.users.GetByEmailOrPhone(ctx, in.Email); err == nil {
		return nil, errors.AlreadyExists("account")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hashing password")
	}

	now := s.now()
	otp := generateOTP()
	user := &models.User{
		FullName:         in.FullName,
		Email:            in.Email,
		PhoneNumber:      in.PhoneNumber,
		PasswordHash:     hash,
		OTP:              otp,
		OTPGeneratedAt:   &now,
		EmailVerified:    false,
		SubscriptionPlan: models.PlanFree,
		CreatedAt:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.HasCode(err, errors.CodeConflict) {
			return nil, errors.AlreadyExists("account")
		}
		return nil, errors.Wrap(err, "creating account")
	}

	if err := s.mail.SendOTP(ctx, user, otp); err != nil {
		return nil, errors.Wrap(err, "sending verification email")
	}
	return user, nil
}

// VerifyOTP confirms the emailed code and marks the account verified.
func (s *UserService) VerifyOTP(ctx context.Context, email string, otp int) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.OTP == 0 || user.OTP != otp {
		return errors.InvalidInput("invalid OTP")
	}
	if user.OTPExpired(s.now()) {
		return errors.InvalidInput("OTP expired, log in to receive a new one")
	}

	user.EmailVerified = true
	user.Role = "user"
	user.ResetOTP()
	return s.users.Update(ctx, user)
}

// Login authenticates by email or phone number and returns a bearer token.
// An unverified account gets a fresh OTP if the previous one expired.
func (s *UserService) Login(ctx context.Context, identifier, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmailOrPhone(ctx, identifier)
	if err != nil {
		return "", nil, err
	}

	if !user.EmailVerified {
		if user.OTPExpired(s.now()) {
			now := s.now()
			otp := generateOTP()
			user.OTP = otp
			user.OTPGeneratedAt = &now
			if err := s.users.Update(ctx, user); err != nil {
				return "", nil, errors.Wrap(err, "refreshing OTP")
			}
			if err := s.mail.SendOTP(ctx, user, otp); err != nil {
				return "", nil, errors.Wrap(err, "sending verification email")
			}
		}
		return "", nil, errors.Unauthorized("email not verified, check your inbox for a verification code")
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, errors.Unauthorized("invalid credentials")
	}

	token, err := auth.GenerateToken(user.ID, user.Role, s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return "", nil, errors.Wrap(err, "issuing token")
	}
	return token, user, nil
}

// ChangePlan moves the user to a new subscription plan.
func (s *UserService) ChangePlan(ctx context.Context, userID int64, plan models.SubscriptionPlan) error {
	if !plan.Valid() {
		return errors.InvalidInput("unknown subscription plan")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.SubscriptionPlan = plan
	return s.users.Update(ctx, user)
}

// DeleteAccount removes the user and everything they own: sessions, messages
// and health records cascade.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	return s.users.Delete(ctx, userID)
}

// generateOTP returns a 6-digit verification code.
func generateOTP() int {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is broken.
		return 123456
	}
	return int(n.Int64()) + 100000
}
