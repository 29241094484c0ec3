package models

import (
	"math"
	"time"
)

// SubscriptionPlan determines how many user inputs a user may submit per day.
type SubscriptionPlan string

const (
	PlanFree    SubscriptionPlan = "FREE"
	PlanBasic   SubscriptionPlan = "BASIC"
	PlanPremium SubscriptionPlan = "PREMIUM"
	PlanAdmin   SubscriptionPlan = "ADMIN"
)

// DailyLimit returns the number of user-authored messages admitted per
// calendar day for the plan. ADMIN is unlimited.
func (p SubscriptionPlan) DailyLimit() int {
	switch p {
	case PlanFree:
		return 5
	case PlanBasic:
		return 10
	case PlanPremium:
		return 20
	case PlanAdmin:
		return math.MaxInt
	default:
		return 0
	}
}

// Unlimited reports whether the plan bypasses daily quota accounting.
func (p SubscriptionPlan) Unlimited() bool {
	return p == PlanAdmin
}

// Valid reports whether p is one of the known plans.
func (p SubscriptionPlan) Valid() bool {
	switch p {
	case PlanFree, PlanBasic, PlanPremium, PlanAdmin:
		return true
	}
	return false
}

// User represents a healthcare account holder.
type User struct {
	ID               int64            `json:"user_id" db:"id"`
	FullName         string           `json:"full_name" db:"full_name"`
	Email            string           `json:"email" db:"email"`
	PhoneNumber      string           `json:"phone_number" db:"phone_number"`
	PasswordHash     string           `json:"-" db:"password_hash"`
	Role             string           `json:"role" db:"role"`
	OTP              int              `json:"-" db:"otp"`
	OTPGeneratedAt   *time.Time       `json:"-" db:"otp_generated_at"`
	EmailVerified    bool             `json:"email_verified" db:"email_verified"`
	SubscriptionPlan SubscriptionPlan `json:"subscription_plan" db:"subscription_plan"`
	LastPromptTime   *time.Time       `json:"last_prompt_time,omitempty" db:"last_prompt_time"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}

// OTPExpired reports whether the pending verification code is older than 30
// minutes (or was never issued).
func (u *User) OTPExpired(now time.Time) bool {
	if u.OTPGeneratedAt == nil {
		return true
	}
	return now.After(u.OTPGeneratedAt.Add(30 * time.Minute))
}

// ResetOTP clears the pending verification code.
func (u *User) ResetOTP() {
	u.OTP = 0
	u.OTPGeneratedAt = nil
}
