package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, preserving an existing code
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes
const (
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeQuotaExceeded      = "QUOTA_EXCEEDED"
	CodeNotFound           = "NOT_FOUND"
	CodeCooldownActive     = "COOLDOWN_ACTIVE"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeGatewayError       = "GATEWAY_ERROR"
	CodeProviderError      = "PROVIDER_ERROR"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
	CodeConflict           = "CONFLICT"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Common error constructors

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// QuotaExceeded is returned when a user has spent today's message allowance.
func QuotaExceeded(limit int) *AppError {
	return New(CodeQuotaExceeded, fmt.Sprintf("you have reached your daily limit of %d user inputs", limit))
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// CooldownActive is returned when a FREE-tier prediction arrives inside the
// 7-day cooldown window.
func CooldownActive(message string) *AppError {
	return New(CodeCooldownActive, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// GatewayError classifies completion failures on our side of the wire:
// transport faults, timeouts and malformed provider responses.
func GatewayError(message string, cause error) *AppError {
	return &AppError{Code: CodeGatewayError, Message: message, Cause: cause}
}

// ProviderError classifies non-success responses from the completion
// provider, carrying the provider's raw error body.
func ProviderError(body string) *AppError {
	return New(CodeProviderError, fmt.Sprintf("completion provider error: %s", body))
}

func PersistenceFailure(cause error) *AppError {
	return &AppError{Code: CodePersistenceFailure, Message: "persistence failure", Cause: cause}
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func AlreadyExists(resource string) *AppError {
	return New(CodeAlreadyExists, fmt.Sprintf("%s already exists", resource))
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message)
}
