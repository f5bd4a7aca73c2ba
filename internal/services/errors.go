package services

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the login and checkout flows. Handlers
// translate these into HTTP statuses; the messages are safe to show.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrOtpNotFound        = errors.New("verification code not found")
	ErrTooManyAttempts    = errors.New("too many failed attempts, request a new code")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrSignatureInvalid   = errors.New("payment signature verification failed")
	ErrDuplicatePayment   = errors.New("payment has already been recorded")
)

// InvalidOtpError reports a code mismatch with the remaining attempts.
type InvalidOtpError struct {
	Remaining int
}

func (e *InvalidOtpError) Error() string {
	return fmt.Sprintf("invalid verification code, %d attempts remaining", e.Remaining)
}

// GatewayError wraps a failure from an external provider, passing the
// underlying message through to the caller.
type GatewayError struct {
	Provider string
	Err      error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
