package repositories

import (
	"github.com/google/uuid"

	"github.com/jasleenkaur1801/leeyaherbals-server/internal/models"
)

// OTPRepository defines the interface for login-code data access.
type OTPRepository interface {
	// Create inserts a fresh pending record.
	Create(otp *models.OTPVerification) error
	// LatestPending returns the most recent unverified record for the email.
	LatestPending(email string) (*models.OTPVerification, error)
	// Save persists attempt-count or verified-flag mutations.
	Save(otp *models.OTPVerification) error
	// Delete removes a single record.
	Delete(id uuid.UUID) error
	// DeleteByEmail removes every record for the email, verified or not.
	DeleteByEmail(email string) error
}
