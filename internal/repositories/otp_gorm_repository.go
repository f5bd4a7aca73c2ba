package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jasleenkaur1801/leeyaherbals-server/internal/models"
)

// GORMOTPRepository is a GORM implementation of OTPRepository.
type GORMOTPRepository struct {
	db *gorm.DB
}

// NewGORMOTPRepository creates a new instance of GORMOTPRepository.
func NewGORMOTPRepository(db *gorm.DB) *GORMOTPRepository {
	return &GORMOTPRepository{db: db}
}

// Create inserts a fresh pending record.
func (r *GORMOTPRepository) Create(otp *models.OTPVerification) error {
	if err := r.db.Create(otp).Error; err != nil {
		return fmt.Errorf("failed to create otp record: %w", err)
	}
	return nil
}

// LatestPending returns the most recent unverified record for the email.
func (r *GORMOTPRepository) LatestPending(email string) (*models.OTPVerification, error) {
	var otp models.OTPVerification
	err := r.db.Where("email = ? AND verified = ?", email, false).
		Order("created_at desc").
		First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("otp for %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load otp record: %w", err)
	}
	return &otp, nil
}

// Save persists attempt-count or verified-flag mutations.
func (r *GORMOTPRepository) Save(otp *models.OTPVerification) error {
	if err := r.db.Save(otp).Error; err != nil {
		return fmt.Errorf("failed to save otp record: %w", err)
	}
	return nil
}

// Delete removes a single record.
func (r *GORMOTPRepository) Delete(id uuid.UUID) error {
	if err := r.db.Delete(&models.OTPVerification{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete otp record: %w", err)
	}
	return nil
}

// DeleteByEmail removes every record for the email.
func (r *GORMOTPRepository) DeleteByEmail(email string) error {
	if err := r.db.Delete(&models.OTPVerification{}, "email = ?", email).Error; err != nil {
		return fmt.Errorf("failed to delete otp records: %w", err)
	}
	return nil
}
