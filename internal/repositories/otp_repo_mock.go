package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jasleenkaur1801/leeyaherbals-server/internal/models"
)

// MockOTPRepository is an in-memory implementation of OTPRepository,
// used as a test double.
type MockOTPRepository struct {
	records map[uuid.UUID]models.OTPVerification
	mu      sync.RWMutex
}

// NewMockOTPRepository creates a new instance of MockOTPRepository.
func NewMockOTPRepository() *MockOTPRepository {
	return &MockOTPRepository{records: make(map[uuid.UUID]models.OTPVerification)}
}

// Create inserts a fresh pending record.
func (r *MockOTPRepository) Create(otp *models.OTPVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if otp.ID == uuid.Nil {
		otp.ID = uuid.New()
	}
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = time.Now()
	}
	r.records[otp.ID] = *otp
	return nil
}

// LatestPending returns the most recent unverified record for the email.
func (r *MockOTPRepository) LatestPending(email string) (*models.OTPVerification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.OTPVerification
	for id := range r.records {
		rec := r.records[id]
		if rec.Email != email || rec.Verified {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			copied := rec
			latest = &copied
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("otp for %s: %w", email, ErrNotFound)
	}
	return latest, nil
}

// Save persists attempt-count or verified-flag mutations.
func (r *MockOTPRepository) Save(otp *models.OTPVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[otp.ID]; !ok {
		return fmt.Errorf("otp %s: %w", otp.ID, ErrNotFound)
	}
	r.records[otp.ID] = *otp
	return nil
}

// Delete removes a single record.
func (r *MockOTPRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, id)
	return nil
}

// DeleteByEmail removes every record for the email.
func (r *MockOTPRepository) DeleteByEmail(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := range r.records {
		if r.records[id].Email == email {
			delete(r.records, id)
		}
	}
	return nil
}

// Count reports how many records exist for the email, any state.
func (r *MockOTPRepository) Count(email string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for id := range r.records {
		if r.records[id].Email == email {
			n++
		}
	}
	return n
}
