package repositories

import (
	"github.com/google/uuid"

	"github.com/jasleenkaur1801/leeyaherbals-server/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uuid.UUID) (*models.Order, error)
	GetByIDForUser(id, userID uuid.UUID) (*models.Order, error)
	ListByUser(userID uuid.UUID, status string, limit, offset int) ([]models.Order, int64, error)
	ListAll(status string, limit, offset int) ([]models.Order, int64, error)
	// FindByPaymentID locates the order recorded for a gateway payment,
	// the duplicate-submission guard.
	FindByPaymentID(paymentID string) (*models.Order, error)
	UpdateStatus(id uuid.UUID, status, paymentStatus string) error
}
