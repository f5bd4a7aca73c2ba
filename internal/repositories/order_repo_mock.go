package repositories

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jasleenkaur1801/leeyaherbals-server/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository,
// used as a test double.
type MockOrderRepository struct {
	orders map[uuid.UUID]models.Order
	mu     sync.RWMutex

	// FailCreate makes the next Create return an error, for exercising
	// persistence-failure paths.
	FailCreate error
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{orders: make(map[uuid.UUID]models.Order)}
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailCreate != nil {
		err := r.FailCreate
		r.FailCreate = nil
		return err
	}

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id uuid.UUID) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

// GetByIDForUser returns an order only when it belongs to the user.
func (r *MockOrderRepository) GetByIDForUser(id, userID uuid.UUID) (*models.Order, error) {
	order, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return order, nil
}

// ListByUser returns the user's orders newest-first.
func (r *MockOrderRepository) ListByUser(userID uuid.UUID, status string, limit, offset int) ([]models.Order, int64, error) {
	return r.list(func(o models.Order) bool { return o.UserID == userID }, status, limit, offset)
}

// ListAll returns every order newest-first.
func (r *MockOrderRepository) ListAll(status string, limit, offset int) ([]models.Order, int64, error) {
	return r.list(func(models.Order) bool { return true }, status, limit, offset)
}

func (r *MockOrderRepository) list(match func(models.Order) bool, status string, limit, offset int) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []models.Order
	for id := range r.orders {
		o := r.orders[id]
		if !match(o) {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		all = append(all, o)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].PlacedAt.After(all[j].PlacedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// FindByPaymentID locates the order recorded for a gateway payment.
func (r *MockOrderRepository) FindByPaymentID(paymentID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id := range r.orders {
		o := r.orders[id]
		if o.RazorpayPaymentID != nil && *o.RazorpayPaymentID == paymentID {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("payment %s: %w", paymentID, ErrNotFound)
}

// UpdateStatus applies a status transition.
func (r *MockOrderRepository) UpdateStatus(id uuid.UUID, status, paymentStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if status != "" {
		order.Status = status
	}
	if paymentStatus != "" {
		order.PaymentStatus = paymentStatus
	}
	r.orders[id] = order
	return nil
}

// Count reports how many orders are stored.
func (r *MockOrderRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}
