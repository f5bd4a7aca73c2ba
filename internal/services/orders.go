package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jasleenkaur1801/leeyaherbals-server/internal/models"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/repositories"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/validation"
	"github.com/jasleenkaur1801/leeyaherbals-server/pkg/rabbitmq"
)

// OrderItemPayload is one line of a client-submitted order.
type OrderItemPayload struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name" validate:"required"`
	Quantity     int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice    float64 `json:"unit_price" validate:"gte=0"`
	LineSubtotal float64 `json:"line_subtotal"`
}

// OrderPayload is the client-submitted order body. The owner is always
// taken from the authenticated caller, never from the payload.
type OrderPayload struct {
	Items       []OrderItemPayload `json:"items" validate:"required,min=1,dive"`
	Subtotal    float64            `json:"subtotal" validate:"gte=0"`
	ShippingFee float64            `json:"shipping" validate:"gte=0"`
	Total       float64            `json:"total" validate:"gte=0"`
	Currency    string             `json:"currency"`
	AddressLine string             `json:"address_line" validate:"required"`
	City        string             `json:"city" validate:"required"`
	State       string             `json:"state"`
	PostalCode  string             `json:"postal_code" validate:"required"`
	Phone       string             `json:"phone" validate:"required"`
}

// OrderService bridges the external payment processor to locally
// persisted, verifiably-authentic orders.
type OrderService struct {
	orders  repositories.OrderRepository
	gateway PaymentGateway
	events  *rabbitmq.Client
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders repositories.OrderRepository, gateway PaymentGateway, events *rabbitmq.Client) *OrderService {
	return &OrderService{orders: orders, gateway: gateway, events: events}
}

// CreateIntent registers a payment intent with the gateway and returns
// it together with the public key for the checkout widget. Amounts are
// validated before any external call is made.
func (s *OrderService) CreateIntent(ctx context.Context, amount float64, currency, receipt string) (*GatewayOrder, string, error) {
	if amount <= 0 {
		return nil, "", ErrInvalidAmount
	}
	if currency == "" {
		currency = "INR"
	}

	amountMinor := int64(math.Round(amount * 100))
	order, err := s.gateway.CreateOrder(ctx, amountMinor, currency, receipt)
	if err != nil {
		return nil, "", err
	}

	return order, s.gateway.KeyID(), nil
}

// VerifyAndFinalize checks the client-supplied payment signature and,
// only on a match, persists the order stamped with the authenticated
// caller's identity. A payment ID that was already recorded is rejected
// so duplicate submissions cannot create a second order.
func (s *OrderService) VerifyAndFinalize(ctx context.Context, userID uuid.UUID, gatewayOrderID, paymentID, signature string, payload OrderPayload) (*models.Order, error) {
	if !s.gateway.VerifySignature(gatewayOrderID, paymentID, signature) {
		return nil, ErrSignatureInvalid
	}

	if _, err := s.orders.FindByPaymentID(paymentID); err == nil {
		return nil, ErrDuplicatePayment
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if err := validation.Struct(payload); err != nil {
		return nil, err
	}

	order := s.buildOrder(userID, payload)
	order.PaymentMethod = models.PaymentMethodRazorpay
	order.PaymentStatus = models.PaymentStatusCompleted
	order.Status = models.OrderStatusConfirmed
	order.RazorpayOrderID = gatewayOrderID
	order.RazorpayPaymentID = &paymentID
	order.RazorpaySignature = signature

	if err := s.orders.Create(order); err != nil {
		// The charge is captured but no order exists. There is no
		// compensating transaction; flag for manual reconciliation.
		log.Printf("[Payment] IRRECOVERABLE: payment %s captured but order persistence failed: %v", paymentID, err)
		return nil, err
	}

	s.publish("payment.captured", order)
	return order, nil
}

// CreateCODOrder persists a cash-on-delivery order with no gateway
// interaction.
func (s *OrderService) CreateCODOrder(ctx context.Context, userID uuid.UUID, payload OrderPayload) (*models.Order, error) {
	if err := validation.Struct(payload); err != nil {
		return nil, err
	}

	order := s.buildOrder(userID, payload)
	order.PaymentMethod = models.PaymentMethodCOD
	order.PaymentStatus = models.PaymentStatusPending
	order.Status = models.OrderStatusPlaced

	if err := s.orders.Create(order); err != nil {
		return nil, err
	}

	s.publish("order.created", order)
	return order, nil
}

// ListForUser returns the caller's orders newest-first.
func (s *OrderService) ListForUser(userID uuid.UUID, status string, limit, offset int) ([]models.Order, int64, error) {
	return s.orders.ListByUser(userID, status, limit, offset)
}

// GetForUser returns one of the caller's orders.
func (s *OrderService) GetForUser(id, userID uuid.UUID) (*models.Order, error) {
	return s.orders.GetByIDForUser(id, userID)
}

func (s *OrderService) buildOrder(userID uuid.UUID, payload OrderPayload) *models.Order {
	order := &models.Order{
		UserID:      userID,
		OrderNumber: generateOrderNumber(),
		PlacedAt:    time.Now(),
		ShippingFee: payload.ShippingFee,
		Currency:    payload.Currency,
		AddressLine: payload.AddressLine,
		City:        payload.City,
		State:       payload.State,
		PostalCode:  payload.PostalCode,
		Phone:       payload.Phone,
	}
	if order.Currency == "" {
		order.Currency = "INR"
	}

	var subtotal float64
	for _, p := range payload.Items {
		lineSubtotal := p.LineSubtotal
		if lineSubtotal == 0 {
			lineSubtotal = p.UnitPrice * float64(p.Quantity)
		}

		item := models.OrderItem{
			ProductName:  p.ProductName,
			Quantity:     p.Quantity,
			UnitPrice:    p.UnitPrice,
			LineSubtotal: lineSubtotal,
		}
		if p.ProductID != "" {
			if id, err := uuid.Parse(p.ProductID); err == nil {
				item.ProductID = &id
			}
		}

		subtotal += lineSubtotal
		order.Items = append(order.Items, item)
	}

	order.Subtotal = subtotal
	order.TotalAmount = payload.Total
	if order.TotalAmount == 0 {
		order.TotalAmount = subtotal + order.ShippingFee
	}

	return order
}

func (s *OrderService) publish(eventType string, order *models.Order) {
	err := s.events.PublishEvent(eventType, map[string]interface{}{
		"order_id":       order.ID.String(),
		"order_number":   order.OrderNumber,
		"user_id":        order.UserID.String(),
		"total":          order.TotalAmount,
		"currency":       order.Currency,
		"payment_method": order.PaymentMethod,
		"status":         order.Status,
	})
	if err != nil {
		log.Printf("[Events] Failed to publish %s for order %s: %v", eventType, order.OrderNumber, err)
	}
}

// generateOrderNumber builds a human-readable order reference. The
// random suffix keeps concurrent orders from colliding on the unique
// order_number index.
func generateOrderNumber() string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("#%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("#%s-%s", time.Now().Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}
