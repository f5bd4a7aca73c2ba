package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses.
const (
	OrderStatusPlaced    = "placed"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment statuses and methods.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"

	PaymentMethodRazorpay = "razorpay"
	PaymentMethodCOD      = "cod"
)

// Order is an immutable purchase record. Only Status and PaymentStatus
// change after creation, driven by fulfillment or admin action.
type Order struct {
	BaseModel
	UserID            uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User              *User       `json:"user,omitempty"`
	OrderNumber       string      `gorm:"uniqueIndex" json:"order_number"`
	Status            string      `json:"status"`
	PlacedAt          time.Time   `json:"placed_at"`
	Items             []OrderItem `json:"items,omitempty"`
	Subtotal          float64     `json:"subtotal"`
	ShippingFee       float64     `json:"shipping_fee"`
	TotalAmount       float64     `json:"total_amount"`
	Currency          string      `json:"currency"`
	AddressLine       string      `json:"address_line"`
	City              string      `json:"city"`
	State             string      `json:"state"`
	PostalCode        string      `json:"postal_code"`
	Phone             string      `json:"phone"`
	PaymentMethod     string      `json:"payment_method"`
	PaymentStatus     string      `json:"payment_status"`
	RazorpayOrderID   string      `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID *string     `gorm:"uniqueIndex" json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string      `json:"-"`
}

// OrderItem is a single line in an order. Prices are captured at
// purchase time and never re-read from the catalog.
type OrderItem struct {
	BaseModel
	OrderID      uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID    *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	ProductName  string     `json:"product_name"`
	Quantity     int        `json:"quantity"`
	UnitPrice    float64    `json:"unit_price"`
	LineSubtotal float64    `json:"line_subtotal"`
}
