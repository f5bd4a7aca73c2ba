package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jasleenkaur1801/leeyaherbals-server/internal/middleware"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/services"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/validation"
)

// PaymentHandler manages gateway checkout endpoints.
type PaymentHandler struct {
	orders *services.OrderService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(orders *services.OrderService) *PaymentHandler {
	return &PaymentHandler{orders: orders}
}

type createIntentRequest struct {
	Amount   float64 `json:"amount" validate:"required"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
}

// CreateIntent registers a payment intent with the gateway and returns
// the checkout-widget parameters.
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var req createIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return mapServiceError(err)
	}

	intent, keyID, err := h.orders.CreateIntent(c.Context(), req.Amount, req.Currency, req.Receipt)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"order": fiber.Map{
			"id":       intent.ID,
			"amount":   intent.Amount,
			"currency": intent.Currency,
		},
		"key_id": keyID,
	})
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string                `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string                `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string                `json:"razorpay_signature" validate:"required"`
	OrderData         services.OrderPayload `json:"orderData"`
}

// VerifyPayment verifies the gateway signature and finalizes the order
// for the authenticated caller.
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	claims, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req verifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validation.Struct(req); err != nil {
		return mapServiceError(err)
	}

	order, err := h.orders.VerifyAndFinalize(c.Context(), claims.UserID,
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, req.OrderData)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"order_id": order.ID,
	})
}
