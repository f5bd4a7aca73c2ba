package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jasleenkaur1801/leeyaherbals-server/internal/models"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/repositories"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/utils"
	"gorm.io/gorm"
)

var allowedOrderStatuses = map[string]bool{
	models.OrderStatusPlaced:    true,
	models.OrderStatusConfirmed: true,
	models.OrderStatusShipped:   true,
	models.OrderStatusDelivered: true,
	models.OrderStatusCancelled: true,
}

// AdminHandler manages admin-only endpoints. Every route is behind the
// RequireAdmin middleware, which re-checks the role against the database.
type AdminHandler struct {
	db     *gorm.DB
	orders repositories.OrderRepository
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(db *gorm.DB, orders repositories.OrderRepository) *AdminHandler {
	return &AdminHandler{db: db, orders: orders}
}

// ListAllOrders returns every order across all users.
func (h *AdminHandler) ListAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	orders, total, err := h.orders.ListAll(c.Query("status"), pg.Limit, pg.Offset)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type updateOrderStatusRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// UpdateOrderStatus applies a fulfillment transition to any order.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Status == "" && req.PaymentStatus == "" {
		return fiber.NewError(fiber.StatusBadRequest, "status or payment_status is required")
	}
	if req.Status != "" && !allowedOrderStatuses[req.Status] {
		return fiber.NewError(fiber.StatusBadRequest, "unknown status")
	}
	if req.PaymentStatus != "" &&
		req.PaymentStatus != models.PaymentStatusPending &&
		req.PaymentStatus != models.PaymentStatusCompleted {
		return fiber.NewError(fiber.StatusBadRequest, "unknown payment status")
	}

	if err := h.orders.UpdateStatus(id, req.Status, req.PaymentStatus); err != nil {
		return mapServiceError(err)
	}

	order, err := h.orders.GetByID(id)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// Stats returns aggregate statistics for the back-office.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalProducts int64
	if err := h.db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := h.db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64)
	for _, sc := range statusCounts {
		ordersByStatus[sc.Status] = sc.Count
	}

	var totalRevenue float64
	if err := h.db.Model(&models.Order{}).
		Where("status != ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":      totalUsers,
			"total_products":   totalProducts,
			"total_orders":     totalOrders,
			"orders_by_status": ordersByStatus,
			"total_revenue":    totalRevenue,
		},
	})
}
