package handlers

import (
	"errors"

	"atelier/internal/middleware"
	"atelier/internal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// OrderHandler handles the customer-facing order endpoints.
type OrderHandler struct {
	orderService *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes registers the order routes with the Fiber app. The
// router must require authentication.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleOrderHistory)
	orderRoutes.Get("/:orderNumber", h.HandleOrderDetail)
}

// HandleOrderHistory lists the authenticated user's orders, pending
// checkouts excluded.
func (h *OrderHandler) HandleOrderHistory(c *fiber.Ctx) error {
	orders, err := h.orderService.GetOrderHistory(middleware.UserID(c))
	if err != nil {
		return internalError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleOrderDetail returns one order by its order number, scoped to
// the authenticated owner.
func (h *OrderHandler) HandleOrderDetail(c *fiber.Ctx) error {
	order, err := h.orderService.GetOrderForUser(c.Params("orderNumber"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, services.ErrOrderAccessDenied) {
			return notFound(c, "Order not found")
		}
		return internalError(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}
