package services

import (
	"fmt"

	"atelier/internal/models"
	"atelier/internal/repositories"

	"github.com/rs/zerolog"
)

// OrderService handles order history and staff order management.
// Creating and paying orders is reconciliation work and lives in
// ReconcileService.
type OrderService struct {
	orderRepo repositories.OrderRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("component", "orders").Logger(),
	}
}

// GetOrderHistory retrieves a user's orders, pending ones excluded.
func (s *OrderService) GetOrderHistory(userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUser(userID)
}

// GetOrderForUser retrieves one order by its customer-facing number,
// scoped to its owner.
func (s *OrderService) GetOrderForUser(orderNumber, userID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNumber(orderNumber)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %s: %w", orderNumber, ErrOrderAccessDenied)
	}
	return order, nil
}

// ListOrders retrieves all non-pending orders for the management console.
func (s *OrderService) ListOrders() ([]models.Order, error) {
	return s.orderRepo.ListAll()
}

// ListShortfallOrders retrieves paid orders flagged with a stock
// shortfall, the operational surface for oversell follow-up.
func (s *OrderService) ListShortfallOrders() ([]models.Order, error) {
	return s.orderRepo.ListShortfalls()
}

// UpdateOrderStatus advances an order's status (staff operation).
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("invalid order status: %s", status)
	}
	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	s.logger.Info().Str("order_id", id).Str("status", status).Msg("order status updated")
	return nil
}
