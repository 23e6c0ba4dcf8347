package repositories

import (
	"errors"
	"fmt"

	"atelier/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
// The gorm.DB must be opened with TranslateError so unique-constraint
// violations surface as gorm.ErrDuplicatedKey.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create inserts the order and its items in one transaction. A unique
// index on checkout_session_id makes the insert the arbiter between
// racing reconciliations: the loser gets ErrDuplicateCheckoutSession.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.OrderNumber == "" {
		order.OrderNumber = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}

	if err := r.db.Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("checkout session %s: %w", order.CheckoutSessionID, ErrDuplicateCheckoutSession)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	return r.getOne("id = ?", id)
}

// GetByOrderNumber retrieves a single order by its customer-facing number.
func (r *GORMOrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	return r.getOne("order_number = ?", orderNumber)
}

// GetBySessionID retrieves the order created for a checkout session.
func (r *GORMOrderRepository) GetBySessionID(sessionID string) (*models.Order, error) {
	return r.getOne("checkout_session_id = ?", sessionID)
}

func (r *GORMOrderRepository) getOne(query string, arg string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, query, arg).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order (%s %s): %w", query, arg, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get order (%s %s): %w", query, arg, err)
	}
	return &order, nil
}

// ListByUser retrieves a user's orders, newest first, excluding
// pending ones (a pending order is an unfinished checkout, not
// something the customer should see in history).
func (r *GORMOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("user_id = ? AND status <> ?", userID, models.OrderStatusPending).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// ListAll retrieves every non-pending order for the management console.
func (r *GORMOrderRepository) ListAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("status <> ?", models.OrderStatusPending).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListShortfalls retrieves paid orders whose stock deduction came up
// short, for operational follow-up.
func (r *GORMOrderRepository) ListShortfalls() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("stock_shortfall = ?", true).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shortfall orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets the order status (staff operation).
func (r *GORMOrderRepository) UpdateStatus(id string, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for status update", id)
	}
	return nil
}

// MarkPaid performs the monotonic pending->paid transition as a single
// conditional update. RowsAffected == 0 means someone else already
// advanced the order; the caller treats that as a duplicate delivery.
func (r *GORMOrderRepository) MarkPaid(id string, update PaidUpdate) (bool, error) {
	values := map[string]any{
		"status":            models.OrderStatusPaid,
		"payment_intent_id": update.PaymentIntentID,
	}
	if update.Email != "" {
		values["email"] = update.Email
	}
	if update.ShippingName != "" || update.ShippingLine1 != "" {
		values["shipping_name"] = update.ShippingName
		values["shipping_line1"] = update.ShippingLine1
		values["shipping_line2"] = update.ShippingLine2
		values["shipping_city"] = update.ShippingCity
		values["shipping_state"] = update.ShippingState
		values["shipping_postal_code"] = update.ShippingPostalCode
		values["shipping_country"] = update.ShippingCountry
	}

	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderStatusPending).
		Updates(values)
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark order %s paid: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ClaimStockAdjustment flips the persisted at-most-once gate. Stock is
// gated on this flag rather than on status so a retry that crashed
// between the status write and the deduction can still be resolved.
func (r *GORMOrderRepository) ClaimStockAdjustment(id string) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND stock_adjusted = ?", id, false).
		Update("stock_adjusted", true)
	if res.Error != nil {
		return false, fmt.Errorf("failed to claim stock adjustment for order %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// MarkShortfall flags the order for operational stock follow-up.
func (r *GORMOrderRepository) MarkShortfall(id string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("stock_shortfall", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark shortfall for order %s: %w", id, res.Error)
	}
	return nil
}
