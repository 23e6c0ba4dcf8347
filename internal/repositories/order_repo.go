package repositories

import (
	"errors"

	"atelier/internal/models"
)

// ErrDuplicateCheckoutSession is returned by Create when another order
// already holds the same checkout session identifier. Callers treat it
// as "someone else reconciled this session first" and re-read.
var ErrDuplicateCheckoutSession = errors.New("order for checkout session already exists")

// OrderRepository defines the interface for order data access. All
// paid-transition and stock-gate operations are conditional updates so
// racing reconciliations stay correct without in-process locks.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)

	// GetBySessionID looks up the order referencing a checkout
	// session token, or wraps gorm.ErrRecordNotFound.
	GetBySessionID(sessionID string) (*models.Order, error)

	ListByUser(userID string) ([]models.Order, error)
	ListAll() ([]models.Order, error)
	ListShortfalls() ([]models.Order, error)

	UpdateStatus(id string, status string) error

	// MarkPaid advances the order to paid only if it is still
	// pending, writing shipping and payment-reference fields in the
	// same statement. It returns false when the order was already
	// paid (or further along), so duplicate notifications detect
	// themselves.
	MarkPaid(id string, update PaidUpdate) (bool, error)

	// ClaimStockAdjustment atomically flips the stock_adjusted gate
	// from false to true. It returns true only for the single caller
	// that wins the claim; everyone else must skip stock deduction.
	ClaimStockAdjustment(id string) (bool, error)

	// MarkShortfall records that stock could not cover the order.
	MarkShortfall(id string) error
}

// PaidUpdate carries the fields written at the pending->paid transition.
type PaidUpdate struct {
	PaymentIntentID    string
	Email              string
	ShippingName       string
	ShippingLine1      string
	ShippingLine2      string
	ShippingCity       string
	ShippingState      string
	ShippingPostalCode string
	ShippingCountry    string
}
