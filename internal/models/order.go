package models

import "gorm.io/gorm"

// Order statuses as they appear on the wire.
const (
	OrderStatusPending    = "pending"
	OrderStatusPaid       = "paid"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a durable record of a checkout. The OrderNumber is the
// customer-facing identity and is never the payment processor's
// session identifier. CheckoutSessionID carries a unique index so that
// two racing reconciliations of the same payment session cannot both
// insert; the loser resolves the constraint violation by re-reading.
type Order struct {
	ID                string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber       string `json:"order_number" gorm:"uniqueIndex;type:varchar(36)"`
	UserID            string `json:"user_id,omitempty" gorm:"index;type:varchar(36)"`
	Email             string `json:"email" gorm:"type:varchar(255)"`
	CheckoutSessionID string `json:"-" gorm:"uniqueIndex;type:varchar(255)"`
	PaymentIntentID   string `json:"-" gorm:"type:varchar(255)"`
	Status            string `json:"status" gorm:"index;type:varchar(20);default:pending"`
	Total             int64  `json:"total"`

	// Shipping info collected by the hosted payment page.
	ShippingName       string `json:"shipping_name" gorm:"type:varchar(200)"`
	ShippingLine1      string `json:"shipping_line1" gorm:"type:varchar(300)"`
	ShippingLine2      string `json:"shipping_line2" gorm:"type:varchar(300)"`
	ShippingCity       string `json:"shipping_city" gorm:"type:varchar(100)"`
	ShippingState      string `json:"shipping_state" gorm:"type:varchar(100)"`
	ShippingPostalCode string `json:"shipping_postal_code" gorm:"type:varchar(20)"`
	ShippingCountry    string `json:"shipping_country" gorm:"type:varchar(2)"`

	// StockAdjusted is the at-most-once gate for inventory deduction.
	// It is claimed with a conditional update, separately from Status,
	// so a retry that finds the order already paid can still tell
	// whether stock was deducted.
	StockAdjusted bool `json:"-"`
	// StockShortfall records that at least one item could not be
	// deducted because stock ran out after payment was captured. The
	// order stays paid; the shortfall is resolved operationally.
	StockShortfall bool `json:"stock_shortfall"`

	Items      []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	gorm.Model `json:"-"`
}

// OrderItem snapshots a purchased line at order time. Name and price
// are copied from the product so historical orders stay accurate even
// if the catalog changes later.
type OrderItem struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID      string `json:"-" gorm:"index;type:varchar(36)"`
	ProductID    string `json:"product_id,omitempty" gorm:"type:varchar(36)"`
	ProductName  string `json:"product_name" gorm:"type:varchar(200)"`
	ProductPrice int64  `json:"product_price"`
	Quantity     int    `json:"quantity"`
	gorm.Model   `json:"-"`
}

// Subtotal returns the line total for this item.
func (i OrderItem) Subtotal() int64 {
	return i.ProductPrice * int64(i.Quantity)
}
