package models

// CartLine is one (product, quantity) entry in a session cart. The
// unit price is snapshotted when the line is first added; the cart is
// not revalidated against live stock (stock is enforced at
// reconciliation time).
type CartLine struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// Subtotal returns unit price times quantity for this line.
func (l CartLine) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Cart is the session-scoped shopping cart. Lines keep insertion
// order so repeated adds accumulate in place.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Total sums unit_price * quantity over all lines.
func (c Cart) Total() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
