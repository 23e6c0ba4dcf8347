package services

import (
	"context"
	"fmt"

	"atelier/internal/models"
	"atelier/internal/repositories"

	"github.com/rs/zerolog"
)

// CartService handles the session-scoped shopping cart. Carts are not
// validated against live stock here; stock is enforced later, at
// reconciliation.
type CartService struct {
	store       repositories.CartStore
	productRepo repositories.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.CartStore, productRepo repositories.ProductRepository, logger zerolog.Logger) *CartService {
	return &CartService{
		store:       store,
		productRepo: productRepo,
		logger:      logger.With().Str("component", "cart").Logger(),
	}
}

// GetCart returns the cart for a session. Missing carts come back empty.
func (s *CartService) GetCart(ctx context.Context, session string) (*models.Cart, error) {
	return s.store.Get(ctx, session)
}

// AddItem adds quantity of a product to the cart, accumulating onto an
// existing line rather than overwriting it. The unit price is
// snapshotted from the catalog when the line is first created. The
// mutation is persisted immediately.
func (s *CartService) AddItem(ctx context.Context, session, productID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, fmt.Errorf("cannot add product to cart: %w", err)
	}

	cart, err := s.store.Get(ctx, session)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			cart.Lines[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    quantity,
			UnitPrice:   product.Price,
		})
	}

	if err := s.store.Save(ctx, session, cart); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("session", session).Str("product_id", productID).Int("quantity", quantity).Msg("cart line added")
	return cart, nil
}

// RemoveItem deletes the line for a product from the cart.
func (s *CartService) RemoveItem(ctx context.Context, session, productID string) (*models.Cart, error) {
	cart, err := s.store.Get(ctx, session)
	if err != nil {
		return nil, err
	}

	lines := cart.Lines[:0]
	for _, l := range cart.Lines {
		if l.ProductID != productID {
			lines = append(lines, l)
		}
	}
	cart.Lines = lines

	if err := s.store.Save(ctx, session, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart for a session.
func (s *CartService) Clear(ctx context.Context, session string) error {
	return s.store.Clear(ctx, session)
}
