package services

import (
	"context"
	"fmt"

	"atelier/internal/config"
	"atelier/internal/models"
	"atelier/internal/repositories"
	"atelier/pkg/payment"

	"github.com/rs/zerolog"
)

// CheckoutService initiates hosted checkout sessions from the current
// cart. Prices are passed as plain integers throughout: the store
// currency is zero-decimal.
type CheckoutService struct {
	cartStore repositories.CartStore
	gateway   PaymentGateway
	cfg       config.PaymentConfig
	logger    zerolog.Logger
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(cartStore repositories.CartStore, gateway PaymentGateway, cfg config.PaymentConfig, logger zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		cartStore: cartStore,
		gateway:   gateway,
		cfg:       cfg,
		logger:    logger.With().Str("component", "checkout").Logger(),
	}
}

// CreateCheckoutSession builds gateway line items from the cart and
// creates a hosted payment session. The caller redirects the customer
// to the returned session URL. An empty cart is rejected before any
// gateway call.
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, cartSession string, user *models.User) (*payment.Session, error) {
	cart, err := s.cartStore.Get(ctx, cartSession)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	lineItems := make([]payment.LineItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lineItems = append(lineItems, payment.LineItem{
			Name:       line.ProductName,
			UnitAmount: line.UnitPrice,
			Quantity:   line.Quantity,
		})
	}

	params := payment.CreateSessionParams{
		LineItems:  lineItems,
		SuccessURL: s.cfg.SuccessURL + "?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.cfg.CancelURL,
		Metadata:   map[string]string{},
	}
	if user != nil {
		params.CustomerEmail = user.Email
		params.Metadata["user_id"] = user.ID
	}

	session, err := s.gateway.CreateSession(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.logger.Info().Str("session_id", session.ID).Int("lines", len(lineItems)).Msg("checkout session created")
	return session, nil
}
