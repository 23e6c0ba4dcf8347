package services_test

import (
	"context"
	"testing"

	"atelier/internal/config"
	"atelier/internal/models"
	"atelier/internal/repositories"
	"atelier/internal/services"
	"atelier/pkg/payment"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCheckoutService(gateway *MockPaymentGateway) (*services.CheckoutService, *repositories.MemoryCartStore) {
	store := repositories.NewMemoryCartStore()
	cfg := config.PaymentConfig{
		SuccessURL: "https://shop.example/checkout/success",
		CancelURL:  "https://shop.example/checkout/cancel",
	}
	return services.NewCheckoutService(store, gateway, cfg, zerolog.Nop()), store
}

func TestCheckoutService_CreateCheckoutSession(t *testing.T) {
	gateway := new(MockPaymentGateway)
	service, store := newCheckoutService(gateway)
	ctx := context.Background()

	err := store.Save(ctx, "sess", &models.Cart{Lines: []models.CartLine{
		{ProductID: "p1", ProductName: "Linen Doll", Quantity: 2, UnitPrice: 1000},
		{ProductID: "p2", ProductName: "Knit Bonnet", Quantity: 1, UnitPrice: 500},
	}})
	assert.NoError(t, err)

	gateway.On("CreateSession", ctx, mock.MatchedBy(func(params payment.CreateSessionParams) bool {
		return len(params.LineItems) == 2 &&
			params.LineItems[0] == payment.LineItem{Name: "Linen Doll", UnitAmount: 1000, Quantity: 2} &&
			params.SuccessURL == "https://shop.example/checkout/success?session_id={CHECKOUT_SESSION_ID}" &&
			params.CancelURL == "https://shop.example/checkout/cancel" &&
			params.CustomerEmail == "buyer@example.com" &&
			params.Metadata["user_id"] == "user-1"
	})).Return(&payment.Session{ID: "cs_123", URL: "https://pay.example/cs_123"}, nil).Once()

	session, err := service.CreateCheckoutSession(ctx, "sess", &models.User{ID: "user-1", Email: "buyer@example.com"})

	assert.NoError(t, err)
	assert.Equal(t, "cs_123", session.ID)
	assert.Equal(t, "https://pay.example/cs_123", session.URL)
	gateway.AssertExpectations(t)
}

func TestCheckoutService_GuestCheckout(t *testing.T) {
	gateway := new(MockPaymentGateway)
	service, store := newCheckoutService(gateway)
	ctx := context.Background()

	err := store.Save(ctx, "sess", &models.Cart{Lines: []models.CartLine{
		{ProductID: "p1", ProductName: "Linen Doll", Quantity: 1, UnitPrice: 1000},
	}})
	assert.NoError(t, err)

	gateway.On("CreateSession", ctx, mock.MatchedBy(func(params payment.CreateSessionParams) bool {
		_, hasUser := params.Metadata["user_id"]
		return params.CustomerEmail == "" && !hasUser
	})).Return(&payment.Session{ID: "cs_guest", URL: "https://pay.example/cs_guest"}, nil).Once()

	session, err := service.CreateCheckoutSession(ctx, "sess", nil)

	assert.NoError(t, err)
	assert.Equal(t, "cs_guest", session.ID)
	gateway.AssertExpectations(t)
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	gateway := new(MockPaymentGateway)
	service, _ := newCheckoutService(gateway)

	session, err := service.CreateCheckoutSession(context.Background(), "sess", nil)

	assert.ErrorIs(t, err, services.ErrEmptyCart)
	assert.Nil(t, session)
	gateway.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
}
