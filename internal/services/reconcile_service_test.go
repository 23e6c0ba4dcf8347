package services_test

import (
	"context"
	"testing"

	"atelier/internal/models"
	"atelier/internal/repositories"
	"atelier/internal/services"
	"atelier/pkg/payment"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	args := m.Called(orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetBySessionID(sessionID string) (*models.Order, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListAll() ([]models.Order, error) {
	args := m.Called()
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListShortfalls() ([]models.Order, error) {
	args := m.Called()
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(id string, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkPaid(id string, update repositories.PaidUpdate) (bool, error) {
	args := m.Called(id, update)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) ClaimStockAdjustment(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) MarkShortfall(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockPaymentGateway is a mock implementation of services.PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateSession(ctx context.Context, params payment.CreateSessionParams) (*payment.Session, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

func (m *MockPaymentGateway) GetSession(ctx context.Context, sessionID string) (*payment.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderPaid(event map[string]any) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishStockShortfall(event map[string]any) error {
	args := m.Called(event)
	return args.Error(0)
}

type reconcileFixture struct {
	orderRepo   *MockOrderRepository
	productRepo *MockProductRepository
	cartStore   *repositories.MemoryCartStore
	gateway     *MockPaymentGateway
	publisher   *MockEventPublisher
	service     *services.ReconcileService
}

func newReconcileFixture() *reconcileFixture {
	f := &reconcileFixture{
		orderRepo:   new(MockOrderRepository),
		productRepo: new(MockProductRepository),
		cartStore:   repositories.NewMemoryCartStore(),
		gateway:     new(MockPaymentGateway),
		publisher:   new(MockEventPublisher),
	}
	f.service = services.NewReconcileService(
		f.orderRepo, f.productRepo, f.cartStore, f.gateway, f.publisher, zerolog.Nop(),
	)
	return f
}

func (f *reconcileFixture) assertExpectations(t *testing.T) {
	f.orderRepo.AssertExpectations(t)
	f.productRepo.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func seedCart(t *testing.T, store repositories.CartStore, session string, lines ...models.CartLine) {
	t.Helper()
	err := store.Save(context.Background(), session, &models.Cart{Lines: lines})
	assert.NoError(t, err)
}

func TestConfirmRedirect_CreatesPaidOrderFromCart(t *testing.T) {
	f := newReconcileFixture()
	ctx := context.Background()

	// Two dolls at 1000 plus one at 500: the cart sums to 2500 and the
	// gateway confirms the same total.
	seedCart(t, f.cartStore, "sess-cart",
		models.CartLine{ProductID: "p1", ProductName: "Stale Name", Quantity: 2, UnitPrice: 1000},
		models.CartLine{ProductID: "p2", ProductName: "Knit Bonnet", Quantity: 1, UnitPrice: 500},
	)

	f.orderRepo.On("GetBySessionID", "cs_123").Return(nil, gorm.ErrRecordNotFound).Once()
	f.gateway.On("GetSession", ctx, "cs_123").Return(&payment.Session{
		ID:              "cs_123",
		PaymentStatus:   payment.StatusPaid,
		AmountTotal:     2500,
		PaymentIntentID: "pi_9",
		Customer:        payment.CustomerDetails{Email: "buyer@example.com"},
		Shipping: &payment.ShippingDetails{
			Name:    "A. Buyer",
			Address: payment.Address{Line1: "1 Rue des Poupées", City: "Lyon", Country: "FR"},
		},
	}, nil).Once()

	// Current catalog name wins over the stale cart snapshot.
	f.productRepo.On("GetByID", "p1").Return(&models.Product{ID: "p1", Name: "Linen Doll", Price: 1000, Stock: 5}, nil).Once()
	f.productRepo.On("GetByID", "p2").Return(&models.Product{ID: "p2", Name: "Knit Bonnet", Price: 500, Stock: 5}, nil).Once()

	f.orderRepo.On("Create", mock.MatchedBy(func(order *models.Order) bool {
		return order.CheckoutSessionID == "cs_123" &&
			order.Status == models.OrderStatusPaid &&
			order.Total == 2500 &&
			order.Email == "buyer@example.com" &&
			order.ShippingCity == "Lyon" &&
			len(order.Items) == 2 &&
			order.Items[0].ProductName == "Linen Doll" &&
			order.Items[0].Quantity == 2 &&
			order.Items[1].ProductPrice == 500
	})).Run(func(args mock.Arguments) {
		order := args.Get(0).(*models.Order)
		order.ID = "ord-1"
		order.OrderNumber = "num-1"
	}).Return(nil).Once()

	f.orderRepo.On("ClaimStockAdjustment", "ord-1").Return(true, nil).Once()
	f.productRepo.On("DecrementStock", "p1", 2).Return(true, nil).Once()
	f.productRepo.On("DecrementStock", "p2", 1).Return(true, nil).Once()
	f.publisher.On("PublishOrderPaid", mock.Anything).Return(nil).Once()

	order, err := f.service.ConfirmRedirect(ctx, "cs_123", "user-1", "sess-cart")

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, int64(2500), order.Total)

	cart, err := f.cartStore.Get(ctx, "sess-cart")
	assert.NoError(t, err)
	assert.True(t, cart.IsEmpty(), "cart must be cleared after materialization")
	f.assertExpectations(t)
}

func TestConfirmRedirect_ExistingOrderIsReturnedWithoutGatewayCall(t *testing.T) {
	f := newReconcileFixture()

	existing := &models.Order{ID: "ord-1", Status: models.OrderStatusPaid, StockAdjusted: true}
	f.orderRepo.On("GetBySessionID", "cs_123").Return(existing, nil).Once()

	order, err := f.service.ConfirmRedirect(context.Background(), "cs_123", "user-1", "sess-cart")

	assert.NoError(t, err)
	assert.Same(t, existing, order)
	f.gateway.AssertNotCalled(t, "GetSession", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestConfirmRedirect_UnpaidSession(t *testing.T) {
	f := newReconcileFixture()
	ctx := context.Background()
	seedCart(t, f.cartStore, "sess-cart",
		models.CartLine{ProductID: "p1", ProductName: "Linen Doll", Quantity: 1, UnitPrice: 1000})

	f.orderRepo.On("GetBySessionID", "cs_open").Return(nil, gorm.ErrRecordNotFound).Once()
	f.gateway.On("GetSession", ctx, "cs_open").Return(&payment.Session{
		ID:            "cs_open",
		PaymentStatus: payment.StatusUnpaid,
	}, nil).Once()

	order, err := f.service.ConfirmRedirect(ctx, "cs_open", "user-1", "sess-cart")

	assert.ErrorIs(t, err, services.ErrPaymentIncomplete)
	assert.Nil(t, order)

	// Nothing was written and the cart survives for a retry.
	cart, _ := f.cartStore.Get(ctx, "sess-cart")
	assert.False(t, cart.IsEmpty())
	f.orderRepo.AssertNotCalled(t, "Create", mock.Anything)
	f.assertExpectations(t)
}

func TestConfirmRedirect_GatewayFailureIsVerificationError(t *testing.T) {
	f := newReconcileFixture()
	ctx := context.Background()

	f.orderRepo.On("GetBySessionID", "cs_123").Return(nil, gorm.ErrRecordNotFound).Once()
	f.gateway.On("GetSession", ctx, "cs_123").Return(nil, assert.AnError).Once()

	order, err := f.service.ConfirmRedirect(ctx, "cs_123", "user-1", "sess-cart")

	assert.ErrorIs(t, err, services.ErrVerificationFailed)
	assert.Nil(t, order)
	f.assertExpectations(t)
}

func TestConfirmRedirect_LostInsertRaceReturnsWinner(t *testing.T) {
	f := newReconcileFixture()
	ctx := context.Background()
	seedCart(t, f.cartStore, "sess-cart",
		models.CartLine{ProductID: "p1", ProductName: "Linen Doll", Quantity: 1, UnitPrice: 1000})

	f.orderRepo.On("GetBySessionID", "cs_123").Return(nil, gorm.ErrRecordNotFound).Once()
	f.gateway.On("GetSession", ctx, "cs_123").Return(&payment.Session{
		ID:            "cs_123",
		PaymentStatus: payment.StatusPaid,
		AmountTotal:   1000,
	}, nil).Once()
	f.productRepo.On("GetByID", "p1").Return(&models.Product{ID: "p1", Name: "Linen Doll", Price: 1000}, nil).Once()

	// A webhook created and fully reconciled the order between our read
	// and our insert. The unique index rejects the insert and we adopt
	// the winner's order, leaving its side effects alone.
	winner := &models.Order{ID: "ord-w", Status: models.OrderStatusPaid, StockAdjusted: true, Total: 1000}
	f.orderRepo.On("Create", mock.Anything).Return(repositories.ErrDuplicateCheckoutSession).Once()
	f.orderRepo.On("GetBySessionID", "cs_123").Return(winner, nil).Once()

	order, err := f.service.ConfirmRedirect(ctx, "cs_123", "user-1", "sess-cart")

	assert.NoError(t, err)
	assert.Same(t, winner, order)
	f.orderRepo.AssertNotCalled(t, "ClaimStockAdjustment", mock.Anything)
	f.productRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything)

	// The winner's path owns the cart clear; a lost race keeps it.
	cart, _ := f.cartStore.Get(ctx, "sess-cart")
	assert.False(t, cart.IsEmpty())
	f.assertExpectations(t)
}

func TestHandleCompletedSession_CreatesPendingThenPaid(t *testing.T) {
	f := newReconcileFixture()
	event := payment.Event{
		Type:            payment.EventCheckoutCompleted,
		SessionID:       "cs_hook",
		Amount:          2500,
		PaymentIntentID: "pi_1",
		Customer:        payment.CustomerDetails{Email: "buyer@example.com"},
		LineItems: []payment.LineItem{
			{Name: "Linen Doll", UnitAmount: 1000, Quantity: 2},
			{Name: "Knit Bonnet", UnitAmount: 500, Quantity: 1},
		},
		Metadata: map[string]string{"user_id": "user-1"},
	}

	f.orderRepo.On("GetBySessionID", "cs_hook").Return(nil, gorm.ErrRecordNotFound).Once()
	f.orderRepo.On("Create", mock.MatchedBy(func(order *models.Order) bool {
		return order.Status == models.OrderStatusPending &&
			order.Total == 2500 &&
			order.UserID == "user-1" &&
			len(order.Items) == 2 &&
			order.Items[0].ProductID == "" // payload lines carry no catalog reference
	})).Run(func(args mock.Arguments) {
		order := args.Get(0).(*models.Order)
		order.ID = "ord-1"
		order.OrderNumber = "num-1"
	}).Return(nil).Once()
	f.orderRepo.On("MarkPaid", "ord-1", mock.MatchedBy(func(u repositories.PaidUpdate) bool {
		return u.PaymentIntentID == "pi_1" && u.Email == "buyer@example.com"
	})).Return(true, nil).Once()
	f.orderRepo.On("ClaimStockAdjustment", "ord-1").Return(true, nil).Once()
	f.publisher.On("PublishOrderPaid", mock.Anything).Return(nil).Once()

	err := f.service.HandleCompletedSession(context.Background(), event)

	assert.NoError(t, err)
	// No catalog references in the payload, so no decrements.
	f.productRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestHandleCompletedSession_AdvancesPendingOrder(t *testing.T) {
	f := newReconcileFixture()
	pending := &models.Order{
		ID:     "ord-1",
		Status: models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: "p1", ProductName: "Linen Doll", ProductPrice: 1000, Quantity: 2},
		},
	}
	event := payment.Event{
		Type:            payment.EventCheckoutCompleted,
		SessionID:       "cs_hook",
		Amount:          2000,
		PaymentIntentID: "pi_1",
	}

	f.orderRepo.On("GetBySessionID", "cs_hook").Return(pending, nil).Once()
	f.orderRepo.On("MarkPaid", "ord-1", mock.Anything).Return(true, nil).Once()
	f.orderRepo.On("ClaimStockAdjustment", "ord-1").Return(true, nil).Once()
	f.productRepo.On("DecrementStock", "p1", 2).Return(true, nil).Once()
	f.publisher.On("PublishOrderPaid", mock.Anything).Return(nil).Once()

	err := f.service.HandleCompletedSession(context.Background(), event)

	assert.NoError(t, err)
	f.assertExpectations(t)
}

func TestHandleCompletedSession_DuplicateDeliveryIsNoOp(t *testing.T) {
	f := newReconcileFixture()
	paid := &models.Order{
		ID:            "ord-1",
		Status:        models.OrderStatusPaid,
		StockAdjusted: true,
		Items: []models.OrderItem{
			{ProductID: "p1", ProductPrice: 1000, Quantity: 2},
		},
	}
	event := payment.Event{Type: payment.EventCheckoutCompleted, SessionID: "cs_hook", Amount: 2000}

	f.orderRepo.On("GetBySessionID", "cs_hook").Return(paid, nil).Once()
	// The stock gate is re-checked but already claimed, so no deduction
	// runs a second time.
	f.orderRepo.On("ClaimStockAdjustment", "ord-1").Return(false, nil).Once()

	err := f.service.HandleCompletedSession(context.Background(), event)

	assert.NoError(t, err)
	f.orderRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	f.productRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishOrderPaid", mock.Anything)
	f.assertExpectations(t)
}

func TestHandleCompletedSession_HealsMissedStockAdjustment(t *testing.T) {
	// Paid order whose stock deduction never ran (crash between the
	// paid write and the claim). A redelivery finishes the job.
	f := newReconcileFixture()
	paid := &models.Order{
		ID:            "ord-1",
		Status:        models.OrderStatusPaid,
		StockAdjusted: false,
		Items: []models.OrderItem{
			{ProductID: "p1", ProductPrice: 1000, Quantity: 2},
		},
	}
	event := payment.Event{Type: payment.EventCheckoutCompleted, SessionID: "cs_hook", Amount: 2000}

	f.orderRepo.On("GetBySessionID", "cs_hook").Return(paid, nil).Once()
	f.orderRepo.On("ClaimStockAdjustment", "ord-1").Return(true, nil).Once()
	f.productRepo.On("DecrementStock", "p1", 2).Return(true, nil).Once()

	err := f.service.HandleCompletedSession(context.Background(), event)

	assert.NoError(t, err)
	f.orderRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestAdjustStock_ShortfallKeepsOrderPaidAndAlerts(t *testing.T) {
	f := newReconcileFixture()
	pending := &models.Order{
		ID:          "ord-1",
		OrderNumber: "num-1",
		Status:      models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: "p1", ProductPrice: 1000, Quantity: 3},
		},
	}
	event := payment.Event{Type: payment.EventCheckoutCompleted, SessionID: "cs_hook", Amount: 3000}

	f.orderRepo.On("GetBySessionID", "cs_hook").Return(pending, nil).Once()
	f.orderRepo.On("MarkPaid", "ord-1", mock.Anything).Return(true, nil).Once()
	f.orderRepo.On("ClaimStockAdjustment", "ord-1").Return(true, nil).Once()
	// Guard fails: only 2 left for a quantity of 3.
	f.productRepo.On("DecrementStock", "p1", 3).Return(false, nil).Once()
	f.orderRepo.On("MarkShortfall", "ord-1").Return(nil).Once()
	f.publisher.On("PublishStockShortfall", mock.MatchedBy(func(alert map[string]any) bool {
		return alert["product_id"] == "p1" && alert["quantity"] == 3
	})).Return(nil).Once()
	f.publisher.On("PublishOrderPaid", mock.Anything).Return(nil).Once()

	err := f.service.HandleCompletedSession(context.Background(), event)

	assert.NoError(t, err)
	f.orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestAdjustStock_DecrementErrorIsNotAShortfall(t *testing.T) {
	// A store error during the deduction is transient. It must be
	// surfaced to the caller, not recorded as an oversell.
	f := newReconcileFixture()
	pending := &models.Order{
		ID:          "ord-1",
		OrderNumber: "num-1",
		Status:      models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: "p1", ProductPrice: 1000, Quantity: 2},
		},
	}
	event := payment.Event{Type: payment.EventCheckoutCompleted, SessionID: "cs_hook", Amount: 2000}

	f.orderRepo.On("GetBySessionID", "cs_hook").Return(pending, nil).Once()
	f.orderRepo.On("MarkPaid", "ord-1", mock.Anything).Return(true, nil).Once()
	f.orderRepo.On("ClaimStockAdjustment", "ord-1").Return(true, nil).Once()
	f.productRepo.On("DecrementStock", "p1", 2).Return(false, assert.AnError).Once()

	err := f.service.HandleCompletedSession(context.Background(), event)

	assert.ErrorIs(t, err, assert.AnError)
	f.orderRepo.AssertNotCalled(t, "MarkShortfall", mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishStockShortfall", mock.Anything)
	f.assertExpectations(t)
}
