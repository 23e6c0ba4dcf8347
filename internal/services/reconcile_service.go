package services

import (
	"context"
	"errors"
	"fmt"

	"atelier/internal/models"
	"atelier/internal/repositories"
	"atelier/pkg/payment"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// PaymentGateway is the slice of the gateway client the checkout flow
// depends on. The reconciler only ever queries session state; session
// creation lives in CheckoutService.
type PaymentGateway interface {
	CreateSession(ctx context.Context, params payment.CreateSessionParams) (*payment.Session, error)
	GetSession(ctx context.Context, sessionID string) (*payment.Session, error)
}

// EventPublisher publishes order lifecycle events and operational
// alerts. A nil publisher disables publishing.
type EventPublisher interface {
	PublishOrderPaid(event map[string]any) error
	PublishStockShortfall(event map[string]any) error
}

// ReconcileService converts a completed payment session into exactly
// one durable, stock-adjusted order, no matter which of the two
// completion signals arrives first, how often they are retried, or how
// they interleave. Correctness rests on three store-level guarantees
// rather than any in-process lock: the unique index on the checkout
// session reference, the conditional pending->paid update, and the
// atomically claimed stock_adjusted flag.
type ReconcileService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	cartStore   repositories.CartStore
	gateway     PaymentGateway
	publisher   EventPublisher
	logger      zerolog.Logger
}

// NewReconcileService creates a new ReconcileService.
func NewReconcileService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	cartStore repositories.CartStore,
	gateway PaymentGateway,
	publisher EventPublisher,
	logger zerolog.Logger,
) *ReconcileService {
	return &ReconcileService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartStore:   cartStore,
		gateway:     gateway,
		publisher:   publisher,
		logger:      logger.With().Str("component", "reconcile").Logger(),
	}
}

// ConfirmRedirect handles the user-facing completion signal: the
// customer returned from the hosted payment page carrying the session
// token. If an order already references the session it is returned
// unchanged. Otherwise the session is verified against the gateway and,
// if paid, an order is materialized from the session plus the current
// cart.
func (s *ReconcileService) ConfirmRedirect(ctx context.Context, sessionID, userID, cartSession string) (*models.Order, error) {
	order, err := s.findOrder(sessionID)
	if err != nil {
		return nil, err
	}

	_, effects := Transition(StateOf(order), EventRedirectConfirmed)
	if len(effects) == 0 {
		// Already reconciled by an earlier redirect or a webhook.
		return order, nil
	}

	session, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("gateway session lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	if session.PaymentStatus != payment.StatusPaid {
		return nil, ErrPaymentIncomplete
	}

	for _, effect := range effects {
		switch effect {
		case EffectCreateOrderPaid:
			order, err = s.createOrderFromCart(ctx, session, userID, cartSession)
			if err != nil {
				return nil, err
			}
			if order.Status != models.OrderStatusPaid || order.StockAdjusted {
				// Lost the insert race; the winner owns the side
				// effects, and the cart stays intact for its path.
				return order, nil
			}
		case EffectAdjustStock:
			if err := s.adjustStock(ctx, order); err != nil {
				return nil, err
			}
		case EffectClearCart:
			if err := s.cartStore.Clear(ctx, cartSession); err != nil {
				s.logger.Error().Err(err).Str("session", cartSession).Msg("failed to clear cart after order creation")
			}
		}
	}

	s.publishOrderPaid(order)
	s.logger.Info().Str("order_number", order.OrderNumber).Str("session_id", sessionID).Msg("order reconciled via redirect")
	return order, nil
}

// HandleCompletedSession handles the asynchronous completion signal: a
// verified "checkout.session.completed" webhook event. It runs with no
// user session context, so orders created here are built from the
// notification payload alone. Duplicate deliveries converge on the
// same end state.
func (s *ReconcileService) HandleCompletedSession(ctx context.Context, event payment.Event) error {
	order, err := s.findOrder(event.SessionID)
	if err != nil {
		return err
	}

	_, effects := Transition(StateOf(order), EventNotificationCompleted)

	markedPaid := false
	for _, effect := range effects {
		switch effect {
		case EffectCreateOrderPending:
			order, err = s.createOrderFromEvent(event)
			if err != nil {
				return err
			}

		case EffectMarkPaid:
			ok, err := s.orderRepo.MarkPaid(order.ID, paidUpdateFromEvent(event))
			if err != nil {
				return err
			}
			if !ok {
				// Another delivery (or the redirect path) advanced
				// the order first. Not an error; the stock effect
				// below is still safe to attempt.
				s.logger.Info().Str("session_id", event.SessionID).Msg("duplicate notification for already-paid order, no-op")
			}
			markedPaid = ok

		case EffectAdjustStock:
			if err := s.adjustStock(ctx, order); err != nil {
				return err
			}
		}
	}

	if markedPaid {
		s.publishOrderPaid(order)
		s.logger.Info().Str("order_number", order.OrderNumber).Str("session_id", event.SessionID).Msg("order reconciled via notification")
	}
	return nil
}

// findOrder returns the order for a session, or nil when none exists.
func (s *ReconcileService) findOrder(sessionID string) (*models.Order, error) {
	order, err := s.orderRepo.GetBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

// createOrderFromCart materializes an order in paid status from the
// verified gateway session and the current cart. Each cart line
// becomes one item snapshotting the product's current name, the cart's
// unit price, and the cart quantity. The order total is the
// gateway-reported amount, never a re-sum of the lines, so display
// price and charged price cannot drift apart. A duplicate-key failure
// means a racing path won; the existing order is returned instead.
func (s *ReconcileService) createOrderFromCart(ctx context.Context, session *payment.Session, userID, cartSession string) (*models.Order, error) {
	cart, err := s.cartStore.Get(ctx, cartSession)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		name := line.ProductName
		if product, err := s.productRepo.GetByID(line.ProductID); err == nil {
			name = product.Name
		}
		items = append(items, models.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  name,
			ProductPrice: line.UnitPrice,
			Quantity:     line.Quantity,
		})
	}

	order := &models.Order{
		UserID:            userID,
		Email:             session.Customer.Email,
		CheckoutSessionID: session.ID,
		PaymentIntentID:   session.PaymentIntentID,
		Status:            models.OrderStatusPaid,
		Total:             session.AmountTotal,
		Items:             items,
	}
	applyShipping(order, session.Shipping)

	if err := s.orderRepo.Create(order); err != nil {
		if errors.Is(err, repositories.ErrDuplicateCheckoutSession) {
			return s.orderRepo.GetBySessionID(session.ID)
		}
		return nil, err
	}
	return order, nil
}

// createOrderFromEvent materializes a pending order from notification
// payload data only. Line items carry the notification's own price and
// quantity figures; they have no product reference, so stock deduction
// skips them.
func (s *ReconcileService) createOrderFromEvent(event payment.Event) (*models.Order, error) {
	items := make([]models.OrderItem, 0, len(event.LineItems))
	for _, line := range event.LineItems {
		items = append(items, models.OrderItem{
			ProductName:  line.Name,
			ProductPrice: line.UnitAmount,
			Quantity:     line.Quantity,
		})
	}

	order := &models.Order{
		UserID:            event.Metadata["user_id"],
		Email:             event.Customer.Email,
		CheckoutSessionID: event.SessionID,
		PaymentIntentID:   event.PaymentIntentID,
		Status:            models.OrderStatusPending,
		Total:             event.Amount,
		Items:             items,
	}

	if err := s.orderRepo.Create(order); err != nil {
		if errors.Is(err, repositories.ErrDuplicateCheckoutSession) {
			return s.orderRepo.GetBySessionID(event.SessionID)
		}
		return nil, err
	}
	return order, nil
}

// adjustStock deducts inventory for an order at most once. The
// persisted stock_adjusted flag is claimed first; only the claimant
// proceeds, so a re-run after any earlier success is a no-op. Each
// deduction is a single guarded update, and a failed guard records a
// shortfall instead of failing the order: payment has already been
// captured, so oversells are resolved operationally, never surfaced to
// the buyer. A store error on a deduction is not a shortfall; it is
// returned to the caller, and the order is left unflagged for that
// item since the claim has already been consumed.
func (s *ReconcileService) adjustStock(ctx context.Context, order *models.Order) error {
	claimed, err := s.orderRepo.ClaimStockAdjustment(order.ID)
	if err != nil {
		return err
	}
	if !claimed {
		s.logger.Debug().Str("order_number", order.OrderNumber).Msg("stock already adjusted, skipping")
		return nil
	}

	shortfall := false
	var decrementErrs []error
	for _, item := range order.Items {
		if item.ProductID == "" {
			continue
		}
		ok, err := s.productRepo.DecrementStock(item.ProductID, item.Quantity)
		if err != nil {
			s.logger.Error().Err(err).Str("product_id", item.ProductID).Msg("stock decrement failed")
			decrementErrs = append(decrementErrs, fmt.Errorf("decrement stock for product %s: %w", item.ProductID, err))
			continue
		}
		if !ok {
			shortfall = true
			s.logger.Warn().
				Str("order_number", order.OrderNumber).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("insufficient stock for paid order")
			if s.publisher != nil {
				if pubErr := s.publisher.PublishStockShortfall(map[string]any{
					"order_id":     order.ID,
					"order_number": order.OrderNumber,
					"product_id":   item.ProductID,
					"quantity":     item.Quantity,
				}); pubErr != nil {
					s.logger.Error().Err(pubErr).Msg("failed to publish stock shortfall alert")
				}
			}
		}
	}

	if shortfall {
		if err := s.orderRepo.MarkShortfall(order.ID); err != nil {
			s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to record stock shortfall")
		}
	}
	return errors.Join(decrementErrs...)
}

func (s *ReconcileService) publishOrderPaid(order *models.Order) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishOrderPaid(map[string]any{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"total":        order.Total,
		"status":       models.OrderStatusPaid,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to publish order paid event")
	}
}

func applyShipping(order *models.Order, shipping *payment.ShippingDetails) {
	if shipping == nil {
		return
	}
	order.ShippingName = shipping.Name
	order.ShippingLine1 = shipping.Address.Line1
	order.ShippingLine2 = shipping.Address.Line2
	order.ShippingCity = shipping.Address.City
	order.ShippingState = shipping.Address.State
	order.ShippingPostalCode = shipping.Address.PostalCode
	order.ShippingCountry = shipping.Address.Country
}

func paidUpdateFromEvent(event payment.Event) repositories.PaidUpdate {
	update := repositories.PaidUpdate{
		PaymentIntentID: event.PaymentIntentID,
		Email:           event.Customer.Email,
	}
	if event.Shipping != nil {
		update.ShippingName = event.Shipping.Name
		update.ShippingLine1 = event.Shipping.Address.Line1
		update.ShippingLine2 = event.Shipping.Address.Line2
		update.ShippingCity = event.Shipping.Address.City
		update.ShippingState = event.Shipping.Address.State
		update.ShippingPostalCode = event.Shipping.Address.PostalCode
		update.ShippingCountry = event.Shipping.Address.Country
	}
	return update
}
