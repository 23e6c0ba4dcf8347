package services

import "atelier/internal/models"

// OrderState classifies the persisted state of reconciliation for one
// checkout session.
type OrderState int

// Reconciliation states.
const (
	// StateNoOrder: no order references the session yet.
	StateNoOrder OrderState = iota
	// StatePending: an order exists but payment is not recorded.
	StatePending
	// StatePaid: payment is recorded; stock handling is gated
	// separately on the persisted stock_adjusted flag.
	StatePaid
	// StateTerminal: a post-paid status (processing, shipped,
	// delivered, cancelled) set by staff.
	StateTerminal
)

// ReconcileEvent is one of the two racing completion signals.
type ReconcileEvent int

// Reconciliation events.
const (
	// EventRedirectConfirmed: the user returned from the payment page
	// and the gateway confirmed the session as paid.
	EventRedirectConfirmed ReconcileEvent = iota
	// EventNotificationCompleted: the gateway pushed a verified
	// "session completed" notification.
	EventNotificationCompleted
)

// Effect is a side effect the reconciler must execute after a
// transition. Keeping the decision pure lets the decision table be
// tested without a store or gateway.
type Effect int

// Reconciliation effects.
const (
	// EffectCreateOrderPaid: materialize an order (with items from
	// the cart) directly in paid status.
	EffectCreateOrderPaid Effect = iota
	// EffectCreateOrderPending: materialize an order in pending
	// status from notification payload data only.
	EffectCreateOrderPending
	// EffectMarkPaid: advance status pending->paid and write shipping
	// details, as one conditional update.
	EffectMarkPaid
	// EffectAdjustStock: run the flag-gated, guarded stock deduction.
	EffectAdjustStock
	// EffectClearCart: drop the session cart after materialization.
	EffectClearCart
)

// StateOf maps a loaded order (nil when absent) to its reconciliation
// state.
func StateOf(order *models.Order) OrderState {
	switch {
	case order == nil:
		return StateNoOrder
	case order.Status == models.OrderStatusPending:
		return StatePending
	case order.Status == models.OrderStatusPaid:
		return StatePaid
	default:
		return StateTerminal
	}
}

// Transition is the pure reconciliation decision table. Given the
// current state and an incoming event it returns the resulting state
// and the side effects required to get there, in execution order.
// Status only ever moves forward: no transition returns to pending,
// and states at or past paid absorb every event except the flag-gated
// stock adjustment, which stays safe to re-attempt.
func Transition(state OrderState, ev ReconcileEvent) (OrderState, []Effect) {
	switch state {
	case StateNoOrder:
		if ev == EventRedirectConfirmed {
			return StatePaid, []Effect{EffectCreateOrderPaid, EffectAdjustStock, EffectClearCart}
		}
		return StatePaid, []Effect{EffectCreateOrderPending, EffectMarkPaid, EffectAdjustStock}

	case StatePending:
		if ev == EventRedirectConfirmed {
			// An order already references the session; the redirect
			// path returns it unchanged and lets the notification
			// path finish the job.
			return StatePending, nil
		}
		return StatePaid, []Effect{EffectMarkPaid, EffectAdjustStock}

	case StatePaid:
		if ev == EventNotificationCompleted {
			// Duplicate delivery. Re-attempting the stock adjustment
			// is harmless (the persisted flag makes it at-most-once)
			// and heals a crash between the paid write and the
			// deduction.
			return StatePaid, []Effect{EffectAdjustStock}
		}
		return StatePaid, nil

	default:
		return StateTerminal, nil
	}
}
