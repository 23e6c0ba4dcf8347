package services

import "errors"

// Sentinel errors surfaced to handlers. Each maps to a distinct user
// outcome, so handlers branch with errors.Is instead of matching
// message strings.
var (
	// ErrEmptyCart rejects checkout initiation with zero cart lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrPaymentIncomplete means the gateway reports the session as
	// not paid. It is not a failure: the cart is left intact and the
	// user is routed back toward checkout.
	ErrPaymentIncomplete = errors.New("payment not completed")

	// ErrVerificationFailed means the gateway session lookup itself
	// failed (network or error response). Transient: no order is
	// created and the cart is untouched so the user may retry.
	ErrVerificationFailed = errors.New("could not verify payment session")

	// ErrOrderAccessDenied means the order exists but belongs to a
	// different user. Handlers present it as not found so order
	// numbers leak nothing.
	ErrOrderAccessDenied = errors.New("order does not belong to user")
)
