package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// SignatureHeader is the HTTP header carrying the webhook signature.
const SignatureHeader = "X-Payment-Signature"

// EventCheckoutCompleted is the event type for a completed checkout
// session. Other event types are delivered too and may be ignored.
const EventCheckoutCompleted = "checkout.session.completed"

// Webhook verification errors. Both mean the payload must not be
// trusted and no state may be touched.
var (
	ErrInvalidSignature = errors.New("payment: invalid webhook signature")
	ErrMalformedPayload = errors.New("payment: malformed webhook payload")
)

// Event is a verified, strictly-typed webhook notification. Field
// presence is validated before the event is handed to callers so no
// downstream code has to probe a loose map.
type Event struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Amount    int64  `json:"amount"`

	PaymentIntentID string            `json:"payment_reference"`
	Customer        CustomerDetails   `json:"customer_details"`
	Shipping        *ShippingDetails  `json:"shipping_details,omitempty"`
	LineItems       []LineItem        `json:"line_items,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// Sign computes the hex HMAC-SHA256 signature of payload under secret.
// It is the inverse of ConstructEvent's check; tests and the gateway
// simulator use it to produce valid headers.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// ConstructEvent verifies the signature header against the raw payload
// and the shared webhook secret, then decodes and shape-checks the
// event. It fails closed: any signature or shape problem rejects the
// whole delivery before a single field is trusted.
func ConstructEvent(payload []byte, sigHeader, secret string) (Event, error) {
	var event Event

	if sigHeader == "" {
		return event, ErrInvalidSignature
	}
	expected, err := hex.DecodeString(sigHeader)
	if err != nil {
		return event, ErrInvalidSignature
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	if !hmac.Equal(expected, mac.Sum(nil)) {
		return event, ErrInvalidSignature
	}

	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if event.Type == "" {
		return Event{}, fmt.Errorf("%w: missing type", ErrMalformedPayload)
	}
	if event.SessionID == "" {
		return Event{}, fmt.Errorf("%w: missing session_id", ErrMalformedPayload)
	}
	if event.Amount < 0 {
		return Event{}, fmt.Errorf("%w: negative amount", ErrMalformedPayload)
	}
	for i, item := range event.LineItems {
		if item.Name == "" || item.Quantity <= 0 || item.UnitAmount < 0 {
			return Event{}, fmt.Errorf("%w: invalid line item %d", ErrMalformedPayload, i)
		}
	}

	return event, nil
}
