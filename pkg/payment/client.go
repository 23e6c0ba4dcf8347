// Package payment is a client for the hosted-checkout payment gateway.
// The gateway hosts the actual payment page; this package creates
// checkout sessions, queries their status, and verifies the signed
// webhook notifications the gateway pushes back.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Payment statuses reported by the gateway for a checkout session.
const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// Config holds the gateway credentials and endpoints. It is passed to
// NewClient explicitly; the package keeps no global state.
type Config struct {
	BaseURL       string
	APIKey        string
	WebhookSecret string
}

// LineItem is a single purchasable line sent when creating a session.
// UnitAmount is an integer in a zero-decimal currency.
type LineItem struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int    `json:"quantity"`
}

// Address is a shipping address as collected by the hosted page.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// ShippingDetails carries the recipient name and address.
type ShippingDetails struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

// CustomerDetails carries what the gateway learned about the payer.
type CustomerDetails struct {
	Email string `json:"email"`
}

// Session is a hosted checkout session as reported by the gateway.
type Session struct {
	ID              string            `json:"id"`
	URL             string            `json:"url,omitempty"`
	PaymentStatus   string            `json:"payment_status"`
	AmountTotal     int64             `json:"amount_total"`
	PaymentIntentID string            `json:"payment_intent"`
	Customer        CustomerDetails   `json:"customer_details"`
	Shipping        *ShippingDetails  `json:"shipping_details,omitempty"`
	LineItems       []LineItem        `json:"line_items,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// CreateSessionParams are the inputs for CreateSession.
type CreateSessionParams struct {
	LineItems     []LineItem        `json:"line_items"`
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Client talks to the gateway's REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a gateway client from an explicit configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateSession creates a hosted checkout session and returns its
// identifier and redirect URL.
func (c *Client) CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	return c.doSession(req)
}

// GetSession retrieves the current state of a checkout session.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/v1/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	return c.doSession(req)
}

func (c *Client) doSession(req *http.Request) (*Session, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, raw)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode gateway session: %w", err)
	}
	if session.ID == "" {
		return nil, fmt.Errorf("gateway session missing id")
	}
	return &session, nil
}
