package handlers

import (
	"atelier/internal/services"
	"atelier/pkg/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// WebhookHandler receives the gateway's asynchronous notifications.
type WebhookHandler struct {
	reconcileService *services.ReconcileService
	webhookSecret    string
	logger           zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(reconcileService *services.ReconcileService, webhookSecret string, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		reconcileService: reconcileService,
		webhookSecret:    webhookSecret,
		logger:           logger.With().Str("component", "webhook").Logger(),
	}
}

// RegisterRoutes registers the webhook route with the Fiber app.
func (h *WebhookHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/webhooks/payment", h.HandlePaymentWebhook)
}

// HandlePaymentWebhook verifies and dispatches a gateway notification.
// Signature or shape failures are rejected with 400 before any state
// is touched. Event types we do not handle are acknowledged with 200
// so the gateway stops redelivering them.
func (h *WebhookHandler) HandlePaymentWebhook(c *fiber.Ctx) error {
	event, err := payment.ConstructEvent(c.Body(), c.Get(payment.SignatureHeader), h.webhookSecret)
	if err != nil {
		h.logger.Warn().Err(err).Msg("rejected webhook delivery")
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if event.Type != payment.EventCheckoutCompleted {
		h.logger.Debug().Str("type", event.Type).Msg("ignoring webhook event type")
		return c.SendStatus(fiber.StatusOK)
	}

	if err := h.reconcileService.HandleCompletedSession(c.Context(), event); err != nil {
		h.logger.Error().Err(err).Str("session_id", event.SessionID).Msg("failed to reconcile completed session")
		// Signal failure so the gateway retries the delivery; the
		// reconciler is idempotent under redelivery.
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.SendStatus(fiber.StatusOK)
}
