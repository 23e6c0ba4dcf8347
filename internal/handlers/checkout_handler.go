package handlers

import (
	"errors"

	"atelier/internal/middleware"
	"atelier/internal/models"
	"atelier/internal/repositories"
	"atelier/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles checkout initiation and the redirect
// confirmation leg of reconciliation.
type CheckoutHandler struct {
	checkoutService  *services.CheckoutService
	reconcileService *services.ReconcileService
	userRepo         repositories.UserRepository
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutService *services.CheckoutService, reconcileService *services.ReconcileService, userRepo repositories.UserRepository) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService:  checkoutService,
		reconcileService: reconcileService,
		userRepo:         userRepo,
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Post("/", h.HandleCreateSession)
	checkoutRoutes.Get("/success", h.HandleSuccess)
	checkoutRoutes.Get("/cancel", h.HandleCancel)
}

// HandleCreateSession starts a hosted checkout for the current cart
// and redirects the customer to the gateway's payment page.
func (h *CheckoutHandler) HandleCreateSession(c *fiber.Ctx) error {
	var user *models.User
	if userID := middleware.UserID(c); userID != "" {
		if u, err := h.userRepo.GetByID(userID); err == nil {
			user = u
		}
	}

	session, err := h.checkoutService.CreateCheckoutSession(c.Context(), middleware.CartSessionID(c), user)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Your cart is empty.",
			})
		}
		return internalError(c, "Could not start checkout", err)
	}

	return c.Redirect(session.URL, fiber.StatusSeeOther)
}

// HandleSuccess is the redirect confirmation endpoint. The gateway
// sends the customer back here with the session token in the query
// string; reconciliation turns it into an order exactly once.
func (h *CheckoutHandler) HandleSuccess(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Redirect("/", fiber.StatusFound)
	}

	order, err := h.reconcileService.ConfirmRedirect(c.Context(), sessionID, middleware.UserID(c), middleware.CartSessionID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentIncomplete):
			// Not an error: payment simply has not completed. The
			// cart is intact; send the customer back to it.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message":  "Payment not completed.",
				"redirect": "/cart",
			})
		case errors.Is(err, services.ErrVerificationFailed):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message": "Could not verify payment session. Please try again.",
			})
		default:
			return internalError(c, "Could not confirm your order", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Thank you for your order!",
		"order":   order,
	})
}

// HandleCancel acknowledges a cancelled checkout. The cart is untouched.
func (h *CheckoutHandler) HandleCancel(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":  "Checkout was cancelled.",
		"redirect": "/cart",
	})
}
