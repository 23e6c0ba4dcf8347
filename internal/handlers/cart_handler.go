package handlers

import (
	"errors"

	"atelier/internal/middleware"
	"atelier/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CartHandler handles the session cart endpoints.
type CartHandler struct {
	cartService *services.CartService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Delete("/items/:productID", h.HandleRemoveItem)
}

// HandleGetCart returns the current cart and its total.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.cartService.GetCart(c.Context(), middleware.CartSessionID(c))
	if err != nil {
		return internalError(c, "Could not retrieve cart", err)
	}
	return c.JSON(fiber.Map{
		"cart":  cart,
		"total": cart.Total(),
	})
}

// AddItemRequest represents the request body for adding a cart line.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// HandleAddItem adds quantity of a product to the cart. Repeated adds
// for the same product accumulate.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	cart, err := h.cartService.AddItem(c.Context(), middleware.CartSessionID(c), req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Product not found")
		}
		return internalError(c, "Could not add item to cart", err)
	}

	return c.JSON(fiber.Map{
		"cart":  cart,
		"total": cart.Total(),
	})
}

// HandleRemoveItem removes the line for a product from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.cartService.RemoveItem(c.Context(), middleware.CartSessionID(c), c.Params("productID"))
	if err != nil {
		return internalError(c, "Could not remove item from cart", err)
	}
	return c.JSON(fiber.Map{
		"cart":  cart,
		"total": cart.Total(),
	})
}
