package handlers

import (
	"errors"

	"atelier/internal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ProductHandler handles the public catalog endpoints.
type ProductHandler struct {
	productService *services.ProductService
	blogService    *services.BlogService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, blogService *services.BlogService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		blogService:    blogService,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/home", h.HandleHome)
	router.Get("/products", h.HandleListProducts)
	router.Get("/products/:slug", h.HandleGetProduct)
	router.Get("/categories", h.HandleListCategories)
}

// HandleHome returns the home page payload: featured products, latest
// products, and recent posts.
func (h *ProductHandler) HandleHome(c *fiber.Ctx) error {
	featured, err := h.productService.FeaturedProducts(4)
	if err != nil {
		return internalError(c, "Could not retrieve featured products", err)
	}
	latest, err := h.productService.LatestProducts(8)
	if err != nil {
		return internalError(c, "Could not retrieve latest products", err)
	}
	posts, err := h.blogService.ListPosts(3)
	if err != nil {
		return internalError(c, "Could not retrieve latest posts", err)
	}

	return c.JSON(fiber.Map{
		"featured_products": featured,
		"latest_products":   latest,
		"latest_posts":      posts,
	})
}

// HandleListProducts lists active products, optionally filtered with
// the "category" query parameter (a category slug).
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.productService.ListProducts(c.Query("category"))
	if err != nil {
		return internalError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProduct returns one product by slug plus related products.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.productService.GetProductBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Product not found")
		}
		return internalError(c, "Could not retrieve product", err)
	}
	if !product.IsActive {
		return notFound(c, "Product not found")
	}

	related, err := h.productService.RelatedProducts(product, 4)
	if err != nil {
		return internalError(c, "Could not retrieve related products", err)
	}

	return c.JSON(fiber.Map{
		"product":          product,
		"related_products": related,
	})
}

// HandleListCategories lists all categories.
func (h *ProductHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.productService.ListCategories()
	if err != nil {
		return internalError(c, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

func internalError(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": message,
	})
}
