package handlers

import (
	"strings"

	"atelier/internal/models"
	"atelier/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler is the JSON backend for the staff management console:
// catalog, content, blog, and order administration. All routes must be
// registered behind AuthRequired + StaffRequired.
type AdminHandler struct {
	productService *services.ProductService
	contentService *services.ContentService
	blogService    *services.BlogService
	orderService   *services.OrderService
	validate       *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	productService *services.ProductService,
	contentService *services.ContentService,
	blogService *services.BlogService,
	orderService *services.OrderService,
) *AdminHandler {
	return &AdminHandler{
		productService: productService,
		contentService: contentService,
		blogService:    blogService,
		orderService:   orderService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the management console routes.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	admin := router.Group("/admin")

	admin.Post("/products", h.HandleCreateProduct)
	admin.Put("/products/:id", h.HandleUpdateProduct)
	admin.Delete("/products/:id", h.HandleDeleteProduct)

	admin.Post("/categories", h.HandleCreateCategory)
	admin.Put("/categories/:id", h.HandleUpdateCategory)
	admin.Delete("/categories/:id", h.HandleDeleteCategory)

	admin.Get("/banners", h.HandleListBanners)
	admin.Post("/banners", h.HandleSaveBanner)
	admin.Put("/banners/:id", h.HandleSaveBanner)
	admin.Delete("/banners/:id", h.HandleDeleteBanner)

	admin.Get("/popups", h.HandleListPopups)
	admin.Post("/popups", h.HandleSavePopup)
	admin.Put("/popups/:id", h.HandleSavePopup)
	admin.Delete("/popups/:id", h.HandleDeletePopup)

	admin.Get("/menu-items", h.HandleListMenuItems)
	admin.Post("/menu-items", h.HandleSaveMenuItem)
	admin.Put("/menu-items/:id", h.HandleSaveMenuItem)
	admin.Delete("/menu-items/:id", h.HandleDeleteMenuItem)

	admin.Get("/pages", h.HandleListPages)
	admin.Post("/pages", h.HandleSavePage)
	admin.Put("/pages/:id", h.HandleSavePage)
	admin.Delete("/pages/:id", h.HandleDeletePage)

	admin.Put("/settings", h.HandleSaveSettings)

	admin.Post("/posts", h.HandleCreatePost)
	admin.Put("/posts/:id", h.HandleUpdatePost)
	admin.Delete("/posts/:id", h.HandleDeletePost)

	admin.Get("/orders", h.HandleListOrders)
	admin.Get("/orders/shortfalls", h.HandleListShortfalls)
	admin.Patch("/orders/:id/status", h.HandleUpdateOrderStatus)
}

// parseBody binds and validates a JSON request body, writing the 400
// response itself on failure.
func (h *AdminHandler) parseBody(c *fiber.Ctx, out any) bool {
	if err := c.BodyParser(out); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
		return false
	}
	if err := h.validate.Struct(out); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
		return false
	}
	return true
}

func saveResult(c *fiber.Ctx, err error, payload any) error {
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return notFound(c, err.Error())
		}
		return internalError(c, "Could not save record", err)
	}
	return c.JSON(payload)
}

func deleteResult(c *fiber.Ctx, err error) error {
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return notFound(c, err.Error())
		}
		return internalError(c, "Could not delete record", err)
	}
	return c.JSON(fiber.Map{"message": "Deleted"})
}

// --- Catalog ---

// HandleCreateProduct creates a product.
func (h *AdminHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if !h.parseBody(c, &product) {
		return nil
	}
	if err := h.productService.CreateProduct(&product); err != nil {
		return internalError(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates a product by ID.
func (h *AdminHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if !h.parseBody(c, &product) {
		return nil
	}
	product.ID = c.Params("id")
	return saveResult(c, h.productService.UpdateProduct(&product), product)
}

// HandleDeleteProduct deletes a product by ID.
func (h *AdminHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	return deleteResult(c, h.productService.DeleteProduct(c.Params("id")))
}

// HandleCreateCategory creates a category.
func (h *AdminHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if !h.parseBody(c, &category) {
		return nil
	}
	if err := h.productService.CreateCategory(&category); err != nil {
		return internalError(c, "Could not create category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdateCategory updates a category by ID.
func (h *AdminHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var category models.Category
	if !h.parseBody(c, &category) {
		return nil
	}
	category.ID = c.Params("id")
	return saveResult(c, h.productService.UpdateCategory(&category), category)
}

// HandleDeleteCategory deletes a category by ID.
func (h *AdminHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	return deleteResult(c, h.productService.DeleteCategory(c.Params("id")))
}

// --- Content ---

// HandleListBanners lists all banners, active or not.
func (h *AdminHandler) HandleListBanners(c *fiber.Ctx) error {
	banners, err := h.contentService.ListAllBanners()
	if err != nil {
		return internalError(c, "Could not retrieve banners", err)
	}
	return c.JSON(banners)
}

// HandleSaveBanner creates or updates a banner.
func (h *AdminHandler) HandleSaveBanner(c *fiber.Ctx) error {
	var banner models.HeroBanner
	if !h.parseBody(c, &banner) {
		return nil
	}
	if id := c.Params("id"); id != "" {
		banner.ID = id
	}
	return saveResult(c, h.contentService.SaveBanner(&banner), banner)
}

// HandleDeleteBanner deletes a banner by ID.
func (h *AdminHandler) HandleDeleteBanner(c *fiber.Ctx) error {
	return deleteResult(c, h.contentService.DeleteBanner(c.Params("id")))
}

// HandleListPopups lists all popups, active or not.
func (h *AdminHandler) HandleListPopups(c *fiber.Ctx) error {
	popups, err := h.contentService.ListAllPopups()
	if err != nil {
		return internalError(c, "Could not retrieve popups", err)
	}
	return c.JSON(popups)
}

// HandleSavePopup creates or updates a popup.
func (h *AdminHandler) HandleSavePopup(c *fiber.Ctx) error {
	var popup models.Popup
	if !h.parseBody(c, &popup) {
		return nil
	}
	if id := c.Params("id"); id != "" {
		popup.ID = id
	}
	return saveResult(c, h.contentService.SavePopup(&popup), popup)
}

// HandleDeletePopup deletes a popup by ID.
func (h *AdminHandler) HandleDeletePopup(c *fiber.Ctx) error {
	return deleteResult(c, h.contentService.DeletePopup(c.Params("id")))
}

// HandleListMenuItems lists all menu items, active or not.
func (h *AdminHandler) HandleListMenuItems(c *fiber.Ctx) error {
	items, err := h.contentService.ListAllMenuItems()
	if err != nil {
		return internalError(c, "Could not retrieve menu items", err)
	}
	return c.JSON(items)
}

// HandleSaveMenuItem creates or updates a menu item.
func (h *AdminHandler) HandleSaveMenuItem(c *fiber.Ctx) error {
	var item models.MenuItem
	if !h.parseBody(c, &item) {
		return nil
	}
	if id := c.Params("id"); id != "" {
		item.ID = id
	}
	return saveResult(c, h.contentService.SaveMenuItem(&item), item)
}

// HandleDeleteMenuItem deletes a menu item by ID.
func (h *AdminHandler) HandleDeleteMenuItem(c *fiber.Ctx) error {
	return deleteResult(c, h.contentService.DeleteMenuItem(c.Params("id")))
}

// HandleListPages lists all pages.
func (h *AdminHandler) HandleListPages(c *fiber.Ctx) error {
	pages, err := h.contentService.ListPages()
	if err != nil {
		return internalError(c, "Could not retrieve pages", err)
	}
	return c.JSON(pages)
}

// HandleSavePage creates or updates a page.
func (h *AdminHandler) HandleSavePage(c *fiber.Ctx) error {
	var page models.Page
	if !h.parseBody(c, &page) {
		return nil
	}
	if id := c.Params("id"); id != "" {
		page.ID = id
	}
	return saveResult(c, h.contentService.SavePage(&page), page)
}

// HandleDeletePage deletes a page by ID.
func (h *AdminHandler) HandleDeletePage(c *fiber.Ctx) error {
	return deleteResult(c, h.contentService.DeletePage(c.Params("id")))
}

// HandleSaveSettings updates the site settings singleton.
func (h *AdminHandler) HandleSaveSettings(c *fiber.Ctx) error {
	var settings models.SiteSetting
	if !h.parseBody(c, &settings) {
		return nil
	}
	return saveResult(c, h.contentService.SaveSiteSettings(&settings), settings)
}

// --- Blog ---

// HandleCreatePost creates a post.
func (h *AdminHandler) HandleCreatePost(c *fiber.Ctx) error {
	var post models.Post
	if !h.parseBody(c, &post) {
		return nil
	}
	if err := h.blogService.CreatePost(&post); err != nil {
		return internalError(c, "Could not create post", err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleUpdatePost updates a post by ID.
func (h *AdminHandler) HandleUpdatePost(c *fiber.Ctx) error {
	var post models.Post
	if !h.parseBody(c, &post) {
		return nil
	}
	post.ID = c.Params("id")
	return saveResult(c, h.blogService.UpdatePost(&post), post)
}

// HandleDeletePost deletes a post by ID.
func (h *AdminHandler) HandleDeletePost(c *fiber.Ctx) error {
	return deleteResult(c, h.blogService.DeletePost(c.Params("id")))
}

// --- Orders ---

// HandleListOrders lists all non-pending orders.
func (h *AdminHandler) HandleListOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.ListOrders()
	if err != nil {
		return internalError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleListShortfalls lists paid orders flagged with a stock
// shortfall so staff can resolve oversells.
func (h *AdminHandler) HandleListShortfalls(c *fiber.Ctx) error {
	orders, err := h.orderService.ListShortfallOrders()
	if err != nil {
		return internalError(c, "Could not retrieve shortfall orders", err)
	}
	return c.JSON(orders)
}

// UpdateStatusRequest represents the request body for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus advances an order's status.
func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if !h.parseBody(c, &req) {
		return nil
	}

	orderID := c.Params("id")
	if err := h.orderService.UpdateOrderStatus(orderID, req.Status); err != nil {
		if strings.Contains(err.Error(), "invalid order status") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		if strings.Contains(err.Error(), "not found") {
			return notFound(c, "Order not found")
		}
		return internalError(c, "Could not update order status", err)
	}

	return c.JSON(fiber.Map{
		"message": "Order status updated",
		"status":  req.Status,
	})
}
