package handlers

import (
	"errors"

	"atelier/internal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ContentHandler serves the public site content: menus, banners,
// popups, pages, and settings.
type ContentHandler struct {
	contentService *services.ContentService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// RegisterRoutes registers the content routes with the Fiber app.
func (h *ContentHandler) RegisterRoutes(router fiber.Router) {
	contentRoutes := router.Group("/content")
	contentRoutes.Get("/menu", h.HandleMenu)
	contentRoutes.Get("/banners", h.HandleBanners)
	contentRoutes.Get("/popups", h.HandlePopups)
	contentRoutes.Get("/settings", h.HandleSettings)
	router.Get("/pages/:slug", h.HandlePage)
}

// HandleMenu returns active menu items grouped by location.
func (h *ContentHandler) HandleMenu(c *fiber.Ctx) error {
	menu, err := h.contentService.Menu()
	if err != nil {
		return internalError(c, "Could not retrieve menu", err)
	}
	return c.JSON(menu)
}

// HandleBanners returns active hero banners in display order.
func (h *ContentHandler) HandleBanners(c *fiber.Ctx) error {
	banners, err := h.contentService.ActiveBanners()
	if err != nil {
		return internalError(c, "Could not retrieve banners", err)
	}
	return c.JSON(banners)
}

// HandlePopups returns the popups currently scheduled for display.
func (h *ContentHandler) HandlePopups(c *fiber.Ctx) error {
	popups, err := h.contentService.RunningPopups()
	if err != nil {
		return internalError(c, "Could not retrieve popups", err)
	}
	return c.JSON(popups)
}

// HandleSettings returns the site settings singleton.
func (h *ContentHandler) HandleSettings(c *fiber.Ctx) error {
	settings, err := h.contentService.SiteSettings()
	if err != nil {
		return internalError(c, "Could not retrieve site settings", err)
	}
	return c.JSON(settings)
}

// HandlePage returns one active page by slug.
func (h *ContentHandler) HandlePage(c *fiber.Ctx) error {
	page, err := h.contentService.GetPage(c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Page not found")
		}
		return internalError(c, "Could not retrieve page", err)
	}
	return c.JSON(page)
}
