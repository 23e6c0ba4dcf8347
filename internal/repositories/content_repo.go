package repositories

import (
	"time"

	"atelier/internal/models"
)

// ContentRepository defines data access for the staff-managed content
// entities: hero banners, popups, menu items, static pages, and the
// site settings singleton.
type ContentRepository interface {
	ListBanners(activeOnly bool) ([]models.HeroBanner, error)
	SaveBanner(banner *models.HeroBanner) error
	DeleteBanner(id string) error

	ListPopups(activeOnly bool) ([]models.Popup, error)
	ListRunningPopups(now time.Time) ([]models.Popup, error)
	SavePopup(popup *models.Popup) error
	DeletePopup(id string) error

	ListMenuItems(activeOnly bool) ([]models.MenuItem, error)
	SaveMenuItem(item *models.MenuItem) error
	DeleteMenuItem(id string) error

	ListPages() ([]models.Page, error)
	GetPageBySlug(slug string) (*models.Page, error)
	SavePage(page *models.Page) error
	DeletePage(id string) error

	GetSiteSetting() (*models.SiteSetting, error)
	SaveSiteSetting(setting *models.SiteSetting) error
}
