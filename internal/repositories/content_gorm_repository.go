package repositories

import (
	"fmt"
	"time"

	"atelier/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMContentRepository is a GORM implementation of ContentRepository.
type GORMContentRepository struct {
	db *gorm.DB
}

// NewGORMContentRepository creates a new instance of GORMContentRepository.
func NewGORMContentRepository(db *gorm.DB) *GORMContentRepository {
	return &GORMContentRepository{db: db}
}

// ListBanners retrieves hero banners ordered for display.
func (r *GORMContentRepository) ListBanners(activeOnly bool) ([]models.HeroBanner, error) {
	query := r.db.Order("display_order, created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var banners []models.HeroBanner
	if err := query.Find(&banners).Error; err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	return banners, nil
}

// SaveBanner creates or updates a hero banner.
func (r *GORMContentRepository) SaveBanner(banner *models.HeroBanner) error {
	if banner.ID == "" {
		banner.ID = uuid.New().String()
	}
	if err := r.db.Save(banner).Error; err != nil {
		return fmt.Errorf("failed to save banner: %w", err)
	}
	return nil
}

// DeleteBanner deletes a hero banner by ID.
func (r *GORMContentRepository) DeleteBanner(id string) error {
	return r.deleteByID(&models.HeroBanner{}, "banner", id)
}

// ListPopups retrieves popups, newest first.
func (r *GORMContentRepository) ListPopups(activeOnly bool) ([]models.Popup, error) {
	query := r.db.Order("created_at DESC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var popups []models.Popup
	if err := query.Find(&popups).Error; err != nil {
		return nil, fmt.Errorf("failed to list popups: %w", err)
	}
	return popups, nil
}

// ListRunningPopups retrieves active popups whose display window
// includes now.
func (r *GORMContentRepository) ListRunningPopups(now time.Time) ([]models.Popup, error) {
	var popups []models.Popup
	err := r.db.Where("is_active = ?", true).
		Where("start_date IS NULL OR start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Order("created_at DESC").
		Find(&popups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list running popups: %w", err)
	}
	return popups, nil
}

// SavePopup creates or updates a popup.
func (r *GORMContentRepository) SavePopup(popup *models.Popup) error {
	if popup.ID == "" {
		popup.ID = uuid.New().String()
	}
	if err := r.db.Save(popup).Error; err != nil {
		return fmt.Errorf("failed to save popup: %w", err)
	}
	return nil
}

// DeletePopup deletes a popup by ID.
func (r *GORMContentRepository) DeletePopup(id string) error {
	return r.deleteByID(&models.Popup{}, "popup", id)
}

// ListMenuItems retrieves menu items grouped by location then order.
func (r *GORMContentRepository) ListMenuItems(activeOnly bool) ([]models.MenuItem, error) {
	query := r.db.Order("location, display_order")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

// SaveMenuItem creates or updates a menu item.
func (r *GORMContentRepository) SaveMenuItem(item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Save(item).Error; err != nil {
		return fmt.Errorf("failed to save menu item: %w", err)
	}
	return nil
}

// DeleteMenuItem deletes a menu item by ID.
func (r *GORMContentRepository) DeleteMenuItem(id string) error {
	return r.deleteByID(&models.MenuItem{}, "menu item", id)
}

// ListPages retrieves all pages ordered by title.
func (r *GORMContentRepository) ListPages() ([]models.Page, error) {
	var pages []models.Page
	if err := r.db.Order("title").Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return pages, nil
}

// GetPageBySlug retrieves an active page by its slug.
func (r *GORMContentRepository) GetPageBySlug(slug string) (*models.Page, error) {
	var page models.Page
	if err := r.db.First(&page, "slug = ? AND is_active = ?", slug, true).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("page with slug %s: %w", slug, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get page by slug %s: %w", slug, err)
	}
	return &page, nil
}

// SavePage creates or updates a page.
func (r *GORMContentRepository) SavePage(page *models.Page) error {
	if page.ID == "" {
		page.ID = uuid.New().String()
	}
	if err := r.db.Save(page).Error; err != nil {
		return fmt.Errorf("failed to save page: %w", err)
	}
	return nil
}

// DeletePage deletes a page by ID.
func (r *GORMContentRepository) DeletePage(id string) error {
	return r.deleteByID(&models.Page{}, "page", id)
}

// GetSiteSetting retrieves the settings singleton, falling back to
// defaults when staff have never saved one.
func (r *GORMContentRepository) GetSiteSetting() (*models.SiteSetting, error) {
	var setting models.SiteSetting
	if err := r.db.First(&setting, "id = ?", 1).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			defaults := models.DefaultSiteSetting()
			return &defaults, nil
		}
		return nil, fmt.Errorf("failed to get site settings: %w", err)
	}
	return &setting, nil
}

// SaveSiteSetting upserts the settings row, always pinned to pk 1 so
// only one row can ever exist.
func (r *GORMContentRepository) SaveSiteSetting(setting *models.SiteSetting) error {
	setting.ID = 1
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(setting).Error
	if err != nil {
		return fmt.Errorf("failed to save site settings: %w", err)
	}
	return nil
}

func (r *GORMContentRepository) deleteByID(model any, kind, id string) error {
	res := r.db.Delete(model, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s with ID %s not found for deletion", kind, id)
	}
	return nil
}
