package services

import (
	"time"

	"atelier/internal/models"
	"atelier/internal/repositories"
)

// MenuByLocation is the public navigation payload, grouped the way the
// frontend renders it.
type MenuByLocation struct {
	Header        []models.MenuItem `json:"header"`
	FooterAccount []models.MenuItem `json:"footer_account"`
}

// ContentService handles the staff-managed site content: banners,
// popups, menus, pages, and the settings singleton.
type ContentService struct {
	contentRepo repositories.ContentRepository
}

// NewContentService creates a new ContentService.
func NewContentService(contentRepo repositories.ContentRepository) *ContentService {
	return &ContentService{contentRepo: contentRepo}
}

// ActiveBanners retrieves active hero banners in display order.
func (s *ContentService) ActiveBanners() ([]models.HeroBanner, error) {
	return s.contentRepo.ListBanners(true)
}

// RunningPopups retrieves active popups whose display window includes
// the current time.
func (s *ContentService) RunningPopups() ([]models.Popup, error) {
	return s.contentRepo.ListRunningPopups(time.Now())
}

// Menu retrieves active menu items grouped by location.
func (s *ContentService) Menu() (*MenuByLocation, error) {
	items, err := s.contentRepo.ListMenuItems(true)
	if err != nil {
		return nil, err
	}
	menu := &MenuByLocation{}
	for _, item := range items {
		switch item.Location {
		case models.MenuLocationHeader:
			menu.Header = append(menu.Header, item)
		case models.MenuLocationFooterAccount:
			menu.FooterAccount = append(menu.FooterAccount, item)
		}
	}
	return menu, nil
}

// GetPage retrieves an active page by slug.
func (s *ContentService) GetPage(slug string) (*models.Page, error) {
	return s.contentRepo.GetPageBySlug(slug)
}

// SiteSettings retrieves the settings singleton.
func (s *ContentService) SiteSettings() (*models.SiteSetting, error) {
	return s.contentRepo.GetSiteSetting()
}

// Staff operations below are thin pass-throughs; validation happens at
// the handler boundary.

func (s *ContentService) ListAllBanners() ([]models.HeroBanner, error) { return s.contentRepo.ListBanners(false) }
func (s *ContentService) SaveBanner(b *models.HeroBanner) error        { return s.contentRepo.SaveBanner(b) }
func (s *ContentService) DeleteBanner(id string) error                 { return s.contentRepo.DeleteBanner(id) }

func (s *ContentService) ListAllPopups() ([]models.Popup, error) { return s.contentRepo.ListPopups(false) }
func (s *ContentService) SavePopup(p *models.Popup) error        { return s.contentRepo.SavePopup(p) }
func (s *ContentService) DeletePopup(id string) error            { return s.contentRepo.DeletePopup(id) }

func (s *ContentService) ListAllMenuItems() ([]models.MenuItem, error) { return s.contentRepo.ListMenuItems(false) }
func (s *ContentService) SaveMenuItem(m *models.MenuItem) error        { return s.contentRepo.SaveMenuItem(m) }
func (s *ContentService) DeleteMenuItem(id string) error               { return s.contentRepo.DeleteMenuItem(id) }

func (s *ContentService) ListPages() ([]models.Page, error) { return s.contentRepo.ListPages() }
func (s *ContentService) SavePage(p *models.Page) error     { return s.contentRepo.SavePage(p) }
func (s *ContentService) DeletePage(id string) error        { return s.contentRepo.DeletePage(id) }

func (s *ContentService) SaveSiteSettings(setting *models.SiteSetting) error {
	return s.contentRepo.SaveSiteSetting(setting)
}
