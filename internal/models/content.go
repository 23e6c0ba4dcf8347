package models

import (
	"time"

	"gorm.io/gorm"
)

// Menu locations.
const (
	MenuLocationHeader        = "header"
	MenuLocationFooterAccount = "footer_account"
)

// Popup types.
const (
	PopupTypeAnnouncement = "announcement"
	PopupTypeBanner       = "banner"
)

// HeroBanner is a rotating image banner on the home page.
type HeroBanner struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title        string `json:"title" gorm:"type:varchar(200)" validate:"omitempty,max=200"`
	Subtitle     string `json:"subtitle" validate:"omitempty,max=1000"`
	ImageURL     string `json:"image_url" gorm:"type:varchar(500)" validate:"required,max=500"`
	LinkURL      string `json:"link_url" gorm:"type:varchar(500)" validate:"omitempty,url"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
	IsActive     bool   `json:"is_active"`
	gorm.Model   `json:"-"`
}

// Popup is a site-wide announcement shown within an optional time window.
type Popup struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title      string     `json:"title" gorm:"type:varchar(200)" validate:"required,max=200"`
	Content    string     `json:"content" validate:"omitempty,max=5000"`
	ImageURL   string     `json:"image_url" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	PopupType  string     `json:"popup_type" gorm:"type:varchar(20);default:announcement" validate:"omitempty,oneof=announcement banner"`
	LinkURL    string     `json:"link_url" gorm:"type:varchar(500)" validate:"omitempty,url"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	IsActive   bool       `json:"is_active"`
	gorm.Model `json:"-"`
}

// RunningAt reports whether the popup should be shown at t.
func (p Popup) RunningAt(t time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartDate != nil && t.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && t.After(*p.EndDate) {
		return false
	}
	return true
}

// MenuItem is a single navigation entry managed by staff.
type MenuItem struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Location     string `json:"location" gorm:"index;type:varchar(20)" validate:"required,oneof=header footer_account"`
	Label        string `json:"label" gorm:"type:varchar(100)" validate:"required,max=100"`
	URL          string `json:"url" gorm:"type:varchar(300)" validate:"required,max=300"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
	IsActive     bool   `json:"is_active"`
	OpenNewTab   bool   `json:"open_new_tab"`
	gorm.Model   `json:"-"`
}

// Page is a staff-editable static content page addressed by slug.
type Page struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title      string `json:"title" gorm:"type:varchar(200)" validate:"required,max=200"`
	Slug       string `json:"slug" gorm:"uniqueIndex;type:varchar(200)" validate:"required,max=200"`
	Content    string `json:"content"`
	IsActive   bool   `json:"is_active"`
	gorm.Model `json:"-"`
}

// SiteSetting is a singleton row of site-wide branding settings.
// Saves always target primary key 1.
type SiteSetting struct {
	ID              uint   `json:"-" gorm:"primaryKey"`
	SiteName        string `json:"site_name" gorm:"type:varchar(200)" validate:"required,max=200"`
	SiteTagline     string `json:"site_tagline" gorm:"type:varchar(300)" validate:"omitempty,max=300"`
	SiteDescription string `json:"site_description"`
	CopyrightText   string `json:"copyright_text" gorm:"type:varchar(200)" validate:"omitempty,max=200"`
	ColorParchment  string `json:"color_parchment" gorm:"type:varchar(7)" validate:"omitempty,hexcolor"`
	ColorCharcoal   string `json:"color_charcoal" gorm:"type:varchar(7)" validate:"omitempty,hexcolor"`
	ColorGold       string `json:"color_gold" gorm:"type:varchar(7)" validate:"omitempty,hexcolor"`
	ColorVelvet     string `json:"color_velvet" gorm:"type:varchar(7)" validate:"omitempty,hexcolor"`
	gorm.Model      `json:"-"`
}

// DefaultSiteSetting returns the settings used until staff edit them.
func DefaultSiteSetting() SiteSetting {
	return SiteSetting{
		ID:              1,
		SiteName:        "Atelier des Poupées",
		SiteTagline:     "Sewn with devotion, worn with grace.",
		SiteDescription: "Handcrafted doll garments inspired by centuries of textile artistry.",
		CopyrightText:   "Atelier des Poupées",
		ColorParchment:  "#FFF3CD",
		ColorCharcoal:   "#2D2926",
		ColorGold:       "#D4AF37",
		ColorVelvet:     "#8B0000",
	}
}
