package models

import "gorm.io/gorm"

// Category groups products for catalog browsing.
type Category struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	gorm.Model  `json:"-"`
}

// Product represents a product in the store catalog.
// Price is an integer amount in a zero-decimal currency.
type Product struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" gorm:"type:varchar(200)" validate:"required,min=2,max=200"`
	Slug        string `json:"slug" gorm:"uniqueIndex;type:varchar(200)" validate:"required,max=200"`
	CategoryID  string `json:"category_id" gorm:"index;type:varchar(36)" validate:"omitempty,uuid"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	ImageURL    string `json:"image_url" validate:"omitempty,max=500"`
	Stock       int    `json:"stock" validate:"gte=0"`
	IsActive    bool   `json:"is_active"`
	IsFeatured  bool   `json:"is_featured"`
	gorm.Model  `json:"-"` // CreatedAt, UpdatedAt, DeletedAt
}
