package repositories

import (
	"atelier/internal/models"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategorySlug string
	ActiveOnly   bool
	FeaturedOnly bool
	Limit        int
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(filter ProductFilter) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error

	// DecrementStock applies "stock = stock - quantity" as a single
	// conditional update guarded by stock >= quantity. It returns
	// false without error when the guard fails (insufficient stock).
	DecrementStock(id string, quantity int) (bool, error)
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	List() ([]models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id string) error
}
