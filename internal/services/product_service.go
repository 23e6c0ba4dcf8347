package services

import (
	"atelier/internal/models"
	"atelier/internal/repositories"
)

// ProductService handles business logic for the product catalog.
type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ListProducts retrieves active products, optionally filtered by
// category slug.
func (s *ProductService) ListProducts(categorySlug string) ([]models.Product, error) {
	return s.productRepo.List(repositories.ProductFilter{
		ActiveOnly:   true,
		CategorySlug: categorySlug,
	})
}

// FeaturedProducts retrieves up to limit featured products for the
// home page.
func (s *ProductService) FeaturedProducts(limit int) ([]models.Product, error) {
	return s.productRepo.List(repositories.ProductFilter{
		ActiveOnly:   true,
		FeaturedOnly: true,
		Limit:        limit,
	})
}

// LatestProducts retrieves up to limit newest active products.
func (s *ProductService) LatestProducts(limit int) ([]models.Product, error) {
	return s.productRepo.List(repositories.ProductFilter{
		ActiveOnly: true,
		Limit:      limit,
	})
}

// GetProductBySlug retrieves a single product by slug.
func (s *ProductService) GetProductBySlug(slug string) (*models.Product, error) {
	return s.productRepo.GetBySlug(slug)
}

// RelatedProducts retrieves active products sharing a category with
// the given product, excluding the product itself.
func (s *ProductService) RelatedProducts(product *models.Product, limit int) ([]models.Product, error) {
	if product.CategoryID == "" {
		return nil, nil
	}
	candidates, err := s.productRepo.List(repositories.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	related := make([]models.Product, 0, limit)
	for _, p := range candidates {
		if p.ID == product.ID || p.CategoryID != product.CategoryID {
			continue
		}
		related = append(related, p)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

// ListCategories retrieves all categories.
func (s *ProductService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.List()
}

// CreateProduct creates a new product (staff operation).
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.productRepo.Create(product)
}

// UpdateProduct updates an existing product (staff operation).
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.productRepo.Update(product)
}

// DeleteProduct deletes a product (staff operation).
func (s *ProductService) DeleteProduct(id string) error {
	return s.productRepo.Delete(id)
}

// CreateCategory creates a new category (staff operation).
func (s *ProductService) CreateCategory(category *models.Category) error {
	return s.categoryRepo.Create(category)
}

// UpdateCategory updates an existing category (staff operation).
func (s *ProductService) UpdateCategory(category *models.Category) error {
	return s.categoryRepo.Update(category)
}

// DeleteCategory deletes a category (staff operation).
func (s *ProductService) DeleteCategory(id string) error {
	return s.categoryRepo.Delete(id)
}
