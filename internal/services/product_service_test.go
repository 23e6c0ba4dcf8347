package services_test

import (
	"fmt"
	"testing"

	"atelier/internal/models"
	"atelier/internal/repositories"
	"atelier/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(filter repositories.ProductFilter) ([]models.Product, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySlug(slug string) (*models.Product, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockProductRepository) DecrementStock(id string, quantity int) (bool, error) {
	args := m.Called(id, quantity)
	return args.Bool(0), args.Error(1)
}

// MockCategoryRepository is a mock implementation of repositories.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List() ([]models.Category, error) {
	args := m.Called()
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestProductService_ListProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCategories := new(MockCategoryRepository)
	service := services.NewProductService(mockRepo, mockCategories)

	expected := []models.Product{
		{ID: "1", Name: "Linen Doll", Slug: "linen-doll", Price: 1000, Stock: 10},
		{ID: "2", Name: "Knit Bonnet", Slug: "knit-bonnet", Price: 500, Stock: 4},
	}

	mockRepo.On("List", repositories.ProductFilter{ActiveOnly: true}).Return(expected, nil).Once()

	products, err := service.ListProducts("")

	assert.NoError(t, err)
	assert.Equal(t, expected, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ListProductsByCategory(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, new(MockCategoryRepository))

	mockRepo.On("List", repositories.ProductFilter{ActiveOnly: true, CategorySlug: "dolls"}).
		Return([]models.Product{{ID: "1", Name: "Linen Doll"}}, nil).Once()

	products, err := service.ListProducts("dolls")

	assert.NoError(t, err)
	assert.Len(t, products, 1)
	mockRepo.AssertExpectations(t)
}

func TestProductService_FeaturedProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, new(MockCategoryRepository))

	mockRepo.On("List", repositories.ProductFilter{ActiveOnly: true, FeaturedOnly: true, Limit: 4}).
		Return([]models.Product{{ID: "1", IsFeatured: true}}, nil).Once()

	products, err := service.FeaturedProducts(4)

	assert.NoError(t, err)
	assert.Len(t, products, 1)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductBySlug(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, new(MockCategoryRepository))

	expected := &models.Product{ID: "1", Name: "Linen Doll", Slug: "linen-doll"}

	mockRepo.On("GetBySlug", "linen-doll").Return(expected, nil).Once()
	product, err := service.GetProductBySlug("linen-doll")
	assert.NoError(t, err)
	assert.Equal(t, expected, product)

	mockRepo.On("GetBySlug", "missing").Return(nil, fmt.Errorf("product with slug missing not found")).Once()
	product, err = service.GetProductBySlug("missing")
	assert.Error(t, err)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_RelatedProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, new(MockCategoryRepository))

	current := &models.Product{ID: "1", CategoryID: "cat-1"}
	catalog := []models.Product{
		{ID: "1", CategoryID: "cat-1"}, // the product itself, excluded
		{ID: "2", CategoryID: "cat-1"},
		{ID: "3", CategoryID: "cat-2"}, // different category, excluded
		{ID: "4", CategoryID: "cat-1"},
		{ID: "5", CategoryID: "cat-1"}, // beyond the limit
	}

	mockRepo.On("List", repositories.ProductFilter{ActiveOnly: true}).Return(catalog, nil).Once()

	related, err := service.RelatedProducts(current, 2)

	assert.NoError(t, err)
	assert.Len(t, related, 2)
	assert.Equal(t, "2", related[0].ID)
	assert.Equal(t, "4", related[1].ID)
	mockRepo.AssertExpectations(t)
}

func TestProductService_RelatedProductsWithoutCategory(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, new(MockCategoryRepository))

	related, err := service.RelatedProducts(&models.Product{ID: "1"}, 4)

	assert.NoError(t, err)
	assert.Empty(t, related)
	mockRepo.AssertNotCalled(t, "List", mock.Anything)
}

func TestProductService_Categories(t *testing.T) {
	mockCategories := new(MockCategoryRepository)
	service := services.NewProductService(new(MockProductRepository), mockCategories)

	expected := []models.Category{{ID: "cat-1", Name: "Dolls", Slug: "dolls"}}
	mockCategories.On("List").Return(expected, nil).Once()

	categories, err := service.ListCategories()

	assert.NoError(t, err)
	assert.Equal(t, expected, categories)
	mockCategories.AssertExpectations(t)
}
