package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"sneakerhead/internal/models"
	"sneakerhead/internal/repositories"
	"sneakerhead/internal/services"
	"sneakerhead/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) products(args mock.Arguments) ([]models.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) product(args mock.Arguments) (*models.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[string]models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockProductRepository) ToggleActive(ctx context.Context, id string) (*models.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockProductRepository) List(ctx context.Context, filter models.ProductFilter, page models.PageRequest) ([]models.Product, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) AdminList(ctx context.Context, search string, page models.PageRequest) ([]models.Product, int64, error) {
	args := m.Called(ctx, search, page)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ListActive(ctx context.Context, limit int) ([]models.Product, error) {
	return m.products(m.Called(ctx, limit))
}

func (m *MockProductRepository) ListTrending(ctx context.Context) ([]models.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockProductRepository) ListNew(ctx context.Context) ([]models.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockProductRepository) Related(ctx context.Context, productID, category string, limit int) ([]models.Product, error) {
	return m.products(m.Called(ctx, productID, category, limit))
}

func (m *MockProductRepository) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	return m.products(m.Called(ctx, query, limit))
}

func (m *MockProductRepository) Brands(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *MockProductRepository) RestoreStock(ctx context.Context, id string, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, 12)
	ctx := context.Background()

	expectedProducts := []models.Product{
		{ID: "1", Name: "Product A", Price: 10.0, Stock: 100},
		{ID: "2", Name: "Product B", Price: 20.0, Stock: 50},
	}
	mockRepo.On("GetAll", ctx).Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(ctx)

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Get(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, 12)
	ctx := context.Background()

	active := &models.Product{ID: "1", Name: "Air Max 90", Category: "Running", IsActive: true}
	hidden := &models.Product{ID: "2", Name: "Old Model", IsActive: false}
	mockRepo.On("GetByID", ctx, "1").Return(active, nil)
	mockRepo.On("GetByID", ctx, "2").Return(hidden, nil)
	mockRepo.On("GetByID", ctx, "99").Return(nil, fmt.Errorf("product with ID 99: %w", repositories.ErrNotFound))
	mockRepo.On("Related", ctx, "1", "Running", 4).Return([]models.Product{{ID: "3"}}, nil).Once()

	detail, err := service.Detail(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, active, detail.Product)
	assert.Len(t, detail.Related, 1)

	_, err = service.Get(ctx, "2")
	assert.ErrorIs(t, err, services.ErrNotFound)

	product, err := service.GetProductByID(ctx, "2")
	require.NoError(t, err, "admins still see hidden products")
	assert.Equal(t, hidden, product)

	_, err = service.Get(ctx, "99")
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_List(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, 12)
	ctx := context.Background()

	filter := models.ProductFilter{Search: "air"}
	mockRepo.On("List", ctx, filter, models.PageRequest{Page: 1, Limit: 12}).
		Return([]models.Product{{ID: "1"}}, int64(25), nil).Once()

	page, err := service.List(ctx, filter, models.PageRequest{Page: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.EqualValues(t, 25, page.Total)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Suggest(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, 12)
	ctx := context.Background()

	got, err := service.Suggest(ctx, " a ")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	mockRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)

	mockRepo.On("Search", ctx, "air", 5).Return([]models.Product{
		{ID: "1", Name: "Air Max 90", Brand: "Nike", Price: 120, Image: "/a.png", Stock: 4},
	}, nil).Once()
	got, err = service.Suggest(ctx, "air")
	require.NoError(t, err)
	assert.Equal(t, []models.ProductSuggestion{{ID: "1", Name: "Air Max 90", Brand: "Nike", Price: 120, Image: "/a.png"}}, got)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, 12)
	ctx := context.Background()

	err := service.CreateProduct(ctx, &models.Product{Name: "AB", Price: 0})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "price")
	assert.Contains(t, verr.Fields, "category")

	product := &models.Product{Name: " Air Max 90 ", Price: 120, Category: "Running", Stock: 0, Images: []string{"/a.png"}}
	mockRepo.On("Create", ctx, product).Return(nil).Once()
	require.NoError(t, service.CreateProduct(ctx, product))
	assert.Equal(t, "Air Max 90", product.Name)
	assert.True(t, product.IsActive)
	assert.False(t, product.InStock)
	assert.Equal(t, "/a.png", product.Image)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, 12)
	ctx := context.Background()

	existing := &models.Product{ID: "1", Name: "Air Max 90", Price: 120, Category: "Running", IsActive: true}
	mockRepo.On("GetByID", ctx, "1").Return(existing, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()

	updated, err := service.UpdateProduct(ctx, "1", &models.Product{Name: "Air Max 95", Price: 150, Category: "Running", Stock: 3})
	require.NoError(t, err)
	assert.Equal(t, "1", updated.ID)
	assert.True(t, updated.IsActive)
	assert.Equal(t, "Air Max 95", updated.Name)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, 12)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, "1").Return(&models.Product{ID: "1"}, nil).Once()
	assert.NoError(t, service.DeleteProduct(ctx, "1"))

	mockRepo.On("Delete", ctx, "99").Return(nil, repositories.ErrNotFound).Once()
	err := service.DeleteProduct(ctx, "99")
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
