package services_test

import (
	"context"
	"fmt"
	"testing"

	"shopcart/internal/models"
	"shopcart/internal/repositories"
	"shopcart/internal/services"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func assertKind(t *testing.T, err error, kind models.ErrorKind) *models.DomainError {
	t.Helper()
	require.Error(t, err)
	de, ok := models.AsDomainError(err)
	require.True(t, ok, "expected a DomainError, got %v", err)
	assert.Equal(t, kind, de.Kind)
	return de
}

func TestProductService_GetAllProducts_ParsesFilters(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, zerolog.Nop())
	ctx := context.Background()

	expected := []models.Product{{ID: "1", Name: "Product A", Stock: 100}}

	mockRepo.On("GetAll", ctx, mock.MatchedBy(func(f repositories.ProductFilter) bool {
		return f.Category == "cat" && f.MinPrice != nil && f.MinPrice.Equal(decimal.NewFromInt(5)) && f.MaxPrice == nil
	})).Return(expected, nil).Once()

	products, err := service.GetAllProducts(ctx, services.ProductQuery{Category: "cat", MinPrice: "5", MaxPrice: "abc"})
	assert.NoError(t, err)
	assert.Equal(t, expected, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, zerolog.Nop())
	ctx := context.Background()

	expectedProduct := &models.Product{ID: "1", Name: "Product A", Stock: 100}
	mockRepo.On("GetByID", ctx, "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(ctx, "1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	mockRepo.On("GetByID", ctx, "99").Return(nil, fmt.Errorf("product with ID 99: %w", repositories.ErrNotFound)).Once()
	product, err = service.GetProductByID(ctx, "99")
	de := assertKind(t, err, models.KindNotFound)
	assert.Equal(t, models.MsgProductNotFound, de.Message)
	assert.Nil(t, product)

	mockRepo.On("GetByID", ctx, "boom").Return(nil, fmt.Errorf("connection refused")).Once()
	_, err = service.GetProductByID(ctx, "boom")
	require.Error(t, err)
	_, isDomain := models.AsDomainError(err)
	assert.False(t, isDomain, "storage failures are not domain errors")
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	events := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, events, zerolog.Nop())
	ctx := adminCtx()

	mockRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Test Product" && p.Stock == 5 && p.Price.Equal(decimal.NewFromInt(10))
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Product).ID = "new-id"
	}).Return(nil).Once()
	events.On("Publish", ctx, services.EventProductCreated, services.ProductEvent{ProductID: "new-id", Name: "Test Product", Stock: 5}).Return(nil).Once()

	product, err := service.CreateProduct(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "new-id", product.ID)
	assert.True(t, product.IsInStock())
	mockRepo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestProductService_CreateProduct_DefaultsStockToZero(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, zerolog.Nop())
	ctx := adminCtx()

	in := validInput()
	in.Stock = nil
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := service.CreateProduct(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)
	assert.False(t, product.IsInStock())
}

func TestProductService_CreateProduct_PublishFailureIsIgnored(t *testing.T) {
	mockRepo := new(MockProductRepository)
	events := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, events, zerolog.Nop())
	ctx := adminCtx()

	mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	events.On("Publish", ctx, services.EventProductCreated, mock.Anything).Return(fmt.Errorf("broker down")).Once()

	_, err := service.CreateProduct(ctx, validInput())
	assert.NoError(t, err)
}

func TestProductService_CreateProduct_Rejections(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, zerolog.Nop())

	_, err := service.CreateProduct(context.Background(), validInput())
	assertKind(t, err, models.KindUnauthorized)

	_, err = service.CreateProduct(userCtx(), validInput())
	assertKind(t, err, models.KindForbidden)

	in := validInput()
	in.Stock = intPtr(-1)
	_, err = service.CreateProduct(adminCtx(), in)
	de := assertKind(t, err, models.KindValidation)
	assert.Equal(t, "Stock cannot be negative", de.Message)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, zerolog.Nop())
	ctx := adminCtx()

	existing := &models.Product{ID: "1", Name: "Old", Stock: 9, Price: decimal.NewFromInt(1)}
	updated := &models.Product{ID: "1", Name: "Test Product", Stock: 5, Price: decimal.NewFromInt(10)}

	mockRepo.On("GetByID", ctx, "1").Return(existing, nil).Once()
	mockRepo.On("Update", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.ID == "1" && p.Name == "Test Product" && p.Stock == 5
	})).Return(nil).Once()
	mockRepo.On("GetByID", ctx, "1").Return(updated, nil).Once()

	product, err := service.UpdateProduct(ctx, "1", validInput())
	require.NoError(t, err)
	assert.Equal(t, updated, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct_Rejections(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, zerolog.Nop())

	_, err := service.UpdateProduct(userCtx(), "1", validInput())
	assertKind(t, err, models.KindForbidden)

	ctx := adminCtx()
	mockRepo.On("GetByID", ctx, "99").Return(nil, fmt.Errorf("x: %w", repositories.ErrNotFound)).Once()
	_, err = service.UpdateProduct(ctx, "99", validInput())
	assertKind(t, err, models.KindNotFound)

	mockRepo.On("GetByID", ctx, "1").Return(&models.Product{ID: "1", Stock: 3}, nil).Once()
	in := validInput()
	in.Stock = intPtr(-5)
	_, err = service.UpdateProduct(ctx, "1", in)
	de := assertKind(t, err, models.KindValidation)
	assert.Equal(t, models.MsgStockNegative, de.Fields["stock"])

	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	events := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, events, zerolog.Nop())
	ctx := adminCtx()

	mockRepo.On("Delete", ctx, "1").Return(nil).Once()
	events.On("Publish", ctx, services.EventProductDeleted, services.ProductEvent{ProductID: "1"}).Return(nil).Once()
	assert.NoError(t, service.DeleteProduct(ctx, "1"))

	mockRepo.On("Delete", ctx, "99").Return(fmt.Errorf("x: %w", repositories.ErrNotFound)).Once()
	assertKind(t, service.DeleteProduct(ctx, "99"), models.KindNotFound)

	assertKind(t, service.DeleteProduct(userCtx(), "1"), models.KindForbidden)
	assertKind(t, service.DeleteProduct(context.Background(), "1"), models.KindUnauthorized)

	mockRepo.AssertExpectations(t)
	events.AssertExpectations(t)
}
