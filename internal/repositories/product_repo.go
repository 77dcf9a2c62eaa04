package repositories

import (
	"context"
	"errors"

	"shopcart/internal/models"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned (wrapped) when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// ProductFilter narrows GetAll. Zero fields are ignored.
type ProductFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	// Delete removes the product and every cart item referencing it.
	Delete(ctx context.Context, id string) error
}
