package repositories

import (
	"context"

	"shopcart/internal/models"
)

// CartRepository defines the interface for cart item data access.
// Items returned by the getters always have Product populated.
type CartRepository interface {
	GetAll(ctx context.Context) ([]models.CartItem, error)
	GetByID(ctx context.Context, id string) (*models.CartItem, error)
	GetByProductID(ctx context.Context, productID string) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	// IncrementQuantity adds delta to the stored quantity only if the result
	// stays within limit. It reports whether the row was changed.
	IncrementQuantity(ctx context.Context, id string, delta, limit int) (bool, error)
	Delete(ctx context.Context, id string) error
}
