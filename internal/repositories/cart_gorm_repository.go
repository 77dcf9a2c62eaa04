package repositories

import (
	"context"
	"errors"
	"fmt"

	"shopcart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

func (r *GORMCartRepository) withProduct(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Product")
}

// GetAll retrieves every cart item in insertion order.
func (r *GORMCartRepository) GetAll(ctx context.Context) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.withProduct(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	return items, nil
}

// GetByID retrieves a single cart item by its ID.
func (r *GORMCartRepository) GetByID(ctx context.Context, id string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.withProduct(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item by ID %s: %w", id, err)
	}
	return &item, nil
}

// GetByProductID retrieves the cart item holding productID, if any.
func (r *GORMCartRepository) GetByProductID(ctx context.Context, productID string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.withProduct(ctx).First(&item, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item for product %s: %w", productID, err)
	}
	return &item, nil
}

// Create inserts a new cart item. The referenced product is not touched.
func (r *GORMCartRepository) Create(ctx context.Context, item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit("Product").Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

// UpdateQuantity sets the quantity of an existing cart item.
func (r *GORMCartRepository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// IncrementQuantity performs the increment as a single conditional UPDATE.
func (r *GORMCartRepository) IncrementQuantity(ctx context.Context, id string, delta, limit int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND quantity + ? <= ?", id, delta, limit).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return false, fmt.Errorf("failed to increment cart item %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a cart item by its ID.
func (r *GORMCartRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
