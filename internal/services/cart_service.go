package services

import (
	"context"
	"errors"

	"shopcart/internal/auth"
	"shopcart/internal/models"
	"shopcart/internal/repositories"

	"github.com/rs/zerolog"
)

// AddItemInput is the body of an add-to-cart request. Quantity is kept as the
// decoded JSON value so that non-integer input can be reported precisely.
type AddItemInput struct {
	ProductID string      `json:"product_id"`
	Quantity  interface{} `json:"quantity"`
}

// UpdateItemInput is the body of a cart item update.
type UpdateItemInput struct {
	Quantity interface{} `json:"quantity"`
}

// CartService handles business logic related to the cart.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	events      EventPublisher
	logger      zerolog.Logger
}

// NewCartService creates a new CartService. events may be nil.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository, events EventPublisher, logger zerolog.Logger) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		events:      events,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

func requireAuthenticated(ctx context.Context) error {
	if !auth.FromContext(ctx).Authenticated {
		return models.NewDomainError(models.KindUnauthorized, models.MsgAuthenticationRequired)
	}
	return nil
}

// GetAllItems retrieves every cart item with its product.
func (s *CartService) GetAllItems(ctx context.Context) ([]models.CartItem, error) {
	return s.cartRepo.GetAll(ctx)
}

// GetItemByID retrieves a single cart item by its ID.
func (s *CartService) GetItemByID(ctx context.Context, id string) (*models.CartItem, error) {
	item, err := s.cartRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, models.MsgCartItemNotFound)
	}
	return item, nil
}

// AddItem puts a product into the cart. When the product is already in the
// cart the quantities are merged instead of creating a second item.
func (s *CartService) AddItem(ctx context.Context, in AddItemInput) (*models.CartItem, error) {
	if err := requireAuthenticated(ctx); err != nil {
		return nil, err
	}
	if in.ProductID == "" {
		return nil, models.NewValidationError(msgInvalidCartItem, map[string]string{"product_id": msgFieldRequired})
	}
	quantity := 1
	if in.Quantity != nil {
		q, err := ParseQuantity(in.Quantity)
		if err != nil {
			return nil, err
		}
		quantity = q
	}

	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, translateNotFound(err, models.MsgProductNotFound)
	}
	if quantity > product.Stock {
		return nil, models.NewValidationError(models.MsgQuantityExceedsStock,
			map[string]string{"quantity": models.MsgQuantityExceedsStock})
	}

	existing, err := s.cartRepo.GetByProductID(ctx, product.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		item := &models.CartItem{ProductID: product.ID, Quantity: quantity}
		if err := s.cartRepo.Create(ctx, item); err != nil {
			return nil, translateNotFound(err, models.MsgProductNotFound)
		}
		item.Product = *product

		s.logger.Info().Str("cart_item_id", item.ID).Str("product_id", product.ID).Int("quantity", quantity).Msg("cart item created")
		publish(ctx, s.events, s.logger, EventCartItemAdded, CartItemEvent{CartItemID: item.ID, ProductID: product.ID, Quantity: item.Quantity})
		return item, nil
	}
	if err != nil {
		return nil, translateNotFound(err, models.MsgProductNotFound)
	}

	if existing.Quantity+quantity > product.Stock {
		return nil, models.NewValidationError(models.MsgTotalExceedsStock,
			map[string]string{"quantity": models.MsgTotalExceedsStock})
	}
	merged, err := s.cartRepo.IncrementQuantity(ctx, existing.ID, quantity, product.Stock)
	if err != nil {
		return nil, translateNotFound(err, models.MsgCartItemNotFound)
	}
	if !merged {
		// Another request changed the item between the read and the increment.
		return nil, models.NewValidationError(models.MsgTotalExceedsStock,
			map[string]string{"quantity": models.MsgTotalExceedsStock})
	}

	item, err := s.GetItemByID(ctx, existing.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("cart_item_id", item.ID).Str("product_id", product.ID).Int("quantity", item.Quantity).Msg("cart item merged")
	publish(ctx, s.events, s.logger, EventCartItemAdded, CartItemEvent{CartItemID: item.ID, ProductID: product.ID, Quantity: item.Quantity, Merged: true})
	return item, nil
}

// UpdateItemQuantity sets the quantity of cart item id after checking it
// against the product's current stock.
func (s *CartService) UpdateItemQuantity(ctx context.Context, id string, in UpdateItemInput) (*models.CartItem, error) {
	if err := requireAuthenticated(ctx); err != nil {
		return nil, err
	}
	item, err := s.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	quantity, err := ParseQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}
	if quantity > item.Product.Stock {
		return nil, models.NewValidationError(models.MsgQuantityExceedsStock,
			map[string]string{"quantity": models.MsgQuantityExceedsStock})
	}

	if err := s.cartRepo.UpdateQuantity(ctx, id, quantity); err != nil {
		return nil, translateNotFound(err, models.MsgCartItemNotFound)
	}
	updated, err := s.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, s.logger, EventCartItemUpdated, CartItemEvent{CartItemID: id, ProductID: updated.ProductID, Quantity: updated.Quantity})
	return updated, nil
}

// RemoveItem deletes cart item id.
func (s *CartService) RemoveItem(ctx context.Context, id string) error {
	if err := requireAuthenticated(ctx); err != nil {
		return err
	}
	if err := s.cartRepo.Delete(ctx, id); err != nil {
		return translateNotFound(err, models.MsgCartItemNotFound)
	}

	s.logger.Info().Str("cart_item_id", id).Msg("cart item removed")
	publish(ctx, s.events, s.logger, EventCartItemRemoved, CartItemEvent{CartItemID: id})
	return nil
}
