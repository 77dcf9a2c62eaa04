package services

import (
	"context"
	"errors"
	"fmt"

	"shopcart/internal/auth"
	"shopcart/internal/models"
	"shopcart/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ProductQuery holds the raw list filters as received from the client.
type ProductQuery struct {
	Category string
	MinPrice string
	MaxPrice string
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	events   EventPublisher
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, logger zerolog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		events:   events,
		validate: newValidator(),
		logger:   logger.With().Str("service", "product").Logger(),
	}
}

// requireAdmin returns a DomainError unless the caller holds admin privilege.
func requireAdmin(ctx context.Context) error {
	p := auth.FromContext(ctx)
	if !p.Authenticated {
		return models.NewDomainError(models.KindUnauthorized, models.MsgAuthenticationRequired)
	}
	if !p.Admin {
		return models.NewDomainError(models.KindForbidden, models.MsgPermissionDenied)
	}
	return nil
}

// parseFilter turns the raw query into a repository filter. Price bounds that
// do not parse as decimals are dropped.
func parseFilter(q ProductQuery) repositories.ProductFilter {
	filter := repositories.ProductFilter{Category: q.Category}
	if d, err := decimal.NewFromString(q.MinPrice); err == nil {
		filter.MinPrice = &d
	}
	if d, err := decimal.NewFromString(q.MaxPrice); err == nil {
		filter.MaxPrice = &d
	}
	return filter
}

// GetAllProducts retrieves the products matching q, ordered by name.
func (s *ProductService) GetAllProducts(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	return s.repo.GetAll(ctx, parseFilter(q))
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, models.MsgProductNotFound)
	}
	return product, nil
}

// CreateProduct validates in and stores it as a new product.
func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := ValidateProductInput(s.validate, in); err != nil {
		return nil, err
	}

	product := &models.Product{}
	applyInput(product, in)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", product.ID).Str("name", product.Name).Msg("product created")
	publish(ctx, s.events, s.logger, EventProductCreated, ProductEvent{ProductID: product.ID, Name: product.Name, Stock: product.Stock})
	return product, nil
}

// UpdateProduct replaces the writable fields of product id with in.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateProductInput(s.validate, in); err != nil {
		return nil, err
	}

	applyInput(product, in)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, translateNotFound(err, models.MsgProductNotFound)
	}

	updated, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, s.logger, EventProductUpdated, ProductEvent{ProductID: updated.ID, Name: updated.Name, Stock: updated.Stock})
	return updated, nil
}

// DeleteProduct deletes a product and every cart item referencing it.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateNotFound(err, models.MsgProductNotFound)
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	publish(ctx, s.events, s.logger, EventProductDeleted, ProductEvent{ProductID: id})
	return nil
}

// applyInput copies in onto p. Absent optional fields keep their current value,
// which for a new product means zero stock and no description.
func applyInput(p *models.Product, in ProductInput) {
	p.Name = in.Name
	p.Category = in.Category
	p.Price = *in.Price
	p.ImageThumbnail = in.ImageThumbnail
	p.ImageMobile = in.ImageMobile
	p.ImageTablet = in.ImageTablet
	p.ImageDesktop = in.ImageDesktop
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Description != nil {
		p.Description = in.Description
	}
}

// translateNotFound maps a wrapped repositories.ErrNotFound to a 404 DomainError.
func translateNotFound(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return models.NewDomainError(models.KindNotFound, message)
	}
	return fmt.Errorf("storage failure: %w", err)
}
