package services

import (
	"context"

	"github.com/rs/zerolog"
)

// Routing keys for the domain events emitted by the services.
const (
	EventProductCreated  = "product.created"
	EventProductUpdated  = "product.updated"
	EventProductDeleted  = "product.deleted"
	EventCartItemAdded   = "cart.item.added"
	EventCartItemUpdated = "cart.item.updated"
	EventCartItemRemoved = "cart.item.removed"
)

// EventPublisher delivers domain events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// ProductEvent is the payload of product.* events.
type ProductEvent struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Stock     int    `json:"stock"`
}

// CartItemEvent is the payload of cart.item.* events.
type CartItemEvent struct {
	CartItemID string `json:"cart_item_id"`
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	Merged     bool   `json:"merged,omitempty"`
}

// publish sends an event if a publisher is configured. Failures are logged
// and never reach the caller.
func publish(ctx context.Context, events EventPublisher, logger zerolog.Logger, routingKey string, payload interface{}) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, routingKey, payload); err != nil {
		logger.Warn().Err(err).Str("routing_key", routingKey).Msg("failed to publish event")
	}
}
