package services_test

import (
	"context"

	"shopcart/internal/auth"
	"shopcart/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func adminCtx() context.Context {
	return auth.WithPrincipal(context.Background(), auth.Principal{UserID: "admin-1", Username: "admin", Authenticated: true, Admin: true})
}

func userCtx() context.Context {
	return auth.WithPrincipal(context.Background(), auth.Principal{UserID: "user-1", Username: "shopper", Authenticated: true})
}

func intPtr(i int) *int { return &i }

func priceOf(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validInput() services.ProductInput {
	return services.ProductInput{
		Name:           "Test Product",
		Category:       "Test Category",
		Price:          priceOf("10.00"),
		ImageThumbnail: "http://example.com/thumbnail.jpg",
		ImageMobile:    "http://example.com/mobile.jpg",
		ImageTablet:    "http://example.com/tablet.jpg",
		ImageDesktop:   "http://example.com/desktop.jpg",
		Stock:          intPtr(5),
	}
}
