package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopcart/internal/config"
	"shopcart/internal/repositories"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *App {
	products, cart, users := repositories.NewMemoryRepositories()
	return New(Dependencies{
		Products: products,
		Cart:     cart,
		Users:    users,
		Auth:     config.AuthConfig{JWTSecret: "secret", TokenTTL: time.Minute},
		Logger:   zerolog.Nop(),
	})
}

func TestRoutes(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantKey    string
	}{
		{name: "welcome", method: http.MethodGet, path: "/", wantStatus: http.StatusOK, wantKey: "message"},
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK, wantKey: "status"},
		{name: "products without slash", method: http.MethodGet, path: "/api/products", wantStatus: http.StatusOK},
		{name: "products with slash", method: http.MethodGet, path: "/api/products/", wantStatus: http.StatusOK},
		{name: "cart with slash", method: http.MethodGet, path: "/api/cart/", wantStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/api/orders", wantStatus: http.StatusNotFound, wantKey: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Fiber.Test(httptest.NewRequest(tt.method, tt.path, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantKey == "" {
				return
			}
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Contains(t, body, tt.wantKey)
		})
	}
}

func TestEmptyListsAreArrays(t *testing.T) {
	app := newTestApp()

	for _, path := range []string{"/api/products/", "/api/cart/"} {
		resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)

		var body []interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.NotNil(t, body, path)
		assert.Empty(t, body, path)
	}
}
