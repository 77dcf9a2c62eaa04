package middleware_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopcart/internal/auth"
	"shopcart/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	principals map[string]auth.Principal
}

func (s stubResolver) PrincipalFromToken(token string) (auth.Principal, error) {
	p, ok := s.principals[token]
	if !ok {
		return auth.Principal{}, errors.New("invalid token")
	}
	return p, nil
}

func newApp(logger zerolog.Logger) *fiber.App {
	resolver := stubResolver{principals: map[string]auth.Principal{
		"admin-token": {UserID: "1", Authenticated: true, Admin: true},
		"user-token":  {UserID: "2", Authenticated: true},
	}}

	app := fiber.New()
	app.Use(middleware.RequestLogger(logger))
	app.Use(middleware.Authenticate(resolver, logger))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		p := auth.FromContext(c.UserContext())
		return c.JSON(fiber.Map{"authenticated": p.Authenticated, "admin": p.Admin})
	})
	app.Get("/private", middleware.RequireAuthenticated(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/admin", middleware.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestAuthenticate(t *testing.T) {
	app := newApp(zerolog.Nop())

	tests := []struct {
		name   string
		header string
		path   string
		status int
		body   string
	}{
		{name: "anonymous", path: "/whoami", status: http.StatusOK, body: `{"admin":false,"authenticated":false}`},
		{name: "valid token", header: "Bearer admin-token", path: "/whoami", status: http.StatusOK, body: `{"admin":true,"authenticated":true}`},
		{name: "bad scheme", header: "Token admin-token", path: "/whoami", status: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", path: "/whoami", status: http.StatusUnauthorized},
		{name: "private anonymous", path: "/private", status: http.StatusUnauthorized},
		{name: "private authenticated", header: "Bearer user-token", path: "/private", status: http.StatusNoContent},
		{name: "admin anonymous", path: "/admin", status: http.StatusUnauthorized},
		{name: "admin as user", header: "Bearer user-token", path: "/admin", status: http.StatusForbidden},
		{name: "admin as admin", header: "Bearer admin-token", path: "/admin", status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.body != "" {
				var buf bytes.Buffer
				_, _ = buf.ReadFrom(resp.Body)
				assert.JSONEq(t, tt.body, buf.String())
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := newApp(zerolog.New(&buf))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Contains(t, buf.String(), `"path":"/whoami"`)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"message":"http request"`)
}
