package middleware

import (
	"strings"

	"shopcart/internal/auth"
	"shopcart/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// PrincipalResolver turns a bearer token into the caller's capabilities.
type PrincipalResolver interface {
	PrincipalFromToken(tokenString string) (auth.Principal, error)
}

// Authenticate is a Fiber middleware that resolves an optional bearer token
// into an auth.Principal on the request context. Requests without an
// Authorization header continue anonymously; malformed or invalid tokens are
// rejected with 401.
func Authenticate(resolver PrincipalResolver, logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header format must be 'Bearer <token>'",
			})
		}

		principal, err := resolver.PrincipalFromToken(parts[1])
		if err != nil {
			logger.Warn().Err(err).Str("path", c.Path()).Msg("JWT validation failed")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("principal", principal)
		c.SetUserContext(auth.WithPrincipal(c.UserContext(), principal))
		return c.Next()
	}
}

// RequireAuthenticated rejects anonymous callers before the request body is
// read. The services repeat the check for callers that bypass HTTP.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !auth.FromContext(c.UserContext()).Authenticated {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": models.MsgAuthenticationRequired,
			})
		}
		return c.Next()
	}
}

// RequireAdmin rejects anonymous callers with 401 and non-admins with 403.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := auth.FromContext(c.UserContext())
		if !p.Authenticated {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": models.MsgAuthenticationRequired,
			})
		}
		if !p.Admin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": models.MsgPermissionDenied,
			})
		}
		return c.Next()
	}
}
